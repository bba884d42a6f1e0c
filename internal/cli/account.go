package cli

import (
	"fmt"
	"strings"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/identity"
	"github.com/spf13/cobra"
)

func newLoginCommand(app *App) *cobra.Command {
	var guest bool
	cmd := &cobra.Command{
		Use:   "login [id]",
		Short: "Store the identity used by the other commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id identity.Identity
			switch {
			case guest && len(args) > 0:
				return fmt.Errorf("pass an id or --guest, not both")
			case guest:
				id = identity.Guest()
			case len(args) == 1:
				var err error
				if id, err = identity.New(args[0]); err != nil {
					return err
				}
			default:
				return fmt.Errorf("an id or --guest is required")
			}

			if err := app.Keeper.Login(ctx, id); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", id)

			profile, err := app.API.Profile(ctx, id)
			if err != nil {
				app.Logger.Warn("Could not load profile", "user_id", id.String(), "error", err)
				fmt.Fprintln(out, "Could not reach the server to check onboarding.")
				return nil
			}
			if err := app.Keeper.SetOnboarded(ctx, profile.IsOnboarded); err != nil {
				return err
			}
			if !profile.IsOnboarded {
				fmt.Fprintln(out, "Next: run `superset onboard` to set up your coaches.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&guest, "guest", false, "Generate a guest identity")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Keeper.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the stored identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.requireIdentity(ctx)
			if err != nil {
				return err
			}
			onboarded, err := app.Keeper.Onboarded(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (onboarded: %t)\n", id, onboarded)
			return nil
		},
	}
}

func newOnboardCommand(app *App) *cobra.Command {
	var in domain.Intake
	var goal string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Submit the intake questionnaire and subscribe to coaches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.requireIdentity(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			in.AboutMe = joinNonEmpty(". ", goal, in.AboutMe)

			res, err := app.API.SubmitIntake(ctx, id, in)
			if err != nil {
				app.Logger.Warn("Intake failed, subscribing to the default coach", "user_id", id.String(), "error", err)
				fmt.Fprintf(out, "Intake failed (%v); continuing with the default coach.\n", app.describeAPIError(err))
				res = domain.IntakeResult{}
			}
			personas := res.PersonasToSubscribe()
			if err := app.API.SelectPersonas(ctx, id, personas); err != nil {
				app.Logger.Warn("Could not save coaches", "user_id", id.String(), "error", err)
				fmt.Fprintln(out, "Could not save your coaches. You can still use the app.")
			}
			if err := app.Keeper.SetOnboarded(ctx, true); err != nil {
				return err
			}
			fmt.Fprintf(out, "Coaches: %s\n", strings.Join(personas, ", "))
			return nil
		},
	}
	cmd.Flags().Float64Var(&in.HeightCm, "height", 0, "Height in cm")
	cmd.Flags().Float64Var(&in.WeightKg, "weight", 0, "Weight in kg")
	cmd.Flags().StringVar(&in.FitnessLevel, "level", "Intermediate", "Fitness level: beginner, intermediate or advanced")
	cmd.Flags().StringVar(&goal, "goal", "", "Main fitness goal")
	cmd.Flags().StringVar(&in.AboutMe, "about", "", "Limitations or anything else the coach should know")
	return cmd
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
