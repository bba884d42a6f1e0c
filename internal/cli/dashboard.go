package cli

import (
	"fmt"
	"strconv"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/identity"
	"github.com/spf13/cobra"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show weekly progress and fatigue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStatus(cmd, func(id identity.Identity) (domain.Status, error) {
				return app.API.Status(cmd.Context(), id)
			})
		},
	}
}

func newGoalCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "goal <workouts-per-week>",
		Short: "Set the weekly workout goal (1-7)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("goal must be a number: %w", err)
			}
			return app.withStatus(cmd, func(id identity.Identity) (domain.Status, error) {
				return app.API.SetWeeklyGoal(cmd.Context(), id, n)
			})
		},
	}
}

func newResetFatigueCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-fatigue",
		Short: "Clear all fatigue scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStatus(cmd, func(id identity.Identity) (domain.Status, error) {
				return app.API.ResetFatigue(cmd.Context(), id)
			})
		},
	}
}

func newNewWeekCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new-week",
		Short: "Start a new week of workouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStatus(cmd, func(id identity.Identity) (domain.Status, error) {
				return app.API.NewWeek(cmd.Context(), id)
			})
		},
	}
}

// withStatus runs fetch for the stored identity and prints the resulting
// status.
func (a *App) withStatus(cmd *cobra.Command, fetch func(identity.Identity) (domain.Status, error)) error {
	id, err := a.requireIdentity(cmd.Context())
	if err != nil {
		return err
	}
	st, err := fetch(id)
	if err != nil {
		return a.describeAPIError(err)
	}
	renderStatus(cmd.OutOrStdout(), st)
	return nil
}

func newHistoryCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List completed workouts, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.requireIdentity(ctx)
			if err != nil {
				return err
			}
			entries, err := app.API.History(ctx, id)
			if err != nil {
				return app.describeAPIError(err)
			}
			renderHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}
