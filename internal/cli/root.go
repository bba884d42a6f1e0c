// Package cli provides the superset command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ashureev/superset/internal/api"
	"github.com/ashureev/superset/internal/config"
	"github.com/ashureev/superset/internal/identity"
	"github.com/ashureev/superset/internal/session"
	"github.com/spf13/cobra"
)

// errNotLoggedIn is returned by commands that need a stored identity.
var errNotLoggedIn = errors.New("not logged in; run `superset login <id>` or `superset login --guest`")

// App carries the dependencies shared by all commands.
type App struct {
	Config          *config.Config
	Keeper          *identity.Keeper
	API             *api.Client
	ConversationLog session.ConversationLogger
	Logger          *slog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand(app *App) *cobra.Command {
	if app.Logger == nil {
		app.Logger = slog.Default()
	}
	root := &cobra.Command{
		Use:   "superset",
		Short: "Terminal client for the SuperSet coaching service",
		Long: `superset talks to the SuperSet coaching service.

Quick Start:
  superset login --guest       # Pick an identity
  superset onboard             # Answer the intake questions
  superset chat                # Plan and log a workout with your coach
  superset trust               # Let the coach run the session
  superset status              # Weekly progress and fatigue`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newOnboardCommand(app),
		newStatusCommand(app),
		newHistoryCommand(app),
		newGoalCommand(app),
		newResetFatigueCommand(app),
		newNewWeekCommand(app),
		newChatCommand(app),
		newTrustCommand(app),
		newStubCommand(app),
	)
	return root
}

// requireIdentity returns the stored identity or errNotLoggedIn.
func (a *App) requireIdentity(ctx context.Context) (identity.Identity, error) {
	id, ok, err := a.Keeper.Current(ctx)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("read identity: %w", err)
	}
	if !ok {
		return identity.Identity{}, errNotLoggedIn
	}
	return id, nil
}

// describeAPIError turns REST failures into a user-facing message.
func (a *App) describeAPIError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.IsTransport() {
		return fmt.Errorf("cannot reach the server at %s: %w", a.Config.APIBaseURL, err)
	}
	return err
}
