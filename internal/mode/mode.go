// Package mode implements the two operating modes of a session: guided chat,
// where every command comes from the user, and autonomous "trust" mode,
// where the client bootstraps the workout and navigates on its own.
package mode

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ashureev/superset/internal/protocol"
	"github.com/ashureev/superset/internal/transcript"
)

// BootstrapPrompt is sent once when an autonomous session first connects.
const BootstrapPrompt = "I want a workout."

var (
	// ErrFreeTextInAutonomous is returned when chat text is submitted in
	// autonomous mode.
	ErrFreeTextInAutonomous = errors.New("free text is not accepted in autonomous mode")
	// ErrEmptyInput is returned for blank chat text.
	ErrEmptyInput = errors.New("input is empty")
)

// Mode selects the session strategy.
type Mode int

const (
	Guided Mode = iota
	Autonomous
)

func (m Mode) String() string {
	switch m {
	case Guided:
		return "guided"
	case Autonomous:
		return "autonomous"
	default:
		return "unknown"
	}
}

// View is a navigation target signalled by the controller.
type View string

const (
	ViewCompletion View = "completion"
	ViewRestDay    View = "rest-day"
)

// Navigator receives navigation signals. It is called with the controller
// locked and must not call back into it.
type Navigator interface {
	Navigate(view View)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(View)

// Navigate calls f(view).
func (f NavigatorFunc) Navigate(view View) { f(view) }

// CommandSender writes commands to the session channel.
type CommandSender interface {
	Send(ctx context.Context, cmd protocol.Command) bool
}

// Deps are the collaborators shared by both strategies.
type Deps struct {
	Sender     CommandSender
	Transcript *transcript.Builder
	Navigator  Navigator
	Logger     *slog.Logger
}

// Strategy is one mode's reaction to session activity.
type Strategy interface {
	Mode() Mode
	// OnConnect runs each time the channel becomes connected.
	OnConnect(ctx context.Context)
	// OnNewEvents runs each time the event log changes.
	OnNewEvents(ctx context.Context, events []protocol.Event)
	// OnUserCommand handles an explicit user action. It reports whether the
	// command was written to the channel.
	OnUserCommand(ctx context.Context, cmd protocol.Command) (bool, error)
}

// Controller drives one strategy, chosen once at session start.
type Controller struct {
	mu        sync.Mutex
	strategy  Strategy
	connected bool
}

// New creates a controller running the strategy for m.
func New(m Mode, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Transcript == nil {
		deps.Transcript = transcript.NewBuilder()
	}
	if deps.Navigator == nil {
		deps.Navigator = NavigatorFunc(func(View) {})
	}

	var s Strategy
	switch m {
	case Autonomous:
		s = newAutonomous(deps)
	default:
		s = newGuided(deps)
	}
	return &Controller{strategy: s}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.strategy.Mode()
}

// Evaluate re-runs the strategy against the current connectivity and log.
// Call it after every status change and every append.
func (c *Controller) Evaluate(ctx context.Context, connected bool, events []protocol.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rising := connected && !c.connected
	c.connected = connected
	if rising {
		c.strategy.OnConnect(ctx)
	}
	c.strategy.OnNewEvents(ctx, events)
}

// Submit routes a user command through the strategy.
func (c *Controller) Submit(ctx context.Context, cmd protocol.Command) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strategy.OnUserCommand(ctx, cmd)
}
