package mode

import (
	"context"

	"github.com/ashureev/superset/internal/protocol"
	"github.com/ashureev/superset/internal/state"
)

// autonomous bootstraps the workout on first connect and then only reacts.
type autonomous struct {
	deps    Deps
	effects *Effects
	// seen is the log length at the previous evaluation.
	seen int
}

func newAutonomous(deps Deps) *autonomous {
	return &autonomous{deps: deps, effects: NewEffects()}
}

func (a *autonomous) Mode() Mode { return Autonomous }

func (a *autonomous) OnConnect(ctx context.Context) {
	a.effects.Issue(EffectBootstrap, func() {
		sent := a.deps.Sender.Send(ctx, protocol.UserInput{Content: BootstrapPrompt})
		a.deps.Logger.Info("Autonomous session bootstrapped", "sent", sent)
	})
}

// OnNewEvents applies the transition rules to every log state appended
// since the previous call, so states that were superseded before this call
// still trigger their effects.
func (a *autonomous) OnNewEvents(_ context.Context, events []protocol.Event) {
	if len(events) < a.seen {
		a.seen = 0
	}
	for k := a.seen + 1; k <= len(events); k++ {
		a.react(events[:k])
	}
	a.seen = len(events)
}

func (a *autonomous) react(events []protocol.Event) {
	if state.IsCompleted(events) {
		a.navigate(EffectCompletion, ViewCompletion)
	}
	if _, ok := state.CurrentWorkout(events); ok {
		return
	}
	resp, ok := state.LatestResponse(events)
	if !ok {
		return
	}
	completed, limit := state.WeeklyProgress(resp.State)
	if completed >= limit {
		a.navigate(EffectRestDay, ViewRestDay)
	}
}

func (a *autonomous) navigate(effect Effect, view View) {
	a.effects.Issue(effect, func() {
		a.deps.Logger.Info("Navigating", "view", view)
		a.deps.Navigator.Navigate(view)
	})
}

func (a *autonomous) OnUserCommand(ctx context.Context, cmd protocol.Command) (bool, error) {
	if _, ok := cmd.(protocol.UserInput); ok {
		return false, ErrFreeTextInAutonomous
	}
	return a.deps.Sender.Send(ctx, cmd), nil
}
