package mode

import (
	"context"
	"errors"
	"testing"

	"github.com/ashureev/superset/internal/protocol"
	"github.com/ashureev/superset/internal/transcript"
)

type spySender struct {
	connected bool
	sent      []protocol.Command
}

func (s *spySender) Send(_ context.Context, cmd protocol.Command) bool {
	if !s.connected {
		return false
	}
	s.sent = append(s.sent, cmd)
	return true
}

type spyNavigator struct {
	views []View
}

func (n *spyNavigator) Navigate(v View) { n.views = append(n.views, v) }

func decode(frames ...string) []protocol.Event {
	out := make([]protocol.Event, 0, len(frames))
	for _, f := range frames {
		out = append(out, protocol.Decode([]byte(f)))
	}
	return out
}

const (
	restDayFrame   = `{"type":"AGENT_RESPONSE","state":{"workouts_completed_this_week":4,"max_workouts_per_week":4}}`
	workoutFrame   = `{"type":"AGENT_RESPONSE","is_working_out":true,"workout":{"exercises":[{"name":"Squat","sets":3,"reps":"5"}]}}`
	doneFrame      = `{"type":"AGENT_RESPONSE","workout_completed":true,"state":{"workouts_completed_this_week":4,"max_workouts_per_week":4}}`
	completedFrame = `{"type":"AGENT_RESPONSE","workout_completed":true,"state":{"workouts_completed_this_week":1,"max_workouts_per_week":4}}`
	ackFrame       = `{"type":"AGENT_RESPONSE","response":"Nice work.","state":{"workouts_completed_this_week":1,"max_workouts_per_week":4}}`
)

func newAutonomousController(sender *spySender, nav *spyNavigator) *Controller {
	return New(Autonomous, Deps{Sender: sender, Navigator: nav})
}

func TestAutonomousBootstrapsOnceAcrossFlaps(t *testing.T) {
	sender := &spySender{connected: true}
	c := newAutonomousController(sender, &spyNavigator{})
	ctx := context.Background()

	c.Evaluate(ctx, true, nil)
	c.Evaluate(ctx, true, nil)
	c.Evaluate(ctx, false, nil)
	c.Evaluate(ctx, true, nil)

	if len(sender.sent) != 1 {
		t.Fatalf("Expected exactly one bootstrap command, got %d", len(sender.sent))
	}
	in, ok := sender.sent[0].(protocol.UserInput)
	if !ok || in.Content != BootstrapPrompt {
		t.Errorf("Expected bootstrap prompt, got %+v", sender.sent[0])
	}
}

func TestAutonomousDoesNotBootstrapWhileDisconnected(t *testing.T) {
	sender := &spySender{}
	c := newAutonomousController(sender, &spyNavigator{})

	c.Evaluate(context.Background(), false, nil)
	if len(sender.sent) != 0 {
		t.Errorf("Expected no commands while disconnected, got %d", len(sender.sent))
	}
}

func TestAutonomousRestDayOnce(t *testing.T) {
	nav := &spyNavigator{}
	c := newAutonomousController(&spySender{connected: true}, nav)
	ctx := context.Background()

	log := decode(restDayFrame)
	c.Evaluate(ctx, true, log)
	log = append(log, decode(restDayFrame)...)
	c.Evaluate(ctx, true, log)

	if len(nav.views) != 1 || nav.views[0] != ViewRestDay {
		t.Errorf("Expected one rest-day navigation, got %v", nav.views)
	}
}

func TestAutonomousRestDayWaitsForWorkoutToClear(t *testing.T) {
	nav := &spyNavigator{}
	c := newAutonomousController(&spySender{connected: true}, nav)

	c.Evaluate(context.Background(), true, decode(workoutFrame, restDayFrame))
	if len(nav.views) != 0 {
		t.Errorf("Expected no navigation while a workout exists, got %v", nav.views)
	}
}

func TestAutonomousRestDayDefaults(t *testing.T) {
	nav := &spyNavigator{}
	c := newAutonomousController(&spySender{connected: true}, nav)
	ctx := context.Background()

	log := decode(`{"type":"AGENT_RESPONSE","state":{"workouts_completed_this_week":3}}`)
	c.Evaluate(ctx, true, log)
	if len(nav.views) != 0 {
		t.Fatalf("Expected 3 of default 4 to stay, got %v", nav.views)
	}

	log = append(log, decode(`{"type":"AGENT_RESPONSE","state":{"workouts_completed_this_week":4}}`)...)
	c.Evaluate(ctx, true, log)
	if len(nav.views) != 1 || nav.views[0] != ViewRestDay {
		t.Errorf("Expected rest-day at default max 4, got %v", nav.views)
	}
}

func TestAutonomousCompletionNavigatesOnce(t *testing.T) {
	nav := &spyNavigator{}
	c := newAutonomousController(&spySender{connected: true}, nav)
	ctx := context.Background()

	log := decode(workoutFrame, completedFrame)
	c.Evaluate(ctx, true, log)
	c.Evaluate(ctx, true, log)
	log = append(log, decode(completedFrame)...)
	c.Evaluate(ctx, true, log)

	if len(nav.views) != 1 || nav.views[0] != ViewCompletion {
		t.Errorf("Expected one completion navigation, got %v", nav.views)
	}
}

func TestAutonomousCompletionThenRestDay(t *testing.T) {
	nav := &spyNavigator{}
	c := newAutonomousController(&spySender{connected: true}, nav)

	c.Evaluate(context.Background(), true, decode(workoutFrame, doneFrame))

	want := []View{ViewCompletion, ViewRestDay}
	if len(nav.views) != len(want) {
		t.Fatalf("Expected %v, got %v", want, nav.views)
	}
	for i := range want {
		if nav.views[i] != want[i] {
			t.Errorf("Expected %v at %d, got %v", want[i], i, nav.views[i])
		}
	}
}

func TestAutonomousSeesSupersededCompletion(t *testing.T) {
	nav := &spyNavigator{}
	c := newAutonomousController(&spySender{connected: true}, nav)
	ctx := context.Background()

	c.Evaluate(ctx, true, nil)
	// All three arrive before the controller runs again.
	c.Evaluate(ctx, true, decode(workoutFrame, completedFrame, ackFrame))

	if len(nav.views) != 1 || nav.views[0] != ViewCompletion {
		t.Errorf("Expected completion navigation, got %v", nav.views)
	}
}

func TestAutonomousSeesSupersededRestDay(t *testing.T) {
	nav := &spyNavigator{}
	c := newAutonomousController(&spySender{connected: true}, nav)

	c.Evaluate(context.Background(), true, decode(restDayFrame, workoutFrame))

	if len(nav.views) != 1 || nav.views[0] != ViewRestDay {
		t.Errorf("Expected rest-day navigation, got %v", nav.views)
	}
}

func TestAutonomousRejectsFreeText(t *testing.T) {
	sender := &spySender{connected: true}
	c := newAutonomousController(sender, &spyNavigator{})

	_, err := c.Submit(context.Background(), protocol.UserInput{Content: "hi"})
	if !errors.Is(err, ErrFreeTextInAutonomous) {
		t.Errorf("Expected ErrFreeTextInAutonomous, got %v", err)
	}

	sent, err := c.Submit(context.Background(), protocol.FinishWorkout{})
	if err != nil || !sent {
		t.Errorf("Expected finish to be sent, got sent=%v err=%v", sent, err)
	}
}

func TestGuidedNeverActsOnItsOwn(t *testing.T) {
	sender := &spySender{connected: true}
	nav := &spyNavigator{}
	tr := transcript.NewBuilder()
	c := New(Guided, Deps{Sender: sender, Navigator: nav, Transcript: tr})
	ctx := context.Background()

	c.Evaluate(ctx, true, decode(restDayFrame, doneFrame))

	if len(sender.sent) != 0 {
		t.Errorf("Expected no automatic commands, got %d", len(sender.sent))
	}
	if len(nav.views) != 0 {
		t.Errorf("Expected no navigation, got %v", nav.views)
	}
	if n := len(tr.Entries()); n != 2 {
		t.Errorf("Expected 2 transcript entries, got %d", n)
	}
}

func TestGuidedSubmitAddsUserEntry(t *testing.T) {
	sender := &spySender{}
	tr := transcript.NewBuilder()
	c := New(Guided, Deps{Sender: sender, Transcript: tr})

	sent, err := c.Submit(context.Background(), protocol.UserInput{Content: "hello"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if sent {
		t.Error("Expected command to be dropped while disconnected")
	}
	entries := tr.Entries()
	if len(entries) != 1 || !entries[0].IsUser {
		t.Errorf("Expected user entry recorded, got %+v", entries)
	}

	if _, err := c.Submit(context.Background(), protocol.UserInput{Content: "   "}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestEffectsIssueOnce(t *testing.T) {
	e := NewEffects()
	calls := 0
	for i := 0; i < 3; i++ {
		e.Issue(EffectRestDay, func() { calls++ })
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if !e.Issued(EffectRestDay) || e.Issued(EffectBootstrap) {
		t.Error("Unexpected issued state")
	}
}

func TestModeString(t *testing.T) {
	if Guided.String() != "guided" || Autonomous.String() != "autonomous" {
		t.Errorf("Unexpected mode names: %s %s", Guided, Autonomous)
	}
}
