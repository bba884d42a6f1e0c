package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/workout"
)

func TestRenderEntrySkipsUserLines(t *testing.T) {
	var buf bytes.Buffer
	renderEntry(&buf, domain.ChatEntry{Content: "push day", IsUser: true})
	renderEntry(&buf, domain.ChatEntry{Content: "Let's go", Coach: "iron"})
	renderEntry(&buf, domain.ChatEntry{Content: "Got it."})

	out := buf.String()
	if strings.Contains(out, "push day") {
		t.Errorf("Expected user line to be skipped, got %q", out)
	}
	if !strings.Contains(out, "[iron]") || !strings.Contains(out, "Let's go") {
		t.Errorf("Expected coach-tagged reply, got %q", out)
	}
	if !strings.Contains(out, "[coach]") {
		t.Errorf("Expected fallback tag for unattributed reply, got %q", out)
	}
}

func TestRenderWorkout(t *testing.T) {
	rpe := 8.0
	fatigue := 0.34
	var buf bytes.Buffer
	renderWorkout(&buf, domain.WorkoutSnapshot{
		Title: "Push Day",
		Coach: "iron",
		Exercises: []domain.Exercise{
			{ID: "bench_press", Name: "Bench Press", Sets: 4, Reps: "6-8", RPE: &rpe},
			{Name: "Plank", Reps: "60s"},
		},
		Fatigue: &fatigue,
	})

	out := buf.String()
	for _, want := range []string{"Push Day (iron)", " 1. Bench Press  4 x 6-8  RPE 8", " 2. Plank  60s", "Fatigue: 3/10"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got %q", want, out)
		}
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderHistory(&buf, []workout.HistoryEntry{})
	if !strings.Contains(buf.String(), "Total workouts: 0") || !strings.Contains(buf.String(), "No workouts yet.") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}
