package state

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/ashureev/superset/internal/protocol"
)

func events(frames ...string) []protocol.Event {
	out := make([]protocol.Event, 0, len(frames))
	for _, f := range frames {
		out = append(out, protocol.Decode([]byte(f)))
	}
	return out
}

const (
	squatWorkout = `{"type":"AGENT_RESPONSE","workout":{"exercises":[{"name":"Squat","sets":3,"reps":"5"}]},"state":{"fatigue_scores":{"iron":0.4}}}`
	pullWorkout  = `{"type":"AGENT_RESPONSE","is_working_out":true,"workout":{"title":"Back","focus_area":"Pull","exercises":[{"name":"Row","sets":4,"reps":"8"}]}}`
	completed    = `{"type":"AGENT_RESPONSE","workout_completed":true}`
	chatter      = `{"type":"AGENT_RESPONSE","greeting_message":"nice"}`
	emptyWorkout = `{"type":"AGENT_RESPONSE","workout":{"exercises":[]}}`
	errorFrame   = `{"type":"ERROR","message":"bad"}`
	textFrame    = `not json`
)

func TestCurrentWorkoutFirstResponse(t *testing.T) {
	w, ok := CurrentWorkout(events(squatWorkout))
	if !ok {
		t.Fatal("Expected a workout")
	}
	if w.Title != "Today's Workout" {
		t.Errorf("Expected default title, got %q", w.Title)
	}
	if w.Coach != "iron" {
		t.Errorf("Expected coach iron, got %q", w.Coach)
	}
	if len(w.Exercises) != 1 {
		t.Fatalf("Expected 1 exercise, got %d", len(w.Exercises))
	}
	ex := w.Exercises[0]
	if ex.Name != "Squat" || ex.Sets != 3 || ex.Reps != "5" {
		t.Errorf("Expected Squat 3x5, got %s %dx%s", ex.Name, ex.Sets, ex.Reps)
	}
	if w.Fatigue == nil || *w.Fatigue != 0.4 {
		t.Fatalf("Expected raw fatigue 0.4, got %v", w.Fatigue)
	}
	if display, _ := w.FatigueDisplay(); display != 4 {
		t.Errorf("Expected display fatigue 4, got %d", display)
	}
}

func TestCurrentWorkoutSkipsResponsesWithoutExercises(t *testing.T) {
	w, ok := CurrentWorkout(events(pullWorkout, chatter, emptyWorkout, errorFrame, textFrame))
	if !ok {
		t.Fatal("Expected earlier workout to remain current")
	}
	if w.Title != "Back" || w.Coach != "iron" {
		t.Errorf("Unexpected snapshot: %+v", w)
	}
	if w.Fatigue != nil {
		t.Errorf("Expected no fatigue, got %v", *w.Fatigue)
	}
}

func TestCurrentWorkoutCompletionMasksEarlierWorkout(t *testing.T) {
	if _, ok := CurrentWorkout(events(squatWorkout, completed)); ok {
		t.Error("Expected no workout after completion")
	}
	if _, ok := CurrentWorkout(events(squatWorkout, completed, chatter)); ok {
		t.Error("Expected completion to mask workouts scanned past it")
	}
	if _, ok := CurrentWorkout(events(squatWorkout, completed, pullWorkout)); !ok {
		t.Error("Expected a new workout after completion to be current")
	}
}

func TestNoWorkoutWhenEmpty(t *testing.T) {
	if _, ok := CurrentWorkout(nil); ok {
		t.Error("Expected no workout for empty log")
	}
	if IsExecutingSet(nil) || IsCompleted(nil) {
		t.Error("Expected false flags for empty log")
	}
}

func TestFlagsFollowLatestResponse(t *testing.T) {
	log := events(pullWorkout, errorFrame)
	if !IsExecutingSet(log) {
		t.Error("Expected executing set from latest response")
	}
	log = append(log, protocol.Decode([]byte(chatter)))
	if IsExecutingSet(log) {
		t.Error("Expected latest response without flag to clear executing")
	}
	log = append(log, protocol.Decode([]byte(completed)))
	if !IsCompleted(log) {
		t.Error("Expected completed")
	}
}

func TestFatigueFlooredAtZero(t *testing.T) {
	w, ok := CurrentWorkout(events(`{"type":"AGENT_RESPONSE","workout":{"exercises":[{"name":"Row"}]},"state":{"fatigue_scores":{"iron":-0.2}}}`))
	if !ok {
		t.Fatal("Expected workout")
	}
	if w.Fatigue == nil || *w.Fatigue != 0 {
		t.Errorf("Expected fatigue 0, got %v", w.Fatigue)
	}
}

func TestLatestFatigue(t *testing.T) {
	f, ok := LatestFatigue(events(squatWorkout, chatter))
	if !ok || f != 0.4 {
		t.Errorf("Expected 0.4, got %v (%v)", f, ok)
	}
	if _, ok := LatestFatigue(events(chatter)); ok {
		t.Error("Expected no fatigue reading")
	}
}

func TestWeeklyProgressDefaults(t *testing.T) {
	completed, limit := WeeklyProgress(nil)
	if completed != 0 || limit != 4 {
		t.Errorf("Expected 0/4, got %d/%d", completed, limit)
	}
	three := 3
	completed, limit = WeeklyProgress(&protocol.Status{WorkoutsCompletedThisWeek: &three})
	if completed != 3 || limit != 4 {
		t.Errorf("Expected 3/4, got %d/%d", completed, limit)
	}
}

var pool = []string{squatWorkout, pullWorkout, completed, chatter, emptyWorkout, errorFrame, textFrame}

func randomLog(r *rand.Rand) []protocol.Event {
	n := r.Intn(12)
	frames := make([]string, n)
	for i := range frames {
		frames[i] = pool[r.Intn(len(pool))]
	}
	return events(frames...)
}

func TestNoWorkoutImmediatelyAfterCompletion(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		log := append(randomLog(r), protocol.Decode([]byte(completed)))
		if _, ok := CurrentWorkout(log); ok {
			t.Fatalf("iteration %d: expected no workout after completion", i)
		}
		if !IsCompleted(log) {
			t.Fatalf("iteration %d: expected completed", i)
		}
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		log := randomLog(r)
		first := Project(log)
		second := Project(log)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("iteration %d: projection changed between reads: %+v vs %+v", i, first, second)
		}
	}
}
