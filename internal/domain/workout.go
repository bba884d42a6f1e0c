// Package domain contains core domain types for the SuperSet client.
package domain

import "math"

// Exercise is one prescribed movement in a workout.
type Exercise struct {
	ID    string   `json:"id,omitempty"`
	Name  string   `json:"name"`
	Sets  int      `json:"sets"`
	Reps  string   `json:"reps"` // rep range or duration, display only
	RPE   *float64 `json:"rpe,omitempty"`
	Notes *string  `json:"notes,omitempty"`
}

// Key returns the identity of the exercise: its stable ID when the service
// sent one, otherwise its name.
func (e Exercise) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name
}

// WorkoutSnapshot is the client's reconstruction of the workout in progress.
type WorkoutSnapshot struct {
	Title     string     `json:"title"`
	Coach     string     `json:"coach"`
	Exercises []Exercise `json:"exercises"`
	// Fatigue is the raw reading sent by the service (0..1). Nil when the
	// response carried no fatigue scores.
	Fatigue *float64 `json:"fatigue,omitempty"`
}

// FatigueDisplay returns the fatigue on the 0..10 display scale.
// Returns false if no reading is present.
func (w WorkoutSnapshot) FatigueDisplay() (int, bool) {
	if w.Fatigue == nil {
		return 0, false
	}
	return int(math.Round(*w.Fatigue * 10)), true
}

// FindExercise looks up an exercise by Key.
func (w WorkoutSnapshot) FindExercise(key string) (Exercise, bool) {
	for _, ex := range w.Exercises {
		if ex.Key() == key {
			return ex, true
		}
	}
	return Exercise{}, false
}
