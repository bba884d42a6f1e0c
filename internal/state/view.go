package state

import (
	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/protocol"
)

// View is the projected state of a session at one point of its log.
type View struct {
	Workout   *domain.WorkoutSnapshot `json:"workout,omitempty"`
	Executing bool                    `json:"executing"`
	Completed bool                    `json:"completed"`
	Fatigue   *float64                `json:"fatigue,omitempty"`
	Events    int                     `json:"events"`
}

// Project computes all reads over the same snapshot.
func Project(events []protocol.Event) View {
	v := View{
		Executing: IsExecutingSet(events),
		Completed: IsCompleted(events),
		Events:    len(events),
	}
	if w, ok := CurrentWorkout(events); ok {
		v.Workout = &w
	}
	if f, ok := LatestFatigue(events); ok {
		v.Fatigue = &f
	}
	return v
}
