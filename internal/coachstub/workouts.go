package coachstub

import (
	"github.com/ashureev/superset/internal/workout"
)

// planWorkout returns a canned workout payload in the service's wire shape
// and the coach it belongs to. The coach is inferred from the request text,
// falling back to persona.
func planWorkout(request, persona string) (map[string]any, string) {
	coach := workout.CoachFor(request)
	if coach == workout.DefaultCoach && persona != "" {
		coach = persona
	}

	switch coach {
	case "yoga":
		return map[string]any{
			"title":      "Mobility Flow",
			"focus_area": "hip and spine mobility",
			"poses": []map[string]any{
				{"id": "downward_dog", "pose_name": "Downward Dog", "duration": "60s"},
				{"id": "pigeon", "pose_name": "Pigeon Pose", "duration": "90s"},
				{"id": "cat_cow", "pose_name": "Cat-Cow", "reps": "10"},
			},
		}, coach
	case "hiit":
		return map[string]any{
			"title":        "Conditioning Intervals",
			"focus_system": "cardio",
			"activities": []map[string]any{
				{"id": "burpees", "name": "Burpees", "sets": 4, "duration": "40s"},
				{"id": "mountain_climbers", "name": "Mountain Climbers", "sets": 4, "duration": "40s"},
			},
		}, coach
	case "kickboxing":
		return map[string]any{
			"title":      "Combo Rounds",
			"focus_area": "speed and coordination",
			"activities": []map[string]any{
				{"id": "jab_cross", "name": "Jab-Cross", "sets": 5, "duration": "2 min"},
				{"id": "roundhouse", "name": "Roundhouse Kick", "sets": 3, "reps": 12},
			},
		}, coach
	default:
		return map[string]any{
			"title":      "Push Day",
			"focus_area": "push",
			"exercises": []map[string]any{
				{"id": "bench_press", "exercise_name": "Bench Press", "sets": 4, "reps": "6-8", "rpe": 8},
				{"id": "ohp", "exercise_name": "Overhead Press", "sets": 3, "reps": 10, "notes": "Strict form"},
				{"id": "dips", "exercise_name": "Dips", "sets": 3, "reps": "AMRAP"},
			},
		}, workout.DefaultCoach
	}
}
