// Package state derives the session's current state from the event log.
//
// The service never sends one authoritative state object; every read here
// re-scans the log it is given and keeps nothing between calls.
package state

import (
	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/protocol"
	"github.com/ashureev/superset/internal/workout"
)

const (
	// DefaultWeeklyMax applies when a status snapshot omits the weekly goal.
	DefaultWeeklyMax = 4
)

// CurrentWorkout returns the workout in progress, scanning from the most
// recent event. A completed-workout response ends the scan with no workout;
// responses without exercises are skipped.
func CurrentWorkout(events []protocol.Event) (domain.WorkoutSnapshot, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		resp, ok := events[i].(protocol.AgentResponse)
		if !ok {
			continue
		}
		if resp.WorkoutCompleted {
			return domain.WorkoutSnapshot{}, false
		}
		if resp.Workout == nil {
			continue
		}
		exercises := workout.Normalize(resp.Workout)
		if len(exercises) == 0 {
			continue
		}
		return domain.WorkoutSnapshot{
			Title:     workout.Title(resp.Workout),
			Coach:     workout.Coach(resp.Workout),
			Exercises: exercises,
			Fatigue:   maxFatigue(resp.State),
		}, true
	}
	return domain.WorkoutSnapshot{}, false
}

// IsExecutingSet reports whether the latest agent response says a set is
// being performed.
func IsExecutingSet(events []protocol.Event) bool {
	resp, ok := LatestResponse(events)
	return ok && resp.IsWorkingOut
}

// IsCompleted reports whether the latest agent response marks the workout
// completed.
func IsCompleted(events []protocol.Event) bool {
	resp, ok := LatestResponse(events)
	return ok && resp.WorkoutCompleted
}

// LatestResponse returns the most recent agent response.
func LatestResponse(events []protocol.Event) (protocol.AgentResponse, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if resp, ok := events[i].(protocol.AgentResponse); ok {
			return resp, true
		}
	}
	return protocol.AgentResponse{}, false
}

// LatestFatigue returns the max fatigue reading of the most recent agent
// response that carried fatigue scores.
func LatestFatigue(events []protocol.Event) (float64, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		resp, ok := events[i].(protocol.AgentResponse)
		if !ok {
			continue
		}
		if f := maxFatigue(resp.State); f != nil {
			return *f, true
		}
	}
	return 0, false
}

// WeeklyProgress returns completed and max workouts for the week, defaulting
// a missing count to 0 and a missing goal to DefaultWeeklyMax.
func WeeklyProgress(s *protocol.Status) (completed, limit int) {
	completed, limit = 0, DefaultWeeklyMax
	if s == nil {
		return completed, limit
	}
	if s.WorkoutsCompletedThisWeek != nil {
		completed = *s.WorkoutsCompletedThisWeek
	}
	if s.MaxWorkoutsPerWeek != nil {
		limit = *s.MaxWorkoutsPerWeek
	}
	return completed, limit
}

// maxFatigue is the highest coach fatigue score, floored at 0. Nil when the
// snapshot carries no fatigue scores.
func maxFatigue(s *protocol.Status) *float64 {
	if s == nil || s.FatigueScores == nil {
		return nil
	}
	var highest float64
	for _, v := range s.FatigueScores {
		highest = max(highest, v)
	}
	return &highest
}
