package workout

import (
	"strings"

	"github.com/ashureev/superset/internal/domain"
)

const (
	// DefaultTitle is shown when a workout names neither a title nor a focus area.
	DefaultTitle = "Today's Workout"
	// DefaultCoach is used when the focus area matches no coach.
	DefaultCoach = "iron"

	fallbackName = "Exercise"
	fallbackReps = "—"
)

// coachTerms is evaluated in order; the first group with a matching term wins.
var coachTerms = []struct {
	coach string
	terms []string
}{
	{"iron", []string{"push", "pull", "leg"}},
	{"yoga", []string{"spine", "hip", "shoulder"}},
	{"hiit", []string{"cardio", "cns"}},
	{"kickboxing", []string{"coordination", "speed"}},
}

// Normalize maps a workout payload to its exercise list. The first of
// exercises, poses, activities that is present wins, even when empty.
func Normalize(p *Payload) []domain.Exercise {
	if p == nil {
		return []domain.Exercise{}
	}
	var raw []Entry
	switch {
	case p.Exercises != nil:
		raw = *p.Exercises
	case p.Poses != nil:
		raw = *p.Poses
	case p.Activities != nil:
		raw = *p.Activities
	}

	exercises := make([]domain.Exercise, 0, len(raw))
	for _, e := range raw {
		exercises = append(exercises, normalizeEntry(e))
	}
	return exercises
}

func normalizeEntry(e Entry) domain.Exercise {
	ex := domain.Exercise{
		Name:  first(fallbackName, e.ExerciseName, e.PoseName, e.Name),
		Reps:  first(fallbackReps, e.Reps, e.Duration),
		RPE:   e.RPE,
		Notes: e.Notes,
	}
	if e.ID != nil {
		ex.ID = *e.ID
	}
	if e.Sets != nil {
		ex.Sets = *e.Sets
	}
	return ex
}

// Coach derives the coach identifier from the workout's focus area.
func Coach(p *Payload) string {
	if p == nil {
		return DefaultCoach
	}
	return CoachFor(first("", p.FocusArea, p.FocusSystem))
}

// CoachFor classifies free focus-area text into a coach identifier.
func CoachFor(focus string) string {
	lower := strings.ToLower(focus)
	for _, group := range coachTerms {
		for _, term := range group.terms {
			if strings.Contains(lower, term) {
				return group.coach
			}
		}
	}
	return DefaultCoach
}

// Title returns the display title of the workout.
func Title(p *Payload) string {
	if p == nil {
		return DefaultTitle
	}
	return first(DefaultTitle, p.Title, p.FocusArea)
}

// first returns the first non-nil value, or fallback.
func first(fallback string, values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return fallback
}
