package coachstub

import (
	"errors"
	"strings"
	"sync"

	"github.com/ashureev/superset/internal/domain"
)

const (
	defaultMaxPerWeek = 4
	minWeeklyGoal     = 1
	maxWeeklyGoal     = 7
	fatigueThreshold  = 0.8
	finishFatigue     = 0.25
	restRecovery      = 0.2
)

// ErrGoalOutOfRange is returned for weekly goals outside 1..7.
var ErrGoalOutOfRange = errors.New("max_workouts_per_week must be between 1 and 7")

// SetLog is one set recorded during a workout.
type SetLog struct {
	Exercise   string  `json:"exercise,omitempty"`
	ExerciseID string  `json:"exercise_id,omitempty"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	RPE        int     `json:"rpe"`
}

// userState is everything the stub remembers about one user.
type userState struct {
	completed  int
	maxPerWeek int
	fatigue    map[string]float64
	persona    string
	onboarded  bool
	subscribed []string
	current    map[string]any
	coach      string
	sets       []SetLog
	history    []map[string]any
}

// Users is the stub's in-memory user table.
type Users struct {
	mu    sync.Mutex
	users map[string]*userState
}

// NewUsers creates an empty table. Unknown users are created on first use.
func NewUsers() *Users {
	return &Users{users: make(map[string]*userState)}
}

func (u *Users) getLocked(userID string) *userState {
	s, ok := u.users[userID]
	if !ok {
		s = &userState{
			maxPerWeek: defaultMaxPerWeek,
			fatigue:    make(map[string]float64),
			persona:    "iron",
		}
		u.users[userID] = s
	}
	return s
}

// Status returns the user's weekly status.
func (u *Users) Status(userID string) domain.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.statusLocked(u.getLocked(userID))
}

func (u *Users) statusLocked(s *userState) domain.Status {
	scores := make(map[string]float64, len(s.fatigue))
	for k, v := range s.fatigue {
		scores[k] = v
	}
	return domain.Status{
		WorkoutsCompletedThisWeek: s.completed,
		MaxWorkoutsPerWeek:        s.maxPerWeek,
		FatigueScores:             scores,
		FatigueThreshold:          fatigueThreshold,
		SelectedPersona:           s.persona,
	}
}

// Profile returns the user's profile.
func (u *Users) Profile(userID string) domain.Profile {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	return domain.Profile{
		IsOnboarded:        s.onboarded,
		SubscribedPersonas: append([]string{}, s.subscribed...),
	}
}

// SetWeeklyGoal updates the weekly workout goal.
func (u *Users) SetWeeklyGoal(userID string, goal int) (domain.Status, error) {
	if goal < minWeeklyGoal || goal > maxWeeklyGoal {
		return domain.Status{}, ErrGoalOutOfRange
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	s.maxPerWeek = goal
	return u.statusLocked(s), nil
}

// ResetFatigue clears all fatigue scores.
func (u *Users) ResetFatigue(userID string) domain.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	s.fatigue = make(map[string]float64)
	return u.statusLocked(s)
}

// NewWeek zeroes the weekly completed count.
func (u *Users) NewWeek(userID string) domain.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	s.completed = 0
	return u.statusLocked(s)
}

// History returns completed workouts, oldest first.
func (u *Users) History(userID string) []map[string]any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]map[string]any{}, u.getLocked(userID).history...)
}

// Intake records onboarding answers and returns recommended personas.
func (u *Users) Intake(userID string, in domain.Intake) domain.IntakeResult {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	s.onboarded = true
	return domain.IntakeResult{RecommendedPersonas: recommend(in)}
}

// SelectPersonas subscribes the user to personas. The first becomes the
// selected persona.
func (u *Users) SelectPersonas(userID string, personas []string) domain.Profile {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	s.subscribed = append([]string{}, personas...)
	if len(personas) > 0 {
		s.persona = personas[0]
	}
	s.onboarded = true
	return domain.Profile{IsOnboarded: true, SubscribedPersonas: append([]string{}, s.subscribed...)}
}

// StartWorkout plans a workout for a request. It returns nil when the weekly
// goal is already met.
func (u *Users) StartWorkout(userID, request string) (map[string]any, domain.Status) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	if s.completed >= s.maxPerWeek {
		s.current = nil
		return nil, u.statusLocked(s)
	}
	s.current, s.coach = planWorkout(request, s.persona)
	s.sets = nil
	return s.current, u.statusLocked(s)
}

// LogSet records a set against the current workout.
func (u *Users) LogSet(userID string, set SetLog) domain.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	s.sets = append(s.sets, set)
	return u.statusLocked(s)
}

// Finish completes the current workout, if any, and raises fatigue for its
// coach.
func (u *Users) Finish(userID string) domain.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	s.completed++
	coach := s.persona
	if s.current != nil {
		coach = s.coach
		s.history = append(s.history, s.current)
	}
	s.fatigue[coach] = min(1, s.fatigue[coach]+finishFatigue)
	s.current = nil
	s.sets = nil
	return u.statusLocked(s)
}

// LogRest lowers every fatigue score.
func (u *Users) LogRest(userID string) domain.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.getLocked(userID)
	for k, v := range s.fatigue {
		s.fatigue[k] = max(0, v-restRecovery)
	}
	return u.statusLocked(s)
}

func recommend(in domain.Intake) []string {
	switch strings.ToLower(strings.TrimSpace(in.FitnessLevel)) {
	case "beginner":
		return []string{"yoga", "iron"}
	case "advanced":
		return []string{"iron", "hiit", "kickboxing"}
	default:
		return []string{"iron", "hiit"}
	}
}
