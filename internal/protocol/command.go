package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/ashureev/superset/internal/domain"
)

// CommandType is the tag of an outbound command.
type CommandType string

const (
	TypeUserInput     CommandType = "USER_INPUT"
	TypeFinishWorkout CommandType = "FINISH_WORKOUT"
	TypeLogSet        CommandType = "LOG_SET"
	TypeResetFatigue  CommandType = "RESET_FATIGUE"
	TypeLogRest       CommandType = "LOG_REST"
)

const (
	defaultRPE = 6
	minRPE     = 1
	maxRPE     = 10
)

// Command is an outbound message. Commands are fire-and-forget.
type Command interface {
	CommandType() CommandType
}

// UserInput is free-text chat.
type UserInput struct {
	Content string
}

// FinishWorkout ends the current workout.
type FinishWorkout struct{}

// LogSet records one completed set. Exactly one of Exercise and ExerciseID
// is expected to be set.
type LogSet struct {
	Exercise   string
	ExerciseID string
	Weight     float64
	Reps       int
	RPE        int
}

// ResetFatigue clears fatigue scores.
type ResetFatigue struct{}

// LogRest records a rest day.
type LogRest struct{}

func (UserInput) CommandType() CommandType     { return TypeUserInput }
func (FinishWorkout) CommandType() CommandType { return TypeFinishWorkout }
func (LogSet) CommandType() CommandType        { return TypeLogSet }
func (ResetFatigue) CommandType() CommandType  { return TypeResetFatigue }
func (LogRest) CommandType() CommandType       { return TypeLogRest }

// NewLogSet builds a LogSet for ex, addressing it by ID when it has one.
// RPE is clamped to 1..10; zero means "not given" and becomes 6.
func NewLogSet(ex domain.Exercise, weight float64, reps, rpe int) LogSet {
	if rpe == 0 {
		rpe = defaultRPE
	}
	cmd := LogSet{
		Weight: max(weight, 0),
		Reps:   max(reps, 0),
		RPE:    min(maxRPE, max(minRPE, rpe)),
	}
	if ex.ID != "" {
		cmd.ExerciseID = ex.ID
	} else {
		cmd.Exercise = ex.Name
	}
	return cmd
}

type wireCommand struct {
	Type    CommandType `json:"type"`
	Content *string     `json:"content,omitempty"`
	Data    *wireLogSet `json:"data,omitempty"`
}

type wireLogSet struct {
	Exercise   string  `json:"exercise,omitempty"`
	ExerciseID string  `json:"exercise_id,omitempty"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	RPE        int     `json:"rpe"`
}

// Encode serializes a command to its wire form.
func Encode(cmd Command) ([]byte, error) {
	w := wireCommand{Type: cmd.CommandType()}
	switch c := cmd.(type) {
	case UserInput:
		w.Content = &c.Content
	case LogSet:
		w.Data = &wireLogSet{
			Exercise:   c.Exercise,
			ExerciseID: c.ExerciseID,
			Weight:     c.Weight,
			Reps:       c.Reps,
			RPE:        c.RPE,
		}
	case FinishWorkout, ResetFatigue, LogRest:
	default:
		return nil, fmt.Errorf("unknown command type %q", cmd.CommandType())
	}
	return json.Marshal(w)
}
