package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ashureev/superset/internal/domain"
)

// actionKind is what one input line asks for.
type actionKind int

const (
	actionText actionKind = iota
	actionLog
	actionFinish
	actionRest
	actionReset
	actionWorkout
	actionHelp
	actionQuit
)

// action is one parsed input line.
type action struct {
	kind     actionKind
	text     string
	exercise string
	weight   float64
	reps     int
	rpe      int
}

const helpText = `Commands:
  /log <exercise> <weight> <reps> [rpe]   log a set (exercise by number, id or name)
  /finish                                 finish the workout
  /rest                                   log a rest day
  /reset                                  reset fatigue
  /workout                                show the current workout
  /quit                                   leave the session
Anything else is sent to your coach.`

var errLogUsage = errors.New("usage: /log <exercise> <weight> <reps> [rpe]")

// parseLine parses one line of session input.
func parseLine(line string) (action, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return action{kind: actionText, text: line}, nil
	}
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/log":
		return parseLog(fields[1:])
	case "/finish":
		return action{kind: actionFinish}, nil
	case "/rest":
		return action{kind: actionRest}, nil
	case "/reset":
		return action{kind: actionReset}, nil
	case "/workout":
		return action{kind: actionWorkout}, nil
	case "/help", "/?":
		return action{kind: actionHelp}, nil
	case "/quit", "/exit":
		return action{kind: actionQuit}, nil
	default:
		return action{}, fmt.Errorf("unknown command %s; try /help", fields[0])
	}
}

// parseLog reads numbers from the end so exercise names may contain spaces.
func parseLog(args []string) (action, error) {
	if len(args) < 3 {
		return action{}, errLogUsage
	}
	a := action{kind: actionLog}
	nums := args[len(args)-2:]
	if len(args) >= 4 {
		if rpe, err := strconv.Atoi(args[len(args)-1]); err == nil && isNumber(args[len(args)-2]) && isNumber(args[len(args)-3]) {
			a.rpe = rpe
			nums = args[len(args)-3 : len(args)-1]
		}
	}
	weight, err := strconv.ParseFloat(nums[0], 64)
	if err != nil {
		return action{}, errLogUsage
	}
	reps, err := strconv.Atoi(nums[1])
	if err != nil {
		return action{}, errLogUsage
	}
	a.weight, a.reps = weight, reps

	nameLen := len(args) - 2
	if a.rpe != 0 {
		nameLen--
	}
	a.exercise = strings.Join(args[:nameLen], " ")
	return a, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// resolveExercise maps a 1-based number, an exercise key or a
// case-insensitive name to the exercise key.
func resolveExercise(w domain.WorkoutSnapshot, ref string) (string, bool) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(w.Exercises) {
		return w.Exercises[n-1].Key(), true
	}
	if ex, ok := w.FindExercise(ref); ok {
		return ex.Key(), true
	}
	for _, ex := range w.Exercises {
		if strings.EqualFold(ex.Name, ref) {
			return ex.Key(), true
		}
	}
	return "", false
}
