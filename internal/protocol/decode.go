package protocol

import (
	"encoding/json"

	"github.com/ashureev/superset/internal/workout"
)

// Decode maps a raw frame to an Event. It never fails: a frame that is not a
// JSON object becomes a TextEvent carrying the frame verbatim, and a field of
// the wrong type is treated as absent.
func Decode(frame []byte) Event {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(frame, &fields); err != nil || fields == nil {
		return TextEvent{Raw: string(frame)}
	}

	var typ string
	if s := workout.String(fields["type"]); s != nil {
		typ = *s
	}

	switch Kind(typ) {
	case KindAgentResponse:
		return AgentResponse{
			Workout:          workout.DecodePayload(fields["workout"]),
			WorkoutCompleted: workout.Bool(fields["workout_completed"]),
			IsWorkingOut:     workout.Bool(fields["is_working_out"]),
			Greeting:         workout.String(fields["greeting_message"]),
			State:            decodeStatus(fields["state"]),
		}
	case KindError:
		return ErrorEvent{Message: workout.String(fields["message"])}
	default:
		return OtherEvent{Type: typ, Raw: append(json.RawMessage(nil), frame...)}
	}
}

func decodeStatus(raw json.RawMessage) *Status {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || fields == nil {
		return nil
	}
	return &Status{
		WorkoutsCompletedThisWeek: workout.Int(fields["workouts_completed_this_week"]),
		MaxWorkoutsPerWeek:        workout.Int(fields["max_workouts_per_week"]),
		FatigueScores:             decodeScores(fields["fatigue_scores"]),
		SelectedPersona:           workout.String(fields["selected_persona"]),
	}
}

func decodeScores(raw json.RawMessage) map[string]float64 {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || fields == nil {
		return nil
	}
	scores := make(map[string]float64, len(fields))
	for coach, v := range fields {
		if f := workout.Float(v); f != nil {
			scores[coach] = *f
		}
	}
	return scores
}
