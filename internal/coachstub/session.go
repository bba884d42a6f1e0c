package coachstub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ashureev/superset/internal/domain"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

const (
	greetingWorkout = "Here's what I've got for you today."
	greetingRestDay = "You've hit your weekly goal. Take a rest day."
	greetingFinish  = "Great session! Workout logged."
	greetingReset   = "Fatigue scores reset."
	greetingRest    = "Rest day logged. Recover well."
)

// inbound is a client command as it arrives on the socket.
type inbound struct {
	Type    string          `json:"type"`
	Content string          `json:"content"`
	Data    json.RawMessage `json:"data"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Error("WebSocket accept failed", "user_id", userID, "error", err)
		return
	}
	s.conns.Register(userID, ws)
	defer s.conns.Unregister(userID, ws)
	defer func() {
		_ = ws.Close(websocket.StatusNormalClosure, "session ended")
	}()

	ctx := r.Context()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				s.logger.Debug("Session socket closed", "user_id", userID)
			} else {
				s.logger.Warn("Session socket read failed", "user_id", userID, "error", err)
			}
			return
		}
		if err := ws.Write(ctx, websocket.MessageText, s.Reply(userID, data)); err != nil {
			s.logger.Warn("Session socket write failed", "user_id", userID, "error", err)
			return
		}
	}
}

// Reply computes the scripted response to one client frame.
func (s *Server) Reply(userID string, frame []byte) []byte {
	if strings.TrimSpace(string(frame)) == "ping" {
		return []byte("pong")
	}

	var msg inbound
	if err := json.Unmarshal(frame, &msg); err != nil {
		return errorFrame("invalid message")
	}

	switch msg.Type {
	case "USER_INPUT":
		plan, status := s.users.StartWorkout(userID, msg.Content)
		if plan == nil {
			return agentResponse(map[string]any{"greeting_message": greetingRestDay}, status)
		}
		return agentResponse(map[string]any{
			"greeting_message": greetingWorkout,
			"workout":          plan,
			"is_working_out":   true,
		}, status)
	case "LOG_SET":
		var set SetLog
		if err := json.Unmarshal(msg.Data, &set); err != nil {
			return errorFrame("invalid set data")
		}
		name := set.Exercise
		if name == "" {
			name = set.ExerciseID
		}
		status := s.users.LogSet(userID, set)
		return agentResponse(map[string]any{
			"greeting_message": fmt.Sprintf("Logged %s: %d reps at %g (RPE %d).", name, set.Reps, set.Weight, set.RPE),
			"is_working_out":   true,
		}, status)
	case "FINISH_WORKOUT":
		status := s.users.Finish(userID)
		return agentResponse(map[string]any{
			"greeting_message":  greetingFinish,
			"workout_completed": true,
		}, status)
	case "RESET_FATIGUE":
		return agentResponse(map[string]any{"greeting_message": greetingReset}, s.users.ResetFatigue(userID))
	case "LOG_REST":
		return agentResponse(map[string]any{"greeting_message": greetingRest}, s.users.LogRest(userID))
	default:
		return errorFrame("unknown message type: " + msg.Type)
	}
}

func agentResponse(fields map[string]any, status domain.Status) []byte {
	fields["type"] = "AGENT_RESPONSE"
	fields["state"] = status
	data, err := json.Marshal(fields)
	if err != nil {
		return errorFrame("failed to encode response")
	}
	return data
}

func errorFrame(message string) []byte {
	data, _ := json.Marshal(map[string]string{"type": "ERROR", "message": message})
	return data
}
