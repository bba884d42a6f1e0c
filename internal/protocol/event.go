// Package protocol defines the messages exchanged with the coaching service
// over the session channel.
package protocol

import (
	"encoding/json"

	"github.com/ashureev/superset/internal/workout"
)

// Kind is the tag of an inbound event.
type Kind string

const (
	// KindAgentResponse is a coach reply, possibly carrying a workout and state.
	KindAgentResponse Kind = "AGENT_RESPONSE"
	// KindError is an application-level error reported by the service.
	KindError Kind = "ERROR"
	// KindText is produced locally when a frame is not structured data.
	KindText Kind = "text"
)

// Event is one inbound message. The set of implementations is closed:
// AgentResponse, ErrorEvent, TextEvent, OtherEvent.
type Event interface {
	Kind() Kind
	event()
}

// AgentResponse is a reply from the coaching agent.
type AgentResponse struct {
	Workout          *workout.Payload
	WorkoutCompleted bool
	IsWorkingOut     bool
	Greeting         *string
	State            *Status
}

// Status is the state snapshot nested in an agent response.
type Status struct {
	WorkoutsCompletedThisWeek *int
	MaxWorkoutsPerWeek        *int
	// FatigueScores is nil when the snapshot carried no fatigue_scores.
	FatigueScores   map[string]float64
	SelectedPersona *string
}

// ErrorEvent is an application error sent by the service.
type ErrorEvent struct {
	Message *string
}

// TextEvent wraps a frame that could not be decoded.
type TextEvent struct {
	Raw string
}

// OtherEvent is a structured frame whose type tag the client does not know.
type OtherEvent struct {
	Type string
	Raw  json.RawMessage
}

func (AgentResponse) Kind() Kind { return KindAgentResponse }
func (ErrorEvent) Kind() Kind    { return KindError }
func (TextEvent) Kind() Kind     { return KindText }
func (e OtherEvent) Kind() Kind  { return Kind(e.Type) }

func (AgentResponse) event() {}
func (ErrorEvent) event()    {}
func (TextEvent) event()     {}
func (OtherEvent) event()    {}
