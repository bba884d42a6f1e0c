// Package workout normalizes the heterogeneous workout payloads sent by the
// coaching service into one canonical exercise list.
package workout

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Payload is a workout as sent by the service. Exercises may live under any
// of three keys depending on the coach that produced the workout. A nil list
// means the key was absent or null; a non-nil empty list was sent explicitly.
type Payload struct {
	Title       *string
	FocusArea   *string
	FocusSystem *string
	Exercises   *[]Entry
	Poses       *[]Entry
	Activities  *[]Entry
}

// Entry is one raw item from an exercise, pose, or activity list.
type Entry struct {
	ID           *string
	ExerciseName *string
	PoseName     *string
	Name         *string
	Sets         *int
	Reps         *string
	Duration     *string
	RPE          *float64
	Notes        *string
}

// DecodePayload interprets the raw "workout" field of a frame.
// Returns nil for absent, null, or falsy values (false, 0, ""). Any other
// value is a workout, even if it carries nothing usable.
func DecodePayload(raw json.RawMessage) *Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch string(raw) {
	case "null", "false", "0", `""`:
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &Payload{}
	}
	return &Payload{
		Title:       String(fields["title"]),
		FocusArea:   String(fields["focus_area"]),
		FocusSystem: String(fields["focus_system"]),
		Exercises:   decodeList(fields, "exercises"),
		Poses:       decodeList(fields, "poses"),
		Activities:  decodeList(fields, "activities"),
	}
}

func decodeList(fields map[string]json.RawMessage, key string) *[]Entry {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, decodeEntry(item))
	}
	return &entries
}

func decodeEntry(raw json.RawMessage) Entry {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Entry{}
	}
	return Entry{
		ID:           String(fields["id"]),
		ExerciseName: String(fields["exercise_name"]),
		PoseName:     String(fields["pose_name"]),
		Name:         String(fields["name"]),
		Sets:         Int(fields["sets"]),
		Reps:         Display(fields["reps"]),
		Duration:     Display(fields["duration"]),
		RPE:          Float(fields["rpe"]),
		Notes:        String(fields["notes"]),
	}
}

// String returns the JSON string value, or nil if raw is absent, null, or
// not a string.
func String(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// Display returns a string or number rendered as display text.
func Display(raw json.RawMessage) *string {
	if s := String(raw); s != nil {
		return s
	}
	if f := Float(raw); f != nil {
		s := strconv.FormatFloat(*f, 'f', -1, 64)
		return &s
	}
	return nil
}

// Float returns a JSON number value, or nil.
func Float(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// Int returns a JSON number, or a numeric string, truncated to an int.
func Int(raw json.RawMessage) *int {
	if f := Float(raw); f != nil {
		n := int(*f)
		return &n
	}
	if s := String(raw); s != nil {
		if n, err := strconv.Atoi(*s); err == nil {
			return &n
		}
	}
	return nil
}

// Bool reports whether raw is the JSON literal true.
func Bool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}
