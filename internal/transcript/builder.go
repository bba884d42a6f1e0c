// Package transcript builds the user-visible chat transcript from the event
// log.
package transcript

import (
	"sync"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/protocol"
)

const (
	WorkoutAck = "Here's your workout! 💪"
	GenericAck = "Got it."
	ErrorText  = "Something went wrong."
)

// Builder turns each event into transcript entries at most once, tracking a
// cursor into the log.
type Builder struct {
	mu      sync.Mutex
	cursor  int
	entries []domain.ChatEntry
}

// NewBuilder creates an empty builder with its cursor at 0.
func NewBuilder() *Builder {
	return &Builder{}
}

// Advance processes events at or after the cursor, moves the cursor to
// len(events), and returns the entries produced. events must be the same
// log (or a longer prefix of it) on every call.
func (b *Builder) Advance(events []protocol.Event) []domain.ChatEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var added []domain.ChatEntry
	for i := b.cursor; i < len(events); i++ {
		entry, ok := entryFor(events[i])
		if !ok {
			continue
		}
		added = append(added, entry)
	}
	b.cursor = max(b.cursor, len(events))
	b.entries = append(b.entries, added...)
	return added
}

// AddUser records text the user just submitted.
func (b *Builder) AddUser(content string) domain.ChatEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry := domain.ChatEntry{Content: content, IsUser: true}
	b.entries = append(b.entries, entry)
	return entry
}

// Cursor returns the index of the next unprocessed event.
func (b *Builder) Cursor() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// Entries returns a copy of the transcript.
func (b *Builder) Entries() []domain.ChatEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.ChatEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

func entryFor(ev protocol.Event) (domain.ChatEntry, bool) {
	switch e := ev.(type) {
	case protocol.AgentResponse:
		entry := domain.ChatEntry{Content: GenericAck}
		switch {
		case e.Greeting != nil:
			entry.Content = *e.Greeting
		case e.Workout != nil:
			entry.Content = WorkoutAck
		}
		if e.State != nil && e.State.SelectedPersona != nil {
			entry.Coach = *e.State.SelectedPersona
		}
		return entry, true
	case protocol.ErrorEvent:
		entry := domain.ChatEntry{Content: ErrorText}
		if e.Message != nil {
			entry.Content = *e.Message
		}
		return entry, true
	default:
		return domain.ChatEntry{}, false
	}
}
