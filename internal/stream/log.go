// Package stream turns raw session frames into an ordered, append-only
// event log.
package stream

import (
	"sync"

	"github.com/ashureev/superset/internal/protocol"
)

// Log is the append-only record of inbound events for one session.
// Appended events are never modified or reordered.
type Log struct {
	mu     sync.RWMutex
	events []protocol.Event
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an event and returns the new length.
func (l *Log) Append(ev protocol.Event) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return len(l.events)
}

// Snapshot returns the events appended so far. The returned slice has its
// capacity capped at its length, so later appends never write into memory
// the caller can see.
func (l *Log) Snapshot() []protocol.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.events)
	return l.events[:n:n]
}

// Len returns the number of events appended so far.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
