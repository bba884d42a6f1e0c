package mode

import "sync"

// Effect names a side effect that may happen at most once per session.
type Effect string

const (
	EffectBootstrap  Effect = "bootstrap"
	EffectCompletion Effect = "completion"
	EffectRestDay    Effect = "rest-day"
)

type effectState int

const (
	effectPending effectState = iota
	effectIssued
)

// Effects tracks each one-shot effect from pending to issued. Issued is
// terminal.
type Effects struct {
	mu     sync.Mutex
	states map[Effect]effectState
}

// NewEffects creates a tracker with every effect pending.
func NewEffects() *Effects {
	return &Effects{states: make(map[Effect]effectState)}
}

// Issue runs fn and moves effect to issued if it is still pending.
// Reports whether fn ran.
func (e *Effects) Issue(effect Effect, fn func()) bool {
	e.mu.Lock()
	if e.states[effect] == effectIssued {
		e.mu.Unlock()
		return false
	}
	e.states[effect] = effectIssued
	e.mu.Unlock()

	fn()
	return true
}

// Issued reports whether effect has happened.
func (e *Effects) Issued(effect Effect) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.states[effect] == effectIssued
}
