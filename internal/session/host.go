package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ashureev/superset/internal/identity"
)

// Factory builds an unstarted session for an identity.
type Factory func(id identity.Identity) (*Session, error)

// Host keeps at most one running session. Switching identity tears down the
// previous session before the next one is built.
type Host struct {
	factory Factory
	logger  *slog.Logger

	mu      sync.Mutex
	current *Session
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewHost creates a host building sessions with factory.
func NewHost(factory Factory, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{factory: factory, logger: logger}
}

// Switch returns a running session for id. If the current session already
// belongs to id it is returned unchanged.
func (h *Host) Switch(ctx context.Context, id identity.Identity) (*Session, error) {
	if id.IsZero() {
		return nil, identity.ErrEmpty
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil && h.current.Identity() == id {
		return h.current, nil
	}
	h.stopLocked()

	s, err := h.factory(id)
	if err != nil {
		return nil, err
	}
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrClosed) {
			h.logger.Error("Session run failed", "user_id", id.String(), "error", err)
		}
	}()
	if err := s.Start(ctx); err != nil {
		cancel()
		_ = s.Close()
		<-done
		return nil, err
	}

	h.current, h.cancel, h.done = s, cancel, done
	h.logger.Info("Session started", "user_id", id.String(), "session_id", s.ID(), "mode", s.Mode().String())
	return s, nil
}

// Current returns the running session, if any.
func (h *Host) Current() (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current, h.current != nil
}

// Close stops the running session.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopLocked()
}

func (h *Host) stopLocked() {
	if h.current == nil {
		return
	}
	if err := h.current.Close(); err != nil {
		h.logger.Warn("Failed to close session", "user_id", h.current.Identity().String(), "error", err)
	}
	h.cancel()
	<-h.done
	h.logger.Info("Session stopped", "user_id", h.current.Identity().String())
	h.current, h.cancel, h.done = nil, nil, nil
}
