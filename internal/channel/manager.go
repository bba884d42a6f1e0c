package channel

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/ashureev/superset/internal/identity"
	"github.com/coder/websocket"
)

// DefaultPath is the session endpoint under the websocket base URL.
const DefaultPath = "/ws/session"

// Options configures a Manager.
type Options struct {
	// BaseURL is the websocket origin, e.g. ws://localhost:8000.
	BaseURL string
	// Path is the session endpoint; the escaped identity is appended.
	Path   string
	Dialer Dialer
	// Sink receives every inbound frame, unmodified and in arrival order.
	Sink func(frame []byte)
	// OnStatus is called when connectivity changes.
	OnStatus func(connected bool)
	Logger   *slog.Logger
}

// Manager owns at most one channel, bound to one identity. Sink and OnStatus
// are called with the manager locked and must not call back into it.
type Manager struct {
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	active *link
}

// link is one channel's lifetime.
type link struct {
	id        identity.Identity
	url       string
	cancel    context.CancelFunc
	done      chan struct{}
	conn      Conn
	connected bool
	closed    bool // closed by Close or an identity change
	ended     bool // failed to open, or dropped by the service
}

// NewManager creates a manager. Nothing is dialed until Open.
func NewManager(opts Options) *Manager {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Dialer == nil {
		opts.Dialer = WebSocketDialer{}
	}
	if opts.Sink == nil {
		opts.Sink = func([]byte) {}
	}
	if opts.OnStatus == nil {
		opts.OnStatus = func(bool) {}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{opts: opts, logger: logger}
}

// URL returns the channel address for id.
func (m *Manager) URL(id identity.Identity) string {
	return strings.TrimRight(m.opts.BaseURL, "/") + m.opts.Path + "/" + url.PathEscape(id.String())
}

// Open starts a channel for id in the background. An open channel for a
// different identity is closed first; reopening the current identity while
// its channel is live is a no-op. A dropped channel is never reopened unless
// Open is called again.
func (m *Manager) Open(ctx context.Context, id identity.Identity) error {
	if id.IsZero() {
		return identity.ErrEmpty
	}

	m.mu.Lock()
	if m.active != nil && !m.active.closed && !m.active.ended && m.active.id == id {
		m.mu.Unlock()
		return nil
	}
	prev := m.active
	if prev != nil {
		m.logger.Info("Closing channel for identity change", "user_id", prev.id.String(), "next_user_id", id.String())
		m.closeLocked(prev)
	}

	linkCtx, cancel := context.WithCancel(ctx)
	l := &link{
		id:     id,
		url:    m.URL(id),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.active = l
	m.mu.Unlock()

	if prev != nil {
		m.closeConn(prev)
	}
	go m.run(linkCtx, l)
	return nil
}

// Close closes the active channel and waits for its reader to exit.
func (m *Manager) Close() error {
	m.mu.Lock()
	l := m.active
	m.active = nil
	if l != nil {
		m.closeLocked(l)
	}
	m.mu.Unlock()

	if l != nil {
		m.closeConn(l)
		<-l.done
	}
	return nil
}

// Connected reports whether a channel is currently open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil && m.active.connected
}

// Identity returns the identity of the active channel, if any.
func (m *Manager) Identity() (identity.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return identity.Identity{}, false
	}
	return m.active.id, true
}

// Send writes payload if the channel is connected. Otherwise the payload is
// dropped: there is no queue and no retry. Reports whether it was written.
func (m *Manager) Send(ctx context.Context, payload []byte) bool {
	m.mu.Lock()
	l := m.active
	if l == nil || !l.connected {
		m.mu.Unlock()
		return false
	}
	conn := l.conn
	m.mu.Unlock()

	if err := conn.Write(ctx, payload); err != nil {
		m.logger.Warn("Channel write failed", "error", err, "user_id", l.id.String())
		return false
	}
	return true
}

// closeLocked marks l closed so its reader delivers nothing further. The
// websocket itself is closed by closeConn, outside the lock, since the close
// handshake may wait on the peer.
func (m *Manager) closeLocked(l *link) {
	if l.closed {
		return
	}
	l.closed = true
	l.cancel()
	m.setStatusLocked(l, false)
}

func (m *Manager) closeConn(l *link) {
	m.mu.Lock()
	conn := l.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		m.logger.Debug("Failed to close channel", "error", err, "user_id", l.id.String())
	}
}

func (m *Manager) setStatusLocked(l *link, connected bool) {
	if l.connected == connected {
		return
	}
	l.connected = connected
	m.opts.OnStatus(connected)
}

func (m *Manager) run(ctx context.Context, l *link) {
	defer close(l.done)

	m.logger.Info("Opening channel", "user_id", l.id.String(), "url", l.url)
	conn, err := m.opts.Dialer.Dial(ctx, l.url)
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Warn("Channel failed to open", "error", err, "user_id", l.id.String())
		}
		m.mu.Lock()
		l.ended = true
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	if l.closed {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	l.conn = conn
	m.setStatusLocked(l, true)
	m.mu.Unlock()
	m.logger.Info("Channel connected", "user_id", l.id.String())

	for {
		frame, err := conn.Read(ctx)
		if err != nil {
			m.readFailed(l, err)
			return
		}

		m.mu.Lock()
		if l.closed {
			m.mu.Unlock()
			return
		}
		m.opts.Sink(frame)
		m.mu.Unlock()
	}
}

func (m *Manager) readFailed(l *link, err error) {
	m.mu.Lock()
	l.ended = true
	if l.closed {
		m.mu.Unlock()
		return
	}
	switch {
	case websocket.CloseStatus(err) != -1:
		m.logger.Info("Channel closed by service", "user_id", l.id.String(), "status", websocket.CloseStatus(err))
	case errors.Is(err, context.Canceled):
		m.logger.Debug("Channel read cancelled", "user_id", l.id.String())
	default:
		m.logger.Warn("Channel read error", "error", err, "user_id", l.id.String())
	}
	m.setStatusLocked(l, false)
	m.mu.Unlock()

	m.closeConn(l)
}
