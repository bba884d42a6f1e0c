// Package session wires one identity's channel, event log, projector and
// mode controller into a running coaching session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ashureev/superset/internal/channel"
	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/identity"
	"github.com/ashureev/superset/internal/mode"
	"github.com/ashureev/superset/internal/protocol"
	"github.com/ashureev/superset/internal/state"
	"github.com/ashureev/superset/internal/stream"
	"github.com/ashureev/superset/internal/transcript"
	"github.com/google/uuid"
)

const logChannel = "session_ws"

var (
	// ErrNoWorkout is returned when a set is logged with no current workout.
	ErrNoWorkout = errors.New("no current workout")
	// ErrUnknownExercise is returned when a set names an exercise that is
	// not in the current workout.
	ErrUnknownExercise = errors.New("exercise not in current workout")
	// ErrClosed is returned when Run is called on a closed session.
	ErrClosed = errors.New("session closed")
)

// Update is published after each evaluation.
type Update struct {
	Connected bool
	View      state.View
	// Entries are transcript entries added since the previous update.
	Entries []domain.ChatEntry
}

// Options configures a Session.
type Options struct {
	Identity identity.Identity
	Mode     mode.Mode
	// BaseURL is the websocket origin and Path the session endpoint.
	BaseURL string
	Path    string
	// ReadLimit caps one inbound frame when Dialer is nil. Zero means
	// channel.DefaultReadLimit.
	ReadLimit int64
	Dialer    channel.Dialer

	Navigator       mode.Navigator
	ConversationLog ConversationLogger
	// OnUpdate is called from Run after every evaluation.
	OnUpdate func(Update)
	Logger   *slog.Logger
}

// Session is one identity's connected coaching session.
type Session struct {
	id        identity.Identity
	sessionID string
	logger    *slog.Logger
	convLog   ConversationLogger
	onUpdate  func(Update)

	log        *stream.Log
	interp     *stream.Interpreter
	mgr        *channel.Manager
	enc        *protocol.Encoder
	ctrl       *mode.Controller
	transcript *transcript.Builder

	wake      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once

	// published is the transcript length at the last update; Run only.
	published int
}

// New builds a session. Nothing is dialed until Start.
func New(opts Options) (*Session, error) {
	if opts.Identity.IsZero() {
		return nil, identity.ErrEmpty
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	convLog := opts.ConversationLog
	if convLog == nil {
		convLog = noopConversationLogger{}
	}

	// The manager tags its own lines with user_id.
	sessionID := uuid.NewString()
	s := &Session{
		id:         opts.Identity,
		sessionID:  sessionID,
		logger:     logger.With("session_id", sessionID),
		convLog:    convLog,
		onUpdate:   opts.OnUpdate,
		log:        stream.NewLog(),
		transcript: transcript.NewBuilder(),
		wake:       make(chan struct{}, 1),
		closed:     make(chan struct{}),
	}
	s.interp = stream.NewInterpreter(s.log, s.received)
	dialer := opts.Dialer
	if dialer == nil {
		dialer = channel.WebSocketDialer{ReadLimit: opts.ReadLimit}
	}
	s.mgr = channel.NewManager(channel.Options{
		BaseURL:  opts.BaseURL,
		Path:     opts.Path,
		Dialer:   dialer,
		Sink:     func(frame []byte) { s.interp.Interpret(frame) },
		OnStatus: func(bool) { s.notify() },
		Logger:   s.logger,
	})
	s.enc = protocol.NewEncoder(loggingSender{s: s}, s.logger)
	s.ctrl = mode.New(opts.Mode, mode.Deps{
		Sender:     s.enc,
		Transcript: s.transcript,
		Navigator:  opts.Navigator,
		Logger:     s.logger,
	})
	return s, nil
}

// Identity returns the identity this session is bound to.
func (s *Session) Identity() identity.Identity { return s.id }

// ID returns the session id used in conversation logs.
func (s *Session) ID() string { return s.sessionID }

// Mode returns the session mode.
func (s *Session) Mode() mode.Mode { return s.ctrl.Mode() }

// Start opens the channel.
func (s *Session) Start(ctx context.Context) error {
	if err := s.mgr.Open(ctx, s.id); err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	return nil
}

// Run evaluates the controller after every append and status change until
// ctx is done or the session is closed. Only one Run may be active.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed:
			return ErrClosed
		case <-s.wake:
			s.evaluate(ctx)
		}
	}
}

func (s *Session) evaluate(ctx context.Context) {
	connected := s.mgr.Connected()
	events := s.log.Snapshot()
	s.ctrl.Evaluate(ctx, connected, events)

	if s.onUpdate == nil {
		return
	}
	entries := s.transcript.Entries()
	var added []domain.ChatEntry
	if len(entries) > s.published {
		added = entries[s.published:]
	}
	s.published = len(entries)
	s.onUpdate(Update{
		Connected: connected,
		View:      state.Project(events),
		Entries:   added,
	})
}

// notify wakes Run. Pending wakes coalesce.
func (s *Session) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// received runs on the reader goroutine after each append.
func (s *Session) received(frame []byte, ev protocol.Event) {
	s.convLog.Log(ConversationLogEvent{
		UserID:     s.id.String(),
		SessionID:  s.sessionID,
		Channel:    logChannel,
		Direction:  "inbound",
		EventType:  string(ev.Kind()),
		ContentRaw: string(frame),
	})
	s.notify()
}

// Submit sends free-text chat through the mode strategy.
func (s *Session) Submit(ctx context.Context, text string) (bool, error) {
	return s.submit(ctx, protocol.UserInput{Content: text})
}

// LogSet logs a set for the exercise with the given key in the current
// workout. rpe 0 means not given.
func (s *Session) LogSet(ctx context.Context, key string, weight float64, reps, rpe int) (bool, error) {
	w, ok := state.CurrentWorkout(s.log.Snapshot())
	if !ok {
		return false, ErrNoWorkout
	}
	ex, ok := w.FindExercise(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownExercise, key)
	}
	return s.submit(ctx, protocol.NewLogSet(ex, weight, reps, rpe))
}

// Finish ends the current workout.
func (s *Session) Finish(ctx context.Context) (bool, error) {
	return s.submit(ctx, protocol.FinishWorkout{})
}

// ResetFatigue asks the service to clear fatigue scores.
func (s *Session) ResetFatigue(ctx context.Context) (bool, error) {
	return s.submit(ctx, protocol.ResetFatigue{})
}

// LogRest records a rest day.
func (s *Session) LogRest(ctx context.Context) (bool, error) {
	return s.submit(ctx, protocol.LogRest{})
}

func (s *Session) submit(ctx context.Context, cmd protocol.Command) (bool, error) {
	sent, err := s.ctrl.Submit(ctx, cmd)
	s.notify()
	return sent, err
}

// View projects the current log.
func (s *Session) View() state.View {
	return state.Project(s.log.Snapshot())
}

// Transcript returns the chat transcript so far. It only grows in guided
// mode.
func (s *Session) Transcript() []domain.ChatEntry {
	return s.transcript.Entries()
}

// Connected reports whether the channel is open.
func (s *Session) Connected() bool {
	return s.mgr.Connected()
}

// Close closes the channel and stops Run. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.mgr.Close()
		close(s.closed)
	})
	return err
}

// loggingSender writes payloads to the channel and records them.
type loggingSender struct {
	s *Session
}

func (l loggingSender) Send(ctx context.Context, payload []byte) bool {
	sent := l.s.mgr.Send(ctx, payload)
	l.s.convLog.Log(ConversationLogEvent{
		UserID:     l.s.id.String(),
		SessionID:  l.s.sessionID,
		Channel:    logChannel,
		Direction:  "outbound",
		EventType:  commandType(payload),
		ContentRaw: string(payload),
		Meta:       map[string]any{"sent": sent},
	})
	return sent
}

func commandType(payload []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(payload, &head)
	return head.Type
}
