package protocol

import (
	"context"
	"log/slog"
)

// Sender writes an encoded command to the session channel. It reports false
// when the payload was dropped.
type Sender interface {
	Send(ctx context.Context, payload []byte) bool
}

// Encoder builds outbound commands and hands them to a Sender.
type Encoder struct {
	sender Sender
	logger *slog.Logger
}

// NewEncoder creates an encoder writing to sender.
func NewEncoder(sender Sender, logger *slog.Logger) *Encoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Encoder{sender: sender, logger: logger}
}

// Send encodes cmd and writes it. Returns false if it was not written.
func (e *Encoder) Send(ctx context.Context, cmd Command) bool {
	payload, err := Encode(cmd)
	if err != nil {
		e.logger.Error("Failed to encode command", "type", cmd.CommandType(), "error", err)
		return false
	}
	sent := e.sender.Send(ctx, payload)
	if !sent {
		e.logger.Debug("Command dropped", "type", cmd.CommandType())
	}
	return sent
}

// Text sends free-text chat.
func (e *Encoder) Text(ctx context.Context, content string) bool {
	return e.Send(ctx, UserInput{Content: content})
}

// FinishWorkout sends FINISH_WORKOUT.
func (e *Encoder) FinishWorkout(ctx context.Context) bool {
	return e.Send(ctx, FinishWorkout{})
}

// LogSet sends LOG_SET.
func (e *Encoder) LogSet(ctx context.Context, set LogSet) bool {
	return e.Send(ctx, set)
}

// ResetFatigue sends RESET_FATIGUE.
func (e *Encoder) ResetFatigue(ctx context.Context) bool {
	return e.Send(ctx, ResetFatigue{})
}

// LogRest sends LOG_REST.
func (e *Encoder) LogRest(ctx context.Context) bool {
	return e.Send(ctx, LogRest{})
}
