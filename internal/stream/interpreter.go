package stream

import (
	"github.com/ashureev/superset/internal/protocol"
)

// Interpreter decodes frames and appends them to a Log. It is the log's only
// writer.
type Interpreter struct {
	log     *Log
	onEvent func(frame []byte, ev protocol.Event)
}

// NewInterpreter creates an interpreter appending to log. onEvent, if not
// nil, is called after each append in frame order.
func NewInterpreter(log *Log, onEvent func(frame []byte, ev protocol.Event)) *Interpreter {
	return &Interpreter{log: log, onEvent: onEvent}
}

// Interpret decodes one frame and appends the result. Frames that fail to
// decode are appended as text events; nothing is ever dropped.
func (i *Interpreter) Interpret(frame []byte) protocol.Event {
	ev := protocol.Decode(frame)
	i.log.Append(ev)
	if i.onEvent != nil {
		i.onEvent(frame, ev)
	}
	return ev
}
