package mode

import (
	"context"
	"strings"

	"github.com/ashureev/superset/internal/protocol"
)

// guided never sends or navigates on its own.
type guided struct {
	deps Deps
}

func newGuided(deps Deps) *guided {
	return &guided{deps: deps}
}

func (g *guided) Mode() Mode { return Guided }

func (g *guided) OnConnect(context.Context) {}

func (g *guided) OnNewEvents(_ context.Context, events []protocol.Event) {
	g.deps.Transcript.Advance(events)
}

func (g *guided) OnUserCommand(ctx context.Context, cmd protocol.Command) (bool, error) {
	if in, ok := cmd.(protocol.UserInput); ok {
		if strings.TrimSpace(in.Content) == "" {
			return false, ErrEmptyInput
		}
		g.deps.Transcript.AddUser(in.Content)
	}
	return g.deps.Sender.Send(ctx, cmd), nil
}
