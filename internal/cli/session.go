package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/identity"
	"github.com/ashureev/superset/internal/mode"
	"github.com/ashureev/superset/internal/session"
	"github.com/spf13/cobra"
)

func newChatCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Plan and log a workout with your coach",
		Long:  "Opens a guided session. Type to talk to your coach; /help lists the set-logging commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runSession(cmd, mode.Guided)
		},
	}
}

func newTrustCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trust",
		Short: "Let the coach pick and run today's workout",
		Long:  "Opens an autonomous session. The coach plans the workout as soon as you connect; log sets with /log and end with /finish.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runSession(cmd, mode.Autonomous)
		},
	}
}

// syncWriter serializes output from the session goroutine and the input loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// printer renders session updates as they arrive.
type printer struct {
	out       io.Writer
	mu        sync.Mutex
	connected bool
	executing bool
	workout   string
}

func (p *printer) update(u session.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u.Connected != p.connected {
		p.connected = u.Connected
		if u.Connected {
			fmt.Fprintln(p.out, "Connected.")
		} else {
			fmt.Fprintln(p.out, "Disconnected.")
		}
	}
	for _, e := range u.Entries {
		renderEntry(p.out, e)
	}
	key := workoutKey(u.View.Workout)
	if key != p.workout {
		p.workout = key
		if u.View.Workout != nil {
			renderWorkout(p.out, *u.View.Workout)
		}
	}
	if u.View.Executing && !p.executing {
		fmt.Fprintln(p.out, "(set in progress)")
	}
	p.executing = u.View.Executing
}

func workoutKey(w *domain.WorkoutSnapshot) string {
	if w == nil {
		return ""
	}
	key := w.Title + "|" + w.Coach
	for _, ex := range w.Exercises {
		key += "|" + ex.Key()
	}
	return key
}

func (a *App) runSession(cmd *cobra.Command, m mode.Mode) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	id, err := a.requireIdentity(ctx)
	if err != nil {
		return err
	}
	out := &syncWriter{w: cmd.OutOrStdout()}
	p := &printer{out: out}

	views := make(chan mode.View, 2)
	navigator := mode.NavigatorFunc(func(v mode.View) {
		select {
		case views <- v:
		default:
		}
	})

	host := session.NewHost(func(id identity.Identity) (*session.Session, error) {
		return session.New(session.Options{
			Identity:        id,
			Mode:            m,
			BaseURL:         a.Config.WSBaseURL,
			Path:            a.Config.SessionPath,
			ReadLimit:       a.Config.WSReadLimit,
			Navigator:       navigator,
			ConversationLog: a.ConversationLog,
			OnUpdate:        p.update,
			Logger:          a.Logger,
		})
	}, a.Logger)
	defer host.Close()

	s, err := host.Switch(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session for %s (%s). Type /help for commands.\n", id, m)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-views:
			switch v {
			case mode.ViewCompletion:
				fmt.Fprintln(out, "Workout complete. Nice work!")
			case mode.ViewRestDay:
				fmt.Fprintln(out, "You've reached your weekly goal. Today is a rest day.")
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := a.handleLine(ctx, s, out, line)
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("! %v", err)))
			}
			if quit {
				return nil
			}
		}
	}
}

// handleLine executes one input line. It reports whether the session should
// end.
func (a *App) handleLine(ctx context.Context, s *session.Session, out io.Writer, line string) (bool, error) {
	act, err := parseLine(line)
	if err != nil {
		return false, err
	}

	var sent bool
	switch act.kind {
	case actionQuit:
		return true, nil
	case actionHelp:
		fmt.Fprintln(out, helpText)
		return false, nil
	case actionWorkout:
		if w := s.View().Workout; w != nil {
			renderWorkout(out, *w)
		} else {
			fmt.Fprintln(out, "No workout yet.")
		}
		return false, nil
	case actionText:
		if act.text == "" {
			return false, nil
		}
		sent, err = s.Submit(ctx, act.text)
	case actionLog:
		w := s.View().Workout
		if w == nil {
			return false, session.ErrNoWorkout
		}
		key, ok := resolveExercise(*w, act.exercise)
		if !ok {
			return false, fmt.Errorf("%w: %s", session.ErrUnknownExercise, act.exercise)
		}
		sent, err = s.LogSet(ctx, key, act.weight, act.reps, act.rpe)
	case actionFinish:
		sent, err = s.Finish(ctx)
	case actionRest:
		sent, err = s.LogRest(ctx)
	case actionReset:
		sent, err = s.ResetFatigue(ctx)
	}
	if err != nil {
		return false, err
	}
	if !sent {
		fmt.Fprintln(out, mutedStyle.Render("Not connected; nothing was sent."))
	}
	return false, nil
}
