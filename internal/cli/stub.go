package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ashureev/superset/internal/coachstub"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newStubCommand(app *App) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local coach stub for offline use and testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if port == "" {
				port = app.Config.StubPort
			}

			stub := coachstub.NewServer(app.Logger)
			stub.SetAllowedOrigins(app.Config.StubAllowedOrigins)
			r := chi.NewRouter()
			r.Use(chiMiddleware.Logger)
			r.Mount("/", stub.Routes())

			srv := &http.Server{
				Addr:         ":" + port,
				Handler:      r,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 0, // websockets stay open
				IdleTimeout:  120 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				app.Logger.Info("Coach stub listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				app.Logger.Info("Shutting down coach stub...")
				stub.Close()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			if err := g.Wait(); err != nil {
				return err
			}
			app.Logger.Info("Coach stub stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default STUB_PORT)")
	return cmd
}
