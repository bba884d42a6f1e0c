// Package coachstub is a local stand-in for the coaching service. It speaks
// the same session websocket and REST surface with scripted replies.
package coachstub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server serves the stub's routes.
type Server struct {
	users   *Users
	conns   *ConnRegistry
	origins []string
	logger  *slog.Logger
}

// NewServer creates a stub with empty state.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		users:   NewUsers(),
		conns:   NewConnRegistry(),
		origins: []string{"*"},
		logger:  logger,
	}
}

// SetAllowedOrigins replaces the browser origins admitted by Routes. The
// default admits any origin.
func (s *Server) SetAllowedOrigins(origins []string) {
	s.origins = origins
}

// Users exposes the stub's state.
func (s *Server) Users() *Users { return s.users }

// Conns exposes the live session sockets.
func (s *Server) Conns() *ConnRegistry { return s.conns }

// Routes returns the stub's router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(s.origins))

	r.Get("/ws/session/{userID}", s.handleSession)

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/profile", s.handleProfile)
		r.Get("/status", s.handleStatus)
		r.Patch("/settings", s.handleSettings)
		r.Post("/reset-fatigue", s.handleResetFatigue)
		r.Post("/new-week", s.handleNewWeek)
		r.Get("/history", s.handleHistory)
		r.Post("/intake", s.handleIntake)
		r.Post("/select-persona", s.handleSelectPersona)
	})
	return r
}

// Close drops every session socket.
func (s *Server) Close() {
	s.conns.CloseAll()
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.users.Profile(chi.URLParam(r, "userID")))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.users.Status(chi.URLParam(r, "userID")))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MaxWorkoutsPerWeek *int `json:"max_workouts_per_week"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaxWorkoutsPerWeek == nil {
		Error(w, http.StatusUnprocessableEntity, "max_workouts_per_week is required")
		return
	}
	status, err := s.users.SetWeeklyGoal(chi.URLParam(r, "userID"), *req.MaxWorkoutsPerWeek)
	if errors.Is(err, ErrGoalOutOfRange) {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	JSON(w, http.StatusOK, status)
}

func (s *Server) handleResetFatigue(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.users.ResetFatigue(chi.URLParam(r, "userID")))
}

func (s *Server) handleNewWeek(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.users.NewWeek(chi.URLParam(r, "userID")))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"workout_history": s.users.History(chi.URLParam(r, "userID"))})
}

func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	var in domain.Intake
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	JSON(w, http.StatusOK, s.users.Intake(chi.URLParam(r, "userID"), in))
}

func (s *Server) handleSelectPersona(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Personas []string `json:"personas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Personas) == 0 {
		Error(w, http.StatusUnprocessableEntity, "personas must not be empty")
		return
	}
	JSON(w, http.StatusOK, s.users.SelectPersonas(chi.URLParam(r, "userID"), req.Personas))
}
