// Package api is a client for the coaching service's REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ashureev/superset/internal/domain"
	"github.com/ashureev/superset/internal/identity"
	"github.com/ashureev/superset/internal/workout"
)

const (
	minWeeklyGoal = 1
	maxWeeklyGoal = 7

	defaultHeightCm = 170
	defaultWeightKg = 70
)

// Error is a failed request. Status is 0 when the service could not be
// reached.
type Error struct {
	Status  int
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsTransport reports whether the request never got an HTTP response.
func (e *Error) IsTransport() bool { return e.Status == 0 }

// StatusOf returns the HTTP status carried by err, or -1 if err is not an
// *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// Client calls the service's user endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for baseURL, e.g. http://localhost:8000.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Profile returns the user's onboarding state and subscriptions.
func (c *Client) Profile(ctx context.Context, id identity.Identity) (domain.Profile, error) {
	var p domain.Profile
	err := c.do(ctx, http.MethodGet, userPath(id, "profile"), nil, &p)
	return p, err
}

// Status returns weekly progress and fatigue.
func (c *Client) Status(ctx context.Context, id identity.Identity) (domain.Status, error) {
	var s domain.Status
	err := c.do(ctx, http.MethodGet, userPath(id, "status"), nil, &s)
	return s, err
}

// SetWeeklyGoal sets the weekly workout goal, clamped to 1..7, and returns
// the refreshed status.
func (c *Client) SetWeeklyGoal(ctx context.Context, id identity.Identity, goal int) (domain.Status, error) {
	goal = min(maxWeeklyGoal, max(minWeeklyGoal, goal))
	body := map[string]int{"max_workouts_per_week": goal}
	if err := c.do(ctx, http.MethodPatch, userPath(id, "settings"), body, nil); err != nil {
		return domain.Status{}, err
	}
	return c.Status(ctx, id)
}

// ResetFatigue clears fatigue scores and returns the refreshed status.
func (c *Client) ResetFatigue(ctx context.Context, id identity.Identity) (domain.Status, error) {
	if err := c.do(ctx, http.MethodPost, userPath(id, "reset-fatigue"), nil, nil); err != nil {
		return domain.Status{}, err
	}
	return c.Status(ctx, id)
}

// NewWeek resets the weekly count and returns the refreshed status.
func (c *Client) NewWeek(ctx context.Context, id identity.Identity) (domain.Status, error) {
	if err := c.do(ctx, http.MethodPost, userPath(id, "new-week"), nil, nil); err != nil {
		return domain.Status{}, err
	}
	return c.Status(ctx, id)
}

// History returns completed workouts, most recent first.
func (c *Client) History(ctx context.Context, id identity.Identity) ([]workout.HistoryEntry, error) {
	var resp struct {
		WorkoutHistory []json.RawMessage `json:"workout_history"`
	}
	if err := c.do(ctx, http.MethodGet, userPath(id, "history"), nil, &resp); err != nil {
		return nil, err
	}
	return workout.HistoryEntries(resp.WorkoutHistory), nil
}

// SubmitIntake sends the onboarding answers. Missing height and weight are
// sent as 170cm and 70kg.
func (c *Client) SubmitIntake(ctx context.Context, id identity.Identity, in domain.Intake) (domain.IntakeResult, error) {
	if in.HeightCm <= 0 {
		in.HeightCm = defaultHeightCm
	}
	if in.WeightKg <= 0 {
		in.WeightKg = defaultWeightKg
	}
	if strings.TrimSpace(in.FitnessLevel) == "" {
		in.FitnessLevel = "Intermediate"
	}
	var res domain.IntakeResult
	err := c.do(ctx, http.MethodPost, userPath(id, "intake"), in, &res)
	return res, err
}

// SelectPersonas subscribes the user to coaches.
func (c *Client) SelectPersonas(ctx context.Context, id identity.Identity, personas []string) error {
	body := map[string][]string{"personas": personas}
	return c.do(ctx, http.MethodPost, userPath(id, "select-persona"), body, nil)
}

func userPath(id identity.Identity, endpoint string) string {
	return "/api/users/" + url.PathEscape(id.String()) + "/" + endpoint
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", "method", method, "path", path, "error", err)
		return &Error{Message: "network error: " + err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: "network error: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Status:  resp.StatusCode,
			Message: detail(data, resp.StatusCode),
			Body:    data,
		}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// detail extracts the body's "detail" string, falling back to a generic
// message.
func detail(body []byte, status int) string {
	var payload struct {
		Detail *string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Detail != nil {
		return *payload.Detail
	}
	return fmt.Sprintf("API error: %d", status)
}
