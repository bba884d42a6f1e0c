package coachstub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/superset/internal/domain"
	"github.com/coder/websocket"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"foo": "bar"})

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestErrorUsesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusUnprocessableEntity, "bad goal")

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["detail"] != "bad goal" {
		t.Errorf("Expected detail=bad goal, got %v", got)
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStatusDefaults(t *testing.T) {
	h := NewServer(nil).Routes()
	w := do(t, h, http.MethodGet, "/api/users/u1/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var st domain.Status
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if st.MaxWorkoutsPerWeek != 4 || st.WorkoutsCompletedThisWeek != 0 {
		t.Errorf("Expected 0/4, got %d/%d", st.WorkoutsCompletedThisWeek, st.MaxWorkoutsPerWeek)
	}
	if st.SelectedPersona != "iron" {
		t.Errorf("Expected persona iron, got %q", st.SelectedPersona)
	}
}

func TestSettingsRejectsOutOfRange(t *testing.T) {
	h := NewServer(nil).Routes()
	w := do(t, h, http.MethodPatch, "/api/users/u1/settings", `{"max_workouts_per_week": 9}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", w.Code)
	}

	w = do(t, h, http.MethodPatch, "/api/users/u1/settings", `{"max_workouts_per_week": 3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var st domain.Status
	_ = json.NewDecoder(w.Body).Decode(&st)
	if st.MaxWorkoutsPerWeek != 3 {
		t.Errorf("Expected goal 3, got %d", st.MaxWorkoutsPerWeek)
	}
}

func TestOnboardingFlow(t *testing.T) {
	h := NewServer(nil).Routes()

	w := do(t, h, http.MethodPost, "/api/users/u1/intake", `{"height_cm":180,"weight_kg":80,"fitness_level":"beginner","about_me":""}`)
	var res domain.IntakeResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("Failed to decode intake result: %v", err)
	}
	if len(res.RecommendedPersonas) == 0 || res.RecommendedPersonas[0] != "yoga" {
		t.Errorf("Expected yoga first for beginner, got %v", res.RecommendedPersonas)
	}

	w = do(t, h, http.MethodPost, "/api/users/u1/select-persona", `{"personas":[]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 for empty personas, got %d", w.Code)
	}

	do(t, h, http.MethodPost, "/api/users/u1/select-persona", `{"personas":["yoga","iron"]}`)
	w = do(t, h, http.MethodGet, "/api/users/u1/profile", "")
	var p domain.Profile
	_ = json.NewDecoder(w.Body).Decode(&p)
	if !p.IsOnboarded || len(p.SubscribedPersonas) != 2 {
		t.Errorf("Expected onboarded with 2 personas, got %+v", p)
	}
}

func decodeFrame(t *testing.T, frame []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(frame, &m); err != nil {
		t.Fatalf("Failed to decode frame %s: %v", frame, err)
	}
	return m
}

func TestReplyScript(t *testing.T) {
	s := NewServer(nil)

	if got := string(s.Reply("u1", []byte("ping"))); got != "pong" {
		t.Errorf("Expected pong, got %q", got)
	}

	m := decodeFrame(t, s.Reply("u1", []byte(`{"type":"USER_INPUT","content":"push day"}`)))
	if m["type"] != "AGENT_RESPONSE" || m["workout"] == nil || m["is_working_out"] != true {
		t.Errorf("Expected workout response, got %v", m)
	}

	m = decodeFrame(t, s.Reply("u1", []byte(`{"type":"LOG_SET","data":{"exercise_id":"bench_press","weight":60,"reps":8,"rpe":7}}`)))
	if m["type"] != "AGENT_RESPONSE" || m["workout"] != nil {
		t.Errorf("Expected ack without workout, got %v", m)
	}

	m = decodeFrame(t, s.Reply("u1", []byte(`{"type":"FINISH_WORKOUT"}`)))
	if m["workout_completed"] != true {
		t.Errorf("Expected workout_completed, got %v", m)
	}
	state := m["state"].(map[string]any)
	if state["workouts_completed_this_week"] != float64(1) {
		t.Errorf("Expected 1 completed, got %v", state["workouts_completed_this_week"])
	}
	if len(s.Users().History("u1")) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(s.Users().History("u1")))
	}

	m = decodeFrame(t, s.Reply("u1", []byte(`{"type":"DANCE"}`)))
	if m["type"] != "ERROR" {
		t.Errorf("Expected ERROR, got %v", m)
	}
	m = decodeFrame(t, s.Reply("u1", []byte(`not json`)))
	if m["type"] != "ERROR" {
		t.Errorf("Expected ERROR for garbage, got %v", m)
	}
}

func TestReplyRestDayWhenGoalMet(t *testing.T) {
	s := NewServer(nil)
	if _, err := s.Users().SetWeeklyGoal("u1", 1); err != nil {
		t.Fatalf("SetWeeklyGoal failed: %v", err)
	}
	s.Users().Finish("u1")

	m := decodeFrame(t, s.Reply("u1", []byte(`{"type":"USER_INPUT","content":"I want a workout."}`)))
	if m["workout"] != nil {
		t.Errorf("Expected no workout once goal is met, got %v", m["workout"])
	}
	if m["greeting_message"] != greetingRestDay {
		t.Errorf("Expected rest-day greeting, got %v", m["greeting_message"])
	}
}

func TestLogRestNeverGoesNegative(t *testing.T) {
	u := NewUsers()
	u.StartWorkout("u1", "cardio")
	u.Finish("u1")
	u.LogRest("u1")
	st := u.LogRest("u1")
	if st.FatigueScores["hiit"] != 0 {
		t.Errorf("Expected hiit fatigue 0, got %v", st.FatigueScores["hiit"])
	}
}

func TestSessionSocketReplacesPrevious(t *testing.T) {
	s := NewServer(nil)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session/u1"

	first, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer first.CloseNow()

	if err := first.Write(ctx, websocket.MessageText, []byte("ping")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	_, data, err := first.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "pong" {
		t.Errorf("Expected pong, got %q", data)
	}

	second, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("second Dial failed: %v", err)
	}
	defer second.CloseNow()

	if _, _, err := first.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("Expected first socket closed normally, got %v", err)
	}
	if err := second.Write(ctx, websocket.MessageText, []byte("ping")); err != nil {
		t.Fatalf("Write on second failed: %v", err)
	}
	if _, data, err := second.Read(ctx); err != nil || string(data) != "pong" {
		t.Errorf("Expected pong on second socket, got %q (%v)", data, err)
	}
}

func TestRoutesHonourAllowedOrigins(t *testing.T) {
	s := NewServer(nil)
	s.SetAllowedOrigins([]string{"http://app.local"})
	h := s.Routes()

	for origin, want := range map[string]int{
		"http://app.local":  http.StatusNoContent,
		"http://evil.local": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodOptions, "/api/users/u1/settings", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("Expected %d for %s, got %d", want, origin, w.Code)
		}
	}
}
