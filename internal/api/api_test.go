package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pulse-labs/pulse/internal/app/session"
	"github.com/pulse-labs/pulse/internal/infra/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewServer(db, session.NewService(db, zerolog.Nop()))
}

// do executes a request against the router and decodes the JSON body.
func do(t *testing.T, srv *Server, method, path, body string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v\nbody: %s", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func createAccount(t *testing.T, srv *Server) string {
	t.Helper()
	var acct struct {
		ID string `json:"id"`
	}
	rec := do(t, srv, "POST", "/api/accounts", `{"name":"test"}`, &acct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: status %d: %s", rec.Code, rec.Body.String())
	}
	return acct.ID
}

// ─── Health & version ───────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, "GET", "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health: status %d", rec.Code)
	}

	rec = do(t, srv, "GET", "/api/version", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("version: status %d", rec.Code)
	}
}

// ─── Session lifecycle ──────────────────────────────────────────────────────

func TestAPI_StartAndCompleteSession(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	var sess struct {
		ID        string `json:"id"`
		Completed bool   `json:"completed"`
	}
	body := fmt.Sprintf(`{"account_id":%q,"kind":"work","duration_min":25}`, acct)
	rec := do(t, srv, "POST", "/api/sessions", body, &sess)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: status %d: %s", rec.Code, rec.Body.String())
	}
	if sess.Completed {
		t.Error("new session should be open")
	}

	var res struct {
		Session struct {
			PointsEarned int `json:"points_earned"`
		} `json:"session"`
		Account struct {
			Points int64 `json:"points"`
			Level  int   `json:"level"`
			Streak int   `json:"streak"`
		} `json:"account"`
	}
	rec = do(t, srv, "POST", "/api/sessions/"+sess.ID+"/complete",
		fmt.Sprintf(`{"account_id":%q}`, acct), &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status %d: %s", rec.Code, rec.Body.String())
	}
	if res.Session.PointsEarned != 15 {
		t.Errorf("expected 15 points, got %d", res.Session.PointsEarned)
	}
	if res.Account.Points != 15 || res.Account.Streak != 1 || res.Account.Level != 1 {
		t.Errorf("unexpected account progress: %+v", res.Account)
	}
}

func TestAPI_CompleteTwiceIsConflict(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	var sess struct {
		ID string `json:"id"`
	}
	body := fmt.Sprintf(`{"account_id":%q,"kind":"work","duration_min":25}`, acct)
	do(t, srv, "POST", "/api/sessions", body, &sess)

	completeBody := fmt.Sprintf(`{"account_id":%q}`, acct)
	rec := do(t, srv, "POST", "/api/sessions/"+sess.ID+"/complete", completeBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first complete: status %d", rec.Code)
	}
	rec = do(t, srv, "POST", "/api/sessions/"+sess.ID+"/complete", completeBody, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second complete: status %d, want 409", rec.Code)
	}
}

func TestAPI_StartValidation(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	cases := []struct {
		name string
		body string
	}{
		{"bad duration", fmt.Sprintf(`{"account_id":%q,"kind":"work","duration_min":0}`, acct)},
		{"bad kind", fmt.Sprintf(`{"account_id":%q,"kind":"nap","duration_min":25}`, acct)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, "POST", "/api/sessions", tc.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rec.Code)
			}
		})
	}
}

func TestAPI_ForeignSessionIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	owner := createAccount(t, srv)
	stranger := createAccount(t, srv)

	var sess struct {
		ID string `json:"id"`
	}
	body := fmt.Sprintf(`{"account_id":%q,"kind":"work","duration_min":25}`, owner)
	do(t, srv, "POST", "/api/sessions", body, &sess)

	rec := do(t, srv, "POST", "/api/sessions/"+sess.ID+"/complete",
		fmt.Sprintf(`{"account_id":%q}`, stranger), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign complete: status %d, want 404", rec.Code)
	}

	rec = do(t, srv, "GET", "/api/sessions/"+sess.ID+"?account="+stranger, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign get: status %d, want 404", rec.Code)
	}
}

func TestAPI_AccountHeaderIdentity(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	req := httptest.NewRequest("POST", "/api/sessions",
		strings.NewReader(`{"kind":"work","duration_min":25}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Pulse-Account", acct)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("header identity start: status %d: %s", rec.Code, rec.Body.String())
	}
}

// ─── Tasks ──────────────────────────────────────────────────────────────────

func TestAPI_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	var task struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	body := fmt.Sprintf(`{"account_id":%q,"title":"write report","estimated_intervals":1}`, acct)
	rec := do(t, srv, "POST", "/api/tasks", body, &task)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d: %s", rec.Code, rec.Body.String())
	}
	if task.Status != "pending" {
		t.Errorf("new task status %q, want pending", task.Status)
	}

	// Complete a linked work interval; the one-interval task finishes.
	var sess struct {
		ID string `json:"id"`
	}
	sessBody := fmt.Sprintf(`{"account_id":%q,"kind":"work","duration_min":25,"task_id":%q}`, acct, task.ID)
	do(t, srv, "POST", "/api/sessions", sessBody, &sess)
	rec = do(t, srv, "POST", "/api/sessions/"+sess.ID+"/complete",
		fmt.Sprintf(`{"account_id":%q}`, acct), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status %d", rec.Code)
	}

	var got struct {
		Status             string `json:"status"`
		CompletedIntervals int    `json:"completed_intervals"`
	}
	do(t, srv, "GET", "/api/tasks/"+task.ID+"?account="+acct, "", &got)
	if got.Status != "completed" || got.CompletedIntervals != 1 {
		t.Errorf("task after linked completion: %+v", got)
	}

	rec = do(t, srv, "DELETE", "/api/tasks/"+task.ID+"?account="+acct, "", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete task: status %d", rec.Code)
	}
}

func TestAPI_TaskValidation(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	cases := []struct {
		name string
		body string
	}{
		{"empty title", fmt.Sprintf(`{"account_id":%q,"title":"","estimated_intervals":2}`, acct)},
		{"zero estimate", fmt.Sprintf(`{"account_id":%q,"title":"x","estimated_intervals":0}`, acct)},
		{"estimate too large", fmt.Sprintf(`{"account_id":%q,"title":"x","estimated_intervals":21}`, acct)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, "POST", "/api/tasks", tc.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rec.Code)
			}
		})
	}
}

// ─── Progress & preview ─────────────────────────────────────────────────────

func TestAPI_AccountProgress(t *testing.T) {
	srv := newTestServer(t)
	acct := createAccount(t, srv)

	var prog struct {
		Points          int64 `json:"points"`
		Level           int   `json:"level"`
		NextLevelAt     int64 `json:"next_level_at"`
		ProgressPercent int   `json:"progress_percent"`
	}
	rec := do(t, srv, "GET", "/api/accounts/"+acct+"/progress", "", &prog)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress: status %d", rec.Code)
	}
	if prog.Level != 1 || prog.NextLevelAt != 100 || prog.ProgressPercent != 0 {
		t.Errorf("fresh account progress: %+v", prog)
	}

	rec = do(t, srv, "GET", "/api/accounts/nope/progress", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing account: status %d, want 404", rec.Code)
	}
}

func TestAPI_ScoringPreview(t *testing.T) {
	srv := newTestServer(t)

	var out struct {
		Points int `json:"points"`
	}
	rec := do(t, srv, "GET", "/api/scoring/preview?minutes=25&kind=work&streak=3", "", &out)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: status %d", rec.Code)
	}
	if out.Points != 20 {
		t.Errorf("preview points = %d, want 20", out.Points)
	}

	rec = do(t, srv, "GET", "/api/scoring/preview?minutes=0&kind=work", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid preview: status %d, want 400", rec.Code)
	}

	rec = do(t, srv, "GET", "/api/scoring/preview?minutes=25&kind=work&streak=-2", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative streak preview: status %d, want 400", rec.Code)
	}
}
