package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pulse-labs/pulse/internal/app/scoring"
	"github.com/pulse-labs/pulse/internal/domain"
)

// ─── Accounts ───────────────────────────────────────────────────────────────

type createAccountRequest struct {
	ID   string `json:"id,omitempty"` // optional fixed id (local CLI account)
	Name string `json:"name"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	acct := domain.Account{
		ID:        req.ID,
		Name:      req.Name,
		Level:     1,
		CreatedAt: time.Now().UTC(),
	}
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}

	if err := s.db.CreateAccount(acct); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (s *Server) handleAccountProgress(w http.ResponseWriter, r *http.Request) {
	acct, err := s.db.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if acct == nil {
		writeDomainError(w, domain.ErrAccountNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points":           acct.Points,
		"level":            acct.Level,
		"streak":           acct.Streak,
		"next_level_at":    scoring.PointsThresholdForLevel(acct.Level),
		"progress_percent": scoring.LevelProgressPercent(acct.Points, acct.Level),
	})
}

// ─── Sessions ───────────────────────────────────────────────────────────────

type startSessionRequest struct {
	AccountID   string `json:"account_id"`
	Kind        string `json:"kind"`
	DurationMin int    `json:"duration_min"`
	TaskID      string `json:"task_id,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.sessions.Start(accountID(r, req.AccountID),
		domain.Kind(req.Kind), req.DurationMin, req.TaskID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

type completeSessionRequest struct {
	AccountID string `json:"account_id"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req completeSessionRequest
	// Body is optional when the account comes from the header.
	_ = json.NewDecoder(r.Body).Decode(&req)

	res, err := s.sessions.Complete(chi.URLParam(r, "id"), accountID(r, req.AccountID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.db.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	caller := accountID(r, r.URL.Query().Get("account"))
	if sess == nil || sess.AccountID != caller {
		writeDomainError(w, domain.ErrSessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	caller := accountID(r, r.URL.Query().Get("account"))
	if caller == "" {
		writeError(w, http.StatusBadRequest, "account is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sessions, err := s.db.ListSessions(caller, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// ─── Tasks ──────────────────────────────────────────────────────────────────

type createTaskRequest struct {
	AccountID          string `json:"account_id"`
	Title              string `json:"title"`
	EstimatedIntervals int    `json:"estimated_intervals"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" {
		writeDomainError(w, domain.ErrEmptyTitle)
		return
	}
	if req.EstimatedIntervals < domain.MinEstimatedIntervals ||
		req.EstimatedIntervals > domain.MaxEstimatedIntervals {
		writeDomainError(w, domain.ErrInvalidEstimate)
		return
	}

	caller := accountID(r, req.AccountID)
	acct, err := s.db.GetAccount(caller)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if acct == nil {
		writeDomainError(w, domain.ErrAccountNotFound)
		return
	}

	task := domain.Task{
		ID:                 uuid.NewString(),
		AccountID:          caller,
		Title:              req.Title,
		Status:             domain.TaskPending,
		EstimatedIntervals: req.EstimatedIntervals,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.db.CreateTask(task); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	caller := accountID(r, r.URL.Query().Get("account"))
	if caller == "" {
		writeError(w, http.StatusBadRequest, "account is required")
		return
	}
	tasks, err := s.db.ListTasks(caller)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.db.GetTask(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	caller := accountID(r, r.URL.Query().Get("account"))
	if task == nil || task.AccountID != caller {
		writeDomainError(w, domain.ErrTaskNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.db.GetTask(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	caller := accountID(r, r.URL.Query().Get("account"))
	if task == nil || task.AccountID != caller {
		writeDomainError(w, domain.ErrTaskNotFound)
		return
	}
	if err := s.db.DeleteTask(task.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Scoring ────────────────────────────────────────────────────────────────

// handleScoringPreview answers "how many points would this interval
// earn" without touching any state.
func (s *Server) handleScoringPreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minutes, err := strconv.Atoi(q.Get("minutes"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "minutes must be an integer")
		return
	}
	streak := 0
	if v := q.Get("streak"); v != "" {
		if streak, err = strconv.Atoi(v); err != nil || streak < 0 {
			writeError(w, http.StatusBadRequest, "streak must be a non-negative integer")
			return
		}
	}

	points, err := s.sessions.Preview(minutes, domain.Kind(q.Get("kind")), streak)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points": points})
}
