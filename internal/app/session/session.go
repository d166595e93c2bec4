// Package session implements the interval lifecycle: starting a focus or
// break interval and completing it, which credits points, advances the
// account's streak and level, and pushes progress to a linked task.
//
// Completion is one logical unit of work: the session and account writes
// are all-or-nothing, the linked-task write is best-effort and never
// fails the completion.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pulse-labs/pulse/internal/app/scoring"
	"github.com/pulse-labs/pulse/internal/domain"
	"github.com/pulse-labs/pulse/internal/infra/metrics"
	"github.com/pulse-labs/pulse/internal/infra/sqlite"
)

// Service manages the interval session lifecycle.
type Service struct {
	db  *sqlite.DB
	log zerolog.Logger

	// Now supplies the current time; tests override it to pin streak
	// day boundaries.
	Now func() time.Time
}

// NewService creates a session lifecycle service.
func NewService(db *sqlite.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log, Now: time.Now}
}

// Result is returned from Complete: the completed session plus the
// account's updated progress triple.
type Result struct {
	Session domain.Session  `json:"session"`
	Account domain.Progress `json:"account"`
}

// Start creates a new open interval for the account. No account or task
// state changes at start — an abandoned session costs nothing.
func (s *Service) Start(accountID string, kind domain.Kind, durationMinutes int, taskID string) (*domain.Session, error) {
	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return nil, domain.ErrInvalidDuration
	}
	if !kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	acct, err := s.db.GetAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if acct == nil {
		return nil, domain.ErrAccountNotFound
	}

	if taskID != "" {
		task, err := s.db.GetTask(taskID)
		if err != nil {
			return nil, fmt.Errorf("load task: %w", err)
		}
		// Ownership failures report as not-found — no existence leakage.
		if task == nil || task.AccountID != accountID {
			return nil, domain.ErrTaskNotFound
		}
	}

	sess := domain.Session{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		TaskID:      taskID,
		Kind:        kind,
		DurationMin: durationMinutes,
		StartedAt:   s.Now().UTC(),
	}
	if err := s.db.CreateSession(sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.SessionsStarted.WithLabelValues(string(kind)).Inc()
	return &sess, nil
}

// Complete marks the session finished, credits points computed from the
// pre-update streak, advances streak and level, and persists session and
// account in one transaction. Re-completion is rejected with
// domain.ErrSessionCompleted; concurrent retries are settled by the
// storage layer's conditional update, so points credit exactly once.
func (s *Service) Complete(sessionID, accountID string) (*Result, error) {
	sess, err := s.db.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.AccountID != accountID {
		return nil, domain.ErrSessionNotFound
	}
	if sess.Completed {
		metrics.CompletionConflicts.Inc()
		return nil, domain.ErrSessionCompleted
	}

	acct, err := s.db.GetAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if acct == nil {
		// Should not occur under referential integrity; handled defensively.
		return nil, domain.ErrAccountNotFound
	}

	now := s.Now().UTC()

	// Points use the streak as it was BEFORE this completion.
	points := scoring.IntervalPoints(sess.DurationMin, sess.Kind, acct.Streak)

	// Streak looks at the most recent completed session other than this
	// one, read before this completion commits.
	prev, err := s.db.MostRecentCompleted(accountID, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("find previous session: %w", err)
	}
	switch {
	case prev == nil:
		acct.Streak = 1 // First-ever completed session
	case scoring.StreakContinues(prev.CompletedAt, now):
		acct.Streak++
	default:
		acct.Streak = 1
		metrics.StreakResets.Inc()
	}

	oldLevel := acct.Level
	acct.Points += int64(points)
	acct.Level = scoring.LevelForPoints(acct.Points)
	acct.LastCompleted = now

	sess.Completed = true
	sess.CompletedAt = now
	sess.PointsEarned = points

	if err := s.db.CompleteSession(*sess, *acct); err != nil {
		if errors.Is(err, domain.ErrSessionCompleted) {
			metrics.CompletionConflicts.Inc()
		}
		return nil, err
	}

	metrics.SessionsCompleted.WithLabelValues(string(sess.Kind)).Inc()
	metrics.PointsAwarded.Add(float64(points))
	if acct.Level > oldLevel {
		metrics.LevelUps.Inc()
		s.log.Info().Str("account", accountID).Int("level", acct.Level).Msg("level up")
	}

	// Session and account are committed; the linked-task update must not
	// undo them, so failures here are recorded and swallowed. Only work
	// intervals count toward a task — a linked break earns points but
	// leaves the task alone.
	if sess.TaskID != "" && sess.Kind == domain.KindWork {
		s.updateLinkedTask(sess.TaskID, accountID)
	}

	return &Result{Session: *sess, Account: acct.Progress()}, nil
}

// Preview returns the points an interval would earn, for display before
// completing. Same validation as Start.
func (s *Service) Preview(durationMinutes int, kind domain.Kind, streak int) (int, error) {
	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return 0, domain.ErrInvalidDuration
	}
	if !kind.Valid() {
		return 0, domain.ErrInvalidKind
	}
	return scoring.IntervalPoints(durationMinutes, kind, streak), nil
}

// updateLinkedTask advances the linked task's interval counter and
// status. Best-effort: a task deleted between start and completion is
// skipped silently.
func (s *Service) updateLinkedTask(taskID, accountID string) {
	task, err := s.db.GetTask(taskID)
	if err != nil {
		metrics.TaskUpdateFailures.Inc()
		s.log.Warn().Err(err).Str("task", taskID).Msg("load linked task")
		return
	}
	if task == nil || task.AccountID != accountID {
		s.log.Debug().Str("task", taskID).Msg("linked task gone, skipping update")
		return
	}

	changed := task.RecordInterval()
	if err := s.db.SaveTaskProgress(*task); err != nil {
		metrics.TaskUpdateFailures.Inc()
		s.log.Warn().Err(err).Str("task", taskID).Msg("save linked task progress")
		return
	}
	if changed && task.Status == domain.TaskCompleted {
		metrics.TasksCompleted.Inc()
		s.log.Info().Str("task", taskID).Int("intervals", task.CompletedIntervals).Msg("task completed")
	}
}
