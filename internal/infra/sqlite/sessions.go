package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pulse-labs/pulse/internal/domain"
)

// ─── Session Repository ─────────────────────────────────────────────────────

// CreateSession inserts a new open session record.
func (d *DB) CreateSession(s domain.Session) error {
	_, err := d.db.Exec(
		`INSERT INTO sessions (id, account_id, task_id, kind, duration_min, completed, points_earned, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, nullableString(s.TaskID), string(s.Kind),
		s.DurationMin, s.Completed, s.PointsEarned,
		s.StartedAt.Unix(), nullableUnix(s.CompletedAt),
	)
	return err
}

// GetSession retrieves a single session by id. Returns (nil, nil) when
// no such session exists.
func (d *DB) GetSession(id string) (*domain.Session, error) {
	row := d.db.QueryRow(
		`SELECT id, account_id, task_id, kind, duration_min, completed, points_earned, started_at, completed_at
		 FROM sessions WHERE id = ?`, id,
	)
	return scanSession(row)
}

// ListSessions returns the account's sessions, most recent first.
func (d *DB) ListSessions(accountID string, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, account_id, task_id, kind, duration_min, completed, points_earned, started_at, completed_at
		 FROM sessions WHERE account_id = ? ORDER BY started_at DESC LIMIT ?`,
		accountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// MostRecentCompleted returns the account's most recently completed
// session, excluding the given session id. Returns (nil, nil) when the
// account has no other completed sessions. The streak check reads this
// BEFORE the current session's completion commits, so the exclusion
// keeps the just-completed session from posing as "the previous one".
func (d *DB) MostRecentCompleted(accountID, excludeSessionID string) (*domain.Session, error) {
	row := d.db.QueryRow(
		`SELECT id, account_id, task_id, kind, duration_min, completed, points_earned, started_at, completed_at
		 FROM sessions
		 WHERE account_id = ? AND completed = 1 AND id != ?
		 ORDER BY completed_at DESC LIMIT 1`,
		accountID, excludeSessionID,
	)
	return scanSession(row)
}

// CompleteSession atomically marks the session completed and applies the
// account's new progress in one transaction. The session update is
// conditional on completed = 0: under concurrent retries of the same
// completion only one caller wins, so points are credited exactly once.
// Returns domain.ErrSessionCompleted if the guard rejects the update.
func (d *DB) CompleteSession(sess domain.Session, acct domain.Account) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE sessions SET completed = 1, points_earned = ?, completed_at = ?
		 WHERE id = ? AND completed = 0`,
		sess.PointsEarned, sess.CompletedAt.Unix(), sess.ID,
	)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionCompleted
	}

	res, err = tx.Exec(
		`UPDATE accounts SET points = ?, level = ?, streak = ?, last_completed = ?
		 WHERE id = ?`,
		acct.Points, acct.Level, acct.Streak,
		nullableUnix(acct.LastCompleted), acct.ID,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAccountNotFound
	}

	return tx.Commit()
}

// CountOpenSessionsBefore returns how many sessions started before the
// cutoff are still open. Abandoned sessions have no expiry; this count
// exists for health visibility only.
func (d *DB) CountOpenSessionsBefore(cutoff time.Time) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE completed = 0 AND started_at < ?`,
		cutoff.Unix(),
	).Scan(&n)
	return n, err
}

func scanSession(s scanner) (*domain.Session, error) {
	var sess domain.Session
	var taskID sql.NullString
	var kind string
	var startedAt int64
	var completedAt sql.NullInt64

	err := s.Scan(&sess.ID, &sess.AccountID, &taskID, &kind,
		&sess.DurationMin, &sess.Completed, &sess.PointsEarned,
		&startedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	sess.TaskID = taskID.String
	sess.Kind = domain.Kind(kind)
	sess.StartedAt = time.Unix(startedAt, 0).UTC()
	if completedAt.Valid {
		sess.CompletedAt = time.Unix(completedAt.Int64, 0).UTC()
	}
	return &sess, nil
}
