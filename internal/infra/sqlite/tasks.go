package sqlite

import (
	"database/sql"
	"time"

	"github.com/pulse-labs/pulse/internal/domain"
)

// ─── Task Repository ────────────────────────────────────────────────────────

// CreateTask inserts a new task record.
func (d *DB) CreateTask(t domain.Task) error {
	_, err := d.db.Exec(
		`INSERT INTO tasks (id, account_id, title, status, estimated_intervals, completed_intervals, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Title, string(t.Status),
		t.EstimatedIntervals, t.CompletedIntervals, t.CreatedAt.Unix(),
	)
	return err
}

// GetTask retrieves a single task by id. Returns (nil, nil) when no
// such task exists.
func (d *DB) GetTask(id string) (*domain.Task, error) {
	row := d.db.QueryRow(
		`SELECT id, account_id, title, status, estimated_intervals, completed_intervals, created_at
		 FROM tasks WHERE id = ?`, id,
	)
	return scanTask(row)
}

// ListTasks returns the account's tasks ordered by creation time.
func (d *DB) ListTasks(accountID string) ([]domain.Task, error) {
	rows, err := d.db.Query(
		`SELECT id, account_id, title, status, estimated_intervals, completed_intervals, created_at
		 FROM tasks WHERE account_id = ? ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// SaveTaskProgress persists the task's interval counter and status.
func (d *DB) SaveTaskProgress(t domain.Task) error {
	res, err := d.db.Exec(
		`UPDATE tasks SET status = ?, completed_intervals = ? WHERE id = ?`,
		string(t.Status), t.CompletedIntervals, t.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task record.
func (d *DB) DeleteTask(id string) error {
	res, err := d.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var status string
	var createdAt int64

	err := s.Scan(&t.ID, &t.AccountID, &t.Title, &status,
		&t.EstimatedIntervals, &t.CompletedIntervals, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &t, nil
}
