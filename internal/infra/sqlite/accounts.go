package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"github.com/pulse-labs/pulse/internal/domain"
)

// ─── Account Repository ─────────────────────────────────────────────────────

// CreateAccount inserts a new account record.
func (d *DB) CreateAccount(a domain.Account) error {
	_, err := d.db.Exec(
		`INSERT INTO accounts (id, name, points, level, streak, last_completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Points, a.Level, a.Streak,
		nullableUnix(a.LastCompleted), a.CreatedAt.Unix(),
	)
	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}
	return err
}

// GetAccount retrieves a single account by id. Returns (nil, nil) when
// no such account exists.
func (d *DB) GetAccount(id string) (*domain.Account, error) {
	row := d.db.QueryRow(
		`SELECT id, name, points, level, streak, last_completed, created_at
		 FROM accounts WHERE id = ?`, id,
	)
	return scanAccount(row)
}

// ListAccounts returns all accounts ordered by creation time.
func (d *DB) ListAccounts() ([]domain.Account, error) {
	rows, err := d.db.Query(
		`SELECT id, name, points, level, streak, last_completed, created_at
		 FROM accounts ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	var lastCompleted sql.NullInt64
	var createdAt int64

	err := s.Scan(&a.ID, &a.Name, &a.Points, &a.Level, &a.Streak,
		&lastCompleted, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	if lastCompleted.Valid {
		a.LastCompleted = time.Unix(lastCompleted.Int64, 0).UTC()
	}
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &a, nil
}

// isUniqueViolation reports whether err is a primary-key conflict.
// modernc.org/sqlite surfaces these as generic errors, so match on the
// SQLite message rather than a typed code.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
