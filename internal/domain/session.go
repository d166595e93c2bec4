// Package domain holds the core Pulse types.
// Domain types are pure — no infrastructure dependency.
package domain

import "time"

// Kind categorizes an interval session.
type Kind string

const (
	KindWork      Kind = "work"
	KindBreak     Kind = "break"
	KindLongBreak Kind = "long_break"
)

// Valid reports whether k is one of the closed kind set.
func (k Kind) Valid() bool {
	switch k {
	case KindWork, KindBreak, KindLongBreak:
		return true
	}
	return false
}

// Duration bounds for a single interval, in minutes.
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 120
)

// Session is one timed focus or break interval.
// Lifecycle: open → completed (terminal). An open session that is never
// completed simply stays open.
type Session struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	TaskID       string    `json:"task_id,omitempty"` // optional linked task
	Kind         Kind      `json:"kind"`
	DurationMin  int       `json:"duration_min"`
	Completed    bool      `json:"completed"`
	PointsEarned int       `json:"points_earned"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
}

// IsOpen reports whether the session can still be completed.
func (s *Session) IsOpen() bool {
	return !s.Completed
}

// Elapsed returns wall time from start to completion (0 while open).
func (s *Session) Elapsed() time.Duration {
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
