// Package metrics provides Prometheus metrics for Pulse — counters and
// gauges for sessions, scoring and task progress.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Sessions ───────────────────────────────────────────────────────────────

// SessionsStarted tracks started intervals by kind.
var SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "sessions_started_total",
	Help:      "Total interval sessions started.",
}, []string{"kind"})

// SessionsCompleted tracks completed intervals by kind.
var SessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "sessions_completed_total",
	Help:      "Total interval sessions completed.",
}, []string{"kind"})

// CompletionConflicts tracks rejected duplicate completion attempts.
var CompletionConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "session_completion_conflicts_total",
	Help:      "Completion attempts rejected because the session was already completed.",
})

// ─── Scoring ────────────────────────────────────────────────────────────────

// PointsAwarded tracks total points credited across all accounts.
var PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "points_awarded_total",
	Help:      "Total points credited to accounts.",
})

// LevelUps tracks level increases.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "level_ups_total",
	Help:      "Total account level increases.",
})

// StreakResets tracks streaks broken by a gap of two or more days.
var StreakResets = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "streak_resets_total",
	Help:      "Total streaks reset to 1 after a missed day.",
})

// ─── Tasks ──────────────────────────────────────────────────────────────────

// TasksCompleted tracks tasks that reached their estimated intervals.
var TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "tasks_completed_total",
	Help:      "Total tasks moved to completed status.",
})

// TaskUpdateFailures tracks best-effort task updates that failed.
var TaskUpdateFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pulse",
	Name:      "task_update_failures_total",
	Help:      "Linked-task progress updates that failed after session completion.",
})
