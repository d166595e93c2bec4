package domain

import "time"

// TaskStatus tracks task lifecycle. Transitions are forward-only and
// driven solely by completion of linked work intervals:
// pending → in_progress → completed.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Estimate bounds for a task, in intervals.
const (
	MinEstimatedIntervals = 1
	MaxEstimatedIntervals = 20
)

// Task is a unit of planned work measured in focus intervals.
type Task struct {
	ID                 string     `json:"id"`
	AccountID          string     `json:"account_id"`
	Title              string     `json:"title"`
	Status             TaskStatus `json:"status"`
	EstimatedIntervals int        `json:"estimated_intervals"`
	CompletedIntervals int        `json:"completed_intervals"`
	CreatedAt          time.Time  `json:"created_at"`
}

// IsDone reports whether the task has reached its terminal status.
func (t *Task) IsDone() bool {
	return t.Status == TaskCompleted
}

// RecordInterval applies one completed linked interval to the task and
// returns true if the status changed. CompletedIntervals may overshoot
// the estimate; status never moves backward.
func (t *Task) RecordInterval() bool {
	t.CompletedIntervals++
	switch {
	case t.CompletedIntervals >= t.EstimatedIntervals && t.Status != TaskCompleted:
		t.Status = TaskCompleted
		return true
	case t.Status == TaskPending:
		t.Status = TaskInProgress
		return true
	}
	return false
}
