package domain

import "time"

// Account is the gamification aggregate attached to a user.
// Points, level and streak are mutated exclusively by the session
// lifecycle manager; level must equal LevelForPoints(points) after
// every mutation.
type Account struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Points        int64     `json:"points"`
	Level         int       `json:"level"`
	Streak        int       `json:"streak"`
	LastCompleted time.Time `json:"last_completed,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Progress is the minimal triple a caller needs to refresh a summary
// view after completing an interval.
type Progress struct {
	Points int64 `json:"points"`
	Level  int   `json:"level"`
	Streak int   `json:"streak"`
}

// Progress returns the account's current progress triple.
func (a *Account) Progress() Progress {
	return Progress{Points: a.Points, Level: a.Level, Streak: a.Streak}
}
