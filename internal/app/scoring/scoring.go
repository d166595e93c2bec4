// Package scoring implements the Pulse point, level and streak formulas.
// Every function here is pure and deterministic; callers validate inputs
// (duration bounds, kind set) before invoking.
package scoring

import (
	"math"
	"time"

	"github.com/pulse-labs/pulse/internal/domain"
)

// Base points awarded per interval kind.
var basePoints = map[domain.Kind]int{
	domain.KindWork:      10,
	domain.KindBreak:     2,
	domain.KindLongBreak: 5,
}

// StreakCapMultiplier is the ceiling on the streak bonus: +10% per
// consecutive day, capped at 3× (reached at a 20-day streak).
const StreakCapMultiplier = 3.0

// IntervalPoints computes the points earned for one completed interval.
// Duration rewards in discrete 5-minute steps, not continuously; the
// result is rounded half away from zero.
func IntervalPoints(durationMinutes int, kind domain.Kind, streak int) int {
	base := basePoints[kind]
	bonus := durationMinutes / 5
	mult := 1.0 + float64(streak)*0.1
	if mult > StreakCapMultiplier {
		mult = StreakCapMultiplier
	}
	return int(math.Round(float64(base+bonus) * mult))
}

// LevelForPoints maps cumulative points to a level on a square-root
// curve: level n begins at (n-1)² * 100 points. Negative points are
// treated as zero.
func LevelForPoints(points int64) int {
	if points < 0 {
		points = 0
	}
	return int(math.Sqrt(float64(points)/100.0)) + 1
}

// PointsThresholdForLevel returns the cumulative points required to
// move from the given level to the next one.
func PointsThresholdForLevel(level int) int64 {
	return int64(level) * int64(level) * 100
}

// LevelProgressPercent returns how far into the current level the
// account is, as a rounded percentage clamped to [0,100].
func LevelProgressPercent(points int64, level int) int {
	floor := int64(level-1) * int64(level-1) * 100
	ceil := PointsThresholdForLevel(level)
	span := ceil - floor
	if span <= 0 {
		return 100
	}
	pct := int(math.Round(float64(points-floor) / float64(span) * 100.0))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// StreakContinues reports whether a completion at now keeps a daily
// streak alive given the previous completion time. The comparison is
// date-only: same day or the day after continues, a gap of two or more
// calendar days breaks the streak. A streak is a daily-engagement
// incentive, not a strict 24-hour timer.
func StreakContinues(lastCompletedAt, now time.Time) bool {
	last := midnight(lastCompletedAt)
	cur := midnight(now)
	days := int(cur.Sub(last).Hours() / 24)
	return days == 0 || days == 1
}

// midnight normalizes t to 00:00 UTC on its calendar day.
func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
