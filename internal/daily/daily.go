// Package daily derives which puzzle in the pool belongs to "today".
//
// Every client computes the same index from wall-clock time with no server
// round-trip, so all players share a daily puzzle without coordination. The
// cost is trusting client clocks.
package daily

import "time"

// Epoch is the fixed UTC instant the daily rotation counts from.
var Epoch = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

const dayMillis = 24 * 60 * 60 * 1000

// DaysSince returns the number of whole UTC days between Epoch and now.
// Negative when now precedes Epoch, with floor semantics matching a
// millisecond-based floor division.
func DaysSince(now time.Time) int {
	millis := now.UnixMilli() - Epoch.UnixMilli()
	days := millis / dayMillis
	if millis < 0 && millis%dayMillis != 0 {
		days--
	}
	return int(days)
}

// Index selects today's puzzle from a pool of poolSize entries. The double
// mod guards against negative results when now precedes Epoch. A pool of
// size zero yields 0 so callers can treat an empty manifest uniformly.
func Index(poolSize int, now time.Time) int {
	if poolSize <= 0 {
		return 0
	}
	return ((DaysSince(now) % poolSize) + poolSize) % poolSize
}

// PuzzleNumber is the 1-indexed, monotonically increasing number of today's
// puzzle. It is independent of the pool size and used for display only.
func PuzzleNumber(now time.Time) int {
	return DaysSince(now) + 1
}

// DateKey is the UTC calendar date of now formatted as YYYY-MM-DD. Streak
// comparisons use these keys.
func DateKey(now time.Time) string {
	return now.UTC().Format(time.DateOnly)
}

// PreviousDateKey is the UTC calendar date of the day before now.
func PreviousDateKey(now time.Time) string {
	return now.UTC().AddDate(0, 0, -1).Format(time.DateOnly)
}
