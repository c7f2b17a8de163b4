// Package progression implements the StudyGram progression state machine:
// experience and levels, daily quests, login streaks, and badge unlocks.
// Every function here is a pure transition over the UserProfile aggregate;
// the caller (or the profile store) performs the only side effects.
package progression

import (
	"time"

	"github.com/studygram-app/studygram/internal/domain"
)

// dateOnly maps a time to its own calendar date, pinned to UTC midnight.
// Pinning to UTC makes the subtraction below pure date arithmetic: a
// 23-hour or 25-hour DST-transition day still counts as exactly one day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameCalendarDay reports whether two times fall on the same calendar date,
// each read in its own location. Both the streak calculator and the daily
// quest reset key off this one predicate so the two can never disagree
// about day boundaries.
func SameCalendarDay(a, b time.Time) bool {
	return calendarDaysBetween(a, b) == 0
}

// calendarDaysBetween returns whole calendar days from a's date to b's date.
// Crossing midnight counts as one day regardless of elapsed hours. Negative
// results (clock moved backward) are possible; callers treat them as zero.
func calendarDaysBetween(a, b time.Time) int {
	da, db := dateOnly(a), dateOnly(b)
	return int(db.Sub(da) / (24 * time.Hour))
}

// ReconcileStreak applies the streak continuation rule against now:
// same day → unchanged, exactly one day later → +1, longer gap → reset to 1.
// A last login in the future (backward clock) is treated as the same day.
// LastLoginTimestamp is left untouched; the daily reset owns that stamp.
func ReconcileStreak(p *domain.UserProfile, now time.Time) (*domain.UserProfile, int) {
	out := p.Clone()

	daysSince := calendarDaysBetween(p.LastLogin(), now)
	if daysSince < 0 {
		daysSince = 0
	}

	switch {
	case daysSince == 0:
		// Same calendar day, already counted.
	case daysSince == 1:
		out.StreakCount++
	default:
		out.StreakCount = 1
	}
	return out, daysSince
}

// ReconcileSession runs the streak rule and the daily quest reset together
// against a single now snapshot. It must run exactly once at session start,
// before any quest-progress or claim operation; repeated calls within the
// same calendar day are no-ops.
func ReconcileSession(p *domain.UserProfile, now time.Time) (*domain.UserProfile, domain.SessionReport) {
	out, daysSince := ReconcileStreak(p, now)

	report := domain.SessionReport{
		DaysAway:        daysSince,
		NewDay:          daysSince > 0,
		StreakContinued: daysSince == 1,
		StreakBroken:    daysSince > 1,
	}

	out, report.QuestsReset = ReconcileDailyReset(out, now)
	report.StreakCount = out.StreakCount
	return out, report
}
