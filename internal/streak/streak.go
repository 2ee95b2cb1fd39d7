package streak

import (
	"time"

	"github.com/dukerupert/fernside/internal/model"
)

// DateFormat is the calendar-day bucket key.
const DateFormat = "2006-01-02"

// Milestones that trigger a celebration. Detection is on the exact value, so
// a streak that resets and climbs back re-fires — intentional re-engagement
// reward.
var Milestones = []int{7, 30, 100}

// Today formats a wall-clock time as its local calendar day.
func Today(now time.Time) string {
	return now.Format(DateFormat)
}

// Advance records one completed session on the given calendar day and returns
// the updated counters. Same-day completions only bump the session count; a
// completion the day after the last one extends the streak; any longer gap
// (or a first-ever session) restarts at 1.
func Advance(data model.StreakData, today string) model.StreakData {
	yesterday := previousDay(today)

	switch data.LastStreakDate {
	case today:
		data.TodaySessionCount++
	case yesterday:
		data.CurrentStreak++
		data.TodaySessionCount = 1
	default:
		data.CurrentStreak = 1
		data.TodaySessionCount = 1
	}

	if data.CurrentStreak > data.LongestStreak {
		data.LongestStreak = data.CurrentStreak
	}
	data.LastStreakDate = today

	return data
}

// IsMilestone reports whether the streak value is exactly a milestone.
func IsMilestone(streak int) bool {
	for _, m := range Milestones {
		if streak == m {
			return true
		}
	}
	return false
}

// MilestoneMessage returns the celebration copy for a milestone streak, or ""
// for non-milestone values.
func MilestoneMessage(streak int) string {
	switch streak {
	case 7:
		return "🔥 1 Week Streak! You're on fire!"
	case 30:
		return "🏆 30 Day Streak! Incredible dedication!"
	case 100:
		return "👑 100 DAY STREAK! You're a legend!"
	default:
		return ""
	}
}

func previousDay(day string) string {
	t, err := time.Parse(DateFormat, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateFormat)
}
