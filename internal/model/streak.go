package model

// StreakData tracks consecutive-day focus activity. Dates are local calendar
// days formatted 'yyyy-MM-dd'; LongestStreak never decreases.
type StreakData struct {
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	LastStreakDate    string `json:"last_streak_date"`
	TodaySessionCount int    `json:"today_session_count"`
}
