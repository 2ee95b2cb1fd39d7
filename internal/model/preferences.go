package model

// UserPreferences mirrors the settings the UI persists between visits.
type UserPreferences struct {
	PreferredDuration    int     `json:"preferred_duration"`
	LastActiveTaskID     *string `json:"last_active_task_id"`
	LastSessionDurations []int   `json:"last_session_durations"`
	UserName             *string `json:"user_name"`
	MoodTheme            string  `json:"mood_theme"`
}
