package model

import "time"

// Snapshot is the full five-category state exported for sync and restore.
// The sync collaborator treats it as opaque: push the whole thing, or accept
// a whole replacement.
type Snapshot struct {
	Tasks       []Task          `json:"tasks"`
	Sessions    []FocusSession  `json:"sessions"`
	Preferences UserPreferences `json:"preferences"`
	StreakData  StreakData      `json:"streak_data"`
	RoomState   RoomState       `json:"room_state"`
	// LastAwardDate carries the first-of-day bonus marker so a restore
	// doesn't re-grant it.
	LastAwardDate string    `json:"last_award_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}
