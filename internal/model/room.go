package model

import "time"

type OwnedItem struct {
	ItemID      string    `json:"item_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type PlacedItem struct {
	ItemID       string `json:"item_id"`
	GridPosition int    `json:"grid_position"`
}

type ClaimedReward struct {
	Type      string    `json:"type"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// RoomState is the full gamification state: the spendable balance, lifetime
// counters, and the decorating inventory.
type RoomState struct {
	RoomName                string          `json:"room_name"`
	FocusPoints             int             `json:"focus_points"`
	LifetimeFocusPoints     int             `json:"lifetime_focus_points"`
	TotalCompletedPomodoros int             `json:"total_completed_pomodoros"`
	OwnedItems              []OwnedItem     `json:"owned_items"`
	PlacedItems             []PlacedItem    `json:"placed_items"`
	ClaimedRewards          []ClaimedReward `json:"claimed_rewards"`
}

// PointsEarned is the per-session award breakdown.
type PointsEarned struct {
	Base            int `json:"base"`
	ReflectionBonus int `json:"reflection_bonus"`
	FirstOfDayBonus int `json:"first_of_day_bonus"`
	Total           int `json:"total"`
}
