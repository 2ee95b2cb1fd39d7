package model

import "time"

// Notification type constants
const (
	NotifTypeFocusComplete  = "focus_complete"
	NotifTypeBreakComplete  = "break_complete"
	NotifTypeStreakReminder = "streak_reminder"
)

// PushSubscription is a browser web-push endpoint registered by the UI.
type PushSubscription struct {
	ID         int64     `json:"id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
