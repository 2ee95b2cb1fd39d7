package model

import "time"

// Session is an access-password login session. Only issued when the
// deployment has configured an access password; a fresh install runs open.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
