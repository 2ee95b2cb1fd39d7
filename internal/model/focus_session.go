package model

import "time"

// Reflection answers. A session completed without an answer (skipped) keeps
// reflection NULL.
const (
	ReflectionYes = "yes"
	ReflectionNo  = "no"
)

type FocusSession struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id"`
	Duration    int        `json:"duration"` // minutes
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Reflection  *string    `json:"reflection"` // "yes" | "no" | null
}

// Completed reports whether the focus phase ran to zero. Sessions stopped
// early never get a completion timestamp and never count toward rewards.
func (s *FocusSession) Completed() bool {
	return s.CompletedAt != nil
}
