package model

import "time"

type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID                 string          `json:"id"`
	Text               string          `json:"text"`
	Notes              string          `json:"notes"`
	Checklist          []ChecklistItem `json:"checklist"`
	CompletedPomodoros int             `json:"completed_pomodoros"`
	IsCompleted        bool            `json:"is_completed"`
	CreatedAt          time.Time       `json:"created_at"`
	ScheduledDate      *string         `json:"scheduled_date"` // 'yyyy-MM-dd'
}
