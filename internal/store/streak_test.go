package store

import (
	"testing"

	"github.com/dukerupert/fernside/internal/model"
)

func TestStreakDefaults(t *testing.T) {
	ss := NewStreakStore(setupTestDB(t))

	data, err := ss.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data.CurrentStreak != 0 || data.LongestStreak != 0 || data.LastStreakDate != "" || data.TodaySessionCount != 0 {
		t.Errorf("fresh streak = %+v, want zeroes", data)
	}
}

func TestStreakSaveGet(t *testing.T) {
	ss := NewStreakStore(setupTestDB(t))

	want := model.StreakData{
		CurrentStreak:     7,
		LongestStreak:     12,
		LastStreakDate:    "2024-01-06",
		TodaySessionCount: 3,
	}
	if err := ss.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := ss.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
