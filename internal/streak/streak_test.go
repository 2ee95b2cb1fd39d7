package streak

import (
	"testing"
	"time"

	"github.com/dukerupert/fernside/internal/model"
)

func TestFirstEverSession(t *testing.T) {
	data := Advance(model.StreakData{}, "2024-01-05")

	if data.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1", data.CurrentStreak)
	}
	if data.LongestStreak != 1 {
		t.Errorf("longest = %d, want 1", data.LongestStreak)
	}
	if data.TodaySessionCount != 1 {
		t.Errorf("today count = %d, want 1", data.TodaySessionCount)
	}
	if data.LastStreakDate != "2024-01-05" {
		t.Errorf("last date = %q, want 2024-01-05", data.LastStreakDate)
	}
}

func TestConsecutiveDayExtendsStreak(t *testing.T) {
	data := model.StreakData{
		CurrentStreak:     3,
		LongestStreak:     3,
		LastStreakDate:    "2024-01-05",
		TodaySessionCount: 2,
	}

	data = Advance(data, "2024-01-06")

	if data.CurrentStreak != 4 {
		t.Errorf("current = %d, want 4", data.CurrentStreak)
	}
	if data.TodaySessionCount != 1 {
		t.Errorf("today count = %d, want 1", data.TodaySessionCount)
	}
}

func TestSameDaySecondSession(t *testing.T) {
	data := model.StreakData{
		CurrentStreak:     4,
		LongestStreak:     4,
		LastStreakDate:    "2024-01-06",
		TodaySessionCount: 1,
	}

	data = Advance(data, "2024-01-06")

	if data.CurrentStreak != 4 {
		t.Errorf("current = %d, want 4", data.CurrentStreak)
	}
	if data.TodaySessionCount != 2 {
		t.Errorf("today count = %d, want 2", data.TodaySessionCount)
	}
}

func TestGapResetsStreak(t *testing.T) {
	data := model.StreakData{
		CurrentStreak:     4,
		LongestStreak:     4,
		LastStreakDate:    "2024-01-06",
		TodaySessionCount: 2,
	}

	data = Advance(data, "2024-01-10")

	if data.CurrentStreak != 1 {
		t.Errorf("current = %d, want 1", data.CurrentStreak)
	}
	if data.LongestStreak != 4 {
		t.Errorf("longest = %d, want 4 (monotone)", data.LongestStreak)
	}
	if data.TodaySessionCount != 1 {
		t.Errorf("today count = %d, want 1", data.TodaySessionCount)
	}
}

func TestLongestStreakNeverDecreases(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var data model.StreakData

	// Ten consecutive days, then a gap, then three more.
	for i := 0; i < 10; i++ {
		data = Advance(data, Today(day))
		day = day.AddDate(0, 0, 1)
	}
	if data.LongestStreak != 10 {
		t.Fatalf("longest = %d, want 10", data.LongestStreak)
	}

	day = day.AddDate(0, 0, 5)
	for i := 0; i < 3; i++ {
		data = Advance(data, Today(day))
		if data.LongestStreak != 10 {
			t.Errorf("longest = %d after reset day %d, want 10", data.LongestStreak, i+1)
		}
		day = day.AddDate(0, 0, 1)
	}
	if data.CurrentStreak != 3 {
		t.Errorf("current = %d, want 3", data.CurrentStreak)
	}
}

func TestMonthBoundary(t *testing.T) {
	data := model.StreakData{
		CurrentStreak:  1,
		LongestStreak:  1,
		LastStreakDate: "2024-01-31",
	}

	data = Advance(data, "2024-02-01")

	if data.CurrentStreak != 2 {
		t.Errorf("current = %d, want 2", data.CurrentStreak)
	}
}

func TestIsMilestone(t *testing.T) {
	for _, m := range []int{7, 30, 100} {
		if !IsMilestone(m) {
			t.Errorf("IsMilestone(%d) = false, want true", m)
		}
	}
	for _, n := range []int{0, 1, 6, 8, 29, 31, 99, 101} {
		if IsMilestone(n) {
			t.Errorf("IsMilestone(%d) = true, want false", n)
		}
	}
}

func TestMilestoneMessage(t *testing.T) {
	want := map[int]string{
		7:   "🔥 1 Week Streak! You're on fire!",
		30:  "🏆 30 Day Streak! Incredible dedication!",
		100: "👑 100 DAY STREAK! You're a legend!",
	}
	for n, msg := range want {
		if got := MilestoneMessage(n); got != msg {
			t.Errorf("MilestoneMessage(%d) = %q, want %q", n, got, msg)
		}
	}
	if msg := MilestoneMessage(8); msg != "" {
		t.Errorf("unexpected message for 8: %q", msg)
	}
}
