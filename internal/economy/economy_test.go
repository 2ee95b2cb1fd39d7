package economy

import "testing"

func TestFirstSessionOfDayWithReflection(t *testing.T) {
	p := CalculatePoints(true, "2024-01-05", "2024-01-06")

	if p.Base != 10 {
		t.Errorf("base = %d, want 10", p.Base)
	}
	if p.ReflectionBonus != 2 {
		t.Errorf("reflection = %d, want 2", p.ReflectionBonus)
	}
	if p.FirstOfDayBonus != 5 {
		t.Errorf("first of day = %d, want 5", p.FirstOfDayBonus)
	}
	if p.Total != 17 {
		t.Errorf("total = %d, want 17", p.Total)
	}
}

func TestSecondSessionSameDay(t *testing.T) {
	p := CalculatePoints(true, "2024-01-06", "2024-01-06")

	if p.FirstOfDayBonus != 0 {
		t.Errorf("first of day = %d, want 0", p.FirstOfDayBonus)
	}
	if p.Total != 12 {
		t.Errorf("total = %d, want 12", p.Total)
	}
}

func TestSkippedSessionForfeitsReflectionBonus(t *testing.T) {
	// Skip on a repeat day: base only.
	p := CalculatePoints(false, "2024-01-06", "2024-01-06")
	if p.Total != 10 {
		t.Errorf("total = %d, want 10", p.Total)
	}

	// Skip on a fresh day: base + first-of-day, still no reflection bonus.
	p = CalculatePoints(false, "2024-01-05", "2024-01-06")
	if p.ReflectionBonus != 0 {
		t.Errorf("reflection = %d, want 0", p.ReflectionBonus)
	}
	if p.Total != 15 {
		t.Errorf("total = %d, want 15", p.Total)
	}
}

func TestFirstEverAward(t *testing.T) {
	p := CalculatePoints(true, "", "2024-01-06")
	if p.Total != 17 {
		t.Errorf("total = %d, want 17", p.Total)
	}
}

func TestItemByID(t *testing.T) {
	item := ItemByID("small-plant")
	if item == nil {
		t.Fatal("expected small-plant in catalog")
	}
	if item.Cost != 25 {
		t.Errorf("cost = %d, want 25", item.Cost)
	}

	if got := ItemByID("hot-tub"); got != nil {
		t.Errorf("expected nil for unknown item, got %+v", got)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, item := range Catalog {
		if seen[item.ID] {
			t.Errorf("duplicate catalog id %q", item.ID)
		}
		seen[item.ID] = true
		if item.Cost <= 0 {
			t.Errorf("item %q has non-positive cost %d", item.ID, item.Cost)
		}
	}
}

func TestIsUnlocked(t *testing.T) {
	plain := ItemByID("rug")
	if !IsUnlocked(plain, 0, 0) {
		t.Error("unconditional item should always be unlocked")
	}

	trophy := ItemByID("golden-trophy") // 5 pomodoros
	if IsUnlocked(trophy, 4, 100) {
		t.Error("trophy unlocked at 4 pomodoros")
	}
	if !IsUnlocked(trophy, 5, 0) {
		t.Error("trophy locked at 5 pomodoros")
	}

	ceiling := ItemByID("starry-ceiling") // 7-day streak
	if IsUnlocked(ceiling, 100, 6) {
		t.Error("ceiling unlocked at streak 6")
	}
	if !IsUnlocked(ceiling, 0, 7) {
		t.Error("ceiling locked at streak 7")
	}
}

func TestSharingRewardByType(t *testing.T) {
	r := SharingRewardByType("share-card")
	if r == nil || r.Points != 50 {
		t.Fatalf("share-card reward = %+v, want 50 points", r)
	}
	if SharingRewardByType("share-moon") != nil {
		t.Error("expected nil for unknown reward type")
	}
}
