package economy

// UnlockType gates special catalog items behind progress thresholds.
type UnlockType string

const (
	UnlockPomodoros UnlockType = "pomodoros"
	UnlockStreak    UnlockType = "streak"
)

type UnlockCondition struct {
	Type        UnlockType `json:"type"`
	Value       int        `json:"value"`
	Description string     `json:"description"`
}

// Item is a static catalog entry. The catalog ships with the binary; owned
// and placed state live in the database.
type Item struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Emoji           string           `json:"emoji"`
	Cost            int              `json:"cost"`
	Category        string           `json:"category"`
	UnlockCondition *UnlockCondition `json:"unlock_condition,omitempty"`
}

var Catalog = []Item{
	// Essentials
	{ID: "small-plant", Name: "Small Plant", Emoji: "🌿", Cost: 25, Category: "essentials"},
	{ID: "rug", Name: "Cozy Rug", Emoji: "🧶", Cost: 30, Category: "essentials"},
	{ID: "poster", Name: "Wall Poster", Emoji: "🖼️", Cost: 35, Category: "essentials"},
	{ID: "desk-lamp", Name: "Desk Lamp", Emoji: "💡", Cost: 40, Category: "essentials"},

	// Comfort
	{ID: "chair", Name: "Comfy Chair", Emoji: "🪑", Cost: 60, Category: "comfort"},
	{ID: "desk", Name: "Study Desk", Emoji: "🖥️", Cost: 80, Category: "comfort"},
	{ID: "bookshelf", Name: "Bookshelf", Emoji: "📚", Cost: 90, Category: "comfort"},
	{ID: "big-plant", Name: "Big Plant", Emoji: "🪴", Cost: 100, Category: "comfort"},

	// Decor
	{ID: "clock", Name: "Wall Clock", Emoji: "🕰️", Cost: 70, Category: "decor"},
	{ID: "sofa", Name: "Cozy Sofa", Emoji: "🛋️", Cost: 180, Category: "decor"},
	{ID: "neon-sign", Name: "Neon Sign", Emoji: "✨", Cost: 200, Category: "decor"},
	{ID: "cat-bed", Name: "Cat Bed", Emoji: "🐾", Cost: 220, Category: "decor"},

	// Special (progress-locked)
	{
		ID: "golden-trophy", Name: "Golden Trophy", Emoji: "🏆", Cost: 150, Category: "special",
		UnlockCondition: &UnlockCondition{Type: UnlockPomodoros, Value: 5, Description: "Complete 5 Pomodoros"},
	},
	{
		ID: "starry-ceiling", Name: "Starry Ceiling", Emoji: "🌌", Cost: 250, Category: "special",
		UnlockCondition: &UnlockCondition{Type: UnlockStreak, Value: 7, Description: "7-day streak"},
	},
	{
		ID: "rain-window", Name: "Rain Window", Emoji: "🌧️", Cost: 300, Category: "special",
		UnlockCondition: &UnlockCondition{Type: UnlockPomodoros, Value: 20, Description: "Complete 20 Pomodoros"},
	},
	{
		ID: "zen-garden", Name: "Zen Garden", Emoji: "🪨", Cost: 350, Category: "special",
		UnlockCondition: &UnlockCondition{Type: UnlockStreak, Value: 14, Description: "14-day streak"},
	},
}

// ItemByID looks up a catalog item. Returns nil for unknown IDs.
func ItemByID(id string) *Item {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}

// IsUnlocked reports whether the item's unlock condition (if any) is
// satisfied by the user's progress.
func IsUnlocked(item *Item, totalPomodoros, longestStreak int) bool {
	if item.UnlockCondition == nil {
		return true
	}
	switch item.UnlockCondition.Type {
	case UnlockPomodoros:
		return totalPomodoros >= item.UnlockCondition.Value
	case UnlockStreak:
		return longestStreak >= item.UnlockCondition.Value
	default:
		return false
	}
}
