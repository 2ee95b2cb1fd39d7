package mood

import "time"

// Theme is a UI color mood. "auto" resolves to a concrete theme by time of
// day.
type Theme string

const (
	ThemeAuto     Theme = "auto"
	ThemeCozy     Theme = "cozy"
	ThemeLockedIn Theme = "locked-in"
	ThemeFresh    Theme = "fresh"
)

// All lists every selectable theme.
var All = []Theme{ThemeAuto, ThemeCozy, ThemeLockedIn, ThemeFresh}

var labels = map[Theme]string{
	ThemeAuto:     "Auto (Time of Day)",
	ThemeCozy:     "Cozy Mode ☕",
	ThemeLockedIn: "Locked-In Mode 🔒",
	ThemeFresh:    "Fresh Start Mode 🌤️",
}

var descriptions = map[Theme]string{
	ThemeAuto:     "Changes based on time of day",
	ThemeCozy:     "Warm, soft, comforting",
	ThemeLockedIn: "Dark, focused, serious",
	ThemeFresh:    "Bright, clean, optimistic",
}

// Valid reports whether the theme is a known selection.
func Valid(t Theme) bool {
	_, ok := labels[t]
	return ok
}

// Label returns the display name for a theme.
func Label(t Theme) string { return labels[t] }

// Description returns the short explanation for a theme.
func Description(t Theme) string { return descriptions[t] }

// AutoFor picks the time-of-day theme: fresh for early morning, cozy through
// the working day, locked-in for evening and night.
func AutoFor(now time.Time) Theme {
	hour := now.Hour()
	switch {
	case hour >= 5 && hour < 9:
		return ThemeFresh
	case hour >= 9 && hour < 17:
		return ThemeCozy
	default:
		return ThemeLockedIn
	}
}

// Resolve maps a selection to the theme actually in effect at the given time.
func Resolve(selected Theme, now time.Time) Theme {
	if selected == ThemeAuto {
		return AutoFor(now)
	}
	return selected
}
