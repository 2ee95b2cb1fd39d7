package focus

import "math/rand"

// Encouragements shown after a completed session when no streak milestone
// fires.
var Encouragements = []string{
	"Nice focus! 🌟",
	"Well done! ✨",
	"Great session! 💫",
	"You're doing great! 🎯",
	"Keep it up! 🌱",
}

// randomEncouragement is the default picker.
func randomEncouragement() string {
	return Encouragements[rand.Intn(len(Encouragements))]
}
