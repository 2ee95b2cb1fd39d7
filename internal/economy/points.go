package economy

import "github.com/dukerupert/fernside/internal/model"

// Point award constants.
const (
	BaseSessionPoints = 10
	ReflectionBonus   = 2
	FirstOfDayBonus   = 5

	// WelcomeBonus is credited once, at install time, by the schema default.
	WelcomeBonus = 1000
)

// SharingReward is a one-time point credit for sharing progress.
type SharingReward struct {
	Type   string
	Points int
}

var SharingRewards = []SharingReward{
	{Type: "share-card", Points: 50},
	{Type: "share-streak", Points: 50},
}

// SharingRewardByType looks up a sharing reward. Returns nil for unknown
// types.
func SharingRewardByType(rewardType string) *SharingReward {
	for i := range SharingRewards {
		if SharingRewards[i].Type == rewardType {
			return &SharingRewards[i]
		}
	}
	return nil
}

// CalculatePoints computes the award for one completed session. didReflect is
// true when a reflection answer (yes or no) was submitted; skipping forfeits
// the reflection bonus but still earns base and, on the first session of the
// day, the first-of-day bonus.
func CalculatePoints(didReflect bool, lastAwardDate, today string) model.PointsEarned {
	p := model.PointsEarned{Base: BaseSessionPoints}
	if didReflect {
		p.ReflectionBonus = ReflectionBonus
	}
	if lastAwardDate != today {
		p.FirstOfDayBonus = FirstOfDayBonus
	}
	p.Total = p.Base + p.ReflectionBonus + p.FirstOfDayBonus
	return p
}
