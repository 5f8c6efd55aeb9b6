package combat

import (
	"fmt"
	"log/slog"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// Strength gained per level, inclusive.
const (
	LevelUpStrengthMin = 2
	LevelUpStrengthMax = 5
)

// LevelUp describes one level gained.
type LevelUp struct {
	Level        int
	StrengthGain int
	Rank         model.Rank
	RankChanged  bool
}

// Notice returns the user-facing level-up line.
func (l LevelUp) Notice() string {
	msg := fmt.Sprintf("Level up! You are now level %d (+%d strength).", l.Level, l.StrengthGain)
	if l.RankChanged {
		msg += fmt.Sprintf(" Your rank is now %s.", l.Rank)
	}
	return msg
}

// ApplyExperience adds experience and levels the hunter up as many times as
// the total allows. Each level consumes oldLevel*100 experience.
func ApplyExperience(h *model.Hunter, amount int, rnd Rand) []LevelUp {
	h.Experience += amount

	var ups []LevelUp
	for h.Experience >= model.ExpToNextLevel(h.Level) {
		h.Experience -= model.ExpToNextLevel(h.Level)
		h.Level++

		gain := RollRange(rnd, LevelUpStrengthMin, LevelUpStrengthMax)
		h.Stats.Strength += gain

		rank := model.RankForLevel(h.Level)
		up := LevelUp{Level: h.Level, StrengthGain: gain, Rank: rank, RankChanged: rank != h.Rank}
		h.Rank = rank
		ups = append(ups, up)

		slog.Info("hunter leveled up", "hunter", h.ID, "level", h.Level, "strength_gain", gain, "rank", rank)
	}
	return ups
}
