package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/data"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// Fixture hunter identity.
const (
	HunterID   = "1001"
	HunterName = "Jinwoo"
)

// Catalog loads the embedded catalog or fails the test.
func Catalog(t testing.TB) *data.Catalog {
	t.Helper()
	c, err := data.Load()
	require.NoError(t, err, "loading embedded catalog")
	return c
}

// NewHunter creates a starting hunter and applies the optional mutators.
func NewHunter(t testing.TB, mutate ...func(*model.Hunter)) *model.Hunter {
	t.Helper()
	h := model.NewHunter(HunterID, HunterName, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	for _, fn := range mutate {
		fn(h)
	}
	return h
}

// Goblin is a weak rank E template. Not taken from the catalog so that
// catalog balance changes do not break unit tests.
func Goblin() *model.MonsterTemplate {
	return &model.MonsterTemplate{
		ID: "goblin", Name: "Goblin", Level: 3, Rank: model.RankE,
		HP: 50, Attack: 10, Defense: 5,
		ExpReward: 25, GoldReward: 15, ShadowChance: 0.3,
	}
}

// DireWolf is a rank D template with defense 8.
func DireWolf() *model.MonsterTemplate {
	return &model.MonsterTemplate{
		ID: "dire_wolf", Name: "Dire Wolf", Level: 7, Rank: model.RankD,
		HP: 80, Attack: 30, Defense: 8,
		ExpReward: 45, GoldReward: 25, ShadowChance: 0.25,
	}
}

// Caster is a template that tracks mana and has explicit magic defense.
func Caster() *model.MonsterTemplate {
	md := 4
	return &model.MonsterTemplate{
		ID: "ice_elf", Name: "Ice Elf", Level: 28, Rank: model.RankB,
		HP: 160, Attack: 60, Defense: 18, MagicDefense: &md, Mana: 120,
		ExpReward: 150, GoldReward: 90, ShadowChance: 0.15,
	}
}
