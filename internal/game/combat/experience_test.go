package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/testutil"
)

func TestApplyExperience_NoLevelUp(t *testing.T) {
	h := testutil.NewHunter(t)
	r := testutil.NewScriptedRand()

	ups := ApplyExperience(h, 99, r)

	assert.Empty(t, ups)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, 99, h.Experience)
	assert.Equal(t, 10, h.Stats.Strength)
}

func TestApplyExperience_SingleLevel(t *testing.T) {
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.Experience = 80 })
	r := testutil.NewScriptedRand().PushInts(1) // +3 strength

	ups := ApplyExperience(h, 45, r)

	require.Len(t, ups, 1)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, 25, h.Experience)
	assert.Equal(t, 13, h.Stats.Strength)
	assert.Equal(t, 3, ups[0].StrengthGain)
}

func TestApplyExperience_MultiLevelLoop(t *testing.T) {
	tests := []struct {
		name  string
		level int
		grant int
		want  int
	}{
		// exp consumed per step is old_level*100
		{"level 1 exactly three levels", 1, 100 + 200 + 300, 4},
		{"level 10 two levels and change", 10, 1000 + 1100 + 50, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testutil.NewHunter(t, func(h *model.Hunter) { h.Level = tt.level; h.Rank = model.RankForLevel(tt.level) })
			r := testutil.NewScriptedRand().PushInts(0, 1, 2, 3)

			ups := ApplyExperience(h, tt.grant, r)

			assert.Equal(t, tt.want, h.Level)
			assert.Len(t, ups, tt.want-tt.level)
			assert.Less(t, h.Experience, model.ExpToNextLevel(h.Level))
		})
	}
}

func TestApplyExperience_ExactlyThreeLevels(t *testing.T) {
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.Level = 5 })
	r := testutil.NewScriptedRand().PushInts(3, 0, 2) // +5, +2, +4

	ups := ApplyExperience(h, 500+600+700, r)

	assert.Len(t, ups, 3)
	assert.Equal(t, 8, h.Level)
	assert.Equal(t, 0, h.Experience)
	assert.Equal(t, 10+5+2+4, h.Stats.Strength)
}

func TestApplyExperience_StrengthGainInRange(t *testing.T) {
	h := testutil.NewHunter(t)
	rnd := NewRand()

	before := h.Stats.Strength
	ups := ApplyExperience(h, 100+200+300, rnd)

	require.Len(t, ups, 3)
	gained := h.Stats.Strength - before
	assert.GreaterOrEqual(t, gained, 3*LevelUpStrengthMin)
	assert.LessOrEqual(t, gained, 3*LevelUpStrengthMax)
	assert.Equal(t, 0, h.Experience)
	for _, up := range ups {
		assert.GreaterOrEqual(t, up.StrengthGain, LevelUpStrengthMin)
		assert.LessOrEqual(t, up.StrengthGain, LevelUpStrengthMax)
	}
}

func TestApplyExperience_RankChanges(t *testing.T) {
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.Level = 10; h.Experience = 999 })
	r := testutil.NewScriptedRand()

	ups := ApplyExperience(h, 1, r)

	require.Len(t, ups, 1)
	assert.True(t, ups[0].RankChanged)
	assert.Equal(t, model.RankD, h.Rank)
	assert.Contains(t, ups[0].Notice(), "rank is now D")
}
