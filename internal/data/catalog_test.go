package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ps, ok := c.Ability("power_strike")
	require.True(t, ok)
	assert.Equal(t, AbilityAttack, ps.Type)
	assert.Equal(t, 10, ps.ManaCost)
	assert.Equal(t, 2, ps.Cooldown)
	assert.InDelta(t, 1.5, ps.Multiplier, 1e-9)

	goblin, ok := c.Monster("goblin")
	require.True(t, ok)
	assert.Equal(t, 50, goblin.HP)
	assert.Nil(t, goblin.MagicDefense)
}

func TestCatalog_MonsterByName(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	m, ok := c.Monster("dire wolf")
	require.True(t, ok)
	assert.Equal(t, "dire_wolf", m.ID)

	_, ok = c.Monster("dragon")
	assert.False(t, ok)
}

func TestCatalog_UnlockedAbilities(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ids := func(level int) []string {
		var out []string
		for _, a := range c.UnlockedAbilities(level) {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"power_strike", "heal"}, ids(1))
	assert.Contains(t, ids(10), "shadow_step")
	assert.NotContains(t, ids(14), "mana_burn")
	assert.Contains(t, ids(35), "ice_spike")
	assert.Len(t, ids(100), len(c.Abilities()))
}

func TestCatalog_MonstersNear(t *testing.T) {
	c, err := Parse([]byte(`[]`), []byte(`
- {id: a, name: A, level: 1, hp: 10}
- {id: b, name: B, level: 6, hp: 10}
- {id: c, name: C, level: 7, hp: 10}
`))
	require.NoError(t, err)

	var got []string
	for _, m := range c.MonstersNear(1, 5) {
		got = append(got, m.ID)
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Empty(t, c.MonstersNear(100, 5))
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		abilities string
		monsters  string
	}{
		{"unknown type", `[{id: x, name: X, type: dance}]`, `[]`},
		{"attack without multiplier", `[{id: x, name: X, type: attack}]`, `[]`},
		{"duplicate ability", `[{id: x, type: support}, {id: x, type: support}]`, `[]`},
		{"shadow chance above one", `[]`, `[{id: m, level: 1, hp: 1, shadow_chance: 1.5}]`},
		{"zero hp", `[]`, `[{id: m, level: 1, hp: 0}]`},
		{"malformed yaml", `{`, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.abilities), []byte(tt.monsters))
			assert.Error(t, err)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abilities.yaml"),
		[]byte(`[{id: heal, name: Heal, type: support, healing_amount: 5}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "monsters.yaml"),
		[]byte(`[{id: rat, name: Rat, level: 1, hp: 5}]`), 0o644))

	c, err := LoadDir(dir)
	require.NoError(t, err)
	a, ok := c.Ability("heal")
	require.True(t, ok)
	assert.Equal(t, 1, a.UnlockLevel, "unlock level defaults to 1")

	_, err = LoadDir(t.TempDir())
	assert.Error(t, err)
}
