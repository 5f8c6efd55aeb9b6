package battle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/data"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/skill"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/testutil"
)

const testMonsters = `
- {id: goblin, name: Goblin, level: 3, rank: E, hp: 50, attack: 10, defense: 5, exp_reward: 25, gold_reward: 15, shadow_chance: 0.3}
- {id: dire_wolf, name: Dire Wolf, level: 5, rank: D, hp: 80, attack: 30, defense: 8, exp_reward: 45, gold_reward: 25, shadow_chance: 0.25}
- {id: dragon, name: Dragon, level: 90, rank: S, hp: 5000, attack: 400, defense: 200, exp_reward: 9000, gold_reward: 900, shadow_chance: 0.01}
`

const testAbilities = `
- {id: power_strike, name: Power Strike, type: attack, mana_cost: 10, cooldown: 2, damage_multiplier: 1.5}
- {id: shadow_step, name: Shadow Step, type: utility, mana_cost: 20, cooldown: 4, effect: evade_next_attack}
- {id: frost_slash, name: Frost Slash, type: attack, mana_cost: 20, cooldown: 3, damage_multiplier: 1.3, effect: freeze_chance}
- {id: berserker_rage, name: Berserker Rage, type: buff, mana_cost: 30, cooldown: 6, effect: attack_buff, buff_amount: 10, duration: 3}
`

type engineFixture struct {
	engine *Engine
	rnd    *testutil.ScriptedRand
	clock  *testutil.Clock
}

func newTestEngine(t *testing.T) engineFixture {
	t.Helper()
	catalog, err := data.Parse([]byte(testAbilities), []byte(testMonsters))
	require.NoError(t, err)

	rnd := testutil.NewScriptedRand()
	clock := testutil.NewClock()
	resolver := skill.NewResolver(catalog, skill.NewTracker(clock.Now, 0), rnd, skill.DefaultPhysicalFreeze, skill.DefaultMagicFreeze)
	return engineFixture{
		engine: NewEngine(catalog, resolver, NewRegistry(), rnd, DefaultConfig()),
		rnd:    rnd,
		clock:  clock,
	}
}

// engage starts a fight against the n-th eligible monster.
func (f engineFixture) engage(t *testing.T, h *model.Hunter, n int) *Encounter {
	t.Helper()
	f.rnd.PushInts(n)
	enc, err := f.engine.Engage(context.Background(), h)
	require.NoError(t, err)
	return enc
}

// commit publishes a successful action, as the server does after a save.
func (f engineFixture) commit(out Outcome, err error) (Outcome, error) {
	if err == nil {
		out.Commit()
	}
	return out, err
}

func TestEngage_PicksMonsterWithinLevelWindow(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)

	enc := f.engage(t, h, 1)

	assert.Equal(t, "dire_wolf", enc.Monster.Template.ID)
	assert.Equal(t, 80, enc.Monster.HP)
	assert.Equal(t, StateEngaged, enc.State())
	assert.Equal(t, h.HP, enc.HP)
	assert.Equal(t, h.Mana, enc.Mana)
	assert.Equal(t, 1, f.engine.Registry().Count())
}

func TestEngage_AlreadyEngaged(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	first := f.engage(t, h, 0)
	before := *h

	_, err := f.engine.Engage(context.Background(), h)

	assert.ErrorIs(t, err, ErrAlreadyEngaged)
	assert.Same(t, first, f.engine.Active(h.ID))
	assert.Equal(t, before.HP, h.HP)
	assert.Equal(t, 1, f.engine.Registry().Count())
}

func TestEngage_NoEligibleMonster(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.Level = 40 })

	_, err := f.engine.Engage(context.Background(), h)

	assert.ErrorIs(t, err, ErrNoEligibleMonster)
	assert.Nil(t, f.engine.Active(h.ID))
}

func TestActions_RequireEncounter(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	ctx := context.Background()

	_, err := f.engine.Attack(ctx, h)
	assert.ErrorIs(t, err, ErrNotEngaged)
	_, err = f.engine.Defend(ctx, h)
	assert.ErrorIs(t, err, ErrNotEngaged)
	_, err = f.engine.Flee(ctx, h)
	assert.ErrorIs(t, err, ErrNotEngaged)
	_, err = f.engine.UseAbility(ctx, h, "power_strike")
	assert.ErrorIs(t, err, ErrNotEngaged)
}

func TestAttack_ExchangesBlows(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	enc := f.engage(t, h, 1) // dire wolf, def 8, atk 30

	out, err := f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)

	assert.Equal(t, 74, enc.Monster.HP, "10 + 0 - 8/2 = 6")
	assert.Equal(t, 70, h.HP)
	assert.Equal(t, 70, out.Encounter.HunterHP)
	assert.Equal(t, StateEngaged, out.State)
	assert.True(t, out.HunterChanged)
}

func TestAttack_Victory(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.Experience = 90 })
	enc := f.engage(t, h, 0)
	enc.Monster.HP = 3

	f.rnd.PushInts(2)     // strength +4 on level-up
	f.rnd.PushFloats(0.1) // shadow chance 0.3 hits
	out, err := f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)

	assert.Equal(t, StateVictory, out.State)
	assert.Nil(t, f.engine.Active(h.ID))
	assert.Equal(t, 115, h.Gold)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, 15, h.Experience)
	assert.Equal(t, 14, h.Stats.Strength)
	assert.Equal(t, 100, h.HP, "no counter-attack after a killing blow")
	assert.True(t, out.ExtractionAvailable)
	assert.Len(t, out.LevelUps, 1)
	assert.Equal(t, Rewards{Experience: 25, Gold: 15}, out.Rewards)
}

func TestAttack_VictoryWithoutExtraction(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	enc := f.engage(t, h, 0)
	enc.Monster.HP = 1

	out, err := f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)
	assert.False(t, out.ExtractionAvailable, "fallback draw 0.99 misses")
}

func TestAttack_Defeat(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.MaxHP = 300; h.HP = 20 })
	f.engage(t, h, 1)

	out, err := f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)

	assert.Equal(t, StateDefeat, out.State)
	assert.Equal(t, 50, h.HP, "defeat resets HP to 50, not max")
	assert.Nil(t, f.engine.Active(h.ID))
}

func TestAttack_DefeatStillAgesBuffs(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) {
		h.MaxHP = 300
		h.HP = 20
		h.Buffs = map[string]model.Buff{model.BuffAttack: {Amount: 10, TurnsLeft: 2}}
	})
	f.engage(t, h, 1)

	out, err := f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)

	assert.Equal(t, StateDefeat, out.State)
	assert.Equal(t, 1, h.Buffs[model.BuffAttack].TurnsLeft)
}

func TestActions_UncommittedLeaveEncounterUnchanged(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	enc := f.engage(t, h, 0)
	before := enc.View()

	out, err := f.engine.Attack(context.Background(), h)
	require.NoError(t, err)

	assert.Equal(t, 42, out.Encounter.MonsterHP)
	assert.Equal(t, before, enc.View())
	assert.Same(t, enc, f.engine.Active(h.ID))

	out.Commit()
	assert.Equal(t, 42, enc.Monster.HP)
	assert.Equal(t, 1, enc.Turn)
}

func TestActions_UncommittedVictoryKeepsEncounter(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	enc := f.engage(t, h, 0)
	enc.Monster.HP = 1

	out, err := f.engine.Attack(context.Background(), h)
	require.NoError(t, err)
	require.Equal(t, StateVictory, out.State)

	assert.Same(t, enc, f.engine.Active(h.ID))
	assert.Equal(t, StateEngaged, enc.State())
	assert.Equal(t, 1, enc.Monster.HP)

	out.Commit()
	assert.Nil(t, f.engine.Active(h.ID))
	assert.Equal(t, StateVictory, enc.State())
	assert.Equal(t, 0, f.engine.Registry().Count())
}

func TestDefend_HalfDamage(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	enc := f.engage(t, h, 1)

	out, err := f.commit(f.engine.Defend(context.Background(), h))
	require.NoError(t, err)

	assert.Equal(t, 85, h.HP)
	assert.Equal(t, 80, enc.Monster.HP)
	assert.True(t, out.Encounter.Defending)

	_, err = f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)
	assert.False(t, enc.Status[StatusDefending])
}

func TestDefend_Defeat(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.HP = 10 })
	f.engage(t, h, 1)

	out, err := f.commit(f.engine.Defend(context.Background(), h))
	require.NoError(t, err)
	assert.Equal(t, StateDefeat, out.State)
	assert.Equal(t, 50, h.HP)
}

func TestFlee_Success(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.HP = 42; h.Gold = 7; h.Experience = 3 })
	f.engage(t, h, 1)

	f.rnd.PushFloats(0.2)
	out, err := f.commit(f.engine.Flee(context.Background(), h))
	require.NoError(t, err)

	assert.Equal(t, StateFled, out.State)
	assert.False(t, out.HunterChanged)
	assert.Nil(t, f.engine.Active(h.ID))
	assert.Equal(t, 42, h.HP)
	assert.Equal(t, 7, h.Gold)
	assert.Equal(t, 3, h.Experience)
}

func TestFlee_Failure(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	f.engage(t, h, 1)

	f.rnd.PushFloats(0.5)
	out, err := f.commit(f.engine.Flee(context.Background(), h))
	require.NoError(t, err)

	assert.Equal(t, StateEngaged, out.State)
	assert.Equal(t, 75, h.HP, "30 - 5")
	assert.NotNil(t, f.engine.Active(h.ID))
}

func TestUseAbility_FailureLeavesEncounterUntouched(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.Mana = 5 })
	enc := f.engage(t, h, 1)

	_, err := f.commit(f.engine.UseAbility(context.Background(), h, "power_strike"))

	require.ErrorIs(t, err, skill.ErrInsufficientMana)
	assert.Equal(t, 0, enc.Turn)
	assert.Equal(t, 80, enc.Monster.HP)
	assert.Equal(t, 100, h.HP)
	assert.Equal(t, 5, h.Mana)
}

func TestUseAbility_FrozenMonsterSkipsCounter(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	enc := f.engage(t, h, 1)

	f.rnd.PushFloats(0.1) // freeze lands
	out, err := f.commit(f.engine.UseAbility(context.Background(), h, "frost_slash"))
	require.NoError(t, err)

	assert.Equal(t, 100, h.HP)
	assert.Equal(t, 0, enc.Monster.FrozenTurns, "one frozen turn consumed")
	assert.Contains(t, out.Messages, "The Dire Wolf is frozen and cannot attack!")

	_, err = f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)
	assert.Equal(t, 70, h.HP, "thawed monster attacks again")
}

func TestUseAbility_EvasionAbsorbsCounter(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t)
	f.engage(t, h, 1)

	out, err := f.commit(f.engine.UseAbility(context.Background(), h, "shadow_step"))
	require.NoError(t, err)

	assert.Equal(t, 100, h.HP)
	assert.NotContains(t, h.Buffs, model.BuffEvasion)
	assert.Contains(t, out.Messages, "You evaded the Dire Wolf's attack!")
}

func TestUseAbility_BuffDecaysPerTurn(t *testing.T) {
	f := newTestEngine(t)
	h := testutil.NewHunter(t, func(h *model.Hunter) { h.MaxHP = 1000; h.HP = 1000 })
	enc := f.engage(t, h, 1)
	enc.Monster.HP = 1000

	_, err := f.commit(f.engine.UseAbility(context.Background(), h, "berserker_rage"))
	require.NoError(t, err)
	assert.Equal(t, 2, h.Buffs[model.BuffAttack].TurnsLeft)

	_, err = f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)
	assert.Equal(t, 1000-16, enc.Monster.HP, "buffed strength 20 - 8/2")

	out, err := f.commit(f.engine.Attack(context.Background(), h))
	require.NoError(t, err)
	assert.Contains(t, out.Messages, "Your attack boost has worn off.")
	assert.Empty(t, h.Buffs)
}

func TestHPStaysInRange(t *testing.T) {
	f := newTestEngine(t)
	ctx := context.Background()
	h := testutil.NewHunter(t)

	for range 50 {
		if f.engine.Active(h.ID) == nil {
			f.rnd.PushInts(1)
			_, err := f.engine.Engage(ctx, h)
			require.NoError(t, err)
		}
		f.clock.Advance(time.Minute)
		_, _ = f.commit(f.engine.Attack(ctx, h))
		require.GreaterOrEqual(t, h.HP, 0)
		require.LessOrEqual(t, h.HP, h.MaxHP)
		require.GreaterOrEqual(t, h.Mana, 0)
		require.LessOrEqual(t, h.Mana, h.MaxMana)
	}
}
