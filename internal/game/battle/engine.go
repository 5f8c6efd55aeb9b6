package battle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/data"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/combat"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/skill"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

var (
	// ErrAlreadyEngaged is returned by Engage while an encounter is active.
	ErrAlreadyEngaged = errors.New("already in battle")
	// ErrNotEngaged is returned by combat actions outside an encounter.
	ErrNotEngaged = errors.New("not in battle")
	// ErrNoEligibleMonster is returned when no template is near the hunter's level.
	ErrNoEligibleMonster = errors.New("no monster near your level")
)

// Config holds battle balance values.
type Config struct {
	// LevelWindow is the max level difference between hunter and monster.
	LevelWindow int
	// FleeChance is the probability that Flee succeeds.
	FleeChance float64
	// DefeatRecoveryHP is the hunter's HP after a defeat.
	DefeatRecoveryHP int
}

// DefaultConfig returns the standard balance.
func DefaultConfig() Config {
	return Config{
		LevelWindow:      5,
		FleeChance:       0.5,
		DefeatRecoveryHP: 50,
	}
}

// Outcome is the result of one battle action.
type Outcome struct {
	Messages []string

	// State is the encounter state after the action.
	State string

	// Encounter is a snapshot taken after the action.
	Encounter View

	// HunterChanged is false only when the action left the hunter record untouched.
	HunterChanged bool

	Rewards             Rewards
	LevelUps            []combat.LevelUp
	ExtractionAvailable bool

	commit func()
}

// Commit applies the action to the live encounter. Call it after the hunter
// record is saved; an outcome that is never committed leaves the encounter
// as it was.
func (o Outcome) Commit() {
	if o.commit != nil {
		o.commit()
	}
}

// Rewards granted on victory.
type Rewards struct {
	Experience int
	Gold       int
}

func (o *Outcome) say(format string, args ...any) {
	o.Messages = append(o.Messages, fmt.Sprintf(format, args...))
}

// Engine runs encounters: Engaged -> {Victory, Defeat, Fled} -> NoBattle.
//
// Callers pass a working copy of the hunter, persist it when the action
// returns without error and then call Outcome.Commit. Actions run on a copy
// of the encounter, so nothing in the registry changes before the commit.
type Engine struct {
	catalog  *data.Catalog
	resolver *skill.Resolver
	registry *Registry
	rnd      combat.Rand
	cfg      Config
}

// NewEngine creates a battle engine that owns registry.
func NewEngine(catalog *data.Catalog, resolver *skill.Resolver, registry *Registry, rnd combat.Rand, cfg Config) *Engine {
	return &Engine{
		catalog:  catalog,
		resolver: resolver,
		registry: registry,
		rnd:      rnd,
		cfg:      cfg,
	}
}

// Registry returns the encounter registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Active returns the hunter's encounter, or nil.
func (e *Engine) Active(hunterID string) *Encounter {
	return e.registry.Get(hunterID)
}

// Engage starts an encounter with a random monster near the hunter's level.
func (e *Engine) Engage(_ context.Context, h *model.Hunter) (*Encounter, error) {
	if e.registry.Get(h.ID) != nil {
		return nil, ErrAlreadyEngaged
	}

	candidates := e.catalog.MonstersNear(h.Level, e.cfg.LevelWindow)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("level %d: %w", h.Level, ErrNoEligibleMonster)
	}
	tmpl := candidates[e.rnd.IntN(len(candidates))]

	enc := newEncounter(h, tmpl, e.resolver.Tracker().Now())
	if err := e.registry.Begin(enc); err != nil {
		return nil, err
	}

	slog.Info("encounter started",
		"hunter", h.ID,
		"monster", tmpl.ID,
		"monster_level", tmpl.Level,
		"hunter_level", h.Level)
	return enc, nil
}

type action func(enc *Encounter) (Outcome, error)

// staged runs act on a copy of the hunter's encounter. The returned outcome
// carries the commit that publishes the copy and ends a finished encounter.
func (e *Engine) staged(h *model.Hunter, act action) (Outcome, error) {
	live := e.registry.Get(h.ID)
	if live == nil || !live.Active() {
		return Outcome{}, ErrNotEngaged
	}

	work := live.clone()
	out, err := act(work)
	if err != nil {
		return Outcome{}, err
	}

	out.commit = func() {
		live.apply(work)
		if live.Active() {
			return
		}
		e.registry.End(live.HunterID)
		slog.Info("encounter ended",
			"hunter", live.HunterID,
			"monster", live.Monster.Template.ID,
			"result", live.State(),
			"turns", live.Turn)
	}
	return out, nil
}

// Attack performs a basic attack followed by the monster's counter-attack.
func (e *Engine) Attack(ctx context.Context, h *model.Hunter) (Outcome, error) {
	return e.staged(h, func(enc *Encounter) (Outcome, error) {
		out := Outcome{HunterChanged: true}
		enc.Turn++
		delete(enc.Status, StatusDefending)

		m := enc.Monster
		dmg := combat.HunterAttackDamage(skill.EffectiveStats(h).Strength, h, m)
		m.TakeDamage(dmg)
		out.say("You dealt %d damage to the %s!", dmg, m.Name())

		return e.afterOffense(ctx, h, enc, out)
	})
}

// UseAbility resolves an ability followed by the monster's counter-attack.
func (e *Engine) UseAbility(ctx context.Context, h *model.Hunter, abilityID string) (Outcome, error) {
	return e.staged(h, func(enc *Encounter) (Outcome, error) {
		res, err := e.resolver.Resolve(h, enc.Monster, abilityID)
		if err != nil {
			return Outcome{}, err
		}

		out := Outcome{HunterChanged: true}
		enc.Turn++
		delete(enc.Status, StatusDefending)
		out.Messages = append(out.Messages, res.Message)

		return e.afterOffense(ctx, h, enc, out)
	})
}

// afterOffense checks for victory, then lets the monster counter-attack.
// A frozen monster skips its attack; an evasion buff absorbs it.
func (e *Engine) afterOffense(ctx context.Context, h *model.Hunter, enc *Encounter, out Outcome) (Outcome, error) {
	m := enc.Monster
	if m.IsDead() {
		return e.victory(ctx, h, enc, out)
	}

	switch {
	case m.IsFrozen():
		m.FrozenTurns--
		out.say("The %s is frozen and cannot attack!", m.Name())
	case skill.ConsumeEvasion(h):
		out.say("You evaded the %s's attack!", m.Name())
	default:
		dmg := combat.MonsterAttackDamage(m, h)
		h.SetHP(h.HP - dmg)
		out.say("The %s dealt %d damage!", m.Name(), dmg)
	}

	return e.endTurn(ctx, h, enc, out)
}

// Defend braces for the monster's attack. The hunter deals no damage.
func (e *Engine) Defend(ctx context.Context, h *model.Hunter) (Outcome, error) {
	return e.staged(h, func(enc *Encounter) (Outcome, error) {
		out := Outcome{HunterChanged: true}
		enc.Turn++
		enc.Status[StatusDefending] = true

		m := enc.Monster
		dmg := combat.DefendDamage(m)
		h.SetHP(h.HP - dmg)
		out.say("You blocked some damage! The %s dealt %d damage!", m.Name(), dmg)

		return e.endTurn(ctx, h, enc, out)
	})
}

// Flee tries to escape. Success ends the encounter without touching the
// hunter; failure costs HP.
func (e *Engine) Flee(ctx context.Context, h *model.Hunter) (Outcome, error) {
	return e.staged(h, func(enc *Encounter) (Outcome, error) {
		enc.Turn++

		if combat.Chance(e.rnd, e.cfg.FleeChance) {
			out := Outcome{}
			if err := enc.transition(ctx, eventFlee); err != nil {
				return Outcome{}, fmt.Errorf("fleeing: %w", err)
			}
			out.say("You successfully fled from the %s!", enc.Monster.Name())
			out.State = StateFled
			out.Encounter = enc.View()
			return out, nil
		}

		out := Outcome{HunterChanged: true}
		dmg := combat.FleeFailDamage(enc.Monster)
		h.SetHP(h.HP - dmg)
		out.say("You couldn't escape! Took %d damage!", dmg)

		return e.endTurn(ctx, h, enc, out)
	})
}

// endTurn ages buffs, then runs the defeat check.
func (e *Engine) endTurn(ctx context.Context, h *model.Hunter, enc *Encounter, out Outcome) (Outcome, error) {
	out.Messages = append(out.Messages, skill.ApplyTurnDecay(h)...)
	if h.IsDead() {
		return e.defeat(ctx, h, enc, out)
	}

	enc.sync(h)
	out.State = enc.State()
	out.Encounter = enc.View()
	return out, nil
}

func (e *Engine) victory(ctx context.Context, h *model.Hunter, enc *Encounter, out Outcome) (Outcome, error) {
	if err := enc.transition(ctx, eventWin); err != nil {
		return Outcome{}, fmt.Errorf("resolving victory: %w", err)
	}
	tmpl := enc.Monster.Template

	out.say("You defeated the %s!", tmpl.Name)
	out.Rewards = Rewards{Experience: tmpl.ExpReward, Gold: tmpl.GoldReward}
	h.Gold += tmpl.GoldReward
	out.say("Rewards: +%d EXP, +%d gold.", tmpl.ExpReward, tmpl.GoldReward)

	out.LevelUps = combat.ApplyExperience(h, tmpl.ExpReward, e.rnd)
	for _, up := range out.LevelUps {
		out.Messages = append(out.Messages, up.Notice())
	}

	if combat.Chance(e.rnd, tmpl.ShadowChance) {
		out.ExtractionAvailable = true
		out.say("Shadow chance! Use extract %s to attempt shadow extraction.", tmpl.ID)
	}

	return e.finish(h, enc, out, StateVictory), nil
}

func (e *Engine) defeat(ctx context.Context, h *model.Hunter, enc *Encounter, out Outcome) (Outcome, error) {
	if err := enc.transition(ctx, eventLose); err != nil {
		return Outcome{}, fmt.Errorf("resolving defeat: %w", err)
	}
	h.SetHP(e.cfg.DefeatRecoveryHP)
	out.say("You were defeated by the %s! You wake up with %d HP.", enc.Monster.Name(), h.HP)

	return e.finish(h, enc, out, StateDefeat), nil
}

func (e *Engine) finish(h *model.Hunter, enc *Encounter, out Outcome, state string) Outcome {
	enc.sync(h)
	out.State = state
	out.Encounter = enc.View()
	return out
}
