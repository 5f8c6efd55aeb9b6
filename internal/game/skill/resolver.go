package skill

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/data"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/combat"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

var (
	// ErrUnknownAbility is returned for ability ids missing from the catalog.
	ErrUnknownAbility = errors.New("unknown ability")
	// ErrInsufficientMana is returned when the hunter cannot pay the mana cost.
	ErrInsufficientMana = errors.New("insufficient mana")
	// ErrAbilityOnCooldown is returned while the ability's cooldown runs.
	ErrAbilityOnCooldown = errors.New("ability on cooldown")
)

// CooldownError carries the remaining time of a blocked ability.
type CooldownError struct {
	Ability   string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s is on cooldown. %s remaining.", e.Ability, FormatRemaining(e.Remaining))
}

func (e *CooldownError) Unwrap() error { return ErrAbilityOnCooldown }

// FreezeRule is the chance and length of a freeze effect.
type FreezeRule struct {
	Chance float64
	Turns  int
}

// Freeze defaults for physical and magical abilities.
var (
	DefaultPhysicalFreeze = FreezeRule{Chance: 0.3, Turns: 1}
	DefaultMagicFreeze    = FreezeRule{Chance: 0.4, Turns: 2}
)

// Result describes the outcome of one resolved ability.
type Result struct {
	Ability     *data.AbilityDef
	Message     string
	Damage      int
	Healing     int
	ManaDrained int
	Froze       bool
	Buff        string
}

// Resolver applies abilities to a hunter and a monster.
type Resolver struct {
	catalog  *data.Catalog
	tracker  *Tracker
	rnd      combat.Rand
	physical FreezeRule
	magic    FreezeRule
}

// NewResolver creates a Resolver with the given freeze rules.
func NewResolver(catalog *data.Catalog, tracker *Tracker, rnd combat.Rand, physical, magic FreezeRule) *Resolver {
	return &Resolver{
		catalog:  catalog,
		tracker:  tracker,
		rnd:      rnd,
		physical: physical,
		magic:    magic,
	}
}

// Tracker returns the cooldown tracker used by the resolver.
func (r *Resolver) Tracker() *Tracker {
	return r.tracker
}

// Resolve uses ability id against m.
//
// Preconditions are checked in order (ability exists, mana, cooldown) before
// anything is mutated. On success mana is paid and the cooldown starts before
// the ability's branch runs.
func (r *Resolver) Resolve(h *model.Hunter, m *model.Monster, id string) (Result, error) {
	def, ok := r.catalog.Ability(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAbility, id)
	}
	if h.Mana < def.ManaCost {
		return Result{}, fmt.Errorf("%s needs %d mana, have %d: %w", def.Name, def.ManaCost, h.Mana, ErrInsufficientMana)
	}
	if r.tracker.IsOnCooldown(h, id) {
		left, _ := r.tracker.Remaining(h, id)
		return Result{}, &CooldownError{Ability: def.Name, Remaining: left}
	}

	h.SetMana(h.Mana - def.ManaCost)
	r.tracker.StartCooldown(h, id, def.Cooldown)

	res := Result{Ability: def}
	switch def.Type {
	case data.AbilityAttack:
		r.physicalHit(h, m, def, &res)
	case data.AbilityMagic:
		r.magicHit(h, m, def, &res)
	case data.AbilitySupport:
		before := h.HP
		h.SetHP(h.HP + def.HealingAmount)
		res.Healing = h.HP - before
		res.Message = fmt.Sprintf("You used %s! Restored %d HP.", def.Name, res.Healing)
	case data.AbilityBuff:
		if def.Effect == data.EffectAttackBuff {
			InstallBuff(h, model.BuffAttack, def.BuffAmount, def.Duration)
			res.Buff = model.BuffAttack
			res.Message = fmt.Sprintf("You used %s! Attack power increased by %d for %d turns.", def.Name, def.BuffAmount, def.Duration)
		}
	case data.AbilityUtility:
		if def.Effect == data.EffectEvade {
			InstallBuff(h, model.BuffEvasion, 1, 1)
			res.Buff = model.BuffEvasion
			res.Message = fmt.Sprintf("You used %s! You will evade the next attack.", def.Name)
		}
	}
	if res.Message == "" {
		res.Message = fmt.Sprintf("You used %s!", def.Name)
	}

	r.tracker.Sweep(h)

	slog.Debug("ability resolved",
		"hunter", h.ID,
		"ability", id,
		"damage", res.Damage,
		"healing", res.Healing,
		"froze", res.Froze,
		"monster_hp", m.HP)
	return res, nil
}

func (r *Resolver) physicalHit(h *model.Hunter, m *model.Monster, def *data.AbilityDef, res *Result) {
	power := int(math.Floor(float64(EffectiveStats(h).Strength) * def.Multiplier))
	res.Damage = max(1, power-m.Defense())
	m.TakeDamage(res.Damage)
	res.Message = fmt.Sprintf("You used %s! It dealt %d damage to the %s.", def.Name, res.Damage, m.Name())

	switch def.Effect {
	case data.EffectManaDrain:
		if m.TracksMana() {
			res.ManaDrained = res.Damage / 2
			m.DrainMana(res.ManaDrained)
			res.Message += fmt.Sprintf(" Drained %d mana!", res.ManaDrained)
		}
	case data.EffectFreezeChance:
		if r.tryFreeze(m, r.physical) {
			res.Froze = true
			res.Message += " The enemy is frozen!"
		}
	}
}

func (r *Resolver) magicHit(h *model.Hunter, m *model.Monster, def *data.AbilityDef, res *Result) {
	power := int(math.Floor(float64(EffectiveStats(h).Intelligence) * def.Multiplier))
	res.Damage = max(1, power-m.Template.MagicResistance())
	m.TakeDamage(res.Damage)
	res.Message = fmt.Sprintf("You cast %s! It dealt %d magic damage to the %s.", def.Name, res.Damage, m.Name())

	if def.Effect == data.EffectFreezeChance && r.tryFreeze(m, r.magic) {
		res.Froze = true
		res.Message += " The enemy is frozen solid!"
	}
}

func (r *Resolver) tryFreeze(m *model.Monster, rule FreezeRule) bool {
	if !combat.Chance(r.rnd, rule.Chance) {
		return false
	}
	m.FrozenTurns = rule.Turns
	return true
}
