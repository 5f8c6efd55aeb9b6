package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Starting values for a new hunter. Also used to fill fields absent from
// records written before the field existed.
const (
	DefaultLevel        = 1
	DefaultHP           = 100
	DefaultMana         = 100
	DefaultStrength     = 10
	DefaultAgility      = 10
	DefaultIntelligence = 10
	DefaultDefense      = 5
	DefaultGold         = 100
)

// Buff names stored in Hunter.Buffs.
const (
	BuffAttack  = "attack_buff"
	BuffEvasion = "evasion"
)

// ErrInvalidHunter is returned by Validate for records that cannot be repaired.
var ErrInvalidHunter = errors.New("invalid hunter record")

// Stats are the base attributes of a hunter.
type Stats struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Defense      int `json:"defense"`
}

// Buff is a temporary combat modifier that expires after a number of turns.
type Buff struct {
	Amount    int `json:"amount"`
	TurnsLeft int `json:"turns_left"`
}

// Hunter is the persisted player record.
//
// Cooldowns hold absolute RFC 3339 expiry timestamps as strings so that a
// corrupted value survives decoding and can be dropped on first access.
type Hunter struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Level        int               `json:"level"`
	Experience   int               `json:"exp"`
	HP           int               `json:"hp"`
	MaxHP        int               `json:"max_hp"`
	Mana         int               `json:"mana"`
	MaxMana      int               `json:"max_mana"`
	Stats        Stats             `json:"stats"`
	AttackBonus  int               `json:"attack_bonus"`
	DefenseBonus int               `json:"defense_bonus"`
	Gold         int               `json:"gold"`
	Rank         Rank              `json:"rank"`
	Inventory    map[string]int    `json:"inventory"`
	Shadows      []Shadow          `json:"shadows"`
	Cooldowns    map[string]string `json:"active_cooldowns"`
	Buffs        map[string]Buff   `json:"temp_buffs"`

	// Version is bumped by the store on every successful save.
	Version int64 `json:"version"`

	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// NewHunter creates a level 1 hunter with starting stats.
func NewHunter(id, name string, now time.Time) *Hunter {
	h := &Hunter{
		ID:         id,
		Name:       name,
		Level:      DefaultLevel,
		HP:         DefaultHP,
		MaxHP:      DefaultHP,
		Mana:       DefaultMana,
		MaxMana:    DefaultMana,
		Gold:       DefaultGold,
		CreatedAt:  now,
		LastActive: now,
		Stats: Stats{
			Strength:     DefaultStrength,
			Agility:      DefaultAgility,
			Intelligence: DefaultIntelligence,
			Defense:      DefaultDefense,
		},
	}
	h.Normalize()
	return h
}

// Validate rejects records that Normalize cannot repair.
func (h *Hunter) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidHunter)
	}
	if h.Gold < 0 {
		return fmt.Errorf("%w: negative gold %d", ErrInvalidHunter, h.Gold)
	}
	return nil
}

// Normalize fills absent fields with defaults and clamps resources into range.
// Returns the names of fields that were defaulted.
func (h *Hunter) Normalize() []string {
	var fixed []string
	def := func(name string, cond bool, apply func()) {
		if cond {
			apply()
			fixed = append(fixed, name)
		}
	}

	def("level", h.Level < 1, func() { h.Level = DefaultLevel })
	def("exp", h.Experience < 0, func() { h.Experience = 0 })
	def("max_hp", h.MaxHP <= 0, func() {
		h.MaxHP = DefaultHP
		if h.HP <= 0 {
			h.HP = h.MaxHP
		}
	})
	def("max_mana", h.MaxMana <= 0, func() {
		h.MaxMana = DefaultMana
		if h.Mana <= 0 {
			h.Mana = h.MaxMana
		}
	})
	def("strength", h.Stats.Strength <= 0, func() { h.Stats.Strength = DefaultStrength })
	def("agility", h.Stats.Agility <= 0, func() { h.Stats.Agility = DefaultAgility })
	def("intelligence", h.Stats.Intelligence <= 0, func() { h.Stats.Intelligence = DefaultIntelligence })
	def("defense", h.Stats.Defense <= 0, func() { h.Stats.Defense = DefaultDefense })
	def("inventory", h.Inventory == nil, func() { h.Inventory = make(map[string]int) })
	def("active_cooldowns", h.Cooldowns == nil, func() { h.Cooldowns = make(map[string]string) })
	def("temp_buffs", h.Buffs == nil, func() { h.Buffs = make(map[string]Buff) })
	def("shadows", h.Shadows == nil, func() { h.Shadows = []Shadow{} })

	h.SetHP(h.HP)
	h.SetMana(h.Mana)

	if r := RankForLevel(h.Level); h.Rank != r {
		h.Rank = r
	}
	return fixed
}

// SetHP sets current HP clamped to [0, MaxHP].
func (h *Hunter) SetHP(hp int) {
	h.HP = min(max(hp, 0), h.MaxHP)
}

// SetMana sets current mana clamped to [0, MaxMana].
func (h *Hunter) SetMana(mana int) {
	h.Mana = min(max(mana, 0), h.MaxMana)
}

// IsDead reports whether the hunter has no HP left.
func (h *Hunter) IsDead() bool {
	return h.HP <= 0
}

// Clone returns a deep copy. Handlers mutate a clone and save it only on
// success, so a failed precondition never leaks a partial change.
func (h *Hunter) Clone() *Hunter {
	c := *h
	c.Inventory = maps.Clone(h.Inventory)
	c.Cooldowns = maps.Clone(h.Cooldowns)
	c.Buffs = maps.Clone(h.Buffs)
	c.Shadows = slices.Clone(h.Shadows)
	return &c
}
