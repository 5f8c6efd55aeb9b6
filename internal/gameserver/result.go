package gameserver

import (
	"errors"
	"time"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/data"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/battle"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/combat"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/shadow"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/skill"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// Status classifies the outcome of a command.
type Status int

const (
	// StatusOK means the command ran and its effects were persisted.
	StatusOK Status = iota
	// StatusFailed means a precondition did not hold; nothing changed.
	StatusFailed
	// StatusNotFound means the hunter, ability, monster or shadow does not exist.
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Command errors owned by the server. Battle, skill and shadow errors pass through.
var (
	ErrNotStarted     = errors.New("hunter not started")
	ErrAlreadyStarted = errors.New("hunter already started")
	ErrAbilityLocked  = errors.New("ability not unlocked")
	ErrUnknownMonster = errors.New("unknown monster")
	ErrInBattle       = errors.New("cannot do that in battle")
	ErrRestOnCooldown = errors.New("rest on cooldown")
	ErrFullyRested    = errors.New("already fully rested")
)

// AbilityStatus is one entry of the ability list.
type AbilityStatus struct {
	Ability  *data.AbilityDef
	Unlocked bool
	// Ready means unlocked, off cooldown and affordable right now.
	Ready     bool
	Remaining time.Duration
}

// Result is the payload returned to the command layer.
type Result struct {
	Status   Status
	Messages []string

	// Err is the precondition error behind a non-OK status.
	Err error

	// Hunter is a snapshot after the command, nil when the hunter does not exist.
	Hunter *model.Hunter
	// Encounter is the encounter snapshot, nil outside battle.
	Encounter *battle.View

	LevelUps            []combat.LevelUp
	ExtractionAvailable bool

	Abilities []AbilityStatus
	Shadow    *model.Shadow
	Training  *shadow.TrainResult

	// commit runs once the record is saved.
	commit func()
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// gameErrors lists every error a player can cause, mapped to a status.
var gameErrors = []struct {
	err    error
	status Status
	msg    string
}{
	{ErrNotStarted, StatusNotFound, "You are not a hunter yet. Use start <name> to awaken."},
	{ErrAlreadyStarted, StatusFailed, "You have already awakened as a hunter."},
	{battle.ErrAlreadyEngaged, StatusFailed, "You are already in battle!"},
	{battle.ErrNotEngaged, StatusFailed, "You're not in battle! Use hunt to find monsters."},
	{battle.ErrNoEligibleMonster, StatusFailed, "No suitable monsters found for your level!"},
	{skill.ErrUnknownAbility, StatusNotFound, "Unknown ability."},
	{ErrAbilityLocked, StatusFailed, "You have not unlocked that ability yet."},
	{skill.ErrInsufficientMana, StatusFailed, "Not enough mana!"},
	{skill.ErrAbilityOnCooldown, StatusFailed, "That ability is on cooldown."},
	{shadow.ErrInsufficientGold, StatusFailed, "Not enough gold!"},
	{shadow.ErrInvalidIndex, StatusNotFound, "Invalid shadow number."},
	{ErrUnknownMonster, StatusNotFound, "Unknown monster."},
	{ErrInBattle, StatusFailed, "You can't do that during battle!"},
	{ErrRestOnCooldown, StatusFailed, "Rest is on cooldown!"},
	{ErrFullyRested, StatusFailed, "You are already at full health and mana."},
}

// failure converts a game error into a result. ok is false for errors that
// are not game errors; those are infrastructure failures.
func failure(err error) (Result, bool) {
	var cd *skill.CooldownError
	if errors.As(err, &cd) {
		return Result{Status: StatusFailed, Err: err, Messages: []string{cd.Error()}}, true
	}
	for _, ge := range gameErrors {
		if errors.Is(err, ge.err) {
			return Result{Status: ge.status, Err: err, Messages: []string{ge.msg}}, true
		}
	}
	return Result{}, false
}
