package data

// AbilityType selects which branch of the resolver handles an ability.
type AbilityType string

const (
	AbilityAttack  AbilityType = "attack"
	AbilityMagic   AbilityType = "magic"
	AbilitySupport AbilityType = "support"
	AbilityBuff    AbilityType = "buff"
	AbilityUtility AbilityType = "utility"
)

// Effect is an optional side effect tag applied after the main branch.
type Effect string

const (
	EffectNone         Effect = ""
	EffectManaDrain    Effect = "mana_drain"
	EffectFreezeChance Effect = "freeze_chance"
	EffectAttackBuff   Effect = "attack_buff"
	EffectEvade        Effect = "evade_next_attack"
)

// AbilityDef is a static ability definition.
type AbilityDef struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Type        AbilityType `yaml:"type"`
	ManaCost    int         `yaml:"mana_cost"`

	// Cooldown in turns.
	Cooldown int `yaml:"cooldown"`

	Multiplier    float64 `yaml:"damage_multiplier"`
	HealingAmount int     `yaml:"healing_amount"`
	Effect        Effect  `yaml:"effect"`
	BuffAmount    int     `yaml:"buff_amount"`
	Duration      int     `yaml:"duration"`
	UnlockLevel   int     `yaml:"unlock_level"`
}

// IsUnlocked reports whether a hunter of the given level may use the ability.
func (a *AbilityDef) IsUnlocked(level int) bool {
	return level >= a.UnlockLevel
}
