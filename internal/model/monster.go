package model

// MonsterTemplate is the immutable definition of a monster.
// Templates are shared between encounters and never mutated after load.
type MonsterTemplate struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Level   int    `yaml:"level"`
	Rank    Rank   `yaml:"rank"`
	HP      int    `yaml:"hp"`
	Attack  int    `yaml:"attack"`
	Defense int    `yaml:"defense"`

	// MagicDefense is optional. When nil, magic damage is reduced by Defense/2.
	MagicDefense *int `yaml:"magic_defense,omitempty"`

	// Mana is optional. Zero means the monster does not track mana.
	Mana int `yaml:"mana,omitempty"`

	ExpReward    int     `yaml:"exp_reward"`
	GoldReward   int     `yaml:"gold_reward"`
	ShadowChance float64 `yaml:"shadow_chance"`
}

// MagicResistance returns the defense used against magic damage.
func (t *MonsterTemplate) MagicResistance() int {
	if t.MagicDefense != nil {
		return *t.MagicDefense
	}
	return t.Defense / 2
}

// Monster is the live copy of a template inside one encounter.
type Monster struct {
	Template *MonsterTemplate

	HP          int
	MaxHP       int
	Mana        int
	FrozenTurns int
}

// NewMonster creates a fresh live copy of the template.
func NewMonster(t *MonsterTemplate) *Monster {
	return &Monster{
		Template: t,
		HP:       t.HP,
		MaxHP:    t.HP,
		Mana:     t.Mana,
	}
}

// Name returns the template name.
func (m *Monster) Name() string { return m.Template.Name }

// Attack returns the template attack.
func (m *Monster) Attack() int { return m.Template.Attack }

// Defense returns the template defense.
func (m *Monster) Defense() int { return m.Template.Defense }

// TracksMana reports whether mana drain has any effect on this monster.
func (m *Monster) TracksMana() bool { return m.Template.Mana > 0 }

// IsDead reports whether the monster's HP is depleted.
func (m *Monster) IsDead() bool { return m.HP <= 0 }

// IsFrozen reports whether the monster skips its next counter-attack.
func (m *Monster) IsFrozen() bool { return m.FrozenTurns > 0 }

// TakeDamage lowers HP, never below zero.
func (m *Monster) TakeDamage(dmg int) {
	m.HP = max(0, m.HP-dmg)
}

// DrainMana lowers mana, never below zero.
func (m *Monster) DrainMana(amount int) {
	m.Mana = max(0, m.Mana-amount)
}
