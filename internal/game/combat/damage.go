package combat

import "github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"

// FleeFailFlatReduction is subtracted from monster attack on a failed flee.
const FleeFailFlatReduction = 5

// Every formula floors at 1 so no hit deals zero or negative damage.

// HunterAttackDamage is the damage of a basic attack.
// strength is the effective strength, buffs included.
func HunterAttackDamage(strength int, h *model.Hunter, m *model.Monster) int {
	return max(1, strength+h.AttackBonus-m.Defense()/2)
}

// MonsterAttackDamage is the damage of a monster counter-attack.
func MonsterAttackDamage(m *model.Monster, h *model.Hunter) int {
	return max(1, m.Attack()-h.DefenseBonus)
}

// DefendDamage is the damage taken while defending.
func DefendDamage(m *model.Monster) int {
	return max(1, m.Attack()/2)
}

// FleeFailDamage is the damage taken on a failed flee.
func FleeFailDamage(m *model.Monster) int {
	return max(1, m.Attack()-FleeFailFlatReduction)
}
