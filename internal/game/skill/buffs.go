package skill

import (
	"slices"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

var expiryNotices = map[string]string{
	model.BuffAttack:  "Your attack boost has worn off.",
	model.BuffEvasion: "Your evasion boost has worn off.",
}

// InstallBuff sets or refreshes a temporary buff.
func InstallBuff(h *model.Hunter, name string, amount, turns int) {
	if h.Buffs == nil {
		h.Buffs = make(map[string]model.Buff)
	}
	h.Buffs[name] = model.Buff{Amount: amount, TurnsLeft: turns}
}

// ConsumeEvasion removes the evasion buff. Returns true if one was active.
func ConsumeEvasion(h *model.Hunter) bool {
	if _, ok := h.Buffs[model.BuffEvasion]; !ok {
		return false
	}
	delete(h.Buffs, model.BuffEvasion)
	return true
}

// ApplyTurnDecay ages every buff by one turn. Buffs on their last turn are
// removed and produce an expiry notice. Runs once per resolved turn.
func ApplyTurnDecay(h *model.Hunter) []string {
	names := make([]string, 0, len(h.Buffs))
	for name := range h.Buffs {
		names = append(names, name)
	}
	slices.Sort(names)

	var notices []string
	for _, name := range names {
		b := h.Buffs[name]
		if b.TurnsLeft > 1 {
			b.TurnsLeft--
			h.Buffs[name] = b
			continue
		}
		delete(h.Buffs, name)
		if msg, ok := expiryNotices[name]; ok {
			notices = append(notices, msg)
		}
	}
	return notices
}

// EffectiveStats returns base stats with active buffs applied.
func EffectiveStats(h *model.Hunter) model.Stats {
	s := h.Stats
	if b, ok := h.Buffs[model.BuffAttack]; ok {
		s.Strength += b.Amount
	}
	return s
}
