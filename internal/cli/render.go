package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/battle"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/skill"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/gameserver"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// renderer holds the styles for one output. Colors are dropped when the
// output is not a terminal.
type renderer struct {
	styleMessage lipgloss.Style
	styleFailure lipgloss.Style
	styleSystem  lipgloss.Style
	styleHeading lipgloss.Style
	styleMonster lipgloss.Style
	styleGood    lipgloss.Style
	stylePrompt  lipgloss.Style
}

func newRenderer(out io.Writer) *renderer {
	r := lipgloss.NewRenderer(out)
	return &renderer{
		styleMessage: r.NewStyle().Foreground(lipgloss.Color("255")),
		styleFailure: r.NewStyle().Foreground(lipgloss.Color("196")),
		styleSystem:  r.NewStyle().Foreground(lipgloss.Color("243")),
		styleHeading: r.NewStyle().Bold(true),
		styleMonster: r.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		styleGood:    r.NewStyle().Foreground(lipgloss.Color("34")),
		stylePrompt:  r.NewStyle().Foreground(lipgloss.Color("34")),
	}
}

func (v *renderer) system(text string) string  { return v.styleSystem.Render(text) }
func (v *renderer) failure(text string) string { return v.styleFailure.Render(text) }
func (v *renderer) heading(text string) string { return v.styleHeading.Render(text) }
func (v *renderer) prompt(text string) string  { return v.stylePrompt.Render(text) }

// result renders the messages of res and the blocks selected by s.
func (v *renderer) result(res gameserver.Result, s show) []string {
	msgStyle := v.styleMessage
	if !res.OK() {
		msgStyle = v.styleFailure
	}
	var lines []string
	for _, m := range res.Messages {
		lines = append(lines, msgStyle.Render(m))
	}
	if !res.OK() {
		return lines
	}

	switch s {
	case showEncounter:
		if res.Encounter != nil && res.Encounter.State == battle.StateEngaged {
			lines = append(lines, v.encounter(*res.Encounter, res.Hunter)...)
		}
	case showHunter:
		if res.Hunter != nil {
			lines = append(lines, v.hunter(res.Hunter)...)
		}
		if res.Encounter != nil {
			lines = append(lines, v.encounter(*res.Encounter, res.Hunter)...)
		}
	case showAbilities:
		lines = append(lines, v.abilities(res.Abilities)...)
	case showShadows:
		if res.Hunter != nil {
			lines = append(lines, v.shadows(res.Hunter.Shadows)...)
		}
	}
	return lines
}

func (v *renderer) hunter(h *model.Hunter) []string {
	return []string{
		v.heading(fmt.Sprintf("%s | Level %d | Rank %s", h.Name, h.Level, h.Rank)),
		fmt.Sprintf("HP %d/%d  MP %d/%d  Gold %d", h.HP, h.MaxHP, h.Mana, h.MaxMana, h.Gold),
		fmt.Sprintf("EXP %d/%d", h.Experience, model.ExpToNextLevel(h.Level)),
		fmt.Sprintf("STR %d  AGI %d  INT %d  DEF %d", h.Stats.Strength, h.Stats.Agility, h.Stats.Intelligence, h.Stats.Defense),
		v.system(fmt.Sprintf("Shadows: %d", len(h.Shadows))),
	}
}

func (v *renderer) encounter(e battle.View, h *model.Hunter) []string {
	monster := fmt.Sprintf("Level %d %s [%s]  HP %d/%d", e.MonsterLevel, e.MonsterName, e.MonsterRank, e.MonsterHP, e.MonsterMaxHP)
	if e.FrozenTurns > 0 {
		monster += fmt.Sprintf(" (frozen %d)", e.FrozenTurns)
	}

	you := fmt.Sprintf("You: HP %d  MP %d", e.HunterHP, e.HunterMana)
	if h != nil {
		you = fmt.Sprintf("You: HP %d/%d  MP %d/%d", e.HunterHP, h.MaxHP, e.HunterMana, h.MaxMana)
	}
	if e.Defending {
		you += " (defending)"
	}
	return []string{v.styleMonster.Render(monster), v.styleGood.Render(you)}
}

func (v *renderer) abilities(list []gameserver.AbilityStatus) []string {
	lines := []string{v.heading("Abilities:")}
	for _, a := range list {
		def := a.Ability
		var state string
		switch {
		case !a.Unlocked:
			state = v.system(fmt.Sprintf("unlocks at level %d", def.UnlockLevel))
		case a.Remaining > 0:
			state = v.failure(skill.FormatRemaining(a.Remaining))
		case a.Ready:
			state = v.styleGood.Render("ready")
		default:
			state = v.failure("no mana")
		}
		lines = append(lines, fmt.Sprintf("  %-15s %-16s %3d MP  cd %d  %s", def.ID, def.Name, def.ManaCost, def.Cooldown, state))
	}
	return lines
}

func (v *renderer) shadows(roster []model.Shadow) []string {
	if len(roster) == 0 {
		return nil
	}
	lines := []string{v.heading("Shadow Army:")}
	for i, s := range roster {
		lines = append(lines, fmt.Sprintf("  %d. %s [%s] Lv %d  HP %d  ATK %d  DEF %d  %s",
			i+1, s.Name, s.Grade, s.Level, s.Stats.HP, s.Stats.Attack, s.Stats.Defense,
			v.system(fmt.Sprintf("EXP %d/%d", s.Experience, s.Level*100))))
	}
	return lines
}
