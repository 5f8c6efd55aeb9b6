package battle

import (
	"context"
	"log/slog"
	"time"

	"github.com/looplab/fsm"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// Encounter states. NoBattle is the absence of an encounter in the Registry.
const (
	StateNoBattle = "no_battle"
	StateEngaged  = "engaged"
	StateVictory  = "victory"
	StateDefeat   = "defeat"
	StateFled     = "fled"
)

const (
	eventWin  = "win"
	eventLose = "lose"
	eventFlee = "flee"
)

// StatusDefending is set by Defend and cleared by the next offensive action.
const StatusDefending = "defending"

// Encounter is one hunter fighting one live monster.
// Lives only in memory; never persisted.
type Encounter struct {
	HunterID  string
	Monster   *model.Monster
	StartedAt time.Time
	Turn      int

	// HP and Mana mirror the hunter record after every action.
	HP   int
	Mana int

	Status map[string]bool

	lifecycle *fsm.FSM
}

func newEncounter(h *model.Hunter, tmpl *model.MonsterTemplate, now time.Time) *Encounter {
	enc := &Encounter{
		HunterID:  h.ID,
		Monster:   model.NewMonster(tmpl),
		StartedAt: now,
		HP:        h.HP,
		Mana:      h.Mana,
		Status:    make(map[string]bool),
	}
	enc.lifecycle = newLifecycle(enc, StateEngaged)
	return enc
}

func newLifecycle(enc *Encounter, state string) *fsm.FSM {
	return fsm.NewFSM(
		state,
		fsm.Events{
			{Name: eventWin, Src: []string{StateEngaged}, Dst: StateVictory},
			{Name: eventLose, Src: []string{StateEngaged}, Dst: StateDefeat},
			{Name: eventFlee, Src: []string{StateEngaged}, Dst: StateFled},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				slog.Debug("encounter state changed",
					"hunter", enc.HunterID,
					"monster", enc.Monster.Name(),
					"from", e.Src,
					"to", e.Dst,
					"turn", enc.Turn)
			},
		},
	)
}

// State returns the lifecycle state.
func (e *Encounter) State() string {
	return e.lifecycle.Current()
}

// Active reports whether the encounter still accepts actions.
func (e *Encounter) Active() bool {
	return e.lifecycle.Is(StateEngaged)
}

func (e *Encounter) transition(ctx context.Context, event string) error {
	return e.lifecycle.Event(ctx, event)
}

// clone returns a working copy that shares only the monster template.
func (e *Encounter) clone() *Encounter {
	m := *e.Monster
	c := &Encounter{
		HunterID:  e.HunterID,
		Monster:   &m,
		StartedAt: e.StartedAt,
		Turn:      e.Turn,
		HP:        e.HP,
		Mana:      e.Mana,
		Status:    make(map[string]bool, len(e.Status)),
	}
	for k, v := range e.Status {
		c.Status[k] = v
	}
	c.lifecycle = newLifecycle(c, e.State())
	return c
}

// apply copies a working copy back. Monster keeps its address.
func (e *Encounter) apply(work *Encounter) {
	*e.Monster = *work.Monster
	e.Turn = work.Turn
	e.HP = work.HP
	e.Mana = work.Mana
	e.Status = work.Status
	e.lifecycle.SetState(work.State())
}

func (e *Encounter) sync(h *model.Hunter) {
	e.HP = h.HP
	e.Mana = h.Mana
}

// View is a read-only snapshot of an encounter for display.
type View struct {
	State        string
	Turn         int
	MonsterName  string
	MonsterLevel int
	MonsterRank  model.Rank
	MonsterHP    int
	MonsterMaxHP int
	FrozenTurns  int
	HunterHP     int
	HunterMana   int
	Defending    bool
}

// View returns a snapshot of the encounter.
func (e *Encounter) View() View {
	return View{
		State:        e.State(),
		Turn:         e.Turn,
		MonsterName:  e.Monster.Name(),
		MonsterLevel: e.Monster.Template.Level,
		MonsterRank:  e.Monster.Template.Rank,
		MonsterHP:    e.Monster.HP,
		MonsterMaxHP: e.Monster.MaxHP,
		FrozenTurns:  e.Monster.FrozenTurns,
		HunterHP:     e.HP,
		HunterMana:   e.Mana,
		Defending:    e.Status[StatusDefending],
	}
}
