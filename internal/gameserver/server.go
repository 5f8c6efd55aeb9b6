package gameserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/config"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/data"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/db"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/battle"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/combat"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/shadow"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/skill"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// restKey is the cooldown map key used by Rest.
const restKey = "rest"

// Options configures a Server. Zero values select production defaults.
type Options struct {
	// Now is the clock used for cooldowns and timestamps.
	Now func() time.Time
	// Rand drives every random roll.
	Rand combat.Rand
	// Balance holds game tuning. A zero Balance means config.DefaultBalance().
	Balance config.Balance
	// Progress receives training progress lines. May be nil.
	Progress func(hunterID, msg string)
}

// Server exposes one operation per player verb.
//
// Commands for the same hunter are serialized; each command loads the
// record, works on a copy and saves it only when the command succeeded.
type Server struct {
	store   db.HunterStore
	catalog *data.Catalog
	balance config.Balance

	tracker *skill.Tracker
	engine  *battle.Engine
	army    *shadow.Army

	progress func(hunterID, msg string)
	locks    *hunterLocks
}

// New creates a Server over store and catalog.
func New(store db.HunterStore, catalog *data.Catalog, opts Options) *Server {
	if opts.Balance == (config.Balance{}) {
		opts.Balance = config.DefaultBalance()
	}
	if opts.Rand == nil {
		opts.Rand = combat.NewRand()
	}
	b := opts.Balance

	tracker := skill.NewTracker(opts.Now, b.TurnDuration())
	resolver := skill.NewResolver(catalog, tracker, opts.Rand,
		skill.FreezeRule{Chance: b.PhysicalFreezeChance, Turns: b.PhysicalFreezeTurns},
		skill.FreezeRule{Chance: b.MagicFreezeChance, Turns: b.MagicFreezeTurns},
	)
	engine := battle.NewEngine(catalog, resolver, battle.NewRegistry(), opts.Rand, battle.Config{
		LevelWindow:      b.LevelWindow,
		FleeChance:       b.FleeChance,
		DefeatRecoveryHP: b.DefeatRecoveryHP,
	})

	return &Server{
		store:    store,
		catalog:  catalog,
		balance:  b,
		tracker:  tracker,
		engine:   engine,
		army:     shadow.NewArmy(opts.Rand, b.TrainingCostPerLevel),
		progress: opts.Progress,
		locks:    newHunterLocks(),
	}
}

// Catalog returns the ability and monster catalog.
func (s *Server) Catalog() *data.Catalog {
	return s.catalog
}

// ActiveEncounters returns the number of hunters currently in battle.
func (s *Server) ActiveEncounters() int {
	return s.engine.Registry().Count()
}

// Close closes the record store.
func (s *Server) Close() error {
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing hunter store: %w", err)
	}
	return nil
}

// command is the body of a mutating command. It works on a copy of the
// record and reports whether the copy must be saved. Result.commit publishes
// in-memory state and runs only after a successful save.
type command func(h *model.Hunter) (res Result, save bool, err error)

// withHunter runs cmd under the hunter's lock.
//
// Game errors become a non-OK Result carrying the unchanged record.
// Store errors are returned as errors.
func (s *Server) withHunter(ctx context.Context, hunterID string, cmd command) (Result, error) {
	unlock := s.locks.lock(hunterID)
	defer unlock()

	stored, err := s.store.Load(ctx, hunterID)
	if err != nil {
		return Result{}, fmt.Errorf("loading hunter %q: %w", hunterID, err)
	}
	if stored == nil {
		return s.reject(hunterID, nil, ErrNotStarted)
	}

	work := stored.Clone()
	res, save, err := cmd(work)
	if err != nil {
		return s.reject(hunterID, stored, err)
	}

	if save {
		work.LastActive = s.tracker.Now()
		if err := s.store.Save(ctx, work); err != nil {
			return Result{}, fmt.Errorf("saving hunter %q: %w", hunterID, err)
		}
	}
	if res.commit != nil {
		res.commit()
		res.commit = nil
	}

	res.Status = StatusOK
	res.Hunter = work.Clone()
	if res.Encounter == nil {
		res.Encounter = s.encounterView(hunterID)
	}
	return res, nil
}

func (s *Server) reject(hunterID string, h *model.Hunter, err error) (Result, error) {
	res, ok := failure(err)
	if !ok {
		return Result{}, err
	}
	if h != nil {
		res.Hunter = h.Clone()
	}
	res.Encounter = s.encounterView(hunterID)

	slog.Debug("command rejected", "hunter", hunterID, "status", res.Status, "error", err)
	return res, nil
}

func (s *Server) encounterView(hunterID string) *battle.View {
	enc := s.engine.Active(hunterID)
	if enc == nil {
		return nil
	}
	v := enc.View()
	return &v
}

// Start creates a hunter record with starting values.
func (s *Server) Start(ctx context.Context, hunterID, name string) (Result, error) {
	unlock := s.locks.lock(hunterID)
	defer unlock()

	existing, err := s.store.Load(ctx, hunterID)
	if err != nil {
		return Result{}, fmt.Errorf("loading hunter %q: %w", hunterID, err)
	}
	if existing != nil {
		return s.reject(hunterID, existing, ErrAlreadyStarted)
	}

	h := model.NewHunter(hunterID, name, s.tracker.Now())
	if err := s.store.Save(ctx, h); err != nil {
		return Result{}, fmt.Errorf("saving hunter %q: %w", hunterID, err)
	}

	slog.Info("hunter started", "hunter", hunterID, "name", name)
	return Result{
		Status:   StatusOK,
		Messages: []string{fmt.Sprintf("%s has awakened as a Rank %s hunter!", h.Name, h.Rank)},
		Hunter:   h.Clone(),
	}, nil
}

// Status returns the hunter record and active encounter without changing anything.
func (s *Server) Status(ctx context.Context, hunterID string) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		return Result{}, false, nil
	})
}

// Engage starts a battle with a random monster near the hunter's level.
func (s *Server) Engage(ctx context.Context, hunterID string) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		enc, err := s.engine.Engage(ctx, h)
		if err != nil {
			return Result{}, false, err
		}
		m := enc.Monster.Template
		v := enc.View()
		return Result{
			Messages:  []string{fmt.Sprintf("You encountered a Level %d %s!", m.Level, m.Name)},
			Encounter: &v,
		}, false, nil
	})
}

// Attack performs a basic attack.
func (s *Server) Attack(ctx context.Context, hunterID string) (Result, error) {
	return s.battleAction(ctx, hunterID, func(h *model.Hunter) (battle.Outcome, error) {
		return s.engine.Attack(ctx, h)
	})
}

// Defend braces for the monster's next attack.
func (s *Server) Defend(ctx context.Context, hunterID string) (Result, error) {
	return s.battleAction(ctx, hunterID, func(h *model.Hunter) (battle.Outcome, error) {
		return s.engine.Defend(ctx, h)
	})
}

// Flee tries to escape the current battle.
func (s *Server) Flee(ctx context.Context, hunterID string) (Result, error) {
	return s.battleAction(ctx, hunterID, func(h *model.Hunter) (battle.Outcome, error) {
		return s.engine.Flee(ctx, h)
	})
}

// UseAbility uses an ability in battle.
func (s *Server) UseAbility(ctx context.Context, hunterID, abilityID string) (Result, error) {
	return s.battleAction(ctx, hunterID, func(h *model.Hunter) (battle.Outcome, error) {
		if s.engine.Active(h.ID) == nil {
			return battle.Outcome{}, battle.ErrNotEngaged
		}
		def, ok := s.catalog.Ability(abilityID)
		if !ok {
			return battle.Outcome{}, fmt.Errorf("%q: %w", abilityID, skill.ErrUnknownAbility)
		}
		if !def.IsUnlocked(h.Level) {
			return battle.Outcome{}, fmt.Errorf("%s unlocks at level %d: %w", def.Name, def.UnlockLevel, ErrAbilityLocked)
		}
		return s.engine.UseAbility(ctx, h, def.ID)
	})
}

func (s *Server) battleAction(ctx context.Context, hunterID string, act func(h *model.Hunter) (battle.Outcome, error)) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		out, err := act(h)
		if err != nil {
			return Result{}, false, err
		}
		v := out.Encounter
		return Result{
			Messages:            out.Messages,
			Encounter:           &v,
			LevelUps:            out.LevelUps,
			ExtractionAvailable: out.ExtractionAvailable,
			commit:              out.Commit,
		}, out.HunterChanged, nil
	})
}

// ExtractShadow attempts to raise a shadow from the named monster.
// A failed roll is a normal outcome and leaves the roster unchanged.
func (s *Server) ExtractShadow(ctx context.Context, hunterID, monsterName string) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		tmpl, ok := s.catalog.Monster(monsterName)
		if !ok {
			return Result{}, false, fmt.Errorf("%q: %w", monsterName, ErrUnknownMonster)
		}

		sh, ok := s.army.Extract(h, tmpl)
		if !ok {
			return Result{
				Messages: []string{"Shadow extraction failed! The monster's soul was too weak."},
			}, false, nil
		}
		return Result{
			Messages: []string{fmt.Sprintf("Extracted a %s grade shadow from %s!", sh.Grade, tmpl.Name)},
			Shadow:   &sh,
		}, true, nil
	})
}

// Abilities lists every catalog ability with its unlock and cooldown state.
func (s *Server) Abilities(ctx context.Context, hunterID string) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		var list []AbilityStatus
		for _, def := range s.catalog.Abilities() {
			st := AbilityStatus{Ability: def, Unlocked: def.IsUnlocked(h.Level)}
			st.Remaining, _ = s.tracker.Remaining(h, def.ID)
			st.Ready = st.Unlocked && st.Remaining == 0 && h.Mana >= def.ManaCost
			list = append(list, st)
		}
		return Result{Abilities: list}, false, nil
	})
}

// Shadows lists the hunter's shadow roster. Positions are 1-based.
func (s *Server) Shadows(ctx context.Context, hunterID string) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		if len(h.Shadows) == 0 {
			return Result{Messages: []string{"You have no shadows yet. Defeat monsters and use extract."}}, false, nil
		}
		return Result{}, false, nil
	})
}

// Rest restores HP and mana to max outside battle, then starts the rest cooldown.
func (s *Server) Rest(ctx context.Context, hunterID string) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		if s.engine.Active(h.ID) != nil {
			return Result{}, false, ErrInBattle
		}
		if left, ok := s.tracker.Remaining(h, restKey); ok {
			return Result{}, false, fmt.Errorf("%w: %w", ErrRestOnCooldown, &skill.CooldownError{Ability: "Rest", Remaining: left})
		}
		if h.HP >= h.MaxHP && h.Mana >= h.MaxMana {
			return Result{}, false, ErrFullyRested
		}

		h.SetHP(h.MaxHP)
		h.SetMana(h.MaxMana)
		s.tracker.StartFor(h, restKey, s.balance.RestCooldown)

		slog.Info("hunter rested", "hunter", h.ID)
		return Result{
			Messages: []string{fmt.Sprintf("You have fully recovered! HP: %d/%d, MP: %d/%d", h.HP, h.MaxHP, h.Mana, h.MaxMana)},
		}, true, nil
	})
}
