package data

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

const (
	abilitiesFile = "abilities.yaml"
	monstersFile  = "monsters.yaml"
)

//go:embed catalog/*.yaml
var embedded embed.FS

// Catalog holds ability and monster templates.
// Read-only after load, safe for concurrent use without locking.
type Catalog struct {
	abilities    map[string]*AbilityDef
	abilityOrder []string

	monsters     map[string]*model.MonsterTemplate
	monsterOrder []string
}

// Load builds the catalog from the YAML files embedded in the binary.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "catalog")
	if err != nil {
		return nil, fmt.Errorf("opening embedded catalog: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir builds the catalog from abilities.yaml and monsters.yaml in dir.
func LoadDir(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(filepath.Clean(dir)))
}

// LoadFS builds the catalog from abilities.yaml and monsters.yaml in fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	abilitiesYAML, err := fs.ReadFile(fsys, abilitiesFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", abilitiesFile, err)
	}
	monstersYAML, err := fs.ReadFile(fsys, monstersFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", monstersFile, err)
	}
	return Parse(abilitiesYAML, monstersYAML)
}

// Parse builds a catalog from raw YAML documents.
func Parse(abilitiesYAML, monstersYAML []byte) (*Catalog, error) {
	var abilities []*AbilityDef
	if err := yaml.Unmarshal(abilitiesYAML, &abilities); err != nil {
		return nil, fmt.Errorf("parsing abilities: %w", err)
	}
	var monsters []*model.MonsterTemplate
	if err := yaml.Unmarshal(monstersYAML, &monsters); err != nil {
		return nil, fmt.Errorf("parsing monsters: %w", err)
	}

	c := &Catalog{
		abilities: make(map[string]*AbilityDef, len(abilities)),
		monsters:  make(map[string]*model.MonsterTemplate, len(monsters)),
	}
	for _, a := range abilities {
		if err := validateAbility(a); err != nil {
			return nil, err
		}
		if _, dup := c.abilities[a.ID]; dup {
			return nil, fmt.Errorf("duplicate ability %q", a.ID)
		}
		c.abilities[a.ID] = a
		c.abilityOrder = append(c.abilityOrder, a.ID)
	}
	for _, m := range monsters {
		if err := validateMonster(m); err != nil {
			return nil, err
		}
		if _, dup := c.monsters[m.ID]; dup {
			return nil, fmt.Errorf("duplicate monster %q", m.ID)
		}
		c.monsters[m.ID] = m
		c.monsterOrder = append(c.monsterOrder, m.ID)
	}

	slog.Info("loaded catalog", "abilities", len(c.abilities), "monsters", len(c.monsters))
	return c, nil
}

func validateAbility(a *AbilityDef) error {
	if a.ID == "" {
		return fmt.Errorf("ability %q: empty id", a.Name)
	}
	if a.ManaCost < 0 || a.Cooldown < 0 {
		return fmt.Errorf("ability %q: negative cost or cooldown", a.ID)
	}
	switch a.Type {
	case AbilityAttack, AbilityMagic:
		if a.Multiplier <= 0 {
			return fmt.Errorf("ability %q: damage_multiplier must be positive", a.ID)
		}
	case AbilitySupport, AbilityUtility:
	case AbilityBuff:
		if a.Duration <= 0 {
			return fmt.Errorf("ability %q: buff duration must be positive", a.ID)
		}
	default:
		return fmt.Errorf("ability %q: unknown type %q", a.ID, a.Type)
	}
	if a.UnlockLevel < 1 {
		a.UnlockLevel = 1
	}
	return nil
}

func validateMonster(m *model.MonsterTemplate) error {
	if m.ID == "" {
		return fmt.Errorf("monster %q: empty id", m.Name)
	}
	if m.HP <= 0 || m.Level < 1 {
		return fmt.Errorf("monster %q: hp and level must be positive", m.ID)
	}
	if m.ShadowChance < 0 || m.ShadowChance > 1 {
		return fmt.Errorf("monster %q: shadow_chance %v out of [0,1]", m.ID, m.ShadowChance)
	}
	return nil
}

// Ability returns the ability definition by id.
func (c *Catalog) Ability(id string) (*AbilityDef, bool) {
	a, ok := c.abilities[id]
	return a, ok
}

// Abilities returns all abilities in catalog order.
func (c *Catalog) Abilities() []*AbilityDef {
	out := make([]*AbilityDef, 0, len(c.abilityOrder))
	for _, id := range c.abilityOrder {
		out = append(out, c.abilities[id])
	}
	return out
}

// UnlockedAbilities returns abilities available at the given hunter level.
func (c *Catalog) UnlockedAbilities(level int) []*AbilityDef {
	return slices.DeleteFunc(c.Abilities(), func(a *AbilityDef) bool {
		return !a.IsUnlocked(level)
	})
}

// Monster looks a template up by id or, case-insensitively, by display name.
func (c *Catalog) Monster(key string) (*model.MonsterTemplate, bool) {
	if m, ok := c.monsters[key]; ok {
		return m, true
	}
	for _, id := range c.monsterOrder {
		m := c.monsters[id]
		if strings.EqualFold(m.Name, key) || strings.EqualFold(m.ID, key) {
			return m, true
		}
	}
	return nil, false
}

// Monsters returns all templates in catalog order.
func (c *Catalog) Monsters() []*model.MonsterTemplate {
	out := make([]*model.MonsterTemplate, 0, len(c.monsterOrder))
	for _, id := range c.monsterOrder {
		out = append(out, c.monsters[id])
	}
	return out
}

// MonstersNear returns templates whose level is within window of level.
func (c *Catalog) MonstersNear(level, window int) []*model.MonsterTemplate {
	return slices.DeleteFunc(c.Monsters(), func(m *model.MonsterTemplate) bool {
		d := m.Level - level
		return d < -window || d > window
	})
}
