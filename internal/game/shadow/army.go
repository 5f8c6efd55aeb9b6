package shadow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/combat"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

var (
	// ErrInsufficientGold is returned when the hunter cannot pay for training.
	ErrInsufficientGold = errors.New("insufficient gold")
	// ErrInvalidIndex is returned for a roster position that does not exist.
	ErrInvalidIndex = errors.New("invalid shadow index")
)

// DefaultTrainingCostPerLevel is the gold cost of one session per shadow level.
const DefaultTrainingCostPerLevel = 100

// Training and growth ranges, bounds inclusive.
const (
	trainExpMin = 10
	trainExpMax = 20

	growHPMin      = 5
	growHPMax      = 10
	growAttackMin  = 2
	growAttackMax  = 5
	growDefenseMin = 2
	growDefenseMax = 5
)

// gradeWeights are applied to candidates in order and truncated to the
// candidate count. They are not renormalized; the draw is scaled by their sum.
var gradeWeights = []float64{0.6, 0.3, 0.1}

var gradesByRank = map[model.Rank][]model.Grade{
	model.RankE: {model.GradeNormal, model.GradeRare},
	model.RankD: {model.GradeNormal, model.GradeRare, model.GradeElite},
	model.RankC: {model.GradeRare, model.GradeElite, model.GradeUnique},
	model.RankB: {model.GradeElite, model.GradeUnique, model.GradeLegend},
	model.RankA: {model.GradeUnique, model.GradeLegend, model.GradeMyth},
	model.RankS: {model.GradeLegend, model.GradeMyth, model.GradeNational},
}

// GradeCandidates returns the grades a monster of the given rank can yield.
// Unknown ranks only yield Normal.
func GradeCandidates(rank model.Rank) []model.Grade {
	if g, ok := gradesByRank[rank]; ok {
		return g
	}
	return []model.Grade{model.GradeNormal}
}

// Army extracts and trains shadows.
type Army struct {
	rnd          combat.Rand
	costPerLevel int
}

// NewArmy creates an Army. A non-positive cost means DefaultTrainingCostPerLevel.
func NewArmy(rnd combat.Rand, costPerLevel int) *Army {
	if costPerLevel <= 0 {
		costPerLevel = DefaultTrainingCostPerLevel
	}
	return &Army{rnd: rnd, costPerLevel: costPerLevel}
}

// Extract attempts to raise a shadow from a defeated monster. Succeeds with
// probability tmpl.ShadowChance; on failure the roster is unchanged.
func (a *Army) Extract(h *model.Hunter, tmpl *model.MonsterTemplate) (model.Shadow, bool) {
	if draw := a.rnd.Float64(); draw >= tmpl.ShadowChance {
		slog.Debug("shadow extraction failed", "hunter", h.ID, "monster", tmpl.ID, "draw", draw, "chance", tmpl.ShadowChance)
		return model.Shadow{}, false
	}

	candidates := GradeCandidates(tmpl.Rank)
	weights := gradeWeights[:min(len(candidates), len(gradeWeights))]
	grade := candidates[combat.WeightedIndex(a.rnd, weights)]

	s := model.NewShadow(tmpl, grade)
	h.Shadows = append(h.Shadows, s)

	slog.Info("shadow extracted", "hunter", h.ID, "monster", tmpl.ID, "grade", grade, "roster", len(h.Shadows))
	return s, true
}

// TrainingCost returns the gold cost to train s once.
func (a *Army) TrainingCost(s model.Shadow) int {
	return a.costPerLevel * s.Level
}

// LevelUp describes one level gained by a shadow.
type LevelUp struct {
	Level   int
	HP      int
	Attack  int
	Defense int
}

// TrainResult is the outcome of one training session.
type TrainResult struct {
	Index    int
	Shadow   model.Shadow
	Cost     int
	ExpGain  int
	LevelUps []LevelUp
}

// Lookup returns the shadow at 1-based position index.
func Lookup(h *model.Hunter, index int) (model.Shadow, error) {
	if index < 1 || index > len(h.Shadows) {
		return model.Shadow{}, fmt.Errorf("%w: %d (roster has %d)", ErrInvalidIndex, index, len(h.Shadows))
	}
	return h.Shadows[index-1], nil
}

// Train spends gold to grant experience to the shadow at 1-based index.
// Fails without side effects when the index is invalid or gold is short.
func (a *Army) Train(h *model.Hunter, index int) (TrainResult, error) {
	s, err := Lookup(h, index)
	if err != nil {
		return TrainResult{}, err
	}
	cost := a.TrainingCost(s)
	if h.Gold < cost {
		return TrainResult{}, fmt.Errorf("training costs %d gold, have %d: %w", cost, h.Gold, ErrInsufficientGold)
	}

	h.Gold -= cost
	gain := combat.RollRange(a.rnd, trainExpMin, trainExpMax)
	s.Experience += gain

	var ups []LevelUp
	for s.Experience >= s.Level*100 {
		s.Experience -= s.Level * 100
		s.Level++
		up := LevelUp{
			Level:   s.Level,
			HP:      combat.RollRange(a.rnd, growHPMin, growHPMax),
			Attack:  combat.RollRange(a.rnd, growAttackMin, growAttackMax),
			Defense: combat.RollRange(a.rnd, growDefenseMin, growDefenseMax),
		}
		s.Stats.HP += up.HP
		s.Stats.Attack += up.Attack
		s.Stats.Defense += up.Defense
		ups = append(ups, up)
	}
	h.Shadows[index-1] = s

	slog.Info("shadow trained",
		"hunter", h.ID,
		"shadow", s.Name,
		"cost", cost,
		"exp_gain", gain,
		"level", s.Level)
	return TrainResult{Index: index, Shadow: s, Cost: cost, ExpGain: gain, LevelUps: ups}, nil
}
