package gameserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/shadow"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// TrainShadow trains the shadow at 1-based index. The hunter stays locked
// through the progress stages, so no other command for it interleaves.
func (s *Server) TrainShadow(ctx context.Context, hunterID string, index int) (Result, error) {
	return s.withHunter(ctx, hunterID, func(h *model.Hunter) (Result, bool, error) {
		sh, err := shadow.Lookup(h, index)
		if err != nil {
			return Result{}, false, err
		}
		if cost := s.army.TrainingCost(sh); h.Gold < cost {
			return Result{}, false, fmt.Errorf("you need %d gold to train %s: %w", cost, sh.Name, shadow.ErrInsufficientGold)
		}

		if err := s.trainingStages(ctx, h.ID); err != nil {
			return Result{}, false, err
		}

		tr, err := s.army.Train(h, index)
		if err != nil {
			return Result{}, false, err
		}

		msgs := []string{fmt.Sprintf("Trained %s for %d gold. +%d EXP.", tr.Shadow.Name, tr.Cost, tr.ExpGain)}
		for _, up := range tr.LevelUps {
			msgs = append(msgs, fmt.Sprintf("%s reached level %d! HP +%d, Attack +%d, Defense +%d.",
				tr.Shadow.Name, up.Level, up.HP, up.Attack, up.Defense))
		}
		return Result{Messages: msgs, Training: &tr}, true, nil
	})
}

// trainingStages paces the training session. Cancelling ctx aborts it
// before anything is spent.
func (s *Server) trainingStages(ctx context.Context, hunterID string) error {
	s.report(hunterID, "Training in progress...")
	for i := range s.balance.TrainingStages {
		if s.balance.TrainingStageDelay > 0 {
			t := time.NewTimer(s.balance.TrainingStageDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return fmt.Errorf("training interrupted: %w", ctx.Err())
			case <-t.C:
			}
		} else if err := ctx.Err(); err != nil {
			return fmt.Errorf("training interrupted: %w", err)
		}
		s.report(hunterID, "Training in progress"+strings.Repeat(".", i+1))
	}
	return nil
}

func (s *Server) report(hunterID, msg string) {
	if s.progress != nil {
		s.progress(hunterID, msg)
	}
}
