package gamification

import (
	"context"
	"fmt"

	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// pointValues maps each rewarded action type to its fixed delta. Values are
// part of the contract, not tunable per call.
var pointValues = map[models.ActionType]int{
	models.ActionPost:    50,
	models.ActionComment: 10,
	models.ActionLike:    5,
	models.ActionShare:   15,
}

// PointValue returns the delta for an action type; ok is false for actions
// that carry no points (e.g. follow).
func PointValue(action models.ActionType) (int, bool) {
	delta, ok := pointValues[action]
	return delta, ok
}

// LedgerResult reports a ledger mutation: the new total, the level before and
// after, and whether the mutation crossed a threshold upward.
type LedgerResult struct {
	Record    *models.EngagementRecord
	Total     int
	PrevLevel int
	Level     int
	LeveledUp bool
}

// PointsLedger applies point awards and revocations to an account's
// cumulative total. Points and level are written together inside the
// repository's single-document transaction, so a reader never observes a
// total whose level mismatches beyond propagation delay.
type PointsLedger struct {
	repo repositories.EngagementRepository
}

// NewPointsLedger creates a PointsLedger over the given repository.
func NewPointsLedger(repo repositories.EngagementRepository) *PointsLedger {
	return &PointsLedger{repo: repo}
}

// Award adds the action's fixed delta to the account's total, bumps the
// action count, and recomputes the level.
func (l *PointsLedger) Award(ctx context.Context, accountID string, action models.ActionType) (*LedgerResult, error) {
	delta, ok := PointValue(action)
	if !ok {
		return nil, fmt.Errorf("%w: action %q carries no points", models.ErrInvalidState, action)
	}
	return l.apply(ctx, accountID, delta, action)
}

// AwardBonus adds a raw point amount (challenge rewards) with no action count.
func (l *PointsLedger) AwardBonus(ctx context.Context, accountID string, points int) (*LedgerResult, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: bonus must be positive, got %d", models.ErrInvalidState, points)
	}
	return l.apply(ctx, accountID, points, "")
}

// Revoke subtracts the action's delta, mirroring a prior award. The total is
// clamped at zero; an underflow is treated as already-corrected, not an
// error. Level and badges are monotonic ratchets and are not reverted.
func (l *PointsLedger) Revoke(ctx context.Context, accountID string, action models.ActionType) (*LedgerResult, error) {
	delta, ok := PointValue(action)
	if !ok {
		return nil, fmt.Errorf("%w: action %q carries no points", models.ErrInvalidState, action)
	}

	var res LedgerResult
	rec, err := l.repo.Mutate(ctx, accountID, func(rec *models.EngagementRecord) error {
		res.PrevLevel = rec.Level
		rec.Points -= delta
		if rec.Points < 0 {
			rec.Points = 0
		}
		if rec.ActionCounts == nil {
			rec.ActionCounts = map[string]int{}
		}
		if rec.ActionCounts[string(action)] > 0 {
			rec.ActionCounts[string(action)]--
		}
		// Level stays where it was even if the total drops below its
		// threshold; see the ratchet rule above.
		res.Total = rec.Points
		res.Level = rec.Level
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Record = rec
	return &res, nil
}

func (l *PointsLedger) apply(ctx context.Context, accountID string, delta int, action models.ActionType) (*LedgerResult, error) {
	var res LedgerResult
	rec, err := l.repo.Mutate(ctx, accountID, func(rec *models.EngagementRecord) error {
		res.PrevLevel = rec.Level
		if res.PrevLevel < 1 {
			res.PrevLevel = 1
		}
		rec.Points += delta
		if action != "" {
			if rec.ActionCounts == nil {
				rec.ActionCounts = map[string]int{}
			}
			rec.ActionCounts[string(action)]++
		}
		if next := LevelFor(rec.Points); next > rec.Level {
			rec.Level = next
		}
		res.Total = rec.Points
		res.Level = rec.Level
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Record = rec
	res.LeveledUp = res.Level > res.PrevLevel
	return &res, nil
}
