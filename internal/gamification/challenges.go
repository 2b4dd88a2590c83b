package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// challengeCatalog is the static challenge catalog. Duration is
// informational; active challenges are not expired automatically.
var challengeCatalog = []models.ChallengeDefinition{
	{
		ID:           "weekly-writer",
		Title:        "Weekly Writer",
		Description:  "Write 5 posts in 7 days",
		Action:       models.ActionPost,
		Target:       5,
		DurationDays: 7,
		RewardPoints: 500,
		BadgeID:      "prolific-writer",
	},
	{
		ID:           "comment-champion",
		Title:        "Comment Champion",
		Description:  "Comment on 20 posts",
		Action:       models.ActionComment,
		Target:       20,
		DurationDays: 7,
		RewardPoints: 300,
	},
	{
		ID:           "like-enthusiast",
		Title:        "Like Enthusiast",
		Description:  "Like 50 posts",
		Action:       models.ActionLike,
		Target:       50,
		DurationDays: 7,
		RewardPoints: 200,
	},
}

// ChallengeCatalog returns the static challenge catalog.
func ChallengeCatalog() []models.ChallengeDefinition {
	out := make([]models.ChallengeDefinition, len(challengeCatalog))
	copy(out, challengeCatalog)
	return out
}

// ChallengeByID looks up a catalog entry.
func ChallengeByID(id string) (models.ChallengeDefinition, bool) {
	for _, c := range challengeCatalog {
		if c.ID == id {
			return c, true
		}
	}
	return models.ChallengeDefinition{}, false
}

// AdvanceResult reports one Advance call: the updated record and the
// challenges that completed on this action, in catalog order.
type AdvanceResult struct {
	Record    *models.EngagementRecord
	Completed []models.ChallengeDefinition
}

// ChallengeTracker advances per-account challenge progress on qualifying
// actions. Progress increments and completion transitions happen in one
// document transaction: there is no observable state with progress >= target
// and the challenge still active.
type ChallengeTracker struct {
	repo repositories.EngagementRepository
}

// NewChallengeTracker creates a ChallengeTracker over the given repository.
func NewChallengeTracker(repo repositories.EngagementRepository) *ChallengeTracker {
	return &ChallengeTracker{repo: repo}
}

// Start begins a challenge run for the account. It fails with ErrInvalidState
// when the challenge is unknown, already active, or already completed.
func (t *ChallengeTracker) Start(ctx context.Context, accountID, challengeID string) (*models.ActiveChallenge, error) {
	def, ok := ChallengeByID(challengeID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown challenge %q", models.ErrInvalidState, challengeID)
	}

	var started models.ActiveChallenge
	_, err := t.repo.Mutate(ctx, accountID, func(rec *models.EngagementRecord) error {
		if rec.ActiveChallengeByID(def.ID) != nil {
			return fmt.Errorf("%w: challenge %q already active", models.ErrInvalidState, def.ID)
		}
		if rec.HasCompletedChallenge(def.ID) {
			return fmt.Errorf("%w: challenge %q already completed", models.ErrInvalidState, def.ID)
		}
		started = models.ActiveChallenge{
			ChallengeID: def.ID,
			Progress:    0,
			StartedAt:   time.Now(),
		}
		rec.ActiveChallenges = append(rec.ActiveChallenges, started)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &started, nil
}

// Advance increments progress on every active challenge whose qualifying
// action matches. Challenges reaching their target move to completed in the
// same update. Multiple challenges may complete from a single action.
func (t *ChallengeTracker) Advance(ctx context.Context, accountID string, action models.ActionType) (*AdvanceResult, error) {
	var completed []models.ChallengeDefinition
	rec, err := t.repo.Mutate(ctx, accountID, func(rec *models.EngagementRecord) error {
		completed = completed[:0] // the callback may re-run on contention
		remaining := rec.ActiveChallenges[:0]
		for _, active := range rec.ActiveChallenges {
			def, ok := ChallengeByID(active.ChallengeID)
			if !ok || def.Action != action {
				remaining = append(remaining, active)
				continue
			}
			active.Progress++
			if active.Progress >= def.Target {
				active.Progress = def.Target
				rec.CompletedChallenges = append(rec.CompletedChallenges, def.ID)
				completed = append(completed, def)
				continue
			}
			remaining = append(remaining, active)
		}
		rec.ActiveChallenges = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &AdvanceResult{Record: rec, Completed: completed}, nil
}
