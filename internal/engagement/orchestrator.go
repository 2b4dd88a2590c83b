package engagement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwellhq/engagement/internal/gamification"
	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/notifications"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// Trigger is one user action entering the pipeline, supplied by the content
// collaborator.
type Trigger struct {
	Action    models.ActionType
	ActorID   string
	ContentID string
	OwnerID   string              // content owner (or followed user for follow)
	Kind      models.ReactionKind // set for like triggers
}

// StepState marks whether a step's outcome was confirmed by the store or is
// the best-known local state after a failed write.
type StepState string

const (
	StateConfirmed StepState = "confirmed"
	StatePending   StepState = "pending"
)

// ReactionOutcome is the reaction toggle result surfaced to the UI.
type ReactionOutcome struct {
	Applied bool                  `json:"applied"`
	Counts  models.ReactionCounts `json:"counts,omitempty"`
	State   StepState             `json:"state"`
}

// PointsOutcome is the ledger result surfaced to the UI.
type PointsOutcome struct {
	Total int       `json:"total"`
	Level int       `json:"level"`
	State StepState `json:"state"`
}

// Result reports one orchestration run.
type Result struct {
	TriggerID           string            `json:"trigger_id"`
	Action              models.ActionType `json:"action"`
	Reaction            *ReactionOutcome  `json:"reaction,omitempty"`
	Points              *PointsOutcome    `json:"points,omitempty"`
	NewBadges           []string          `json:"new_badges,omitempty"`
	CompletedChallenges []string          `json:"completed_challenges,omitempty"`
	NotificationsSent   int               `json:"notifications_sent"`
}

// Orchestrator sequences ledger, level, badge, challenge, and notification
// updates for one triggering action. Each step runs its own store
// transaction; failures are captured per step and aggregated rather than
// rolled back (at-least-once, best-effort).
type Orchestrator struct {
	reactions  repositories.ReactionRepository
	engagement repositories.EngagementRepository
	moderation repositories.ModerationRepository
	users      repositories.UserRepository
	ledger     *gamification.PointsLedger
	tracker    *gamification.ChallengeTracker
	dispatcher *notifications.Dispatcher
	log        *zap.SugaredLogger
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(
	reactions repositories.ReactionRepository,
	engagementRepo repositories.EngagementRepository,
	moderation repositories.ModerationRepository,
	users repositories.UserRepository,
	ledger *gamification.PointsLedger,
	tracker *gamification.ChallengeTracker,
	dispatcher *notifications.Dispatcher,
	log *zap.SugaredLogger,
) *Orchestrator {
	return &Orchestrator{
		reactions:  reactions,
		engagement: engagementRepo,
		moderation: moderation,
		users:      users,
		ledger:     ledger,
		tracker:    tracker,
		dispatcher: dispatcher,
		log:        log,
	}
}

type queuedNotification struct {
	recipientID string
	kind        models.NotificationKind
	message     string
	targetID    string
}

// Process runs the six-step pipeline for one trigger. The returned error is
// either nil or a *PartialFailure listing the steps that failed; the Result
// always carries the best-known state for the UI.
func (o *Orchestrator) Process(ctx context.Context, trigger Trigger) (*Result, error) {
	if _, err := models.ParseActionType(string(trigger.Action)); err != nil {
		return nil, err
	}
	if trigger.ActorID == "" {
		return nil, fmt.Errorf("%w: trigger actor required", models.ErrInvalidState)
	}

	result := &Result{TriggerID: uuid.NewString(), Action: trigger.Action}
	failure := &PartialFailure{}
	var queued []queuedNotification

	// Step 1: reaction toggle.
	reversed := false
	toggleFailed := false
	if trigger.Action == models.ActionLike && trigger.ContentID != "" {
		toggle, err := o.reactions.Toggle(ctx, trigger.ContentID, trigger.ActorID, trigger.Kind)
		if err != nil {
			failure.add(StepReaction, err)
			toggleFailed = true
			result.Reaction = &ReactionOutcome{State: StatePending}
			o.log.Warnw("reaction toggle failed", "trigger_id", result.TriggerID, "content_id", trigger.ContentID, "error", err)
		} else {
			reversed = !toggle.Applied
			result.Reaction = &ReactionOutcome{Applied: toggle.Applied, Counts: toggle.Counts, State: StateConfirmed}
		}
	}

	// A failed toggle leaves the award direction unknown; the ledger and
	// everything downstream is skipped so a retry of the whole trigger stays
	// idempotent.
	if toggleFailed {
		return result, failure.orNil()
	}

	// Reversal mirrors the prior award and stops there: levels and badges
	// are monotonic ratchets and no notification is re-sent.
	if reversed {
		res, err := o.ledger.Revoke(ctx, trigger.ActorID, trigger.Action)
		if err != nil {
			failure.add(StepPoints, err)
			result.Points = &PointsOutcome{State: StatePending}
		} else {
			result.Points = &PointsOutcome{Total: res.Total, Level: res.Level, State: StateConfirmed}
		}
		return result, failure.orNil()
	}

	// Step 2 (+3): ledger award with level recomputation.
	initialLevel := 0
	finalLevel := 0
	if _, hasPoints := gamification.PointValue(trigger.Action); hasPoints {
		res, err := o.ledger.Award(ctx, trigger.ActorID, trigger.Action)
		if err != nil {
			failure.add(StepPoints, err)
			result.Points = &PointsOutcome{State: StatePending}
			o.log.Warnw("point award failed", "trigger_id", result.TriggerID, "account_id", trigger.ActorID, "error", err)
		} else {
			initialLevel = res.PrevLevel
			finalLevel = res.Level
			result.Points = &PointsOutcome{Total: res.Total, Level: res.Level, State: StateConfirmed}
		}
	}

	// Step 4: badge evaluation against refreshed stats.
	newBadges := o.awardBadges(ctx, trigger.ActorID, failure)
	result.NewBadges = newBadges
	for _, badge := range newBadges {
		if def, ok := gamification.BadgeByID(badge); ok {
			queued = append(queued, queuedNotification{
				recipientID: trigger.ActorID,
				kind:        models.NotificationBadge,
				message:     fmt.Sprintf("You've earned the %s badge!", def.Name),
				targetID:    def.ID,
			})
		}
	}

	// Step 5: challenge advance; each completion triggers one nested ledger
	// award (bounded to this single level of nesting).
	adv, err := o.tracker.Advance(ctx, trigger.ActorID, trigger.Action)
	if err != nil {
		failure.add(StepChallenges, err)
		o.log.Warnw("challenge advance failed", "trigger_id", result.TriggerID, "account_id", trigger.ActorID, "error", err)
	} else {
		for _, def := range adv.Completed {
			result.CompletedChallenges = append(result.CompletedChallenges, def.ID)
			queued = append(queued, queuedNotification{
				recipientID: trigger.ActorID,
				kind:        models.NotificationChallengeComplete,
				message:     fmt.Sprintf("You've completed the %s challenge!", def.Title),
				targetID:    def.ID,
			})

			res, err := o.ledger.AwardBonus(ctx, trigger.ActorID, def.RewardPoints)
			if err != nil {
				failure.add(StepPoints, err)
			} else {
				if initialLevel == 0 {
					initialLevel = res.PrevLevel
				}
				finalLevel = res.Level
				if result.Points != nil && result.Points.State == StateConfirmed {
					result.Points.Total = res.Total
					result.Points.Level = res.Level
				}
			}

			if def.BadgeID != "" {
				if granted := o.grantBadge(ctx, trigger.ActorID, def.BadgeID, failure); granted {
					result.NewBadges = append(result.NewBadges, def.BadgeID)
					if bdef, ok := gamification.BadgeByID(def.BadgeID); ok {
						queued = append(queued, queuedNotification{
							recipientID: trigger.ActorID,
							kind:        models.NotificationBadge,
							message:     fmt.Sprintf("You've earned the %s badge!", bdef.Name),
							targetID:    bdef.ID,
						})
					}
				}
			}
		}
	}

	// Step 3 (deferred): one level-up notification per trigger, even when a
	// nested challenge reward crossed a further threshold.
	if initialLevel > 0 && finalLevel > initialLevel {
		queued = append(queued, queuedNotification{
			recipientID: trigger.ActorID,
			kind:        models.NotificationLevelUp,
			message:     fmt.Sprintf("Congratulations! You've reached level %d!", finalLevel),
			targetID:    trigger.ActorID,
		})
	}

	// Owner-facing notification for the social action itself.
	if n, ok := o.socialNotification(ctx, trigger); ok {
		queued = append(queued, n)
	}

	// Step 6: flush the queue.
	for _, n := range queued {
		if n.kind.SelfSuppressed() && n.recipientID == trigger.ActorID {
			continue
		}
		if _, err := o.dispatcher.Notify(n.recipientID, n.kind, n.message, n.targetID, trigger.ActorID); err != nil {
			failure.add(StepNotifications, err)
			o.log.Warnw("notification send failed", "trigger_id", result.TriggerID, "kind", n.kind, "error", err)
			continue
		}
		result.NotificationsSent++
	}

	return result, failure.orNil()
}

// awardBadges evaluates and persists newly earned badges in one document
// transaction. Evaluation runs inside the mutate callback so a concurrent
// award of the same badge cannot double-apply.
func (o *Orchestrator) awardBadges(ctx context.Context, accountID string, failure *PartialFailure) []string {
	var earnedIDs []string
	_, err := o.engagement.Mutate(ctx, accountID, func(rec *models.EngagementRecord) error {
		earnedIDs = earnedIDs[:0]
		earned, err := gamification.EvaluateBadges(rec)
		if err != nil {
			return err
		}
		for _, badge := range earned {
			rec.Badges = append(rec.Badges, badge.ID)
			earnedIDs = append(earnedIDs, badge.ID)
		}
		return nil
	})
	if err != nil {
		failure.add(StepBadges, err)
		o.log.Warnw("badge evaluation failed", "account_id", accountID, "error", err)
		return nil
	}
	return earnedIDs
}

// grantBadge adds a challenge's reward badge to the earned set, once.
func (o *Orchestrator) grantBadge(ctx context.Context, accountID, badgeID string, failure *PartialFailure) bool {
	granted := false
	_, err := o.engagement.Mutate(ctx, accountID, func(rec *models.EngagementRecord) error {
		granted = false
		if !rec.HasBadge(badgeID) {
			rec.Badges = append(rec.Badges, badgeID)
			granted = true
		}
		return nil
	})
	if err != nil {
		failure.add(StepBadges, err)
		return false
	}
	return granted
}

// socialNotification builds the owner-facing notification for comment, like,
// share, and follow triggers. Flagged content suppresses the fan-out.
func (o *Orchestrator) socialNotification(ctx context.Context, trigger Trigger) (queuedNotification, bool) {
	var kind models.NotificationKind
	var verb string
	switch trigger.Action {
	case models.ActionComment:
		kind, verb = models.NotificationComment, "commented on your post"
	case models.ActionLike:
		kind, verb = models.NotificationLike, "reacted to your post"
	case models.ActionShare:
		kind, verb = models.NotificationShare, "shared your post"
	case models.ActionFollow:
		kind, verb = models.NotificationFollow, "started following you"
	default:
		return queuedNotification{}, false
	}
	if trigger.OwnerID == "" {
		return queuedNotification{}, false
	}

	if trigger.Action != models.ActionFollow && trigger.ContentID != "" {
		flagged, err := o.moderation.IsFlagged(ctx, trigger.ContentID)
		if err != nil {
			o.log.Warnw("moderation lookup failed, assuming unflagged", "content_id", trigger.ContentID, "error", err)
		} else if flagged {
			return queuedNotification{}, false
		}
	}

	actorName := "Someone"
	if actor, err := o.users.GetUserByAccountID(trigger.ActorID); err == nil && actor.DisplayName != "" {
		actorName = actor.DisplayName
	}

	targetID := trigger.ContentID
	if trigger.Action == models.ActionFollow {
		targetID = trigger.ActorID
	}
	return queuedNotification{
		recipientID: trigger.OwnerID,
		kind:        kind,
		message:     fmt.Sprintf("%s %s", actorName, verb),
		targetID:    targetID,
	}, true
}
