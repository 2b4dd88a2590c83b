package notifications

import (
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// Dispatcher is the fan-out point of record for user-visible events. Records
// are immutable once created except for the monotonic read flag.
type Dispatcher struct {
	repo   repositories.NotificationRepository
	users  repositories.UserRepository
	policy *bluemonday.Policy
}

// NewDispatcher creates a Dispatcher over the notification and user stores.
func NewDispatcher(repo repositories.NotificationRepository, users repositories.UserRepository) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		users:  users,
		// Message text embeds user display names; strip any markup.
		policy: bluemonday.StrictPolicy(),
	}
}

// Notify creates a new unread notification and returns its id. The kind is
// validated at this boundary; unrecognized kinds are rejected.
func (d *Dispatcher) Notify(recipientID string, kind models.NotificationKind, message, targetID, actorID string) (uint, error) {
	if _, err := models.ParseNotificationKind(string(kind)); err != nil {
		return 0, err
	}
	if recipientID == "" {
		return 0, fmt.Errorf("%w: notification recipient required", models.ErrInvalidState)
	}

	n := &models.Notification{
		Kind:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		TargetID:    targetID,
		Message:     d.policy.Sanitize(message),
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	if err := d.repo.Create(n); err != nil {
		return 0, err
	}
	return n.ID, nil
}

// MarkRead flips one notification's read flag; repeat calls are no-ops.
func (d *Dispatcher) MarkRead(id uint) error {
	return d.repo.MarkAsRead(id)
}

// MarkAllRead flips every unread notification for the recipient. Idempotent.
func (d *Dispatcher) MarkAllRead(recipientID string) error {
	return d.repo.MarkAllAsRead(recipientID)
}

// UnreadCount returns the number of unread notifications for the recipient.
func (d *Dispatcher) UnreadCount(recipientID string) (int64, error) {
	return d.repo.GetUnreadCount(recipientID)
}

// EnrichedNotification includes actor info for display.
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

// List returns the recipient's notifications most-recent-first with actor
// profiles attached.
func (d *Dispatcher) List(recipientID string, page, limit int) ([]EnrichedNotification, int64, error) {
	notifications, total, err := d.repo.GetByRecipient(recipientID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return d.enrich(notifications), total, nil
}

// GroupedNotifications buckets notifications by age for display.
type GroupedNotifications struct {
	Today     []EnrichedNotification `json:"today"`
	Yesterday []EnrichedNotification `json:"yesterday"`
	ThisWeek  []EnrichedNotification `json:"thisWeek"`
	Older     []EnrichedNotification `json:"older"`
}

// Grouped returns the recipient's notifications grouped by time period.
func (d *Dispatcher) Grouped(recipientID string) (*GroupedNotifications, error) {
	today, yesterday, thisWeek, older, err := d.repo.GetGrouped(recipientID)
	if err != nil {
		return nil, err
	}
	return &GroupedNotifications{
		Today:     d.enrich(today),
		Yesterday: d.enrich(yesterday),
		ThisWeek:  d.enrich(thisWeek),
		Older:     d.enrich(older),
	}, nil
}

func (d *Dispatcher) enrich(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[string]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.ActorID == "" {
			continue
		}
		if actor, ok := userCache[n.ActorID]; ok {
			enriched[i].Actor = actor
			continue
		}
		user, err := d.users.GetUserByAccountID(n.ActorID)
		if err == nil {
			compact := user.ToCompact()
			userCache[n.ActorID] = compact
			enriched[i].Actor = compact
		}
	}
	return enriched
}
