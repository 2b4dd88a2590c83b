package models

import (
	"fmt"
	"time"
)

// NotificationKind is the closed set of user-visible event types. Unrecognized
// kinds are rejected at the boundary.
type NotificationKind string

const (
	NotificationComment           NotificationKind = "comment"
	NotificationLike              NotificationKind = "like"
	NotificationFollow            NotificationKind = "follow"
	NotificationShare             NotificationKind = "share"
	NotificationLevelUp           NotificationKind = "level-up"
	NotificationBadge             NotificationKind = "badge"
	NotificationChallengeComplete NotificationKind = "challenge-complete"
	NotificationFlag              NotificationKind = "flag"
)

// ParseNotificationKind validates a raw kind string.
func ParseNotificationKind(s string) (NotificationKind, error) {
	switch NotificationKind(s) {
	case NotificationComment, NotificationLike, NotificationFollow, NotificationShare,
		NotificationLevelUp, NotificationBadge, NotificationChallengeComplete, NotificationFlag:
		return NotificationKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown notification kind %q", ErrInvalidState, s)
}

// SelfSuppressed reports whether a notification of this kind is dropped when
// the actor is also the recipient. Level-up, badge and challenge-complete
// always go to self; social kinds never do.
func (k NotificationKind) SelfSuppressed() bool {
	switch k {
	case NotificationComment, NotificationLike, NotificationFollow, NotificationShare:
		return true
	}
	return false
}

// Notification represents a user notification (PostgreSQL). The read flag
// only ever transitions false to true; the rest of the record is immutable
// once created.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Kind        NotificationKind `json:"kind" gorm:"size:30;index"`
	ActorID     string           `json:"actor_id" gorm:"size:128;index"`
	RecipientID string           `json:"recipient_id" gorm:"size:128;index"`
	TargetID    string           `json:"target_id" gorm:"size:128"`
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}
