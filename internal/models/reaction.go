package models

import (
	"fmt"
	"time"
)

// ReactionKind is the closed set of reaction types a user can toggle on a
// content item.
type ReactionKind string

const (
	ReactionThumbsUp ReactionKind = "thumbsUp"
	ReactionHeart    ReactionKind = "heart"
	ReactionLaugh    ReactionKind = "laugh"
)

// ReactionKinds lists every valid kind in display order.
var ReactionKinds = []ReactionKind{ReactionThumbsUp, ReactionHeart, ReactionLaugh}

// ParseReactionKind validates a raw kind string at the API boundary.
func ParseReactionKind(s string) (ReactionKind, error) {
	switch ReactionKind(s) {
	case ReactionThumbsUp, ReactionHeart, ReactionLaugh:
		return ReactionKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown reaction kind %q", ErrInvalidState, s)
}

// ReactionRecord is a single (content, account, kind) reaction. Presence is
// the only signal; toggling deletes it again.
type ReactionRecord struct {
	Kind      ReactionKind `bson:"kind" json:"kind"`
	AccountID string       `bson:"account_id" json:"account_id"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

// ReactionDocument holds all reactions on one content item (MongoDB
// "reactions" collection, _id = content id). Reactions are keyed
// "<accountID>_<kind>" so at most one record per triple can exist.
type ReactionDocument struct {
	ContentID string                    `bson:"_id" json:"content_id"`
	Reactions map[string]ReactionRecord `bson:"reactions" json:"reactions"`
	Counts    map[string]int            `bson:"counts" json:"counts"`
	UpdatedAt time.Time                 `bson:"updated_at" json:"updated_at"`
}

// ReactionKey builds the map key enforcing the one-record-per-triple rule.
func ReactionKey(accountID string, kind ReactionKind) string {
	return accountID + "_" + string(kind)
}

// ReactionCounts is the per-kind tally returned to callers after a toggle.
// It always reflects the just-applied mutation, never a stale read.
type ReactionCounts map[ReactionKind]int
