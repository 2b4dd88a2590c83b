package models

import "time"

// ContentFlag is the moderation hint for one content item (MongoDB
// "moderation" collection, _id = content id). Flagged content suppresses
// notification fan-out to the content owner.
type ContentFlag struct {
	ContentID string    `bson:"_id" json:"content_id"`
	Flagged   bool      `bson:"flagged" json:"flagged"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	FlaggedBy string    `bson:"flagged_by,omitempty" json:"flagged_by,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
