package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/inkwellhq/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ModerationRepository stores the per-content flag hints the moderation
// collaborator supplies. A flagged content id suppresses notification fan-out
// to the content owner.
type ModerationRepository interface {
	IsFlagged(ctx context.Context, contentID string) (bool, error)
	SetFlag(ctx context.Context, flag *models.ContentFlag) error
}

// MongoModerationRepository implements ModerationRepository for MongoDB
type MongoModerationRepository struct {
	collection *mongo.Collection
}

// NewMongoModerationRepository creates a new MongoModerationRepository
func NewMongoModerationRepository(db *mongo.Database) *MongoModerationRepository {
	return &MongoModerationRepository{collection: db.Collection("moderation")}
}

// IsFlagged reports whether the content item is currently flagged. Absence of
// a flag document means not flagged.
func (r *MongoModerationRepository) IsFlagged(ctx context.Context, contentID string) (bool, error) {
	var flag models.ContentFlag
	err := r.collection.FindOne(ctx, bson.M{"_id": contentID}).Decode(&flag)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, translateMongoErr(err)
	}
	return flag.Flagged, nil
}

// SetFlag upserts the flag hint for a content item.
func (r *MongoModerationRepository) SetFlag(ctx context.Context, flag *models.ContentFlag) error {
	flag.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": flag.ContentID}, flag, options.Replace().SetUpsert(true))
	return translateMongoErr(err)
}
