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

// ToggleResult reports the outcome of an atomic reaction toggle. Counts
// reflect the just-applied mutation, not a stale read.
type ToggleResult struct {
	Applied bool
	Counts  models.ReactionCounts
}

// ReactionRepository maintains the idempotent per-user-per-kind reaction set
// on a content item. Toggle is a single atomic check-and-act: without it, two
// concurrent toggles from the same user and kind could double-count.
type ReactionRepository interface {
	Toggle(ctx context.Context, contentID, accountID string, kind models.ReactionKind) (*ToggleResult, error)
	Get(ctx context.Context, contentID string) (*models.ReactionDocument, error)
}

// MongoReactionRepository implements ReactionRepository for MongoDB
type MongoReactionRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoReactionRepository creates a new MongoReactionRepository
func NewMongoReactionRepository(client *mongo.Client, db *mongo.Database) *MongoReactionRepository {
	return &MongoReactionRepository{client: client, collection: db.Collection("reactions")}
}

// Toggle creates the (content, account, kind) reaction if absent and deletes
// it if present, adjusting counts in the same single-document transaction.
func (r *MongoReactionRepository) Toggle(ctx context.Context, contentID, accountID string, kind models.ReactionKind) (*ToggleResult, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, translateMongoErr(err)
	}
	defer session.EndSession(ctx)

	txnCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	result, err := session.WithTransaction(txnCtx, func(sc mongo.SessionContext) (interface{}, error) {
		doc, err := r.getOrInit(sc, contentID)
		if err != nil {
			return nil, err
		}

		key := models.ReactionKey(accountID, kind)
		_, present := doc.Reactions[key]
		if present {
			delete(doc.Reactions, key)
			if doc.Counts[string(kind)] > 0 {
				doc.Counts[string(kind)]--
			}
		} else {
			doc.Reactions[key] = models.ReactionRecord{
				Kind:      kind,
				AccountID: accountID,
				CreatedAt: time.Now(),
			}
			doc.Counts[string(kind)]++
		}
		doc.UpdatedAt = time.Now()

		_, err = r.collection.ReplaceOne(sc, bson.M{"_id": contentID}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return nil, err
		}
		return &ToggleResult{Applied: !present, Counts: countsOf(doc)}, nil
	})
	if err != nil {
		return nil, translateMongoErr(err)
	}
	return result.(*ToggleResult), nil
}

// Get returns the reaction document for a content item, or an empty document
// when nobody reacted yet.
func (r *MongoReactionRepository) Get(ctx context.Context, contentID string) (*models.ReactionDocument, error) {
	return r.getOrInit(ctx, contentID)
}

func (r *MongoReactionRepository) getOrInit(ctx context.Context, contentID string) (*models.ReactionDocument, error) {
	var doc models.ReactionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": contentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.ReactionDocument{
			ContentID: contentID,
			Reactions: map[string]models.ReactionRecord{},
			Counts:    map[string]int{},
		}, nil
	}
	if err != nil {
		return nil, translateMongoErr(err)
	}
	if doc.Reactions == nil {
		doc.Reactions = map[string]models.ReactionRecord{}
	}
	if doc.Counts == nil {
		doc.Counts = map[string]int{}
	}
	return &doc, nil
}

func countsOf(doc *models.ReactionDocument) models.ReactionCounts {
	counts := models.ReactionCounts{}
	for _, kind := range models.ReactionKinds {
		counts[kind] = doc.Counts[string(kind)]
	}
	return counts
}
