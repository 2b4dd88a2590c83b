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

// EngagementRepository defines the store operations for per-account
// engagement records. Mutate is the single atomic primitive: all point,
// badge, and challenge writes funnel through it so concurrent clients can
// never lose updates.
type EngagementRepository interface {
	GetOrCreate(ctx context.Context, accountID string) (*models.EngagementRecord, error)
	Mutate(ctx context.Context, accountID string, fn func(*models.EngagementRecord) error) (*models.EngagementRecord, error)
	TopByPoints(ctx context.Context, limit int64) ([]models.EngagementRecord, error)
}

// MongoEngagementRepository implements EngagementRepository for MongoDB
type MongoEngagementRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoEngagementRepository creates a new MongoEngagementRepository
func NewMongoEngagementRepository(client *mongo.Client, db *mongo.Database) *MongoEngagementRepository {
	return &MongoEngagementRepository{client: client, collection: db.Collection("gamification")}
}

// GetOrCreate retrieves the account's engagement record, creating the
// zero-state record on first read if absent.
func (r *MongoEngagementRepository) GetOrCreate(ctx context.Context, accountID string) (*models.EngagementRecord, error) {
	var rec models.EngagementRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": accountID}).Decode(&rec)
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translateMongoErr(err)
	}

	fresh := models.NewEngagementRecord(accountID)
	if _, err := r.collection.InsertOne(ctx, fresh); err != nil {
		// A concurrent client may have created it between the read and the
		// insert; fall back to reading the winner's document.
		if mongo.IsDuplicateKeyError(err) {
			if err := r.collection.FindOne(ctx, bson.M{"_id": accountID}).Decode(&rec); err != nil {
				return nil, translateMongoErr(err)
			}
			return &rec, nil
		}
		return nil, translateMongoErr(err)
	}
	return fresh, nil
}

// Mutate runs fn against the current record inside a single-document
// transaction and writes the result back. The callback may be invoked more
// than once on contention, so it must be side-effect free. An error returned
// by fn aborts the transaction and is propagated unchanged.
func (r *MongoEngagementRepository) Mutate(ctx context.Context, accountID string, fn func(*models.EngagementRecord) error) (*models.EngagementRecord, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, translateMongoErr(err)
	}
	defer session.EndSession(ctx)

	txnCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	result, err := session.WithTransaction(txnCtx, func(sc mongo.SessionContext) (interface{}, error) {
		rec, err := r.GetOrCreate(sc, accountID)
		if err != nil {
			return nil, err
		}
		if err := fn(rec); err != nil {
			return nil, err
		}
		rec.UpdatedAt = time.Now()
		_, err = r.collection.ReplaceOne(sc, bson.M{"_id": accountID}, rec, options.Replace().SetUpsert(true))
		if err != nil {
			return nil, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, translateMongoErr(err)
	}
	return result.(*models.EngagementRecord), nil
}

// TopByPoints returns the highest-scoring records, points descending.
func (r *MongoEngagementRepository) TopByPoints(ctx context.Context, limit int64) ([]models.EngagementRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "points", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, translateMongoErr(err)
	}
	defer cursor.Close(ctx)

	var records []models.EngagementRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, translateMongoErr(err)
	}
	return records, nil
}
