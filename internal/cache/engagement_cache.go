// Package cache implements Redis read-through caches for engagement records
// and the points leaderboard. The caches are consulted for reads only; the
// document store stays the source of truth and every mutation path
// invalidates the cached copy.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/repositories"
	"github.com/inkwellhq/engagement/pkg/logger"
)

const (
	engagementKeyPrefix = "engagement:record:"
	engagementTTL       = 5 * time.Minute
)

// EngagementCache is a read-through cache over the engagement repository.
type EngagementCache struct {
	rdb  *redis.Client
	repo repositories.EngagementRepository
}

// NewEngagementCache creates an EngagementCache.
func NewEngagementCache(rdb *redis.Client, repo repositories.EngagementRepository) *EngagementCache {
	return &EngagementCache{rdb: rdb, repo: repo}
}

// Get returns the account's engagement record, serving from Redis when fresh
// and falling back to the store on a miss. Cache failures degrade to a plain
// store read.
func (c *EngagementCache) Get(ctx context.Context, accountID string) (*models.EngagementRecord, error) {
	key := engagementKeyPrefix + accountID

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var rec models.EngagementRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			return &rec, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.S.Warnw("engagement cache read failed", "account_id", accountID, "error", err)
	}

	rec, err := c.repo.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rec); err == nil {
		if err := c.rdb.Set(ctx, key, raw, engagementTTL).Err(); err != nil {
			logger.S.Warnw("engagement cache write failed", "account_id", accountID, "error", err)
		}
	}
	return rec, nil
}

// Invalidate drops the cached record after a mutation.
func (c *EngagementCache) Invalidate(ctx context.Context, accountID string) {
	if err := c.rdb.Del(ctx, engagementKeyPrefix+accountID).Err(); err != nil {
		logger.S.Warnw("engagement cache invalidation failed", "account_id", accountID, "error", err)
	}
}
