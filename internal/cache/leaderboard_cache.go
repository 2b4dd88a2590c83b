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
	leaderboardKey = "engagement:leaderboard"
	leaderboardTTL = time.Minute
)

// LeaderboardCache caches the top-N points leaderboard. Entries are rebuilt
// from the engagement store on expiry; display names come from the user
// repository.
type LeaderboardCache struct {
	rdb   *redis.Client
	repo  repositories.EngagementRepository
	users repositories.UserRepository
}

// NewLeaderboardCache creates a LeaderboardCache.
func NewLeaderboardCache(rdb *redis.Client, repo repositories.EngagementRepository, users repositories.UserRepository) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, repo: repo, users: users}
}

// Top returns the highest-scoring accounts, most points first.
func (c *LeaderboardCache) Top(ctx context.Context, limit int64) ([]models.LeaderboardEntry, error) {
	raw, err := c.rdb.Get(ctx, leaderboardKey).Bytes()
	if err == nil {
		var entries []models.LeaderboardEntry
		if err := json.Unmarshal(raw, &entries); err == nil && int64(len(entries)) >= limit {
			return entries[:limit], nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.S.Warnw("leaderboard cache read failed", "error", err)
	}

	entries, err := c.rebuild(ctx, limit)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(entries); err == nil {
		if err := c.rdb.Set(ctx, leaderboardKey, raw, leaderboardTTL).Err(); err != nil {
			logger.S.Warnw("leaderboard cache write failed", "error", err)
		}
	}
	return entries, nil
}

func (c *LeaderboardCache) rebuild(ctx context.Context, limit int64) ([]models.LeaderboardEntry, error) {
	records, err := c.repo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		displayName := "Anonymous"
		if user, err := c.users.GetUserByAccountID(rec.AccountID); err == nil && user.DisplayName != "" {
			displayName = user.DisplayName
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			AccountID:   rec.AccountID,
			DisplayName: displayName,
			Points:      rec.Points,
			Level:       rec.Level,
		})
	}
	return entries, nil
}
