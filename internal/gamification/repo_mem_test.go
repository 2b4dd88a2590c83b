package gamification

import (
	"context"
	"sort"
	"sync"

	"github.com/inkwellhq/engagement/internal/models"
)

// memEngagementRepo is an in-memory EngagementRepository with the same
// copy-in/copy-out semantics as the Mongo implementation.
type memEngagementRepo struct {
	mu      sync.Mutex
	records map[string]*models.EngagementRecord
	failErr error // when set, every call fails with this error
}

func newMemEngagementRepo() *memEngagementRepo {
	return &memEngagementRepo{records: map[string]*models.EngagementRecord{}}
}

func (m *memEngagementRepo) GetOrCreate(ctx context.Context, accountID string) (*models.EngagementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return copyRecord(m.getLocked(accountID)), nil
}

func (m *memEngagementRepo) Mutate(ctx context.Context, accountID string, fn func(*models.EngagementRecord) error) (*models.EngagementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	rec := copyRecord(m.getLocked(accountID))
	if err := fn(rec); err != nil {
		return nil, err
	}
	m.records[accountID] = rec
	return copyRecord(rec), nil
}

func (m *memEngagementRepo) TopByPoints(ctx context.Context, limit int64) ([]models.EngagementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []models.EngagementRecord
	for _, rec := range m.records {
		out = append(out, *copyRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memEngagementRepo) getLocked(accountID string) *models.EngagementRecord {
	if rec, ok := m.records[accountID]; ok {
		return rec
	}
	rec := models.NewEngagementRecord(accountID)
	m.records[accountID] = rec
	return rec
}

func copyRecord(rec *models.EngagementRecord) *models.EngagementRecord {
	clone := *rec
	clone.Badges = append([]string(nil), rec.Badges...)
	clone.CompletedChallenges = append([]string(nil), rec.CompletedChallenges...)
	clone.ActiveChallenges = append([]models.ActiveChallenge(nil), rec.ActiveChallenges...)
	clone.ActionCounts = map[string]int{}
	for k, v := range rec.ActionCounts {
		clone.ActionCounts[k] = v
	}
	return &clone
}
