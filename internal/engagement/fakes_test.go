package engagement

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// memEngagementRepo mirrors the Mongo repository's copy-in/copy-out contract.
type memEngagementRepo struct {
	mu      sync.Mutex
	records map[string]*models.EngagementRecord
	failErr error
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
	return copyEngagementRecord(m.getLocked(accountID)), nil
}

func (m *memEngagementRepo) Mutate(ctx context.Context, accountID string, fn func(*models.EngagementRecord) error) (*models.EngagementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	rec := copyEngagementRecord(m.getLocked(accountID))
	if err := fn(rec); err != nil {
		return nil, err
	}
	m.records[accountID] = rec
	return copyEngagementRecord(rec), nil
}

func (m *memEngagementRepo) TopByPoints(ctx context.Context, limit int64) ([]models.EngagementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []models.EngagementRecord
	for _, rec := range m.records {
		out = append(out, *copyEngagementRecord(rec))
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

func copyEngagementRecord(rec *models.EngagementRecord) *models.EngagementRecord {
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

// memReactionRepo applies the same toggle semantics as the Mongo repository.
type memReactionRepo struct {
	mu      sync.Mutex
	docs    map[string]*models.ReactionDocument
	failErr error
}

func newMemReactionRepo() *memReactionRepo {
	return &memReactionRepo{docs: map[string]*models.ReactionDocument{}}
}

func (m *memReactionRepo) Toggle(ctx context.Context, contentID, accountID string, kind models.ReactionKind) (*repositories.ToggleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	doc, ok := m.docs[contentID]
	if !ok {
		doc = &models.ReactionDocument{
			ContentID: contentID,
			Reactions: map[string]models.ReactionRecord{},
			Counts:    map[string]int{},
		}
		m.docs[contentID] = doc
	}

	key := models.ReactionKey(accountID, kind)
	applied := false
	if _, exists := doc.Reactions[key]; exists {
		delete(doc.Reactions, key)
		if doc.Counts[string(kind)] > 0 {
			doc.Counts[string(kind)]--
		}
	} else {
		doc.Reactions[key] = models.ReactionRecord{Kind: kind, AccountID: accountID, CreatedAt: time.Now()}
		doc.Counts[string(kind)]++
		applied = true
	}

	counts := models.ReactionCounts{}
	for _, k := range models.ReactionKinds {
		counts[k] = doc.Counts[string(k)]
	}
	return &repositories.ToggleResult{Applied: applied, Counts: counts}, nil
}

func (m *memReactionRepo) Get(ctx context.Context, contentID string) (*models.ReactionDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	if doc, ok := m.docs[contentID]; ok {
		return doc, nil
	}
	return nil, models.ErrNotFound
}

// memModerationRepo tracks flagged content ids.
type memModerationRepo struct {
	mu      sync.Mutex
	flagged map[string]bool
}

func newMemModerationRepo() *memModerationRepo {
	return &memModerationRepo{flagged: map[string]bool{}}
}

func (m *memModerationRepo) IsFlagged(ctx context.Context, contentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flagged[contentID], nil
}

func (m *memModerationRepo) SetFlag(ctx context.Context, flag *models.ContentFlag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flagged[flag.ContentID] = flag.Flagged
	return nil
}

// memUserRepo serves user lookups by account id.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	m := &memUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		m.users[u.AccountID] = u
	}
	return m
}

func (m *memUserRepo) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.AccountID] = *user
	return nil
}

func (m *memUserRepo) GetUserByAccountID(accountID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[accountID]; ok {
		return &u, nil
	}
	return nil, models.ErrNotFound
}

func (m *memUserRepo) UpdateUser(user *models.User) error {
	return m.CreateUser(user)
}

func (m *memUserRepo) SearchUsers(query string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

// memNotificationRepo assigns ids on create like the gorm implementation.
type memNotificationRepo struct {
	mu      sync.Mutex
	nextID  uint
	stored  []models.Notification
	failErr error
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{nextID: 1}
}

func (m *memNotificationRepo) Create(n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	n.ID = m.nextID
	m.nextID++
	m.stored = append(m.stored, *n)
	return nil
}

func (m *memNotificationRepo) GetByRecipient(recipientID string, page, limit int) ([]models.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Notification
	for _, n := range m.stored {
		if n.RecipientID == recipientID {
			all = append(all, n)
		}
	}
	// Most recent first, matching the SQL ordering.
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memNotificationRepo) GetGrouped(recipientID string) ([]models.Notification, []models.Notification, []models.Notification, []models.Notification, error) {
	all, _, err := m.GetByRecipient(recipientID, 1, len(m.stored)+1)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var today, yesterday, thisWeek, older []models.Notification
	for _, n := range all {
		switch {
		case !n.CreatedAt.Before(startOfToday):
			today = append(today, n)
		case !n.CreatedAt.Before(startOfToday.AddDate(0, 0, -1)):
			yesterday = append(yesterday, n)
		case !n.CreatedAt.Before(startOfToday.AddDate(0, 0, -7)):
			thisWeek = append(thisWeek, n)
		default:
			older = append(older, n)
		}
	}
	return today, yesterday, thisWeek, older, nil
}

func (m *memNotificationRepo) GetUnreadCount(recipientID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.stored {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memNotificationRepo) MarkAsRead(notificationID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.stored {
		if m.stored[i].ID == notificationID {
			m.stored[i].IsRead = true
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memNotificationRepo) MarkAllAsRead(recipientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.stored {
		if m.stored[i].RecipientID == recipientID {
			m.stored[i].IsRead = true
		}
	}
	return nil
}

func (m *memNotificationRepo) byKind(recipientID string, kind models.NotificationKind) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.stored {
		if n.RecipientID == recipientID && n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
