package notifications

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/engagement/internal/models"
)

type memNotificationRepo struct {
	mu     sync.Mutex
	nextID uint
	stored []models.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{nextID: 1}
}

func (m *memNotificationRepo) Create(n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

type memUserRepo struct {
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
	m.users[user.AccountID] = *user
	return nil
}

func (m *memUserRepo) GetUserByAccountID(accountID string) (*models.User, error) {
	if u, ok := m.users[accountID]; ok {
		return &u, nil
	}
	return nil, models.ErrNotFound
}

func (m *memUserRepo) UpdateUser(user *models.User) error { return m.CreateUser(user) }

func (m *memUserRepo) SearchUsers(query string) ([]models.User, error) { return nil, nil }

func TestNotify_CreatesUnread(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, newMemUserRepo())

	id, err := d.Notify("bob", models.NotificationComment, "Alice commented on your post", "post-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	count, err := d.UnreadCount("bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotify_RejectsUnknownKind(t *testing.T) {
	d := NewDispatcher(newMemNotificationRepo(), newMemUserRepo())

	_, err := d.Notify("bob", "poke", "hello", "", "alice")
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestNotify_RequiresRecipient(t *testing.T) {
	d := NewDispatcher(newMemNotificationRepo(), newMemUserRepo())

	_, err := d.Notify("", models.NotificationBadge, "badge earned", "first-post", "")
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestNotify_SanitizesMessage(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, newMemUserRepo())

	_, err := d.Notify("bob", models.NotificationComment, `<script>alert(1)</script>Alice commented`, "post-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice commented", repo.stored[0].Message)
}

func TestMarkRead_Monotonic(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, newMemUserRepo())

	id, err := d.Notify("bob", models.NotificationLike, "Alice reacted to your post", "post-1", "alice")
	require.NoError(t, err)

	require.NoError(t, d.MarkRead(id))
	require.NoError(t, d.MarkRead(id)) // repeat is a no-op

	count, err := d.UnreadCount("bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllRead_Idempotent(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, newMemUserRepo())

	for i := 0; i < 3; i++ {
		_, err := d.Notify("bob", models.NotificationLike, "reaction", "post-1", "alice")
		require.NoError(t, err)
	}

	require.NoError(t, d.MarkAllRead("bob"))
	require.NoError(t, d.MarkAllRead("bob"))

	count, err := d.UnreadCount("bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestList_MostRecentFirstWithActors(t *testing.T) {
	repo := newMemNotificationRepo()
	users := newMemUserRepo(models.User{AccountID: "alice", DisplayName: "Alice", PhotoURL: "https://img.example/alice.png"})
	d := NewDispatcher(repo, users)

	_, err := d.Notify("bob", models.NotificationComment, "first", "post-1", "alice")
	require.NoError(t, err)
	_, err = d.Notify("bob", models.NotificationLike, "second", "post-1", "alice")
	require.NoError(t, err)

	list, total, err := d.List("bob", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)
	assert.Equal(t, "Alice", list[0].Actor.DisplayName)
}

func TestList_Pagination(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, newMemUserRepo())

	for i := 0; i < 5; i++ {
		_, err := d.Notify("bob", models.NotificationLike, "reaction", "post-1", "alice")
		require.NoError(t, err)
	}

	page1, total, err := d.List("bob", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, _, err := d.List("bob", 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestGrouped_BucketsByAge(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, newMemUserRepo())

	_, err := d.Notify("bob", models.NotificationBadge, "fresh", "first-post", "")
	require.NoError(t, err)
	// Backdate one record into the older bucket.
	repo.stored = append(repo.stored, models.Notification{
		ID:          99,
		Kind:        models.NotificationLike,
		RecipientID: "bob",
		Message:     "ancient",
		CreatedAt:   time.Now().AddDate(0, -1, 0),
	})

	grouped, err := d.Grouped("bob")
	require.NoError(t, err)
	require.Len(t, grouped.Today, 1)
	assert.Equal(t, "fresh", grouped.Today[0].Message)
	require.Len(t, grouped.Older, 1)
	assert.Equal(t, "ancient", grouped.Older[0].Message)
	assert.Empty(t, grouped.Yesterday)
	assert.Empty(t, grouped.ThisWeek)
}
