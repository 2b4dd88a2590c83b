package repositories

import (
	"time"

	"github.com/inkwellhq/engagement/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByRecipient(recipientID string, page, limit int) ([]models.Notification, int64, error)
	GetGrouped(recipientID string) ([]models.Notification, []models.Notification, []models.Notification, []models.Notification, error)
	GetUnreadCount(recipientID string) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(recipientID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(notification *models.Notification) error {
	return translatePgErr(r.db.Create(notification).Error)
}

// GetByRecipient returns notifications most-recent-first; ties on created_at
// break by insertion order.
func (r *postgresNotificationRepository) GetByRecipient(recipientID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, translatePgErr(err)
	}

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, translatePgErr(err)
}

func (r *postgresNotificationRepository) GetGrouped(recipientID string) (today, yesterday, thisWeek, older []models.Notification, retErr error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	if err := r.db.Where("recipient_id = ? AND created_at >= ?", recipientID, todayStart).
		Order("created_at DESC, id DESC").Find(&today).Error; err != nil {
		return nil, nil, nil, nil, translatePgErr(err)
	}

	if err := r.db.Where("recipient_id = ? AND created_at >= ? AND created_at < ?", recipientID, yesterdayStart, todayStart).
		Order("created_at DESC, id DESC").Find(&yesterday).Error; err != nil {
		return nil, nil, nil, nil, translatePgErr(err)
	}

	if err := r.db.Where("recipient_id = ? AND created_at >= ? AND created_at < ?", recipientID, weekStart, yesterdayStart).
		Order("created_at DESC, id DESC").Find(&thisWeek).Error; err != nil {
		return nil, nil, nil, nil, translatePgErr(err)
	}

	if err := r.db.Where("recipient_id = ? AND created_at < ?", recipientID, weekStart).
		Order("created_at DESC, id DESC").Limit(50).Find(&older).Error; err != nil {
		return nil, nil, nil, nil, translatePgErr(err)
	}

	return today, yesterday, thisWeek, older, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, translatePgErr(err)
}

// MarkAsRead flips the read flag. Already-read records are untouched, so the
// operation is a no-op the second time, never an error.
func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return translatePgErr(r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = false", notificationID).
		Update("is_read", true).Error)
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID string) error {
	return translatePgErr(r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error)
}
