package repositories

import (
	"github.com/centerapp/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository is the durable notification store. Records are
// created before any live delivery is attempted and are only ever mutated by
// their recipient: every write operation here is scoped by recipient ID, so
// touching another user's notification surfaces as ErrRecordNotFound.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) error
	MarkAllAsRead(recipientID uint) error
	DeleteNotification(notificationID, recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
}

func (r *postgresNotificationRepository) DeleteNotification(notificationID, recipientID uint) error {
	res := r.db.Where("id = ? AND recipient_id = ?", notificationID, recipientID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
