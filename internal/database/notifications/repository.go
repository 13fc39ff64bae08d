// Package notifications provides database operations for user-facing
// notification records.
package notifications

import (
	"errors"

	"gorm.io/gorm"

	"github.com/akumar/librarium/internal/entities"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository handles all notification database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notifications repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists one notification.
func (r *Repository) Create(userID uint, message string, typ entities.NotificationType) error {
	return r.db.Create(&entities.Notification{
		UserID:  userID,
		Message: message,
		Type:    typ,
	}).Error
}

// CreateBatch persists one notification per user in a single insert,
// used for new-arrival broadcasts.
func (r *Repository) CreateBatch(userIDs []uint, message string, typ entities.NotificationType) error {
	if len(userIDs) == 0 {
		return nil
	}
	batch := make([]entities.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		batch = append(batch, entities.Notification{
			UserID:  id,
			Message: message,
			Type:    typ,
		})
	}
	return r.db.Create(&batch).Error
}

// ListByUser returns a user's notifications, newest first. When
// unreadOnly is set, read notifications are filtered out.
func (r *Repository) ListByUser(userID uint, unreadOnly bool) ([]entities.Notification, error) {
	query := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var list []entities.Notification
	err := query.Order("created_at DESC").Find(&list).Error
	return list, err
}

// MarkRead flips one of the user's notifications to read. The user
// scope prevents marking someone else's notification.
func (r *Repository) MarkRead(userID, notificationID uint) error {
	result := r.db.Model(&entities.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
