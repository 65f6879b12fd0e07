package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

// NotificationService fans out stored notifications on submissions and
// decisions. Rows are pulled by the SPA; there is no push channel.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db}, nil
}

// NotifyUser stores a single notification for one recipient.
func (s *NotificationService) NotifyUser(ctx context.Context, userID, kind, title, message, resource, resourceID string) error {
	ctx = ensureContext(ctx)

	n := models.Notification{
		UserID:     userID,
		Kind:       kind,
		Title:      title,
		Message:    message,
		Resource:   resource,
		ResourceID: resourceID,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("notification service: create: %w", err)
	}
	return nil
}

// NotifyRoles stores one notification per active user holding any of the
// given roles. Used to alert reviewers when an innovator submits.
func (s *NotificationService) NotifyRoles(ctx context.Context, targetRoles []roles.Role, kind, title, message, resource, resourceID string) error {
	ctx = ensureContext(ctx)

	var recipients []models.User
	err := s.db.WithContext(ctx).
		Where("role IN ? AND is_active = ?", targetRoles, true).
		Find(&recipients).Error
	if err != nil {
		return fmt.Errorf("notification service: resolve recipients: %w", err)
	}

	if len(recipients) == 0 {
		return nil
	}

	rows := make([]models.Notification, 0, len(recipients))
	for _, user := range recipients {
		rows = append(rows, models.Notification{
			UserID:     user.ID,
			Kind:       kind,
			Title:      title,
			Message:    message,
			Resource:   resource,
			ResourceID: resourceID,
		})
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("notification service: fan out: %w", err)
	}
	return nil
}

// ListForUser returns the user's notifications, unread first then newest.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	ctx = ensureContext(ctx)
	page, pageSize = normalizePage(page, pageSize)

	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("notification service: count: %w", err)
	}

	var rows []models.Notification
	if err := query.
		Order("read ASC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("notification service: list: %w", err)
	}

	return rows, total, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("notification service: mark read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: mark all read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
