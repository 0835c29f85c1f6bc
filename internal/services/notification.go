package services

import (
	"context"
	"log"
	"strings"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/models"
	"github.com/rolo-dev/rolo/internal/realtime"
	"gorm.io/gorm"
)

const EventNotification = "notification"

// Publisher pushes an event to a user's open sockets. *realtime.Hub implements it.
type Publisher interface {
	Publish(userID uint, ev realtime.Event)
}

type NotificationService struct {
	db        *gorm.DB
	publisher Publisher
}

// NewNotificationService returns a service that records notifications and,
// when publisher is non-nil, pushes each new one to the recipient.
func NewNotificationService(db *gorm.DB, publisher Publisher) *NotificationService {
	return &NotificationService{db: db, publisher: publisher}
}

func (s *NotificationService) Create(ctx context.Context, userID uint, message, link string, category models.NotificationCategory) (*models.Notification, error) {
	message = strings.TrimSpace(message)
	if userID == 0 || message == "" {
		return nil, apperr.Validation("User and message are required")
	}

	cat, err := models.ParseNotificationCategory(string(category))
	if err != nil {
		return nil, apperr.Validation("Invalid notification category")
	}

	n := models.Notification{
		UserID:   userID,
		Message:  message,
		Link:     link,
		Category: cat,
	}

	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, dbErr("create notification", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, realtime.Event{Type: EventNotification, Data: n})
	}

	return &n, nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, dbErr("list notifications", err)
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) (*models.Notification, error) {
	var n models.Notification

	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if err != nil {
		return nil, lookupErr(err, "Notification not found", "find notification")
	}

	if n.IsRead {
		return &n, nil
	}

	if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, dbErr("mark notification read", err)
	}
	n.IsRead = true

	return &n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, dbErr("mark all notifications read", res.Error)
	}

	return res.RowsAffected, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, dbErr("count unread notifications", err)
	}

	return count, nil
}

// notify records a notification and logs instead of failing. Used for side
// effects that must not affect the primary operation.
func notify(ctx context.Context, n Notifier, userID uint, message, link string, category models.NotificationCategory) {
	if n == nil {
		return
	}
	if _, err := n.Create(ctx, userID, message, link, category); err != nil {
		log.Printf("[NOTIFY] Failed to notify user %d: %v", userID, err)
	}
}

// Notifier records a message for a user. *NotificationService implements it.
type Notifier interface {
	Create(ctx context.Context, userID uint, message, link string, category models.NotificationCategory) (*models.Notification, error)
}
