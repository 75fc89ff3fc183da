package services

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
)

// countedNotificationTypes are reported individually by GetNotificationCounts.
var countedNotificationTypes = []models.NotificationType{
	models.NotificationTypeRecurringExecuted,
	models.NotificationTypeRecurringCompleted,
	models.NotificationTypeBudgetWarning,
	models.NotificationTypeBudgetExceeded,
}

// notificationService handles in-app notifications.
type notificationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// unexpired hides notifications whose expires_at has passed.
func unexpired(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expires_at IS NULL OR expires_at > ?", now)
	}
}

// Notify stores a notification through db.
func (s *notificationService) Notify(db *gorm.DB, n *models.Notification) error {
	if n.Priority == "" {
		n.Priority = models.NotificationPriorityNormal
	}
	if err := db.Create(n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserNotifications lists unexpired notifications, newest first.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest, filter NotificationFilter) (*pagination.PageResponse[models.Notification], error) {
	base := s.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Scopes(unexpired(s.now()))
	if filter.IsRead != nil {
		base = base.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Priority != nil {
		base = base.Where("priority = ?", *filter.Priority)
	}
	if filter.RuleID != nil {
		base = base.Where(datatypes.JSONQuery("data").Equals(*filter.RuleID, "rule_id"))
	}

	result, err := pagination.Find[models.Notification](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetNotificationByID returns a notification owned by the user.
func (s *notificationService) GetNotificationByID(userID, notificationID string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &n, nil
}

// GetNotificationCounts returns the unread total and per-type unread counts.
func (s *notificationService) GetNotificationCounts(userID string) (*NotificationCounts, error) {
	type row struct {
		Type  models.NotificationType
		Count int64
	}
	var rows []row
	if err := s.db.Model(&models.Notification{}).
		Select("type, COUNT(*) AS count").
		Where("user_id = ? AND is_read = ?", userID, false).
		Scopes(unexpired(s.now())).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	counts := &NotificationCounts{ByType: make(map[models.NotificationType]int64, len(countedNotificationTypes))}
	for _, t := range countedNotificationTypes {
		counts.ByType[t] = 0
	}
	for _, r := range rows {
		counts.ByType[r.Type] = r.Count
		counts.Total += r.Count
	}
	return counts, nil
}

// MarkAsRead marks one notification as read.
func (s *notificationService) MarkAsRead(userID, notificationID string) (*models.Notification, error) {
	n, err := s.GetNotificationByID(userID, notificationID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	now := s.now()
	if err := s.db.Model(n).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	n.IsRead = true
	n.ReadAt = &now
	return n, nil
}

// MarkAllAsRead marks every unread notification of the user as read and
// returns how many changed.
func (s *notificationService) MarkAllAsRead(userID string) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": s.now()})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteNotification soft-deletes a notification.
func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	n, err := s.GetNotificationByID(userID, notificationID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
