package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationType identifies what a notification is about
type NotificationType string

const (
	NotificationTypeRecurringExecuted  NotificationType = "recurring_executed"
	NotificationTypeRecurringCompleted NotificationType = "recurring_completed"
	NotificationTypeBudgetWarning      NotificationType = "budget_warning"
	NotificationTypeBudgetExceeded     NotificationType = "budget_exceeded"
)

// NotificationPriority orders notifications in the inbox
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

// Notification is an in-app message for a user.
type Notification struct {
	Base
	UserID    string               `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType     `gorm:"size:50;not null" json:"type"`
	Title     string               `gorm:"size:200;not null" json:"title"`
	Message   string               `gorm:"type:text;not null" json:"message"`
	Data      datatypes.JSON       `json:"data,omitempty" swaggertype:"object"`
	IsRead    bool                 `gorm:"not null;default:false" json:"is_read"`
	Priority  NotificationPriority `gorm:"size:20;not null;default:normal" json:"priority"`
	ActionURL string               `gorm:"size:500" json:"action_url,omitempty"`
	ExpiresAt *time.Time           `json:"expires_at,omitempty"`
	ReadAt    *time.Time           `json:"read_at,omitempty"`
}
