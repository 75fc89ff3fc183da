package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/services"
)

// NotificationHandler handles in-app notification requests.
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications handles listing notifications, newest first.
// @Summary     Get notifications
// @Description Get unexpired notifications for the authenticated user
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       is_read   query bool   false "Filter by read status"
// @Param       type      query string false "Filter by notification type"
// @Param       priority  query string false "Filter by priority (low/normal/high/urgent)"
// @Param       rule_id   query string false "Only notifications about this recurring transaction"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Notification] "Paginated notifications"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if !bindQuery(c, &page) {
		return
	}

	var filter services.NotificationFilter
	if filter.IsRead, err = parseOptionalBool(c, "is_read"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.RuleID, err = parseOptionalUUID(c, "rule_id"); err != nil {
		respondWithError(c, err)
		return
	}

	if v := c.Query("type"); v != "" {
		nType := models.NotificationType(v)
		switch nType {
		case models.NotificationTypeRecurringExecuted, models.NotificationTypeRecurringCompleted,
			models.NotificationTypeBudgetWarning, models.NotificationTypeBudgetExceeded:
			filter.Type = &nType
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid notification type"))
			return
		}
	}

	if v := c.Query("priority"); v != "" {
		priority := models.NotificationPriority(v)
		switch priority {
		case models.NotificationPriorityLow, models.NotificationPriorityNormal,
			models.NotificationPriorityHigh, models.NotificationPriorityUrgent:
			filter.Priority = &priority
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be low, normal, high or urgent"))
			return
		}
	}

	result, err := h.notificationService.GetUserNotifications(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetNotificationCounts handles the unread badge counts.
// @Summary     Get unread notification counts
// @Description Count unread notifications, in total and per type
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.NotificationCounts "Unread counts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/counts [get]
func (h *NotificationHandler) GetNotificationCounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	counts, err := h.notificationService.GetNotificationCounts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// GetNotification handles retrieving one notification.
// @Summary     Get notification by ID
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} models.Notification "Notification"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/{id} [get]
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	n, err := h.notificationService.GetNotificationByID(userID, notificationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": n})
}

// MarkAsRead handles marking one notification as read.
// @Summary     Mark notification as read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} models.Notification "Updated notification"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	n, err := h.notificationService.MarkAsRead(userID, notificationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": n})
}

// MarkAllAsRead handles marking every unread notification as read.
// @Summary     Mark all notifications as read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64 "Number of notifications updated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.notificationService.MarkAllAsRead(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteNotification handles dismissing a notification.
// @Summary     Delete notification
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} MessageResponse "Notification deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.DeleteNotification(userID, notificationID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}
