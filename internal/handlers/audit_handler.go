package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/services"
)

// AuditHandler exposes the user's own audit trail.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// GetAuditLogs handles listing audit entries, newest first.
// @Summary     Get audit trail
// @Description List changes the authenticated user made, optionally for one resource
// @Tags        audit
// @Produce     json
// @Security    BearerAuth
// @Param       resource_type query string false "category, transaction, budget, recurring_transaction or partnership"
// @Param       resource_id   query string false "Resource ID"
// @Param       page          query int    false "Page number (default 1)"
// @Param       page_size     query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Paginated audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if !bindQuery(c, &page) {
		return
	}

	var filter services.AuditFilter
	switch rt := c.Query("resource_type"); rt {
	case "", models.AuditResourceCategory, models.AuditResourceTransaction,
		models.AuditResourceBudget, models.AuditResourceRecurringTransaction, models.AuditResourcePartnership:
		filter.ResourceType = rt
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid resource_type"))
		return
	}
	resourceID, err := parseOptionalUUID(c, "resource_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if resourceID != nil {
		filter.ResourceID = *resourceID
	}

	result, err := h.auditService.GetUserAuditLogs(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
