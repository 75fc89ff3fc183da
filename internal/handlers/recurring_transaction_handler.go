package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneylovers/internal/clock"
	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/recurrence"
	"moneylovers/internal/services"
)

// RecurringTransactionHandler handles recurring transaction requests.
type RecurringTransactionHandler struct {
	recurringService services.RecurringTransactionServicer
	auditService     services.AuditServicer
	clock            clock.Clock
}

// NewRecurringTransactionHandler creates a new RecurringTransactionHandler.
// clk supplies the execution date for execute, due and run requests.
func NewRecurringTransactionHandler(
	recurringService services.RecurringTransactionServicer,
	auditService services.AuditServicer,
	clk clock.Clock,
) *RecurringTransactionHandler {
	return &RecurringTransactionHandler{
		recurringService: recurringService,
		auditService:     auditService,
		clock:            clk,
	}
}

// CreateRecurringTransactionRequest represents the payload for creating a
// recurring transaction. Either the flat schedule fields or rrule must be set.
type CreateRecurringTransactionRequest struct {
	CategoryID        string                 `json:"category_id" binding:"required,uuid"`
	Amount            decimal.Decimal        `json:"amount" binding:"required" swaggertype:"string" example:"85000.00"`
	TransactionType   models.TransactionType `json:"transaction_type" binding:"required,transaction_type"`
	SharingType       models.SharingType     `json:"sharing_type" binding:"omitempty,sharing_type"`
	PaymentMethod     *models.PaymentMethod  `json:"payment_method" binding:"omitempty,payment_method"`
	Description       *string                `json:"description" binding:"omitempty,max=500"`
	Frequency         recurrence.Frequency   `json:"frequency" binding:"omitempty,frequency" swaggertype:"string" enums:"daily,weekly,monthly,yearly"`
	IntervalValue     int                    `json:"interval_value" binding:"omitempty,min=1"`
	DayOfMonth        *int                   `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	DayOfWeek         *int                   `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	RRule             string                 `json:"rrule" example:"FREQ=MONTHLY;BYMONTHDAY=25;COUNT=12"`
	NextExecutionDate string                 `json:"next_execution_date" binding:"required" example:"2024-05-25"`
	EndDate           *string                `json:"end_date" example:"2024-12-31"`
	MaxExecutions     *int                   `json:"max_executions" binding:"omitempty,min=1"`
}

// UpdateRecurringTransactionRequest carries the editable template fields. The
// schedule of an existing recurring transaction cannot be changed.
type UpdateRecurringTransactionRequest struct {
	CategoryID    *string               `json:"category_id" binding:"omitempty,uuid"`
	Amount        *decimal.Decimal      `json:"amount" swaggertype:"string"`
	SharingType   *models.SharingType   `json:"sharing_type" binding:"omitempty,sharing_type"`
	PaymentMethod *models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	Description   *string               `json:"description" binding:"omitempty,max=500"`
}

// CreateRecurringTransaction handles the creation of a recurring transaction.
// @Summary     Create a recurring transaction
// @Description Create a recurring income or expense from flat schedule fields or an RFC 5545 RRULE
// @Tags        recurring-transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecurringTransactionRequest true "Recurring transaction details"
// @Success     201 {object} services.RecurringTransactionView "Recurring transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input or schedule"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions [post]
func (h *RecurringTransactionHandler) CreateRecurringTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurringTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	next, err := parseFlexibleTime(req.NextExecutionDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid next_execution_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}
	endDate, err := parseOptionalDate(req.EndDate, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.recurringService.CreateRecurringTransaction(userID, services.RecurringTransactionInput{
		CategoryID:        req.CategoryID,
		Amount:            req.Amount,
		TransactionType:   req.TransactionType,
		SharingType:       req.SharingType,
		PaymentMethod:     req.PaymentMethod,
		Description:       req.Description,
		Frequency:         req.Frequency,
		IntervalValue:     req.IntervalValue,
		DayOfMonth:        req.DayOfMonth,
		DayOfWeek:         req.DayOfWeek,
		RRule:             req.RRule,
		NextExecutionDate: next,
		EndDate:           endDate,
		MaxExecutions:     req.MaxExecutions,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECURRING_TRANSACTION", models.AuditResourceRecurringTransaction, view.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String(), "rrule": view.RRule})

	c.JSON(http.StatusCreated, gin.H{"recurring_transaction": view})
}

// GetRecurringTransactions handles listing recurring transactions.
// @Summary     Get recurring transactions
// @Description List recurring transactions, soonest first. Only active ones are returned unless is_active is given.
// @Tags        recurring-transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active        query string false "true (default), false, or all"
// @Param       category_id      query string false "Filter by category ID"
// @Param       transaction_type query string false "Filter by type (income/expense)"
// @Param       page             query int    false "Page number (default 1)"
// @Param       page_size        query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.RecurringTransactionView] "Paginated recurring transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions [get]
func (h *RecurringTransactionHandler) GetRecurringTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if !bindQuery(c, &page) {
		return
	}

	var filter services.RecurringTransactionFilter
	switch v := c.DefaultQuery("is_active", "true"); v {
	case "all":
	case "true", "false":
		active := v == "true"
		filter.IsActive = &active
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "is_active must be 'true', 'false' or 'all'"))
		return
	}

	if filter.CategoryID, err = parseOptionalUUID(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}

	if v := c.Query("transaction_type"); v != "" {
		txType := models.TransactionType(v)
		if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_type must be 'income' or 'expense'"))
			return
		}
		filter.TransactionType = &txType
	}

	result, err := h.recurringService.GetUserRecurringTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDueRecurringTransactions handles listing the rules due today.
// @Summary     Get due recurring transactions
// @Description List active recurring transactions whose next execution date is today or earlier
// @Tags        recurring-transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.RecurringTransactionView "Due recurring transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions/due [get]
func (h *RecurringTransactionHandler) GetDueRecurringTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	due, err := h.recurringService.ListDue(userID, h.clock.Today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transactions": due, "count": len(due)})
}

// GetRecurringTransaction handles retrieving a recurring transaction.
// @Summary     Get recurring transaction by ID
// @Description Get a recurring transaction with its category and remaining executions
// @Tags        recurring-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring transaction ID"
// @Success     200 {object} services.RecurringTransactionView "Recurring transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions/{id} [get]
func (h *RecurringTransactionHandler) GetRecurringTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.recurringService.GetRecurringTransactionByID(userID, ruleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transaction": view})
}

// UpdateRecurringTransaction handles editing the template of a recurring transaction.
// @Summary     Update recurring transaction
// @Description Update the category, amount, payment method or description. Scheduling fields are read-only.
// @Tags        recurring-transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                            true "Recurring transaction ID"
// @Param       request body UpdateRecurringTransactionRequest true "Fields to update"
// @Success     200 {object} services.RecurringTransactionView "Updated recurring transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions/{id} [put]
func (h *RecurringTransactionHandler) UpdateRecurringTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurringTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.recurringService.UpdateRecurringTransaction(userID, ruleID, services.RecurringTransactionUpdate{
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		SharingType:   req.SharingType,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.CategoryID != nil {
		changes["category_id"] = *req.CategoryID
	}
	if req.Amount != nil {
		changes["amount"] = req.Amount.StringFixed(2)
	}
	if req.SharingType != nil {
		changes["sharing_type"] = *req.SharingType
	}
	if req.PaymentMethod != nil {
		changes["payment_method"] = *req.PaymentMethod
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	h.auditService.Log(userID, "UPDATE_RECURRING_TRANSACTION", models.AuditResourceRecurringTransaction, ruleID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"recurring_transaction": view})
}

// DeactivateRecurringTransaction handles stopping a recurring transaction.
// @Summary     Deactivate recurring transaction
// @Description Stop a recurring transaction. It is kept for history and never fires again.
// @Tags        recurring-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring transaction ID"
// @Success     200 {object} MessageResponse "Recurring transaction deactivated"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions/{id} [delete]
func (h *RecurringTransactionHandler) DeactivateRecurringTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeactivateRecurringTransaction(userID, ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_RECURRING_TRANSACTION", models.AuditResourceRecurringTransaction, ruleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recurring transaction deactivated successfully"})
}

// ExecuteRecurringTransaction handles firing a recurring transaction today.
// @Summary     Execute recurring transaction
// @Description Materialize the next occurrence as a transaction dated today. With only_if_due=true the request is declined unless the rule is due.
// @Tags        recurring-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  string true  "Recurring transaction ID"
// @Param       only_if_due query bool   false "Only execute when due"
// @Success     201 {object} services.ExecutionResult "Generated transaction and updated schedule"
// @Failure     400 {object} ErrorResponse "Inactive, exhausted, expired or not due"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     409 {object} ErrorResponse "Concurrent execution"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions/{id}/execute [post]
func (h *RecurringTransactionHandler) ExecuteRecurringTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	onlyIfDue, err := parseOptionalBool(c, "only_if_due")
	if err != nil {
		respondWithError(c, err)
		return
	}

	today := h.clock.Today()
	var result *services.ExecutionResult
	if onlyIfDue != nil && *onlyIfDue {
		result, err = h.recurringService.ExecuteIfDue(userID, ruleID, today)
	} else {
		result, err = h.recurringService.ExecuteRecurringTransaction(userID, ruleID, today)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "EXECUTE_RECURRING_TRANSACTION", models.AuditResourceRecurringTransaction, ruleID, c.ClientIP(),
		map[string]interface{}{"transaction_id": result.TransactionID, "is_active": result.IsActive})

	c.JSON(http.StatusCreated, result)
}

// PreviewRecurringTransaction handles listing upcoming execution dates.
// @Summary     Preview recurring transaction
// @Description List the next execution dates, stopping at the end date or execution limit
// @Tags        recurring-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Recurring transaction ID"
// @Param       count query int    false "Number of dates (default 5, max 50)"
// @Success     200 {object} services.RecurringPreview "Upcoming dates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring-transactions/{id}/preview [get]
func (h *RecurringTransactionHandler) PreviewRecurringTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	count := 0
	if v := c.Query("count"); v != "" {
		count, err = strconv.Atoi(v)
		if err != nil || count < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "count must be a positive integer"))
			return
		}
	}

	preview, err := h.recurringService.PreviewRecurringTransaction(userID, ruleID, count)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// RunDueRecurringTransactions executes every due rule of every user. It is
// mounted behind the scheduler API key for external cron triggers.
// @Summary     Run due recurring transactions
// @Description Execute all due recurring transactions. Authenticated with X-API-Key.
// @Tags        internal
// @Produce     json
// @Param       X-API-Key header string true  "Scheduler API key"
// @Param       as_of     query  string false "Execution date (YYYY-MM-DD), defaults to today"
// @Success     200 {object} services.RunSummary "Run summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/recurring/run [post]
func (h *RecurringTransactionHandler) RunDueRecurringTransactions(c *gin.Context) {
	asOf := h.clock.Today()
	if v := c.Query("as_of"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid as_of format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		t = recurrence.Day(t)
		if t.After(asOf) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "as_of cannot be in the future"))
			return
		}
		asOf = t
	}

	summary, err := h.recurringService.RunDue(asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
