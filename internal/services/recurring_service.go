package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/logger"
	"moneylovers/internal/metrics"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/recurrence"
)

const (
	defaultPreviewCount = 5
	maxPreviewCount     = 50
)

// recurringService handles recurring transaction rules and their execution.
type recurringService struct {
	db                  *gorm.DB
	categoryService     CategoryServicer
	transactionService  TransactionServicer
	notificationService NotificationServicer
	budgetService       BudgetServicer
	partnershipService  PartnershipServicer
	metrics             *metrics.Metrics
}

// NewRecurringTransactionService creates a new RecurringTransactionServicer.
func NewRecurringTransactionService(
	db *gorm.DB,
	categoryService CategoryServicer,
	transactionService TransactionServicer,
	notificationService NotificationServicer,
	budgetService BudgetServicer,
	partnershipService PartnershipServicer,
	m *metrics.Metrics,
) RecurringTransactionServicer {
	return &recurringService{
		db:                  db,
		categoryService:     categoryService,
		transactionService:  transactionService,
		notificationService: notificationService,
		budgetService:       budgetService,
		partnershipService:  partnershipService,
		metrics:             m,
	}
}

// invalidSchedule turns a recurrence validation error into an INVALID_SCHEDULE
// AppError that keeps the validation detail as its message.
func invalidSchedule(err error) *apperrors.AppError {
	appErr := apperrors.Wrap(apperrors.ErrInvalidSchedule, err)
	appErr.Message = err.Error()
	return appErr
}

// engineError maps recurrence errors onto AppErrors.
func engineError(err error) error {
	switch {
	case errors.Is(err, recurrence.ErrInactive):
		return apperrors.Wrap(apperrors.ErrRecurringInactive, err)
	case errors.Is(err, recurrence.ErrExhausted):
		return apperrors.Wrap(apperrors.ErrRecurringExhausted, err)
	case errors.Is(err, recurrence.ErrExpired):
		return apperrors.Wrap(apperrors.ErrRecurringExpired, err)
	case errors.Is(err, recurrence.ErrNotDue):
		return apperrors.Wrap(apperrors.ErrRecurringNotDue, err)
	case errors.Is(err, recurrence.ErrInvalidSchedule):
		return invalidSchedule(err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// CreateRecurringTransaction validates and stores a new rule.
func (s *recurringService) CreateRecurringTransaction(userID string, input RecurringTransactionInput) (*RecurringTransactionView, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	switch input.TransactionType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}
	switch input.SharingType {
	case "":
		input.SharingType = models.SharingTypePersonal
	case models.SharingTypePersonal, models.SharingTypeShared:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sharing_type must be personal or shared")
	}
	if input.NextExecutionDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "next_execution_date is required")
	}

	schedule, maxExecutions, endDate, err := resolveSchedule(input)
	if err != nil {
		return nil, err
	}
	next := recurrence.Day(input.NextExecutionDate)
	if maxExecutions != nil && *maxExecutions < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "max_executions must be at least 1")
	}
	if endDate != nil {
		end := recurrence.Day(*endDate)
		if end.Before(next) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before next_execution_date")
		}
		endDate = &end
	}

	category, err := s.categoryService.FindVisibleCategory(s.db, userID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if string(category.Type) != string(input.TransactionType) {
		return nil, apperrors.ErrCategoryTypeMismatch
	}
	if input.SharingType == models.SharingTypeShared {
		if _, err := requireSharedPartnership(s.partnershipService, s.db, userID); err != nil {
			return nil, err
		}
	}

	dayOfMonth, dayOfWeek := recurrence.Anchors(schedule)
	rule := &models.RecurringTransaction{
		UserID:            userID,
		CategoryID:        input.CategoryID,
		Amount:            input.Amount.Round(2),
		TransactionType:   input.TransactionType,
		SharingType:       input.SharingType,
		PaymentMethod:     input.PaymentMethod,
		Description:       input.Description,
		Frequency:         schedule.Frequency(),
		IntervalValue:     schedule.Interval(),
		DayOfMonth:        dayOfMonth,
		DayOfWeek:         dayOfWeek,
		NextExecutionDate: next,
		EndDate:           endDate,
		MaxExecutions:     maxExecutions,
		IsActive:          true,
		Version:           1,
	}
	if err := s.db.Create(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	rule.Category = category

	logger.Get().Infow("recurring transaction created",
		"user_id", userID,
		"rule_id", rule.ID,
		"frequency", rule.Frequency,
		"next_execution_date", rule.NextExecutionDate.Format(periodKeyLayout),
	)
	return newRecurringView(rule), nil
}

// resolveSchedule reads the schedule from the RRULE string when present and
// from the flat fields otherwise. Explicit max_executions and end_date win
// over COUNT and UNTIL.
func resolveSchedule(input RecurringTransactionInput) (recurrence.Schedule, *int, *time.Time, error) {
	maxExecutions, endDate := input.MaxExecutions, input.EndDate

	if input.RRule != "" {
		imp, err := recurrence.FromRRule(input.RRule)
		if err != nil {
			return nil, nil, nil, invalidSchedule(err)
		}
		if maxExecutions == nil {
			maxExecutions = imp.MaxExecutions
		}
		if endDate == nil {
			endDate = imp.EndDate
		}
		return imp.Schedule, maxExecutions, endDate, nil
	}

	interval := input.IntervalValue
	if interval == 0 {
		interval = 1
	}
	schedule, err := recurrence.NewSchedule(input.Frequency, interval, input.DayOfMonth, input.DayOfWeek)
	if err != nil {
		return nil, nil, nil, invalidSchedule(err)
	}
	return schedule, maxExecutions, endDate, nil
}

func newRecurringView(rule *models.RecurringTransaction) *RecurringTransactionView {
	view := &RecurringTransactionView{
		RecurringTransaction: *rule,
		RemainingExecutions:  rule.RemainingExecutions(),
	}
	if rule.Category != nil {
		view.CategoryName = rule.Category.Name
		view.CategoryIcon = rule.Category.Icon
		view.CategoryColor = rule.Category.Color
	}
	if schedule, err := rule.Schedule(); err == nil {
		view.RRule = recurrence.ToRRule(schedule, rule.State())
	}
	return view
}

func newRecurringViews(rules []models.RecurringTransaction) []RecurringTransactionView {
	views := make([]RecurringTransactionView, 0, len(rules))
	for i := range rules {
		views = append(views, *newRecurringView(&rules[i]))
	}
	return views
}

// GetUserRecurringTransactions lists the user's rules, soonest first. A nil
// IsActive filter lists active and inactive rules.
func (s *recurringService) GetUserRecurringTransactions(userID string, page pagination.PageRequest, filter RecurringTransactionFilter) (*pagination.PageResponse[RecurringTransactionView], error) {
	base := s.db.Model(&models.RecurringTransaction{}).Where("user_id = ?", userID)
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.TransactionType != nil {
		base = base.Where("transaction_type = ?", *filter.TransactionType)
	}

	rules, err := pagination.Find[models.RecurringTransaction](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category").Order("next_execution_date ASC").Order("created_at ASC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.Map(rules, func(r *models.RecurringTransaction) RecurringTransactionView {
		return *newRecurringView(r)
	}), nil
}

// findRule loads a rule owned by userID through db.
func findRule(db *gorm.DB, userID, ruleID string) (*models.RecurringTransaction, error) {
	var rule models.RecurringTransaction
	if err := db.Preload("Category").Where("id = ? AND user_id = ?", ruleID, userID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

// GetRecurringTransactionByID returns one rule owned by the user.
func (s *recurringService) GetRecurringTransactionByID(userID, ruleID string) (*RecurringTransactionView, error) {
	rule, err := findRule(s.db, userID, ruleID)
	if err != nil {
		return nil, err
	}
	return newRecurringView(rule), nil
}

// UpdateRecurringTransaction changes template fields only. Scheduling fields
// are owned by the execution path.
func (s *recurringService) UpdateRecurringTransaction(userID, ruleID string, update RecurringTransactionUpdate) (*RecurringTransactionView, error) {
	rule, err := findRule(s.db, userID, ruleID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.CategoryID != nil && *update.CategoryID != rule.CategoryID {
		category, err := s.categoryService.FindVisibleCategory(s.db, userID, *update.CategoryID)
		if err != nil {
			return nil, err
		}
		if string(category.Type) != string(rule.TransactionType) {
			return nil, apperrors.ErrCategoryTypeMismatch
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.Amount != nil {
		if !update.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = update.Amount.Round(2)
	}
	if update.SharingType != nil && *update.SharingType != rule.SharingType {
		switch *update.SharingType {
		case models.SharingTypePersonal:
		case models.SharingTypeShared:
			if _, err := requireSharedPartnership(s.partnershipService, s.db, userID); err != nil {
				return nil, err
			}
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sharing_type must be personal or shared")
		}
		updates["sharing_type"] = *update.SharingType
	}
	if update.PaymentMethod != nil {
		updates["payment_method"] = *update.PaymentMethod
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}

	if len(updates) > 0 {
		// Updating through the loaded rule would save the preloaded Category
		// back and reset category_id.
		if err := s.db.Model(&models.RecurringTransaction{}).Where("id = ?", rule.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetRecurringTransactionByID(userID, ruleID)
}

// DeactivateRecurringTransaction stops a rule for good. Generated
// transactions are kept.
func (s *recurringService) DeactivateRecurringTransaction(userID, ruleID string) error {
	rule, err := findRule(s.db, userID, ruleID)
	if err != nil {
		return err
	}
	if !rule.IsActive {
		return nil
	}

	res := s.db.Model(&models.RecurringTransaction{}).
		Where("id = ? AND version = ?", rule.ID, rule.Version).
		Updates(map[string]interface{}{
			"is_active": false,
			"version":   gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrentExecution
	}

	logger.Get().Infow("recurring transaction deactivated", "user_id", userID, "rule_id", ruleID)
	return nil
}

// ExecuteRecurringTransaction fires the rule on asOf.
func (s *recurringService) ExecuteRecurringTransaction(userID, ruleID string, asOf time.Time) (*ExecutionResult, error) {
	return s.execute(userID, ruleID, asOf, false, metrics.TriggerManual)
}

// ExecuteIfDue fires the rule on asOf only when it is due. A second call for
// the same date finds the rule no longer due.
func (s *recurringService) ExecuteIfDue(userID, ruleID string, asOf time.Time) (*ExecutionResult, error) {
	return s.execute(userID, ruleID, asOf, true, metrics.TriggerManual)
}

func (s *recurringService) execute(userID, ruleID string, asOf time.Time, onlyIfDue bool, trigger string) (*ExecutionResult, error) {
	started := time.Now()
	asOf = recurrence.Day(asOf)

	var (
		result   *ExecutionResult
		executed *models.Transaction
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rule, err := findRule(tx, userID, ruleID)
		if err != nil {
			return err
		}
		if onlyIfDue && rule.IsActive && !rule.State().IsDue(asOf) {
			return engineError(recurrence.ErrNotDue)
		}

		engineRule, err := rule.ToRule()
		if err != nil {
			return engineError(err)
		}
		occurrence, state, err := recurrence.Materialize(engineRule, asOf)
		if err != nil {
			return engineError(err)
		}

		transaction := models.NewTransactionFromOccurrence(occurrence)
		if err := s.transactionService.InsertTransaction(tx, transaction); err != nil {
			return err
		}
		if err := commitExecution(tx, rule, state); err != nil {
			return err
		}
		if err := s.notifyExecution(tx, rule, transaction); err != nil {
			return err
		}

		executed = transaction
		result = &ExecutionResult{
			Transaction:         transaction,
			TransactionID:       transaction.ID,
			NextExecutionDate:   rule.NextExecutionDate,
			RemainingExecutions: rule.RemainingExecutions(),
			IsActive:            rule.IsActive,
		}
		return nil
	})

	s.metrics.RecordExecution(trigger, executionOutcome(err), time.Since(started))
	if err != nil {
		return nil, err
	}
	if !result.IsActive {
		s.metrics.RecordCompletion()
	}

	logger.Get().Infow("recurring transaction executed",
		"user_id", userID,
		"rule_id", ruleID,
		"transaction_id", result.TransactionID,
		"as_of", asOf.Format(periodKeyLayout),
		"is_active", result.IsActive,
	)

	if executed.TransactionType == models.TransactionTypeExpense && s.budgetService != nil {
		if err := s.budgetService.CheckBudgetAlerts(userID, executed.CategoryID, executed.TransactionDate); err != nil {
			logger.Get().Warnw("budget alert check failed", "user_id", userID, "rule_id", ruleID, "error", err)
		}
	}
	return result, nil
}

// commitExecution writes the advanced state of rule, provided nobody else
// wrote it since it was loaded.
func commitExecution(tx *gorm.DB, rule *models.RecurringTransaction, state recurrence.State) error {
	res := tx.Model(&models.RecurringTransaction{}).
		Where("id = ? AND version = ?", rule.ID, rule.Version).
		Updates(map[string]interface{}{
			"next_execution_date": state.NextExecutionDate,
			"last_execution_date": state.LastExecutionDate,
			"execution_count":     state.ExecutionCount,
			"is_active":           state.IsActive,
			"version":             gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrentExecution
	}

	rule.ApplyState(state)
	rule.Version++
	return nil
}

func (s *recurringService) notifyExecution(tx *gorm.DB, rule *models.RecurringTransaction, transaction *models.Transaction) error {
	if s.notificationService == nil {
		return nil
	}

	data, err := json.Marshal(map[string]interface{}{
		"rule_id":             rule.ID,
		"transaction_id":      transaction.ID,
		"amount":              transaction.Amount.StringFixed(2),
		"execution_count":     rule.ExecutionCount,
		"next_execution_date": rule.NextExecutionDate.Format(periodKeyLayout),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.notificationService.Notify(tx, &models.Notification{
		UserID:    rule.UserID,
		Type:      models.NotificationTypeRecurringExecuted,
		Title:     "Recurring transaction recorded",
		Message:   fmt.Sprintf("%s of %s was recorded on %s.", transaction.Description, transaction.Amount.StringFixed(2), transaction.TransactionDate.Format(periodKeyLayout)),
		Data:      datatypes.JSON(data),
		Priority:  models.NotificationPriorityLow,
		ActionURL: "/transactions/" + transaction.ID,
	}); err != nil {
		return err
	}

	if rule.IsActive {
		return nil
	}

	reason := "end_date"
	if rule.MaxExecutions != nil && rule.ExecutionCount >= *rule.MaxExecutions {
		reason = "max_executions"
	}
	data, err = json.Marshal(map[string]interface{}{
		"rule_id":         rule.ID,
		"execution_count": rule.ExecutionCount,
		"reason":          reason,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.notificationService.Notify(tx, &models.Notification{
		UserID:    rule.UserID,
		Type:      models.NotificationTypeRecurringCompleted,
		Title:     "Recurring transaction completed",
		Message:   fmt.Sprintf("This recurring transaction ran %d times and is now inactive.", rule.ExecutionCount),
		Data:      datatypes.JSON(data),
		Priority:  models.NotificationPriorityNormal,
		ActionURL: "/recurring-transactions/" + rule.ID,
	})
}

func executionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeExecuted
	case errors.Is(err, apperrors.ErrRecurringNotDue):
		return metrics.OutcomeSkipped
	case errors.Is(err, apperrors.ErrConcurrentExecution):
		return metrics.OutcomeConflict
	case errors.Is(err, apperrors.ErrRecurringNotFound),
		errors.Is(err, apperrors.ErrRecurringInactive),
		errors.Is(err, apperrors.ErrRecurringExhausted),
		errors.Is(err, apperrors.ErrRecurringExpired),
		errors.Is(err, apperrors.ErrPartnershipRequired):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

// ListDue returns the user's active rules due on asOf, oldest due date first.
func (s *recurringService) ListDue(userID string, asOf time.Time) ([]RecurringTransactionView, error) {
	var rules []models.RecurringTransaction
	if err := s.db.Preload("Category").
		Where("user_id = ? AND is_active = ? AND next_execution_date <= ?", userID, true, recurrence.Day(asOf)).
		Order("next_execution_date ASC").
		Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return newRecurringViews(rules), nil
}

// PreviewRecurringTransaction lists the next count dates the rule would fire
// on if executed on each due date.
func (s *recurringService) PreviewRecurringTransaction(userID, ruleID string, count int) (*RecurringPreview, error) {
	if count <= 0 {
		count = defaultPreviewCount
	}
	if count > maxPreviewCount {
		count = maxPreviewCount
	}

	rule, err := findRule(s.db, userID, ruleID)
	if err != nil {
		return nil, err
	}
	schedule, err := rule.Schedule()
	if err != nil {
		return nil, engineError(err)
	}

	dates := recurrence.Upcoming(schedule, rule.State(), count)
	if dates == nil {
		dates = []time.Time{}
	}
	return &RecurringPreview{
		RuleID: rule.ID,
		RRule:  recurrence.ToRRule(schedule, rule.State()),
		Dates:  dates,
	}, nil
}

// RunDue executes every rule due on asOf, each in its own transaction. Rules
// that can no longer fire are deactivated.
func (s *recurringService) RunDue(asOf time.Time) (*RunSummary, error) {
	asOf = recurrence.Day(asOf)

	var due []models.RecurringTransaction
	if err := s.db.Select("id", "user_id").
		Where("is_active = ? AND next_execution_date <= ?", true, asOf).
		Order("next_execution_date ASC").
		Order("id ASC").
		Find(&due).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &RunSummary{AsOf: asOf, Due: len(due)}
	for _, r := range due {
		_, err := s.execute(r.UserID, r.ID, asOf, true, metrics.TriggerScheduler)
		switch {
		case err == nil:
			summary.Executed++
		case errors.Is(err, apperrors.ErrRecurringExhausted), errors.Is(err, apperrors.ErrRecurringExpired):
			summary.Skipped++
			if derr := s.DeactivateRecurringTransaction(r.UserID, r.ID); derr != nil {
				logger.Get().Warnw("failed to deactivate finished recurring transaction", "rule_id", r.ID, "error", derr)
			}
		case errors.Is(err, apperrors.ErrPartnershipRequired):
			// The rule stays due until the partnership is restored or the
			// rule is switched to personal.
			summary.Skipped++
			logger.Get().Warnw("shared recurring transaction skipped without an active partnership",
				"user_id", r.UserID,
				"rule_id", r.ID,
			)
		case errors.Is(err, apperrors.ErrRecurringNotDue),
			errors.Is(err, apperrors.ErrRecurringInactive),
			errors.Is(err, apperrors.ErrConcurrentExecution):
			summary.Skipped++
		default:
			summary.Failed++
			logger.Get().Errorw("recurring transaction execution failed",
				"user_id", r.UserID,
				"rule_id", r.ID,
				"error", err,
			)
		}
	}

	s.metrics.RecordRun(summary.Due, time.Now())
	logger.Get().Infow("recurring run finished",
		"as_of", asOf.Format(periodKeyLayout),
		"due", summary.Due,
		"executed", summary.Executed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}
