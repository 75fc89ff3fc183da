package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"moneylovers/internal/clock"
	apperrors "moneylovers/internal/errors"
	"moneylovers/internal/logger"
	"moneylovers/internal/metrics"
	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/recurrence"
)

const periodKeyLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// budgetService handles budget-related business logic.
type budgetService struct {
	db                  *gorm.DB
	categoryService     CategoryServicer
	notificationService NotificationServicer
	clock               clock.Clock
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categoryService CategoryServicer, notificationService NotificationServicer, clk clock.Clock) BudgetServicer {
	return &budgetService{
		db:                  db,
		categoryService:     categoryService,
		notificationService: notificationService,
		clock:               clk,
	}
}

// CreateBudget creates a budget for one expense category, or an overall
// budget when categoryID is nil.
func (s *budgetService) CreateBudget(
	userID string,
	categoryID *string,
	name string,
	amount decimal.Decimal,
	period models.BudgetPeriod,
	startDate time.Time,
	endDate *time.Time,
	alertThreshold *decimal.Decimal,
	isLoveBudget bool,
) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := validateBudgetPeriod(period, startDate, endDate); err != nil {
		return nil, err
	}
	threshold := models.DefaultAlertThreshold
	if alertThreshold != nil {
		if err := validateAlertThreshold(*alertThreshold); err != nil {
			return nil, err
		}
		threshold = *alertThreshold
	}

	if categoryID != nil {
		category, err := s.categoryService.FindVisibleCategory(s.db, userID, *categoryID)
		if err != nil {
			return nil, err
		}
		if category.Type != models.CategoryTypeExpense {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryTypeMismatch, "budgets can only track expense categories")
		}
	}

	if period != models.BudgetPeriodCustom {
		q := s.db.Model(&models.Budget{}).
			Where("user_id = ? AND period = ? AND is_active = ?", userID, period, true)
		if categoryID != nil {
			q = q.Where("category_id = ?", *categoryID)
		} else {
			q = q.Where("category_id IS NULL")
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateBudget
		}
	}

	budget := &models.Budget{
		UserID:         userID,
		CategoryID:     categoryID,
		Name:           name,
		Amount:         amount.Round(2),
		Period:         period,
		StartDate:      recurrence.Day(startDate),
		EndDate:        endDate,
		AlertThreshold: threshold,
		IsActive:       true,
		IsLoveBudget:   isLoveBudget,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

func validateBudgetPeriod(period models.BudgetPeriod, startDate time.Time, endDate *time.Time) error {
	switch period {
	case models.BudgetPeriodMonthly, models.BudgetPeriodYearly, models.BudgetPeriodCustom:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unsupported budget period %q", period))
	}
	if startDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date is required")
	}
	if period == models.BudgetPeriodCustom && endDate == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "custom budgets require an end_date")
	}
	if endDate != nil && endDate.Before(startDate) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before start_date")
	}
	return nil
}

func validateAlertThreshold(threshold decimal.Decimal) error {
	if !threshold.IsPositive() || threshold.GreaterThan(hundred) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "alert_threshold must be between 0 and 100")
	}
	return nil
}

// GetUserBudgets returns a paginated list of budgets for the user with optional filters.
func (s *budgetService) GetUserBudgets(
	userID string,
	page pagination.PageRequest,
	isActive *bool,
	period *models.BudgetPeriod,
) (*pagination.PageResponse[models.Budget], error) {
	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}
	if period != nil {
		base = base.Where("period = ?", *period)
	}

	result, err := pagination.Find[models.Budget](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category").Order("created_at DESC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields.
func (s *budgetService) UpdateBudget(
	userID, budgetID string,
	name string,
	amount *decimal.Decimal,
	period *models.BudgetPeriod,
	endDate *time.Time,
	alertThreshold *decimal.Decimal,
) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	newPeriod := budget.Period
	if period != nil {
		newPeriod = *period
	}
	newEnd := budget.EndDate
	if endDate != nil {
		newEnd = endDate
	}
	if err := validateBudgetPeriod(newPeriod, budget.StartDate, newEnd); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = amount.Round(2)
	}
	if period != nil {
		updates["period"] = *period
	}
	if endDate != nil {
		updates["end_date"] = endDate
	}
	if alertThreshold != nil {
		if err := validateAlertThreshold(*alertThreshold); err != nil {
			return nil, err
		}
		updates["alert_threshold"] = *alertThreshold
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Budget{}).Where("id = ?", budget.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeactivateBudget stops a budget from tracking spending and raising alerts.
func (s *budgetService) DeactivateBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	if !budget.IsActive {
		return nil
	}

	if err := s.db.Model(&models.Budget{}).Where("id = ?", budget.ID).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress calculates spending vs budget for the current period.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.progress(budget, s.clock.Today())
}

// periodWindow returns the half-open [start, end) window of the budget period
// containing asOf.
func periodWindow(budget *models.Budget, asOf time.Time) (time.Time, time.Time) {
	day := recurrence.Day(asOf)
	switch budget.Period {
	case models.BudgetPeriodYearly:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	case models.BudgetPeriodCustom:
		start := recurrence.Day(budget.StartDate)
		end := day
		if budget.EndDate != nil {
			end = recurrence.Day(*budget.EndDate)
		}
		return start, end.AddDate(0, 0, 1)
	default:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
}

func (s *budgetService) progress(budget *models.Budget, asOf time.Time) (*BudgetProgress, error) {
	periodStart, periodEnd := periodWindow(budget, asOf)

	// Sum expense transactions within the period
	q := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND transaction_type = ? AND transaction_date >= ? AND transaction_date < ?",
			budget.UserID, models.TransactionTypeExpense, periodStart, periodEnd)
	if budget.CategoryID != nil {
		q = q.Where("category_id = ?", *budget.CategoryID)
	}
	var spent decimal.Decimal
	if err := q.Row().Scan(&spent); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	spent = spent.Round(2)

	remaining := budget.Amount.Sub(spent)
	var percentage float64
	if budget.Amount.IsPositive() {
		percentage = spent.Div(budget.Amount).Mul(hundred).Round(2).InexactFloat64()
	}

	daysRemaining := int(periodEnd.Sub(recurrence.Day(asOf)).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	return &BudgetProgress{
		BudgetID:         budget.ID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd.AddDate(0, 0, -1),
		Budgeted:         budget.Amount,
		Spent:            spent,
		Remaining:        remaining,
		Percentage:       percentage,
		DaysRemaining:    daysRemaining,
		IsOverBudget:     spent.GreaterThan(budget.Amount),
		IsAlertThreshold: spent.GreaterThanOrEqual(budget.Amount.Mul(budget.AlertThreshold).Div(hundred)),
	}, nil
}

// CheckBudgetAlerts notifies the user once per budget period when spending
// reaches a budget's alert threshold, and once more when it exceeds the amount.
func (s *budgetService) CheckBudgetAlerts(userID, categoryID string, asOf time.Time) error {
	day := recurrence.Day(asOf)

	var budgets []models.Budget
	if err := s.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("(category_id = ? OR category_id IS NULL)", categoryID).
		Where("start_date <= ?", day).
		Where("(end_date IS NULL OR end_date >= ?)", day).
		Find(&budgets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range budgets {
		budget := &budgets[i]
		p, err := s.progress(budget, day)
		if err != nil {
			return err
		}

		var nType models.NotificationType
		switch {
		case p.IsOverBudget:
			nType = models.NotificationTypeBudgetExceeded
		case p.IsAlertThreshold:
			nType = models.NotificationTypeBudgetWarning
		default:
			continue
		}

		periodKey := p.PeriodStart.Format(periodKeyLayout)
		sent, err := s.alreadyNotified(userID, nType, budget.ID, periodKey)
		if err != nil {
			return err
		}
		if sent {
			continue
		}

		if err := s.notificationService.Notify(s.db, budgetNotification(budget, p, nType, periodKey)); err != nil {
			return err
		}
		metrics.NewMetrics().RecordBudgetAlert(string(nType))
		logger.Get().Infow("budget alert raised",
			"user_id", userID,
			"budget_id", budget.ID,
			"type", nType,
			"percentage", p.Percentage,
		)
	}
	return nil
}

func (s *budgetService) alreadyNotified(userID string, nType models.NotificationType, budgetID, periodKey string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, nType).
		Where(datatypes.JSONQuery("data").Equals(budgetID, "budget_id")).
		Where(datatypes.JSONQuery("data").Equals(periodKey, "period_start")).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

func budgetNotification(budget *models.Budget, p *BudgetProgress, nType models.NotificationType, periodKey string) *models.Notification {
	data, _ := json.Marshal(map[string]interface{}{
		"budget_id":    budget.ID,
		"period_start": periodKey,
		"spent":        p.Spent.StringFixed(2),
		"budgeted":     p.Budgeted.StringFixed(2),
		"percentage":   p.Percentage,
	})

	n := &models.Notification{
		UserID:    budget.UserID,
		Type:      nType,
		Data:      datatypes.JSON(data),
		ActionURL: "/budgets/" + budget.ID,
	}
	if nType == models.NotificationTypeBudgetExceeded {
		n.Title = "Budget exceeded"
		n.Message = fmt.Sprintf("You have spent %s of your %s budget %q.", p.Spent.StringFixed(2), p.Budgeted.StringFixed(2), budget.Name)
		n.Priority = models.NotificationPriorityHigh
	} else {
		n.Title = "Budget almost used"
		n.Message = fmt.Sprintf("You have used %.0f%% of your budget %q.", p.Percentage, budget.Name)
		n.Priority = models.NotificationPriorityNormal
	}
	return n
}
