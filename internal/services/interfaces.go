package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/recurrence"
)

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string, isLoveCategory bool, sortOrder int) (*models.Category, error)
	GetVisibleCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	// FindVisibleCategory looks the category up through db, which may be an
	// open transaction.
	FindVisibleCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, icon, color string, sortOrder *int) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate     *time.Time
	ToDate       *time.Time
	Type         *models.TransactionType
	SharingType  *models.SharingType
	CategoryID   *string
	SourceRuleID *string
	MinAmount    *decimal.Decimal
	MaxAmount    *decimal.Decimal
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, categoryID string, transactionType models.TransactionType, sharingType models.SharingType, paymentMethod *models.PaymentMethod, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	// InsertTransaction persists an already validated transaction through tx.
	// Shared transactions are linked to the owner's active partnership and
	// rejected when there is none.
	InsertTransaction(tx *gorm.DB, transaction *models.Transaction) error
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// RecurringTransactionInput carries the fields of a new recurring transaction.
// When RRule is set it replaces Frequency, IntervalValue, DayOfMonth and
// DayOfWeek, and supplies MaxExecutions and EndDate unless those are set.
type RecurringTransactionInput struct {
	CategoryID        string
	Amount            decimal.Decimal
	TransactionType   models.TransactionType
	SharingType       models.SharingType
	PaymentMethod     *models.PaymentMethod
	Description       *string
	Frequency         recurrence.Frequency
	IntervalValue     int
	DayOfMonth        *int
	DayOfWeek         *int
	RRule             string
	NextExecutionDate time.Time
	EndDate           *time.Time
	MaxExecutions     *int
}

// RecurringTransactionUpdate carries the editable template fields. Nil fields
// are left unchanged.
type RecurringTransactionUpdate struct {
	CategoryID    *string
	Amount        *decimal.Decimal
	SharingType   *models.SharingType
	PaymentMethod *models.PaymentMethod
	Description   *string
}

// RecurringTransactionFilter holds optional filters for listing rules.
type RecurringTransactionFilter struct {
	IsActive        *bool
	CategoryID      *string
	TransactionType *models.TransactionType
}

// RecurringTransactionView is a rule with its category display fields and
// remaining execution count.
type RecurringTransactionView struct {
	models.RecurringTransaction
	CategoryName        string `json:"category_name"`
	CategoryIcon        string `json:"category_icon,omitempty"`
	CategoryColor       string `json:"category_color,omitempty"`
	RemainingExecutions *int   `json:"remaining_executions"`
	RRule               string `json:"rrule"`
}

// ExecutionResult is the outcome of one successful execution.
type ExecutionResult struct {
	Transaction         *models.Transaction `json:"transaction"`
	TransactionID       string              `json:"transaction_id"`
	NextExecutionDate   time.Time           `json:"next_execution_date"`
	RemainingExecutions *int                `json:"remaining_executions"`
	IsActive            bool                `json:"is_active"`
}

// RecurringPreview lists the dates a rule would fire on next.
type RecurringPreview struct {
	RuleID string      `json:"rule_id"`
	RRule  string      `json:"rrule"`
	Dates  []time.Time `json:"dates"`
}

// RunSummary reports a pass over all due rules.
type RunSummary struct {
	AsOf     time.Time `json:"as_of"`
	Due      int       `json:"due"`
	Executed int       `json:"executed"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
}

// RecurringTransactionServicer defines the contract for recurring transactions.
type RecurringTransactionServicer interface {
	CreateRecurringTransaction(userID string, input RecurringTransactionInput) (*RecurringTransactionView, error)
	GetUserRecurringTransactions(userID string, page pagination.PageRequest, filter RecurringTransactionFilter) (*pagination.PageResponse[RecurringTransactionView], error)
	GetRecurringTransactionByID(userID, ruleID string) (*RecurringTransactionView, error)
	UpdateRecurringTransaction(userID, ruleID string, update RecurringTransactionUpdate) (*RecurringTransactionView, error)
	DeactivateRecurringTransaction(userID, ruleID string) error
	// ExecuteRecurringTransaction fires an active rule on asOf regardless of
	// its next execution date.
	ExecuteRecurringTransaction(userID, ruleID string, asOf time.Time) (*ExecutionResult, error)
	// ExecuteIfDue fires the rule only when it is due on asOf.
	ExecuteIfDue(userID, ruleID string, asOf time.Time) (*ExecutionResult, error)
	ListDue(userID string, asOf time.Time) ([]RecurringTransactionView, error)
	PreviewRecurringTransaction(userID, ruleID string, count int) (*RecurringPreview, error)
	// RunDue executes every rule of every user that is due on asOf.
	RunDue(asOf time.Time) (*RunSummary, error)
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	BudgetID         string          `json:"budget_id"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	Budgeted         decimal.Decimal `json:"budgeted" swaggertype:"string"`
	Spent            decimal.Decimal `json:"spent" swaggertype:"string"`
	Remaining        decimal.Decimal `json:"remaining" swaggertype:"string"`
	Percentage       float64         `json:"percentage"`
	DaysRemaining    int             `json:"days_remaining"`
	IsOverBudget     bool            `json:"is_over_budget"`
	IsAlertThreshold bool            `json:"is_alert_threshold_reached"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, categoryID *string, name string, amount decimal.Decimal, period models.BudgetPeriod, startDate time.Time, endDate *time.Time, alertThreshold *decimal.Decimal, isLoveBudget bool) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, name string, amount *decimal.Decimal, period *models.BudgetPeriod, endDate *time.Time, alertThreshold *decimal.Decimal) (*models.Budget, error)
	DeactivateBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
	// CheckBudgetAlerts notifies the user once per budget period when spending
	// in categoryID (or overall) crosses a budget's alert threshold or amount.
	CheckBudgetAlerts(userID, categoryID string, asOf time.Time) error
}

// NotificationFilter holds optional filters for listing notifications.
type NotificationFilter struct {
	IsRead   *bool
	Type     *models.NotificationType
	Priority *models.NotificationPriority
	RuleID   *string
}

// NotificationCounts summarizes unread notifications.
type NotificationCounts struct {
	Total  int64                             `json:"total"`
	ByType map[models.NotificationType]int64 `json:"by_type"`
}

// NotificationServicer defines the contract for in-app notifications.
type NotificationServicer interface {
	// Notify stores n through db, which may be an open transaction.
	Notify(db *gorm.DB, n *models.Notification) error
	GetUserNotifications(userID string, page pagination.PageRequest, filter NotificationFilter) (*pagination.PageResponse[models.Notification], error)
	GetNotificationByID(userID, notificationID string) (*models.Notification, error)
	GetNotificationCounts(userID string) (*NotificationCounts, error)
	MarkAsRead(userID, notificationID string) (*models.Notification, error)
	MarkAllAsRead(userID string) (int64, error)
	DeleteNotification(userID, notificationID string) error
}

// PartnerSummary is the public profile of the other partner.
type PartnerSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// PartnershipView is a partnership seen from one of its members.
type PartnershipView struct {
	models.Partnership
	Partner PartnerSummary `json:"partner"`
}

// PartnerStatus answers whether a user currently has a partner.
type PartnerStatus struct {
	HasPartner  bool             `json:"has_partner"`
	Partnership *PartnershipView `json:"partnership"`
}

// PartnershipServicer defines the contract for partner pairing.
type PartnershipServicer interface {
	GetStatus(userID string) (*PartnerStatus, error)
	CreateInvitation(userID string) (*models.PartnershipInvitation, error)
	JoinPartnership(userID, code string, loveAnniversary *time.Time, relationshipType string) (*PartnershipView, error)
	UpdatePartnership(userID string, loveAnniversary *time.Time, relationshipType *string) (*PartnershipView, error)
	DissolvePartnership(userID string) (*models.Partnership, error)
	// ActivePartnership looks the user's active partnership up through db,
	// which may be an open transaction.
	ActivePartnership(db *gorm.DB, userID string) (*models.Partnership, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	GetUserAuditLogs(userID string, page pagination.PageRequest, filter AuditFilter) (*pagination.PageResponse[models.AuditLog], error)
}
