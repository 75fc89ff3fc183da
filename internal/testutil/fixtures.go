package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneylovers/internal/models"
	"moneylovers/internal/recurrence"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns the calendar date y-m-d at midnight UTC.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: "Test User",
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category owned by userID.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	owner := userID
	category := &models.Category{
		UserID: &owner,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
		Color:  "#4ECDC4",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDefaultCategory creates an ownerless default category.
func CreateTestDefaultCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		Name:      fmt.Sprintf("Default Category %d", n),
		Type:      categoryType,
		Icon:      "*",
		Color:     "#95A5A6",
		IsDefault: true,
		SortOrder: int(n),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create default category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a personal transaction with the given amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID string, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		CategoryID:      categoryID,
		TransactionType: txType,
		SharingType:     models.SharingTypePersonal,
		Amount:          decimal.RequireFromString(amount),
		Description:     fmt.Sprintf("Test Transaction %d", nextID()),
		TransactionDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active monthly budget. A nil categoryID makes
// it an overall budget.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, categoryID *string, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:         userID,
		CategoryID:     categoryID,
		Name:           fmt.Sprintf("Test Budget %d", nextID()),
		Amount:         decimal.RequireFromString(amount),
		Period:         models.BudgetPeriodMonthly,
		StartDate:      Date(2024, 1, 1),
		AlertThreshold: models.DefaultAlertThreshold,
		IsActive:       true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestPartnership pairs two users in an active partnership.
func CreateTestPartnership(t *testing.T, db *gorm.DB, user1ID, user2ID string) *models.Partnership {
	t.Helper()

	activated := Date(2024, 1, 1)
	p := &models.Partnership{
		User1ID:          user1ID,
		User2ID:          user2ID,
		Status:           models.PartnershipStatusActive,
		RelationshipType: models.DefaultRelationshipType,
		ActivatedAt:      &activated,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test partnership: %v", err)
	}
	return p
}

// CreateTestInvitation stores an invitation code for inviterID.
func CreateTestInvitation(t *testing.T, db *gorm.DB, inviterID, code string, expiresAt time.Time) *models.PartnershipInvitation {
	t.Helper()

	inv := &models.PartnershipInvitation{
		InviterID:      inviterID,
		InvitationCode: code,
		ExpiresAt:      expiresAt,
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test invitation: %v", err)
	}
	return inv
}

// RecurringOption customizes a recurring transaction fixture.
type RecurringOption func(*models.RecurringTransaction)

// WithSchedule sets the recurrence fields.
func WithSchedule(freq recurrence.Frequency, interval int, dayOfMonth, dayOfWeek *int) RecurringOption {
	return func(r *models.RecurringTransaction) {
		r.Frequency = freq
		r.IntervalValue = interval
		r.DayOfMonth = dayOfMonth
		r.DayOfWeek = dayOfWeek
	}
}

// WithNextExecution sets next_execution_date.
func WithNextExecution(d time.Time) RecurringOption {
	return func(r *models.RecurringTransaction) { r.NextExecutionDate = d }
}

// WithEndDate sets end_date.
func WithEndDate(d time.Time) RecurringOption {
	return func(r *models.RecurringTransaction) { r.EndDate = &d }
}

// WithMaxExecutions sets max_executions.
func WithMaxExecutions(n int) RecurringOption {
	return func(r *models.RecurringTransaction) { r.MaxExecutions = &n }
}

// WithExecutionCount sets execution_count.
func WithExecutionCount(n int) RecurringOption {
	return func(r *models.RecurringTransaction) { r.ExecutionCount = n }
}

// WithDescription sets the template description.
func WithDescription(desc string) RecurringOption {
	return func(r *models.RecurringTransaction) { r.Description = &desc }
}

// WithTransactionType sets the template transaction type.
func WithTransactionType(tt models.TransactionType) RecurringOption {
	return func(r *models.RecurringTransaction) { r.TransactionType = tt }
}

// WithSharingType sets the template sharing type.
func WithSharingType(st models.SharingType) RecurringOption {
	return func(r *models.RecurringTransaction) { r.SharingType = st }
}

// Inactive stores the rule deactivated.
func Inactive() RecurringOption {
	return func(r *models.RecurringTransaction) { r.IsActive = false }
}

// CreateTestRecurringTransaction creates a rule that defaults to a monthly
// 1000.00 personal expense due on 2024-05-25.
func CreateTestRecurringTransaction(t *testing.T, db *gorm.DB, userID, categoryID string, opts ...RecurringOption) *models.RecurringTransaction {
	t.Helper()

	rule := &models.RecurringTransaction{
		UserID:            userID,
		CategoryID:        categoryID,
		Amount:            decimal.RequireFromString("1000.00"),
		TransactionType:   models.TransactionTypeExpense,
		SharingType:       models.SharingTypePersonal,
		Frequency:         recurrence.FrequencyMonthly,
		IntervalValue:     1,
		NextExecutionDate: Date(2024, 5, 25),
		IsActive:          true,
		Version:           1,
	}
	for _, opt := range opts {
		opt(rule)
	}

	active := rule.IsActive
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	// GORM skips zero values for columns with a default, so false needs an
	// explicit update.
	if !active {
		if err := db.Model(rule).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate test recurring transaction: %v", err)
		}
		rule.IsActive = false
	}
	return rule
}

// CreateTestNotification creates an unread notification of the given type.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string, nType models.NotificationType) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:   userID,
		Type:     nType,
		Title:    fmt.Sprintf("Test Notification %d", nextID()),
		Message:  "test message",
		Priority: models.NotificationPriorityNormal,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
