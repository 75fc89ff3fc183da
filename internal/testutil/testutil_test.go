package testutil_test

import (
	"testing"

	"moneylovers/internal/errors"
	"moneylovers/internal/models"
	"moneylovers/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "categories", "transactions", "recurring_transactions", "budgets", "notifications", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolation(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	testutil.AssertNoError(t, second.Model(&models.User{}).Count(&count).Error)
	if count != 0 {
		t.Errorf("databases must be independent, second has %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	if !category.VisibleTo(user.ID) {
		t.Error("owned category should be visible to its owner")
	}

	def := testutil.CreateTestDefaultCategory(t, db, models.CategoryTypeExpense)
	if !def.IsDefault || def.UserID != nil {
		t.Errorf("expected ownerless default category, got %+v", def)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, category.ID, models.TransactionTypeIncome, "10.50", testutil.Date(2024, 5, 1))
	testutil.AssertDecimal(t, tx.Amount, "10.50")
	testutil.AssertDate(t, tx.TransactionDate, testutil.Date(2024, 5, 1))

	budget := testutil.CreateTestBudget(t, db, user.ID, &category.ID, "100.00")
	if !budget.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected budget amount 100, got %s", budget.Amount)
	}

	rule := testutil.CreateTestRecurringTransaction(t, db, user.ID, category.ID, testutil.Inactive())
	var stored models.RecurringTransaction
	if err := db.First(&stored, "id = ?", rule.ID).Error; err != nil {
		t.Fatalf("failed to reload rule: %v", err)
	}
	if stored.IsActive {
		t.Error("expected stored rule to be inactive")
	}
	if stored.Version != 1 {
		t.Errorf("expected version 1, got %d", stored.Version)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrRecurringNotFound, "custom message")
	testutil.AssertAppError(t, err, "RECURRING_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
