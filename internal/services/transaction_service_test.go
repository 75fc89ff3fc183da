package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneylovers/internal/models"
	"moneylovers/internal/pagination"
	"moneylovers/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("valid_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		partner := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestPartnership(t, db, partner.ID, user.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		pm := models.PaymentMethodCash
		txn, err := svc.CreateTransaction(user.ID, cat.ID, models.TransactionTypeExpense, models.SharingTypeShared,
			&pm, decimal.RequireFromString("12.345"), "Lunch", testutil.Date(2024, 3, 1))
		testutil.AssertNoError(t, err)

		if txn.ID == "" {
			t.Fatal("expected transaction ID")
		}
		testutil.AssertDecimal(t, txn.Amount, "12.35")
		if txn.IsGenerated() {
			t.Error("manual transactions must not carry a source rule")
		}
		if txn.PartnershipID == nil || *txn.PartnershipID != p.ID {
			t.Errorf("expected shared transaction linked to partnership %s, got %v", p.ID, txn.PartnershipID)
		}
	})

	t.Run("shared_without_partnership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, cat.ID, models.TransactionTypeExpense, models.SharingTypeShared,
			nil, decimal.NewFromInt(20), "Dinner", testutil.Date(2024, 3, 1))
		testutil.AssertAppError(t, err, "PARTNERSHIP_REQUIRED")

		var n int64
		db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&n)
		if n != 0 {
			t.Errorf("expected no stored transaction, got %d", n)
		}
	})

	t.Run("personal_is_not_linked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		partner := testutil.CreateTestUser(t, db)
		testutil.CreateTestPartnership(t, db, user.ID, partner.ID)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		txn, err := svc.CreateTransaction(user.ID, cat.ID, models.TransactionTypeExpense, "",
			nil, decimal.NewFromInt(20), "Book", testutil.Date(2024, 3, 1))
		testutil.AssertNoError(t, err)
		if txn.SharingType != models.SharingTypePersonal {
			t.Errorf("expected personal by default, got %s", txn.SharingType)
		}
		if txn.PartnershipID != nil {
			t.Errorf("personal transactions must not link a partnership, got %s", *txn.PartnershipID)
		}
	})

	t.Run("default_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		def := testutil.CreateTestDefaultCategory(t, db, models.CategoryTypeIncome)

		_, err := svc.CreateTransaction(user.ID, def.ID, models.TransactionTypeIncome, models.SharingTypePersonal,
			nil, decimal.NewFromInt(5000), "Salary", testutil.Date(2024, 3, 1))
		testutil.AssertNoError(t, err)
	})

	t.Run("category_type_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, cat.ID, models.TransactionTypeIncome, models.SharingTypePersonal,
			nil, decimal.NewFromInt(1), "", testutil.Date(2024, 3, 1))
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("foreign_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, cat.ID, models.TransactionTypeExpense, models.SharingTypePersonal,
			nil, decimal.NewFromInt(1), "", testutil.Date(2024, 3, 1))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, cat.ID, models.TransactionTypeExpense, models.SharingTypePersonal,
			nil, decimal.Zero, "", testutil.Date(2024, 3, 1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("raises_budget_warning", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		categoryService := NewCategoryService(db)
		budgetService := newTestBudgetService(db)
		svc := NewTransactionService(db, categoryService, budgetService, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		testutil.CreateTestBudget(t, db, user.ID, &cat.ID, "100.00")

		_, err := svc.CreateTransaction(user.ID, cat.ID, models.TransactionTypeExpense, models.SharingTypePersonal,
			nil, decimal.NewFromInt(85), "", testutil.Date(2024, 5, 3))
		testutil.AssertNoError(t, err)

		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetWarning); n != 1 {
			t.Errorf("expected 1 budget warning, got %d", n)
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	otherCat := testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)

	testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "20.00", testutil.Date(2024, 1, 5))
	testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "75.50", testutil.Date(2024, 2, 5))
	testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "3000.00", testutil.Date(2024, 2, 1))
	testutil.CreateTestTransaction(t, db, other.ID, otherCat.ID, models.TransactionTypeExpense, "10.00", testutil.Date(2024, 2, 1))

	rule := testutil.CreateTestRecurringTransaction(t, db, user.ID, expense.ID)
	generated := testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "1000.00", testutil.Date(2024, 3, 25))
	if err := db.Model(generated).Update("source_rule_id", rule.ID).Error; err != nil {
		t.Fatalf("failed to link generated transaction: %v", err)
	}

	t.Run("all_newest_first", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 4 {
			t.Fatalf("expected 4 transactions, got %d", result.TotalItems)
		}
		testutil.AssertDate(t, result.Data[0].TransactionDate, testutil.Date(2024, 3, 25))
		if result.Data[0].Category == nil {
			t.Error("expected category to be preloaded")
		}
	})

	t.Run("date_range", func(t *testing.T) {
		from, to := testutil.Date(2024, 2, 1), testutil.Date(2024, 2, 29)
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions in February, got %d", result.TotalItems)
		}
	})

	t.Run("type", func(t *testing.T) {
		txType := models.TransactionTypeIncome
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &txType})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 income transaction, got %d", result.TotalItems)
		}
	})

	t.Run("amount_bounds", func(t *testing.T) {
		lo, hi := decimal.NewFromInt(50), decimal.NewFromInt(1000)
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{MinAmount: &lo, MaxAmount: &hi})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions between 50 and 1000, got %d", result.TotalItems)
		}
	})

	t.Run("source_rule", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{SourceRuleID: &rule.ID})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 || result.Data[0].ID != generated.ID {
			t.Errorf("expected only the generated transaction, got %d", result.TotalItems)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	txn := testutil.CreateTestTransaction(t, db, user.ID, cat.ID, models.TransactionTypeExpense, "9.99", testutil.Date(2024, 1, 1))

	t.Run("owner", func(t *testing.T) {
		got, err := svc.GetTransactionByID(user.ID, txn.ID)
		testutil.AssertNoError(t, err)
		if got.ID != txn.ID {
			t.Errorf("expected %s, got %s", txn.ID, got.ID)
		}
	})

	t.Run("other_user", func(t *testing.T) {
		_, err := svc.GetTransactionByID(other.ID, txn.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("generated_transaction_keeps_rule_state", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		recurring := newTestRecurringService(db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		rule := testutil.CreateTestRecurringTransaction(t, db, user.ID, cat.ID)

		result, err := recurring.ExecuteRecurringTransaction(user.ID, rule.ID, testutil.Date(2024, 5, 25))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, result.TransactionID))

		_, err = svc.GetTransactionByID(user.ID, result.TransactionID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		got := loadRule(t, db, rule.ID)
		if got.ExecutionCount != 1 || !got.NextExecutionDate.Equal(testutil.Date(2024, 6, 25)) {
			t.Errorf("deleting a generated transaction must not rewind its rule: %+v", got)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), nil, NewPartnershipService(db))
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteTransaction(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
