package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneylovers/internal/models"
	"moneylovers/internal/recurrence"
	"moneylovers/internal/testutil"
)

func TestBaseBeforeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	t.Run("generates_id", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		if len(user.ID) != 36 {
			t.Errorf("expected generated UUID, got %q", user.ID)
		}
	})

	t.Run("normalizes_supplied_id", func(t *testing.T) {
		user := &models.User{
			Base:  models.Base{ID: "0190B7A1-3C2D-7E4F-8A9B-0C1D2E3F4A5B"},
			Email: "upper@test.com",
		}
		testutil.AssertNoError(t, db.Create(user).Error)
		if user.ID != strings.ToLower("0190B7A1-3C2D-7E4F-8A9B-0C1D2E3F4A5B") {
			t.Errorf("expected lowercase ID, got %s", user.ID)
		}
	})

	t.Run("rejects_non_uuid", func(t *testing.T) {
		user := &models.User{Base: models.Base{ID: "user-1"}, Email: "bad@test.com"}
		if err := db.Create(user).Error; err == nil {
			t.Error("expected an error for a non-UUID primary key")
		}
	})
}

func TestCategoryVisibleTo(t *testing.T) {
	owner := "01890a5d-ac96-774b-bcce-b302099a8057"
	other := "01890a5d-ac96-774b-bcce-b302099a8058"

	own := &models.Category{UserID: &owner}
	def := &models.Category{IsDefault: true}

	if !own.VisibleTo(owner) || own.VisibleTo(other) {
		t.Error("user categories must only be visible to their owner")
	}
	if !def.VisibleTo(owner) || !def.VisibleTo(other) {
		t.Error("default categories must be visible to everyone")
	}
}

func TestRemainingExecutions(t *testing.T) {
	rule := &models.RecurringTransaction{ExecutionCount: 3}
	if rule.RemainingExecutions() != nil {
		t.Error("uncapped rule must report nil remaining")
	}

	limit := 5
	rule.MaxExecutions = &limit
	if got := rule.RemainingExecutions(); got == nil || *got != 2 {
		t.Errorf("expected 2 remaining, got %v", got)
	}

	rule.ExecutionCount = 7
	if got := rule.RemainingExecutions(); got == nil || *got != 0 {
		t.Errorf("expected remaining clamped to 0, got %v", got)
	}
}

func TestNewTransactionFromOccurrence(t *testing.T) {
	card := "credit_card"
	tx := models.NewTransactionFromOccurrence(recurrence.Occurrence{
		RuleID:          "rule",
		OwnerID:         "owner",
		CategoryID:      "category",
		Amount:          decimal.RequireFromString("85000.00"),
		TransactionType: "expense",
		SharingType:     "shared",
		PaymentMethod:   &card,
		Description:     "[recurring] Rent",
		TransactionDate: testutil.Date(2024, 5, 25),
	})

	if !tx.IsGenerated() || *tx.SourceRuleID != "rule" {
		t.Errorf("expected source rule to be set, got %v", tx.SourceRuleID)
	}
	if tx.TransactionType != models.TransactionTypeExpense || tx.SharingType != models.SharingTypeShared {
		t.Errorf("unexpected types %s/%s", tx.TransactionType, tx.SharingType)
	}
	if tx.PaymentMethod == nil || *tx.PaymentMethod != models.PaymentMethodCreditCard {
		t.Errorf("expected credit_card payment method, got %v", tx.PaymentMethod)
	}
	testutil.AssertDate(t, tx.TransactionDate, testutil.Date(2024, 5, 25))
	testutil.AssertDecimal(t, tx.Amount, "85000.00")
}

func TestPartnershipMembers(t *testing.T) {
	a := "01890a5d-ac96-774b-bcce-b302099a8057"
	b := "01890a5d-ac96-774b-bcce-b302099a8058"
	stranger := "01890a5d-ac96-774b-bcce-b302099a8059"
	p := &models.Partnership{User1ID: a, User2ID: b, Status: models.PartnershipStatusActive}

	if p.PartnerOf(a) != b || p.PartnerOf(b) != a {
		t.Error("PartnerOf must return the other member")
	}
	if p.PartnerOf(stranger) != "" || p.Includes(stranger) {
		t.Error("a stranger is not part of the partnership")
	}
	if !p.IsActive() {
		t.Error("expected active partnership")
	}
	p.Status = models.PartnershipStatusInactive
	if p.IsActive() {
		t.Error("expected inactive partnership")
	}
}

func TestPartnershipInvitationExpired(t *testing.T) {
	expires := testutil.Date(2024, 5, 27)
	inv := &models.PartnershipInvitation{ExpiresAt: expires}

	if inv.Expired(expires.Add(-time.Second)) {
		t.Error("invitation must be valid before its expiry")
	}
	if !inv.Expired(expires) {
		t.Error("invitation must expire at its expiry time")
	}
	if got := models.NormalizeInvitationCode("  k7p2qx "); got != "K7P2QX" {
		t.Errorf("expected K7P2QX, got %q", got)
	}
}
