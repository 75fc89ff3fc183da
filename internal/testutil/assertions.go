package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moneylovers/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
// Sentinels wrapped with apperrors.Wrap or WithMessage match by code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDate fails the test unless got falls on the same calendar day as want.
// Databases differ in how they return DATE columns, so only Y-M-D is compared.
func AssertDate(t *testing.T, got, want time.Time) {
	t.Helper()

	if got.Format(time.DateOnly) != want.Format(time.DateOnly) {
		t.Errorf("expected date %s, got %s", want.Format(time.DateOnly), got.Format(time.DateOnly))
	}
}

// AssertDecimal fails the test unless got equals the decimal literal want.
func AssertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got.StringFixed(2))
	}
}
