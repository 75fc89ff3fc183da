// Package errors provides the structured error type returned by services.
// Every service-layer error is an AppError so that handlers can answer with a
// stable code and a safe message without leaking internal details.
package errors

import (
	"errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches another AppError by code, so a wrapped copy still compares equal
// to its sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions or recurring transactions", StatusCode: http.StatusConflict}
	ErrDefaultCategory   = &AppError{Code: "DEFAULT_CATEGORY", Message: "Default categories cannot be modified", StatusCode: http.StatusForbidden}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrCategoryTypeMismatch   = &AppError{Code: "CATEGORY_TYPE_MISMATCH", Message: "Category type does not match the transaction type", StatusCode: http.StatusBadRequest}
)

// Recurring transaction errors.
var (
	ErrRecurringNotFound   = &AppError{Code: "RECURRING_NOT_FOUND", Message: "Recurring transaction not found", StatusCode: http.StatusNotFound}
	ErrRecurringInactive   = &AppError{Code: "RECURRING_INACTIVE", Message: "Recurring transaction is not active", StatusCode: http.StatusBadRequest}
	ErrRecurringExhausted  = &AppError{Code: "RECURRING_EXHAUSTED", Message: "Maximum number of executions reached", StatusCode: http.StatusBadRequest}
	ErrRecurringExpired    = &AppError{Code: "RECURRING_EXPIRED", Message: "Recurring transaction has passed its end date", StatusCode: http.StatusBadRequest}
	ErrRecurringNotDue     = &AppError{Code: "RECURRING_NOT_DUE", Message: "Recurring transaction is not due yet", StatusCode: http.StatusBadRequest}
	ErrInvalidSchedule     = &AppError{Code: "INVALID_SCHEDULE", Message: "Invalid recurrence schedule", StatusCode: http.StatusBadRequest}
	ErrConcurrentExecution = &AppError{Code: "RECURRING_CONCURRENT_EXECUTION", Message: "Recurring transaction was modified concurrently, retry the request", StatusCode: http.StatusConflict}
)

// Budget errors.
var (
	ErrBudgetNotFound  = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudget = &AppError{Code: "DUPLICATE_BUDGET", Message: "An active budget already covers this category and period", StatusCode: http.StatusConflict}
)

// Notification errors.
var (
	ErrNotificationNotFound = &AppError{Code: "NOTIFICATION_NOT_FOUND", Message: "Notification not found", StatusCode: http.StatusNotFound}
)

// Partnership errors.
var (
	ErrPartnershipNotFound = &AppError{Code: "PARTNERSHIP_NOT_FOUND", Message: "Partnership not found", StatusCode: http.StatusNotFound}
	ErrPartnershipExists   = &AppError{Code: "PARTNERSHIP_EXISTS", Message: "A partner is already set", StatusCode: http.StatusConflict}
	ErrInvalidInvitation   = &AppError{Code: "INVALID_INVITATION", Message: "Invalid or expired invitation code", StatusCode: http.StatusBadRequest}
	ErrOwnInvitation       = &AppError{Code: "OWN_INVITATION", Message: "You cannot join your own invitation", StatusCode: http.StatusBadRequest}
	ErrPartnershipRequired = &AppError{Code: "PARTNERSHIP_REQUIRED", Message: "Shared transactions require an active partnership", StatusCode: http.StatusBadRequest}
)
