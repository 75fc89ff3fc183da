// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"moneylovers/internal/models"
	"moneylovers/internal/recurrence"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("sharing_type", validateSharingType)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("frequency", validateFrequency)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("notification_type", validateNotificationType)
		_ = v.RegisterValidation("notification_priority", validateNotificationPriority)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return true
	}
	return false
}

func validateSharingType(fl validator.FieldLevel) bool {
	switch models.SharingType(fl.Field().String()) {
	case models.SharingTypePersonal, models.SharingTypeShared:
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch models.PaymentMethod(fl.Field().String()) {
	case models.PaymentMethodCash, models.PaymentMethodCreditCard,
		models.PaymentMethodBankTransfer, models.PaymentMethodDigitalWallet:
		return true
	}
	return false
}

func validateFrequency(fl validator.FieldLevel) bool {
	return recurrence.Frequency(fl.Field().String()).Valid()
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch models.BudgetPeriod(fl.Field().String()) {
	case models.BudgetPeriodMonthly, models.BudgetPeriodYearly, models.BudgetPeriodCustom:
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch models.NotificationType(fl.Field().String()) {
	case models.NotificationTypeRecurringExecuted, models.NotificationTypeRecurringCompleted,
		models.NotificationTypeBudgetWarning, models.NotificationTypeBudgetExceeded:
		return true
	}
	return false
}

func validateNotificationPriority(fl validator.FieldLevel) bool {
	switch models.NotificationPriority(fl.Field().String()) {
	case models.NotificationPriorityLow, models.NotificationPriorityNormal,
		models.NotificationPriorityHigh, models.NotificationPriorityUrgent:
		return true
	}
	return false
}
