package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
	BudgetPeriodCustom  BudgetPeriod = "custom"
)

// DefaultAlertThreshold is the spending percentage that raises a budget alert.
var DefaultAlertThreshold = decimal.NewFromInt(80)

// Budget represents a spending plan, either for one category or overall.
type Budget struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID     *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" swaggertype:"string" example:"50000.00"`
	Period         BudgetPeriod    `gorm:"size:20;not null" json:"period"`
	StartDate      time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate        *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	AlertThreshold decimal.Decimal `gorm:"type:numeric(5,2);not null;default:80" json:"alert_threshold" swaggertype:"string" example:"80"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	IsLoveBudget   bool            `gorm:"not null;default:false" json:"is_love_budget"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
