package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// SharingType tells whether a transaction is personal or shared with a partner
type SharingType string

const (
	SharingTypePersonal SharingType = "personal"
	SharingTypeShared   SharingType = "shared"
)

// PaymentMethod represents how a transaction was paid
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
)

// Transaction represents a financial transaction in the system
type Transaction struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID      string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" swaggertype:"string" example:"1200.00"`
	TransactionType TransactionType `gorm:"size:10;not null" json:"transaction_type"`
	SharingType     SharingType     `gorm:"size:10;not null" json:"sharing_type"`
	PaymentMethod   *PaymentMethod  `gorm:"size:20" json:"payment_method,omitempty"`
	Description     string          `gorm:"type:text" json:"description"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`

	// Set on rows produced by a recurring transaction.
	SourceRuleID *string `gorm:"type:uuid;index" json:"source_rule_id,omitempty"`
	// Set on shared rows to the partnership active when they were recorded.
	PartnershipID *string `gorm:"type:uuid;index" json:"partnership_id,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// IsGenerated reports whether the transaction was materialized from a
// recurring transaction.
func (t *Transaction) IsGenerated() bool {
	return t.SourceRuleID != nil
}
