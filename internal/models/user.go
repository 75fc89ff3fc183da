package models

// User is the owner of categories, transactions, budgets and recurring rules.
// Accounts are provisioned by the identity service; this API only reads them.
type User struct {
	Base
	Email                 string                 `gorm:"uniqueIndex;not null" json:"email"`
	Password              string                 `gorm:"not null" json:"-"`
	DisplayName           string                 `json:"display_name"`
	IsActive              bool                   `gorm:"default:true" json:"is_active"`
	Categories            []Category             `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions          []Transaction          `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Budgets               []Budget               `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	RecurringTransactions []RecurringTransaction `gorm:"foreignKey:UserID" json:"recurring_transactions,omitempty"`
}
