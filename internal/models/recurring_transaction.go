package models

import (
	"time"

	"moneylovers/internal/recurrence"

	"github.com/shopspring/decimal"
)

// RecurringTransaction is a user-owned rule that produces a Transaction on
// every execution. Rules are never deleted; deactivation is the end state.
type RecurringTransaction struct {
	Base
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string `gorm:"type:uuid;not null" json:"category_id"`

	// Template copied into every generated transaction.
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" swaggertype:"string" example:"85000.00"`
	TransactionType TransactionType `gorm:"size:10;not null" json:"transaction_type"`
	SharingType     SharingType     `gorm:"size:10;not null" json:"sharing_type"`
	PaymentMethod   *PaymentMethod  `gorm:"size:20" json:"payment_method,omitempty"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`

	// Recurrence
	Frequency     recurrence.Frequency `gorm:"size:20;not null" json:"frequency" swaggertype:"string" enums:"daily,weekly,monthly,yearly"`
	IntervalValue int                  `gorm:"not null;default:1" json:"interval_value"`
	DayOfMonth    *int                 `json:"day_of_month,omitempty"`
	DayOfWeek     *int                 `json:"day_of_week,omitempty"`

	// Scheduling state
	NextExecutionDate time.Time  `gorm:"type:date;not null;index" json:"next_execution_date"`
	LastExecutionDate *time.Time `gorm:"type:date" json:"last_execution_date,omitempty"`
	EndDate           *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	ExecutionCount    int        `gorm:"not null;default:0" json:"execution_count"`
	MaxExecutions     *int       `json:"max_executions,omitempty"`
	IsActive          bool       `gorm:"not null;default:true;index" json:"is_active"`

	// Incremented on every scheduling write; updates are conditional on it.
	Version int `gorm:"not null;default:1" json:"version"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Schedule returns the recurrence schedule stored on the rule.
func (r *RecurringTransaction) Schedule() (recurrence.Schedule, error) {
	return recurrence.NewSchedule(r.Frequency, r.IntervalValue, r.DayOfMonth, r.DayOfWeek)
}

// State returns the scheduling bookkeeping of the rule.
func (r *RecurringTransaction) State() recurrence.State {
	return recurrence.State{
		NextExecutionDate: r.NextExecutionDate,
		LastExecutionDate: r.LastExecutionDate,
		EndDate:           r.EndDate,
		ExecutionCount:    r.ExecutionCount,
		MaxExecutions:     r.MaxExecutions,
		IsActive:          r.IsActive,
	}
}

// ToRule converts the stored row into the engine representation.
func (r *RecurringTransaction) ToRule() (recurrence.Rule, error) {
	s, err := r.Schedule()
	if err != nil {
		return recurrence.Rule{}, err
	}
	var pm *string
	if r.PaymentMethod != nil {
		v := string(*r.PaymentMethod)
		pm = &v
	}
	return recurrence.Rule{
		ID:      r.ID,
		OwnerID: r.UserID,
		Template: recurrence.Template{
			CategoryID:      r.CategoryID,
			Amount:          r.Amount,
			TransactionType: string(r.TransactionType),
			SharingType:     string(r.SharingType),
			PaymentMethod:   pm,
			Description:     r.Description,
		},
		Schedule: s,
		State:    r.State(),
	}, nil
}

// ApplyState copies the four fields an execution changes back onto the row.
func (r *RecurringTransaction) ApplyState(st recurrence.State) {
	r.NextExecutionDate = st.NextExecutionDate
	r.LastExecutionDate = st.LastExecutionDate
	r.ExecutionCount = st.ExecutionCount
	r.IsActive = st.IsActive
}

// RemainingExecutions returns max_executions - execution_count, or nil when
// the rule is uncapped.
func (r *RecurringTransaction) RemainingExecutions() *int {
	return r.State().Remaining()
}

// NewTransactionFromOccurrence builds the row persisted for one execution.
func NewTransactionFromOccurrence(o recurrence.Occurrence) *Transaction {
	ruleID := o.RuleID
	tx := &Transaction{
		UserID:          o.OwnerID,
		CategoryID:      o.CategoryID,
		Amount:          o.Amount,
		TransactionType: TransactionType(o.TransactionType),
		SharingType:     SharingType(o.SharingType),
		Description:     o.Description,
		TransactionDate: o.TransactionDate,
		SourceRuleID:    &ruleID,
	}
	if o.PaymentMethod != nil {
		pm := PaymentMethod(*o.PaymentMethod)
		tx.PaymentMethod = &pm
	}
	return tx
}
