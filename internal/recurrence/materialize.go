package recurrence

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DescriptionTag prefixes the description of every generated transaction.
	DescriptionTag = "[recurring] "
	// GeneratedMarker is the description of generated transactions whose rule
	// has no description.
	GeneratedMarker = "[recurring transaction]"
)

// Template holds the fields copied into every generated transaction.
type Template struct {
	CategoryID      string
	Amount          decimal.Decimal
	TransactionType string
	SharingType     string
	PaymentMethod   *string
	Description     *string
}

// Rule is the engine view of a stored recurring transaction.
type Rule struct {
	ID       string
	OwnerID  string
	Template Template
	Schedule Schedule
	State    State
}

// Occurrence is the transaction produced by one execution of a rule.
type Occurrence struct {
	RuleID          string
	OwnerID         string
	CategoryID      string
	Amount          decimal.Decimal
	TransactionType string
	SharingType     string
	PaymentMethod   *string
	Description     string
	TransactionDate time.Time
}

// GeneratedDescription returns the description stamped on a transaction
// generated from a rule with the given description.
func GeneratedDescription(description *string) string {
	if description == nil || *description == "" {
		return GeneratedMarker
	}
	return DescriptionTag + *description
}

// Materialize executes rule on asOf without persisting anything. The next
// execution date is computed from asOf, not from the stored next date, so a
// late execution does not produce a backlog. The returned State must be
// persisted together with the occurrence.
func Materialize(rule Rule, asOf time.Time) (Occurrence, State, error) {
	if !rule.State.IsActive {
		return Occurrence{}, rule.State, ErrInactive
	}
	if err := rule.State.CanExecute(asOf); err != nil {
		return Occurrence{}, rule.State, err
	}

	today := Day(asOf)
	occ := Occurrence{
		RuleID:          rule.ID,
		OwnerID:         rule.OwnerID,
		CategoryID:      rule.Template.CategoryID,
		Amount:          rule.Template.Amount,
		TransactionType: rule.Template.TransactionType,
		SharingType:     rule.Template.SharingType,
		PaymentMethod:   rule.Template.PaymentMethod,
		Description:     GeneratedDescription(rule.Template.Description),
		TransactionDate: today,
	}

	next := rule.Schedule.Next(today)
	return occ, rule.State.RecordExecution(today, next), nil
}

// Upcoming lists up to n dates on which the rule would fire if executed on
// each due date, starting with the stored next execution date. It stops at
// the end date and at the remaining execution budget.
func Upcoming(s Schedule, st State, n int) []time.Time {
	if !st.IsActive || n <= 0 {
		return nil
	}
	budget := -1
	if r := st.Remaining(); r != nil {
		budget = *r
	}

	dates := make([]time.Time, 0, n)
	cur := Day(st.NextExecutionDate)
	for len(dates) < n && budget != 0 {
		if st.EndDate != nil && cur.After(Day(*st.EndDate)) {
			break
		}
		dates = append(dates, cur)
		if budget > 0 {
			budget--
		}
		cur = s.Next(cur)
	}
	return dates
}
