package recurrence

import "time"

// State is the mutable scheduling bookkeeping of a rule. All dates are
// calendar dates (see Day).
type State struct {
	NextExecutionDate time.Time
	LastExecutionDate *time.Time
	EndDate           *time.Time
	ExecutionCount    int
	MaxExecutions     *int
	IsActive          bool
}

// IsDue reports whether the rule is active and its next execution date is on
// or before asOf.
func (s State) IsDue(asOf time.Time) bool {
	return s.IsActive && !Day(s.NextExecutionDate).After(Day(asOf))
}

// CanExecute checks the terminal conditions for an execution on asOf. It does
// not look at IsActive or at the due date.
func (s State) CanExecute(asOf time.Time) error {
	if s.MaxExecutions != nil && s.ExecutionCount >= *s.MaxExecutions {
		return ErrExhausted
	}
	if s.EndDate != nil && Day(asOf).After(Day(*s.EndDate)) {
		return ErrExpired
	}
	return nil
}

// RecordExecution returns the state after an execution on executionDate whose
// successor is nextDate. Only LastExecutionDate, ExecutionCount,
// NextExecutionDate and IsActive change. The rule deactivates when it reached
// its cap or when nextDate falls past the end date.
func (s State) RecordExecution(executionDate, nextDate time.Time) State {
	last := Day(executionDate)
	s.LastExecutionDate = &last
	s.ExecutionCount++
	s.NextExecutionDate = Day(nextDate)

	if s.MaxExecutions != nil && s.ExecutionCount >= *s.MaxExecutions {
		s.IsActive = false
	}
	if s.EndDate != nil && s.NextExecutionDate.After(Day(*s.EndDate)) {
		s.IsActive = false
	}
	return s
}

// Remaining returns the executions left before the cap, or nil when the rule
// is uncapped. It never goes below zero.
func (s State) Remaining() *int {
	if s.MaxExecutions == nil {
		return nil
	}
	r := *s.MaxExecutions - s.ExecutionCount
	if r < 0 {
		r = 0
	}
	return &r
}
