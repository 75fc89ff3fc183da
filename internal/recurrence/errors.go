package recurrence

import "errors"

var (
	// ErrInvalidSchedule is returned when rule fields are out of range.
	ErrInvalidSchedule = errors.New("invalid recurrence schedule")
	// ErrInactive is returned when executing a deactivated rule.
	ErrInactive = errors.New("recurring rule is not active")
	// ErrExhausted is returned when the rule reached max_executions.
	ErrExhausted = errors.New("maximum number of executions reached")
	// ErrExpired is returned when the execution date is past end_date.
	ErrExpired = errors.New("recurring rule has passed its end date")
	// ErrNotDue is returned by conditional execution when next_execution_date
	// is still in the future.
	ErrNotDue = errors.New("recurring rule is not due")
)
