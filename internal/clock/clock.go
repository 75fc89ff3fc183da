// Package clock provides the calendar date used for executing recurring
// transactions, so tests can pin "today".
package clock

import (
	"time"

	"moneylovers/internal/recurrence"
)

// Clock returns the current calendar date at midnight UTC.
type Clock interface {
	Today() time.Time
}

// System reads the wall clock in Location (UTC when nil).
type System struct {
	Location *time.Location
}

// Today implements Clock.
func (s System) Today() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return recurrence.Day(time.Now().In(loc))
}

// Fixed always returns the same date.
type Fixed time.Time

// Today implements Clock.
func (f Fixed) Today() time.Time {
	return recurrence.Day(time.Time(f))
}

// NewSystem returns a System clock for the named IANA zone.
func NewSystem(zone string) (System, error) {
	if zone == "" {
		return System{Location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return System{}, err
	}
	return System{Location: loc}, nil
}
