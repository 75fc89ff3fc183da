// Package recurrence implements the recurring-transaction engine: schedule
// arithmetic, execution bookkeeping and materialization of concrete
// transactions from a rule. It has no storage or HTTP dependencies.
package recurrence

import (
	"fmt"
	"time"
)

// Frequency is the period unit of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Weekday is a day of the week counted from Monday = 0 to Sunday = 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf returns the Monday-based weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Schedule computes the next occurrence of a rule. The concrete types are
// DailySchedule, WeeklySchedule, MonthlySchedule and YearlySchedule; each
// carries only the anchor that is meaningful for its frequency.
type Schedule interface {
	Frequency() Frequency
	Interval() int
	// Next returns the first occurrence strictly after current.
	Next(current time.Time) time.Time
	schedule()
}

// DailySchedule fires every Every days.
type DailySchedule struct {
	Every int
}

// WeeklySchedule fires every Every weeks, optionally anchored to a weekday.
type WeeklySchedule struct {
	Every int
	On    *Weekday
}

// MonthlySchedule fires every Every months, optionally anchored to a day of
// the month. Anchors past the end of a short month clamp to its last day.
type MonthlySchedule struct {
	Every int
	Day   *int
}

// YearlySchedule fires every Every years on the same month and day.
type YearlySchedule struct {
	Every int
}

func (DailySchedule) Frequency() Frequency   { return FrequencyDaily }
func (WeeklySchedule) Frequency() Frequency  { return FrequencyWeekly }
func (MonthlySchedule) Frequency() Frequency { return FrequencyMonthly }
func (YearlySchedule) Frequency() Frequency  { return FrequencyYearly }

func (s DailySchedule) Interval() int   { return s.Every }
func (s WeeklySchedule) Interval() int  { return s.Every }
func (s MonthlySchedule) Interval() int { return s.Every }
func (s YearlySchedule) Interval() int  { return s.Every }

func (DailySchedule) schedule()   {}
func (WeeklySchedule) schedule()  {}
func (MonthlySchedule) schedule() {}
func (YearlySchedule) schedule()  {}

// Next implements Schedule.
func (s DailySchedule) Next(current time.Time) time.Time {
	return current.AddDate(0, 0, s.Every)
}

// Next implements Schedule. With an anchor, a target weekday that is today or
// already behind in the current week rolls forward Every whole weeks.
func (s WeeklySchedule) Next(current time.Time) time.Time {
	if s.On == nil {
		return current.AddDate(0, 0, 7*s.Every)
	}
	daysAhead := int(*s.On) - int(WeekdayOf(current))
	if daysAhead <= 0 {
		daysAhead += 7 * s.Every
	}
	return current.AddDate(0, 0, daysAhead)
}

// Next implements Schedule.
func (s MonthlySchedule) Next(current time.Time) time.Time {
	next := addMonths(current, s.Every)
	if s.Day == nil {
		return next
	}
	day := *s.Day
	if last := daysIn(next.Year(), next.Month()); day > last {
		day = last
	}
	return time.Date(next.Year(), next.Month(), day,
		next.Hour(), next.Minute(), next.Second(), next.Nanosecond(), next.Location())
}

// Next implements Schedule.
func (s YearlySchedule) Next(current time.Time) time.Time {
	return addMonths(current, 12*s.Every)
}

// addMonths adds calendar months, clamping the day of month to the last day
// of the resulting month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	year := y + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := daysIn(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NewSchedule builds the schedule variant for freq from the flat rule columns.
// Anchors are range-checked but only the one relevant to freq is kept:
// dayOfWeek is read for weekly rules, dayOfMonth for monthly rules.
func NewSchedule(freq Frequency, interval int, dayOfMonth, dayOfWeek *int) (Schedule, error) {
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, freq)
	}
	if interval < 1 {
		return nil, fmt.Errorf("%w: interval must be at least 1, got %d", ErrInvalidSchedule, interval)
	}
	if dayOfMonth != nil && (*dayOfMonth < 1 || *dayOfMonth > 31) {
		return nil, fmt.Errorf("%w: day_of_month must be between 1 and 31, got %d", ErrInvalidSchedule, *dayOfMonth)
	}
	if dayOfWeek != nil && (*dayOfWeek < 0 || *dayOfWeek > 6) {
		return nil, fmt.Errorf("%w: day_of_week must be between 0 and 6, got %d", ErrInvalidSchedule, *dayOfWeek)
	}

	switch freq {
	case FrequencyDaily:
		return DailySchedule{Every: interval}, nil
	case FrequencyWeekly:
		s := WeeklySchedule{Every: interval}
		if dayOfWeek != nil {
			wd := Weekday(*dayOfWeek)
			s.On = &wd
		}
		return s, nil
	case FrequencyMonthly:
		s := MonthlySchedule{Every: interval}
		if dayOfMonth != nil {
			d := *dayOfMonth
			s.Day = &d
		}
		return s, nil
	default:
		return YearlySchedule{Every: interval}, nil
	}
}

// Advance returns the next candidate date after current for the given flat
// rule fields.
func Advance(freq Frequency, interval int, current time.Time, dayOfMonth, dayOfWeek *int) (time.Time, error) {
	s, err := NewSchedule(freq, interval, dayOfMonth, dayOfWeek)
	if err != nil {
		return time.Time{}, err
	}
	return s.Next(current), nil
}

// Anchors returns the flat day_of_month and day_of_week columns for s.
func Anchors(s Schedule) (dayOfMonth, dayOfWeek *int) {
	switch v := s.(type) {
	case WeeklySchedule:
		if v.On != nil {
			d := int(*v.On)
			dayOfWeek = &d
		}
	case MonthlySchedule:
		if v.Day != nil {
			d := *v.Day
			dayOfMonth = &d
		}
	}
	return dayOfMonth, dayOfWeek
}

// Day truncates t to a calendar date at midnight UTC, keeping t's wall-clock
// year, month and day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
