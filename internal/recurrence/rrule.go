package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = [...]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

var toRRuleFreq = map[Frequency]rrule.Frequency{
	FrequencyDaily:   rrule.DAILY,
	FrequencyWeekly:  rrule.WEEKLY,
	FrequencyMonthly: rrule.MONTHLY,
	FrequencyYearly:  rrule.YEARLY,
}

// Imported is a rule definition read from an RFC 5545 RRULE string.
type Imported struct {
	Schedule      Schedule
	MaxExecutions *int
	EndDate       *time.Time
}

// ToRRule renders s and the end conditions of st as an RRULE value without
// the "RRULE:" prefix, e.g. "FREQ=MONTHLY;INTERVAL=1;COUNT=12;BYMONTHDAY=31".
// COUNT carries the executions still remaining, not the original cap. RFC 5545
// allows only one of COUNT and UNTIL, so when both apply the one that stops
// the rule first is kept. A rule that can no longer fire renders as "".
func ToRRule(s Schedule, st State) string {
	remaining := st.Remaining()
	if !st.IsActive || (remaining != nil && *remaining == 0) {
		return ""
	}

	opt := rrule.ROption{
		Freq:     toRRuleFreq[s.Frequency()],
		Interval: s.Interval(),
	}
	switch v := s.(type) {
	case WeeklySchedule:
		if v.On != nil {
			opt.Byweekday = []rrule.Weekday{rruleWeekdays[*v.On]}
		}
	case MonthlySchedule:
		if v.Day != nil {
			opt.Bymonthday = []int{*v.Day}
		}
	}
	switch {
	case remaining != nil && st.EndDate != nil:
		if len(Upcoming(s, st, *remaining)) < *remaining {
			opt.Until = Day(*st.EndDate)
		} else {
			opt.Count = *remaining
		}
	case remaining != nil:
		opt.Count = *remaining
	case st.EndDate != nil:
		opt.Until = Day(*st.EndDate)
	}
	return opt.RRuleString()
}

// FromRRule parses an RRULE value. Only FREQ, INTERVAL, a single BYDAY (weekly),
// a single BYMONTHDAY (monthly), COUNT and UNTIL are understood; anything the
// engine cannot represent is rejected with ErrInvalidSchedule.
func FromRRule(value string) (Imported, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "RRULE:")
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return Imported{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	var freq Frequency
	for f, rf := range toRRuleFreq {
		if rf == opt.Freq {
			freq = f
		}
	}
	if freq == "" {
		return Imported{}, fmt.Errorf("%w: unsupported FREQ in %q", ErrInvalidSchedule, value)
	}
	if len(opt.Bymonth) > 0 || len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 ||
		len(opt.Bysetpos) > 0 || len(opt.Byhour) > 0 || len(opt.Byminute) > 0 {
		return Imported{}, fmt.Errorf("%w: unsupported BY rule part in %q", ErrInvalidSchedule, value)
	}

	interval := opt.Interval
	if interval == 0 {
		interval = 1
	}

	var dom, dow *int
	switch {
	case len(opt.Byweekday) > 1, len(opt.Bymonthday) > 1:
		return Imported{}, fmt.Errorf("%w: only one BYDAY or BYMONTHDAY value is supported", ErrInvalidSchedule)
	case len(opt.Byweekday) == 1:
		if freq != FrequencyWeekly || opt.Byweekday[0].N() != 0 {
			return Imported{}, fmt.Errorf("%w: BYDAY requires FREQ=WEEKLY", ErrInvalidSchedule)
		}
		d := opt.Byweekday[0].Day()
		dow = &d
	case len(opt.Bymonthday) == 1:
		if freq != FrequencyMonthly {
			return Imported{}, fmt.Errorf("%w: BYMONTHDAY requires FREQ=MONTHLY", ErrInvalidSchedule)
		}
		d := opt.Bymonthday[0]
		dom = &d
	}

	s, err := NewSchedule(freq, interval, dom, dow)
	if err != nil {
		return Imported{}, err
	}
	imp := Imported{Schedule: s}
	if opt.Count > 0 {
		c := opt.Count
		imp.MaxExecutions = &c
	}
	if !opt.Until.IsZero() {
		u := Day(opt.Until)
		imp.EndDate = &u
	}
	return imp, nil
}
