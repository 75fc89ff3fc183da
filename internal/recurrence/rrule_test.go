package recurrence

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/teambition/rrule-go"
)

func TestToRRule(t *testing.T) {
	end := date(2024, 12, 31)
	earlyEnd := date(2024, 3, 1)
	mon := Monday

	tests := []struct {
		name     string
		schedule Schedule
		state    State
		want     string
	}{
		{"daily", DailySchedule{Every: 1}, State{IsActive: true}, "FREQ=DAILY;INTERVAL=1"},
		{"weekly anchored", WeeklySchedule{Every: 2, On: &mon}, State{IsActive: true}, "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO"},
		{"monthly capped", MonthlySchedule{Every: 1, Day: intPtr(31)}, State{IsActive: true, ExecutionCount: 2, MaxExecutions: intPtr(12)}, "FREQ=MONTHLY;INTERVAL=1;COUNT=10;BYMONTHDAY=31"},
		{"yearly until", YearlySchedule{Every: 1}, State{IsActive: true, EndDate: &end}, "FREQ=YEARLY;INTERVAL=1;UNTIL=20241231T000000Z"},
		{
			"count stops first",
			MonthlySchedule{Every: 1, Day: intPtr(15)},
			State{IsActive: true, NextExecutionDate: date(2024, 1, 15), MaxExecutions: intPtr(3), EndDate: &end},
			"FREQ=MONTHLY;INTERVAL=1;COUNT=3;BYMONTHDAY=15",
		},
		{
			"until stops first",
			MonthlySchedule{Every: 1, Day: intPtr(15)},
			State{IsActive: true, NextExecutionDate: date(2024, 1, 15), MaxExecutions: intPtr(12), EndDate: &earlyEnd},
			"FREQ=MONTHLY;INTERVAL=1;UNTIL=20240301T000000Z;BYMONTHDAY=15",
		},
		{"exhausted", MonthlySchedule{Every: 1}, State{IsActive: true, ExecutionCount: 12, MaxExecutions: intPtr(12)}, ""},
		{"inactive", DailySchedule{Every: 1}, State{EndDate: &end}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRRule(tt.schedule, tt.state)
			if got != tt.want {
				t.Errorf("ToRRule() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "COUNT=") && strings.Contains(got, "UNTIL=") {
				t.Errorf("ToRRule() = %q carries both COUNT and UNTIL", got)
			}
		})
	}
}

func TestToRRule_RoundTrip(t *testing.T) {
	end := date(2024, 6, 30)
	st := State{IsActive: true, NextExecutionDate: date(2024, 1, 15), MaxExecutions: intPtr(12), EndDate: &end}
	value := ToRRule(MonthlySchedule{Every: 1, Day: intPtr(15)}, st)

	imp, err := FromRRule(value)
	if err != nil {
		t.Fatalf("unexpected error parsing %q: %v", value, err)
	}
	if imp.MaxExecutions != nil {
		t.Errorf("MaxExecutions = %d, want none", *imp.MaxExecutions)
	}
	if imp.EndDate == nil || !imp.EndDate.Equal(end) {
		t.Errorf("EndDate = %v, want %v", imp.EndDate, end)
	}
}

func TestFromRRule(t *testing.T) {
	imp, err := FromRRule("RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=FR;COUNT=6;UNTIL=20241231T000000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws, ok := imp.Schedule.(WeeklySchedule)
	if !ok {
		t.Fatalf("expected WeeklySchedule, got %T", imp.Schedule)
	}
	if ws.Every != 2 || ws.On == nil || *ws.On != Friday {
		t.Errorf("unexpected schedule: %+v", ws)
	}
	if imp.MaxExecutions == nil || *imp.MaxExecutions != 6 {
		t.Errorf("MaxExecutions = %v, want 6", imp.MaxExecutions)
	}
	if imp.EndDate == nil || !imp.EndDate.Equal(date(2024, 12, 31)) {
		t.Errorf("EndDate = %v, want 2024-12-31", imp.EndDate)
	}

	imp, err = FromRRule("FREQ=MONTHLY;BYMONTHDAY=15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ms, ok := imp.Schedule.(MonthlySchedule)
	if !ok || ms.Every != 1 || ms.Day == nil || *ms.Day != 15 {
		t.Errorf("unexpected schedule: %#v", imp.Schedule)
	}
}

func TestFromRRule_Rejects(t *testing.T) {
	for _, value := range []string{
		"not a rule",
		"FREQ=HOURLY",
		"FREQ=WEEKLY;BYDAY=MO,WE",
		"FREQ=MONTHLY;BYDAY=MO",
		"FREQ=DAILY;BYMONTHDAY=3",
		"FREQ=YEARLY;BYMONTH=3",
		"FREQ=MONTHLY;BYMONTHDAY=-1",
	} {
		t.Run(value, func(t *testing.T) {
			if _, err := FromRRule(value); !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("expected ErrInvalidSchedule, got %v", err)
			}
		})
	}
}

// Unanchored daily and weekly rules fire on the same dates as the RFC 5545
// expansion of their exported RRULE.
func TestUpcoming_MatchesRRuleExpansion(t *testing.T) {
	start := date(2024, 3, 4)
	for _, s := range []Schedule{DailySchedule{Every: 3}, WeeklySchedule{Every: 2}} {
		st := State{NextExecutionDate: start, MaxExecutions: intPtr(8), IsActive: true}
		opt, err := rrule.StrToROption(ToRRule(s, st))
		if err != nil {
			t.Fatalf("exported rule does not parse: %v", err)
		}
		opt.Dtstart = start
		r, err := rrule.NewRRule(*opt)
		if err != nil {
			t.Fatalf("NewRRule: %v", err)
		}
		want := r.All()
		got := Upcoming(s, st, 20)
		if len(got) != len(want) {
			t.Fatalf("%T: got %d dates, rrule expanded %d", s, len(got), len(want))
		}
		for i := range want {
			if !got[i].Equal(want[i].In(time.UTC)) {
				t.Errorf("%T date[%d] = %s, rrule %s", s, i, got[i], want[i])
			}
		}
	}
}
