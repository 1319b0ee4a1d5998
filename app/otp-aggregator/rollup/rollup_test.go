package rollup

import (
	"errors"
	"testing"
	"time"
)

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Test_aggregateRange(t *testing.T) {
	var processed []time.Time
	aggregate := func(serviceDate time.Time) (Result, error) {
		processed = append(processed, serviceDate)
		return Result{ServiceDate: serviceDate, DailyCount: 1}, nil
	}

	results, err := aggregateRange(testDate(2026, 1, 10), testDate(2026, 1, 13), aggregate)
	if err != nil {
		t.Errorf("aggregateRange() error = %v", err)
		return
	}
	if len(results) != 4 {
		t.Errorf("aggregateRange() produced %v results, want 4 for inclusive range", len(results))
		return
	}
	for i, expected := range []time.Time{
		testDate(2026, 1, 10),
		testDate(2026, 1, 11),
		testDate(2026, 1, 12),
		testDate(2026, 1, 13),
	} {
		if !processed[i].Equal(expected) {
			t.Errorf("aggregateRange() processed %v at position %v, want %v, dates must run ascending",
				processed[i], i, expected)
		}
	}
}

func Test_aggregateRange_singleDay(t *testing.T) {
	results, err := aggregateRange(testDate(2026, 1, 10), testDate(2026, 1, 10),
		func(serviceDate time.Time) (Result, error) {
			return Result{ServiceDate: serviceDate}, nil
		})
	if err != nil {
		t.Errorf("aggregateRange() error = %v", err)
		return
	}
	if len(results) != 1 {
		t.Errorf("aggregateRange() produced %v results, want 1 when start equals end", len(results))
	}
}

func Test_aggregateRange_emptyWhenStartAfterEnd(t *testing.T) {
	results, err := aggregateRange(testDate(2026, 1, 13), testDate(2026, 1, 10),
		func(serviceDate time.Time) (Result, error) {
			t.Errorf("aggregate called for %v, should never be called", serviceDate)
			return Result{}, nil
		})
	if err != nil {
		t.Errorf("aggregateRange() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("aggregateRange() produced %v results, want 0", len(results))
	}
}

func Test_aggregateRange_stopsAtFirstFailure(t *testing.T) {
	failure := errors.New("database gone")
	failOn := testDate(2026, 1, 12)
	var processed []time.Time

	results, err := aggregateRange(testDate(2026, 1, 10), testDate(2026, 1, 14),
		func(serviceDate time.Time) (Result, error) {
			processed = append(processed, serviceDate)
			if serviceDate.Equal(failOn) {
				return Result{}, failure
			}
			return Result{ServiceDate: serviceDate}, nil
		})

	if !errors.Is(err, failure) {
		t.Errorf("aggregateRange() error = %v, want %v", err, failure)
	}
	//results hold only the dates completed before the failure
	if len(results) != 2 {
		t.Errorf("aggregateRange() kept %v results, want 2 completed before failure", len(results))
	}
	//the failing date was attempted, later dates were not
	if len(processed) != 3 {
		t.Errorf("aggregateRange() attempted %v dates, want 3, dates after a failure must not run", len(processed))
	}
}

func Test_transitHolidayCalendar(t *testing.T) {
	holidays := makeTransitHolidayCalendar()
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "christmas day", at: testDate(2026, 12, 25), want: true},
		{name: "canada day", at: testDate(2026, 7, 1), want: true},
		{name: "new years day", at: testDate(2026, 1, 1), want: true},
		{name: "ordinary wednesday", at: testDate(2026, 1, 14), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := holidays.isHoliday(tt.at); got != tt.want {
				t.Errorf("isHoliday(%v) = %v, want %v", tt.at.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
