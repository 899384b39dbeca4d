package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(i int) *int              { return &i }
func timePtr(t time.Time) *time.Time { return &t }

func TestNextOccurrenceDaily(t *testing.T) {
	rule := Rule{Frequency: FrequencyDaily, IntervalCount: 1}
	next := NextOccurrence(rule, date(2024, time.March, 14))
	require.NotNil(t, next)
	require.Equal(t, date(2024, time.March, 15), *next)

	rule.IntervalCount = 10
	next = NextOccurrence(rule, date(2024, time.March, 25))
	require.Equal(t, date(2024, time.April, 4), *next)
}

func TestNextOccurrenceWeekly(t *testing.T) {
	rule := Rule{Frequency: FrequencyWeekly, IntervalCount: 2}
	next := NextOccurrence(rule, date(2024, time.March, 4)) // a Monday
	require.Equal(t, date(2024, time.March, 18), *next)
}

func TestNextOccurrenceWeeklyWithWeekdayConstraint(t *testing.T) {
	rule := Rule{
		Frequency:     FrequencyWeekly,
		IntervalCount: 1,
		DaysOfWeek:    []time.Weekday{time.Friday},
	}
	// Mon 2024-03-04 + 7d = Mon 2024-03-11, advanced to Fri 2024-03-15.
	next := NextOccurrence(rule, date(2024, time.March, 4))
	require.Equal(t, date(2024, time.March, 15), *next)
	require.Equal(t, time.Friday, next.Weekday())
}

func TestNextOccurrenceMonthlyClamping(t *testing.T) {
	rule := Rule{Frequency: FrequencyMonthly, IntervalCount: 1, DayOfMonth: intPtr(31)}

	// Leap year: Jan 31 -> Feb 29.
	next := NextOccurrence(rule, date(2024, time.January, 31))
	require.Equal(t, date(2024, time.February, 29), *next)

	// Non-leap: Jan 31 -> Feb 28.
	next = NextOccurrence(rule, date(2023, time.January, 31))
	require.Equal(t, date(2023, time.February, 28), *next)

	// 30-day month clamps to the 30th.
	next = NextOccurrence(rule, date(2024, time.March, 31))
	require.Equal(t, date(2024, time.April, 30), *next)
}

func TestNextOccurrenceMonthlyWithoutDayOfMonth(t *testing.T) {
	rule := Rule{Frequency: FrequencyMonthly, IntervalCount: 1}
	// Keeps the reference day, clamped when the target month is shorter.
	next := NextOccurrence(rule, date(2024, time.January, 30))
	require.Equal(t, date(2024, time.February, 29), *next)

	next = NextOccurrence(rule, date(2024, time.April, 15))
	require.Equal(t, date(2024, time.May, 15), *next)
}

func TestNextOccurrenceQuarterly(t *testing.T) {
	rule := Rule{Frequency: FrequencyQuarterly, IntervalCount: 1, DayOfMonth: intPtr(31)}
	next := NextOccurrence(rule, date(2024, time.March, 31))
	require.Equal(t, date(2024, time.June, 30), *next)
}

func TestNextOccurrenceYearlyLeapDay(t *testing.T) {
	rule := Rule{Frequency: FrequencyYearly, IntervalCount: 1}
	next := NextOccurrence(rule, date(2024, time.February, 29))
	require.Equal(t, date(2025, time.February, 28), *next)

	rule.IntervalCount = 4
	next = NextOccurrence(rule, date(2024, time.February, 29))
	require.Equal(t, date(2028, time.February, 29), *next)
}

func TestNextOccurrenceTermination(t *testing.T) {
	rule := Rule{
		Frequency:     FrequencyDaily,
		IntervalCount: 1,
		EndDate:       timePtr(date(2024, time.March, 15)),
	}
	require.NotNil(t, NextOccurrence(rule, date(2024, time.March, 14)))
	require.Nil(t, NextOccurrence(rule, date(2024, time.March, 15)))

	rule = Rule{
		Frequency:       FrequencyDaily,
		IntervalCount:   1,
		MaxOccurrences:  intPtr(3),
		GenerationCount: 3,
	}
	require.Nil(t, NextOccurrence(rule, date(2024, time.March, 14)))

	rule.GenerationCount = 2
	require.NotNil(t, NextOccurrence(rule, date(2024, time.March, 14)))
}

func TestNextOccurrenceInvalidIntervalTreatedAsOne(t *testing.T) {
	for _, interval := range []int{0, -5} {
		rule := Rule{Frequency: FrequencyDaily, IntervalCount: interval}
		next := NextOccurrence(rule, date(2024, time.March, 14))
		require.NotNil(t, next)
		require.Equal(t, date(2024, time.March, 15), *next)
	}
}

func TestNextOccurrenceUnknownFrequency(t *testing.T) {
	rule := Rule{Frequency: Frequency("fortnightly"), IntervalCount: 1}
	require.Nil(t, NextOccurrence(rule, date(2024, time.March, 14)))
}

// The scheduler must strictly advance for every frequency and reference date.
func TestNextOccurrenceMonotonicAdvance(t *testing.T) {
	refs := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.December, 31),
		date(2023, time.June, 15),
	}
	freqs := []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly}
	for _, f := range freqs {
		for _, ref := range refs {
			for _, interval := range []int{0, 1, 2, 6} {
				rule := Rule{Frequency: f, IntervalCount: interval, DayOfMonth: intPtr(31)}
				next := NextOccurrence(rule, ref)
				require.NotNil(t, next, "freq=%s ref=%s interval=%d", f, ref, interval)
				require.True(t, next.After(ref), "freq=%s ref=%s interval=%d next=%s", f, ref, interval, next)
			}
		}
	}
}
