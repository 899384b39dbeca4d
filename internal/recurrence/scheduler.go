// Package recurrence computes the next occurrence date for recurring tasks,
// transactions and reminders. Pure date arithmetic; callers persist the
// returned date and advance the generation counter themselves.
package recurrence

import "time"

type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// Rule is the in-memory view of a stored recurrence rule.
type Rule struct {
	Frequency     Frequency
	IntervalCount int
	// DaysOfWeek restricts weekly occurrences to the listed weekdays.
	DaysOfWeek []time.Weekday
	// DayOfMonth pins monthly/quarterly/yearly occurrences to a day, clamped
	// to the last valid day of the target month.
	DayOfMonth      *int
	EndDate         *time.Time
	MaxOccurrences  *int
	GenerationCount int
}

// NextOccurrence returns the next date strictly after reference, or nil when
// the rule has run out (end date passed or max occurrences reached). The
// result always advances: interval counts below 1 are treated as 1.
func NextOccurrence(rule Rule, reference time.Time) *time.Time {
	if rule.MaxOccurrences != nil && rule.GenerationCount+1 > *rule.MaxOccurrences {
		return nil
	}

	interval := rule.IntervalCount
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch rule.Frequency {
	case FrequencyDaily:
		next = reference.AddDate(0, 0, interval)
	case FrequencyWeekly:
		next = applyWeekdayConstraint(reference.AddDate(0, 0, interval*7), rule.DaysOfWeek)
	case FrequencyMonthly:
		next = addMonthsClamped(reference, interval, rule.DayOfMonth)
	case FrequencyQuarterly:
		next = addMonthsClamped(reference, interval*3, rule.DayOfMonth)
	case FrequencyYearly:
		next = addMonthsClamped(reference, interval*12, rule.DayOfMonth)
	default:
		return nil
	}

	if rule.EndDate != nil && next.After(*rule.EndDate) {
		return nil
	}
	return &next
}

// addMonthsClamped steps months months forward from reference and lands on
// dayOfMonth (or the reference day), clamped to the last valid day of the
// target month so Jan 31 + 1 month is Feb 29/28, never Mar 2.
func addMonthsClamped(reference time.Time, months int, dayOfMonth *int) time.Time {
	day := reference.Day()
	if dayOfMonth != nil && *dayOfMonth >= 1 {
		day = *dayOfMonth
	}
	firstOfTarget := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location()).AddDate(0, months, 0)
	if max := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > max {
		day = max
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		reference.Hour(), reference.Minute(), reference.Second(), reference.Nanosecond(), reference.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// applyWeekdayConstraint advances day by day (at most a week) until the date
// falls on an allowed weekday. An empty list allows every weekday.
func applyWeekdayConstraint(date time.Time, allowed []time.Weekday) time.Time {
	if len(allowed) == 0 {
		return date
	}
	allowedSet := make(map[time.Weekday]bool, len(allowed))
	for _, wd := range allowed {
		allowedSet[wd] = true
	}
	for i := 0; i < 7; i++ {
		if allowedSet[date.Weekday()] {
			return date
		}
		date = date.AddDate(0, 0, 1)
	}
	return date
}
