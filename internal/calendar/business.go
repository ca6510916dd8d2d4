package calendar

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// MaxBusinessDays bounds task durations and phase extensions, roughly ten years.
const MaxBusinessDays = 3650

// AddBusinessDays walks n weekdays from d, forward for n > 0 and backward for n < 0.
// n == 0 snaps a weekend date forward to Monday. The result is always a weekday.
func AddBusinessDays(d civil.Date, n int) civil.Date {
	if n == 0 {
		return SnapToBusinessDay(d)
	}

	step := 1
	if n < 0 {
		step = -1
		n = -n
	}

	current := d
	// any seven consecutive days hold exactly five weekdays
	if n > 5 {
		weeks := (n - 1) / 5
		current = current.AddDays(step * 7 * weeks)
		n -= 5 * weeks
	}
	for added := 0; added < n; {
		current = current.AddDays(step)
		if !IsWeekend(current) {
			added++
		}
	}
	return current
}

// BusinessDaysBetween counts weekdays in (start, end]. Callers pass start <= end; a
// reversed range returns the negated forward count.
func BusinessDaysBetween(start, end civil.Date) int {
	if end.Before(start) {
		return -BusinessDaysBetween(end, start)
	}

	weeks := end.DaysSince(start) / 7
	count := 5 * weeks
	for current := start.AddDays(7*weeks + 1); !current.After(end); current = current.AddDays(1) {
		if !IsWeekend(current) {
			count++
		}
	}
	return count
}

// CalendarDaysBetween is the signed number of calendar days from a to b.
func CalendarDaysBetween(a, b civil.Date) int {
	return b.DaysSince(a)
}

// SnapRule selects how a date that lands on a weekend is moved onto a business day.
type SnapRule string

const (
	SnapForward          SnapRule = "forward"
	SnapLegacySundayBack SnapRule = "legacy"
)

func ParseSnapRule(s string) (SnapRule, error) {
	switch SnapRule(s) {
	case "", SnapForward:
		return SnapForward, nil
	case SnapLegacySundayBack:
		return SnapLegacySundayBack, nil
	default:
		return "", fmt.Errorf("unknown snap rule %q", s)
	}
}

func (r SnapRule) Apply(d civil.Date) civil.Date {
	if r == SnapLegacySundayBack {
		return SnapLegacy(d)
	}
	return SnapToBusinessDay(d)
}
