// Package calendar holds timezone-naive date helpers and business-day arithmetic.
//
// Every date is a civil.Date: a year, month and day with no location attached, so a
// value can never move to the previous or next day through a UTC/local conversion.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const DateKeyLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseLocalDate accepts a YYYY-MM-DD string or an RFC 3339 timestamp. A timestamp keeps
// the calendar day written in it; the time of day and offset are dropped without conversion.
func ParseLocalDate(input string) (civil.Date, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return civil.Date{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	if len(s) == len(DateKeyLayout) {
		d, err := civil.ParseDate(s)
		if err != nil {
			return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		return d, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}
	// DateOf reads the fields in t's own offset, which is the day the caller wrote.
	return civil.DateOf(t), nil
}

func MustParse(input string) civil.Date {
	d, err := ParseLocalDate(input)
	if err != nil {
		panic(err)
	}
	return d
}

func FormatDateKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

func IsWeekend(d civil.Date) bool {
	wd := Weekday(d)
	return wd == time.Saturday || wd == time.Sunday
}

// SnapToBusinessDay moves a weekend date forward to the following Monday.
func SnapToBusinessDay(d civil.Date) civil.Date {
	switch Weekday(d) {
	case time.Saturday:
		return d.AddDays(2)
	case time.Sunday:
		return d.AddDays(1)
	default:
		return d
	}
}

// SnapLegacy is the material due-date rule the job start-date cascade used to apply:
// Saturday moves forward to Monday, Sunday moves back one day.
func SnapLegacy(d civil.Date) civil.Date {
	switch Weekday(d) {
	case time.Saturday:
		return d.AddDays(2)
	case time.Sunday:
		return d.AddDays(-1)
	default:
		return d
	}
}

// Today returns the calendar day of now in now's own location.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now)
}

func BusinessToday(now time.Time) civil.Date {
	return SnapToBusinessDay(Today(now))
}

func MinDate(a, b civil.Date) civil.Date {
	if b.Before(a) {
		return b
	}
	return a
}

func MaxDate(a, b civil.Date) civil.Date {
	if b.After(a) {
		return b
	}
	return a
}

func IsZero(d civil.Date) bool {
	return d == civil.Date{}
}
