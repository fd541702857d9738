// Package reminder computes when a fixed-term electricity contract should be
// followed up: 11 months before it expires, so there is a one-month window to
// reach the customer before the contract rolls onto a default rate.
package reminder

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var ErrInvalidDurationCategory = errors.New("contract duration has no fixed expiry")

type DurationCategory string

const (
	TwelveMonths     DurationCategory = "12"
	TwentyFourMonths DurationCategory = "24"
	ThirtySixMonths  DurationCategory = "36"
	Variable         DurationCategory = "variable"
)

// leadMonths is how far ahead of expiry the reminder falls.
const leadMonths = 11

func ParseDurationCategory(s string) (DurationCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "12", "12m", "12mnd":
		return TwelveMonths, nil
	case "24", "24m", "24mnd":
		return TwentyFourMonths, nil
	case "36", "36m", "36mnd":
		return ThirtySixMonths, nil
	case "variable", "variabel":
		return Variable, nil
	}
	return "", errors.New("unknown contract duration: " + s)
}

// Months is the commitment length, or 0 when the category has no fixed term.
func (d DurationCategory) Months() int {
	switch d {
	case TwelveMonths:
		return 12
	case TwentyFourMonths:
		return 24
	case ThirtySixMonths:
		return 36
	}
	return 0
}

func (d DurationCategory) Fixed() bool {
	return d.Months() > 0
}

// ReminderDate returns start advanced by (duration - 11) months, clamped to the
// end of the target month. Variable contracts have no reminder.
func ReminderDate(start civil.Date, duration DurationCategory) (civil.Date, error) {
	if !duration.Fixed() {
		return civil.Date{}, ErrInvalidDurationCategory
	}
	return AddMonths(start, duration.Months()-leadMonths), nil
}

func ExpiryDate(start civil.Date, duration DurationCategory) (civil.Date, error) {
	if !duration.Fixed() {
		return civil.Date{}, ErrInvalidDurationCategory
	}
	return AddMonths(start, duration.Months()), nil
}

// AddMonths moves date by n calendar months keeping the day of month, or the
// last day of the target month when that day does not exist there.
func AddMonths(date civil.Date, n int) civil.Date {
	index := date.Year*12 + int(date.Month) - 1 + n

	year := index / 12
	month := index % 12
	if month < 0 {
		month += 12
		year--
	}

	result := civil.Date{Year: year, Month: time.Month(month + 1), Day: date.Day}
	if last := daysIn(result.Year, result.Month); result.Day > last {
		result.Day = last
	}
	return result
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
