// Package rocdate converts between the ROC (民國) calendar used by the
// MOA open-data API and Gregorian time.Time values.
//
// The ROC year is the Gregorian year minus 1911; the API writes dates as
// "113.01.05" (year not zero-padded, month/day usually zero-padded).
package rocdate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// yearOffset is the difference between Gregorian and ROC year numbering.
const yearOffset = 1911

var (
	// ErrMalformed reports a date string that does not match the
	// YYY.MM.DD grammar at all (wrong field count, non-numeric parts).
	ErrMalformed = errors.New("rocdate: malformed date string")

	// ErrOutOfRange reports a string that matches the grammar but names
	// an impossible calendar date, e.g. month 13 or day 40.
	ErrOutOfRange = errors.New("rocdate: date out of calendar range")
)

// Format renders t as the API's ROC date string, e.g. "113.01.05".
func Format(t time.Time) string {
	return fmt.Sprintf("%d.%02d.%02d", t.Year()-yearOffset, int(t.Month()), t.Day())
}

// Compact renders t as a ROC date string without dots, e.g. "1130105".
// Used in export filenames.
func Compact(t time.Time) string {
	return fmt.Sprintf("%d%02d%02d", t.Year()-yearOffset, int(t.Month()), t.Day())
}

// Parse parses a ROC date string "YYY.MM.DD" into a Gregorian date at
// midnight UTC. Month and day may be 1 or 2 digits.
//
// Errors wrap ErrMalformed or ErrOutOfRange so callers can tell a
// garbage string from a well-formed but impossible date; today both
// lead to the record being dropped, the split exists for diagnostics.
func Parse(s string) (time.Time, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	year, err := parseComponent(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year in %q", ErrMalformed, s)
	}
	month, err := parseComponent(parts[1])
	if err != nil || len(parts[1]) > 2 {
		return time.Time{}, fmt.Errorf("%w: month in %q", ErrMalformed, s)
	}
	day, err := parseComponent(parts[2])
	if err != nil || len(parts[2]) > 2 {
		return time.Time{}, fmt.Errorf("%w: day in %q", ErrMalformed, s)
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d in %q", ErrOutOfRange, month, s)
	}

	t := time.Date(year+yearOffset, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date normalizes overflow (Feb 30 becomes Mar 1); reject any
	// date that did not survive unchanged.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("%w: day %d in %q", ErrOutOfRange, day, s)
	}

	return t, nil
}

// parseComponent parses an unsigned decimal component. strconv.Atoi is
// too lenient here ("+5" must not pass the grammar).
func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty component")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.Atoi(s)
}
