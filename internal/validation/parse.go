package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the input format of date fields.
const DateLayout = "2006-01-02"

var (
	ErrNotANumber = errors.New("not a number")
	ErrNotADate   = errors.New("not a date")
)

// ParseNumber coerces form input into a number. Empty input yields nil
// without error. Both "19.5" and "19,5" are accepted; a thousands separator
// is accepted when both marks are present ("1.234,50" or "1,234.50").
func ParseNumber(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	s = strings.ReplaceAll(s, " ", "")
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrNotANumber
	}
	return &v, nil
}

// ParseDate coerces form input in DateLayout into a date in loc. Empty input
// yields nil without error.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, ErrNotADate
	}
	return &t, nil
}

// FormatNumber renders a number for an input field without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDate renders a date for an input field.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
