package common

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CanonicalDateLayout is the YYYY.MM.DD form every mission date is stored
// and compared in.
const CanonicalDateLayout = "2006.01.02"

// ErrInvalidMissionDate is wrapped by every FormatError.
var ErrInvalidMissionDate = errors.New("unsupported mission date format")

// FormatError reports a mission date string that cannot be normalized.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return "empty mission date"
	}
	return fmt.Sprintf("%s: %q", ErrInvalidMissionDate.Error(), e.Value)
}

func (e *FormatError) Unwrap() error { return ErrInvalidMissionDate }

// NormalizeMissionDate converts any of
//
//	YYYY.MM.DD
//	YYYY-MM-DD
//	YYYY.MM.DD HH:MM:SS
//	YYYY-MM-DD HH:MM:SS
//
// to the canonical YYYY.MM.DD form. Only the first ten characters are
// inspected, so a trailing time of day is dropped.
func NormalizeMissionDate(raw string) (string, error) {
	if raw == "" {
		return "", &FormatError{Value: raw}
	}

	base := strings.TrimSpace(raw)
	if len(base) > 10 {
		base = base[:10]
	}
	base = strings.ReplaceAll(base, "-", ".")

	if _, err := time.Parse(CanonicalDateLayout, base); err != nil {
		return "", &FormatError{Value: raw}
	}
	return base, nil
}

// ParseMissionDay normalizes raw and returns that day at midnight UTC.
func ParseMissionDay(raw string) (time.Time, error) {
	canonical, err := NormalizeMissionDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(CanonicalDateLayout, canonical)
}

// MidnightTimestamp returns the "YYYY.MM.DD 00:00:00" form used by event.date.
func MidnightTimestamp(raw string) (string, error) {
	canonical, err := NormalizeMissionDate(raw)
	if err != nil {
		return "", err
	}
	return canonical + " 00:00:00", nil
}

// DaysBetween counts whole calendar days from one midnight to another.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
