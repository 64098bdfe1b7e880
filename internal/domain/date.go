package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical deadline format.
const DateLayout = "2006-01-02"

// MaxDeadlineYears bounds how far in the future a deadline may be set.
const MaxDeadlineYears = 5

// ParseDate parses a deadline given as YYYY-MM-DD or RFC3339 and returns the
// calendar day at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return StartOfDay(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
}

// NormalizeDate returns s in DateLayout. Empty input stays empty.
func NormalizeDate(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// StartOfDay returns the calendar day of t (in t's location) at midnight UTC,
// so days from different zones compare by date only.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeadlineDay parses the record deadline. ok is false when unset or unparsable.
func (t *Technology) DeadlineDay() (time.Time, bool) {
	if !t.HasDeadline() {
		return time.Time{}, false
	}
	day, err := ParseDate(t.Deadline)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// IsOverdue reports whether an unfinished record's deadline is before today.
func (t *Technology) IsOverdue(now time.Time) bool {
	if t.IsCompleted() {
		return false
	}
	day, ok := t.DeadlineDay()
	return ok && day.Before(StartOfDay(now))
}

// IsDueWithin reports whether an unfinished record's deadline falls in
// [today, today+days], both ends inclusive.
func (t *Technology) IsDueWithin(now time.Time, days int) bool {
	if t.IsCompleted() {
		return false
	}
	day, ok := t.DeadlineDay()
	if !ok {
		return false
	}
	today := StartOfDay(now)
	return !day.Before(today) && !day.After(today.AddDate(0, 0, days))
}
