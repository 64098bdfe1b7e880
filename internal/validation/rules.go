// Package validation holds the field rules applied to technology records.
//
// Every rule is a pure function returning nil when the value is acceptable or
// a *FieldError carrying a human-readable reason. Form-level checks run all
// rules through go-playground/validator so that every failing field is reported.
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
)

const (
	TitleMin       = 2
	TitleMax       = 50
	DescriptionMin = 10
	DescriptionMax = 500
)

// FieldError describes why one field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

func fieldError(field, rule, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Title checks the trimmed title length.
func Title(s string) *FieldError {
	return lengthRule("title", s, TitleMin, TitleMax)
}

// Description checks the trimmed description length.
func Description(s string) *FieldError {
	return lengthRule("description", s, DescriptionMin, DescriptionMax)
}

func lengthRule(field, s string, min, max int) *FieldError {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case n == 0:
		return fieldError(field, "required", "%s is required", field)
	case n < min:
		return fieldError(field, "min", "%s too short: at least %d characters", field, min)
	case n > max:
		return fieldError(field, "max", "%s too long: at most %d characters", field, max)
	}
	return nil
}

// ResourceURL accepts an empty string (not provided yet) or an absolute URL
// with both scheme and host.
func ResourceURL(s string) *FieldError {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fieldError("resources", "url", "%q is not a valid URL", s)
	}
	return nil
}

// Deadline accepts an empty string or a date within [today, today+5y].
// today is derived from now with the time of day dropped, so a deadline on
// the current day is valid.
func Deadline(s string, now time.Time) *FieldError {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	day, err := domain.ParseDate(s)
	if err != nil {
		return fieldError("deadline", "date", "deadline must be a valid date (YYYY-MM-DD)")
	}
	today := domain.StartOfDay(now)
	if day.Before(today) {
		return fieldError("deadline", "past", "deadline cannot be in the past")
	}
	if day.After(today.AddDate(domain.MaxDeadlineYears, 0, 0)) {
		return fieldError("deadline", "max", "deadline cannot be more than %d years ahead", domain.MaxDeadlineYears)
	}
	return nil
}

// Difficulty accepts an empty value (caller default) or a known difficulty.
func Difficulty(s string) *FieldError {
	if s == "" || domain.Difficulty(s).Valid() {
		return nil
	}
	return fieldError("difficulty", "oneof", "difficulty must be one of: beginner, intermediate, advanced")
}

// Status accepts an empty value (caller default) or a known status.
func Status(s string) *FieldError {
	if s == "" || domain.Status(s).Valid() {
		return nil
	}
	return fieldError("status", "oneof", "status must be one of: not-started, in-progress, completed")
}
