package domain

import "strings"

// NoValue is the bucket key for records without a value for the grouped field.
const NoValue = "unspecified"

// Filter holds optional predicates, combined with AND.
// Zero values mean "no constraint".
type Filter struct {
	Status      Status
	Category    string
	Difficulty  Difficulty
	HasDeadline *bool
	Search      string // case-insensitive substring of title, description or notes
}

// Matches reports whether t satisfies every predicate of f.
func (f Filter) Matches(t *Technology) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && t.Difficulty != f.Difficulty {
		return false
	}
	if f.HasDeadline != nil && t.HasDeadline() != *f.HasDeadline {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.Notes), q)
	}
	return true
}
