package domain

import "time"

// Technology is one tracked learning item.
//
// The collection store is the only owner of Technology values; every value
// handed out by the store is a deep copy (see Clone).
type Technology struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is unique within a collection.
	// Generated from the creation time in milliseconds.
	ID int64 `json:"id"`

	// CreatedAt is set once when the record is added.
	CreatedAt time.Time `json:"createdAt"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	// Title is 2..50 characters once trimmed.
	Title string `json:"title"`

	// Description is 10..500 characters once trimmed.
	Description string `json:"description"`

	// Category is one of the known categories or a free-form tag.
	Category string `json:"category"`

	// Difficulty is beginner, intermediate or advanced.
	Difficulty Difficulty `json:"difficulty"`

	// Resources are absolute URLs, in the order the user entered them.
	Resources []string `json:"resources"`

	// ─────────────────────────────
	// Progress
	// ─────────────────────────────

	// Status is the only field with a life cycle.
	Status Status `json:"status"`

	// Notes is free text, empty by default.
	Notes string `json:"notes"`

	// Deadline is an ISO date (YYYY-MM-DD), empty when unset.
	// Validated when set, never afterwards: a record may become overdue.
	Deadline string `json:"deadline,omitempty"`
}

// Clone returns a deep copy of t.
func (t Technology) Clone() Technology {
	c := t
	if t.Resources != nil {
		c.Resources = append([]string(nil), t.Resources...)
	}
	return c
}

// HasDeadline reports whether a deadline is set.
func (t *Technology) HasDeadline() bool {
	return t.Deadline != ""
}

// IsCompleted reports whether the record reached the final status.
func (t *Technology) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// CloneAll deep-copies a slice of records, preserving order.
func CloneAll(techs []Technology) []Technology {
	out := make([]Technology, len(techs))
	for i := range techs {
		out[i] = techs[i].Clone()
	}
	return out
}
