package domain

import "strings"

// Status is the learning state of a technology.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in cycle order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the following status in the fixed cycle
// not-started -> in-progress -> completed -> not-started.
// Unknown values restart the cycle.
func (s Status) Next() Status {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// ParseStatus normalizes user input ("In Progress", "in_progress", ...) into a Status.
func ParseStatus(raw string) (Status, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	st := Status(s)
	return st, st.Valid()
}

// Difficulty is the self-assessed difficulty of a technology.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Known categories. Category stays a plain string so that free-form tags survive import.
const (
	CategoryFrontend = "frontend"
	CategoryBackend  = "backend"
	CategoryDevOps   = "devops"
	CategoryMobile   = "mobile"
	CategoryDatabase = "database"
	CategoryTesting  = "testing"
	CategoryTools    = "tools"
	CategoryLanguage = "language"
	CategoryOther    = "other"
)

// Defaults applied when a new record leaves the field empty.
const (
	DefaultCategory   = CategoryFrontend
	DefaultDifficulty = DifficultyBeginner
)
