package domain

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "date only", input: "2026-03-14", expected: "2026-03-14"},
		{name: "rfc3339 keeps calendar day", input: "2026-03-14T23:30:00+05:00", expected: "2026-03-14"},
		{name: "surrounding spaces", input: " 2026-03-14 ", expected: "2026-03-14"},
		{name: "garbage", input: "next friday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if got.Format(DateLayout) != tt.expected {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format(DateLayout), tt.expected)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2027-01-02T10:00:00Z")
	if err != nil {
		t.Fatalf("NormalizeDate() error = %v", err)
	}
	if got != "2027-01-02" {
		t.Errorf("NormalizeDate() = %q, want 2027-01-02", got)
	}

	empty, err := NormalizeDate("   ")
	if err != nil || empty != "" {
		t.Errorf("NormalizeDate(blank) = %q, %v; want empty, nil", empty, err)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tech     Technology
		expected bool
	}{
		{name: "yesterday", tech: Technology{Deadline: "2026-06-14", Status: StatusInProgress}, expected: true},
		{name: "today is not overdue", tech: Technology{Deadline: "2026-06-15", Status: StatusNotStarted}, expected: false},
		{name: "completed never overdue", tech: Technology{Deadline: "2026-01-01", Status: StatusCompleted}, expected: false},
		{name: "no deadline", tech: Technology{Status: StatusNotStarted}, expected: false},
		{name: "unparsable deadline", tech: Technology{Deadline: "soon", Status: StatusNotStarted}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tech.IsOverdue(now); got != tt.expected {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDueWithin(t *testing.T) {
	now := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline string
		status   Status
		days     int
		expected bool
	}{
		{name: "today inclusive", deadline: "2026-06-15", status: StatusNotStarted, days: 7, expected: true},
		{name: "last day inclusive", deadline: "2026-06-22", status: StatusInProgress, days: 7, expected: true},
		{name: "one day past window", deadline: "2026-06-23", status: StatusInProgress, days: 7, expected: false},
		{name: "already overdue", deadline: "2026-06-14", status: StatusInProgress, days: 7, expected: false},
		{name: "completed excluded", deadline: "2026-06-16", status: StatusCompleted, days: 7, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tech := Technology{Deadline: tt.deadline, Status: tt.status}
			if got := tech.IsDueWithin(now, tt.days); got != tt.expected {
				t.Errorf("IsDueWithin() = %v, want %v", got, tt.expected)
			}
		})
	}
}
