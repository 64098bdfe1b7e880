package validation

import (
	"strings"
	"testing"
	"time"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRule string
	}{
		{name: "valid", input: "Go", wantRule: ""},
		{name: "trimmed before counting", input: "  Go  ", wantRule: ""},
		{name: "empty", input: "", wantRule: "required"},
		{name: "only spaces", input: "   ", wantRule: "required"},
		{name: "too short", input: "X", wantRule: "min"},
		{name: "too long", input: strings.Repeat("a", TitleMax+1), wantRule: "max"},
		{name: "max length multibyte", input: strings.Repeat("é", TitleMax), wantRule: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Title(tt.input)
			if tt.wantRule == "" {
				if fe != nil {
					t.Errorf("Title(%q) = %v, want nil", tt.input, fe)
				}
				return
			}
			if fe == nil {
				t.Fatalf("Title(%q) = nil, want rule %s", tt.input, tt.wantRule)
			}
			if fe.Rule != tt.wantRule {
				t.Errorf("Title(%q) rule = %s, want %s", tt.input, fe.Rule, tt.wantRule)
			}
		})
	}
}

func TestDescriptionTooShort(t *testing.T) {
	fe := Description("short")
	if fe == nil {
		t.Fatal("Description(\"short\") should fail")
	}
	if !strings.Contains(fe.Message, "description too short") {
		t.Errorf("unexpected message %q", fe.Message)
	}
	if Description("A systems language from Google") != nil {
		t.Error("a 30 character description should be valid")
	}
}

func TestResourceURL(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{input: "", valid: true},
		{input: "https://go.dev", valid: true},
		{input: "http://localhost:8080/docs", valid: true},
		{input: "go.dev", valid: false},
		{input: "not a url", valid: false},
		{input: "/relative/path", valid: false},
		{input: "https://", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ResourceURL(tt.input) == nil
			if got != tt.valid {
				t.Errorf("ResourceURL(%q) valid = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestDeadline(t *testing.T) {
	now := time.Date(2026, 5, 10, 21, 45, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		wantRule string
	}{
		{name: "unset", input: "", wantRule: ""},
		{name: "same day", input: "2026-05-10", wantRule: ""},
		{name: "next month", input: "2026-06-01", wantRule: ""},
		{name: "exactly five years", input: "2031-05-10", wantRule: ""},
		{name: "yesterday", input: "2026-05-09", wantRule: "past"},
		{name: "beyond five years", input: "2031-05-11", wantRule: "max"},
		{name: "garbage", input: "tomorrow", wantRule: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Deadline(tt.input, now)
			if tt.wantRule == "" {
				if fe != nil {
					t.Errorf("Deadline(%q) = %v, want nil", tt.input, fe)
				}
				return
			}
			if fe == nil || fe.Rule != tt.wantRule {
				t.Errorf("Deadline(%q) = %v, want rule %s", tt.input, fe, tt.wantRule)
			}
		})
	}
}

func TestValidateCollectsAllFields(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	form := Form{
		Title:       "X",
		Description: "short",
		Difficulty:  "expert",
		Resources:   []string{"https://ok.example", "nope"},
		Deadline:    "2020-01-01",
	}

	err := Validate(form, now)
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	ve, ok := AsErrors(err)
	if !ok {
		t.Fatalf("Validate() error type = %T, want *Errors", err)
	}

	for _, field := range []string{"title", "description", "difficulty", "resources[1]", "deadline"} {
		if ve.Field(field) == nil {
			t.Errorf("expected an error for %s, got %v", field, ve.Fields())
		}
	}
	if ve.Field("resources[0]") != nil {
		t.Error("valid resource should not be reported")
	}
	if len(ve.Fields()) != 5 {
		t.Errorf("got %d field errors, want 5: %v", len(ve.Fields()), ve.Fields())
	}
}

func TestValidateAcceptsMinimalForm(t *testing.T) {
	form := Form{Title: "Go", Description: "A systems language from Google"}
	if err := Validate(form, time.Now()); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateUsesGivenClock(t *testing.T) {
	form := Form{Title: "Go", Description: "A systems language from Google", Deadline: "2030-01-01"}

	if err := Validate(form, time.Date(2029, 12, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Errorf("deadline in the future should pass, got %v", err)
	}
	if err := Validate(form, time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("deadline in the past relative to the clock should fail")
	}
}
