package validation

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form is the candidate record submitted by a caller before it is accepted.
type Form struct {
	Title       string   `json:"title" validate:"tech_title"`
	Description string   `json:"description" validate:"tech_description"`
	Category    string   `json:"category" validate:"max=40"`
	Difficulty  string   `json:"difficulty" validate:"tech_difficulty"`
	Status      string   `json:"status" validate:"tech_status"`
	Resources   []string `json:"resources" validate:"dive,abs_url"`
	Deadline    string   `json:"deadline" validate:"tech_deadline"`
}

// Errors collects every failing field of a form.
type Errors struct {
	fields []*FieldError
}

// NewErrors groups field errors; nil entries are skipped.
func NewErrors(fes ...*FieldError) *Errors {
	e := &Errors{}
	for _, fe := range fes {
		e.Add(fe)
	}
	return e
}

// Fields returns the failing fields in declaration order.
func (e *Errors) Fields() []*FieldError {
	return e.fields
}

// Field returns the first error reported for name, or nil.
func (e *Errors) Field(name string) *FieldError {
	for _, f := range e.fields {
		if f.Field == name {
			return f
		}
	}
	return nil
}

// Add appends a field error; nil is ignored.
func (e *Errors) Add(fe *FieldError) {
	if fe != nil {
		e.fields = append(e.fields, fe)
	}
}

// Err returns e as an error, or nil when nothing failed.
func (e *Errors) Err() error {
	if e == nil || len(e.fields) == 0 {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// AsErrors extracts *Errors from err.
func AsErrors(err error) (*Errors, bool) {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type nowKey struct{}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// stringRules maps custom tags to the rule that decides them and produces the message.
var stringRules = map[string]func(string) *FieldError{
	"tech_title":       Title,
	"tech_description": Description,
	"tech_difficulty":  Difficulty,
	"tech_status":      Status,
	"abs_url":          ResourceURL,
}

// getValidator returns the shared validator with the custom tags registered.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		for tag, rule := range stringRules {
			rule := rule
			_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return rule(fl.Field().String()) == nil
			})
		}

		_ = validate.RegisterValidationCtx("tech_deadline", func(ctx context.Context, fl validator.FieldLevel) bool {
			return Deadline(fl.Field().String(), nowFrom(ctx)) == nil
		})
	})
	return validate
}

func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return now
	}
	return time.Now()
}

// Validate runs every rule over the form. The result is the logical AND of
// all field rules; each failing field is reported independently.
func Validate(f Form, now time.Time) error {
	ctx := context.WithValue(context.Background(), nowKey{}, now)
	err := getValidator().StructCtx(ctx, f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Errors{fields: []*FieldError{{Field: "unknown", Rule: "unknown", Message: err.Error()}}}
	}

	out := &Errors{}
	for _, fe := range verrs {
		out.Add(translate(fe, now))
	}
	return out.Err()
}

// translate turns a validator failure back into the rule's own message.
func translate(fe validator.FieldError, now time.Time) *FieldError {
	value, _ := fe.Value().(string)
	var res *FieldError
	switch fe.Tag() {
	case "tech_deadline":
		res = Deadline(value, now)
	case "max":
		res = fieldError(fe.Field(), "max", "%s too long: at most %s characters", fe.Field(), fe.Param())
	default:
		if rule, ok := stringRules[fe.Tag()]; ok {
			res = rule(value)
		}
	}
	if res == nil {
		res = fieldError(fe.Field(), fe.Tag(), "%s is invalid", fe.Field())
	}
	if fe.Tag() == "abs_url" {
		res.Field = fe.Field()
	}
	return res
}
