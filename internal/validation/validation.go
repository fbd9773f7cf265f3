package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single field-level validation failure as it appears on the
// wire in 400 responses.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every failure collected for one request. It is the only
// error type the pipeline produces.
type Error struct {
	Failures []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = fmt.Sprintf("%s %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// CheckFunc is an additional validator for one request type. Checks never
// mutate the request and never touch storage.
type CheckFunc func(req any) []FieldError

// Pipeline runs every validator registered for a request's concrete type and
// accumulates all failures; it never short-circuits on the first one.
type Pipeline struct {
	validate *validator.Validate
	checks   map[reflect.Type][]CheckFunc
}

func NewPipeline() *Pipeline {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return lowerFirst(fld.Name)
		}
		return name
	})

	return &Pipeline{
		validate: v,
		checks:   make(map[reflect.Type][]CheckFunc),
	}
}

// Register adds extra checks for the given request type, beyond what its
// struct tags declare.
func (p *Pipeline) Register(req any, checks ...CheckFunc) {
	t := indirectType(req)
	p.checks[t] = append(p.checks[t], checks...)
}

// Run validates req and returns nil or a *Error with every collected
// failure. The request itself is never modified.
func (p *Pipeline) Run(req any) error {
	var failures []FieldError

	if err := p.validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			failures = append(failures, FieldError{
				Field:   fe.Field(),
				Message: describe(fe),
			})
		}
	}

	for _, check := range p.checks[indirectType(req)] {
		failures = append(failures, check(req)...)
	}

	if len(failures) > 0 {
		return &Error{Failures: failures}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return "is not valid"
	}
}

func indirectType(req any) reflect.Type {
	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
