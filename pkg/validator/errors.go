package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-viewform/pkg/formatter"
)

// Error is a single validation failure. The message is read from the
// validator when formatted, so messages configured after binding still
// apply.
type Error struct {
	Validator Validator
	Code      string
	Value     any
}

// NewError records a failure of v for code.
func NewError(v Validator, code string, value any) *Error {
	return &Error{Validator: v, Code: code, Value: value}
}

// MessageFormat returns the raw message template for the error code.
func (e *Error) MessageFormat() string {
	if e.Validator != nil {
		if msg := e.Validator.Message(e.Code); msg != "" {
			return msg
		}
	}
	return e.Code
}

// Arguments returns the placeholder bindings used to format the message:
// %value% plus every scalar option of the validator.
func (e *Error) Arguments() map[string]string {
	args := map[string]string{}
	if e.Validator != nil {
		for name, value := range e.Validator.Options() {
			switch value.(type) {
			case string, bool, int, int64, float64:
				args["%"+name+"%"] = fmt.Sprint(value)
			}
		}
	}
	if e.Value != nil {
		args["%value%"] = fmt.Sprint(e.Value)
	}
	return args
}

// Error implements error.
func (e *Error) Error() string {
	return formatter.Replace(e.MessageFormat(), e.Arguments())
}

// ErrorSchema groups failures of a Schema validator by field name plus
// global failures.
type ErrorSchema struct {
	Validator Validator
	Named     map[string]error
	Global    []error
}

// NewErrorSchema returns an empty error schema for v.
func NewErrorSchema(v Validator) *ErrorSchema {
	return &ErrorSchema{Validator: v, Named: make(map[string]error)}
}

// AddNamed records err for field, merging nested schemas.
func (s *ErrorSchema) AddNamed(field string, err error) {
	if err == nil {
		return
	}
	if existing, ok := s.Named[field].(*ErrorSchema); ok {
		if nested, ok := err.(*ErrorSchema); ok {
			existing.Merge(nested)
			return
		}
		existing.Global = append(existing.Global, err)
		return
	}
	if _, exists := s.Named[field]; exists {
		// keep the first failure per field
		return
	}
	s.Named[field] = err
}

// Add records err, spreading a nested schema's entries over this one.
func (s *ErrorSchema) Add(err error) {
	if err == nil {
		return
	}
	if nested, ok := err.(*ErrorSchema); ok {
		s.Merge(nested)
		return
	}
	s.Global = append(s.Global, err)
}

// Merge copies other's entries into s.
func (s *ErrorSchema) Merge(other *ErrorSchema) {
	if other == nil {
		return
	}
	for name, err := range other.Named {
		s.AddNamed(name, err)
	}
	s.Global = append(s.Global, other.Global...)
}

// Empty reports whether the schema holds no failures.
func (s *ErrorSchema) Empty() bool {
	return s == nil || (len(s.Named) == 0 && len(s.Global) == 0)
}

// Field returns the failure recorded for name.
func (s *ErrorSchema) Field(name string) (error, bool) {
	if s == nil {
		return nil, false
	}
	err, ok := s.Named[name]
	return err, ok
}

// Error implements error.
func (s *ErrorSchema) Error() string {
	parts := make([]string, 0, len(s.Global)+len(s.Named))
	for _, err := range s.Global {
		parts = append(parts, err.Error())
	}
	names := make([]string, 0, len(s.Named))
	for name := range s.Named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+" ["+s.Named[name].Error()+"]")
	}
	return strings.Join(parts, " ")
}

// Messages flattens err into the messages shown next to a field.
func Messages(err error) []string {
	switch typed := err.(type) {
	case nil:
		return nil
	case *ErrorSchema:
		if typed == nil {
			return nil
		}
		out := make([]string, 0, len(typed.Global))
		for _, g := range typed.Global {
			out = append(out, g.Error())
		}
		return out
	default:
		return []string{err.Error()}
	}
}
