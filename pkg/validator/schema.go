package validator

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-viewform/pkg/formatter"
)

// SchemaValidator validates a map of values field by field. Pre and post
// validators receive the whole map.
type SchemaValidator struct {
	*Base

	smu    sync.RWMutex
	order  []string
	fields map[string]Validator
	pre    Validator
	post   Validator
}

var _ Schema = (*SchemaValidator)(nil)

// NewSchema returns an empty schema validator. The "allow_extra_fields"
// option (default false) controls whether unknown keys fail with
// "extra_fields".
func NewSchema(options map[string]any, messages map[string]string) *SchemaValidator {
	s := &SchemaValidator{
		Base:   NewBase(TypeSchema, map[string]any{"allow_extra_fields": false}, map[string]string{"extra_fields": "Unexpected extra form field named \"%field%\"."}),
		fields: make(map[string]Validator),
	}
	for k, v := range options {
		s.SetOption(k, v)
	}
	for k, v := range messages {
		s.SetMessage(k, v)
	}
	return s
}

// Fields returns member names in declaration order.
func (s *SchemaValidator) Fields() []string {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return append([]string(nil), s.order...)
}

// Field returns the named member validator.
func (s *SchemaValidator) Field(name string) (Validator, bool) {
	s.smu.RLock()
	defer s.smu.RUnlock()
	v, ok := s.fields[name]
	return v, ok
}

// SetField adds or replaces a member validator.
func (s *SchemaValidator) SetField(name string, v Validator) {
	s.smu.Lock()
	defer s.smu.Unlock()
	if _, exists := s.fields[name]; !exists {
		s.order = append(s.order, name)
	}
	s.fields[name] = v
}

// PreValidator returns the validator run before member validation.
func (s *SchemaValidator) PreValidator() Validator {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.pre
}

// SetPreValidator sets the validator run before member validation.
func (s *SchemaValidator) SetPreValidator(v Validator) {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.pre = v
}

// PostValidator returns the validator run after member validation.
func (s *SchemaValidator) PostValidator() Validator {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.post
}

// SetPostValidator sets the validator run after member validation.
func (s *SchemaValidator) SetPostValidator(v Validator) {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.post = v
}

// Clean validates a map[string]any and returns the cleaned map. Failures are
// collected into a single *ErrorSchema.
func (s *SchemaValidator) Clean(value any) (any, error) {
	values, _ := value.(map[string]any)
	if values == nil {
		values = map[string]any{}
	}

	errs := NewErrorSchema(s)
	cleaned := make(map[string]any, len(values))

	if pre := s.PreValidator(); pre != nil {
		if _, err := pre.Clean(values); err != nil {
			errs.Add(err)
		}
	}

	if allow, _ := s.Option("allow_extra_fields"); allow != true {
		for key := range values {
			if _, ok := s.Field(key); !ok {
				errs.Add(&extraFieldError{cause: NewError(s, "extra_fields", key), field: key})
			}
		}
	}

	for _, name := range s.Fields() {
		member, _ := s.Field(name)
		result, err := member.Clean(values[name])
		if err != nil {
			errs.AddNamed(name, err)
			continue
		}
		cleaned[name] = result
	}

	if post := s.PostValidator(); post != nil && errs.Empty() {
		if _, err := post.Clean(cleaned); err != nil {
			errs.Add(err)
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return cleaned, nil
}

type extraFieldError struct {
	cause *Error
	field string
}

func (e *extraFieldError) Error() string {
	args := e.cause.Arguments()
	args["%field%"] = e.field
	return formatter.Replace(e.cause.MessageFormat(), args)
}

// SchemaCompare compares two fields of a value map. Options: "left_field",
// "operator" (==, !=, <, <=, >, >=) and "right_field". With
// "throw_global_error" false the failure is attached to the left field.
type SchemaCompare struct {
	*Base
}

// NewSchemaCompare returns a comparison post validator.
func NewSchemaCompare(left, operator, right string, options map[string]any, messages map[string]string) *SchemaCompare {
	c := &SchemaCompare{Base: NewBase(TypeSchemaCompare, map[string]any{"throw_global_error": false}, map[string]string{CodeInvalid: `"%left_field%" and "%right_field%" do not match.`})}
	c.SetOption("left_field", left)
	c.SetOption("operator", operator)
	c.SetOption("right_field", right)
	for k, v := range options {
		c.SetOption(k, v)
	}
	for k, v := range messages {
		c.SetMessage(k, v)
	}
	return c
}

// Clean implements Validator.
func (c *SchemaCompare) Clean(value any) (any, error) {
	values, _ := value.(map[string]any)
	left := fmt.Sprint(values[optionString(c, "left_field")])
	right := fmt.Sprint(values[optionString(c, "right_field")])

	var ok bool
	switch optionString(c, "operator") {
	case "==", "":
		ok = left == right
	case "!=":
		ok = left != right
	case "<":
		ok = left < right
	case "<=":
		ok = left <= right
	case ">":
		ok = left > right
	case ">=":
		ok = left >= right
	default:
		return nil, fmt.Errorf("validator: unsupported compare operator %q", optionString(c, "operator"))
	}
	if ok {
		return value, nil
	}

	err := NewError(c, CodeInvalid, nil)
	if global, _ := c.Option("throw_global_error"); global == true {
		return nil, err
	}
	schema := NewErrorSchema(c)
	schema.AddNamed(optionString(c, "left_field"), err)
	return nil, schema
}

// And passes when every member passes. The first member failure is
// reported, unless an "invalid" message is set on the And itself, which then
// replaces it.
type And struct {
	*Base
	validators []Validator
}

// NewAnd combines validators. Unlike other validators it has no default
// "invalid" message.
func NewAnd(validators ...Validator) *And {
	base := NewBase(TypeAnd, nil, nil)
	delete(base.messages, CodeInvalid)
	return &And{Base: base, validators: validators}
}

// Validators implements Group.
func (a *And) Validators() []Validator {
	return append([]Validator(nil), a.validators...)
}

// Clean implements Validator.
func (a *And) Clean(value any) (any, error) {
	value, done, err := a.Prepare(a, value)
	if done || err != nil {
		return value, err
	}
	input := value
	for _, v := range a.validators {
		cleaned, err := v.Clean(value)
		if err != nil {
			if a.Message(CodeInvalid) != "" {
				return nil, NewError(a, CodeInvalid, input)
			}
			return nil, err
		}
		value = cleaned
	}
	return value, nil
}

// Or passes when any member passes. When all fail the combinator reports its
// own "invalid" message.
type Or struct {
	*Base
	validators []Validator
}

// NewOr combines validators.
func NewOr(validators ...Validator) *Or {
	return &Or{Base: NewBase(TypeOr, nil, nil), validators: validators}
}

// Validators implements Group.
func (o *Or) Validators() []Validator {
	return append([]Validator(nil), o.validators...)
}

// Clean implements Validator.
func (o *Or) Clean(value any) (any, error) {
	value, done, err := o.Prepare(o, value)
	if done || err != nil {
		return value, err
	}
	for _, v := range o.validators {
		if cleaned, err := v.Clean(value); err == nil {
			return cleaned, nil
		}
	}
	return nil, NewError(o, CodeInvalid, value)
}
