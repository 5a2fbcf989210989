package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-viewform/pkg/lineage"
)

// Type names registered on lineage.Default.
const (
	TypeBase          = "ValidatorBase"
	TypePass          = "ValidatorPass"
	TypeString        = "ValidatorString"
	TypeEmail         = "ValidatorEmail"
	TypeChoice        = "ValidatorChoice"
	TypeSchema        = "ValidatorSchema"
	TypeSchemaCompare = "ValidatorSchemaCompare"
	TypeAnd           = "ValidatorAnd"
	TypeOr            = "ValidatorOr"
)

// Standard message codes.
const (
	CodeRequired = "required"
	CodeInvalid  = "invalid"
)

func init() {
	lineage.MustRegister(TypeBase, "")
	lineage.MustRegister(TypePass, TypeBase)
	lineage.MustRegister(TypeString, TypeBase)
	lineage.MustRegister(TypeEmail, TypeString)
	lineage.MustRegister(TypeChoice, TypeBase)
	lineage.MustRegister(TypeSchema, TypeBase)
	lineage.MustRegister(TypeSchemaCompare, TypeBase)
	lineage.MustRegister(TypeAnd, TypeBase)
	lineage.MustRegister(TypeOr, TypeBase)
}

// Validator is the contract the enhancer relies on to configure a validator.
type Validator interface {
	TypeName() string
	Option(name string) (any, bool)
	SetOption(name string, value any)
	Options() map[string]any
	Message(code string) string
	SetMessage(code, message string)
	Messages() map[string]string
	SetMessages(messages map[string]string)
	// Clean validates value and returns its cleaned form. Failures are
	// reported as *Error or *ErrorSchema.
	Clean(value any) (any, error)
}

// Schema is a composite validator holding named member validators plus
// optional pre and post validators run against the whole value set.
type Schema interface {
	Validator
	Fields() []string
	Field(name string) (Validator, bool)
	SetField(name string, v Validator)
	PreValidator() Validator
	SetPreValidator(v Validator)
	PostValidator() Validator
	SetPostValidator(v Validator)
}

// Group is implemented by combinators holding sub-validators outside of a
// schema relationship.
type Group interface {
	Validator
	Validators() []Validator
}

// Base stores options and messages shared by every reference validator.
// Options "required" (default true) and "trim" (default false) are honoured
// by Prepare.
type Base struct {
	mu       sync.RWMutex
	typeName string
	options  map[string]any
	messages map[string]string
}

// NewBase creates a Base identified by typeName.
func NewBase(typeName string, options map[string]any, messages map[string]string) *Base {
	b := &Base{
		typeName: typeName,
		options:  map[string]any{"required": true, "trim": false},
		messages: map[string]string{
			CodeRequired: "Required.",
			CodeInvalid:  "Invalid.",
		},
	}
	for k, v := range options {
		b.options[k] = v
	}
	for k, v := range messages {
		b.messages[k] = v
	}
	return b
}

// TypeName returns the lineage type name.
func (b *Base) TypeName() string {
	return b.typeName
}

// Option returns the named option.
func (b *Base) Option(name string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.options[name]
	return v, ok
}

// SetOption sets the named option.
func (b *Base) SetOption(name string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.options[name] = value
}

// Options returns a copy of all options.
func (b *Base) Options() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]any, len(b.options))
	for k, v := range b.options {
		out[k] = v
	}
	return out
}

// Message returns the message template for code.
func (b *Base) Message(code string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.messages[code]
}

// SetMessage replaces the message template for code.
func (b *Base) SetMessage(code, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[code] = message
}

// Messages returns a copy of all message templates.
func (b *Base) Messages() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.messages))
	for k, v := range b.messages {
		out[k] = v
	}
	return out
}

// SetMessages replaces every message template.
func (b *Base) SetMessages(messages map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = make(map[string]string, len(messages))
	for k, v := range messages {
		b.messages[k] = v
	}
}

// Prepare applies trimming and the required check. done reports that value
// is empty and Clean should return it unchanged.
func (b *Base) Prepare(self Validator, value any) (cleaned any, done bool, err error) {
	if s, ok := value.(string); ok && b.boolOption("trim") {
		value = strings.TrimSpace(s)
	}
	if !isEmpty(value) {
		return value, false, nil
	}
	if b.boolOption("required") {
		return nil, true, NewError(self, CodeRequired, value)
	}
	return emptyValue(b), true, nil
}

func (b *Base) boolOption(name string) bool {
	v, _ := b.Option(name)
	flag, _ := v.(bool)
	return flag
}

func emptyValue(b *Base) any {
	v, _ := b.Option("empty_value")
	return v
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// Pass accepts any value.
type Pass struct {
	*Base
}

// NewPass returns a validator that never fails.
func NewPass() *Pass {
	return &Pass{Base: NewBase(TypePass, map[string]any{"required": false}, nil)}
}

// Clean implements Validator.
func (p *Pass) Clean(value any) (any, error) {
	return value, nil
}

func optionString(v Validator, name string) string {
	raw, ok := v.Option(name)
	if !ok || raw == nil {
		return ""
	}
	return fmt.Sprint(raw)
}
