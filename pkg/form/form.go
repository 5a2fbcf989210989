package form

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-viewform/pkg/lineage"
	"github.com/goliatone/go-viewform/pkg/validator"
	"github.com/goliatone/go-viewform/pkg/widget"
)

// TypeForm is the root of every form lineage.
const TypeForm = "Form"

func init() {
	lineage.MustRegister(TypeForm, "")
}

// Form is the contract the enhancer relies on. Implementations must be
// pointer types: enhancement is tracked by instance identity.
type Form interface {
	TypeName() string
	FieldSchema() *FieldSchema
	EmbeddedForms() map[string]Form
}

// ObjectBinder is implemented by forms bound to a domain object.
type ObjectBinder interface {
	Object() any
}

// ErrorCarrier is implemented by forms that record validation failures.
type ErrorCarrier interface {
	HasErrors() bool
}

// Base is the reference Form implementation. Host forms embed it and call
// New with their own registered type name.
type Base struct {
	mu         sync.RWMutex
	typeName   string
	widgets    widget.Schema
	validators validator.Schema
	embedded   map[string]Form
	object     any
	bound      bool
	values     map[string]any
	cleaned    map[string]any
	errs       *validator.ErrorSchema
}

// New creates an empty form of type typeName with a schema widget and a
// schema validator.
func New(typeName string) *Base {
	if strings.TrimSpace(typeName) == "" {
		typeName = TypeForm
	}
	return &Base{
		typeName:   typeName,
		widgets:    widget.NewSchema(nil, nil),
		validators: validator.NewSchema(nil, nil),
		embedded:   make(map[string]Form),
	}
}

// TypeName returns the lineage type name.
func (b *Base) TypeName() string { return b.typeName }

// WidgetSchema returns the root schema widget.
func (b *Base) WidgetSchema() widget.Schema { return b.widgets }

// ValidatorSchema returns the root schema validator.
func (b *Base) ValidatorSchema() validator.Schema { return b.validators }

// SetWidget declares a field widget.
func (b *Base) SetWidget(name string, w widget.Widget) *Base {
	b.widgets.SetField(name, w)
	return b
}

// SetWidgets declares several fields; order follows names.
func (b *Base) SetWidgets(names []string, widgets map[string]widget.Widget) *Base {
	for _, name := range names {
		if w, ok := widgets[name]; ok {
			b.widgets.SetField(name, w)
		}
	}
	return b
}

// SetValidator declares the validator for a field.
func (b *Base) SetValidator(name string, v validator.Validator) *Base {
	b.validators.SetField(name, v)
	return b
}

// MergePreValidator combines v with any existing pre validator.
func (b *Base) MergePreValidator(v validator.Validator) *Base {
	if current := b.validators.PreValidator(); current != nil {
		v = validator.NewAnd(current, v)
	}
	b.validators.SetPreValidator(v)
	return b
}

// MergePostValidator combines v with any existing post validator.
func (b *Base) MergePostValidator(v validator.Validator) *Base {
	if current := b.validators.PostValidator(); current != nil {
		v = validator.NewAnd(current, v)
	}
	b.validators.SetPostValidator(v)
	return b
}

// Embed nests sub under name. The sub form keeps its own type name, so
// configuration keyed by its type applies to the embedded fields.
func (b *Base) Embed(name string, sub Form) error {
	if sub == nil {
		return fmt.Errorf("form: embedded form %q is nil", name)
	}
	tree := sub.FieldSchema()
	if tree == nil {
		return fmt.Errorf("form: embedded form %q has no field schema", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.embedded[name] = sub
	b.widgets.SetField(name, tree.Schema())
	if v := tree.Validator(); v != nil {
		b.validators.SetField(name, v)
	} else {
		b.validators.SetField(name, validator.NewPass())
	}
	return nil
}

// EmbeddedForms returns the embedded forms keyed by field name.
func (b *Base) EmbeddedForms() map[string]Form {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]Form, len(b.embedded))
	for k, v := range b.embedded {
		out[k] = v
	}
	return out
}

// SetObject binds a domain object used for placeholder substitution.
func (b *Base) SetObject(object any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.object = object
}

// Object returns the bound domain object or nil.
func (b *Base) Object() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.object
}

// Bind validates values and records the outcome.
func (b *Base) Bind(values map[string]any) {
	cleaned, err := b.validators.Clean(values)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.bound = true
	b.values = values
	b.cleaned = nil
	b.errs = nil

	if err != nil {
		if schema, ok := err.(*validator.ErrorSchema); ok {
			b.errs = schema
		} else {
			b.errs = validator.NewErrorSchema(b.validators)
			b.errs.Add(err)
		}
		return
	}
	b.cleaned, _ = cleaned.(map[string]any)
}

// IsBound reports whether Bind was called.
func (b *Base) IsBound() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bound
}

// HasErrors reports whether the last Bind failed.
func (b *Base) HasErrors() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.errs.Empty()
}

// Errors returns the failures of the last Bind.
func (b *Base) Errors() *validator.ErrorSchema {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.errs
}

// Values returns the cleaned values of a successful Bind.
func (b *Base) Values() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cleaned
}

// FieldSchema builds the field tree over the form's widgets, validators,
// bound values and failures. Nodes wrap the live widget and validator
// instances, so mutations made through the tree persist.
func (b *Base) FieldSchema() *FieldSchema {
	b.mu.RLock()
	values, errs := b.values, b.errs
	b.mu.RUnlock()

	var err error
	if !errs.Empty() {
		err = errs
	}
	return NewFieldSchema("", b.widgets, b.validators, values, err)
}

// RenderRow renders the named top-level field.
func (b *Base) RenderRow(name string) (string, error) {
	node, ok := b.FieldSchema().Child(name)
	if !ok {
		return "", fmt.Errorf("form: %s has no field %q", b.typeName, name)
	}
	return node.RenderRow()
}
