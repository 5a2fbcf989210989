package form

import (
	"fmt"

	"github.com/goliatone/go-viewform/pkg/validator"
	"github.com/goliatone/go-viewform/pkg/widget"
)

// Node is an element of a field tree: either a leaf *Field or a composite
// *FieldSchema.
type Node interface {
	Name() string
	Widget() widget.Widget
	// Validator returns the validator bound to the node, or nil.
	Validator() validator.Validator
	// Error returns the validation failure recorded for the node, or nil.
	Error() error
	Value() any
	RenderRow() (string, error)
}

// Field is a leaf node wrapping a single widget.
type Field struct {
	name      string
	widget    widget.Widget
	validator validator.Validator
	err       error
	value     any
	parent    *FieldSchema
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Widget returns the field widget.
func (f *Field) Widget() widget.Widget { return f.widget }

// Validator returns the bound validator or nil.
func (f *Field) Validator() validator.Validator { return f.validator }

// Error returns the recorded failure or nil.
func (f *Field) Error() error { return f.err }

// Value returns the bound value.
func (f *Field) Value() any { return f.value }

// Parent returns the composite node holding the field.
func (f *Field) Parent() *FieldSchema { return f.parent }

// RenderRow renders the field through its parent schema's formatter.
func (f *Field) RenderRow() (string, error) {
	return renderRow(f.parent, f.name, f.value, f.err)
}

// FieldSchema is a composite node. The root of every form is a FieldSchema;
// embedded forms and nested schema widgets appear as nested FieldSchemas.
type FieldSchema struct {
	name      string
	schema    widget.Schema
	validator validator.Validator
	err       error
	value     map[string]any
	parent    *FieldSchema
	children  []Node
	index     map[string]Node
}

// NewFieldSchema builds the field tree for schema. v is the matching
// validator (normally a validator.Schema), values the bound values and err
// the failure recorded for the whole tree. Child validators and failures are
// looked up by name.
func NewFieldSchema(name string, schema widget.Schema, v validator.Validator, values map[string]any, err error) *FieldSchema {
	return buildFieldSchema(name, schema, v, values, err, nil)
}

func buildFieldSchema(name string, schema widget.Schema, v validator.Validator, values map[string]any, err error, parent *FieldSchema) *FieldSchema {
	fs := &FieldSchema{
		name:      name,
		schema:    schema,
		validator: v,
		err:       err,
		value:     values,
		parent:    parent,
		index:     make(map[string]Node),
	}

	members, _ := v.(validator.Schema)
	errs, _ := err.(*validator.ErrorSchema)

	for _, childName := range schema.Fields() {
		childWidget, _ := schema.Field(childName)

		var childValidator validator.Validator
		if members != nil {
			childValidator, _ = members.Field(childName)
		}
		var childErr error
		if errs != nil {
			childErr, _ = errs.Field(childName)
		}
		childValue := values[childName]

		var node Node
		if nested, ok := childWidget.(widget.Schema); ok {
			nestedValues, _ := childValue.(map[string]any)
			node = buildFieldSchema(childName, nested, childValidator, nestedValues, childErr, fs)
		} else {
			node = &Field{
				name:      childName,
				widget:    childWidget,
				validator: childValidator,
				err:       childErr,
				value:     childValue,
				parent:    fs,
			}
		}
		fs.children = append(fs.children, node)
		fs.index[childName] = node
	}
	return fs
}

// Name returns the node name; empty for a form root.
func (fs *FieldSchema) Name() string { return fs.name }

// Widget returns the schema widget as a plain widget.
func (fs *FieldSchema) Widget() widget.Widget { return fs.schema }

// Schema returns the schema widget.
func (fs *FieldSchema) Schema() widget.Schema { return fs.schema }

// Validator returns the validator bound to the tree or nil.
func (fs *FieldSchema) Validator() validator.Validator { return fs.validator }

// Error returns the failure recorded for the tree or nil.
func (fs *FieldSchema) Error() error { return fs.err }

// Value returns the bound values.
func (fs *FieldSchema) Value() any { return fs.value }

// Parent returns the enclosing composite node, nil for a root.
func (fs *FieldSchema) Parent() *FieldSchema { return fs.parent }

// Children returns child nodes in declaration order.
func (fs *FieldSchema) Children() []Node {
	return append([]Node(nil), fs.children...)
}

// Child returns the named child.
func (fs *FieldSchema) Child(name string) (Node, bool) {
	node, ok := fs.index[name]
	return node, ok
}

// Names returns child names in declaration order.
func (fs *FieldSchema) Names() []string {
	names := make([]string, 0, len(fs.children))
	for _, child := range fs.children {
		names = append(names, child.Name())
	}
	return names
}

// RenderRow renders the composite through its parent's formatter. A root
// tree renders all of its rows instead.
func (fs *FieldSchema) RenderRow() (string, error) {
	if fs.parent == nil {
		return fs.schema.Render("", fs.value, nil)
	}
	var value any
	if fs.value != nil {
		value = fs.value
	}
	return renderRow(fs.parent, fs.name, value, fs.err)
}

func renderRow(parent *FieldSchema, name string, value any, err error) (string, error) {
	if parent == nil {
		return "", fmt.Errorf("form: field %q has no parent schema", name)
	}
	return parent.schema.RenderRow(name, value, validator.Messages(err))
}
