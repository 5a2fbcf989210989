package widget

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/goliatone/go-viewform/pkg/formatter"
)

// DefaultFormatterName is the formatter a fresh schema widget renders with.
const DefaultFormatterName = "table"

// Schema is a composite widget holding named child widgets plus per-child
// labels, help and defaults. Rows are laid out by the attached formatter
// selected through FormatterName.
type Schema interface {
	Widget
	Fields() []string
	Field(name string) (Widget, bool)
	SetField(name string, w Widget)
	Label(name string) string
	SetLabel(name, label string)
	Help(name string) string
	SetHelp(name, help string)
	Default(name string) (any, bool)
	SetDefault(name string, value any)
	FormatterName() string
	SetFormatterName(name string)
	Formatter(name string) (formatter.Formatter, bool)
	AddFormatter(name string, f formatter.Formatter)
	CurrentFormatter() (formatter.Formatter, error)
	RenderRow(name string, value any, errs []string) (string, error)
}

// SchemaWidget is the reference Schema implementation.
type SchemaWidget struct {
	*Base

	smu           sync.RWMutex
	order         []string
	fields        map[string]Widget
	labels        map[string]string
	helps         map[string]string
	defaults      map[string]any
	formatterName string
	formatters    map[string]formatter.Formatter
}

var _ Schema = (*SchemaWidget)(nil)

// NewSchema returns an empty schema widget with the built-in "table" and
// "list" formatters attached.
func NewSchema(options map[string]any, attributes map[string]string) *SchemaWidget {
	return &SchemaWidget{
		Base:          NewBase(TypeSchema, options, attributes),
		fields:        make(map[string]Widget),
		labels:        make(map[string]string),
		helps:         make(map[string]string),
		defaults:      make(map[string]any),
		formatterName: DefaultFormatterName,
		formatters: map[string]formatter.Formatter{
			"table": formatter.NewTable(),
			"list":  formatter.NewList(),
		},
	}
}

// Fields returns child names in declaration order.
func (s *SchemaWidget) Fields() []string {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return append([]string(nil), s.order...)
}

// Field returns the named child widget.
func (s *SchemaWidget) Field(name string) (Widget, bool) {
	s.smu.RLock()
	defer s.smu.RUnlock()
	w, ok := s.fields[name]
	return w, ok
}

// SetField adds or replaces a child widget. New names are appended to the
// declaration order; nil removes the child.
func (s *SchemaWidget) SetField(name string, w Widget) {
	s.smu.Lock()
	defer s.smu.Unlock()

	_, exists := s.fields[name]
	if w == nil {
		if exists {
			delete(s.fields, name)
			for i, n := range s.order {
				if n == name {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		}
		return
	}
	if !exists {
		s.order = append(s.order, name)
	}
	s.fields[name] = w
}

// Label returns the configured label for a child, or a humanised name.
func (s *SchemaWidget) Label(name string) string {
	s.smu.RLock()
	label, ok := s.labels[name]
	s.smu.RUnlock()
	if ok {
		return label
	}
	return humanize(name)
}

// SetLabel sets a child label.
func (s *SchemaWidget) SetLabel(name, label string) {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.labels[name] = label
}

// Help returns a child help text.
func (s *SchemaWidget) Help(name string) string {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.helps[name]
}

// SetHelp sets a child help text.
func (s *SchemaWidget) SetHelp(name, help string) {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.helps[name] = help
}

// Default returns a child default value.
func (s *SchemaWidget) Default(name string) (any, bool) {
	s.smu.RLock()
	defer s.smu.RUnlock()
	v, ok := s.defaults[name]
	return v, ok
}

// SetDefault sets a child default value.
func (s *SchemaWidget) SetDefault(name string, value any) {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.defaults[name] = value
}

// FormatterName returns the name of the formatter used for rendering.
func (s *SchemaWidget) FormatterName() string {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.formatterName
}

// SetFormatterName selects the formatter used for rendering.
func (s *SchemaWidget) SetFormatterName(name string) {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.formatterName = strings.TrimSpace(name)
}

// Formatter returns the formatter attached under name.
func (s *SchemaWidget) Formatter(name string) (formatter.Formatter, bool) {
	s.smu.RLock()
	defer s.smu.RUnlock()
	f, ok := s.formatters[name]
	return f, ok
}

// AddFormatter attaches f under name, replacing any previous formatter.
func (s *SchemaWidget) AddFormatter(name string, f formatter.Formatter) {
	s.smu.Lock()
	defer s.smu.Unlock()
	s.formatters[name] = f
}

// CurrentFormatter returns the formatter selected by FormatterName.
func (s *SchemaWidget) CurrentFormatter() (formatter.Formatter, error) {
	name := s.FormatterName()
	f, ok := s.Formatter(name)
	if !ok || f == nil {
		return nil, fmt.Errorf("widget: formatter %q is not attached", name)
	}
	return f, nil
}

// RenderRow renders the labelled row of a single child through the current
// formatter. A nil value falls back to the configured default.
func (s *SchemaWidget) RenderRow(name string, value any, errs []string) (string, error) {
	return s.renderRow(name, name, value, errs)
}

// Render renders every child row. value, when a map, supplies child values.
func (s *SchemaWidget) Render(name string, value any, _ map[string]string) (string, error) {
	values, _ := value.(map[string]any)

	var b strings.Builder
	for _, child := range s.Fields() {
		rowName := child
		if name != "" {
			rowName = name + "[" + child + "]"
		}
		row, err := s.renderRow(child, rowName, values[child], nil)
		if err != nil {
			return "", err
		}
		b.WriteString(row)
	}
	return b.String(), nil
}

func (s *SchemaWidget) renderRow(child, rowName string, value any, errs []string) (string, error) {
	w, ok := s.Field(child)
	if !ok {
		return "", fmt.Errorf("widget: schema has no field %q", child)
	}
	f, err := s.CurrentFormatter()
	if err != nil {
		return "", err
	}

	if value == nil {
		value, _ = s.Default(child)
	}

	field, err := w.Render(rowName, value, nil)
	if err != nil {
		return "", fmt.Errorf("widget: render %q: %w", rowName, err)
	}

	label := `<label for="` + html.EscapeString(FieldID(rowName)) + `">` + f.Interpolate(s.Label(child), nil) + `</label>`

	help := s.Help(child)
	if help != "" {
		help = f.Interpolate(help, nil)
	}

	return f.FormatRow(formatter.Row{
		Label:  label,
		Field:  field,
		Errors: errs,
		Help:   help,
	})
}

func humanize(name string) string {
	text := strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if text == "" {
		return ""
	}
	return strings.ToUpper(text[:1]) + text[1:]
}
