package widget

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-viewform/pkg/lineage"
)

// Type names registered on lineage.Default.
const (
	TypeWidget        = "Widget"
	TypeInput         = "WidgetInput"
	TypeInputText     = "WidgetInputText"
	TypeInputPassword = "WidgetInputPassword"
	TypeInputHidden   = "WidgetInputHidden"
	TypeCheckbox      = "WidgetInputCheckbox"
	TypeTextarea      = "WidgetTextarea"
	TypeSelect        = "WidgetSelect"
	TypeSchema        = "WidgetSchema"
)

// ClassAttribute names the attribute holding CSS classes.
const ClassAttribute = "class"

func init() {
	lineage.MustRegister(TypeWidget, "")
	lineage.MustRegister(TypeInput, TypeWidget)
	lineage.MustRegister(TypeInputText, TypeInput)
	lineage.MustRegister(TypeInputPassword, TypeInput)
	lineage.MustRegister(TypeInputHidden, TypeInput)
	lineage.MustRegister(TypeCheckbox, TypeInput)
	lineage.MustRegister(TypeTextarea, TypeWidget)
	lineage.MustRegister(TypeSelect, TypeWidget)
	lineage.MustRegister(TypeSchema, TypeWidget)
}

// Widget is the contract the enhancer relies on to decorate a form control.
type Widget interface {
	TypeName() string
	Option(name string) (any, bool)
	SetOption(name string, value any)
	Options() map[string]any
	Attribute(name string) string
	SetAttribute(name, value string)
	Attributes() map[string]string
	// Render produces the control markup for name and value. attrs are merged
	// over the widget's own attributes for this call only.
	Render(name string, value any, attrs map[string]string) (string, error)
}

// Base stores options and attributes. Concrete widgets embed it and provide
// Render.
type Base struct {
	mu         sync.RWMutex
	typeName   string
	options    map[string]any
	attributes map[string]string
}

// NewBase creates a Base identified by typeName.
func NewBase(typeName string, options map[string]any, attributes map[string]string) *Base {
	b := &Base{
		typeName:   typeName,
		options:    make(map[string]any, len(options)),
		attributes: make(map[string]string, len(attributes)),
	}
	for k, v := range options {
		b.options[k] = v
	}
	for k, v := range attributes {
		b.attributes[k] = v
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

// Attribute returns the named attribute or an empty string.
func (b *Base) Attribute(name string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.attributes[name]
}

// SetAttribute sets the named attribute.
func (b *Base) SetAttribute(name, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attributes[name] = value
}

// Attributes returns a copy of all attributes.
func (b *Base) Attributes() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.attributes))
	for k, v := range b.attributes {
		out[k] = v
	}
	return out
}

func (b *Base) stringOption(name, fallback string) string {
	if v, ok := b.Option(name); ok {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return fallback
}

func (b *Base) mergedAttributes(extra map[string]string) map[string]string {
	out := b.Attributes()
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Input renders <input> controls. The "type" option selects the HTML input
// type.
type Input struct {
	*Base
}

func newInput(typeName, inputType string, options map[string]any, attributes map[string]string) *Input {
	in := &Input{Base: NewBase(typeName, options, attributes)}
	if _, ok := in.Option("type"); !ok {
		in.SetOption("type", inputType)
	}
	return in
}

// NewInput returns a generic text input.
func NewInput(options map[string]any, attributes map[string]string) *Input {
	return newInput(TypeInput, "text", options, attributes)
}

// NewInputText returns a text input.
func NewInputText(options map[string]any, attributes map[string]string) *Input {
	return newInput(TypeInputText, "text", options, attributes)
}

// NewInputPassword returns a password input. Values are never echoed back
// unless the "always_render_empty" option is set to false.
func NewInputPassword(options map[string]any, attributes map[string]string) *Input {
	in := newInput(TypeInputPassword, "password", options, attributes)
	if _, ok := in.Option("always_render_empty"); !ok {
		in.SetOption("always_render_empty", true)
	}
	return in
}

// NewInputHidden returns a hidden input.
func NewInputHidden(options map[string]any, attributes map[string]string) *Input {
	return newInput(TypeInputHidden, "hidden", options, attributes)
}

// NewCheckbox returns a checkbox input.
func NewCheckbox(options map[string]any, attributes map[string]string) *Input {
	return newInput(TypeCheckbox, "checkbox", options, attributes)
}

// Render implements Widget.
func (in *Input) Render(name string, value any, attrs map[string]string) (string, error) {
	merged := in.mergedAttributes(attrs)
	merged["type"] = in.stringOption("type", "text")
	merged["name"] = name
	if _, ok := merged["id"]; !ok {
		merged["id"] = FieldID(name)
	}

	if empty, _ := in.Option("always_render_empty"); empty == true {
		value = nil
	}

	if merged["type"] == "checkbox" {
		if truthy(value) {
			merged["checked"] = "checked"
		}
	} else if value != nil {
		merged["value"] = fmt.Sprint(value)
	}

	return "<input" + RenderAttributes(merged) + " />", nil
}

// Textarea renders a <textarea> control.
type Textarea struct {
	*Base
}

// NewTextarea returns a textarea widget with default rows/cols attributes.
func NewTextarea(options map[string]any, attributes map[string]string) *Textarea {
	ta := &Textarea{Base: NewBase(TypeTextarea, options, attributes)}
	if ta.Attribute("rows") == "" {
		ta.SetAttribute("rows", "4")
	}
	if ta.Attribute("cols") == "" {
		ta.SetAttribute("cols", "30")
	}
	return ta
}

// Render implements Widget.
func (ta *Textarea) Render(name string, value any, attrs map[string]string) (string, error) {
	merged := ta.mergedAttributes(attrs)
	merged["name"] = name
	if _, ok := merged["id"]; !ok {
		merged["id"] = FieldID(name)
	}
	content := ""
	if value != nil {
		content = html.EscapeString(fmt.Sprint(value))
	}
	return "<textarea" + RenderAttributes(merged) + ">" + content + "</textarea>", nil
}

// Select renders a <select> control from the "choices" option, which may be a
// []string or a map[string]string of value to label.
type Select struct {
	*Base
}

// NewSelect returns a select widget.
func NewSelect(options map[string]any, attributes map[string]string) *Select {
	return &Select{Base: NewBase(TypeSelect, options, attributes)}
}

// Render implements Widget.
func (s *Select) Render(name string, value any, attrs map[string]string) (string, error) {
	merged := s.mergedAttributes(attrs)
	merged["name"] = name
	if _, ok := merged["id"]; !ok {
		merged["id"] = FieldID(name)
	}

	choices, err := s.choices()
	if err != nil {
		return "", err
	}

	selected := ""
	if value != nil {
		selected = fmt.Sprint(value)
	}

	var b strings.Builder
	b.WriteString("<select" + RenderAttributes(merged) + ">")
	for _, choice := range choices {
		optAttrs := map[string]string{"value": choice[0]}
		if choice[0] == selected {
			optAttrs["selected"] = "selected"
		}
		b.WriteString("<option" + RenderAttributes(optAttrs) + ">" + html.EscapeString(choice[1]) + "</option>")
	}
	b.WriteString("</select>")
	return b.String(), nil
}

func (s *Select) choices() ([][2]string, error) {
	raw, ok := s.Option("choices")
	if !ok || raw == nil {
		return nil, nil
	}
	switch typed := raw.(type) {
	case []string:
		out := make([][2]string, 0, len(typed))
		for _, v := range typed {
			out = append(out, [2]string{v, v})
		}
		return out, nil
	case []any:
		out := make([][2]string, 0, len(typed))
		for _, v := range typed {
			s := fmt.Sprint(v)
			out = append(out, [2]string{s, s})
		}
		return out, nil
	case map[string]string:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([][2]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, [2]string{k, typed[k]})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("widget: select choices of type %T are not supported", raw)
	}
}

// RenderAttributes serialises attrs in sorted key order with a leading space
// before each pair. Values are HTML escaped.
func RenderAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(html.EscapeString(k))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[k]))
		b.WriteString(`"`)
	}
	return b.String()
}

// FieldID derives an element id from a field name such as "user[email]".
func FieldID(name string) string {
	replacer := strings.NewReplacer("[]", "", "][", "_", "[", "_", "]", "")
	return replacer.Replace(name)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0" && v != "false"
	default:
		return true
	}
}
