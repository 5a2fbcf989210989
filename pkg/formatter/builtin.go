package formatter

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// Built-in implementation references. The enhancer derives them from a
// formatter name by camel-casing it and appending "Formatter".
const (
	TableFormatter = "TableFormatter"
	ListFormatter  = "ListFormatter"
)

// Row template sources of the built-in layouts. Custom formatters can reuse
// them through NewTemplate under their own name.
const (
	TableRowSource = `<tr><th>{{ label|safe }}</th><td>{% if errors %}<ul class="error_list">{% for e in errors %}<li>{{ e }}</li>{% endfor %}</ul>{% endif %}{{ field|safe }}{% if help %}<br />{{ help|safe }}{% endif %}</td></tr>`
	ListRowSource  = `<li>{% if errors %}<ul class="error_list">{% for e in errors %}<li>{{ e }}</li>{% endfor %}</ul>{% endif %}{{ label|safe }}{{ field|safe }}{% if help %}<span class="help">{{ help|safe }}</span>{% endif %}</li>`
)

var (
	tableRowTemplate = pongo2.Must(pongo2.FromString(TableRowSource))
	listRowTemplate  = pongo2.Must(pongo2.FromString(ListRowSource))
)

// Template is a Formatter rendering each row through a pongo2 template.
type Template struct {
	*Base
	row *pongo2.Template
}

// NewTemplate compiles source as the row template of a formatter named name.
func NewTemplate(name, source string) (*Template, error) {
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("formatter: compile %s row template: %w", name, err)
	}
	return &Template{Base: NewBase(name), row: tpl}, nil
}

// NewTable returns the table layout formatter.
func NewTable() *Template {
	return &Template{Base: NewBase(TableFormatter), row: tableRowTemplate}
}

// NewList returns the unordered list layout formatter.
func NewList() *Template {
	return &Template{Base: NewBase(ListFormatter), row: listRowTemplate}
}

// FormatRow renders row.
func (t *Template) FormatRow(row Row) (string, error) {
	out, err := t.row.Execute(pongo2.Context{
		"label":  row.Label,
		"field":  row.Field,
		"errors": row.Errors,
		"help":   row.Help,
	})
	if err != nil {
		return "", fmt.Errorf("formatter: render %s row: %w", t.Name(), err)
	}
	return out, nil
}
