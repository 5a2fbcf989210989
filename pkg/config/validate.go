package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate lints the document. resolves reports whether a formatter name or
// implementation reference can be resolved; pass nil to skip formatter
// checks. Every problem found is reported, joined with errors.Join.
func (d *Document) Validate(resolves func(name string) bool) error {
	if d == nil {
		return nil
	}

	var errs []error
	for _, name := range sortedKeys(d.Formatters) {
		impl := d.Formatters[name]
		if name == "" {
			errs = append(errs, errors.New("config: formatters: empty formatter name"))
			continue
		}
		if impl == "" {
			errs = append(errs, fmt.Errorf("config: formatters.%s: empty implementation", name))
			continue
		}
		if resolves != nil && !resolves(impl) {
			errs = append(errs, fmt.Errorf("config: formatters.%s: unknown implementation %q", name, impl))
		}
	}

	for _, typeName := range sortedKeys(d.Forms) {
		rule := d.Forms[typeName]
		if rule.Formatter != "" && resolves != nil && !resolves(rule.Formatter) {
			errs = append(errs, fmt.Errorf("config: forms.%s.%s: unknown formatter %q", typeName, DirectiveFormatter, rule.Formatter))
		}
		for _, field := range rule.FieldNames() {
			if strings.TrimSpace(field) == "" {
				errs = append(errs, fmt.Errorf("config: forms.%s: empty field name", typeName))
			}
		}
	}

	for _, typeName := range sortedKeys(d.Widgets) {
		if _, ok := d.Widgets[typeName].Attributes[""]; ok {
			errs = append(errs, fmt.Errorf("config: widgets.%s: empty attribute name", typeName))
		}
	}
	for _, typeName := range sortedKeys(d.Validators) {
		if _, ok := d.Validators[typeName].Messages[""]; ok {
			errs = append(errs, fmt.Errorf("config: validators.%s: empty message code", typeName))
		}
	}

	return errors.Join(errs...)
}
