package config

import (
	"fmt"
	"sort"
	"strings"
)

// Directive names reserved inside a FormRule. Forms must not declare fields
// with these names.
const (
	DirectiveFormatter     = "_formatter"
	DirectiveCatalogue     = "_catalogue"
	DirectivePreValidator  = "_pre_validator"
	DirectivePostValidator = "_post_validator"
)

var reservedNames = []string{
	DirectiveFormatter,
	DirectiveCatalogue,
	DirectivePreValidator,
	DirectivePostValidator,
}

// ReservedNames returns the directive names in canonical application order.
func ReservedNames() []string {
	return append([]string(nil), reservedNames...)
}

// IsReserved reports whether name is a directive.
func IsReserved(name string) bool {
	for _, reserved := range reservedNames {
		if name == reserved {
			return true
		}
	}
	return false
}

// FormRule is the configuration of one form type: tree-wide directives plus
// per-field overrides.
type FormRule struct {
	Formatter     string
	Catalogue     string
	PreValidator  map[string]string
	PostValidator map[string]string
	Fields        map[string]FieldOverride
}

// FieldNames returns the overridden field names sorted alphabetically.
func (r FormRule) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldOverride customises one field of a form. Nil pointers and maps mean
// "not configured".
type FieldOverride struct {
	Label      *string
	Help       *string
	Default    any
	Attributes map[string]string
	Messages   map[string]string
}

// WidgetRule configures every widget whose lineage contains the rule's type.
type WidgetRule struct {
	Options    map[string]any
	Attributes map[string]string
}

// ValidatorRule configures every validator whose lineage contains the rule's
// type.
type ValidatorRule struct {
	Options  map[string]any
	Messages map[string]string
}

func decodeFormRule(path string, raw any) (FormRule, error) {
	entries, err := toStringMap(path, raw)
	if err != nil {
		return FormRule{}, err
	}

	rule := FormRule{Fields: make(map[string]FieldOverride)}
	for key, value := range entries {
		at := path + "." + key
		switch key {
		case DirectiveFormatter:
			if rule.Formatter, err = toScalarString(at, value); err != nil {
				return FormRule{}, err
			}
		case DirectiveCatalogue:
			if rule.Catalogue, err = toScalarString(at, value); err != nil {
				return FormRule{}, err
			}
		case DirectivePreValidator:
			if rule.PreValidator, err = toStringStringMap(at, value); err != nil {
				return FormRule{}, err
			}
		case DirectivePostValidator:
			if rule.PostValidator, err = toStringStringMap(at, value); err != nil {
				return FormRule{}, err
			}
		default:
			override, err := decodeFieldOverride(at, value)
			if err != nil {
				return FormRule{}, err
			}
			rule.Fields[key] = override
		}
	}
	return rule, nil
}

func decodeFieldOverride(path string, raw any) (FieldOverride, error) {
	entries, err := toStringMap(path, raw)
	if err != nil {
		return FieldOverride{}, err
	}

	var override FieldOverride
	for key, value := range entries {
		at := path + "." + key
		switch key {
		case "label":
			label, err := toScalarString(at, value)
			if err != nil {
				return FieldOverride{}, err
			}
			override.Label = &label
		case "help":
			help, err := toScalarString(at, value)
			if err != nil {
				return FieldOverride{}, err
			}
			override.Help = &help
		case "default":
			if _, err := toScalarString(at, value); err != nil {
				return FieldOverride{}, err
			}
			override.Default = value
		case "attributes":
			if override.Attributes, err = toStringStringMap(at, value); err != nil {
				return FieldOverride{}, err
			}
		case "messages":
			if override.Messages, err = toStringStringMap(at, value); err != nil {
				return FieldOverride{}, err
			}
		default:
			return FieldOverride{}, fmt.Errorf("config: %s: unknown field override key %q", path, key)
		}
	}
	return override, nil
}

// decodeTypeRule normalises the {options, <kind>} shape. When neither key is
// present the whole mapping is the <kind> section.
func decodeTypeRule(path, kind string, raw any) (map[string]any, map[string]string, error) {
	entries, err := toStringMap(path, raw)
	if err != nil {
		return nil, nil, err
	}

	_, hasOptions := entries["options"]
	_, hasKind := entries[kind]
	if !hasOptions && !hasKind {
		values, err := toStringStringMap(path, entries)
		return map[string]any{}, values, err
	}

	options := map[string]any{}
	values := map[string]string{}
	for key, value := range entries {
		at := path + "." + key
		switch key {
		case "options":
			if options, err = toStringMap(at, value); err != nil {
				return nil, nil, err
			}
		case kind:
			if values, err = toStringStringMap(at, value); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, fmt.Errorf("config: %s: unexpected key %q alongside options/%s", path, key, kind)
		}
	}
	return options, values, nil
}

func toStringMap(path string, raw any) (map[string]any, error) {
	switch typed := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return typed, nil
	case map[string]string:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = v
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("config: %s: non-string key %v", path, k)
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("config: %s: expected a mapping, got %T", path, raw)
	}
}

func toStringStringMap(path string, raw any) (map[string]string, error) {
	entries, err := toStringMap(path, raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for key, value := range entries {
		s, err := toScalarString(path+"."+key, value)
		if err != nil {
			return nil, err
		}
		out[key] = s
	}
	return out, nil
}

func toScalarString(path string, raw any) (string, error) {
	switch typed := raw.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(typed), nil
	default:
		return "", fmt.Errorf("config: %s: expected a scalar, got %T", path, raw)
	}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
