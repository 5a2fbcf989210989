package config

import (
	"fmt"
	"sort"
)

// Document is the deserialised configuration consumed by the enhancer. The
// enhancer treats it as read-only, so one Document may be shared by several
// enhancers.
type Document struct {
	// Catalogue is the translation catalogue set on every schema formatter.
	Catalogue string
	// Formatters maps a formatter name to a registered implementation name.
	Formatters map[string]string
	// Forms holds rules keyed by form type name.
	Forms map[string]FormRule
	// Validators holds rules keyed by validator type name.
	Validators map[string]ValidatorRule
	// Widgets holds rules keyed by widget type name.
	Widgets map[string]WidgetRule
}

// New returns an empty document.
func New() *Document {
	return &Document{
		Formatters: make(map[string]string),
		Forms:      make(map[string]FormRule),
		Validators: make(map[string]ValidatorRule),
		Widgets:    make(map[string]WidgetRule),
	}
}

// FromMap builds a Document from an already deserialised mapping with the
// top-level sections catalogue, formatters, forms, validators and widgets.
func FromMap(raw map[string]any) (*Document, error) {
	doc := New()
	for key, value := range raw {
		switch key {
		case "catalogue":
			catalogue, err := toScalarString(key, value)
			if err != nil {
				return nil, err
			}
			doc.Catalogue = trimmed(catalogue)
		case "formatters":
			formatters, err := toStringStringMap(key, value)
			if err != nil {
				return nil, err
			}
			for name, impl := range formatters {
				doc.Formatters[trimmed(name)] = trimmed(impl)
			}
		case "forms":
			forms, err := toStringMap(key, value)
			if err != nil {
				return nil, err
			}
			for typeName, entry := range forms {
				rule, err := decodeFormRule("forms."+typeName, entry)
				if err != nil {
					return nil, err
				}
				doc.Forms[typeName] = rule
			}
		case "validators":
			validators, err := toStringMap(key, value)
			if err != nil {
				return nil, err
			}
			for typeName, entry := range validators {
				options, messages, err := decodeTypeRule("validators."+typeName, "messages", entry)
				if err != nil {
					return nil, err
				}
				doc.Validators[typeName] = ValidatorRule{Options: options, Messages: messages}
			}
		case "widgets":
			widgets, err := toStringMap(key, value)
			if err != nil {
				return nil, err
			}
			for typeName, entry := range widgets {
				options, attributes, err := decodeTypeRule("widgets."+typeName, "attributes", entry)
				if err != nil {
					return nil, err
				}
				doc.Widgets[typeName] = WidgetRule{Options: options, Attributes: attributes}
			}
		default:
			return nil, fmt.Errorf("config: unknown top-level section %q", key)
		}
	}
	return doc, nil
}

// Map returns the document in its normalised mapping shape. Rule shorthands
// are expanded, so FromMap(d.Map()) reproduces d.
func (d *Document) Map() map[string]any {
	out := map[string]any{}
	if d == nil {
		return out
	}
	if d.Catalogue != "" {
		out["catalogue"] = d.Catalogue
	}
	if len(d.Formatters) > 0 {
		out["formatters"] = copyStrings(d.Formatters)
	}
	if len(d.Forms) > 0 {
		forms := make(map[string]any, len(d.Forms))
		for typeName, rule := range d.Forms {
			forms[typeName] = formRuleMap(rule)
		}
		out["forms"] = forms
	}
	if len(d.Validators) > 0 {
		validators := make(map[string]any, len(d.Validators))
		for typeName, rule := range d.Validators {
			validators[typeName] = map[string]any{
				"options":  copyAny(rule.Options),
				"messages": copyStrings(rule.Messages),
			}
		}
		out["validators"] = validators
	}
	if len(d.Widgets) > 0 {
		widgets := make(map[string]any, len(d.Widgets))
		for typeName, rule := range d.Widgets {
			widgets[typeName] = map[string]any{
				"options":    copyAny(rule.Options),
				"attributes": copyStrings(rule.Attributes),
			}
		}
		out["widgets"] = widgets
	}
	return out
}

func formRuleMap(rule FormRule) map[string]any {
	out := map[string]any{}
	if rule.Formatter != "" {
		out[DirectiveFormatter] = rule.Formatter
	}
	if rule.Catalogue != "" {
		out[DirectiveCatalogue] = rule.Catalogue
	}
	if rule.PreValidator != nil {
		out[DirectivePreValidator] = copyStrings(rule.PreValidator)
	}
	if rule.PostValidator != nil {
		out[DirectivePostValidator] = copyStrings(rule.PostValidator)
	}
	for name, override := range rule.Fields {
		entry := map[string]any{}
		if override.Label != nil {
			entry["label"] = *override.Label
		}
		if override.Help != nil {
			entry["help"] = *override.Help
		}
		if override.Default != nil {
			entry["default"] = override.Default
		}
		if override.Attributes != nil {
			entry["attributes"] = copyStrings(override.Attributes)
		}
		if override.Messages != nil {
			entry["messages"] = copyStrings(override.Messages)
		}
		out[name] = entry
	}
	return out
}

// FormTypes returns the configured form type names sorted alphabetically.
func (d *Document) FormTypes() []string {
	if d == nil {
		return nil
	}
	return sortedKeys(d.Forms)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	return Merge(d, nil)
}

// Merge layers overlay on top of base and returns a new document. Scalars in
// overlay win when set; mappings merge per key, down to individual field
// override attributes and messages. Neither input is modified.
func Merge(base, overlay *Document) *Document {
	out := New()
	for _, doc := range []*Document{base, overlay} {
		if doc == nil {
			continue
		}
		if doc.Catalogue != "" {
			out.Catalogue = doc.Catalogue
		}
		for name, impl := range doc.Formatters {
			out.Formatters[name] = impl
		}
		for typeName, rule := range doc.Widgets {
			current := out.Widgets[typeName]
			out.Widgets[typeName] = WidgetRule{
				Options:    mergeAny(current.Options, rule.Options),
				Attributes: mergeStrings(current.Attributes, rule.Attributes),
			}
		}
		for typeName, rule := range doc.Validators {
			current := out.Validators[typeName]
			out.Validators[typeName] = ValidatorRule{
				Options:  mergeAny(current.Options, rule.Options),
				Messages: mergeStrings(current.Messages, rule.Messages),
			}
		}
		for typeName, rule := range doc.Forms {
			out.Forms[typeName] = mergeFormRule(out.Forms[typeName], rule)
		}
	}
	return out
}

func mergeFormRule(current, overlay FormRule) FormRule {
	out := FormRule{
		Formatter:     current.Formatter,
		Catalogue:     current.Catalogue,
		PreValidator:  mergeStrings(current.PreValidator, overlay.PreValidator),
		PostValidator: mergeStrings(current.PostValidator, overlay.PostValidator),
		Fields:        make(map[string]FieldOverride, len(current.Fields)+len(overlay.Fields)),
	}
	if overlay.Formatter != "" {
		out.Formatter = overlay.Formatter
	}
	if overlay.Catalogue != "" {
		out.Catalogue = overlay.Catalogue
	}
	for name, override := range current.Fields {
		out.Fields[name] = mergeFieldOverride(FieldOverride{}, override)
	}
	for name, override := range overlay.Fields {
		out.Fields[name] = mergeFieldOverride(out.Fields[name], override)
	}
	return out
}

func mergeFieldOverride(current, overlay FieldOverride) FieldOverride {
	out := FieldOverride{
		Label:      current.Label,
		Help:       current.Help,
		Default:    current.Default,
		Attributes: mergeStrings(current.Attributes, overlay.Attributes),
		Messages:   mergeStrings(current.Messages, overlay.Messages),
	}
	if overlay.Label != nil {
		label := *overlay.Label
		out.Label = &label
	}
	if overlay.Help != nil {
		help := *overlay.Help
		out.Help = &help
	}
	if overlay.Default != nil {
		out.Default = overlay.Default
	}
	return out
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	if base == nil && overlay == nil {
		return nil
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func mergeAny(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func copyStrings(src map[string]string) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func copyAny(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
