package enhancer

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-viewform/pkg/config"
	"github.com/goliatone/go-viewform/pkg/formatter"
	"github.com/goliatone/go-viewform/pkg/lineage"
	"github.com/goliatone/go-viewform/pkg/substitute"
	"github.com/goliatone/go-viewform/pkg/validator"
	"github.com/goliatone/go-viewform/pkg/widget"
)

// pass holds the collaborators of one enhancement call. The configuration is
// read once so a concurrent SetConfig never splits a pass.
type pass struct {
	cfg         *config.Document
	formatters  *formatter.Registry
	lineage     *lineage.Table
	substituter *substitute.Substituter
	logger      zerolog.Logger
}

func (p *pass) widget(w widget.Widget, object any, f formatter.Formatter) error {
	if schema, ok := w.(widget.Schema); ok {
		resolved, err := p.attachFormatter(schema, schema.FormatterName())
		if err != nil {
			return err
		}
		if p.cfg.Catalogue != "" {
			resolved.SetCatalogue(p.cfg.Catalogue)
		}
		f = resolved
	}

	for _, typeName := range p.lineage.Of(w) {
		rule, ok := p.cfg.Widgets[typeName]
		if !ok {
			continue
		}

		options, _ := p.substituter.Value(rule.Options, object, interpolator(f)).(map[string]any)
		for _, name := range sortedKeys(options) {
			w.SetOption(name, options[name])
		}
		widget.MergeAttributes(w, p.substituter.Strings(rule.Attributes, object, interpolator(f)))

		p.logger.Debug().
			Str("widget", w.TypeName()).
			Str("rule", typeName).
			Msg("widget rule applied")
	}
	return nil
}

func (p *pass) validator(v validator.Validator, object any, f formatter.Formatter, recursive bool) {
	for _, typeName := range p.lineage.Of(v) {
		rule, ok := p.cfg.Validators[typeName]
		if !ok {
			continue
		}

		options, _ := p.substituter.Value(rule.Options, object, interpolator(f)).(map[string]any)
		for _, name := range sortedKeys(options) {
			v.SetOption(name, options[name])
		}
		messages := p.substituter.Strings(rule.Messages, object, interpolator(f))
		for _, code := range sortedKeys(messages) {
			v.SetMessage(code, messages[code])
		}

		p.logger.Debug().
			Str("validator", v.TypeName()).
			Str("rule", typeName).
			Msg("validator rule applied")
	}

	if schema, ok := v.(validator.Schema); ok {
		if pre := schema.PreValidator(); pre != nil {
			p.validator(pre, object, f, true)
		}
		if post := schema.PostValidator(); post != nil {
			p.validator(post, object, f, true)
		}
		if recursive {
			for _, name := range schema.Fields() {
				if member, ok := schema.Field(name); ok && member != nil {
					p.validator(member, object, f, recursive)
				}
			}
		}
	}

	if group, ok := v.(validator.Group); ok {
		for _, member := range group.Validators() {
			if member != nil {
				p.validator(member, object, f, recursive)
			}
		}
	}
}

// attachFormatter resolves name and attaches the result to schema under that
// name. The replaced formatter hands over its catalogue and translator.
func (p *pass) attachFormatter(schema widget.Schema, name string) (formatter.Formatter, error) {
	attached, hasAttached := schema.Formatter(name)
	if hasAttached && attached == nil {
		hasAttached = false
	}

	impl, ok := p.implementation(name)
	if !ok {
		if mapped, configured := p.cfg.Formatters[name]; configured {
			return nil, fmt.Errorf("enhancer: formatter %q maps to %q: %w", name, mapped, ErrUnknownFormatter)
		}
		if hasAttached {
			return attached, nil
		}
		return nil, fmt.Errorf("enhancer: formatter %q: %w", name, ErrUnknownFormatter)
	}
	if hasAttached && attached.Name() == impl {
		return attached, nil
	}

	resolved, err := p.formatters.New(impl)
	if err != nil {
		return nil, fmt.Errorf("enhancer: formatter %q: %w", name, ErrUnknownFormatter)
	}

	previous := attached
	if !hasAttached {
		previous, _ = schema.CurrentFormatter()
	}
	if previous != nil {
		if catalogue := previous.Catalogue(); catalogue != "" {
			resolved.SetCatalogue(catalogue)
		}
		if translator := previous.Translator(); translator != nil {
			resolved.SetTranslator(translator)
		}
	}

	schema.AddFormatter(name, resolved)
	p.logger.Debug().Str("formatter", name).Str("implementation", impl).Msg("formatter attached")
	return resolved, nil
}

// implementation maps a formatter name to a registered implementation: the
// name itself, the formatters section, then Camelize(name)+"Formatter".
func (p *pass) implementation(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if p.formatters.Has(name) {
		return name, true
	}
	if mapped, ok := p.cfg.Formatters[name]; ok {
		if p.formatters.Has(mapped) {
			return mapped, true
		}
		return "", false
	}
	if conventional := substitute.Camelize(name) + "Formatter"; p.formatters.Has(conventional) {
		return conventional, true
	}
	return "", false
}

// interpolator keeps a nil formatter from turning into a non-nil interface.
func interpolator(f formatter.Formatter) substitute.Interpolator {
	if f == nil {
		return nil
	}
	return f
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
