package enhancer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-viewform/pkg/config"
	"github.com/goliatone/go-viewform/pkg/form"
	"github.com/goliatone/go-viewform/pkg/formatter"
	"github.com/goliatone/go-viewform/pkg/validator"
	"github.com/goliatone/go-viewform/pkg/widget"
)

// scope is the configuration context of a field tree: the form type rules
// are looked up by, the forms embedded in it and the bound object.
// inherited marks nested schemas that reuse their parent's form type.
type scope struct {
	typeName  string
	embedded  map[string]form.Form
	object    any
	inherited bool
}

func scopeOf(f form.Form) scope {
	s := scope{typeName: f.TypeName(), embedded: f.EmbeddedForms()}
	if binder, ok := f.(form.ObjectBinder); ok {
		s.object = binder.Object()
	}
	return s
}

// child returns the scope of the composite child named name.
func (s scope) child(name string) scope {
	if sub, ok := s.embedded[name]; ok && sub != nil {
		return scopeOf(sub)
	}
	return scope{typeName: s.typeName, inherited: true}
}

// check validates the structure of the whole tree before anything is
// mutated: no reserved field names and no form rule naming a missing field.
func (p *pass) check(tree *form.FieldSchema, s scope) error {
	var reserved []string
	for _, name := range tree.Names() {
		if config.IsReserved(name) {
			reserved = append(reserved, name)
		}
	}
	if len(reserved) > 0 {
		sort.Strings(reserved)
		return fmt.Errorf("enhancer: form %s declares %s: %w", s.typeName, strings.Join(reserved, ", "), ErrReservedField)
	}

	if !s.inherited {
		for _, typeName := range p.lineage.Of(s.typeName) {
			rule, ok := p.cfg.Forms[typeName]
			if !ok {
				continue
			}
			for _, name := range rule.FieldNames() {
				if _, ok := tree.Child(name); !ok {
					return fmt.Errorf("enhancer: forms.%s targets field %q missing from %s: %w", typeName, name, s.typeName, ErrUnknownField)
				}
			}
		}
	}

	for _, node := range tree.Children() {
		if nested, ok := node.(*form.FieldSchema); ok {
			if err := p.check(nested, s.child(nested.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pass) tree(tree *form.FieldSchema, s scope) error {
	schema := tree.Schema()
	if err := p.widget(schema, s.object, nil); err != nil {
		return err
	}
	f := currentFormatter(schema)
	if v := tree.Validator(); v != nil {
		p.validator(v, s.object, f, false)
	}

	for _, node := range tree.Children() {
		if nested, ok := node.(*form.FieldSchema); ok {
			if err := p.tree(nested, s.child(nested.Name())); err != nil {
				return err
			}
			continue
		}
		if err := p.widget(node.Widget(), s.object, f); err != nil {
			return err
		}
		if v := node.Validator(); v != nil {
			p.validator(v, s.object, f, false)
		}
	}

	for _, typeName := range p.lineage.Of(s.typeName) {
		rule, ok := p.cfg.Forms[typeName]
		if !ok {
			continue
		}
		if err := p.formRule(tree, s, typeName, rule); err != nil {
			return err
		}
	}
	return nil
}

// formRule applies one form rule: directives in fixed order, then field
// overrides by name.
func (p *pass) formRule(tree *form.FieldSchema, s scope, typeName string, rule config.FormRule) error {
	schema := tree.Schema()
	f := currentFormatter(schema)

	if rule.Formatter != "" {
		name := p.substituter.String(rule.Formatter, s.object, interpolator(f))
		resolved, err := p.attachFormatter(schema, name)
		if err != nil {
			return fmt.Errorf("enhancer: forms.%s.%s: %w", typeName, config.DirectiveFormatter, err)
		}
		schema.SetFormatterName(name)
		f = resolved
	}

	if rule.Catalogue != "" && f != nil {
		f.SetCatalogue(p.substituter.String(rule.Catalogue, s.object, interpolator(f)))
	}

	if members, ok := tree.Validator().(validator.Schema); ok {
		if pre := members.PreValidator(); pre != nil && rule.PreValidator != nil {
			p.mergeMessages(pre, p.substituter.Strings(rule.PreValidator, s.object, interpolator(f)))
		}
		if post := members.PostValidator(); post != nil && rule.PostValidator != nil {
			p.mergeMessages(post, p.substituter.Strings(rule.PostValidator, s.object, interpolator(f)))
		}
	}

	for _, name := range rule.FieldNames() {
		node, ok := tree.Child(name)
		if !ok {
			if s.inherited {
				continue
			}
			return fmt.Errorf("enhancer: forms.%s targets field %q missing from %s: %w", typeName, name, s.typeName, ErrUnknownField)
		}
		p.fieldOverride(schema, node, rule.Fields[name], s.object, f)
	}

	p.logger.Debug().
		Str("form", s.typeName).
		Str("rule", typeName).
		Bool("inherited", s.inherited).
		Msg("form rule applied")
	return nil
}

func (p *pass) fieldOverride(schema widget.Schema, node form.Node, override config.FieldOverride, object any, f formatter.Formatter) {
	name := node.Name()
	in := interpolator(f)

	if override.Label != nil {
		schema.SetLabel(name, p.substituter.String(*override.Label, object, in))
	}
	if override.Default != nil {
		schema.SetDefault(name, p.substituter.Value(override.Default, object, in))
	}
	if override.Help != nil {
		schema.SetHelp(name, p.substituter.String(*override.Help, object, in))
	}
	if override.Attributes != nil && node.Widget() != nil {
		widget.MergeAttributes(node.Widget(), p.substituter.Strings(override.Attributes, object, in))
	}
	if v := node.Validator(); v != nil && override.Messages != nil {
		p.mergeMessages(v, p.substituter.Strings(override.Messages, object, in))
	}
}

func (p *pass) mergeMessages(v validator.Validator, messages map[string]string) {
	for _, code := range sortedKeys(messages) {
		v.SetMessage(code, messages[code])
	}
}

func currentFormatter(schema widget.Schema) formatter.Formatter {
	f, err := schema.CurrentFormatter()
	if err != nil {
		return nil
	}
	return f
}
