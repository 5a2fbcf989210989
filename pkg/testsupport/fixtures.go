package testsupport

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewform/pkg/config"
	"github.com/goliatone/go-viewform/pkg/form"
	"github.com/goliatone/go-viewform/pkg/formatter"
	"github.com/goliatone/go-viewform/pkg/lineage"
	"github.com/goliatone/go-viewform/pkg/validator"
	"github.com/goliatone/go-viewform/pkg/widget"
)

// Form type names used by the fixtures.
const (
	TypeMyForm      = "MyForm"
	TypeAnotherForm = "AnotherForm"
)

// Custom formatter implementations referenced by SampleConfigYAML.
const (
	MyTableFormatter  = "MyTableFormatter"
	MyCustomFormatter = "MyCustomFormatter"
)

func init() {
	lineage.MustRegister(TypeMyForm, form.TypeForm)
	lineage.MustRegister(TypeAnotherForm, form.TypeForm)
}

// SampleConfigYAML exercises every section of a configuration document.
const SampleConfigYAML = `
catalogue: forms

formatters:
  table: MyTableFormatter

forms:
  MyForm:
    _formatter: MyCustomFormatter
    _catalogue: my_form_catalogue
    _post_validator:
      invalid: The two email addresses must match.
    email:
      help: i.e. john@example.com
      label: Your email address
      default: john@example.com
    email_again:
      help: 'Current email is "%%email%%".'

validators:
  ValidatorEmail:
    invalid: '"%value%" is not a valid email address.'
  ValidatorBase:
    required: This is a required value.

widgets:
  WidgetInput:
    class: extra_class
    foo: bar
`

// SampleConfig parses SampleConfigYAML.
func SampleConfig(t *testing.T) *config.Document {
	t.Helper()
	return MustParseConfig(t, SampleConfigYAML)
}

// MustParseConfig parses a JSON or YAML document or fails the test.
func MustParseConfig(t *testing.T, source string) *config.Document {
	t.Helper()

	doc, err := config.Parse([]byte(source))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return doc
}

// Formatters returns a registry holding the built-ins plus the custom
// formatters referenced by SampleConfigYAML.
func Formatters(t *testing.T) *formatter.Registry {
	t.Helper()

	registry := formatter.NewRegistry()
	for name, source := range map[string]string{
		MyTableFormatter:  formatter.TableRowSource,
		MyCustomFormatter: formatter.ListRowSource,
	} {
		name, source := name, source
		if _, err := formatter.NewTemplate(name, source); err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		registry.MustRegister(name, func() formatter.Formatter {
			f, _ := formatter.NewTemplate(name, source)
			return f
		})
	}
	return registry
}

// EchoObject resolves every accessor to its own name, so %%email%% becomes
// "GetEmail".
type EchoObject struct{}

// Access implements substitute.Accessor.
func (EchoObject) Access(name string) (any, bool) {
	return name, true
}

// NewMyForm builds a form with two e-mail fields that must match. The email
// widget starts with class "form_class".
func NewMyForm(object any) *form.Base {
	f := form.New(TypeMyForm)
	f.SetWidget("email", widget.NewInputText(nil, map[string]string{"class": "form_class"}))
	f.SetWidget("email_again", widget.NewInputText(nil, nil))
	f.SetValidator("email", validator.NewEmail(nil, nil))
	f.SetValidator("email_again", validator.NewEmail(nil, nil))
	f.MergePostValidator(validator.NewSchemaCompare("email", "==", "email_again", nil, nil))
	if object != nil {
		f.SetObject(object)
	}
	return f
}

// NewAnotherForm builds a form embedding sub under "embedded".
func NewAnotherForm(t *testing.T, sub form.Form) *form.Base {
	t.Helper()

	f := form.New(TypeAnotherForm)
	if err := f.Embed("embedded", sub); err != nil {
		t.Fatalf("embed: %v", err)
	}
	return f
}

// Diff wraps cmp.Diff for fixture comparisons.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}
