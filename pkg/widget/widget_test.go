package widget_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewform/pkg/lineage"
	"github.com/goliatone/go-viewform/pkg/widget"
)

func TestMergeAttributes(t *testing.T) {
	tests := []struct {
		name    string
		initial map[string]string
		attrs   map[string]string
		want    map[string]string
	}{
		{
			name:    "class appended to existing value",
			initial: map[string]string{"class": "form_class"},
			attrs:   map[string]string{"class": "extra_class"},
			want:    map[string]string{"class": "form_class extra_class"},
		},
		{
			name:    "class set when empty",
			initial: map[string]string{"class": ""},
			attrs:   map[string]string{"class": "extra_class"},
			want:    map[string]string{"class": "extra_class"},
		},
		{
			name:    "other attributes replaced",
			initial: map[string]string{"foo": "old", "size": "10"},
			attrs:   map[string]string{"foo": "bar"},
			want:    map[string]string{"foo": "bar", "size": "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := widget.NewInputText(nil, tt.initial)
			widget.MergeAttributes(w, tt.attrs)
			if diff := cmp.Diff(tt.want, w.Attributes()); diff != "" {
				t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeAttributes_LayersAccumulate(t *testing.T) {
	w := widget.NewInputText(nil, map[string]string{"class": "a"})
	widget.MergeAttributes(w, map[string]string{"class": "b"})
	widget.MergeAttributes(w, map[string]string{"class": "c"})
	if got := w.Attribute("class"); got != "a b c" {
		t.Fatalf("expected accumulated classes, got %q", got)
	}
}

func TestReferenceWidgetLineage(t *testing.T) {
	want := []string{widget.TypeWidget, widget.TypeInput, widget.TypeInputPassword}
	if diff := cmp.Diff(want, lineage.Of(widget.NewInputPassword(nil, nil))); diff != "" {
		t.Fatalf("lineage mismatch (-want +got):\n%s", diff)
	}
	want = []string{widget.TypeWidget, widget.TypeSchema}
	if diff := cmp.Diff(want, lineage.Of(widget.NewSchema(nil, nil))); diff != "" {
		t.Fatalf("schema lineage mismatch (-want +got):\n%s", diff)
	}
}

func TestInput_Render(t *testing.T) {
	w := widget.NewInputText(nil, map[string]string{"class": "form_class", "foo": "bar"})
	out, err := w.Render("email", `a"b`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<input class="form_class" foo="bar" id="email" name="email" type="text" value="a&#34;b" />`
	if out != want {
		t.Fatalf("unexpected markup\nwant %s\ngot  %s", want, out)
	}

	pw := widget.NewInputPassword(nil, nil)
	out, _ = pw.Render("secret", "hunter2", nil)
	if strings.Contains(out, "hunter2") {
		t.Fatalf("password value should not be rendered: %s", out)
	}
}

func TestSelect_Render(t *testing.T) {
	w := widget.NewSelect(map[string]any{"choices": []string{"a", "b"}}, nil)
	out, err := w.Render("pick", "b", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<option selected="selected" value="b">b</option>`) {
		t.Fatalf("expected selected option, got %s", out)
	}

	bad := widget.NewSelect(map[string]any{"choices": 3}, nil)
	if _, err := bad.Render("pick", nil, nil); err == nil {
		t.Fatalf("expected unsupported choices error")
	}
}

func TestSchemaWidget_RenderRow(t *testing.T) {
	schema := widget.NewSchema(nil, nil)
	schema.SetField("email_again", widget.NewInputText(nil, nil))
	schema.SetHelp("email_again", "Repeat it")
	schema.SetDefault("email_again", "john@example.com")

	out, err := schema.RenderRow("email_again", nil, []string{"Required."})
	if err != nil {
		t.Fatalf("render row: %v", err)
	}
	for _, want := range []string{
		`<label for="email_again">Email again</label>`,
		`value="john@example.com"`,
		`Repeat it`,
		`<li>Required.</li>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}

	schema.SetFormatterName("missing")
	if _, err := schema.RenderRow("email_again", nil, nil); err == nil {
		t.Fatalf("expected missing formatter error")
	}
}

func TestSchemaWidget_FieldOrder(t *testing.T) {
	schema := widget.NewSchema(nil, nil)
	schema.SetField("b", widget.NewInput(nil, nil))
	schema.SetField("a", widget.NewInput(nil, nil))
	schema.SetField("c", widget.NewInput(nil, nil))
	schema.SetField("a", nil)

	if diff := cmp.Diff([]string{"b", "c"}, schema.Fields()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
