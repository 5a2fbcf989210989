package viewform_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewform"
	"github.com/goliatone/go-viewform/pkg/enhancer"
	"github.com/goliatone/go-viewform/pkg/form"
	"github.com/goliatone/go-viewform/pkg/testsupport"
	"github.com/goliatone/go-viewform/pkg/widget"
)

func newEnhancer(t *testing.T) *viewform.Enhancer {
	t.Helper()
	return viewform.New(
		viewform.WithConfig(testsupport.SampleConfig(t)),
		enhancer.WithFormatters(testsupport.Formatters(t)),
	)
}

func TestFilterTemplateParameters(t *testing.T) {
	e := newEnhancer(t)

	invalid := testsupport.NewMyForm(nil)
	invalid.Bind(map[string]any{"email": "foo"})
	valid := testsupport.NewMyForm(nil)
	valid.Bind(map[string]any{"email": "a@example.com", "email_again": "a@example.com"})

	params := map[string]any{
		"invalid": invalid,
		"valid":   valid,
		"title":   "Sign up",
	}

	var failed []string
	handler := func(name string, _ form.Form) {
		failed = append(failed, name)
	}

	if err := viewform.FilterTemplateParameters(e, params, handler); err != nil {
		t.Fatalf("FilterTemplateParameters: %v", err)
	}
	if diff := cmp.Diff([]string{"invalid"}, failed); diff != "" {
		t.Fatalf("failure handler calls mismatch (-want +got):\n%s", diff)
	}
	if !e.HasEnhanced(invalid) || !e.HasEnhanced(valid) {
		t.Fatalf("both forms should be enhanced")
	}

	row, err := invalid.RenderRow("email")
	if err != nil {
		t.Fatalf("RenderRow: %v", err)
	}
	if !strings.Contains(row, "Your email address") {
		t.Fatalf("expected configured label in row:\n%s", row)
	}

	if err := viewform.FilterTemplateParameters(e, params, nil); err != nil {
		t.Fatalf("second pass: %v", err)
	}
}

func TestFilterTemplateParameters_ReportsErrors(t *testing.T) {
	e := newEnhancer(t)

	broken := form.New(form.TypeForm)
	broken.SetWidget("_catalogue", widget.NewInputText(nil, nil))
	fine := testsupport.NewMyForm(nil)

	err := viewform.FilterTemplateParameters(e, map[string]any{"broken": broken, "fine": fine}, nil)
	if !errors.Is(err, enhancer.ErrReservedField) {
		t.Fatalf("expected reserved field error, got %v", err)
	}
	if !strings.Contains(err.Error(), `parameter "broken"`) {
		t.Fatalf("error should name the parameter: %v", err)
	}
	if !e.HasEnhanced(fine) {
		t.Fatalf("valid forms are enhanced even when another fails")
	}

	if err := viewform.FilterTemplateParameters(nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil enhancer")
	}
}

func TestErrorMap(t *testing.T) {
	outer := testsupport.NewAnotherForm(t, testsupport.NewMyForm(nil))
	outer.Bind(map[string]any{
		"embedded": map[string]any{"email": "foo"},
		"admin":    "1",
	})

	got := viewform.ErrorMap(outer.Errors(), "")
	want := map[string]any{
		viewform.DefaultGlobalErrorsKey: []string{`Unexpected extra form field named "admin".`},
		"embedded": map[string]any{
			"email":       "Invalid.",
			"email_again": "Required.",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("error map mismatch (-want +got):\n%s", diff)
	}

	custom := viewform.ErrorMap(outer.Errors(), "global")
	if _, ok := custom["global"]; !ok {
		t.Fatalf("custom global key not used: %v", custom)
	}

	if diff := cmp.Diff(map[string]any{}, viewform.ErrorMap(nil, "")); diff != "" {
		t.Fatalf("nil schema should map to an empty map:\n%s", diff)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yml")
	overlay := filepath.Join(dir, "overlay.yml")
	if err := os.WriteFile(base, []byte(testsupport.SampleConfigYAML), 0o644); err != nil {
		t.Fatalf("write base: %v", err)
	}
	if err := os.WriteFile(overlay, []byte("catalogue: overridden\n"), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	e, err := viewform.NewFromFiles([]string{base, overlay}, enhancer.WithFormatters(testsupport.Formatters(t)))
	if err != nil {
		t.Fatalf("NewFromFiles: %v", err)
	}
	if got := e.Config().Catalogue; got != "overridden" {
		t.Fatalf("expected overlay catalogue, got %q", got)
	}
	if _, ok := e.Config().Forms[testsupport.TypeMyForm]; !ok {
		t.Fatalf("base forms section lost in merge")
	}

	if _, err := viewform.NewFromFiles([]string{filepath.Join(dir, "missing.yml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfigFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/a.yml":  {Data: []byte(testsupport.SampleConfigYAML)},
		"forms/b.json": {Data: []byte(`{"catalogue": "from_json"}`)},
	}

	doc, err := viewform.LoadConfigFS(fsys)
	if err != nil {
		t.Fatalf("LoadConfigFS: %v", err)
	}
	if doc.Catalogue != "from_json" {
		t.Fatalf("later document should win, got %q", doc.Catalogue)
	}
	if diff := cmp.Diff([]string{testsupport.TypeMyForm}, doc.FormTypes()); diff != "" {
		t.Fatalf("form types mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterTemplateParameters_SkipsEnhancedForms(t *testing.T) {
	e := newEnhancer(t)
	invalid := testsupport.NewMyForm(nil)
	invalid.Bind(map[string]any{"email": "foo"})
	params := map[string]any{"form": invalid}

	calls := 0
	handler := func(string, form.Form) { calls++ }

	for i := 0; i < 2; i++ {
		if err := viewform.FilterTemplateParameters(e, params, handler); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one failure report across passes, got %d", calls)
	}
}

func TestFilterTemplateParameters_FormHooks(t *testing.T) {
	e := newEnhancer(t)
	invalid := testsupport.NewMyForm(nil)
	invalid.Bind(map[string]any{"email": "foo"})
	valid := testsupport.NewMyForm(nil)
	params := map[string]any{"b": invalid, "a": valid}

	var events []string
	hook := func(name string, f form.Form) {
		if !e.HasEnhanced(f) {
			t.Errorf("hook for %s ran before enhancement", name)
		}
		events = append(events, "hook:"+name)
	}
	failure := func(name string, _ form.Form) {
		events = append(events, "failure:"+name)
	}

	err := viewform.FilterTemplateParameters(e, params, failure, viewform.WithFormHook(hook), nil)
	if err != nil {
		t.Fatalf("FilterTemplateParameters: %v", err)
	}
	if err := viewform.FilterTemplateParameters(e, params, failure, viewform.WithFormHook(hook)); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	want := []string{"hook:a", "hook:b", "failure:b"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}
