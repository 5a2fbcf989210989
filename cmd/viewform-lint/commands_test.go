package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-viewform/pkg/config"
	"github.com/goliatone/go-viewform/pkg/testsupport"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCheck_AcceptsKnownFormatters(t *testing.T) {
	path := writeFile(t, t.TempDir(), "forms.yml", testsupport.SampleConfigYAML)

	out, errOut, err := run(t, "check", path,
		"--formatter", testsupport.MyTableFormatter,
		"--formatter", testsupport.MyCustomFormatter)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "ok: 1 form type(s), 1 widget rule(s), 2 validator rule(s)") {
		t.Fatalf("unexpected summary: %q", out)
	}
}

func TestCheck_ReportsUnknownFormatters(t *testing.T) {
	path := writeFile(t, t.TempDir(), "forms.yml", testsupport.SampleConfigYAML)

	_, errOut, err := run(t, "check", path)
	if err == nil {
		t.Fatalf("expected lint failure")
	}
	if !strings.Contains(err.Error(), "2 problem(s)") {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		`formatters.table: unknown implementation "MyTableFormatter"`,
		`forms.MyForm._formatter: unknown formatter "MyCustomFormatter"`,
	} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("expected %q in log output:\n%s", want, errOut)
		}
	}
}

func TestCheck_BuiltinFormatterByConvention(t *testing.T) {
	path := writeFile(t, t.TempDir(), "forms.yml", "forms:\n  MyForm:\n    _formatter: list\n")

	if _, errOut, err := run(t, "check", path); err != nil {
		t.Fatalf("list should resolve to the built-in: %v\n%s", err, errOut)
	}
}

func TestCheck_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yml", "catalogue: first\n")
	writeFile(t, dir, "b.json", `{"widgets": {"WidgetInput": {"class": "wide"}}}`)
	writeFile(t, dir, "notes.txt", "ignored")

	out, errOut, err := run(t, "check", "-v", dir)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "1 widget rule(s)") {
		t.Fatalf("unexpected summary: %q", out)
	}
	if !strings.Contains(errOut, "loaded") {
		t.Fatalf("verbose mode should log loaded documents:\n%s", errOut)
	}
}

func TestCheck_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yml", "forms: [unclosed\n")

	if _, _, err := run(t, "check", bad); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, _, err := run(t, "check", filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, _, err := run(t, "check"); err == nil {
		t.Fatalf("expected argument error")
	}
}

func TestDump_PrintsMergedDocument(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yml", testsupport.SampleConfigYAML)
	overlay := writeFile(t, dir, "overlay.yml", "catalogue: overridden\n")

	out, errOut, err := run(t, "dump", base, overlay)
	if err != nil {
		t.Fatalf("dump failed: %v\n%s", err, errOut)
	}

	doc, err := config.Parse([]byte(out))
	if err != nil {
		t.Fatalf("dump output does not parse: %v\n%s", err, out)
	}
	if doc.Catalogue != "overridden" {
		t.Fatalf("expected overlay catalogue, got %q", doc.Catalogue)
	}
	if got := doc.Widgets["WidgetInput"].Attributes["class"]; got != "extra_class" {
		t.Fatalf("widget rule lost in dump: %q", got)
	}
}
