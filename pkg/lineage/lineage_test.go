package lineage_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewform/pkg/lineage"
)

type typedValue string

func (v typedValue) TypeName() string { return string(v) }

type ownLineage struct{}

func (ownLineage) Lineage() []string { return []string{"Root", "Custom"} }

func newTable(t *testing.T) *lineage.Table {
	t.Helper()
	table := lineage.NewTable()
	table.MustRegister("Base", "")
	table.MustRegister("Mid", "Base")
	table.MustRegister("Leaf", "Mid")
	return table
}

func TestTable_Of(t *testing.T) {
	table := newTable(t)

	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{name: "type name", input: "Leaf", want: []string{"Base", "Mid", "Leaf"}},
		{name: "typed instance", input: typedValue("Mid"), want: []string{"Base", "Mid"}},
		{name: "root", input: "Base", want: []string{"Base"}},
		{name: "unknown", input: "Orphan", want: []string{"Orphan"}},
		{name: "own lineage", input: ownLineage{}, want: []string{"Root", "Custom"}},
		{name: "nil", input: nil, want: nil},
		{name: "unsupported", input: 42, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, table.Of(tt.input)); diff != "" {
				t.Fatalf("lineage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTable_RegisterRejectsCycles(t *testing.T) {
	table := newTable(t)

	err := table.Register("Base", "Leaf")
	if err == nil {
		t.Fatalf("expected error when re-parenting a registered type")
	}

	table.MustRegister("A", "B")
	err = table.Register("B", "A")
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}

	if err := table.Register("Self", "Self"); err == nil {
		t.Fatalf("expected self parent error")
	}
}

func TestTable_RegisterIsIdempotent(t *testing.T) {
	table := newTable(t)
	if err := table.Register("Mid", "Base"); err != nil {
		t.Fatalf("re-register same parent: %v", err)
	}
	parent, ok := table.Parent("Mid")
	if !ok || parent != "Base" {
		t.Fatalf("expected Base parent, got %q (%v)", parent, ok)
	}
	if _, ok := table.Parent("Base"); ok {
		t.Fatalf("root type should report no parent")
	}
}
