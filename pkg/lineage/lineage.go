package lineage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Typed is implemented by values that know their configuration type name.
type Typed interface {
	TypeName() string
}

// Lineager is implemented by values that carry their own ancestor chain. The
// returned slice must be ordered most general first.
type Lineager interface {
	Lineage() []string
}

// Table stores the static type hierarchy used to build lineages. Each entry
// maps a type name to its direct parent; root types have no entry or an empty
// parent. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	parents map[string]string
}

// Default is the process-wide table populated by the reference widget,
// validator and form packages. Hosts register their own types at startup.
var Default = NewTable()

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{parents: make(map[string]string)}
}

// Register records parent as the direct ancestor of name. An empty parent
// declares a root type. Re-registering with the same parent is a no-op;
// changing the parent or introducing a cycle returns an error.
func (t *Table) Register(name, parent string) error {
	name = strings.TrimSpace(name)
	parent = strings.TrimSpace(parent)
	if name == "" {
		return fmt.Errorf("lineage: type name is required")
	}
	if name == parent {
		return fmt.Errorf("lineage: type %q cannot be its own parent", name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if current, exists := t.parents[name]; exists {
		if current == parent {
			return nil
		}
		return fmt.Errorf("lineage: type %q already registered with parent %q", name, current)
	}

	for cursor := parent; cursor != ""; cursor = t.parents[cursor] {
		if cursor == name {
			return fmt.Errorf("lineage: registering %q under %q introduces a cycle", name, parent)
		}
	}

	t.parents[name] = parent
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (t *Table) MustRegister(name, parent string) {
	if err := t.Register(name, parent); err != nil {
		panic(err)
	}
}

// Parent returns the direct parent of name.
func (t *Table) Parent(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	parent, ok := t.parents[name]
	if !ok || parent == "" {
		return "", false
	}
	return parent, true
}

// Has reports whether name has been registered.
func (t *Table) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.parents[name]
	return ok
}

// Names returns the registered type names sorted alphabetically.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.parents))
	for name := range t.parents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Of resolves the lineage of v, most general ancestor first and the type
// itself last. v may be a type name, a Lineager or a Typed value. Unknown
// types resolve to a single element chain; nil and empty names resolve to nil.
func (t *Table) Of(v any) []string {
	switch typed := v.(type) {
	case nil:
		return nil
	case Lineager:
		return append([]string(nil), typed.Lineage()...)
	case Typed:
		return t.chain(typed.TypeName())
	case string:
		return t.chain(typed)
	default:
		return nil
	}
}

func (t *Table) chain(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	chain := []string{name}
	for cursor := t.parents[name]; cursor != ""; cursor = t.parents[cursor] {
		chain = append(chain, cursor)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Of resolves v against the Default table.
func Of(v any) []string {
	return Default.Of(v)
}

// Register records a type on the Default table.
func Register(name, parent string) error {
	return Default.Register(name, parent)
}

// MustRegister records a type on the Default table and panics on failure.
func MustRegister(name, parent string) {
	Default.MustRegister(name, parent)
}
