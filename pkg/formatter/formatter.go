package formatter

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrMissingTranslation is returned by translators that have no entry for a
// key in the requested catalogue.
var ErrMissingTranslation = errors.New("formatter: missing translation")

// Translator looks up the translation of key inside a named catalogue.
type Translator interface {
	Translate(catalogue, key string) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(catalogue, key string) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(catalogue, key string) (string, error) {
	return fn(catalogue, key)
}

// Row carries the pre-rendered pieces of a single form row.
type Row struct {
	Label  string
	Field  string
	Errors []string
	Help   string
}

// Formatter lays out the rows of a composite widget and performs
// translation-aware interpolation of user facing strings.
type Formatter interface {
	// Name returns the implementation reference the formatter was built from.
	Name() string
	FormatRow(row Row) (string, error)
	// Interpolate translates text against the current catalogue and then
	// replaces every key of vars with its value.
	Interpolate(text string, vars map[string]string) string
	Catalogue() string
	SetCatalogue(catalogue string)
	Translator() Translator
	SetTranslator(t Translator)
}

// Base implements the catalogue and interpolation half of Formatter. Concrete
// formatters embed it and provide FormatRow.
type Base struct {
	mu         sync.RWMutex
	name       string
	catalogue  string
	translator Translator
}

// NewBase returns a Base tagged with the implementation name.
func NewBase(name string) *Base {
	return &Base{name: name}
}

// Name returns the implementation reference.
func (b *Base) Name() string {
	return b.name
}

// Catalogue returns the translation catalogue name.
func (b *Base) Catalogue() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalogue
}

// SetCatalogue changes the translation catalogue name.
func (b *Base) SetCatalogue(catalogue string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogue = strings.TrimSpace(catalogue)
}

// Translator returns the installed translation backend or nil.
func (b *Base) Translator() Translator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.translator
}

// SetTranslator installs the translation backend. A nil translator disables
// lookups; interpolation still happens.
func (b *Base) SetTranslator(t Translator) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.translator = t
}

// Interpolate translates text and substitutes vars.
func (b *Base) Interpolate(text string, vars map[string]string) string {
	b.mu.RLock()
	translator, catalogue := b.translator, b.catalogue
	b.mu.RUnlock()

	if translator != nil && strings.TrimSpace(text) != "" {
		if translated, err := translator.Translate(catalogue, text); err == nil && strings.TrimSpace(translated) != "" {
			text = translated
		}
	}
	return Replace(text, vars)
}

// Replace substitutes every key of vars inside text. Longer keys are replaced
// first so overlapping placeholders resolve predictably.
func Replace(text string, vars map[string]string) string {
	if len(vars) == 0 || text == "" {
		return text
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		if key != "" {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, vars[key])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Catalogues is an in-memory Translator keyed by catalogue then message.
type Catalogues map[string]map[string]string

// Translate returns the translation of key in catalogue.
func (c Catalogues) Translate(catalogue, key string) (string, error) {
	if messages, ok := c[catalogue]; ok {
		if translated, ok := messages[key]; ok {
			return translated, nil
		}
	}
	return "", ErrMissingTranslation
}
