package enhancer

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-viewform/pkg/config"
	"github.com/goliatone/go-viewform/pkg/form"
	"github.com/goliatone/go-viewform/pkg/formatter"
	"github.com/goliatone/go-viewform/pkg/lineage"
	"github.com/goliatone/go-viewform/pkg/substitute"
	"github.com/goliatone/go-viewform/pkg/validator"
	"github.com/goliatone/go-viewform/pkg/widget"
)

var (
	// ErrReservedField reports a form declaring a field named like a directive.
	ErrReservedField = errors.New("reserved field name")
	// ErrUnknownFormatter reports a formatter reference that cannot be resolved.
	ErrUnknownFormatter = errors.New("unknown formatter")
	// ErrUnknownField reports a form rule targeting a field the form lacks.
	ErrUnknownField = errors.New("unknown field")
)

// Option customises an Enhancer.
type Option func(*Enhancer)

// WithConfig sets the configuration document.
func WithConfig(doc *config.Document) Option {
	return func(e *Enhancer) {
		e.config = doc
	}
}

// WithFormatters injects the registry formatter references resolve against.
func WithFormatters(registry *formatter.Registry) Option {
	return func(e *Enhancer) {
		if registry != nil {
			e.formatters = registry
		}
	}
}

// WithLineage injects the type table lineages are read from.
func WithLineage(table *lineage.Table) Option {
	return func(e *Enhancer) {
		if table != nil {
			e.lineage = table
		}
	}
}

// WithSubstituter injects the substituter applied to configuration values.
// A generator set with WithURLGenerator is applied on top of it regardless of
// option order.
func WithSubstituter(s *substitute.Substituter) Option {
	return func(e *Enhancer) {
		if s != nil {
			e.substituter = s
		}
	}
}

// WithURLGenerator resolves link targets through g. It combines with
// WithSubstituter instead of replacing it.
func WithURLGenerator(g substitute.URLGenerator) Option {
	return func(e *Enhancer) {
		e.urls = g
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Enhancer) {
		e.logger = logger
	}
}

// Enhancer applies configuration to forms, widgets and validators. A single
// instance may be shared by concurrent callers; each form instance is
// enhanced at most once.
type Enhancer struct {
	cfgMu  sync.RWMutex
	config *config.Document

	formatters  *formatter.Registry
	lineage     *lineage.Table
	substituter *substitute.Substituter
	urls        substitute.URLGenerator
	logger      zerolog.Logger

	mu       sync.Mutex
	enhanced map[form.Form]struct{}
}

// New constructs an Enhancer. Without options it uses an empty document, the
// built-in formatters and lineage.Default.
func New(options ...Option) *Enhancer {
	e := &Enhancer{
		logger:   zerolog.Nop(),
		enhanced: make(map[form.Form]struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.config == nil {
		e.config = config.New()
	}
	if e.formatters == nil {
		e.formatters = formatter.NewRegistry()
	}
	if e.lineage == nil {
		e.lineage = lineage.Default
	}
	if e.substituter == nil {
		e.substituter = substitute.New()
	}
	if e.urls != nil {
		e.substituter = e.substituter.With(substitute.WithURLGenerator(e.urls))
	}
	return e
}

// SetConfig replaces the configuration document. A nil document resets to an
// empty one.
func (e *Enhancer) SetConfig(doc *config.Document) {
	if doc == nil {
		doc = config.New()
	}
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()
	e.config = doc
}

// Config returns the configuration document.
func (e *Enhancer) Config() *config.Document {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.config
}

// Formatters returns the formatter registry.
func (e *Enhancer) Formatters() *formatter.Registry {
	return e.formatters
}

// HasEnhanced reports whether f was already enhanced by this instance. It
// is always false for forms that are not pointers.
func (e *Enhancer) HasEnhanced(f form.Form) bool {
	if checkTrackable(f) != nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.enhanced[f]
	return ok
}

// EnhanceForm applies the configuration to every field of f, crossing into
// embedded forms. Calling it again for the same instance is a no-op. Errors
// abort the pass without rolling back changes already applied; the form is
// then not recorded as enhanced.
func (e *Enhancer) EnhanceForm(f form.Form) error {
	if err := checkTrackable(f); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, done := e.enhanced[f]; done {
		return nil
	}

	tree := f.FieldSchema()
	if tree == nil {
		return fmt.Errorf("enhancer: form %s has no field schema", f.TypeName())
	}

	p := e.newPass()
	root := scopeOf(f)
	if err := p.check(tree, root); err != nil {
		return err
	}
	if err := p.tree(tree, root); err != nil {
		return err
	}

	e.enhanced[f] = struct{}{}
	e.logger.Debug().Str("form", f.TypeName()).Msg("form enhanced")
	return nil
}

// EnhanceWidget applies widget rules to w. Schema widgets also get their
// formatter resolved and the global catalogue.
func (e *Enhancer) EnhanceWidget(w widget.Widget, object any) error {
	if w == nil {
		return nil
	}
	return e.newPass().widget(w, object, nil)
}

// EnhanceValidator applies validator rules to v. f, when set, performs
// translation-aware placeholder substitution. Schema validators always
// descend into their pre and post validators and, with recursive, into
// their members.
func (e *Enhancer) EnhanceValidator(v validator.Validator, object any, f formatter.Formatter, recursive bool) {
	if v == nil {
		return
	}
	e.newPass().validator(v, object, f, recursive)
}

// ResolvesFormatter reports whether name resolves to an implementation,
// either directly, through the formatters section or by naming convention.
func (e *Enhancer) ResolvesFormatter(name string) bool {
	_, ok := e.newPass().implementation(name)
	return ok
}

// checkTrackable rejects forms that cannot be tracked by identity.
func checkTrackable(f form.Form) error {
	if f == nil {
		return errors.New("enhancer: form is required")
	}
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Pointer {
		return fmt.Errorf("enhancer: form %T must be a pointer", f)
	}
	if v.IsNil() {
		return fmt.Errorf("enhancer: form %T is a nil pointer", f)
	}
	return nil
}

func (e *Enhancer) newPass() *pass {
	return &pass{
		cfg:         e.Config(),
		formatters:  e.formatters,
		lineage:     e.lineage,
		substituter: e.substituter,
		logger:      e.logger,
	}
}
