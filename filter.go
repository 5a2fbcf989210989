package viewform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-viewform/pkg/form"
)

// ValidationFailureHandler is called for every bound form that failed
// validation. name is the template parameter holding the form.
type ValidationFailureHandler func(name string, f form.Form)

// FormHook is called once for every form right after it is enhanced.
type FormHook func(name string, f form.Form)

// FilterOption customises FilterTemplateParameters.
type FilterOption func(*filterConfig)

type filterConfig struct {
	hooks []FormHook
}

// WithFormHook registers a hook run after each form is enhanced and before
// its validation failures are reported. Hooks run in registration order.
func WithFormHook(hook FormHook) FilterOption {
	return func(cfg *filterConfig) {
		if hook != nil {
			cfg.hooks = append(cfg.hooks, hook)
		}
	}
}

// FilterTemplateParameters enhances every form found among the values of
// params before a view renders them. Forms already enhanced by e are skipped
// entirely, so each form reaches the hooks and onFailure at most once. Forms
// reporting HasErrors are passed to onFailure, which may be nil. Parameters
// are visited in name order; enhancement failures are collected and returned
// together.
func FilterTemplateParameters(e *Enhancer, params map[string]any, onFailure ValidationFailureHandler, options ...FilterOption) error {
	if e == nil {
		return errors.New("viewform: enhancer is required")
	}

	cfg := &filterConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	names := make([]string, 0, len(params))
	for name, value := range params {
		if _, ok := value.(form.Form); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		f := params[name].(form.Form)
		if e.HasEnhanced(f) {
			continue
		}
		if err := e.EnhanceForm(f); err != nil {
			errs = append(errs, fmt.Errorf("viewform: parameter %q: %w", name, err))
			continue
		}
		for _, hook := range cfg.hooks {
			hook(name, f)
		}
		if onFailure == nil {
			continue
		}
		if carrier, ok := f.(form.ErrorCarrier); ok && carrier.HasErrors() {
			onFailure(name, f)
		}
	}
	return errors.Join(errs...)
}
