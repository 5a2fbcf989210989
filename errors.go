package viewform

import (
	"github.com/goliatone/go-viewform/pkg/validator"
)

// DefaultGlobalErrorsKey holds failures that belong to no single field.
const DefaultGlobalErrorsKey = "_global_errors"

// ErrorMap converts validation failures into a map suitable for JSON
// responses. Field failures map to their message, nested schemas to nested
// maps, and global failures to a list under globalKey (DefaultGlobalErrorsKey
// when empty).
func ErrorMap(errs *validator.ErrorSchema, globalKey string) map[string]any {
	if globalKey == "" {
		globalKey = DefaultGlobalErrorsKey
	}
	out := make(map[string]any)
	if errs.Empty() {
		return out
	}

	if len(errs.Global) > 0 {
		out[globalKey] = validator.Messages(errs)
	}
	for name, err := range errs.Named {
		if nested, ok := err.(*validator.ErrorSchema); ok {
			out[name] = ErrorMap(nested, globalKey)
			continue
		}
		out[name] = err.Error()
	}
	return out
}
