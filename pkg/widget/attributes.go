package widget

import "sort"

// MergeAttributes applies attrs to w. The class attribute is additive: a new
// value is appended after a single space when the widget already carries a
// non-empty class list. Every other attribute is replaced.
func MergeAttributes(w Widget, attrs map[string]string) {
	if w == nil || len(attrs) == 0 {
		return
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		value := attrs[name]
		if name == ClassAttribute {
			if current := w.Attribute(ClassAttribute); current != "" {
				value = current + " " + value
			}
		}
		w.SetAttribute(name, value)
	}
}
