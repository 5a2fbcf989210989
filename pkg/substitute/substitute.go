package substitute

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	tokenPattern = regexp.MustCompile(`%%(\w+)%%`)
	linkPattern  = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)

	linkPolicyOnce sync.Once
	linkPolicy     *bluemonday.Policy
)

// URLGenerator resolves a link target (route name, path, ...) into a URL.
type URLGenerator interface {
	URL(target string) (string, error)
}

// URLFunc adapts a function into a URLGenerator.
type URLFunc func(target string) (string, error)

// URL calls the underlying function.
func (fn URLFunc) URL(target string) (string, error) {
	return fn(target)
}

// Interpolator performs translation-aware replacement of vars inside text.
// Formatters implement it.
type Interpolator interface {
	Interpolate(text string, vars map[string]string) string
}

// Accessor is implemented by bound objects exposing values by accessor name.
// The name follows the "Get" + CamelCase(token) convention, so %%user_email%%
// asks for "GetUserEmail".
type Accessor interface {
	Access(name string) (any, bool)
}

// AccessorMap is an Accessor backed by functions keyed by accessor name.
type AccessorMap map[string]func() any

// Access implements Accessor.
func (m AccessorMap) Access(name string) (any, bool) {
	fn, ok := m[name]
	if !ok || fn == nil {
		return nil, false
	}
	return fn(), true
}

// Option configures a Substituter.
type Option func(*Substituter)

// WithURLGenerator sets the generator used for [text](target) links.
func WithURLGenerator(g URLGenerator) Option {
	return func(s *Substituter) {
		s.urls = g
	}
}

// Substituter resolves inline markers inside configuration values.
type Substituter struct {
	urls URLGenerator
}

// New constructs a Substituter.
func New(options ...Option) *Substituter {
	s := &Substituter{}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// With returns a copy of s with options applied.
func (s *Substituter) With(options ...Option) *Substituter {
	clone := *s
	for _, opt := range options {
		if opt != nil {
			opt(&clone)
		}
	}
	return &clone
}

// Value substitutes markers in v, recursing through maps and slices. The
// returned containers are copies; non-string scalars are returned as is.
func (s *Substituter) Value(v any, object any, f Interpolator) any {
	switch typed := v.(type) {
	case string:
		return s.String(typed, object, f)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = s.Value(item, object, f)
		}
		return out
	case map[string]string:
		return s.Strings(typed, object, f)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = s.Value(item, object, f)
		}
		return out
	case []string:
		out := make([]string, len(typed))
		for i, item := range typed {
			out[i] = s.String(item, object, f)
		}
		return out
	default:
		return v
	}
}

// Strings substitutes every value of m.
func (s *Substituter) Strings(m map[string]string, object any, f Interpolator) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, item := range m {
		out[k] = s.String(item, object, f)
	}
	return out
}

// String resolves %%token%% placeholders when both object and f are
// present, then expands [text](target) links. Tokens the object cannot
// resolve are left in place, and a link whose target still holds one stays
// unexpanded.
func (s *Substituter) String(text string, object any, f Interpolator) string {
	text = s.placeholders(text, object, f)
	if strings.Contains(text, "](") {
		text = s.expandLinks(text)
	}
	return text
}

func (s *Substituter) placeholders(text string, object any, f Interpolator) string {
	if object == nil || f == nil || !strings.Contains(text, "%%") {
		return text
	}

	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text
	}

	vars := make(map[string]string, len(matches))
	for _, match := range matches {
		if _, done := vars[match[0]]; done {
			continue
		}
		value, ok := Resolve(object, match[1])
		if !ok {
			continue
		}
		vars[match[0]] = fmt.Sprint(value)
	}
	if len(vars) == 0 {
		return text
	}
	return f.Interpolate(text, vars)
}

func (s *Substituter) expandLinks(text string) string {
	return linkPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		label, target := parts[1], parts[2]
		if tokenPattern.MatchString(target) {
			return match
		}

		href := target
		if s.urls != nil {
			resolved, err := s.urls.URL(target)
			if err != nil {
				return match
			}
			href = resolved
		}

		anchor := `<a href="` + html.EscapeString(href) + `">` + html.EscapeString(label) + `</a>`
		return sanitizer().Sanitize(anchor)
	})
}

// Resolve looks up token on object using the accessor naming convention.
// Plain maps are consulted by the raw token.
func Resolve(object any, token string) (any, bool) {
	switch typed := object.(type) {
	case nil:
		return nil, false
	case Accessor:
		return typed.Access(AccessorName(token))
	case map[string]any:
		v, ok := typed[token]
		return v, ok
	case map[string]string:
		v, ok := typed[token]
		return v, ok
	default:
		return nil, false
	}
}

// AccessorName returns the accessor derived from token, e.g. "user_email"
// becomes "GetUserEmail".
func AccessorName(token string) string {
	return "Get" + Camelize(token)
}

// Camelize converts snake, kebab or space separated words into CamelCase.
func Camelize(token string) string {
	parts := strings.FieldsFunc(token, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, part := range parts {
		b.WriteString(caser.String(part))
	}
	return b.String()
}

func sanitizer() *bluemonday.Policy {
	linkPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.RequireParseableURLs(true)
		policy.AllowRelativeURLs(true)
		policy.AllowURLSchemes("mailto", "http", "https")
		policy.AllowAttrs("href").OnElements("a")
		linkPolicy = policy
	})
	return linkPolicy
}
