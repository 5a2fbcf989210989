package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// String validates text length through the "min_length" and "max_length"
// options.
type String struct {
	*Base
}

// NewString returns a string validator.
func NewString(options map[string]any, messages map[string]string) *String {
	return &String{Base: newStringBase(TypeString, options, messages)}
}

func newStringBase(typeName string, options map[string]any, messages map[string]string) *Base {
	b := NewBase(typeName, nil, map[string]string{
		"min_length": `"%value%" is too short (%min_length% characters min).`,
		"max_length": `"%value%" is too long (%max_length% characters max).`,
	})
	for k, v := range options {
		b.SetOption(k, v)
	}
	for k, v := range messages {
		b.SetMessage(k, v)
	}
	return b
}

// Clean implements Validator.
func (s *String) Clean(value any) (any, error) {
	return cleanString(s, s.Base, value)
}

func cleanString(self Validator, b *Base, value any) (any, error) {
	value, done, err := b.Prepare(self, value)
	if done || err != nil {
		return value, err
	}

	text := fmt.Sprint(value)
	length := utf8.RuneCountInString(text)
	if limit, ok := intOption(self, "max_length"); ok && length > limit {
		return nil, NewError(self, "max_length", text)
	}
	if limit, ok := intOption(self, "min_length"); ok && length < limit {
		return nil, NewError(self, "min_length", text)
	}
	return text, nil
}

var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// Email validates an e-mail address. It is a String subtype so length
// options still apply.
type Email struct {
	*Base
}

// NewEmail returns an e-mail validator.
func NewEmail(options map[string]any, messages map[string]string) *Email {
	return &Email{Base: newStringBase(TypeEmail, options, messages)}
}

// Clean implements Validator.
func (e *Email) Clean(value any) (any, error) {
	cleaned, err := cleanString(e, e.Base, value)
	if err != nil || cleaned == nil {
		return cleaned, err
	}
	text, _ := cleaned.(string)
	if text == "" {
		return cleaned, nil
	}
	if !emailPattern.MatchString(text) {
		return nil, NewError(e, CodeInvalid, text)
	}
	return text, nil
}

// Choice accepts values listed in the "choices" option ([]string or []any).
type Choice struct {
	*Base
}

// NewChoice returns a choice validator.
func NewChoice(choices []string, options map[string]any, messages map[string]string) *Choice {
	c := &Choice{Base: NewBase(TypeChoice, options, messages)}
	c.SetOption("choices", append([]string(nil), choices...))
	return c
}

// Clean implements Validator.
func (c *Choice) Clean(value any) (any, error) {
	value, done, err := c.Prepare(c, value)
	if done || err != nil {
		return value, err
	}
	needle := fmt.Sprint(value)
	raw, _ := c.Option("choices")
	switch choices := raw.(type) {
	case []string:
		for _, choice := range choices {
			if choice == needle {
				return value, nil
			}
		}
	case []any:
		for _, choice := range choices {
			if fmt.Sprint(choice) == needle {
				return value, nil
			}
		}
	}
	return nil, NewError(c, CodeInvalid, value)
}

func intOption(v Validator, name string) (int, bool) {
	raw, ok := v.Option(name)
	if !ok || raw == nil {
		return 0, false
	}
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		return parsed, err == nil
	}
	return 0, false
}
