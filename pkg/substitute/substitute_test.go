package substitute_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewform/pkg/formatter"
	"github.com/goliatone/go-viewform/pkg/substitute"
)

type identity struct{}

func (identity) Interpolate(text string, vars map[string]string) string {
	return formatter.Replace(text, vars)
}

type user struct {
	email string
}

func (u *user) Access(name string) (any, bool) {
	if name == "GetEmail" {
		return u.email, true
	}
	return nil, false
}

func TestString_ObjectPlaceholder(t *testing.T) {
	s := substitute.New()
	got := s.String(`Current email is "%%email%%".`, &user{email: "a@b.com"}, identity{})
	if got != `Current email is "a@b.com".` {
		t.Fatalf("unexpected substitution %q", got)
	}
}

func TestString_PlaceholdersNeedObjectAndInterpolator(t *testing.T) {
	s := substitute.New()
	text := "Hello %%email%%"

	if got := s.String(text, nil, identity{}); got != text {
		t.Fatalf("expected untouched text without object, got %q", got)
	}
	if got := s.String(text, &user{email: "x"}, nil); got != text {
		t.Fatalf("expected untouched text without interpolator, got %q", got)
	}
	if got := s.String("Hello %%phone%%", &user{email: "x"}, identity{}); got != "Hello %%phone%%" {
		t.Fatalf("expected unresolved token to remain, got %q", got)
	}
}

func TestString_AccessorMapAndPlainMaps(t *testing.T) {
	s := substitute.New()

	accessors := substitute.AccessorMap{
		"GetUserEmail": func() any { return "u@example.com" },
	}
	if got := s.String("%%user_email%%", accessors, identity{}); got != "u@example.com" {
		t.Fatalf("accessor map substitution failed: %q", got)
	}

	values := map[string]any{"count": 3}
	if got := s.String("%%count%% items", values, identity{}); got != "3 items" {
		t.Fatalf("map substitution failed: %q", got)
	}
}

func TestString_DelegatesToInterpolator(t *testing.T) {
	f := formatter.NewTable()
	f.SetCatalogue("forms")
	f.SetTranslator(formatter.Catalogues{"forms": {"Email: %%email%%": "Courriel : %%email%%"}})

	got := substitute.New().String("Email: %%email%%", &user{email: "a@b.com"}, f)
	if got != "Courriel : a@b.com" {
		t.Fatalf("expected translated interpolation, got %q", got)
	}
}

func TestString_Links(t *testing.T) {
	routes := substitute.URLFunc(func(target string) (string, error) {
		switch target {
		case "@homepage":
			return "/", nil
		case "@evil":
			return "javascript:alert(1)", nil
		}
		return "", errors.New("unknown route")
	})
	s := substitute.New(substitute.WithURLGenerator(routes))

	if got := s.String("Go [home](@homepage) now", nil, nil); got != `Go <a href="/">home</a> now` {
		t.Fatalf("unexpected link markup %q", got)
	}
	if got := s.String("[x](@missing)", nil, nil); got != "[x](@missing)" {
		t.Fatalf("expected unresolved link to remain, got %q", got)
	}
	if got := s.String("[click](@evil)", nil, nil); got != "click" {
		t.Fatalf("expected unsafe href to be stripped, got %q", got)
	}

	plain := substitute.New()
	if got := plain.String("[docs](/docs)", nil, nil); got != `<a href="/docs">docs</a>` {
		t.Fatalf("expected verbatim target without generator, got %q", got)
	}
}

func TestValue_PreservesStructure(t *testing.T) {
	s := substitute.New()
	obj := &user{email: "a@b.com"}

	input := map[string]any{
		"options":    map[string]any{"size": 10, "title": "%%email%%"},
		"attributes": map[string]string{"placeholder": "%%email%%"},
		"list":       []any{"%%email%%", true},
	}
	want := map[string]any{
		"options":    map[string]any{"size": 10, "title": "a@b.com"},
		"attributes": map[string]string{"placeholder": "a@b.com"},
		"list":       []any{"a@b.com", true},
	}

	got := s.Value(input, obj, identity{})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if input["list"].([]any)[0] != "%%email%%" {
		t.Fatalf("input should not be mutated")
	}
}

func TestAccessorName(t *testing.T) {
	tests := map[string]string{
		"email":       "GetEmail",
		"email_again": "GetEmailAgain",
		"first-name":  "GetFirstName",
		"iD":          "GetID",
	}
	for token, want := range tests {
		if got := substitute.AccessorName(token); got != want {
			t.Fatalf("AccessorName(%q) = %q, want %q", token, got, want)
		}
	}
}

func TestString_PlaceholderInsideLinkTarget(t *testing.T) {
	s := substitute.New()
	object := substitute.AccessorMap{"GetId": func() any { return 42 }}

	got := s.String("See [profile](/users/%%id%%) now", object, identity{})
	if want := `See <a href="/users/42">profile</a> now`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	unresolved := "See [profile](/users/%%id%%) now"
	if got := s.String(unresolved, nil, nil); got != unresolved {
		t.Fatalf("link with an unresolved placeholder should stay as written, got %q", got)
	}
	if got := s.String(unresolved, substitute.AccessorMap{}, identity{}); got != unresolved {
		t.Fatalf("link with an unknown accessor should stay as written, got %q", got)
	}
}

func TestWith_CopiesSubstituter(t *testing.T) {
	plain := substitute.New()
	routed := plain.With(substitute.WithURLGenerator(substitute.URLFunc(func(string) (string, error) {
		return "/resolved", nil
	})))

	if got := routed.String("[go](@route)", nil, nil); got != `<a href="/resolved">go</a>` {
		t.Fatalf("unexpected routed link %q", got)
	}
	if got := plain.String("[go](/plain)", nil, nil); got != `<a href="/plain">go</a>` {
		t.Fatalf("original substituter changed: %q", got)
	}
}
