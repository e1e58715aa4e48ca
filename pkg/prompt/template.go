// Package prompt handles placeholder substitution for prompt templates.
//
// Templates carry placeholder tokens of the form {name}. Substitution is an
// exact string match against a caller-supplied mapping; a placeholder with no
// mapping is a configuration error, never a silent no-op. Callers with a
// fixed variable set should prefer the validated Template type, which moves
// that error to construction time.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingVariable is returned when a template placeholder has no value in
// the supplied mapping. The wrapped error message names the missing variables.
var ErrMissingVariable = errors.New("missing template variable")

// Render substitutes every {name} placeholder in tmpl with vars[name].
// It fails before producing any output if a placeholder has no mapping,
// naming all missing variables in the error.
func Render(tmpl string, vars map[string]string) (string, error) {
	names := Placeholders(tmpl)

	var missing []string
	for _, name := range names {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingVariable, strings.Join(missing, ", "))
	}

	out := tmpl
	for _, name := range names {
		out = strings.ReplaceAll(out, "{"+name+"}", vars[name])
	}
	return out, nil
}

// Placeholders returns the distinct {name} tokens in tmpl, in order of first
// appearance. A token is a '{', one or more identifier characters
// (letters, digits, underscore), and a '}'. Anything else involving braces
// is left alone — prompts legitimately contain JSON and code snippets.
func Placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)

	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '{' {
			continue
		}
		j := i + 1
		for j < len(tmpl) && isIdentChar(tmpl[j]) {
			j++
		}
		if j == i+1 || j >= len(tmpl) || tmpl[j] != '}' {
			continue
		}
		name := tmpl[i+1 : j]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i = j
	}
	return names
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// Template is a prompt template with a declared variable set, validated at
// construction so that rendering cannot hit ErrMissingVariable at call time
// for well-typed callers.
type Template struct {
	text string
	vars []string
}

// New parses text and verifies its placeholders exactly match the declared
// variable names: every declared name must appear in the template and every
// placeholder must be declared.
func New(text string, vars ...string) (*Template, error) {
	found := Placeholders(text)

	declared := make(map[string]bool, len(vars))
	for _, v := range vars {
		declared[v] = true
	}
	present := make(map[string]bool, len(found))
	for _, name := range found {
		present[name] = true
		if !declared[name] {
			return nil, fmt.Errorf("template placeholder {%s} is not a declared variable", name)
		}
	}
	for _, v := range vars {
		if !present[v] {
			return nil, fmt.Errorf("declared variable %q does not appear in template", v)
		}
	}

	return &Template{text: text, vars: found}, nil
}

// MustNew is like New but panics on error. For package-level template
// literals whose variable sets are fixed at compile time.
func MustNew(text string, vars ...string) *Template {
	t, err := New(text, vars...)
	if err != nil {
		panic(err)
	}
	return t
}

// Render substitutes the template's variables from vars. Extra keys in vars
// are ignored; a missing declared variable is ErrMissingVariable.
func (t *Template) Render(vars map[string]string) (string, error) {
	return Render(t.text, vars)
}

// Vars returns the template's variable names in order of first appearance.
func (t *Template) Vars() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

// Text returns the raw template text with placeholders intact.
func (t *Template) Text() string {
	return t.text
}
