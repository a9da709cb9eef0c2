package template

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// tokenPattern matches escaped braces ({{ and }}) and {name} placeholders.
// Escapes are listed first so "{{name}}" is read as a literal "{name}".
var tokenPattern = regexp.MustCompile(`\{\{|\}\}|\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Template is a parsed prompt template.
// It is immutable and safe for concurrent use.
type Template struct {
	text      string
	variables []string
}

// Parse scans text for placeholders.
// Parsing never fails; brace sequences that are not placeholders or escapes
// are kept as literal text.
func Parse(text string) *Template {
	return &Template{
		text:      text,
		variables: scanVariables(text),
	}
}

// Text returns the raw template text.
func (t *Template) Text() string {
	return t.text
}

// Variables returns the placeholder names in order of first appearance.
// Each name appears once.
func (t *Template) Variables() []string {
	out := make([]string, len(t.variables))
	copy(out, t.variables)
	return out
}

// Missing returns the placeholder names that have no entry in vars.
func (t *Template) Missing(vars map[string]any) []string {
	var missing []string
	for _, name := range t.variables {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Render substitutes every placeholder from vars.
// Returns *UndefinedVariableError if any placeholder has no value.
func (t *Template) Render(vars map[string]any) (string, error) {
	return expand(t.text, vars)
}

// Variables returns the placeholder names of text in order of first appearance.
func Variables(text string) []string {
	return scanVariables(text)
}

// Render parses text and substitutes every placeholder from vars.
func Render(text string, vars map[string]any) (string, error) {
	return expand(text, vars)
}

func scanVariables(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// expand substitutes placeholders and unescapes doubled braces. Missing
// variables keep their placeholder in the output and are reported together.
func expand(s string, vars map[string]any) (string, error) {
	var missing []string
	out := tokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		switch match {
		case "{{":
			return "{"
		case "}}":
			return "}"
		}
		name := match[1 : len(match)-1]
		if val, ok := vars[name]; ok {
			return fmt.Sprint(val)
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
		return match
	})

	if len(missing) > 0 {
		return out, &UndefinedVariableError{Names: missing}
	}
	return out, nil
}

// UndefinedVariableError lists the placeholders Render had no value for.
type UndefinedVariableError struct {
	Names []string
}

func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return "undefined variable: " + e.Names[0]
	}
	return "undefined variables: " + strings.Join(e.Names, ", ")
}
