// Package normalizers provides text normalization functions for answer scoring
package normalizers

import (
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("collapse_whitespace", CollapseWhitespace)
	Register("text", Text)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// CollapseWhitespace replaces every run of whitespace characters (spaces,
// tabs, newlines) with a single space. Leading and trailing runs become
// single spaces; compose with Trim to drop them.
func CollapseWhitespace(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				result.WriteRune(' ')
				inSpace = true
			}
			continue
		}
		result.WriteRune(r)
		inSpace = false
	}
	return result.String()
}

// Text is the canonical answer normalization: trim, then collapse internal
// whitespace runs to single spaces. Case is preserved; case folding is a
// separate step applied by callers right before comparison.
func Text(s string) string {
	return Trim(CollapseWhitespace(s))
}
