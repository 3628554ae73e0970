package typegen

import (
	"strings"
	"unicode"
)

// LetterCase selects the case of the first letter when converting a
// snake_case identifier to camel case.
type LetterCase int

const (
	LowerCase LetterCase = iota
	UpperCase
)

// Identifier is a declaration, variant or field name as written in Rust.
// Type and variant names are used verbatim; field names are snake_case and
// converted for Elm record fields while the JSON key keeps the Rust spelling.
type Identifier struct {
	name string
}

// NewIdentifier wraps a source name.
func NewIdentifier(name string) Identifier {
	return Identifier{name: name}
}

// String returns the name verbatim.
func (id Identifier) String() string {
	return id.name
}

// CamelCase converts a snake_case name: every underscore is dropped and the
// following character upper-cased. All other characters are kept as they are.
//
//	snake_case -> snakeCase (LowerCase) / SnakeCase (UpperCase)
func (id Identifier) CamelCase(c LetterCase) string {
	var sb strings.Builder
	nextUpper := c == UpperCase
	for _, r := range id.name {
		switch {
		case r == '_':
			nextUpper = true
		case nextUpper:
			sb.WriteRune(unicode.ToUpper(r))
			nextUpper = false
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// FieldName is the Elm record field for a Rust field: `pet_name` -> `petName`.
func (id Identifier) FieldName() string {
	return EscapeKeyword(lowerFirst(id.CamelCase(LowerCase)))
}

// JSONKey is the object key serde writes for the field.
func (id Identifier) JSONKey() string {
	return id.name
}

// ValueName is the variable bound to a value of the declaration in encoder
// functions: `GameState` -> `gameState`.
func (id Identifier) ValueName() string {
	return EscapeKeyword(lowerFirst(id.name))
}

func lowerFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToLower(r)) + s[i+len(string(r)):]
	}
	return s
}

// Elm reserved words, which cannot be used as record fields or variables.
var elmKeywords = map[string]bool{
	"alias": true, "as": true, "case": true, "effect": true, "else": true,
	"exposing": true, "if": true, "import": true, "in": true, "infix": true,
	"let": true, "module": true, "of": true, "port": true, "then": true,
	"type": true, "where": true,
}

// EscapeKeyword appends an underscore to Elm reserved words.
func EscapeKeyword(name string) string {
	if elmKeywords[name] {
		return name + "_"
	}
	return name
}
