package typegen

import "github.com/teranos/elmgen/syntax"

// Field is one named record field.
type Field struct {
	Name Identifier
	Type TargetType
}

// RecordDecl is a struct with named fields, in declaration order.
type RecordDecl struct {
	Name   Identifier
	Fields []Field
	Pos    syntax.Pos
}

// VariantDecl is an enum variant with positional fields. Its arity (0, 1 or
// more) selects the JSON encoding.
type VariantDecl struct {
	Name   Identifier
	Fields []TargetType
}

// Arity is the number of positional fields.
func (v VariantDecl) Arity() int {
	return len(v.Fields)
}

// UnionDecl is an enum, variants in declaration order.
type UnionDecl struct {
	Name     Identifier
	Variants []VariantDecl
	Pos      syntax.Pos
}

// ExportSet holds the exported declarations in export root order.
type ExportSet struct {
	Records []RecordDecl
	Unions  []UnionDecl
}

// Len is the number of exported declarations.
func (s ExportSet) Len() int {
	return len(s.Records) + len(s.Unions)
}

// Result is everything a Generator needs to render one module.
// This is language-agnostic - each Generator formats it differently.
type Result struct {
	// Module is the name of the generated module, e.g. "Api.Types"
	Module string

	// SourceFile is the input the declarations were read from, used in messages only
	SourceFile string

	// Exports are the resolved export roots
	Exports ExportSet

	// Dangling lists field references to names that are not exported
	Dangling []DanglingRef
}

// DanglingRef is a named reference from an exported declaration to a name
// that is not itself exported. The generated module will not define it.
type DanglingRef struct {
	// From is the exported declaration holding the reference
	From string
	// Name is the referenced declaration
	Name string
}

// Generator renders a Result in one target language.
type Generator interface {
	// GenerateFile creates the complete output file
	GenerateFile(result *Result) string

	// FileExtension returns the file extension for this language (e.g., "elm")
	FileExtension() string

	// Language returns the language name (e.g., "elm")
	Language() string
}
