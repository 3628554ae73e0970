// Package syntax is the declaration tree elmgen consumes.
//
// It models the part of a Rust source file the generator cares about: the
// top-level item list with structs, enums and impl blocks in source order.
// Everything else is kept as an opaque OtherItem so item order is preserved.
// Trees come either from syntax/rustsrc (reading .rs text) or from a tree
// document written by an external parser (syntax/tree).
package syntax

import "fmt"

// Pos is a 1-based line/column source position. The zero Pos means unknown.
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position refers to a real source location
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// File is one parsed source file.
type File struct {
	// Name is the path the tree was read from, used in messages only
	Name  string
	Items []Item
}

// Item is a top-level declaration. The concrete types are *Struct, *Enum,
// *Impl and *OtherItem.
type Item interface {
	ItemPos() Pos
	itemNode()
}

// FieldsKind distinguishes the three field list shapes.
type FieldsKind int

const (
	FieldsUnit    FieldsKind = iota // struct S; / Variant
	FieldsNamed                     // { a: T, b: U }
	FieldsUnnamed                   // (T, U)
)

func (k FieldsKind) String() string {
	switch k {
	case FieldsNamed:
		return "named"
	case FieldsUnnamed:
		return "unnamed"
	default:
		return "unit"
	}
}

// Fields is an ordered field list of a struct or an enum variant.
type Fields struct {
	Kind FieldsKind
	List []Field
}

// Field is a single field. Name is empty for positional fields.
type Field struct {
	Name string
	Type Type
	Pos  Pos
}

// Struct is a `struct` item.
type Struct struct {
	Name     string
	Generics []string
	Fields   Fields
	Pos      Pos
}

// Enum is an `enum` item.
type Enum struct {
	Name     string
	Generics []string
	Variants []Variant
	Pos      Pos
}

// Variant is one enum variant.
type Variant struct {
	Name   string
	Fields Fields
	Pos    Pos
}

// Impl is an `impl` block. Trait is nil for inherent impls.
type Impl struct {
	Generics []string
	Negative bool
	Trait    *Path
	SelfType Type
	Pos      Pos
}

// OtherItem is any item the generator does not look at (use, fn, mod, ...).
type OtherItem struct {
	Kind string
	Name string
	Pos  Pos
}

func (s *Struct) ItemPos() Pos    { return s.Pos }
func (e *Enum) ItemPos() Pos      { return e.Pos }
func (i *Impl) ItemPos() Pos      { return i.Pos }
func (o *OtherItem) ItemPos() Pos { return o.Pos }

func (*Struct) itemNode()    {}
func (*Enum) itemNode()      {}
func (*Impl) itemNode()      {}
func (*OtherItem) itemNode() {}
