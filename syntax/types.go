package syntax

import "strings"

// Type is a type annotation. String renders it back as Rust text, which is
// what error messages show.
type Type interface {
	String() string
	typeNode()
}

// PathType is a named type such as `u32`, `Vec<Card>` or `std::string::String`.
// QSelf is set for qualified paths like `<T as Trait>::Output`.
type PathType struct {
	QSelf *QSelf
	Path  Path
}

// QSelf is the `<Type as Trait>` prefix of a qualified path.
type QSelf struct {
	Type Type
	As   *Path
}

// Path is a `::`-separated path.
type Path struct {
	Global   bool
	Segments []Segment
}

// Segment is one path segment with optional generic arguments.
// Parenthesized marks Fn-sugar arguments: `Fn(A, B) -> C`.
type Segment struct {
	Name          string
	Args          []GenericArg
	Parenthesized bool
	Output        Type
}

// GenericArg is one argument between angle brackets. Exactly one of Type,
// Lifetime or Const is set; Binding names an associated type (`Item = T`).
type GenericArg struct {
	Type     Type
	Lifetime string
	Const    string
	Binding  string
}

// RefType is `&'a mut T`.
type RefType struct {
	Lifetime string
	Mut      bool
	Elem     Type
}

// PtrType is `*const T` or `*mut T`.
type PtrType struct {
	Mut  bool
	Elem Type
}

// SliceType is `[T]`.
type SliceType struct {
	Elem Type
}

// ArrayType is `[T; N]`.
type ArrayType struct {
	Elem Type
	Len  string
}

// TupleType is `(A, B)`; the unit type `()` has no elements.
type TupleType struct {
	Elems []Type
}

// ParenType is a parenthesized single type `(T)`.
type ParenType struct {
	Elem Type
}

// TraitObjectType is `dyn A + B`.
type TraitObjectType struct {
	Bounds []string
}

// ImplTraitType is `impl A + B`.
type ImplTraitType struct {
	Bounds []string
}

// InferType is `_`.
type InferType struct{}

// NeverType is `!`.
type NeverType struct{}

// MacroType is a type position macro invocation such as `ty!(...)`.
type MacroType struct {
	Path   Path
	Tokens string
}

// FnType is a function pointer type, kept as text.
type FnType struct {
	Text string
}

// LastSegment returns the trailing segment, or nil for an empty path.
func (p *Path) LastSegment() *Segment {
	if p == nil || len(p.Segments) == 0 {
		return nil
	}
	return &p.Segments[len(p.Segments)-1]
}

// Ident returns the single segment name if the path is a bare identifier
// without arguments, e.g. `Person`.
func (p *Path) Ident() (string, bool) {
	if p == nil || p.Global || len(p.Segments) != 1 {
		return "", false
	}
	seg := p.Segments[0]
	if len(seg.Args) > 0 || seg.Parenthesized {
		return "", false
	}
	return seg.Name, true
}

// NewPathType builds a PathType from plain segment names: NewPathType("std", "string", "String").
func NewPathType(names ...string) *PathType {
	segs := make([]Segment, len(names))
	for i, n := range names {
		segs[i] = Segment{Name: n}
	}
	return &PathType{Path: Path{Segments: segs}}
}

func (p Path) String() string {
	var sb strings.Builder
	if p.Global {
		sb.WriteString("::")
	}
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(seg.String())
	}
	return sb.String()
}

func (s Segment) String() string {
	if s.Parenthesized {
		out := s.Name + "(" + joinArgs(s.Args) + ")"
		if s.Output != nil {
			out += " -> " + s.Output.String()
		}
		return out
	}
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + "<" + joinArgs(s.Args) + ">"
}

func (a GenericArg) String() string {
	switch {
	case a.Lifetime != "":
		return "'" + a.Lifetime
	case a.Const != "":
		return a.Const
	case a.Binding != "":
		return a.Binding + " = " + typeString(a.Type)
	default:
		return typeString(a.Type)
	}
}

func joinArgs(args []GenericArg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func (t *PathType) String() string {
	if t.QSelf == nil {
		return t.Path.String()
	}
	prefix := "<" + typeString(t.QSelf.Type)
	if t.QSelf.As != nil {
		prefix += " as " + t.QSelf.As.String()
	}
	prefix += ">"
	if len(t.Path.Segments) == 0 {
		return prefix
	}
	return prefix + "::" + t.Path.String()
}

func (t *RefType) String() string {
	out := "&"
	if t.Lifetime != "" {
		out += "'" + t.Lifetime + " "
	}
	if t.Mut {
		out += "mut "
	}
	return out + typeString(t.Elem)
}

func (t *PtrType) String() string {
	if t.Mut {
		return "*mut " + typeString(t.Elem)
	}
	return "*const " + typeString(t.Elem)
}

func (t *SliceType) String() string { return "[" + typeString(t.Elem) + "]" }

func (t *ArrayType) String() string { return "[" + typeString(t.Elem) + "; " + t.Len + "]" }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = typeString(e)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *ParenType) String() string { return "(" + typeString(t.Elem) + ")" }

func (t *TraitObjectType) String() string { return "dyn " + strings.Join(t.Bounds, " + ") }

func (t *ImplTraitType) String() string { return "impl " + strings.Join(t.Bounds, " + ") }

func (*InferType) String() string { return "_" }

func (*NeverType) String() string { return "!" }

func (t *MacroType) String() string { return t.Path.String() + "!" + t.Tokens }

func (t *FnType) String() string { return t.Text }

func (*PathType) typeNode()        {}
func (*RefType) typeNode()         {}
func (*PtrType) typeNode()         {}
func (*SliceType) typeNode()       {}
func (*ArrayType) typeNode()       {}
func (*TupleType) typeNode()       {}
func (*ParenType) typeNode()       {}
func (*TraitObjectType) typeNode() {}
func (*ImplTraitType) typeNode()   {}
func (*InferType) typeNode()       {}
func (*NeverType) typeNode()       {}
func (*MacroType) typeNode()       {}
func (*FnType) typeNode()          {}
