package typegen

import (
	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/syntax"
)

// IntegerPrimitives lists the Rust integer types mapped to Int. Width and
// signedness do not survive the mapping.
var IntegerPrimitives = []string{
	"u8", "u16", "u32", "u64", "u128", "usize",
	"i8", "i16", "i32", "i64", "i128", "isize",
}

// StringPrimitive is the Rust type mapped to String.
const StringPrimitive = "String"

// ListWrapper is the generic wrapper mapped to List.
const ListWrapper = "Vec"

var primitiveTable = func() map[string]TargetType {
	table := map[string]TargetType{StringPrimitive: String}
	for _, name := range IntegerPrimitives {
		table[name] = Int
	}
	return table
}()

// Primitive maps a bare type name: integers to Int, String to String and
// everything else to a NamedType reference.
func Primitive(name string) TargetType {
	if t, ok := primitiveTable[name]; ok {
		return t
	}
	return Named(name)
}

const supportedTypesHint = "supported field types are the integer primitives, String, Vec<T> and names of other structs or enums"

// ResolveType translates a field type annotation. The trailing path segment
// decides: `Vec<T>` becomes List(T), a segment without arguments goes through
// the primitive table. Everything else wraps errors.ErrUnsupportedType.
//
// Qualified paths are reduced to their last segment without looking at the
// prefix, since serde and the generated module both name types without their
// module path: `std::string::String` and `foo::u32` map like `String` and
// `u32`, and `a::b::Card` becomes Named("Card").
func ResolveType(t syntax.Type) (TargetType, error) {
	pt, ok := t.(*syntax.PathType)
	if !ok || pt.QSelf != nil {
		return nil, unsupportedType(t)
	}
	seg := pt.Path.LastSegment()
	if seg == nil || seg.Parenthesized {
		return nil, unsupportedType(t)
	}

	switch {
	case len(seg.Args) == 0:
		return Primitive(seg.Name), nil
	case seg.Name == ListWrapper && len(seg.Args) == 1 && seg.Args[0].Type != nil && seg.Args[0].Binding == "":
		elem, err := ResolveType(seg.Args[0].Type)
		if err != nil {
			return nil, err
		}
		return List(elem), nil
	}
	return nil, unsupportedType(t)
}

func unsupportedType(t syntax.Type) error {
	text := "<nil>"
	if t != nil {
		text = t.String()
	}
	return errors.WithHint(errors.Wrapf(errors.ErrUnsupportedType, "`%s`", text), supportedTypesHint)
}
