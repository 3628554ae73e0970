package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/syntax"
	"github.com/teranos/elmgen/syntax/rustsrc"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()
	file, err := rustsrc.ParseFile("test.rs", src)
	require.NoError(t, err)
	return file
}

func TestExtract(t *testing.T) {
	file := parse(t, `
use super::ElmExport;

struct Person {
    age: u32,
    pet_name: String,
}

enum RemoteMessage {
    Hello(String),
    Compare(u32, u32),
    Goodbye,
}

fn main() {}
`)
	tables, err := Extract(file)
	require.NoError(t, err)

	assert.Equal(t, []string{"Person"}, tables.RecordNames())
	assert.Equal(t, []string{"RemoteMessage"}, tables.UnionNames())

	person, ok := tables.Record("Person")
	require.True(t, ok)
	assert.Equal(t, []Field{
		{Name: NewIdentifier("age"), Type: Int},
		{Name: NewIdentifier("pet_name"), Type: String},
	}, person.Fields)

	msg, ok := tables.Union("RemoteMessage")
	require.True(t, ok)
	require.Len(t, msg.Variants, 3)
	assert.Equal(t, 1, msg.Variants[0].Arity())
	assert.Equal(t, []TargetType{Int, Int}, msg.Variants[1].Fields)
	assert.Equal(t, 0, msg.Variants[2].Arity())

	assert.True(t, tables.Has("Person"))
	assert.True(t, tables.Has("RemoteMessage"))
	assert.False(t, tables.Has("main"))
}

func TestExtractRejectsShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
		msg  string
	}{
		{"tuple struct", "struct Meters(u32);", errors.ErrUnsupportedShape, "unnamed/unit structs unsupported"},
		{"unit struct", "struct Marker;", errors.ErrUnsupportedShape, "has unit fields"},
		{"empty struct", "struct Empty {}", errors.ErrUnsupportedShape, "has no fields"},
		{"generic struct", "struct Page<T> { items: Vec<T> }", errors.ErrUnsupportedShape, "generic parameters [T]"},
		{"empty enum", "enum Never {}", errors.ErrUnsupportedShape, "no variants"},
		{"generic enum", "enum Either<L, R> { Left(L), Right(R) }", errors.ErrUnsupportedShape, "generic parameters"},
		{"struct variant", "enum Shape { Circle { radius: u32 } }", errors.ErrUnsupportedShape, "Shape::Circle has named fields"},
		{"reference field", "struct A {\n    name: &str,\n}", errors.ErrUnsupportedType, `test.rs:1:1: field "name" of A: `},
		{"pointer in variant", "enum E { Raw(u8, *const u8) }", errors.ErrUnsupportedType, "field 1 of variant E::Raw"},
		{"optional field", "struct A { x: Option<u8> }", errors.ErrUnsupportedType, "`Option<u8>`"},
		{"camel case collision", "struct S { pet_name: u32, petName: u32 }", errors.ErrUnsupportedShape, `fields "pet_name" and "petName" of S both become Elm field petName`},
		{"leading underscore collision", "struct S { _id: u8, id: u8 }", errors.ErrUnsupportedShape, `fields "_id" and "id" of S both become Elm field id`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(parse(t, tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestExtractChecksUnexportedDeclarations(t *testing.T) {
	// every declaration is extracted, exported or not
	_, err := Extract(parse(t, `
struct Exported { a: u8 }
struct Helper(u8);
impl ElmExport for Exported {}
`))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedShape))
}

func TestDiscover(t *testing.T) {
	file := parse(t, `
impl ElmExport for Card {}
impl Clone for Card {}
impl crate::ElmExport for Action {}
impl<T> ElmExport for Wrapper<T> {}
impl ElmExport for crate::Other {}
impl !ElmExport for Hidden {}
impl ElmExport for Card {}
impl ElmExport for GameState {}
impl Card { fn new() {} }
`)
	roots, err := Discover(file, DefaultMarker)
	require.NoError(t, err)

	var names []string
	for _, r := range roots {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Card", "Action", "GameState"}, names)
	assert.Equal(t, 2, roots[0].Pos.Line)
}

func TestDiscoverCustomMarker(t *testing.T) {
	file := parse(t, `
impl ElmExport for Card {}
impl ToElm for Action {}
`)
	roots, err := Discover(file, "ToElm")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Action", roots[0].Name)
}

func TestDiscoverMalformedPath(t *testing.T) {
	file := &syntax.File{Name: "tree.yaml", Items: []syntax.Item{
		&syntax.Impl{Trait: &syntax.Path{}, SelfType: syntax.NewPathType("Person"), Pos: syntax.Pos{Line: 3, Column: 5}},
	}}
	_, err := Discover(file, DefaultMarker)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedExportPath))
	assert.Contains(t, err.Error(), "tree.yaml:3:5")
}

func TestResolvePreservesRootOrder(t *testing.T) {
	file := parse(t, `
struct A { x: u8 }
enum B { One, Two(u8) }
struct C { y: String }
impl ElmExport for A {}
impl ElmExport for B {}
impl ElmExport for C {}
`)
	tables, err := Extract(file)
	require.NoError(t, err)
	roots, err := Discover(file, DefaultMarker)
	require.NoError(t, err)

	set, err := Resolve(tables, roots, file.Name)
	require.NoError(t, err)
	require.Len(t, set.Records, 2)
	require.Len(t, set.Unions, 1)
	assert.Equal(t, "A", set.Records[0].Name.String())
	assert.Equal(t, "C", set.Records[1].Name.String())
	assert.Equal(t, "B", set.Unions[0].Name.String())
	assert.Equal(t, 3, set.Len())
}

func TestResolveFollowsRootsNotDeclarations(t *testing.T) {
	file := parse(t, `
struct First { x: u8 }
struct Second { y: u8 }
impl ElmExport for Second {}
impl ElmExport for First {}
`)
	tables, err := Extract(file)
	require.NoError(t, err)
	roots, err := Discover(file, DefaultMarker)
	require.NoError(t, err)
	set, err := Resolve(tables, roots, file.Name)
	require.NoError(t, err)
	assert.Equal(t, "Second", set.Records[0].Name.String())
	assert.Equal(t, "First", set.Records[1].Name.String())
}

func TestResolveUnresolvedRoot(t *testing.T) {
	file := parse(t, `
struct Person { age: u32 }
impl ElmExport for Person {}
impl ElmExport for Ghost {}
`)
	tables, err := Extract(file)
	require.NoError(t, err)
	roots, err := Discover(file, DefaultMarker)
	require.NoError(t, err)

	set, err := Resolve(tables, roots, file.Name)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolvedExport))
	assert.Contains(t, err.Error(), "test.rs:4:1")
	assert.Contains(t, err.Error(), "Ghost")
	assert.Zero(t, set.Len())
}

func TestDanglingRefs(t *testing.T) {
	set := ExportSet{
		Records: []RecordDecl{{
			Name: NewIdentifier("WeatherData"),
			Fields: []Field{
				{Name: NewIdentifier("position"), Type: Named("Coordinate")},
				{Name: NewIdentifier("history"), Type: List(Named("Coordinate"))},
				{Name: NewIdentifier("kind"), Type: Named("Kind")},
			},
		}},
		Unions: []UnionDecl{{
			Name: NewIdentifier("Mixed"),
			Variants: []VariantDecl{
				{Name: NewIdentifier("Good"), Fields: []TargetType{Named("WeatherData")}},
				{Name: NewIdentifier("Bad"), Fields: []TargetType{Named("Coordinate")}},
			},
		}},
	}
	assert.Equal(t, []DanglingRef{
		{From: "WeatherData", Name: "Coordinate"},
		{From: "WeatherData", Name: "Kind"},
		{From: "Mixed", Name: "Coordinate"},
	}, DanglingRefs(set))
}
