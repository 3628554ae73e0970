package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/syntax"
	"github.com/teranos/elmgen/syntax/rustsrc"
)

const personDoc = `
items:
  - other: {kind: use}
  - struct:
      name: Person
      fields:
        - {name: age, type: u32}
        - {name: surname, type: String}
  - impl: {trait: ElmExport, self: Person}
  - enum:
      name: Action
      variants:
        - {name: PlayCard, fields: [{type: Card}]}
        - {name: DiscardCards, fields: [{type: Vec<Card>}]}
        - {name: Surrender}
`

func TestDecode(t *testing.T) {
	file, err := Decode("person.yaml", []byte(personDoc))
	require.NoError(t, err)
	require.Len(t, file.Items, 4)
	assert.Equal(t, "person.yaml", file.Name)

	person := file.Items[1].(*syntax.Struct)
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, syntax.FieldsNamed, person.Fields.Kind)
	assert.Equal(t, "surname", person.Fields.List[1].Name)
	assert.Equal(t, "String", person.Fields.List[1].Type.String())
	assert.Equal(t, 4, person.Pos.Line)

	impl := file.Items[2].(*syntax.Impl)
	assert.Equal(t, "ElmExport", impl.Trait.String())
	assert.Equal(t, "Person", impl.SelfType.String())

	action := file.Items[3].(*syntax.Enum)
	require.Len(t, action.Variants, 3)
	assert.Equal(t, syntax.FieldsUnnamed, action.Variants[1].Fields.Kind)
	assert.Equal(t, "Vec<Card>", action.Variants[1].Fields.List[0].Type.String())
	assert.Equal(t, syntax.FieldsUnit, action.Variants[2].Fields.Kind)
}

func TestDecodeJSON(t *testing.T) {
	doc := `{"items": [{"struct": {"name": "Coordinate", "fields": [{"name": "latitude", "type": "u64"}]}}]}`
	file, err := Decode("coord.json", []byte(doc))
	require.NoError(t, err)
	require.Len(t, file.Items, 1)
	assert.Equal(t, "Coordinate", file.Items[0].(*syntax.Struct).Name)
}

func TestDecodeEmpty(t *testing.T) {
	file, err := Decode("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, file.Items)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"not yaml", "items: [", "decode tree document"},
		{"unknown top-level key", "things: []", "field things not found"},
		{"two kinds", "items:\n  - {struct: {name: A}, other: {kind: fn}}", "exactly one of struct"},
		{"no kind", "items:\n  - {}", "found 0"},
		{"bad kind", "items:\n  - struct: {name: A, kind: tuple}", `unknown fields kind "tuple"`},
		{"unnamed field in record", "items:\n  - struct: {name: A, fields: [{type: u8}]}", "named field without a name"},
		{"named positional field", "items:\n  - enum: {name: E, variants: [{name: V, fields: [{name: x, type: u8}]}]}", `positional field "x" has a name`},
		{"unit with fields", "items:\n  - struct: {name: A, kind: unit, fields: [{type: u8}]}", "unit fields cannot list 1 fields"},
		{"bad type", "items:\n  - struct: {name: A, fields: [{name: x, type: 'Vec<'}]}", `field type "Vec<"`},
		{"bad self type", "items:\n  - impl: {trait: ElmExport, self: '&'}", `impl self type "&"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("bad.yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrParse), "every tree failure is a parse failure: %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := `
use super::ElmExport;

struct Card {
    suit: String,
    value: u64,
}

enum Action {
    PlayCard(Card),
    DiscardCards(Vec<Card>),
    Surrender,
    Moved { to: String },
}

impl<T> ElmExport for Wrapper<T> {}
struct Unit;
struct Pair(u8, u8);
`
	parsed, err := rustsrc.ParseFile("vectors.rs", src)
	require.NoError(t, err)

	text := String(parsed)
	assert.True(t, strings.HasPrefix(text, "items:\n"), text)
	assert.Contains(t, text, "name: DiscardCards")
	assert.Contains(t, text, "type: Vec<Card>")
	assert.Contains(t, text, "kind: unit")
	assert.Contains(t, text, "kind: named")

	decoded, err := Decode("vectors.yaml", []byte(text))
	require.NoError(t, err)

	// positions differ between the two sources; compare the document forms
	assert.Equal(t, FromFile(parsed), FromFile(decoded))
}
