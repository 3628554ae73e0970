// Package elm renders an export set as an Elm module with JSON encoders and
// decoders matching serde's externally tagged representation.
//
// The layout is byte-exact and stable: consumers diff and compile the output,
// so delimiter placement, indentation and blank lines are part of the
// contract. Blocks follow elm-format style.
package elm

import (
	"fmt"
	"strings"

	"github.com/teranos/elmgen/typegen"
)

// Generator implements typegen.Generator for Elm
type Generator struct{}

// NewGenerator creates a new Elm generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "elm"
func (g *Generator) Language() string {
	return "elm"
}

// FileExtension returns "elm"
func (g *Generator) FileExtension() string {
	return "elm"
}

// GenerateFile renders the module header followed by type, encoder and
// decoder blocks for every record, then for every union, in export order.
func (g *Generator) GenerateFile(result *typegen.Result) string {
	var sb strings.Builder
	sb.WriteString(Header(result.Module))

	for _, rec := range result.Exports.Records {
		for _, block := range []string{RecordType(rec), RecordEncoder(rec), RecordDecoder(rec)} {
			sb.WriteString("\n")
			sb.WriteString(block)
		}
	}
	for _, union := range result.Exports.Unions {
		for _, block := range []string{UnionType(union), UnionEncoder(union), UnionDecoder(union)} {
			sb.WriteString("\n")
			sb.WriteString(block)
		}
	}
	return sb.String()
}

// Header is the module line and the three Json imports.
func Header(module string) string {
	return fmt.Sprintf("module %s exposing (..)\n\nimport Json.Decode\nimport Json.Decode.Pipeline\nimport Json.Encode\n", module)
}

// TypeRef renders t in type position: Int, String, List (T) or the name.
func TypeRef(t typegen.TargetType) string {
	switch t := t.(type) {
	case typegen.IntType:
		return "Int"
	case typegen.StringType:
		return "String"
	case typegen.ListType:
		return "List (" + TypeRef(t.Elem) + ")"
	case typegen.NamedType:
		return t.Name.String()
	}
	panic(fmt.Sprintf("elm: unknown target type %T", t))
}

// DecoderRef renders the decoder for t: Json.Decode.int, decodeCard, ...
func DecoderRef(t typegen.TargetType) string {
	switch t := t.(type) {
	case typegen.IntType:
		return "Json.Decode.int"
	case typegen.StringType:
		return "Json.Decode.string"
	case typegen.ListType:
		return "Json.Decode.list (" + DecoderRef(t.Elem) + ")"
	case typegen.NamedType:
		return DecoderName(t.Name.String())
	}
	panic(fmt.Sprintf("elm: unknown target type %T", t))
}

// EncoderRef renders the encoder for t: Json.Encode.int, encodeCard, ...
func EncoderRef(t typegen.TargetType) string {
	switch t := t.(type) {
	case typegen.IntType:
		return "Json.Encode.int"
	case typegen.StringType:
		return "Json.Encode.string"
	case typegen.ListType:
		return "Json.Encode.list (" + EncoderRef(t.Elem) + ")"
	case typegen.NamedType:
		return EncoderName(t.Name.String())
	}
	panic(fmt.Sprintf("elm: unknown target type %T", t))
}

// DecoderName is the decoder function of a declaration: decodePerson.
func DecoderName(name string) string {
	return "decode" + name
}

// EncoderName is the encoder function of a declaration: encodePerson.
func EncoderName(name string) string {
	return "encode" + name
}

// arg parenthesizes a reference used as a function argument when it is an
// application itself.
func arg(ref string) string {
	if strings.Contains(ref, " ") {
		return "(" + ref + ")"
	}
	return ref
}

// RecordType renders:
//
//	type alias Person =
//	    { age : Int
//	    , surname : String
//	    }
func RecordType(rec typegen.RecordDecl) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "type alias %s =\n", rec.Name)
	for i, f := range rec.Fields {
		sb.WriteString(delimiter(i, "    { ", "    , "))
		fmt.Fprintf(&sb, "%s : %s\n", f.Name.FieldName(), TypeRef(f.Type))
	}
	sb.WriteString("    }\n")
	return sb.String()
}

// RecordEncoder renders:
//
//	encodePerson : Person -> Json.Encode.Value
//	encodePerson person =
//	    Json.Encode.object
//	        [ ( "age", Json.Encode.int person.age )
//	        , ( "surname", Json.Encode.string person.surname )
//	        ]
func RecordEncoder(rec typegen.RecordDecl) string {
	name := rec.Name.String()
	value := rec.Name.ValueName()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s : %s -> Json.Encode.Value\n", EncoderName(name), name)
	fmt.Fprintf(&sb, "%s %s =\n", EncoderName(name), value)
	sb.WriteString("    Json.Encode.object\n")
	for i, f := range rec.Fields {
		sb.WriteString(delimiter(i, "        [ ", "        , "))
		fmt.Fprintf(&sb, "( %q, %s %s.%s )\n", f.Name.JSONKey(), EncoderRef(f.Type), value, f.Name.FieldName())
	}
	sb.WriteString("        ]\n")
	return sb.String()
}

// RecordDecoder renders:
//
//	decodePerson : Json.Decode.Decoder Person
//	decodePerson =
//	    Json.Decode.succeed Person
//	        |> Json.Decode.Pipeline.required "age" Json.Decode.int
//	        |> Json.Decode.Pipeline.required "surname" Json.Decode.string
func RecordDecoder(rec typegen.RecordDecl) string {
	name := rec.Name.String()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s : Json.Decode.Decoder %s\n", DecoderName(name), name)
	fmt.Fprintf(&sb, "%s =\n", DecoderName(name))
	fmt.Fprintf(&sb, "    Json.Decode.succeed %s\n", name)
	for _, f := range rec.Fields {
		fmt.Fprintf(&sb, "        |> Json.Decode.Pipeline.required %q %s\n", f.Name.JSONKey(), arg(DecoderRef(f.Type)))
	}
	return sb.String()
}

func delimiter(i int, first, rest string) string {
	if i == 0 {
		return first
	}
	return rest
}
