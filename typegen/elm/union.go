package elm

import (
	"fmt"
	"strings"

	"github.com/teranos/elmgen/typegen"
)

// UnionType renders:
//
//	type Action
//	    = PlayCard Card
//	    | DiscardCards (List (Card))
//	    | Surrender
func UnionType(union typegen.UnionDecl) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s\n", union.Name)
	for i, v := range union.Variants {
		sb.WriteString(delimiter(i, "    = ", "    | "))
		sb.WriteString(v.Name.String())
		for _, t := range v.Fields {
			sb.WriteString(" ")
			sb.WriteString(arg(TypeRef(t)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// positional names the variables bound to a variant's fields in a case
// branch: a0 a1 ... unless one of them would shadow subject, in which case
// the prefix moves on to b, c, ...
func positional(arity int, subject string) []string {
	prefix := 'a'
	for ; prefix < 'z'; prefix++ {
		if !isPositional(subject, prefix, arity) {
			break
		}
	}
	vars := make([]string, arity)
	for i := range vars {
		vars[i] = fmt.Sprintf("%c%d", prefix, i)
	}
	return vars
}

func isPositional(name string, prefix rune, arity int) bool {
	for i := 0; i < arity; i++ {
		if name == fmt.Sprintf("%c%d", prefix, i) {
			return true
		}
	}
	return false
}

// UnionEncoder renders a case expression with one branch per variant. The
// JSON shape depends on the arity: a bare string for no fields, a single-key
// object for one field, and a single-key object holding an array otherwise.
//
//	encodeRemoteMessage : RemoteMessage -> Json.Encode.Value
//	encodeRemoteMessage remoteMessage =
//	    case remoteMessage of
//	        Hello a0 ->
//	            Json.Encode.object [ ( "Hello", Json.Encode.string a0 ) ]
//
//	        Compare a0 a1 ->
//	            Json.Encode.object [ ( "Compare", Json.Encode.list Basics.identity [ Json.Encode.int a0, Json.Encode.int a1 ] ) ]
//
//	        Goodbye ->
//	            Json.Encode.string "Goodbye"
func UnionEncoder(union typegen.UnionDecl) string {
	name := union.Name.String()
	value := union.Name.ValueName()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s : %s -> Json.Encode.Value\n", EncoderName(name), name)
	fmt.Fprintf(&sb, "%s %s =\n", EncoderName(name), value)
	fmt.Fprintf(&sb, "    case %s of\n", value)

	for i, v := range union.Variants {
		if i > 0 {
			sb.WriteString("\n")
		}
		vars := positional(v.Arity(), value)
		pattern := strings.Join(append([]string{v.Name.String()}, vars...), " ")
		fmt.Fprintf(&sb, "        %s ->\n", pattern)
		fmt.Fprintf(&sb, "            %s\n", encodeVariant(v, vars))
	}
	return sb.String()
}

func encodeVariant(v typegen.VariantDecl, vars []string) string {
	tag := v.Name.String()
	switch v.Arity() {
	case 0:
		return fmt.Sprintf("Json.Encode.string %q", tag)
	case 1:
		return fmt.Sprintf("Json.Encode.object [ ( %q, %s %s ) ]", tag, EncoderRef(v.Fields[0]), vars[0])
	}
	items := make([]string, len(v.Fields))
	for i, t := range v.Fields {
		items[i] = EncoderRef(t) + " " + vars[i]
	}
	return fmt.Sprintf("Json.Encode.object [ ( %q, Json.Encode.list Basics.identity [ %s ] ) ]", tag, strings.Join(items, ", "))
}

// VariantDecoderName is the dedicated decoder of one variant:
// decodeRemoteMessageHello.
func VariantDecoderName(union typegen.UnionDecl, v typegen.VariantDecl) string {
	return DecoderName(union.Name.String() + v.Name.String())
}

// UnionDecoder renders the umbrella decoder, which tries every variant
// decoder in declaration order and takes the first success, followed by one
// dedicated decoder per variant.
func UnionDecoder(union typegen.UnionDecl) string {
	name := union.Name.String()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s : Json.Decode.Decoder %s\n", DecoderName(name), name)
	fmt.Fprintf(&sb, "%s =\n", DecoderName(name))
	sb.WriteString("    Json.Decode.oneOf\n")
	for i, v := range union.Variants {
		sb.WriteString(delimiter(i, "        [ ", "        , "))
		sb.WriteString(VariantDecoderName(union, v))
		sb.WriteString("\n")
	}
	sb.WriteString("        ]\n")

	for _, v := range union.Variants {
		sb.WriteString("\n")
		sb.WriteString(variantDecoder(union, v))
	}
	return sb.String()
}

func variantDecoder(union typegen.UnionDecl, v typegen.VariantDecl) string {
	fn := VariantDecoderName(union, v)
	tag := v.Name.String()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s : Json.Decode.Decoder %s\n", fn, union.Name)
	fmt.Fprintf(&sb, "%s =\n", fn)

	switch v.Arity() {
	case 0:
		// a bare string equal to the variant name
		sb.WriteString("    Json.Decode.string\n")
		sb.WriteString("        |> Json.Decode.andThen\n")
		sb.WriteString("            (\\tag ->\n")
		fmt.Fprintf(&sb, "                if tag == %q then\n", tag)
		fmt.Fprintf(&sb, "                    Json.Decode.succeed %s\n", tag)
		sb.WriteString("\n")
		sb.WriteString("                else\n")
		fmt.Fprintf(&sb, "                    Json.Decode.fail (\"expected %s, got \" ++ tag)\n", tag)
		sb.WriteString("            )\n")

	case 1:
		fmt.Fprintf(&sb, "    Json.Decode.succeed %s\n", tag)
		fmt.Fprintf(&sb, "        |> Json.Decode.Pipeline.required %q %s\n", tag, arg(DecoderRef(v.Fields[0])))

	default:
		// the array under the variant key, field by field
		fmt.Fprintf(&sb, "    Json.Decode.field %q\n", tag)
		fmt.Fprintf(&sb, "        (Json.Decode.succeed %s\n", tag)
		for i, t := range v.Fields {
			fmt.Fprintf(&sb, "            |> Json.Decode.Pipeline.custom (Json.Decode.index %d %s)\n", i, arg(DecoderRef(t)))
		}
		sb.WriteString("        )\n")
	}
	return sb.String()
}
