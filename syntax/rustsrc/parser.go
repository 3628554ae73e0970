// Package rustsrc reads the declaration subset of Rust source text into a
// syntax.File.
//
// It understands exactly what the generator consumes: struct and enum
// declarations, impl headers and type annotations. Every other item (use,
// fn, mod, trait, const, macros, ...) is skipped by balanced-delimiter
// matching and recorded as a syntax.OtherItem, so expressions and function
// bodies never need to be understood. Nested modules are not descended.
package rustsrc

import (
	"strings"

	"github.com/teranos/elmgen/syntax"
)

// ParseFile tokenizes and parses a whole source file.
func ParseFile(name, src string) (*syntax.File, error) {
	toks, err := Tokenize(name, src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, file: name}
	items, err := p.parseItems()
	if err != nil {
		return nil, err
	}
	return &syntax.File{Name: name, Items: items}, nil
}

// ParseType parses a standalone type annotation such as `Vec<Card>`.
func ParseType(src string) (syntax.Type, error) {
	toks, err := Tokenize("", src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.at(TEOF) {
		return nil, p.unexpected("end of type")
	}
	return t, nil
}

// ParsePath parses a standalone path such as `crate::ElmExport`.
func ParsePath(src string) (*syntax.Path, error) {
	toks, err := Tokenize("", src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if !p.at(TEOF) {
		return nil, p.unexpected("end of path")
	}
	return path, nil
}

type parser struct {
	toks []Token
	pos  int
	file string
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peekN(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Type != TEOF {
		p.pos++
	}
	return tok
}

func (p *parser) at(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *parser) atText(text string) bool {
	return p.peek().is(text)
}

// accept consumes the token if it matches text.
func (p *parser) accept(text string) bool {
	if p.atText(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) (Token, error) {
	if !p.atText(text) {
		return Token{}, p.unexpected("`" + text + "`")
	}
	return p.next(), nil
}

func (p *parser) expectIdent() (Token, error) {
	if !p.at(TIdent) {
		return Token{}, p.unexpected("identifier")
	}
	return p.next(), nil
}

func (p *parser) unexpected(want string) error {
	tok := p.peek()
	return newError(p.file, tok.Pos, "expected "+want+", found "+tok.String())
}

var closing = map[string]string{"(": ")", "[": "]", "{": "}"}

// skipGroup consumes a balanced (), [] or {} group starting at the current
// opening delimiter and returns its source-like text.
func (p *parser) skipGroup() (string, error) {
	open := p.next()
	var stack []string
	stack = append(stack, closing[open.Text])
	parts := []string{open.Text}
	for len(stack) > 0 {
		tok := p.next()
		switch {
		case tok.Type == TEOF:
			return "", newError(p.file, open.Pos, "unclosed `"+open.Text+"`")
		case tok.Type == TPunct && closing[tok.Text] != "":
			stack = append(stack, closing[tok.Text])
		case tok.Type == TPunct && (tok.Text == ")" || tok.Text == "]" || tok.Text == "}"):
			if tok.Text != stack[len(stack)-1] {
				return "", newError(p.file, tok.Pos, "mismatched `"+tok.Text+"`")
			}
			stack = stack[:len(stack)-1]
		}
		parts = append(parts, tokenText(tok))
	}
	return strings.Join(parts, " "), nil
}

func tokenText(tok Token) string {
	if tok.Type == TLifetime {
		return "'" + tok.Text
	}
	return tok.Text
}

// skipAttributes consumes any #[...] and #![...] attributes.
func (p *parser) skipAttributes() error {
	for p.atText("#") {
		p.next()
		p.accept("!")
		if !p.atText("[") {
			return p.unexpected("`[` after `#`")
		}
		if _, err := p.skipGroup(); err != nil {
			return err
		}
	}
	return nil
}

// skipVisibility consumes pub, pub(crate), pub(in path) and friends.
func (p *parser) skipVisibility() error {
	if !p.accept("pub") {
		return nil
	}
	if p.atText("(") {
		_, err := p.skipGroup()
		return err
	}
	return nil
}

func (p *parser) parseItems() ([]syntax.Item, error) {
	var items []syntax.Item
	for {
		if err := p.skipAttributes(); err != nil {
			return nil, err
		}
		if p.at(TEOF) {
			return items, nil
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, item)
		}
	}
}

// item qualifiers that may precede the keyword
var qualifiers = map[string]bool{
	"unsafe": true, "default": true, "async": true, "extern": true,
}

// items whose end is always a top-level `;`
var semicolonItems = map[string]bool{
	"use": true, "const": true, "static": true, "type": true, "let": true,
}

func (p *parser) parseItem() (syntax.Item, error) {
	start := p.peek().Pos
	if err := p.skipVisibility(); err != nil {
		return nil, err
	}

	// stray semicolons are empty items
	if p.accept(";") {
		return nil, nil
	}

	// unsafe impl, pub async fn, extern "C" fn, extern "C" { ... }
	qualifier := ""
	for {
		tok := p.peek()
		if tok.Type != TIdent || !qualifiers[tok.Text] || p.peekN(1).is("crate") {
			break
		}
		if qualifier == "" {
			qualifier = tok.Text
		}
		p.next()
		if tok.Text == "extern" && p.at(TLiteral) {
			p.next()
		}
	}

	kw := p.peek()
	switch {
	case kw.is("struct"):
		return p.parseStruct(start)
	case kw.is("enum"):
		return p.parseEnum(start)
	case kw.is("impl"):
		return p.parseImpl(start)
	}
	kind := kw.Text
	if kw.Type != TIdent && qualifier != "" {
		kind = qualifier
	}
	return p.skipItem(start, kind)
}

// skipItem consumes an item the generator does not model.
func (p *parser) skipItem(start syntax.Pos, kind string) (syntax.Item, error) {
	kw := p.peek()
	other := &syntax.OtherItem{Kind: kind, Pos: start}
	if kw.Type == TIdent && p.peekN(1).Type == TIdent && !semicolonItems[kw.Text] {
		other.Name = p.peekN(1).Text
	}
	if kw.is("macro_rules") && p.peekN(1).is("!") {
		other.Kind = "macro_rules"
		other.Name = p.peekN(2).Text
	}
	// const fn and unsafe fn end with their body
	untilSemicolon := semicolonItems[kw.Text] && !p.peekN(1).is("fn") && !p.peekN(1).is("unsafe")

	for {
		tok := p.peek()
		switch {
		case tok.Type == TEOF:
			return nil, newError(p.file, start, "unterminated `"+kind+"` item")
		case tok.is(";"):
			p.next()
			return other, nil
		case tok.is("(") || tok.is("["):
			if _, err := p.skipGroup(); err != nil {
				return nil, err
			}
		case tok.is("{"):
			if _, err := p.skipGroup(); err != nil {
				return nil, err
			}
			if !untilSemicolon {
				p.accept(";")
				return other, nil
			}
		case tok.is(")") || tok.is("]") || tok.is("}"):
			return nil, newError(p.file, tok.Pos, "unexpected `"+tok.Text+"`")
		default:
			p.next()
		}
	}
}

// parseGenerics reads `<...>` parameter lists and returns the parameter names
// (lifetimes keep their leading quote).
func (p *parser) parseGenerics() ([]string, error) {
	if !p.atText("<") {
		return nil, nil
	}
	open := p.next()
	var names []string
	depth := 1
	expectName := true
	for depth > 0 {
		tok := p.next()
		switch {
		case tok.Type == TEOF:
			return nil, newError(p.file, open.Pos, "unclosed generic parameter list")
		case tok.is("<"):
			depth++
		case tok.is(">"):
			depth--
		case tok.is("(") || tok.is("[") || tok.is("{"):
			p.pos--
			if _, err := p.skipGroup(); err != nil {
				return nil, err
			}
		case tok.is(",") && depth == 1:
			expectName = true
		case expectName && tok.is("const"):
			// const N: usize
		case expectName && tok.Type == TLifetime:
			names = append(names, "'"+tok.Text)
			expectName = false
		case expectName && tok.Type == TIdent:
			names = append(names, tok.Text)
			expectName = false
		}
	}
	return names, nil
}

// skipWhereClause consumes `where ...` up to (not including) `{` or `;`.
func (p *parser) skipWhereClause() error {
	if !p.accept("where") {
		return nil
	}
	depth := 0
	for {
		tok := p.peek()
		switch {
		case tok.Type == TEOF:
			return p.unexpected("`{` or `;` after where clause")
		case depth == 0 && (tok.is("{") || tok.is(";")):
			return nil
		case tok.is("<"):
			depth++
		case tok.is(">"):
			depth--
		case tok.is("(") || tok.is("["):
			if _, err := p.skipGroup(); err != nil {
				return err
			}
			continue
		}
		p.next()
	}
}

func (p *parser) parseStruct(start syntax.Pos) (syntax.Item, error) {
	p.next() // struct
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	if err := p.skipWhereClause(); err != nil {
		return nil, err
	}

	s := &syntax.Struct{Name: name.Text, Generics: generics, Pos: start}
	switch {
	case p.accept(";"):
		s.Fields = syntax.Fields{Kind: syntax.FieldsUnit}
	case p.atText("{"):
		if s.Fields, err = p.parseNamedFields(); err != nil {
			return nil, err
		}
	case p.atText("("):
		if s.Fields, err = p.parseUnnamedFields(); err != nil {
			return nil, err
		}
		if err := p.skipWhereClause(); err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("`{`, `(` or `;` in struct " + name.Text)
	}
	return s, nil
}

func (p *parser) parseNamedFields() (syntax.Fields, error) {
	fields := syntax.Fields{Kind: syntax.FieldsNamed}
	p.next() // {
	for !p.accept("}") {
		if err := p.skipAttributes(); err != nil {
			return fields, err
		}
		if err := p.skipVisibility(); err != nil {
			return fields, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return fields, err
		}
		if _, err := p.expect(":"); err != nil {
			return fields, err
		}
		typ, err := p.parseType()
		if err != nil {
			return fields, err
		}
		fields.List = append(fields.List, syntax.Field{Name: name.Text, Type: typ, Pos: name.Pos})
		if !p.accept(",") && !p.atText("}") {
			return fields, p.unexpected("`,` or `}`")
		}
	}
	return fields, nil
}

func (p *parser) parseUnnamedFields() (syntax.Fields, error) {
	fields := syntax.Fields{Kind: syntax.FieldsUnnamed}
	p.next() // (
	for !p.accept(")") {
		if err := p.skipAttributes(); err != nil {
			return fields, err
		}
		if err := p.skipVisibility(); err != nil {
			return fields, err
		}
		pos := p.peek().Pos
		typ, err := p.parseType()
		if err != nil {
			return fields, err
		}
		fields.List = append(fields.List, syntax.Field{Type: typ, Pos: pos})
		if !p.accept(",") && !p.atText(")") {
			return fields, p.unexpected("`,` or `)`")
		}
	}
	return fields, nil
}

func (p *parser) parseEnum(start syntax.Pos) (syntax.Item, error) {
	p.next() // enum
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	if err := p.skipWhereClause(); err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	e := &syntax.Enum{Name: name.Text, Generics: generics, Pos: start}
	for !p.accept("}") {
		if err := p.skipAttributes(); err != nil {
			return nil, err
		}
		if err := p.skipVisibility(); err != nil {
			return nil, err
		}
		vname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		v := syntax.Variant{Name: vname.Text, Pos: vname.Pos}
		switch {
		case p.atText("{"):
			v.Fields, err = p.parseNamedFields()
		case p.atText("("):
			v.Fields, err = p.parseUnnamedFields()
		default:
			v.Fields = syntax.Fields{Kind: syntax.FieldsUnit}
		}
		if err != nil {
			return nil, err
		}
		if p.accept("=") {
			if err := p.skipDiscriminant(); err != nil {
				return nil, err
			}
		}
		e.Variants = append(e.Variants, v)
		if !p.accept(",") && !p.atText("}") {
			return nil, p.unexpected("`,` or `}`")
		}
	}
	return e, nil
}

// skipDiscriminant consumes an explicit discriminant expression.
func (p *parser) skipDiscriminant() error {
	for {
		tok := p.peek()
		switch {
		case tok.Type == TEOF:
			return p.unexpected("`,` or `}`")
		case tok.is(",") || tok.is("}"):
			return nil
		case tok.is("(") || tok.is("[") || tok.is("{"):
			if _, err := p.skipGroup(); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
}

func (p *parser) parseImpl(start syntax.Pos) (syntax.Item, error) {
	p.next() // impl
	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	p.accept("const")

	impl := &syntax.Impl{Generics: generics, Pos: start}
	impl.Negative = p.accept("!")

	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept("for") {
		pt, ok := first.(*syntax.PathType)
		if !ok || pt.QSelf != nil {
			return nil, newError(p.file, start, "impl trait `"+first.String()+"` is not a path")
		}
		trait := pt.Path
		impl.Trait = &trait
		if impl.SelfType, err = p.parseType(); err != nil {
			return nil, err
		}
	} else {
		impl.SelfType = first
	}

	if err := p.skipWhereClause(); err != nil {
		return nil, err
	}
	if !p.atText("{") {
		return nil, p.unexpected("`{` to open impl body")
	}
	if _, err := p.skipGroup(); err != nil {
		return nil, err
	}
	return impl, nil
}
