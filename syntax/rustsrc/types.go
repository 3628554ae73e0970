package rustsrc

import (
	"strings"

	"github.com/teranos/elmgen/syntax"
)

func (p *parser) parseType() (syntax.Type, error) {
	tok := p.peek()
	switch {
	case tok.is("&"):
		p.next()
		ref := &syntax.RefType{}
		if p.at(TLifetime) {
			ref.Lifetime = p.next().Text
		}
		ref.Mut = p.accept("mut")
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ref.Elem = elem
		return ref, nil

	case tok.is("*"):
		p.next()
		ptr := &syntax.PtrType{}
		switch {
		case p.accept("mut"):
			ptr.Mut = true
		case p.accept("const"):
		default:
			return nil, p.unexpected("`const` or `mut` after `*`")
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ptr.Elem = elem
		return ptr, nil

	case tok.is("["):
		return p.parseSliceOrArray()

	case tok.is("("):
		return p.parseTupleOrParen()

	case tok.is("!"):
		p.next()
		return &syntax.NeverType{}, nil

	case tok.is("_"):
		p.next()
		return &syntax.InferType{}, nil

	case tok.is("dyn"):
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &syntax.TraitObjectType{Bounds: bounds}, nil

	case tok.is("impl"):
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return &syntax.ImplTraitType{Bounds: bounds}, nil

	case tok.is("fn") || tok.is("unsafe") || tok.is("extern") || tok.is("for"):
		return p.parseFnType()

	case tok.is("<"):
		return p.parseQualifiedPath()

	case tok.Type == TIdent || tok.is("::"):
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		if p.atText("!") && closing[p.peekN(1).Text] != "" && p.peekN(1).Type == TPunct {
			p.next()
			group, err := p.skipGroup()
			if err != nil {
				return nil, err
			}
			return &syntax.MacroType{Path: *path, Tokens: group}, nil
		}
		return &syntax.PathType{Path: *path}, nil
	}
	return nil, p.unexpected("type")
}

func (p *parser) parseSliceOrArray() (syntax.Type, error) {
	open := p.next() // [
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept("]") {
		return &syntax.SliceType{Elem: elem}, nil
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	// the length is an expression; keep it as text
	var parts []string
	for !p.atText("]") {
		tok := p.peek()
		switch {
		case tok.Type == TEOF:
			return nil, newError(p.file, open.Pos, "unclosed `[`")
		case tok.is("(") || tok.is("[") || tok.is("{"):
			group, err := p.skipGroup()
			if err != nil {
				return nil, err
			}
			parts = append(parts, group)
		default:
			parts = append(parts, tokenText(p.next()))
		}
	}
	p.next() // ]
	return &syntax.ArrayType{Elem: elem, Len: strings.Join(parts, " ")}, nil
}

func (p *parser) parseTupleOrParen() (syntax.Type, error) {
	p.next() // (
	if p.accept(")") {
		return &syntax.TupleType{}, nil
	}
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept(")") {
		return &syntax.ParenType{Elem: first}, nil
	}

	tuple := &syntax.TupleType{Elems: []syntax.Type{first}}
	for {
		if _, err := p.expect(","); err != nil {
			return nil, err
		}
		if p.accept(")") {
			return tuple, nil
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		tuple.Elems = append(tuple.Elems, elem)
		if p.accept(")") {
			return tuple, nil
		}
	}
}

// parseBounds reads `A + B + 'a` after dyn or impl.
func (p *parser) parseBounds() ([]string, error) {
	var bounds []string
	for {
		switch {
		case p.at(TLifetime):
			bounds = append(bounds, "'"+p.next().Text)
		default:
			prefix := ""
			if p.accept("?") {
				prefix = "?"
			}
			if p.atText("for") {
				if _, err := p.parseHigherRanked(); err != nil {
					return nil, err
				}
			}
			path, err := p.parsePath()
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, prefix+path.String())
		}
		if !p.accept("+") {
			return bounds, nil
		}
	}
}

// parseHigherRanked consumes `for<'a, 'b>` and returns its text.
func (p *parser) parseHigherRanked() (string, error) {
	p.next() // for
	names, err := p.parseGenerics()
	if err != nil {
		return "", err
	}
	return "for<" + strings.Join(names, ", ") + "> ", nil
}

// parseFnType reads a function pointer type and keeps it as normalized text.
func (p *parser) parseFnType() (syntax.Type, error) {
	var sb strings.Builder
	if p.atText("for") {
		hr, err := p.parseHigherRanked()
		if err != nil {
			return nil, err
		}
		sb.WriteString(hr)
	}
	if p.accept("unsafe") {
		sb.WriteString("unsafe ")
	}
	if p.accept("extern") {
		sb.WriteString("extern ")
		if p.at(TLiteral) {
			sb.WriteString(p.next().Text + " ")
		}
	}
	if _, err := p.expect("fn"); err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	var params []string
	for !p.accept(")") {
		if p.accept("...") {
			params = append(params, "...")
		} else {
			// named parameters: fn(count: u8)
			if (p.at(TIdent) || p.atText("_")) && p.peekN(1).is(":") {
				p.next()
				p.next()
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, t.String())
		}
		if !p.accept(",") && !p.atText(")") {
			return nil, p.unexpected("`,` or `)`")
		}
	}
	sb.WriteString("fn(" + strings.Join(params, ", ") + ")")

	if p.accept("->") {
		out, err := p.parseType()
		if err != nil {
			return nil, err
		}
		sb.WriteString(" -> " + out.String())
	}
	return &syntax.FnType{Text: sb.String()}, nil
}

// parseQualifiedPath reads `<T as Trait>::Name`.
func (p *parser) parseQualifiedPath() (syntax.Type, error) {
	p.next() // <
	self, err := p.parseType()
	if err != nil {
		return nil, err
	}
	qself := &syntax.QSelf{Type: self}
	if p.accept("as") {
		if qself.As, err = p.parsePath(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	if _, err := p.expect("::"); err != nil {
		return nil, err
	}
	segs, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	return &syntax.PathType{QSelf: qself, Path: syntax.Path{Segments: segs}}, nil
}

// parsePath reads `::a::b<T>::C` in type position, where generic arguments
// may be written with or without the turbofish.
func (p *parser) parsePath() (*syntax.Path, error) {
	path := &syntax.Path{Global: p.accept("::")}
	segs, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	path.Segments = segs
	return path, nil
}

func (p *parser) parseSegments() ([]syntax.Segment, error) {
	var segs []syntax.Segment
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		seg := syntax.Segment{Name: name.Text}

		switch {
		case p.atText("<"):
			if seg.Args, err = p.parseGenericArgs(); err != nil {
				return nil, err
			}
		case p.atText("::") && p.peekN(1).is("<"):
			p.next()
			if seg.Args, err = p.parseGenericArgs(); err != nil {
				return nil, err
			}
		case p.atText("("):
			if err := p.parseParenthesizedArgs(&seg); err != nil {
				return nil, err
			}
		}
		segs = append(segs, seg)

		if !p.atText("::") || p.peekN(1).Type != TIdent {
			return segs, nil
		}
		p.next()
	}
}

func (p *parser) parseGenericArgs() ([]syntax.GenericArg, error) {
	p.next() // <
	var args []syntax.GenericArg
	for !p.accept(">") {
		var arg syntax.GenericArg
		tok := p.peek()
		switch {
		case tok.Type == TLifetime:
			arg.Lifetime = p.next().Text
		case tok.Type == TLiteral:
			arg.Const = p.next().Text
		case tok.is("-") && p.peekN(1).Type == TLiteral:
			p.next()
			arg.Const = "-" + p.next().Text
		case tok.is("{"):
			group, err := p.skipGroup()
			if err != nil {
				return nil, err
			}
			arg.Const = group
		case tok.Type == TIdent && p.peekN(1).is("="):
			arg.Binding = p.next().Text
			p.next()
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			arg.Type = t
		default:
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			arg.Type = t
		}
		args = append(args, arg)
		if !p.accept(",") && !p.atText(">") {
			return nil, p.unexpected("`,` or `>`")
		}
	}
	return args, nil
}

// parseParenthesizedArgs reads Fn-sugar arguments: `Fn(A, B) -> C`.
func (p *parser) parseParenthesizedArgs(seg *syntax.Segment) error {
	p.next() // (
	seg.Parenthesized = true
	for !p.accept(")") {
		t, err := p.parseType()
		if err != nil {
			return err
		}
		seg.Args = append(seg.Args, syntax.GenericArg{Type: t})
		if !p.accept(",") && !p.atText(")") {
			return p.unexpected("`,` or `)`")
		}
	}
	if p.accept("->") {
		out, err := p.parseType()
		if err != nil {
			return err
		}
		seg.Output = out
	}
	return nil
}
