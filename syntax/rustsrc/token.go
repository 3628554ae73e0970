package rustsrc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/elmgen/syntax"
)

// TokenType classifies a token.
type TokenType int

const (
	TEOF TokenType = iota
	TIdent
	TLifetime
	TLiteral
	TPunct
)

func (t TokenType) String() string {
	switch t {
	case TEOF:
		return "end of input"
	case TIdent:
		return "identifier"
	case TLifetime:
		return "lifetime"
	case TLiteral:
		return "literal"
	default:
		return "punctuation"
	}
}

// Token is one lexical token. For identifiers the raw prefix `r#` is
// stripped; for lifetimes the leading quote is stripped.
type Token struct {
	Type TokenType
	Text string
	Pos  syntax.Pos
}

func (t Token) String() string {
	if t.Type == TEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

// is reports whether the token is the punctuation or keyword text.
func (t Token) is(text string) bool {
	return (t.Type == TPunct || t.Type == TIdent) && t.Text == text
}

// multi-character punctuation recognised as single tokens. `<` and `>` are
// always single so generic argument lists balance without splitting `>>`.
var multiPunct = []string{"::", "->", "=>", "..=", "...", ".."}

type scanner struct {
	src  string
	off  int
	line int
	col  int
	file string
}

// Tokenize splits Rust source text into tokens, dropping whitespace and
// comments. The last token is always TEOF.
func Tokenize(file, src string) ([]Token, error) {
	s := &scanner{src: src, line: 1, col: 1, file: file}
	var toks []Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TEOF {
			return toks, nil
		}
	}
}

func (s *scanner) pos() syntax.Pos {
	return syntax.Pos{Line: s.line, Column: s.col}
}

func (s *scanner) peekByte(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

func (s *scanner) advance(n int) {
	for i := 0; i < n && s.off < len(s.src); {
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		s.off += size
		i += size
	}
}

func (s *scanner) errorf(pos syntax.Pos, format string, args ...interface{}) error {
	return newError(s.file, pos, fmt.Sprintf(format, args...))
}

func (s *scanner) skipTrivia() error {
	for s.off < len(s.src) {
		c := s.src[s.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.advance(1)
		case c == '/' && s.peekByte(1) == '/':
			for s.off < len(s.src) && s.src[s.off] != '\n' {
				s.advance(1)
			}
		case c == '/' && s.peekByte(1) == '*':
			start := s.pos()
			s.advance(2)
			depth := 1
			for depth > 0 {
				if s.off >= len(s.src) {
					return s.errorf(start, "unterminated block comment")
				}
				switch {
				case s.src[s.off] == '/' && s.peekByte(1) == '*':
					depth++
					s.advance(2)
				case s.src[s.off] == '*' && s.peekByte(1) == '/':
					depth--
					s.advance(2)
				default:
					s.advance(1)
				}
			}
		default:
			r, _ := utf8.DecodeRuneInString(s.src[s.off:])
			if unicode.IsSpace(r) {
				s.advance(utf8.RuneLen(r))
				continue
			}
			return nil
		}
	}
	return nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (s *scanner) next() (Token, error) {
	if err := s.skipTrivia(); err != nil {
		return Token{}, err
	}
	pos := s.pos()
	if s.off >= len(s.src) {
		return Token{Type: TEOF, Pos: pos}, nil
	}

	c := s.src[s.off]
	r, _ := utf8.DecodeRuneInString(s.src[s.off:])

	switch {
	case c == 'r' && s.peekByte(1) == '#' && isIdentStart(rune(s.peekByte(2))):
		// raw identifier r#type
		s.advance(2)
		return Token{Type: TIdent, Text: s.scanIdent(), Pos: pos}, nil
	case c == 'r' && (s.peekByte(1) == '"' || (s.peekByte(1) == '#' && (s.peekByte(2) == '"' || s.peekByte(2) == '#'))):
		s.advance(1)
		return s.scanRawString(pos)
	case c == 'b' && s.peekByte(1) == 'r' && (s.peekByte(2) == '"' || s.peekByte(2) == '#'):
		s.advance(2)
		return s.scanRawString(pos)
	case c == 'b' && (s.peekByte(1) == '"' || s.peekByte(1) == '\''):
		s.advance(1)
		if s.src[s.off] == '"' {
			return s.scanString(pos)
		}
		return s.scanChar(pos)
	case isIdentStart(r):
		return Token{Type: TIdent, Text: s.scanIdent(), Pos: pos}, nil
	case c >= '0' && c <= '9':
		return s.scanNumber(pos), nil
	case c == '"':
		return s.scanString(pos)
	case c == '\'':
		return s.scanQuote(pos)
	}

	for _, p := range multiPunct {
		if strings.HasPrefix(s.src[s.off:], p) {
			s.advance(len(p))
			return Token{Type: TPunct, Text: p, Pos: pos}, nil
		}
	}
	if strings.ContainsRune("{}[]()<>,;:#!&*+-=/%^|.?@$~", r) {
		s.advance(1)
		return Token{Type: TPunct, Text: string(c), Pos: pos}, nil
	}
	return Token{}, s.errorf(pos, "unexpected character %q", r)
}

func (s *scanner) scanIdent() string {
	start := s.off
	for s.off < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		if !isIdentContinue(r) {
			break
		}
		s.advance(size)
	}
	return s.src[start:s.off]
}

func (s *scanner) scanNumber(pos syntax.Pos) Token {
	start := s.off
	for s.off < len(s.src) {
		c := s.src[s.off]
		isDigitish := c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		// a fractional part, but not a range `1..2` or a method call `1.max`
		isFraction := c == '.' && s.peekByte(1) >= '0' && s.peekByte(1) <= '9'
		if !isDigitish && !isFraction {
			break
		}
		s.advance(1)
	}
	return Token{Type: TLiteral, Text: s.src[start:s.off], Pos: pos}
}

func (s *scanner) scanString(pos syntax.Pos) (Token, error) {
	start := s.off
	s.advance(1) // opening quote
	for {
		if s.off >= len(s.src) {
			return Token{}, s.errorf(pos, "unterminated string literal")
		}
		c := s.src[s.off]
		if c == '\\' {
			s.advance(2)
			continue
		}
		s.advance(1)
		if c == '"' {
			return Token{Type: TLiteral, Text: s.src[start:s.off], Pos: pos}, nil
		}
	}
}

func (s *scanner) scanRawString(pos syntax.Pos) (Token, error) {
	start := s.off
	hashes := 0
	for s.off < len(s.src) && s.src[s.off] == '#' {
		hashes++
		s.advance(1)
	}
	if s.off >= len(s.src) || s.src[s.off] != '"' {
		return Token{}, s.errorf(pos, "malformed raw string literal")
	}
	s.advance(1)
	closing := "\"" + strings.Repeat("#", hashes)
	idx := strings.Index(s.src[s.off:], closing)
	if idx < 0 {
		return Token{}, s.errorf(pos, "unterminated raw string literal")
	}
	s.advance(idx + len(closing))
	return Token{Type: TLiteral, Text: s.src[start:s.off], Pos: pos}, nil
}

// scanQuote handles both lifetimes ('a) and char literals ('a', '\n').
func (s *scanner) scanQuote(pos syntax.Pos) (Token, error) {
	r, size := utf8.DecodeRuneInString(s.src[s.off+1:])
	if isIdentStart(r) {
		// 'a' is a char, 'a followed by anything else is a lifetime
		if s.off+1+size >= len(s.src) || s.src[s.off+1+size] != '\'' {
			s.advance(1)
			return Token{Type: TLifetime, Text: s.scanIdent(), Pos: pos}, nil
		}
	}
	return s.scanChar(pos)
}

func (s *scanner) scanChar(pos syntax.Pos) (Token, error) {
	start := s.off
	s.advance(1) // opening quote
	for {
		if s.off >= len(s.src) || s.src[s.off] == '\n' {
			return Token{}, s.errorf(pos, "unterminated character literal")
		}
		c := s.src[s.off]
		if c == '\\' {
			s.advance(2)
			continue
		}
		s.advance(1)
		if c == '\'' {
			return Token{Type: TLiteral, Text: s.src[start:s.off], Pos: pos}, nil
		}
	}
}
