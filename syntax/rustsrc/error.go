package rustsrc

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/syntax"
)

// Error is a tokenizer or parser failure at a source position.
// It wraps errors.ErrParse, so errors.Is(err, errors.ErrParse) holds.
type Error struct {
	File string
	Pos  syntax.Pos
	Msg  string
}

func newError(file string, pos syntax.Pos, msg string) *Error {
	return &Error{File: file, Pos: pos, Msg: msg}
}

func (e *Error) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return errors.ErrParse
}

// Excerpt renders the offending source line with a caret under the column.
// With color set, the message and caret are highlighted for terminals.
func (e *Error) Excerpt(src string, color bool) string {
	lines := strings.Split(src, "\n")
	if !e.Pos.IsValid() || e.Pos.Line > len(lines) {
		return e.Error()
	}

	line := strings.TrimRight(lines[e.Pos.Line-1], "\r")
	gutter := fmt.Sprintf("%4d | ", e.Pos.Line)
	caret := strings.Repeat(" ", len(gutter)+max(e.Pos.Column-1, 0)) + "^"

	header := e.Error()
	if color {
		header = pterm.Red(header)
		gutter = pterm.Gray(gutter)
		caret = pterm.LightRed(caret)
	}
	return header + "\n" + gutter + line + "\n" + caret
}
