// Package errors provides error handling for elmgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints attached to generation failures
//
// Every generation failure wraps exactly one of the sentinel kinds below, so
// callers can branch with errors.Is regardless of how much context was added:
//
//	if errors.Is(err, errors.ErrUnsupportedType) {
//	    // a field type outside Int/String/List/named reference
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Generation failure kinds. None of them is recovered locally: any of these
// aborts the whole run before output is written.
var (
	// ErrParse indicates the input could not be turned into a declaration tree
	ErrParse = New("parse failure")

	// ErrUnsupportedShape indicates a tuple/unit struct, an empty enum or a generic declaration
	ErrUnsupportedShape = New("unsupported declaration shape")

	// ErrUnsupportedType indicates a field type outside the target type algebra
	ErrUnsupportedType = New("unsupported field type")

	// ErrUnresolvedExport indicates a marker impl for a name with no struct or enum
	ErrUnresolvedExport = New("unresolved export")

	// ErrMalformedExportPath indicates a trait path with no trailing name
	ErrMalformedExportPath = New("malformed export trait path")

	// ErrDanglingReference indicates an exported field refers to an unexported name (strict mode only)
	ErrDanglingReference = New("dangling type reference")

	// ErrDrift indicates the generated module differs from the file on disk
	ErrDrift = New("generated output is out of date")

	// ErrInvalidConfig indicates configuration values that cannot drive a run
	ErrInvalidConfig = New("invalid configuration")
)

// Kind returns the sentinel kind wrapped by err, or nil when err carries none.
func Kind(err error) error {
	for _, kind := range []error{
		ErrParse,
		ErrUnsupportedShape,
		ErrUnsupportedType,
		ErrUnresolvedExport,
		ErrMalformedExportPath,
		ErrDanglingReference,
		ErrDrift,
		ErrInvalidConfig,
	} {
		if Is(err, kind) {
			return kind
		}
	}
	return nil
}
