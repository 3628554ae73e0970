package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across elmgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Files and paths
	FieldFile   = "file"
	FieldOutput = "output"
	FieldLine   = "line"
	FieldColumn = "column"

	// Declarations
	FieldModule  = "module"
	FieldType    = "type"
	FieldField   = "field"
	FieldVariant = "variant"
	FieldMarker  = "marker"
	FieldKind    = "kind"

	// Counts and sizes
	FieldCount    = "count"
	FieldRecords  = "records"
	FieldUnions   = "unions"
	FieldRoots    = "roots"
	FieldBytes    = "bytes"
	FieldDangling = "dangling"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Extractor struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewExtractor() *Extractor {
//	    return &Extractor{
//	        logger: logger.ComponentLogger("typegen.extract"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	fileLogger := logger.ChildLogger(baseLogger, logger.FieldFile, path)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
