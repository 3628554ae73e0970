package typegen

import (
	"strings"
	"time"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
	"github.com/teranos/elmgen/syntax"
)

// Options control one generation run.
type Options struct {
	// Module is the generated module name
	Module string
	// Marker is the marker trait name, DefaultMarker when empty
	Marker string
	// Strict turns dangling references into errors.ErrDanglingReference
	Strict bool
}

// Build runs extraction, export discovery and resolution over file.
// Nothing is returned on failure, so callers never render partial output.
func Build(file *syntax.File, opts Options) (*Result, error) {
	start := time.Now()
	log := logger.ComponentLogger("typegen.export")

	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	tables, err := Extract(file)
	if err != nil {
		return nil, err
	}
	roots, err := Discover(file, marker)
	if err != nil {
		return nil, err
	}
	set, err := Resolve(tables, roots, file.Name)
	if err != nil {
		return nil, err
	}

	dangling := DanglingRefs(set)
	for _, ref := range dangling {
		log.Warnw("Dangling reference",
			logger.FieldFile, file.Name,
			logger.FieldType, ref.From,
			logger.FieldDangling, ref.Name)
	}
	if opts.Strict && len(dangling) > 0 {
		names := make([]string, len(dangling))
		for i, ref := range dangling {
			names[i] = ref.From + " -> " + ref.Name
		}
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrDanglingReference, "%s", strings.Join(names, ", ")),
			"add `impl "+marker+" for <Name> {}` for every referenced declaration")
	}

	log.Debugw("Export set resolved",
		logger.FieldModule, opts.Module,
		logger.FieldRecords, len(set.Records),
		logger.FieldUnions, len(set.Unions),
		logger.FieldDangling, len(dangling),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Result{
		Module:     opts.Module,
		SourceFile: file.Name,
		Exports:    set,
		Dangling:   dangling,
	}, nil
}
