package typegen

import (
	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
	"github.com/teranos/elmgen/syntax"
)

// DefaultMarker is the marker trait name: `impl ElmExport for Person {}`.
const DefaultMarker = "ElmExport"

// Root is a requested export: the self type of a marker impl.
type Root struct {
	Name string
	Pos  syntax.Pos
}

// Discover scans file for marker impls and returns their self types in
// source order. An impl is a root when the trailing segment of its trait
// path equals marker and its self type is a bare name. A name exported twice
// is kept once, at its first position.
func Discover(file *syntax.File, marker string) ([]Root, error) {
	log := logger.ComponentLogger("typegen.export")
	var roots []Root
	seen := make(map[string]bool)

	for _, item := range file.Items {
		impl, ok := item.(*syntax.Impl)
		if !ok || impl.Trait == nil {
			continue
		}
		seg := impl.Trait.LastSegment()
		if seg == nil || seg.Name == "" {
			return nil, located(errors.WithHint(
				errors.Wrapf(errors.ErrMalformedExportPath, "impl for %s", typeText(impl.SelfType)),
				"the trait must be named by a path such as "+marker+" or crate::"+marker), file.Name, impl.Pos)
		}
		if seg.Name != marker {
			continue
		}

		self := typeText(impl.SelfType)
		if impl.Negative {
			log.Debugw("Skipping negative marker impl", logger.FieldType, self, logger.FieldLine, impl.Pos.Line)
			continue
		}
		name, ok := selfName(impl.SelfType)
		if !ok {
			log.Debugw("Skipping marker impl for a generic or qualified type",
				logger.FieldType, self,
				logger.FieldLine, impl.Pos.Line)
			continue
		}
		if seen[name] {
			log.Debugw("Skipping repeated export", logger.FieldType, name, logger.FieldLine, impl.Pos.Line)
			continue
		}
		seen[name] = true
		roots = append(roots, Root{Name: name, Pos: impl.Pos})
	}

	log.Debugw("Discovered export roots",
		logger.FieldFile, file.Name,
		logger.FieldMarker, marker,
		logger.FieldRoots, len(roots))
	return roots, nil
}

func selfName(t syntax.Type) (string, bool) {
	pt, ok := t.(*syntax.PathType)
	if !ok || pt.QSelf != nil {
		return "", false
	}
	return pt.Path.Ident()
}

func typeText(t syntax.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Resolve looks every root up in the record table, then the union table.
// A root found in neither aborts with errors.ErrUnresolvedExport.
func Resolve(tables *Tables, roots []Root, file string) (ExportSet, error) {
	var set ExportSet
	for _, root := range roots {
		if rec, ok := tables.Record(root.Name); ok {
			set.Records = append(set.Records, rec)
			continue
		}
		if union, ok := tables.Union(root.Name); ok {
			set.Unions = append(set.Unions, union)
			continue
		}
		return ExportSet{}, located(errors.WithHint(
			errors.Wrapf(errors.ErrUnresolvedExport, "%s", root.Name),
			"declare struct or enum "+root.Name+" in the same file, or remove the marker impl"), file, root.Pos)
	}
	return set, nil
}

// DanglingRefs lists named references from exported declarations to names
// that are not exported, each (From, Name) pair once.
func DanglingRefs(set ExportSet) []DanglingRef {
	exported := make(map[string]bool, set.Len())
	for _, r := range set.Records {
		exported[r.Name.String()] = true
	}
	for _, u := range set.Unions {
		exported[u.Name.String()] = true
	}

	var refs []DanglingRef
	seen := make(map[DanglingRef]bool)
	add := func(from string, t TargetType) {
		for _, name := range References(t) {
			ref := DanglingRef{From: from, Name: name}
			if exported[name] || seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	for _, r := range set.Records {
		for _, f := range r.Fields {
			add(r.Name.String(), f.Type)
		}
	}
	for _, u := range set.Unions {
		for _, v := range u.Variants {
			for _, t := range v.Fields {
				add(u.Name.String(), t)
			}
		}
	}
	return refs
}
