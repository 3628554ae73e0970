package typegen

import (
	"fmt"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/logger"
	"github.com/teranos/elmgen/syntax"
)

// Tables are the record and union declarations of one file, keyed by name.
// They are read-only once Extract returns.
type Tables struct {
	records     map[string]RecordDecl
	unions      map[string]UnionDecl
	recordOrder []string
	unionOrder  []string
}

// Record looks up a record by name.
func (t *Tables) Record(name string) (RecordDecl, bool) {
	r, ok := t.records[name]
	return r, ok
}

// Union looks up a union by name.
func (t *Tables) Union(name string) (UnionDecl, bool) {
	u, ok := t.unions[name]
	return u, ok
}

// Has reports whether name is declared as a record or a union.
func (t *Tables) Has(name string) bool {
	_, isRecord := t.records[name]
	_, isUnion := t.unions[name]
	return isRecord || isUnion
}

// RecordNames returns record names in declaration order.
func (t *Tables) RecordNames() []string {
	return append([]string(nil), t.recordOrder...)
}

// UnionNames returns union names in declaration order.
func (t *Tables) UnionNames() []string {
	return append([]string(nil), t.unionOrder...)
}

// Extract builds the declaration tables from every struct and enum in file.
// The first unsupported declaration or field type aborts extraction.
func Extract(file *syntax.File) (*Tables, error) {
	log := logger.ComponentLogger("typegen.extract")
	tables := &Tables{
		records: make(map[string]RecordDecl),
		unions:  make(map[string]UnionDecl),
	}

	for _, item := range file.Items {
		switch it := item.(type) {
		case *syntax.Struct:
			rec, err := extractRecord(it)
			if err != nil {
				return nil, located(err, file.Name, it.Pos)
			}
			if _, seen := tables.records[rec.Name.String()]; !seen {
				tables.recordOrder = append(tables.recordOrder, rec.Name.String())
			}
			tables.records[rec.Name.String()] = rec
			log.Debugw("Extracted record", logger.FieldType, it.Name, logger.FieldCount, len(rec.Fields))

		case *syntax.Enum:
			union, err := extractUnion(it)
			if err != nil {
				return nil, located(err, file.Name, it.Pos)
			}
			if _, seen := tables.unions[union.Name.String()]; !seen {
				tables.unionOrder = append(tables.unionOrder, union.Name.String())
			}
			tables.unions[union.Name.String()] = union
			log.Debugw("Extracted union", logger.FieldType, it.Name, logger.FieldCount, len(union.Variants))
		}
	}

	log.Debugw("Extraction complete",
		logger.FieldFile, file.Name,
		logger.FieldRecords, len(tables.recordOrder),
		logger.FieldUnions, len(tables.unionOrder))
	return tables, nil
}

func extractRecord(s *syntax.Struct) (RecordDecl, error) {
	if len(s.Generics) > 0 {
		return RecordDecl{}, genericShape("struct", s.Name, s.Generics)
	}
	if s.Fields.Kind != syntax.FieldsNamed || len(s.Fields.List) == 0 {
		return RecordDecl{}, errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedShape, "struct %s has %s fields: unnamed/unit structs unsupported", s.Name, fieldsShape(s.Fields)),
			"give the struct at least one named field")
	}

	rec := RecordDecl{Name: NewIdentifier(s.Name), Pos: s.Pos}
	// Elm field name -> Rust field it came from
	seen := make(map[string]string, len(s.Fields.List))
	for _, f := range s.Fields.List {
		t, err := ResolveType(f.Type)
		if err != nil {
			return RecordDecl{}, errors.Wrapf(err, "field %q of %s", f.Name, s.Name)
		}
		name := NewIdentifier(f.Name)
		if prev, ok := seen[name.FieldName()]; ok {
			return RecordDecl{}, errors.WithHint(
				errors.Wrapf(errors.ErrUnsupportedShape, "fields %q and %q of %s both become Elm field %s", prev, f.Name, s.Name, name.FieldName()),
				"rename one of the fields")
		}
		seen[name.FieldName()] = f.Name
		rec.Fields = append(rec.Fields, Field{Name: name, Type: t})
	}
	return rec, nil
}

func extractUnion(e *syntax.Enum) (UnionDecl, error) {
	if len(e.Generics) > 0 {
		return UnionDecl{}, genericShape("enum", e.Name, e.Generics)
	}
	if len(e.Variants) == 0 {
		return UnionDecl{}, errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedShape, "enum %s has no variants", e.Name),
			"an Elm custom type needs at least one constructor")
	}

	union := UnionDecl{Name: NewIdentifier(e.Name), Pos: e.Pos}
	for _, v := range e.Variants {
		if v.Fields.Kind == syntax.FieldsNamed {
			return UnionDecl{}, errors.WithHint(
				errors.Wrapf(errors.ErrUnsupportedShape, "variant %s::%s has named fields", e.Name, v.Name),
				"use positional fields, or move the fields into a struct and wrap it: "+v.Name+"("+v.Name+"Data)")
		}
		variant := VariantDecl{Name: NewIdentifier(v.Name)}
		for i, f := range v.Fields.List {
			t, err := ResolveType(f.Type)
			if err != nil {
				return UnionDecl{}, errors.Wrapf(err, "field %d of variant %s::%s", i, e.Name, v.Name)
			}
			variant.Fields = append(variant.Fields, t)
		}
		union.Variants = append(union.Variants, variant)
	}
	return union, nil
}

func genericShape(kind, name string, params []string) error {
	return errors.WithHint(
		errors.Wrapf(errors.ErrUnsupportedShape, "%s %s has generic parameters %v", kind, name, params),
		"generic declarations cannot be exported; declare a concrete type instead")
}

func fieldsShape(f syntax.Fields) string {
	if f.Kind == syntax.FieldsNamed {
		return "no"
	}
	return f.Kind.String()
}

// located prefixes err with the source position of the declaration.
func located(err error, file string, pos syntax.Pos) error {
	if !pos.IsValid() {
		if file == "" {
			return err
		}
		return errors.WithMessage(err, file)
	}
	loc := fmt.Sprintf("%s:%s", file, pos)
	if file == "" {
		loc = pos.String()
	}
	return errors.WithMessage(err, loc)
}
