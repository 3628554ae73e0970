// Package tree reads and writes parsed declaration trees as YAML or JSON
// documents, so any external parser can feed the generator:
//
//	items:
//	  - struct: {name: Person, fields: [{name: age, type: u32}, {name: surname, type: String}]}
//	  - enum: {name: Shape, variants: [{name: Circle, fields: [{type: u32}]}, {name: Empty}]}
//	  - impl: {trait: ElmExport, self: Person}
//	  - other: {kind: fn, name: main}
//
// Field and self types are written as Rust type text and parsed with the
// rustsrc type grammar.
package tree

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/teranos/elmgen/errors"
	"github.com/teranos/elmgen/syntax"
	"github.com/teranos/elmgen/syntax/rustsrc"
)

// Document is the top-level tree document.
type Document struct {
	Items []ItemDoc `yaml:"items"`
}

// ItemDoc holds exactly one item kind.
type ItemDoc struct {
	Struct *StructDoc `yaml:"struct,omitempty"`
	Enum   *EnumDoc   `yaml:"enum,omitempty"`
	Impl   *ImplDoc   `yaml:"impl,omitempty"`
	Other  *OtherDoc  `yaml:"other,omitempty"`

	pos syntax.Pos
}

// StructDoc is a struct. Kind defaults to "named".
type StructDoc struct {
	Name     string     `yaml:"name"`
	Generics []string   `yaml:"generics,omitempty"`
	Kind     string     `yaml:"kind,omitempty"`
	Fields   []FieldDoc `yaml:"fields,omitempty"`
}

// EnumDoc is an enum.
type EnumDoc struct {
	Name     string       `yaml:"name"`
	Generics []string     `yaml:"generics,omitempty"`
	Variants []VariantDoc `yaml:"variants"`
}

// VariantDoc is an enum variant. Kind defaults to "unnamed" when fields are
// present and "unit" otherwise.
type VariantDoc struct {
	Name   string     `yaml:"name"`
	Kind   string     `yaml:"kind,omitempty"`
	Fields []FieldDoc `yaml:"fields,omitempty"`

	pos syntax.Pos
}

// FieldDoc is a named or positional field.
type FieldDoc struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`

	pos syntax.Pos
}

// ImplDoc is an impl header. An empty Trait is an inherent impl.
type ImplDoc struct {
	Generics []string `yaml:"generics,omitempty"`
	Negative bool     `yaml:"negative,omitempty"`
	Trait    string   `yaml:"trait,omitempty"`
	Self     string   `yaml:"self"`
}

// OtherDoc is any item the generator ignores.
type OtherDoc struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name,omitempty"`
}

func nodePos(n *yaml.Node) syntax.Pos {
	return syntax.Pos{Line: n.Line, Column: n.Column}
}

func (d *ItemDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain ItemDoc
	if err := n.Decode((*plain)(d)); err != nil {
		return err
	}
	d.pos = nodePos(n)
	return nil
}

func (d *VariantDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain VariantDoc
	if err := n.Decode((*plain)(d)); err != nil {
		return err
	}
	d.pos = nodePos(n)
	return nil
}

func (d *FieldDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain FieldDoc
	if err := n.Decode((*plain)(d)); err != nil {
		return err
	}
	d.pos = nodePos(n)
	return nil
}

// Decode reads a YAML or JSON tree document. Every failure wraps
// errors.ErrParse.
func Decode(name string, data []byte) (*syntax.File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrParse), "decode tree document %s", name)
	}

	file := &syntax.File{Name: name}
	for i, item := range doc.Items {
		it, err := item.toItem()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: item %d (%s)", name, i, item.pos)
		}
		file.Items = append(file.Items, it)
	}
	return file, nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrParse)
}

func (d *ItemDoc) toItem() (syntax.Item, error) {
	set := 0
	for _, present := range []bool{d.Struct != nil, d.Enum != nil, d.Impl != nil, d.Other != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, invalid("an item needs exactly one of struct, enum, impl or other, found %d", set)
	}

	switch {
	case d.Struct != nil:
		kind, err := parseKind(d.Struct.Kind, syntax.FieldsNamed)
		if err != nil {
			return nil, err
		}
		fields, err := toFields(kind, d.Struct.Fields)
		if err != nil {
			return nil, errors.Wrapf(err, "struct %s", d.Struct.Name)
		}
		return &syntax.Struct{Name: d.Struct.Name, Generics: d.Struct.Generics, Fields: fields, Pos: d.pos}, nil

	case d.Enum != nil:
		e := &syntax.Enum{Name: d.Enum.Name, Generics: d.Enum.Generics, Pos: d.pos}
		for _, v := range d.Enum.Variants {
			def := syntax.FieldsUnit
			if len(v.Fields) > 0 {
				def = syntax.FieldsUnnamed
			}
			kind, err := parseKind(v.Kind, def)
			if err != nil {
				return nil, err
			}
			fields, err := toFields(kind, v.Fields)
			if err != nil {
				return nil, errors.Wrapf(err, "variant %s::%s", d.Enum.Name, v.Name)
			}
			e.Variants = append(e.Variants, syntax.Variant{Name: v.Name, Fields: fields, Pos: v.pos})
		}
		return e, nil

	case d.Impl != nil:
		impl := &syntax.Impl{Generics: d.Impl.Generics, Negative: d.Impl.Negative, Pos: d.pos}
		if d.Impl.Trait != "" {
			trait, err := rustsrc.ParsePath(d.Impl.Trait)
			if err != nil {
				return nil, errors.Wrapf(err, "impl trait %q", d.Impl.Trait)
			}
			impl.Trait = trait
		}
		self, err := rustsrc.ParseType(d.Impl.Self)
		if err != nil {
			return nil, errors.Wrapf(err, "impl self type %q", d.Impl.Self)
		}
		impl.SelfType = self
		return impl, nil
	}

	return &syntax.OtherItem{Kind: d.Other.Kind, Name: d.Other.Name, Pos: d.pos}, nil
}

func parseKind(s string, def syntax.FieldsKind) (syntax.FieldsKind, error) {
	switch s {
	case "":
		return def, nil
	case "named":
		return syntax.FieldsNamed, nil
	case "unnamed":
		return syntax.FieldsUnnamed, nil
	case "unit":
		return syntax.FieldsUnit, nil
	}
	return 0, invalid("unknown fields kind %q (want named, unnamed or unit)", s)
}

func toFields(kind syntax.FieldsKind, docs []FieldDoc) (syntax.Fields, error) {
	fields := syntax.Fields{Kind: kind}
	if kind == syntax.FieldsUnit && len(docs) > 0 {
		return fields, invalid("unit fields cannot list %d fields", len(docs))
	}
	for _, fd := range docs {
		if kind == syntax.FieldsNamed && fd.Name == "" {
			return fields, invalid("%s: named field without a name", fd.pos)
		}
		if kind == syntax.FieldsUnnamed && fd.Name != "" {
			return fields, invalid("%s: positional field %q has a name", fd.pos, fd.Name)
		}
		typ, err := rustsrc.ParseType(fd.Type)
		if err != nil {
			return fields, errors.Wrapf(err, "%s: field type %q", fd.pos, fd.Type)
		}
		fields.List = append(fields.List, syntax.Field{Name: fd.Name, Type: typ, Pos: fd.pos})
	}
	return fields, nil
}

// FromFile converts a parsed file into its document form.
func FromFile(file *syntax.File) *Document {
	doc := &Document{Items: []ItemDoc{}}
	for _, item := range file.Items {
		switch it := item.(type) {
		case *syntax.Struct:
			doc.Items = append(doc.Items, ItemDoc{Struct: &StructDoc{
				Name:     it.Name,
				Generics: it.Generics,
				Kind:     structKind(it.Fields.Kind),
				Fields:   fromFields(it.Fields),
			}})
		case *syntax.Enum:
			e := &EnumDoc{Name: it.Name, Generics: it.Generics, Variants: []VariantDoc{}}
			for _, v := range it.Variants {
				e.Variants = append(e.Variants, VariantDoc{
					Name:   v.Name,
					Kind:   variantKind(v.Fields),
					Fields: fromFields(v.Fields),
				})
			}
			doc.Items = append(doc.Items, ItemDoc{Enum: e})
		case *syntax.Impl:
			impl := &ImplDoc{Generics: it.Generics, Negative: it.Negative}
			if it.Trait != nil {
				impl.Trait = it.Trait.String()
			}
			if it.SelfType != nil {
				impl.Self = it.SelfType.String()
			}
			doc.Items = append(doc.Items, ItemDoc{Impl: impl})
		case *syntax.OtherItem:
			doc.Items = append(doc.Items, ItemDoc{Other: &OtherDoc{Kind: it.Kind, Name: it.Name}})
		}
	}
	return doc
}

// only non-default kinds are written
func structKind(k syntax.FieldsKind) string {
	if k == syntax.FieldsNamed {
		return ""
	}
	return k.String()
}

func variantKind(f syntax.Fields) string {
	switch {
	case f.Kind == syntax.FieldsUnit, f.Kind == syntax.FieldsUnnamed && len(f.List) > 0:
		return ""
	}
	return f.Kind.String()
}

func fromFields(f syntax.Fields) []FieldDoc {
	var docs []FieldDoc
	for _, field := range f.List {
		docs = append(docs, FieldDoc{Name: field.Name, Type: field.Type.String()})
	}
	return docs
}

// Encode writes file as a YAML tree document.
func Encode(w io.Writer, file *syntax.File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromFile(file)); err != nil {
		return errors.Wrap(err, "encode tree document")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "encode tree document")
	}
	return nil
}

// String renders file as a YAML tree document.
func String(file *syntax.File) string {
	var buf bytes.Buffer
	if err := Encode(&buf, file); err != nil {
		return fmt.Sprintf("# %v\n", err)
	}
	return buf.String()
}
