package typegen

// TargetType is the closed set of types a field can have in generated code:
// Int, String, List of a TargetType, or a reference to another declaration by
// name. Generators render each case with a type switch.
type TargetType interface {
	String() string
	targetType()
}

// IntType covers every Rust integer width.
type IntType struct{}

// StringType is Rust's String.
type StringType struct{}

// ListType is Vec<Elem>.
type ListType struct {
	Elem TargetType
}

// NamedType references a record or union by name. The referent is not
// required to be exported; the name is emitted as-is.
type NamedType struct {
	Name Identifier
}

var (
	Int    TargetType = IntType{}
	String TargetType = StringType{}
)

// List builds a ListType.
func List(elem TargetType) TargetType {
	return ListType{Elem: elem}
}

// Named builds a NamedType.
func Named(name string) TargetType {
	return NamedType{Name: NewIdentifier(name)}
}

func (IntType) String() string    { return "Int" }
func (StringType) String() string { return "String" }
func (t ListType) String() string { return "List(" + t.Elem.String() + ")" }
func (t NamedType) String() string {
	return "Named(" + t.Name.String() + ")"
}

func (IntType) targetType()    {}
func (StringType) targetType() {}
func (ListType) targetType()   {}
func (NamedType) targetType()  {}

// References walks t and returns every name it refers to, in order.
func References(t TargetType) []string {
	switch t := t.(type) {
	case ListType:
		return References(t.Elem)
	case NamedType:
		return []string{t.Name.String()}
	}
	return nil
}
