// Package shape derives runtime type descriptors from Go types.
//
// A Shape tells the decoder which category a target type belongs to, how wide
// its numeric primitive is, which struct fields it has and which of them may
// be defaulted. Shapes are computed once per reflect.Type and cached.
package shape

import (
	"reflect"
	"strconv"
)

// Category is the closed set of target shapes the decoder knows about.
type Category int

const (
	Unsupported Category = iota
	Struct
	Scalar
	List
	Map
	Optional
	Pointer
)

func (c Category) String() string {
	switch c {
	case Struct:
		return "struct"
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Map:
		return "map"
	case Optional:
		return "option"
	case Pointer:
		return "pointer"
	case Unsupported:
		return "unsupported"
	default:
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
}

// Primitive refines the Scalar category.
type Primitive int

const (
	NotPrimitive Primitive = iota
	Unsigned
	Signed
	Float
	Bool
	String
	// Other is a scalar read from a string through a parse hook.
	Other
)

func (p Primitive) String() string {
	switch p {
	case Unsigned:
		return "unsigned integer"
	case Signed:
		return "signed integer"
	case Float:
		return "float"
	case Bool:
		return "boolean"
	case String:
		return "string"
	case Other:
		return "custom scalar"
	default:
		return "none"
	}
}

// FieldFlags annotate struct fields.
type FieldFlags uint8

const (
	// HasDefault marks a field that may stay absent from the source.
	HasDefault FieldFlags = 1 << iota
	// LiteralDefault marks a field whose default is document text in Field.Default.
	LiteralDefault
)

// Field describes one decodable struct field.
type Field struct {
	Name    string // external key
	Index   int    // reflect struct field index
	Flags   FieldFlags
	Default string
	Shape   *Shape
}

// HasDefault reports whether the field may be filled without source data.
func (f Field) HasDefault() bool { return f.Flags&HasDefault != 0 }

// ParseFunc converts text into a value of the shape's type.
type ParseFunc func(text string) (reflect.Value, error)

// Shape is the runtime descriptor of a Go type.
type Shape struct {
	Type      reflect.Type
	Category  Category
	Primitive Primitive
	// Width is the byte width of numeric primitives.
	Width int
	// PointerSized distinguishes int/uint/uintptr from the fixed-width
	// 64-bit types of the same width.
	PointerSized bool
	// Transparent structs decode as their single inner field (Fields[0]).
	Transparent bool

	Fields []Field
	// Elem is the list item, map value, option payload, pointee or
	// transparent inner shape.
	Elem *Shape
	// Key is the map key shape.
	Key *Shape
	// Parse is set for Other scalars and text-keyed maps.
	Parse ParseFunc

	byName map[string]int
}

// String names the underlying Go type.
func (s *Shape) String() string {
	if s == nil || s.Type == nil {
		return "<nil shape>"
	}
	return s.Type.String()
}

// FieldIndex resolves an external key to a position in Fields.
func (s *Shape) FieldIndex(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// IsNumeric reports whether s is an integer or float scalar.
func (s *Shape) IsNumeric() bool {
	if s.Category != Scalar {
		return false
	}
	switch s.Primitive {
	case Unsigned, Signed, Float:
		return true
	}
	return false
}
