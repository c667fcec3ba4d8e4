package shape

import (
	"reflect"
	"strconv"
	"sync"
)

var (
	cacheMu sync.RWMutex
	cache   = map[reflect.Type]*Shape{}
)

var (
	optionSlotType = reflect.TypeOf((*optionSlot)(nil)).Elem()
	defaulterType  = reflect.TypeOf((*Defaulter)(nil)).Elem()
)

// Of returns the shape of T.
func Of[T any]() *Shape { return For(reflect.TypeOf((*T)(nil)).Elem()) }

// For returns the cached shape of t, deriving it on first use. Recursive
// types resolve to the same *Shape.
func For(t reflect.Type) *Shape {
	cacheMu.RLock()
	s, ok := cache[t]
	cacheMu.RUnlock()
	if ok {
		return s
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	return build(t)
}

func resetCache() {
	cacheMu.Lock()
	cache = map[reflect.Type]*Shape{}
	cacheMu.Unlock()
}

// IsDefaulter reports whether *t implements Defaulter.
func IsDefaulter(t reflect.Type) bool {
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(defaulterType)
}

// build must be called with cacheMu held.
func build(t reflect.Type) *Shape {
	if s, ok := cache[t]; ok {
		return s
	}
	s := &Shape{Type: t}
	cache[t] = s

	if hook := parseHookFor(t); hook != nil {
		s.Category, s.Primitive, s.Parse = Scalar, Other, hook
		return s
	}

	switch t.Kind() {
	case reflect.Bool:
		s.Category, s.Primitive, s.Width = Scalar, Bool, 1
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s.Category, s.Primitive, s.Width = Scalar, Signed, int(t.Size())
		s.PointerSized = t.Kind() == reflect.Int
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		s.Category, s.Primitive, s.Width = Scalar, Unsigned, int(t.Size())
		s.PointerSized = t.Kind() == reflect.Uint || t.Kind() == reflect.Uintptr
	case reflect.Float32, reflect.Float64:
		s.Category, s.Primitive, s.Width = Scalar, Float, int(t.Size())
	case reflect.String:
		s.Category, s.Primitive = Scalar, String
	case reflect.Slice:
		s.Category = List
		s.Elem = build(t.Elem())
	case reflect.Map:
		key := build(t.Key())
		if key.Category != Scalar || (key.Primitive != String && key.Primitive != Other) {
			break
		}
		s.Category = Map
		s.Key = key
		s.Elem = build(t.Elem())
	case reflect.Pointer:
		s.Category = Pointer
		s.Elem = build(t.Elem())
	case reflect.Struct:
		if isOption(t) {
			s.Category = Optional
			s.Elem = build(t.Field(0).Type)
			return s
		}
		buildStruct(s, t)
	}
	return s
}

// isOption excludes structs that merely embed an Option and so inherit its
// marker method.
func isOption(t reflect.Type) bool {
	return t.Implements(optionSlotType) && t.NumField() == 2 &&
		t.Field(0).Name == "Value" && t.Field(1).Name == "Valid" && !t.Field(0).Anonymous
}

func buildStruct(s *Shape, t reflect.Type) {
	s.Category = Struct
	s.byName = make(map[string]int, t.NumField())
	transparent := -1
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		ft := parseFieldTag(sf)
		if ft.skip {
			continue
		}
		f := Field{Name: ft.name, Index: i, Shape: build(sf.Type)}
		if ft.hasDefault {
			f.Flags |= HasDefault
		}
		if lit, ok := sf.Tag.Lookup(DefaultTag); ok {
			f.Flags |= HasDefault | LiteralDefault
			f.Default = lit
		}
		if f.Shape.Category == Optional {
			f.Flags |= HasDefault
		}
		if ft.transparent {
			transparent = len(s.Fields)
		}
		if _, dup := s.byName[f.Name]; dup {
			// first declaration wins, like encoding/json's dominant field
			continue
		}
		s.byName[f.Name] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}
	if transparent >= 0 && len(s.Fields) == 1 {
		s.Transparent = true
		s.Elem = s.Fields[0].Shape
	}
}

// Describe renders a one-line summary of s for diagnostics.
func (s *Shape) Describe() string {
	switch s.Category {
	case Scalar:
		if s.IsNumeric() {
			return s.Primitive.String() + " (" + strconv.Itoa(s.Width*8) + "-bit " + s.Type.String() + ")"
		}
		return s.Primitive.String() + " (" + s.Type.String() + ")"
	case Unsupported:
		return "unsupported " + s.Type.String()
	default:
		return s.Category.String() + " " + s.Type.String()
	}
}
