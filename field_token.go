package shapeyaml

import (
	"reflect"
	"strings"

	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/shape"
)

// FieldNameOf returns the key name for a top-level field of S selected by selector.
// Example: FieldNameOf[Server](func(s *Server) *int { return &s.Port }) -> "port".
func FieldNameOf[S any, F any](selector func(*S) *F) string {
	if selector == nil {
		panic("shapeyaml.FieldNameOf: selector must not be nil")
	}
	var zero S
	fp := reflect.ValueOf(selector(&zero)).Pointer()
	rv := reflect.ValueOf(&zero).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if fv.CanAddr() && fv.Addr().Pointer() == fp {
			name := shape.ResolveStructKey(sf)
			if name == "" || name == "-" {
				panic("shapeyaml.FieldNameOf: selected field is not exported or disabled")
			}
			return name
		}
	}
	panic("shapeyaml.FieldNameOf: selector must return address of a top-level field")
}

// PathOf returns the JSON Pointer of a nested field of S, e.g.:
//
//	PathOf[Config](func(c *Config) *int { return &c.Server.Port }) -> "/server/port"
//
// Only struct fields (non-pointer) are descended.
func PathOf[S any, F any](selector func(*S) *F) string {
	if selector == nil {
		panic("shapeyaml.PathOf: selector must not be nil")
	}
	var zero S
	target := reflect.ValueOf(selector(&zero)).Pointer()
	keys, ok := findPathKeys(reflect.ValueOf(&zero).Elem(), target, reflect.TypeFor[F](), 0)
	if !ok || len(keys) == 0 {
		panic("shapeyaml.PathOf: selector must address a nested struct field (non-pointer)")
	}
	return "/" + strings.Join(keys, "/")
}

const _maxPathDepth = 32

// findPathKeys matches on address and type: a struct and its first field
// share an address.
func findPathKeys(v reflect.Value, target uintptr, ft reflect.Type, depth int) ([]string, bool) {
	if depth > _maxPathDepth {
		return nil, false
	}
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := shape.ResolveStructKey(sf)
		if name == "" || name == "-" {
			continue
		}
		fv := v.Field(i)
		if fv.CanAddr() && fv.Addr().Pointer() == target && fv.Type() == ft {
			return []string{issue.EscapeToken(name)}, true
		}
		if fv.Kind() == reflect.Struct {
			if rest, ok := findPathKeys(fv, target, ft, depth+1); ok {
				return append([]string{issue.EscapeToken(name)}, rest...), true
			}
		}
	}
	return nil, false
}

// PresenceOf returns the presence flags of the top-level field of T selected
// by selector.
func PresenceOf[T any, F any](d Decoded[T], selector func(*T) *F) Presence {
	if d.Presence == nil {
		return 0
	}
	return d.Presence["/"+issue.EscapeToken(FieldNameOf(selector))]
}
