package shape

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
)

var (
	parsersMu sync.RWMutex
	parsers   = map[reflect.Type]ParseFunc{}
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// RegisterParser installs a string parse hook for T. Values of T are then
// decoded from string nodes through fn instead of by their underlying kind.
// Registration resets the shape cache.
func RegisterParser[T any](fn func(string) (T, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	parsersMu.Lock()
	parsers[t] = func(s string) (reflect.Value, error) {
		v, err := fn(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(&v).Elem(), nil
	}
	parsersMu.Unlock()
	resetCache()
}

// UnregisterParser removes a hook installed with RegisterParser.
func UnregisterParser[T any]() {
	t := reflect.TypeOf((*T)(nil)).Elem()
	parsersMu.Lock()
	delete(parsers, t)
	parsersMu.Unlock()
	resetCache()
}

// parseHookFor returns the parse hook of t: a registered parser first, then
// encoding.TextUnmarshaler on *t.
func parseHookFor(t reflect.Type) ParseFunc {
	parsersMu.RLock()
	fn, ok := parsers[t]
	parsersMu.RUnlock()
	if ok {
		return fn
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(s string) (reflect.Value, error) {
			pv := reflect.New(t)
			if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return reflect.Value{}, fmt.Errorf("%s: %w", t, err)
			}
			return pv.Elem(), nil
		}
	}
	return nil
}
