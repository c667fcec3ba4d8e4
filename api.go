package shapeyaml

import (
	"fmt"
	"io"
	"reflect"

	"github.com/reoring/shapeyaml/codec"
	"github.com/reoring/shapeyaml/internal/engine"
	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/internal/partial"
	"github.com/reoring/shapeyaml/shape"
)

func init() { codec.RegisterDefaults() }

// Option is an optional value: a null or absent key leaves it unset.
type Option[T any] = shape.Option[T]

// Some returns a present Option.
func Some[T any](v T) Option[T] { return shape.Some(v) }

// None returns an absent Option.
func None[T any]() Option[T] { return shape.None[T]() }

// FromStr decodes text, which must hold exactly one document, into a T.
func FromStr[T any](text string, opts ...ParseOpt) (T, error) {
	return FromBytes[T]([]byte(text), opts...)
}

// FromBytes decodes data, which must hold exactly one document, into a T.
func FromBytes[T any](data []byte, opts ...ParseOpt) (T, error) {
	var zero T
	v, _, err := decode(data, shape.Of[T](), resolveOpt(opts), false)
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// FromReader reads r to the end and decodes it into a T. When MaxBytes is set
// at most MaxBytes+1 bytes are read.
func FromReader[T any](r io.Reader, opts ...ParseOpt) (T, error) {
	var zero T
	opt := resolveOpt(opts)
	data, err := readAll(r, opt.MaxBytes)
	if err != nil {
		return zero, err
	}
	return FromBytes[T](data, opt)
}

// FromStrWithMeta decodes text into a T and returns the warnings raised on the
// way. With Presence.Collect set it also reports which paths were present,
// null or defaulted.
func FromStrWithMeta[T any](text string, opts ...ParseOpt) (Decoded[T], error) {
	opt := resolveOpt(opts)
	v, meta, err := decode([]byte(text), shape.Of[T](), opt, opt.Presence.Collect)
	if err != nil {
		return Decoded[T]{}, err
	}
	return Decoded[T]{
		Value:    v.Interface().(T),
		Presence: applyPresenceOptions(meta.Presence, opt.Presence, opt.PathRender),
		Warnings: warningsToIssues(meta.Warnings),
	}, nil
}

// Unmarshal decodes data into the value v points to. The shape is taken from
// the dynamic type of v, which must be a non-nil pointer.
func Unmarshal(data []byte, v any, opts ...ParseOpt) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return ErrNilTarget
	}
	if rv.Kind() != reflect.Pointer {
		return fmt.Errorf("%w, got %s", ErrNotPointer, rv.Type())
	}
	if rv.IsNil() {
		return ErrNilTarget
	}
	out, _, err := decode(data, shape.For(rv.Type().Elem()), resolveOpt(opts), false)
	if err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}

// DecodeShape decodes data against an explicit shape descriptor and returns
// the built value, whose type is s.Type.
func DecodeShape(data []byte, s *shape.Shape, opts ...ParseOpt) (reflect.Value, error) {
	if s == nil {
		return reflect.Value{}, ErrNilTarget
	}
	v, _, err := decode(data, s, resolveOpt(opts), false)
	return v, err
}

func decode(data []byte, s *shape.Shape, opt ParseOpt, withPresence bool) (reflect.Value, engine.Meta, error) {
	root, err := loadRoot(data, opt)
	if err != nil {
		return reflect.Value{}, engine.Meta{}, toIssues(err)
	}
	p := partial.New(s)
	meta, err := engine.Run(p, root, opt.engineOptions(withPresence))
	if err != nil {
		return reflect.Value{}, meta, toIssues(err)
	}
	v, err := p.Build()
	if err != nil {
		return reflect.Value{}, meta, toIssues(err)
	}
	return v, meta, nil
}

func readAll(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, toIssues(issue.New(issue.CodeTruncated, "input exceeds limit of %d bytes", maxBytes).
			With("max", maxBytes))
	}
	return data, nil
}
