package shape

// Option is an optional value. A null source leaves it absent (Valid false);
// any other source decodes into Value and sets Valid.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Option holding v.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the payload and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.Value, o.Valid }

// OrElse returns the payload, or def when absent.
func (o Option[T]) OrElse(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

func (Option[T]) optionSlot() {}

type optionSlot interface{ optionSlot() }

// Defaulter is implemented by types that fill in their own defaults when a
// field of that type is defaulted.
type Defaulter interface {
	SetDefaults()
}
