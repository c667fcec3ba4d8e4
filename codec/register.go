package codec

import (
	"sync"
	"time"

	"github.com/reoring/shapeyaml/shape"
)

var registerOnce sync.Once

// RegisterDefaults installs the built-in hooks for time.Time and
// time.Duration. It is safe to call more than once.
func RegisterDefaults() {
	registerOnce.Do(func() {
		shape.RegisterParser[time.Time](ParseTime)
		shape.RegisterParser[time.Duration](ParseDuration)
	})
}
