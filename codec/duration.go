package codec

import (
	"fmt"
	"strconv"
	"time"
)

// ParseDuration reads Go duration syntax ("1h30m", "250ms"). A bare integer
// is taken as nanoseconds, matching the integer encoding of time.Duration.
func ParseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n), nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}
