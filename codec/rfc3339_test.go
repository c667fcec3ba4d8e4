package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime_Forms(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01T00:00:00Z", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-01-01T00:00:00.5Z", time.Date(2025, 1, 1, 0, 0, 0, 500_000_000, time.UTC)},
		{"2001-12-14 21:59:43.10", time.Date(2001, 12, 14, 21, 59, 43, 100_000_000, time.UTC)},
		{"2002-12-14", time.Date(2002, 12, 14, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "%s: got %v", tc.in, got)
	}
}

func TestParseTime_Invalid(t *testing.T) {
	_, err := ParseTime("yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid RFC3339 time")
}

func TestFormatTime_Roundtrip(t *testing.T) {
	in := "2025-01-01T00:00:00Z"
	got, err := ParseTime(in)
	require.NoError(t, err)
	assert.Equal(t, in, FormatTime(got))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("1h30m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = ParseDuration("1500")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Nanosecond, d)

	_, err = ParseDuration("soon")
	assert.Error(t, err)
}
