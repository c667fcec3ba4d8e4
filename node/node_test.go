package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindName(t *testing.T) {
	assert.Equal(t, "null", KindName(nil))
	assert.Equal(t, "mapping", KindName(NewMapping()))
	assert.Equal(t, "real number", KindName(NewReal("1.5")))
	assert.Equal(t, "bad value", Malformed.String())
}

func TestAsString(t *testing.T) {
	s, ok := NewString("x").AsString()
	require.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = NewInt(1).AsString()
	assert.False(t, ok)

	var n *Node
	_, ok = n.AsString()
	assert.False(t, ok)
	assert.True(t, n.IsNull())
}

func TestNewMappingPreservesOrder(t *testing.T) {
	m := NewMapping(NewString("b"), NewInt(2), NewString("a"), NewInt(1))
	require.Equal(t, 2, m.Len())
	k0, _ := m.Pairs[0].Key.AsString()
	k1, _ := m.Pairs[1].Key.AsString()
	assert.Equal(t, []string{"b", "a"}, []string{k0, k1})
	assert.Equal(t, 0, NewString("s").Len())
}

func TestIntOrReal(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		i    int64
		text string
	}{
		{"42", Int, 42, ""},
		{"-7", Int, -7, ""},
		{"0x1F", Int, 31, ""},
		{"0o17", Int, 15, ""},
		{"1_000", Int, 1000, ""},
		{"18446744073709551615", Real, 0, "18446744073709551615"},
		{"99999999999999999999999", Malformed, 0, "99999999999999999999999"},
		{"abc", Malformed, 0, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n := IntOrReal(tt.in)
			require.Equal(t, tt.kind, n.Kind)
			assert.Equal(t, tt.i, n.Int)
			assert.Equal(t, tt.text, n.Text)
		})
	}
}

func TestBoolLiteral(t *testing.T) {
	for _, s := range []string{"true", "True", "TRUE"} {
		b, ok := BoolLiteral(s)
		assert.True(t, ok, s)
		assert.True(t, b, s)
	}
	b, ok := BoolLiteral("False")
	assert.True(t, ok)
	assert.False(t, b)
	_, ok = BoolLiteral("yes")
	assert.False(t, ok)
}
