// Package coerce maps source scalars onto target primitives.
//
// Every conversion is a pure function of the target (width, signedness) and
// the source node's kind and payload. The tables below hold one rule per
// source kind; a kind without a rule is a type mismatch.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
)

// Target identifies a numeric primitive.
type Target struct {
	Width        int // bytes: 1, 2, 4, 8 or 16
	PointerSized bool
}

type rule[T any] func(n *node.Node) (T, error)

var unsignedTable = map[node.Kind]rule[uint64]{
	node.Real: func(n *node.Node) (uint64, error) {
		return parseUint(n.Text, "real")
	},
	node.Int: func(n *node.Node) (uint64, error) {
		return uint64(n.Int), nil
	},
	node.String: func(n *node.Node) (uint64, error) {
		return parseUint(n.Text, "string")
	},
	node.Bool: func(n *node.Node) (uint64, error) {
		if n.Bool {
			return 1, nil
		}
		return 0, nil
	},
}

var signedTable = map[node.Kind]rule[int64]{
	node.Int: func(n *node.Node) (int64, error) {
		return n.Int, nil
	},
	node.Real: func(n *node.Node) (int64, error) {
		return parseInt(n.Text, "real")
	},
	node.String: func(n *node.Node) (int64, error) {
		return parseInt(n.Text, "string")
	},
	node.Bool: func(n *node.Node) (int64, error) {
		if n.Bool {
			return 1, nil
		}
		return 0, nil
	},
}

var floatTable = map[node.Kind]rule[float64]{
	node.Real: func(n *node.Node) (float64, error) {
		return parseFloat(n.Text, "real")
	},
	node.Int: func(n *node.Node) (float64, error) {
		return float64(n.Int), nil
	},
	node.String: func(n *node.Node) (float64, error) {
		return parseFloat(n.Text, "string")
	},
}

var boolTable = map[node.Kind]rule[bool]{
	node.Bool: func(n *node.Node) (bool, error) {
		return n.Bool, nil
	},
	node.Int: func(n *node.Node) (bool, error) {
		return n.Int != 0, nil
	},
	node.String: func(n *node.Node) (bool, error) {
		switch strings.ToLower(n.Text) {
		case "true", "yes", "1":
			return true, nil
		}
		return false, nil
	},
}

// Unsigned converts n to an unsigned integer that fits t.
func Unsigned(t Target, n *node.Node) (uint64, error) {
	r, ok := unsignedTable[kindOf(n)]
	if !ok {
		return 0, mismatch(n, "unsigned integer")
	}
	u, err := r(n)
	if err != nil {
		return 0, err
	}
	if !fitsUnsigned(u, t.Width) {
		return 0, outOfRange(strconv.FormatUint(u, 10), t, false)
	}
	return u, nil
}

// Signed converts n to a signed integer that fits t.
func Signed(t Target, n *node.Node) (int64, error) {
	r, ok := signedTable[kindOf(n)]
	if !ok {
		return 0, mismatch(n, "signed integer")
	}
	i, err := r(n)
	if err != nil {
		return 0, err
	}
	if !fitsSigned(i, t.Width) {
		return 0, outOfRange(strconv.FormatInt(i, 10), t, true)
	}
	return i, nil
}

// Float converts n to a float of the given width. Width 4 narrows to float32,
// so magnitudes beyond its range become infinities.
func Float(width int, n *node.Node) (float64, error) {
	r, ok := floatTable[kindOf(n)]
	if !ok {
		return 0, mismatch(n, "float")
	}
	f, err := r(n)
	if err != nil {
		return 0, err
	}
	if width == 4 {
		return float64(float32(f)), nil
	}
	return f, nil
}

// Bool converts n to a boolean.
func Bool(n *node.Node) (bool, error) {
	r, ok := boolTable[kindOf(n)]
	if !ok {
		return false, mismatch(n, "bool")
	}
	return r(n)
}

// TypeName names the Go type for a numeric target, for messages.
func TypeName(t Target, signed bool) string {
	prefix := "uint"
	if signed {
		prefix = "int"
	}
	if t.PointerSized {
		return prefix
	}
	return prefix + strconv.Itoa(t.Width*8)
}

func kindOf(n *node.Node) node.Kind {
	if n == nil {
		return node.Null
	}
	return n.Kind
}

func fitsUnsigned(u uint64, width int) bool {
	switch width {
	case 1:
		return u <= math.MaxUint8
	case 2:
		return u <= math.MaxUint16
	case 4:
		return u <= math.MaxUint32
	default:
		return true
	}
}

func fitsSigned(i int64, width int) bool {
	switch width {
	case 1:
		return i >= math.MinInt8 && i <= math.MaxInt8
	case 2:
		return i >= math.MinInt16 && i <= math.MaxInt16
	case 4:
		return i >= math.MinInt32 && i <= math.MaxInt32
	default:
		return true
	}
}

func mismatch(n *node.Node, target string) error {
	got := node.KindName(n)
	return issue.New(issue.CodeInvalidType, "cannot convert %s to %s", got, target).
		With("got", got).With("expected", target)
}

func outOfRange(value string, t Target, signed bool) error {
	name := TypeName(t, signed)
	return issue.New(issue.CodeOverflow, "value %s out of range for %s", value, name).
		With("value", value).With("width", t.Width).With("type", name)
}

func unparseable(text, from, target string, cause error) error {
	return issue.New(issue.CodeInvalidFmt, "cannot parse %s %q as %s", from, text, target).
		With("value", text).With("expected", target).Wrap(cause)
}

func parseUint(text, from string) (uint64, error) {
	u, err := strconv.ParseUint(strings.TrimPrefix(text, "+"), 10, 64)
	if err != nil {
		return 0, unparseable(text, from, "uint64", err)
	}
	return u, nil
}

func parseInt(text, from string) (int64, error) {
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, unparseable(text, from, "int64", err)
	}
	return i, nil
}

func parseFloat(text, from string) (float64, error) {
	switch strings.ToLower(text) {
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, unparseable(text, from, "float64", err)
	}
	return f, nil
}
