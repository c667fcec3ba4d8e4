package node

import (
	"strconv"
	"strings"
)

// IntOrReal resolves integer literal text. Values that fit int64 become Int
// nodes; integral text beyond int64 (large unsigned values) becomes a Real
// node carrying normalized decimal digits so unsigned targets can still read
// it. Text that is not an integer literal yields a Malformed node.
func IntOrReal(text string) *Node {
	clean := strings.ReplaceAll(text, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return NewInt(i)
	}
	if u, err := strconv.ParseUint(strings.TrimPrefix(clean, "+"), 0, 64); err == nil {
		return NewReal(strconv.FormatUint(u, 10))
	}
	return &Node{Kind: Malformed, Text: text}
}

// BoolLiteral resolves the YAML core schema boolean spellings.
func BoolLiteral(text string) (bool, bool) {
	switch text {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}
