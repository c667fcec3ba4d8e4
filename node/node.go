// Package node defines the immutable source tree produced by parser drivers.
//
// A driver turns document text into one *Node per document. Nodes are built
// once and only read afterwards; the decoding engine walks them top-down and
// left-to-right exactly once.
package node

import "strconv"

// Kind tags a source node.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Real
	String
	Sequence
	Mapping
	Alias
	Malformed
)

// Pair is one ordered key/value entry of a Mapping node.
type Pair struct {
	Key   *Node
	Value *Node
}

// Node is one parsed unit of a document.
type Node struct {
	Kind Kind

	Bool bool
	Int  int64
	// Text holds the literal of Real nodes, the value of String nodes, the
	// raw text of Malformed nodes and the anchor name of Alias nodes.
	Text string

	Items []*Node // Sequence
	Pairs []Pair  // Mapping

	// Target is the anchored node an Alias refers to; nil when the driver
	// could not resolve it.
	Target *Node

	Line   int // 1-based; 0 when unknown
	Column int
}

// Name classifies a node kind for diagnostics.
func (k Kind) Name() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int:
		return "integer"
	case Real:
		return "real number"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	case Alias:
		return "alias"
	case Malformed:
		return "bad value"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k Kind) String() string { return k.Name() }

// KindName returns the diagnostic name of n's kind; a nil node reads as null.
func KindName(n *Node) string {
	if n == nil {
		return Null.Name()
	}
	return n.Kind.Name()
}

// AsString returns the value of a String node.
func (n *Node) AsString() (string, bool) {
	if n == nil || n.Kind != String {
		return "", false
	}
	return n.Text, true
}

// IsNull reports whether n is nil or a Null node.
func (n *Node) IsNull() bool { return n == nil || n.Kind == Null }

// Len reports the number of children of a Sequence or Mapping node.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case Sequence:
		return len(n.Items)
	case Mapping:
		return len(n.Pairs)
	default:
		return 0
	}
}

// Constructors used by drivers and tests.

func NewNull() *Node            { return &Node{Kind: Null} }
func NewBool(b bool) *Node      { return &Node{Kind: Bool, Bool: b} }
func NewInt(i int64) *Node      { return &Node{Kind: Int, Int: i} }
func NewReal(text string) *Node { return &Node{Kind: Real, Text: text} }
func NewString(s string) *Node  { return &Node{Kind: String, Text: s} }
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: Sequence, Items: items}
}

// NewMapping builds a Mapping from alternating key and value nodes.
func NewMapping(kv ...*Node) *Node {
	n := &Node{Kind: Mapping, Pairs: make([]Pair, 0, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Pairs = append(n.Pairs, Pair{Key: kv[i], Value: kv[i+1]})
	}
	return n
}

// At records a source position and returns n.
func (n *Node) At(line, col int) *Node {
	n.Line, n.Column = line, col
	return n
}
