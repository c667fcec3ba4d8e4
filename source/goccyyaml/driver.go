// Package goccyyaml loads documents with github.com/goccy/go-yaml.
package goccyyaml

import (
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
)

// Driver loads documents through the goccy/go-yaml AST.
type Driver struct{}

// Name identifies the driver.
func (Driver) Name() string { return "go-yaml" }

// Load parses every document in data. Documents without a body are skipped.
// Duplicate keys are left to the decoder's strictness policy.
func (Driver) Load(data []byte) ([]*node.Node, error) {
	f, err := parser.ParseBytes(data, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, issue.New(issue.CodeFormat, "%s", yaml.FormatError(err, false, false)).Wrap(err)
	}
	var docs []*node.Node
	for _, doc := range f.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		c := converter{anchors: make(map[string]*node.Node)}
		docs = append(docs, c.convert(doc.Body))
	}
	return docs, nil
}

type converter struct {
	anchors map[string]*node.Node
}

func (c *converter) convert(a ast.Node) *node.Node {
	if a == nil {
		return node.NewNull()
	}
	line, col := position(a)
	var n *node.Node
	switch v := a.(type) {
	case *ast.NullNode:
		n = node.NewNull()
	case *ast.BoolNode:
		n = node.NewBool(v.Value)
	case *ast.IntegerNode:
		n = node.IntOrReal(text(a))
	case *ast.FloatNode, *ast.InfinityNode, *ast.NanNode:
		n = node.NewReal(text(a))
	case *ast.StringNode:
		n = node.NewString(v.Value)
	case *ast.LiteralNode:
		n = node.NewString(v.Value.Value)
	case *ast.MergeKeyNode:
		n = node.NewString(text(a))
	case *ast.MappingKeyNode:
		return c.convert(v.Value)
	case *ast.TagNode:
		return c.tagged(v)
	case *ast.AnchorNode:
		n = &node.Node{}
		c.anchors[refName(v.Name)] = n
		*n = *c.convert(v.Value)
		return n
	case *ast.AliasNode:
		name := refName(v.Value)
		n = &node.Node{Kind: node.Alias, Text: name, Target: c.anchors[name]}
	case *ast.MappingNode:
		n = &node.Node{Kind: node.Mapping, Pairs: make([]node.Pair, 0, len(v.Values))}
		for _, mv := range v.Values {
			n.Pairs = append(n.Pairs, c.pair(mv))
		}
	case *ast.MappingValueNode:
		n = &node.Node{Kind: node.Mapping, Pairs: []node.Pair{c.pair(v)}}
	case *ast.SequenceNode:
		n = &node.Node{Kind: node.Sequence, Items: make([]*node.Node, 0, len(v.Values))}
		for _, item := range v.Values {
			n.Items = append(n.Items, c.convert(item))
		}
	default:
		n = &node.Node{Kind: node.Malformed, Text: a.String()}
	}
	return n.At(line, col)
}

func (c *converter) pair(mv *ast.MappingValueNode) node.Pair {
	return node.Pair{Key: c.convert(mv.Key), Value: c.convert(mv.Value)}
}

// tagged honours the core schema tags that change a scalar's kind; other
// tags are ignored.
func (c *converter) tagged(t *ast.TagNode) *node.Node {
	line, col := position(t)
	switch t.Start.Value {
	case "!!str":
		return node.NewString(text(t.Value)).At(line, col)
	case "!!int":
		return node.IntOrReal(text(t.Value)).At(line, col)
	case "!!float":
		return node.NewReal(text(t.Value)).At(line, col)
	case "!!null":
		return node.NewNull().At(line, col)
	case "!!bool":
		if b, ok := node.BoolLiteral(text(t.Value)); ok {
			return node.NewBool(b).At(line, col)
		}
		return (&node.Node{Kind: node.Malformed, Text: text(t.Value)}).At(line, col)
	}
	return c.convert(t.Value)
}

func text(a ast.Node) string {
	if a == nil {
		return ""
	}
	if tk := a.GetToken(); tk != nil {
		return tk.Value
	}
	return a.String()
}

func refName(a ast.Node) string { return strings.TrimLeft(text(a), "&*") }

func position(a ast.Node) (int, int) {
	tk := a.GetToken()
	if tk == nil || tk.Position == nil {
		return 0, 0
	}
	return tk.Position.Line, tk.Position.Column
}
