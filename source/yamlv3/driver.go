// Package yamlv3 loads documents with gopkg.in/yaml.v3.
package yamlv3

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
)

// Driver is the default document loader.
type Driver struct{}

// Name identifies the driver.
func (Driver) Name() string { return "yaml.v3" }

// Load parses every document in data.
func (Driver) Load(data []byte) ([]*node.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*node.Node
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, syntaxError(err)
		}
		c := converter{seen: make(map[*yaml.Node]*node.Node)}
		docs = append(docs, c.convert(&doc))
	}
}

var lineRe = regexp.MustCompile(`line (\d+)`)

func syntaxError(err error) error {
	ie := issue.New(issue.CodeFormat, "%v", err).Wrap(err)
	if m := lineRe.FindStringSubmatch(err.Error()); m != nil {
		ie.Line, _ = strconv.Atoi(m[1])
	}
	return ie
}

type converter struct {
	// seen keeps anchored nodes shared so aliases can point back at them.
	seen map[*yaml.Node]*node.Node
}

func (c *converter) convert(y *yaml.Node) *node.Node {
	if y == nil {
		return node.NewNull()
	}
	if y.Kind == yaml.DocumentNode {
		if len(y.Content) == 0 {
			return node.NewNull().At(y.Line, y.Column)
		}
		return c.convert(y.Content[0])
	}
	if n, ok := c.seen[y]; ok {
		return n
	}
	n := &node.Node{}
	c.seen[y] = n
	switch y.Kind {
	case yaml.ScalarNode:
		*n = *scalar(y)
	case yaml.SequenceNode:
		n.Kind = node.Sequence
		n.Items = make([]*node.Node, 0, len(y.Content))
		for _, item := range y.Content {
			n.Items = append(n.Items, c.convert(item))
		}
	case yaml.MappingNode:
		n.Kind = node.Mapping
		n.Pairs = make([]node.Pair, 0, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			n.Pairs = append(n.Pairs, node.Pair{Key: c.convert(y.Content[i]), Value: c.convert(y.Content[i+1])})
		}
	case yaml.AliasNode:
		n.Kind = node.Alias
		n.Text = y.Value
		n.Target = c.convert(y.Alias)
	default:
		n.Kind = node.Malformed
		n.Text = y.Value
	}
	return n.At(y.Line, y.Column)
}

func scalar(y *yaml.Node) *node.Node {
	switch y.ShortTag() {
	case "!!null":
		return node.NewNull()
	case "!!bool":
		if b, ok := node.BoolLiteral(y.Value); ok {
			return node.NewBool(b)
		}
		return &node.Node{Kind: node.Malformed, Text: y.Value}
	case "!!int":
		return node.IntOrReal(y.Value)
	case "!!float":
		return node.NewReal(y.Value)
	}
	return node.NewString(y.Value)
}
