package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/shapeyaml"
	"github.com/reoring/shapeyaml/node"
)

func newTreeCommand(a *app) *cobra.Command {
	var asJSON, dump bool
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the classified node tree of a document",
		Long: `Load a single document and print every node with its kind and source
position, as the decoder classifies them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			root, err := shapeyaml.LoadDocument(data, a.parseOpt())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case dump:
				spew.Fdump(out, root)
				return nil
			case asJSON:
				b, err := j.MarshalIndent(toJSONNode(root), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}
			writeTree(out, newPalette(out, a.colorMode), root, "", "")
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the tree as JSON")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the raw node structure")
	return cmd
}

func writeTree(w io.Writer, pal palette, n *node.Node, indent, label string) {
	_, _ = fmt.Fprintf(w, "%s%s%s%s\n", indent, label, describe(pal, n), pal.position(n))
	child := indent + "  "
	switch n.Kind {
	case node.Sequence:
		for _, item := range n.Items {
			writeTree(w, pal, item, child, "- ")
		}
	case node.Mapping:
		for _, p := range n.Pairs {
			key, ok := p.Key.AsString()
			if !ok {
				key = "<" + node.KindName(p.Key) + ">"
			}
			writeTree(w, pal, p.Value, child, pal.key("%s", key)+": ")
		}
	}
}

func describe(pal palette, n *node.Node) string {
	switch n.Kind {
	case node.Bool:
		return pal.kindOf(n) + " " + pal.value("%t", n.Bool)
	case node.Int:
		return pal.kindOf(n) + " " + pal.value("%d", n.Int)
	case node.Real, node.Malformed:
		return pal.kindOf(n) + " " + pal.value("%s", n.Text)
	case node.String:
		return pal.kindOf(n) + " " + pal.value("%s", strconv.Quote(n.Text))
	case node.Alias:
		return pal.kindOf(n) + " " + pal.value("*%s", n.Text)
	case node.Sequence, node.Mapping:
		return pal.kindOf(n) + pal.pos(" [%d]", n.Len())
	}
	return pal.kindOf(n)
}

type jsonNode struct {
	Kind   string      `json:"kind"`
	Value  any         `json:"value,omitempty"`
	Line   int         `json:"line,omitempty"`
	Column int         `json:"column,omitempty"`
	Items  []*jsonNode `json:"items,omitempty"`
	Pairs  []jsonPair  `json:"pairs,omitempty"`
}

type jsonPair struct {
	Key   *jsonNode `json:"key"`
	Value *jsonNode `json:"value"`
}

// toJSONNode mirrors n; aliases are rendered by name so cycles cannot recurse.
func toJSONNode(n *node.Node) *jsonNode {
	out := &jsonNode{Kind: strings.ReplaceAll(node.KindName(n), " ", "_"), Line: n.Line, Column: n.Column}
	switch n.Kind {
	case node.Bool:
		out.Value = n.Bool
	case node.Int:
		out.Value = n.Int
	case node.Real, node.String, node.Malformed, node.Alias:
		out.Value = n.Text
	case node.Sequence:
		for _, item := range n.Items {
			out.Items = append(out.Items, toJSONNode(item))
		}
	case node.Mapping:
		for _, p := range n.Pairs {
			out.Pairs = append(out.Pairs, jsonPair{Key: toJSONNode(p.Key), Value: toJSONNode(p.Value)})
		}
	}
	return out
}
