package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reoring/shapeyaml"
	"github.com/reoring/shapeyaml/i18n"
	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
)

func newLintCommand(a *app) *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "lint FILE...",
		Short: "Report structural problems the decoder would reject",
		Long: `Check that each file holds exactly one document and that its mappings
have unique string keys, its aliases resolve, its scalars are well formed and
its nesting stays within --max-depth.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			pal := newPalette(out, a.colorMode)
			total := 0
			for _, name := range args {
				data, err := readInput(cmd, name)
				if err != nil {
					return err
				}
				var iss shapeyaml.Issues
				root, err := shapeyaml.LoadDocument(data, a.parseOpt())
				if err != nil {
					got, ok := shapeyaml.AsIssues(err)
					if !ok {
						return err
					}
					iss = got
				} else {
					iss = lintNode(root, maxDepth)
				}
				total += len(iss)
				printIssues(out, pal, name, iss)
			}
			if total > 0 {
				return fmt.Errorf("%d issue(s) found", total)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum nesting depth (0 = decoder default, negative = unlimited)")
	return cmd
}

// lintNode walks n and collects problems in document order. Nesting beyond
// maxDepth is reported once per subtree; zero selects the decoder default.
func lintNode(n *node.Node, maxDepth int) shapeyaml.Issues {
	if maxDepth == 0 {
		maxDepth = shapeyaml.DefaultMaxDepth
	}
	l := &linter{maxDepth: maxDepth}
	l.walk(n, "", 0)
	return l.iss
}

type linter struct {
	maxDepth int
	iss      shapeyaml.Issues
}

func (l *linter) walk(n *node.Node, path string, depth int) {
	at := path
	if at == "" {
		at = "/"
	}
	if l.maxDepth > 0 && depth > l.maxDepth {
		l.add(n, at, shapeyaml.CodeMaxDepth, fmt.Sprintf("max depth %d exceeded", l.maxDepth))
		return
	}
	switch n.Kind {
	case node.Malformed:
		l.add(n, at, shapeyaml.CodeInvalidFmt, fmt.Sprintf("malformed scalar %q", n.Text))
	case node.Alias:
		if n.Target == nil {
			l.add(n, at, shapeyaml.CodeFormat, fmt.Sprintf("alias *%s has no anchor", n.Text))
		}
	case node.Sequence:
		for i, item := range n.Items {
			l.walk(item, issue.JoinPointer(path, strconv.Itoa(i)), depth+1)
		}
	case node.Mapping:
		seen := make(map[string]bool, len(n.Pairs))
		for _, p := range n.Pairs {
			key, ok := p.Key.AsString()
			if !ok {
				l.add(p.Key, at, shapeyaml.CodeInvalidType, "expected string key, got "+node.KindName(p.Key))
				continue
			}
			child := issue.JoinPointer(path, key)
			if seen[key] {
				l.add(p.Key, child, shapeyaml.CodeDuplicateKey, "key '"+key+"' duplicated")
			}
			seen[key] = true
			l.walk(p.Value, child, depth+1)
		}
	}
}

func (l *linter) add(n *node.Node, path, code, msg string) {
	l.iss = append(l.iss, issueAt(n, path, code, msg))
}

func issueAt(n *node.Node, path, code, msg string) shapeyaml.Issue {
	return shapeyaml.Issue{Path: path, Code: code, Message: msg, Line: n.Line, Column: n.Column}
}

func printIssues(w io.Writer, pal palette, name string, iss shapeyaml.Issues) {
	if len(iss) == 0 {
		_, _ = fmt.Fprintf(w, "%s: %s\n", name, pal.ok("ok"))
		return
	}
	for _, it := range iss {
		label := i18n.T(it.Code, nil)
		_, _ = fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", name, it.Line, it.Column,
			pal.err("%s", label), pal.pos("%s", it.Path), it.Message)
	}
}
