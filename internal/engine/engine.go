// Package engine drives a partial.Partial from a source node tree.
//
// The walk is depth-first and synchronous: place classifies the shape of the
// current hole and either recurses, hands a sequence or mapping to a walker,
// or coerces a scalar. The first error aborts the walk; the caller then
// discards the Partial.
package engine

import (
	"errors"
	"log/slog"

	"github.com/reoring/shapeyaml/internal/coerce"
	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/internal/partial"
	"github.com/reoring/shapeyaml/node"
	"github.com/reoring/shapeyaml/shape"
)

// DefaultMaxDepth bounds hole nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Presence flags recorded per JSON Pointer.
const (
	PresenceSeen uint8 = 1 << iota
	PresenceWasNull
	PresenceDefaultApplied
)

// Options controls a single walk.
type Options struct {
	// MaxDepth limits open holes; 0 selects DefaultMaxDepth, negative disables.
	MaxDepth       int
	OnDuplicate    DuplicateStrictness
	ResolveAliases bool
	// CollectPresence enables Meta.Presence.
	CollectPresence bool
	// LoadDefault turns literal default text into a node. When nil the text
	// is used as a string node.
	LoadDefault func(text string) (*node.Node, error)
	Logger      *slog.Logger
}

// Meta is what a successful or failed walk observed besides the value.
type Meta struct {
	Presence map[string]uint8
	Warnings []issue.SimpleIssue
}

type decoder struct {
	p        *partial.Partial
	opt      Options
	log      *slog.Logger
	maxDepth int
	meta     Meta
	// defaulting suppresses presence marks while a literal default is placed.
	defaulting int
	// placed counts place calls; aliased those under an expanded alias.
	placed, aliased int
	aliasDepth      int
}

// Run places root into p. p is left positioned on its root hole on success.
func Run(p *partial.Partial, root *node.Node, opt Options) (Meta, error) {
	d := &decoder{p: p, opt: opt, log: opt.Logger, maxDepth: opt.MaxDepth}
	if d.log == nil {
		d.log = slog.New(slog.DiscardHandler)
	}
	if d.maxDepth == 0 {
		d.maxDepth = DefaultMaxDepth
	}
	if opt.CollectPresence {
		d.meta.Presence = make(map[string]uint8)
	}
	err := d.place(root)
	return d.meta, err
}

func (d *decoder) place(n *node.Node) error {
	if d.maxDepth > 0 && d.p.Depth() > d.maxDepth {
		return d.fail(n, issue.New(issue.CodeMaxDepth, "max depth %d exceeded", d.maxDepth).With("max", d.maxDepth))
	}
	n, viaAlias, err := d.deref(n)
	if err != nil {
		return err
	}
	if viaAlias {
		d.aliasDepth++
		defer func() { d.aliasDepth-- }()
	}
	if err := d.countPlace(n); err != nil {
		return err
	}
	d.markSeen(n)

	s := d.p.Shape()
	d.log.Debug("place", "path", d.p.Path(), "shape", s.Describe(), "node", node.KindName(n))

	if s.Transparent {
		if err := d.p.BeginInner(); err != nil {
			return d.fail(n, err)
		}
		if err := d.place(n); err != nil {
			return err
		}
		return d.end(n)
	}

	switch s.Category {
	case shape.Struct:
		return d.placeStruct(n)
	case shape.Scalar:
		return d.placeScalar(s, n)
	case shape.List:
		return d.walkList(n)
	case shape.Map:
		return d.walkMap(n)
	case shape.Optional:
		if n.IsNull() {
			return nil
		}
		if err := d.p.BeginSome(); err != nil {
			return d.fail(n, err)
		}
		if err := d.place(n); err != nil {
			return err
		}
		return d.end(n)
	case shape.Pointer:
		if err := d.p.BeginPointer(); err != nil {
			return d.fail(n, err)
		}
		if s.Elem.Category == shape.List {
			err = d.walkList(n)
		} else {
			err = d.place(n)
		}
		if err != nil {
			return err
		}
		return d.end(n)
	default:
		return d.fail(n, issue.New(issue.CodeUnsupported, "unsupported shape: %s", s.Describe()).With("type", s.String()))
	}
}

// deref follows alias nodes when alias resolution is enabled and reports
// whether it did.
func (d *decoder) deref(n *node.Node) (*node.Node, bool, error) {
	if !d.opt.ResolveAliases {
		return n, false, nil
	}
	hops := 0
	for ; n != nil && n.Kind == node.Alias && n.Target != nil; hops++ {
		if d.maxDepth > 0 && hops > d.maxDepth {
			return nil, false, d.fail(n, issue.New(issue.CodeMaxDepth, "alias chain *%s too long", n.Text))
		}
		n = n.Target
	}
	return n, hops > 0, nil
}

func (d *decoder) placeScalar(s *shape.Shape, n *node.Node) error {
	t := coerce.Target{Width: s.Width, PointerSized: s.PointerSized}
	switch s.Primitive {
	case shape.Unsigned:
		u, err := coerce.Unsigned(t, n)
		if err != nil {
			return d.fail(n, err)
		}
		return d.set(n, d.p.SetUint(u))
	case shape.Signed:
		i, err := coerce.Signed(t, n)
		if err != nil {
			return d.fail(n, err)
		}
		return d.set(n, d.p.SetInt(i))
	case shape.Float:
		f, err := coerce.Float(s.Width, n)
		if err != nil {
			return d.fail(n, err)
		}
		return d.set(n, d.p.SetFloat(f))
	case shape.Bool:
		b, err := coerce.Bool(n)
		if err != nil {
			return d.fail(n, err)
		}
		return d.set(n, d.p.SetBool(b))
	case shape.String:
		str, ok := n.AsString()
		if !ok {
			return d.fail(n, mismatch("string", n))
		}
		return d.set(n, d.p.SetString(str))
	case shape.Other:
		str, ok := n.AsString()
		if !ok {
			return d.fail(n, mismatch("string", n))
		}
		hookErr := d.p.ParseFromString(str)
		if hookErr == nil {
			return nil
		}
		d.log.Debug("parse hook failed, assigning raw string", "path", d.p.Path(), "shape", s.String(), "err", hookErr)
		if err := d.p.SetString(str); err != nil {
			return d.fail(n, issue.New(issue.CodeInvalidFmt, "cannot parse %q as %s: %v", str, s, hookErr).
				With("value", str).With("expected", s.String()).Wrap(hookErr))
		}
		return nil
	default:
		return d.fail(n, issue.New(issue.CodeUnsupported, "unsupported shape: %s", s.Describe()).With("type", s.String()))
	}
}

func mismatch(expected string, n *node.Node) *issue.Error {
	got := node.KindName(n)
	return issue.New(issue.CodeInvalidType, "expected %s, got %s", expected, got).
		With("expected", expected).With("got", got)
}

func (d *decoder) set(n *node.Node, err error) error {
	if err != nil {
		return d.fail(n, err)
	}
	return nil
}

func (d *decoder) end(n *node.Node) error {
	if err := d.p.End(); err != nil {
		return d.fail(n, err)
	}
	return nil
}

// fail stamps err with the current path and n's position unless a deeper
// frame already did.
func (d *decoder) fail(n *node.Node, err error) error {
	var ie *issue.Error
	if !errors.As(err, &ie) {
		ie = issue.New(issue.CodeBuilder, "%v", err).Wrap(err)
	}
	if ie.Path == "" {
		ie.Path = d.p.Path()
	}
	if ie.Line == 0 && n != nil {
		ie.Line, ie.Column = n.Line, n.Column
	}
	return ie
}
