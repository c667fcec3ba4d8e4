package engine

import (
	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
	"github.com/reoring/shapeyaml/shape"
)

// walkList fills the current list hole from a sequence, preserving order.
func (d *decoder) walkList(n *node.Node) error {
	if n.Kind != node.Sequence {
		return d.fail(n, mismatch("a sequence", n))
	}
	if err := d.p.BeginList(); err != nil {
		return d.fail(n, err)
	}
	for _, item := range n.Items {
		if err := d.p.BeginListItem(); err != nil {
			return d.fail(item, err)
		}
		if err := d.place(item); err != nil {
			return err
		}
		if err := d.end(item); err != nil {
			return err
		}
	}
	return nil
}

// walkMap fills the current map hole from a mapping with string keys.
func (d *decoder) walkMap(n *node.Node) error {
	if n.Kind != node.Mapping {
		return d.fail(n, mismatch("a mapping", n))
	}
	if err := d.p.BeginMap(); err != nil {
		return d.fail(n, err)
	}
	keyShape := d.p.Shape().Key
	for _, pair := range n.Pairs {
		key, err := d.mapKey(pair.Key)
		if err != nil {
			return err
		}
		if err := d.p.BeginKey(); err != nil {
			return d.fail(pair.Key, err)
		}
		if keyShape.Primitive == shape.Other {
			if perr := d.p.ParseFromString(key); perr != nil {
				return d.fail(pair.Key, issue.New(issue.CodeInvalidFmt, "cannot parse key %q as %s: %v", key, keyShape, perr).
					With("value", key).With("expected", keyShape.String()).Wrap(perr))
			}
		} else if err := d.p.SetString(key); err != nil {
			return d.fail(pair.Key, err)
		}
		if err := d.end(pair.Key); err != nil {
			return err
		}
		if k, ok := d.p.PendingKey(); ok && d.p.HasKey(k) {
			if err := d.duplicate(key, pair.Key); err != nil {
				return err
			}
		}
		if err := d.p.BeginValue(); err != nil {
			return d.fail(pair.Value, err)
		}
		if err := d.place(pair.Value); err != nil {
			return err
		}
		if err := d.end(pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// mapKey resolves a mapping key to its string form. Keys must be string
// scalars; aliases are followed when alias resolution is on.
func (d *decoder) mapKey(k *node.Node) (string, error) {
	k, _, err := d.deref(k)
	if err != nil {
		return "", err
	}
	s, ok := k.AsString()
	if !ok {
		return "", d.fail(k, mismatch("string key", k))
	}
	return s, nil
}
