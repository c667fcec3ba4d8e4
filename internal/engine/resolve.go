package engine

import (
	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
	"github.com/reoring/shapeyaml/shape"
)

// placeStruct assigns every mapping entry to the field named by its key and
// then resolves the fields the mapping did not mention.
func (d *decoder) placeStruct(n *node.Node) error {
	if n.Kind != node.Mapping {
		return d.fail(n, mismatch("a mapping", n))
	}
	for _, pair := range n.Pairs {
		key, err := d.mapKey(pair.Key)
		if err != nil {
			return err
		}
		i, ok := d.p.FieldIndex(key)
		if !ok {
			return d.fail(pair.Key, issue.New(issue.CodeUnknownKey, "field '%s' not found", key).
				With("key", key).With("type", d.p.Shape().String()))
		}
		if d.p.IsFieldSet(i) {
			if err := d.duplicate(key, pair.Key); err != nil {
				return err
			}
		}
		if err := d.p.BeginField(i); err != nil {
			return d.fail(pair.Key, err)
		}
		if err := d.place(pair.Value); err != nil {
			return err
		}
		if err := d.end(pair.Value); err != nil {
			return err
		}
	}
	return d.resolveMissing(n)
}

// resolveMissing fills absent fields that carry a default and reports the
// first field that has neither a value nor a default.
func (d *decoder) resolveMissing(n *node.Node) error {
	s := d.p.Shape()
	base := d.p.Path()
	for i, f := range s.Fields {
		if d.p.IsFieldSet(i) || !f.HasDefault() {
			continue
		}
		if f.Flags&shape.LiteralDefault != 0 {
			if err := d.placeLiteralDefault(i, f, n); err != nil {
				return err
			}
		} else if err := d.p.SetFieldDefault(i); err != nil {
			return d.fail(n, err)
		}
		d.markDefault(issue.JoinPointer(base, f.Name))
		d.log.Debug("default applied", "path", base, "field", f.Name)
	}
	missing := d.p.Unset()
	if len(missing) == 0 {
		return nil
	}
	return d.fail(n, issue.New(issue.CodeRequired, "missing required field '%s'", missing[0]).
		With("field", missing[0]).With("missing", missing))
}

// placeLiteralDefault decodes the default text of field f and places it as if
// the source had carried it. Empty text is the empty string.
func (d *decoder) placeLiteralDefault(i int, f shape.Field, at *node.Node) error {
	lit := node.NewString(f.Default)
	if f.Default != "" && d.opt.LoadDefault != nil {
		var err error
		if lit, err = d.opt.LoadDefault(f.Default); err != nil {
			return d.fail(at, issue.New(issue.CodeFormat, "invalid default for field '%s': %v", f.Name, err).
				With("field", f.Name).Wrap(err))
		}
	}
	if err := d.p.BeginField(i); err != nil {
		return d.fail(at, err)
	}
	d.defaulting++
	err := d.place(lit)
	d.defaulting--
	if err != nil {
		return err
	}
	return d.end(at)
}
