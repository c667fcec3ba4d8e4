package engine

import (
	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
)

// DuplicateStrictness selects what happens when a mapping repeats a key.
type DuplicateStrictness int

const (
	// DupIgnore lets the last occurrence win.
	DupIgnore DuplicateStrictness = iota
	// DupWarn lets the last occurrence win and records a warning.
	DupWarn
	// DupError aborts with a duplicate_key issue.
	DupError
)

// duplicate applies the duplicate-key policy for key at keyNode. A nil return
// means the caller should overwrite the earlier value.
func (d *decoder) duplicate(key string, keyNode *node.Node) error {
	path := issue.JoinPointer(d.p.Path(), key)
	si := issue.SimpleIssue{
		Code:    issue.CodeDuplicate,
		Path:    path,
		Message: "key '" + key + "' duplicated",
		Params:  map[string]any{"key": key},
	}
	if keyNode != nil {
		si.Line, si.Column = keyNode.Line, keyNode.Column
	}
	switch d.opt.OnDuplicate {
	case DupError:
		return &issue.Error{SimpleIssue: si}
	case DupWarn:
		d.log.Warn("duplicate key", "path", path, "line", si.Line)
		d.meta.Warnings = append(d.meta.Warnings, si)
	}
	return nil
}

func (d *decoder) markSeen(n *node.Node) {
	if d.meta.Presence == nil || d.defaulting > 0 {
		return
	}
	flags := PresenceSeen
	if n.IsNull() {
		flags |= PresenceWasNull
	}
	d.meta.Presence[d.p.Path()] |= flags
}

func (d *decoder) markDefault(path string) {
	if d.meta.Presence == nil || d.defaulting > 0 {
		return
	}
	d.meta.Presence[path] |= PresenceDefaultApplied
}

// Alias expansion budget, as gopkg.in/yaml.v3 applies it when decoding: once
// a walk is large enough, the share of placements reached through an alias is
// capped, tightening from 99% to 10% as the walk grows.
const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
	aliasRatioRange     = float64(aliasRatioRangeHigh - aliasRatioRangeLow)
)

func allowedAliasRatio(placed int) float64 {
	switch {
	case placed <= aliasRatioRangeLow:
		return 0.99
	case placed >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(placed-aliasRatioRangeLow)/aliasRatioRange)
	}
}

// countPlace charges one placement and fails once alias expansion dominates.
func (d *decoder) countPlace(n *node.Node) error {
	d.placed++
	if d.aliasDepth == 0 {
		return nil
	}
	d.aliased++
	if d.aliased > 100 && d.placed > 1000 && float64(d.aliased)/float64(d.placed) > allowedAliasRatio(d.placed) {
		return d.fail(n, issue.New(issue.CodeAliasing, "document contains excessive aliasing").
			With("placed", d.placed).With("aliased", d.aliased))
	}
	return nil
}
