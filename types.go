package shapeyaml

import (
	"log/slog"

	"github.com/reoring/shapeyaml/internal/engine"
	"github.com/reoring/shapeyaml/node"
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore (last wins), Warn or Error.
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// PresenceOpt configures presence collection for WithMeta-style parsing.
type PresenceOpt struct {
	// Collect enables the presence map; without it Decoded.Presence is nil.
	Collect bool
	Include []string // path prefixes to keep; empty keeps all
	Exclude []string // path prefixes to drop
}

// PathRenderOpt controls how presence paths are rendered into strings.
type PathRenderOpt struct {
	Intern bool
}

// DefaultMaxDepth is the nesting limit used when ParseOpt.MaxDepth is zero.
const DefaultMaxDepth = engine.DefaultMaxDepth

// ParseOpt bundles parsing options. When several are passed, the last wins.
type ParseOpt struct {
	Strictness Strictness
	// MaxDepth bounds nesting of the target value. Zero selects
	// DefaultMaxDepth, a negative value disables the check.
	MaxDepth int
	// MaxBytes rejects larger inputs with a truncated issue when positive.
	MaxBytes   int64
	Presence   PresenceOpt
	PathRender PathRenderOpt
	// ResolveAliases follows YAML aliases to their anchored node. When false
	// an alias is treated as a mismatch wherever it appears.
	ResolveAliases bool
	// Driver overrides the process-wide driver for this call.
	Driver Driver
	// Logger receives debug traces and duplicate-key warnings. nil discards.
	Logger *slog.Logger
}

func resolveOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func (o ParseOpt) driver() Driver {
	if o.Driver != nil {
		return o.Driver
	}
	return getDriver()
}

func (o ParseOpt) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o ParseOpt) engineOptions(withPresence bool) engine.Options {
	drv := o.driver()
	return engine.Options{
		MaxDepth:        o.MaxDepth,
		OnDuplicate:     duplicateStrictness(o.Strictness.OnDuplicateKey),
		ResolveAliases:  o.ResolveAliases,
		CollectPresence: withPresence,
		LoadDefault: func(text string) (*node.Node, error) {
			return loadSingle(drv, []byte(text))
		},
		Logger: o.logger(),
	}
}

func duplicateStrictness(s Severity) engine.DuplicateStrictness {
	switch s {
	case Warn:
		return engine.DupWarn
	case Error:
		return engine.DupError
	}
	return engine.DupIgnore
}
