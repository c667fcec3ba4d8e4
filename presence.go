package shapeyaml

import (
	"strings"
	"sync"

	"github.com/reoring/shapeyaml/internal/engine"
	"github.com/reoring/shapeyaml/internal/issue"
)

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           = Presence(engine.PresenceSeen)           // Node appeared in the input.
	PresenceWasNull        = Presence(engine.PresenceWasNull)        // Node was null.
	PresenceDefaultApplied = Presence(engine.PresenceDefaultApplied) // Field was filled from its default.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Seen reports whether path appeared in the input.
func (pm PresenceMap) Seen(path string) bool { return pm[path]&PresenceSeen != 0 }

// WasNull reports whether path was explicitly null.
func (pm PresenceMap) WasNull(path string) bool { return pm[path]&PresenceWasNull != 0 }

// DefaultApplied reports whether path was materialized from a default.
func (pm PresenceMap) DefaultApplied(path string) bool {
	return pm[path]&PresenceDefaultApplied != 0
}

// Decoded carries the parsed value along with presence metadata and the
// warnings raised while decoding.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
	Warnings Issues
}

// simple string interner for PresenceMap keys
var (
	_internMu   sync.RWMutex
	_internPool = map[string]string{}
)

func internString(s string) string {
	_internMu.RLock()
	if v, ok := _internPool[s]; ok {
		_internMu.RUnlock()
		return v
	}
	_internMu.RUnlock()

	_internMu.Lock()
	if v, ok := _internPool[s]; ok { // double-check
		_internMu.Unlock()
		return v
	}
	_internPool[s] = s
	_internMu.Unlock()
	return s
}

func applyPresenceOptions(raw map[string]uint8, popt PresenceOpt, ropt PathRenderOpt) PresenceMap {
	if raw == nil {
		return nil
	}
	shouldInclude := func(path string) bool {
		if len(popt.Include) > 0 {
			ok := false
			for _, p := range popt.Include {
				if strings.HasPrefix(path, p) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		for _, p := range popt.Exclude {
			if strings.HasPrefix(path, p) {
				return false
			}
		}
		return true
	}

	out := make(PresenceMap, len(raw))
	for k, v := range raw {
		if !shouldInclude(k) {
			continue
		}
		key := k
		if ropt.Intern {
			key = internString(k)
		}
		out[key] = Presence(v)
	}
	return out
}

func warningsToIssues(ws []issue.SimpleIssue) Issues {
	if len(ws) == 0 {
		return nil
	}
	out := make(Issues, 0, len(ws))
	for _, w := range ws {
		out = append(out, fromSimple(w, nil))
	}
	return out
}
