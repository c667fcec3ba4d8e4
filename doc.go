// Package shapeyaml decodes YAML text into Go values guided by a shape
// descriptor derived from the target type.
//
// - One synchronous walk per call: load one document, dispatch on the shape, coerce scalars
// - A stable error model via Issues (JSON Pointer, code, message, source position)
// - Presence metadata (seen / null / defaulted) through the WithMeta API
// - Pluggable drivers: yaml.v3 (default), goccy/go-yaml, goccy/go-json
//
// Design policy:
// - Keep only public APIs in the root package; put the walk under internal/.
// - Shape descriptors live in shape/, source nodes in node/, parse hooks in codec/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	type Config struct {
//		Name    string                 `yaml:"name"`
//		Port    uint16                 `yaml:"port"`
//		Tags    []string               `yaml:"tags"`
//		Timeout shapeyaml.Option[int]  `yaml:"timeout"`
//		Retries int                    `yaml:"retries" default:"3"`
//	}
//
//	cfg, err := shapeyaml.FromStr[Config](text)
//	dm, err := shapeyaml.FromStrWithMeta[Config](text, shapeyaml.ParseOpt{Presence: shapeyaml.PresenceOpt{Collect: true}})
package shapeyaml
