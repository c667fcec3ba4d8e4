package shape

import (
	"reflect"
	"strings"
)

// TagName is the struct tag key read before yaml and json tags.
const TagName = "shapeyaml"

// DefaultTag holds literal document text used when the field is absent.
const DefaultTag = "default"

type fieldTag struct {
	name        string
	skip        bool
	hasDefault  bool
	transparent bool
}

// ResolveStructKey applies the repository-wide rule to resolve a struct
// field's external key.
// Priority: shapeyaml:"name" > yaml:"name" > json:"name" > field name; "-"
// disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	t := parseFieldTag(sf)
	if t.skip {
		return "-"
	}
	return t.name
}

func parseFieldTag(sf reflect.StructField) fieldTag {
	var ft fieldTag
	if st, ok := sf.Tag.Lookup(TagName); ok {
		name, opts := splitTag(st)
		if name == "-" && len(opts) == 0 {
			ft.skip = true
			return ft
		}
		ft.name = name
		for _, o := range opts {
			switch o {
			case "default":
				ft.hasDefault = true
			case "transparent":
				ft.transparent = true
			}
		}
	}
	if ft.name == "" {
		for _, key := range []string{"yaml", "json"} {
			v, ok := sf.Tag.Lookup(key)
			if !ok {
				continue
			}
			name, _ := splitTag(v)
			if name == "-" {
				ft.skip = true
				return ft
			}
			if name != "" {
				ft.name = name
				break
			}
		}
	}
	if ft.name == "" {
		ft.name = sf.Name
	}
	return ft
}

func splitTag(tag string) (string, []string) {
	parts := strings.Split(tag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts[0], parts[1:]
}
