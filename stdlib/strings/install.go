package stdstrings

import (
	"reflect"
	"strings"

	"github.com/podhmo/daro/ffibridge"
)

// Install binds the "strings" package to the registry.
func Install(reg *ffibridge.Registry) {
	reg.Register("strings", map[string]any{
		"Contains":   strings.Contains,
		"Count":      strings.Count,
		"EqualFold":  strings.EqualFold,
		"Fields":     strings.Fields,
		"HasPrefix":  strings.HasPrefix,
		"HasSuffix":  strings.HasSuffix,
		"Index":      strings.Index,
		"Join":       strings.Join,
		"LastIndex":  strings.LastIndex,
		"Map":        strings.Map,
		"Repeat":     strings.Repeat,
		"Replace":    strings.Replace,
		"ReplaceAll": strings.ReplaceAll,
		"Split":      strings.Split,
		"ToLower":    strings.ToLower,
		"ToUpper":    strings.ToUpper,
		"Trim":       strings.Trim,
		"TrimPrefix": strings.TrimPrefix,
		"TrimSpace":  strings.TrimSpace,
		"TrimSuffix": strings.TrimSuffix,
		"Builder":    reflect.TypeOf((*strings.Builder)(nil)).Elem(),
		"Replacer": ffibridge.Class{
			Type:         reflect.TypeOf((*strings.Replacer)(nil)).Elem(),
			Constructors: []any{strings.NewReplacer},
		},
	})
}
