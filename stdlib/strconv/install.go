package stdstrconv

import (
	"strconv"

	"github.com/podhmo/daro/ffibridge"
)

// Install binds the "strconv" package to the registry.
func Install(reg *ffibridge.Registry) {
	reg.Register("strconv", map[string]any{
		"Atoi":        strconv.Atoi,
		"Itoa":        strconv.Itoa,
		"FormatBool":  strconv.FormatBool,
		"FormatFloat": strconv.FormatFloat,
		"FormatInt":   strconv.FormatInt,
		"ParseBool":   strconv.ParseBool,
		"ParseFloat":  strconv.ParseFloat,
		"ParseInt":    strconv.ParseInt,
		"Quote":       strconv.Quote,
		"Unquote":     strconv.Unquote,
	})
}
