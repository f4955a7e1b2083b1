package hex

import (
	"encoding/hex"

	"github.com/podhmo/daro/ffibridge"
)

// Install binds the "encoding/hex" package to the registry.
func Install(reg *ffibridge.Registry) {
	reg.Register("encoding/hex", map[string]any{
		"EncodeToString": hex.EncodeToString,
		"DecodeString":   hex.DecodeString,
		"EncodedLen":     hex.EncodedLen,
		"DecodedLen":     hex.DecodedLen,
		"Dump":           hex.Dump,
	})
}
