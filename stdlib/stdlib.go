// Package stdlib installs the host packages available to every script by
// default: strings, strconv, math, slices and encoding/hex.
package stdlib

import (
	"github.com/podhmo/daro/ffibridge"
	"github.com/podhmo/daro/stdlib/encoding/hex"
	stdmath "github.com/podhmo/daro/stdlib/math"
	stdslices "github.com/podhmo/daro/stdlib/slices"
	stdstrconv "github.com/podhmo/daro/stdlib/strconv"
	stdstrings "github.com/podhmo/daro/stdlib/strings"
)

// Install registers every standard package in reg.
func Install(reg *ffibridge.Registry) {
	stdstrings.Install(reg)
	stdstrconv.Install(reg)
	stdmath.Install(reg)
	stdslices.Install(reg)
	hex.Install(reg)
}
