// Package format renders genealogies and parsed blocks for the command line.
package format

import (
	"encoding"

	"github.com/dhamidi/geneweb/gw"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(g *gw.Genealogy) error
}

var (
	_ Encoder = (*JSONEncoder)(nil)
	_ Encoder = (*LineEncoder)(nil)
)
