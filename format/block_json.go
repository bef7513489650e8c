package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/geneweb/gw/parser"
)

// BlockJSONEncoder writes the blocks produced by the parser, before any
// builder has seen them. It is a debugging view of the parse.
type BlockJSONEncoder struct {
	w io.Writer
}

func NewBlockJSONEncoder(w io.Writer) *BlockJSONEncoder {
	return &BlockJSONEncoder{w: w}
}

func (e *BlockJSONEncoder) Encode(blocks []parser.Block) error {
	text, err := e.MarshalText(blocks)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *BlockJSONEncoder) MarshalText(blocks []parser.Block) ([]byte, error) {
	out := make([]*blockJSON, len(blocks))
	for i, b := range blocks {
		out[i] = blockToJSON(b)
	}
	return json.MarshalIndent(out, "", "  ")
}

type blockJSON struct {
	Kind   string       `json:"kind"`
	Line   int          `json:"line"`
	Errors []jsonError  `json:"errors,omitempty"`
	Body   parser.Block `json:"body,omitempty"`
}

func blockToJSON(b parser.Block) *blockJSON {
	jb := &blockJSON{
		Kind:   b.Kind().String(),
		Line:   b.Line(),
		Errors: buildErrors(b.Errors()),
	}
	if _, bad := b.(*parser.BadBlock); !bad {
		jb.Body = b
	}
	return jb
}
