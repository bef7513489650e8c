package gw

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/geneweb/gw/decode"
	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/dhamidi/geneweb/gw/parser"
	"github.com/tliron/commonlog"
)

var streamLog = commonlog.GetLogger("geneweb.stream")

// chunkStarts are the first words of a line that open a new chunk. fevt is
// absent: inside a family it belongs to the family, and a detached fevt
// block is read with the family it follows.
var chunkStarts = map[string]bool{
	"fam":         true,
	"notes":       true,
	"rel":         true,
	"pevt":        true,
	"notes-db":    true,
	"page-ext":    true,
	"wizard-note": true,
	"encoding":    true,
	"encoding:":   true,
	"gwplus":      true,
}

// rawBodies are the blocks whose body is free text up to "end <name>".
var rawBodies = map[string]bool{
	"notes":       true,
	"notes-db":    true,
	"page-ext":    true,
	"wizard-note": true,
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func startsChunk(line string) bool {
	if strings.HasPrefix(line, "[") {
		return true
	}
	return chunkStarts[firstWord(line)]
}

// Stream reads gw blocks one chunk at a time. A chunk runs from one block
// keyword to the next; free-text bodies are read to their terminator first.
// Only the current chunk is held in memory.
type Stream struct {
	src      io.Reader
	r        *bufio.Reader
	file     string
	patterns *parser.PatternCache

	choice decode.Choice
	line   int
	offset int

	pending    string
	hasPending bool
	eof        bool

	queue      []parser.Block
	directives parser.Directives
}

// NewStream returns a Stream over r. Encoding detection happens on the
// first call to Next.
func NewStream(r io.Reader, opts Options) *Stream {
	pc := opts.PatternCache
	if pc == nil {
		pc = parser.NewPatternCache()
	}
	return &Stream{src: r, file: opts.Filename, patterns: pc}
}

func (s *Stream) init() error {
	if s.r != nil {
		return nil
	}
	r, choice, derr := decode.Reader(s.src)
	if derr != nil {
		derr.File = s.file
		return derr
	}
	s.choice = choice
	s.r = bufio.NewReader(r)
	streamLog.Debugf("streaming %s as %s", s.file, choice.Name)
	return nil
}

// Encoding is the name of the detected encoding, known after the first
// call to Next.
func (s *Stream) Encoding() string {
	return s.choice.Name
}

// Directives returns the header settings seen so far.
func (s *Stream) Directives() parser.Directives {
	return s.directives
}

// Next returns the next block, or io.EOF at the end of input. Decoding
// failures are returned as a *diag.Error.
func (s *Stream) Next() (parser.Block, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	for len(s.queue) == 0 {
		if s.eof && !s.hasPending {
			return nil, io.EOF
		}
		chunk, start, err := s.chunk()
		if err != nil {
			return nil, err
		}
		if err := s.parse(chunk, start); err != nil {
			return nil, err
		}
	}
	b := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return b, nil
}

func (s *Stream) readLine() (string, error) {
	if s.hasPending {
		s.hasPending = false
		return s.pending, nil
	}
	if s.eof {
		return "", io.EOF
	}
	line, err := s.r.ReadString('\n')
	if err == io.EOF {
		s.eof = true
		if line == "" {
			return "", io.EOF
		}
		return line, nil
	}
	return line, err
}

// chunk reads lines up to the next chunk start and returns them with the
// number of their first line.
func (s *Stream) chunk() ([]byte, int, error) {
	start := s.line + 1
	var buf bytes.Buffer
	terminator := ""
	for {
		line, err := s.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read line %d: %w", s.line+1, err)
		}
		if terminator == "" && buf.Len() > 0 && startsChunk(line) {
			s.pending, s.hasPending = line, true
			break
		}
		buf.WriteString(line)
		s.line++

		switch {
		case terminator != "":
			if strings.TrimSpace(line) == terminator {
				terminator = ""
			}
		case rawBodies[firstWord(line)]:
			terminator = "end " + firstWord(line)
		}
	}

	if s.choice.Name == decode.UTF8 {
		if derr := decode.Check(buf.Bytes(), s.offset); derr != nil {
			derr.File = s.file
			return nil, 0, derr
		}
	}
	s.offset += buf.Len()
	return buf.Bytes(), start, nil
}

func (s *Stream) parse(chunk []byte, start int) error {
	p := parser.NewFromBytes(chunk,
		parser.WithFile(s.file),
		parser.WithStartLine(start),
		parser.WithPatternCache(s.patterns),
	)
	blocks, err := p.ParseAll()
	if err != nil {
		return fmt.Errorf("parse chunk at line %d: %w", start, err)
	}
	if d := p.Directives(); d.Encoding != "" || d.GWPlus {
		if d.Encoding != "" {
			s.directives.Encoding = d.Encoding
		}
		s.directives.GWPlus = s.directives.GWPlus || d.GWPlus
	}
	s.queue = append(s.queue, blocks...)
	streamLog.Debugf("chunk at line %d: %d bytes, %d blocks", start, len(chunk), len(blocks))
	return nil
}

// ParseStream runs the streaming pipeline: each block is folded into the
// genealogy as soon as it is read. ctx is checked between blocks.
func ParseStream(ctx context.Context, r io.Reader, opts Options) (*Genealogy, *diag.Collector, error) {
	c := diag.NewCollector(opts.Strict)
	s := NewStream(r, opts)
	b := NewBuilder(c, opts.Filename)

	for {
		if err := ctx.Err(); err != nil {
			return nil, c, err
		}
		blk, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, c, abort(c, err)
		}
		if err := b.Apply(blk); err != nil {
			return nil, c, err
		}
	}
	b.SetEncoding(s.Encoding())
	b.Directives(s.Directives())
	return finish(b, c, opts)
}

// abort records a decoding failure and returns the error that stops the
// parse.
func abort(c *diag.Collector, err error) error {
	var de *diag.Error
	if errors.As(err, &de) {
		if aerr := c.Add(de); aerr != nil {
			return aerr
		}
	}
	return err
}
