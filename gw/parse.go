package gw

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/geneweb/gw/decode"
	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/dhamidi/geneweb/gw/parser"
	"github.com/tliron/commonlog"
)

var parseLog = commonlog.GetLogger("geneweb.parse")

// StreamMode selects between the buffered and the streaming driver.
type StreamMode string

const (
	StreamAuto   StreamMode = "auto"
	StreamAlways StreamMode = "always"
	StreamNever  StreamMode = "never"
)

// DefaultStreamingThreshold is the input size from which StreamAuto streams.
const DefaultStreamingThreshold int64 = 10 << 20

// ParseStreamMode accepts "auto", "always" and "never". The empty string is
// StreamAuto.
func ParseStreamMode(s string) (StreamMode, error) {
	switch m := StreamMode(strings.ToLower(s)); m {
	case "":
		return StreamAuto, nil
	case StreamAuto, StreamAlways, StreamNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid stream mode %q: want auto, always or never", s)
}

type Options struct {
	// Strict stops at the first ERROR and returns no genealogy.
	Strict bool

	Streaming               StreamMode
	StreamingThresholdBytes int64

	// Validate runs the cross-entity checks after building.
	Validate bool

	// Filename labels diagnostics.
	Filename string

	// SizeHint is the input size in bytes when r cannot report it.
	SizeHint int64

	// PatternCache is shared between parses when set.
	PatternCache *parser.PatternCache
}

// DefaultOptions is a graceful, validating parse with automatic driver
// selection.
func DefaultOptions() Options {
	return Options{
		Streaming:               StreamAuto,
		StreamingThresholdBytes: DefaultStreamingThreshold,
		Validate:                true,
	}
}

func (o Options) threshold() int64 {
	if o.StreamingThresholdBytes > 0 {
		return o.StreamingThresholdBytes
	}
	return DefaultStreamingThreshold
}

// streams reports whether an input of size bytes goes to the streaming
// driver. A negative size is unknown.
func (o Options) streams(size int64) bool {
	switch o.Streaming {
	case StreamAlways:
		return true
	case StreamNever:
		return false
	}
	return size >= 0 && size >= o.threshold()
}

type sizer interface {
	Len() int
}

// inputSize returns the size of r if it can be known without reading it,
// else -1.
func inputSize(r io.Reader, hint int64) int64 {
	if hint > 0 {
		return hint
	}
	switch v := r.(type) {
	case sizer:
		return int64(v.Len())
	case *os.File:
		if fi, err := v.Stat(); err == nil && fi.Mode().IsRegular() {
			return fi.Size()
		}
	}
	return -1
}

// Parse reads a gw source and builds its genealogy.
//
// In graceful mode the genealogy is returned even when it is invalid;
// check Genealogy.Valid. The error is non-nil only for CRITICAL problems,
// or for any ERROR when opts.Strict is set, and then the genealogy is nil.
// The collector is always returned.
func Parse(r io.Reader, opts Options) (*Genealogy, *diag.Collector, error) {
	return parse(context.Background(), r, opts)
}

// ParseString is Parse over a string.
func ParseString(s string, opts Options) (*Genealogy, *diag.Collector, error) {
	return Parse(strings.NewReader(s), opts)
}

func parse(ctx context.Context, r io.Reader, opts Options) (*Genealogy, *diag.Collector, error) {
	size := inputSize(r, opts.SizeHint)
	if opts.streams(size) {
		parseLog.Infof("streaming %s (%d bytes)", opts.Filename, size)
		return ParseStream(ctx, r, opts)
	}
	return parseBuffered(ctx, r, opts)
}

func parseBuffered(ctx context.Context, r io.Reader, opts Options) (*Genealogy, *diag.Collector, error) {
	c := diag.NewCollector(opts.Strict)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, c, fmt.Errorf("read input: %w", err)
	}
	text, choice, derr := decode.Bytes(data)
	if derr != nil {
		derr.File = opts.Filename
		return nil, c, abort(c, derr)
	}

	p := parser.NewFromBytes(text,
		parser.WithFile(opts.Filename),
		parser.WithPatternCache(opts.PatternCache),
	)
	b := NewBuilder(c, opts.Filename)
	b.SetEncoding(choice.Name)
	for {
		if err := ctx.Err(); err != nil {
			return nil, c, err
		}
		blk, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, c, fmt.Errorf("parse %s: %w", opts.Filename, err)
		}
		if err := b.Apply(blk); err != nil {
			return nil, c, err
		}
	}
	b.Directives(p.Directives())
	return finish(b, c, opts)
}

func finish(b *Builder, c *diag.Collector, opts Options) (*Genealogy, *diag.Collector, error) {
	g := b.Finish()
	if opts.Validate {
		if err := Validate(g, c); err != nil {
			return nil, c, err
		}
	}
	parseLog.Infof("%s: %s", opts.Filename, g.ValidationSummary())
	return g, c, nil
}

// Extensions are the file name extensions ParseFile accepts.
var Extensions = []string{".gw", ".gwplus"}

// CheckExtension returns a SyntaxError when path does not name a gw file.
func CheckExtension(path string) *diag.Error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range Extensions {
		if ext == want {
			return nil
		}
	}
	return &diag.Error{
		Kind:     diag.KindSyntax,
		Severity: diag.SeverityError,
		Message:  fmt.Sprintf("unsupported file extension %q", ext),
		File:     path,
		Context:  "opening file",
		Expected: Extensions,
	}
}

// ParseFile parses the gw file at path. opts.Filename and opts.SizeHint
// default to the path and the file size.
func ParseFile(path string, opts Options) (*Genealogy, *diag.Collector, error) {
	return parseFile(context.Background(), path, opts)
}

func parseFile(ctx context.Context, path string, opts Options) (*Genealogy, *diag.Collector, error) {
	if derr := CheckExtension(path); derr != nil {
		return nil, diag.NewCollector(opts.Strict), derr
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, diag.NewCollector(opts.Strict), fmt.Errorf("open gw file: %w", err)
	}
	defer f.Close()

	if opts.Filename == "" {
		opts.Filename = path
	}
	return parse(ctx, f, opts)
}
