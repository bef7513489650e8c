// Package decode normalizes gw source bytes to UTF-8.
//
// An explicit "encoding: x" header (with or without brackets) wins. Without
// one, input that is valid UTF-8 is taken as UTF-8; anything else goes
// through the HTML charset sniffer and finally ISO-8859-1, which accepts every
// byte sequence.
package decode

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/geneweb/gw/diag"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	UTF8   = "utf-8"
	Latin1 = "iso-8859-1"

	// sniffLen bounds how much of a stream is inspected before choosing.
	sniffLen = 64 * 1024
)

var (
	bom          = []byte{0xEF, 0xBB, 0xBF}
	directiveRe  = regexp.MustCompile(`(?m)^\[?[ \t]*encoding[ \t]*:[ \t]*([A-Za-z0-9_.:-]+)[ \t]*\]?[ \t]*\r?$`)
	directiveMax = 4
)

// Choice is the outcome of encoding detection.
type Choice struct {
	Name     string
	Declared bool
	enc      encoding.Encoding
}

func (c Choice) isUTF8() bool {
	return c.Name == UTF8
}

// Detect picks the encoding of a document from its leading bytes.
func Detect(prefix []byte) (Choice, *diag.Error) {
	prefix = bytes.TrimPrefix(prefix, bom)
	if label, ok := declared(prefix); ok {
		enc, name := charset.Lookup(label)
		if enc == nil {
			return Choice{}, diag.Encoding(label, 0, "unknown declared encoding %q", label)
		}
		if name == "utf-8" {
			return Choice{Name: UTF8, Declared: true}, nil
		}
		return Choice{Name: name, Declared: true, enc: enc}, nil
	}

	if utf8.Valid(trimPartialRune(prefix)) {
		return Choice{Name: UTF8}, nil
	}

	if enc, name, _ := charset.DetermineEncoding(prefix, "text/plain"); enc != nil && name != "utf-8" {
		return Choice{Name: name, enc: enc}, nil
	}
	return Choice{Name: Latin1, enc: charmap.ISO8859_1}, nil
}

// declared looks for an encoding header among the first few lines.
func declared(prefix []byte) (string, bool) {
	lines := 0
	end := 0
	for end < len(prefix) && lines < directiveMax {
		i := bytes.IndexByte(prefix[end:], '\n')
		if i < 0 {
			end = len(prefix)
			break
		}
		end += i + 1
		lines++
	}
	m := directiveRe.FindSubmatch(prefix[:end])
	if m == nil {
		return "", false
	}
	return strings.ToLower(string(m[1])), true
}

// trimPartialRune drops a multi-byte sequence cut off at the end of a sniffed
// prefix so that it is not mistaken for invalid UTF-8.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

// Bytes decodes a whole document.
func Bytes(data []byte) ([]byte, Choice, *diag.Error) {
	choice, derr := Detect(data)
	if derr != nil {
		return nil, choice, derr
	}
	data = bytes.TrimPrefix(data, bom)
	if choice.isUTF8() {
		if off := invalidOffset(data); off >= 0 {
			return nil, choice, diag.Encoding(UTF8, off, "invalid UTF-8 byte sequence at offset %d", off)
		}
		return data, choice, nil
	}
	out, err := choice.enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, choice, diag.Encoding(choice.Name, 0, "cannot decode input as %s: %v", choice.Name, err)
	}
	return out, choice, nil
}

// Reader wraps r so that it yields UTF-8. For UTF-8 input the bytes pass
// through unchanged and callers validate each chunk with Check.
func Reader(r io.Reader) (io.Reader, Choice, *diag.Error) {
	br := bufio.NewReaderSize(r, sniffLen)
	prefix, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, Choice{}, diag.Encoding("", 0, "read input: %v", err)
	}
	choice, derr := Detect(prefix)
	if derr != nil {
		return nil, choice, derr
	}
	if bytes.HasPrefix(prefix, bom) {
		br.Discard(len(bom))
	}
	if choice.isUTF8() {
		return br, choice, nil
	}
	return transform.NewReader(br, choice.enc.NewDecoder()), choice, nil
}

// Check reports a CRITICAL error if chunk is not valid UTF-8. base is the
// byte offset of chunk within the document.
func Check(chunk []byte, base int) *diag.Error {
	if off := invalidOffset(chunk); off >= 0 {
		return diag.Encoding(UTF8, base+off, "invalid UTF-8 byte sequence at offset %d", base+off)
	}
	return nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
