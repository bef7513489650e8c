// Package grammar holds the EBNF description of the gw format and a matcher
// that runs its productions against raw input.
//
// The grammar documents the format; the hand-written parser in gw/parser is
// what reads files. Tests keep the two in step.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Start is the production a whole file matches.
const Start = "File"

//go:embed gw.ebnf
var source []byte

// Source returns the text of the embedded grammar.
func Source() []byte {
	return source
}

// Load parses and verifies the embedded grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("gw.ebnf", bytes.NewReader(source), Start)
}

// LoadFile parses the grammar in path. When start is not empty the grammar
// is also verified from that production.
func LoadFile(path, start string) (ebnf.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Parse(path, f, start)
}

// Parse reads a grammar and, when start is not empty, verifies it.
func Parse(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Errors flattens the error lists ebnf.Parse and ebnf.Verify return into
// one error per problem.
func Errors(err error) []error {
	for u := err; u != nil; {
		v := reflect.ValueOf(u)
		if v.Kind() == reflect.Slice {
			errs := make([]error, 0, v.Len())
			for i := 0; i < v.Len(); i++ {
				if e, ok := v.Index(i).Interface().(error); ok {
					errs = append(errs, e)
				}
			}
			return errs
		}
		w, ok := u.(interface{ Unwrap() error })
		if !ok {
			break
		}
		u = w.Unwrap()
	}
	if err == nil {
		return nil
	}
	return []error{err}
}

// Productions returns the names of g's productions, lexical ones last.
func Productions(g ebnf.Grammar) []string {
	var syntactic, lexical []string
	for name := range g {
		if isLexical(name) {
			lexical = append(lexical, name)
		} else {
			syntactic = append(syntactic, name)
		}
	}
	sort.Strings(syntactic)
	sort.Strings(lexical)
	return append(syntactic, lexical...)
}

// isLexical follows ebnf's rule: names that do not start with an upper-case
// letter are lexical.
func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
