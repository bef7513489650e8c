package grammar

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Position is a location in matched input. Line and Column are 1-based;
// Column counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type memoKey struct {
	name   string
	offset int
}

// Matcher runs grammar productions against input bytes. Alternatives take
// the longest match and repetitions are greedy; there is no backtracking
// into a repetition. A Matcher is not safe for concurrent use.
type Matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func NewMatcher(g ebnf.Grammar) *Matcher {
	return &Matcher{grammar: g}
}

// Match returns the length of the longest prefix of input that production
// matches, or -1 when it matches nothing.
func (m *Matcher) Match(production string, input []byte) (int, error) {
	prod, ok := m.grammar[production]
	if !ok {
		return -1, fmt.Errorf("production %q not found in grammar", production)
	}
	m.input = input
	m.memo = make(map[memoKey]int)
	m.visiting = make(map[memoKey]bool)
	return m.match(prod.Expr, 0), nil
}

// MatchAll reports whether production matches the whole of input. When it
// does not, the position is where the longest match stopped.
func (m *Matcher) MatchAll(production string, input []byte) (bool, Position, error) {
	n, err := m.Match(production, input)
	if err != nil {
		return false, Position{}, err
	}
	if n == len(input) {
		return true, position(input, n), nil
	}
	if n < 0 {
		n = 0
	}
	return false, position(input, n), nil
}

// MatchString is MatchAll for a string, without the position.
func (m *Matcher) MatchString(production, s string) bool {
	ok, _, err := m.MatchAll(production, []byte(s))
	return err == nil && ok
}

func position(input []byte, offset int) Position {
	pos := Position{Offset: offset, Line: 1, Column: 1}
	for _, ch := range input[:offset] {
		if ch == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// match returns the end offset of expr matched at offset, or -1.
func (m *Matcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return offset

	case *ebnf.Token:
		return m.matchToken(e.String, offset)

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			pos = m.match(item, pos)
			if pos < 0 {
				return -1
			}
		}
		return pos

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if end := m.match(alt, offset); end > best {
				best = end
			}
		}
		return best

	case *ebnf.Repetition:
		pos := offset
		for {
			end := m.match(e.Body, pos)
			if end <= pos {
				return pos
			}
			pos = end
		}

	case *ebnf.Option:
		if end := m.match(e.Body, offset); end >= 0 {
			return end
		}
		return offset

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return -1
}

// matchName memoizes by production and offset. A production that reaches
// itself at the same offset fails there, which stops left recursion.
func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if end, ok := m.memo[key]; ok {
		return end
	}
	if m.visiting[key] {
		return -1
	}
	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = -1
		return -1
	}

	m.visiting[key] = true
	end := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = end
	return end
}

func (m *Matcher) matchToken(s string, offset int) int {
	if offset+len(s) > len(m.input) {
		return -1
	}
	if string(m.input[offset:offset+len(s)]) != s {
		return -1
	}
	return offset + len(s)
}

// matchRange matches one rune between begin and end inclusive.
func (m *Matcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	ch, size := utf8.DecodeRune(m.input[offset:])
	if ch == utf8.RuneError && size <= 1 {
		return -1
	}
	if ch < lo || ch > hi {
		return -1
	}
	return offset + size
}
