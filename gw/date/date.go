// Package date implements the GeneWeb date grammar: qualified, partial,
// alternative and ranged dates in the Gregorian, Julian, French Republican
// and Hebrew calendars, free-text dates and the mandatory-but-unknown date.
//
// The grammar, as it appears in .gw files:
//
//	date      = "0" | "0(" text ")" | [death] [qualifier] body { alt body } [calendar]
//	qualifier = "~" | "?" | "<" | ">"
//	death     = "k" | "m" | "e" | "s"        (death context only)
//	body      = [[day "/"] month "/"] year
//	alt       = "|" | ".."
//	calendar  = "J" | "F" | "H"
//
// Dates are immutable values once parsed. Display renders the canonical form
// accepted back by Parse (or ParseDeath for dates carrying a death type).
package date

import "fmt"

type Qualifier int

const (
	Exact Qualifier = iota
	About
	Maybe
	Before
	After
)

var qualifierNames = map[Qualifier]string{
	Exact:  "EXACT",
	About:  "ABOUT",
	Maybe:  "MAYBE",
	Before: "BEFORE",
	After:  "AFTER",
}

var qualifierSymbols = map[Qualifier]string{
	About:  "~",
	Maybe:  "?",
	Before: "<",
	After:  ">",
}

func (q Qualifier) String() string {
	if name, ok := qualifierNames[q]; ok {
		return name
	}
	return "Unknown"
}

// Alternation describes how the bodies of a multi-body date relate.
type Alternation int

const (
	Single Alternation = iota
	Or
	Between
)

func (a Alternation) String() string {
	switch a {
	case Or:
		return "OR"
	case Between:
		return "BETWEEN"
	default:
		return "SINGLE"
	}
}

type Calendar int

const (
	Gregorian Calendar = iota
	Julian
	French
	Hebrew
)

var calendarNames = map[Calendar]string{
	Gregorian: "GREGORIAN",
	Julian:    "JULIAN",
	French:    "FRENCH_REPUBLICAN",
	Hebrew:    "HEBREW",
}

var calendarSuffixes = map[Calendar]string{
	Julian: "J",
	French: "F",
	Hebrew: "H",
}

func (c Calendar) String() string {
	if name, ok := calendarNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Suffix returns the single-letter calendar marker, empty for Gregorian.
func (c Calendar) Suffix() string {
	return calendarSuffixes[c]
}

// maxMonth is 13 for calendars with an intercalary or complementary month.
func (c Calendar) maxMonth() int {
	switch c {
	case French, Hebrew:
		return 13
	}
	return 12
}

type DeathType int

const (
	DeathNormal DeathType = iota
	Killed
	Murdered
	Executed
	Disappeared
)

var deathTypeNames = map[DeathType]string{
	DeathNormal: "NORMAL",
	Killed:      "KILLED",
	Murdered:    "MURDERED",
	Executed:    "EXECUTED",
	Disappeared: "DISAPPEARED",
}

var deathTypeSymbols = map[DeathType]string{
	Killed:      "k",
	Murdered:    "m",
	Executed:    "e",
	Disappeared: "s",
}

func (d DeathType) String() string {
	if name, ok := deathTypeNames[d]; ok {
		return name
	}
	return "Unknown"
}

// Body is one day/month/year triple. Zero means the component is absent.
type Body struct {
	Day   int
	Month int
	Year  int
}

func (b Body) complete() bool {
	return b.Day != 0 && b.Month != 0 && b.Year != 0
}

// Date is a parsed GeneWeb date.
type Date struct {
	Qualifier Qualifier
	Body
	Calendar Calendar

	// Alternation and Alternatives hold the extra bodies of "a|b|c" and
	// "a..b" dates. Between dates carry exactly one alternative.
	Alternation  Alternation
	Alternatives []Body

	// Text is set for free-text dates, with underscores decoded to spaces.
	Text string

	// Unknown marks the "0" date: the value is required but not known.
	Unknown bool

	Death DeathType
}

// NewUnknown returns the mandatory-but-unknown date.
func NewUnknown() *Date {
	return &Date{Unknown: true}
}

// IsText reports whether d is a free-text date.
func (d *Date) IsText() bool {
	return d != nil && !d.Unknown && d.Text != ""
}

// IsComplete reports whether the primary body has day, month and year.
func (d *Date) IsComplete() bool {
	return d != nil && !d.Unknown && d.Text == "" && d.Body.complete()
}

// IsPartial reports whether the primary body lacks a day or a month.
func (d *Date) IsPartial() bool {
	if d == nil || d.Unknown || d.Text != "" {
		return false
	}
	return d.Year != 0 && (d.Day == 0 || d.Month == 0)
}

// ISO returns YYYY-MM-DD for complete Gregorian dates and "" otherwise.
func (d *Date) ISO() string {
	if !d.IsComplete() || d.Calendar != Gregorian {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Display()
}
