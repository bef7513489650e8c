package date

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is wrapped by every error returned from Parse and ParseDeath.
var ErrInvalid = errors.New("invalid date")

// Parse parses a date outside of a death context.
func Parse(text string) (*Date, error) {
	return parse(text, false)
}

// ParseDeath parses a date in a death context, where a leading k, m, e or s
// records how the person died.
func ParseDeath(text string) (*Date, error) {
	return parse(text, true)
}

// ParseWithFallback returns the unknown date when text does not parse.
func ParseWithFallback(text string) *Date {
	d, err := Parse(text)
	if err != nil {
		return NewUnknown()
	}
	return d
}

func parse(text string, death bool) (*Date, error) {
	s := strings.TrimSpace(text)
	if s == "" || s == "0" {
		return NewUnknown(), nil
	}

	if strings.HasPrefix(s, "0(") {
		if !strings.HasSuffix(s, ")") || len(s) == 3 {
			return nil, fmt.Errorf("%w %q: unterminated text date", ErrInvalid, text)
		}
		return &Date{Text: DecodeText(s[2 : len(s)-1])}, nil
	}

	d := &Date{}

	if death {
		s = d.takeDeath(s)
	}
	s = d.takeQualifier(s)
	if death && d.Death == DeathNormal {
		s = d.takeDeath(s)
	}

	if n := len(s); n > 0 {
		for cal, suffix := range calendarSuffixes {
			if s[n-1] == suffix[0] {
				d.Calendar = cal
				s = s[:n-1]
				break
			}
		}
	}

	var bodies []string
	switch {
	case strings.Contains(s, "|"):
		d.Alternation = Or
		bodies = strings.Split(s, "|")
	case strings.Contains(s, ".."):
		d.Alternation = Between
		bodies = strings.Split(s, "..")
		if len(bodies) != 2 {
			return nil, fmt.Errorf("%w %q: a range needs exactly two bounds", ErrInvalid, text)
		}
	default:
		bodies = []string{s}
	}

	for i, raw := range bodies {
		b, err := parseBody(raw, d.Calendar)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %s", ErrInvalid, text, err)
		}
		if i == 0 {
			d.Body = b
		} else {
			d.Alternatives = append(d.Alternatives, b)
		}
	}
	return d, nil
}

func (d *Date) takeQualifier(s string) string {
	if s == "" {
		return s
	}
	for q, sym := range qualifierSymbols {
		if s[0] == sym[0] {
			d.Qualifier = q
			return s[1:]
		}
	}
	return s
}

func (d *Date) takeDeath(s string) string {
	if len(s) < 2 {
		return s
	}
	for dt, sym := range deathTypeSymbols {
		if s[0] == sym[0] {
			d.Death = dt
			return s[1:]
		}
	}
	return s
}

func parseBody(s string, cal Calendar) (Body, error) {
	var b Body
	if s == "" {
		return b, errors.New("empty date")
	}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return b, errors.New("too many components")
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return b, fmt.Errorf("component %q is not a number", p)
		}
		nums[i] = n
	}

	switch len(nums) {
	case 1:
		b.Year = nums[0]
	case 2:
		b.Month, b.Year = nums[0], nums[1]
	case 3:
		b.Day, b.Month, b.Year = nums[0], nums[1], nums[2]
	}

	if b.Year < 1 {
		return b, fmt.Errorf("year %d out of range", b.Year)
	}
	if b.Month != 0 && b.Month > cal.maxMonth() {
		return b, fmt.Errorf("month %d out of range", b.Month)
	}
	if b.Day > 31 {
		return b, fmt.Errorf("day %d out of range", b.Day)
	}
	if b.Day != 0 && b.Month == 0 {
		return b, errors.New("day without month")
	}
	return b, nil
}

// DecodeText turns the underscore-encoded spaces of a gw word into spaces.
func DecodeText(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// EncodeText is the inverse of DecodeText.
func EncodeText(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}
