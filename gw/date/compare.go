package date

import "math"

// Ternary is the outcome of comparing two dates that may lack precision.
type Ternary int

const (
	Incomparable Ternary = iota
	True
	False
)

func (t Ternary) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "incomparable"
	}
}

func ternary(b bool) Ternary {
	if b {
		return True
	}
	return False
}

// span is the closed range of day keys (yyyymmdd) a date may denote.
type span struct {
	lo, hi int64
}

func bodySpan(b Body) span {
	base := int64(b.Year) * 10000
	switch {
	case b.Month == 0:
		return span{base + 101, base + 1331}
	case b.Day == 0:
		m := int64(b.Month) * 100
		return span{base + m + 1, base + m + 31}
	default:
		k := base + int64(b.Month)*100 + int64(b.Day)
		return span{k, k}
	}
}

func (d *Date) span() (span, bool) {
	if d == nil || d.Unknown || d.Text != "" || d.Year == 0 {
		return span{}, false
	}
	s := bodySpan(d.Body)
	for _, alt := range d.Alternatives {
		a := bodySpan(alt)
		if a.lo < s.lo {
			s.lo = a.lo
		}
		if a.hi > s.hi {
			s.hi = a.hi
		}
	}
	switch d.Qualifier {
	case Before:
		s.lo = math.MinInt64
	case After:
		s.hi = math.MaxInt64
	}
	return s, true
}

// IsBefore reports whether d certainly falls strictly before other.
// Unknown and text dates, overlapping imprecise dates and dates in different
// calendars are Incomparable, except year-only Gregorian and Julian dates.
func (d *Date) IsBefore(other *Date) Ternary {
	a, b, ok := spans(d, other)
	if !ok {
		return Incomparable
	}
	switch {
	case a.hi < b.lo:
		return True
	case a.lo >= b.hi:
		return False
	}
	return Incomparable
}

// IsAfter reports whether d certainly falls strictly after other.
func (d *Date) IsAfter(other *Date) Ternary {
	a, b, ok := spans(d, other)
	if !ok {
		return Incomparable
	}
	switch {
	case a.lo > b.hi:
		return True
	case a.hi <= b.lo:
		return False
	}
	return Incomparable
}

func spans(a, b *Date) (span, span, bool) {
	if a == nil || b == nil {
		return span{}, span{}, false
	}
	if a.Calendar != b.Calendar && !(solar(a) && solar(b) && a.yearOnly() && b.yearOnly()) {
		return span{}, span{}, false
	}
	sa, ok := a.span()
	if !ok {
		return span{}, span{}, false
	}
	sb, ok := b.span()
	if !ok {
		return span{}, span{}, false
	}
	return sa, sb, true
}

// solar reports whether d uses the Gregorian or Julian calendar, whose years
// line up closely enough to compare year-only dates across the two.
func solar(d *Date) bool {
	return d.Calendar == Gregorian || d.Calendar == Julian
}

func (d *Date) yearOnly() bool {
	if d.Month != 0 || d.Day != 0 {
		return false
	}
	for _, alt := range d.Alternatives {
		if alt.Month != 0 || alt.Day != 0 {
			return false
		}
	}
	return true
}

// Compare orders a and b: -1 before, 1 after, 0 same exact day. ok is false
// when the order cannot be decided.
func Compare(a, b *Date) (order int, ok bool) {
	switch {
	case a.IsBefore(b) == True:
		return -1, true
	case a.IsAfter(b) == True:
		return 1, true
	case a.IsBefore(b) == False && a.IsAfter(b) == False:
		return 0, true
	}
	return 0, false
}
