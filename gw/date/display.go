package date

import (
	"strconv"
	"strings"
)

// Display renders d in canonical gw syntax. Parse(d.Display()) yields a Date
// equal to d; dates with a death type need ParseDeath.
func (d *Date) Display() string {
	if d == nil {
		return ""
	}
	if d.Unknown {
		return "0"
	}
	if d.Text != "" {
		return "0(" + EncodeText(d.Text) + ")"
	}

	var sb strings.Builder
	sb.WriteString(deathTypeSymbols[d.Death])
	sb.WriteString(qualifierSymbols[d.Qualifier])
	writeBody(&sb, d.Body)

	sep := "|"
	if d.Alternation == Between {
		sep = ".."
	}
	for _, alt := range d.Alternatives {
		sb.WriteString(sep)
		writeBody(&sb, alt)
	}

	sb.WriteString(d.Calendar.Suffix())
	return sb.String()
}

func writeBody(sb *strings.Builder, b Body) {
	if b.Day != 0 {
		sb.WriteString(strconv.Itoa(b.Day))
		sb.WriteByte('/')
	}
	if b.Month != 0 {
		sb.WriteString(strconv.Itoa(b.Month))
		sb.WriteByte('/')
	}
	sb.WriteString(strconv.Itoa(b.Year))
}

// Equal reports whether d and other describe the same structured value.
func (d *Date) Equal(other *Date) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Qualifier != other.Qualifier || d.Body != other.Body ||
		d.Calendar != other.Calendar || d.Alternation != other.Alternation ||
		d.Text != other.Text || d.Unknown != other.Unknown || d.Death != other.Death {
		return false
	}
	if len(d.Alternatives) != len(other.Alternatives) {
		return false
	}
	for i := range d.Alternatives {
		if d.Alternatives[i] != other.Alternatives[i] {
			return false
		}
	}
	return true
}
