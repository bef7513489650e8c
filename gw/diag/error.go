// Package diag defines the error values produced while reading gw files and
// the Collector that accumulates them under a strict or graceful policy.
package diag

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityWarning:  "WARNING",
	SeverityError:    "ERROR",
	SeverityCritical: "CRITICAL",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "Unknown"
}

type Kind int

const (
	KindEncoding Kind = iota
	KindSyntax
	KindSemantic
	KindValidation
	KindWarning
)

var kindNames = map[Kind]string{
	KindEncoding:   "EncodingError",
	KindSyntax:     "SyntaxError",
	KindSemantic:   "SemanticError",
	KindValidation: "ValidationError",
	KindWarning:    "ParseWarning",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error is a single diagnostic. It is never mutated after being added to a
// Collector, except to fill an empty Context.
type Error struct {
	Kind     Kind
	Severity Severity
	Message  string
	File     string
	Line     int
	Column   int
	Context  string

	// Syntax errors.
	Found    string
	Expected []string

	// Validation errors.
	Entity   string
	EntityID string
	Field    string
	Value    string

	// Encoding errors.
	Encoding string
	Offset   int
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteByte(':')
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d: ", e.Line)
	} else if e.File != "" {
		sb.WriteByte(' ')
	}
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Found != "" || len(e.Expected) > 0 {
		sb.WriteString(" (")
		if e.Found != "" {
			fmt.Fprintf(&sb, "found %q", e.Found)
		}
		if len(e.Expected) > 0 {
			if e.Found != "" {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "expected %s", strings.Join(e.Expected, " or "))
		}
		sb.WriteByte(')')
	}
	if e.Context != "" {
		fmt.Fprintf(&sb, " while %s", e.Context)
	}
	return sb.String()
}

func (e *Error) IsFatal() bool {
	return e.Severity >= SeverityError
}

// Syntax returns an ERROR for an unexpected token.
func Syntax(line int, context, found string, expected ...string) *Error {
	msg := "unexpected input"
	if found == "" {
		msg = "unexpected end of input"
	}
	return &Error{
		Kind:     KindSyntax,
		Severity: SeverityError,
		Message:  msg,
		Line:     line,
		Context:  context,
		Found:    found,
		Expected: expected,
	}
}

func Semantic(line int, format string, args ...any) *Error {
	return &Error{
		Kind:     KindSemantic,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	}
}

func Warn(line int, format string, args ...any) *Error {
	return &Error{
		Kind:     KindWarning,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	}
}

// Encoding returns the CRITICAL error raised when input bytes cannot be
// decoded. offset is the byte position of the first bad byte.
func Encoding(encoding string, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:     KindEncoding,
		Severity: SeverityCritical,
		Message:  fmt.Sprintf(format, args...),
		Encoding: encoding,
		Offset:   offset,
	}
}

// Validation returns a post-build validation finding on one entity.
func Validation(sev Severity, entity, id, field string, format string, args ...any) *Error {
	return &Error{
		Kind:     KindValidation,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Entity:   entity,
		EntityID: id,
		Field:    field,
	}
}
