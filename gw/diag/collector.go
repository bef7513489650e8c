package diag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAborted is wrapped by the error Add returns when a diagnostic stops the
// parse: any CRITICAL, or any ERROR in strict mode.
var ErrAborted = errors.New("parse aborted")

// Collector accumulates diagnostics for one parse. It is owned by a single
// pipeline and is not safe for concurrent use.
type Collector struct {
	strict bool
	errs   []*Error
}

func NewCollector(strict bool) *Collector {
	return &Collector{strict: strict}
}

func (c *Collector) Strict() bool {
	return c.strict
}

// Add records e. The returned error is non-nil when the parse must stop; it
// wraps both ErrAborted and e.
func (c *Collector) Add(e *Error) error {
	if e == nil {
		return nil
	}
	c.errs = append(c.errs, e)
	if e.Severity == SeverityCritical || (c.strict && e.IsFatal()) {
		return fmt.Errorf("%w: %w", ErrAborted, e)
	}
	return nil
}

// Warn records a warning. Warnings never stop a parse.
func (c *Collector) Warn(line int, format string, args ...any) {
	c.errs = append(c.errs, Warn(line, format, args...))
}

// Scope marks the start of a unit of work named context. The returned
// function is meant to be deferred with a pointer to the caller's named
// error result: it labels diagnostics recorded inside the scope and, when
// the scope recorded a fatal diagnostic and no error is being returned yet,
// sets *errp according to the collector's policy.
func (c *Collector) Scope(context string) func(errp *error) {
	start := len(c.errs)
	return func(errp *error) {
		var fatal *Error
		for _, e := range c.errs[start:] {
			if e.Context == "" {
				e.Context = context
			}
			if fatal == nil && (e.Severity == SeverityCritical || (c.strict && e.IsFatal())) {
				fatal = e
			}
		}
		if errp != nil && *errp == nil && fatal != nil {
			*errp = fmt.Errorf("%w: %w", ErrAborted, fatal)
		}
	}
}

func (c *Collector) Errors() []*Error {
	return c.errs
}

func (c *Collector) Len() int {
	return len(c.errs)
}

// Count returns the number of diagnostics at exactly sev.
func (c *Collector) Count(sev Severity) int {
	n := 0
	for _, e := range c.errs {
		if e.Severity == sev {
			n++
		}
	}
	return n
}

func (c *Collector) BySeverity(sev Severity) []*Error {
	var out []*Error
	for _, e := range c.errs {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns the diagnostics of the given kind.
func (c *Collector) Filter(kind Kind) []*Error {
	var out []*Error
	for _, e := range c.errs {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// HasErrors reports whether any ERROR or CRITICAL was recorded.
func (c *Collector) HasErrors() bool {
	for _, e := range c.errs {
		if e.IsFatal() {
			return true
		}
	}
	return false
}

func (c *Collector) HasCritical() bool {
	return c.Count(SeverityCritical) > 0
}

// Summary returns a one-line count of diagnostics.
func (c *Collector) Summary() string {
	if len(c.errs) == 0 {
		return "no errors"
	}
	crit := c.Count(SeverityCritical)
	errs := c.Count(SeverityError)
	warns := c.Count(SeverityWarning)

	var parts []string
	if crit > 0 {
		parts = append(parts, plural(crit, "critical error"))
	}
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

// Report renders every diagnostic, grouped by kind and ordered by line.
func (c *Collector) Report() string {
	if len(c.errs) == 0 {
		return "no errors\n"
	}
	byKind := make(map[Kind][]*Error)
	var kinds []Kind
	for _, e := range c.errs {
		if _, ok := byKind[e.Kind]; !ok {
			kinds = append(kinds, e.Kind)
		}
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", c.Summary())
	for _, k := range kinds {
		errs := byKind[k]
		sort.SliceStable(errs, func(i, j int) bool { return errs[i].Line < errs[j].Line })
		fmt.Fprintf(&sb, "\n%s (%d):\n", k, len(errs))
		for _, e := range errs {
			fmt.Fprintf(&sb, "  [%s] %s\n", e.Severity, e.Error())
		}
	}
	return sb.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
