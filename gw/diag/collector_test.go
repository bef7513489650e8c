package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorGracefulKeepsGoing(t *testing.T) {
	c := NewCollector(false)

	assert.NoError(t, c.Add(Syntax(3, "parsing family header", "foo", "fam")))
	assert.NoError(t, c.Add(Semantic(7, "child without a name")))
	c.Warn(9, "conflicting birth date")

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Count(SeverityError))
	assert.Equal(t, 1, c.Count(SeverityWarning))
	assert.True(t, c.HasErrors())
	assert.False(t, c.HasCritical())
}

func TestCollectorStrictAbortsOnError(t *testing.T) {
	c := NewCollector(true)

	c.Warn(1, "just a warning")
	err := c.Add(Syntax(4, "parsing child list", "+", "-", "end"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAborted))

	var diagErr *Error
	require.True(t, errors.As(err, &diagErr))
	assert.Equal(t, 4, diagErr.Line)
	assert.Equal(t, KindSyntax, diagErr.Kind)
}

func TestCollectorCriticalAlwaysAborts(t *testing.T) {
	c := NewCollector(false)
	err := c.Add(Encoding("utf-8", 12, "invalid byte sequence"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAborted)
	assert.True(t, c.HasCritical())
}

func TestCollectorFilter(t *testing.T) {
	c := NewCollector(false)
	_ = c.Add(Syntax(1, "", "x"))
	_ = c.Add(Validation(SeverityError, "person", "A_B_0", "birth", "birth after death"))
	_ = c.Add(Syntax(2, "", "y"))

	assert.Len(t, c.Filter(KindSyntax), 2)
	assert.Len(t, c.Filter(KindValidation), 1)
	assert.Empty(t, c.Filter(KindEncoding))
	assert.Len(t, c.BySeverity(SeverityError), 3)
}

func TestScopeLabelsAndFinalizes(t *testing.T) {
	c := NewCollector(true)

	work := func() (err error) {
		defer c.Scope("parsing notes block")(&err)
		c.errs = append(c.errs, Semantic(5, "notes for nobody"))
		return nil
	}

	err := work()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, "parsing notes block", c.Errors()[0].Context)
}

func TestScopeGracefulReturnsNil(t *testing.T) {
	c := NewCollector(false)

	work := func() (err error) {
		defer c.Scope("parsing family")(&err)
		return c.Add(Semantic(5, "family without members"))
	}

	assert.NoError(t, work())
	assert.Equal(t, "parsing family", c.Errors()[0].Context)
}

func TestSummaryAndReport(t *testing.T) {
	c := NewCollector(false)
	assert.Equal(t, "no errors", c.Summary())

	_ = c.Add(Syntax(10, "parsing family header", "foo", "fam"))
	_ = c.Add(Syntax(2, "", "bar"))
	c.Warn(4, "odd")

	assert.Equal(t, "2 errors, 1 warning", c.Summary())

	report := c.Report()
	assert.True(t, strings.HasPrefix(report, "2 errors, 1 warning\n"))
	assert.Contains(t, report, "SyntaxError (2):")
	assert.Contains(t, report, "ParseWarning (1):")
	assert.Less(t, strings.Index(report, "2: SyntaxError"), strings.Index(report, "10: SyntaxError"))
}

func TestErrorMessage(t *testing.T) {
	e := Syntax(12, "parsing family header", "+", "name")
	e.File = "base.gw"
	assert.Equal(t, `base.gw:12: SyntaxError: unexpected input (found "+", expected name) while parsing family header`, e.Error())
}
