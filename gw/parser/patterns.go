package parser

import (
	"regexp"

	gocache "github.com/patrickmn/go-cache"
)

// Expressions the lexer and parser classify words with.
const (
	// dateShape matches the numeric date words: qualifier, bodies joined by
	// | or .., calendar suffix.
	dateShape = `^[~?<>]?\d+(/\d*){0,2}((\||\.\.)\d+(/\d*){0,2})*[JFH]?$`

	// deathDateShape matches a date carrying a k/m/e/s death marker.
	deathDateShape = `^[~?<>]?[kmes][~?<>]?\d+(/\d*){0,2}((\||\.\.)\d+(/\d*){0,2})*[JFH]?$`

	// textDateShape matches 0(free_text).
	textDateShape = `^0\([^()]+\)$`
)

// PatternCache holds compiled regular expressions keyed by their source.
// A cache is safe for concurrent use and may be shared by the lexers of
// several parses. The zero value is not usable; call NewPatternCache.
type PatternCache struct {
	c *gocache.Cache
}

func NewPatternCache() *PatternCache {
	return &PatternCache{c: gocache.New(gocache.NoExpiration, 0)}
}

// Compile returns the compiled form of expr, compiling it on first use.
func (pc *PatternCache) Compile(expr string) (*regexp.Regexp, error) {
	if v, ok := pc.c.Get(expr); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	pc.c.Set(expr, re, gocache.NoExpiration)
	return re, nil
}

// MustCompile is like Compile but panics on an invalid expression. It is
// meant for the package's own constant expressions.
func (pc *PatternCache) MustCompile(expr string) *regexp.Regexp {
	re, err := pc.Compile(expr)
	if err != nil {
		panic("parser: bad pattern " + expr + ": " + err.Error())
	}
	return re
}

func (pc *PatternCache) Len() int {
	return pc.c.ItemCount()
}

// Reset drops every compiled expression.
func (pc *PatternCache) Reset() {
	pc.c.Flush()
}

func (pc *PatternCache) isDate(word string) bool {
	return pc.MustCompile(dateShape).MatchString(word) ||
		pc.MustCompile(textDateShape).MatchString(word)
}

func (pc *PatternCache) isDeathDate(word string) bool {
	return pc.MustCompile(deathDateShape).MatchString(word)
}
