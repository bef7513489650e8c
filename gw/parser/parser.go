package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/geneweb/gw/diag"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithStartLine numbers the first line of the input. The streaming reader
// uses it so that diagnostics refer to lines of the whole file.
func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithPatternCache shares a compiled-pattern cache with the parser's lexer.
func WithPatternCache(pc *PatternCache) Option {
	return func(p *Parser) {
		p.patterns = pc
	}
}

// Directives are the file-level header settings.
type Directives struct {
	Encoding string
	GWPlus   bool
}

// blockParser parses one kind of top-level block. The parser is positioned
// on the block keyword.
type blockParser interface {
	parse(p *Parser) Block
}

// blockParsers dispatches on the keyword that opens a block.
var blockParsers = map[TokenKind]blockParser{
	TokenFam:        familyParser{},
	TokenNotes:      textParser{kind: BlockNotes, name: "notes", subject: true},
	TokenRel:        relationsParser{},
	TokenPevt:       personEventsParser{},
	TokenFevt:       familyEventsParser{},
	TokenNotesDB:    textParser{kind: BlockDatabaseNotes, name: "notes-db"},
	TokenPageExt:    textParser{kind: BlockExtendedPage, name: "page-ext", subject: true},
	TokenWizardNote: textParser{kind: BlockWizardNote, name: "wizard-note", subject: true},
}

// Parser reads gw blocks one at a time.
type Parser struct {
	file       string
	startLine  int
	patterns   *PatternCache
	reader     io.Reader
	input      []byte
	lexer      *Lexer
	buf        []Token
	directives Directives
}

// New returns a parser over UTF-8 input read from r. Input is read on the
// first call to Next.
func New(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		startLine: 1,
		reader:    r,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromBytes is like New for input already in memory.
func NewFromBytes(input []byte, opts ...Option) *Parser {
	p := New(nil, opts...)
	p.input = input
	return p
}

func (p *Parser) init() error {
	if p.lexer != nil {
		return nil
	}
	if p.input == nil && p.reader != nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return err
		}
		p.input = data
	}
	p.lexer = NewLexer(p.input, p.file, p.patterns)
	p.lexer.SetLine(p.startLine)
	return nil
}

func (p *Parser) Directives() Directives {
	return p.directives
}

// Next returns the next block, or io.EOF when the input is exhausted.
// Syntax problems do not produce an error: they are attached to the
// returned block.
func (p *Parser) Next() (Block, error) {
	if err := p.init(); err != nil {
		return nil, err
	}
	for {
		p.skipNewlines()
		tok := p.peek()
		if tok.Kind == TokenEOF {
			return nil, io.EOF
		}
		if p.directive() {
			continue
		}
		if bp, ok := blockParsers[tok.Kind]; ok {
			return bp.parse(p), nil
		}
		return p.badBlock(), nil
	}
}

// ParseAll reads every block.
func (p *Parser) ParseAll() ([]Block, error) {
	var blocks []Block
	for {
		b, err := p.Next()
		if err == io.EOF {
			return blocks, nil
		}
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, b)
	}
}

func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		tok := p.lexer.NextToken()
		if tok.Kind == TokenComment {
			continue
		}
		p.buf = append(p.buf, tok)
		if tok.Kind == TokenEOF {
			for len(p.buf) <= n {
				p.buf = append(p.buf, tok)
			}
		}
	}
}

func (p *Parser) peek() Token {
	p.fill(0)
	return p.buf[0]
}

func (p *Parser) peekN(n int) Token {
	p.fill(n)
	return p.buf[n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.buf = p.buf[1:]
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.peek().Span.Start.Offset
	return func() bool {
		if p.peek().Span.Start.Offset == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) atLineEnd() bool {
	return p.match(TokenNewline, TokenEOF)
}

func (p *Parser) skipNewlines() {
	for p.check(TokenNewline) {
		p.advance()
	}
}

// sexMarker reads an optional h, f or m. It must be called with no token
// buffered so that the lexer can classify the next word in marker mode.
func (p *Parser) sexMarker() string {
	if len(p.buf) == 0 {
		p.lexer.SetMode(ModeSexMarker)
		p.peek()
		p.lexer.SetMode(ModeDefault)
	}
	tok := p.peek()
	if tok.Kind == TokenSex {
		p.advance()
		return tok.Literal
	}
	return ""
}

// rawLine reads the rest of the current line as text. Any buffered token
// must belong to a fresh line.
func (p *Parser) rawLine() (string, int, bool) {
	line := p.lexer.Position().Line
	s, ok := p.lexer.ReadRawLine()
	return s, line, ok
}

// describe renders a token for a diagnostic's "found" field.
func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return ""
	case TokenNewline:
		return "newline"
	case TokenTag:
		return "#" + tok.Literal
	}
	return tok.Literal
}

// fail records a syntax error at the current token.
func (p *Parser) fail(b *blockBase, context string, expected ...string) {
	tok := p.peek()
	e := diag.Syntax(tok.Line(), context, describe(tok), expected...)
	e.File = p.file
	e.Column = tok.Span.Start.Column
	b.addError(e)
}

func (p *Parser) warn(b *blockBase, tok Token, format string, args ...any) {
	e := diag.Warn(tok.Line(), format, args...)
	e.File = p.file
	b.addError(e)
}

// skipLine discards tokens up to and including the next newline.
func (p *Parser) skipLine() {
	for !p.check(TokenEOF) {
		if p.advance().Kind == TokenNewline {
			return
		}
	}
}

// endLine consumes the end of a line, reporting anything left on it.
func (p *Parser) endLine(b *blockBase, context string) {
	if p.atLineEnd() {
		p.expect(TokenNewline)
		return
	}
	p.fail(b, context, "newline")
	p.skipLine()
}

// recoverToBlock skips input up to the next block keyword or header
// directive.
func (p *Parser) recoverToBlock() {
	for !p.check(TokenEOF) {
		tok := p.peek()
		if IsBlockStart(tok.Kind) || tok.Kind == TokenEncoding || tok.Kind == TokenGwplus {
			return
		}
		if tok.Kind == TokenLBracket && tok.Span.Start.Column == 1 {
			return
		}
		p.advance()
	}
}

func (p *Parser) badBlock() Block {
	b := &BadBlock{blockBase: blockBase{line: p.peek().Line()}}
	p.fail(&b.blockBase, "reading top-level block",
		"fam", "notes", "rel", "pevt", "fevt", "notes-db", "page-ext", "wizard-note")
	p.recoverToBlock()
	return b
}

// directive consumes a header line such as "encoding: utf-8", "gwplus" or
// their bracketed forms.
func (p *Parser) directive() bool {
	tok := p.peek()
	switch {
	case tok.Kind == TokenEncoding && p.peekN(1).Kind == TokenColon:
		p.advance()
		p.advance()
		if v := p.peek(); !p.atLineEnd() {
			p.directives.Encoding = strings.ToLower(v.Literal)
		}
		p.skipLine()
		return true
	case tok.Kind == TokenGwplus:
		p.directives.GWPlus = true
		p.skipLine()
		return true
	case tok.Kind == TokenLBracket && tok.Span.Start.Column == 1:
		p.advance()
		text, _, _ := p.rawLine()
		p.buf = nil
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "]"))
		if name, value, ok := strings.Cut(text, ":"); ok && strings.TrimSpace(name) == "encoding" {
			p.directives.Encoding = strings.ToLower(strings.TrimSpace(value))
		} else if text == "gwplus" {
			p.directives.GWPlus = true
		}
		return true
	}
	return false
}

// source returns the input text covered by tokens from first through last.
func (p *Parser) source(first, last Token) string {
	return p.lexer.Source(first.Span.Start.Offset, last.Span.End.Offset)
}

// restOfLine collects the remaining tokens of the line as source text.
func (p *Parser) restOfLine() string {
	if p.atLineEnd() {
		return ""
	}
	first := p.peek()
	last := first
	for !p.atLineEnd() {
		last = p.advance()
	}
	return p.source(first, last)
}

// personRef reads "LastName FirstName[.N]".
func (p *Parser) personRef(b *blockBase, context string) (PersonRef, bool) {
	ref := PersonRef{Line: p.peek().Line()}
	last := p.expect(TokenIdent)
	if last == nil {
		p.fail(b, context, "surname")
		return ref, false
	}
	ref.LastName = last.Literal
	first := p.expect(TokenIdent)
	if first == nil {
		p.fail(b, context, "first name")
		return ref, false
	}
	ref.FirstName = first.Literal
	ref.Occurrence = p.occurrence()
	return ref, true
}

func (p *Parser) occurrence() int {
	tok := p.expect(TokenOccurrence)
	if tok == nil {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimPrefix(tok.Literal, "."))
	return n
}

func isDateToken(tok Token) bool {
	return tok.Kind == TokenDate || tok.Kind == TokenNumber
}
