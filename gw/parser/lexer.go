package parser

// Mode selects how ambiguous words are classified. The parser switches to
// ModeSexMarker just before reading the position where h, f or m denote a
// sex rather than a name.
type Mode int

const (
	ModeDefault Mode = iota
	ModeSexMarker
)

type Lexer struct {
	input     []byte
	file      string
	pos       int
	line      int
	column    int
	lineStart bool
	mode      Mode
	patterns  *PatternCache
}

// NewLexer returns a lexer over UTF-8 input. patterns may be shared between
// lexers; nil gives the lexer a cache of its own.
func NewLexer(input []byte, file string, patterns *PatternCache) *Lexer {
	if patterns == nil {
		patterns = NewPatternCache()
	}
	return &Lexer{
		input:     input,
		file:      file,
		pos:       0,
		line:      1,
		column:    1,
		lineStart: true,
		patterns:  patterns,
	}
}

// SetLine sets the number of the line the lexer is positioned on.
func (l *Lexer) SetLine(line int) {
	l.line = line
}

func (l *Lexer) SetMode(mode Mode) {
	l.mode = mode
}

func (l *Lexer) Mode() Mode {
	return l.mode
}

func (l *Lexer) Patterns() *PatternCache {
	return l.patterns
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) skipBlanks() {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			return
		}
	}
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == 0
}

// isDelimiter reports whether ch ends a word.
func isDelimiter(ch byte) bool {
	if isBlank(ch) {
		return true
	}
	switch ch {
	case ':', '(', ')', '{', '}', '[', ']', '#':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

// NextToken returns the next token. Blanks other than newlines are skipped.
func (l *Lexer) NextToken() Token {
	l.skipBlanks()
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	atLineStart := l.lineStart
	l.lineStart = false
	ch := l.peek()

	switch {
	case ch == '\n':
		l.advance()
		l.lineStart = true
		return l.token(TokenNewline, startPos)
	case ch == '#' && atLineStart && isBlank(l.peekN(1)):
		return l.scanComment(startPos)
	case ch == '#':
		return l.scanTag(startPos)
	case ch == '.' && isDigit(l.peekN(1)):
		return l.scanOccurrence(startPos)
	case ch == '0' && l.peekN(1) == '(':
		return l.scanTextDate(startPos)
	case isDigit(ch):
		return l.scanNumeric(startPos)
	case (ch == '~' || ch == '<' || ch == '>' || ch == '?') && (isDigit(l.peekN(1)) || isDeathMarker(l.peekN(1))):
		return l.scanNumeric(startPos)
	case ch == '-' && isDelimiter(l.peekN(1)):
		l.advance()
		return l.token(TokenDash, startPos)
	case isLetter(ch) || ch == '_' || ch == '?' || ch == '-' || ch == '\'':
		return l.scanWord(startPos, atLineStart)
	}

	if kind := LookupSymbol(ch); kind != TokenError {
		l.advance()
		return l.token(kind, startPos)
	}
	if isDelimiter(ch) {
		l.advance()
		return l.token(TokenError, startPos)
	}
	return l.scanWord(startPos, atLineStart)
}

func isDeathMarker(ch byte) bool {
	return ch == 'k' || ch == 'm' || ch == 'e' || ch == 's'
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: l.Position()},
		Literal: string(l.input[start.Offset:l.pos]),
	}
}

func (l *Lexer) scanComment(start Position) Token {
	for l.peek() != '\n' && l.pos < len(l.input) {
		l.advance()
	}
	l.lineStart = true
	return l.token(TokenComment, start)
}

func (l *Lexer) scanTag(start Position) Token {
	l.advance()
	for !isDelimiter(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenTag, start)
	tok.Literal = tok.Literal[1:]
	return tok
}

func (l *Lexer) scanOccurrence(start Position) Token {
	l.advance()
	for isDigit(l.peek()) {
		l.advance()
	}
	return l.token(TokenOccurrence, start)
}

func (l *Lexer) scanTextDate(start Position) Token {
	for l.peek() != ')' && !isBlank(l.peek()) {
		l.advance()
	}
	if l.peek() == ')' {
		l.advance()
	}
	return l.token(TokenDate, start)
}

// scanNumeric reads a word that starts like a number or a date and
// classifies it as a number, a date, or a plain word.
func (l *Lexer) scanNumeric(start Position) Token {
	for !isDelimiter(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenIdent, start)
	switch {
	case isAllDigits(tok.Literal):
		tok.Kind = TokenNumber
	case l.patterns.isDate(tok.Literal) || l.patterns.isDeathDate(tok.Literal):
		tok.Kind = TokenDate
	}
	return tok
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// scanWord reads a name-like word. A trailing ".N" is left for the next
// token so that "Jean.1" yields the name and its occurrence number.
func (l *Lexer) scanWord(start Position, atLineStart bool) Token {
	for {
		ch := l.peek()
		if isDelimiter(ch) {
			break
		}
		if ch == '.' && isDigit(l.peekN(1)) && l.occurrenceAhead() {
			break
		}
		l.advance()
	}
	tok := l.token(TokenIdent, start)

	if l.mode == ModeSexMarker {
		switch tok.Literal {
		case "h", "f", "m":
			tok.Kind = TokenSex
			return tok
		}
	}

	if atLineStart {
		if kind := LookupKeyword(tok.Literal); kind != TokenIdent {
			tok.Kind = kind
			if kind == TokenEnd {
				l.scanTerminator(&tok)
			}
			return tok
		}
	}

	if isDeathMarker(tok.Literal[0]) && l.patterns.isDeathDate(tok.Literal) {
		tok.Kind = TokenDate
	}
	return tok
}

// occurrenceAhead reports whether the input at pos is ".digits" followed by
// a delimiter.
func (l *Lexer) occurrenceAhead() bool {
	i := l.pos + 1
	for i < len(l.input) && isDigit(l.input[i]) {
		i++
	}
	return i >= len(l.input) || isDelimiter(l.input[i])
}

// scanTerminator extends an "end" keyword into "end notes", "end pevt" and
// the other compound terminators when the rest of the line names a block.
func (l *Lexer) scanTerminator(tok *Token) {
	i := l.pos
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	j := i
	for j < len(l.input) && !isBlank(l.input[j]) {
		j++
	}
	kind, ok := terminators[string(l.input[i:j])]
	if !ok {
		return
	}
	k := j
	for k < len(l.input) && (l.input[k] == ' ' || l.input[k] == '\t' || l.input[k] == '\r') {
		k++
	}
	if k < len(l.input) && l.input[k] != '\n' {
		return
	}
	for l.pos < j {
		l.advance()
	}
	tok.Kind = kind
	tok.Literal = "end " + string(l.input[i:j])
	tok.Span.End = l.Position()
}

// ReadRawLine returns the rest of the current line verbatim, without its
// line terminator, and moves to the start of the next line. ok is false at
// end of input.
func (l *Lexer) ReadRawLine() (line string, ok bool) {
	if l.pos >= len(l.input) {
		return "", false
	}
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
	end := l.pos
	if l.pos < len(l.input) {
		l.advance()
	}
	l.lineStart = true
	if end > start && l.input[end-1] == '\r' {
		end--
	}
	return string(l.input[start:end]), true
}

// Source returns the input between two offsets.
func (l *Lexer) Source(start, end int) string {
	if start < 0 || end > len(l.input) || start > end {
		return ""
	}
	return string(l.input[start:end])
}
