package parser

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenNewline
	TokenComment

	// Words
	TokenIdent
	TokenNumber
	TokenOccurrence
	TokenDate
	TokenTag
	TokenSex

	// Symbols
	TokenPlus
	TokenDash
	TokenColon
	TokenBang
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket

	// Keywords, only recognized as the first word of a line
	TokenFam
	TokenNotes
	TokenRel
	TokenPevt
	TokenFevt
	TokenNotesDB
	TokenPageExt
	TokenWizardNote
	TokenBeg
	TokenEnd
	TokenWit
	TokenSrc
	TokenComm
	TokenCbp
	TokenCsrc
	TokenNote
	TokenEncoding
	TokenGwplus

	// Compound terminators
	TokenEndNotes
	TokenEndPevt
	TokenEndFevt
	TokenEndNotesDB
	TokenEndPageExt
	TokenEndWizardNote
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenNewline:       "newline",
	TokenComment:       "Comment",
	TokenIdent:         "Identifier",
	TokenNumber:        "Number",
	TokenOccurrence:    "Occurrence",
	TokenDate:          "Date",
	TokenTag:           "Tag",
	TokenSex:           "Sex",
	TokenPlus:          "+",
	TokenDash:          "-",
	TokenColon:         ":",
	TokenBang:          "!",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenFam:           "fam",
	TokenNotes:         "notes",
	TokenRel:           "rel",
	TokenPevt:          "pevt",
	TokenFevt:          "fevt",
	TokenNotesDB:       "notes-db",
	TokenPageExt:       "page-ext",
	TokenWizardNote:    "wizard-note",
	TokenBeg:           "beg",
	TokenEnd:           "end",
	TokenWit:           "wit",
	TokenSrc:           "src",
	TokenComm:          "comm",
	TokenCbp:           "cbp",
	TokenCsrc:          "csrc",
	TokenNote:          "note",
	TokenEncoding:      "encoding",
	TokenGwplus:        "gwplus",
	TokenEndNotes:      "end notes",
	TokenEndPevt:       "end pevt",
	TokenEndFevt:       "end fevt",
	TokenEndNotesDB:    "end notes-db",
	TokenEndPageExt:    "end page-ext",
	TokenEndWizardNote: "end wizard-note",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// Line is the 1-based line the token starts on.
func (t Token) Line() int {
	return t.Span.Start.Line
}

var keywords = map[string]TokenKind{
	"fam":         TokenFam,
	"notes":       TokenNotes,
	"rel":         TokenRel,
	"pevt":        TokenPevt,
	"fevt":        TokenFevt,
	"notes-db":    TokenNotesDB,
	"page-ext":    TokenPageExt,
	"wizard-note": TokenWizardNote,
	"beg":         TokenBeg,
	"end":         TokenEnd,
	"wit":         TokenWit,
	"src":         TokenSrc,
	"comm":        TokenComm,
	"cbp":         TokenCbp,
	"csrc":        TokenCsrc,
	"note":        TokenNote,
	"encoding":    TokenEncoding,
	"gwplus":      TokenGwplus,
}

// terminators maps the word following "end" to its compound token.
var terminators = map[string]TokenKind{
	"notes":       TokenEndNotes,
	"pevt":        TokenEndPevt,
	"fevt":        TokenEndFevt,
	"notes-db":    TokenEndNotesDB,
	"page-ext":    TokenEndPageExt,
	"wizard-note": TokenEndWizardNote,
}

// LookupKeyword returns the keyword kind of ident, or TokenIdent.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// IsBlockStart reports whether kind opens a top-level block.
func IsBlockStart(kind TokenKind) bool {
	switch kind {
	case TokenFam, TokenNotes, TokenRel, TokenPevt, TokenFevt,
		TokenNotesDB, TokenPageExt, TokenWizardNote:
		return true
	}
	return false
}

// symbols is indexed by byte for constant-time classification of
// single-character tokens.
var symbols = func() [256]TokenKind {
	var t [256]TokenKind
	for i := range t {
		t[i] = TokenError
	}
	t['+'] = TokenPlus
	t['-'] = TokenDash
	t[':'] = TokenColon
	t['!'] = TokenBang
	t['('] = TokenLParen
	t[')'] = TokenRParen
	t['{'] = TokenLBrace
	t['}'] = TokenRBrace
	t['['] = TokenLBracket
	t[']'] = TokenRBracket
	t['\n'] = TokenNewline
	return t
}()

// LookupSymbol classifies a single byte. It returns TokenError for bytes
// that do not form a token on their own.
func LookupSymbol(ch byte) TokenKind {
	return symbols[ch]
}
