// Package parser reads GeneWeb .gw source into blocks.
//
// # Overview
//
// A gw file is a sequence of top-level blocks, each introduced by a keyword
// at the start of a line:
//
//	fam         a couple, its witnesses, events and children
//	notes       free-text notes about a person, closed by "end notes"
//	rel         non-biological parent links (adoption, godparents, ...)
//	pevt        events of a person, closed by "end pevt"
//	fevt        events of the family read just before, closed by "end fevt"
//	notes-db    database-wide notes
//	page-ext    an extended page attached to a person
//	wizard-note notes left by a database editor
//
// Header lines "encoding: NAME" and "gwplus" may appear anywhere between
// blocks and are collected in Directives.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (UTF-8)    │     │  (tokens)   │     │  (blocks)   │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │PatternCache │     │ diag.Error  │
//	                    │  (shared)   │     │ per block   │
//	                    └─────────────┘     └─────────────┘
//
// The parser expects UTF-8; package decode converts other encodings
// before the bytes reach the lexer.
//
// # Tokens
//
// Keywords are only keywords as the first word of a line, so a person
// called "Notes" is not mistaken for a block. Words that look like dates
// ("~1850", "1/2/1850J", "k1914", "0(about_1850)") are returned as
// TokenDate; plain digit runs as TokenNumber. A name immediately followed
// by ".N" yields an identifier and a TokenOccurrence.
//
// The letters h, f and m denote a sex only right after a child's dash or
// after "wit". The parser switches the lexer into ModeSexMarker for exactly
// that position.
//
// # Error Recovery
//
// Syntax errors never stop the parser. Each block collects its own
// diagnostics, and a block that failed half way still carries what was read.
// Input that does not start with a block keyword becomes a BadBlock and the
// parser resumes at the next keyword. Callers decide whether an error aborts
// the parse; see diag.Collector.
//
// # Usage
//
//	p := parser.New(r, parser.WithFile("family.gw"))
//	for {
//	    b, err := p.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    switch b := b.(type) {
//	    case *parser.FamilyBlock:
//	        // ...
//	    }
//	}
package parser
