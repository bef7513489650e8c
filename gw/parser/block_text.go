package parser

import "strings"

// textParser reads blocks whose body is free text closed by a terminator
// line: notes, notes-db, page-ext and wizard-note.
type textParser struct {
	kind    BlockKind
	name    string
	subject bool
}

func (tp textParser) parse(p *Parser) Block {
	context := "parsing " + tp.name + " block"
	end := "end " + tp.name
	kw := p.advance()
	b := &TextBlock{kind: tp.kind, blockBase: blockBase{line: kw.Line()}}

	if tp.subject {
		ref, ok := p.personRef(&b.blockBase, context)
		if !ok {
			p.skipLine()
		} else {
			b.Person = ref
			p.endLine(&b.blockBase, context)
		}
	} else {
		p.endLine(&b.blockBase, context)
	}

	var lines []string
	for {
		line, _, ok := p.rawLine()
		if !ok {
			p.fail(&b.blockBase, context, end)
			break
		}
		if strings.TrimSpace(line) == end {
			break
		}
		// Person notes may open their body with "beg".
		if tp.kind == BlockNotes && lines == nil && strings.TrimSpace(line) == "beg" {
			lines = []string{}
			continue
		}
		lines = append(lines, line)
	}
	b.Text = strings.TrimRight(strings.Join(lines, "\n"), "\n")
	return b
}

type relationsParser struct{}

// relationTypes are the kinds of non-biological parent links.
var relationTypes = map[string]bool{
	"adop": true,
	"reco": true,
	"cand": true,
	"godp": true,
	"fost": true,
}

// parse reads
//
//	rel SURNAME First[.N]
//	beg
//	- adop|reco|cand|godp|fost [fath|moth]: SURNAME First[.N] [+ SURNAME First[.N]]
//	end
func (relationsParser) parse(p *Parser) Block {
	const context = "parsing relations"
	kw := p.advance()
	b := &RelationsBlock{blockBase: blockBase{line: kw.Line()}}

	ref, ok := p.personRef(&b.blockBase, context)
	if !ok {
		p.recoverToBlock()
		return b
	}
	b.Person = ref
	p.endLine(&b.blockBase, context)

	p.skipNewlines()
	if p.check(TokenBeg) {
		p.advance()
		p.endLine(&b.blockBase, context)
	}

	for {
		p.skipNewlines()
		tok := p.peek()
		switch {
		case tok.Kind == TokenEnd:
			p.advance()
			p.endLine(&b.blockBase, context)
			return b
		case tok.Kind == TokenDash:
			b.Relations = append(b.Relations, p.relationLine(&b.blockBase, context)...)
		case tok.Kind == TokenEOF || IsBlockStart(tok.Kind):
			p.fail(&b.blockBase, context, "end")
			return b
		default:
			p.fail(&b.blockBase, context, "-", "end")
			p.skipLine()
		}
	}
}

func (p *Parser) relationLine(b *blockBase, context string) []Relation {
	p.advance()
	typ := p.peek()
	if typ.Kind != TokenIdent || !relationTypes[typ.Literal] {
		p.fail(b, context, "adop", "reco", "cand", "godp", "fost")
		p.skipLine()
		return nil
	}
	p.advance()

	role := ""
	if r := p.peek(); r.Kind == TokenIdent && (r.Literal == "fath" || r.Literal == "moth") {
		role = r.Literal
		p.advance()
	}
	if p.expect(TokenColon) == nil {
		p.fail(b, context, ":")
		p.skipLine()
		return nil
	}

	first, ok := p.personRef(b, context)
	if !ok {
		p.skipLine()
		return nil
	}
	rels := []Relation{{Type: typ.Literal, Role: role, Person: first, Line: typ.Line()}}

	if p.expect(TokenPlus) != nil {
		second, ok := p.personRef(b, context)
		if !ok {
			p.skipLine()
			return rels
		}
		if role == "" {
			rels[0].Role = "fath"
		}
		rels = append(rels, Relation{Type: typ.Literal, Role: "moth", Person: second, Line: typ.Line()})
	}
	p.endLine(b, context)
	return rels
}
