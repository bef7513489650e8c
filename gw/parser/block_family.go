package parser

type familyParser struct{}

// statusTags mark how a couple is related.
var statusTags = map[string]string{
	"nm":  "not-married",
	"eng": "engaged",
	"sep": "separated",
	"div": "divorced",
}

func (familyParser) parse(p *Parser) Block {
	fam := p.advance()
	b := &FamilyBlock{blockBase: blockBase{line: fam.Line()}}

	if p.familyHeader(b) {
		p.familyBody(b)
	} else {
		p.recoverToBlock()
	}
	return b
}

// familyHeader reads
//
//	fam HUSBAND First[.N] [info] + [date] [#nm|#eng|#sep|#div [date]] [#mp place] [#ms source] WIFE First[.N] [info]
func (p *Parser) familyHeader(b *FamilyBlock) bool {
	const context = "parsing family header"

	husband, ok := p.personRef(&b.blockBase, context)
	if !ok {
		return false
	}
	b.Husband = husband
	b.HusbandInfo = p.personInfo(&b.blockBase, context, TokenPlus)

	if p.expect(TokenPlus) == nil {
		p.fail(&b.blockBase, context, "+")
		return false
	}

	if isDateToken(p.peek()) {
		b.MarriageDate = p.advance().Literal
	}
	for p.check(TokenTag) {
		tok := p.advance()
		if status, ok := statusTags[tok.Literal]; ok {
			b.Status = status
			if tok.Literal == "div" && isDateToken(p.peek()) {
				b.DivorceDate = p.advance().Literal
			}
			continue
		}
		switch tok.Literal {
		case "mp", "ms":
			if !p.check(TokenIdent) && !p.check(TokenNumber) {
				p.fail(&b.blockBase, context, "value for #"+tok.Literal)
				return false
			}
			v := p.advance().Literal
			if tok.Literal == "mp" {
				b.MarriagePlace = v
			} else {
				b.MarriageSource = v
			}
		default:
			p.warn(&b.blockBase, tok, "unknown marriage tag #%s", tok.Literal)
		}
	}

	wife, ok := p.personRef(&b.blockBase, context)
	if !ok {
		return false
	}
	b.Wife = wife
	b.WifeInfo = p.personInfo(&b.blockBase, context)
	p.endLine(&b.blockBase, context)
	return true
}

// familyBody reads the witness, source and comment lines, an optional fevt
// block and the children list. The body ends after the children list or at
// the first line that does not belong to a family.
func (p *Parser) familyBody(b *FamilyBlock) {
	const context = "parsing family body"
	for {
		p.skipNewlines()
		tok := p.peek()
		switch tok.Kind {
		case TokenWit:
			p.advance()
			if w, ok := p.witness(&b.blockBase, context); ok {
				b.Witnesses = append(b.Witnesses, w)
			}
		case TokenSrc:
			p.advance()
			b.Sources = append(b.Sources, p.restOfLine())
			p.endLine(&b.blockBase, context)
		case TokenComm:
			p.advance()
			b.Comments = append(b.Comments, p.restOfLine())
			p.endLine(&b.blockBase, context)
		case TokenCbp:
			p.advance()
			b.CommonBirthPlace = p.restOfLine()
			p.endLine(&b.blockBase, context)
		case TokenCsrc:
			p.advance()
			b.CommonSource = p.restOfLine()
			p.endLine(&b.blockBase, context)
		case TokenFevt:
			p.advance()
			p.endLine(&b.blockBase, "parsing family events")
			b.Events = append(b.Events, p.eventLines(&b.blockBase, "parsing family events", TokenEndFevt)...)
		case TokenBeg:
			p.advance()
			p.endLine(&b.blockBase, "parsing children")
			p.children(b)
			return
		default:
			return
		}
	}
}

// witness reads the part of a witness line after "wit":
//
//	[m|f]: SURNAME First[.N] [info]
func (p *Parser) witness(b *blockBase, context string) (Witness, bool) {
	w := Witness{Sex: p.sexMarker()}
	if p.expect(TokenColon) == nil {
		p.fail(b, context, ":")
		p.skipLine()
		return w, false
	}
	ref, ok := p.personRef(b, context)
	if !ok {
		p.skipLine()
		return w, false
	}
	w.Person = ref
	w.Info = p.personInfo(b, context)
	p.endLine(b, context)
	return w, true
}

// children reads child lines up to "end":
//
//	- [h|f] [SURNAME] First[.N] [info]
func (p *Parser) children(b *FamilyBlock) {
	const context = "parsing children"
	for {
		p.skipNewlines()
		switch {
		case p.check(TokenEnd):
			p.advance()
			p.endLine(&b.blockBase, context)
			return
		case p.check(TokenEOF):
			p.fail(&b.blockBase, context, "end")
			return
		case p.check(TokenDash):
			if c, ok := p.child(&b.blockBase, context); ok {
				b.Children = append(b.Children, c)
			}
		case IsBlockStart(p.peek().Kind):
			p.fail(&b.blockBase, context, "-", "end")
			return
		default:
			p.fail(&b.blockBase, context, "-", "end")
			p.skipLine()
		}
	}
}

func (p *Parser) child(b *blockBase, context string) (Child, bool) {
	p.advance()
	c := Child{Sex: p.sexMarker()}
	c.Person.Line = p.peek().Line()

	name := p.expect(TokenIdent)
	if name == nil {
		p.fail(b, context, "first name")
		p.skipLine()
		return c, false
	}
	if second := p.expect(TokenIdent); second != nil {
		c.Person.LastName = name.Literal
		c.Person.FirstName = second.Literal
	} else {
		c.Person.FirstName = name.Literal
	}
	c.Person.Occurrence = p.occurrence()
	c.Info = p.personInfo(b, context)
	p.endLine(b, context)
	return c, true
}
