package parser

type personEventsParser struct{}

func (personEventsParser) parse(p *Parser) Block {
	const context = "parsing person events"
	kw := p.advance()
	b := &PersonEventsBlock{blockBase: blockBase{line: kw.Line()}}

	ref, ok := p.personRef(&b.blockBase, context)
	if !ok {
		p.recoverToBlock()
		return b
	}
	b.Person = ref
	p.endLine(&b.blockBase, context)
	b.Events = p.eventLines(&b.blockBase, context, TokenEndPevt)
	return b
}

type familyEventsParser struct{}

func (familyEventsParser) parse(p *Parser) Block {
	const context = "parsing family events"
	kw := p.advance()
	b := &FamilyEventsBlock{blockBase: blockBase{line: kw.Line()}}
	p.endLine(&b.blockBase, context)
	b.Events = p.eventLines(&b.blockBase, context, TokenEndFevt)
	return b
}

// eventLines reads event lines up to and including the terminator:
//
//	#tag [date] [#p place] [#s source] [#c reason] [text]
//	wit [m|f]: SURNAME First[.N] [info]
//	note text
//
// Witness and note lines attach to the event above them.
func (p *Parser) eventLines(b *blockBase, context string, end TokenKind) []EventLine {
	var events []EventLine
	for {
		p.skipNewlines()
		tok := p.peek()
		switch {
		case tok.Kind == end:
			p.advance()
			p.endLine(b, context)
			return events
		case tok.Kind == TokenEOF:
			p.fail(b, context, end.String())
			return events
		case tok.Kind == TokenTag:
			events = append(events, p.eventLine(b, context))
		case tok.Kind == TokenWit:
			p.advance()
			w, ok := p.witness(b, context)
			if !ok {
				continue
			}
			if len(events) == 0 {
				p.warn(b, tok, "witness before any event")
				continue
			}
			last := &events[len(events)-1]
			last.Witnesses = append(last.Witnesses, w)
		case tok.Kind == TokenNote:
			p.advance()
			text := p.restOfLine()
			p.endLine(b, context)
			if len(events) == 0 {
				p.warn(b, tok, "note before any event")
				continue
			}
			last := &events[len(events)-1]
			last.Notes = append(last.Notes, text)
		case IsBlockStart(tok.Kind):
			p.fail(b, context, end.String())
			return events
		default:
			p.fail(b, context, "#tag", "wit", "note", end.String())
			p.skipLine()
		}
	}
}

func (p *Parser) eventLine(b *blockBase, context string) EventLine {
	tag := p.advance()
	ev := EventLine{Tag: tag.Literal, Line: tag.Line()}

	if isDateToken(p.peek()) {
		ev.Date = p.advance().Literal
	}
	for !p.atLineEnd() {
		tok := p.peek()
		if tok.Kind == TokenTag {
			switch tok.Literal {
			case "p", "s", "c":
				p.advance()
				if p.atLineEnd() || p.check(TokenTag) {
					p.fail(b, context, "value for #"+tok.Literal)
					continue
				}
				v := p.advance().Literal
				switch tok.Literal {
				case "p":
					ev.Place = v
				case "s":
					ev.Source = v
				case "c":
					ev.Reason = v
				}
				continue
			}
		}
		first := p.advance()
		last := first
		for !p.atLineEnd() && !p.isEventField() {
			last = p.advance()
		}
		if ev.Text != "" {
			ev.Text += " "
		}
		ev.Text += p.source(first, last)
	}
	p.endLine(b, context)
	return ev
}

func (p *Parser) isEventField() bool {
	tok := p.peek()
	if tok.Kind != TokenTag {
		return false
	}
	switch tok.Literal {
	case "p", "s", "c":
		return true
	}
	return false
}
