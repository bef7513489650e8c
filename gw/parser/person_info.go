package parser

// valueTags take the next word as their value.
var valueTags = map[string]func(*PersonInfo, string){
	"bp":     func(i *PersonInfo, v string) { i.BirthPlace = v },
	"bs":     func(i *PersonInfo, v string) { i.BirthSource = v },
	"pp":     func(i *PersonInfo, v string) { i.BaptismPlace = v },
	"ps":     func(i *PersonInfo, v string) { i.BaptismSource = v },
	"dp":     func(i *PersonInfo, v string) { i.DeathPlace = v },
	"ds":     func(i *PersonInfo, v string) { i.DeathSource = v },
	"rp":     func(i *PersonInfo, v string) { i.BurialPlace = v },
	"rs":     func(i *PersonInfo, v string) { i.BurialSource = v },
	"src":    func(i *PersonInfo, v string) { i.Source = v },
	"image":  func(i *PersonInfo, v string) { i.Image = v },
	"nick":   func(i *PersonInfo, v string) { i.Nicknames = append(i.Nicknames, v) },
	"alias":  func(i *PersonInfo, v string) { i.Aliases = append(i.Aliases, v) },
	"salias": func(i *PersonInfo, v string) { i.SurnameAliases = append(i.SurnameAliases, v) },
}

// flagTags stand alone.
var flagTags = map[string]func(*PersonInfo){
	"apubl": func(i *PersonInfo) { i.Access = "public" },
	"apriv": func(i *PersonInfo) { i.Access = "private" },
	"od":    func(i *PersonInfo) { i.DeathStatus = "obviously-dead" },
	"mj":    func(i *PersonInfo) { i.DeathStatus = "dead-young" },
}

// personInfo reads the inline information following a person's name. It
// stops, without consuming, at the end of the line, at any of stops, and at
// a token that cannot start an item.
func (p *Parser) personInfo(b *blockBase, context string, stops ...TokenKind) PersonInfo {
	var info PersonInfo
	dates := 0
	for !p.atLineEnd() && !p.match(stops...) {
		progress := p.mustProgress()
		tok := p.peek()
		switch {
		case tok.Kind == TokenLParen:
			info.PublicName = p.enclosed(b, context, TokenRParen)
		case tok.Kind == TokenLBrace:
			info.FirstNameAliases = append(info.FirstNameAliases, p.enclosed(b, context, TokenRBrace))
		case tok.Kind == TokenLBracket:
			info.Titles = append(info.Titles, p.enclosed(b, context, TokenRBracket))
		case tok.Kind == TokenBang:
			p.advance()
			if !isDateToken(p.peek()) {
				p.fail(b, context, "baptism date")
				continue
			}
			info.BaptismDate = p.advance().Literal
		case isDateToken(tok):
			switch dates {
			case 0:
				info.BirthDate = tok.Literal
			case 1:
				info.DeathDate = tok.Literal
			default:
				p.fail(b, context, "tag", "newline")
				p.advance()
				continue
			}
			dates++
			p.advance()
		case tok.Kind == TokenTag:
			p.personTag(b, context, &info)
		default:
			return info
		}
		if !progress() {
			break
		}
	}
	return info
}

func (p *Parser) personTag(b *blockBase, context string, info *PersonInfo) {
	tok := p.advance()
	name := tok.Literal

	if set, ok := valueTags[name]; ok {
		if p.atLineEnd() || p.check(TokenTag) {
			p.fail(b, context, "value for #"+name)
			return
		}
		set(info, p.advance().Literal)
		return
	}
	if set, ok := flagTags[name]; ok {
		set(info)
		return
	}

	switch name {
	case "occu":
		info.Occupation = p.occupation()
	case "buri", "crem":
		info.Burial = map[string]string{"buri": "buried", "crem": "cremated"}[name]
		if isDateToken(p.peek()) {
			info.BurialDate = p.advance().Literal
		}
	default:
		p.warn(b, tok, "unknown tag #%s", name)
	}
}

// occupation reassembles the words after #occu into one field. Parentheses
// group freely; outside them the field ends at a tag, a date, a "+" or a
// baptism marker.
func (p *Parser) occupation() string {
	if p.atLineEnd() {
		return ""
	}
	first := p.peek()
	last := first
	n, depth := 0, 0
	for !p.atLineEnd() {
		tok := p.peek()
		if depth == 0 {
			if tok.Kind == TokenTag || tok.Kind == TokenPlus || tok.Kind == TokenBang || isDateToken(tok) {
				break
			}
		}
		switch tok.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth > 0 {
				depth--
			}
		}
		last = p.advance()
		n++
	}
	if n == 0 {
		return ""
	}
	return p.source(first, last)
}

// enclosed reads "(...)", "{...}" or "[...]" and returns the text between
// the delimiters.
func (p *Parser) enclosed(b *blockBase, context string, closing TokenKind) string {
	p.advance()
	if p.check(closing) {
		p.advance()
		return ""
	}
	first := p.peek()
	last := first
	for !p.check(closing) {
		if p.atLineEnd() {
			p.fail(b, context, closing.String())
			if last == first && first.Kind == TokenNewline {
				return ""
			}
			return p.source(first, last)
		}
		last = p.advance()
	}
	p.advance()
	return p.source(first, last)
}
