package gw

import (
	"fmt"

	"github.com/dhamidi/geneweb/gw/date"
	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/dhamidi/geneweb/gw/parser"
	"github.com/tliron/commonlog"
)

var buildLog = commonlog.GetLogger("geneweb.build")

// Builder folds parsed blocks into a Genealogy. Every person reference goes
// through get-or-create on its PersonKey, so one key is one Person however
// many blocks mention it. A later reference only fills fields that are
// still empty; a conflicting value is dropped with a warning.
//
// Both the buffered and the streaming drivers feed the same Builder one
// block at a time.
type Builder struct {
	g          *Genealogy
	c          *diag.Collector
	file       string
	lastFamily *Family
}

func NewBuilder(c *diag.Collector, file string) *Builder {
	g := newGenealogy()
	g.Metadata.SourceFile = file
	return &Builder{g: g, c: c, file: file}
}

// Directives records the header settings read by a parser.
func (b *Builder) Directives(d parser.Directives) {
	if d.GWPlus {
		b.g.Metadata.IsGWPlus = true
	}
}

// SetEncoding records the encoding the source was decoded from.
func (b *Builder) SetEncoding(name string) {
	b.g.Metadata.Encoding = name
}

// Apply folds one block into the genealogy. The block's own syntax errors
// are recorded first. A non-nil error means the parse must stop: any
// CRITICAL, or any ERROR in strict mode.
func (b *Builder) Apply(block parser.Block) (err error) {
	defer b.c.Scope(fmt.Sprintf("building %s block", block.Kind()))(&err)

	for _, e := range block.Errors() {
		if err := b.c.Add(e); err != nil {
			return err
		}
	}
	fatal := fatalErrors(block.Errors())

	switch blk := block.(type) {
	case *parser.FamilyBlock:
		b.family(blk, fatal)
	case *parser.FamilyEventsBlock:
		return b.familyEvents(blk, fatal)
	case *parser.PersonEventsBlock:
		b.personEvents(blk, fatal)
	case *parser.RelationsBlock:
		b.relations(blk, fatal)
	case *parser.TextBlock:
		b.text(blk, fatal)
	case *parser.BadBlock:
	default:
		return b.c.Add(b.semantic(block.Line(), "unsupported block %T", block))
	}
	buildLog.Debugf("applied %s block at line %d", block.Kind(), block.Line())
	return nil
}

// Finish links persons to their families and returns the genealogy. Fatal
// diagnostics recorded so far mark it invalid.
func (b *Builder) Finish() *Genealogy {
	b.g.crossReference()
	b.g.seal(b.c)
	buildLog.Infof("built %d persons and %d families from %s", len(b.g.Persons), len(b.g.Families), b.file)
	return b.g
}

func fatalErrors(errs []*diag.Error) []*diag.Error {
	var out []*diag.Error
	for _, e := range errs {
		if e.IsFatal() {
			out = append(out, e)
		}
	}
	return out
}

func (b *Builder) warn(line int, format string, args ...any) {
	e := diag.Warn(line, format, args...)
	e.File = b.file
	b.c.Add(e)
}

func (b *Builder) semantic(line int, format string, args ...any) *diag.Error {
	e := diag.Semantic(line, format, args...)
	e.File = b.file
	return e
}

// person returns the person for ref, creating it on first reference.
func (b *Builder) person(ref parser.PersonRef) *Person {
	key := PersonKey{LastName: ref.LastName, FirstName: ref.FirstName, Occurrence: ref.Occurrence}
	if p, ok := b.g.Persons[key.ID()]; ok {
		return p
	}
	p := newPerson(key, ref.Line)
	b.g.addPerson(p)
	return p
}

// date parses a date field, falling back to the unknown date with a
// warning when the text is not a valid date.
func (b *Builder) date(text string, death bool, line int, field string) *date.Date {
	if text == "" {
		return nil
	}
	parse := date.Parse
	if death {
		parse = date.ParseDeath
	}
	d, err := parse(text)
	if err != nil {
		b.warn(line, "invalid %s date %q: %v", field, text, err)
		return date.NewUnknown()
	}
	return d
}

func (b *Builder) fillString(p *Person, dst *string, v string, line int, field string) {
	switch {
	case v == "":
	case *dst == "":
		*dst = v
	case *dst != v:
		b.warn(line, "%s: keeping %s %q, ignoring %q", p.ID, field, *dst, v)
	}
}

func (b *Builder) fillDate(p *Person, dst **date.Date, v *date.Date, line int, field string) {
	switch {
	case v == nil:
	case *dst == nil:
		*dst = v
	case !(*dst).Equal(v):
		b.warn(line, "%s: keeping %s date %s, ignoring %s", p.ID, field, (*dst).Display(), v.Display())
	}
}

func (b *Builder) fillVital(p *Person, dst *Vital, v Vital, line int, field string) {
	b.fillDate(p, &dst.Date, v.Date, line, field)
	b.fillString(p, &dst.Place, v.Place, line, field+" place")
	b.fillString(p, &dst.Source, v.Source, line, field+" source")
}

func (b *Builder) setSex(p *Person, s Sex, line int) {
	switch {
	case s == SexUnknown || p.Sex == s:
	case p.Sex == SexUnknown:
		p.Sex = s
	default:
		b.warn(line, "%s: keeping sex %s, ignoring %s", p.ID, p.Sex, s)
	}
}

func (b *Builder) setDeathStatus(p *Person, s DeathStatus, line int) {
	switch {
	case p.DeathStatus == s:
	case p.DeathStatus == DeathUnknown || p.DeathStatus == Alive:
		p.DeathStatus = s
	case s == Dead:
		// A death date keeps #od and #mj.
	default:
		b.warn(line, "%s: keeping death status %s, ignoring %s", p.ID, p.DeathStatus, s)
	}
}

// merge applies the inline information written after a reference.
func (b *Builder) merge(p *Person, info parser.PersonInfo, line int) {
	b.fillString(p, &p.PublicName, unescape(info.PublicName), line, "public name")
	for _, v := range info.FirstNameAliases {
		p.FirstNameAliases = appendUnique(p.FirstNameAliases, unescape(v))
	}
	for _, v := range info.SurnameAliases {
		p.SurnameAliases = appendUnique(p.SurnameAliases, unescape(v))
	}
	for _, v := range info.Aliases {
		p.Aliases = appendUnique(p.Aliases, unescape(v))
	}
	for _, v := range info.Nicknames {
		p.Nicknames = appendUnique(p.Nicknames, unescape(v))
	}
	for _, v := range info.Titles {
		p.Titles = appendUnique(p.Titles, unescape(v))
	}

	switch info.Access {
	case "public":
		b.setAccess(p, AccessPublic, line)
	case "private":
		b.setAccess(p, AccessPrivate, line)
	}
	b.fillString(p, &p.Occupation, unescape(info.Occupation), line, "occupation")
	b.fillString(p, &p.Image, info.Image, line, "image")
	b.fillString(p, &p.Source, unescape(info.Source), line, "source")

	b.fillVital(p, &p.Birth, Vital{
		Date:   b.date(info.BirthDate, false, line, "birth"),
		Place:  unescape(info.BirthPlace),
		Source: unescape(info.BirthSource),
	}, line, "birth")
	b.fillVital(p, &p.Baptism, Vital{
		Date:   b.date(info.BaptismDate, false, line, "baptism"),
		Place:  unescape(info.BaptismPlace),
		Source: unescape(info.BaptismSource),
	}, line, "baptism")

	death := Vital{
		Date:   b.date(info.DeathDate, true, line, "death"),
		Place:  unescape(info.DeathPlace),
		Source: unescape(info.DeathSource),
	}
	b.fillVital(p, &p.Death, death, line, "death")
	switch info.DeathStatus {
	case "obviously-dead":
		b.setDeathStatus(p, ObviouslyDead, line)
	case "dead-young":
		b.setDeathStatus(p, DeadYoung, line)
	}
	if death.Date != nil {
		b.setDeathStatus(p, Dead, line)
		if p.DeathType == date.DeathNormal {
			p.DeathType = death.Date.Death
		}
	}

	switch info.Burial {
	case "buried":
		b.setBurial(p, Buried, line)
	case "cremated":
		b.setBurial(p, Cremated, line)
	}
	b.fillVital(p, &p.Burial, Vital{
		Date:   b.date(info.BurialDate, false, line, "burial"),
		Place:  unescape(info.BurialPlace),
		Source: unescape(info.BurialSource),
	}, line, "burial")
}

func (b *Builder) setAccess(p *Person, a Access, line int) {
	switch p.Access {
	case a:
	case AccessDefault:
		p.Access = a
	default:
		b.warn(line, "%s: keeping access %s, ignoring %s", p.ID, p.Access, a)
	}
}

func (b *Builder) setBurial(p *Person, k BurialKind, line int) {
	switch p.BurialKind {
	case k:
	case BurialNone:
		p.BurialKind = k
	default:
		b.warn(line, "%s: keeping burial %s, ignoring %s", p.ID, p.BurialKind, k)
	}
}

func (b *Builder) witness(w parser.Witness) Witness {
	p := b.person(w.Person)
	b.merge(p, w.Info, w.Person.Line)
	sex := sexFromMarker(w.Sex)
	b.setSex(p, sex, w.Person.Line)
	return Witness{PersonID: p.ID, Sex: sex}
}

func (b *Builder) family(fb *parser.FamilyBlock, fatal []*diag.Error) {
	f := &Family{
		ID:               fmt.Sprintf("FAM_%03d", len(b.g.familyOrder)+1),
		Status:           Married,
		Sources:          unescapeAll(fb.Sources),
		Comments:         fb.Comments,
		CommonBirthPlace: unescape(fb.CommonBirthPlace),
		CommonSource:     unescape(fb.CommonSource),
		Line:             fb.Line(),
		Valid:            true,
	}
	b.g.addFamily(f)
	b.lastFamily = f

	var husband, wife *Person
	if !fb.Husband.IsZero() {
		husband = b.person(fb.Husband)
		b.merge(husband, fb.HusbandInfo, fb.Line())
		b.setSex(husband, SexMale, fb.Line())
		f.HusbandID = husband.ID
	}
	if !fb.Wife.IsZero() {
		wife = b.person(fb.Wife)
		b.merge(wife, fb.WifeInfo, fb.Line())
		b.setSex(wife, SexFemale, fb.Line())
		f.WifeID = wife.ID
	}

	f.Marriage = Vital{
		Date:   b.date(fb.MarriageDate, false, fb.Line(), "marriage"),
		Place:  unescape(fb.MarriagePlace),
		Source: unescape(fb.MarriageSource),
	}
	if s, ok := marriageStatuses[fb.Status]; ok {
		f.Status = s
	}
	f.Divorce = b.date(fb.DivorceDate, false, fb.Line(), "divorce")

	for _, w := range fb.Witnesses {
		f.Witnesses = append(f.Witnesses, b.witness(w))
	}
	for _, ev := range fb.Events {
		f.Events = append(f.Events, b.event(ev, true))
	}

	for _, c := range fb.Children {
		ref := c.Person
		if ref.LastName == "" {
			ref.LastName = inheritedSurname(husband, wife)
		}
		child := b.person(ref)
		b.merge(child, c.Info, ref.Line)
		sex := sexFromMarker(c.Sex)
		b.setSex(child, sex, ref.Line)
		if child.Birth.Place == "" {
			child.Birth.Place = f.CommonBirthPlace
		}
		if child.Source == "" {
			child.Source = f.CommonSource
		}
		if f.HasChild(child.ID) {
			b.warn(ref.Line, "%s is listed twice in %s", child.ID, f.ID)
			continue
		}
		f.Children = append(f.Children, Child{PersonID: child.ID, Sex: sex})
	}

	if len(fatal) > 0 {
		f.invalidate(fatal...)
		if husband != nil {
			husband.invalidate(fatal...)
		}
		if wife != nil {
			wife.invalidate(fatal...)
		}
	}
}

// inheritedSurname is the surname of a child written with a first name
// only: the father's, else the mother's, else "?".
func inheritedSurname(husband, wife *Person) string {
	switch {
	case husband != nil && husband.Key.LastName != "":
		return husband.Key.LastName
	case wife != nil && wife.Key.LastName != "":
		return wife.Key.LastName
	}
	return "?"
}

func unescapeAll(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = unescape(s)
	}
	return out
}

func (b *Builder) event(ev parser.EventLine, family bool) *Event {
	typ, ok := LookupEvent(ev.Tag, family)
	if !ok {
		typ = EventCustom
		b.warn(ev.Line, "unknown event tag #%s", ev.Tag)
	}
	e := &Event{
		Type:   typ,
		Tag:    ev.Tag,
		Date:   b.date(ev.Date, typ == EventDeath, ev.Line, string(typ)),
		Place:  unescape(ev.Place),
		Source: unescape(ev.Source),
		Reason: unescape(ev.Reason),
		Text:   ev.Text,
		Notes:  ev.Notes,
		Line:   ev.Line,
	}
	for _, w := range ev.Witnesses {
		e.Witnesses = append(e.Witnesses, b.witness(w))
	}
	return e
}

// familyEvents attaches a detached fevt block to the family read before it.
func (b *Builder) familyEvents(fe *parser.FamilyEventsBlock, fatal []*diag.Error) error {
	if b.lastFamily == nil {
		return b.c.Add(b.semantic(fe.Line(), "family events without a preceding family"))
	}
	for _, ev := range fe.Events {
		b.lastFamily.Events = append(b.lastFamily.Events, b.event(ev, true))
	}
	b.lastFamily.invalidate(fatal...)
	return nil
}

// personEvents records a pevt block and fills the subject's vital records
// from its birth, baptism, death, burial and cremation events.
func (b *Builder) personEvents(pe *parser.PersonEventsBlock, fatal []*diag.Error) {
	if pe.Person.IsZero() {
		return
	}
	p := b.person(pe.Person)
	for _, ev := range pe.Events {
		e := b.event(ev, false)
		p.Events = append(p.Events, e)

		v := Vital{Date: e.Date, Place: e.Place, Source: e.Source}
		switch e.Type {
		case EventBirth:
			b.fillVital(p, &p.Birth, v, e.Line, "birth")
		case EventBaptism:
			b.fillVital(p, &p.Baptism, v, e.Line, "baptism")
		case EventDeath:
			b.fillVital(p, &p.Death, v, e.Line, "death")
			b.setDeathStatus(p, Dead, e.Line)
			if e.Date != nil && p.DeathType == date.DeathNormal {
				p.DeathType = e.Date.Death
			}
		case EventBurial:
			b.setBurial(p, Buried, e.Line)
			b.fillVital(p, &p.Burial, v, e.Line, "burial")
		case EventCremation:
			b.setBurial(p, Cremated, e.Line)
			b.fillVital(p, &p.Burial, v, e.Line, "burial")
		case EventOccupation:
			b.fillString(p, &p.Occupation, unescape(e.Text), e.Line, "occupation")
		}
	}
	p.invalidate(fatal...)
}

var relationRoles = map[string]RelationRole{
	"fath": RoleFather,
	"moth": RoleMother,
}

func (b *Builder) relations(rb *parser.RelationsBlock, fatal []*diag.Error) {
	if rb.Person.IsZero() {
		return
	}
	p := b.person(rb.Person)
	for _, r := range rb.Relations {
		target := b.person(r.Person)
		role := relationRoles[r.Role]
		switch role {
		case RoleFather:
			b.setSex(target, SexMale, r.Line)
		case RoleMother:
			b.setSex(target, SexFemale, r.Line)
		}
		p.Relations = append(p.Relations, Relation{
			Type:     relationTypes[r.Type],
			Role:     role,
			PersonID: target.ID,
		})
	}
	p.invalidate(fatal...)
}

func (b *Builder) text(tb *parser.TextBlock, fatal []*diag.Error) {
	meta := &b.g.Metadata
	if tb.Kind() == parser.BlockDatabaseNotes {
		meta.DatabaseNotes = append(meta.DatabaseNotes, tb.Text)
		return
	}
	if tb.Person.IsZero() {
		return
	}
	p := b.person(tb.Person)
	switch tb.Kind() {
	case parser.BlockNotes:
		p.Notes = append(p.Notes, tb.Text)
	case parser.BlockExtendedPage:
		p.ExtendedPages = append(p.ExtendedPages, tb.Text)
		if _, ok := meta.ExtendedPages[p.ID]; ok {
			b.warn(tb.Line(), "%s: keeping the first extended page", p.ID)
		} else {
			meta.ExtendedPages[p.ID] = tb.Text
		}
	case parser.BlockWizardNote:
		p.WizardNotes = append(p.WizardNotes, tb.Text)
		if _, ok := meta.WizardNotes[p.ID]; ok {
			b.warn(tb.Line(), "%s: keeping the first wizard note", p.ID)
		} else {
			meta.WizardNotes[p.ID] = tb.Text
		}
	}
	p.invalidate(fatal...)
}
