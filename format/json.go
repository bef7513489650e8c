package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/geneweb/gw"
	"github.com/dhamidi/geneweb/gw/date"
	"github.com/dhamidi/geneweb/gw/diag"
)

type JSONEncoder struct {
	w io.Writer
	g *gw.Genealogy
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(g *gw.Genealogy) error {
	e.g = g
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildGenealogy(), "", "  ")
}

type jsonGenealogy struct {
	ParseID       string            `json:"parseId"`
	Source        string            `json:"source,omitempty"`
	Encoding      string            `json:"encoding,omitempty"`
	GWPlus        bool              `json:"gwplus,omitempty"`
	Valid         bool              `json:"valid"`
	Errors        []jsonError       `json:"errors,omitempty"`
	Persons       []jsonPerson      `json:"persons"`
	Families      []jsonFamily      `json:"families"`
	DatabaseNotes []string          `json:"databaseNotes,omitempty"`
	ExtendedPages map[string]string `json:"extendedPages,omitempty"`
	WizardNotes   map[string]string `json:"wizardNotes,omitempty"`
}

type jsonPerson struct {
	ID          string         `json:"id"`
	LastName    string         `json:"lastName"`
	FirstName   string         `json:"firstName"`
	Occurrence  int            `json:"occurrence,omitempty"`
	PublicName  string         `json:"publicName,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
	Nicknames   []string       `json:"nicknames,omitempty"`
	Titles      []string       `json:"titles,omitempty"`
	Sex         string         `json:"sex"`
	Access      string         `json:"access,omitempty"`
	Occupation  string         `json:"occupation,omitempty"`
	Birth       *jsonVital     `json:"birth,omitempty"`
	Baptism     *jsonVital     `json:"baptism,omitempty"`
	Death       *jsonVital     `json:"death,omitempty"`
	DeathStatus string         `json:"deathStatus,omitempty"`
	Burial      *jsonVital     `json:"burial,omitempty"`
	BurialKind  string         `json:"burialKind,omitempty"`
	Events      []jsonEvent    `json:"events,omitempty"`
	Relations   []jsonRelation `json:"relations,omitempty"`
	Notes       []string       `json:"notes,omitempty"`
	Spouse      []string       `json:"familiesAsSpouse,omitempty"`
	Child       []string       `json:"familiesAsChild,omitempty"`
	Valid       bool           `json:"valid"`
}

type jsonFamily struct {
	ID        string         `json:"id"`
	Husband   string         `json:"husband,omitempty"`
	Wife      string         `json:"wife,omitempty"`
	Status    string         `json:"status"`
	Marriage  *jsonVital     `json:"marriage,omitempty"`
	Divorce   *jsonDate      `json:"divorce,omitempty"`
	Children  []jsonMember   `json:"children,omitempty"`
	Witnesses []jsonMember   `json:"witnesses,omitempty"`
	Events    []jsonEvent    `json:"events,omitempty"`
	Sources   []string       `json:"sources,omitempty"`
	Comments  []string       `json:"comments,omitempty"`
	Valid     bool           `json:"valid"`
}

type jsonMember struct {
	ID  string `json:"id"`
	Sex string `json:"sex,omitempty"`
}

type jsonRelation struct {
	Type   string `json:"type"`
	Role   string `json:"role,omitempty"`
	Person string `json:"person"`
}

type jsonVital struct {
	Date   *jsonDate `json:"date,omitempty"`
	Place  string    `json:"place,omitempty"`
	Source string    `json:"source,omitempty"`
}

type jsonEvent struct {
	Type      string       `json:"type"`
	Tag       string       `json:"tag,omitempty"`
	Date      *jsonDate    `json:"date,omitempty"`
	Place     string       `json:"place,omitempty"`
	Source    string       `json:"source,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Text      string       `json:"text,omitempty"`
	Witnesses []jsonMember `json:"witnesses,omitempty"`
	Notes     []string     `json:"notes,omitempty"`
}

type jsonDate struct {
	Value     string `json:"value"`
	ISO       string `json:"iso,omitempty"`
	Day       int    `json:"day,omitempty"`
	Month     int    `json:"month,omitempty"`
	Year      int    `json:"year,omitempty"`
	Qualifier string `json:"qualifier,omitempty"`
	Calendar  string `json:"calendar,omitempty"`
	Death     string `json:"death,omitempty"`
	Text      string `json:"text,omitempty"`
}

type jsonError struct {
	Kind     string   `json:"kind"`
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Context  string   `json:"context,omitempty"`
	Found    string   `json:"found,omitempty"`
	Expected []string `json:"expected,omitempty"`
	Entity   string   `json:"entity,omitempty"`
	EntityID string   `json:"entityId,omitempty"`
	Field    string   `json:"field,omitempty"`
}

func (e *JSONEncoder) buildGenealogy() jsonGenealogy {
	g := e.g
	meta := g.Metadata
	data := jsonGenealogy{
		ParseID:       meta.ParseID.String(),
		Source:        meta.SourceFile,
		Encoding:      meta.Encoding,
		GWPlus:        meta.IsGWPlus,
		Valid:         g.Valid,
		Errors:        buildErrors(g.ValidationErrors),
		Persons:       []jsonPerson{},
		Families:      []jsonFamily{},
		DatabaseNotes: meta.DatabaseNotes,
	}
	if len(meta.ExtendedPages) > 0 {
		data.ExtendedPages = meta.ExtendedPages
	}
	if len(meta.WizardNotes) > 0 {
		data.WizardNotes = meta.WizardNotes
	}
	for _, id := range g.PersonIDs() {
		data.Persons = append(data.Persons, buildPerson(g.Person(id)))
	}
	for _, id := range g.FamilyIDs() {
		data.Families = append(data.Families, buildFamily(g.Family(id)))
	}
	return data
}

func buildPerson(p *gw.Person) jsonPerson {
	jp := jsonPerson{
		ID:         p.ID,
		LastName:   p.Key.LastName,
		FirstName:  p.Key.FirstName,
		Occurrence: p.Key.Occurrence,
		PublicName: p.PublicName,
		Aliases:    p.Aliases,
		Nicknames:  p.Nicknames,
		Titles:     p.Titles,
		Sex:        string(p.Sex),
		Occupation: p.Occupation,
		Birth:      buildVital(p.Birth),
		Baptism:    buildVital(p.Baptism),
		Death:      buildVital(p.Death),
		Burial:     buildVital(p.Burial),
		BurialKind: string(p.BurialKind),
		Events:     buildEvents(p.Events),
		Notes:      p.Notes,
		Spouse:     p.FamiliesAsSpouse,
		Child:      p.FamiliesAsChild,
		Valid:      p.Valid,
	}
	if p.Access != gw.AccessDefault {
		jp.Access = string(p.Access)
	}
	if p.DeathStatus != gw.DeathUnknown {
		jp.DeathStatus = string(p.DeathStatus)
	}
	for _, r := range p.Relations {
		jp.Relations = append(jp.Relations, jsonRelation{
			Type:   string(r.Type),
			Role:   string(r.Role),
			Person: r.PersonID,
		})
	}
	return jp
}

func buildFamily(f *gw.Family) jsonFamily {
	jf := jsonFamily{
		ID:       f.ID,
		Husband:  f.HusbandID,
		Wife:     f.WifeID,
		Status:   string(f.Status),
		Marriage: buildVital(f.Marriage),
		Divorce:  buildDate(f.Divorce),
		Events:   buildEvents(f.Events),
		Sources:  f.Sources,
		Comments: f.Comments,
		Valid:    f.Valid,
	}
	for _, c := range f.Children {
		jf.Children = append(jf.Children, jsonMember{ID: c.PersonID, Sex: sexOf(c.Sex)})
	}
	for _, w := range f.Witnesses {
		jf.Witnesses = append(jf.Witnesses, jsonMember{ID: w.PersonID, Sex: sexOf(w.Sex)})
	}
	return jf
}

func sexOf(s gw.Sex) string {
	if s == gw.SexUnknown {
		return ""
	}
	return string(s)
}

func buildVital(v gw.Vital) *jsonVital {
	if v.IsZero() {
		return nil
	}
	return &jsonVital{Date: buildDate(v.Date), Place: v.Place, Source: v.Source}
}

func buildEvents(events []*gw.Event) []jsonEvent {
	if len(events) == 0 {
		return nil
	}
	result := make([]jsonEvent, len(events))
	for i, ev := range events {
		je := jsonEvent{
			Type:   string(ev.Type),
			Date:   buildDate(ev.Date),
			Place:  ev.Place,
			Source: ev.Source,
			Reason: ev.Reason,
			Text:   ev.Text,
			Notes:  ev.Notes,
		}
		if ev.Type == gw.EventCustom {
			je.Tag = ev.Tag
		}
		for _, w := range ev.Witnesses {
			je.Witnesses = append(je.Witnesses, jsonMember{ID: w.PersonID, Sex: sexOf(w.Sex)})
		}
		result[i] = je
	}
	return result
}

func buildDate(d *date.Date) *jsonDate {
	if d == nil {
		return nil
	}
	jd := &jsonDate{
		Value: d.Display(),
		ISO:   d.ISO(),
		Text:  d.Text,
	}
	if d.Unknown || d.Text != "" {
		return jd
	}
	jd.Day, jd.Month, jd.Year = d.Day, d.Month, d.Year
	if d.Qualifier != date.Exact {
		jd.Qualifier = d.Qualifier.String()
	}
	if d.Calendar != date.Gregorian {
		jd.Calendar = d.Calendar.String()
	}
	if d.Death != date.DeathNormal {
		jd.Death = d.Death.String()
	}
	return jd
}

func buildErrors(errs []*diag.Error) []jsonError {
	if len(errs) == 0 {
		return nil
	}
	result := make([]jsonError, len(errs))
	for i, e := range errs {
		result[i] = jsonError{
			Kind:     e.Kind.String(),
			Severity: e.Severity.String(),
			Message:  e.Message,
			File:     e.File,
			Line:     e.Line,
			Column:   e.Column,
			Context:  e.Context,
			Found:    e.Found,
			Expected: e.Expected,
			Entity:   e.Entity,
			EntityID: e.EntityID,
			Field:    e.Field,
		}
	}
	return result
}

// EncodeDiagnostics writes the diagnostics of c as a JSON array.
func EncodeDiagnostics(w io.Writer, c *diag.Collector) error {
	errs := buildErrors(c.Errors())
	if errs == nil {
		errs = []jsonError{}
	}
	text, err := json.MarshalIndent(errs, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(text, '\n'))
	return err
}
