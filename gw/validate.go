package gw

import (
	"github.com/dhamidi/geneweb/gw/date"
	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/tliron/commonlog"
)

var validateLog = commonlog.GetLogger("geneweb.validate")

// vitalOrder lists the life events that must not run backwards.
var vitalOrder = []struct {
	name string
	get  func(*Person) *date.Date
}{
	{"birth", func(p *Person) *date.Date { return p.Birth.Date }},
	{"baptism", func(p *Person) *date.Date { return p.Baptism.Date }},
	{"death", func(p *Person) *date.Date { return p.Death.Date }},
	{"burial", func(p *Person) *date.Date { return p.Burial.Date }},
}

type validator struct {
	g    *Genealogy
	c    *diag.Collector
	file string
	err  error

	// childOf and spouseOf index the families by member ID.
	childOf  map[string][]string
	spouseOf map[string][]string
}

// Validate checks the cross-entity invariants of a finished genealogy.
// Findings are recorded in c and attached to the entities they concern;
// nothing is repaired or removed. The error is non-nil when c's policy
// stops on a finding.
func Validate(g *Genealogy, c *diag.Collector) (err error) {
	defer c.Scope("validating genealogy")(&err)

	v := &validator{
		g:        g,
		c:        c,
		file:     g.Metadata.SourceFile,
		childOf:  make(map[string][]string),
		spouseOf: make(map[string][]string),
	}
	for _, id := range g.familyOrder {
		f := g.Families[id]
		for _, sid := range []string{f.HusbandID, f.WifeID} {
			if sid != "" {
				v.spouseOf[sid] = appendUnique(v.spouseOf[sid], id)
			}
		}
		for _, ch := range f.Children {
			v.childOf[ch.PersonID] = appendUnique(v.childOf[ch.PersonID], id)
		}
	}

	for _, id := range g.personOrder {
		if v.err != nil {
			return v.err
		}
		v.person(g.Persons[id])
	}
	for _, id := range g.familyOrder {
		if v.err != nil {
			return v.err
		}
		v.family(g.Families[id])
		v.references(g.Families[id])
	}
	for _, id := range g.personOrder {
		if v.err != nil {
			return v.err
		}
		v.links(g.Persons[id])
	}
	validateLog.Debugf("validated %d persons and %d families", len(g.Persons), len(g.Families))
	return v.err
}

// report records e unless the collector already stopped the validation.
func (v *validator) report(e *diag.Error, line int) *diag.Error {
	if v.err != nil {
		return nil
	}
	e.File = v.file
	e.Line = line
	if err := v.c.Add(e); err != nil && v.err == nil {
		v.err = err
	}
	if e.IsFatal() {
		v.g.ValidationErrors = append(v.g.ValidationErrors, e)
		v.g.Valid = false
	}
	return e
}

func (v *validator) personError(p *Person, field, format string, args ...any) {
	if e := v.report(diag.Validation(diag.SeverityError, "person", p.ID, field, format, args...), p.Line); e != nil {
		p.invalidate(e)
	}
}

func (v *validator) familyError(f *Family, field, format string, args ...any) {
	if e := v.report(diag.Validation(diag.SeverityError, "family", f.ID, field, format, args...), f.Line); e != nil {
		f.invalidate(e)
	}
}

func (v *validator) person(p *Person) {
	if p.Key.LastName == "" {
		v.personError(p, "last_name", "%s has no surname", p.ID)
	}
	if p.Key.FirstName == "" {
		v.personError(p, "first_name", "%s has no first name", p.ID)
	}
	for i, earlier := range vitalOrder {
		a := earlier.get(p)
		if a == nil {
			continue
		}
		for _, later := range vitalOrder[i+1:] {
			b := later.get(p)
			if b == nil {
				continue
			}
			if a.IsAfter(b) == date.True {
				v.personError(p, later.name+"_date", "%s date %s is before %s date %s",
					later.name, b.Display(), earlier.name, a.Display())
			}
		}
	}
}

func (v *validator) family(f *Family) {
	if f.HusbandID == "" && f.WifeID == "" && len(f.Children) == 0 {
		v.familyError(f, "members", "%s has no parent and no child", f.ID)
	}
	if f.Divorce != nil && f.Marriage.Date != nil && f.Divorce.IsBefore(f.Marriage.Date) == date.True {
		v.familyError(f, "divorce_date", "divorce %s is before marriage %s",
			f.Divorce.Display(), f.Marriage.Date.Display())
	}
	if f.Divorce != nil && f.Status != Divorced && f.Status != Separated {
		e := diag.Validation(diag.SeverityWarning, "family", f.ID, "status",
			"%s has a divorce date but status %s", f.ID, f.Status)
		v.report(e, f.Line)
	}
}

// resolves reports whether id names a person of the genealogy.
func (v *validator) resolves(id string) bool {
	p, ok := v.g.Persons[id]
	return ok && p != nil
}

func isPlaceholderID(id string) bool {
	return id == (PersonKey{LastName: "?", FirstName: "?"}).ID()
}

// references checks the family-side person IDs. "? ?" placeholders are
// exempt.
func (v *validator) references(f *Family) {
	for _, ref := range []struct{ field, id string }{
		{"husband", f.HusbandID},
		{"wife", f.WifeID},
	} {
		if ref.id != "" && !isPlaceholderID(ref.id) && !v.resolves(ref.id) {
			v.familyError(f, ref.field, "%s %s not found", ref.field, ref.id)
		}
	}
	for _, c := range f.Children {
		if !isPlaceholderID(c.PersonID) && !v.resolves(c.PersonID) {
			v.familyError(f, "children", "child %s not found", c.PersonID)
		}
	}
}

// links checks that person-side family lists agree with the families.
func (v *validator) links(p *Person) {
	for _, fid := range p.FamiliesAsChild {
		f := v.g.Families[fid]
		if f == nil || !f.HasChild(p.ID) {
			v.personError(p, "families_as_child", "%s lists %s as parents but is not among its children", p.ID, fid)
		}
	}
	for _, fid := range p.FamiliesAsSpouse {
		f := v.g.Families[fid]
		if f == nil || !f.HasSpouse(p.ID) {
			v.personError(p, "families_as_spouse", "%s lists %s but is not a spouse in it", p.ID, fid)
		}
	}
	for _, fid := range v.childOf[p.ID] {
		if !contains(p.FamiliesAsChild, fid) {
			v.personError(p, "families_as_child", "%s is a child of %s but does not list it", p.ID, fid)
		}
	}
	for _, fid := range v.spouseOf[p.ID] {
		if !contains(p.FamiliesAsSpouse, fid) {
			v.personError(p, "families_as_spouse", "%s is a spouse in %s but does not list it", p.ID, fid)
		}
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
