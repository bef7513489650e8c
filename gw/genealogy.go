package gw

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/google/uuid"
)

// Metadata describes the parsed source and carries the blocks that do not
// belong to a single person or family.
type Metadata struct {
	SourceFile string
	Encoding   string
	IsGWPlus   bool
	ParseID    uuid.UUID

	DatabaseNotes []string

	// ExtendedPages and WizardNotes are keyed by person ID.
	ExtendedPages map[string]string
	WizardNotes   map[string]string
}

// Genealogy is the graph built from one gw source. Persons and families are
// keyed by ID; PersonIDs and FamilyIDs give them in source order.
//
// A Genealogy is not safe for concurrent mutation. Once returned by Parse
// it is only read.
type Genealogy struct {
	Persons  map[string]*Person
	Families map[string]*Family
	Metadata Metadata

	Valid            bool
	ValidationErrors []*diag.Error

	personOrder []string
	familyOrder []string
}

func newGenealogy() *Genealogy {
	return &Genealogy{
		Persons:  make(map[string]*Person),
		Families: make(map[string]*Family),
		Metadata: Metadata{
			ParseID:       uuid.New(),
			ExtendedPages: make(map[string]string),
			WizardNotes:   make(map[string]string),
		},
		Valid: true,
	}
}

func (g *Genealogy) addPerson(p *Person) {
	g.Persons[p.ID] = p
	g.personOrder = append(g.personOrder, p.ID)
}

func (g *Genealogy) addFamily(f *Family) {
	g.Families[f.ID] = f
	g.familyOrder = append(g.familyOrder, f.ID)
}

// Person returns the person with the given ID, or nil.
func (g *Genealogy) Person(id string) *Person {
	return g.Persons[id]
}

// Family returns the family with the given ID, or nil.
func (g *Genealogy) Family(id string) *Family {
	return g.Families[id]
}

func (g *Genealogy) PersonByKey(key PersonKey) *Person {
	return g.Persons[key.ID()]
}

func (g *Genealogy) PersonIDs() []string {
	return append([]string(nil), g.personOrder...)
}

func (g *Genealogy) FamilyIDs() []string {
	return append([]string(nil), g.familyOrder...)
}

// FamiliesOf returns the families in which the person is a spouse, in
// source order.
func (g *Genealogy) FamiliesOf(personID string) []*Family {
	var out []*Family
	for _, id := range g.familyOrder {
		if f := g.Families[id]; f.HasSpouse(personID) {
			out = append(out, f)
		}
	}
	return out
}

// Children returns the children of a family that resolve to persons.
func (g *Genealogy) Children(familyID string) []*Person {
	f := g.Families[familyID]
	if f == nil {
		return nil
	}
	var out []*Person
	for _, c := range f.Children {
		if p := g.Persons[c.PersonID]; p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Parents returns the husband and wife of the first family the person is
// a child of. Either may be nil.
func (g *Genealogy) Parents(personID string) (father, mother *Person) {
	p := g.Persons[personID]
	if p == nil || len(p.FamiliesAsChild) == 0 {
		return nil, nil
	}
	f := g.Families[p.FamiliesAsChild[0]]
	if f == nil {
		return nil, nil
	}
	return g.Persons[f.HusbandID], g.Persons[f.WifeID]
}

// crossReference rebuilds FamiliesAsSpouse and FamiliesAsChild from the
// families.
func (g *Genealogy) crossReference() {
	for _, p := range g.Persons {
		p.FamiliesAsSpouse = nil
		p.FamiliesAsChild = nil
	}
	for _, id := range g.familyOrder {
		f := g.Families[id]
		for _, sid := range []string{f.HusbandID, f.WifeID} {
			if p := g.Persons[sid]; p != nil {
				p.FamiliesAsSpouse = appendUnique(p.FamiliesAsSpouse, f.ID)
			}
		}
		for _, c := range f.Children {
			if p := g.Persons[c.PersonID]; p != nil {
				p.FamiliesAsChild = appendUnique(p.FamiliesAsChild, f.ID)
			}
		}
	}
}

// seal copies the fatal diagnostics of c onto the genealogy.
func (g *Genealogy) seal(c *diag.Collector) {
	g.ValidationErrors = nil
	for _, e := range c.Errors() {
		if e.IsFatal() {
			g.ValidationErrors = append(g.ValidationErrors, e)
		}
	}
	g.Valid = len(g.ValidationErrors) == 0
}

// ValidationSummary is a one-line account of the genealogy's validity.
func (g *Genealogy) ValidationSummary() string {
	if g.Valid {
		return fmt.Sprintf("valid: %d persons, %d families", len(g.Persons), len(g.Families))
	}
	invalidPersons := 0
	for _, p := range g.Persons {
		if !p.Valid {
			invalidPersons++
		}
	}
	invalidFamilies := 0
	for _, f := range g.Families {
		if !f.Valid {
			invalidFamilies++
		}
	}
	return fmt.Sprintf("invalid: %d errors, %d of %d persons and %d of %d families affected",
		len(g.ValidationErrors), invalidPersons, len(g.Persons), invalidFamilies, len(g.Families))
}

// ValidationReport lists every validation error, ordered by line.
func (g *Genealogy) ValidationReport() string {
	var sb strings.Builder
	sb.WriteString(g.ValidationSummary())
	sb.WriteByte('\n')
	errs := append([]*diag.Error(nil), g.ValidationErrors...)
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Line < errs[j].Line })
	for _, e := range errs {
		fmt.Fprintf(&sb, "  [%s] %s\n", e.Severity, e.Error())
	}
	return sb.String()
}

type Stats struct {
	Persons  int
	Families int

	Males      int
	Females    int
	UnknownSex int

	Dead             int
	UnknownDeath     int
	WithBirthDate    int
	WithDeathDate    int
	InvalidPersons   int
	InvalidFamilies  int
	FamiliesWithKids int
	Children         int
	Events           int
	Notes            int
}

func (g *Genealogy) Stats() Stats {
	s := Stats{
		Persons:  len(g.Persons),
		Families: len(g.Families),
	}
	for _, p := range g.Persons {
		switch p.Sex {
		case SexMale:
			s.Males++
		case SexFemale:
			s.Females++
		default:
			s.UnknownSex++
		}
		if p.IsDead() {
			s.Dead++
		} else if p.DeathStatus == DeathUnknown {
			s.UnknownDeath++
		}
		if p.Birth.Date != nil {
			s.WithBirthDate++
		}
		if p.Death.Date != nil {
			s.WithDeathDate++
		}
		if !p.Valid {
			s.InvalidPersons++
		}
		s.Events += len(p.Events)
		s.Notes += len(p.Notes)
	}
	for _, f := range g.Families {
		if len(f.Children) > 0 {
			s.FamiliesWithKids++
		}
		s.Children += len(f.Children)
		s.Events += len(f.Events)
		if !f.Valid {
			s.InvalidFamilies++
		}
	}
	return s
}
