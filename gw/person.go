package gw

import (
	"fmt"
	"strings"

	"github.com/dhamidi/geneweb/gw/date"
	"github.com/dhamidi/geneweb/gw/diag"
)

type Sex string

const (
	SexUnknown Sex = "unknown"
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
)

// sexFromMarker maps the h, m and f markers of child and witness lines.
func sexFromMarker(marker string) Sex {
	switch marker {
	case "h", "m":
		return SexMale
	case "f":
		return SexFemale
	}
	return SexUnknown
}

type Access string

const (
	AccessDefault Access = "default"
	AccessPublic  Access = "public"
	AccessPrivate Access = "private"
)

type DeathStatus string

const (
	DeathUnknown  DeathStatus = "unknown"
	Alive         DeathStatus = "alive"
	Dead          DeathStatus = "dead"
	ObviouslyDead DeathStatus = "obviously-dead"
	DeadYoung     DeathStatus = "dead-young"
)

type BurialKind string

const (
	BurialNone BurialKind = ""
	Buried     BurialKind = "buried"
	Cremated   BurialKind = "cremated"
)

type RelationType string

const (
	RelationAdoption    RelationType = "adoption"
	RelationRecognition RelationType = "recognition"
	RelationCandidate   RelationType = "candidate-parent"
	RelationGodparent   RelationType = "godparent"
	RelationFoster      RelationType = "foster-parent"
)

var relationTypes = map[string]RelationType{
	"adop": RelationAdoption,
	"reco": RelationRecognition,
	"cand": RelationCandidate,
	"godp": RelationGodparent,
	"fost": RelationFoster,
}

type RelationRole string

const (
	RoleNone   RelationRole = ""
	RoleFather RelationRole = "father"
	RoleMother RelationRole = "mother"
)

// Relation links a person to a non-biological parent.
type Relation struct {
	Type     RelationType
	Role     RelationRole
	PersonID string
}

// PersonKey is the identity of a person within one parse. Names are kept
// as written, underscores included.
type PersonKey struct {
	LastName   string
	FirstName  string
	Occurrence int
}

// ID renders the key as LastName_FirstName_Occurrence.
func (k PersonKey) ID() string {
	return fmt.Sprintf("%s_%s_%d", k.LastName, k.FirstName, k.Occurrence)
}

// String renders the key the way gw source writes it.
func (k PersonKey) String() string {
	if k.Occurrence == 0 {
		return k.LastName + " " + k.FirstName
	}
	return fmt.Sprintf("%s %s.%d", k.LastName, k.FirstName, k.Occurrence)
}

// IsPlaceholder reports whether the key stands for an unknown person,
// written "? ?" in gw files.
func (k PersonKey) IsPlaceholder() bool {
	return k.LastName == "?" && k.FirstName == "?"
}

// Vital is the date, place and source of one life event.
type Vital struct {
	Date   *date.Date
	Place  string
	Source string
}

func (v Vital) IsZero() bool {
	return v.Date == nil && v.Place == "" && v.Source == ""
}

type Person struct {
	ID  string
	Key PersonKey

	PublicName       string
	FirstNameAliases []string
	SurnameAliases   []string
	Aliases          []string
	Nicknames        []string
	Titles           []string

	Sex        Sex
	Access     Access
	Occupation string
	Image      string
	Source     string

	Birth       Vital
	Baptism     Vital
	Death       Vital
	DeathStatus DeathStatus
	DeathType   date.DeathType
	Burial      Vital
	BurialKind  BurialKind

	Events        []*Event
	Notes         []string
	Relations     []Relation
	ExtendedPages []string
	WizardNotes   []string

	FamiliesAsSpouse []string
	FamiliesAsChild  []string

	// Line is where the person was first referenced.
	Line int

	Valid            bool
	ValidationErrors []*diag.Error
}

func newPerson(key PersonKey, line int) *Person {
	return &Person{
		ID:          key.ID(),
		Key:         key,
		Sex:         SexUnknown,
		Access:      AccessDefault,
		DeathStatus: DeathUnknown,
		Line:        line,
		Valid:       true,
	}
}

// FullName returns "FirstName LastName" with underscores shown as spaces.
func (p *Person) FullName() string {
	return unescape(p.Key.FirstName) + " " + unescape(p.Key.LastName)
}

// IsDead reports whether the person is known to be dead.
func (p *Person) IsDead() bool {
	switch p.DeathStatus {
	case Dead, ObviouslyDead, DeadYoung:
		return true
	}
	return false
}

func (p *Person) invalidate(errs ...*diag.Error) {
	if len(errs) == 0 {
		return
	}
	p.Valid = false
	p.ValidationErrors = append(p.ValidationErrors, errs...)
}

// unescape turns the underscores gw uses for spaces back into spaces.
func unescape(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
