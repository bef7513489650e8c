package parser

import "github.com/dhamidi/geneweb/gw/diag"

type BlockKind int

const (
	BlockBad BlockKind = iota
	BlockFamily
	BlockNotes
	BlockRelations
	BlockPersonEvents
	BlockFamilyEvents
	BlockDatabaseNotes
	BlockExtendedPage
	BlockWizardNote
)

var blockKindNames = map[BlockKind]string{
	BlockBad:           "Bad",
	BlockFamily:        "Family",
	BlockNotes:         "Notes",
	BlockRelations:     "Relations",
	BlockPersonEvents:  "PersonEvents",
	BlockFamilyEvents:  "FamilyEvents",
	BlockDatabaseNotes: "DatabaseNotes",
	BlockExtendedPage:  "ExtendedPage",
	BlockWizardNote:    "WizardNote",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Block is one top-level unit of a gw file. A block that failed to parse
// completely still carries everything read before the failure, plus the
// diagnostics describing it.
type Block interface {
	Kind() BlockKind
	Line() int
	Errors() []*diag.Error
}

type blockBase struct {
	line int
	errs []*diag.Error
}

func (b *blockBase) Line() int {
	return b.line
}

func (b *blockBase) Errors() []*diag.Error {
	return b.errs
}

func (b *blockBase) addError(e *diag.Error) {
	b.errs = append(b.errs, e)
}

// HasFatal reports whether the block recorded an ERROR or worse.
func (b *blockBase) HasFatal() bool {
	for _, e := range b.errs {
		if e.IsFatal() {
			return true
		}
	}
	return false
}

// PersonRef names a person as written: surname, first name and occurrence
// number. Underscores are kept as written.
type PersonRef struct {
	LastName   string
	FirstName  string
	Occurrence int
	Line       int
}

func (r PersonRef) IsZero() bool {
	return r.LastName == "" && r.FirstName == ""
}

// PersonInfo is the inline description that may follow a person's name.
// Dates are kept as written and interpreted by the builder.
type PersonInfo struct {
	PublicName       string
	FirstNameAliases []string
	SurnameAliases   []string
	Aliases          []string
	Nicknames        []string
	Titles           []string
	Image            string
	Access           string
	Occupation       string
	Source           string

	BirthDate   string
	BirthPlace  string
	BirthSource string

	BaptismDate   string
	BaptismPlace  string
	BaptismSource string

	DeathDate   string
	DeathPlace  string
	DeathSource string
	DeathStatus string

	Burial       string
	BurialDate   string
	BurialPlace  string
	BurialSource string
}

// Witness is a person attending a family or an event.
type Witness struct {
	Sex    string
	Person PersonRef
	Info   PersonInfo
}

type Child struct {
	Sex    string
	Person PersonRef
	Info   PersonInfo
}

// EventLine is one "#tag ..." line of a pevt or fevt block.
type EventLine struct {
	Tag       string
	Date      string
	Place     string
	Source    string
	Reason    string
	Text      string
	Notes     []string
	Witnesses []Witness
	Line      int
}

type FamilyBlock struct {
	blockBase
	Husband     PersonRef
	HusbandInfo PersonInfo
	Wife        PersonRef
	WifeInfo    PersonInfo

	MarriageDate   string
	MarriagePlace  string
	MarriageSource string
	Status         string
	DivorceDate    string

	Witnesses        []Witness
	Sources          []string
	Comments         []string
	CommonBirthPlace string
	CommonSource     string
	Events           []EventLine
	Children         []Child
}

func (*FamilyBlock) Kind() BlockKind { return BlockFamily }

// FamilyEventsBlock is an fevt block that appears outside of a family. It
// applies to the family read just before it.
type FamilyEventsBlock struct {
	blockBase
	Events []EventLine
}

func (*FamilyEventsBlock) Kind() BlockKind { return BlockFamilyEvents }

type PersonEventsBlock struct {
	blockBase
	Person PersonRef
	Events []EventLine
}

func (*PersonEventsBlock) Kind() BlockKind { return BlockPersonEvents }

type Relation struct {
	Type   string
	Role   string
	Person PersonRef
	Line   int
}

type RelationsBlock struct {
	blockBase
	Person    PersonRef
	Relations []Relation
}

func (*RelationsBlock) Kind() BlockKind { return BlockRelations }

// TextBlock is a block whose body is free text: notes, notes-db, page-ext
// and wizard-note. Person is zero for notes-db.
type TextBlock struct {
	blockBase
	kind   BlockKind
	Person PersonRef
	Text   string
}

func (b *TextBlock) Kind() BlockKind { return b.kind }

// BadBlock covers input that does not start with a block keyword.
type BadBlock struct {
	blockBase
}

func (*BadBlock) Kind() BlockKind { return BlockBad }
