package gw

import (
	"github.com/dhamidi/geneweb/gw/date"
	"github.com/dhamidi/geneweb/gw/diag"
)

type MarriageStatus string

const (
	Married    MarriageStatus = "married"
	NotMarried MarriageStatus = "not-married"
	Engaged    MarriageStatus = "engaged"
	Separated  MarriageStatus = "separated"
	Divorced   MarriageStatus = "divorced"
)

var marriageStatuses = map[string]MarriageStatus{
	"not-married": NotMarried,
	"engaged":     Engaged,
	"separated":   Separated,
	"divorced":    Divorced,
}

// Child is one entry of a family's children list.
type Child struct {
	PersonID string
	Sex      Sex
}

// Witness is a person attending a marriage or an event.
type Witness struct {
	PersonID string
	Sex      Sex
}

type Family struct {
	ID        string
	HusbandID string
	WifeID    string

	Marriage Vital
	Status   MarriageStatus
	Divorce  *date.Date

	Children  []Child
	Witnesses []Witness
	Events    []*Event

	Sources          []string
	Comments         []string
	CommonBirthPlace string
	CommonSource     string

	Line int

	Valid            bool
	ValidationErrors []*diag.Error
}

func (f *Family) ChildIDs() []string {
	ids := make([]string, len(f.Children))
	for i, c := range f.Children {
		ids[i] = c.PersonID
	}
	return ids
}

func (f *Family) HasChild(id string) bool {
	for _, c := range f.Children {
		if c.PersonID == id {
			return true
		}
	}
	return false
}

// HasSpouse reports whether id is the husband or the wife.
func (f *Family) HasSpouse(id string) bool {
	return id != "" && (f.HusbandID == id || f.WifeID == id)
}

func (f *Family) invalidate(errs ...*diag.Error) {
	if len(errs) == 0 {
		return
	}
	f.Valid = false
	f.ValidationErrors = append(f.ValidationErrors, errs...)
}
