package gw

import "github.com/dhamidi/geneweb/gw/date"

// EventType is the tag of a pevt or fevt line.
type EventType string

// Personal events.
const (
	EventBirth           EventType = "birt"
	EventBaptism         EventType = "bapt"
	EventDeath           EventType = "deat"
	EventBurial          EventType = "buri"
	EventCremation       EventType = "crem"
	EventConfirmation    EventType = "conf"
	EventFirstCommunion  EventType = "fcom"
	EventOrdination      EventType = "ordn"
	EventExcommunication EventType = "exco"
	EventNaturalization  EventType = "natu"
	EventOccupation      EventType = "occu"
	EventResidence       EventType = "resi"
	EventEducation       EventType = "educ"
	EventGraduation      EventType = "grad"
	EventMilitaryService EventType = "mser"
)

// Family events.
const (
	EventMarriage         EventType = "marr"
	EventNoMarriage       EventType = "nmar"
	EventNoMention        EventType = "nmen"
	EventEngagement       EventType = "enga"
	EventDivorce          EventType = "div"
	EventSeparation       EventType = "sep"
	EventAnnulment        EventType = "anul"
	EventMarriageBann     EventType = "marb"
	EventMarriageContract EventType = "marc"
	EventMarriageLicense  EventType = "marl"
	EventPACS             EventType = "pacs"
)

// EventCustom is used for tags outside both vocabularies. Event.Tag keeps
// the tag as written.
const EventCustom EventType = "custom"

var personalEvents = map[EventType]bool{
	EventBirth:           true,
	EventBaptism:         true,
	EventDeath:           true,
	EventBurial:          true,
	EventCremation:       true,
	EventConfirmation:    true,
	EventFirstCommunion:  true,
	EventOrdination:      true,
	EventExcommunication: true,
	EventNaturalization:  true,
	EventOccupation:      true,
	EventResidence:       true,
	EventEducation:       true,
	EventGraduation:      true,
	EventMilitaryService: true,
}

var familyEvents = map[EventType]bool{
	EventMarriage:         true,
	EventNoMarriage:       true,
	EventNoMention:        true,
	EventEngagement:       true,
	EventDivorce:          true,
	EventSeparation:       true,
	EventAnnulment:        true,
	EventMarriageBann:     true,
	EventMarriageContract: true,
	EventMarriageLicense:  true,
	EventPACS:             true,
	EventResidence:        true,
}

// LookupEvent returns the event type of tag within the personal or the
// family vocabulary.
func LookupEvent(tag string, family bool) (EventType, bool) {
	t := EventType(tag)
	if family {
		return t, familyEvents[t]
	}
	return t, personalEvents[t]
}

type Event struct {
	Type      EventType
	Tag       string
	Date      *date.Date
	Place     string
	Source    string
	Reason    string
	Text      string
	Witnesses []Witness
	Notes     []string
	Line      int
}
