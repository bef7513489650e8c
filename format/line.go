package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/geneweb/gw"
	"github.com/dhamidi/geneweb/gw/date"
)

// LineEncoder writes one tab-separated line per person and per family, for
// use with grep, cut and awk.
//
//	person	ID	sex	birth	death	valid
//	family	ID	husband	wife	status	marriage	children	valid
type LineEncoder struct {
	w io.Writer
	g *gw.Genealogy
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(g *gw.Genealogy) error {
	e.g = g
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	g := e.g

	for _, id := range g.PersonIDs() {
		p := g.Person(id)
		fmt.Fprintf(&sb, "person\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Sex,
			orDash(dateStr(p.Birth.Date)),
			orDash(dateStr(p.Death.Date)),
			validStr(p.Valid),
		)
	}

	for _, id := range g.FamilyIDs() {
		f := g.Family(id)
		fmt.Fprintf(&sb, "family\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID,
			orDash(f.HusbandID),
			orDash(f.WifeID),
			f.Status,
			orDash(dateStr(f.Marriage.Date)),
			orDash(strings.Join(f.ChildIDs(), ",")),
			validStr(f.Valid),
		)
	}

	return []byte(sb.String()), nil
}

func dateStr(d *date.Date) string {
	if d == nil {
		return ""
	}
	if iso := d.ISO(); iso != "" {
		return iso
	}
	return d.Display()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func validStr(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}
