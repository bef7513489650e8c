package parser

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/geneweb/gw/diag"
)

func parseBlocks(t *testing.T, input string, opts ...Option) []Block {
	t.Helper()
	blocks, err := NewFromBytes([]byte(input), opts...).ParseAll()
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	return blocks
}

func onlyBlock[T Block](t *testing.T, blocks []Block) T {
	t.Helper()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b, ok := blocks[0].(T)
	if !ok {
		t.Fatalf("block is %T", blocks[0])
	}
	return b
}

func noErrors(t *testing.T, b Block) {
	t.Helper()
	for _, e := range b.Errors() {
		t.Errorf("unexpected diagnostic: %v", e)
	}
}

func TestParseFamily(t *testing.T) {
	input := `fam DUPONT Jean 1/1/1850 #bp Paris + 10/6/1875 #mp Lyon MARTIN Marie 1855
wit m: DURAND Pierre
src Registre
comm Mariage civil
beg
- h Paul 1876
- f DUPONT Anne.1 ~1878
end
`
	b := onlyBlock[*FamilyBlock](t, parseBlocks(t, input))
	noErrors(t, b)

	if b.Line() != 1 {
		t.Errorf("Line() = %d, want 1", b.Line())
	}
	if want := (PersonRef{LastName: "DUPONT", FirstName: "Jean", Line: 1}); b.Husband != want {
		t.Errorf("Husband = %+v, want %+v", b.Husband, want)
	}
	if b.HusbandInfo.BirthDate != "1/1/1850" || b.HusbandInfo.BirthPlace != "Paris" {
		t.Errorf("HusbandInfo = %+v", b.HusbandInfo)
	}
	if b.MarriageDate != "10/6/1875" || b.MarriagePlace != "Lyon" {
		t.Errorf("marriage = %q %q", b.MarriageDate, b.MarriagePlace)
	}
	if b.Wife.LastName != "MARTIN" || b.Wife.FirstName != "Marie" || b.WifeInfo.BirthDate != "1855" {
		t.Errorf("Wife = %+v %+v", b.Wife, b.WifeInfo)
	}

	if len(b.Witnesses) != 1 {
		t.Fatalf("got %d witnesses, want 1", len(b.Witnesses))
	}
	if w := b.Witnesses[0]; w.Sex != "m" || w.Person.LastName != "DURAND" || w.Person.FirstName != "Pierre" {
		t.Errorf("witness = %+v", w)
	}
	if !reflect.DeepEqual(b.Sources, []string{"Registre"}) {
		t.Errorf("Sources = %q", b.Sources)
	}
	if !reflect.DeepEqual(b.Comments, []string{"Mariage civil"}) {
		t.Errorf("Comments = %q", b.Comments)
	}

	if len(b.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(b.Children))
	}
	paul := b.Children[0]
	if paul.Sex != "h" || paul.Person.LastName != "" || paul.Person.FirstName != "Paul" || paul.Info.BirthDate != "1876" {
		t.Errorf("first child = %+v", paul)
	}
	if paul.Person.Line != 6 {
		t.Errorf("first child line = %d, want 6", paul.Person.Line)
	}
	anne := b.Children[1]
	want := PersonRef{LastName: "DUPONT", FirstName: "Anne", Occurrence: 1, Line: 7}
	if anne.Sex != "f" || anne.Person != want || anne.Info.BirthDate != "~1878" {
		t.Errorf("second child = %+v", anne)
	}
}

func TestParseFamilyStatus(t *testing.T) {
	tests := []struct {
		input       string
		status      string
		divorceDate string
	}{
		{"fam A B + C D\n", "", ""},
		{"fam A B + #nm C D\n", "not-married", ""},
		{"fam A B + #eng C D\n", "engaged", ""},
		{"fam A B + 1850 #sep C D\n", "separated", ""},
		{"fam A B + #div 1890 C D\n", "divorced", "1890"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b := onlyBlock[*FamilyBlock](t, parseBlocks(t, tt.input))
			noErrors(t, b)
			if b.Status != tt.status || b.DivorceDate != tt.divorceDate {
				t.Errorf("status = %q %q, want %q %q", b.Status, b.DivorceDate, tt.status, tt.divorceDate)
			}
			if b.Wife.LastName != "C" {
				t.Errorf("Wife = %+v", b.Wife)
			}
		})
	}
}

func TestParsePersonInfo(t *testing.T) {
	input := "fam DUPONT Jean (Jean_le_Grand) {Jeannot} [Duc_de_X] #occu Boulanger (artisan) 1/1/1850 #bp Paris !2/1/1850 #pp Lyon k1914 #dp Verdun #buri 1914 #apubl #nick Jo + MARTIN Marie #od\n"
	b := onlyBlock[*FamilyBlock](t, parseBlocks(t, input))
	noErrors(t, b)

	want := PersonInfo{
		PublicName:       "Jean_le_Grand",
		FirstNameAliases: []string{"Jeannot"},
		Titles:           []string{"Duc_de_X"},
		Nicknames:        []string{"Jo"},
		Occupation:       "Boulanger (artisan)",
		Access:           "public",
		BirthDate:        "1/1/1850",
		BirthPlace:       "Paris",
		BaptismDate:      "2/1/1850",
		BaptismPlace:     "Lyon",
		DeathDate:        "k1914",
		DeathPlace:       "Verdun",
		Burial:           "buried",
		BurialDate:       "1914",
	}
	if !reflect.DeepEqual(b.HusbandInfo, want) {
		t.Errorf("HusbandInfo =\n%+v\nwant\n%+v", b.HusbandInfo, want)
	}
	if b.WifeInfo.DeathStatus != "obviously-dead" {
		t.Errorf("WifeInfo.DeathStatus = %q", b.WifeInfo.DeathStatus)
	}
}

func TestParseFamilyEventsInsideFamily(t *testing.T) {
	input := `fam A B + C D
fevt
#marr 1875 #p Paris
wit f: E F
end fevt
beg
- Paul
end
`
	b := onlyBlock[*FamilyBlock](t, parseBlocks(t, input))
	noErrors(t, b)
	if len(b.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(b.Events))
	}
	ev := b.Events[0]
	if ev.Tag != "marr" || ev.Date != "1875" || ev.Place != "Paris" || ev.Line != 3 {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Witnesses) != 1 || ev.Witnesses[0].Sex != "f" {
		t.Errorf("event witnesses = %+v", ev.Witnesses)
	}
	if len(b.Children) != 1 || b.Children[0].Person.FirstName != "Paul" {
		t.Errorf("Children = %+v", b.Children)
	}
}

func TestParsePersonEvents(t *testing.T) {
	input := `pevt DUPONT Jean
#birt 1/1/1850 #p Paris #s Registre
wit m: DURAND Pierre
note Né un lundi
#deat k1914 #c War
#occu Boulanger a Paris
end pevt
`
	b := onlyBlock[*PersonEventsBlock](t, parseBlocks(t, input))
	noErrors(t, b)

	if b.Person.LastName != "DUPONT" || b.Person.FirstName != "Jean" {
		t.Errorf("Person = %+v", b.Person)
	}
	if len(b.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(b.Events))
	}
	birt := b.Events[0]
	if birt.Tag != "birt" || birt.Date != "1/1/1850" || birt.Place != "Paris" || birt.Source != "Registre" {
		t.Errorf("birt = %+v", birt)
	}
	if len(birt.Witnesses) != 1 || birt.Witnesses[0].Person.LastName != "DURAND" {
		t.Errorf("birt witnesses = %+v", birt.Witnesses)
	}
	if !reflect.DeepEqual(birt.Notes, []string{"Né un lundi"}) {
		t.Errorf("birt notes = %q", birt.Notes)
	}
	if deat := b.Events[1]; deat.Date != "k1914" || deat.Reason != "War" {
		t.Errorf("deat = %+v", deat)
	}
	if occu := b.Events[2]; occu.Text != "Boulanger a Paris" {
		t.Errorf("occu text = %q", occu.Text)
	}
}

func TestParseFamilyEventsBlock(t *testing.T) {
	input := "notes-db\nx\nend notes-db\nfevt\n#div 1890\nend fevt\n"
	blocks := parseBlocks(t, input)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	b, ok := blocks[1].(*FamilyEventsBlock)
	if !ok {
		t.Fatalf("second block is %T", blocks[1])
	}
	noErrors(t, b)
	if len(b.Events) != 1 || b.Events[0].Tag != "div" || b.Events[0].Date != "1890" {
		t.Errorf("Events = %+v", b.Events)
	}
}

func TestParseRelations(t *testing.T) {
	input := `rel DUPONT Paul
beg
- adop: MARTIN Louis + MARTIN Louise
- godp fath: DURAND Pierre
end
`
	b := onlyBlock[*RelationsBlock](t, parseBlocks(t, input))
	noErrors(t, b)

	want := []Relation{
		{Type: "adop", Role: "fath", Person: PersonRef{LastName: "MARTIN", FirstName: "Louis", Line: 3}, Line: 3},
		{Type: "adop", Role: "moth", Person: PersonRef{LastName: "MARTIN", FirstName: "Louise", Line: 3}, Line: 3},
		{Type: "godp", Role: "fath", Person: PersonRef{LastName: "DURAND", FirstName: "Pierre", Line: 4}, Line: 4},
	}
	if !reflect.DeepEqual(b.Relations, want) {
		t.Errorf("Relations =\n%+v\nwant\n%+v", b.Relations, want)
	}
}

func TestParseTextBlocks(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   BlockKind
		person string
		text   string
	}{
		{
			name:   "notes",
			input:  "notes DUPONT Jean\nBorn in Paris.\n  Second line\nend notes\n",
			kind:   BlockNotes,
			person: "DUPONT",
			text:   "Born in Paris.\n  Second line",
		},
		{
			name:   "notes with beg",
			input:  "notes DUPONT Jean\nbeg\nBoulanger.\nbeg is text here\nend notes\n",
			kind:   BlockNotes,
			person: "DUPONT",
			text:   "Boulanger.\nbeg is text here",
		},
		{
			name:   "beg only opens person notes",
			input:  "wizard-note DUPONT Jean\nbeg\nend wizard-note\n",
			kind:   BlockWizardNote,
			person: "DUPONT",
			text:   "beg",
		},
		{
			name:  "notes-db",
			input: "notes-db\nSome db notes\nend notes-db\n",
			kind:  BlockDatabaseNotes,
			text:  "Some db notes",
		},
		{
			name:   "page-ext",
			input:  "page-ext DUPONT Jean\n<h1>Jean</h1>\nend page-ext\n",
			kind:   BlockExtendedPage,
			person: "DUPONT",
			text:   "<h1>Jean</h1>",
		},
		{
			name:   "wizard-note",
			input:  "wizard-note DUPONT Jean\nchecked\n\nend wizard-note\n",
			kind:   BlockWizardNote,
			person: "DUPONT",
			text:   "checked",
		},
		{
			name:   "indented terminator",
			input:  "notes A B\nfam is not a keyword here\n  end notes  \n",
			kind:   BlockNotes,
			person: "A",
			text:   "fam is not a keyword here",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := onlyBlock[*TextBlock](t, parseBlocks(t, tt.input))
			noErrors(t, b)
			if b.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", b.Kind(), tt.kind)
			}
			if b.Person.LastName != tt.person {
				t.Errorf("Person = %+v", b.Person)
			}
			if b.Text != tt.text {
				t.Errorf("Text = %q, want %q", b.Text, tt.text)
			}
		})
	}
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		input string
		want  Directives
	}{
		{"encoding: utf-8\ngwplus\n\nfam A B + C D\n", Directives{Encoding: "utf-8", GWPlus: true}},
		{"encoding: ISO-8859-1\nfam A B + C D\n", Directives{Encoding: "iso-8859-1"}},
		{"[encoding: utf-8]\n[gwplus]\nfam A B + C D\n", Directives{Encoding: "utf-8", GWPlus: true}},
		{"fam A B + C D\n", Directives{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := NewFromBytes([]byte(tt.input))
			blocks, err := p.ParseAll()
			if err != nil {
				t.Fatal(err)
			}
			b := onlyBlock[*FamilyBlock](t, blocks)
			noErrors(t, b)
			if got := p.Directives(); got != tt.want {
				t.Errorf("Directives() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseBadBlock(t *testing.T) {
	blocks := parseBlocks(t, "hello world\nfam A B + C D\n", WithFile("x.gw"))
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	bad, ok := blocks[0].(*BadBlock)
	if !ok {
		t.Fatalf("first block is %T", blocks[0])
	}
	errs := bad.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	e := errs[0]
	if e.Kind != diag.KindSyntax || e.Found != "hello" || e.Line != 1 || e.File != "x.gw" {
		t.Errorf("error = %+v", e)
	}
	if len(e.Expected) != 8 {
		t.Errorf("Expected = %q", e.Expected)
	}
	if _, ok := blocks[1].(*FamilyBlock); !ok {
		t.Errorf("second block is %T", blocks[1])
	}
}

func TestParseBadBlockStopsAtDirective(t *testing.T) {
	p := NewFromBytes([]byte("hello world\n[gwplus]\nfam A B + C D\n"))
	blocks, err := p.ParseAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if _, ok := blocks[0].(*BadBlock); !ok {
		t.Errorf("first block is %T", blocks[0])
	}
	if _, ok := blocks[1].(*FamilyBlock); !ok {
		t.Errorf("second block is %T", blocks[1])
	}
	if !p.Directives().GWPlus {
		t.Error("[gwplus] after a bad block was skipped")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		found    string
		expected []string
	}{
		{"missing plus", "fam A B C D\n", 1, "C", []string{"+"}},
		{"missing first name", "fam A\n", 1, "newline", []string{"first name"}},
		{"unterminated children", "fam A B + C D\nbeg\n- Paul\n", 4, "", []string{"end"}},
		{"stray child line", "fam A B + C D\nbeg\n- Paul\nxyz\n- Marie\nend\n", 4, "xyz", []string{"-", "end"}},
		{"unterminated notes", "notes A B\nline\n", 3, "", []string{"end notes"}},
		{"unterminated pevt", "pevt A B\n#birt 1850\n", 3, "", []string{"end pevt"}},
		{"bad relation type", "rel A B\nbeg\n- foo: C D\nend\n", 3, "foo", []string{"adop", "reco", "cand", "godp", "fost"}},
		{"trailing garbage", "fam A B + C D )\n", 1, ")", []string{"newline"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := parseBlocks(t, tt.input)
			if len(blocks) != 1 {
				t.Fatalf("got %d blocks, want 1", len(blocks))
			}
			errs := blocks[0].Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors %v, want 1", len(errs), errs)
			}
			e := errs[0]
			if e.Kind != diag.KindSyntax || e.Severity != diag.SeverityError {
				t.Errorf("error kind = %v %v", e.Kind, e.Severity)
			}
			if e.Line != tt.line {
				t.Errorf("Line = %d, want %d", e.Line, tt.line)
			}
			if e.Found != tt.found {
				t.Errorf("Found = %q, want %q", e.Found, tt.found)
			}
			if !reflect.DeepEqual(e.Expected, tt.expected) {
				t.Errorf("Expected = %q, want %q", e.Expected, tt.expected)
			}
		})
	}
}

func TestParseRecoversWithinChildren(t *testing.T) {
	input := "fam A B + C D\nbeg\n- Paul\nxyz\n- Marie\nend\nfam E F + G H\n"
	blocks := parseBlocks(t, input)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	fam := blocks[0].(*FamilyBlock)
	if len(fam.Children) != 2 {
		t.Errorf("got %d children, want 2", len(fam.Children))
	}
	if !fam.HasFatal() {
		t.Error("HasFatal() = false, want true")
	}
	if blocks[1].Line() != 7 {
		t.Errorf("second block line = %d, want 7", blocks[1].Line())
	}
}

func TestParseUnknownTagWarns(t *testing.T) {
	b := onlyBlock[*FamilyBlock](t, parseBlocks(t, "fam A B #zz + C D\n"))
	errs := b.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if errs[0].Kind != diag.KindWarning || errs[0].IsFatal() {
		t.Errorf("error = %+v", errs[0])
	}
	if b.HasFatal() {
		t.Error("HasFatal() = true, want false")
	}
	if b.Wife.FirstName != "D" {
		t.Errorf("Wife = %+v", b.Wife)
	}
}

func TestParseLineNumbers(t *testing.T) {
	blocks := parseBlocks(t, "# comment\n\nfam A B + C D\n\n\nnotes A B\nx\nend notes\n")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Line() != 3 || blocks[1].Line() != 6 {
		t.Errorf("lines = %d, %d, want 3, 6", blocks[0].Line(), blocks[1].Line())
	}

	blocks = parseBlocks(t, "\nfam A B C D\n", WithStartLine(10), WithFile("big.gw"))
	b := onlyBlock[*FamilyBlock](t, blocks)
	if b.Line() != 11 {
		t.Errorf("Line() = %d, want 11", b.Line())
	}
	e := b.Errors()[0]
	if e.Line != 11 || e.Column != 9 || e.File != "big.gw" {
		t.Errorf("error position = %s:%d:%d", e.File, e.Line, e.Column)
	}
}

func TestParserNext(t *testing.T) {
	p := New(strings.NewReader("fam A B + C D\nfam E F + G H\n"))
	for i := 0; i < 2; i++ {
		b, err := p.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if b.Kind() != BlockFamily {
			t.Errorf("Next() #%d kind = %v", i, b.Kind())
		}
	}
	if _, err := p.Next(); err != io.EOF {
		t.Errorf("Next() at end error = %v, want io.EOF", err)
	}
	if _, err := p.Next(); err != io.EOF {
		t.Errorf("Next() after end error = %v, want io.EOF", err)
	}
}

func TestParserSharedPatternCache(t *testing.T) {
	pc := NewPatternCache()
	parseBlocks(t, "fam A B 1850 + C D ~1860\n", WithPatternCache(pc))
	if pc.Len() == 0 {
		t.Error("pattern cache was not used")
	}
}
