package grammar

import (
	"strings"
	"testing"

	"github.com/dhamidi/geneweb/gw/parser"
)

func mustLoad(t *testing.T) *Matcher {
	t.Helper()
	g, err := Load()
	if err != nil {
		for _, e := range Errors(err) {
			t.Log(e)
		}
		t.Fatalf("Load: %v", err)
	}
	return NewMatcher(g)
}

func TestLoad(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := Productions(g)
	if names[0] != "Block" {
		t.Errorf("first production = %q, want Block", names[0])
	}
	for _, want := range []string{"File", "Family", "date", "key"} {
		if _, ok := g[want]; !ok {
			t.Errorf("missing production %s", want)
		}
	}
}

func TestParseReportsEveryError(t *testing.T) {
	src := `
		Start = A B .
		A = "a" .
	`
	_, err := Parse("bad.ebnf", strings.NewReader(src), "Start")
	if err == nil {
		t.Fatal("expected an error for the missing production")
	}
	errs := Errors(err)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "missing production B") {
		t.Errorf("errors = %v", errs)
	}
}

func TestDatesAgreeWithLexer(t *testing.T) {
	m := mustLoad(t)
	words := []string{
		"1850", "0", "~1850", "?1850", "<1850", ">1850",
		"12/5/1850", "5/1850", "5/1850J", "1/1/1200F", "1850/",
		"1850|1851", "1850..1860", "0(about_1850)",
		"k1914", "~k1914", "s1/2/1940", "e1850J",
		"1850abc", "1850J|1851", "1/2/3/4", "k",
	}
	for _, w := range words {
		t.Run(w, func(t *testing.T) {
			l := parser.NewLexer([]byte("x "+w), "test.gw", nil)
			l.NextToken()
			tok := l.NextToken()
			lexed := tok.Kind == parser.TokenDate || tok.Kind == parser.TokenNumber
			matched := m.MatchString("date", w) || m.MatchString("deathdate", w)
			if lexed != matched {
				t.Errorf("lexer kind %v, grammar match %v", tok.Kind, matched)
			}
		})
	}
}

func TestMatchProductions(t *testing.T) {
	m := mustLoad(t)
	tests := []struct {
		production string
		input      string
		want       bool
	}{
		{"key", "DUPONT Jean.1", true},
		{"key", "? ?", true},
		{"key", "DUPONT", false},
		{"Directive", "encoding: utf-8\n", true},
		{"Directive", "[gwplus]\n", true},
		{"Family", "fam DUPONT Jean 1850 + MARTIN Marie\n", true},
		{"Family", "fam A B +1875 #mp Paris #div 1890 C D\n", true},
		{"Family", "fam A B + C D\nbeg\n- h Paul 1880\n- marie\n- DUPONT Anne.2\nend\n", true},
		{"Family", "fam A B C D\n", false},
		{"Family", "fam A B + C D\nsrc Registre paroissial\nwit m: E F\nbeg\nend\n", true},
		{"Relations", "rel A Paul\nbeg\n- godp: E F\n- adop fath: G H + I J\nend\n", true},
		{"PersonEvents", "pevt DUPONT Jean\n#birt 1850 #p Paris\n#deat k1914\nnote Verdun\nend pevt\n", true},
		{"PersonEvents", "pevt DUPONT Jean\n#birt 1850\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.production+"/"+tt.input, func(t *testing.T) {
			ok, pos, err := m.MatchAll(tt.production, []byte(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.want {
				t.Errorf("MatchAll = %v (stopped at %s), want %v", ok, pos, tt.want)
			}
		})
	}
}

func TestMatchFile(t *testing.T) {
	m := mustLoad(t)
	input := "# family of Jean\nencoding: utf-8\n\nfam A B + C D\nbeg\n- Paul\nend\n\nrel A Paul\nbeg\n- adop: E F\nend\n"
	ok, pos, err := m.MatchAll(Start, []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("file does not match, stopped at %s", pos)
	}

	ok, pos, _ = m.MatchAll(Start, []byte("fam A B + C D\nhello world\n"))
	if ok {
		t.Fatal("malformed file matched")
	}
	if pos.Line != 2 || pos.Column != 1 {
		t.Errorf("stopped at %s, want 2:1", pos)
	}
}

func TestMatchUnknownProduction(t *testing.T) {
	m := mustLoad(t)
	if _, err := m.Match("Nope", []byte("x")); err == nil {
		t.Error("expected an error")
	}
}
