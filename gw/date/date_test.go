package date

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Date
	}{
		{"1990", Date{Body: Body{Year: 1990}}},
		{"5/1990", Date{Body: Body{Month: 5, Year: 1990}}},
		{"25/12/1990", Date{Body: Body{Day: 25, Month: 12, Year: 1990}}},
		{"~10/5/1990", Date{Qualifier: About, Body: Body{Day: 10, Month: 5, Year: 1990}}},
		{"?1850", Date{Qualifier: Maybe, Body: Body{Year: 1850}}},
		{"<1700", Date{Qualifier: Before, Body: Body{Year: 1700}}},
		{">3/1920", Date{Qualifier: After, Body: Body{Month: 3, Year: 1920}}},
		{"10/9/5750H", Date{Body: Body{Day: 10, Month: 9, Year: 5750}, Calendar: Hebrew}},
		{"1/13/5750H", Date{Body: Body{Day: 1, Month: 13, Year: 5750}, Calendar: Hebrew}},
		{"12/3/1700J", Date{Body: Body{Day: 12, Month: 3, Year: 1700}, Calendar: Julian}},
		{"1/1/8F", Date{Body: Body{Day: 1, Month: 1, Year: 8}, Calendar: French}},
		{"1990|1991", Date{Body: Body{Year: 1990}, Alternation: Or, Alternatives: []Body{{Year: 1991}}}},
		{"1990|1991|1992", Date{Body: Body{Year: 1990}, Alternation: Or, Alternatives: []Body{{Year: 1991}, {Year: 1992}}}},
		{"1990..1995", Date{Body: Body{Year: 1990}, Alternation: Between, Alternatives: []Body{{Year: 1995}}}},
		{"5/1990..3/6/1991", Date{Body: Body{Month: 5, Year: 1990}, Alternation: Between, Alternatives: []Body{{Day: 3, Month: 6, Year: 1991}}}},
		{"0", Date{Unknown: true}},
		{"", Date{Unknown: true}},
		{"0(5_Mai_1990)", Date{Text: "5 Mai 1990"}},
		{"  1990 ", Date{Body: Body{Year: 1990}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !got.Equal(&tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestParseDeath(t *testing.T) {
	tests := []struct {
		input     string
		death     DeathType
		qualifier Qualifier
		year      int
	}{
		{"k1944", Killed, Exact, 1944},
		{"m12/1/1793", Murdered, Exact, 1793},
		{"e1794", Executed, Exact, 1794},
		{"s~1915", Disappeared, About, 1915},
		{"~k1916", Killed, About, 1916},
		{"1950", DeathNormal, Exact, 1950},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeath(tt.input)
			if err != nil {
				t.Fatalf("ParseDeath(%q) error = %v", tt.input, err)
			}
			if got.Death != tt.death {
				t.Errorf("Death = %v, want %v", got.Death, tt.death)
			}
			if got.Qualifier != tt.qualifier {
				t.Errorf("Qualifier = %v, want %v", got.Qualifier, tt.qualifier)
			}
			if got.Year != tt.year {
				t.Errorf("Year = %d, want %d", got.Year, tt.year)
			}
		})
	}
}

func TestParseDeathPrefixOutsideDeathContext(t *testing.T) {
	if _, err := Parse("k1944"); err == nil {
		t.Error("Parse(\"k1944\") succeeded, want error outside a death context")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"32/1/1990",
		"1/13/1990",
		"1/14/5750H",
		"abc",
		"1990..1995..2000",
		"1990|",
		"0()",
		"0(open",
		"1/2/3/4",
		"5//1990",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", input)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalid", input, err)
			}
		})
	}
}

func TestParseWithFallback(t *testing.T) {
	d := ParseWithFallback("not-a-date")
	if !d.Unknown {
		t.Errorf("ParseWithFallback = %+v, want unknown date", *d)
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	inputs := []string{
		"1990",
		"5/1990",
		"25/12/1990",
		"~10/5/1990",
		"?1850",
		"<1700",
		">3/1920",
		"10/9/5750H",
		"12/3/1700J",
		"1990|1991|1992",
		"1990..1995",
		"~5/1990..3/6/1991J",
		"0",
		"0(5_Mai_1990)",
		"05/06/1990",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", input, err)
			}
			second, err := Parse(first.Display())
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", first.Display(), err)
			}
			if !first.Equal(second) {
				t.Errorf("round trip of %q: %+v != %+v", input, *first, *second)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"05/06/1990", "5/6/1990"},
		{"0(5_Mai_1990)", "0(5_Mai_1990)"},
		{"0", "0"},
		{"~10/5/1990", "~10/5/1990"},
		{"1990..1995", "1990..1995"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := d.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeathDisplayRoundTrip(t *testing.T) {
	d, err := ParseDeath("k~1916")
	if err != nil {
		t.Fatalf("ParseDeath error = %v", err)
	}
	if got := d.Display(); got != "k~1916" {
		t.Errorf("Display() = %q, want %q", got, "k~1916")
	}
	again, err := ParseDeath(d.Display())
	if err != nil {
		t.Fatalf("ParseDeath error = %v", err)
	}
	if !d.Equal(again) {
		t.Errorf("round trip: %+v != %+v", *d, *again)
	}
}

func TestIsBefore(t *testing.T) {
	tests := []struct {
		a, b string
		want Ternary
	}{
		{"1990", "1991", True},
		{"1991", "1990", False},
		{"1/1/1990", "2/1/1990", True},
		{"1/1/1990", "1/1/1990", False},
		{"1990", "5/6/1990", Incomparable},
		{"5/1990", "6/1990", True},
		{"<1700", "1800", True},
		{"<1700", "1600", Incomparable},
		{">1700", "1600", False},
		{"1990..1995", "2000", True},
		{"1990..1995", "1993", Incomparable},
		{"1990|1992", "1991", Incomparable},
		{"0", "1990", Incomparable},
		{"0(vers_1900)", "1990", Incomparable},
		{"1700J", "1800", True},
		{"1800", "1700J", False},
		{"<1700J", "1750", True},
		{"1/1/1700J", "1800", Incomparable},
		{"1700J", "5/1800", Incomparable},
		{"1700F", "1800", Incomparable},
	}

	for _, tt := range tests {
		t.Run(tt.a+" < "+tt.b, func(t *testing.T) {
			a, err := Parse(tt.a)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.a, err)
			}
			b, err := Parse(tt.b)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.b, err)
			}
			if got := a.IsBefore(b); got != tt.want {
				t.Errorf("IsBefore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAfter(t *testing.T) {
	tests := []struct {
		a, b string
		want Ternary
	}{
		{"1991", "1990", True},
		{"1990", "1991", False},
		{"1/1/1990", "1/1/1990", False},
		{"1990", "6/1990", Incomparable},
		{"0", "0", Incomparable},
		{"1800", "1700J", True},
		{"1/1/1800", "1700J", Incomparable},
	}

	for _, tt := range tests {
		t.Run(tt.a+" > "+tt.b, func(t *testing.T) {
			a, _ := Parse(tt.a)
			b, _ := Parse(tt.b)
			if got := a.IsAfter(b); got != tt.want {
				t.Errorf("IsAfter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a, _ := Parse("1/1/1990")
	b, _ := Parse("1/1/1990")
	if order, ok := Compare(a, b); !ok || order != 0 {
		t.Errorf("Compare = (%d, %v), want (0, true)", order, ok)
	}
	c, _ := Parse("1990")
	if _, ok := Compare(a, c); ok {
		t.Error("Compare of overlapping dates reported an order")
	}
}

func TestISO(t *testing.T) {
	d, _ := Parse("5/6/1990")
	if got := d.ISO(); got != "1990-06-05" {
		t.Errorf("ISO() = %q, want %q", got, "1990-06-05")
	}
	partial, _ := Parse("6/1990")
	if got := partial.ISO(); got != "" {
		t.Errorf("ISO() = %q, want empty", got)
	}
	if !partial.IsPartial() {
		t.Error("IsPartial() = false, want true")
	}
}
