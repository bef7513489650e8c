package parser

import (
	"sync"
	"testing"
)

func TestPatternCacheCompile(t *testing.T) {
	pc := NewPatternCache()

	re1, err := pc.Compile(`^a+$`)
	if err != nil {
		t.Fatal(err)
	}
	re2, err := pc.Compile(`^a+$`)
	if err != nil {
		t.Fatal(err)
	}
	if re1 != re2 {
		t.Error("second Compile returned a different regexp")
	}
	if pc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", pc.Len())
	}

	if _, err := pc.Compile(`(`); err == nil {
		t.Error("Compile(`(`) succeeded")
	}
	if pc.Len() != 1 {
		t.Errorf("Len() after bad expression = %d, want 1", pc.Len())
	}

	pc.Reset()
	if pc.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", pc.Len())
	}
}

func TestPatternCacheDateShapes(t *testing.T) {
	pc := NewPatternCache()
	tests := []struct {
		word  string
		date  bool
		death bool
	}{
		{"1850", true, false},
		{"~1/2/1850", true, false},
		{"1850..1860J", true, false},
		{"0(vers_1850)", true, false},
		{"k1914", false, true},
		{"<e1/1793F", false, true},
		{"Jean", false, false},
		{"1850/1/1/1", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := pc.isDate(tt.word); got != tt.date {
				t.Errorf("isDate(%q) = %v, want %v", tt.word, got, tt.date)
			}
			if got := pc.isDeathDate(tt.word); got != tt.death {
				t.Errorf("isDeathDate(%q) = %v, want %v", tt.word, got, tt.death)
			}
		})
	}
}

func TestPatternCacheConcurrent(t *testing.T) {
	pc := NewPatternCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				pc.isDate("Jean")
			}
		}()
	}
	wg.Wait()
	if pc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", pc.Len())
	}
}
