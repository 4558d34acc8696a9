package keyword

import (
	"strings"
	"testing"
)

func TestMatcherMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		keywords []string
		text     string
		want     bool
	}{
		{name: "simple hit", keywords: []string{"bike"}, text: "Blue bike for sale", want: true},
		{name: "simple miss", keywords: []string{"bike"}, text: "Blue car for sale", want: false},
		{name: "case-insensitive pattern", keywords: []string{"BIKE"}, text: "blue bike", want: true},
		{name: "case-insensitive text", keywords: []string{"bike"}, text: "BLUE BIKE", want: true},
		{name: "substring hit", keywords: []string{"bike"}, text: "Motorbike, great condition", want: true},
		{name: "any of many", keywords: []string{"cat", "dog", "parrot"}, text: "Friendly dog looking for a home", want: true},
		{name: "none of many", keywords: []string{"cat", "dog", "parrot"}, text: "Aquarium with fish", want: false},
		{name: "unicode folding", keywords: []string{"KSIĄŻKA"}, text: "stara książka", want: true},
		{name: "empty text no keywords skip", keywords: []string{"bike"}, text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := New(tt.keywords)
			if got := m.Matches(tt.text); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatcherEmptySetMatchesAll(t *testing.T) {
	t.Parallel()

	for _, m := range []*Matcher{nil, New(nil), New([]string{"", "  "})} {
		for _, text := range []string{"", "anything at all"} {
			if !m.Matches(text) {
				t.Errorf("empty matcher rejected %q", text)
			}
		}
	}
	if got := New(nil).Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"# pets",
		"cat",
		"",
		"  dog  ",
		"# end",
	}, "\n")

	m, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := m.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
	if !m.Matches("lovely Dog for adoption") {
		t.Error("Matches() = false for loaded keyword")
	}
	if m.Matches("hamster cage") {
		t.Error("Matches() = true for text without keywords")
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile("testdata/does-not-exist.txt"); err == nil {
		t.Fatal("LoadFile() error = nil, want error for missing file")
	}
}

func TestMatcherConcurrentUse(t *testing.T) {
	t.Parallel()

	m := New([]string{"bike", "rower"})
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				m.Matches("Górski ROWER w dobrym stanie")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
