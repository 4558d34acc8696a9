package keyword

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
)

// Matcher checks text against a keyword set in a single pass.
// A nil or empty Matcher matches every input. Matcher is safe for
// concurrent use once built.
type Matcher struct {
	automaton *ahocorasick.Matcher
	keywords  []string
}

// New builds a Matcher from the given keywords. Blank entries are
// dropped and the rest are case-folded before compilation. An empty
// result is valid and matches everything.
func New(keywords []string) *Matcher {
	folded := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = fold(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		folded = append(folded, kw)
	}
	if len(folded) == 0 {
		return &Matcher{}
	}
	return &Matcher{
		automaton: ahocorasick.NewStringMatcher(folded),
		keywords:  folded,
	}
}

// Load reads one keyword per line from r. Blank lines and lines starting
// with '#' are skipped.
func Load(r io.Reader) (*Matcher, error) {
	var keywords []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}
	return New(keywords), nil
}

// LoadFile reads a keyword file from path via Load.
func LoadFile(path string) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyword file: %w", err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("keyword file %s: %w", path, err)
	}
	return m, nil
}

// Matches reports whether text contains at least one keyword, ignoring
// case. An empty matcher matches everything, including empty text.
func (m *Matcher) Matches(text string) bool {
	if m == nil || m.automaton == nil {
		return true
	}
	return m.automaton.Contains([]byte(fold(text)))
}

// Keywords returns the compiled keyword set, folded and trimmed.
func (m *Matcher) Keywords() []string {
	if m == nil {
		return nil
	}
	return m.keywords
}

// Size returns the number of compiled keywords.
func (m *Matcher) Size() int {
	if m == nil {
		return 0
	}
	return len(m.keywords)
}

// fold case-folds s for caseless comparison. cases.Fold returns a Caser
// that is not safe for concurrent use, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
