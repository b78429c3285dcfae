package stoplist

import (
	_ "embed"
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed english.yaml
var englishYAML []byte

// Set is an immutable stop-word set. Build it once at startup and share it;
// none of its methods mutate it, so it is safe for concurrent readers.
type Set struct {
	stops map[string]struct{}
}

// File is the on-disk stoplist format.
type File struct {
	Terms []string `yaml:"terms"`
}

// New builds a set from the given terms, case-folded.
func New(terms ...string) *Set {
	stops := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		stops[Fold(t)] = struct{}{}
	}
	return &Set{stops: stops}
}

// Parse decodes a YAML stoplist document.
func Parse(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	return New(f.Terms...), nil
}

// English returns the built-in English list.
func English() *Set {
	s, err := Parse(englishYAML)
	if err != nil {
		panic(err) // embedded file is fixed at build time
	}
	return s
}

// Fold returns the case-folded form used for membership checks.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// IsStop checks if a token is a stopword
func (s *Set) IsStop(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.stops[Fold(token)]
	return ok
}

// With returns a new set holding the receiver's terms plus extra.
func (s *Set) With(extra ...string) *Set {
	terms := append(s.All(), extra...)
	return New(terms...)
}

// Len returns the number of stop words.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stops)
}

// All returns all stopwords, sorted
func (s *Set) All() []string {
	if s == nil {
		return nil
	}
	result := make([]string, 0, len(s.stops))
	for t := range s.stops {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}
