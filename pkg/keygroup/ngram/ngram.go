// Package ngram extracts noun-anchored n-gram candidates from sentences.
package ngram

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
)

var qualifiedTags = map[string]struct{}{
	"NN":  {},
	"NNS": {},
	"JJ":  {},
	"NNP": {},
}

// Filter turns tagged sentences into qualified n-gram candidates.
type Filter struct {
	tagger Tagger
	stops  *stoplist.Set
	log    logrus.FieldLogger
}

// NewFilter creates a filter. A nil logger discards diagnostics output;
// they are still returned to the caller.
func NewFilter(tagger Tagger, stops *stoplist.Set, log logrus.FieldLogger) *Filter {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Filter{tagger: tagger, stops: stops, log: log}
}

// Candidates returns every qualified n-token window of the sentences joined
// by single spaces, in source order with duplicates kept. A sentence the
// tagger rejects is logged, recorded in the diagnostics and skipped.
func (f *Filter) Candidates(sentences []string, n int) ([]string, *internalerr.Diagnostics, error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("n-gram length %d: %w", n, internalerr.ErrInvalidInput)
	}

	diag := &internalerr.Diagnostics{}
	var candidates []string
	for i, sentence := range sentences {
		tokens, err := f.tagger.Tag(sentence)
		if err != nil {
			item := "sentence " + strconv.Itoa(i)
			diag.Add("ngram", item, err)
			f.log.WithFields(logrus.Fields{"sentence": i, "error": err}).Warn("skipping sentence")
			continue
		}

		for start := 0; start+n <= len(tokens); start++ {
			window := tokens[start : start+n]
			if Qualified(window, f.stops) {
				candidates = append(candidates, join(window))
			}
		}
	}
	return candidates, diag, nil
}

// FromText strips HTML, segments the text into sentences and extracts
// candidates from them.
func (f *Filter) FromText(seg Segmenter, text string, n int) ([]string, *internalerr.Diagnostics, error) {
	sentences, err := seg.Sentences(StripHTML(text))
	if err != nil {
		return nil, nil, err
	}
	return f.Candidates(sentences, n)
}

// Qualified reports whether a tagged window is a candidate phrase: it holds
// a noun, ends in NN or NNS, and every token is a plain non-stop word tagged
// NN, NNS, JJ or NNP.
func Qualified(window []Token, stops *stoplist.Set) bool {
	if len(window) == 0 {
		return false
	}

	hasNoun := false
	for _, t := range window {
		if strings.HasPrefix(t.Tag, "NN") {
			hasNoun = true
			break
		}
	}
	if !hasNoun {
		return false
	}

	if last := window[len(window)-1].Tag; last != "NN" && last != "NNS" {
		return false
	}

	for _, t := range window {
		if !plainWord(t.Text) || stops.IsStop(t.Text) {
			return false
		}
		if _, ok := qualifiedTags[t.Tag]; !ok {
			return false
		}
	}
	return true
}

// plainWord rejects empty tokens and tokens holding a digit or any rune that
// is not a letter or underscore.
func plainWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsMark(r) && r != '_' {
			return false
		}
	}
	return true
}

func join(window []Token) string {
	words := make([]string, len(window))
	for i, t := range window {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}
