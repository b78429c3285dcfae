package ngram

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Token is a word with its Penn Treebank part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// Tagger tokenizes a sentence and tags every token.
type Tagger interface {
	Tag(sentence string) ([]Token, error)
}

// Segmenter splits running text into sentences.
type Segmenter interface {
	Sentences(text string) ([]string, error)
}

// ProseTagger tags and segments English text with prose.
type ProseTagger struct{}

// NewProseTagger creates a prose-backed tagger.
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// Tag implements Tagger.
func (p *ProseTagger) Tag(sentence string) ([]Token, error) {
	doc, err := prose.NewDocument(sentence,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tag sentence: %w", err)
	}

	toks := doc.Tokens()
	out := make([]Token, len(toks))
	for i, t := range toks {
		out[i] = Token{Text: t.Text, Tag: t.Tag}
	}
	return out, nil
}

// Sentences implements Segmenter.
func (p *ProseTagger) Sentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("segment text: %w", err)
	}

	var out []string
	for _, s := range doc.Sentences() {
		if txt := strings.TrimSpace(s.Text); txt != "" {
			out = append(out, txt)
		}
	}
	return out, nil
}
