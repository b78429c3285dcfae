// Package coherence scores how consistently a list of topic words
// co-occurs across a document collection.
package coherence

import (
	"github.com/cognicore/keygroup/pkg/keygroup/index"
	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
)

// DocNGrams is one document's id with its n-gram strings.
type DocNGrams struct {
	DocID  int64
	NGrams []string
}

// Result is the outcome of a coherence run.
type Result struct {
	Average  float64
	Total    float64
	Pairs    int
	WordDocs index.WordDocs
}

// Scorer computes average pairwise coherence for topic word lists.
type Scorer struct {
	calc   *Calculator
	metric Metric
}

// NewScorer creates a scorer for the given metric with ε = 1.
func NewScorer(metric Metric) *Scorer {
	if metric == "" {
		metric = UMass
	}
	return &Scorer{calc: NewCalculator(1.0), metric: metric}
}

// Metric returns the configured metric.
func (s *Scorer) Metric() Metric { return s.metric }

// Score sums the pair score of every (i, j), i < j, and averages it over
// len(topicWords). Order matters: the denominator of pair (i, j) is the
// document count of word i.
//
// Words are looked up as given (substring, case-insensitive). A word with
// no supporting document, or an empty word list, aborts with a
// *internalerr.DataIntegrityError.
func (s *Scorer) Score(docs []DocNGrams, topicWords []string) (Result, error) {
	if len(topicWords) == 0 {
		return Result{}, internalerr.Integrity("coherence", "", "empty topic word list")
	}

	idx := make([]index.Document, len(docs))
	for i, d := range docs {
		idx[i] = index.Document{ID: d.DocID, Phrases: d.NGrams}
	}
	if err := index.Validate(idx); err != nil {
		return Result{}, err
	}

	wordDocs := make(index.WordDocs, len(topicWords))
	for _, w := range topicWords {
		if _, done := wordDocs[w]; done {
			continue
		}
		wordDocs[w] = index.DocsFor(idx, w)
	}

	n := int64(len(docs))
	res := Result{WordDocs: wordDocs}
	for i := 0; i < len(topicWords); i++ {
		docsI := wordDocs[topicWords[i]]
		if len(docsI) == 0 {
			return Result{}, internalerr.Integrity("coherence", topicWords[i], "topic word has no supporting documents")
		}
		for j := i + 1; j < len(topicWords); j++ {
			docsJ := wordDocs[topicWords[j]]
			nIJ := int64(len(index.Intersect(docsI, docsJ)))

			switch s.metric {
			case NPMI:
				res.Total += s.calc.NPMI(nIJ, int64(len(docsI)), int64(len(docsJ)), n)
			default:
				res.Total += s.calc.UMass(nIJ, int64(len(docsI)))
			}
			res.Pairs++
		}
	}

	res.Average = res.Total / float64(len(topicWords))
	return res, nil
}
