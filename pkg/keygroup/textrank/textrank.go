// Package textrank ranks phrase vocabulary with PageRank over a word
// co-occurrence graph.
//
// Words that appear within the same phrase window are linked. The weight
// vector starts at all ones and is updated as
//
//	w = (1 − d) + d · (M · w)
//
// for a fixed number of steps, stopping early once the total weight stops
// moving. There is no personalisation vector and no dangling-node handling
// beyond the (1 − d) term.
package textrank

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
)

const (
	DefaultWindow  = 2
	DefaultDamping = 0.85
	DefaultSteps   = 10
	DefaultMinDiff = 1e-5
)

// Options configures a Ranker
type Options struct {
	Window   int
	Damping  float64
	Steps    int
	MinDiff  float64
	Stoplist *stoplist.Set
}

// Ranker ranks words of a phrase collection.
type Ranker struct {
	window  int
	damping float64
	steps   int
	minDiff float64
	stops   *stoplist.Set
}

// New creates a Ranker, filling zero options with defaults.
func New(opts Options) *Ranker {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Damping <= 0 || opts.Damping >= 1 {
		opts.Damping = DefaultDamping
	}
	if opts.Steps <= 0 {
		opts.Steps = DefaultSteps
	}
	if opts.MinDiff <= 0 {
		opts.MinDiff = DefaultMinDiff
	}
	return &Ranker{
		window:  opts.Window,
		damping: opts.Damping,
		steps:   opts.Steps,
		minDiff: opts.MinDiff,
		stops:   opts.Stoplist,
	}
}

// Document is any record exposing candidate phrases.
type Document struct {
	ID               int64
	CandidatePhrases []string
}

// WordWeight is a ranked vocabulary word.
type WordWeight struct {
	Word   string
	Weight float64
}

// Ranking is the ordered output of a ranking run.
type Ranking struct {
	Words []WordWeight // descending by weight; ties keep vocabulary order
	Steps int
	Pairs []Pair
}

// Top returns at most k leading words. k <= 0 returns all of them.
func (r Ranking) Top(k int) []WordWeight {
	if k <= 0 || k >= len(r.Words) {
		return r.Words
	}
	return r.Words[:k]
}

// Weights returns the ranking as a word → weight map.
func (r Ranking) Weights() map[string]float64 {
	out := make(map[string]float64, len(r.Words))
	for _, w := range r.Words {
		out[w.Word] = w.Weight
	}
	return out
}

// RankDocuments ranks the candidate phrases of all docs, in order.
func (r *Ranker) RankDocuments(docs []Document) Ranking {
	var phrases []string
	for _, d := range docs {
		phrases = append(phrases, d.CandidatePhrases...)
	}
	return r.Rank(phrases)
}

// Rank builds the co-occurrence graph of phrases and runs power iteration.
func (r *Ranker) Rank(phrases []string) Ranking {
	vocab := BuildVocabulary(phrases, r.stops)
	pairs := TokenPairs(phrases, r.stops, r.window)
	m := Matrix(vocab, pairs)
	if m == nil {
		return Ranking{Pairs: pairs}
	}

	n := vocab.Len()
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	w := mat.NewVecDense(n, ones)

	steps := 0
	prev := 0.0
	for steps < r.steps {
		next := mat.NewVecDense(n, nil)
		next.MulVec(m, w)
		for i := 0; i < n; i++ {
			next.SetVec(i, (1-r.damping)+r.damping*next.AtVec(i))
		}
		w = next
		steps++

		sum := mat.Sum(w)
		if math.Abs(prev-sum) < r.minDiff {
			break
		}
		prev = sum
	}

	ranked := make([]WordWeight, n)
	for i, word := range vocab.Words {
		ranked[i] = WordWeight{Word: word, Weight: w.AtVec(i)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	return Ranking{Words: ranked, Steps: steps, Pairs: pairs}
}
