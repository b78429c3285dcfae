package textrank

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
)

// Vocabulary assigns each word a dense index in first-seen order.
type Vocabulary struct {
	Words []string
	Index map[string]int
	Freq  map[string]int // raw occurrence count; not used for ranking
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int { return len(v.Words) }

// Pair is an ordered co-occurrence of two words inside one phrase window.
type Pair struct {
	A, B string
}

// phraseWords lower-cases and splits a phrase, dropping stop words.
func phraseWords(phrase string, stops *stoplist.Set) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if !stops.IsStop(w) {
			words = append(words, w)
		}
	}
	return words
}

// BuildVocabulary indexes every non-stop word of the phrases.
func BuildVocabulary(phrases []string, stops *stoplist.Set) *Vocabulary {
	v := &Vocabulary{
		Index: make(map[string]int),
		Freq:  make(map[string]int),
	}
	for _, p := range phrases {
		for _, w := range phraseWords(p, stops) {
			if _, ok := v.Index[w]; !ok {
				v.Index[w] = len(v.Words)
				v.Words = append(v.Words, w)
			}
			v.Freq[w]++
		}
	}
	return v
}

// TokenPairs pairs each word with the next window-1 words of its phrase.
// Identical ordered pairs are kept once, in first-seen order.
func TokenPairs(phrases []string, stops *stoplist.Set, window int) []Pair {
	var pairs []Pair
	seen := make(map[Pair]struct{})
	for _, p := range phrases {
		words := phraseWords(p, stops)
		for i := range words {
			for j := i + 1; j < i+window && j < len(words); j++ {
				pair := Pair{A: words[i], B: words[j]}
				if _, dup := seen[pair]; dup {
					continue
				}
				seen[pair] = struct{}{}
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs
}

// Adjacency builds the symmetric 0/1 co-occurrence matrix, M + Mᵀ − diag(M).
// It returns nil for an empty vocabulary. Pairs naming words outside the
// vocabulary are ignored.
func Adjacency(v *Vocabulary, pairs []Pair) *mat.Dense {
	n := v.Len()
	if n == 0 {
		return nil
	}

	g := mat.NewDense(n, n, nil)
	for _, p := range pairs {
		i, okA := v.Index[p.A]
		j, okB := v.Index[p.B]
		if !okA || !okB {
			continue
		}
		g.Set(i, j, 1)
	}

	sym := mat.NewDense(n, n, nil)
	sym.Add(g, g.T())
	for i := 0; i < n; i++ {
		sym.Set(i, i, sym.At(i, i)-g.At(i, i))
	}
	return sym
}

// Matrix is the column-normalised adjacency matrix. All-zero columns stay
// zero.
func Matrix(v *Vocabulary, pairs []Pair) *mat.Dense {
	m := Adjacency(v, pairs)
	if m == nil {
		return nil
	}

	n, _ := m.Dims()
	for j := 0; j < n; j++ {
		col := mat.Sum(m.ColView(j))
		if col == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			m.Set(i, j, m.At(i, j)/col)
		}
	}
	return m
}
