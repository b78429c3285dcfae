package textrank

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
)

var trafficPhrases = []string{"traffic congestion", "traffic prediction model", "congestion control"}

func TestBuildVocabulary(t *testing.T) {
	v := BuildVocabulary([]string{"Traffic of congestion", "traffic control"}, stoplist.English())

	want := []string{"traffic", "congestion", "control"}
	if !reflect.DeepEqual(v.Words, want) {
		t.Errorf("expected %v, got %v", want, v.Words)
	}
	if v.Index["control"] != 2 {
		t.Errorf("control should have index 2, got %d", v.Index["control"])
	}
	if v.Freq["traffic"] != 2 {
		t.Errorf("traffic frequency should be 2, got %d", v.Freq["traffic"])
	}
}

func TestTokenPairsAdjacentOnly(t *testing.T) {
	pairs := TokenPairs(trafficPhrases, stoplist.English(), DefaultWindow)

	want := []Pair{
		{A: "traffic", B: "congestion"},
		{A: "traffic", B: "prediction"},
		{A: "prediction", B: "model"},
		{A: "congestion", B: "control"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("expected %v, got %v", want, pairs)
	}
}

func TestTokenPairsWiderWindowAndDedup(t *testing.T) {
	pairs := TokenPairs([]string{"a1 b1 c1", "a1 b1"}, nil, 3)

	want := []Pair{
		{A: "a1", B: "b1"},
		{A: "a1", B: "c1"},
		{A: "b1", B: "c1"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("expected %v, got %v", want, pairs)
	}
}

func TestAdjacencySymmetric(t *testing.T) {
	phrases := append([]string{"control traffic", "model model", "prediction"}, trafficPhrases...)
	v := BuildVocabulary(phrases, stoplist.English())
	m := Adjacency(v, TokenPairs(phrases, stoplist.English(), 3))

	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Fatalf("M[%d][%d]=%f but M[%d][%d]=%f", i, j, m.At(i, j), j, i, m.At(j, i))
			}
		}
	}
	mi := v.Index["model"]
	if m.At(mi, mi) != 1 {
		t.Errorf("self pair should keep a single diagonal entry, got %f", m.At(mi, mi))
	}
}

func TestMatrixColumnSums(t *testing.T) {
	phrases := append([]string{"isolated"}, trafficPhrases...)
	v := BuildVocabulary(phrases, stoplist.English())
	m := Matrix(v, TokenPairs(phrases, stoplist.English(), DefaultWindow))

	n, _ := m.Dims()
	for j := 0; j < n; j++ {
		sum := mat.Sum(m.ColView(j))
		if v.Words[j] == "isolated" {
			if sum != 0 {
				t.Errorf("isolated column should stay zero, got %f", sum)
			}
			continue
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("column %s sums to %f", v.Words[j], sum)
		}
	}
}

func TestMatrixEmpty(t *testing.T) {
	if m := Matrix(BuildVocabulary(nil, nil), nil); m != nil {
		t.Error("empty vocabulary should give a nil matrix")
	}
}

func TestRankTrafficPhrases(t *testing.T) {
	r := New(Options{Stoplist: stoplist.English()})
	ranking := r.Rank(trafficPhrases)

	if len(ranking.Words) != 5 {
		t.Fatalf("expected 5 ranked words, got %v", ranking.Words)
	}
	if ranking.Words[0].Word != "traffic" {
		t.Errorf("expected traffic on top, got %v", ranking.Words)
	}

	// The total weight is conserved on this graph, so the second step
	// already meets the convergence threshold.
	if ranking.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", ranking.Steps)
	}

	want := map[string]float64{
		"traffic":    1.36125,
		"congestion": 1.06375,
		"prediction": 1.06375,
		"model":      0.755625,
		"control":    0.755625,
	}
	for word, weight := range ranking.Weights() {
		if math.Abs(weight-want[word]) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", word, want[word], weight)
		}
	}

	// Ties keep vocabulary order.
	if ranking.Words[1].Word != "congestion" || ranking.Words[3].Word != "model" {
		t.Errorf("unexpected tie order: %v", ranking.Words)
	}
}

func TestRankStepCap(t *testing.T) {
	ranking := New(Options{Stoplist: stoplist.English(), Steps: 1}).Rank(trafficPhrases)

	if ranking.Steps != 1 {
		t.Fatalf("expected 1 step, got %d", ranking.Steps)
	}
	if ranking.Words[0].Word != "congestion" {
		t.Errorf("after one step congestion should lead, got %v", ranking.Words)
	}
	if math.Abs(ranking.Words[0].Weight-1.425) > 1e-9 {
		t.Errorf("expected 1.425, got %f", ranking.Words[0].Weight)
	}
}

func TestRankDocuments(t *testing.T) {
	docs := []Document{
		{ID: 1, CandidatePhrases: trafficPhrases[:2]},
		{ID: 2, CandidatePhrases: trafficPhrases[2:]},
	}
	ranking := New(Options{Stoplist: stoplist.English()}).RankDocuments(docs)

	if top := ranking.Top(1); len(top) != 1 || top[0].Word != "traffic" {
		t.Errorf("expected traffic, got %v", top)
	}
	if len(ranking.Top(0)) != 5 {
		t.Error("Top(0) should return every word")
	}
}

func TestRankEmpty(t *testing.T) {
	ranking := New(Options{}).Rank(nil)
	if len(ranking.Words) != 0 || ranking.Steps != 0 {
		t.Errorf("expected empty ranking, got %+v", ranking)
	}
}
