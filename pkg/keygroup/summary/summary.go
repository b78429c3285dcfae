// Package summary turns selected topic words into stored group records.
package summary

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/keygroup/pkg/keygroup/index"
	"github.com/cognicore/keygroup/pkg/keygroup/store"
)

// Group sources.
const (
	SourceKeyPhrases = "key_phrases"
	SourceTextRank   = "textrank"
)

// Builder constructs topic-group records
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new group builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Input is everything a group is built from.
type Input struct {
	Cluster  int
	Source   string
	Words    []string
	Score    float64
	WordDocs index.WordDocs
}

// Build creates a group with a fresh ULID. Words keep their selection order.
func (b *Builder) Build(in Input) store.Group {
	b.mu.Lock()
	now := b.now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	words := make([]string, len(in.Words))
	copy(words, in.Words)

	wordDocs := make(map[string][]int64, len(in.WordDocs))
	for w, ids := range in.WordDocs {
		cp := make([]int64, len(ids))
		copy(cp, ids)
		wordDocs[w] = cp
	}

	return store.Group{
		ID:        id,
		Cluster:   in.Cluster,
		Source:    in.Source,
		Words:     words,
		Score:     in.Score,
		WordDocs:  wordDocs,
		CreatedAt: now,
	}
}

// Support is a word with the documents that contain it.
type Support struct {
	Word   string  `json:"word"`
	DocIDs []int64 `json:"doc_ids"`
}

// Report is the printable form of a group.
type Report struct {
	ID        string    `json:"id"`
	Cluster   int       `json:"cluster"`
	Source    string    `json:"source"`
	Words     []string  `json:"words"`
	Score     float64   `json:"score"`
	Support   []Support `json:"support"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReport renders a group, listing supports by descending document count.
func NewReport(g store.Group) Report {
	ranked := index.WordDocs(g.WordDocs).Ranked()
	support := make([]Support, len(ranked))
	for i, s := range ranked {
		support[i] = Support{Word: s.Word, DocIDs: s.DocIDs}
	}
	return Report{
		ID:        g.ID,
		Cluster:   g.Cluster,
		Source:    g.Source,
		Words:     g.Words,
		Score:     g.Score,
		Support:   support,
		CreatedAt: g.CreatedAt,
	}
}
