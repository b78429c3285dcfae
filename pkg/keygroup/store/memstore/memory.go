package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu     sync.RWMutex
	docs   map[int64]store.Doc
	groups map[string]store.Group
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		docs:   make(map[int64]store.Doc),
		groups: make(map[string]store.Group),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertDoc inserts or replaces a document, keyed by ID.
func (s *Store) UpsertDoc(ctx context.Context, d store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[d.ID] = copyDoc(d)
	return nil
}

// GetDoc returns a document by ID.
func (s *Store) GetDoc(ctx context.Context, id int64) (store.Doc, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if doc, ok := s.docs[id]; ok {
		return copyDoc(doc), true, nil
	}
	return store.Doc{}, false, nil
}

// DocsByCluster returns the documents of a cluster ordered by ID.
func (s *Store) DocsByCluster(ctx context.Context, cluster int) ([]store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Doc
	for _, doc := range s.docs {
		if doc.Cluster == cluster {
			out = append(out, copyDoc(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Clusters returns every cluster number holding a document, ascending.
func (s *Store) Clusters(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]struct{})
	for _, doc := range s.docs {
		seen[doc.Cluster] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out, nil
}

// UpsertGroup stores a group in memory.
func (s *Store) UpsertGroup(ctx context.Context, g store.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		return fmt.Errorf("upsert group: empty id: %w", internalerr.ErrInvalidInput)
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	s.groups[g.ID] = copyGroup(g)
	return nil
}

// GroupsByCluster returns the groups of a cluster, oldest first.
func (s *Store) GroupsByCluster(ctx context.Context, cluster int) ([]store.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []store.Group
	for _, g := range s.groups {
		if g.Cluster == cluster {
			result = append(result, copyGroup(g))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func copySlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyDoc(d store.Doc) store.Doc {
	var phrases []store.Phrase
	if d.CandidatePhrases != nil {
		phrases = make([]store.Phrase, len(d.CandidatePhrases))
		copy(phrases, d.CandidatePhrases)
	}

	return store.Doc{
		ID:               d.ID,
		Cluster:          d.Cluster,
		Title:            d.Title,
		KeyPhrases:       copySlice(d.KeyPhrases),
		CandidatePhrases: phrases,
		Text:             d.Text,
	}
}

func copyGroup(g store.Group) store.Group {
	wordDocs := make(map[string][]int64, len(g.WordDocs))
	for w, ids := range g.WordDocs {
		cp := make([]int64, len(ids))
		copy(cp, ids)
		wordDocs[w] = cp
	}
	g.Words = copySlice(g.Words)
	g.WordDocs = wordDocs
	return g
}
