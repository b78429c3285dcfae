// Package index maps topic words to the documents whose key-phrases
// mention them.
//
// Membership is a case-insensitive substring test against each phrase, not
// a token match: "net" is found in "neural network". Callers depend on this.
package index

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
)

// Document is the index view of a document: an id and its phrases.
type Document struct {
	ID      int64
	Phrases []string
}

// WordDocs maps a word to the ids of the documents containing it.
// Each slice holds unique ids in document scan order.
type WordDocs map[string][]int64

// Contains reports whether any phrase contains word, ignoring case.
func Contains(phrases []string, word string) bool {
	w := strings.ToLower(word)
	for _, p := range phrases {
		if strings.Contains(strings.ToLower(p), w) {
			return true
		}
	}
	return false
}

// DocsFor returns the ids of docs whose phrases contain word.
func DocsFor(docs []Document, word string) []int64 {
	ids := []int64{}
	for _, d := range docs {
		if Contains(d.Phrases, word) {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Validate rejects a collection that repeats a document id.
func Validate(docs []Document) error {
	seen := make(map[int64]struct{}, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.ID]; dup {
			return internalerr.Integrity("index", strconv.FormatInt(d.ID, 10), "duplicate document id")
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

// Build maps every topic word (lower-cased) to the documents containing it.
// A malformed collection or a blank topic word aborts with a
// *internalerr.DataIntegrityError.
func Build(docs []Document, words []string) (WordDocs, error) {
	if err := Validate(docs); err != nil {
		return nil, err
	}

	result := make(WordDocs, len(words))
	for _, w := range words {
		key := strings.ToLower(w)
		if strings.TrimSpace(key) == "" {
			return nil, internalerr.Integrity("index", w, "blank topic word")
		}
		if _, done := result[key]; done {
			continue
		}
		result[key] = DocsFor(docs, key)
	}
	return result, nil
}

// Support is one word with its supporting documents.
type Support struct {
	Word   string
	DocIDs []int64
}

// Ranked lists the entries by descending document count, then word.
func (w WordDocs) Ranked() []Support {
	out := make([]Support, 0, len(w))
	for word, ids := range w {
		out = append(out, Support{Word: word, DocIDs: ids})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].DocIDs) != len(out[j].DocIDs) {
			return len(out[i].DocIDs) > len(out[j].DocIDs)
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// Intersect returns the ids of a that are also in b, in a's order.
func Intersect(a, b []int64) []int64 {
	inB := make(map[int64]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	out := []int64{}
	for _, id := range a {
		if _, ok := inB[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
