package store

import (
	"context"
	"time"
)

// Store is the main interface for persisting documents and topic groups
type Store interface {
	Close() error

	// Docs
	UpsertDoc(ctx context.Context, d Doc) error
	GetDoc(ctx context.Context, id int64) (Doc, bool, error)
	DocsByCluster(ctx context.Context, cluster int) ([]Doc, error)
	Clusters(ctx context.Context) ([]int, error)

	// Topic groups
	UpsertGroup(ctx context.Context, g Group) error
	GroupsByCluster(ctx context.Context, cluster int) ([]Group, error)
}

// Doc represents a stored document
type Doc struct {
	ID               int64
	Cluster          int
	Title            string
	KeyPhrases       []string
	CandidatePhrases []Phrase
	Text             string
}

// Phrase is a candidate phrase record
type Phrase struct {
	KeyPhrase string `json:"key-phrase"`
}

// CandidateStrings returns the candidate phrases as plain strings.
func (d Doc) CandidateStrings() []string {
	out := make([]string, len(d.CandidatePhrases))
	for i, p := range d.CandidatePhrases {
		out[i] = p.KeyPhrase
	}
	return out
}

// Group is a stored topic-word summary of one cluster
type Group struct {
	ID        string
	Cluster   int
	Source    string // "key_phrases" or "textrank"
	Words     []string
	Score     float64
	WordDocs  map[string][]int64
	CreatedAt time.Time
}
