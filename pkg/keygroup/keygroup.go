// Package keygroup summarises clusters of documents into small groups of
// mutually exclusive topic words.
package keygroup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/keygroup/pkg/keygroup/coherence"
	"github.com/cognicore/keygroup/pkg/keygroup/index"
	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/metrics"
	"github.com/cognicore/keygroup/pkg/keygroup/ngram"
	"github.com/cognicore/keygroup/pkg/keygroup/selector"
	"github.com/cognicore/keygroup/pkg/keygroup/store"
	"github.com/cognicore/keygroup/pkg/keygroup/summary"
	"github.com/cognicore/keygroup/pkg/keygroup/textrank"
)

// ErrNoTopicWords is returned when a cluster yields no topic words at all.
var ErrNoTopicWords = errors.New("no topic words")

// DefaultTopK is the number of ranked words kept for a textrank group.
const DefaultTopK = 10

// Engine is the main keygroup facade
type Engine struct {
	store    store.Store
	selector *selector.Selector
	ranker   *textrank.Ranker
	scorer   *coherence.Scorer
	filter   *ngram.Filter
	seg      ngram.Segmenter
	groups   *summary.Builder
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	topK     int
	ngramLen int
}

// Options configures an Engine. Store is required; other zero fields get
// defaults. Filter and Segmenter are only needed to extract phrases from
// documents ingested with text alone.
type Options struct {
	Store     store.Store
	Selector  *selector.Selector
	Ranker    *textrank.Ranker
	Scorer    *coherence.Scorer
	Filter    *ngram.Filter
	Segmenter ngram.Segmenter
	Summary   *summary.Builder
	Metrics   *metrics.Metrics
	Logger    logrus.FieldLogger
	TopK      int
	NGram     int
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Selector == nil {
		opts.Selector = selector.New(selector.Options{Logger: opts.Logger})
	}
	if opts.Ranker == nil {
		opts.Ranker = textrank.New(textrank.Options{})
	}
	if opts.Scorer == nil {
		opts.Scorer = coherence.NewScorer(coherence.UMass)
	}
	if opts.Summary == nil {
		opts.Summary = summary.New()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.NGram <= 0 {
		opts.NGram = 2
	}
	return &Engine{
		store:    opts.Store,
		selector: opts.Selector,
		ranker:   opts.Ranker,
		scorer:   opts.Scorer,
		filter:   opts.Filter,
		seg:      opts.Segmenter,
		groups:   opts.Summary,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		topK:     opts.TopK,
		ngramLen: opts.NGram,
	}
}

// Close cleanly shuts down the engine and its store
func (e *Engine) Close() error {
	return e.store.Close()
}

// IngestDoc represents a document to be ingested
type IngestDoc struct {
	ID               int64
	Cluster          int
	Title            string
	KeyPhrases       []string
	CandidatePhrases []string
	Text             string
}

// Ingest stores documents. A document with text but no phrases gets its
// candidate n-grams extracted from the text and used for both phrase lists.
// Extraction failures are recorded in the diagnostics; store failures abort.
func (e *Engine) Ingest(ctx context.Context, docs []IngestDoc) (*internalerr.Diagnostics, error) {
	diag := &internalerr.Diagnostics{}
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return diag, err
		}

		keys, cands := d.KeyPhrases, d.CandidatePhrases
		if len(keys) == 0 && len(cands) == 0 && d.Text != "" {
			extracted, err := e.extract(d)
			if err != nil {
				diag.Add("ingest", "doc "+strconv.FormatInt(d.ID, 10), err)
				e.log.WithFields(logrus.Fields{"doc": d.ID, "error": err}).Warn("phrase extraction failed")
			} else {
				diag.Merge(extracted.diag)
				keys, cands = extracted.phrases, extracted.phrases
			}
		}

		doc := store.Doc{
			ID:               d.ID,
			Cluster:          d.Cluster,
			Title:            d.Title,
			KeyPhrases:       keys,
			CandidatePhrases: make([]store.Phrase, len(cands)),
			Text:             d.Text,
		}
		for i, c := range cands {
			doc.CandidatePhrases[i] = store.Phrase{KeyPhrase: c}
		}
		if err := e.store.UpsertDoc(ctx, doc); err != nil {
			return diag, fmt.Errorf("store doc %d: %w", d.ID, err)
		}
		e.metrics.DocIngested()
	}
	for _, item := range diag.Items {
		e.metrics.Skipped(item.Stage, 1)
	}
	return diag, nil
}

type extraction struct {
	phrases []string
	diag    *internalerr.Diagnostics
}

func (e *Engine) extract(d IngestDoc) (extraction, error) {
	if e.filter == nil || e.seg == nil {
		return extraction{}, fmt.Errorf("no phrase extractor configured: %w", internalerr.ErrInvalidInput)
	}
	phrases, diag, err := e.filter.FromText(e.seg, d.Text, e.ngramLen)
	if err != nil {
		return extraction{}, err
	}
	return extraction{phrases: phrases, diag: diag}, nil
}

// Summarize selects the topic words of a cluster from its key-phrases,
// scores them and stores the resulting group.
func (e *Engine) Summarize(ctx context.Context, cluster int) (store.Group, error) {
	docs, err := e.clusterDocs(ctx, cluster)
	if err != nil {
		return store.Group{}, err
	}

	var keyPhrases []string
	for _, d := range docs {
		keyPhrases = append(keyPhrases, d.KeyPhrases...)
	}

	res, err := e.selector.Run(keyPhrases)
	if err != nil {
		return store.Group{}, fmt.Errorf("cluster %d: select: %w", cluster, err)
	}
	e.metrics.Selection(res.Iterations, res.FallbackUsed)
	if len(res.Words) == 0 {
		return store.Group{}, fmt.Errorf("cluster %d: %w", cluster, ErrNoTopicWords)
	}
	e.log.WithFields(logrus.Fields{
		"cluster":   cluster,
		"words":     res.Words,
		"iteration": res.Iterations,
		"converged": res.Converged,
	}).Debug("selected topic words")

	idx := make([]index.Document, len(docs))
	for i, d := range docs {
		idx[i] = index.Document{ID: d.ID, Phrases: d.KeyPhrases}
	}
	wordDocs, err := index.Build(idx, res.Words)
	if err != nil {
		return store.Group{}, fmt.Errorf("cluster %d: index: %w", cluster, err)
	}

	return e.scoreAndStore(ctx, cluster, summary.SourceKeyPhrases, res.Words, wordDocs, keyPhraseDocs(docs))
}

// Rank runs the co-occurrence graph ranker over a cluster's candidate
// phrases, falling back to key-phrases for documents without candidates,
// and stores the top words as a group.
func (e *Engine) Rank(ctx context.Context, cluster int) (store.Group, textrank.Ranking, error) {
	docs, err := e.clusterDocs(ctx, cluster)
	if err != nil {
		return store.Group{}, textrank.Ranking{}, err
	}

	rankDocs := make([]textrank.Document, len(docs))
	ngrams := make([]coherence.DocNGrams, len(docs))
	for i, d := range docs {
		phrases := d.CandidateStrings()
		if len(phrases) == 0 {
			phrases = d.KeyPhrases
		}
		rankDocs[i] = textrank.Document{ID: d.ID, CandidatePhrases: phrases}
		ngrams[i] = coherence.DocNGrams{DocID: d.ID, NGrams: phrases}
	}

	ranking := e.ranker.RankDocuments(rankDocs)
	e.metrics.Ranking(ranking.Steps)
	top := ranking.Top(e.topK)
	if len(top) == 0 {
		return store.Group{}, ranking, fmt.Errorf("cluster %d: %w", cluster, ErrNoTopicWords)
	}
	words := make([]string, len(top))
	for i, w := range top {
		words[i] = w.Word
	}

	g, err := e.scoreAndStore(ctx, cluster, summary.SourceTextRank, words, nil, ngrams)
	return g, ranking, err
}

// Groups returns the stored groups of a cluster.
func (e *Engine) Groups(ctx context.Context, cluster int) ([]store.Group, error) {
	return e.store.GroupsByCluster(ctx, cluster)
}

// Clusters returns every cluster with at least one document.
func (e *Engine) Clusters(ctx context.Context) ([]int, error) {
	return e.store.Clusters(ctx)
}

func (e *Engine) clusterDocs(ctx context.Context, cluster int) ([]store.Doc, error) {
	docs, err := e.store.DocsByCluster(ctx, cluster)
	if err != nil {
		return nil, fmt.Errorf("cluster %d: load docs: %w", cluster, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("cluster %d: %w", cluster, internalerr.ErrNotFound)
	}
	return docs, nil
}

func keyPhraseDocs(docs []store.Doc) []coherence.DocNGrams {
	out := make([]coherence.DocNGrams, len(docs))
	for i, d := range docs {
		out[i] = coherence.DocNGrams{DocID: d.ID, NGrams: d.KeyPhrases}
	}
	return out
}

// scoreAndStore scores words by coherence over docs and persists the group.
// When wordDocs is nil the coherence word index is stored instead.
func (e *Engine) scoreAndStore(ctx context.Context, cluster int, source string, words []string, wordDocs index.WordDocs, docs []coherence.DocNGrams) (store.Group, error) {
	score, err := e.scorer.Score(docs, words)
	if err != nil {
		return store.Group{}, fmt.Errorf("cluster %d: coherence: %w", cluster, err)
	}
	if wordDocs == nil {
		wordDocs = score.WordDocs
	}

	g := e.groups.Build(summary.Input{
		Cluster:  cluster,
		Source:   source,
		Words:    words,
		Score:    score.Average,
		WordDocs: wordDocs,
	})
	if err := e.store.UpsertGroup(ctx, g); err != nil {
		return store.Group{}, fmt.Errorf("cluster %d: store group: %w", cluster, err)
	}
	e.metrics.GroupStored(cluster, source, score.Average)

	e.log.WithFields(logrus.Fields{
		"cluster": cluster,
		"source":  source,
		"score":   score.Average,
	}).Info("stored topic group")
	return g, nil
}
