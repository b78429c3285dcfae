// Package selector picks a small set of representative, mutually
// non-overlapping topic words from a group of key-phrases.
//
// Words are ranked by how many key-phrases produce them. Higher-ranked words
// claim their phrases; lower-ranked words lose the claimed phrases and drop
// out when none remain, and the gaps are refilled from the candidate pool.
// The loop repeats on fresh copies of the frequency list until the topic
// words stop changing or the iteration cap is reached.
package selector

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
)

const (
	DefaultTopN          = 5
	DefaultMaxIterations = 5
)

// Options configures a Selector
type Options struct {
	TopN          int
	MaxIterations int
	Stoplist      *stoplist.Set
	Fallback      Fallback
	Logger        logrus.FieldLogger
}

// Selector runs topic-word selection. A Selector using RandomFallback keeps
// the sampler state between calls and must not be shared across goroutines.
type Selector struct {
	topN     int
	maxIter  int
	stops    *stoplist.Set
	fallback Fallback
	log      logrus.FieldLogger
}

// New creates a Selector, filling zero options with defaults.
func New(opts Options) *Selector {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Fallback == nil {
		opts.Fallback = NoFallback{}
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	return &Selector{
		topN:     opts.TopN,
		maxIter:  opts.MaxIterations,
		stops:    opts.Stoplist,
		fallback: opts.Fallback,
		log:      opts.Logger,
	}
}

// Result is the outcome of one selection run.
type Result struct {
	Words        []string
	Entries      []WordEntry // claimed phrases per word, pairwise disjoint
	Iterations   int
	Converged    bool
	FallbackUsed bool
}

// Select returns up to TopN topic words for the key-phrases.
func (s *Selector) Select(keyPhrases []string) ([]string, error) {
	res, err := s.Run(keyPhrases)
	if err != nil {
		return nil, err
	}
	return res.Words, nil
}

// Run performs selection and reports how it got there.
func (s *Selector) Run(keyPhrases []string) (Result, error) {
	freq := BuildFrequency(keyPhrases, s.stops)

	working := cloneEntries(freq)
	split := min(s.topN, len(working))
	topic, candidates := working[:split:split], working[split:]

	var res Result
	var picked []WordEntry
	for {
		if res.Iterations >= s.maxIter || res.Converged {
			topic = picked
			break
		}

		var usedFallback bool
		var err error
		picked, usedFallback, err = s.pick(topic, candidates)
		if err != nil {
			return Result{}, err
		}
		res.FallbackUsed = res.FallbackUsed || usedFallback

		res.Converged = sameWords(picked, topic)
		if !res.Converged {
			chosen := wordSet(picked)
			topic, candidates = nil, nil
			for _, e := range cloneEntries(freq) {
				if _, ok := chosen[e.Word]; ok {
					topic = append(topic, e)
				} else {
					candidates = append(candidates, e)
				}
			}
			res.Iterations++
		}
	}

	if len(topic) > s.topN {
		topic = topic[:s.topN]
	}
	res.Entries = claimAll(cloneEntries(topic))
	res.Words = make([]string, len(topic))
	for i, e := range topic {
		res.Words[i] = e.Word
	}
	return res, nil
}

// pick runs one refinement step over topic and candidates, which it owns
// and mutates.
func (s *Selector) pick(topic, candidates []WordEntry) ([]WordEntry, bool, error) {
	for i := 0; i < s.topN && i < len(topic); i++ {
		claimed := phraseSet(topic[i].Phrases)
		for j := i + 1; j < len(topic); j++ {
			topic[j].removeClaimed(claimed)
		}
		for j := range candidates {
			candidates[j].removeClaimed(claimed)
		}
	}
	sortEntries(candidates)

	var kept []WordEntry
	for _, e := range topic {
		if len(e.Phrases) > 0 {
			kept = append(kept, e)
		}
	}
	if len(candidates) == 0 {
		return kept, false, nil
	}

	diff := s.topN - len(kept)
	if diff <= 0 {
		return kept, false, nil
	}

	clean := nonRedundant(kept, candidates)
	if len(clean) >= diff {
		return append(kept, clean[:diff]...), false, nil
	}

	pool := make([]string, len(candidates))
	byWord := make(map[string]WordEntry, len(candidates))
	for i, c := range candidates {
		pool[i] = c.Word
		byWord[c.Word] = c
	}
	sampled := s.fallback.Pick(pool, diff)
	if len(sampled) == 0 {
		return kept, false, nil
	}
	seen := make(map[string]struct{}, len(sampled))
	for _, w := range sampled {
		c, ok := byWord[w]
		if !ok {
			return nil, false, internalerr.Integrity("selector", w, "fallback returned a word outside the candidate pool")
		}
		if _, dup := seen[w]; dup {
			return nil, false, internalerr.Integrity("selector", w, "fallback returned a word twice")
		}
		seen[w] = struct{}{}
		kept = append(kept, c.clone())
	}
	s.log.WithFields(logrus.Fields{
		"fallback": s.fallback.Name(),
		"needed":   diff,
		"sampled":  len(sampled),
	}).Warn("not enough distinct candidates, sampled topic words from the pool")
	return kept, true, nil
}

// nonRedundant returns copies of the candidates that contain none of the
// kept words' tokens.
func nonRedundant(kept, candidates []WordEntry) []WordEntry {
	var tokens []string
	for _, k := range kept {
		tokens = append(tokens, strings.Split(strings.ToLower(k.Word), " ")...)
	}

	var out []WordEntry
	for _, c := range candidates {
		word := strings.ToLower(c.Word)
		redundant := false
		for _, t := range tokens {
			if strings.Contains(word, t) {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, c.clone())
		}
	}
	return out
}

// claimAll removes, in rank order, every phrase already claimed by an
// earlier entry.
func claimAll(entries []WordEntry) []WordEntry {
	for i := range entries {
		claimed := phraseSet(entries[i].Phrases)
		for j := i + 1; j < len(entries); j++ {
			entries[j].removeClaimed(claimed)
		}
	}
	return entries
}
