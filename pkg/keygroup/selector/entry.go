package selector

import (
	"sort"
	"strings"

	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
)

// excludedWord is dropped from candidates on top of the stop-word list.
const excludedWord = "several"

// WordEntry is a candidate word with every key-phrase that produced it.
// Two entries are the same candidate when their Word matches.
type WordEntry struct {
	Word    string
	Phrases []string
}

// Tokens returns the number of space-separated tokens in Word.
func (e WordEntry) Tokens() int {
	return len(strings.Split(e.Word, " "))
}

func (e WordEntry) clone() WordEntry {
	phrases := make([]string, len(e.Phrases))
	copy(phrases, e.Phrases)
	return WordEntry{Word: e.Word, Phrases: phrases}
}

func cloneEntries(entries []WordEntry) []WordEntry {
	out := make([]WordEntry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// BuildFrequency maps each candidate word of the key-phrases to the phrases
// that produced it, sorted by descending (phrase count, token count).
//
// Each phrase is lower-cased and split on whitespace; stop words and
// "several" are dropped and the possessive "'s" is stripped. When at least
// two words survive, their trailing bigram is added as a candidate too.
func BuildFrequency(keyPhrases []string, stops *stoplist.Set) []WordEntry {
	var entries []WordEntry
	pos := make(map[string]int)

	for _, phrase := range keyPhrases {
		for _, cand := range candidateWords(phrase, stops) {
			i, ok := pos[cand]
			if !ok {
				i = len(entries)
				pos[cand] = i
				entries = append(entries, WordEntry{Word: cand})
			}
			entries[i].Phrases = append(entries[i].Phrases, phrase)
		}
	}

	sortEntries(entries)
	return entries
}

func candidateWords(phrase string, stops *stoplist.Set) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if w == excludedWord || stops.IsStop(w) {
			continue
		}
		w = strings.ReplaceAll(w, "'s", "")
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if len(words) >= 2 {
		words = append(words, words[len(words)-2]+" "+words[len(words)-1])
	}
	return words
}

// sortEntries orders by descending phrase count, then token count. Equal
// keys keep their relative order.
func sortEntries(entries []WordEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if len(entries[i].Phrases) != len(entries[j].Phrases) {
			return len(entries[i].Phrases) > len(entries[j].Phrases)
		}
		return entries[i].Tokens() > entries[j].Tokens()
	})
}

// removeClaimed drops every phrase of claimed from e.Phrases.
func (e *WordEntry) removeClaimed(claimed map[string]struct{}) {
	if len(claimed) == 0 {
		return
	}
	kept := e.Phrases[:0]
	for _, p := range e.Phrases {
		if _, taken := claimed[p]; !taken {
			kept = append(kept, p)
		}
	}
	e.Phrases = kept
}

func phraseSet(phrases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		set[p] = struct{}{}
	}
	return set
}

func wordSet(entries []WordEntry) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.Word] = struct{}{}
	}
	return set
}

func sameWords(a, b []WordEntry) bool {
	as, bs := wordSet(a), wordSet(b)
	if len(as) != len(bs) {
		return false
	}
	for w := range as {
		if _, ok := bs[w]; !ok {
			return false
		}
	}
	return true
}
