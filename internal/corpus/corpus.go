// Package corpus reads clustered document collections.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/keygroup/pkg/keygroup"
	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/store"
)

// Item is one document line of a corpus file
type Item struct {
	DocID            int64          `json:"DocId"`
	Cluster          int            `json:"Cluster"`
	Title            string         `json:"Title"`
	KeyPhrases       []string       `json:"KeyPhrases"`
	CandidatePhrases []store.Phrase `json:"CandidatePhrases"`
	Text             string         `json:"Text"`
}

// IngestDoc converts the item to the engine's ingest form.
func (it Item) IngestDoc() keygroup.IngestDoc {
	cands := make([]string, len(it.CandidatePhrases))
	for i, p := range it.CandidatePhrases {
		cands[i] = p.KeyPhrase
	}
	return keygroup.IngestDoc{
		ID:               it.DocID,
		Cluster:          it.Cluster,
		Title:            it.Title,
		KeyPhrases:       it.KeyPhrases,
		CandidatePhrases: cands,
		Text:             it.Text,
	}
}

// LoadFromJSONL loads items from a JSONL file with proper error handling.
// A nil logger discards warnings.
func LoadFromJSONL(path string, log logrus.FieldLogger) ([]Item, *internalerr.Diagnostics, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	items, diag, err := Read(f, log.WithField("file", path))
	if err != nil {
		return nil, diag, fmt.Errorf("read file %s: %w", path, err)
	}
	return items, diag, nil
}

// Read decodes one JSON document per line. Malformed lines and lines
// without a document id are logged, recorded and skipped.
func Read(r io.Reader, log logrus.FieldLogger) ([]Item, *internalerr.Diagnostics, error) {
	diag := &internalerr.Diagnostics{}
	var items []Item

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			skip(diag, log, lineNo, err)
			continue
		}
		if item.DocID == 0 {
			skip(diag, log, lineNo, fmt.Errorf("missing DocId: %w", internalerr.ErrInvalidInput))
			continue
		}
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		return nil, diag, err
	}

	if len(items) == 0 {
		return nil, diag, fmt.Errorf("no valid items found: %w", internalerr.ErrInvalidInput)
	}
	return items, diag, nil
}

func skip(diag *internalerr.Diagnostics, log logrus.FieldLogger, line int, err error) {
	diag.Add("corpus", "line "+strconv.Itoa(line), err)
	log.WithFields(logrus.Fields{"line": line, "error": err}).Warn("skipping malformed corpus line")
}
