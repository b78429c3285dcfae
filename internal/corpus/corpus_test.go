package corpus

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const sample = `{"DocId": 1, "Cluster": 2, "KeyPhrases": ["traffic congestion"], "CandidatePhrases": [{"key-phrase": "traffic congestion"}]}
not json at all

{"Cluster": 2, "KeyPhrases": ["orphan"]}
{"DocId": 2, "Cluster": 2, "Title": "Urban", "Text": "Urban traffic grows."}
`

func TestReadSkipsBadLines(t *testing.T) {
	items, diag, err := Read(strings.NewReader(sample), quietLogger())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].CandidatePhrases[0].KeyPhrase != "traffic congestion" {
		t.Errorf("candidate phrase not decoded: %+v", items[0])
	}
	if items[1].Title != "Urban" || items[1].Text == "" {
		t.Errorf("unexpected second item %+v", items[1])
	}

	if diag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diag.Messages())
	}
	if !strings.Contains(diag.Messages()[0], "line 2") || !strings.Contains(diag.Messages()[1], "line 4") {
		t.Errorf("diagnostics should name the lines, got %v", diag.Messages())
	}
}

func TestReadNoValidItems(t *testing.T) {
	_, _, err := Read(strings.NewReader("garbage\n"), quietLogger())
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestLoadFromJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	items, _, err := LoadFromJSONL(path, quietLogger())
	if err != nil {
		t.Fatalf("LoadFromJSONL failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}

	if _, _, err := LoadFromJSONL(filepath.Join(t.TempDir(), "missing.jsonl"), quietLogger()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestItemIngestDoc(t *testing.T) {
	items, _, err := Read(strings.NewReader(sample), quietLogger())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	doc := items[0].IngestDoc()
	if doc.ID != 1 || doc.Cluster != 2 {
		t.Errorf("unexpected doc %+v", doc)
	}
	if !reflect.DeepEqual(doc.CandidatePhrases, []string{"traffic congestion"}) {
		t.Errorf("expected plain candidate strings, got %v", doc.CandidatePhrases)
	}
}
