package index

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
)

func TestBuildDeep(t *testing.T) {
	docs := []Document{
		{ID: 1, Phrases: []string{"deep learning"}},
		{ID: 2, Phrases: []string{"deep network"}},
	}

	got, err := Build(docs, []string{"deep"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := WordDocs{"deep": {1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuildSubstringAndCase(t *testing.T) {
	docs := []Document{
		{ID: 10, Phrases: []string{"Neural Network"}},
		{ID: 11, Phrases: []string{"graph theory"}},
	}

	got, err := Build(docs, []string{"NET"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ids, ok := got["net"]
	if !ok {
		t.Fatal("key should be lower-cased")
	}
	if len(ids) != 1 || ids[0] != 10 {
		t.Errorf("substring match should find doc 10, got %v", ids)
	}
}

func TestBuildNoMatchIsEmpty(t *testing.T) {
	docs := []Document{{ID: 1, Phrases: []string{"deep learning"}}}

	got, err := Build(docs, []string{"graph"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if ids, ok := got["graph"]; !ok || len(ids) != 0 {
		t.Errorf("expected empty entry for 'graph', got %v (present=%v)", ids, ok)
	}
}

func TestBuildDuplicateDocID(t *testing.T) {
	docs := []Document{
		{ID: 1, Phrases: []string{"a"}},
		{ID: 1, Phrases: []string{"b"}},
	}

	_, err := Build(docs, []string{"a"})
	if !errors.Is(err, internalerr.ErrDataIntegrity) {
		t.Fatalf("expected data integrity error, got %v", err)
	}

	var die *internalerr.DataIntegrityError
	if errors.As(err, &die) && die.Input != "1" {
		t.Errorf("error should name doc id 1, got %q", die.Input)
	}
}

func TestBuildBlankWord(t *testing.T) {
	_, err := Build([]Document{{ID: 1}}, []string{"  "})
	if !errors.Is(err, internalerr.ErrDataIntegrity) {
		t.Fatalf("expected data integrity error, got %v", err)
	}
}

func TestRanked(t *testing.T) {
	wd := WordDocs{
		"model":   {1},
		"traffic": {1, 2, 3},
		"control": {2},
	}

	ranked := wd.Ranked()
	if ranked[0].Word != "traffic" {
		t.Errorf("expected traffic first, got %s", ranked[0].Word)
	}
	if ranked[1].Word != "control" || ranked[2].Word != "model" {
		t.Errorf("ties should break by word, got %v", ranked)
	}
}

func TestIntersect(t *testing.T) {
	got := Intersect([]int64{1, 2, 3, 4}, []int64{4, 2, 9})
	if !reflect.DeepEqual(got, []int64{2, 4}) {
		t.Errorf("expected [2 4], got %v", got)
	}
}
