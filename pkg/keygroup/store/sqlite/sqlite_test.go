package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/store"
)

func openTest(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteDocRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	doc := store.Doc{
		ID:         42,
		Cluster:    3,
		Title:      "Traffic study",
		KeyPhrases: []string{"traffic congestion", "prediction model"},
		CandidatePhrases: []store.Phrase{
			{KeyPhrase: "traffic congestion"},
			{KeyPhrase: "congestion prediction"},
		},
		Text: "Traffic congestion prediction.",
	}
	if err := st.UpsertDoc(ctx, doc); err != nil {
		t.Fatalf("UpsertDoc: %v", err)
	}

	got, ok, err := st.GetDoc(ctx, 42)
	if err != nil {
		t.Fatalf("GetDoc: %v", err)
	}
	if !ok {
		t.Fatal("document should be found")
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, doc)
	}

	if _, ok, err := st.GetDoc(ctx, 1); err != nil || ok {
		t.Errorf("expected missing doc, got ok=%v err=%v", ok, err)
	}
}

func TestSQLiteReIngestReplacesPhrases(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	if err := st.UpsertDoc(ctx, store.Doc{ID: 1, Cluster: 1, KeyPhrases: []string{"a b", "c d", "e f"}}); err != nil {
		t.Fatalf("UpsertDoc: %v", err)
	}
	if err := st.UpsertDoc(ctx, store.Doc{ID: 1, Cluster: 2, KeyPhrases: []string{"road network"}}); err != nil {
		t.Fatalf("UpsertDoc: %v", err)
	}

	got, _, err := st.GetDoc(ctx, 1)
	if err != nil {
		t.Fatalf("GetDoc: %v", err)
	}
	if got.Cluster != 2 || !reflect.DeepEqual(got.KeyPhrases, []string{"road network"}) {
		t.Errorf("expected re-ingest to replace doc, got %+v", got)
	}
}

func TestSQLiteClusters(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	for _, d := range []store.Doc{{ID: 5, Cluster: 2}, {ID: 4, Cluster: 1}, {ID: 2, Cluster: 2}} {
		if err := st.UpsertDoc(ctx, d); err != nil {
			t.Fatalf("UpsertDoc: %v", err)
		}
	}

	clusters, err := st.Clusters(ctx)
	if err != nil {
		t.Fatalf("Clusters: %v", err)
	}
	if !reflect.DeepEqual(clusters, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", clusters)
	}

	docs, err := st.DocsByCluster(ctx, 2)
	if err != nil {
		t.Fatalf("DocsByCluster: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != 2 || docs[1].ID != 5 {
		t.Errorf("expected docs [2 5], got %+v", docs)
	}
}

func TestSQLiteGroups(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	if err := st.UpsertGroup(ctx, store.Group{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected invalid input for empty id, got %v", err)
	}

	g := store.Group{
		ID:       "01HZX",
		Cluster:  1,
		Source:   "textrank",
		Words:    []string{"traffic", "congestion"},
		Score:    1.36125,
		WordDocs: map[string][]int64{"traffic": {1, 2}, "congestion": {2}},
	}
	if err := st.UpsertGroup(ctx, g); err != nil {
		t.Fatalf("UpsertGroup: %v", err)
	}

	groups, err := st.GroupsByCluster(ctx, 1)
	if err != nil {
		t.Fatalf("GroupsByCluster: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	got := groups[0]
	if got.Source != "textrank" || got.Score != 1.36125 {
		t.Errorf("unexpected group %+v", got)
	}
	if !reflect.DeepEqual(got.Words, g.Words) || !reflect.DeepEqual(got.WordDocs, g.WordDocs) {
		t.Errorf("words or word docs lost: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	if other, _ := st.GroupsByCluster(ctx, 9); len(other) != 0 {
		t.Errorf("expected no groups for cluster 9, got %v", other)
	}
}
