package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id INTEGER PRIMARY KEY,
	cluster INTEGER NOT NULL,
	title TEXT,
	body TEXT
);

CREATE INDEX IF NOT EXISTS idx_docs_cluster ON docs(cluster);

CREATE TABLE IF NOT EXISTS doc_phrases (
	doc_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	pos INTEGER NOT NULL,
	phrase TEXT NOT NULL,
	PRIMARY KEY(doc_id, kind, pos),
	FOREIGN KEY(doc_id) REFERENCES docs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groups (
	id TEXT PRIMARY KEY,
	cluster INTEGER NOT NULL,
	source TEXT NOT NULL,
	words TEXT NOT NULL,
	score REAL NOT NULL,
	word_docs TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_groups_cluster ON groups(cluster);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

const (
	kindKey       = "key"
	kindCandidate = "candidate"
)

// UpsertDoc inserts or replaces a document and its phrases
func (s *sqliteStore) UpsertDoc(ctx context.Context, d store.Doc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO docs (id, cluster, title, body)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	cluster=excluded.cluster,
	title=excluded.title,
	body=excluded.body;
`
	if _, err := tx.ExecContext(ctx, stmt, d.ID, d.Cluster, d.Title, d.Text); err != nil {
		return err
	}

	if err := replaceDocPhrases(ctx, tx, d.ID, kindKey, d.KeyPhrases); err != nil {
		return err
	}
	if err := replaceDocPhrases(ctx, tx, d.ID, kindCandidate, d.CandidateStrings()); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceDocPhrases(ctx context.Context, tx *sql.Tx, docID int64, kind string, phrases []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_phrases WHERE doc_id=? AND kind=?`, docID, kind); err != nil {
		return err
	}
	if len(phrases) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_phrases (doc_id, kind, pos, phrase) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range phrases {
		if _, err := stmt.ExecContext(ctx, docID, kind, i, p); err != nil {
			return err
		}
	}
	return nil
}

// GetDoc retrieves a document by ID
func (s *sqliteStore) GetDoc(ctx context.Context, id int64) (store.Doc, bool, error) {
	var d store.Doc
	var title, body sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id, cluster, title, body FROM docs WHERE id=?`, id).
		Scan(&d.ID, &d.Cluster, &title, &body)
	if err == sql.ErrNoRows {
		return store.Doc{}, false, nil
	}
	if err != nil {
		return store.Doc{}, false, err
	}
	d.Title = title.String
	d.Text = body.String

	if err := s.loadPhrases(ctx, &d); err != nil {
		return store.Doc{}, false, err
	}
	return d, true, nil
}

func (s *sqliteStore) loadPhrases(ctx context.Context, d *store.Doc) error {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, phrase FROM doc_phrases WHERE doc_id=? ORDER BY kind, pos`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var kind, phrase string
		if err := rows.Scan(&kind, &phrase); err != nil {
			return err
		}
		switch kind {
		case kindKey:
			d.KeyPhrases = append(d.KeyPhrases, phrase)
		case kindCandidate:
			d.CandidatePhrases = append(d.CandidatePhrases, store.Phrase{KeyPhrase: phrase})
		}
	}
	return rows.Err()
}

// DocsByCluster returns the documents of a cluster ordered by ID
func (s *sqliteStore) DocsByCluster(ctx context.Context, cluster int) ([]store.Doc, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM docs WHERE cluster=? ORDER BY id`, cluster)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	docs := make([]store.Doc, 0, len(ids))
	for _, id := range ids {
		doc, ok, err := s.GetDoc(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Clusters returns every cluster number holding a document
func (s *sqliteStore) Clusters(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT cluster FROM docs ORDER BY cluster`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertGroup stores a topic group
func (s *sqliteStore) UpsertGroup(ctx context.Context, g store.Group) error {
	if g.ID == "" {
		return fmt.Errorf("upsert group: empty id: %w", internalerr.ErrInvalidInput)
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	words, err := json.Marshal(g.Words)
	if err != nil {
		return fmt.Errorf("encode words: %w", err)
	}
	wordDocs, err := json.Marshal(g.WordDocs)
	if err != nil {
		return fmt.Errorf("encode word docs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO groups (id, cluster, source, words, score, word_docs, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	cluster=excluded.cluster,
	source=excluded.source,
	words=excluded.words,
	score=excluded.score,
	word_docs=excluded.word_docs,
	created_at=excluded.created_at;
`, g.ID, g.Cluster, g.Source, string(words), g.Score, string(wordDocs), g.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// GroupsByCluster returns the groups of a cluster, oldest first
func (s *sqliteStore) GroupsByCluster(ctx context.Context, cluster int) ([]store.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, cluster, source, words, score, word_docs, created_at
FROM groups WHERE cluster=? ORDER BY id`, cluster)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Group
	for rows.Next() {
		var g store.Group
		var words, wordDocs, created string
		if err := rows.Scan(&g.ID, &g.Cluster, &g.Source, &words, &g.Score, &wordDocs, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(words), &g.Words); err != nil {
			return nil, fmt.Errorf("decode words of group %s: %w", g.ID, err)
		}
		if err := json.Unmarshal([]byte(wordDocs), &g.WordDocs); err != nil {
			return nil, fmt.Errorf("decode word docs of group %s: %w", g.ID, err)
		}
		if g.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("decode created_at of group %s: %w", g.ID, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
