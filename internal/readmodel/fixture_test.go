package readmodel

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureSchema = `
CREATE TABLE "repository-notifications" (
  rowid INTEGER PRIMARY KEY,
  repo TEXT NOT NULL,
  ref TEXT NOT NULL,
  old TEXT,
  new TEXT,
  timestamp INTEGER NOT NULL
);
CREATE TABLE patches (
  id TEXT NOT NULL,
  repo TEXT NOT NULL,
  patch TEXT NOT NULL
);`

// fixture is a writable handle on a cache database used to seed rows before
// the read-only Store under test opens it.
type fixture struct {
	t    *testing.T
	path string
	db   *sql.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(fixtureSchema)
	require.NoError(t, err)
	return &fixture{t: t, path: path, db: db}
}

func (f *fixture) open(opts Options) *Store {
	f.t.Helper()
	store, err := Open(f.path, opts)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { require.NoError(f.t, store.Close()) })
	return store
}

// patchDoc builds a cached patch document with one revision per timestamp.
// A negative timestamp stands for a redacted revision.
func patchDoc(title, status string, timestamps ...int64) string {
	revisions := make(map[string]any, len(timestamps))
	for i, ts := range timestamps {
		id := fmt.Sprintf("rev%d", i)
		if ts < 0 {
			revisions[id] = nil
			continue
		}
		revisions[id] = map[string]any{
			"id":          id,
			"author":      map[string]string{"id": "did:key:z6MkAuthor"},
			"description": []any{},
			"base":        "base",
			"oid":         "oid",
			"timestamp":   ts,
		}
	}
	state := map[string]any{"status": status}
	switch status {
	case "open":
		state["conflicts"] = []any{}
	case "merged":
		state["revision"] = "rev0"
		state["commit"] = "abc"
	}
	doc, _ := json.Marshal(map[string]any{
		"title":     title,
		"author":    map[string]string{"id": "did:key:z6MkAuthor"},
		"state":     state,
		"target":    "delegates",
		"labels":    []string{},
		"assignees": []string{},
		"revisions": revisions,
		"timeline":  []string{},
	})
	return string(doc)
}

func (f *fixture) patch(repo, id, doc string) {
	f.t.Helper()
	_, err := f.db.Exec(`INSERT INTO patches (id, repo, patch) VALUES (?, ?, ?)`, id, repo, doc)
	require.NoError(f.t, err)
}

// remoteKey pads name into a 48 character namespace key.
func remoteKey(name string) string {
	return "z6Mk" + name + strings.Repeat("x", 44-len(name))
}

func namespaced(remote, ref string) string {
	return "refs/namespaces/" + remoteKey(remote) + "/" + ref
}

func (f *fixture) notification(repo, ref string, old, new *string, ts int64) {
	f.t.Helper()
	_, err := f.db.Exec(
		`INSERT INTO "repository-notifications" (repo, ref, old, new, timestamp) VALUES (?, ?, ?, ?, ?)`,
		repo, ref, old, new, ts)
	require.NoError(f.t, err)
}

func strp(s string) *string { return &s }
