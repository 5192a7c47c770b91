// Package cobtest builds in-memory COB histories for tests.
package cobtest

import (
	"encoding/json"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Epoch is the author time of the first commit written by a Graph.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Graph writes blobs, trees, commits and references into a memory storage.
// Every commit is one minute newer than the previous one.
type Graph struct {
	t       testing.TB
	Storage *memory.Storage
	clock   time.Time
}

// NewGraph creates an empty graph.
func NewGraph(t testing.TB) *Graph {
	t.Helper()
	return &Graph{t: t, Storage: memory.NewStorage(), clock: Epoch}
}

// Blob writes data as a blob.
func (g *Graph) Blob(data []byte) plumbing.Hash {
	g.t.Helper()
	obj := g.Storage.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		g.t.Fatalf("blob writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		g.t.Fatalf("write blob: %v", err)
	}
	if err := w.Close(); err != nil {
		g.t.Fatalf("close blob: %v", err)
	}
	h, err := g.Storage.SetEncodedObject(obj)
	if err != nil {
		g.t.Fatalf("store blob: %v", err)
	}
	return h
}

// File returns a regular file entry for a new blob holding data.
func (g *Graph) File(name string, data []byte) object.TreeEntry {
	g.t.Helper()
	return object.TreeEntry{Name: name, Mode: filemode.Regular, Hash: g.Blob(data)}
}

// Tree writes a tree with the given entries in git order.
func (g *Graph) Tree(entries ...object.TreeEntry) plumbing.Hash {
	g.t.Helper()
	sorted := append([]object.TreeEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sortKey(sorted[i]) < sortKey(sorted[j])
	})
	tree := &object.Tree{Entries: sorted}
	obj := g.Storage.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		g.t.Fatalf("encode tree: %v", err)
	}
	h, err := g.Storage.SetEncodedObject(obj)
	if err != nil {
		g.t.Fatalf("store tree: %v", err)
	}
	return h
}

func sortKey(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

// Commit writes a commit of tree with the given parents.
func (g *Graph) Commit(tree plumbing.Hash, author string, parents ...plumbing.Hash) plumbing.Hash {
	g.t.Helper()
	g.clock = g.clock.Add(time.Minute)
	sig := object.Signature{Name: "radicle", Email: author, When: g.clock}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      "change",
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := g.Storage.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		g.t.Fatalf("encode commit: %v", err)
	}
	h, err := g.Storage.SetEncodedObject(obj)
	if err != nil {
		g.t.Fatalf("store commit: %v", err)
	}
	return h
}

// Change writes a COB change of typeName whose action blobs hold the given
// JSON documents, named 1, 2, 3, ...
func (g *Graph) Change(typeName, author string, actions []string, parents ...plumbing.Hash) plumbing.Hash {
	g.t.Helper()
	entries := []object.TreeEntry{g.File("manifest", Manifest(typeName))}
	for i, action := range actions {
		entries = append(entries, g.File(strconv.Itoa(i+1), []byte(action)))
	}
	return g.Commit(g.Tree(entries...), author, parents...)
}

// SetRef points a reference at h.
func (g *Graph) SetRef(name string, h plumbing.Hash) {
	g.t.Helper()
	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), h)
	if err := g.Storage.SetReference(ref); err != nil {
		g.t.Fatalf("set reference %s: %v", name, err)
	}
}

// CommitTime returns the author time of a commit written by the graph.
func (g *Graph) CommitTime(h plumbing.Hash) time.Time {
	g.t.Helper()
	c, err := object.GetCommit(g.Storage, h)
	if err != nil {
		g.t.Fatalf("get commit %s: %v", h, err)
	}
	return c.Author.When
}

// Manifest returns an encoded manifest for typeName.
func Manifest(typeName string) []byte {
	data, _ := json.Marshal(map[string]any{"typeName": typeName, "version": 1})
	return data
}

// NamespaceRef returns the reference of a COB inside a remote's namespace.
func NamespaceRef(remote, typeName string, id plumbing.Hash) string {
	return "refs/namespaces/" + remote + "/refs/cobs/" + typeName + "/" + id.String()
}
