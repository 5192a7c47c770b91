package git

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Storage is the read side of a git object database: object lookup and
// reference iteration. Walks never write through it.
type Storage interface {
	storer.EncodedObjectStorer
	storer.ReferenceStorer
}

// CommitIter yields commits one at a time and lets the consumer mark commits
// that must not be yielded again.
type CommitIter interface {
	// Next returns the next commit, or io.EOF when the iteration is done.
	Next() (*object.Commit, error)
	// Hide marks a commit as visited.
	Hide(plumbing.Hash)
}

// Compile-time interface conformance checks.
var (
	_ Storage    = (*filesystem.Storage)(nil)
	_ Storage    = (*memory.Storage)(nil)
	_ CommitIter = (*WalkIter)(nil)
)
