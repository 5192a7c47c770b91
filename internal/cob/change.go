package cob

import (
	"errors"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Change is the metadata of one change, independent of its action payloads.
type Change struct {
	ID        plumbing.Hash
	Author    string
	Timestamp time.Time
}

// ChangeLoader reads the metadata of a change commit. Implementations backed
// by a signing layer verify the change and report the signer as the author.
type ChangeLoader interface {
	Load(c *object.Commit) (Change, error)
}

// AliasStore resolves an author id to a human readable alias.
type AliasStore interface {
	Alias(id string) (string, bool)
}

// ErrNoAuthor is returned for change commits without an author signature.
var ErrNoAuthor = errors.New("change has no author")

// CommitChangeLoader takes change metadata from the commit author signature:
// the email carries the author key and the author time is the change time.
type CommitChangeLoader struct{}

// Load implements ChangeLoader.
func (CommitChangeLoader) Load(c *object.Commit) (Change, error) {
	author := c.Author.Email
	if author == "" {
		author = c.Author.Name
	}
	if author == "" {
		return Change{}, ErrNoAuthor
	}
	return Change{
		ID:        c.Hash,
		Author:    author,
		Timestamp: c.Author.When,
	}, nil
}

// MapAliases is an AliasStore backed by a map.
type MapAliases map[string]string

// Alias implements AliasStore.
func (m MapAliases) Alias(id string) (string, bool) {
	alias, ok := m[id]
	return alias, ok
}
