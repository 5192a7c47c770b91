// Package cob reads the history of collaborative objects (COBs) directly from
// a git object database.
//
// A COB is a document whose mutations are stored as a graph of changes. Each
// change is a commit whose tree holds a "manifest" blob naming the COB type
// and one blob per action, named 1, 2, 3, ... in action order. Streams walk a
// range of that graph and decode the actions of every change belonging to the
// requested type.
package cob

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// TypeName names a COB type, e.g. "xyz.radicle.patch".
type TypeName string

// Well-known COB types.
const (
	TypePatch    TypeName = "xyz.radicle.patch"
	TypeIssue    TypeName = "xyz.radicle.issue"
	TypeIdentity TypeName = "xyz.radicle.id"
)

// String returns the type name.
func (t TypeName) String() string {
	return string(t)
}

// ObjectID identifies one COB instance: the hash of its root change.
type ObjectID plumbing.Hash

// ParseObjectID parses a hex object id.
func ParseObjectID(s string) (ObjectID, error) {
	s = strings.TrimSpace(s)
	if !plumbing.IsHash(s) {
		return ObjectID{}, fmt.Errorf("invalid object id %q", s)
	}
	return ObjectID(plumbing.NewHash(s)), nil
}

// Hash returns the root commit hash.
func (id ObjectID) Hash() plumbing.Hash {
	return plumbing.Hash(id)
}

// String returns the hex form of the id.
func (id ObjectID) String() string {
	return plumbing.Hash(id).String()
}

// MarshalText encodes the id as hex.
func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex id.
func (id *ObjectID) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// EntryID identifies one change of a COB: the hash of its commit.
type EntryID plumbing.Hash

// Hash returns the change commit hash.
func (id EntryID) Hash() plumbing.Hash {
	return plumbing.Hash(id)
}

// String returns the hex form of the id.
func (id EntryID) String() string {
	return plumbing.Hash(id).String()
}

// MarshalText encodes the id as hex.
func (id EntryID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex id.
func (id *EntryID) UnmarshalText(text []byte) error {
	s := string(text)
	if !plumbing.IsHash(s) {
		return fmt.Errorf("invalid entry id %q", s)
	}
	*id = EntryID(plumbing.NewHash(s))
	return nil
}

// TypedID uniquely identifies one COB instance.
type TypedID struct {
	TypeName TypeName `json:"typeName"`
	ID       ObjectID `json:"id"`
}

// String returns "<type>/<id>".
func (t TypedID) String() string {
	return t.TypeName.String() + "/" + t.ID.String()
}

// IsPatch reports whether the id refers to a patch.
func (t TypedID) IsPatch() bool {
	return t.TypeName == TypePatch
}

// IsIssue reports whether the id refers to an issue.
func (t TypedID) IsIssue() bool {
	return t.TypeName == TypeIssue
}

// Manifest is the per-change metadata naming the COB type a change belongs to.
type Manifest struct {
	TypeName TypeName `json:"typeName"`
	Version  int      `json:"version,omitempty"`
}

// Author is the author of a change, with a display alias when one is known.
type Author struct {
	ID    string  `json:"did"`
	Alias *string `json:"alias,omitempty"`
}

// NewAuthor resolves the alias of id through aliases. A missing alias or a nil
// store leaves Alias unset.
func NewAuthor(id string, aliases AliasStore) Author {
	author := Author{ID: id}
	if aliases == nil {
		return author
	}
	if alias, ok := aliases.Alias(id); ok {
		author.Alias = &alias
	}
	return author
}

// DisplayName returns the alias when set, the id otherwise.
func (a Author) DisplayName() string {
	if a.Alias != nil && *a.Alias != "" {
		return *a.Alias
	}
	return a.ID
}

// Action is one decoded action blob, carrying the metadata of the change it
// belongs to.
type Action[A any] struct {
	EntryID   EntryID   `json:"oid"`
	Author    Author    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Action    A         `json:"action"`
}

// Operation is one decoded change with its actions in on-disk order.
type Operation[A any] struct {
	EntryID   EntryID   `json:"id"`
	Author    Author    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Actions   []A       `json:"actions"`
}
