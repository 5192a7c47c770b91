package cob

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// DecodeKind tells which part of a change failed to decode.
type DecodeKind string

const (
	KindTree     DecodeKind = "tree"
	KindManifest DecodeKind = "manifest"
	KindChange   DecodeKind = "change"
	KindEntry    DecodeKind = "entry"
	KindAction   DecodeKind = "action"
)

// DecodeError is an item-level failure while reading a stream. It never ends
// the stream: a failing manifest or change skips its commit, a failing action
// skips that action.
type DecodeError struct {
	Kind DecodeKind
	Oid  plumbing.Hash
	Err  error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindTree:
		return fmt.Sprintf("failed to get associated tree for commit %s: %v", e.Oid, e.Err)
	case KindManifest:
		return fmt.Sprintf("failed to decode the COB manifest %s: %v", e.Oid, e.Err)
	case KindChange:
		return fmt.Sprintf("failed to load change %s: %v", e.Oid, e.Err)
	case KindEntry:
		return fmt.Sprintf("invalid tree entry %s: %v", e.Oid, e.Err)
	default:
		return fmt.Sprintf("failed to decode action %s: %v", e.Oid, e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
