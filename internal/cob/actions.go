package cob

import (
	"errors"
	"io"
	"iter"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"github.com/masmgr/cobwalk-go/internal/git"
)

const manifestEntry = "manifest"

// Actions iterates over every action of the changes in a walk that belong to
// one COB type.
//
// Errors returned by Next, other than io.EOF, are scoped to a single item; the
// caller may keep calling Next to read the rest of the stream.
type Actions[A any] struct {
	walk     git.CommitIter
	storage  git.Storage
	typeName TypeName
	decoder  Decoder[A]
	loader   ChangeLoader
	aliases  AliasStore
	log      *zap.Logger

	// tree is the cursor over the change currently being read, nil between
	// changes.
	tree *treeCursor
}

type treeCursor struct {
	entries []object.TreeEntry
	pos     int
	change  Change
	author  Author
}

func (t *treeCursor) next() (object.TreeEntry, bool) {
	if t.pos >= len(t.entries) {
		return object.TreeEntry{}, false
	}
	entry := t.entries[t.pos]
	t.pos++
	return entry, true
}

func newActions[A any](walk git.CommitIter, s git.Storage, typeName TypeName, decoder Decoder[A], o options) *Actions[A] {
	return &Actions[A]{
		walk:     walk,
		storage:  s,
		typeName: typeName,
		decoder:  decoder,
		loader:   o.loader,
		aliases:  o.aliases,
		log:      o.log,
	}
}

// Next returns the next action, or io.EOF once the walk is exhausted.
func (it *Actions[A]) Next() (Action[A], error) {
	for {
		if it.tree != nil {
			if entry, ok := it.tree.next(); ok {
				return it.action(entry)
			}
			it.tree = nil
		}

		c, err := it.walk.Next()
		if err != nil {
			return Action[A]{}, err
		}
		if err := it.enter(c); err != nil {
			return Action[A]{}, err
		}
	}
}

// Seq returns the remaining items as an iterator. Item errors are yielded
// alongside a zero Action; the sequence ends when the walk is exhausted.
func (it *Actions[A]) Seq() iter.Seq2[Action[A], error] {
	return func(yield func(Action[A], error) bool) {
		for {
			a, err := it.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(a, err) {
				return
			}
		}
	}
}

// enter activates a tree cursor for c when c is a change of the wanted type.
// Commits without a manifest, or with a manifest for another type, are left
// without a cursor.
func (it *Actions[A]) enter(c *object.Commit) error {
	tree, err := c.Tree()
	if err != nil {
		return &DecodeError{Kind: KindTree, Oid: c.Hash, Err: err}
	}

	manifest, found, err := it.manifest(tree)
	if err != nil {
		return err
	}
	if !found || manifest.TypeName != it.typeName {
		return nil
	}

	change, err := it.loader.Load(c)
	if err != nil {
		return &DecodeError{Kind: KindChange, Oid: c.Hash, Err: err}
	}

	it.log.Debug("reading change",
		zap.Stringer("commit", c.Hash),
		zap.Stringer("tree", tree.Hash),
	)

	it.tree = &treeCursor{
		entries: actionEntries(tree),
		change:  change,
		author:  NewAuthor(change.Author, it.aliases),
	}
	// A change reachable from two forks is read once.
	it.walk.Hide(c.Hash)
	return nil
}

func (it *Actions[A]) manifest(tree *object.Tree) (Manifest, bool, error) {
	var entry *object.TreeEntry
	for i := range tree.Entries {
		if tree.Entries[i].Name == manifestEntry {
			entry = &tree.Entries[i]
			break
		}
	}
	if entry == nil {
		return Manifest{}, false, nil
	}

	data, err := readBlob(it.storage, *entry)
	if err != nil {
		return Manifest{}, true, &DecodeError{Kind: KindManifest, Oid: entry.Hash, Err: err}
	}
	manifest, err := JSONDecoder[Manifest]{}.Decode(data)
	if err != nil {
		return Manifest{}, true, &DecodeError{Kind: KindManifest, Oid: entry.Hash, Err: err}
	}
	return manifest, true, nil
}

func (it *Actions[A]) action(entry object.TreeEntry) (Action[A], error) {
	data, err := readBlob(it.storage, entry)
	if err != nil {
		return Action[A]{}, &DecodeError{Kind: KindEntry, Oid: entry.Hash, Err: err}
	}
	it.log.Debug("decoding action", zap.Stringer("blob", entry.Hash))
	value, err := it.decoder.Decode(data)
	if err != nil {
		return Action[A]{}, &DecodeError{Kind: KindAction, Oid: entry.Hash, Err: err}
	}
	return Action[A]{
		EntryID:   EntryID(it.tree.change.ID),
		Author:    it.tree.author,
		Timestamp: it.tree.change.Timestamp,
		Action:    value,
	}, nil
}

func readBlob(s git.Storage, entry object.TreeEntry) ([]byte, error) {
	blob, err := object.GetBlob(s, entry.Hash)
	if err != nil {
		return nil, err
	}
	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// actionEntries returns the entries of tree that hold actions: regular files
// whose name is all digits, ordered by their numeric value.
func actionEntries(tree *object.Tree) []object.TreeEntry {
	var entries []object.TreeEntry
	for _, entry := range tree.Entries {
		if git.IsRegularBlob(entry.Mode) && isNumeric(entry.Name) {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return numericLess(entries[i].Name, entries[j].Name)
	})
	return entries
}

func isNumeric(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// numericLess compares two digit strings by value without parsing them, so
// names of any length are ordered correctly.
func numericLess(a, b string) bool {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) < len(tb)
	}
	if ta != tb {
		return ta < tb
	}
	return a < b
}
