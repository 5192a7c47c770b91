package cob

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/masmgr/cobwalk-go/internal/git"
)

// RefsGlob returns the pattern matching the reference of one COB in every
// remote namespace.
func RefsGlob(typeName TypeName, id ObjectID) string {
	return "refs/namespaces/*/refs/cobs/" + typeName.String() + "/" + id.String()
}

// Range is the default walk over one COB: from its root change to the tips of
// its references in all namespaces.
type Range struct {
	root  ObjectID
	until git.Until
}

// NewRange creates the range of a COB.
func NewRange(typeName TypeName, id ObjectID) Range {
	return Range{
		root:  id,
		until: git.Glob(RefsGlob(typeName, id)),
	}
}

// Root returns the root change of the COB.
func (r Range) Root() ObjectID {
	return r.root
}

func (r Range) walk() git.Walk {
	return git.NewWalk(r.root.Hash(), r.until)
}

type options struct {
	loader  ChangeLoader
	aliases AliasStore
	log     *zap.Logger
}

// Option configures a Stream.
type Option func(*options)

// WithChangeLoader sets how change metadata is read. The default is
// CommitChangeLoader.
func WithChangeLoader(l ChangeLoader) Option {
	return func(o *options) { o.loader = l }
}

// WithAliases sets the store used to resolve author aliases.
func WithAliases(a AliasStore) Option {
	return func(o *options) { o.aliases = a }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// Stream provides the actions of one COB. Every method builds a fresh walk;
// nothing is cached between calls.
type Stream[A any] struct {
	storage  git.Storage
	rng      Range
	typeName TypeName
	decoder  Decoder[A]
	opts     options
}

// NewStream creates a stream over the COB described by rng, decoding the
// actions of changes of type typeName with decoder.
func NewStream[A any](s git.Storage, rng Range, typeName TypeName, decoder Decoder[A], opts ...Option) *Stream[A] {
	o := options{loader: CommitChangeLoader{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return &Stream[A]{
		storage:  s,
		rng:      rng,
		typeName: typeName,
		decoder:  decoder,
		opts:     o,
	}
}

// Root returns the root change of the COB.
func (s *Stream[A]) Root() ObjectID {
	return s.rng.Root()
}

// All returns every action since the creation of the COB.
func (s *Stream[A]) All() (*Actions[A], error) {
	return s.iter(s.rng.walk())
}

// Since returns the actions from the given change onwards.
func (s *Stream[A]) Since(from plumbing.Hash) (*Actions[A], error) {
	return s.iter(s.rng.walk().Since(from))
}

// Until returns the actions from the root up to the given change.
func (s *Stream[A]) Until(tip plumbing.Hash) (*Actions[A], error) {
	return s.iter(s.rng.walk().Until(git.Tip(tip)))
}

// Range returns the actions from one change up to another, ignoring the COB
// root.
func (s *Stream[A]) Range(from, until plumbing.Hash) (*Actions[A], error) {
	return s.iter(git.NewWalk(from, git.Tip(until)))
}

func (s *Stream[A]) iter(w git.Walk) (*Actions[A], error) {
	walk, err := w.Iter(s.storage)
	if err != nil {
		return nil, fmt.Errorf("failed to construct stream: %w", err)
	}
	return newActions(walk, s.storage, s.typeName, s.decoder, s.opts), nil
}
