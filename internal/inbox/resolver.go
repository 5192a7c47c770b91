package inbox

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/cob/issue"
	"github.com/masmgr/cobwalk-go/internal/cob/patch"
	"github.com/masmgr/cobwalk-go/internal/git"
)

// ErrUnknownType is returned for COB types without a registered decoder.
var ErrUnknownType = errors.New("no decoder for cob type")

// DefaultRegistry returns a registry with the patch and issue decoders.
func DefaultRegistry() *cob.Registry {
	r := cob.NewRegistry()
	r.Register(cob.TypePatch, cob.Erase(patch.Decoder))
	r.Register(cob.TypeIssue, cob.Erase(issue.Decoder))
	return r
}

// Resolver narrows a COB's history to the operations introduced by one ref
// movement.
type Resolver struct {
	registry *cob.Registry
	aliases  cob.AliasStore
	loader   cob.ChangeLoader
	log      *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithAliases sets the store used to resolve author aliases.
func WithAliases(a cob.AliasStore) ResolverOption {
	return func(r *Resolver) { r.aliases = a }
}

// WithChangeLoader sets how change metadata is read.
func WithChangeLoader(l cob.ChangeLoader) ResolverOption {
	return func(r *Resolver) { r.loader = l }
}

// NewResolver creates a resolver decoding actions with registry.
func NewResolver(registry *cob.Registry, log *zap.Logger, opts ...ResolverOption) *Resolver {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{registry: registry, loader: cob.CommitChangeLoader{}, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) streamOptions() []cob.Option {
	return []cob.Option{
		cob.WithAliases(r.aliases),
		cob.WithChangeLoader(r.loader),
		cob.WithLogger(r.log),
	}
}

// Operations returns the operations update introduced on the COB id, oldest
// first. Created updates yield the history up to the new tip; Updated updates
// yield the changes after the old tip up to the new one. Other kinds yield
// nothing.
//
// Undecodable actions are logged and dropped. An error is returned only when
// the range cannot be walked, e.g. because a tip is missing from s.
func (r *Resolver) Operations(s git.Storage, id cob.TypedID, update RefUpdate) ([]cob.Operation[any], error) {
	if update.Kind != Created && update.Kind != Updated {
		return nil, nil
	}
	decoder, ok := r.registry.Lookup(id.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, id.TypeName)
	}

	stream := cob.NewStream(s, cob.NewRange(id.TypeName, id.ID), id.TypeName, decoder, r.streamOptions()...)
	var (
		it  *cob.Actions[any]
		err error
	)
	switch update.Kind {
	case Created:
		it, err = stream.Until(update.New)
	case Updated:
		it, err = stream.Range(update.Old, update.New)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s %s: %w", update.Kind, id, err)
	}

	actions := cob.Collect(it, r.log.With(zap.Stringer("cob", id)))
	if update.Kind == Updated {
		// The walk starts at the old tip, which was already seen.
		actions = dropEntry(actions, update.Old)
	}
	return cob.CollectOperations(actions), nil
}

// Issue rebuilds the issue id from its full history in s.
func (r *Resolver) Issue(s git.Storage, id cob.ObjectID) (issue.Issue, error) {
	stream := cob.NewStream(s, cob.NewRange(cob.TypeIssue, id), cob.TypeIssue, issue.Decoder, r.streamOptions()...)
	it, err := stream.All()
	if err != nil {
		return issue.Issue{}, err
	}
	return issue.Replay(cob.Collect(it, r.log)), nil
}

func dropEntry[A any](actions []cob.Action[A], entry plumbing.Hash) []cob.Action[A] {
	kept := actions[:0]
	for _, a := range actions {
		if a.EntryID.Hash() != entry {
			kept = append(kept, a)
		}
	}
	return kept
}
