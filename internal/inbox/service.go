package inbox

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/git"
	"github.com/masmgr/cobwalk-go/internal/readmodel"
)

// DefaultTake is the number of refs listed per repository unless All is set.
const DefaultTake = 20

// Store is the part of the read model the inbox reads from.
type Store interface {
	RepoGroups(ctx context.Context, params readmodel.RepoGroupParams) ([]readmodel.RepoGroup, error)
	CountsByRepo(ctx context.Context) (map[string]int, error)
	GetPatch(ctx context.Context, rid, id string) (readmodel.PatchRow, error)
}

var _ Store = (*readmodel.Store)(nil)

// Params selects the notifications to list.
type Params struct {
	// Repos restricts the listing; empty lists every repository.
	Repos []string
	// Take limits the refs listed per repository; zero means DefaultTake.
	Take int
	// All disables Take.
	All bool
}

func (p Params) take() int {
	switch {
	case p.All:
		return -1
	case p.Take > 0:
		return p.Take
	default:
		return DefaultTake
	}
}

// Item is one resolved notification.
type Item struct {
	RowID     int64                `json:"rowId"`
	Repo      string               `json:"repo"`
	COB       cob.TypedID          `json:"cob"`
	Update    RefUpdate            `json:"update"`
	Timestamp int64                `json:"timestamp"`
	Title     string               `json:"title"`
	Status    string               `json:"status"`
	Actions   []cob.Operation[any] `json:"actions"`
}

// RepoNotifications are the resolved notifications of one repository,
// grouped by ref, newest ref first.
type RepoNotifications struct {
	Repo  string   `json:"rid"`
	Count int      `json:"count"`
	Refs  [][]Item `json:"notifications"`
}

// Service lists notifications with the operations behind each of them.
type Service struct {
	store    Store
	repos    Repositories
	resolver *Resolver
	log      *zap.Logger
}

// NewService creates an inbox service.
func NewService(store Store, repos Repositories, resolver *Resolver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if resolver == nil {
		resolver = NewResolver(nil, log)
	}
	return &Service{store: store, repos: repos, resolver: resolver, log: log}
}

// List returns the notifications selected by params. Notifications that
// cannot be resolved are logged and left out; only read-model failures are
// returned.
func (s *Service) List(ctx context.Context, params Params) ([]RepoNotifications, error) {
	groups, err := s.store.RepoGroups(ctx, readmodel.RepoGroupParams{Repos: params.Repos})
	if err != nil {
		return nil, fmt.Errorf("failed to group notifications: %w", err)
	}
	counts, err := s.store.CountsByRepo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	take := params.take()
	var result []RepoNotifications
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		storage, err := s.repos.Open(group.Repo)
		if err != nil {
			s.log.Error("skipping repository",
				zap.Error(&LookupError{What: "repository", Key: group.Repo, Err: err}))
			continue
		}

		refs := group.Refs
		if take >= 0 && len(refs) > take {
			refs = refs[:take]
		}
		content := make([][]Item, 0, len(refs))
		for _, ref := range refs {
			items, err := s.resolveRef(ctx, storage, ref)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s in %s: %w", ref.Ref, group.Repo, err)
			}
			if len(items) > 0 {
				content = append(content, items)
			}
		}
		if len(content) == 0 {
			continue
		}

		count, ok := counts[group.Repo]
		if !ok {
			for _, items := range content {
				count += len(items)
			}
		}
		result = append(result, RepoNotifications{Repo: group.Repo, Count: count, Refs: content})
	}
	return result, nil
}

// resolveRef resolves the notifications of one ref. Lookup failures drop the
// ref and are logged; read-model failures are returned.
func (s *Service) resolveRef(ctx context.Context, storage git.Storage, ref readmodel.RefGroup) ([]Item, error) {
	log := s.log.With(zap.String("repo", ref.Repo), zap.String("ref", ref.Ref))

	kind, err := ParseKind(ref.Ref)
	if err != nil {
		log.Debug("skipping ref", zap.Error(err))
		return nil, nil
	}
	if kind.COB == nil || (!kind.COB.IsPatch() && !kind.COB.IsIssue()) {
		return nil, nil
	}
	id := *kind.COB

	title, status, err := s.describe(ctx, storage, ref.Repo, id)
	var lookup *LookupError
	switch {
	case errors.As(err, &lookup):
		log.Error("skipping notifications", zap.Error(err))
		return nil, nil
	case err != nil:
		return nil, err
	}

	items := make([]Item, 0, len(ref.Rows))
	for _, row := range ref.Rows {
		update := ParseUpdate(ref.Ref, row.Old, row.New)
		ops, err := s.resolver.Operations(storage, id, update)
		if err != nil {
			log.Warn("dropping notification",
				zap.Int64("rowId", row.RowID),
				zap.Error(&LookupError{What: "history", Key: id.String(), Err: err}))
			continue
		}
		if ops == nil {
			ops = []cob.Operation[any]{}
		}
		items = append(items, Item{
			RowID:     row.RowID,
			Repo:      ref.Repo,
			COB:       id,
			Update:    update,
			Timestamp: row.Timestamp,
			Title:     title,
			Status:    status,
			Actions:   ops,
		})
	}
	return items, nil
}

// describe returns the title and status of a COB: from the read model for
// patches, replayed from history for issues.
func (s *Service) describe(ctx context.Context, storage git.Storage, rid string, id cob.TypedID) (string, string, error) {
	if id.IsPatch() {
		row, err := s.store.GetPatch(ctx, rid, id.ID.String())
		if err != nil {
			if errors.Is(err, readmodel.ErrNotFound) {
				return "", "", &LookupError{What: "patch", Key: id.ID.String(), Err: err}
			}
			return "", "", err
		}
		return row.Patch.Title, string(row.Patch.State.Status), nil
	}

	i, err := s.resolver.Issue(storage, id.ID)
	if err != nil {
		return "", "", &LookupError{What: "issue", Key: id.ID.String(), Err: err}
	}
	return i.Title, i.State.Status, nil
}
