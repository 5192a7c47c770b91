// Package patches serves patch listings and status counts from the read
// model.
package patches

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/cob/patch"
	"github.com/masmgr/cobwalk-go/internal/readmodel"
)

// Store is the part of the read model the service reads from.
type Store interface {
	ListPatches(ctx context.Context, rid string, filter readmodel.PatchFilter) (readmodel.Page[readmodel.PatchRow], error)
	GetPatch(ctx context.Context, rid, id string) (readmodel.PatchRow, error)
	PatchCounts(ctx context.Context, rid string) (map[patch.Status]int, error)
}

var _ Store = (*readmodel.Store)(nil)

// Summary is the listing view of one patch.
type Summary struct {
	ID            string       `json:"id"`
	Author        cob.Author   `json:"author"`
	Title         string       `json:"title"`
	Base          string       `json:"base"`
	Head          string       `json:"head"`
	State         patch.State  `json:"state"`
	Assignees     []cob.Author `json:"assignees"`
	Labels        []string     `json:"labels"`
	Timestamp     int64        `json:"timestamp"`
	RevisionCount int          `json:"revisionCount"`
}

// NewSummary builds the listing view of p.
func NewSummary(id string, p *patch.Patch, aliases cob.AliasStore) Summary {
	s := Summary{
		ID:            id,
		Author:        cob.NewAuthor(p.Author.ID, aliases),
		Title:         p.Title,
		State:         p.State,
		Assignees:     make([]cob.Author, 0, len(p.Assignees)),
		Labels:        p.Labels,
		Timestamp:     p.Timestamp(),
		RevisionCount: len(p.ActiveRevisions()),
	}
	if s.Labels == nil {
		s.Labels = []string{}
	}
	if latest := p.Latest(); latest != nil {
		s.Base = latest.Base
		s.Head = latest.Oid
	}
	for _, a := range p.Assignees {
		s.Assignees = append(s.Assignees, cob.NewAuthor(a, aliases))
	}
	return s
}

// Counts is the number of patches of a repository per status.
type Counts struct {
	Open     int `json:"open"`
	Draft    int `json:"draft"`
	Archived int `json:"archived"`
	Merged   int `json:"merged"`
}

// Total returns the sum of all statuses.
func (c Counts) Total() int {
	return c.Open + c.Draft + c.Archived + c.Merged
}

// Service answers patch queries for the CLI and the inbox.
type Service struct {
	store   Store
	aliases cob.AliasStore
	log     *zap.Logger
}

// NewService creates a service over store. aliases may be nil.
func NewService(store Store, aliases cob.AliasStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, aliases: aliases, log: log}
}

// List returns one page of patch summaries of rid.
func (s *Service) List(ctx context.Context, rid string, filter readmodel.PatchFilter) (readmodel.Page[Summary], error) {
	page, err := s.store.ListPatches(ctx, rid, filter)
	if err != nil {
		return readmodel.Page[Summary]{}, fmt.Errorf("failed to list patches of %s: %w", rid, err)
	}
	content := make([]Summary, 0, len(page.Content))
	for i := range page.Content {
		row := &page.Content[i]
		content = append(content, NewSummary(row.ID, &row.Patch, s.aliases))
	}
	return readmodel.Page[Summary]{
		Cursor:  page.Cursor,
		More:    page.More,
		Content: content,
	}, nil
}

// Get returns the summary of one patch.
func (s *Service) Get(ctx context.Context, rid, id string) (Summary, error) {
	row, err := s.store.GetPatch(ctx, rid, id)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get patch %s: %w", id, err)
	}
	return NewSummary(row.ID, &row.Patch, s.aliases), nil
}

// Counts returns the status counts of rid.
func (s *Service) Counts(ctx context.Context, rid string) (Counts, error) {
	raw, err := s.store.PatchCounts(ctx, rid)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count patches of %s: %w", rid, err)
	}
	var c Counts
	for status, n := range raw {
		switch status {
		case patch.StatusOpen:
			c.Open += n
		case patch.StatusDraft:
			c.Draft += n
		case patch.StatusArchived:
			c.Archived += n
		case patch.StatusMerged:
			c.Merged += n
		default:
			s.log.Warn("ignoring unknown patch status",
				zap.String("rid", rid),
				zap.String("status", string(status)),
				zap.Int("count", n),
			)
		}
	}
	return c, nil
}
