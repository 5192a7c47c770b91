package patches

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/cob/patch"
	"github.com/masmgr/cobwalk-go/internal/readmodel"
)

type fakeStore struct {
	page   readmodel.Page[readmodel.PatchRow]
	counts map[patch.Status]int
	err    error
}

func (f *fakeStore) ListPatches(context.Context, string, readmodel.PatchFilter) (readmodel.Page[readmodel.PatchRow], error) {
	return f.page, f.err
}

func (f *fakeStore) GetPatch(_ context.Context, _, id string) (readmodel.PatchRow, error) {
	for _, row := range f.page.Content {
		if row.ID == id {
			return row, nil
		}
	}
	return readmodel.PatchRow{}, readmodel.ErrNotFound
}

func (f *fakeStore) PatchCounts(context.Context, string) (map[patch.Status]int, error) {
	return f.counts, f.err
}

func samplePatch() patch.Patch {
	return patch.Patch{
		Title:     "Add walker",
		Author:    patch.ActorID{ID: "did:key:alice"},
		State:     patch.State{Status: patch.StatusOpen},
		Assignees: []string{"did:key:bob", "did:key:carol"},
		Revisions: map[string]*patch.Revision{
			"r1": {ID: "r1", Base: "b1", Oid: "h1", Timestamp: 200},
			"r2": {ID: "r2", Base: "b2", Oid: "h2", Timestamp: 300},
			"r3": nil,
		},
	}
}

func TestNewSummary(t *testing.T) {
	p := samplePatch()
	aliases := cob.MapAliases{"did:key:alice": "alice", "did:key:bob": "bob"}

	s := NewSummary("p1", &p, aliases)

	if s.Author.DisplayName() != "alice" {
		t.Errorf("author = %s, want alice", s.Author.DisplayName())
	}
	if s.Base != "b2" || s.Head != "h2" {
		t.Errorf("base/head = %s/%s, want latest revision b2/h2", s.Base, s.Head)
	}
	if s.Timestamp != 200 {
		t.Errorf("timestamp = %d, want 200", s.Timestamp)
	}
	if s.RevisionCount != 2 {
		t.Errorf("revision count = %d, want 2", s.RevisionCount)
	}
	if len(s.Assignees) != 2 || s.Assignees[0].DisplayName() != "bob" || s.Assignees[1].Alias != nil {
		t.Errorf("assignees = %+v", s.Assignees)
	}
	if s.Labels == nil {
		t.Error("labels should be empty, not nil")
	}
}

func TestService_List(t *testing.T) {
	store := &fakeStore{page: readmodel.Page[readmodel.PatchRow]{
		Cursor:  2,
		More:    true,
		Content: []readmodel.PatchRow{{ID: "p1", Patch: samplePatch()}},
	}}
	svc := NewService(store, nil, nil)

	page, err := svc.List(context.Background(), "rad:z1", readmodel.PatchFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Cursor != 2 || !page.More || len(page.Content) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if page.Content[0].Title != "Add walker" {
		t.Errorf("title = %q", page.Content[0].Title)
	}
}

func TestService_ListWrapsStorageErrors(t *testing.T) {
	storageErr := &readmodel.StorageError{Op: "list patches", Err: errors.New("locked"), Retryable: true}
	svc := NewService(&fakeStore{err: storageErr}, nil, nil)

	_, err := svc.List(context.Background(), "rad:z1", readmodel.PatchFilter{})
	if !readmodel.IsRetryable(err) {
		t.Fatalf("err = %v, want retryable storage error", err)
	}
}

func TestService_Get(t *testing.T) {
	store := &fakeStore{page: readmodel.Page[readmodel.PatchRow]{
		Content: []readmodel.PatchRow{{ID: "p1", Patch: samplePatch()}},
	}}
	svc := NewService(store, nil, nil)

	s, err := svc.Get(context.Background(), "rad:z1", "p1")
	if err != nil || s.ID != "p1" {
		t.Fatalf("Get() = %+v, %v", s, err)
	}
	if _, err := svc.Get(context.Background(), "rad:z1", "nope"); !errors.Is(err, readmodel.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestService_Counts(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := &fakeStore{counts: map[patch.Status]int{
		patch.StatusOpen:     4,
		patch.StatusDraft:    1,
		patch.StatusArchived: 2,
		patch.StatusMerged:   3,
		"closed":             9,
	}}
	svc := NewService(store, nil, zap.New(core))

	c, err := svc.Counts(context.Background(), "rad:z1")
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	want := Counts{Open: 4, Draft: 1, Archived: 2, Merged: 3}
	if c != want {
		t.Errorf("Counts() = %+v, want %+v", c, want)
	}
	if c.Total() != 10 {
		t.Errorf("Total() = %d, want 10", c.Total())
	}
	if logs.FilterMessage("ignoring unknown patch status").Len() != 1 {
		t.Errorf("expected one warning for the unknown status")
	}
}
