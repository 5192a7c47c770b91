package inbox

import (
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/cobwalk-go/internal/cob"
	"github.com/masmgr/cobwalk-go/internal/cob/patch"
	"github.com/masmgr/cobwalk-go/internal/cobtest"
	"github.com/masmgr/cobwalk-go/internal/git"
)

func patchEdit(title string) string {
	return `{"type":"edit","title":"` + title + `","target":"delegates"}`
}

// patchHistory writes root <- a <- b <- c, all patch changes.
func patchHistory(g *cobtest.Graph) (root, a, b, c plumbing.Hash) {
	root = g.Change(string(cob.TypePatch), "did:key:alice", []string{patchEdit("root")})
	a = g.Change(string(cob.TypePatch), "did:key:alice", []string{patchEdit("a")}, root)
	b = g.Change(string(cob.TypePatch), "did:key:bob", []string{patchEdit("b1"), `{"type":"label","labels":["x"]}`}, a)
	c = g.Change(string(cob.TypePatch), "did:key:bob", []string{patchEdit("c")}, b)
	g.SetRef(cobtest.NamespaceRef("alice", string(cob.TypePatch), root), c)
	return root, a, b, c
}

func TestResolver_UpdateTwoCommitsAhead(t *testing.T) {
	g := cobtest.NewGraph(t)
	root, a, b, c := patchHistory(g)
	id := cob.TypedID{TypeName: cob.TypePatch, ID: cob.ObjectID(root)}

	r := NewResolver(nil, nil, WithAliases(cob.MapAliases{"did:key:bob": "bob"}))
	ops, err := r.Operations(g.Storage, id, Classify("ref", &a, &c))
	if err != nil {
		t.Fatalf("Operations() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2", len(ops))
	}
	if ops[0].EntryID.Hash() != b || ops[1].EntryID.Hash() != c {
		t.Errorf("entries = %s, %s; want %s, %s", ops[0].EntryID, ops[1].EntryID, b, c)
	}
	if len(ops[0].Actions) != 2 {
		t.Errorf("first operation has %d actions, want 2", len(ops[0].Actions))
	}
	first, ok := ops[0].Actions[0].(patch.Action)
	if !ok || first.Title != "b1" {
		t.Errorf("first action = %#v", ops[0].Actions[0])
	}
	if ops[0].Author.DisplayName() != "bob" {
		t.Errorf("author = %s, want bob", ops[0].Author.DisplayName())
	}
}

func TestResolver_CreatedWalksFromRoot(t *testing.T) {
	g := cobtest.NewGraph(t)
	root, _, b, _ := patchHistory(g)
	id := cob.TypedID{TypeName: cob.TypePatch, ID: cob.ObjectID(root)}

	ops, err := NewResolver(nil, nil).Operations(g.Storage, id, Classify("ref", nil, &b))
	if err != nil {
		t.Fatalf("Operations() error = %v", err)
	}
	if len(ops) != 3 || ops[0].EntryID.Hash() != root || ops[2].EntryID.Hash() != b {
		t.Fatalf("got %d operations, want root, a, b", len(ops))
	}
}

func TestResolver_OtherKindsYieldNothing(t *testing.T) {
	g := cobtest.NewGraph(t)
	root, a, _, _ := patchHistory(g)
	id := cob.TypedID{TypeName: cob.TypePatch, ID: cob.ObjectID(root)}
	r := NewResolver(nil, nil)

	for _, u := range []RefUpdate{
		Classify("ref", &a, nil),
		Classify("ref", &a, &a),
		Classify("ref", nil, nil),
	} {
		ops, err := r.Operations(g.Storage, id, u)
		if err != nil || ops != nil {
			t.Errorf("%s: ops = %v, err = %v", u.Kind, ops, err)
		}
	}
}

func TestResolver_MissingCommitFails(t *testing.T) {
	g := cobtest.NewGraph(t)
	root, a, _, _ := patchHistory(g)
	id := cob.TypedID{TypeName: cob.TypePatch, ID: cob.ObjectID(root)}
	missing := plumbing.NewHash("dddddddddddddddddddddddddddddddddddddddd")

	_, err := NewResolver(nil, nil).Operations(g.Storage, id, Classify("ref", &a, &missing))
	var graphErr *git.GraphError
	if !errors.As(err, &graphErr) {
		t.Fatalf("err = %v, want *git.GraphError", err)
	}
}

func TestResolver_UnknownType(t *testing.T) {
	g := cobtest.NewGraph(t)
	root, _, b, _ := patchHistory(g)
	id := cob.TypedID{TypeName: "com.example.poll", ID: cob.ObjectID(root)}

	_, err := NewResolver(cob.NewRegistry(), nil).Operations(g.Storage, id, Classify("ref", nil, &b))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
}

func TestResolver_Issue(t *testing.T) {
	g := cobtest.NewGraph(t)
	root := g.Change(string(cob.TypeIssue), "did:key:alice", []string{
		`{"type":"edit","title":"Broken build"}`,
		`{"type":"comment","body":"see CI"}`,
	})
	closed := g.Change(string(cob.TypeIssue), "did:key:bob", []string{
		`{"type":"lifecycle","state":{"status":"closed","reason":"solved"}}`,
	}, root)
	g.SetRef(cobtest.NamespaceRef("bob", string(cob.TypeIssue), root), closed)

	i, err := NewResolver(nil, nil).Issue(g.Storage, cob.ObjectID(root))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if i.Title != "Broken build" || i.State.Status != "closed" {
		t.Errorf("issue = %+v", i)
	}
}
