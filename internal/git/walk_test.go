package git

import (
	"errors"
	"io"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"pgregory.net/rapid"

	"github.com/masmgr/cobwalk-go/internal/cobtest"
)

const testType = "xyz.radicle.patch"

func collect(t *testing.T, it *WalkIter) []plumbing.Hash {
	t.Helper()
	var out []plumbing.Hash
	for {
		c, err := it.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, c.Hash)
	}
}

func assertOrder(t *testing.T, got, want []plumbing.Hash) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d commits %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("commit %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWalk_TipRangeIncludesStart(t *testing.T) {
	g := cobtest.NewGraph(t)
	a := g.Change(testType, "alice", nil)
	b := g.Change(testType, "alice", nil, a)
	c := g.Change(testType, "alice", nil, b)

	it, err := NewWalk(a, Tip(c)).Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	assertOrder(t, collect(t, it), []plumbing.Hash{a, b, c})
}

func TestWalk_TipEqualsStart(t *testing.T) {
	g := cobtest.NewGraph(t)
	a := g.Change(testType, "alice", nil)
	g.Change(testType, "alice", nil, a)

	it, err := NewWalk(a, Tip(a)).Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	assertOrder(t, collect(t, it), []plumbing.Hash{a})
}

func TestWalk_MiddleRange(t *testing.T) {
	g := cobtest.NewGraph(t)
	a := g.Change(testType, "alice", nil)
	b := g.Change(testType, "alice", nil, a)
	c := g.Change(testType, "alice", nil, b)
	d := g.Change(testType, "alice", nil, c)

	it, err := NewWalk(b, Tip(d)).Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	assertOrder(t, collect(t, it), []plumbing.Hash{b, c, d})
}

func TestWalk_GlobUnionOfForks(t *testing.T) {
	g := cobtest.NewGraph(t)
	root := g.Change(testType, "alice", nil)
	x := g.Change(testType, "alice", nil, root)
	y := g.Change(testType, "bob", nil, root)
	merge := g.Change(testType, "carol", nil, x, y)

	g.SetRef(cobtest.NamespaceRef("alice", testType, root), x)
	g.SetRef(cobtest.NamespaceRef("bob", testType, root), y)
	g.SetRef(cobtest.NamespaceRef("carol", testType, root), merge)
	// A reference for another object must not be walked.
	other := g.Change(testType, "dave", nil)
	g.SetRef(cobtest.NamespaceRef("dave", testType, other), other)

	glob := "refs/namespaces/*/refs/cobs/" + testType + "/" + root.String()
	it, err := NewWalk(root, Glob(glob)).Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	assertOrder(t, collect(t, it), []plumbing.Hash{root, x, y, merge})
}

func TestWalk_GlobWithoutMatchesYieldsStart(t *testing.T) {
	g := cobtest.NewGraph(t)
	root := g.Change(testType, "alice", nil)

	it, err := NewWalk(root, Glob("refs/namespaces/*/refs/cobs/none")).Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	assertOrder(t, collect(t, it), []plumbing.Hash{root})
}

func TestWalk_SinceGlobKeepsAncestors(t *testing.T) {
	g := cobtest.NewGraph(t)
	root := g.Change(testType, "alice", nil)
	b := g.Change(testType, "alice", nil, root)
	c := g.Change(testType, "alice", nil, b)
	g.SetRef(cobtest.NamespaceRef("alice", testType, root), c)

	walk := NewWalk(root, Glob("refs/namespaces/*/refs/cobs/**"))
	since := walk.Since(b)
	if walk.From() != root {
		t.Fatalf("Since mutated the original walk")
	}

	it, err := since.Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	// The glob boundary is a union: the start commit's own history stays in.
	assertOrder(t, collect(t, it), []plumbing.Hash{b, root, c})
}

func TestWalk_TipRangeExcludesStartAncestors(t *testing.T) {
	g := cobtest.NewGraph(t)
	root := g.Change(testType, "alice", nil)
	b := g.Change(testType, "alice", nil, root)
	c := g.Change(testType, "alice", nil, b)
	d := g.Change(testType, "alice", nil, c)

	it, err := NewWalk(c, Glob("refs/none/*")).Until(Tip(d)).Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	assertOrder(t, collect(t, it), []plumbing.Hash{c, d})
}

func TestWalk_UntilReturnsNewValue(t *testing.T) {
	root := plumbing.NewHash("1111111111111111111111111111111111111111")
	tip := plumbing.NewHash("2222222222222222222222222222222222222222")
	walk := NewWalk(root, Glob("refs/*"))
	until := walk.Until(Tip(tip))

	if !walk.Boundary().IsGlob() {
		t.Error("Until mutated the original walk")
	}
	if until.Boundary().IsGlob() || until.Boundary().TipHash() != tip {
		t.Errorf("Until boundary = %v, want %s", until.Boundary(), tip)
	}
}

func TestWalk_Hide(t *testing.T) {
	g := cobtest.NewGraph(t)
	a := g.Change(testType, "alice", nil)
	b := g.Change(testType, "alice", nil, a)
	c := g.Change(testType, "alice", nil, b)

	it, err := NewWalk(a, Tip(c)).Iter(g.Storage)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	it.Hide(b)
	assertOrder(t, collect(t, it), []plumbing.Hash{a, c})
}

func TestWalk_ConstructionErrors(t *testing.T) {
	g := cobtest.NewGraph(t)
	a := g.Change(testType, "alice", nil)
	missing := plumbing.NewHash("3333333333333333333333333333333333333333")

	tests := []struct {
		name string
		walk Walk
	}{
		{name: "malformed glob", walk: NewWalk(a, Glob("refs/namespaces/[/x"))},
		{name: "missing tip", walk: NewWalk(a, Tip(missing))},
		{name: "missing start", walk: NewWalk(missing, Tip(a))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.walk.Iter(g.Storage)
			var graphErr *GraphError
			if !errors.As(err, &graphErr) {
				t.Fatalf("expected *GraphError, got %v", err)
			}
		})
	}
}

func TestRapidWalk_ParentsBeforeChildrenOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := cobtest.NewGraph(t)
		root := g.Change(testType, "alice", nil)
		commits := []plumbing.Hash{root}
		parents := map[plumbing.Hash][]plumbing.Hash{}

		n := rapid.IntRange(1, 12).Draw(rt, "commits")
		for i := 0; i < n; i++ {
			first := rapid.IntRange(0, len(commits)-1).Draw(rt, "parent")
			ps := []plumbing.Hash{commits[first]}
			if rapid.Bool().Draw(rt, "merge") {
				second := rapid.IntRange(0, len(commits)-1).Draw(rt, "second")
				if second != first {
					ps = append(ps, commits[second])
				}
			}
			h := g.Change(testType, "alice", nil, ps...)
			parents[h] = ps
			commits = append(commits, h)
		}
		for i, h := range commits {
			g.SetRef(cobtest.NamespaceRef(string(rune('a'+i%26))+"x", testType, root), h)
		}

		it, err := NewWalk(root, Glob("refs/namespaces/*/refs/cobs/**")).Iter(g.Storage)
		if err != nil {
			rt.Fatalf("Iter: %v", err)
		}
		got := collect(t, it)
		if len(got) != len(commits) {
			rt.Fatalf("got %d commits, want %d", len(got), len(commits))
		}
		if got[0] != root {
			rt.Fatalf("first commit %s, want root %s", got[0], root)
		}
		pos := map[plumbing.Hash]int{}
		for i, h := range got {
			if _, dup := pos[h]; dup {
				rt.Fatalf("commit %s yielded twice", h)
			}
			pos[h] = i
		}
		for child, ps := range parents {
			for _, p := range ps {
				if pos[p] >= pos[child] {
					rt.Fatalf("parent %s after child %s", p, child)
				}
			}
		}
	})
}
