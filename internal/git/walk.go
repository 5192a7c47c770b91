package git

import (
	"container/heap"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// WalkIter iterates over the commits of a Walk. The start commit always comes
// first, since git ranges exclude their lower end; the remaining commits are
// ordered oldest first, parents before children.
type WalkIter struct {
	from    *object.Commit
	order   []*object.Commit
	pos     int
	visited map[plumbing.Hash]struct{}
}

// Iter resolves the walk against s. Construction fails with a *GraphError when
// the start commit, the tip, or a commit reachable from them is missing, or
// when the glob is malformed.
//
// For a Tip boundary the range is from..tip. For a Glob boundary the range is
// every commit reachable from the start commit or from a matching reference.
func (w Walk) Iter(s Storage) (*WalkIter, error) {
	from, err := object.GetCommit(s, w.from)
	if err != nil {
		return nil, &GraphError{Op: "find commit", Oid: w.from, Err: err}
	}

	var tips []plumbing.Hash
	if w.until.IsGlob() {
		refs, err := MatchRefs(s, w.until.Pattern())
		if err != nil {
			return nil, &GraphError{Op: "push glob " + w.until.Pattern(), Err: err}
		}
		tips = append(tips, w.from)
		for _, ref := range refs {
			tips = append(tips, ref.Hash())
		}
	} else {
		tip := w.until.TipHash()
		if _, err := object.GetCommit(s, tip); err != nil {
			return nil, &GraphError{Op: "push range " + w.String(), Oid: tip, Err: err}
		}
		tips = append(tips, tip)
	}

	var stop map[plumbing.Hash]bool
	if !w.until.IsGlob() {
		ancestors, err := reachable(s, []plumbing.Hash{w.from}, nil)
		if err != nil {
			return nil, err
		}
		stop = make(map[plumbing.Hash]bool, len(ancestors))
		for h := range ancestors {
			stop[h] = true
		}
	}
	commits, err := reachable(s, tips, stop)
	if err != nil {
		return nil, err
	}

	return &WalkIter{
		from:    from,
		order:   topoReverse(commits),
		visited: make(map[plumbing.Hash]struct{}),
	}, nil
}

// Next returns the next commit in the walk, or io.EOF when it is exhausted.
func (it *WalkIter) Next() (*object.Commit, error) {
	if it.from != nil {
		c := it.from
		it.from = nil
		it.visited[c.Hash] = struct{}{}
		return c, nil
	}
	for it.pos < len(it.order) {
		c := it.order[it.pos]
		it.pos++
		if _, ok := it.visited[c.Hash]; ok {
			continue
		}
		it.visited[c.Hash] = struct{}{}
		return c, nil
	}
	return nil, io.EOF
}

// Hide marks a commit so that it is never yielded by this iterator.
func (it *WalkIter) Hide(h plumbing.Hash) {
	it.visited[h] = struct{}{}
}

// reachable collects every commit reachable from tips through go-git's
// preorder commit walker. Commits in stop are neither collected nor descended
// into.
func reachable(s Storage, tips []plumbing.Hash, stop map[plumbing.Hash]bool) (map[plumbing.Hash]*object.Commit, error) {
	seen := make(map[plumbing.Hash]bool, len(stop))
	for h := range stop {
		seen[h] = true
	}
	commits := make(map[plumbing.Hash]*object.Commit)
	for _, tip := range tips {
		if seen[tip] {
			continue
		}
		c, err := object.GetCommit(s, tip)
		if err != nil {
			return nil, &GraphError{Op: "find commit", Oid: tip, Err: err}
		}
		err = object.NewCommitPreorderIter(c, seen, nil).ForEach(func(c *object.Commit) error {
			commits[c.Hash] = c
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, &GraphError{Op: "walk history", Oid: tip, Err: err}
		}
	}
	return commits, nil
}

// topoReverse orders commits so that every parent precedes its children.
// Commits that become ready at the same time are taken by committer time and
// then by hash, which keeps the order stable across runs.
func topoReverse(commits map[plumbing.Hash]*object.Commit) []*object.Commit {
	pending := make(map[plumbing.Hash]int, len(commits))
	children := make(map[plumbing.Hash][]plumbing.Hash, len(commits))
	ready := &commitHeap{}

	for h, c := range commits {
		n := 0
		for _, p := range c.ParentHashes {
			if _, ok := commits[p]; !ok {
				continue
			}
			n++
			children[p] = append(children[p], h)
		}
		pending[h] = n
		if n == 0 {
			heap.Push(ready, c)
		}
	}

	order := make([]*object.Commit, 0, len(commits))
	for ready.Len() > 0 {
		c := heap.Pop(ready).(*object.Commit)
		order = append(order, c)
		for _, child := range children[c.Hash] {
			pending[child]--
			if pending[child] == 0 {
				heap.Push(ready, commits[child])
			}
		}
	}
	return order
}

type commitHeap []*object.Commit

func (h commitHeap) Len() int { return len(h) }

func (h commitHeap) Less(i, j int) bool {
	ti, tj := h[i].Committer.When, h[j].Committer.When
	if !ti.Equal(tj) {
		return ti.Before(tj)
	}
	return h[i].Hash.String() < h[j].Hash.String()
}

func (h commitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *commitHeap) Push(x any) { *h = append(*h, x.(*object.Commit)) }

func (h *commitHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
