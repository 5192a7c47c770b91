package git

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ErrBadPattern is returned for reference globs that cannot be parsed.
var ErrBadPattern = errors.New("invalid reference pattern")

// OpenRepository opens the git repository (bare or not) at path.
func OpenRepository(path string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return repo, nil
}

// MatchRefs returns every reference whose full name matches pattern, peeled to
// a hash reference and sorted by name.
func MatchRefs(s storer.ReferenceStorer, pattern string) ([]*plumbing.Reference, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	iter, err := s.IterReferences()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var refs []*plumbing.Reference
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}
		if ref.Type() == plumbing.SymbolicReference {
			resolved, err := storer.ResolveReference(s, ref.Name())
			if err != nil {
				return err
			}
			ref = plumbing.NewHashReference(ref.Name(), resolved.Hash())
		}
		refs = append(refs, ref)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Name() < refs[j].Name()
	})
	return refs, nil
}
