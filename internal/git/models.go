package git

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Until marks where a walk finishes: either a single tip commit or every
// reference matching a glob.
type Until struct {
	tip  plumbing.Hash
	glob string
}

// Tip returns an Until bounded by a single commit.
func Tip(tip plumbing.Hash) Until {
	return Until{tip: tip}
}

// Glob returns an Until bounded by the tips of all references matching pattern.
// Patterns use doublestar syntax; a single "*" never matches across "/".
func Glob(pattern string) Until {
	return Until{glob: pattern}
}

// IsGlob reports whether the boundary is a reference glob.
func (u Until) IsGlob() bool {
	return u.glob != ""
}

// TipHash returns the tip commit for a Tip boundary.
func (u Until) TipHash() plumbing.Hash {
	return u.tip
}

// Pattern returns the reference pattern for a Glob boundary.
func (u Until) Pattern() string {
	return u.glob
}

// String returns a string representation of the boundary.
func (u Until) String() string {
	if u.IsGlob() {
		return u.glob
	}
	return u.tip.String()
}

// Walk specifies a range of commits: everything from a start commit until a
// boundary. Walk values are immutable; Since and Until return copies.
type Walk struct {
	from  plumbing.Hash
	until Until
}

// NewWalk creates a walk from the given commit until the given boundary.
func NewWalk(from plumbing.Hash, until Until) Walk {
	return Walk{from: from, until: until}
}

// From returns the start commit.
func (w Walk) From() plumbing.Hash {
	return w.from
}

// Boundary returns where the walk finishes.
func (w Walk) Boundary() Until {
	return w.until
}

// Since returns a copy of the walk starting from another commit.
func (w Walk) Since(from plumbing.Hash) Walk {
	w.from = from
	return w
}

// Until returns a copy of the walk finishing at another boundary.
func (w Walk) Until(until Until) Walk {
	w.until = until
	return w
}

// String returns the walk in git range notation.
func (w Walk) String() string {
	return w.from.String() + ".." + w.until.String()
}
