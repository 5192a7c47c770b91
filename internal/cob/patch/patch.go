// Package patch holds the patch COB: its actions and the patch document
// stored in the read-model cache.
package patch

import (
	"fmt"
	"sort"
)

// Status is the discriminant of a patch state.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusOpen     Status = "open"
	StatusArchived Status = "archived"
	StatusMerged   Status = "merged"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusOpen, StatusDraft, StatusArchived, StatusMerged}

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown patch status %q", s)
}

// State is the lifecycle state of a patch. Open carries conflicts, Merged the
// merged revision and commit; the other states carry nothing.
type State struct {
	Status    Status      `json:"status"`
	Conflicts [][2]string `json:"conflicts,omitempty"`
	Revision  string      `json:"revision,omitempty"`
	Commit    string      `json:"commit,omitempty"`
}

// ActorID is an identity reference as stored in cached documents.
type ActorID struct {
	ID string `json:"id"`
}

// Edit is one version of a revision description.
type Edit struct {
	Author    string `json:"author"`
	Timestamp int64  `json:"timestamp"`
	Body      string `json:"body"`
}

// Revision is one version of the patch code.
type Revision struct {
	ID          string  `json:"id"`
	Author      ActorID `json:"author"`
	Description []Edit  `json:"description"`
	Base        string  `json:"base"`
	Oid         string  `json:"oid"`
	Timestamp   int64   `json:"timestamp"`
}

// Patch is the patch document as cached in the read model. Redacted
// revisions are stored as null.
type Patch struct {
	Title     string               `json:"title"`
	Author    ActorID              `json:"author"`
	State     State                `json:"state"`
	Target    string               `json:"target"`
	Labels    []string             `json:"labels"`
	Assignees []string             `json:"assignees"`
	Revisions map[string]*Revision `json:"revisions"`
	Timeline  []string             `json:"timeline"`
}

// ActiveRevisions returns the revisions that were not redacted, oldest first.
func (p *Patch) ActiveRevisions() []*Revision {
	revs := make([]*Revision, 0, len(p.Revisions))
	for _, r := range p.Revisions {
		if r != nil {
			revs = append(revs, r)
		}
	}
	sort.Slice(revs, func(i, j int) bool {
		if revs[i].Timestamp != revs[j].Timestamp {
			return revs[i].Timestamp < revs[j].Timestamp
		}
		return revs[i].ID < revs[j].ID
	})
	return revs
}

// Root returns the first revision, which created the patch.
func (p *Patch) Root() *Revision {
	revs := p.ActiveRevisions()
	if len(revs) == 0 {
		return nil
	}
	return revs[0]
}

// Latest returns the most recent revision.
func (p *Patch) Latest() *Revision {
	revs := p.ActiveRevisions()
	if len(revs) == 0 {
		return nil
	}
	return revs[len(revs)-1]
}

// Timestamp returns the creation time of the patch in milliseconds: the
// timestamp of its earliest revision.
func (p *Patch) Timestamp() int64 {
	if root := p.Root(); root != nil {
		return root.Timestamp
	}
	return 0
}
