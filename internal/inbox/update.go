// Package inbox turns raw notification rows into the COB operations each ref
// movement introduced.
package inbox

import (
	"encoding/json"

	"github.com/go-git/go-git/v5/plumbing"
)

// UpdateKind classifies a ref movement.
type UpdateKind int

const (
	// Skipped is a ref whose old and new values are the same.
	Skipped UpdateKind = iota
	// Absent is a movement with neither an old nor a new value.
	Absent
	Created
	Updated
	Deleted
)

func (k UpdateKind) String() string {
	switch k {
	case Skipped:
		return "skipped"
	case Absent:
		return "absent"
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k UpdateKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RefUpdate is a classified ref movement. Old is set for Updated and Deleted,
// New for Created and Updated; Skipped carries the unchanged value in New.
type RefUpdate struct {
	Kind UpdateKind
	Name string
	Old  plumbing.Hash
	New  plumbing.Hash
}

// Classify derives the update of ref name from its old and new values. A nil
// or zero hash means the side is absent.
func Classify(name string, old, new *plumbing.Hash) RefUpdate {
	hasOld := old != nil && !old.IsZero()
	hasNew := new != nil && !new.IsZero()

	switch {
	case hasOld && hasNew && *old == *new:
		return RefUpdate{Kind: Skipped, Name: name, New: *new}
	case hasOld && hasNew:
		return RefUpdate{Kind: Updated, Name: name, Old: *old, New: *new}
	case hasNew:
		return RefUpdate{Kind: Created, Name: name, New: *new}
	case hasOld:
		return RefUpdate{Kind: Deleted, Name: name, Old: *old}
	default:
		return RefUpdate{Kind: Absent, Name: name}
	}
}

// ParseUpdate classifies a notification row whose values are hex strings.
// Malformed values count as absent.
func ParseUpdate(name string, old, new *string) RefUpdate {
	return Classify(name, parseHash(old), parseHash(new))
}

func parseHash(s *string) *plumbing.Hash {
	if s == nil || !plumbing.IsHash(*s) {
		return nil
	}
	h := plumbing.NewHash(*s)
	return &h
}

// MarshalJSON renders the update with hex hashes, omitting absent sides.
func (u RefUpdate) MarshalJSON() ([]byte, error) {
	out := struct {
		Type UpdateKind `json:"type"`
		Name string     `json:"name"`
		Old  string     `json:"old,omitempty"`
		New  string     `json:"new,omitempty"`
	}{Type: u.Kind, Name: u.Name}
	if !u.Old.IsZero() {
		out.Old = u.Old.String()
	}
	if !u.New.IsZero() {
		out.New = u.New.String()
	}
	return json.Marshal(out)
}
