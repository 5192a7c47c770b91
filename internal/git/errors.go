package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// GraphError reports that a walk could not be built: a malformed reference
// pattern or a missing object. It is returned at construction, never per item.
type GraphError struct {
	Op  string
	Oid plumbing.Hash
	Err error
}

func (e *GraphError) Error() string {
	if e.Oid.IsZero() {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Oid, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}
