package inbox

import (
	"fmt"
	"strings"

	"github.com/masmgr/cobwalk-go/internal/cob"
)

const (
	cobsPrefix  = "refs/cobs/"
	headsPrefix = "refs/heads/"
)

// Kind is what a notified ref points at: a COB or a branch.
type Kind struct {
	// COB is set for refs/cobs/<type>/<id>.
	COB *cob.TypedID
	// Branch is set for refs/heads/<name>.
	Branch string
}

// ParseKind classifies a ref with its namespace already stripped.
func ParseKind(ref string) (Kind, error) {
	switch {
	case strings.HasPrefix(ref, cobsPrefix):
		rest := strings.TrimPrefix(ref, cobsPrefix)
		i := strings.LastIndexByte(rest, '/')
		if i <= 0 {
			return Kind{}, fmt.Errorf("invalid cob ref %q", ref)
		}
		id, err := cob.ParseObjectID(rest[i+1:])
		if err != nil {
			return Kind{}, fmt.Errorf("invalid cob ref %q: %w", ref, err)
		}
		return Kind{COB: &cob.TypedID{TypeName: cob.TypeName(rest[:i]), ID: id}}, nil
	case strings.HasPrefix(ref, headsPrefix) && len(ref) > len(headsPrefix):
		return Kind{Branch: strings.TrimPrefix(ref, headsPrefix)}, nil
	default:
		return Kind{}, fmt.Errorf("unsupported notification ref %q", ref)
	}
}
