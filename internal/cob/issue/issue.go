package issue

import (
	"github.com/masmgr/cobwalk-go/internal/cob"
)

// Issue is the state of an issue rebuilt from its actions.
type Issue struct {
	Title     string
	State     State
	Labels    []string
	Assignees []string
	Comments  int
}

// Replay folds actions, oldest first, into an issue. Issues start open.
func Replay(actions []cob.Action[Action]) Issue {
	i := Issue{State: State{Status: "open"}}
	for _, a := range actions {
		i.apply(a.Action)
	}
	return i
}

func (i *Issue) apply(a Action) {
	switch a.Type {
	case ActionEdit:
		i.Title = a.Title
	case ActionLifecycle:
		if a.State != nil {
			i.State = *a.State
		}
	case ActionLabel:
		i.Labels = a.Labels
	case ActionAssign:
		i.Assignees = a.Assignees
	case ActionComment:
		i.Comments++
	}
}
