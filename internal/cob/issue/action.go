// Package issue holds the actions of the issue COB.
package issue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/masmgr/cobwalk-go/internal/cob"
)

// ActionType is the "type" tag of an issue action.
type ActionType string

const (
	ActionAssign        ActionType = "assign"
	ActionEdit          ActionType = "edit"
	ActionLifecycle     ActionType = "lifecycle"
	ActionLabel         ActionType = "label"
	ActionComment       ActionType = "comment"
	ActionCommentEdit   ActionType = "comment.edit"
	ActionCommentRedact ActionType = "comment.redact"
	ActionCommentReact  ActionType = "comment.react"
)

// State is an issue lifecycle state. Closed issues carry a reason.
type State struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Action is one issue mutation. Only the fields of its Type are set.
type Action struct {
	Type      ActionType `json:"type"`
	Title     string     `json:"title,omitempty"`
	State     *State     `json:"state,omitempty"`
	Labels    []string   `json:"labels,omitempty"`
	Assignees []string   `json:"assignees,omitempty"`
	ID        string     `json:"id,omitempty"`
	Body      string     `json:"body,omitempty"`
	ReplyTo   string     `json:"replyTo,omitempty"`
	Reaction  string     `json:"reaction,omitempty"`
	Active    bool       `json:"active,omitempty"`
}

// DecodeAction decodes one issue action blob.
func DecodeAction(data []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, err
	}
	switch a.Type {
	case ActionAssign, ActionEdit, ActionLifecycle, ActionLabel,
		ActionComment, ActionCommentEdit, ActionCommentRedact, ActionCommentReact:
		return a, nil
	case "":
		return Action{}, fmt.Errorf("missing action type")
	default:
		return Action{}, fmt.Errorf("unknown issue action %q", a.Type)
	}
}

// Decoder decodes issue actions for a cob.Stream.
var Decoder cob.Decoder[Action] = cob.DecoderFunc[Action](DecodeAction)

// Describe returns a one line summary of the action.
func (a Action) Describe() string {
	switch a.Type {
	case ActionEdit:
		return fmt.Sprintf("changed title to %q", a.Title)
	case ActionLifecycle:
		if a.State == nil {
			return "changed lifecycle"
		}
		if a.State.Reason != "" {
			return "marked as " + a.State.Status + " (" + a.State.Reason + ")"
		}
		return "marked as " + a.State.Status
	case ActionLabel:
		return "labels: " + strings.Join(a.Labels, ", ")
	case ActionAssign:
		return "assigned " + strings.Join(a.Assignees, ", ")
	case ActionComment:
		return "commented"
	default:
		return string(a.Type)
	}
}
