package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/masmgr/cobwalk-go/internal/cob"
)

// ActionType is the "type" tag of a patch action.
type ActionType string

const (
	ActionEdit                  ActionType = "edit"
	ActionLabel                 ActionType = "label"
	ActionLifecycle             ActionType = "lifecycle"
	ActionAssign                ActionType = "assign"
	ActionMerge                 ActionType = "merge"
	ActionReview                ActionType = "review"
	ActionReviewEdit            ActionType = "review.edit"
	ActionReviewRedact          ActionType = "review.redact"
	ActionReviewComment         ActionType = "review.comment"
	ActionReviewCommentEdit     ActionType = "review.comment.edit"
	ActionReviewCommentRedact   ActionType = "review.comment.redact"
	ActionReviewCommentReact    ActionType = "review.comment.react"
	ActionReviewCommentResolve  ActionType = "review.comment.resolve"
	ActionRevision              ActionType = "revision"
	ActionRevisionEdit          ActionType = "revision.edit"
	ActionRevisionRedact        ActionType = "revision.redact"
	ActionRevisionReact         ActionType = "revision.react"
	ActionRevisionComment       ActionType = "revision.comment"
	ActionRevisionCommentEdit   ActionType = "revision.comment.edit"
	ActionRevisionCommentRedact ActionType = "revision.comment.redact"
	ActionRevisionCommentReact  ActionType = "revision.comment.react"
)

var knownActions = map[ActionType]bool{
	ActionEdit: true, ActionLabel: true, ActionLifecycle: true, ActionAssign: true,
	ActionMerge: true, ActionReview: true, ActionReviewEdit: true, ActionReviewRedact: true,
	ActionReviewComment: true, ActionReviewCommentEdit: true, ActionReviewCommentRedact: true,
	ActionReviewCommentReact: true, ActionReviewCommentResolve: true, ActionRevision: true,
	ActionRevisionEdit: true, ActionRevisionRedact: true, ActionRevisionReact: true,
	ActionRevisionComment: true, ActionRevisionCommentEdit: true, ActionRevisionCommentRedact: true,
	ActionRevisionCommentReact: true,
}

// Verdict is a review outcome.
type Verdict string

const (
	VerdictAccept Verdict = "accept"
	VerdictReject Verdict = "reject"
)

// Lifecycle is the state set by a lifecycle action.
type Lifecycle struct {
	Status Status `json:"status"`
}

// Action is one patch mutation. Only the fields of its Type are set.
type Action struct {
	Type        ActionType `json:"type"`
	Title       string     `json:"title,omitempty"`
	Target      string     `json:"target,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	State       *Lifecycle `json:"state,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	Revision    string     `json:"revision,omitempty"`
	Commit      string     `json:"commit,omitempty"`
	Review      string     `json:"review,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	Verdict     *Verdict   `json:"verdict,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	Body        string     `json:"body,omitempty"`
	ReplyTo     string     `json:"replyTo,omitempty"`
	Description string     `json:"description,omitempty"`
	Base        string     `json:"base,omitempty"`
	Oid         string     `json:"oid,omitempty"`
	Reaction    string     `json:"reaction,omitempty"`
	Active      bool       `json:"active,omitempty"`
}

// ErrMissingType is returned for action documents without a type tag.
var ErrMissingType = errors.New("missing action type")

// DecodeAction decodes one patch action blob.
func DecodeAction(data []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, err
	}
	if a.Type == "" {
		return Action{}, ErrMissingType
	}
	if !knownActions[a.Type] {
		return Action{}, fmt.Errorf("unknown patch action %q", a.Type)
	}
	return a, nil
}

// Decoder decodes patch actions for a cob.Stream.
var Decoder cob.Decoder[Action] = cob.DecoderFunc[Action](DecodeAction)

// Describe returns a one line summary of the action.
func (a Action) Describe() string {
	switch a.Type {
	case ActionEdit:
		return fmt.Sprintf("changed title to %q", a.Title)
	case ActionLabel:
		return "labels: " + strings.Join(a.Labels, ", ")
	case ActionLifecycle:
		if a.State != nil {
			return "marked as " + string(a.State.Status)
		}
		return "changed lifecycle"
	case ActionAssign:
		return "assigned " + strings.Join(a.Assignees, ", ")
	case ActionMerge:
		return "merged revision " + short(a.Revision) + " at " + short(a.Commit)
	case ActionReview:
		if a.Verdict != nil {
			return "reviewed revision " + short(a.Revision) + " (" + string(*a.Verdict) + ")"
		}
		return "reviewed revision " + short(a.Revision)
	case ActionRevision:
		return "pushed revision " + short(a.Oid)
	case ActionRevisionComment, ActionReviewComment:
		return "commented"
	default:
		return string(a.Type)
	}
}

func short(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}
