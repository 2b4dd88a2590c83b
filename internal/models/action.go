package models

import "fmt"

// ActionType identifies a user action the engagement pipeline reacts to.
type ActionType string

const (
	ActionPost    ActionType = "post"
	ActionComment ActionType = "comment"
	ActionLike    ActionType = "like"
	ActionShare   ActionType = "share"
	ActionFollow  ActionType = "follow"
)

// ParseActionType validates a raw action string at the API boundary.
func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionPost, ActionComment, ActionLike, ActionShare, ActionFollow:
		return ActionType(s), nil
	}
	return "", fmt.Errorf("%w: unknown action type %q", ErrInvalidState, s)
}
