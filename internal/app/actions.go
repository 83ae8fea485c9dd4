// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package app

import (
	"errors"
	"fmt"
	"strings"
)

// ActionKind names a user action.
type ActionKind string

const (
	ActionToggleInterest ActionKind = "toggle_interest"
	ActionNext           ActionKind = "next"
	ActionBack           ActionKind = "back"
	ActionSelectTopic    ActionKind = "select_topic"
	ActionSwitchTab      ActionKind = "switch_tab"
	ActionReload         ActionKind = "reload"
	ActionSave           ActionKind = "save"
	ActionShare          ActionKind = "share"
	ActionOpenLink       ActionKind = "open_link"
)

// ErrBadAction is returned for unknown kinds and missing arguments.
var ErrBadAction = errors.New("bad action")

// Action is a typed user action. ID is the interest, topic, or card id the
// action applies to; Tab is only used by ActionSwitchTab.
type Action struct {
	Kind ActionKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
	Tab  string     `json:"tab,omitempty"`
}

// ParseAction builds an Action from loosely typed input (form fields, CLI
// arguments) and checks that the arguments the kind needs are present.
func ParseAction(kind, id, tab string) (Action, error) {
	a := Action{
		Kind: ActionKind(strings.TrimSpace(kind)),
		ID:   strings.TrimSpace(id),
		Tab:  strings.TrimSpace(tab),
	}

	switch a.Kind {
	case ActionNext, ActionBack, ActionReload:
		return a, nil
	case ActionToggleInterest, ActionSelectTopic, ActionSave, ActionShare, ActionOpenLink:
		if a.ID == "" {
			return Action{}, fmt.Errorf("%w: %s needs an id", ErrBadAction, a.Kind)
		}
		return a, nil
	case ActionSwitchTab:
		if a.Tab == "" {
			return Action{}, fmt.Errorf("%w: %s needs a tab", ErrBadAction, a.Kind)
		}
		return a, nil
	default:
		return Action{}, fmt.Errorf("%w: unknown kind %q", ErrBadAction, kind)
	}
}
