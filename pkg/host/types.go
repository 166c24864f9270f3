// pkg/host/types.go
package host

import (
	"context"

	"cablescan-service/pkg/form"
)

// Action is a user input delivered to the active screen
type Action string

const (
	ActionOK     Action = "ok"
	ActionCancel Action = "cancel"
)

// ParseAction validates an action name
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionOK, ActionCancel:
		return Action(s), true
	default:
		return "", false
	}
}

// MessageKind selects the dialog style
type MessageKind string

const (
	MessageInfo    MessageKind = "INFO"
	MessageWarning MessageKind = "WARNING"
	MessageError   MessageKind = "ERROR"
)

// View is the render-ready content of a screen
type View struct {
	Title    string           `json:"title"`
	Text     string           `json:"text,omitempty"`
	Progress *int             `json:"progress,omitempty"`
	Fields   []form.FieldView `json:"fields,omitempty"`
	Footer   string           `json:"footer,omitempty"`
	Kind     MessageKind      `json:"kind,omitempty"`
	Actions  []Action         `json:"actions"`
}

// Where tells the host where a plugin hooks in
type Where string

const (
	WhereMenu Where = "MENU"
)

// MenuEntry is one item a plugin contributes to a host menu
type MenuEntry struct {
	Title string                                 `json:"title"`
	Key   string                                 `json:"key"`
	Run   func(ctx context.Context, ui UI) error `json:"-"`
}

// PluginDescriptor announces a plugin to the host
type PluginDescriptor struct {
	Name        string                          `json:"name"`
	Description string                          `json:"description"`
	Where       Where                           `json:"where"`
	Menu        func(menuID string) []MenuEntry `json:"-"`
}
