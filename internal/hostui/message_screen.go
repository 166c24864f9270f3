// internal/hostui/message_screen.go
package hostui

import (
	"context"

	"cablescan-service/pkg/host"
)

// MessageScreen is a modal dialog closed by OK or cancel
type MessageScreen struct {
	ui   host.UI
	kind host.MessageKind
	text string
}

// NewMessageScreen creates a message dialog
func NewMessageScreen(ui host.UI, kind host.MessageKind, text string) *MessageScreen {
	return &MessageScreen{ui: ui, kind: kind, text: text}
}

func (m *MessageScreen) Title() string {
	switch m.kind {
	case host.MessageError:
		return "Error"
	case host.MessageWarning:
		return "Warning"
	default:
		return "Information"
	}
}

func (m *MessageScreen) Kind() host.MessageKind { return m.kind }
func (m *MessageScreen) Text() string           { return m.text }

func (m *MessageScreen) OnFirstShow(ctx context.Context) {}

func (m *MessageScreen) Render() host.View {
	return host.View{
		Title:   m.Title(),
		Text:    m.text,
		Kind:    m.kind,
		Actions: []host.Action{host.ActionOK},
	}
}

func (m *MessageScreen) HandleAction(ctx context.Context, action host.Action) {
	m.ui.Close(m)
}

func (m *MessageScreen) Destroy() {}
