// internal/hostui/session.go
package hostui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cablescan-service/pkg/host"
)

var (
	ErrNoScreen      = errors.New("no screen open")
	ErrNotEditable   = errors.New("screen has no editable fields")
	ErrSessionClosed = errors.New("ui session closed")
)

// ScreenInfo describes one stacked screen
type ScreenInfo struct {
	Title string `json:"title"`
}

// Snapshot is the render-ready state of a UI session
type Snapshot struct {
	SessionID uuid.UUID    `json:"session_id"`
	Version   uint64       `json:"version"`
	Screens   []ScreenInfo `json:"screens"`
	Top       *host.View   `json:"top,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Session is one client's screen stack. It implements host.UI.
type Session struct {
	id        uuid.UUID
	createdAt time.Time
	logger    *zap.Logger
	onChange  func(*Session)

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	stack     []host.Screen
	version   uint64
	updatedAt time.Time
	closed    bool
}

func newSession(logger *zap.Logger, onChange func(*Session)) *Session {
	id := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC()
	return &Session{
		id:        id,
		createdAt: now,
		updatedAt: now,
		logger:    logger.With(zap.String("ui_session", id.String())),
		onChange:  onChange,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ID returns the session id
func (s *Session) ID() uuid.UUID {
	return s.id
}

// CreatedAt returns when the session was opened
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Context is cancelled when the session is destroyed
func (s *Session) Context() context.Context {
	return s.ctx
}

// Open implements host.UI
func (s *Session) Open(screen host.Screen) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("Screen opened on closed session, destroying it", zap.String("screen", screen.Title()))
		screen.Destroy()
		return
	}
	s.stack = append(s.stack, screen)
	s.touch()
	s.mu.Unlock()

	s.logger.Debug("Screen opened", zap.String("screen", screen.Title()))
	s.changed()
	screen.OnFirstShow(s.ctx)
}

// Close implements host.UI. The screen is removed without being destroyed.
func (s *Session) Close(screen host.Screen) {
	s.mu.Lock()
	index := s.indexOf(screen)
	if index < 0 {
		s.mu.Unlock()
		return
	}
	s.stack = append(s.stack[:index], s.stack[index+1:]...)
	s.touch()
	s.mu.Unlock()

	s.logger.Debug("Screen closed", zap.String("screen", screen.Title()))
	s.changed()
}

// Refresh implements host.UI
func (s *Session) Refresh(screen host.Screen) {
	s.mu.Lock()
	if s.indexOf(screen) < 0 {
		s.mu.Unlock()
		return
	}
	s.touch()
	s.mu.Unlock()

	s.changed()
}

// ShowMessage implements host.UI
func (s *Session) ShowMessage(kind host.MessageKind, text string) {
	s.Open(NewMessageScreen(s, kind, text))
}

// Run executes a menu entry against this session
func (s *Session) Run(entry host.MenuEntry) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return entry.Run(s.ctx, s)
}

// HandleAction delivers action to the top screen
func (s *Session) HandleAction(ctx context.Context, action host.Action) error {
	top, err := s.top()
	if err != nil {
		return err
	}
	top.HandleAction(ctx, action)
	return nil
}

// SetField edits a field of the top screen
func (s *Session) SetField(key, raw string) error {
	top, err := s.top()
	if err != nil {
		return err
	}
	editor, ok := top.(host.FieldEditor)
	if !ok {
		return ErrNotEditable
	}
	return editor.SetField(key, raw)
}

// Depth returns the number of stacked screens
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

// Top returns the active screen, nil if none
func (s *Session) Top() host.Screen {
	top, _ := s.top()
	return top
}

// Snapshot renders the session. Screens render outside the session lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	stack := append([]host.Screen(nil), s.stack...)
	version := s.version
	updatedAt := s.updatedAt
	s.mu.Unlock()

	snapshot := Snapshot{
		SessionID: s.id,
		Version:   version,
		Screens:   make([]ScreenInfo, 0, len(stack)),
		UpdatedAt: updatedAt,
	}
	for _, screen := range stack {
		snapshot.Screens = append(snapshot.Screens, ScreenInfo{Title: screen.Title()})
	}
	if len(stack) > 0 {
		view := stack[len(stack)-1].Render()
		snapshot.Top = &view
	}
	return snapshot
}

// Destroy tears down every screen, top first
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stack := s.stack
	s.stack = nil
	s.touch()
	s.mu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].Destroy()
	}
	s.cancel()

	s.logger.Info("UI session destroyed", zap.Int("screens", len(stack)))
	s.changed()
}

func (s *Session) top() (host.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if len(s.stack) == 0 {
		return nil, ErrNoScreen
	}
	return s.stack[len(s.stack)-1], nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// indexOf must be called with mu held
func (s *Session) indexOf(screen host.Screen) int {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == screen {
			return i
		}
	}
	return -1
}

// touch must be called with mu held
func (s *Session) touch() {
	s.version++
	s.updatedAt = time.Now().UTC()
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange(s)
	}
}
