// internal/hostui/session_test.go
package hostui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cablescan-service/pkg/host"
)

type testScreen struct {
	title string
	ui    host.UI

	mu        sync.Mutex
	shown     int
	actions   []host.Action
	destroyed int
	fields    map[string]string
}

func (s *testScreen) Title() string { return s.title }

func (s *testScreen) OnFirstShow(ctx context.Context) {
	s.mu.Lock()
	s.shown++
	s.mu.Unlock()
	s.ui.Refresh(s)
}

func (s *testScreen) Render() host.View {
	return host.View{Title: s.title, Actions: []host.Action{host.ActionOK}}
}

func (s *testScreen) HandleAction(ctx context.Context, action host.Action) {
	s.mu.Lock()
	s.actions = append(s.actions, action)
	s.mu.Unlock()
	if action == host.ActionCancel {
		s.ui.Close(s)
	}
}

func (s *testScreen) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed++
}

type editableScreen struct {
	testScreen
}

func (s *editableScreen) SetField(key, raw string) error {
	if raw == "" {
		return errors.New("empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fields == nil {
		s.fields = map[string]string{}
	}
	s.fields[key] = raw
	return nil
}

func newTestSession(t *testing.T) (*Manager, *Session, *[]Snapshot) {
	t.Helper()
	m := NewManager(0, zap.NewNop())
	var mu sync.Mutex
	var snapshots []Snapshot
	m.OnChange(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, s)
	})

	s, err := m.Create()
	require.NoError(t, err)
	return m, s, &snapshots
}

func TestSession_OpenShowsOnceAndRendersTop(t *testing.T) {
	_, s, snapshots := newTestSession(t)
	first := &testScreen{title: "first", ui: s}
	second := &testScreen{title: "second", ui: s}

	s.Open(first)
	s.Open(second)

	assert.Equal(t, 1, first.shown)
	assert.Equal(t, 1, second.shown)
	assert.Equal(t, 2, s.Depth())
	assert.Same(t, second, s.Top())

	snap := s.Snapshot()
	assert.Equal(t, s.ID(), snap.SessionID)
	require.NotNil(t, snap.Top)
	assert.Equal(t, "second", snap.Top.Title)
	assert.Equal(t, []ScreenInfo{{Title: "first"}, {Title: "second"}}, snap.Screens)
	// open + refresh per screen
	assert.Equal(t, uint64(4), snap.Version)
	assert.Len(t, *snapshots, 4)
}

func TestSession_CloseDoesNotDestroy(t *testing.T) {
	_, s, _ := newTestSession(t)
	screen := &testScreen{title: "dialog", ui: s}
	s.Open(screen)

	require.NoError(t, s.HandleAction(context.Background(), host.ActionCancel))

	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 0, screen.destroyed)
	assert.Nil(t, s.Snapshot().Top)

	// closing an unknown screen is ignored
	s.Close(screen)
	assert.ErrorIs(t, s.HandleAction(context.Background(), host.ActionOK), ErrNoScreen)
}

func TestSession_RefreshIgnoresForeignScreens(t *testing.T) {
	_, s, _ := newTestSession(t)
	before := s.Snapshot().Version

	s.Refresh(&testScreen{title: "stranger"})
	assert.Equal(t, before, s.Snapshot().Version)
}

func TestSession_SetField(t *testing.T) {
	_, s, _ := newTestSession(t)
	assert.ErrorIs(t, s.SetField("frequency", "330"), ErrNoScreen)

	s.Open(&testScreen{title: "plain", ui: s})
	assert.ErrorIs(t, s.SetField("frequency", "330"), ErrNotEditable)

	editable := &editableScreen{testScreen{title: "form", ui: s}}
	s.Open(editable)
	require.NoError(t, s.SetField("frequency", "330"))
	assert.Error(t, s.SetField("frequency", ""))
	assert.Equal(t, "330", editable.fields["frequency"])
}

func TestSession_ShowMessage(t *testing.T) {
	_, s, _ := newTestSession(t)
	s.ShowMessage(host.MessageError, "No cable tuner found!")

	top := s.Snapshot().Top
	require.NotNil(t, top)
	assert.Equal(t, "Error", top.Title)
	assert.Equal(t, "No cable tuner found!", top.Text)
	assert.Equal(t, host.MessageError, top.Kind)

	require.NoError(t, s.HandleAction(context.Background(), host.ActionOK))
	assert.Equal(t, 0, s.Depth())
}

func TestSession_DestroyTearsDownTopFirst(t *testing.T) {
	m, s, _ := newTestSession(t)

	var order []string
	var mu sync.Mutex
	record := func(name string) *orderedScreen {
		return &orderedScreen{testScreen: testScreen{title: name, ui: s}, onDestroy: func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}}
	}
	s.Open(record("bottom"))
	s.Open(record("top"))

	require.NoError(t, m.Destroy(s.ID()))

	assert.Equal(t, []string{"top", "bottom"}, order)
	assert.Error(t, s.Context().Err())
	assert.ErrorIs(t, s.HandleAction(context.Background(), host.ActionOK), ErrSessionClosed)
	assert.ErrorIs(t, m.Destroy(s.ID()), ErrSessionNotFound)

	// late opens are destroyed immediately
	late := &testScreen{title: "late", ui: s}
	s.Open(late)
	assert.Equal(t, 1, late.destroyed)
	assert.Equal(t, 0, late.shown)
}

type orderedScreen struct {
	testScreen
	onDestroy func()
}

func (s *orderedScreen) Destroy() {
	s.onDestroy()
}

func TestManager_Sessions(t *testing.T) {
	m := NewManager(2, zap.NewNop())

	a, err := m.Create()
	require.NoError(t, err)
	_, err = m.Create()
	require.NoError(t, err)
	_, err = m.Create()
	assert.Error(t, err)
	assert.Equal(t, 2, m.Count())
	assert.Len(t, m.List(), 2)

	got, err := m.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	m.DestroyAll()
	assert.Equal(t, 0, m.Count())
	_, err = m.Get(a.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSession_Run(t *testing.T) {
	_, s, _ := newTestSession(t)
	var ran bool
	entry := host.MenuEntry{Title: "x", Key: "x", Run: func(ctx context.Context, ui host.UI) error {
		ran = ui == s
		return nil
	}}

	require.NoError(t, s.Run(entry))
	assert.True(t, ran)

	s.Destroy()
	assert.ErrorIs(t, s.Run(entry), ErrSessionClosed)
}
