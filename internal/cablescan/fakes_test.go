// internal/cablescan/fakes_test.go
package cablescan

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"cablescan-service/internal/model"
	"cablescan-service/pkg/host"
)

type fakeEngine struct {
	progress   host.Listeners[int]
	completion host.Listeners[int]

	mu       sync.Mutex
	started  []int
	released int
	startErr error
}

func (e *fakeEngine) OnProgress(h host.ProgressHandler) host.Subscription {
	return e.progress.Add(h)
}

func (e *fakeEngine) OnCompletion(h host.CompletionHandler) host.Subscription {
	return e.completion.Add(h)
}

func (e *fakeEngine) Start(tunerID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = append(e.started, tunerID)
	return e.startErr
}

func (e *fakeEngine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released++
	return nil
}

func (e *fakeEngine) releasedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

func (e *fakeEngine) listeners() int {
	return e.progress.Len() + e.completion.Len()
}

type fakeFactory struct {
	engine *fakeEngine
	err    error

	mu     sync.Mutex
	params []model.ScanParameters
}

func (f *fakeFactory) NewEngine(params model.ScanParameters) (host.ScanEngine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.engine, nil
}

type fakeNavigator struct {
	mu      sync.Mutex
	current host.ServiceRef
	stopped int
	played  []host.ServiceRef
}

func (n *fakeNavigator) CurrentService() host.ServiceRef {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *fakeNavigator) StopService() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped++
	n.current = ""
}

func (n *fakeNavigator) PlayService(ref host.ServiceRef) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.played = append(n.played, ref)
	n.current = ref
	return nil
}

type message struct {
	kind host.MessageKind
	text string
}

type fakeUI struct {
	mu        sync.Mutex
	opened    []host.Screen
	closed    []host.Screen
	refreshed int
	messages  []message
}

func (u *fakeUI) Open(s host.Screen) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.opened = append(u.opened, s)
}

func (u *fakeUI) Close(s host.Screen) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = append(u.closed, s)
}

func (u *fakeUI) Refresh(s host.Screen) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.refreshed++
}

func (u *fakeUI) ShowMessage(kind host.MessageKind, text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.messages = append(u.messages, message{kind: kind, text: text})
}

type fakeStore struct {
	mu      sync.Mutex
	cfg     *model.PersistedConfig
	loadErr error
	saveErr error
	saves   int
}

func (s *fakeStore) Load(ctx context.Context) (model.PersistedConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return model.PersistedConfig{}, s.loadErr
	}
	if s.cfg == nil {
		return model.DefaultPersistedConfig(), nil
	}
	return *s.cfg, nil
}

func (s *fakeStore) Save(ctx context.Context, cfg model.PersistedConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cfg = &cfg
	return nil
}

type fakeTuners struct {
	tuners []model.Tuner
	err    error
}

func (t *fakeTuners) CableTuners(ctx context.Context) ([]model.Tuner, error) {
	return t.tuners, t.err
}

func (t *fakeTuners) HasCableTuner(ctx context.Context) bool {
	return t.err == nil && len(t.tuners) > 0
}

type fakeRecording bool

func (r fakeRecording) IsRecording(ctx context.Context) bool {
	return bool(r)
}

type fakeJournal struct {
	mu       sync.Mutex
	calls    []string
	started  []uuid.UUID
	finished map[uuid.UUID]model.ScanOutcome
}

func (j *fakeJournal) Started(id uuid.UUID, params model.ScanParameters) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, "started")
	j.started = append(j.started, id)
}

func (j *fakeJournal) Finished(id uuid.UUID, outcome model.ScanOutcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, "finished")
	if j.finished == nil {
		j.finished = make(map[uuid.UUID]model.ScanOutcome)
	}
	j.finished[id] = outcome
}

// gate parks a collaborator call until the test opens it
type gate struct {
	entered chan struct{}
	open    chan struct{}
}

func newGate() gate {
	return gate{entered: make(chan struct{}), open: make(chan struct{})}
}

func (g gate) wait() {
	close(g.entered)
	<-g.open
}

type gatedNavigator struct {
	fakeNavigator
	gate gate
}

func (n *gatedNavigator) StopService() {
	n.gate.wait()
	n.fakeNavigator.StopService()
}

type gatedJournal struct {
	fakeJournal
	gate gate
}

func (j *gatedJournal) Started(id uuid.UUID, params model.ScanParameters) {
	j.gate.wait()
	j.fakeJournal.Started(id, params)
}

type recordingSink struct {
	mu        sync.Mutex
	progress  []int
	completed []model.ScanOutcome
}

func (s *recordingSink) ScanProgress(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, percent)
}

func (s *recordingSink) ScanCompleted(outcome model.ScanOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, outcome)
}

var errBoom = errors.New("boom")

var testParams = model.ScanParameters{
	TunerID:      1,
	NetworkID:    0,
	FrequencyKHz: 323000,
	SymbolRate:   6875000,
	Modulation:   model.ModulationQAM64,
}

var cableTuners = []model.Tuner{
	{Slot: 0, Description: "Tuner A: DVB-C", Delivery: model.DeliveryCable},
	{Slot: 2, Description: "Tuner C: DVB-C", Delivery: model.DeliveryCable},
}

func newTestDeps() (*Deps, *fakeEngine, *fakeNavigator, *fakeStore) {
	engine := &fakeEngine{}
	nav := &fakeNavigator{current: "1:0:1:445D:453:1:C00000:0:0:0:"}
	store := &fakeStore{}
	return &Deps{
		Tuners:    &fakeTuners{tuners: cableTuners},
		Recording: fakeRecording(false),
		Navigator: nav,
		Store:     store,
		Engines:   &fakeFactory{engine: engine},
	}, engine, nav, store
}
