// internal/cablescan/session.go
package cablescan

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/internal/utils"
	"cablescan-service/pkg/host"
)

// StatusSink receives session state changes. Calls arrive on engine
// goroutines and never while the session holds its lock.
type StatusSink interface {
	ScanProgress(percent int)
	ScanCompleted(outcome model.ScanOutcome)
}

// RunJournal records scans. Finished is called once per started run, with an
// unfinished outcome when the scan was abandoned.
type RunJournal interface {
	Started(id uuid.UUID, params model.ScanParameters)
	Finished(id uuid.UUID, outcome model.ScanOutcome)
}

// Session owns the scan engine for the lifetime of one scan
type Session struct {
	id      uuid.UUID
	params  model.ScanParameters
	engines host.EngineFactory
	nav     host.Navigator
	sink    StatusSink
	journal RunJournal
	logger  *utils.ScanLogger

	// closed when an accepted Begin returns
	beginDone chan struct{}

	mu       sync.Mutex
	begun    bool
	ended    bool
	progress int
	outcome  model.ScanOutcome
	release  func()
}

// NewSession creates a session; sink and journal may be nil
func NewSession(
	params model.ScanParameters,
	engines host.EngineFactory,
	nav host.Navigator,
	sink StatusSink,
	journal RunJournal,
	logger *zap.Logger,
) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New()
	return &Session{
		id:        id,
		params:    params,
		engines:   engines,
		nav:       nav,
		sink:      sink,
		journal:   journal,
		logger:    utils.NewScanLogger(logger.With(zap.String("scan_id", id.String())), params),
		beginDone: make(chan struct{}),
	}
}

// ID identifies the session in logs and the scan history
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Params returns the scan parameters
func (s *Session) Params() model.ScanParameters {
	return s.params
}

// Begin stops playback, builds the engine, subscribes to its events and
// starts it on the selected tuner. Only the first call has an effect.
// Construction and start failures are reported as completion with -1.
func (s *Session) Begin() {
	s.mu.Lock()
	if s.begun || s.ended {
		s.mu.Unlock()
		return
	}
	s.begun = true
	s.outcome = model.ScanOutcome{}
	s.progress = 0
	s.mu.Unlock()
	defer close(s.beginDone)

	s.nav.StopService()
	if s.journal != nil {
		s.journal.Started(s.id, s.params)
	}
	s.logger.Start()

	// End arrived while playback was stopping; it journals the abandonment
	// once Begin returns.
	if s.isEnded() {
		return
	}

	engine, err := s.engines.NewEngine(s.params)
	if err != nil {
		s.logger.Error("Failed to create scan engine", err)
		s.onCompletion(-1)
		return
	}

	progressSub := engine.OnProgress(s.onProgress)
	completionSub := engine.OnCompletion(s.onCompletion)

	var once sync.Once
	release := func() {
		once.Do(func() {
			progressSub.Unsubscribe()
			completionSub.Unsubscribe()
			if err := engine.Release(); err != nil {
				s.logger.Error("Failed to release scan engine", err)
			}
		})
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		release()
		return
	}
	s.release = release
	s.mu.Unlock()

	if err := engine.Start(s.params.TunerID); err != nil {
		s.logger.Error("Failed to start scan engine", err)
		s.onCompletion(-1)
	}
}

// End unsubscribes both handlers and releases the engine. It waits for an
// in-flight Begin. Safe to call more than once; only the first call has an
// effect.
func (s *Session) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	begun := s.begun
	s.mu.Unlock()

	if begun {
		<-s.beginDone
	}

	s.mu.Lock()
	release := s.release
	s.release = nil
	outcome := s.outcome
	s.mu.Unlock()

	if release != nil {
		release()
	}

	if begun && !outcome.Finished && s.journal != nil {
		s.journal.Finished(s.id, outcome)
	}
	s.logger.Ended(outcome.Finished)
}

func (s *Session) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// IsDone reports whether the engine has completed
func (s *Session) IsDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome.Finished
}

// Outcome returns the last reported outcome
func (s *Session) Outcome() model.ScanOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Progress returns the last reported progress in percent
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) onProgress(percent int) {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	s.mu.Lock()
	if s.ended || s.outcome.Finished {
		s.mu.Unlock()
		return
	}
	s.progress = percent
	s.mu.Unlock()

	s.logger.Progress(percent)
	if s.sink != nil {
		s.sink.ScanProgress(percent)
	}
}

func (s *Session) onCompletion(result int) {
	s.mu.Lock()
	if s.ended || s.outcome.Finished {
		s.mu.Unlock()
		return
	}
	s.outcome = model.OutcomeFromResult(result)
	outcome := s.outcome
	s.mu.Unlock()

	s.logger.Completed(outcome)
	if s.journal != nil {
		s.journal.Finished(s.id, outcome)
	}
	if s.sink != nil {
		s.sink.ScanCompleted(outcome)
	}
}
