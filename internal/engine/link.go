// internal/engine/link.go
package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/pkg/host"
)

// Line protocol spoken with an external scan daemon.
//
//	-> SCAN <tuner> <network> <frequency_khz> <symbol_rate> <modulation> <keep>
//	<- PROGRESS <percent>
//	<- COMPLETE <result>
//	<- ERROR <text>
//	-> ABORT
const (
	cmdScan      = "SCAN"
	cmdAbort     = "ABORT"
	evtProgress  = "PROGRESS"
	evtComplete  = "COMPLETE"
	evtError     = "ERROR"
	maxLineBytes = 4096
)

// Dialer opens a byte stream to the scan daemon
type Dialer interface {
	Dial(ctx context.Context) (io.ReadWriteCloser, error)
	String() string
}

// LinkFactory builds engines that delegate scanning over a Dialer
type LinkFactory struct {
	dialer         Dialer
	connectTimeout time.Duration
	logger         *zap.Logger
}

// NewLinkFactory creates a link engine factory
func NewLinkFactory(dialer Dialer, connectTimeout time.Duration, logger *zap.Logger) *LinkFactory {
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	return &LinkFactory{
		dialer:         dialer,
		connectTimeout: connectTimeout,
		logger:         logger.With(zap.String("engine", "link"), zap.String("endpoint", dialer.String())),
	}
}

// NewEngine implements host.EngineFactory
func (f *LinkFactory) NewEngine(params model.ScanParameters) (host.ScanEngine, error) {
	if !params.Modulation.IsValid() {
		return nil, fmt.Errorf("invalid modulation: %d", int(params.Modulation))
	}

	return &LinkEngine{
		params:         params,
		dialer:         f.dialer,
		connectTimeout: f.connectTimeout,
		logger:         f.logger,
	}, nil
}

// LinkEngine runs one scan on the scan daemon
type LinkEngine struct {
	params         model.ScanParameters
	dialer         Dialer
	connectTimeout time.Duration
	logger         *zap.Logger

	progress   host.Listeners[int]
	completion host.Listeners[int]

	mu        sync.Mutex
	conn      io.ReadWriteCloser
	cancel    context.CancelFunc
	started   bool
	completed bool
	released  bool
}

func (e *LinkEngine) OnProgress(handler host.ProgressHandler) host.Subscription {
	return e.progress.Add(handler)
}

func (e *LinkEngine) OnCompletion(handler host.CompletionHandler) host.Subscription {
	return e.completion.Add(handler)
}

// Start connects to the daemon and sends the scan request in the
// background. Connection and request failures are reported as completion
// with -1.
func (e *LinkEngine) Start(tunerID int) error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return fmt.Errorf("engine released")
	}
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("scan already started")
	}
	e.started = true
	ctx, cancel := context.WithTimeout(context.Background(), e.connectTimeout)
	e.cancel = cancel
	e.mu.Unlock()

	go e.run(ctx, cancel, tunerID)
	return nil
}

func (e *LinkEngine) run(ctx context.Context, cancel context.CancelFunc, tunerID int) {
	conn, err := e.dialer.Dial(ctx)
	cancel()
	if err != nil {
		if !e.isReleased() {
			e.logger.Error("Failed to connect to scan daemon", zap.Error(err))
		}
		e.complete(-1)
		return
	}

	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		conn.Close()
		return
	}
	e.conn = conn
	e.mu.Unlock()

	if _, err := io.WriteString(conn, FormatScanCommand(tunerID, e.params)); err != nil {
		if !e.isReleased() {
			e.logger.Error("Failed to send scan request", zap.Error(err))
		}
		e.complete(-1)
		return
	}

	e.logger.Info("Scan request sent",
		zap.Int("tuner_id", tunerID),
		zap.String("parameters", e.params.Summary()),
	)

	e.readLoop(conn)
}

// Release aborts a running scan, closes the link and drops every handler
func (e *LinkEngine) Release() error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return nil
	}
	e.released = true
	conn := e.conn
	completed := e.completed
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	e.progress.Clear()
	e.completion.Clear()

	if conn == nil {
		return nil
	}
	if !completed {
		if d, ok := conn.(interface{ SetWriteDeadline(time.Time) error }); ok {
			d.SetWriteDeadline(time.Now().Add(time.Second))
		}
		io.WriteString(conn, cmdAbort+"\n")
	}
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close scan link: %w", err)
	}
	return nil
}

func (e *LinkEngine) readLoop(conn io.Reader) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), maxLineBytes)

	for scanner.Scan() {
		event, value, err := ParseEvent(scanner.Text())
		if err != nil {
			e.logger.Warn("Ignoring malformed scan daemon line", zap.Error(err))
			continue
		}

		switch event {
		case evtProgress:
			e.progress.Emit(value)
		case evtComplete:
			e.complete(value)
			return
		case evtError:
			e.complete(-1)
			return
		}
	}

	if err := scanner.Err(); err != nil && !e.isReleased() {
		e.logger.Warn("Scan link read failed", zap.Error(err))
	}
	// link dropped before completion
	e.complete(-1)
}

func (e *LinkEngine) complete(result int) {
	e.mu.Lock()
	if e.completed || e.released {
		e.mu.Unlock()
		return
	}
	e.completed = true
	e.mu.Unlock()

	e.completion.Emit(result)
}

func (e *LinkEngine) isReleased() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

// FormatScanCommand renders the scan request line
func FormatScanCommand(tunerID int, params model.ScanParameters) string {
	keep := 0
	if params.KeepOfficialNumbering {
		keep = 1
	}
	return fmt.Sprintf("%s %d %d %d %d %d %d\n",
		cmdScan, tunerID, params.NetworkID, params.FrequencyKHz,
		params.SymbolRate, int(params.Modulation), keep)
}

// ParseEvent parses one daemon line. ERROR lines carry no value.
func ParseEvent(line string) (string, int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", 0, fmt.Errorf("empty line")
	}

	event := strings.ToUpper(fields[0])
	switch event {
	case evtError:
		return event, 0, nil
	case evtProgress, evtComplete:
		if len(fields) != 2 {
			return "", 0, fmt.Errorf("%s expects one argument: %q", event, line)
		}
		value, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", 0, fmt.Errorf("%s: invalid number %q", event, fields[1])
		}
		return event, value, nil
	default:
		return "", 0, fmt.Errorf("unknown event %q", fields[0])
	}
}
