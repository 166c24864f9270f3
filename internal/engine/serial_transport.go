// internal/engine/serial_transport.go
package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"go.bug.st/serial"

	"cablescan-service/internal/config"
)

// AutoPort selects the first serial port matching DefaultPortPatterns
const AutoPort = "auto"

// DefaultPortPatterns match USB serial adapters and native COM ports
var DefaultPortPatterns = []string{
	"/dev/ttyUSB*",
	"/dev/ttyACM*",
	"/dev/tty.usbserial*",
	"/dev/tty.usbmodem*",
	"COM*",
}

// SerialDialer reaches a scan controller attached to a serial line
type SerialDialer struct {
	config config.SerialEngineConfig
	open   func(name string, mode *serial.Mode) (serial.Port, error)
	list   func() ([]string, error)
}

// NewSerialDialer creates a dialer for the configured port
func NewSerialDialer(cfg config.SerialEngineConfig) *SerialDialer {
	return &SerialDialer{
		config: cfg,
		open:   serial.Open,
		list:   serial.GetPortsList,
	}
}

// Dial opens the serial port
func (d *SerialDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	mode, err := SerialMode(d.config)
	if err != nil {
		return nil, err
	}

	name, err := d.portName()
	if err != nil {
		return nil, err
	}

	port, err := d.open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	return port, nil
}

// portName resolves the configured port, enumerating ports in auto mode
func (d *SerialDialer) portName() (string, error) {
	if d.config.Port != AutoPort {
		return d.config.Port, nil
	}

	ports, err := d.list()
	if err != nil {
		return "", fmt.Errorf("failed to get serial ports: %w", err)
	}

	candidates := filterPorts(ports, DefaultPortPatterns)
	if len(candidates) == 0 {
		return "", fmt.Errorf("no serial port matches %v", DefaultPortPatterns)
	}
	return candidates[0], nil
}

func filterPorts(ports, patterns []string) []string {
	var matched []string
	for _, port := range ports {
		for _, pattern := range patterns {
			if ok, _ := filepath.Match(pattern, port); ok {
				matched = append(matched, port)
				break
			}
		}
	}
	sort.Strings(matched)
	return matched
}

func (d *SerialDialer) String() string {
	return "serial://" + d.config.Port
}

// SerialMode converts the configured line settings
func SerialMode(cfg config.SerialEngineConfig) (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
	}

	switch cfg.StopBits {
	case 0, 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("unsupported stop bits: %d", cfg.StopBits)
	}

	switch cfg.Parity {
	case "", "none":
		mode.Parity = serial.NoParity
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	case "mark":
		mode.Parity = serial.MarkParity
	case "space":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("unsupported parity: %s", cfg.Parity)
	}

	return mode, nil
}
