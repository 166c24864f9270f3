// internal/tuner/usb/scanner.go
package usb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"cablescan-service/internal/model"
)

// DiscoveredTuner is a DVB receiver found on the USB bus
type DiscoveredTuner struct {
	VendorID  string                 `json:"vendor_id"`
	ProductID string                 `json:"product_id"`
	Vendor    string                 `json:"vendor"`
	Model     string                 `json:"model"`
	Bus       int                    `json:"bus"`
	Address   int                    `json:"address"`
	Delivery  []model.DeliverySystem `json:"delivery"`
}

// SupportsCable reports whether the receiver has a DVB-C frontend
func (d DiscoveredTuner) SupportsCable() bool {
	for _, delivery := range d.Delivery {
		if delivery == model.DeliveryCable {
			return true
		}
	}
	return false
}

// Location returns a stable bus position string
func (d DiscoveredTuner) Location() string {
	return fmt.Sprintf("USB-Bus%d-Addr%d", d.Bus, d.Address)
}

// Scanner enumerates USB receivers
type Scanner struct {
	logger       *zap.Logger
	knownDevices *DeviceDatabase
	timeout      time.Duration
	debug        bool
}

// NewScanner creates a new USB scanner
func NewScanner(logger *zap.Logger, timeout time.Duration, debug bool) *Scanner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Scanner{
		logger:       logger.With(zap.String("scanner", "usb")),
		knownDevices: NewDeviceDatabase(),
		timeout:      timeout,
		debug:        debug,
	}
}

// Scan walks the bus descriptors. Devices are matched on their descriptor
// only and never opened.
func (s *Scanner) Scan(ctx context.Context) ([]DiscoveredTuner, error) {
	startTime := time.Now()

	scanCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type scanResult struct {
		tuners []DiscoveredTuner
		err    error
	}
	done := make(chan scanResult, 1)

	go func() {
		tuners, err := s.enumerate()
		done <- scanResult{tuners: tuners, err: err}
	}()

	select {
	case <-scanCtx.Done():
		return nil, fmt.Errorf("usb scan aborted: %w", scanCtx.Err())
	case result := <-done:
		if result.err != nil {
			return nil, result.err
		}
		s.logger.Info("USB scan completed",
			zap.Int("tuners_found", len(result.tuners)),
			zap.Duration("scan_duration", time.Since(startTime)),
		)
		return result.tuners, nil
	}
}

func (s *Scanner) enumerate() ([]DiscoveredTuner, error) {
	usbCtx := gousb.NewContext()
	defer func() {
		if err := usbCtx.Close(); err != nil {
			s.logger.Warn("Failed to close USB context", zap.Error(err))
		}
	}()

	if s.debug {
		usbCtx.Debug(3)
	}

	var found []DiscoveredTuner
	devices, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if tuner, ok := s.Identify(desc); ok {
			found = append(found, tuner)
		}
		return false
	})
	for _, device := range devices {
		device.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Bus != found[j].Bus {
			return found[i].Bus < found[j].Bus
		}
		return found[i].Address < found[j].Address
	})
	return found, nil
}

// Identify matches a device descriptor against the receiver database
func (s *Scanner) Identify(desc *gousb.DeviceDesc) (DiscoveredTuner, bool) {
	if desc == nil || !s.knownDevices.IsKnownVendor(desc.Vendor) {
		return DiscoveredTuner{}, false
	}

	vendor, product := s.knownDevices.Lookup(desc.Vendor, desc.Product)
	if product == nil {
		s.logger.Debug("Unknown product from known receiver vendor",
			zap.String("vendor_id", fmt.Sprintf("0x%04X", uint16(desc.Vendor))),
			zap.String("product_id", fmt.Sprintf("0x%04X", uint16(desc.Product))),
		)
		return DiscoveredTuner{}, false
	}

	return DiscoveredTuner{
		VendorID:  fmt.Sprintf("0x%04X", uint16(desc.Vendor)),
		ProductID: fmt.Sprintf("0x%04X", uint16(desc.Product)),
		Vendor:    vendor.Name,
		Model:     product.Model,
		Bus:       desc.Bus,
		Address:   desc.Address,
		Delivery:  product.Delivery,
	}, true
}
