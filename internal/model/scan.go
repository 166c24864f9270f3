// internal/model/scan.go
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DeliverySystem identifies the broadcast delivery a tuner supports
type DeliverySystem string

const (
	DeliveryCable       DeliverySystem = "DVB-C"
	DeliverySatellite   DeliverySystem = "DVB-S"
	DeliveryTerrestrial DeliverySystem = "DVB-T"
)

// Modulation is the QAM constellation used on a cable transponder.
// Values follow the host frontend parameter enumeration.
type Modulation int

const (
	ModulationQAM16  Modulation = 1
	ModulationQAM32  Modulation = 2
	ModulationQAM64  Modulation = 3
	ModulationQAM128 Modulation = 4
	ModulationQAM256 Modulation = 5
)

// Modulations lists every selectable modulation in display order
var Modulations = []Modulation{
	ModulationQAM16,
	ModulationQAM32,
	ModulationQAM64,
	ModulationQAM128,
	ModulationQAM256,
}

// String returns the display name, e.g. "QAM64"
func (m Modulation) String() string {
	switch m {
	case ModulationQAM16:
		return "QAM16"
	case ModulationQAM32:
		return "QAM32"
	case ModulationQAM64:
		return "QAM64"
	case ModulationQAM128:
		return "QAM128"
	case ModulationQAM256:
		return "QAM256"
	default:
		return fmt.Sprintf("Modulation(%d)", int(m))
	}
}

// IsValid reports whether m is one of the five QAM modes
func (m Modulation) IsValid() bool {
	return m >= ModulationQAM16 && m <= ModulationQAM256
}

// ParseModulation accepts either the display name ("QAM64") or the numeric value ("3")
func ParseModulation(s string) (Modulation, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		m := Modulation(n)
		if !m.IsValid() {
			return 0, fmt.Errorf("unknown modulation value: %d", n)
		}
		return m, nil
	}

	for _, m := range Modulations {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown modulation: %q", s)
}

// MarshalText encodes the modulation by name
func (m Modulation) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid modulation: %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a modulation by name or number
func (m *Modulation) UnmarshalText(text []byte) error {
	parsed, err := ParseModulation(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ScanParameters is the immutable input of a single cable scan
type ScanParameters struct {
	TunerID               int        `json:"tuner_id"`
	NetworkID             int        `json:"network_id"`
	FrequencyKHz          int        `json:"frequency_khz"`
	SymbolRate            int        `json:"symbol_rate"`
	Modulation            Modulation `json:"modulation"`
	KeepOfficialNumbering bool       `json:"keep_official_numbering"`
}

// ScanOutcome is the last reported state of a scan
type ScanOutcome struct {
	Finished      bool `json:"finished"`
	ChannelsFound *int `json:"channels_found,omitempty"`
	Failed        bool `json:"failed"`
}

// ErrScanFailed is reported when the engine completes with a negative result
var ErrScanFailed = errors.New("scan failed")

// Err returns ErrScanFailed for a failed scan and nil otherwise
func (o ScanOutcome) Err() error {
	if o.Failed {
		return ErrScanFailed
	}
	return nil
}

// OutcomeFromResult maps an engine completion result to an outcome.
// Negative results are failures; anything else is a channel count.
func OutcomeFromResult(result int) ScanOutcome {
	if result < 0 {
		return ScanOutcome{Finished: true, Failed: true}
	}

	channels := result
	return ScanOutcome{Finished: true, ChannelsFound: &channels}
}
