// internal/model/settings.go
package model

import "fmt"

// Bounds of the persisted scan settings, in stored units
const (
	FrequencyMin  = 1
	FrequencyMax  = 999
	SymbolRateMin = 1
	SymbolRateMax = 9999
	NetworkIDMin  = 0
	NetworkIDMax  = 9999

	// unitScale converts stored units (MHz, kSym/s) to engine units (kHz, Sym/s)
	unitScale = 1000
)

// PersistedConfig holds the durable defaults of the scan form
type PersistedConfig struct {
	Frequency     int        `json:"frequency" yaml:"frequency"`
	SymbolRate    int        `json:"symbol_rate" yaml:"symbolrate"`
	NetworkID     int        `json:"network_id" yaml:"networkid"`
	Modulation    Modulation `json:"modulation" yaml:"modulation"`
	KeepNumbering bool       `json:"keep_numbering" yaml:"keepnumbering"`
}

// DefaultPersistedConfig returns the factory defaults
func DefaultPersistedConfig() PersistedConfig {
	return PersistedConfig{
		Frequency:     323,
		SymbolRate:    6875,
		NetworkID:     0,
		Modulation:    ModulationQAM64,
		KeepNumbering: false,
	}
}

// Validate checks every field against its bounds
func (c PersistedConfig) Validate() error {
	if c.Frequency < FrequencyMin || c.Frequency > FrequencyMax {
		return fmt.Errorf("frequency %d out of range [%d, %d]", c.Frequency, FrequencyMin, FrequencyMax)
	}
	if c.SymbolRate < SymbolRateMin || c.SymbolRate > SymbolRateMax {
		return fmt.Errorf("symbol rate %d out of range [%d, %d]", c.SymbolRate, SymbolRateMin, SymbolRateMax)
	}
	if c.NetworkID < NetworkIDMin || c.NetworkID > NetworkIDMax {
		return fmt.Errorf("network id %d out of range [%d, %d]", c.NetworkID, NetworkIDMin, NetworkIDMax)
	}
	if !c.Modulation.IsValid() {
		return fmt.Errorf("invalid modulation: %d", int(c.Modulation))
	}
	return nil
}

// ScanParameters builds engine parameters for the given tuner slot
func (c PersistedConfig) ScanParameters(tunerID int) ScanParameters {
	return ScanParameters{
		TunerID:               tunerID,
		NetworkID:             c.NetworkID,
		FrequencyKHz:          c.Frequency * unitScale,
		SymbolRate:            c.SymbolRate * unitScale,
		Modulation:            c.Modulation,
		KeepOfficialNumbering: c.KeepNumbering,
	}
}
