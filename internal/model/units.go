// internal/model/units.go
package model

import "github.com/shopspring/decimal"

var thousand = decimal.NewFromInt(1000)

// FrequencyMHz renders the transponder frequency in MHz, e.g. "323" or "306.5"
func (p ScanParameters) FrequencyMHz() string {
	return decimal.NewFromInt(int64(p.FrequencyKHz)).Div(thousand).String()
}

// SymbolRateKSyms renders the symbol rate in kSym/s, e.g. "6875"
func (p ScanParameters) SymbolRateKSyms() string {
	return decimal.NewFromInt(int64(p.SymbolRate)).Div(thousand).String()
}

// Summary is a one-line human description used in logs and the progress screen
func (p ScanParameters) Summary() string {
	return p.FrequencyMHz() + " MHz, " + p.SymbolRateKSyms() + " kSym/s, " + p.Modulation.String()
}
