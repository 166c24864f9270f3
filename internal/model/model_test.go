// internal/model/model_test.go
package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModulation(t *testing.T) {
	tests := []struct {
		in      string
		want    Modulation
		wantErr bool
	}{
		{in: "QAM64", want: ModulationQAM64},
		{in: "qam256", want: ModulationQAM256},
		{in: " 1 ", want: ModulationQAM16},
		{in: "6", wantErr: true},
		{in: "0", wantErr: true},
		{in: "8PSK", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModulation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModulation_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		M Modulation `json:"m"`
	}{M: ModulationQAM128})
	require.NoError(t, err)
	assert.JSONEq(t, `{"m":"QAM128"}`, string(raw))

	_, err = json.Marshal(Modulation(9))
	assert.Error(t, err)

	assert.Equal(t, "Modulation(9)", Modulation(9).String())
}

func TestScanParameters_Summary(t *testing.T) {
	params := DefaultPersistedConfig().ScanParameters(0)
	assert.Equal(t, 323000, params.FrequencyKHz)
	assert.Equal(t, 6875000, params.SymbolRate)
	assert.Equal(t, "323 MHz, 6875 kSym/s, QAM64", params.Summary())

	params.FrequencyKHz = 306500
	assert.Equal(t, "306.5", params.FrequencyMHz())
}

func TestPersistedConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultPersistedConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*PersistedConfig)
	}{
		{name: "frequency low", mutate: func(c *PersistedConfig) { c.Frequency = 0 }},
		{name: "frequency high", mutate: func(c *PersistedConfig) { c.Frequency = 1000 }},
		{name: "symbol rate", mutate: func(c *PersistedConfig) { c.SymbolRate = 10000 }},
		{name: "network id", mutate: func(c *PersistedConfig) { c.NetworkID = -1 }},
		{name: "modulation", mutate: func(c *PersistedConfig) { c.Modulation = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPersistedConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOutcomeFromResult(t *testing.T) {
	failed := OutcomeFromResult(-1)
	assert.True(t, failed.Finished)
	assert.True(t, failed.Failed)
	assert.Nil(t, failed.ChannelsFound)
	assert.ErrorIs(t, failed.Err(), ErrScanFailed)

	done := OutcomeFromResult(0)
	require.NotNil(t, done.ChannelsFound)
	assert.Equal(t, 0, *done.ChannelsFound)
	assert.NoError(t, done.Err())
}

func TestScanRun_Status(t *testing.T) {
	started := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	run := NewScanRun(DefaultPersistedConfig().ScanParameters(1), started)
	assert.Equal(t, ScanRunRunning, run.Status)
	assert.Equal(t, 1, run.TunerID)
	assert.Equal(t, started, run.StartedAt)

	assert.Equal(t, ScanRunAbandoned, StatusFor(ScanOutcome{}))
	assert.Equal(t, ScanRunFailed, StatusFor(OutcomeFromResult(-1)))
	assert.Equal(t, ScanRunCompleted, StatusFor(OutcomeFromResult(12)))
}

func TestTuner_SupportsCable(t *testing.T) {
	assert.True(t, Tuner{Delivery: DeliveryCable}.SupportsCable())
	assert.False(t, Tuner{Delivery: DeliverySatellite}.SupportsCable())
}
