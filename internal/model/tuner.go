// internal/model/tuner.go
package model

// Tuner is a tuner slot (NIM) as reported by the host
type Tuner struct {
	Slot        int            `json:"slot" yaml:"slot" mapstructure:"slot"`
	Description string         `json:"description" yaml:"description" mapstructure:"description"`
	Delivery    DeliverySystem `json:"delivery" yaml:"delivery" mapstructure:"delivery"`
	Source      string         `json:"source,omitempty" yaml:"-" mapstructure:"-"`
}

// SupportsCable reports whether the slot can receive DVB-C
func (t Tuner) SupportsCable() bool {
	return t.Delivery == DeliveryCable
}
