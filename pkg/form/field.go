// pkg/form/field.go
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors returned by Field.Set and Set.Apply
var (
	ErrOutOfRange    = errors.New("value out of range")
	ErrUnknownChoice = errors.New("unknown choice")
	ErrInvalidValue  = errors.New("invalid value")
	ErrUnknownField  = errors.New("unknown field")
)

// Kind tells a renderer which widget to use for a field
type Kind string

const (
	KindInteger Kind = "INTEGER"
	KindChoice  Kind = "CHOICE"
	KindBoolean Kind = "BOOLEAN"
)

// Field is an editable, validated form entry
type Field interface {
	Key() string
	Label() string
	Kind() Kind
	// Set parses and validates raw input; the current value is kept on error
	Set(raw string) error
	View() FieldView
}

// Option is one entry of a closed choice set
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldView is the render-ready snapshot of a field
type FieldView struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Value   string   `json:"value"`
	Display string   `json:"display"`
	Min     *int     `json:"min,omitempty"`
	Max     *int     `json:"max,omitempty"`
	Options []Option `json:"options,omitempty"`
}

// Integer is a bounded integer field
type Integer struct {
	key   string
	label string
	min   int
	max   int
	value int
}

// NewInteger creates an integer field; an out-of-range initial value is clamped
func NewInteger(key, label string, min, max, value int) *Integer {
	f := &Integer{key: key, label: label, min: min, max: max}
	f.value = clamp(value, min, max)
	return f
}

func (f *Integer) Key() string   { return f.key }
func (f *Integer) Label() string { return f.label }
func (f *Integer) Kind() Kind    { return KindInteger }
func (f *Integer) Value() int    { return f.value }

// SetValue validates and stores v
func (f *Integer) SetValue(v int) error {
	if v < f.min || v > f.max {
		return fmt.Errorf("%s: %d not in [%d, %d]: %w", f.key, v, f.min, f.max, ErrOutOfRange)
	}
	f.value = v
	return nil
}

func (f *Integer) Set(raw string) error {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %q is not a number: %w", f.key, raw, ErrInvalidValue)
	}
	return f.SetValue(v)
}

func (f *Integer) View() FieldView {
	min, max := f.min, f.max
	value := strconv.Itoa(f.value)
	return FieldView{
		Key:     f.key,
		Label:   f.label,
		Kind:    KindInteger,
		Value:   value,
		Display: value,
		Min:     &min,
		Max:     &max,
	}
}

// Choice is a closed selection field
type Choice struct {
	key     string
	label   string
	options []Option
	value   string
}

// NewChoice creates a choice field. If value is not among the options the
// first option is selected.
func NewChoice(key, label string, options []Option, value string) *Choice {
	f := &Choice{key: key, label: label, options: append([]Option(nil), options...)}
	if f.indexOf(value) >= 0 {
		f.value = value
	} else if len(f.options) > 0 {
		f.value = f.options[0].Value
	}
	return f
}

func (f *Choice) Key() string   { return f.key }
func (f *Choice) Label() string { return f.label }
func (f *Choice) Kind() Kind    { return KindChoice }
func (f *Choice) Value() string { return f.value }

func (f *Choice) Set(raw string) error {
	raw = strings.TrimSpace(raw)
	if f.indexOf(raw) < 0 {
		return fmt.Errorf("%s: %q: %w", f.key, raw, ErrUnknownChoice)
	}
	f.value = raw
	return nil
}

func (f *Choice) View() FieldView {
	display := ""
	if i := f.indexOf(f.value); i >= 0 {
		display = f.options[i].Label
	}
	return FieldView{
		Key:     f.key,
		Label:   f.label,
		Kind:    KindChoice,
		Value:   f.value,
		Display: display,
		Options: append([]Option(nil), f.options...),
	}
}

func (f *Choice) indexOf(value string) int {
	for i, opt := range f.options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

// Boolean is a yes/no field
type Boolean struct {
	key   string
	label string
	value bool
}

// NewBoolean creates a yes/no field
func NewBoolean(key, label string, value bool) *Boolean {
	return &Boolean{key: key, label: label, value: value}
}

func (f *Boolean) Key() string   { return f.key }
func (f *Boolean) Label() string { return f.label }
func (f *Boolean) Kind() Kind    { return KindBoolean }
func (f *Boolean) Value() bool   { return f.value }

func (f *Boolean) Set(raw string) error {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "on":
		f.value = true
	case "false", "no", "0", "off":
		f.value = false
	default:
		return fmt.Errorf("%s: %q is not a yes/no value: %w", f.key, raw, ErrInvalidValue)
	}
	return nil
}

func (f *Boolean) View() FieldView {
	display := "no"
	if f.value {
		display = "yes"
	}
	return FieldView{
		Key:     f.key,
		Label:   f.label,
		Kind:    KindBoolean,
		Value:   strconv.FormatBool(f.value),
		Display: display,
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
