// pkg/form/set.go
package form

import "fmt"

// Set is an ordered list of fields rendered as one form
type Set []Field

// Lookup finds a field by key
func (s Set) Lookup(key string) (Field, bool) {
	for _, f := range s {
		if f.Key() == key {
			return f, true
		}
	}
	return nil, false
}

// Apply sets the field named key from raw input
func (s Set) Apply(key, raw string) error {
	f, ok := s.Lookup(key)
	if !ok {
		return fmt.Errorf("%q: %w", key, ErrUnknownField)
	}
	return f.Set(raw)
}

// Views renders every field in order
func (s Set) Views() []FieldView {
	views := make([]FieldView, 0, len(s))
	for _, f := range s {
		views = append(views, f.View())
	}
	return views
}
