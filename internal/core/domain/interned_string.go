package domain

import "unique"

// InternedString is a value object that wraps a unique.Handle[string].
// Task names are repeated across every feature and target that overrides them, so they are interned.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString creates a new InternedString from a string.
// It uses the unique package to intern the string.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// NewInternedStrings interns every string of s.
// It returns nil for an empty slice.
func NewInternedStrings(s []string) []InternedString {
	if len(s) == 0 {
		return nil
	}
	out := make([]InternedString, len(s))
	for i, v := range s {
		out[i] = NewInternedString(v)
	}
	return out
}

// String returns the underlying string value, "" for the zero value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// Value returns the underlying unique.Handle[string].
func (is InternedString) Value() unique.Handle[string] {
	return is.h
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It creates a new handle from the provided text.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
