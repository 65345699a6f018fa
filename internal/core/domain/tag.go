package domain

import "unique"

// Tag is an interned type label for elements and associations.
// Large models repeat a handful of type names across every element, so the
// label is stored once per process and compared by handle.
type Tag struct {
	h unique.Handle[string]
}

// NewTag interns s. The empty string yields the zero Tag.
func NewTag(s string) Tag {
	if s == "" {
		return Tag{}
	}
	return Tag{h: unique.Make(s)}
}

// String returns the label, or "" for the zero Tag.
func (t Tag) String() string {
	if t.IsZero() {
		return ""
	}
	return t.h.Value()
}

// IsZero reports whether the tag carries no label.
func (t Tag) IsZero() bool {
	var zero unique.Handle[string]
	return t.h == zero
}

// Or returns the label, or fallback when the tag is empty.
func (t Tag) Or(fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	*t = NewTag(string(text))
	return nil
}
