package models

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON member with three states: absent, explicit null,
// and a value. Absence is the zero Field and is dropped on marshal via the
// omitzero tag, so a round trip preserves "not touched" versus "cleared".
type Field[T any] struct {
	value T
	set   bool
	null  bool
}

// Set returns a present field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Null returns a present field that explicitly clears its target.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// IsSet reports whether the key was present, including explicit null.
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the key was present with a null value.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// IsZero reports an absent key. encoding/json uses it for omitzero.
func (f Field[T]) IsZero() bool { return !f.set }

// Get returns the value and whether one is held. Null and absent fields
// both return the zero value and false; use IsSet to tell them apart.
func (f Field[T]) Get() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Value returns the held value or the zero value.
func (f Field[T]) Value() T {
	v, _ := f.Get()
	return v
}

// Ptr returns a pointer to the held value, or nil for null and absent fields.
func (f Field[T]) Ptr() *T {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.value = zero
		f.null = true
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

// Keys of the changes payload, in the order the applier processes them.
const (
	FieldDescription       = "description"
	FieldInstagram         = "instagram"
	FieldLogoURL           = "logo_url"
	FieldActivityDays      = "activity_days"
	FieldActivityLocations = "activity_locations"
	FieldAgeRange          = "age_range"
	FieldActivityPhotos    = "activity_photos"
)

// Changes is the sparse set of profile edits a crew asks for. Every member
// is optional; see Field for how absence differs from an explicit clear.
type Changes struct {
	Description       Field[string]   `json:"description,omitzero"`
	Instagram         Field[string]   `json:"instagram,omitzero"`
	LogoURL           Field[string]   `json:"logo_url,omitzero"`
	ActivityDays      Field[[]string] `json:"activity_days,omitzero"`
	ActivityLocations Field[[]string] `json:"activity_locations,omitzero"`
	AgeRange          Field[AgeRange] `json:"age_range,omitzero"`
	ActivityPhotos    Field[[]string] `json:"activity_photos,omitzero"`
}

// Keys lists the present keys.
func (c Changes) Keys() []string {
	var keys []string
	add := func(set bool, key string) {
		if set {
			keys = append(keys, key)
		}
	}
	add(c.Description.IsSet(), FieldDescription)
	add(c.Instagram.IsSet(), FieldInstagram)
	add(c.LogoURL.IsSet(), FieldLogoURL)
	add(c.ActivityDays.IsSet(), FieldActivityDays)
	add(c.ActivityLocations.IsSet(), FieldActivityLocations)
	add(c.AgeRange.IsSet(), FieldAgeRange)
	add(c.ActivityPhotos.IsSet(), FieldActivityPhotos)
	return keys
}

// Empty reports whether no key is present.
func (c Changes) Empty() bool {
	return len(c.Keys()) == 0
}
