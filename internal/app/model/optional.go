package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a PATCH field: Present is set only when the JSON key was sent,
// Value is nil when it was sent as null.
type Optional[T any] struct {
	Present bool
	Value   *T
}

type nullable interface {
	IsNull() bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	o.Value = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	if n, ok := any(v).(nullable); ok && n.IsNull() {
		return nil
	}
	o.Value = v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Apply overwrites a nullable destination when the field was sent.
func (o Optional[T]) Apply(dst **T) {
	if !o.Present {
		return
	}
	if o.Value == nil {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}

// ApplyValue overwrites a non-nullable destination when a non-null value was sent.
func (o Optional[T]) ApplyValue(dst *T) {
	if o.Present && o.Value != nil {
		*dst = *o.Value
	}
}

// Get returns the sent value or fallback.
func (o Optional[T]) Get(fallback T) T {
	if o.Present && o.Value != nil {
		return *o.Value
	}
	return fallback
}
