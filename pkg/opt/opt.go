// Package opt provides a tri-state optional value for sparse patches:
// a field is either absent from the patch (leave unchanged), explicitly
// null (clear the stored value), or set to a concrete value.
package opt

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	present bool
	valid   bool
	value   T
}

// Of returns a Value carrying v.
func Of[T any](v T) Value[T] {
	return Value[T]{present: true, valid: true, value: v}
}

// Clear returns a Value that explicitly clears the target field.
func Clear[T any]() Value[T] {
	return Value[T]{present: true}
}

// Unset returns a Value that leaves the target field unchanged.
func Unset[T any]() Value[T] {
	return Value[T]{}
}

// Present reports whether the field appeared in the patch at all.
func (v Value[T]) Present() bool { return v.present }

// Get returns the carried value; ok is false when the field was absent
// or explicitly cleared.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.present && v.valid
}

// Apply merges the patch value into a nullable destination field.
func (v Value[T]) Apply(dst **T) {
	if !v.present {
		return
	}
	if !v.valid {
		*dst = nil
		return
	}
	value := v.value
	*dst = &value
}

// ApplyValue merges the patch value into a non-nullable destination,
// substituting fallback when the field was cleared.
func (v Value[T]) ApplyValue(dst *T, fallback T) {
	if !v.present {
		return
	}
	if !v.valid {
		*dst = fallback
		return
	}
	*dst = v.value
}

var nullLiteral = []byte("null")

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.present || !v.valid {
		return nullLiteral, nil
	}
	return json.Marshal(v.value)
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.present = true
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		v.valid = false
		var zero T
		v.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &v.value); err != nil {
		return err
	}
	v.valid = true
	return nil
}
