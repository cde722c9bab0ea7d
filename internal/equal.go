package internal

import (
	"bytes"
	"reflect"
)

// Equaler lets observed values define their own equality.
type Equaler interface {
	Equal(other any) bool
}

// isEqual compares a baseline with a re-evaluated value. Values are compared
// structurally, so a float NaN never equals itself and an observed NaN always
// reads as changed. Types that need otherwise implement Equaler.
func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}

	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}

	ab, aok := a.([]byte)
	bb, bok := b.([]byte)
	if aok && bok {
		return bytes.Equal(ab, bb)
	}

	return reflect.DeepEqual(a, b)
}
