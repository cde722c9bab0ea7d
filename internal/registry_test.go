package internal

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservation(t *testing.T) {
	t.Run("moves from pending to checked once", func(t *testing.T) {
		value := 0
		r := NewRegistry(PolicyAtLeastOne, zerolog.Nop())

		obs := r.Register(func() any { return value })
		assert.Equal(t, StatePending, obs.State())
		assert.Equal(t, "pending", obs.State().String())

		report, err := r.Expect([]*Observation{obs}, func() error {
			value = 1
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, StateChecked, obs.State())
		assert.Equal(t, []Entry{{ID: 1, Before: 0, After: 1, Changed: true}}, report.Entries)

		_, err = r.Expect([]*Observation{obs}, func() error { return nil })
		assert.ErrorIs(t, err, ErrAlreadyChecked)
	})

	t.Run("equal values with different identities are unchanged", func(t *testing.T) {
		r := NewRegistry(PolicyAtLeastOne, zerolog.Nop())

		obs := r.Register(func() any { return map[string][]string{"root": {"foo"}} })
		report, err := r.Expect([]*Observation{obs}, func() error { return nil })
		require.NoError(t, err)

		assert.False(t, report.Satisfied())
	})

	t.Run("values with an Equal method decide for themselves", func(t *testing.T) {
		v := version{1, 0}
		r := NewRegistry(PolicyAtLeastOne, zerolog.Nop())

		obs := r.Register(func() any { return v })
		report, err := r.Expect([]*Observation{obs}, func() error {
			v.minor = 4
			return nil
		})
		require.NoError(t, err)

		assert.False(t, report.Satisfied())
		assert.Equal(t, 0, report.ChangedCount())
	})
}

type nanAware float64

func (f nanAware) Equal(other any) bool {
	o, ok := other.(nanAware)
	if !ok {
		return false
	}
	if math.IsNaN(float64(f)) && math.IsNaN(float64(o)) {
		return true
	}
	return f == o
}

type version struct{ major, minor int }

func (v version) Equal(other any) bool {
	o, ok := other.(version)
	return ok && o.major == v.major
}

func TestIsEqual(t *testing.T) {
	t.Run("compares by value", func(t *testing.T) {
		assert.True(t, isEqual(nil, nil))
		assert.False(t, isEqual(nil, false))
		assert.True(t, isEqual([]byte("a"), []byte("a")))
		assert.True(t, isEqual([]string{"a"}, []string{"a"}))
		assert.False(t, isEqual([]string{"a", "b"}, []string{"b", "a"}))
		assert.False(t, isEqual(1, int64(1)))
	})

	t.Run("uses Equal when defined", func(t *testing.T) {
		assert.True(t, isEqual(version{1, 0}, version{1, 2}))
		assert.False(t, isEqual(version{1, 0}, version{2, 0}))
	})

	t.Run("NaN reads as changed unless Equal says otherwise", func(t *testing.T) {
		assert.False(t, isEqual(math.NaN(), math.NaN()))
		assert.False(t, isEqual([]float64{math.NaN()}, []float64{math.NaN()}))
		assert.True(t, isEqual(nanAware(math.NaN()), nanAware(math.NaN())))
		assert.False(t, isEqual(nanAware(math.NaN()), nanAware(1)))
	})
}

func TestPolicy(t *testing.T) {
	t.Run("parses names", func(t *testing.T) {
		for raw, want := range map[string]Policy{
			"":             PolicyAtLeastOne,
			"at-least-one": PolicyAtLeastOne,
			"Any":          PolicyAtLeastOne,
			"all":          PolicyAll,
		} {
			got, err := ParsePolicy(raw)
			assert.NoError(t, err, raw)
			assert.Equal(t, want, got, raw)
		}

		_, err := ParsePolicy("most")
		assert.Error(t, err)
	})

	t.Run("round trips as text", func(t *testing.T) {
		text, err := PolicyAll.MarshalText()
		require.NoError(t, err)

		var p Policy
		require.NoError(t, p.UnmarshalText(text))
		assert.Equal(t, PolicyAll, p)
	})
}
