package internal

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource(t *testing.T) {
	t.Run("counts references per boundary", func(t *testing.T) {
		a := NewAdapter(zerolog.Nop())
		host := a.Create(KindStage, "stage", nil, BoundaryHost)

		native, err := host.Retain(BoundaryNative)
		require.NoError(t, err)

		assert.Equal(t, [2]int{1, 1}, host.Resource().counts)

		host.Release()
		assert.Equal(t, [2]int{0, 1}, native.Resource().counts)
		assert.True(t, native.Live())

		native.Release()
		assert.False(t, native.Resource().live)
	})

	t.Run("consuming moves the count across", func(t *testing.T) {
		a := NewAdapter(zerolog.Nop())
		host := a.Create(KindLayer, "layer", nil, BoundaryHost)
		extra, err := host.Retain(BoundaryHost)
		require.NoError(t, err)

		require.NoError(t, PassConsumed(host, BoundaryNative, func(moved *Ref) {
			assert.Equal(t, [2]int{1, 1}, moved.Resource().counts)
		}))

		assert.Equal(t, [2]int{1, 0}, extra.Resource().counts)
	})

	t.Run("disposes the subtree children first", func(t *testing.T) {
		log := []string{}

		a := NewAdapter(zerolog.Nop())
		stage := a.Create(KindStage, "stage", nil, BoundaryHost)
		require.NoError(t, stage.OnFinalize(func() { log = append(log, "stage") }))

		root, err := a.Derive(stage, KindLayer, "root", nil, BoundaryHost)
		require.NoError(t, err)
		require.NoError(t, root.OnFinalize(func() { log = append(log, "root") }))

		nested, err := a.Derive(root, KindLayer, "nested", nil, BoundaryHost)
		require.NoError(t, err)
		require.NoError(t, nested.OnFinalize(func() { log = append(log, "nested") }))

		assert.Same(t, stage.Resource(), root.Resource().Parent())

		stage.Release()

		assert.Equal(t, []string{"nested", "root", "stage"}, log)
		assert.Equal(t, 0, a.LiveCount())
	})

	t.Run("finalizers can release other resources", func(t *testing.T) {
		a := NewAdapter(zerolog.Nop())
		stage := a.Create(KindStage, "stage", nil, BoundaryHost)
		layer := a.Create(KindLayer, "layer", nil, BoundaryNative)

		require.NoError(t, stage.OnFinalize(layer.Release))

		stage.Release()
		assert.False(t, layer.Live())
		assert.Equal(t, 0, a.LiveCount())
	})

	t.Run("children unlink from their parent", func(t *testing.T) {
		a := NewAdapter(zerolog.Nop())
		stage := a.Create(KindStage, "stage", nil, BoundaryHost)

		first, err := a.Derive(stage, KindLayer, "first", nil, BoundaryHost)
		require.NoError(t, err)
		second, err := a.Derive(stage, KindLayer, "second", nil, BoundaryHost)
		require.NoError(t, err)

		stage.Resource().removeChild(second.Resource())

		names := []string{}
		for child := range stage.Resource().Children() {
			names = append(names, child.Name())
		}
		assert.Equal(t, []string{first.Resource().Name()}, names)
	})
}

func TestRuntime(t *testing.T) {
	t.Run("is created once per goroutine", func(t *testing.T) {
		DropRuntime()
		defer DropRuntime()

		r := GetRuntime()
		assert.Same(t, r, GetRuntime())
		assert.NotNil(t, r.Registry())
		assert.NotNil(t, r.Adapter())

		DropRuntime()
		assert.NotSame(t, r, GetRuntime())
	})
}
