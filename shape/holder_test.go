package shape_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semshape/shape"
	"github.com/c360studio/semshape/shape/shapetest"
)

// switchableProvider returns whatever sources were last assigned.
type switchableProvider struct {
	mu      sync.Mutex
	sources []shape.Source
	err     error
}

func (p *switchableProvider) set(err error, sources ...shape.Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources, p.err = sources, err
}

func (p *switchableProvider) provide() ([]shape.Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sources, p.err
}

func TestHolder_ReloadSwapsRegistry(t *testing.T) {
	p := &switchableProvider{}
	p.set(nil, shapetest.PersonSource())

	h, err := shape.NewHolder(p.provide, nil)
	require.NoError(t, err)
	first := h.Registry()
	assert.False(t, first.HasType("Employee"))

	var notified atomic.Int32
	h.OnChange(func(reg *shape.Registry) {
		notified.Add(1)
		assert.True(t, reg.HasType("Employee"))
	})

	p.set(nil, shapetest.Sources()...)
	reg, err := h.Reload()
	require.NoError(t, err)

	assert.Same(t, reg, h.Registry())
	assert.NotEqual(t, first.Generation(), reg.Generation())
	assert.True(t, h.Registry().HasType("Employee"))
	assert.Equal(t, int32(1), notified.Load())

	// The old snapshot is untouched.
	assert.False(t, first.HasType("Employee"))
}

func TestHolder_ListenerMayReload(t *testing.T) {
	h, err := shape.NewStaticHolder(shapetest.Sources()...)
	require.NoError(t, err)

	var calls, lateCalls atomic.Int32
	var nested *shape.Registry
	h.OnChange(func(*shape.Registry) {
		if calls.Add(1) > 1 {
			return
		}
		h.OnChange(func(*shape.Registry) { lateCalls.Add(1) })
		reg, err := h.Reload()
		assert.NoError(t, err)
		nested = reg
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := h.Reload()
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reload from a change listener deadlocked")
	}

	require.NotNil(t, nested)
	assert.Same(t, nested, h.Registry())
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), lateCalls.Load())
}

func TestHolder_FailedReloadKeepsPrevious(t *testing.T) {
	p := &switchableProvider{}
	p.set(nil, shapetest.Sources()...)

	h, err := shape.NewHolder(p.provide, nil)
	require.NoError(t, err)
	before := h.Registry()

	h.OnChange(func(*shape.Registry) {
		t.Error("listener must not run after a failed reload")
	})

	broken := shape.NewStaticSource("broken.yaml", shape.Document{
		Shapes: []shape.ShapeDecl{{
			ID:         "BrokenShape",
			Properties: []shape.PropertyDecl{{Path: "x", Node: "MissingShape"}},
		}},
	})
	p.set(nil, broken)
	_, err = h.Reload()
	require.Error(t, err)
	var loadErr *shape.ShapeLoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Same(t, before, h.Registry())

	boom := errors.New("disk gone")
	p.set(boom)
	_, err = h.Reload()
	assert.ErrorIs(t, err, boom)
	assert.Same(t, before, h.Registry())
}

func TestHolder_InitialLoadFailure(t *testing.T) {
	_, err := shape.NewHolder(func() ([]shape.Source, error) {
		return nil, errors.New("no sources")
	}, nil)
	assert.Error(t, err)

	_, err = shape.NewHolder(nil, nil)
	assert.Error(t, err)
}

func TestHolder_ConcurrentReadsDuringReload(t *testing.T) {
	h, err := shape.NewStaticHolder(shapetest.Sources()...)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				tmpl, err := h.Synthesize("Person", false)
				if err != nil {
					t.Error(err)
					return
				}
				if v, _ := tmpl.Get("type"); v != "Person" {
					t.Errorf("type = %v", v)
					return
				}
			}
		}()
	}
	for range 10 {
		_, err := h.Reload()
		require.NoError(t, err)
	}
	wg.Wait()
}
