package shape

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// SourceProvider resolves the current set of sources. It is called on every
// reload so that added or removed documents are picked up.
type SourceProvider func() ([]Source, error)

// Holder publishes the current registry to concurrent readers. Reloads build
// a fresh registry and swap it in only when loading succeeds.
type Holder struct {
	current  atomic.Pointer[Registry]
	provider SourceProvider
	logger   *slog.Logger

	// mu serializes registry builds and guards onChange. Listeners run
	// after it is released.
	mu       sync.Mutex
	onChange []func(*Registry)
}

// NewHolder loads the initial registry from provider.
func NewHolder(provider SourceProvider, logger *slog.Logger) (*Holder, error) {
	if provider == nil {
		return nil, fmt.Errorf("source provider required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &Holder{provider: provider, logger: logger}
	reg, err := h.build()
	if err != nil {
		return nil, err
	}
	h.current.Store(reg)
	logger.Debug("Shape registry loaded",
		"generation", reg.Generation(),
		"types", len(reg.types),
		"sources", len(reg.sources))
	return h, nil
}

// NewStaticHolder loads a holder over a fixed set of sources.
func NewStaticHolder(sources ...Source) (*Holder, error) {
	return NewHolder(func() ([]Source, error) { return sources, nil }, nil)
}

// Registry returns the currently published registry.
func (h *Holder) Registry() *Registry {
	return h.current.Load()
}

// Synthesize runs synthesis against the current registry snapshot.
func (h *Holder) Synthesize(typeName string, mandatoryOnly bool) (*Template, error) {
	return NewSynthesizer(h.Registry()).Synthesize(typeName, mandatoryOnly)
}

// Reload rebuilds the registry. On failure the previous registry stays
// published and the error is returned.
//
// Listeners registered with OnChange are called after the new registry is
// published and without the holder's lock held, so they may call Reload or
// OnChange themselves. A listener is skipped for a registry that a later
// reload has already replaced.
func (h *Holder) Reload() (*Registry, error) {
	h.mu.Lock()
	reg, err := h.build()
	if err != nil {
		h.mu.Unlock()
		h.logger.Warn("Shape registry reload failed, keeping previous registry",
			"generation", h.Registry().Generation(),
			"error", err)
		return nil, err
	}

	old := h.current.Swap(reg)
	listeners := slices.Clone(h.onChange)
	h.mu.Unlock()

	h.logger.Info("Shape registry reloaded",
		"old_generation", old.Generation(),
		"generation", reg.Generation(),
		"types", len(reg.types))

	for _, fn := range listeners {
		if h.current.Load() != reg {
			break
		}
		fn(reg)
	}
	return reg, nil
}

// OnChange registers fn to run after each successful reload.
func (h *Holder) OnChange(fn func(*Registry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

func (h *Holder) build() (*Registry, error) {
	sources, err := h.provider()
	if err != nil {
		return nil, fmt.Errorf("resolve shape sources: %w", err)
	}
	return Load(sources...)
}
