package simulation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fadedpez/aceshigh/internal/types"
	"github.com/fadedpez/aceshigh/pkg/entities"
)

// Registry maps mode names to samplers
type Registry struct {
	samplers map[entities.Mode]Sampler
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		samplers: make(map[entities.Mode]Sampler),
	}
}

// DefaultRegistry creates a registry holding every built in mode
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []Sampler{
		CribbageSampler{},
		CribCollectSampler{},
		NewPokerSampler(),
		NewPoker7Sampler(),
	} {
		// Built in modes are distinct, so registration cannot fail
		_ = r.Register(s)
	}
	return r
}

// Register adds a sampler under its mode name
func (r *Registry) Register(sampler Sampler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mode := sampler.Mode()
	if _, exists := r.samplers[mode]; exists {
		return types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("Mode %s is already registered", mode))
	}

	r.samplers[mode] = sampler
	return nil
}

// Get returns the sampler for a mode
func (r *Registry) Get(mode entities.Mode) (Sampler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sampler, exists := r.samplers[mode]
	if !exists {
		return nil, types.NewGameError(types.ErrInvalidMode, fmt.Sprintf("Mode %s not found", mode))
	}

	return sampler, nil
}

// Modes returns the registered mode names in sorted order
func (r *Registry) Modes() []entities.Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modes := make([]entities.Mode, 0, len(r.samplers))
	for mode := range r.samplers {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}
