package internal

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type Registry struct {
	mu sync.Mutex

	// incremented for each registered observation, ids start at 1
	clock uint64

	pending map[uint64]*Observation

	policy Policy
	logger zerolog.Logger
}

func NewRegistry(policy Policy, logger zerolog.Logger) *Registry {
	return &Registry{
		pending: make(map[uint64]*Observation),
		policy:  policy,
		logger:  logger.With().Str("component", "registry").Logger(),
	}
}

func (r *Registry) Policy() Policy { return r.policy }

func (r *Registry) SetPolicy(p Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy = p
}

func (r *Registry) SetLogger(logger zerolog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger.With().Str("component", "registry").Logger()
}

// Register evaluates query once and records the result as the observation's baseline.
// A panicking query propagates and nothing is registered.
func (r *Registry) Register(query func() any) *Observation {
	baseline := query()

	r.mu.Lock()
	r.clock++
	obs := &Observation{
		id:       r.clock,
		query:    query,
		baseline: baseline,
		state:    StatePending,
		registry: r,
	}
	r.pending[obs.id] = obs
	logger := r.logger
	r.mu.Unlock()

	logger.Debug().Uint64("token", obs.id).Msg("registered observation")

	return obs
}

// PendingCount returns how many observations were registered but never checked.
func (r *Registry) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Reset forgets every pending observation. Dropped observations can no longer be checked.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, obs := range r.pending {
		obs.state = StateChecked
	}
	r.pending = make(map[uint64]*Observation)
}

// Expect runs action, then re-evaluates every observation against its baseline.
// If action fails, no observation is evaluated and all of them stay pending.
func (r *Registry) Expect(batch []*Observation, action func() error) (*Report, error) {
	if err := r.validate(batch); err != nil {
		return nil, err
	}

	if err := action(); err != nil {
		return nil, err
	}

	report := &Report{Policy: r.policy}
	for _, obs := range batch {
		after := obs.query()

		report.Entries = append(report.Entries, Entry{
			ID:      obs.id,
			Label:   obs.label,
			Before:  obs.baseline,
			After:   after,
			Changed: !isEqual(obs.baseline, after),
		})
	}

	r.mu.Lock()
	for _, obs := range batch {
		obs.state = StateChecked
		delete(r.pending, obs.id)
	}
	logger := r.logger
	r.mu.Unlock()

	logger.Debug().
		Int("tokens", len(batch)).
		Int("changed", report.ChangedCount()).
		Msg("checked batch")

	return report, nil
}

func (r *Registry) validate(batch []*Observation) error {
	if len(batch) == 0 {
		return ErrNoTokens
	}

	seen := make(map[uint64]bool, len(batch))
	for _, obs := range batch {
		if obs.registry != r {
			return fmt.Errorf("token %d: %w", obs.id, ErrForeignToken)
		}
		if obs.state == StateChecked || seen[obs.id] {
			return fmt.Errorf("token %d: %w", obs.id, ErrAlreadyChecked)
		}
		seen[obs.id] = true
	}

	return nil
}
