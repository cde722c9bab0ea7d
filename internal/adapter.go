package internal

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Adapter owns the bookkeeping of every resource created through it.
// All resources of one adapter share its lock.
type Adapter struct {
	mu sync.Mutex

	live map[uuid.UUID]*Resource

	logger zerolog.Logger
}

func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{
		live:   make(map[uuid.UUID]*Resource),
		logger: logger.With().Str("component", "adapter").Logger(),
	}
}

func (a *Adapter) SetLogger(logger zerolog.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = logger.With().Str("component", "adapter").Logger()
}

// LiveCount returns how many resources of this adapter are still live.
func (a *Adapter) LiveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Create allocates a root resource and returns the first strong reference to it, held on b.
func (a *Adapter) Create(kind Kind, name string, value any, b Boundary) *Ref {
	res := &Resource{
		id:      uuid.New(),
		kind:    kind,
		name:    name,
		value:   value,
		live:    true,
		adapter: a,
	}
	res.counts[b] = 1

	a.mu.Lock()
	a.live[res.id] = res
	logger := a.logger
	a.mu.Unlock()

	logger.Debug().
		Stringer("id", res.id).
		Stringer("kind", kind).
		Str("name", name).
		Stringer("boundary", b).
		Msg("created resource")

	return &Ref{res: res, boundary: b}
}

// Derive allocates a resource whose lifetime is bounded by parent's.
// References to the child never keep the parent alive.
func (a *Adapter) Derive(parent *Ref, kind Kind, name string, value any, b Boundary) (*Ref, error) {
	a.mu.Lock()
	if !parent.liveLocked() {
		a.mu.Unlock()
		return nil, fmt.Errorf("derive %s %q: %w", kind, name, ErrNotLive)
	}

	res := &Resource{
		id:      uuid.New(),
		kind:    kind,
		name:    name,
		value:   value,
		live:    true,
		adapter: a,
	}
	res.counts[b] = 1
	parent.res.addChild(res)
	a.live[res.id] = res
	logger := a.logger
	a.mu.Unlock()

	logger.Debug().
		Stringer("id", res.id).
		Stringer("parent", parent.res.id).
		Stringer("kind", kind).
		Str("name", name).
		Msg("derived resource")

	return &Ref{res: res, boundary: b}, nil
}

// release drops one strong count and finalizes the resource when it was the last one.
// Resources with a parent are only finalized through their parent.
func (a *Adapter) release(res *Resource, b Boundary) {
	a.mu.Lock()
	res.counts[b]--

	if !res.live || res.parent != nil || res.strongCount() > 0 {
		a.mu.Unlock()
		return
	}

	cleanups, dead := a.finalizeLocked(res)
	logger := a.logger
	a.mu.Unlock()

	for _, res := range dead {
		logger.Debug().Stringer("id", res.id).Stringer("kind", res.kind).Str("name", res.name).Msg("finalized resource")
	}

	for _, cleanup := range cleanups {
		cleanup()
	}
}

func (a *Adapter) finalizeLocked(res *Resource) ([]func(), []*Resource) {
	cleanups := res.finalize(nil)

	var dead []*Resource
	for id, r := range a.live {
		if !r.live {
			dead = append(dead, r)
			delete(a.live, id)
		}
	}

	return cleanups, dead
}

// PassStrong hands fn a strong reference retained on the callee's boundary for the duration of the call.
// Unless fn retains it, the reference counts are back where they were once PassStrong returns.
func PassStrong(r *Ref, to Boundary, fn func(*Ref)) error {
	callee, err := r.Retain(to)
	if err != nil {
		return err
	}
	defer callee.Release()

	fn(callee)

	return nil
}

// PassWeak derives a non-owning handle from r.
func PassWeak(r *Ref) *WeakRef {
	return r.Weak()
}

// PassBorrowed lets fn use the resource without touching its reference counts.
// The borrow expires when fn returns.
func PassBorrowed(r *Ref, fn func(*Borrow)) error {
	if !r.Live() {
		return fmt.Errorf("borrow: %w", ErrNotLive)
	}

	b := &Borrow{res: r.res}
	defer b.expire()

	fn(b)

	return nil
}

// PassConsumed moves r's ownership to a reference held on the callee's boundary.
// r is invalid before fn runs, and the moved reference is released after fn returns.
func PassConsumed(r *Ref, to Boundary, fn func(*Ref)) error {
	a := r.res.adapter

	a.mu.Lock()
	if !r.liveLocked() {
		a.mu.Unlock()
		return fmt.Errorf("consume: %w", ErrNotLive)
	}

	r.state = refConsumed
	r.res.counts[r.boundary]--
	r.res.counts[to]++
	moved := &Ref{res: r.res, boundary: to}
	logger := a.logger
	a.mu.Unlock()

	logger.Debug().Stringer("id", r.res.id).Stringer("from", r.boundary).Stringer("to", to).Msg("consumed reference")

	defer moved.Release()

	fn(moved)

	return nil
}
