package internal

import (
	"fmt"
	"weak"

	"github.com/google/uuid"
)

type refState int

const (
	refHeld refState = iota
	refReleased
	refConsumed
)

// Ref is one strong reference to a resource, held on one side of the boundary.
type Ref struct {
	res      *Resource
	boundary Boundary
	state    refState
}

func (r *Ref) Resource() *Resource { return r.res }
func (r *Ref) Boundary() Boundary  { return r.boundary }
func (r *Ref) ID() uuid.UUID       { return r.res.id }

func (r *Ref) liveLocked() bool {
	return r.state == refHeld && r.res.live
}

// Live reports whether this reference is still held and its resource not finalized.
func (r *Ref) Live() bool {
	r.res.adapter.mu.Lock()
	defer r.res.adapter.mu.Unlock()
	return r.liveLocked()
}

// Value returns the backing value, or nil and false once the reference or resource is gone.
func (r *Ref) Value() (any, bool) {
	r.res.adapter.mu.Lock()
	defer r.res.adapter.mu.Unlock()

	if !r.liveLocked() {
		return nil, false
	}
	return r.res.value, true
}

// Retain creates another strong reference held on b.
func (r *Ref) Retain(b Boundary) (*Ref, error) {
	a := r.res.adapter

	a.mu.Lock()
	defer a.mu.Unlock()

	if !r.liveLocked() {
		return nil, fmt.Errorf("retain %s %q: %w", r.res.kind, r.res.name, ErrNotLive)
	}

	r.res.counts[b]++
	return &Ref{res: r.res, boundary: b}, nil
}

// Release drops this reference. Releasing twice, or releasing a consumed reference, does nothing.
func (r *Ref) Release() {
	a := r.res.adapter

	a.mu.Lock()
	if r.state != refHeld {
		a.mu.Unlock()
		return
	}
	r.state = refReleased
	a.mu.Unlock()

	a.release(r.res, r.boundary)
}

// OnFinalize registers fn to run once when the resource dies.
func (r *Ref) OnFinalize(fn func()) error {
	a := r.res.adapter

	a.mu.Lock()
	defer a.mu.Unlock()

	if !r.liveLocked() {
		return fmt.Errorf("finalizer on %s %q: %w", r.res.kind, r.res.name, ErrNotLive)
	}

	r.res.cleanups = append(r.res.cleanups, fn)
	return nil
}

func (r *Ref) Weak() *WeakRef {
	return &WeakRef{
		ptr:     weak.Make(r.res),
		id:      r.res.id,
		adapter: r.res.adapter,
	}
}

// WeakRef observes a resource without extending its lifetime.
type WeakRef struct {
	ptr     weak.Pointer[Resource]
	id      uuid.UUID
	adapter *Adapter
}

func (w *WeakRef) ID() uuid.UUID { return w.id }

func (w *WeakRef) resourceLocked() *Resource {
	res := w.ptr.Value()
	if res == nil || !res.live {
		return nil
	}
	return res
}

func (w *WeakRef) Live() bool {
	w.adapter.mu.Lock()
	defer w.adapter.mu.Unlock()
	return w.resourceLocked() != nil
}

// Value returns the backing value, or nil and false once the resource died.
func (w *WeakRef) Value() (any, bool) {
	w.adapter.mu.Lock()
	defer w.adapter.mu.Unlock()

	res := w.resourceLocked()
	if res == nil {
		return nil, false
	}
	return res.value, true
}

// Upgrade returns a new strong reference held on b if the resource is still live.
func (w *WeakRef) Upgrade(b Boundary) (*Ref, bool) {
	w.adapter.mu.Lock()
	defer w.adapter.mu.Unlock()

	res := w.resourceLocked()
	if res == nil {
		return nil, false
	}

	res.counts[b]++
	return &Ref{res: res, boundary: b}, true
}

// Borrow is a view of a resource that is only valid during the call it was passed to.
type Borrow struct {
	res     *Resource
	expired bool
}

func (b *Borrow) ID() uuid.UUID { return b.res.id }

func (b *Borrow) Value() (any, bool) {
	b.res.adapter.mu.Lock()
	defer b.res.adapter.mu.Unlock()

	if b.expired || !b.res.live {
		return nil, false
	}
	return b.res.value, true
}

func (b *Borrow) Live() bool {
	_, ok := b.Value()
	return ok
}

func (b *Borrow) expire() {
	b.res.adapter.mu.Lock()
	defer b.res.adapter.mu.Unlock()
	b.expired = true
}
