package stagewatch

import (
	"github.com/AnatoleLucet/stagewatch/internal"
	"github.com/google/uuid"
)

type (
	Boundary = internal.Boundary
	Kind     = internal.Kind
)

const (
	// Host is the side that creates and inspects resources.
	Host = internal.BoundaryHost
	// Native is the side that backs them.
	Native = internal.BoundaryNative

	KindStage = internal.KindStage
	KindLayer = internal.KindLayer
)

type Adapter struct {
	adapter *internal.Adapter
}

// NewAdapter creates an adapter that tracks every resource created through it.
// Only the logger of the options is used.
func NewAdapter(opts ...Option) *Adapter {
	o := buildOptions(opts)
	return &Adapter{internal.NewAdapter(o.logger)}
}

// DefaultAdapter returns the adapter bound to the calling goroutine.
// Only the logger of the options is used, and only when options are given.
func DefaultAdapter(opts ...Option) *Adapter {
	adapter := internal.GetRuntime().Adapter()

	if len(opts) > 0 {
		adapter.SetLogger(buildOptions(opts).logger)
	}

	return &Adapter{adapter}
}

// LiveCount returns how many resources are still live. Zero means nothing leaked.
func (a *Adapter) LiveCount() int { return a.adapter.LiveCount() }

// Strong keeps its resource alive until released.
type Strong[T any] struct {
	ref *internal.Ref
}

// CreateStrong allocates a resource holding value and returns the host's strong reference to it.
func CreateStrong[T any](a *Adapter, kind Kind, name string, value T) *Strong[T] {
	return &Strong[T]{a.adapter.Create(kind, name, value, internal.BoundaryHost)}
}

// DeriveChild allocates a resource owned by parent. The child dies with its parent
// no matter how many references to the child are still held.
func DeriveChild[T, P any](parent *Strong[P], kind Kind, name string, value T) (*Strong[T], error) {
	ref, err := parent.ref.Resource().Adapter().Derive(parent.ref, kind, name, value, internal.BoundaryHost)
	if err != nil {
		return nil, err
	}
	return &Strong[T]{ref}, nil
}

func (s *Strong[T]) ID() uuid.UUID              { return s.ref.ID() }
func (s *Strong[T]) Boundary() Boundary         { return s.ref.Boundary() }
func (s *Strong[T]) Name() string               { return s.ref.Resource().Name() }
func (s *Strong[T]) Kind() Kind                 { return s.ref.Resource().Kind() }
func (s *Strong[T]) Live() bool                 { return s.ref.Live() }
func (s *Strong[T]) Release()                   { s.ref.Release() }
func (s *Strong[T]) Weak() *Weak[T]             { return &Weak[T]{s.ref.Weak()} }
func (s *Strong[T]) OnFinalize(fn func()) error { return s.ref.OnFinalize(fn) }

// Get returns the resource's value, or the zero value and false once it is gone.
func (s *Strong[T]) Get() (T, bool) {
	v, ok := s.ref.Value()
	return as[T](v), ok
}

// Retain returns another strong reference held on b.
func (s *Strong[T]) Retain(b Boundary) (*Strong[T], error) {
	ref, err := s.ref.Retain(b)
	if err != nil {
		return nil, err
	}
	return &Strong[T]{ref}, nil
}

// Weak observes a resource without keeping it alive.
type Weak[T any] struct {
	ref *internal.WeakRef
}

func (w *Weak[T]) ID() uuid.UUID { return w.ref.ID() }
func (w *Weak[T]) Live() bool    { return w.ref.Live() }

// Get returns the resource's value, or the zero value and false once it died.
func (w *Weak[T]) Get() (T, bool) {
	v, ok := w.ref.Value()
	return as[T](v), ok
}

// Upgrade returns a new strong reference held on b while the resource is live.
func (w *Weak[T]) Upgrade(b Boundary) (*Strong[T], bool) {
	ref, ok := w.ref.Upgrade(b)
	if !ok {
		return nil, false
	}
	return &Strong[T]{ref}, true
}

// Borrowed is only valid inside the call it was passed to.
type Borrowed[T any] struct {
	borrow *internal.Borrow
}

func (b *Borrowed[T]) ID() uuid.UUID { return b.borrow.ID() }
func (b *Borrowed[T]) Live() bool    { return b.borrow.Live() }

func (b *Borrowed[T]) Get() (T, bool) {
	v, ok := b.borrow.Value()
	return as[T](v), ok
}

// PassStrong calls fn with a strong reference retained on the callee's side.
// The reference is released when fn returns, so fn must Retain it to keep it.
func PassStrong[T any](s *Strong[T], to Boundary, fn func(*Strong[T])) error {
	return internal.PassStrong(s.ref, to, func(ref *internal.Ref) {
		fn(&Strong[T]{ref})
	})
}

// PassWeak derives a weak handle from s.
func PassWeak[T any](s *Strong[T]) *Weak[T] {
	return &Weak[T]{internal.PassWeak(s.ref)}
}

// PassBorrowed lets fn use the resource without affecting its lifetime.
func PassBorrowed[T any](s *Strong[T], fn func(*Borrowed[T])) error {
	return internal.PassBorrowed(s.ref, func(b *internal.Borrow) {
		fn(&Borrowed[T]{b})
	})
}

// PassConsumed gives the callee the caller's ownership. s must not be used afterwards.
func PassConsumed[T any](s *Strong[T], to Boundary, fn func(*Strong[T])) error {
	return internal.PassConsumed(s.ref, to, func(ref *internal.Ref) {
		fn(&Strong[T]{ref})
	})
}
