package internal

import (
	"iter"

	"github.com/google/uuid"
)

type Boundary int

const (
	BoundaryHost Boundary = iota
	BoundaryNative
)

func (b Boundary) String() string {
	if b == BoundaryNative {
		return "native"
	}
	return "host"
}

type Kind int

const (
	KindStage Kind = iota
	KindLayer
)

func (k Kind) String() string {
	if k == KindLayer {
		return "layer"
	}
	return "stage"
}

// Resource is the backing store shared by every reference to one managed object.
type Resource struct {
	id   uuid.UUID
	kind Kind
	name string

	value any
	live  bool

	// strong references held on each side of the boundary
	counts [2]int

	// finalizers run once when the resource dies
	cleanups []func()

	// the resource whose lifetime bounds this one, nil for roots
	parent       *Resource
	prevSibling  *Resource
	nextSibling  *Resource
	childrenHead *Resource

	adapter *Adapter
}

func (res *Resource) ID() uuid.UUID { return res.id }
func (res *Resource) Kind() Kind    { return res.kind }
func (res *Resource) Name() string  { return res.name }
func (res *Resource) Parent() *Resource {
	return res.parent
}

func (res *Resource) Adapter() *Adapter {
	return res.adapter
}

func (res *Resource) strongCount() int {
	return res.counts[BoundaryHost] + res.counts[BoundaryNative]
}

func (parent *Resource) addChild(child *Resource) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (parent *Resource) removeChild(child *Resource) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if parent.childrenHead == child {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.prevSibling = nil
	child.nextSibling = nil
}

func (res *Resource) Children() iter.Seq[*Resource] {
	return func(yield func(*Resource) bool) {
		child := res.childrenHead

		for child != nil {
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

// finalize marks the resource and its whole subtree dead, children first,
// and returns the finalizers to run in order. Callers hold the adapter lock.
func (res *Resource) finalize(cleanups []func()) []func() {
	if !res.live {
		return cleanups
	}
	res.live = false

	for child := range res.Children() {
		cleanups = child.finalize(cleanups)
	}
	res.childrenHead = nil

	if res.parent != nil {
		res.parent.removeChild(res)
	}

	cleanups = append(cleanups, res.cleanups...)
	res.cleanups = nil
	res.value = nil

	return cleanups
}
