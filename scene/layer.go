package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/AnatoleLucet/stagewatch"
)

var (
	ErrNoSpec  = errors.New("scene: no spec at path")
	ErrReorder = errors.New("scene: reordered names must match the current children")
)

type spec struct {
	fields map[string]any

	// ordered names of child prims, unused on property specs
	children []string
}

func newSpec() *spec {
	return &spec{fields: make(map[string]any)}
}

type layerData struct {
	identifier string
	specs      map[Path]*spec
}

func newLayerData(identifier string) *layerData {
	return &layerData{
		identifier: identifier,
		specs:      map[Path]*spec{AbsoluteRoot: newSpec()},
	}
}

// Layer is a handle to one layer of scene description.
// Every read on a layer that was finalized returns the empty value.
type Layer struct {
	handle *stagewatch.Strong[*layerData]
}

// NewLayer creates an anonymous layer owned by the returned handle.
func NewLayer(a *stagewatch.Adapter, identifier string) *Layer {
	return &Layer{stagewatch.CreateStrong(a, stagewatch.KindLayer, identifier, newLayerData(identifier))}
}

func (l *Layer) data() (*layerData, bool) {
	if l == nil || l.handle == nil {
		return nil, false
	}
	return l.handle.Get()
}

func (l *Layer) mutable() (*layerData, error) {
	d, ok := l.data()
	if !ok {
		return nil, fmt.Errorf("layer: %w", stagewatch.ErrNotLive)
	}
	return d, nil
}

func (l *Layer) IsValid() bool {
	_, ok := l.data()
	return ok
}

func (l *Layer) Identifier() string {
	if d, ok := l.data(); ok {
		return d.identifier
	}
	return ""
}

// Release drops this handle's reference.
func (l *Layer) Release() {
	if l != nil && l.handle != nil {
		l.handle.Release()
	}
}

// Retain returns another handle to the same layer.
func (l *Layer) Retain() (*Layer, error) {
	if l == nil || l.handle == nil {
		return nil, fmt.Errorf("layer: %w", stagewatch.ErrNotLive)
	}

	h, err := l.handle.Retain(stagewatch.Host)
	if err != nil {
		return nil, err
	}
	return &Layer{h}, nil
}

func (l *Layer) Weak() *WeakLayer {
	if l == nil || l.handle == nil {
		return &WeakLayer{}
	}
	return &WeakLayer{l.handle.Weak()}
}

func (l *Layer) HasSpec(p Path) bool {
	d, ok := l.data()
	if !ok {
		return false
	}
	_, ok = d.specs[p]
	return ok
}

// DefinePrim creates the prim spec at p and any missing ancestor.
func (l *Layer) DefinePrim(p Path) error {
	d, err := l.mutable()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("define prim: %w", err)
	}
	if p.IsAbsoluteRoot() || p.IsPropertyPath() {
		return fmt.Errorf("define prim %s: %w", p, ErrInvalidPath)
	}

	d.ensurePrim(p)
	return nil
}

func (d *layerData) ensurePrim(p Path) *spec {
	if s, ok := d.specs[p]; ok {
		return s
	}

	parent := d.specs[AbsoluteRoot]
	if !p.Parent().IsAbsoluteRoot() {
		parent = d.ensurePrim(p.Parent())
	}

	s := newSpec()
	d.specs[p] = s
	parent.children = append(parent.children, p.Name())

	return s
}

// DefineProperty creates the property spec at p, and its prim if needed.
func (l *Layer) DefineProperty(p Path) error {
	d, err := l.mutable()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("define property: %w", err)
	}
	if !p.IsPropertyPath() {
		return fmt.Errorf("define property %s: %w", p, ErrInvalidPath)
	}

	d.ensurePrim(p.PrimPath())
	if _, ok := d.specs[p]; !ok {
		d.specs[p] = newSpec()
	}
	return nil
}

// RemoveSpec removes the spec at p with every spec below it.
func (l *Layer) RemoveSpec(p Path) error {
	d, err := l.mutable()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if p.IsAbsoluteRoot() {
		return fmt.Errorf("remove %s: %w", p, ErrInvalidPath)
	}
	if _, ok := d.specs[p]; !ok {
		return fmt.Errorf("remove %s: %w", p, ErrNoSpec)
	}

	for path := range d.specs {
		if path.HasPrefix(p) {
			delete(d.specs, path)
		}
	}

	if !p.IsPropertyPath() {
		parent := d.specs[p.Parent()]
		parent.children = slices.DeleteFunc(parent.children, func(name string) bool {
			return name == p.Name()
		})
	}

	return nil
}

func (l *Layer) HasField(p Path, field string) bool {
	_, ok := l.Field(p, field)
	return ok
}

func (l *Layer) Field(p Path, field string) (any, bool) {
	d, ok := l.data()
	if !ok {
		return nil, false
	}

	s, ok := d.specs[p]
	if !ok {
		return nil, false
	}

	v, ok := s.fields[field]
	return v, ok
}

// SetField authors field on the spec at p. The spec must exist, except on the pseudo-root.
func (l *Layer) SetField(p Path, field string, value any) error {
	d, err := l.mutable()
	if err != nil {
		return err
	}

	s, ok := d.specs[p]
	if !ok {
		return fmt.Errorf("set %s on %s: %w", field, p, ErrNoSpec)
	}

	s.fields[field] = value
	return nil
}

func (l *Layer) ClearField(p Path, field string) error {
	d, err := l.mutable()
	if err != nil {
		return err
	}

	if s, ok := d.specs[p]; ok {
		delete(s.fields, field)
	}
	return nil
}

// RootPrims returns the names of the root prims in authored order.
func (l *Layer) RootPrims() []string {
	return l.Children(AbsoluteRoot)
}

func (l *Layer) Children(p Path) []string {
	d, ok := l.data()
	if !ok {
		return []string{}
	}

	s, ok := d.specs[p]
	if !ok {
		return []string{}
	}
	return slices.Clone(s.children)
}

// SetRootPrims reorders the root prims. names must be a permutation of the current ones.
func (l *Layer) SetRootPrims(names []string) error {
	d, err := l.mutable()
	if err != nil {
		return err
	}

	root := d.specs[AbsoluteRoot]

	current := slices.Clone(root.children)
	wanted := slices.Clone(names)
	slices.Sort(current)
	slices.Sort(wanted)
	if !slices.Equal(current, wanted) {
		return fmt.Errorf("reorder root prims %v: %w", names, ErrReorder)
	}

	root.children = slices.Clone(names)
	return nil
}

// WeakLayer refers to a layer without keeping it alive.
type WeakLayer struct {
	handle *stagewatch.Weak[*layerData]
}

func (w *WeakLayer) IsValid() bool {
	return w.handle != nil && w.handle.Live()
}

// Layer returns a new strong handle while the layer is live. The caller releases it.
func (w *WeakLayer) Layer() (*Layer, bool) {
	if w.handle == nil {
		return nil, false
	}

	h, ok := w.handle.Upgrade(stagewatch.Host)
	if !ok {
		return nil, false
	}
	return &Layer{h}, true
}
