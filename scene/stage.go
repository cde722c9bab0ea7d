package scene

import (
	"fmt"
	"slices"

	"github.com/AnatoleLucet/stagewatch"
)

const FieldStartTimeCode = "startTimeCode"

type stageData struct {
	identifier string

	// owned by the stage, dies with it
	root *stagewatch.Strong[*layerData]

	// retained on the native side until the stage dies
	sublayers []*stagewatch.Strong[*layerData]
}

// Stage composes a root layer it owns with sublayers it retains.
type Stage struct {
	handle *stagewatch.Strong[*stageData]
}

// NewStage creates a stage with a fresh root layer. The root layer's lifetime is the stage's.
func NewStage(a *stagewatch.Adapter, identifier string) *Stage {
	data := &stageData{identifier: identifier}
	handle := stagewatch.CreateStrong(a, stagewatch.KindStage, identifier, data)

	root, err := stagewatch.DeriveChild(handle, stagewatch.KindLayer, identifier+".root", newLayerData(identifier+".root"))
	if err != nil {
		// the stage was created above and cannot be dead yet
		panic(err)
	}
	data.root = root

	_ = handle.OnFinalize(func() {
		for _, sub := range data.sublayers {
			sub.Release()
		}
		data.sublayers = nil
	})

	return &Stage{handle}
}

func (s *Stage) data() (*stageData, bool) {
	if s == nil || s.handle == nil {
		return nil, false
	}
	return s.handle.Get()
}

func (s *Stage) IsValid() bool {
	_, ok := s.data()
	return ok
}

func (s *Stage) Identifier() string {
	if d, ok := s.data(); ok {
		return d.identifier
	}
	return ""
}

// Release drops this handle's reference. The last release finalizes the stage and its root layer.
func (s *Stage) Release() {
	if s != nil && s.handle != nil {
		s.handle.Release()
	}
}

// Retain returns another handle to the same stage, held on b.
func (s *Stage) Retain(b stagewatch.Boundary) (*Stage, error) {
	if s == nil || s.handle == nil {
		return nil, fmt.Errorf("stage: %w", stagewatch.ErrNotLive)
	}

	h, err := s.handle.Retain(b)
	if err != nil {
		return nil, err
	}
	return &Stage{h}, nil
}

// RootLayer returns a handle to the stage's root layer.
// It reads as empty once the stage is gone, even if the handle was never released.
func (s *Stage) RootLayer() *Layer {
	d, ok := s.data()
	if !ok {
		return &Layer{}
	}

	h, err := d.root.Retain(stagewatch.Host)
	if err != nil {
		return &Layer{}
	}
	return &Layer{h}
}

// InsertSublayer appends l to the stage's layer stack, weaker than every layer already in it.
func (s *Stage) InsertSublayer(l *Layer) error {
	d, ok := s.data()
	if !ok {
		return fmt.Errorf("stage: %w", stagewatch.ErrNotLive)
	}
	if l == nil || l.handle == nil {
		return fmt.Errorf("sublayer: %w", stagewatch.ErrNotLive)
	}

	h, err := l.handle.Retain(stagewatch.Native)
	if err != nil {
		return err
	}
	d.sublayers = append(d.sublayers, h)

	return nil
}

// RemoveSublayer drops the stage's reference to the sublayer with the given identifier.
func (s *Stage) RemoveSublayer(identifier string) bool {
	d, ok := s.data()
	if !ok {
		return false
	}

	for i, sub := range d.sublayers {
		if data, ok := sub.Get(); ok && data.identifier == identifier {
			sub.Release()
			d.sublayers = slices.Delete(d.sublayers, i, i+1)
			return true
		}
	}
	return false
}

// Sublayers lists the identifiers of the live sublayers, strongest first.
func (s *Stage) Sublayers() []string {
	ids := []string{}

	d, ok := s.data()
	if !ok {
		return ids
	}

	for _, sub := range d.sublayers {
		if data, ok := sub.Get(); ok {
			ids = append(ids, data.identifier)
		}
	}
	return ids
}

// layerStack returns the live layers, strongest first.
func (d *stageData) layerStack() []*layerData {
	var stack []*layerData
	if root, ok := d.root.Get(); ok {
		stack = append(stack, root)
	}
	for _, sub := range d.sublayers {
		if data, ok := sub.Get(); ok {
			stack = append(stack, data)
		}
	}
	return stack
}

// resolve returns the strongest opinion for field on p.
func (d *stageData) resolve(p Path, field string) (any, bool) {
	for _, layer := range d.layerStack() {
		if sp, ok := layer.specs[p]; ok {
			if v, ok := sp.fields[field]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

func (d *stageData) hasSpec(p Path) bool {
	for _, layer := range d.layerStack() {
		if _, ok := layer.specs[p]; ok {
			return true
		}
	}
	return false
}

func (s *Stage) resolve(p Path, field string) (any, bool) {
	d, ok := s.data()
	if !ok {
		return nil, false
	}
	return d.resolve(p, field)
}

// editTarget wraps the root layer without taking a reference.
func (s *Stage) editTarget() *Layer {
	d, ok := s.data()
	if !ok {
		return &Layer{}
	}
	return &Layer{d.root}
}

// StartTimeCode is the strongest authored start time code, 0 when none is.
func (s *Stage) StartTimeCode() float64 {
	v, ok := s.resolve(AbsoluteRoot, FieldStartTimeCode)
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return f
}

func (s *Stage) HasAuthoredStartTimeCode() bool {
	_, ok := s.resolve(AbsoluteRoot, FieldStartTimeCode)
	return ok
}

func (s *Stage) SetStartTimeCode(t float64) error {
	return s.editTarget().SetField(AbsoluteRoot, FieldStartTimeCode, t)
}

// RootPrims merges the root prim names of the layer stack, strongest order first.
func (s *Stage) RootPrims() []string {
	names := []string{}

	d, ok := s.data()
	if !ok {
		return names
	}

	for _, layer := range d.layerStack() {
		for _, name := range layer.specs[AbsoluteRoot].children {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

// DefinePrim authors a prim on the root layer.
func (s *Stage) DefinePrim(p Path) (Prim, error) {
	if err := s.editTarget().DefinePrim(p); err != nil {
		return Prim{}, err
	}
	return s.GetPrimAtPath(p), nil
}

// RemovePrim removes the root layer's opinions for p. Sublayer opinions still compose.
func (s *Stage) RemovePrim(p Path) error {
	return s.editTarget().RemoveSpec(p)
}

// GetPrimAtPath returns a prim handle. The handle does not keep the stage alive.
func (s *Stage) GetPrimAtPath(p Path) Prim {
	if s == nil || s.handle == nil {
		return Prim{path: p}
	}
	return Prim{stage: s.handle.Weak(), path: p}
}
