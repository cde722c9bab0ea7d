package scene

import (
	"fmt"
	"slices"

	"github.com/AnatoleLucet/stagewatch"
)

// FieldDefault holds an attribute's default value.
const FieldDefault = "default"

// Prim is a path on a stage. It stays usable after the stage dies and then reads as invalid.
type Prim struct {
	stage *stagewatch.Weak[*stageData]
	path  Path
}

func (p Prim) Path() Path { return p.path }

func (p Prim) stageData() (*stageData, bool) {
	if p.stage == nil {
		return nil, false
	}
	return p.stage.Get()
}

// IsValid reports whether the stage is live and some layer of its stack has a spec for the prim.
func (p Prim) IsValid() bool {
	d, ok := p.stageData()
	if !ok || p.path.IsPropertyPath() {
		return false
	}
	return p.path.IsAbsoluteRoot() || d.hasSpec(p.path)
}

// Children merges the child prim names of the layer stack, strongest order first.
func (p Prim) Children() []string {
	names := []string{}

	d, ok := p.stageData()
	if !ok {
		return names
	}

	for _, layer := range d.layerStack() {
		sp, ok := layer.specs[p.path]
		if !ok {
			continue
		}
		for _, name := range sp.children {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

func (p Prim) Attribute(name string) Attribute {
	return Attribute{prim: p, path: p.path.AppendProperty(name)}
}

// CreateAttribute authors the attribute's spec on the stage's root layer.
func (p Prim) CreateAttribute(name string) (Attribute, error) {
	d, ok := p.stageData()
	if !ok {
		return Attribute{}, fmt.Errorf("prim %s: %w", p.path, stagewatch.ErrNotLive)
	}

	attr := p.Attribute(name)
	if err := (&Layer{d.root}).DefineProperty(attr.path); err != nil {
		return Attribute{}, err
	}
	return attr, nil
}

type Attribute struct {
	prim Prim
	path Path
}

func (a Attribute) Path() Path { return a.path }

// IsValid reports whether some layer of the stack has a spec for the attribute.
func (a Attribute) IsValid() bool {
	d, ok := a.prim.stageData()
	if !ok {
		return false
	}
	return d.hasSpec(a.path)
}

// Get returns the strongest default value.
func (a Attribute) Get() (any, bool) {
	d, ok := a.prim.stageData()
	if !ok {
		return nil, false
	}
	return d.resolve(a.path, FieldDefault)
}

// Set authors the default value on the root layer, creating the spec if needed.
func (a Attribute) Set(value any) error {
	d, ok := a.prim.stageData()
	if !ok {
		return fmt.Errorf("attribute %s: %w", a.path, stagewatch.ErrNotLive)
	}

	root := &Layer{d.root}
	if err := root.DefineProperty(a.path); err != nil {
		return err
	}
	return root.SetField(a.path, FieldDefault, value)
}
