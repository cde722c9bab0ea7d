package internal

import "github.com/rs/zerolog"

// Runtime bundles the registry and adapter handed out to callers that do not build their own.
type Runtime struct {
	registry *Registry
	adapter  *Adapter
}

func NewRuntime(logger zerolog.Logger) *Runtime {
	return &Runtime{
		registry: NewRegistry(PolicyAtLeastOne, logger),
		adapter:  NewAdapter(logger),
	}
}

func (r *Runtime) Registry() *Registry { return r.registry }
func (r *Runtime) Adapter() *Adapter   { return r.adapter }
