package internal

type State int

const (
	StatePending State = iota
	StateChecked
)

func (s State) String() string {
	if s == StateChecked {
		return "checked"
	}
	return "pending"
}

// Observation is one registered read of a derived value.
// Its baseline is captured when it is registered and it is compared exactly once.
type Observation struct {
	id    uint64
	label string

	query    func() any
	baseline any

	state    State
	registry *Registry
}

func (o *Observation) ID() uint64         { return o.id }
func (o *Observation) Label() string      { return o.label }
func (o *Observation) SetLabel(l string)  { o.label = l }
func (o *Observation) Baseline() any      { return o.baseline }
func (o *Observation) State() State       { return o.state }
func (o *Observation) Registry() *Registry { return o.registry }

// Evaluate runs the query against the current store state without checking the observation.
func (o *Observation) Evaluate() any {
	return o.query()
}
