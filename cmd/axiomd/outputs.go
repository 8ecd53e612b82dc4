package main

import (
	"fmt"
	"sync"

	"axiom.land/axiom/internal/control"
	"axiom.land/axiom/internal/protocol"
)

// outputRegistry is the live output topology the control socket (C10)
// mutates and the presenter (C3) reconciles against each tick. It
// implements control.Mutator directly; cmd/axiomd is the one component
// that needs to know both what a control command means and what the
// presenter needs, so it's the natural owner rather than either package
// depending on the other.
type outputRegistry struct {
	mu      sync.Mutex
	outputs []*protocol.Output
}

func newOutputRegistry() *outputRegistry {
	return &outputRegistry{}
}

// AddOutput implements control.Mutator.
func (r *outputRegistry) AddOutput(spec control.OutputSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := fmt.Sprintf("axiom-%d", len(r.outputs))
	o := protocol.NewOutput(name, spec.Width, spec.Height, 60_000)
	o.Scale = spec.Scale
	o.X, o.Y = spec.X, spec.Y
	r.outputs = append(r.outputs, o)
	return nil
}

// RemoveOutput implements control.Mutator.
func (r *outputRegistry) RemoveOutput(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.outputs) {
		return fmt.Errorf("output index %d out of range (%d outputs)", index, len(r.outputs))
	}
	r.outputs = append(r.outputs[:index], r.outputs[index+1:]...)
	return nil
}

// Snapshot returns the current output list for the presenter to
// reconcile against. The returned slice is a shallow copy of the
// pointer slice (the *protocol.Output values themselves are shared and
// read-mostly once added).
func (r *outputRegistry) Snapshot() []*protocol.Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*protocol.Output, len(r.outputs))
	copy(out, r.outputs)
	return out
}

// seedFromFlag parses the --outputs flag's "WxH@S+X,Y[;...]" value
// through the same grammar the control socket accepts, so the initial
// topology and a runtime `add` command share one parser.
func (r *outputRegistry) seedFromFlag(flag string) error {
	if flag == "" {
		return nil
	}
	cmd, err := control.ParseCommand("add " + flag)
	if err != nil {
		return fmt.Errorf("--outputs: %w", err)
	}
	for _, spec := range cmd.Outputs {
		if err := r.AddOutput(spec); err != nil {
			return err
		}
	}
	return nil
}
