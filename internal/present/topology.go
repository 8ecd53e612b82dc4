package present

import "axiom.land/axiom/internal/protocol"

// OpKind distinguishes an output add from an output remove.
type OpKind int

const (
	OpAdd OpKind = iota
	OpRemove
)

// OutputOp is one topology change to forward to the protocol layer (C6)
// as a wl_output global add/remove.
type OutputOp struct {
	Kind   OpKind
	Output *protocol.Output
}

// fingerprint captures everything about an output that, if changed,
// means the compositor must treat it as a different output rather than
// a mode update in place — name, size, refresh rate, and position,
// per spec.md C3 step 1.
type fingerprint struct {
	name                      string
	width, height             int
	refreshMilliHz            int32
	x, y                      int
}

func fingerprintOf(o *protocol.Output) fingerprint {
	return fingerprint{
		name: o.Name, width: o.Width, height: o.Height,
		refreshMilliHz: o.RefreshMilliHz, x: o.X, y: o.Y,
	}
}

// Topology tracks the last known set of outputs so ReconcileOutputs can
// diff against the newly detected set.
type Topology struct {
	known map[string]fingerprint
	order []string // left-to-right by X, as last reconciled
}

// NewTopology creates an empty topology (no outputs known yet).
func NewTopology() *Topology {
	return &Topology{known: make(map[string]fingerprint)}
}

// Reconcile compares current (the freshly detected outputs, in any
// order) against the last known set and returns the add/remove ops
// needed to bring the protocol layer up to date, in
// reverse-order-removes-then-left-to-right-adds order per spec.md C3
// step 1.
func (t *Topology) Reconcile(current []*protocol.Output) []OutputOp {
	currentByName := make(map[string]*protocol.Output, len(current))
	for _, o := range current {
		currentByName[o.Name] = o
	}

	var ops []OutputOp

	// Removes: anything known but absent or changed, in reverse of last
	// known left-to-right order.
	for i := len(t.order) - 1; i >= 0; i-- {
		name := t.order[i]
		o, stillPresent := currentByName[name]
		if !stillPresent || fingerprintOf(o) != t.known[name] {
			ops = append(ops, OutputOp{Kind: OpRemove, Output: &protocol.Output{Name: name}})
			delete(t.known, name)
		}
	}

	// Adds: anything new or changed (changed outputs were just removed
	// above and are re-added here), left-to-right by X.
	added := make([]*protocol.Output, 0, len(current))
	for _, o := range current {
		if _, known := t.known[o.Name]; !known {
			added = append(added, o)
		}
	}
	sortByX(added)
	for _, o := range added {
		ops = append(ops, OutputOp{Kind: OpAdd, Output: o})
		t.known[o.Name] = fingerprintOf(o)
	}

	t.order = t.order[:0]
	sortedCurrent := append([]*protocol.Output(nil), current...)
	sortByX(sortedCurrent)
	for _, o := range sortedCurrent {
		t.order = append(t.order, o.Name)
	}
	return ops
}

func sortByX(outputs []*protocol.Output) {
	for i := 1; i < len(outputs); i++ {
		for j := i; j > 0 && outputs[j].X < outputs[j-1].X; j-- {
			outputs[j], outputs[j-1] = outputs[j-1], outputs[j]
		}
	}
}
