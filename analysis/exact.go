package analysis

import (
	"strconv"

	"github.com/crillab/gophersat/bf"
	"github.com/pkg/errors"

	"github.com/ggp-go/propnet/circuit"
	"github.com/ggp-go/propnet/propnet"
)

// exact proves claims with a SAT solver: a claim holds iff its negation, together with
// the definition of every component it depends on, is unsatisfiable.
type exact struct {
	net   *propnet.Net
	cones map[circuit.ID][]bf.Formula // Definitions of the backward cone of each target
}

func newExact(n *propnet.Net) *exact {
	return &exact{net: n, cones: make(map[circuit.ID][]bf.Formula)}
}

func (x *exact) v(id circuit.ID) bf.Formula {
	return bf.Var("c" + strconv.Itoa(int(id)))
}

func (x *exact) lit(id circuit.ID, val bool) bf.Formula {
	if val {
		return x.v(id)
	}
	return bf.Not(x.v(id))
}

func (x *exact) forced(target circuit.ID, b int, v, val bool) bool {
	return bf.Solve(x.refutation(target, b, v, val)) == nil
}

// refutation returns a formula satisfiable iff target can differ from val when the
// base slot b is v.
func (x *exact) refutation(target circuit.ID, b int, v, val bool) bf.Formula {
	defs := x.cone(target)
	f := make([]bf.Formula, 0, len(defs)+2)
	f = append(f, defs...)
	f = append(f, x.lit(x.net.Props[b], v), x.lit(target, !val))
	return bf.And(f...)
}

// LatchRefutation returns a formula that is unsatisfiable iff the base slot is a latch
// for v. Component IDs are used as variable names, prefixed with "c".
func LatchRefutation(n *propnet.Net, slot int, v bool) (bf.Formula, error) {
	if !n.IsBase(slot) {
		return nil, errors.Errorf("slot %d is not a base slot", slot)
	}
	next := n.Graph.Inputs(n.Transition(slot))[0]
	return newExact(n).refutation(next, slot, v, v), nil
}

// cone returns the definitions of target and of every component it depends on.
// Base and input propositions are left free.
// Every definition is flat: an operator applied to variables only.
func (x *exact) cone(target circuit.ID) []bf.Formula {
	if defs, ok := x.cones[target]; ok {
		return defs
	}
	g := x.net.Graph
	var defs []bf.Formula
	seen := map[circuit.ID]bool{target: true}
	stack := []circuit.ID{target}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ins := g.Inputs(id)
		vars := make([]bf.Formula, len(ins))
		for i, in := range ins {
			vars[i] = x.v(in)
		}
		switch g.Kind(id) {
		case circuit.Proposition:
			slot := x.net.Slot(id)
			switch {
			case x.net.IsBase(slot), x.net.IsInput(slot):
				continue
			case slot == x.net.InitSlot, len(ins) == 0:
				defs = append(defs, x.lit(id, false))
				continue
			default:
				defs = append(defs, bf.Eq(x.v(id), vars[0]))
			}
		case circuit.Constant:
			defs = append(defs, x.lit(id, g.At(id).Value))
		case circuit.Not:
			defs = append(defs, bf.Eq(x.v(id), bf.Not(vars[0])))
		case circuit.Transition:
			defs = append(defs, bf.Eq(x.v(id), vars[0]))
		case circuit.And:
			if len(vars) == 0 {
				defs = append(defs, x.lit(id, true))
			} else {
				defs = append(defs, bf.Eq(x.v(id), bf.And(vars...)))
			}
		case circuit.Or:
			if len(vars) == 0 {
				defs = append(defs, x.lit(id, false))
			} else {
				defs = append(defs, bf.Eq(x.v(id), bf.Or(vars...)))
			}
		}
		for _, in := range ins {
			if !seen[in] {
				seen[in] = true
				stack = append(stack, in)
			}
		}
	}
	x.cones[target] = defs
	return defs
}
