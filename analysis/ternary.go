package analysis

import (
	"github.com/ggp-go/propnet/circuit"
	"github.com/ggp-go/propnet/propnet"
)

// A Value is a three-valued truth value.
type Value byte

// Possible values.
const (
	False = Value(iota)
	True
	Unknown
)

func (v Value) String() string {
	switch v {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "unknown"
	}
}

func valueOf(b bool) Value {
	if b {
		return True
	}
	return False
}

// Not returns the negation of v.
func Not(v Value) Value {
	switch v {
	case False:
		return True
	case True:
		return False
	default:
		return Unknown
	}
}

// And returns the conjunction of vs: false if any of them is false, true if they are all
// true, unknown otherwise.
func And(vs ...Value) Value {
	res := True
	for _, v := range vs {
		if v == False {
			return False
		}
		if v == Unknown {
			res = Unknown
		}
	}
	return res
}

// Or returns the disjunction of vs: true if any of them is true, false if they are all
// false, unknown otherwise.
func Or(vs ...Value) Value {
	res := False
	for _, v := range vs {
		if v == True {
			return True
		}
		if v == Unknown {
			res = Unknown
		}
	}
	return res
}

// A prover decides whether a component is forced to a value once a base slot is set.
type prover interface {
	// forced is true iff target is val in every assignment where base slot b is v,
	// init is false, and other sources take any value.
	forced(target circuit.ID, b int, v, val bool) bool
}

// ternary proves claims by three-valued evaluation.
// Values are memoized for the duration of a single claim.
type ternary struct {
	net   *propnet.Net
	memo  []Value
	stamp []uint32
	pass  uint32
	base  int
	val   Value
}

func newTernary(n *propnet.Net) *ternary {
	return &ternary{
		net:   n,
		memo:  make([]Value, n.Graph.Len()),
		stamp: make([]uint32, n.Graph.Len()),
	}
}

func (t *ternary) forced(target circuit.ID, b int, v, val bool) bool {
	t.pass++
	t.base = b
	t.val = valueOf(v)
	return t.eval(target) == valueOf(val)
}

func (t *ternary) eval(id circuit.ID) Value {
	if t.stamp[id] == t.pass {
		return t.memo[id]
	}
	g := t.net.Graph
	var res Value
	switch g.Kind(id) {
	case circuit.Proposition:
		slot := t.net.Slot(id)
		ins := g.Inputs(id)
		switch {
		case slot == t.base:
			res = t.val
		case t.net.IsBase(slot), t.net.IsInput(slot):
			res = Unknown
		case slot == t.net.InitSlot, len(ins) == 0:
			res = False
		default:
			res = t.eval(ins[0])
		}
	case circuit.Constant:
		res = valueOf(g.At(id).Value)
	case circuit.Not:
		res = Not(t.eval(g.Inputs(id)[0]))
	case circuit.Transition:
		res = t.eval(g.Inputs(id)[0])
	case circuit.And:
		res = True
		for _, in := range g.Inputs(id) {
			res = And(res, t.eval(in))
			if res == False {
				break
			}
		}
	case circuit.Or:
		res = False
		for _, in := range g.Inputs(id) {
			res = Or(res, t.eval(in))
			if res == True {
				break
			}
		}
	}
	t.stamp[id] = t.pass
	t.memo[id] = res
	return res
}
