package eval

import (
	"github.com/ggp-go/propnet/circuit"
	"github.com/ggp-go/propnet/propnet"
)

// A frame is what compiled functions read: the value array, and the values of shared
// gates already computed during the current pass.
type frame struct {
	vals  []bool
	memo  []bool   // Value of each shared gate
	stamp []uint32 // Pass each memo entry was computed in
	pass  uint32
}

// begin starts a new pass. Within a pass, the inputs of a shared gate must not change
// once the gate was evaluated.
func (f *frame) begin() {
	f.pass++
	if f.pass == 0 {
		for i := range f.stamp {
			f.stamp[i] = 0
		}
		f.pass = 1
	}
}

// A fn computes a value from a frame.
type fn func(f *frame) bool

// A Program is a network compiled into functions.
type Program struct {
	net      *propnet.Net
	order    []int // Slot of each order position
	props    []fn  // Function of each order position, nil for propositions without input
	trans    []fn  // Next value of each base slot
	nbShared int   // Number of gates with more than one output
}

// Compile compiles n.
func Compile(n *propnet.Net) *Program {
	c := compiler{net: n, fns: make(map[circuit.ID]fn)}
	p := &Program{
		net:   n,
		order: n.Order,
		props: make([]fn, len(n.Order)),
		trans: make([]fn, n.NumBase),
	}
	for pos, slot := range n.Order {
		if ins := n.Graph.Inputs(n.Props[slot]); len(ins) == 1 {
			p.props[pos] = c.compile(ins[0])
		}
	}
	for slot := 0; slot < n.NumBase; slot++ {
		p.trans[slot] = c.compile(n.Graph.Inputs(n.Transition(slot))[0])
	}
	p.nbShared = c.nbShared
	return p
}

// Net returns the network p was compiled from.
func (p *Program) Net() *propnet.Net {
	return p.net
}

type compiler struct {
	net      *propnet.Net
	fns      map[circuit.ID]fn // Already compiled components
	nbShared int
}

func (c *compiler) compile(id circuit.ID) fn {
	if f, ok := c.fns[id]; ok {
		return f
	}
	g := c.net.Graph
	var f fn
	switch g.Kind(id) {
	case circuit.Proposition:
		slot := c.net.Slot(id)
		f = func(fr *frame) bool { return fr.vals[slot] }
	case circuit.Constant:
		if g.At(id).Value {
			f = func(*frame) bool { return true }
		} else {
			f = func(*frame) bool { return false }
		}
	case circuit.Not:
		in := c.compile(g.Inputs(id)[0])
		f = func(fr *frame) bool { return !in(fr) }
	case circuit.Transition:
		f = c.compile(g.Inputs(id)[0])
	case circuit.And:
		f = and(c.compileAll(g.Inputs(id)))
	case circuit.Or:
		f = or(c.compileAll(g.Inputs(id)))
	default:
		panic("invalid component kind")
	}
	if k := g.Kind(id); (k == circuit.And || k == circuit.Or || k == circuit.Not) && len(g.Outputs(id)) > 1 {
		f = c.shared(f)
	}
	c.fns[id] = f
	return f
}

// shared returns f, computed at most once per pass.
func (c *compiler) shared(f fn) fn {
	idx := c.nbShared
	c.nbShared++
	return func(fr *frame) bool {
		if fr.stamp[idx] == fr.pass {
			return fr.memo[idx]
		}
		val := f(fr)
		fr.memo[idx] = val
		fr.stamp[idx] = fr.pass
		return val
	}
}

func (c *compiler) compileAll(ids []circuit.ID) []fn {
	res := make([]fn, len(ids))
	for i, id := range ids {
		res[i] = c.compile(id)
	}
	return res
}

func and(ins []fn) fn {
	switch len(ins) {
	case 0:
		return func(*frame) bool { return true }
	case 1:
		return ins[0]
	case 2:
		a, b := ins[0], ins[1]
		return func(fr *frame) bool { return a(fr) && b(fr) }
	default:
		return func(fr *frame) bool {
			for _, in := range ins {
				if !in(fr) {
					return false
				}
			}
			return true
		}
	}
}

func or(ins []fn) fn {
	switch len(ins) {
	case 0:
		return func(*frame) bool { return false }
	case 1:
		return ins[0]
	case 2:
		a, b := ins[0], ins[1]
		return func(fr *frame) bool { return a(fr) || b(fr) }
	default:
		return func(fr *frame) bool {
			for _, in := range ins {
				if in(fr) {
					return true
				}
			}
			return false
		}
	}
}
