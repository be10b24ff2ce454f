package eval

import "github.com/ggp-go/propnet/propnet"

// An Evaluator holds the value of every proposition of a network.
type Evaluator struct {
	prog    *Program
	net     *propnet.Net
	vals    []bool
	fr      frame    // Shares vals
	scratch []bool   // Next bases, computed before being written
	dirty   []uint64 // Order positions to recompute during a propagation
}

// NewEvaluator returns an evaluator for p.
// The evaluator is settled: all sources are false and every other proposition holds
// the value implied by them.
func (p *Program) NewEvaluator() *Evaluator {
	n := p.net
	e := &Evaluator{
		prog:    p,
		net:     n,
		vals:    make([]bool, n.Size()),
		scratch: make([]bool, n.NumBase),
		dirty:   make([]uint64, (len(n.Order)+63)/64),
	}
	e.fr = frame{
		vals:  e.vals,
		memo:  make([]bool, p.nbShared),
		stamp: make([]uint32, p.nbShared),
	}
	e.Update()
	return e
}

// Program returns the program e evaluates.
func (e *Evaluator) Program() *Program {
	return e.prog
}

// Value returns the current value of slot.
func (e *Evaluator) Value(slot int) bool {
	return e.vals[slot]
}

// Values returns the current value array. It must not be modified.
func (e *Evaluator) Values() []bool {
	return e.vals
}

// Clear sets every slot to false.
func (e *Evaluator) Clear() {
	for i := range e.vals {
		e.vals[i] = false
	}
}

// SetBaseProps overwrites the base slots with bases.
// bases must contain exactly one value per base proposition.
func (e *Evaluator) SetBaseProps(bases []bool) {
	if len(bases) != e.net.NumBase {
		panic("invalid number of base values")
	}
	copy(e.vals, bases)
}

// SetTrue sets slot to true.
func (e *Evaluator) SetTrue(slot int) {
	e.vals[slot] = true
}

// SetFalse sets slot to false.
func (e *Evaluator) SetFalse(slot int) {
	e.vals[slot] = false
}

// ClearInputs sets every input slot to false.
func (e *Evaluator) ClearInputs() {
	in := e.vals[e.net.NumBase : e.net.NumBase+e.net.NumInput]
	for i := range in {
		in[i] = false
	}
}

// Update recomputes every ordered proposition, in evaluation order.
func (e *Evaluator) Update() {
	e.fr.begin()
	for pos, f := range e.prog.props {
		if f != nil {
			e.vals[e.prog.order[pos]] = f(&e.fr)
		}
	}
}

// UpdateSingleProp recomputes the proposition at the given order position.
// Propositions it depends on must be up to date.
func (e *Evaluator) UpdateSingleProp(pos int) {
	e.fr.begin()
	e.updateProp(pos)
}

// updateProp recomputes the proposition at pos within the current pass.
func (e *Evaluator) updateProp(pos int) {
	if f := e.prog.props[pos]; f != nil {
		e.vals[e.prog.order[pos]] = f(&e.fr)
	}
}

// NextBases appends the value of each base proposition in the next state to dst and
// returns the resulting slice. The value array is not modified.
func (e *Evaluator) NextBases(dst []bool) []bool {
	e.fr.begin()
	for _, f := range e.prog.trans {
		dst = append(dst, f(&e.fr))
	}
	return dst
}

// UpdateBases moves the network to the next state: every base slot gets the value of
// its transition.
func (e *Evaluator) UpdateBases() {
	e.fr.begin()
	for slot, f := range e.prog.trans {
		e.scratch[slot] = f(&e.fr)
	}
	copy(e.vals, e.scratch)
}

// Bases appends the value of each base slot to dst and returns the resulting slice.
func (e *Evaluator) Bases(dst []bool) []bool {
	return append(dst, e.vals[:e.net.NumBase]...)
}
