package eval

import "math/bits"

// Propagate moves the evaluator to a new assignment of its sources, with bases as the
// base values and moves as the only true input slots, and recomputes only the
// propositions that can be affected by the change. The init slot is reset to false.
// It returns the number of propositions that were recomputed.
//
// The evaluator must be settled before the call, which is the case after NewEvaluator,
// Update or Propagate.
func (e *Evaluator) Propagate(bases []bool, moves []int) int {
	n := e.net
	if len(bases) != n.NumBase {
		panic("invalid number of base values")
	}
	for slot, val := range bases {
		if e.vals[slot] != val {
			e.mark(slot)
		}
	}
	for slot := n.NumBase; slot < n.NumBase+n.NumInput; slot++ {
		if e.vals[slot] {
			e.mark(slot)
		}
	}
	if e.vals[n.InitSlot] {
		e.mark(n.InitSlot)
	}
	for _, slot := range moves {
		e.mark(slot)
	}

	e.SetBaseProps(bases)
	e.ClearInputs()
	e.vals[n.InitSlot] = false
	for _, slot := range moves {
		e.vals[slot] = true
	}

	nb := 0
	e.fr.begin()
	for i, word := range e.dirty {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &^= 1 << uint(bit)
			e.updateProp(i*64 + bit)
			nb++
		}
		e.dirty[i] = 0
	}
	return nb
}

// mark flags every order position depending on the source slot.
func (e *Evaluator) mark(slot int) {
	for _, pos := range e.net.Deps[slot] {
		e.dirty[pos/64] |= 1 << uint(pos%64)
	}
}

// PropagateNext computes the state following bases when moves are played, and leaves
// the evaluator settled in that state with no input set.
// It appends the next base values to dst and returns the resulting slice, along with
// the number of propositions that were recomputed.
func (e *Evaluator) PropagateNext(dst []bool, bases []bool, moves []int) ([]bool, int) {
	nb := e.Propagate(bases, moves)
	e.scratch = e.NextBases(e.scratch[:0])
	nb += e.Propagate(e.scratch, nil)
	return e.Bases(dst), nb
}
