package statemachine

import (
	"strings"

	"github.com/ggp-go/propnet/circuit"
)

// A State is an immutable assignment of the base propositions.
// States are compared by value.
type State struct {
	bits string // One bit per base slot
	n    int
}

func newState(bases []bool) State {
	b := make([]byte, (len(bases)+7)/8)
	for i, val := range bases {
		if val {
			b[i/8] |= 1 << uint(i%8)
		}
	}
	return State{bits: string(b), n: len(bases)}
}

// Len returns the number of base propositions in s.
func (s State) Len() int {
	return s.n
}

// Has is true iff the base proposition in the given slot is true in s.
func (s State) Has(slot int) bool {
	return s.bits[slot/8]&(1<<uint(slot%8)) != 0
}

// Bases appends the value of each base proposition to dst and returns the resulting slice.
func (s State) Bases(dst []bool) []bool {
	for i := 0; i < s.n; i++ {
		dst = append(dst, s.Has(i))
	}
	return dst
}

// String returns s as a string of 0 and 1, one per base slot.
func (s State) String() string {
	var sb strings.Builder
	sb.Grow(s.n)
	for i := 0; i < s.n; i++ {
		if s.Has(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// A Move is an action taken by a role.
type Move struct {
	Role   circuit.Role
	Action circuit.Term
	input  int // Input slot plus one, 0 when unknown
}

// NewMove returns the move of r doing action.
func NewMove(r circuit.Role, action circuit.Term) Move {
	return Move{Role: r, Action: action}
}

func (m Move) String() string {
	return circuit.Func("does", m.Role.Term(), m.Action).String()
}
