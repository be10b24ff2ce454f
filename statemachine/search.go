package statemachine

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/ggp-go/propnet/circuit"
)

// legalPerRole returns the legal moves of every role in s.
func (m *Machine) legalPerRole(s State) ([][]Move, error) {
	m.evaluate(s)
	res := make([][]Move, len(m.net.Roles))
	for idx := range res {
		res[idx] = m.legalMoves(idx)
		if len(res[idx]) == 0 {
			return nil, errors.Wrapf(ErrNoLegalMoves, "role %s", m.net.Roles[idx])
		}
	}
	return res, nil
}

// LegalJointMoves returns every combination of legal moves in s.
func (m *Machine) LegalJointMoves(s State) ([][]Move, error) {
	legals, err := m.legalPerRole(s)
	if err != nil {
		return nil, err
	}
	return product(legals), nil
}

// LegalJointMovesFor returns every combination of legal moves in s where r plays mv.
func (m *Machine) LegalJointMovesFor(s State, r circuit.Role, mv Move) ([][]Move, error) {
	idx, err := m.role(r)
	if err != nil {
		return nil, err
	}
	legals, err := m.legalPerRole(s)
	if err != nil {
		return nil, err
	}
	legals[idx] = []Move{mv}
	return product(legals), nil
}

// product returns the cartesian product of moves.
func product(moves [][]Move) [][]Move {
	res := [][]Move{nil}
	for _, choices := range moves {
		next := make([][]Move, 0, len(res)*len(choices))
		for _, prefix := range res {
			for _, mv := range choices {
				joint := make([]Move, len(prefix), len(prefix)+1)
				copy(joint, prefix)
				next = append(next, append(joint, mv))
			}
		}
		res = next
	}
	return res
}

// RandomJointMove returns a joint move made of a random legal move for each role.
func (m *Machine) RandomJointMove(s State, rng *rand.Rand) ([]Move, error) {
	legals, err := m.legalPerRole(s)
	if err != nil {
		return nil, err
	}
	joint := make([]Move, len(legals))
	for idx, moves := range legals {
		joint[idx] = moves[rng.Intn(len(moves))]
	}
	return joint, nil
}

// RandomNextState plays a random joint move in s and returns the resulting state.
func (m *Machine) RandomNextState(s State, rng *rand.Rand) (State, error) {
	joint, err := m.RandomJointMove(s, rng)
	if err != nil {
		return State{}, err
	}
	return m.NextState(s, joint)
}

// PerformDepthCharge plays random joint moves from s until a terminal state is reached.
// It returns that state and the number of moves played.
// ctx is checked before each move.
func (m *Machine) PerformDepthCharge(ctx context.Context, s State, rng *rand.Rand) (State, int, error) {
	depth := 0
	for !m.IsTerminal(s) {
		if err := ctx.Err(); err != nil {
			return s, depth, err
		}
		next, err := m.RandomNextState(s, rng)
		if err != nil {
			return s, depth, err
		}
		s = next
		depth++
	}
	return s, depth, nil
}
