/*
Package statemachine exposes a propositional network as a game state machine, the
interface search algorithms are written against.

A Machine answers the usual queries about a game: the initial state, whether a state is
terminal, the goal value of a role, its legal moves, and the state following a joint
move.

	g := games.TicTacToe()
	m, err := statemachine.Build(g.Graph, g.Roles)
	if err != nil {
		log.Fatal(err)
	}
	s := m.InitialState()
	for !m.IsTerminal(s) {
		if s, err = m.RandomNextState(s, rng); err != nil {
			log.Fatal(err)
		}
	}

Each Machine owns an evaluator and remembers the last state it evaluated, so that
consecutive queries about the same state only evaluate the network once. Every method
leaves the evaluator settled, so a caller can stop issuing queries at any point.

A Machine is not safe for concurrent use. Concurrent searches should give each
goroutine its own Machine, obtained with Clone: clones share the indexed network and
the analysis results, which are read-only.

States are comparable values and can be used as map keys.
*/
package statemachine
