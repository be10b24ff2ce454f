/*
Package games provides propositional networks for a few games, built directly with the
circuit API.

They stand in for a rule translation front-end: each constructor returns a graph
following the usual naming conventions ((true ...) base propositions, (does r a)
inputs, (legal r a), (goal r v), init and terminal), ready to be indexed.

	g := games.TicTacToe()
	m, err := statemachine.Build(g.Graph, g.Roles)

Available games are listed by Names, and can be retrieved by name with ByName.
*/
package games
