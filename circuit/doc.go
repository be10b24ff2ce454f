// Package circuit describes the raw propositional network of a game, as handed off by a
// rule translator.
//
// A network is a directed graph of components: propositions, AND/OR/NOT gates, constants
// and transitions. Components live in an arena owned by a Graph and are addressed by ID;
// edges are plain ID lists, so the graph has no owning back-references and can be copied
// or shared freely once built.
//
// Propositions carry the term they were derived from. Later stages classify them by that
// term alone: "(legal r a)", "(does r a)", "(goal r v)", the zero-arity "init" and
// "terminal", and any proposition whose only input is a transition is a base proposition.
//
// A tiny network for a one-bit counter could be built like this:
//
//	g := circuit.NewGraph()
//	on := g.AddProposition(circuit.Func("true", circuit.Const("on")))
//	flip := g.AddProposition(circuit.Func("next", circuit.Const("on")))
//	g.Connect(g.AddNot(on), flip)
//	g.Connect(g.AddTransition(flip), on)
package circuit
