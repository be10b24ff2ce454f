// Package propnet indexes a raw circuit.Graph into a propositional network ready for
// evaluation.
//
// Build classifies every proposition (base, input, legal, goal, init, terminal or view),
// lays propositions out in dense slots, pairs legal propositions with the input
// propositions sharing their action, computes a topological evaluation order over the
// propositions that are not externally supplied, and precomputes, for every externally
// supplied proposition, the sorted list of order positions it can influence.
//
// Slot layout
//
// Base propositions occupy slots [0, NumBase), input propositions occupy
// [NumBase, NumBase+NumInput), all other propositions follow. A game state is therefore
// the prefix of length NumBase of an evaluation array, and checking whether a slot is a
// base or an input is a range check.
//
// A Net is read-only once built: it can be shared by any number of evaluators,
// including across goroutines.
package propnet
