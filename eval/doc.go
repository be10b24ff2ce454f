/*
Package eval evaluates an indexed propositional network.

Compile turns a propnet.Net into a Program: a table holding, for each position of the
evaluation order, a function computing the value of that proposition from the values of
the others, and for each base proposition a function computing its value in the next
state. A Program is read-only and can be shared by any number of Evaluators.

An Evaluator owns a value array, one bool per slot of the network, and offers two ways
of refreshing it: Update recomputes every ordered proposition, while Propagate only
recomputes the propositions reachable from the slots that changed since the last
evaluation. Both leave the array in the same state.

An Evaluator is not safe for concurrent use. Goroutines evaluating the same game
should each use their own Evaluator, built from a shared Program.

Caller discipline

UpdateBases and NextBases read the values computed by the last Update or Propagate:
calling them on an array that was modified since, or on an Evaluator that was never
updated with the current sources, yields stale values. This is not checked.
*/
package eval
