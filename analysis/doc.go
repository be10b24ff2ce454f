/*
Package analysis discovers latches and inhibitors in a propositional network.

A base proposition is a latch for value v if, whenever it holds v, it also holds v in the
next state, whatever the other base propositions and the moves are. A latched base
proposition is an inhibitor for a role if, while it is true, the best goal of that role
cannot be true.

Two methods are available. The ternary method evaluates the network in the three-valued
domain {false, true, unknown}, with every base and input proposition unknown except the
one being tested: it is cheap but incomplete. The exact method encodes the relevant part
of the network as a boolean formula and asks gophersat whether the claim can be
falsified: it finds every latch the ternary method finds, and more, at a higher cost.

Both methods are sound, since they consider every assignment of the other propositions,
including unreachable ones. A Result that was skipped or restricted because of the size
of the network only knows about the bases it tested: an untested base is not known to be
a latch, which does not mean it is not one.
*/
package analysis
