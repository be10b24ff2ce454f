package analysis

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ggp-go/propnet/propnet"
)

// Method is the way claims about the network are proven.
type Method string

// Available methods.
const (
	Ternary = Method("ternary")
	Exact   = Method("exact")
	None    = Method("none")
)

// ParseMethod returns the method with the given name.
func ParseMethod(name string) (Method, error) {
	switch m := Method(name); m {
	case Ternary, Exact, None:
		return m, nil
	case "":
		return Ternary, nil
	default:
		return "", errors.Errorf("invalid analysis method %q", name)
	}
}

// Options drive an analysis.
type Options struct {
	Method Method
	// Limit is the number of propositions above which the analysis is restricted.
	Limit int
	// Budget is the number of base propositions, in ascending slot order, still tested
	// when the network is above Limit. A zero budget skips the analysis altogether.
	Budget int
	Logger logrus.FieldLogger
}

// A Result holds what was learned about a network.
type Result struct {
	Method  Method
	Tested  int  // Bases in slots [0, Tested) were tested
	Skipped bool // Nothing was tested because of the size of the network
	Partial bool // Only some bases were tested because of the size of the network
	Latch1  []bool
	Latch0  []bool

	inhibitors [][]int // Inhibitor slots of each role
}

// Analyze computes the latches and inhibitors of n.
func Analyze(n *propnet.Net, opts Options) *Result {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Method == "" {
		opts.Method = Ternary
	}
	res := &Result{
		Method:     opts.Method,
		Latch1:     make([]bool, n.NumBase),
		Latch0:     make([]bool, n.NumBase),
		inhibitors: make([][]int, len(n.Roles)),
	}
	var p prover
	switch opts.Method {
	case None:
		res.Skipped = true
		return res
	case Exact:
		p = newExact(n)
	default:
		p = newTernary(n)
	}
	res.Tested = n.NumBase
	if opts.Limit > 0 && n.Size() > opts.Limit {
		if opts.Budget <= 0 {
			log.Warnf("network has %d propositions, more than %d: latch analysis skipped", n.Size(), opts.Limit)
			res.Skipped = true
			res.Tested = 0
			return res
		}
		if opts.Budget < n.NumBase {
			log.Warnf("network has %d propositions, more than %d: latch analysis restricted to %d bases out of %d",
				n.Size(), opts.Limit, opts.Budget, n.NumBase)
			res.Tested = opts.Budget
			res.Partial = true
		}
	}

	for b := 0; b < res.Tested; b++ {
		next := n.Graph.Inputs(n.Transition(b))[0]
		res.Latch1[b] = p.forced(next, b, true, true)
		res.Latch0[b] = p.forced(next, b, false, false)
	}
	for r := range n.Roles {
		best, ok := bestGoal(n, r)
		if !ok {
			continue
		}
		for b := 0; b < res.Tested; b++ {
			if res.Latch1[b] && p.forced(n.Props[best.Slot], b, true, false) {
				log.Debugf("%v inhibits %v for role %s", n.Term(b), n.Term(best.Slot), n.Roles[r])
				res.inhibitors[r] = append(res.inhibitors[r], b)
			}
		}
	}
	log.WithFields(logrus.Fields{
		"method":     res.Method,
		"tested":     res.Tested,
		"latches":    len(res.Latches()),
		"inhibitors": res.NbInhibitors(),
	}).Info("latch analysis done")
	return res
}

// bestGoal returns the goal of role r with the highest positive value.
func bestGoal(n *propnet.Net, r int) (propnet.GoalProp, bool) {
	var best propnet.GoalProp
	found := false
	for _, g := range n.Goals[r] {
		if g.Value > 0 && (!found || g.Value > best.Value) {
			best = g
			found = true
		}
	}
	return best, found
}

// IsLatch is true iff the base slot is known to be a latch, for any value.
func (r *Result) IsLatch(slot int) bool {
	return r.Latch1[slot] || r.Latch0[slot]
}

// Known is true iff the base slot was tested.
func (r *Result) Known(slot int) bool {
	return slot < r.Tested
}

// Latches returns the slots of all known latches, in ascending order.
func (r *Result) Latches() []int {
	var res []int
	for slot := range r.Latch1 {
		if r.IsLatch(slot) {
			res = append(res, slot)
		}
	}
	return res
}

// Inhibitors returns the slots of the known inhibitors of the given role.
func (r *Result) Inhibitors(role int) []int {
	return r.inhibitors[role]
}

// NbInhibitors returns the total number of inhibitors, over all roles.
func (r *Result) NbInhibitors() int {
	nb := 0
	for _, inh := range r.inhibitors {
		nb += len(inh)
	}
	return nb
}

// IsInhibited is true iff one of the inhibitors of role is true in bases.
func (r *Result) IsInhibited(role int, bases []bool) bool {
	for _, slot := range r.inhibitors[role] {
		if bases[slot] {
			return true
		}
	}
	return false
}
