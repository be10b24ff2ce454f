package statemachine

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ggp-go/propnet/analysis"
	"github.com/ggp-go/propnet/circuit"
	"github.com/ggp-go/propnet/config"
	"github.com/ggp-go/propnet/eval"
	"github.com/ggp-go/propnet/propnet"
)

// Stats are statistics about the queries answered by a machine.
// They are provided for information purpose only.
type Stats struct {
	NbFullUpdates         int // How many times the whole network was recomputed
	NbDifferentialUpdates int // How many differential propagations were run
	NbPropsRecomputed     int // How many propositions differential propagations recomputed
	NbCacheHits           int // How many queries were about the last evaluated state
	NbCacheMisses         int // How many queries needed an evaluation
	NbStates              int // How many states were computed
}

// Sub returns the counts of st that happened since old was taken.
func (st Stats) Sub(old Stats) Stats {
	return Stats{
		NbFullUpdates:         st.NbFullUpdates - old.NbFullUpdates,
		NbDifferentialUpdates: st.NbDifferentialUpdates - old.NbDifferentialUpdates,
		NbPropsRecomputed:     st.NbPropsRecomputed - old.NbPropsRecomputed,
		NbCacheHits:           st.NbCacheHits - old.NbCacheHits,
		NbCacheMisses:         st.NbCacheMisses - old.NbCacheMisses,
		NbStates:              st.NbStates - old.NbStates,
	}
}

// A Machine is a game state machine backed by a propositional network.
type Machine struct {
	Stats Stats // Statistics about the queries answered so far.

	net  *propnet.Net
	prog *eval.Program
	res  *analysis.Result
	cfg  config.Config
	log  logrus.FieldLogger
	diff bool // Whether queries use differential propagation

	e       *eval.Evaluator
	last    State // Last state e was evaluated against
	hasLast bool
	bases   []bool // Buffer for base values
	next    []bool // Buffer for next base values
	moves   []int  // Buffer for input slots
}

type options struct {
	cfg config.Config
	log logrus.FieldLogger
}

// An Option customizes Build.
type Option func(*options)

// WithConfig sets the configuration of the machine. It defaults to config.Default().
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger used while building the machine.
// It defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// Build indexes, analyzes and compiles the network g played by roles.
// It returns a *propnet.BuildError if g is malformed.
func Build(g *circuit.Graph, roles []circuit.Role, opts ...Option) (*Machine, error) {
	o := options{cfg: config.Default(), log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	n, err := propnet.Build(g, roles)
	if err != nil {
		return nil, err
	}
	st := n.Stats()
	o.log.Infof("network has %d propositions: %d bases, %d inputs, %d legals, %d goals, %d views",
		st.NbProps, st.NbBases, st.NbInputs, st.NbLegals, st.NbGoals, st.NbViews)
	if st.NbUnpaired > 0 {
		o.log.Debugf("%d legal propositions have no matching input", st.NbUnpaired)
	}
	res := analysis.Analyze(n, analysis.Options{
		Method: analysis.Method(o.cfg.Analysis),
		Limit:  o.cfg.AnalysisLimit,
		Budget: o.cfg.AnalysisBudget,
		Logger: o.log,
	})
	m := newMachine(n, eval.Compile(n), res, o.cfg, o.log)
	o.log.Infof("using %s propagation", m.Mode())
	return m, nil
}

func newMachine(n *propnet.Net, prog *eval.Program, res *analysis.Result, cfg config.Config, log logrus.FieldLogger) *Machine {
	return &Machine{
		net:   n,
		prog:  prog,
		res:   res,
		cfg:   cfg,
		log:   log,
		diff:  cfg.UseDifferential(n.Size()),
		e:     prog.NewEvaluator(),
		bases: make([]bool, 0, n.NumBase),
		next:  make([]bool, 0, n.NumBase),
		moves: make([]int, 0, len(n.Roles)),
	}
}

// Clone returns a new machine for the same game, with its own evaluator.
// The network and the analysis results are shared with m.
func (m *Machine) Clone() *Machine {
	return newMachine(m.net, m.prog, m.res, m.cfg, m.log)
}

// Net returns the indexed network behind m.
func (m *Machine) Net() *propnet.Net {
	return m.net
}

// Analysis returns the latch and inhibitor analysis results.
func (m *Machine) Analysis() *analysis.Result {
	return m.res
}

// Mode returns the propagation policy used by m, either config.Full or
// config.Differential.
func (m *Machine) Mode() string {
	if m.diff {
		return config.Differential
	}
	return config.Full
}

// Roles returns the roles of the game, in the order joint moves are expected.
func (m *Machine) Roles() []circuit.Role {
	return append([]circuit.Role(nil), m.net.Roles...)
}

// RoleIndex returns the index of r in Roles, or -1 if r does not play the game.
func (m *Machine) RoleIndex(r circuit.Role) int {
	return m.net.RoleIndex(r)
}

func (m *Machine) role(r circuit.Role) (int, error) {
	idx := m.net.RoleIndex(r)
	if idx == -1 {
		return -1, errors.Wrapf(ErrUnknownRole, "%q", r)
	}
	return idx, nil
}

// InitialState returns the initial state of the game.
func (m *Machine) InitialState() State {
	e := m.e
	e.Clear()
	e.SetTrue(m.net.InitSlot)
	e.Update()
	e.UpdateBases()
	e.Update()
	e.SetFalse(m.net.InitSlot)
	e.Update()
	m.Stats.NbFullUpdates += 3
	m.Stats.NbStates++
	m.bases = e.Bases(m.bases[:0])
	m.last = newState(m.bases)
	m.hasLast = true
	return m.last
}

// evaluate brings the evaluator to s, with no input set.
func (m *Machine) evaluate(s State) {
	if s.Len() != m.net.NumBase {
		panic(errors.Errorf("state has %d bases, network has %d", s.Len(), m.net.NumBase))
	}
	if m.hasLast && m.last == s {
		m.Stats.NbCacheHits++
		return
	}
	m.Stats.NbCacheMisses++
	m.bases = s.Bases(m.bases[:0])
	if m.diff {
		m.Stats.NbDifferentialUpdates++
		m.Stats.NbPropsRecomputed += m.e.Propagate(m.bases, nil)
	} else {
		m.Stats.NbFullUpdates++
		m.e.Clear()
		m.e.SetBaseProps(m.bases)
		m.e.Update()
	}
	m.last = s
	m.hasLast = true
}

// IsTerminal is true iff s is a terminal state.
func (m *Machine) IsTerminal(s State) bool {
	m.evaluate(s)
	return m.e.Value(m.net.TerminalSlot)
}

// Goal returns the goal value of r in s.
// It returns a *GoalError unless exactly one goal proposition of r is true in s.
func (m *Machine) Goal(s State, r circuit.Role) (int, error) {
	idx, err := m.role(r)
	if err != nil {
		return 0, err
	}
	m.evaluate(s)
	return m.goal(idx)
}

func (m *Machine) goal(idx int) (int, error) {
	val, count := 0, 0
	for _, g := range m.net.Goals[idx] {
		if m.e.Value(g.Slot) {
			val = g.Value
			count++
		}
	}
	if count != 1 {
		return 0, &GoalError{Role: m.net.Roles[idx], Count: count}
	}
	return val, nil
}

// Goals returns the goal value of every role in s, in the order of Roles.
func (m *Machine) Goals(s State) ([]int, error) {
	m.evaluate(s)
	res := make([]int, len(m.net.Roles))
	for idx := range res {
		val, err := m.goal(idx)
		if err != nil {
			return nil, err
		}
		res[idx] = val
	}
	return res, nil
}

// LegalMoves returns the legal moves of r in s.
func (m *Machine) LegalMoves(s State, r circuit.Role) ([]Move, error) {
	idx, err := m.role(r)
	if err != nil {
		return nil, err
	}
	m.evaluate(s)
	return m.legalMoves(idx), nil
}

func (m *Machine) legalMoves(idx int) []Move {
	var res []Move
	for _, l := range m.net.Legals[idx] {
		if m.e.Value(l) {
			res = append(res, Move{Role: m.net.Roles[idx], Action: m.net.Action[l], input: m.net.Paired[l] + 1})
		}
	}
	return res
}

// resolve returns the input slot of the move of the role with index idx.
func (m *Machine) resolve(idx int, mv Move) (int, error) {
	if mv.Role != m.net.Roles[idx] {
		return -1, &MoveResolutionError{Role: mv.Role, Action: mv.Action}
	}
	if slot := mv.input - 1; m.net.IsInput(slot) && m.net.Owner[slot] == idx && m.net.Action[slot].Equal(mv.Action) {
		return slot, nil
	}
	slot, ok := m.net.InputSlot(idx, mv.Action)
	if !ok {
		return -1, &MoveResolutionError{Role: mv.Role, Action: mv.Action}
	}
	return slot, nil
}

// NextState returns the state following s when the given joint move is played.
// The joint move holds one move per role, in the order of Roles.
// It returns a *MoveResolutionError if a move has no matching input proposition.
// Legality of the moves is not checked.
func (m *Machine) NextState(s State, joint []Move) (State, error) {
	if len(joint) != len(m.net.Roles) {
		return State{}, errors.Wrapf(ErrJointMoveArity, "got %d moves for %d roles", len(joint), len(m.net.Roles))
	}
	if s.Len() != m.net.NumBase {
		panic(errors.Errorf("state has %d bases, network has %d", s.Len(), m.net.NumBase))
	}
	m.moves = m.moves[:0]
	for idx, mv := range joint {
		slot, err := m.resolve(idx, mv)
		if err != nil {
			return State{}, err
		}
		m.moves = append(m.moves, slot)
	}
	cur := s.Bases(m.bases[:0])
	e := m.e
	if m.diff {
		var nb int
		m.next, nb = e.PropagateNext(m.next[:0], cur, m.moves)
		m.Stats.NbDifferentialUpdates += 2
		m.Stats.NbPropsRecomputed += nb
	} else {
		e.Clear()
		e.SetBaseProps(cur)
		for _, slot := range m.moves {
			e.SetTrue(slot)
		}
		e.Update()
		e.UpdateBases()
		e.ClearInputs()
		e.Update()
		m.Stats.NbFullUpdates += 2
		m.next = e.Bases(m.next[:0])
	}
	m.Stats.NbStates++
	m.last = newState(m.next)
	m.hasLast = true
	return m.last, nil
}

// IsGoalInhibitor is true iff one of the known inhibitors of r is true in s.
// It does not evaluate the network.
func (m *Machine) IsGoalInhibitor(r circuit.Role, s State) (bool, error) {
	idx, err := m.role(r)
	if err != nil {
		return false, err
	}
	for _, slot := range m.res.Inhibitors(idx) {
		if s.Has(slot) {
			return true, nil
		}
	}
	return false, nil
}

// Latches returns the facts held by the known latches.
func (m *Machine) Latches() []circuit.Term {
	var res []circuit.Term
	for _, slot := range m.res.Latches() {
		res = append(res, m.net.Term(slot))
	}
	return res
}

// Inhibitors returns the facts known to inhibit the best goal of r.
func (m *Machine) Inhibitors(r circuit.Role) ([]circuit.Term, error) {
	idx, err := m.role(r)
	if err != nil {
		return nil, err
	}
	var res []circuit.Term
	for _, slot := range m.res.Inhibitors(idx) {
		res = append(res, m.net.Term(slot))
	}
	return res, nil
}

// Facts returns the terms of the base propositions true in s, in slot order.
func (m *Machine) Facts(s State) []circuit.Term {
	var res []circuit.Term
	for slot := 0; slot < s.Len(); slot++ {
		if s.Has(slot) {
			res = append(res, m.net.Term(slot))
		}
	}
	return res
}
