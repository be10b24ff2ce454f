package propnet

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ggp-go/propnet/circuit"
)

// Reserved relation names. They are matched regardless of case.
const (
	RelInit     = "init"
	RelTerminal = "terminal"
	RelLegal    = "legal"
	RelGoal     = "goal"
	RelDoes     = "does"
)

// Class is the role a proposition plays in the network.
type Class byte

const (
	View = Class(iota)
	Base
	Input
	Legal
	Goal
	Init
	Terminal
)

func (c Class) String() string {
	switch c {
	case View:
		return "view"
	case Base:
		return "base"
	case Input:
		return "input"
	case Legal:
		return "legal"
	case Goal:
		return "goal"
	case Init:
		return "init"
	case Terminal:
		return "terminal"
	default:
		panic("invalid class")
	}
}

// A GoalProp is a goal proposition with its decoded payoff.
type GoalProp struct {
	Slot  int
	Value int
}

// A Net is an indexed propositional network.
// All its fields must be considered read-only.
type Net struct {
	Graph *circuit.Graph
	Roles []circuit.Role

	NumBase  int
	NumInput int

	Props []circuit.ID // Proposition stored in each slot
	Class []Class      // Class of each slot

	InitSlot     int
	TerminalSlot int

	Legals [][]int      // For each role, its legal slots
	Inputs [][]int      // For each role, its input slots
	Goals  [][]GoalProp // For each role, its goal propositions
	// Action of each legal or input slot. Zero term for other slots.
	Action []circuit.Term
	// Owner is the role index of each legal, input or goal slot, -1 for other slots.
	Owner []int
	// Paired maps a legal slot to its input slot and an input slot to its legal slot.
	// It holds -1 when there is no counterpart, which is not an error.
	Paired []int

	// Order lists non-source slots in evaluation order.
	Order []int
	// Position is the index of a slot in Order, or -1 for sources.
	Position []int
	// Deps is the sorted list of order positions reachable from each source slot.
	// It is nil for non-sources.
	Deps [][]int32
	// Transitional is true for a source slot whose change reaches the transition
	// of another base proposition.
	Transitional []bool

	slotOf  []int            // Slot of each component, -1 for non-propositions
	inputOf []map[string]int // For each role, the input slot of each action
}

// Size returns the number of propositions, i.e the number of slots.
func (n *Net) Size() int {
	return len(n.Props)
}

// Slot returns the slot of the proposition id, or -1 if id is not a proposition.
func (n *Net) Slot(id circuit.ID) int {
	return n.slotOf[id]
}

// IsBase is true iff slot is a base slot.
func (n *Net) IsBase(slot int) bool {
	return slot >= 0 && slot < n.NumBase
}

// IsInput is true iff slot is an input slot.
func (n *Net) IsInput(slot int) bool {
	return slot >= n.NumBase && slot < n.NumBase+n.NumInput
}

// IsSource is true iff the value of slot is supplied externally rather than computed.
func (n *Net) IsSource(slot int) bool {
	return slot < n.NumBase+n.NumInput || slot == n.InitSlot
}

// Term returns the term of the proposition in slot.
func (n *Net) Term(slot int) circuit.Term {
	return n.Graph.Term(n.Props[slot])
}

// RoleIndex returns the index of r, or -1 if r is not a role of the network.
func (n *Net) RoleIndex(r circuit.Role) int {
	for i, r2 := range n.Roles {
		if r2 == r {
			return i
		}
	}
	return -1
}

// InputSlot returns the input slot for the given role taking the given action.
func (n *Net) InputSlot(role int, action circuit.Term) (int, bool) {
	slot, ok := n.inputOf[role][action.String()]
	return slot, ok
}

// Transition returns the transition feeding the base slot.
func (n *Net) Transition(slot int) circuit.ID {
	return n.Graph.Inputs(n.Props[slot])[0]
}

// Build indexes g, played by the given roles.
// It returns a *BuildError if g is malformed.
func Build(g *circuit.Graph, roles []circuit.Role) (*Net, error) {
	if len(roles) == 0 {
		return nil, buildErr("roles", "", ErrNoRoles)
	}
	b := builder{g: g, roles: roles, roleIdx: make(map[string]int, len(roles))}
	for i, r := range roles {
		if _, ok := b.roleIdx[string(r)]; ok {
			return nil, buildErr("roles", string(r), ErrDuplicate)
		}
		b.roleIdx[string(r)] = i
	}
	if err := b.checkGates(); err != nil {
		return nil, err
	}
	if err := b.classify(); err != nil {
		return nil, err
	}
	b.layout()
	if err := b.order(); err != nil {
		return nil, err
	}
	b.dependencies()
	return b.net, nil
}

type builder struct {
	g       *circuit.Graph
	roles   []circuit.Role
	roleIdx map[string]int
	net     *Net
	props   []circuit.ID // All propositions, in ascending ID order
	classes []Class      // Class of each element of props
}

func (b *builder) checkGates() error {
	for i := 0; i < b.g.Len(); i++ {
		id := circuit.ID(i)
		n := len(b.g.Inputs(id))
		switch b.g.Kind(id) {
		case circuit.Not, circuit.Transition:
			if n != 1 {
				return buildErr("check", b.g.String(id), ErrGateArity)
			}
		case circuit.Constant:
			if n != 0 {
				return buildErr("check", b.g.String(id), ErrGateArity)
			}
		}
	}
	return b.checkGateCycles()
}

// checkGateCycles returns an error if a cycle goes through gates and transitions only.
// Cycles going through a proposition are found when ordering.
func (b *builder) checkGateCycles() error {
	const (
		white = iota
		grey
		black
	)
	color := make([]byte, b.g.Len())
	var visit func(circuit.ID) error
	visit = func(id circuit.ID) error {
		color[id] = grey
		for _, in := range b.g.Inputs(id) {
			switch {
			case b.g.Kind(in) == circuit.Proposition:
				continue
			case color[in] == grey:
				return buildErr("order", b.g.String(in), ErrCycle)
			case color[in] == white:
				if err := visit(in); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}
	for i := 0; i < b.g.Len(); i++ {
		id := circuit.ID(i)
		if b.g.Kind(id) == circuit.Proposition || color[id] != white {
			continue
		}
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) role(op string, t circuit.Term) (int, error) {
	idx, ok := b.roleIdx[t.Arg(0).Name]
	if !ok || !t.Arg(0).IsConst() {
		return -1, buildErr(op, t.String(), ErrUnknownRole)
	}
	return idx, nil
}

func (b *builder) classify() error {
	b.props = b.g.Propositions()
	b.classes = make([]Class, len(b.props))
	hasInit, hasTerminal := false, false
	for i, id := range b.props {
		t := b.g.Term(id)
		ins := b.g.Inputs(id)
		fedByTransition := false
		for _, in := range ins {
			if b.g.Kind(in) == circuit.Transition {
				fedByTransition = true
			}
		}
		switch {
		case fedByTransition:
			if len(ins) != 1 {
				return buildErr("classify", t.String(), ErrBaseFanIn)
			}
			b.classes[i] = Base
		case t.IsConst() && strings.EqualFold(t.Name, RelInit):
			if hasInit {
				return buildErr("classify", t.String(), ErrDuplicate)
			}
			hasInit = true
			b.classes[i] = Init
		case t.IsConst() && strings.EqualFold(t.Name, RelTerminal):
			if hasTerminal {
				return buildErr("classify", t.String(), ErrDuplicate)
			}
			hasTerminal = true
			b.classes[i] = Terminal
		case strings.EqualFold(t.Name, RelDoes) && t.Arity() == 2:
			if _, err := b.role("classify", t); err != nil {
				return err
			}
			b.classes[i] = Input
		case strings.EqualFold(t.Name, RelLegal) && t.Arity() == 2:
			if _, err := b.role("classify", t); err != nil {
				return err
			}
			b.classes[i] = Legal
		case strings.EqualFold(t.Name, RelGoal) && t.Arity() == 2:
			if _, err := b.role("classify", t); err != nil {
				return err
			}
			if _, err := strconv.Atoi(t.Arg(1).Name); err != nil || !t.Arg(1).IsConst() {
				return buildErr("classify", t.String(), ErrGoalValue)
			}
			b.classes[i] = Goal
		default:
			b.classes[i] = View
		}
		c := b.classes[i]
		if (c == Input || c == Init) && len(ins) != 0 {
			return buildErr("classify", t.String(), ErrFanIn)
		}
		if len(ins) > 1 {
			return buildErr("classify", t.String(), ErrFanIn)
		}
	}
	if !hasInit {
		return buildErr("classify", "", ErrNoInit)
	}
	if !hasTerminal {
		return buildErr("classify", "", ErrNoTerminal)
	}
	return nil
}

// layout assigns slots: bases first, then inputs, then all other propositions.
func (b *builder) layout() {
	n := &Net{
		Graph:  b.g,
		Roles:  b.roles,
		slotOf: make([]int, b.g.Len()),
	}
	for i := range n.slotOf {
		n.slotOf[i] = -1
	}
	place := func(keep func(Class) bool) {
		for i, id := range b.props {
			if keep(b.classes[i]) {
				n.slotOf[id] = len(n.Props)
				n.Props = append(n.Props, id)
				n.Class = append(n.Class, b.classes[i])
			}
		}
	}
	place(func(c Class) bool { return c == Base })
	n.NumBase = len(n.Props)
	place(func(c Class) bool { return c == Input })
	n.NumInput = len(n.Props) - n.NumBase
	place(func(c Class) bool { return c != Base && c != Input })

	size := len(n.Props)
	nbRoles := len(b.roles)
	n.Legals = make([][]int, nbRoles)
	n.Inputs = make([][]int, nbRoles)
	n.Goals = make([][]GoalProp, nbRoles)
	n.Action = make([]circuit.Term, size)
	n.Owner = make([]int, size)
	n.Paired = make([]int, size)
	n.inputOf = make([]map[string]int, nbRoles)
	for r := range n.inputOf {
		n.inputOf[r] = make(map[string]int)
	}
	for slot := range n.Props {
		n.Owner[slot] = -1
		n.Paired[slot] = -1
		t := n.Term(slot)
		switch n.Class[slot] {
		case Init:
			n.InitSlot = slot
		case Terminal:
			n.TerminalSlot = slot
		case Input:
			r := b.roleIdx[t.Arg(0).Name]
			n.Owner[slot] = r
			n.Action[slot] = t.Arg(1)
			n.Inputs[r] = append(n.Inputs[r], slot)
			n.inputOf[r][t.Arg(1).String()] = slot
		case Legal:
			r := b.roleIdx[t.Arg(0).Name]
			n.Owner[slot] = r
			n.Action[slot] = t.Arg(1)
			n.Legals[r] = append(n.Legals[r], slot)
		case Goal:
			r := b.roleIdx[t.Arg(0).Name]
			val, _ := strconv.Atoi(t.Arg(1).Name)
			n.Owner[slot] = r
			n.Goals[r] = append(n.Goals[r], GoalProp{Slot: slot, Value: val})
		}
	}
	for r, legals := range n.Legals {
		for _, l := range legals {
			if in, ok := n.inputOf[r][n.Action[l].String()]; ok {
				n.Paired[l] = in
				n.Paired[in] = l
			}
		}
	}
	b.net = n
}

// propDeps returns the slots of the propositions that the value of the given
// proposition directly depends on, through any chain of gates.
func (b *builder) propDeps(id circuit.ID) []int {
	n := b.net
	var res []int
	seen := make(map[circuit.ID]bool)
	var rec func(circuit.ID)
	rec = func(id circuit.ID) {
		for _, in := range b.g.Inputs(id) {
			if seen[in] {
				continue
			}
			seen[in] = true
			if b.g.Kind(in) == circuit.Proposition {
				res = append(res, n.slotOf[in])
			} else {
				rec(in)
			}
		}
	}
	rec(id)
	return res
}

// order sorts non-source propositions topologically.
// Ready propositions are ordered by when they became ready, ties by slot.
func (b *builder) order() error {
	n := b.net
	size := n.Size()
	n.Position = make([]int, size)
	pending := make([]int, size)
	dependents := make([][]int, size)
	var queue []int
	for slot := 0; slot < size; slot++ {
		n.Position[slot] = -1
		if n.IsSource(slot) {
			continue
		}
		for _, dep := range b.propDeps(n.Props[slot]) {
			if n.IsSource(dep) {
				continue
			}
			pending[slot]++
			dependents[dep] = append(dependents[dep], slot)
		}
		if pending[slot] == 0 {
			queue = append(queue, slot)
		}
	}
	for len(queue) > 0 {
		slot := queue[0]
		queue = queue[1:]
		n.Position[slot] = len(n.Order)
		n.Order = append(n.Order, slot)
		for _, d := range dependents[slot] {
			pending[d]--
			if pending[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	nbSources := n.NumBase + n.NumInput + 1
	if len(n.Order) != size-nbSources {
		var stuck []string
		for slot := 0; slot < size && len(stuck) < 3; slot++ {
			if !n.IsSource(slot) && n.Position[slot] == -1 {
				stuck = append(stuck, n.Term(slot).String())
			}
		}
		return buildErr("order", strings.Join(stuck, ", "), ErrCycle)
	}
	return nil
}

// dependencies computes, for each source, the ordered propositions it can influence.
// The traversal never goes through a base proposition, whose value only changes
// when the state changes.
func (b *builder) dependencies() {
	n := b.net
	size := n.Size()
	n.Deps = make([][]int32, size)
	n.Transitional = make([]bool, size)
	visited := make([]bool, b.g.Len())
	for slot := 0; slot < size; slot++ {
		if !n.IsSource(slot) {
			continue
		}
		for i := range visited {
			visited[i] = false
		}
		for i := 0; i < n.NumBase; i++ {
			visited[n.Props[i]] = true
		}
		src := n.Props[slot]
		visited[src] = true
		var queue []circuit.ID
		for _, out := range b.g.Outputs(src) {
			if !visited[out] {
				visited[out] = true
				queue = append(queue, out)
			}
		}
		deps := []int32{}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			switch b.g.Kind(id) {
			case circuit.Proposition:
				if pos := n.Position[n.slotOf[id]]; pos >= 0 {
					deps = append(deps, int32(pos))
				}
			case circuit.Transition:
				if outs := b.g.Outputs(id); len(outs) != 1 || outs[0] != src {
					n.Transitional[slot] = true
				}
			}
			for _, out := range b.g.Outputs(id) {
				if !visited[out] {
					visited[out] = true
					queue = append(queue, out)
				}
			}
		}
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		n.Deps[slot] = deps
	}
}

// Stats are counts about an indexed network. They are provided for information purpose only.
type Stats struct {
	NbProps       int
	NbBases       int
	NbInputs      int
	NbLegals      int
	NbGoals       int
	NbViews       int
	NbOrdered     int
	NbDeps        int // Total length of all dependency lists
	NbUnpaired    int // Legal propositions without a matching input
	NbTransitions int // Sources flagged as transitional
}

// Stats returns counts about n.
func (n *Net) Stats() Stats {
	st := Stats{
		NbProps:   n.Size(),
		NbBases:   n.NumBase,
		NbInputs:  n.NumInput,
		NbOrdered: len(n.Order),
	}
	for slot, c := range n.Class {
		switch c {
		case Legal:
			st.NbLegals++
			if n.Paired[slot] == -1 {
				st.NbUnpaired++
			}
		case Goal:
			st.NbGoals++
		case View:
			st.NbViews++
		}
		st.NbDeps += len(n.Deps[slot])
		if n.Transitional[slot] {
			st.NbTransitions++
		}
	}
	return st
}
