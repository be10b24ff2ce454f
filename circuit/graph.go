package circuit

import "fmt"

// Kind is the type of a component.
type Kind byte

const (
	// Proposition is a named node holding a truth value.
	Proposition = Kind(iota)
	// And is true iff all its inputs are true.
	And
	// Or is true iff at least one of its inputs is true.
	Or
	// Not negates its single input.
	Not
	// Transition carries its input's current value to the base proposition it feeds,
	// in the next state.
	Transition
	// Constant has a fixed value and no input.
	Constant
)

func (k Kind) String() string {
	switch k {
	case Proposition:
		return "PROPOSITION"
	case And:
		return "AND"
	case Or:
		return "OR"
	case Not:
		return "NOT"
	case Transition:
		return "TRANSITION"
	case Constant:
		return "CONSTANT"
	default:
		panic("invalid kind")
	}
}

// ID identifies a component in its Graph.
type ID int32

// NoID is never the ID of a component.
const NoID = ID(-1)

// A Component is a node of the network.
type Component struct {
	Kind    Kind
	Term    Term // Only meaningful for propositions
	Value   bool // Only meaningful for constants
	Inputs  []ID
	Outputs []ID
}

// A Graph is an arena of components.
// Once handed to a later stage, a Graph must not be modified anymore.
type Graph struct {
	comps []Component
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the number of components in g. Valid IDs are 0..Len()-1.
func (g *Graph) Len() int {
	return len(g.comps)
}

// At returns the component with the given ID.
// The returned pointer must be considered read-only.
func (g *Graph) At(id ID) *Component {
	return &g.comps[id]
}

// Kind returns the kind of the component id.
func (g *Graph) Kind(id ID) Kind {
	return g.comps[id].Kind
}

// Term returns the term of the proposition id.
func (g *Graph) Term(id ID) Term {
	return g.comps[id].Term
}

// Inputs returns the inputs of the component id.
func (g *Graph) Inputs(id ID) []ID {
	return g.comps[id].Inputs
}

// Outputs returns the outputs of the component id.
func (g *Graph) Outputs(id ID) []ID {
	return g.comps[id].Outputs
}

// Propositions returns the IDs of all propositions, in ascending order.
func (g *Graph) Propositions() []ID {
	var res []ID
	for i := range g.comps {
		if g.comps[i].Kind == Proposition {
			res = append(res, ID(i))
		}
	}
	return res
}

func (g *Graph) add(c Component) ID {
	id := ID(len(g.comps))
	g.comps = append(g.comps, c)
	return id
}

func (g *Graph) check(id ID) {
	if id < 0 || int(id) >= len(g.comps) {
		panic(fmt.Errorf("invalid component id %d", id))
	}
}

// AddProposition adds a proposition named after t, without any input.
func (g *Graph) AddProposition(t Term) ID {
	return g.add(Component{Kind: Proposition, Term: t})
}

// AddAnd adds an AND gate fed by ins.
func (g *Graph) AddAnd(ins ...ID) ID {
	return g.addGate(And, ins)
}

// AddOr adds an OR gate fed by ins.
func (g *Graph) AddOr(ins ...ID) ID {
	return g.addGate(Or, ins)
}

// AddNot adds a NOT gate fed by in.
func (g *Graph) AddNot(in ID) ID {
	return g.addGate(Not, []ID{in})
}

// AddTransition adds a transition fed by in.
// The transition must then be connected to the base proposition it drives.
func (g *Graph) AddTransition(in ID) ID {
	return g.addGate(Transition, []ID{in})
}

// AddConstant adds a constant component.
func (g *Graph) AddConstant(val bool) ID {
	return g.add(Component{Kind: Constant, Value: val})
}

func (g *Graph) addGate(k Kind, ins []ID) ID {
	id := g.add(Component{Kind: k})
	for _, in := range ins {
		g.Connect(in, id)
	}
	return id
}

// Connect adds an edge from the component from to the component to.
func (g *Graph) Connect(from, to ID) {
	g.check(from)
	g.check(to)
	g.comps[from].Outputs = append(g.comps[from].Outputs, to)
	g.comps[to].Inputs = append(g.comps[to].Inputs, from)
}

// Define adds a proposition named after t whose only input is in.
func (g *Graph) Define(t Term, in ID) ID {
	p := g.AddProposition(t)
	g.Connect(in, p)
	return p
}

// Stats are counts about a graph. They are provided for information purpose only.
type Stats struct {
	NbComponents   int
	NbPropositions int
	NbAnds         int
	NbOrs          int
	NbNots         int
	NbTransitions  int
	NbConstants    int
	NbLinks        int
}

// Stats returns the counts of components of each kind in g.
func (g *Graph) Stats() Stats {
	st := Stats{NbComponents: len(g.comps)}
	for i := range g.comps {
		c := &g.comps[i]
		st.NbLinks += len(c.Outputs)
		switch c.Kind {
		case Proposition:
			st.NbPropositions++
		case And:
			st.NbAnds++
		case Or:
			st.NbOrs++
		case Not:
			st.NbNots++
		case Transition:
			st.NbTransitions++
		case Constant:
			st.NbConstants++
		}
	}
	return st
}

// String returns a short description of the component id, for debugging purposes.
func (g *Graph) String(id ID) string {
	c := &g.comps[id]
	switch c.Kind {
	case Proposition:
		return c.Term.String()
	case Constant:
		return fmt.Sprintf("%v#%d(%t)", c.Kind, id, c.Value)
	default:
		return fmt.Sprintf("%v#%d", c.Kind, id)
	}
}
