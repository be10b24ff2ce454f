package games

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ggp-go/propnet/circuit"
)

// A Game is a circuit along with the roles playing it.
type Game struct {
	Name  string
	Graph *circuit.Graph
	Roles []circuit.Role
}

var registry = map[string]func() *Game{
	"tictactoe": TicTacToe,
	"gomoku":    func() *Game { return MNK(15, 15, 5) },
	"claim":     func() *Game { return Claim(10) },
	"random":    func() *Game { return Random(rand.New(rand.NewSource(1)), RandomOptions{}) },
}

// Names returns the names of all registered games, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName builds the registered game with the given name.
func ByName(name string) (*Game, error) {
	mk, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unknown game %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// True returns the term of the base proposition holding the given fact.
func True(fact circuit.Term) circuit.Term {
	return circuit.Func("true", fact)
}

// Does returns the term of the input proposition for role r taking action.
func Does(r circuit.Role, action circuit.Term) circuit.Term {
	return circuit.Func("does", r.Term(), action)
}

// LegalTerm returns the term of the legal proposition for role r taking action.
func LegalTerm(r circuit.Role, action circuit.Term) circuit.Term {
	return circuit.Func("legal", r.Term(), action)
}

// GoalTerm returns the term of the goal proposition for role r getting val.
func GoalTerm(r circuit.Role, val int) circuit.Term {
	return circuit.Func("goal", r.Term(), circuit.Const(strconv.Itoa(val)))
}

// base adds a base proposition for fact. Its transition must be set with next.
func base(g *circuit.Graph, fact circuit.Term) circuit.ID {
	return g.AddProposition(True(fact))
}

// next makes in the value of the base proposition b in the next state.
func next(g *circuit.Graph, b, in circuit.ID) {
	g.Connect(g.AddTransition(in), b)
}
