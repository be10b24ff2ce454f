package propnet

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggp-go/propnet/circuit"
	"github.com/ggp-go/propnet/games"
)

func TestBuildTicTacToe(t *testing.T) {
	g := games.TicTacToe()
	n, err := Build(g.Graph, g.Roles)
	require.NoError(t, err)

	assert.Equal(t, 19, n.NumBase, "18 cell marks and a control mark")
	assert.Equal(t, 20, n.NumInput)
	assert.Equal(t, Init, n.Class[n.InitSlot])
	assert.Equal(t, Terminal, n.Class[n.TerminalSlot])
	assert.Equal(t, "terminal", n.Term(n.TerminalSlot).String())
	for r := range g.Roles {
		marks := 0
		for _, l := range n.Legals[r] {
			if n.Action[l].Name == "mark" {
				marks++
			}
			in := n.Paired[l]
			require.NotEqual(t, -1, in, "legal %v is not paired", n.Term(l))
			assert.True(t, n.IsInput(in))
			assert.Equal(t, l, n.Paired[in])
			assert.True(t, n.Action[l].Equal(n.Action[in]))
			assert.Equal(t, r, n.Owner[in])
		}
		assert.Equal(t, 9, marks)
		assert.Len(t, n.Legals[r], 10)
		assert.Len(t, n.Inputs[r], 10)
		assert.Len(t, n.Goals[r], 3)
	}
	for slot := 0; slot < n.NumBase; slot++ {
		assert.Equal(t, Base, n.Class[slot])
		assert.Equal(t, "true", n.Term(slot).Name)
		assert.Equal(t, circuit.Transition, n.Graph.Kind(n.Transition(slot)))
	}
	slot, ok := n.InputSlot(n.RoleIndex(games.OPlayer), games.Mark(2, 3))
	require.True(t, ok)
	assert.Equal(t, games.Does(games.OPlayer, games.Mark(2, 3)).String(), n.Term(slot).String())
	_, ok = n.InputSlot(0, circuit.Const("jump"))
	assert.False(t, ok)
	assert.Equal(t, -1, n.RoleIndex("nobody"))
}

func TestSlotLayout(t *testing.T) {
	g := games.Random(rand.New(rand.NewSource(7)), games.RandomOptions{})
	n, err := Build(g.Graph, g.Roles)
	require.NoError(t, err)
	for slot, c := range n.Class {
		switch {
		case slot < n.NumBase:
			assert.Equal(t, Base, c)
		case slot < n.NumBase+n.NumInput:
			assert.Equal(t, Input, c)
		default:
			assert.NotEqual(t, Base, c)
			assert.NotEqual(t, Input, c)
		}
		assert.Equal(t, slot, n.Slot(n.Props[slot]))
	}
}

// directDeps returns the propositions the proposition id reads through gates.
func directDeps(g *circuit.Graph, id circuit.ID) []circuit.ID {
	var res []circuit.ID
	var rec func(circuit.ID)
	rec = func(id circuit.ID) {
		for _, in := range g.Inputs(id) {
			if g.Kind(in) == circuit.Proposition {
				res = append(res, in)
			} else {
				rec(in)
			}
		}
	}
	rec(id)
	return res
}

func TestOrderIsTopological(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := games.Random(rand.New(rand.NewSource(seed)), games.RandomOptions{Gates: 120})
		n, err := Build(g.Graph, g.Roles)
		require.NoError(t, err)
		assert.Len(t, n.Order, n.Size()-n.NumBase-n.NumInput-1)
		for pos, slot := range n.Order {
			require.Equal(t, pos, n.Position[slot])
			for _, dep := range directDeps(n.Graph, n.Props[slot]) {
				ds := n.Slot(dep)
				if n.IsSource(ds) {
					continue
				}
				assert.Less(t, n.Position[ds], pos, "seed %d: %v ordered before %v", seed, n.Term(slot), n.Term(ds))
			}
		}
	}
}

func TestOrderIsStable(t *testing.T) {
	g1 := games.TicTacToe()
	g2 := games.TicTacToe()
	n1, err := Build(g1.Graph, g1.Roles)
	require.NoError(t, err)
	n2, err := Build(g2.Graph, g2.Roles)
	require.NoError(t, err)
	if diff := cmp.Diff(n1.Order, n2.Order); diff != "" {
		t.Errorf("order differs between builds (-first +second):\n%s", diff)
	}
}

// reachable returns the sorted order positions reachable from the source slot,
// without going through base propositions.
func reachable(n *Net, slot int) []int32 {
	seen := make(map[circuit.ID]bool)
	var res []int32
	var rec func(circuit.ID)
	rec = func(id circuit.ID) {
		for _, out := range n.Graph.Outputs(id) {
			if seen[out] {
				continue
			}
			seen[out] = true
			if n.Graph.Kind(out) == circuit.Proposition {
				s := n.Slot(out)
				if n.IsBase(s) {
					continue
				}
				if n.Position[s] >= 0 {
					res = append(res, int32(n.Position[s]))
				}
			}
			rec(out)
		}
	}
	rec(n.Props[slot])
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func TestDependencyMap(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := games.Random(rand.New(rand.NewSource(seed)), games.RandomOptions{})
		n, err := Build(g.Graph, g.Roles)
		require.NoError(t, err)
		for slot := 0; slot < n.Size(); slot++ {
			if !n.IsSource(slot) {
				assert.Nil(t, n.Deps[slot])
				continue
			}
			want := reachable(n, slot)
			if want == nil {
				want = []int32{}
			}
			if diff := cmp.Diff(want, n.Deps[slot]); diff != "" {
				t.Errorf("seed %d: invalid dependencies for %v (-want +got):\n%s", seed, n.Term(slot), diff)
			}
		}
	}
}

func TestTransitional(t *testing.T) {
	g := games.Claim(3)
	n, err := Build(g.Graph, g.Roles)
	require.NoError(t, err)
	a := n.RoleIndex(games.Alpha)
	claim, ok := n.InputSlot(a, games.ClaimAction)
	require.True(t, ok)
	assert.True(t, n.Transitional[claim])
	pass, ok := n.InputSlot(a, games.Pass)
	require.True(t, ok)
	assert.False(t, n.Transitional[pass])
	assert.Empty(t, n.Deps[pass])
	assert.True(t, n.Transitional[n.InitSlot])
}

func TestUnpairedLegal(t *testing.T) {
	g := circuit.NewGraph()
	g.AddProposition(circuit.Const("init"))
	g.Define(circuit.Const("terminal"), g.AddConstant(false))
	g.Define(games.LegalTerm("p", circuit.Const("wait")), g.AddConstant(true))
	n, err := Build(g, []circuit.Role{"p"})
	require.NoError(t, err)
	require.Len(t, n.Legals[0], 1)
	assert.Equal(t, -1, n.Paired[n.Legals[0][0]])
	assert.Equal(t, 1, n.Stats().NbUnpaired)
}

func TestBuildErrors(t *testing.T) {
	minimal := func() *circuit.Graph {
		g := circuit.NewGraph()
		g.AddProposition(circuit.Const("init"))
		g.Define(circuit.Const("terminal"), g.AddConstant(false))
		return g
	}
	tests := []struct {
		name  string
		roles []circuit.Role
		graph func() *circuit.Graph
		want  error
	}{
		{"no role", []circuit.Role{}, minimal, ErrNoRoles},
		{"duplicate role", []circuit.Role{"p", "p"}, minimal, ErrDuplicate},
		{"no init", []circuit.Role{"p"}, func() *circuit.Graph {
			g := circuit.NewGraph()
			g.Define(circuit.Const("terminal"), g.AddConstant(false))
			return g
		}, ErrNoInit},
		{"no terminal", []circuit.Role{"p"}, func() *circuit.Graph {
			g := circuit.NewGraph()
			g.AddProposition(circuit.Const("INIT"))
			return g
		}, ErrNoTerminal},
		{"duplicate init", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			g.AddProposition(circuit.Const("Init"))
			return g
		}, ErrDuplicate},
		{"base fan-in", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			b := g.AddProposition(games.True(circuit.Const("on")))
			g.Connect(g.AddTransition(b), b)
			g.Connect(g.AddConstant(true), b)
			return g
		}, ErrBaseFanIn},
		{"view fan-in", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			v := g.Define(circuit.Const("v"), g.AddConstant(true))
			g.Connect(g.AddConstant(false), v)
			return g
		}, ErrFanIn},
		{"input with inputs", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			g.Define(games.Does("p", circuit.Const("a")), g.AddConstant(true))
			return g
		}, ErrFanIn},
		{"not arity", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			not := g.AddNot(g.AddConstant(true))
			g.Connect(g.AddConstant(false), not)
			return g
		}, ErrGateArity},
		{"unknown role", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			g.Define(games.LegalTerm("q", circuit.Const("a")), g.AddConstant(true))
			return g
		}, ErrUnknownRole},
		{"goal value", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			g.Define(circuit.Consts("goal", "p", "lots"), g.AddConstant(true))
			return g
		}, ErrGoalValue},
		{"cycle", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			a := g.AddProposition(circuit.Const("a"))
			b := g.Define(circuit.Const("b"), g.AddNot(a))
			g.Connect(g.AddNot(b), a)
			return g
		}, ErrCycle},
		{"gate cycle", []circuit.Role{"p"}, func() *circuit.Graph {
			g := minimal()
			q := g.AddProposition(games.Does("p", circuit.Const("a")))
			or := g.AddOr(q)
			g.Connect(g.AddAnd(or), or)
			g.Define(circuit.Const("v"), or)
			return g
		}, ErrCycle},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n, err := Build(test.graph(), test.roles)
			assert.Nil(t, n)
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.want), "got %v, want %v", err, test.want)
			var berr *BuildError
			require.True(t, errors.As(err, &berr))
			assert.Contains(t, berr.Error(), "propnet: ")
		})
	}
}

func TestStats(t *testing.T) {
	g := games.Claim(4)
	n, err := Build(g.Graph, g.Roles)
	require.NoError(t, err)
	st := n.Stats()
	assert.Equal(t, 6, st.NbBases)
	assert.Equal(t, 4, st.NbInputs)
	assert.Equal(t, 4, st.NbLegals)
	assert.Equal(t, 4, st.NbGoals)
	assert.Equal(t, 0, st.NbUnpaired)
	assert.Equal(t, n.Size(), st.NbProps)
}

func TestReservedNamesIgnoreCase(t *testing.T) {
	g := circuit.NewGraph()
	g.AddProposition(circuit.Const("INIT"))
	g.Define(circuit.Const("Terminal"), g.AddConstant(false))
	legal := g.Define(circuit.Func("LEGAL", circuit.Const("p"), circuit.Const("a")), g.AddConstant(true))
	does := g.AddProposition(circuit.Func("Does", circuit.Const("p"), circuit.Const("a")))
	goal := g.Define(circuit.Consts("GOAL", "p", "100"), does)
	n, err := Build(g, []circuit.Role{"p"})
	require.NoError(t, err)
	assert.Equal(t, Terminal, n.Class[n.TerminalSlot])
	assert.Equal(t, Init, n.Class[n.InitSlot])
	assert.Equal(t, Legal, n.Class[n.Slot(legal)])
	assert.Equal(t, Input, n.Class[n.Slot(does)])
	assert.Equal(t, []GoalProp{{Slot: n.Slot(goal), Value: 100}}, n.Goals[0])
	assert.Equal(t, n.Slot(does), n.Paired[n.Slot(legal)])
}
