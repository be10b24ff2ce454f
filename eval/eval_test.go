package eval

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggp-go/propnet/circuit"
	"github.com/ggp-go/propnet/games"
	"github.com/ggp-go/propnet/propnet"
)

func compile(t *testing.T, g *games.Game) *Program {
	t.Helper()
	n, err := propnet.Build(g.Graph, g.Roles)
	require.NoError(t, err)
	return Compile(n)
}

func randomBools(rng *rand.Rand, n int) []bool {
	res := make([]bool, n)
	for i := range res {
		res[i] = rng.Intn(2) == 0
	}
	return res
}

func randomMoves(rng *rand.Rand, n *propnet.Net) []int {
	var moves []int
	for _, inputs := range n.Inputs {
		moves = append(moves, inputs[rng.Intn(len(inputs))])
	}
	return moves
}

// full evaluates the network from scratch.
func full(e *Evaluator, bases []bool, moves []int) {
	e.Clear()
	e.SetBaseProps(bases)
	for _, m := range moves {
		e.SetTrue(m)
	}
	e.Update()
}

func TestNewEvaluatorIsSettled(t *testing.T) {
	p := compile(t, games.Claim(5))
	e := p.NewEvaluator()
	n := p.Net()
	for _, legals := range n.Legals {
		for _, l := range legals {
			assert.True(t, e.Value(l), "%v should be true", n.Term(l))
		}
	}
	for r := range n.Roles {
		for _, g := range n.Goals[r] {
			assert.Equal(t, g.Value == 0, e.Value(g.Slot), "%v", n.Term(g.Slot))
		}
	}
}

func TestPropagateMatchesUpdate(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := compile(t, games.Random(rng, games.RandomOptions{}))
		n := p.Net()
		ref := p.NewEvaluator()
		diff := p.NewEvaluator()
		for i := 0; i < 50; i++ {
			bases := randomBools(rng, n.NumBase)
			moves := randomMoves(rng, n)
			full(ref, bases, moves)
			diff.Propagate(bases, moves)
			if d := cmp.Diff(ref.Values(), diff.Values()); d != "" {
				t.Fatalf("seed %d, step %d: propagation differs from full update (-full +diff):\n%s", seed, i, d)
			}
		}
	}
}

func TestPropagateNextMatchesUpdate(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p := compile(t, games.Random(rng, games.RandomOptions{Gates: 90}))
		n := p.Net()
		ref := p.NewEvaluator()
		diff := p.NewEvaluator()
		bases := randomBools(rng, n.NumBase)
		for i := 0; i < 40; i++ {
			moves := randomMoves(rng, n)
			full(ref, bases, moves)
			ref.UpdateBases()
			ref.ClearInputs()
			ref.Update()
			want := ref.Bases(nil)

			got, _ := diff.PropagateNext(nil, bases, moves)
			require.Equal(t, want, got, "seed %d, step %d", seed, i)
			require.Equal(t, ref.Values(), diff.Values(), "seed %d, step %d", seed, i)
			bases = got
		}
	}
}

func TestPropagateOnlyTouchesDependents(t *testing.T) {
	p := compile(t, games.TicTacToe())
	n := p.Net()
	e := p.NewEvaluator()
	bases := make([]bool, n.NumBase)
	assert.Zero(t, e.Propagate(bases, nil), "nothing changed")
	nb := e.Propagate(bases, []int{n.Inputs[0][0]})
	assert.Equal(t, len(n.Deps[n.Inputs[0][0]]), nb)
	assert.Less(t, nb, len(n.Order))
}

func TestUpdateBasesUsesCurrentValues(t *testing.T) {
	p := compile(t, games.Claim(3))
	n := p.Net()
	e := p.NewEvaluator()
	slotOf := func(fact string) int {
		for slot := 0; slot < n.NumBase; slot++ {
			if n.Term(slot).Arg(0).String() == fact {
				return slot
			}
		}
		t.Fatalf("no base for %s", fact)
		return -1
	}
	step1, step2, step3 := slotOf("(step 1)"), slotOf("(step 2)"), slotOf("(step 3)")
	e.SetTrue(n.InitSlot)
	e.Update()
	e.UpdateBases()
	assert.True(t, e.Value(step1))
	e.SetFalse(n.InitSlot)
	e.Update()
	next := e.NextBases(nil)
	assert.True(t, e.Value(step1), "NextBases must not modify the state")
	assert.False(t, next[step1])
	assert.True(t, next[step2])
	e.UpdateBases()
	assert.Equal(t, next, e.Bases(nil))
	assert.False(t, e.Value(step3))
}

func TestSetBasePropsPanics(t *testing.T) {
	p := compile(t, games.TicTacToe())
	e := p.NewEvaluator()
	assert.Panics(t, func() { e.SetBaseProps(make([]bool, 3)) })
	assert.Panics(t, func() { e.Propagate(make([]bool, 3), nil) })
}

func BenchmarkUpdate(b *testing.B) {
	g := games.MNK(7, 7, 4)
	n, err := propnet.Build(g.Graph, g.Roles)
	require.NoError(b, err)
	e := Compile(n).NewEvaluator()
	rng := rand.New(rand.NewSource(1))
	bases := randomBools(rng, n.NumBase)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		full(e, bases, nil)
	}
}

func BenchmarkPropagate(b *testing.B) {
	g := games.MNK(7, 7, 4)
	n, err := propnet.Build(g.Graph, g.Roles)
	require.NoError(b, err)
	e := Compile(n).NewEvaluator()
	rng := rand.New(rand.NewSource(1))
	bases := [][]bool{randomBools(rng, n.NumBase), randomBools(rng, n.NumBase)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Propagate(bases[i%2], nil)
	}
}

// reconvergent returns a game whose view v is computed through depth levels of
// a' = (a or x) and (a or y), starting from the base b. v is b or (x and y).
func reconvergent(depth int) (g *games.Game, b, x, y, v circuit.ID) {
	gr := circuit.NewGraph()
	gr.AddProposition(circuit.Const("init"))
	gr.Define(circuit.Const("terminal"), gr.AddConstant(false))
	b = gr.AddProposition(games.True(circuit.Const("b")))
	x = gr.AddProposition(games.Does("p", circuit.Const("x")))
	y = gr.AddProposition(games.Does("p", circuit.Const("y")))
	always := gr.AddConstant(true)
	gr.Define(games.LegalTerm("p", circuit.Const("x")), always)
	gr.Define(games.LegalTerm("p", circuit.Const("y")), always)
	a := b
	for i := 0; i < depth; i++ {
		a = gr.AddAnd(gr.AddOr(a, x), gr.AddOr(a, y))
	}
	v = gr.Define(circuit.Const("v"), a)
	gr.Connect(gr.AddTransition(v), b)
	gr.Define(games.GoalTerm("p", 100), v)
	return &games.Game{Name: "reconvergent", Graph: gr, Roles: []circuit.Role{"p"}}, b, x, y, v
}

func TestSharedGates(t *testing.T) {
	g, b, x, y, v := reconvergent(64)
	p := compile(t, g)
	n := p.Net()
	ref := p.NewEvaluator()
	diff := p.NewEvaluator()
	for mask := 0; mask < 8; mask++ {
		bval, xval, yval := mask&1 != 0, mask&2 != 0, mask&4 != 0
		bases := make([]bool, n.NumBase)
		bases[n.Slot(b)] = bval
		var moves []int
		if xval {
			moves = append(moves, n.Slot(x))
		}
		if yval {
			moves = append(moves, n.Slot(y))
		}
		want := bval || (xval && yval)
		full(ref, bases, moves)
		assert.Equal(t, want, ref.Value(n.Slot(v)), "mask %d", mask)
		assert.Equal(t, []bool{want}, ref.NextBases(nil), "mask %d", mask)
		diff.Propagate(bases, moves)
		assert.Equal(t, want, diff.Value(n.Slot(v)), "mask %d", mask)
	}
}
