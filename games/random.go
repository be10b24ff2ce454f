package games

import (
	"math/rand"
	"strconv"

	"github.com/ggp-go/propnet/circuit"
)

// RandomOptions tune the shape of a random game. Zero fields get a default value.
type RandomOptions struct {
	Roles   int // Number of roles (2)
	Bases   int // Number of base propositions, not counting the clock (12)
	Actions int // Number of actions per role (4)
	Gates   int // Number of gates (60)
	Steps   int // Maximum number of moves before the game ends (20)
}

func (o *RandomOptions) defaults() {
	if o.Roles <= 0 {
		o.Roles = 2
	}
	if o.Bases <= 0 {
		o.Bases = 12
	}
	if o.Actions <= 0 {
		o.Actions = 4
	}
	if o.Gates <= 0 {
		o.Gates = 60
	}
	if o.Steps <= 0 {
		o.Steps = 20
	}
}

// Random returns a well-formed random game. The same rng state always yields the same
// game.
//
// Every role can always play its first action, exactly one goal proposition per role is
// true in every state, the initial state is not terminal and the game always ends after
// at most opts.Steps moves.
func Random(rng *rand.Rand, opts RandomOptions) *Game {
	opts.defaults()
	g := circuit.NewGraph()
	roles := make([]circuit.Role, opts.Roles)
	for i := range roles {
		roles[i] = circuit.Role("r" + strconv.Itoa(i))
	}
	init := g.AddProposition(circuit.Const("init"))

	bases := make([]circuit.ID, opts.Bases)
	for i := range bases {
		bases[i] = base(g, circuit.Consts("f", strconv.Itoa(i)))
	}
	pool := append([]circuit.ID{}, bases...)
	for _, r := range roles {
		for a := 0; a < opts.Actions; a++ {
			pool = append(pool, g.AddProposition(Does(r, action(a))))
		}
	}

	pick := func() circuit.ID {
		return pool[rng.Intn(len(pool))]
	}
	nbViews := 0
	for i := 0; i < opts.Gates; i++ {
		var gate circuit.ID
		switch rng.Intn(3) {
		case 0:
			gate = g.AddNot(pick())
		case 1:
			gate = g.AddAnd(distinct(pick, 1+rng.Intn(3))...)
		default:
			gate = g.AddOr(distinct(pick, 1+rng.Intn(3))...)
		}
		pool = append(pool, gate)
		if rng.Intn(4) == 0 {
			pool = append(pool, g.Define(circuit.Consts("v", strconv.Itoa(nbViews)), gate))
			nbViews++
		}
	}

	for _, b := range bases {
		if rng.Intn(3) == 0 {
			next(g, b, g.AddOr(init, pick()))
		} else {
			next(g, b, pick())
		}
	}
	clock := make([]circuit.ID, opts.Steps+1)
	for i := 1; i <= opts.Steps; i++ {
		clock[i] = base(g, Step(i))
	}
	next(g, clock[1], init)
	for i := 2; i <= opts.Steps; i++ {
		next(g, clock[i], clock[i-1])
	}
	// clock[1] only holds in the initial state, which is never terminal.
	g.Define(circuit.Const("terminal"), g.AddOr(g.AddAnd(pick(), g.AddNot(clock[1])), clock[opts.Steps]))

	always := g.AddConstant(true)
	for _, r := range roles {
		g.Define(LegalTerm(r, action(0)), always)
		for a := 1; a < opts.Actions; a++ {
			g.Define(LegalTerm(r, action(a)), pick())
		}
		win := g.Define(GoalTerm(r, 100), pick())
		g.Define(GoalTerm(r, 0), g.AddNot(win))
	}
	return &Game{Name: "random", Graph: g, Roles: roles}
}

func action(a int) circuit.Term {
	return circuit.Consts("a", strconv.Itoa(a))
}

// distinct returns up to n distinct components drawn with pick.
func distinct(pick func() circuit.ID, n int) []circuit.ID {
	seen := make(map[circuit.ID]bool, n)
	var res []circuit.ID
	for i := 0; i < n; i++ {
		id := pick()
		if !seen[id] {
			seen[id] = true
			res = append(res, id)
		}
	}
	return res
}
