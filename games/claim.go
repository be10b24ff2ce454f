package games

import (
	"fmt"
	"strconv"

	"github.com/ggp-go/propnet/circuit"
)

// Roles of the claim race.
const (
	Alpha = circuit.Role("alpha")
	Beta  = circuit.Role("beta")
)

// Actions of the claim race.
var (
	ClaimAction = circuit.Const("claim")
	Pass        = circuit.Const("pass")
)

// Won returns the fact "r won the race".
func Won(r circuit.Role) circuit.Term {
	return circuit.Func("won", r.Term())
}

// Step returns the fact "the race is at step i".
func Step(i int) circuit.Term {
	return circuit.Consts("step", strconv.Itoa(i))
}

// Claim returns a race between alpha and beta, played simultaneously for at most limit
// steps. At each step, both players may claim or pass. The first claim wins the race,
// alpha taking precedence over beta when both claim at once. The winner gets 100 and
// the loser 0, and nobody gets anything when time runs out.
//
// Once set, (true (won alpha)) is never unset again: it is a 1-latch, and it prevents
// beta from ever reaching 100.
func Claim(limit int) *Game {
	if limit < 1 {
		limit = 1
	}
	g := circuit.NewGraph()
	roles := []circuit.Role{Alpha, Beta}
	init := g.AddProposition(circuit.Const("init"))
	always := g.AddConstant(true)

	does := make(map[circuit.Role]circuit.ID)
	for _, r := range roles {
		g.Define(LegalTerm(r, ClaimAction), always)
		g.Define(LegalTerm(r, Pass), always)
		does[r] = g.AddProposition(Does(r, ClaimAction))
		g.AddProposition(Does(r, Pass))
	}

	wonA := base(g, Won(Alpha))
	wonB := base(g, Won(Beta))
	next(g, wonA, g.AddOr(wonA, g.AddAnd(does[Alpha], g.AddNot(wonB))))
	next(g, wonB, g.AddOr(wonB, g.AddAnd(does[Beta], g.AddNot(wonA), g.AddNot(does[Alpha]))))

	steps := make([]circuit.ID, limit+1)
	for i := 1; i <= limit; i++ {
		steps[i] = base(g, Step(i))
	}
	next(g, steps[1], init)
	for i := 2; i <= limit; i++ {
		next(g, steps[i], steps[i-1])
	}
	timeout := g.Define(circuit.Const("timeout"), steps[limit])
	g.Define(circuit.Const("terminal"), g.AddOr(wonA, wonB, timeout))

	for _, r := range roles {
		mine, theirs := wonA, wonB
		if r == Beta {
			mine, theirs = wonB, wonA
		}
		win := g.Define(GoalTerm(r, 100), g.AddAnd(mine, g.AddNot(theirs)))
		g.Define(GoalTerm(r, 0), g.AddNot(win))
	}
	return &Game{Name: fmt.Sprintf("claim-%d", limit), Graph: g, Roles: roles}
}
