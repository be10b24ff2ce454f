package games

import (
	"fmt"
	"strconv"

	"github.com/ggp-go/propnet/circuit"
)

// Roles of the m,n,k-games.
const (
	XPlayer = circuit.Role("xplayer")
	OPlayer = circuit.Role("oplayer")
)

// Mark returns the action of marking cell (i, j). Indices start at 1.
func Mark(i, j int) circuit.Term {
	return circuit.Consts("mark", strconv.Itoa(i), strconv.Itoa(j))
}

// Cell returns the fact "cell (i, j) holds the mark of role r".
func Cell(i, j int, r circuit.Role) circuit.Term {
	return circuit.Consts("cell", strconv.Itoa(i), strconv.Itoa(j), markOf(r))
}

// Noop is the action of the player who is not in control.
var Noop = circuit.Const("noop")

// Control returns the fact "it is xplayer's turn".
func Control() circuit.Term {
	return circuit.Consts("control", string(XPlayer))
}

func markOf(r circuit.Role) string {
	if r == XPlayer {
		return "x"
	}
	return "o"
}

// TicTacToe is the m,n,k-game on a 3x3 board with lines of 3.
func TicTacToe() *Game {
	g := MNK(3, 3, 3)
	g.Name = "tictactoe"
	return g
}

// MNK returns the m,n,k-game: two players alternately mark an empty cell of an m x n
// board, xplayer first. The first to align k of their marks horizontally, vertically or
// diagonally wins 100 and the other gets 0. A full board without a line is a draw,
// worth 50 to both. The player not in control can only play noop.
func MNK(m, n, k int) *Game {
	g := circuit.NewGraph()
	roles := []circuit.Role{XPlayer, OPlayer}
	init := g.AddProposition(circuit.Const("init"))

	control := base(g, Control())
	next(g, control, g.AddOr(init, g.AddNot(control)))
	inControl := map[circuit.Role]circuit.ID{
		XPlayer: control,
		OPlayer: g.Define(circuit.Consts("control", string(OPlayer)), g.AddNot(control)),
	}

	cells := make(map[circuit.Role][][]circuit.ID)
	for _, r := range roles {
		cells[r] = make([][]circuit.ID, m+1)
		for i := 1; i <= m; i++ {
			cells[r][i] = make([]circuit.ID, n+1)
			for j := 1; j <= n; j++ {
				cells[r][i][j] = base(g, Cell(i, j, r))
			}
		}
	}

	var blanks []circuit.ID
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			filled := g.AddOr(cells[XPlayer][i][j], cells[OPlayer][i][j])
			blank := g.Define(circuit.Consts("blank", strconv.Itoa(i), strconv.Itoa(j)), g.AddNot(filled))
			blanks = append(blanks, blank)
			for _, r := range roles {
				g.Define(LegalTerm(r, Mark(i, j)), g.AddAnd(inControl[r], blank))
				does := g.AddProposition(Does(r, Mark(i, j)))
				marked := g.AddAnd(inControl[r], does, blank)
				cell := cells[r][i][j]
				next(g, cell, g.AddOr(cell, marked))
			}
		}
	}
	for _, r := range roles {
		other := OPlayer
		if r == OPlayer {
			other = XPlayer
		}
		g.Define(LegalTerm(r, Noop), inControl[other])
		g.AddProposition(Does(r, Noop))
	}

	lines := make(map[circuit.Role]circuit.ID)
	for _, r := range roles {
		var ands []circuit.ID
		for _, l := range alignments(m, n, k) {
			ins := make([]circuit.ID, len(l))
			for x, c := range l {
				ins[x] = cells[r][c[0]][c[1]]
			}
			ands = append(ands, g.AddAnd(ins...))
		}
		lines[r] = g.Define(circuit.Consts("line", markOf(r)), g.AddOr(ands...))
	}
	open := g.Define(circuit.Const("open"), g.AddOr(blanks...))
	g.Define(circuit.Const("terminal"), g.AddOr(lines[XPlayer], lines[OPlayer], g.AddNot(open)))

	for _, r := range roles {
		other := lines[OPlayer]
		if r == OPlayer {
			other = lines[XPlayer]
		}
		win := g.Define(GoalTerm(r, 100), g.AddAnd(lines[r], g.AddNot(other)))
		draw := g.Define(GoalTerm(r, 50), g.AddNot(g.AddOr(lines[XPlayer], lines[OPlayer], open)))
		g.Define(GoalTerm(r, 0), g.AddNot(g.AddOr(win, draw)))
	}
	return &Game{Name: fmt.Sprintf("mnk-%d-%d-%d", m, n, k), Graph: g, Roles: roles}
}

// alignments returns all sequences of k aligned cells on an m x n board.
func alignments(m, n, k int) [][][2]int {
	dirs := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	var res [][][2]int
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			for _, d := range dirs {
				ei, ej := i+d[0]*(k-1), j+d[1]*(k-1)
				if ei < 1 || ei > m || ej < 1 || ej > n {
					continue
				}
				line := make([][2]int, k)
				for x := 0; x < k; x++ {
					line[x] = [2]int{i + d[0]*x, j + d[1]*x}
				}
				res = append(res, line)
			}
		}
	}
	return res
}
