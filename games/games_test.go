package games

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		g, err := ByName(name)
		require.NoError(t, err, name)
		assert.NotZero(t, g.Graph.Len())
		assert.Len(t, g.Roles, 2)
	}
	_, err := ByName("chess")
	assert.Error(t, err)
}

func TestRandomIsDeterministic(t *testing.T) {
	g1 := Random(rand.New(rand.NewSource(3)), RandomOptions{})
	g2 := Random(rand.New(rand.NewSource(3)), RandomOptions{})
	require.Equal(t, g1.Graph.Len(), g2.Graph.Len())
	assert.Equal(t, g1.Graph.Stats(), g2.Graph.Stats())
	for _, id := range g1.Graph.Propositions() {
		assert.Equal(t, g1.Graph.Term(id).String(), g2.Graph.Term(id).String())
	}
}

func TestAlignments(t *testing.T) {
	assert.Len(t, alignments(3, 3, 3), 8)
	assert.Len(t, alignments(4, 4, 3), 24)
	assert.Len(t, alignments(15, 15, 5), 572)
}

func TestTicTacToeShape(t *testing.T) {
	g := TicTacToe()
	st := g.Graph.Stats()
	assert.Equal(t, 19, st.NbTransitions)
	assert.Equal(t, 0, st.NbConstants)
}
