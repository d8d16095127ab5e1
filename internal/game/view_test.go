package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewFixture(t *testing.T) *Game {
	t.Helper()
	g, _ := newTestGame(t, threePlayers())
	ctx := context.Background()

	_, err := g.Play(ctx, req(0, 1, 2), true) // Alice gets a suit 2 card from Bob
	require.NoError(t, err)
	_, err = g.Play(ctx, req(1, 0, 0), false) // Alice has no suit 0
	require.NoError(t, err)
	return g
}

func TestNewView_DifficultyGates(t *testing.T) {
	g := viewFixture(t)
	names := g.Setup().Names

	tests := []struct {
		difficulty   int
		aliceKnown   []SuitCount
		aliceExclude []int
		bobKnown     []SuitCount
	}{
		{0, nil, nil, nil},
		{1, []SuitCount{{Suit: 2, Count: 1}}, []int{0}, nil},
		{2, []SuitCount{{Suit: 2, Count: 2}}, []int{0}, []SuitCount{{Suit: 0, Count: 1}}},
		{3, []SuitCount{{Suit: 2, Count: 2}}, []int{0}, []SuitCount{{Suit: 0, Count: 1}}},
	}
	for _, tt := range tests {
		v := NewView(g.Current(), names, tt.difficulty)

		assert.Equal(t, 2, v.Turn)
		assert.Equal(t, []int{5, 3, 4},
			[]int{v.Players[0].HandSize, v.Players[1].HandSize, v.Players[2].HandSize},
			"hand sizes are always shown")
		assert.Equal(t, tt.aliceKnown, v.Players[0].Known, "difficulty %d", tt.difficulty)
		assert.Equal(t, tt.aliceExclude, v.Players[0].Excluded, "difficulty %d", tt.difficulty)
		assert.Equal(t, tt.bobKnown, v.Players[1].Known, "difficulty %d", tt.difficulty)
	}
}

func TestView_String(t *testing.T) {
	g := viewFixture(t)
	v := NewView(g.Current(), g.Setup().Names, 2)

	assert.Equal(t,
		"turn 2 (difficulty 2)\n"+
			"  Alice: 5 card(s); holds 2x suit 2; lacks suit 0\n"+
			"  Bob: 3 card(s); holds 1x suit 0\n"+
			"  Charlie: 4 card(s)\n",
		v.String())
}

func TestNewView_FallbackNames(t *testing.T) {
	g := viewFixture(t)
	v := NewView(g.Current(), []string{"Alice"}, 0)
	assert.Equal(t, "Alice", v.Players[0].Name)
	assert.Equal(t, "Player 1", v.Players[1].Name)
}
