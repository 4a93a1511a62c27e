package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/chips"
)

func TestRebuildSinglePot(t *testing.T) {
	t.Parallel()
	players := []*Player{
		{ID: "a", Seat: 0, TotalBet: 30},
		{ID: "b", Seat: 1, TotalBet: 30},
		{ID: "c", Seat: 2, TotalBet: 5, Folded: true},
	}

	pm := newPotManager()
	pm.rebuild(players)
	pots := pm.snapshot()

	require.Len(t, pots, 1)
	assert.Equal(t, chips.MustNew(65), pots[0].Amount, "dead money stays in the pot")
	assert.Equal(t, []string{"a", "b"}, pots[0].Eligible)
	assert.Equal(t, MainPot, pots[0].Kind)
}

func TestRebuildLayersSidePots(t *testing.T) {
	t.Parallel()
	players := []*Player{
		{ID: "a", Seat: 0, TotalBet: 200},
		{ID: "b", Seat: 1, TotalBet: 50, AllIn: true},
		{ID: "c", Seat: 2, TotalBet: 100, AllIn: true},
		{ID: "d", Seat: 3, TotalBet: 200, Folded: true},
	}

	pm := newPotManager()
	pm.rebuild(players)
	pots := pm.snapshot()

	require.Len(t, pots, 3)

	assert.Equal(t, chips.MustNew(200), pots[0].Amount)
	assert.Equal(t, []string{"a", "b", "c"}, pots[0].Eligible)
	assert.Equal(t, MainPot, pots[0].Kind)

	assert.Equal(t, chips.MustNew(150), pots[1].Amount)
	assert.Equal(t, []string{"a", "c"}, pots[1].Eligible)
	assert.Equal(t, SidePot, pots[1].Kind)

	assert.Equal(t, chips.MustNew(200), pots[2].Amount)
	assert.Equal(t, []string{"a"}, pots[2].Eligible)
	assert.Equal(t, SidePot, pots[2].Kind)

	assert.Equal(t, chips.MustNew(550), pm.total())
}

func TestRebuildIsIdempotent(t *testing.T) {
	t.Parallel()
	players := []*Player{
		{ID: "a", Seat: 0, TotalBet: 100},
		{ID: "b", Seat: 1, TotalBet: 40, AllIn: true},
	}

	pm := newPotManager()
	pm.rebuild(players)
	first := pm.snapshot()
	pm.rebuild(players)
	second := pm.snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, chips.MustNew(140), pm.total())
}

func TestEqualAllInsShareOneLevel(t *testing.T) {
	t.Parallel()
	players := []*Player{
		{ID: "a", Seat: 0, TotalBet: 80, AllIn: true},
		{ID: "b", Seat: 1, TotalBet: 80, AllIn: true},
		{ID: "c", Seat: 2, TotalBet: 80},
	}

	pm := newPotManager()
	pm.rebuild(players)
	pots := pm.snapshot()

	require.Len(t, pots, 1)
	assert.Equal(t, chips.MustNew(240), pots[0].Amount)
	assert.Equal(t, []string{"a", "b", "c"}, pots[0].Eligible)
}

func TestClearEmptiesManager(t *testing.T) {
	t.Parallel()
	pm := newPotManager()
	pm.rebuild([]*Player{{ID: "a", TotalBet: 10}, {ID: "b", TotalBet: 10}})
	require.NotZero(t, pm.total())

	pm.clear()
	assert.Equal(t, chips.Zero, pm.total())
	assert.Empty(t, pm.snapshot())
}
