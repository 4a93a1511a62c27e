package game

import (
	"fmt"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

func TestShowdownAwardsBestHand(t *testing.T) {
	t.Parallel()
	ev := newScriptedEvaluator()
	g := newTestGame(t, []int64{1000, 1000, 1000}, WithEvaluator(ev))
	require.NoError(t, g.StartNewHand())
	ev.scoreSeat(g, 0, 1)
	ev.scoreSeat(g, 1, 3)
	ev.scoreSeat(g, 2, 2)

	mustAct(t, g, "p0", Call, 0)
	mustAct(t, g, "p1", Call, 0)
	mustAct(t, g, "p2", Check, 0)
	for _, id := range []string{"p1", "p2", "p0", "p1", "p2", "p0", "p1", "p2", "p0"} {
		mustAct(t, g, id, Check, 0)
	}

	require.Equal(t, Finished, g.Phase())
	assert.Len(t, g.CommunityCards(), 5)
	assert.Equal(t, chips.MustNew(1020), seatStack(g, 1))
	assert.Equal(t, chips.MustNew(990), seatStack(g, 0))
	assert.Equal(t, chips.MustNew(990), seatStack(g, 2))
	assert.Equal(t, chips.Zero, g.PotSize(), "contributions reset after the award")

	var awarded []PotAwarded
	for _, e := range g.DrainEvents() {
		if pa, ok := e.(PotAwarded); ok {
			awarded = append(awarded, pa)
		}
	}
	require.Len(t, awarded, 1)
	assert.Equal(t, "p1", awarded[0].PlayerID)
	assert.Equal(t, chips.MustNew(30), awarded[0].Amount)
	assert.Equal(t, MainPot, awarded[0].PotKind)
	assert.Equal(t, "scripted", awarded[0].HandDesc)
}

func TestSplitPotRemainderGoesLeftOfDealer(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, []int64{1000, 1000, 1000}, WithEvaluator(tieEvaluator{}))
	require.NoError(t, g.StartNewHand())

	// p1's dead small blind makes the pot 25, indivisible between the two
	// remaining players.
	mustAct(t, g, "p0", Call, 0)
	mustAct(t, g, "p1", Fold, 0)
	mustAct(t, g, "p2", Check, 0)
	for _, id := range []string{"p2", "p0", "p2", "p0", "p2", "p0"} {
		mustAct(t, g, id, Check, 0)
	}

	require.Equal(t, Finished, g.Phase())
	// The odd chip goes to the winner closest to the dealer's left: p2.
	assert.Equal(t, chips.MustNew(1003), seatStack(g, 2))
	assert.Equal(t, chips.MustNew(1002), seatStack(g, 0))
	assert.Equal(t, chips.MustNew(995), seatStack(g, 1))
}

func TestMultiWaySidePots(t *testing.T) {
	t.Parallel()
	ev := newScriptedEvaluator()
	g := newTestGame(t, []int64{200, 50, 100}, WithEvaluator(ev))
	require.NoError(t, g.StartNewHand())
	ev.scoreSeat(g, 0, 1)
	ev.scoreSeat(g, 1, 3)
	ev.scoreSeat(g, 2, 2)

	mustAct(t, g, "p0", AllIn, 0)
	mustAct(t, g, "p1", AllIn, 0)
	mustAct(t, g, "p2", AllIn, 0)

	require.Equal(t, Finished, g.Phase())
	assert.Len(t, g.CommunityCards(), 5, "board runs out with nobody left to act")

	// Main pot 150 (all three) to p1, side pot 100 (p0 vs p2) to p2, and
	// p0's uncalled 100 comes straight back.
	assert.Equal(t, chips.MustNew(150), seatStack(g, 1))
	assert.Equal(t, chips.MustNew(100), seatStack(g, 2))
	assert.Equal(t, chips.MustNew(100), seatStack(g, 0))
	assert.Equal(t, chips.MustNew(350), g.TotalChips())

	potsByKind := map[PotKind]int{}
	for _, e := range g.DrainEvents() {
		if pa, ok := e.(PotAwarded); ok {
			potsByKind[pa.PotKind]++
		}
	}
	assert.Equal(t, 1, potsByKind[MainPot])
	assert.Equal(t, 2, potsByKind[SidePot])
}

func TestSidePotWinnerOnlyTakesEligibleLayers(t *testing.T) {
	t.Parallel()
	ev := newScriptedEvaluator()
	g := newTestGame(t, []int64{200, 50, 100}, WithEvaluator(ev))
	require.NoError(t, g.StartNewHand())

	// The short stack has the best hand but only wins the layer it funded.
	ev.scoreSeat(g, 0, 3)
	ev.scoreSeat(g, 1, 5)
	ev.scoreSeat(g, 2, 1)

	mustAct(t, g, "p0", AllIn, 0)
	mustAct(t, g, "p1", AllIn, 0)
	mustAct(t, g, "p2", AllIn, 0)

	require.Equal(t, Finished, g.Phase())
	assert.Equal(t, chips.MustNew(150), seatStack(g, 1), "main pot only")
	assert.Equal(t, chips.MustNew(200), seatStack(g, 0), "side pot plus uncalled chips")
	assert.Equal(t, chips.Zero, seatStack(g, 2))

	var eliminated []PlayerEliminated
	for _, e := range g.DrainEvents() {
		if pe, ok := e.(PlayerEliminated); ok {
			eliminated = append(eliminated, pe)
		}
	}
	require.Len(t, eliminated, 1)
	assert.Equal(t, "p2", eliminated[0].PlayerID)
	assert.Equal(t, 3, eliminated[0].Position)
}

func TestAllInRunoutDealsRemainingStreets(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, []int64{500, 500})
	require.NoError(t, g.StartNewHand())
	g.DrainEvents()

	mustAct(t, g, "p0", AllIn, 0)
	mustAct(t, g, "p1", AllIn, 0)

	require.Equal(t, Finished, g.Phase())
	assert.Len(t, g.CommunityCards(), 5)

	phases := []Phase{}
	for _, e := range g.DrainEvents() {
		if pc, ok := e.(PhaseChanged); ok {
			phases = append(phases, pc.Phase)
		}
	}
	assert.Equal(t, []Phase{Flop, Turn, River, Showdown}, phases)
}

func TestChipConservationUnderRandomPlay(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			t.Parallel()
			rng := randutil.New(seed)
			g := newTestGame(t, []int64{300, 500, 200, 400}, WithRNG(randutil.New(seed+100)))
			total := g.TotalChips()

			for hand := 0; hand < 50 && !g.Finished(); hand++ {
				require.NoError(t, g.StartNewHand())
				for step := 0; ; step++ {
					require.Less(t, step, 2000, "betting round failed to terminate")
					p, ok := g.CurrentPlayer()
					if !ok {
						break
					}
					action, amount := randomLegalAction(g, p, rng)
					require.NoError(t, g.ExecuteAction(p.ID, action, amount))
					require.Equal(t, total, g.TotalChips(), "chips created or destroyed")
				}
				require.Equal(t, Finished, g.Phase())
				g.DrainEvents()
			}
		})
	}
}

// randomLegalAction picks an action that is legal for the current player by
// construction, so the only errors the conservation test can see are engine
// bugs.
func randomLegalAction(g *Game, p Player, rng *rand.Rand) (ActionType, chips.Chips) {
	round, _ := g.Round()
	toCall := round.CurrentBet.SubOrZero(p.Bet)

	if toCall.IsZero() {
		switch rng.IntN(4) {
		case 0:
			if round.CurrentBet.IsZero() && p.Stack.GreaterEq(g.BigBlind()) {
				return Bet, g.BigBlind()
			}
		case 1:
			return AllIn, chips.Zero
		}
		return Check, chips.Zero
	}

	switch rng.IntN(6) {
	case 0:
		return Fold, chips.Zero
	case 1:
		return AllIn, chips.Zero
	case 2:
		required := round.CurrentBet.Add(round.MinRaise).SubOrZero(p.Bet)
		if p.Stack.GreaterEq(required) {
			return Raise, round.MinRaise
		}
	}
	return Call, chips.Zero
}
