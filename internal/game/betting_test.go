package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardroomlabs/holdem/internal/chips"
)

func TestNewBettingRoundSeedsPreFlop(t *testing.T) {
	t.Parallel()

	br := newBettingRound(PreFlop, chips.MustNew(10))
	assert.Equal(t, chips.MustNew(10), br.CurrentBet, "the big blind is a live bet")
	assert.Equal(t, chips.MustNew(10), br.MinRaise)
	assert.Empty(t, br.LastAggressor, "posting a blind is not aggression")

	br = newBettingRound(Flop, chips.MustNew(10))
	assert.Equal(t, chips.Zero, br.CurrentBet)
	assert.Equal(t, chips.MustNew(10), br.MinRaise)
}

func TestRecordBetAggression(t *testing.T) {
	t.Parallel()
	br := newBettingRound(PreFlop, chips.MustNew(10))

	br.recordBet("a", chips.MustNew(30), chips.MustNew(20))
	assert.Equal(t, chips.MustNew(30), br.CurrentBet)
	assert.Equal(t, chips.MustNew(20), br.MinRaise)
	assert.Equal(t, "a", br.LastAggressor)

	// Matching the level changes nothing.
	br.recordBet("b", chips.MustNew(30), chips.Zero)
	assert.Equal(t, "a", br.LastAggressor)

	// A short increment raises the level but not the minimum.
	br.recordBet("c", chips.MustNew(35), chips.MustNew(5))
	assert.Equal(t, chips.MustNew(35), br.CurrentBet)
	assert.Equal(t, chips.MustNew(20), br.MinRaise)
	assert.Equal(t, "c", br.LastAggressor)
}

func TestPhaseAndActionStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "preflop", PreFlop.String())
	assert.Equal(t, "showdown", Showdown.String())
	assert.Equal(t, "finished", Finished.String())
	assert.Equal(t, "allin", AllIn.String())
	assert.Equal(t, "fold", Fold.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
