package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

// sumEvaluator scores a hand by the sum of its hole card ranks. Deterministic
// for a seeded deal and produces occasional ties, which is exactly what the
// random-play tests want.
type sumEvaluator struct{}

func (sumEvaluator) EvaluateHand(hole, community []deck.Card) (HandRank, error) {
	var score int32
	for _, c := range hole {
		score += int32(c.Rank)
	}
	return HandRank{Score: score, Name: "high card"}, nil
}

// tieEvaluator ranks every hand equally, forcing a split at showdown.
type tieEvaluator struct{}

func (tieEvaluator) EvaluateHand(hole, community []deck.Card) (HandRank, error) {
	return HandRank{Score: 1, Name: "chop"}, nil
}

// scriptedEvaluator returns scores assigned per hole-card pair after the deal,
// so a test can decide the showdown winner regardless of the actual cards.
type scriptedEvaluator struct {
	scores map[string]int32
}

func newScriptedEvaluator() *scriptedEvaluator {
	return &scriptedEvaluator{scores: make(map[string]int32)}
}

func (s *scriptedEvaluator) EvaluateHand(hole, community []deck.Card) (HandRank, error) {
	return HandRank{Score: s.scores[holeKey(hole)], Name: "scripted"}, nil
}

// scoreSeat assigns a score to whichever hole cards the given seat holds.
// Call after StartNewHand.
func (s *scriptedEvaluator) scoreSeat(g *Game, seat int, score int32) {
	for _, p := range g.Players() {
		if p.Seat == seat {
			s.scores[holeKey(p.HoleCards)] = score
		}
	}
}

func holeKey(hole []deck.Card) string {
	key := ""
	for _, c := range hole {
		key += c.String()
	}
	return key
}

// newTestGame builds a table with seeded randomness and generated player ids
// p0, p1, ... by seat. Extra options are applied last and may override the
// defaults.
func newTestGame(t *testing.T, stacks []int64, opts ...Option) *Game {
	t.Helper()
	cfgs := make([]PlayerConfig, len(stacks))
	for i, s := range stacks {
		cfgs[i] = PlayerConfig{
			ID:            fmt.Sprintf("p%d", i),
			Name:          fmt.Sprintf("player-%d", i),
			StartingStack: chips.MustNew(s),
		}
	}
	base := []Option{
		WithRNG(randutil.New(42)),
		WithEvaluator(sumEvaluator{}),
	}
	g, err := New(cfgs, 5, 10, append(base, opts...)...)
	require.NoError(t, err)
	g.DrainEvents()
	return g
}

func mustAct(t *testing.T, g *Game, playerID string, action ActionType, amount int64) {
	t.Helper()
	require.NoError(t, g.ExecuteAction(playerID, action, chips.MustNew(amount)))
}

func seatStack(g *Game, seat int) chips.Chips {
	return g.Players()[seat].Stack
}

func eventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind()
	}
	return kinds
}
