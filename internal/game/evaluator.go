package game

import (
	"github.com/cardroomlabs/holdem/internal/deck"
)

// HandRank is an opaque hand strength returned by an Evaluator. Higher Score
// wins; equal Scores tie. Name is a human-readable description carried into
// PotAwarded events.
type HandRank struct {
	Score int32
	Name  string
}

// Compare returns 1 if r beats o, -1 if o beats r, and 0 on a tie.
func (r HandRank) Compare(o HandRank) int {
	switch {
	case r.Score > o.Score:
		return 1
	case r.Score < o.Score:
		return -1
	default:
		return 0
	}
}

// Evaluator ranks a player's best five-card hand from their hole cards and
// the community cards. The engine never compares hands itself; showdown
// resolution is delegated entirely to this collaborator.
type Evaluator interface {
	EvaluateHand(hole, community []deck.Card) (HandRank, error)
}
