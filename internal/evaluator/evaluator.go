// Package evaluator adapts the paulhankin/poker seven-card evaluator to the
// engine's Evaluator interface. It is the default showdown collaborator; the
// engine itself never depends on it.
package evaluator

import (
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/game"
)

// Evaluator ranks hands with paulhankin/poker's lookup-table evaluation.
type Evaluator struct{}

// New returns a ready evaluator. It is stateless and safe for concurrent
// use across games.
func New() *Evaluator {
	return &Evaluator{}
}

// EvaluateHand ranks the best five-card hand from two hole cards and five
// community cards.
func (e *Evaluator) EvaluateHand(hole, community []deck.Card) (game.HandRank, error) {
	if len(hole) != 2 {
		return game.HandRank{}, fmt.Errorf("evaluator: expected 2 hole cards, got %d", len(hole))
	}
	if len(community) != 5 {
		return game.HandRank{}, fmt.Errorf("evaluator: expected 5 community cards, got %d", len(community))
	}

	var cards [7]poker.Card
	for i, c := range community {
		pc, err := convertCard(c)
		if err != nil {
			return game.HandRank{}, err
		}
		cards[i] = pc
	}
	for i, c := range hole {
		pc, err := convertCard(c)
		if err != nil {
			return game.HandRank{}, err
		}
		cards[5+i] = pc
	}

	score := poker.Eval7(&cards)
	desc, err := poker.Describe(cards[:])
	if err != nil {
		desc = ""
	}

	return game.HandRank{Score: int32(score), Name: desc}, nil
}

// convertCard maps the engine's card representation onto the library's.
// The library counts aces as rank 1.
func convertCard(c deck.Card) (poker.Card, error) {
	var suit poker.Suit
	switch c.Suit {
	case deck.Spades:
		suit = poker.Spade
	case deck.Hearts:
		suit = poker.Heart
	case deck.Diamonds:
		suit = poker.Diamond
	case deck.Clubs:
		suit = poker.Club
	default:
		return 0, fmt.Errorf("evaluator: invalid suit %v", c.Suit)
	}

	rank := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = 1
	}

	card, err := poker.MakeCard(suit, rank)
	if err != nil {
		return 0, fmt.Errorf("evaluator: %w", err)
	}
	return card, nil
}
