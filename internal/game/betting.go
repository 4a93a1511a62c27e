package game

import (
	"github.com/cardroomlabs/holdem/internal/chips"
)

// Phase is the current stage of a hand. Transitions are strictly linear;
// Finished is terminal for the hand and a new hand returns to PreFlop.
type Phase int

const (
	PreFlop Phase = iota
	Flop
	Turn
	River
	Showdown
	Finished
)

func (p Phase) String() string {
	switch p {
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// ActionType is a player command. Dispatch over it is exhaustive so adding
// an action is a compile-visible change.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// BettingRound is the bookkeeping for one street. CurrentBet only ever
// increases within a round; MinRaise only increases when a raise or all-in
// meets it. LastAggressor is empty until someone increases the bet.
type BettingRound struct {
	Phase         Phase
	CurrentBet    chips.Chips
	MinRaise      chips.Chips
	ActionCount   int
	LastAggressor string
}

// newBettingRound builds a fresh round for the given street. Pre-flop is
// seeded with the big blind as the initial bet; post-flop streets open at
// zero with the big blind as the minimum raise increment.
func newBettingRound(phase Phase, bigBlind chips.Chips) *BettingRound {
	br := &BettingRound{
		Phase:    phase,
		MinRaise: bigBlind,
	}
	if phase == PreFlop {
		br.CurrentBet = bigBlind
	}
	return br
}

// recordBet registers a bet or raise to a new level. The actor becomes the
// aggressor only when the bet strictly increased; matching the current bet
// does not change aggression.
func (br *BettingRound) recordBet(playerID string, newBet, increment chips.Chips) {
	if newBet > br.CurrentBet {
		br.CurrentBet = newBet
		br.LastAggressor = playerID
	}
	if increment >= br.MinRaise {
		br.MinRaise = increment
	}
}
