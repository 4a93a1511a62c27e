// Package bot provides table-driving policies for simulations and for seats
// without a connected client. Policies receive a read-only view of the table
// and always return a legal decision.
package bot

import (
	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/game"
)

// View is everything a policy may look at when deciding. It is derived from
// the engine's public accessors; hole cards are the acting player's own.
type View struct {
	Player     game.Player
	Phase      game.Phase
	CurrentBet chips.Chips
	MinRaise   chips.Chips
	BigBlind   chips.Chips
	Pot        chips.Chips
	Community  int // community cards dealt so far
	Opponents  int // players still contesting the hand
}

// Decision is a policy's chosen action. Amount is only meaningful for Bet and
// Raise.
type Decision struct {
	Action    game.ActionType
	Amount    chips.Chips
	Reasoning string
}

// Policy decides one action for the acting player.
type Policy interface {
	Decide(view View) Decision
}

// ViewFor builds the policy view for the game's current actor.
func ViewFor(g *game.Game) (View, bool) {
	p, ok := g.CurrentPlayer()
	if !ok {
		return View{}, false
	}
	round, ok := g.Round()
	if !ok {
		return View{}, false
	}

	opponents := 0
	for _, other := range g.Players() {
		if other.ID != p.ID && other.IsActive() {
			opponents++
		}
	}

	return View{
		Player:     p,
		Phase:      g.Phase(),
		CurrentBet: round.CurrentBet,
		MinRaise:   round.MinRaise,
		BigBlind:   g.BigBlind(),
		Pot:        g.PotSize(),
		Community:  len(g.CommunityCards()),
		Opponents:  opponents,
	}, true
}

// toCall returns the chips the viewer owes to stay in.
func (v View) toCall() chips.Chips {
	return v.CurrentBet.SubOrZero(v.Player.Bet)
}
