package game

import (
	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/deck"
)

// Player is one seat at the table. The stack persists across hands; hole
// cards and per-hand flags are reset when a new hand starts.
type Player struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Bot        bool        `json:"bot"`
	Seat       int         `json:"seat"`
	Stack      chips.Chips `json:"stack"`
	HoleCards  []deck.Card `json:"-"`
	Bet        chips.Chips `json:"bet"`      // contributed this round
	TotalBet   chips.Chips `json:"totalBet"` // contributed this hand
	Folded     bool        `json:"folded"`
	AllIn      bool        `json:"allIn"`
	Acted      bool        `json:"acted"`
	Eliminated bool        `json:"eliminated"`
}

// IsActive reports whether the player is still contesting the hand.
func (p *Player) IsActive() bool {
	return !p.Folded
}

// CanAct reports whether the player can take another action this hand.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// HasChips reports whether the player is still funded.
func (p *Player) HasChips() bool {
	return p.Stack > 0
}

// resetForHand clears per-hand state. A player who has busted out sits out
// permanently: they are marked folded so turn order and pot eligibility skip
// them without removing the seat.
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.Bet = 0
	p.TotalBet = 0
	p.Folded = !p.HasChips()
	p.AllIn = false
	p.Acted = false
}

// pay moves up to amount from the stack into the current round's bet,
// capping at the stack (a short payment is an all-in). It returns the chips
// actually moved.
func (p *Player) pay(amount chips.Chips) chips.Chips {
	paid := chips.Min(amount, p.Stack)
	p.Stack = p.Stack.SubOrZero(paid)
	p.Bet = p.Bet.Add(paid)
	p.TotalBet = p.TotalBet.Add(paid)
	if p.Stack.IsZero() {
		p.AllIn = true
	}
	return paid
}
