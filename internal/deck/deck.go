package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmpty is returned when dealing or burning from an exhausted deck.
var ErrEmpty = errors.New("deck: no cards remaining")

// Deck is a 52-card deck with an injected RNG.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full deck in canonical order. The RNG is required; it is the
// only source of randomness the deck ever uses.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: rng is required")
	}
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	d.fill()
	return d
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
}

// Shuffle randomises the deck order in place (Fisher-Yates).
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Reset restores all 52 cards and reshuffles.
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmpty
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DealN deals n cards from the top.
func (d *Deck) DealN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmpty
	}
	cards := make([]Card, n)
	for i := range cards {
		c, err := d.Deal()
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// Burn discards the top card before a street is dealt.
func (d *Deck) Burn() error {
	_, err := d.Deal()
	return err
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
