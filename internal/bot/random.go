package bot

import (
	rand "math/rand/v2"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

// Random picks a uniformly random legal action. Like the engine, it takes an
// injected RNG so simulations replay exactly from a seed.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy backed by rng. A nil rng gets a
// time-seeded one.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = randutil.NewFromTime()
	}
	return &Random{rng: rng}
}

func (r *Random) Decide(view View) Decision {
	toCall := view.toCall()

	if toCall.IsZero() {
		switch r.rng.IntN(4) {
		case 0:
			if view.CurrentBet.IsZero() && view.Player.Stack.GreaterEq(view.BigBlind) {
				return Decision{Action: game.Bet, Amount: view.BigBlind, Reasoning: "random open"}
			}
		case 1:
			return Decision{Action: game.AllIn, Reasoning: "random shove"}
		}
		return Decision{Action: game.Check, Reasoning: "random check"}
	}

	switch r.rng.IntN(6) {
	case 0:
		return Decision{Action: game.Fold, Reasoning: "random fold"}
	case 1:
		return Decision{Action: game.AllIn, Reasoning: "random shove"}
	case 2:
		required := view.CurrentBet.Add(view.MinRaise).SubOrZero(view.Player.Bet)
		if view.Player.Stack.GreaterEq(required) {
			return Decision{Action: game.Raise, Amount: view.MinRaise, Reasoning: "random min-raise"}
		}
	}
	return Decision{Action: game.Call, Amount: chips.Zero, Reasoning: "random call"}
}
