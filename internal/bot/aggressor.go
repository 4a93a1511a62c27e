package bot

import (
	rand "math/rand/v2"

	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

// Aggressor opens and raises whenever it can afford to, calling the rest of
// the time. It folds nothing, which makes it a stress test for side-pot and
// all-in handling rather than a sensible strategy.
type Aggressor struct {
	rng *rand.Rand
}

// NewAggressor creates an always-pressuring policy backed by rng. A nil rng
// gets a time-seeded one.
func NewAggressor(rng *rand.Rand) *Aggressor {
	if rng == nil {
		rng = randutil.NewFromTime()
	}
	return &Aggressor{rng: rng}
}

func (a *Aggressor) Decide(view View) Decision {
	if view.toCall().IsZero() && view.CurrentBet.IsZero() {
		if view.Player.Stack.GreaterEq(view.BigBlind) {
			return Decision{Action: game.Bet, Amount: view.BigBlind, Reasoning: "always betting"}
		}
		return Decision{Action: game.AllIn, Reasoning: "short stack shove"}
	}

	// Raise roughly half the time it faces action, otherwise call.
	required := view.CurrentBet.Add(view.MinRaise).SubOrZero(view.Player.Bet)
	if a.rng.IntN(2) == 0 && view.Player.Stack.GreaterEq(required) && !view.CurrentBet.IsZero() {
		return Decision{Action: game.Raise, Amount: view.MinRaise, Reasoning: "applying pressure"}
	}
	if view.toCall().GreaterEq(view.Player.Stack) {
		return Decision{Action: game.AllIn, Reasoning: "calling all-in"}
	}
	if view.toCall().IsZero() {
		return Decision{Action: game.Check, Reasoning: "nothing to raise into"}
	}
	return Decision{Action: game.Call, Reasoning: "calling the pressure"}
}
