package bot

import (
	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/game"
)

// Caller checks when free and calls any bet. Useful as a passive baseline
// opponent: it never folds and never applies pressure.
type Caller struct{}

// NewCaller creates a calling-station policy.
func NewCaller() *Caller {
	return &Caller{}
}

func (c *Caller) Decide(view View) Decision {
	if view.toCall().IsZero() {
		return Decision{Action: game.Check, Reasoning: "nothing to call"}
	}
	return Decision{Action: game.Call, Reasoning: "calling station"}
}

// Folder checks when free and folds to any bet. The cheapest possible
// opponent, handy for deterministic fixtures.
type Folder struct{}

// NewFolder creates a fold-to-anything policy.
func NewFolder() *Folder {
	return &Folder{}
}

func (f *Folder) Decide(view View) Decision {
	if view.toCall().IsZero() {
		return Decision{Action: game.Check, Reasoning: "free card"}
	}
	return Decision{Action: game.Fold, Amount: chips.Zero, Reasoning: "never pays"}
}
