package game

import (
	"sort"

	"github.com/cardroomlabs/holdem/internal/chips"
)

// PotKind distinguishes the main pot from side pots.
type PotKind int

const (
	MainPot PotKind = iota
	SidePot
)

func (k PotKind) String() string {
	if k == MainPot {
		return "main"
	}
	return "side"
}

// Pot is one segment of the money in play. Eligible holds the ids of players
// who can win it, in seat order; the set only shrinks as players fold.
type Pot struct {
	Amount   chips.Chips `json:"amount"`
	Eligible []string    `json:"eligible"`
	Kind     PotKind     `json:"kind"`
}

// potManager derives pots from the players' per-hand contributions. Side
// pots are layered at each distinct all-in level: a player all-in for less
// than the table's largest contribution is only eligible for the layers
// they fully funded.
type potManager struct {
	pots []Pot
}

func newPotManager() *potManager {
	return &potManager{}
}

// rebuild recomputes the pot layering from scratch. Contributions from
// folded players stay in the pots they funded; folded players are simply
// not eligible to win anything.
func (pm *potManager) rebuild(players []*Player) {
	levels := allInLevels(players)

	pm.pots = pm.pots[:0]
	prev := chips.Zero
	for _, level := range levels {
		pot := Pot{Kind: SidePot}
		if len(pm.pots) == 0 {
			pot.Kind = MainPot
		}
		for _, p := range players {
			contribution := chips.Min(p.TotalBet, level).SubOrZero(prev)
			pot.Amount = pot.Amount.Add(contribution)
			if !p.Folded && p.TotalBet > prev {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		if pot.Amount > 0 {
			pm.pots = append(pm.pots, pot)
		}
		prev = level
	}

	// Whatever sits above the highest all-in level is contested by the
	// remaining non-all-in players.
	top := Pot{Kind: SidePot}
	if len(pm.pots) == 0 {
		top.Kind = MainPot
	}
	for _, p := range players {
		top.Amount = top.Amount.Add(p.TotalBet.SubOrZero(prev))
		if !p.Folded && p.TotalBet > prev {
			top.Eligible = append(top.Eligible, p.ID)
		}
	}
	if top.Amount > 0 {
		pm.pots = append(pm.pots, top)
	}
}

// allInLevels returns the distinct all-in contribution levels, ascending.
func allInLevels(players []*Player) []chips.Chips {
	seen := make(map[chips.Chips]bool)
	var levels []chips.Chips
	for _, p := range players {
		if p.AllIn && !p.Folded && p.TotalBet > 0 && !seen[p.TotalBet] {
			seen[p.TotalBet] = true
			levels = append(levels, p.TotalBet)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}

// total returns the sum of all pot segments.
func (pm *potManager) total() chips.Chips {
	total := chips.Zero
	for _, pot := range pm.pots {
		total = total.Add(pot.Amount)
	}
	return total
}

// pots returns a copy of the current segments.
func (pm *potManager) snapshot() []Pot {
	out := make([]Pot, len(pm.pots))
	for i, pot := range pm.pots {
		out[i] = Pot{
			Amount:   pot.Amount,
			Eligible: append([]string(nil), pot.Eligible...),
			Kind:     pot.Kind,
		}
	}
	return out
}

// clear empties the manager after the pots have been awarded.
func (pm *potManager) clear() {
	pm.pots = nil
}
