package bot

import (
	"fmt"
	rand "math/rand/v2"
)

// ForName builds the named policy. Policies that randomise take the given
// RNG; deterministic ones ignore it.
func ForName(name string, rng *rand.Rand) (Policy, error) {
	switch name {
	case "caller", "call":
		return NewCaller(), nil
	case "folder", "fold":
		return NewFolder(), nil
	case "random", "rand":
		return NewRandom(rng), nil
	case "aggressor", "aggro":
		return NewAggressor(rng), nil
	default:
		return nil, fmt.Errorf("bot: unknown policy %q", name)
	}
}

// Names lists the recognised policy names, for config validation and help
// text.
func Names() []string {
	return []string{"caller", "folder", "random", "aggressor"}
}
