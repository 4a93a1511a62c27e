package game

import (
	rand "math/rand/v2"

	"github.com/coder/quartz"
)

// Option configures a Game during creation.
type Option func(*Game)

// WithID sets the game id instead of generating one.
func WithID(id string) Option {
	return func(g *Game) {
		g.id = id
	}
}

// WithRNG sets the RNG used for every shuffle. Tests pass a seeded RNG from
// randutil to make deals reproducible; the default is time-seeded.
func WithRNG(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithEvaluator sets the showdown evaluator collaborator. A game cannot be
// created without one.
func WithEvaluator(ev Evaluator) Option {
	return func(g *Game) {
		g.evaluator = ev
	}
}

// WithClock sets the clock used for event timestamps and hand durations.
// Tests pass a quartz mock; the default is the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) {
		g.clock = clock
	}
}
