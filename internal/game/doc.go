// Package game implements the authoritative per-table state machine for one
// hand of Texas Hold'em: legal-action enforcement, blind posting, betting
// round completion, community card dealing, pot accounting and the
// hand-to-hand lifecycle including player elimination.
//
// The main type is Game. An external command handler drives it through
// StartNewHand and ExecuteAction; the game validates against current state,
// mutates its players, pots and betting round, appends domain events and
// returns, or fails with a categorized *GameError without mutating anything.
//
// # Concurrency
//
// A Game performs no internal locking. Many independent games may run
// concurrently, but commands against a single instance must be serialized by
// the caller; the manager package provides that serialization.
//
// # Determinism
//
// Randomness and time are injected. For reproducible hands:
//
//	g, err := game.New(players, 5, 10,
//	    game.WithRNG(randutil.New(42)),
//	    game.WithEvaluator(eval))
//
// Hand comparison is delegated to the Evaluator collaborator; the engine
// only orders the opaque ranks it returns.
package game
