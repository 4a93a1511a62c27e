package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cardroomlabs/holdem/internal/bot"
	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/config"
	"github.com/cardroomlabs/holdem/internal/evaluator"
	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/manager"
	"github.com/cardroomlabs/holdem/internal/randutil"
	"github.com/cardroomlabs/holdem/internal/statistics"
)

// fanout composes sinks; each receives every batch in order.
func fanout(sinks ...manager.Sink) manager.Sink {
	return func(gameID string, events []game.Event) {
		for _, s := range sinks {
			s(gameID, events)
		}
	}
}

// trackerSet keeps one statistics tracker per game behind a lock, since
// sinks for different tables run concurrently.
type trackerSet struct {
	mu     sync.Mutex
	byGame map[string]*statistics.Tracker
}

func newTrackerSet() *trackerSet {
	return &trackerSet{byGame: make(map[string]*statistics.Tracker)}
}

func (ts *trackerSet) Record(gameID string, events []game.Event) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	tr := ts.byGame[gameID]
	if tr == nil {
		tr = statistics.NewTracker()
		ts.byGame[gameID] = tr
	}
	tr.Record(events)
}

func (ts *trackerSet) get(gameID string) *statistics.Tracker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.byGame[gameID]
}

// runningTable is one configured table registered with the manager.
type runningTable struct {
	cfg      config.Table
	id       string
	policies map[string]bot.Policy
}

// createTable registers a table from configuration. Seat names double as
// player ids. A zero seed falls back to the clock so repeated runs differ
// unless pinned.
func createTable(mgr *manager.Manager, tbl config.Table, seedOverride int64, actTimeout time.Duration) (*runningTable, error) {
	seed := tbl.Seed
	if seedOverride != 0 {
		seed = seedOverride
	}
	var rng = randutil.NewFromTime()
	if seed != 0 {
		rng = randutil.New(seed)
	}

	players := make([]game.PlayerConfig, len(tbl.Players))
	policies := make(map[string]bot.Policy, len(tbl.Players))
	for i, p := range tbl.Players {
		players[i] = game.PlayerConfig{
			ID:            p.Name,
			Name:          p.Name,
			StartingStack: chips.MustNew(p.Stack),
			Bot:           true,
		}
		policy, err := bot.ForName(p.Policy, rng)
		if err != nil {
			return nil, err
		}
		policies[p.Name] = policy
	}

	id, err := mgr.Create(manager.TableParams{
		Players:    players,
		SmallBlind: chips.MustNew(tbl.SmallBlind),
		BigBlind:   chips.MustNew(tbl.BigBlind),
		ActTimeout: actTimeout,
		Options: []game.Option{
			game.WithRNG(rng),
			game.WithEvaluator(evaluator.New()),
		},
	})
	if err != nil {
		return nil, err
	}

	return &runningTable{cfg: tbl, id: id, policies: policies}, nil
}

// runHands plays the table's configured number of hands, or until the game
// finishes, pausing delay between hands when set.
func (rt *runningTable) runHands(ctx context.Context, mgr *manager.Manager, delay time.Duration) error {
	for hand := 0; hand < rt.cfg.Hands; hand++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := mgr.StartHand(rt.id); err != nil {
			if game.IsCode(err, game.CodeGameFinished) {
				return nil
			}
			return fmt.Errorf("table %s: %w", rt.cfg.Name, err)
		}
		if err := rt.playOutHand(mgr); err != nil {
			return fmt.Errorf("table %s: %w", rt.cfg.Name, err)
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
		}
	}
	return nil
}

// playOutHand drives the table's policies until nobody is left to act.
func (rt *runningTable) playOutHand(mgr *manager.Manager) error {
	for {
		var (
			acting   bool
			playerID string
			decision bot.Decision
		)
		err := mgr.Inspect(rt.id, func(g *game.Game) {
			view, ok := bot.ViewFor(g)
			if !ok {
				return
			}
			acting = true
			playerID = view.Player.ID
			decision = rt.policies[playerID].Decide(view)
		})
		if err != nil {
			return err
		}
		if !acting {
			return nil
		}
		if _, err := mgr.Act(rt.id, playerID, decision.Action, decision.Amount); err != nil {
			return err
		}
	}
}

// printSummary reports one table's aggregates to stdout.
func printSummary(name string, tr *statistics.Tracker) {
	if tr == nil {
		return
	}

	fmt.Printf("\n=== TABLE %s ===\n", name)
	fmt.Printf("Hands played: %d (%d showdowns, %d fold wins)\n",
		tr.Hands(), tr.Showdowns(), tr.FoldWins())
	fmt.Printf("Largest pot: %.1f bb, mean hand duration: %s\n",
		tr.MaxPotBB(), tr.MeanDuration())

	if err := tr.Validate(); err != nil {
		fmt.Printf("WARNING: %v\n", err)
	}

	fmt.Printf("\n%-14s %10s %10s %22s\n", "PLAYER", "HANDS", "BB/HAND", "95% CI")
	for _, ps := range tr.Players() {
		low, high := ps.ConfidenceInterval95()
		line := fmt.Sprintf("%-14s %10d %+10.3f [%+8.3f, %+8.3f]",
			ps.PlayerID, ps.Hands, ps.Mean(), low, high)
		if ps.Eliminated {
			line += fmt.Sprintf("  (out in %s)", ordinal(ps.FinishedPos))
		}
		fmt.Println(line)
	}
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			suffix = "st"
		}
	case 2:
		if n%100 != 12 {
			suffix = "nd"
		}
	case 3:
		if n%100 != 13 {
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
