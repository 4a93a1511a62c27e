// Package statistics aggregates table results from the engine's event
// stream. Results are normalised to big blinds per hand so tables with
// different stakes can be compared.
package statistics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cardroomlabs/holdem/internal/game"
)

// PlayerStats accumulates one player's results.
type PlayerStats struct {
	PlayerID     string
	Hands        int
	SumBB        float64
	SumBB2       float64 // sum of squares for variance
	ShowdownBB   float64
	FoldWinBB    float64
	Eliminated   bool
	FinishedPos  int // 0 until eliminated or the game ends
	LargestPotBB float64
}

// Tracker consumes drained events and keeps running aggregates. It is not
// safe for concurrent use; feed it from the same goroutine that drains the
// game, or behind the manager's sink.
type Tracker struct {
	bigBlind float64

	hands         int
	showdowns     int
	foldWins      int
	totalDuration time.Duration
	maxPotBB      float64
	values        []float64 // per-hand winner net, for percentiles

	players map[string]*PlayerStats

	// carried between events within one hand
	lastPotBB float64
}

// NewTracker creates a tracker. The big blind anchors the bb conversion and
// must match the table being observed.
func NewTracker() *Tracker {
	return &Tracker{players: make(map[string]*PlayerStats)}
}

// Record consumes a batch of events in emission order.
func (t *Tracker) Record(events []game.Event) {
	for _, e := range events {
		switch ev := e.(type) {
		case game.GameCreated:
			t.bigBlind = float64(ev.BigBlind.Int64())
			for _, id := range ev.PlayerIDs {
				t.players[id] = &PlayerStats{PlayerID: id}
			}

		case game.PotAwarded:
			potBB := t.toBB(ev.Amount.Int64())
			t.lastPotBB += potBB
			if ps := t.players[ev.PlayerID]; ps != nil && potBB > ps.LargestPotBB {
				ps.LargestPotBB = potBB
			}

		case game.HandCompleted:
			t.hands++
			t.totalDuration += ev.Duration
			if ev.WentToShowdown {
				t.showdowns++
			} else {
				t.foldWins++
			}
			if t.lastPotBB > t.maxPotBB {
				t.maxPotBB = t.lastPotBB
			}
			t.lastPotBB = 0

			var best float64
			for _, r := range ev.Results {
				ps := t.players[r.PlayerID]
				if ps == nil {
					ps = &PlayerStats{PlayerID: r.PlayerID}
					t.players[r.PlayerID] = ps
				}
				net := t.toBB(r.Net)
				ps.Hands++
				ps.SumBB += net
				ps.SumBB2 += net * net
				if ev.WentToShowdown {
					ps.ShowdownBB += net
				} else {
					ps.FoldWinBB += net
				}
				if net > best {
					best = net
				}
			}
			t.values = append(t.values, best)

		case game.PlayerEliminated:
			if ps := t.players[ev.PlayerID]; ps != nil {
				ps.Eliminated = true
				ps.FinishedPos = ev.Position
			}
		}
	}
}

func (t *Tracker) toBB(chips int64) float64 {
	if t.bigBlind == 0 {
		return 0
	}
	return float64(chips) / t.bigBlind
}

// Hands returns the number of completed hands observed.
func (t *Tracker) Hands() int { return t.hands }

// Showdowns returns the number of hands that reached showdown.
func (t *Tracker) Showdowns() int { return t.showdowns }

// FoldWins returns the number of hands decided by everyone else folding.
func (t *Tracker) FoldWins() int { return t.foldWins }

// MaxPotBB returns the largest single-hand pot seen, in big blinds.
func (t *Tracker) MaxPotBB() float64 { return t.maxPotBB }

// MeanDuration returns the average hand duration.
func (t *Tracker) MeanDuration() time.Duration {
	if t.hands == 0 {
		return 0
	}
	return t.totalDuration / time.Duration(t.hands)
}

// Player returns a copy of one player's aggregates.
func (t *Tracker) Player(id string) (PlayerStats, bool) {
	ps, ok := t.players[id]
	if !ok {
		return PlayerStats{}, false
	}
	return *ps, true
}

// Players returns all player aggregates, winners first.
func (t *Tracker) Players() []PlayerStats {
	out := make([]PlayerStats, 0, len(t.players))
	for _, ps := range t.players {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SumBB != out[j].SumBB {
			return out[i].SumBB > out[j].SumBB
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// Mean returns a player's mean result in bb/hand.
func (ps PlayerStats) Mean() float64 {
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// Variance returns the sample variance of a player's per-hand results.
func (ps PlayerStats) Variance() float64 {
	if ps.Hands < 2 {
		return 0
	}
	mean := ps.Mean()
	return (ps.SumBB2 - float64(ps.Hands)*mean*mean) / float64(ps.Hands-1)
}

// StdDev returns the sample standard deviation.
func (ps PlayerStats) StdDev() float64 {
	return math.Sqrt(ps.Variance())
}

// StdError returns the standard error of the mean.
func (ps PlayerStats) StdError() float64 {
	if ps.Hands == 0 {
		return 0
	}
	return ps.StdDev() / math.Sqrt(float64(ps.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (ps PlayerStats) ConfidenceInterval95() (float64, float64) {
	mean := ps.Mean()
	margin := 1.96 * ps.StdError()
	return mean - margin, mean + margin
}

// WinnerPercentile returns the winner-net value at percentile p (0.0-1.0),
// linearly interpolated.
func (t *Tracker) WinnerPercentile(p float64) float64 {
	if len(t.values) == 0 {
		return 0
	}
	sorted := make([]float64, len(t.values))
	copy(sorted, t.values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks internal consistency: every hand is either a showdown or a
// fold win, and player nets sum to zero within float tolerance.
func (t *Tracker) Validate() error {
	if t.showdowns+t.foldWins != t.hands {
		return fmt.Errorf("statistics: %d showdowns + %d fold wins != %d hands",
			t.showdowns, t.foldWins, t.hands)
	}
	var total float64
	for _, ps := range t.players {
		total += ps.SumBB
	}
	if math.Abs(total) > 1e-6 {
		return fmt.Errorf("statistics: player nets sum to %.6f bb, want 0", total)
	}
	return nil
}
