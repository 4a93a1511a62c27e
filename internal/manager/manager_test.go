package manager

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

type stubEvaluator struct{}

func (stubEvaluator) EvaluateHand(hole, community []deck.Card) (game.HandRank, error) {
	return game.HandRank{Score: 1}, nil
}

func testParams(timeout time.Duration) TableParams {
	players := make([]game.PlayerConfig, 3)
	for i := range players {
		players[i] = game.PlayerConfig{
			ID:            fmt.Sprintf("p%d", i),
			StartingStack: chips.MustNew(1000),
		}
	}
	return TableParams{
		Players:    players,
		SmallBlind: chips.MustNew(5),
		BigBlind:   chips.MustNew(10),
		ActTimeout: timeout,
		Options: []game.Option{
			game.WithRNG(randutil.New(42)),
			game.WithEvaluator(stubEvaluator{}),
		},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestCreateAndStartHand(t *testing.T) {
	t.Parallel()

	var sunk []game.Event
	m := New(quietLogger(), WithSink(func(id string, events []game.Event) {
		sunk = append(sunk, events...)
	}))

	id, err := m.Create(testParams(0))
	require.NoError(t, err)
	require.Contains(t, m.List(), id)
	require.Len(t, sunk, 1, "creation event reaches the sink")
	assert.Equal(t, game.EventGameCreated, sunk[0].Kind())

	events, err := m.StartHand(id)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, game.EventHandStarted, events[0].Kind())
	assert.Len(t, sunk, 2)
}

func TestActAdvancesTurn(t *testing.T) {
	t.Parallel()
	m := New(quietLogger())

	id, err := m.Create(testParams(0))
	require.NoError(t, err)
	_, err = m.StartHand(id)
	require.NoError(t, err)

	events, err := m.Act(id, "p0", game.Call, chips.Zero)
	require.NoError(t, err)
	require.Len(t, events, 1)

	var current string
	require.NoError(t, m.Inspect(id, func(g *game.Game) {
		p, ok := g.CurrentPlayer()
		require.True(t, ok)
		current = p.ID
	}))
	assert.Equal(t, "p1", current)

	_, err = m.Act(id, "p0", game.Call, chips.Zero)
	assert.True(t, game.IsCode(err, game.CodeNotPlayersTurn))
}

func TestUnknownGame(t *testing.T) {
	t.Parallel()
	m := New(quietLogger())

	_, err := m.StartHand("missing")
	assert.Error(t, err)
	_, err = m.Act("missing", "p0", game.Fold, chips.Zero)
	assert.Error(t, err)
	assert.False(t, m.Remove("missing"))
}

func TestActClockFoldsExpiredPlayer(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	m := New(quietLogger(), WithClock(mock))

	id, err := m.Create(testParams(5 * time.Second))
	require.NoError(t, err)
	_, err = m.StartHand(id)
	require.NoError(t, err)

	mock.Advance(5 * time.Second).MustWait(context.Background())

	require.NoError(t, m.Inspect(id, func(g *game.Game) {
		players := g.Players()
		assert.True(t, players[0].Folded, "expired player is folded")
		p, ok := g.CurrentPlayer()
		require.True(t, ok)
		assert.Equal(t, "p1", p.ID, "the clock re-arms for the next actor")
	}))
}

func TestActClockCancelledByAction(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	m := New(quietLogger(), WithClock(mock))

	id, err := m.Create(testParams(5 * time.Second))
	require.NoError(t, err)
	_, err = m.StartHand(id)
	require.NoError(t, err)

	mock.Advance(3 * time.Second).MustWait(context.Background())
	_, err = m.Act(id, "p0", game.Call, chips.Zero)
	require.NoError(t, err)

	// The original deadline passes, but p0 already acted; only p1's fresh
	// clock should be running.
	mock.Advance(3 * time.Second).MustWait(context.Background())

	require.NoError(t, m.Inspect(id, func(g *game.Game) {
		players := g.Players()
		assert.False(t, players[0].Folded)
		assert.False(t, players[1].Folded, "p1's clock has not expired yet")
		p, _ := g.CurrentPlayer()
		assert.Equal(t, "p1", p.ID)
	}))

	mock.Advance(2 * time.Second).MustWait(context.Background())
	require.NoError(t, m.Inspect(id, func(g *game.Game) {
		assert.True(t, g.Players()[1].Folded, "p1 folds when the full timeout elapses")
	}))
}

func TestRemoveStopsTable(t *testing.T) {
	t.Parallel()
	m := New(quietLogger())

	id, err := m.Create(testParams(time.Minute))
	require.NoError(t, err)
	_, err = m.StartHand(id)
	require.NoError(t, err)

	assert.True(t, m.Remove(id))
	assert.Empty(t, m.List())
	_, err = m.Act(id, "p0", game.Fold, chips.Zero)
	assert.Error(t, err)
}
