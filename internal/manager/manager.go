// Package manager hosts game instances and serializes commands against them.
// The engine itself is not safe for concurrent use; the manager gives every
// table its own lock and layers the act clock on top, folding players who
// let their turn expire.
package manager

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/game"
)

// Sink receives the events drained after each successful command, in order.
// It is invoked while the table lock is held and must not call back into the
// manager.
type Sink func(gameID string, events []game.Event)

// TableParams configures a new table.
type TableParams struct {
	Players    []game.PlayerConfig
	SmallBlind chips.Chips
	BigBlind   chips.Chips
	// ActTimeout folds the current player when their turn expires. Zero
	// disables the act clock.
	ActTimeout time.Duration
	// Options are passed to game.New and may override the manager's clock.
	Options []game.Option
}

// Manager owns a set of tables keyed by game id.
type Manager struct {
	logger *log.Logger
	clock  quartz.Clock
	sink   Sink

	mu     sync.RWMutex
	tables map[string]*table
}

type table struct {
	mu         sync.Mutex
	game       *game.Game
	actTimeout time.Duration
	timer      *quartz.Timer
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock for act timers and for games created by the
// manager. Tests pass a quartz mock.
func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithSink sets the event sink.
func WithSink(sink Sink) Option {
	return func(m *Manager) {
		m.sink = sink
	}
}

// New creates an empty manager.
func New(logger *log.Logger, opts ...Option) *Manager {
	m := &Manager{
		logger: logger.WithPrefix("manager"),
		clock:  quartz.NewReal(),
		tables: make(map[string]*table),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create builds a table and registers it. The creation event is delivered to
// the sink before Create returns.
func (m *Manager) Create(params TableParams) (string, error) {
	opts := append([]game.Option{game.WithClock(m.clock)}, params.Options...)
	g, err := game.New(params.Players, params.SmallBlind, params.BigBlind, opts...)
	if err != nil {
		return "", err
	}

	t := &table{game: g, actTimeout: params.ActTimeout}

	m.mu.Lock()
	m.tables[g.ID()] = t
	m.mu.Unlock()

	t.mu.Lock()
	m.drainLocked(g.ID(), t)
	t.mu.Unlock()

	m.logger.Info("table created",
		"gameId", g.ID(),
		"players", len(params.Players),
		"smallBlind", params.SmallBlind,
		"bigBlind", params.BigBlind)
	return g.ID(), nil
}

// Remove unregisters a table, cancelling any pending act timer.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	t, ok := m.tables[id]
	delete(m.tables, id)
	m.mu.Unlock()
	if !ok {
		return false
	}

	t.mu.Lock()
	t.stopTimerLocked()
	t.mu.Unlock()
	return true
}

// List returns the registered game ids.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	return ids
}

// StartHand begins the next hand on a table and returns the resulting events.
func (m *Manager) StartHand(id string) ([]game.Event, error) {
	t, err := m.table(id)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.game.StartNewHand(); err != nil {
		return nil, err
	}
	events := m.drainLocked(id, t)
	m.armLocked(id, t)
	return events, nil
}

// Act applies a player command. On success the act timer is rescheduled for
// the next actor; a rejected command leaves the running timer alone since the
// same player is still on the clock.
func (m *Manager) Act(id, playerID string, action game.ActionType, amount chips.Chips) ([]game.Event, error) {
	t, err := m.table(id)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.game.ExecuteAction(playerID, action, amount); err != nil {
		return nil, err
	}
	t.stopTimerLocked()
	events := m.drainLocked(id, t)
	m.armLocked(id, t)
	return events, nil
}

// Inspect runs fn against the table's game under its lock. fn must not
// retain the *game.Game beyond the call.
func (m *Manager) Inspect(id string, fn func(*game.Game)) error {
	t, err := m.table(id)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.game)
	return nil
}

func (m *Manager) table(id string) (*table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("manager: unknown game %q", id)
	}
	return t, nil
}

func (m *Manager) drainLocked(id string, t *table) []game.Event {
	events := t.game.DrainEvents()
	if m.sink != nil && len(events) > 0 {
		m.sink(id, events)
	}
	return events
}

// armLocked schedules a fold for the current actor. The captured hand number,
// action count and player id guard against firing on a stale turn.
func (m *Manager) armLocked(id string, t *table) {
	if t.actTimeout <= 0 {
		return
	}
	p, ok := t.game.CurrentPlayer()
	if !ok {
		return
	}
	round, ok := t.game.Round()
	if !ok {
		return
	}

	hand := t.game.HandNumber()
	actions := round.ActionCount
	playerID := p.ID

	t.timer = m.clock.AfterFunc(t.actTimeout, func() {
		m.expire(id, t, hand, actions, playerID)
	})
}

func (m *Manager) expire(id string, t *table, hand, actions int, playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.game.HandNumber() != hand {
		return
	}
	round, ok := t.game.Round()
	if !ok || round.ActionCount != actions {
		return
	}
	p, ok := t.game.CurrentPlayer()
	if !ok || p.ID != playerID {
		return
	}

	m.logger.Warn("act clock expired, folding",
		"gameId", id,
		"playerId", playerID,
		"hand", hand)

	if err := t.game.ExecuteAction(playerID, game.Fold, chips.Zero); err != nil {
		m.logger.Error("timeout fold rejected", "gameId", id, "error", err)
		return
	}
	m.drainLocked(id, t)
	m.armLocked(id, t)
}

func (t *table) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
