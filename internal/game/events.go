package game

import (
	"time"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/deck"
)

// EventKind identifies a domain event type.
type EventKind string

const (
	EventGameCreated      EventKind = "game_created"
	EventHandStarted      EventKind = "hand_started"
	EventPlayerActed      EventKind = "player_acted"
	EventPhaseChanged     EventKind = "phase_changed"
	EventPotAwarded       EventKind = "pot_awarded"
	EventHandCompleted    EventKind = "hand_completed"
	EventPlayerEliminated EventKind = "player_eliminated"
)

// Event is a state-change record produced by the aggregate. Events are
// buffered on the game instance and must be drained by the caller in the
// same step that persists the resulting state change.
type Event interface {
	Kind() EventKind
	Timestamp() time.Time
}

// GameCreated is emitted once when the table is formed.
type GameCreated struct {
	GameID     string      `json:"gameId"`
	SmallBlind chips.Chips `json:"smallBlind"`
	BigBlind   chips.Chips `json:"bigBlind"`
	PlayerIDs  []string    `json:"playerIds"`
	at         time.Time
}

func (e GameCreated) Kind() EventKind      { return EventGameCreated }
func (e GameCreated) Timestamp() time.Time { return e.at }

// HandStarted is emitted when a new hand begins, after blinds are posted and
// hole cards are dealt.
type HandStarted struct {
	GameID           string      `json:"gameId"`
	HandNumber       int         `json:"handNumber"`
	DealerSeat       int         `json:"dealerSeat"`
	SmallBlindSeat   int         `json:"smallBlindSeat"`
	BigBlindSeat     int         `json:"bigBlindSeat"`
	SmallBlindPosted chips.Chips `json:"smallBlindPosted"`
	BigBlindPosted   chips.Chips `json:"bigBlindPosted"`
	at               time.Time
}

func (e HandStarted) Kind() EventKind      { return EventHandStarted }
func (e HandStarted) Timestamp() time.Time { return e.at }

// PlayerActed is emitted after every accepted action.
type PlayerActed struct {
	GameID    string      `json:"gameId"`
	PlayerID  string      `json:"playerId"`
	Action    ActionType  `json:"action"`
	Amount    chips.Chips `json:"amount"` // chips moved by this action
	Pot       chips.Chips `json:"pot"`    // pot size after the action
	Remaining chips.Chips `json:"remaining"`
	AllIn     bool        `json:"allIn"`
	Phase     Phase       `json:"phase"`
	at        time.Time
}

func (e PlayerActed) Kind() EventKind      { return EventPlayerActed }
func (e PlayerActed) Timestamp() time.Time { return e.at }

// PhaseChanged is emitted on every transition into a new betting round or
// into showdown.
type PhaseChanged struct {
	GameID         string      `json:"gameId"`
	Phase          Phase       `json:"phase"`
	CommunityCards []deck.Card `json:"communityCards"`
	Pot            chips.Chips `json:"pot"`
	at             time.Time
}

func (e PhaseChanged) Kind() EventKind      { return EventPhaseChanged }
func (e PhaseChanged) Timestamp() time.Time { return e.at }

// PotAwarded is emitted once per winner per pot segment.
type PotAwarded struct {
	GameID   string      `json:"gameId"`
	PlayerID string      `json:"playerId"`
	Amount   chips.Chips `json:"amount"`
	PotKind  PotKind     `json:"potKind"`
	HandDesc string      `json:"handDesc,omitempty"` // empty for fold wins
	at       time.Time
}

func (e PotAwarded) Kind() EventKind      { return EventPotAwarded }
func (e PotAwarded) Timestamp() time.Time { return e.at }

// PlayerHandResult is one player's outcome within a HandCompleted event.
type PlayerHandResult struct {
	PlayerID string      `json:"playerId"`
	Stack    chips.Chips `json:"stack"`
	Net      int64       `json:"net"` // signed change over the hand
}

// HandCompleted is emitted when the hand reaches Finished.
type HandCompleted struct {
	GameID         string             `json:"gameId"`
	HandNumber     int                `json:"handNumber"`
	WentToShowdown bool               `json:"wentToShowdown"`
	Duration       time.Duration      `json:"duration"`
	Results        []PlayerHandResult `json:"results"`
	at             time.Time
}

func (e HandCompleted) Kind() EventKind      { return EventHandCompleted }
func (e HandCompleted) Timestamp() time.Time { return e.at }

// PlayerEliminated is emitted for each player whose stack reached zero when
// the hand completed. Position counts down from the table size: the first
// player out of a 6-seat table finishes 6th.
type PlayerEliminated struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Position int    `json:"position"`
	at       time.Time
}

func (e PlayerEliminated) Kind() EventKind      { return EventPlayerEliminated }
func (e PlayerEliminated) Timestamp() time.Time { return e.at }

// DrainEvents returns the pending events in emission order and clears the
// buffer. Callers drain as part of the same transaction that persists the
// state change, which gives collaborators emit-and-persist atomicity.
func (g *Game) DrainEvents() []Event {
	events := g.events
	g.events = nil
	return events
}

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}
