package game

import (
	rand "math/rand/v2"
	"time"

	"github.com/coder/quartz"

	"github.com/cardroomlabs/holdem/internal/chips"
	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/gameid"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

// Table size limits.
const (
	MinPlayers = 2
	MaxPlayers = 10
)

// PlayerConfig describes one seat at table creation. An empty ID gets a
// generated one.
type PlayerConfig struct {
	ID            string
	Name          string
	StartingStack chips.Chips
	Bot           bool
}

// Game is the authoritative state machine for one table. It is not safe for
// concurrent use: the caller must serialize commands per instance (one lock
// or single-writer actor per game id). Every public operation either
// completes fully — validate, mutate, emit — or fails without mutation.
type Game struct {
	id          string
	smallBlind  chips.Chips
	bigBlind    chips.Chips
	dealerSeat  int
	currentSeat int // -1 when no action is expected
	handNumber  int
	phase       Phase
	players     []*Player
	community   []deck.Card
	deck        *deck.Deck
	round       *BettingRound
	pots        *potManager
	finished    bool
	events      []Event

	rng        *rand.Rand
	evaluator  Evaluator
	clock      quartz.Clock
	handStart  time.Time
	startStack map[string]chips.Chips
}

// New creates a table with 2-10 players and validated blinds. Seat indices
// follow input order; the dealer starts at seat zero.
func New(players []PlayerConfig, smallBlind, bigBlind chips.Chips, opts ...Option) (*Game, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, structuralError(CodeInvalidPlayerCount, "player count must be between 2 and 10").
			With("count", len(players))
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, structuralError(CodeInvalidBlinds, "big blind must be at least the small blind").
			With("smallBlind", smallBlind).
			With("bigBlind", bigBlind)
	}

	g := &Game{
		smallBlind:  smallBlind,
		bigBlind:    bigBlind,
		currentSeat: -1,
		phase:       PreFlop,
		pots:        newPotManager(),
	}

	seen := make(map[string]bool)
	for seat, cfg := range players {
		if cfg.StartingStack <= 0 {
			return nil, structuralError(CodeInvalidStack, "starting stack must be positive").
				With("player", cfg.Name).
				With("stack", cfg.StartingStack)
		}
		id := cfg.ID
		if id == "" {
			id = gameid.New()
		}
		if seen[id] {
			return nil, structuralError(CodeInvalidPlayerCount, "duplicate player id").
				With("playerId", id)
		}
		seen[id] = true
		g.players = append(g.players, &Player{
			ID:    id,
			Name:  cfg.Name,
			Bot:   cfg.Bot,
			Seat:  seat,
			Stack: cfg.StartingStack,
		})
	}

	for _, opt := range opts {
		opt(g)
	}
	if g.id == "" {
		g.id = gameid.New()
	}
	if g.rng == nil {
		g.rng = randutil.NewFromTime()
	}
	if g.clock == nil {
		g.clock = quartz.NewReal()
	}
	if g.evaluator == nil {
		return nil, structuralError(CodeEvaluatorRequired, "a showdown evaluator is required")
	}

	ids := make([]string, len(g.players))
	for i, p := range g.players {
		ids[i] = p.ID
	}
	g.emit(GameCreated{
		GameID:     g.id,
		SmallBlind: g.smallBlind,
		BigBlind:   g.bigBlind,
		PlayerIDs:  ids,
		at:         g.clock.Now(),
	})

	return g, nil
}

// StartNewHand begins the next hand: resets per-hand state, advances the
// dealer, reshuffles, deals hole cards, posts blinds and sets the first
// actor. Fails if the game is finished or fewer than two players are funded.
func (g *Game) StartNewHand() error {
	if g.finished {
		return structuralError(CodeGameFinished, "game is permanently finished").
			With("gameId", g.id)
	}
	if g.handNumber > 0 && g.phase != Finished {
		return structuralError(CodeHandInProgress, "previous hand has not completed").
			With("handNumber", g.handNumber).
			With("phase", g.phase.String())
	}
	if g.countFunded() < MinPlayers {
		return structuralError(CodeNotEnoughPlayers, "fewer than two players hold chips").
			With("funded", g.countFunded())
	}

	g.handNumber++
	g.community = nil
	g.pots.clear()
	for _, p := range g.players {
		p.resetForHand()
	}

	// The dealer button moves to the next funded seat each hand, except the
	// very first.
	if g.handNumber > 1 {
		g.dealerSeat = g.nextFundedSeat(g.dealerSeat + 1)
	}

	g.deck = deck.New(g.rng)
	g.deck.Shuffle()

	g.startStack = make(map[string]chips.Chips, len(g.players))
	for _, p := range g.players {
		g.startStack[p.ID] = p.Stack
	}

	if err := g.dealHoleCards(); err != nil {
		return err
	}

	// Heads-up the dealer posts the small blind; otherwise the blinds are
	// the next two funded seats clockwise from the dealer.
	var sbSeat int
	if g.countFunded() == 2 {
		sbSeat = g.dealerSeat
	} else {
		sbSeat = g.nextFundedSeat(g.dealerSeat + 1)
	}
	bbSeat := g.nextFundedSeat(sbSeat + 1)

	sbPosted := g.players[sbSeat].pay(g.smallBlind)
	bbPosted := g.players[bbSeat].pay(g.bigBlind)

	g.phase = PreFlop
	g.round = newBettingRound(PreFlop, g.bigBlind)
	g.currentSeat = g.nextActor(bbSeat + 1)
	g.handStart = g.clock.Now()

	g.emit(HandStarted{
		GameID:           g.id,
		HandNumber:       g.handNumber,
		DealerSeat:       g.dealerSeat,
		SmallBlindSeat:   sbSeat,
		BigBlindSeat:     bbSeat,
		SmallBlindPosted: sbPosted,
		BigBlindPosted:   bbPosted,
		at:               g.handStart,
	})

	// Blinds can put everyone all-in; run the hand out if nobody can act.
	if g.roundComplete() {
		return g.advancePhase()
	}
	return nil
}

// dealHoleCards gives two cards to each funded player, one card per player
// per pass, starting left of the dealer.
func (g *Game) dealHoleCards() error {
	n := len(g.players)
	for pass := 0; pass < 2; pass++ {
		for i := 1; i <= n; i++ {
			p := g.players[(g.dealerSeat+i)%n]
			if p.Folded {
				continue
			}
			card, err := g.deck.Deal()
			if err != nil {
				return err
			}
			p.HoleCards = append(p.HoleCards, card)
		}
	}
	return nil
}

// ExecuteAction validates and applies one player command. Any rule violation
// rejects the whole command before mutation; the player stays the current
// actor and may retry.
func (g *Game) ExecuteAction(playerID string, action ActionType, amount chips.Chips) error {
	if g.finished {
		return structuralError(CodeGameFinished, "game is permanently finished").
			With("gameId", g.id)
	}
	p := g.playerByID(playerID)
	if p == nil {
		return referentialError(CodeUnknownPlayer, "player is not part of this game").
			With("playerId", playerID)
	}
	if g.currentSeat < 0 || g.round == nil {
		return referentialError(CodeNoCurrentPlayer, "no action is expected").
			With("phase", g.phase.String())
	}
	if amount < 0 {
		return actionError(CodeInvalidAmount, "amount cannot be negative").
			With("amount", amount)
	}
	if g.players[g.currentSeat].ID != playerID {
		return actionError(CodeNotPlayersTurn, "not this player's turn").
			With("playerId", playerID).
			With("currentPlayer", g.players[g.currentSeat].ID)
	}
	if p.Folded {
		return actionError(CodePlayerFolded, "player has already folded").
			With("playerId", playerID)
	}
	if p.AllIn {
		return actionError(CodePlayerAllIn, "player is already all-in").
			With("playerId", playerID)
	}

	var paid chips.Chips
	switch action {
	case Fold:
		p.Folded = true

	case Check:
		if p.Bet != g.round.CurrentBet {
			return actionError(CodeCannotCheckFacingBet, "cannot check while facing a bet").
				With("toCall", g.round.CurrentBet.SubOrZero(p.Bet))
		}

	case Call:
		paid = p.pay(g.round.CurrentBet.SubOrZero(p.Bet))

	case Bet:
		if g.round.CurrentBet > 0 {
			return actionError(CodeBetNotAllowed, "there is an open bet, raise instead").
				With("currentBet", g.round.CurrentBet)
		}
		if amount < g.bigBlind {
			return actionError(CodeInvalidBetAmount, "bet must be at least the big blind").
				With("amount", amount).
				With("minimum", g.bigBlind)
		}
		if amount > p.Stack {
			return actionError(CodeInsufficientChips, "bet exceeds stack").
				With("amount", amount).
				With("stack", p.Stack)
		}
		paid = p.pay(amount)
		g.round.recordBet(p.ID, p.Bet, amount)
		g.resetActedExcept(p)

	case Raise:
		if g.round.CurrentBet.IsZero() {
			return actionError(CodeRaiseNotAllowed, "no open bet to raise, bet instead")
		}
		if amount < g.round.MinRaise {
			return actionError(CodeInvalidRaiseAmount, "raise increment below minimum").
				With("amount", amount).
				With("minRaise", g.round.MinRaise)
		}
		newBet := g.round.CurrentBet.Add(amount)
		required := newBet.SubOrZero(p.Bet)
		if required > p.Stack {
			return actionError(CodeInsufficientChips, "raise exceeds stack").
				With("required", required).
				With("stack", p.Stack)
		}
		paid = p.pay(required)
		g.round.recordBet(p.ID, p.Bet, amount)
		g.resetActedExcept(p)

	case AllIn:
		paid = p.pay(p.Stack)
		if p.Bet > g.round.CurrentBet {
			// A short all-in raises the bet level without re-opening action
			// for players who already matched the prior bet.
			excess := p.Bet.SubOrZero(g.round.CurrentBet)
			reopens := excess.GreaterEq(g.round.MinRaise)
			g.round.recordBet(p.ID, p.Bet, excess)
			if reopens {
				g.resetActedExcept(p)
			}
		}

	default:
		return actionError(CodeInvalidAmount, "unknown action").
			With("action", int(action))
	}

	p.Acted = true
	g.round.ActionCount++
	g.emit(PlayerActed{
		GameID:    g.id,
		PlayerID:  p.ID,
		Action:    action,
		Amount:    paid,
		Pot:       g.PotSize(),
		Remaining: p.Stack,
		AllIn:     p.AllIn,
		Phase:     g.phase,
		at:        g.clock.Now(),
	})

	// A fold that leaves one player ends the hand immediately, without
	// dealing the remaining community cards.
	if g.countActive() == 1 {
		return g.awardFoldWin()
	}

	if g.roundComplete() {
		return g.advancePhase()
	}
	g.currentSeat = g.nextActor(g.currentSeat + 1)
	return nil
}

// resetActedExcept re-opens the round after a full bet or raise: everyone
// still able to act must respond to the new bet level.
func (g *Game) resetActedExcept(actor *Player) {
	for _, p := range g.players {
		if p != actor && p.CanAct() {
			p.Acted = false
		}
	}
}

// roundComplete reports whether the current betting round is finished:
// every player who can still act has acted and matched the current bet, or
// at most one such player remains with their contribution settled.
func (g *Game) roundComplete() bool {
	if g.countActive() <= 1 {
		return true
	}
	var actable []*Player
	for _, p := range g.players {
		if p.CanAct() {
			actable = append(actable, p)
		}
	}
	switch len(actable) {
	case 0:
		return true
	case 1:
		// Sole player left facing only all-ins: nothing more to decide once
		// their contribution matches the bet.
		return actable[0].Bet == g.round.CurrentBet
	}
	for _, p := range actable {
		if !p.Acted || p.Bet != g.round.CurrentBet {
			return false
		}
	}
	return true
}

// advancePhase collects bets, deals the next street (burning first) and
// opens a fresh betting round. When nobody is left to act it keeps
// advancing until showdown.
func (g *Game) advancePhase() error {
	g.collectBets()

	switch g.phase {
	case PreFlop:
		if err := g.dealCommunity(3); err != nil {
			return err
		}
		g.phase = Flop
	case Flop:
		if err := g.dealCommunity(1); err != nil {
			return err
		}
		g.phase = Turn
	case Turn:
		if err := g.dealCommunity(1); err != nil {
			return err
		}
		g.phase = River
	case River:
		g.phase = Showdown
		g.emit(PhaseChanged{
			GameID:         g.id,
			Phase:          g.phase,
			CommunityCards: g.CommunityCards(),
			Pot:            g.pots.total(),
			at:             g.clock.Now(),
		})
		if err := g.resolveShowdown(); err != nil {
			return err
		}
		g.completeHand(true)
		return nil
	default:
		return nil
	}

	g.round = newBettingRound(g.phase, g.bigBlind)
	g.currentSeat = g.nextActor(g.dealerSeat + 1)

	g.emit(PhaseChanged{
		GameID:         g.id,
		Phase:          g.phase,
		CommunityCards: g.CommunityCards(),
		Pot:            g.pots.total(),
		at:             g.clock.Now(),
	})

	// All remaining players all-in: nothing to wait for, run out the board.
	if g.roundComplete() {
		return g.advancePhase()
	}
	return nil
}

// collectBets folds the round's bets into the pot layering and resets the
// per-round state on each player.
func (g *Game) collectBets() {
	for _, p := range g.players {
		p.Bet = 0
		p.Acted = false
	}
	g.pots.rebuild(g.players)
}

func (g *Game) dealCommunity(n int) error {
	if err := g.deck.Burn(); err != nil {
		return err
	}
	cards, err := g.deck.DealN(n)
	if err != nil {
		return err
	}
	g.community = append(g.community, cards...)
	return nil
}

// resolveShowdown awards each pot segment independently: only players who
// contributed to a segment can win it, ties split evenly and the indivisible
// remainder goes to the first winner in seat order from the dealer.
func (g *Game) resolveShowdown() error {
	ranks := make(map[string]HandRank)

	for _, pot := range g.pots.snapshot() {
		contenders := g.contenders(pot.Eligible)
		if len(contenders) == 0 {
			continue
		}
		if len(contenders) == 1 {
			winner := contenders[0]
			winner.Stack = winner.Stack.Add(pot.Amount)
			g.emit(PotAwarded{
				GameID:   g.id,
				PlayerID: winner.ID,
				Amount:   pot.Amount,
				PotKind:  pot.Kind,
				at:       g.clock.Now(),
			})
			continue
		}

		var best HandRank
		var winners []*Player
		for _, p := range contenders {
			rank, ok := ranks[p.ID]
			if !ok {
				var err error
				rank, err = g.evaluator.EvaluateHand(p.HoleCards, g.community)
				if err != nil {
					return referentialError(CodeEvaluatorRequired, "showdown evaluator failed").
						With("playerId", p.ID).
						With("cause", err.Error())
				}
				ranks[p.ID] = rank
			}
			switch {
			case len(winners) == 0 || rank.Compare(best) > 0:
				best = rank
				winners = []*Player{p}
			case rank.Compare(best) == 0:
				winners = append(winners, p)
			}
		}

		share := pot.Amount.SplitShare(len(winners))
		remainder := pot.Amount.SplitRemainder(len(winners))
		for i, w := range g.orderFromDealer(winners) {
			amount := share
			if i == 0 {
				amount = amount.Add(remainder)
			}
			w.Stack = w.Stack.Add(amount)
			g.emit(PotAwarded{
				GameID:   g.id,
				PlayerID: w.ID,
				Amount:   amount,
				PotKind:  pot.Kind,
				HandDesc: ranks[w.ID].Name,
				at:       g.clock.Now(),
			})
		}
	}

	g.pots.clear()
	return nil
}

// contenders filters a pot's eligible ids down to players still in the hand.
func (g *Game) contenders(eligible []string) []*Player {
	var out []*Player
	for _, id := range eligible {
		if p := g.playerByID(id); p != nil && !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// orderFromDealer sorts players by seat distance clockwise from the dealer,
// making remainder assignment deterministic.
func (g *Game) orderFromDealer(players []*Player) []*Player {
	n := len(g.players)
	out := append([]*Player(nil), players...)
	dist := func(p *Player) int {
		return (p.Seat - g.dealerSeat - 1 + n) % n
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && dist(out[j]) < dist(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// awardFoldWin gives the whole pot to the last player standing and
// completes the hand without a showdown.
func (g *Game) awardFoldWin() error {
	g.collectBets()

	var winner *Player
	for _, p := range g.players {
		if !p.Folded {
			winner = p
			break
		}
	}
	if winner == nil {
		return referentialError(CodeNoCurrentPlayer, "no remaining player to award")
	}

	total := g.pots.total()
	winner.Stack = winner.Stack.Add(total)
	g.pots.clear()
	g.emit(PotAwarded{
		GameID:   g.id,
		PlayerID: winner.ID,
		Amount:   total,
		PotKind:  MainPot,
		at:       g.clock.Now(),
	})

	g.completeHand(false)
	return nil
}

// completeHand snapshots results, emits completion and elimination events,
// and marks the game permanently finished when fewer than two players
// retain chips.
func (g *Game) completeHand(wentToShowdown bool) {
	g.phase = Finished
	g.currentSeat = -1
	g.round = nil
	for _, p := range g.players {
		p.Bet = 0
		p.TotalBet = 0
	}

	results := make([]PlayerHandResult, 0, len(g.players))
	for _, p := range g.players {
		results = append(results, PlayerHandResult{
			PlayerID: p.ID,
			Stack:    p.Stack,
			Net:      p.Stack.Int64() - g.startStack[p.ID].Int64(),
		})
	}
	g.emit(HandCompleted{
		GameID:         g.id,
		HandNumber:     g.handNumber,
		WentToShowdown: wentToShowdown,
		Duration:       g.clock.Now().Sub(g.handStart),
		Results:        results,
		at:             g.clock.Now(),
	})

	funded := g.countFunded()
	for _, p := range g.players {
		if p.Eliminated || p.HasChips() {
			continue
		}
		if g.startStack[p.ID].IsZero() {
			// Busted in an earlier hand; already announced.
			continue
		}
		p.Eliminated = true
		g.emit(PlayerEliminated{
			GameID:   g.id,
			PlayerID: p.ID,
			Position: funded + 1,
			at:       g.clock.Now(),
		})
	}

	if funded < MinPlayers {
		g.finished = true
	}
}

// Seat walking helpers. Both scan at most one full orbit.

func (g *Game) nextFundedSeat(from int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if g.players[seat].HasChips() {
			return seat
		}
	}
	return from % n
}

func (g *Game) nextActor(from int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if g.players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) countActive() int {
	count := 0
	for _, p := range g.players {
		if p.IsActive() {
			count++
		}
	}
	return count
}

func (g *Game) countFunded() int {
	count := 0
	for _, p := range g.players {
		if p.HasChips() {
			count++
		}
	}
	return count
}

// Read accessors. Views are copies; mutating them does not touch the game.

// ID returns the game id.
func (g *Game) ID() string { return g.id }

// Phase returns the current hand phase.
func (g *Game) Phase() Phase { return g.phase }

// HandNumber returns the 1-based number of the current hand.
func (g *Game) HandNumber() int { return g.handNumber }

// Finished reports whether the game is permanently over.
func (g *Game) Finished() bool { return g.finished }

// SmallBlind returns the small blind amount.
func (g *Game) SmallBlind() chips.Chips { return g.smallBlind }

// BigBlind returns the big blind amount.
func (g *Game) BigBlind() chips.Chips { return g.bigBlind }

// DealerSeat returns the current dealer seat index.
func (g *Game) DealerSeat() int { return g.dealerSeat }

// CurrentSeat returns the seat expected to act, or -1.
func (g *Game) CurrentSeat() int { return g.currentSeat }

// CurrentPlayer returns a copy of the player expected to act.
func (g *Game) CurrentPlayer() (Player, bool) {
	if g.currentSeat < 0 {
		return Player{}, false
	}
	return g.playerView(g.players[g.currentSeat]), true
}

// Players returns copies of all seats in seat order.
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = g.playerView(p)
	}
	return out
}

func (g *Game) playerView(p *Player) Player {
	view := *p
	view.HoleCards = append([]deck.Card(nil), p.HoleCards...)
	return view
}

// CommunityCards returns a copy of the board.
func (g *Game) CommunityCards() []deck.Card {
	return append([]deck.Card(nil), g.community...)
}

// PotSize returns the total chips in play for the current hand, including
// bets not yet collected into pots. Pot layering is derived from the
// players' contributions, so the total is simply their sum.
func (g *Game) PotSize() chips.Chips {
	total := chips.Zero
	for _, p := range g.players {
		total = total.Add(p.TotalBet)
	}
	return total
}

// Pots returns the current pot layering, derived from contributions so far.
func (g *Game) Pots() []Pot {
	pm := newPotManager()
	pm.rebuild(g.players)
	return pm.snapshot()
}

// Round returns a snapshot of the current betting round.
func (g *Game) Round() (BettingRound, bool) {
	if g.round == nil {
		return BettingRound{}, false
	}
	return *g.round, true
}

// TotalChips returns the sum of all stacks and all money in play. Within a
// hand this is constant: chips move, they are never created or destroyed.
func (g *Game) TotalChips() chips.Chips {
	total := chips.Zero
	for _, p := range g.players {
		total = total.Add(p.Stack).Add(p.TotalBet)
	}
	return total
}
