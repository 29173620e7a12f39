package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/onecard-go/onecard/internal/game/ai"
	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/deck"
	"github.com/onecard-go/onecard/internal/game/effects"
	"github.com/onecard-go/onecard/internal/game/rules"
	"github.com/onecard-go/onecard/internal/game/watchers"
	"go.uber.org/zap"
)

const (
	// DefaultReplayLimit bounds the replay history when Options leaves it unset.
	DefaultReplayLimit = 500
	maxMessages        = 200
)

// Options configures a new game. Zero values pick sensible defaults.
type Options struct {
	// ID names the game; a random UUID is used when empty.
	ID string
	// Seed seeds the random source when Rand is nil. Zero means time-based.
	Seed int64
	// Rand overrides the random source shared by the deck and the default policy.
	Rand deck.Rand
	// Strategy drives the computer; defaults to ai.NewPolicy.
	Strategy ai.Strategy
	// ReplayLimit bounds recorded snapshots. Negative disables recording.
	ReplayLimit int
	// RevealComputerHand includes the computer's cards in snapshots.
	RevealComputerHand bool
}

// Game is a single human-versus-computer match. Each action runs to
// completion under the game's lock, so a Game is safe for concurrent use.
type Game struct {
	id       string
	logger   *zap.Logger
	rand     deck.Rand
	strategy ai.Strategy
	reveal   bool

	mu        sync.Mutex
	deck      *deck.Manager
	player    cards.Hand
	computer  cards.Hand
	state     rules.TurnState
	selection int
	messages  []Message
	startedAt time.Time

	eventBus *rules.EventBus
	watchers *rules.WatcherRegistry
	pending  []rules.Event
	replay   *Replay
}

// New deals a fresh game. The player always moves first.
func New(logger *zap.Logger, opts Options) (*Game, error) {
	g := newGame(logger, opts)

	player, computer, err := g.deck.Deal()
	if err != nil {
		return nil, fmt.Errorf("deal game %s: %w", g.id, err)
	}
	g.player = player
	g.computer = computer

	g.start()
	return g, nil
}

// Restore builds a game from an explicit layout and turn state. The zones
// must pass Zones.Validate; they need not hold all 52 cards.
func Restore(logger *zap.Logger, opts Options, zones Zones, state rules.TurnState) (*Game, error) {
	if err := zones.Validate(); err != nil {
		return nil, fmt.Errorf("restore game: %w", err)
	}
	if state.Current == rules.ActorNone && !state.Over() {
		return nil, fmt.Errorf("restore game: no actor to move")
	}

	g := newGame(logger, opts)
	g.deck = deck.NewManagerWithPiles(g.rand, logger, zones.Deck, zones.Discard)
	g.deck.OnReshuffle(g.onReshuffle)
	g.player = zones.Player.Clone()
	g.computer = zones.Computer.Clone()
	g.state = state

	g.start()
	return g, nil
}

func newGame(logger *zap.Logger, opts Options) *Game {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	g := &Game{
		id:        id,
		logger:    logger,
		reveal:    opts.RevealComputerHand,
		state:     rules.NewTurnState(rules.ActorPlayer),
		messages:  make([]Message, 0, 32),
		startedAt: time.Now(),
		eventBus:  rules.NewEventBus(),
		watchers:  rules.NewWatcherRegistry(),
	}

	g.rand = opts.Rand
	if g.rand == nil {
		g.rand = deck.NewRand(opts.Seed)
	}
	g.strategy = opts.Strategy
	if g.strategy == nil {
		g.strategy = ai.NewPolicy(g.rand)
	}
	g.deck = deck.NewManager(g.rand, logger)
	g.deck.OnReshuffle(g.onReshuffle)

	limit := opts.ReplayLimit
	if limit == 0 {
		limit = DefaultReplayLimit
	}
	if limit > 0 {
		g.replay = NewReplay(id, limit)
	}

	watchers.Register(g.watchers)
	g.eventBus.Subscribe(g.watchers.NotifyWatchers)
	return g
}

func (g *Game) start() {
	g.publish(rules.NewEvent(rules.EventGameStarted, g.state.Current, g.state))
	g.addMessage(rules.ActorNone, "Game started.")
	if g.state.Current == rules.ActorPlayer && !g.state.Over() {
		g.enterPlayerTurn()
	}
	g.record()
	g.pending = nil

	if g.logger != nil {
		top, _ := g.deck.Top()
		g.logger.Info("game started",
			zap.String("game_id", g.id),
			zap.String("top", top.Key()),
			zap.Int("deck_size", g.deck.DeckSize()),
			zap.Stringer("current", g.state.Current),
		)
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Events returns the game's event bus. Listeners run synchronously while the
// game is locked and must not call back into the Game.
func (g *Game) Events() *rules.EventBus {
	return g.eventBus
}

// Watchers returns the registry feeding Snapshot.Stats.
func (g *Game) Watchers() *rules.WatcherRegistry {
	return g.watchers
}

// Replay returns the recorded history, or nil when recording is disabled.
func (g *Game) Replay() *Replay {
	return g.replay
}

// State returns the current turn state.
func (g *Game) State() rules.TurnState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Snapshot returns the player-facing view.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Zones returns a copy of every pile.
func (g *Game) Zones() Zones {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.zonesLocked()
}

func (g *Game) zonesLocked() Zones {
	deckPile, discard := g.deck.Piles()
	return Zones{
		Deck:     deckPile,
		Discard:  discard,
		Player:   g.player.Clone(),
		Computer: g.computer.Clone(),
	}
}

func (g *Game) snapshotLocked() Snapshot {
	top, _ := g.deck.Top()

	playable := []int{}
	if !g.state.Over() {
		playable = rules.PlayableIndices(g.player, top, g.state.StackActive())
	}

	start := 0
	if len(g.messages) > recentMessages {
		start = len(g.messages) - recentMessages
	}
	messages := make([]Message, len(g.messages)-start)
	copy(messages, g.messages[start:])

	snap := Snapshot{
		GameID:        g.id,
		Phase:         g.state.Phase,
		Current:       g.state.Current,
		Winner:        g.state.Winner,
		Turn:          g.state.Turn,
		DrawStack:     g.state.DrawStack,
		SkipTurn:      g.state.SkipTurn,
		ExtraTurn:     g.state.ExtraTurn,
		Top:           top,
		DeckSize:      g.deck.DeckSize(),
		DiscardSize:   g.deck.DiscardSize(),
		PlayerHand:    g.player.Clone(),
		ComputerCount: len(g.computer),
		Selection:     g.selection,
		Playable:      playable,
		Status:        g.status(),
		Messages:      messages,
		Stats:         watchers.Collect(g.watchers),
		StartedAt:     g.startedAt,
	}
	if g.reveal {
		snap.ComputerHand = g.computer.Clone()
	}
	return snap
}

func (g *Game) status() string {
	switch {
	case g.state.Over() && g.state.Winner == rules.ActorPlayer:
		return "You win!"
	case g.state.Over():
		return "Computer wins!"
	case len(g.messages) > 0:
		return g.messages[len(g.messages)-1].Text
	default:
		return ""
	}
}

// SubmitPlayerAction applies one human input.
func (g *Game) SubmitPlayerAction(action Action) ActionResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = nil
	if err := g.checkTurn(rules.ActorPlayer); err != nil {
		return g.reject(rules.ActorPlayer, err)
	}

	if g.logger != nil {
		g.logger.Debug("player action",
			zap.String("game_id", g.id),
			zap.Stringer("action", action.Kind),
			zap.Int("index", action.Index),
			zap.Int("delta", action.Delta),
		)
	}

	var err error
	switch action.Kind {
	case ActionMoveSelection:
		err = g.moveSelection(action.Delta)
	case ActionPlayCard:
		err = g.play(rules.ActorPlayer, action.Index)
	case ActionDrawCard:
		g.draw(rules.ActorPlayer)
	default:
		err = fmt.Errorf("unknown action %s", action.Kind)
	}
	if err != nil {
		return g.reject(rules.ActorPlayer, err)
	}
	return g.accept()
}

// AdvanceComputerTurn lets the computer take exactly one decision.
func (g *Game) AdvanceComputerTurn() ActionResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = nil
	if err := g.checkTurn(rules.ActorComputer); err != nil {
		return g.reject(rules.ActorComputer, err)
	}

	top, _ := g.deck.Top()
	decision := g.strategy.Decide(ai.Input{
		Hand:  g.computer.Clone(),
		Top:   top,
		State: g.state,
	})

	if g.logger != nil {
		g.logger.Debug("computer decision",
			zap.String("game_id", g.id),
			zap.Stringer("decision", decision),
			zap.Int("draw_stack", g.state.DrawStack),
		)
	}

	if g.state.SkipTurn && decision.Kind != ai.DecisionSkip {
		return g.reject(rules.ActorComputer, fmt.Errorf("%w: turn must be skipped", rules.ErrInvalidMove))
	}

	var err error
	switch decision.Kind {
	case ai.DecisionSkip:
		err = g.skipComputer()
	case ai.DecisionPlay:
		err = g.play(rules.ActorComputer, decision.Index)
	case ai.DecisionDraw:
		g.draw(rules.ActorComputer)
	default:
		err = fmt.Errorf("unknown decision %s", decision.Kind)
	}
	if err != nil {
		return g.reject(rules.ActorComputer, err)
	}
	return g.accept()
}

func (g *Game) checkTurn(actor rules.Actor) error {
	if g.state.Over() {
		return ErrGameOver
	}
	if g.state.Current != actor {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) accept() ActionResult {
	g.record()
	events := g.pending
	g.pending = nil
	return ActionResult{
		Accepted: true,
		Snapshot: g.snapshotLocked(),
		Events:   events,
	}
}

func (g *Game) reject(actor rules.Actor, err error) ActionResult {
	if g.logger != nil {
		g.logger.Debug("action rejected",
			zap.String("game_id", g.id),
			zap.Stringer("actor", actor),
			zap.String("reason", err.Error()),
		)
	}
	g.pending = nil
	return ActionResult{
		Reason:   err.Error(),
		Err:      err,
		Snapshot: g.snapshotLocked(),
	}
}

func (g *Game) moveSelection(delta int) error {
	n := len(g.player)
	if n == 0 {
		return ErrNoSelection
	}
	g.selection = ((g.selection+delta)%n + n) % n
	return nil
}

func (g *Game) hand(actor rules.Actor) *cards.Hand {
	if actor == rules.ActorComputer {
		return &g.computer
	}
	return &g.player
}

// play validates and applies a card play. Nothing is mutated on error.
func (g *Game) play(actor rules.Actor, index int) error {
	hand := g.hand(actor)
	card, ok := hand.At(index)
	if !ok {
		return ErrNoSelection
	}
	top, _ := g.deck.Top()
	if err := rules.Check(card, top, g.state.DrawStack); err != nil {
		return err
	}

	hand.RemoveAt(index)
	g.deck.Discard(card)
	g.state = effects.ApplyEffect(card, g.state)

	if actor == rules.ActorPlayer {
		g.selection = max(0, len(g.player)-1)
	}

	evt := rules.NewCardEvent(rules.EventCardPlayed, actor, card, g.state)
	evt.Description = effects.Describe(card, g.state)
	g.publish(evt)
	g.addMessage(actor, playedText(actor, card))

	if g.logger != nil {
		g.logger.Debug("card played",
			zap.String("game_id", g.id),
			zap.Stringer("actor", actor),
			zap.String("card", card.Key()),
			zap.Int("draw_stack", g.state.DrawStack),
		)
	}

	if hand.IsEmpty() {
		g.finish(actor)
		return nil
	}

	if next, extra := g.state.ConsumeExtraTurn(); extra {
		g.state = next
		g.publish(rules.NewEvent(rules.EventExtraTurn, actor, g.state))
		g.addMessage(actor, extraTurnText(actor))
		return nil
	}

	g.passTo(actor.Opponent())
	return nil
}

// draw pays off the pending stack, or takes a single card, then ends the turn.
func (g *Game) draw(actor rules.Actor) {
	hand := g.hand(actor)

	want := 1
	stacked := g.state.StackActive()
	if stacked {
		g.state, want = g.state.ResolveStack()
	}

	drawn := 0
	for i := 0; i < want; i++ {
		next, ok := g.deck.Draw(*hand)
		if !ok {
			break
		}
		*hand = next
		drawn++
	}

	if actor == rules.ActorPlayer && drawn > 0 {
		g.selection = len(g.player) - 1
	}

	g.publish(rules.NewEventWithAmount(rules.EventCardsDrawn, actor, drawn, g.state))
	if stacked {
		g.publish(rules.NewEventWithAmount(rules.EventStackResolved, actor, want, g.state))
	}
	g.addMessage(actor, drewText(actor, drawn))

	if g.logger != nil {
		g.logger.Debug("cards drawn",
			zap.String("game_id", g.id),
			zap.Stringer("actor", actor),
			zap.Int("requested", want),
			zap.Int("drawn", drawn),
		)
	}

	g.passTo(actor.Opponent())
}

func (g *Game) skipComputer() error {
	next, skipped := g.state.ConsumeSkip()
	if !skipped {
		return fmt.Errorf("%w: no skip pending", rules.ErrInvalidMove)
	}
	g.state = next
	g.publish(rules.NewEvent(rules.EventTurnSkipped, rules.ActorComputer, g.state))
	g.addMessage(rules.ActorComputer, "Computer's turn is skipped!")
	g.passTo(rules.ActorPlayer)
	return nil
}

func (g *Game) passTo(next rules.Actor) {
	g.state = g.state.PassTo(next)
	g.publish(rules.NewEvent(rules.EventTurnPassed, next, g.state))
	if next == rules.ActorPlayer {
		g.enterPlayerTurn()
	}
}

// enterPlayerTurn forfeits the player's turn when a jack is pending.
func (g *Game) enterPlayerTurn() {
	next, skipped := g.state.ConsumeSkip()
	if !skipped {
		return
	}
	g.state = next
	g.publish(rules.NewEvent(rules.EventTurnSkipped, rules.ActorPlayer, g.state))
	g.addMessage(rules.ActorPlayer, "Your turn is skipped!")
	g.state = g.state.PassTo(rules.ActorComputer)
	g.publish(rules.NewEvent(rules.EventTurnPassed, rules.ActorComputer, g.state))
}

func (g *Game) finish(winner rules.Actor) {
	g.state = g.state.Finish(winner)
	g.publish(rules.NewEvent(rules.EventGameOver, winner, g.state))
	if winner == rules.ActorPlayer {
		g.addMessage(winner, "You win!")
	} else {
		g.addMessage(winner, "Computer wins!")
	}

	if g.logger != nil {
		g.logger.Info("game over",
			zap.String("game_id", g.id),
			zap.Stringer("winner", winner),
			zap.Int("turn", g.state.Turn),
		)
	}
}

func (g *Game) onReshuffle(moved int) {
	g.publish(rules.NewEventWithAmount(rules.EventReshuffled, rules.ActorNone, moved, g.state))
	g.addMessage(rules.ActorNone, fmt.Sprintf("Reshuffled %d cards into the deck.", moved))
}

func (g *Game) publish(evt rules.Event) {
	g.pending = append(g.pending, evt)
	g.eventBus.Publish(evt)
}

func (g *Game) addMessage(actor rules.Actor, text string) {
	g.messages = append(g.messages, Message{
		Text:      text,
		Actor:     actor,
		Timestamp: time.Now(),
	})
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}

func (g *Game) record() {
	if g.replay != nil {
		g.replay.Record(g.snapshotLocked())
	}
}

func playedText(actor rules.Actor, card cards.Card) string {
	if actor == rules.ActorComputer {
		return fmt.Sprintf("Computer played %s.", card)
	}
	return fmt.Sprintf("You played %s.", card)
}

func drewText(actor rules.Actor, n int) string {
	who := "You"
	if actor == rules.ActorComputer {
		who = "Computer"
	}
	switch n {
	case 0:
		return who + " had nothing to draw."
	case 1:
		return who + " drew a card."
	default:
		return fmt.Sprintf("%s drew %d cards.", who, n)
	}
}

func extraTurnText(actor rules.Actor) string {
	if actor == rules.ActorComputer {
		return "Computer takes another turn."
	}
	return "You take another turn."
}
