package watchers

import (
	"github.com/onecard-go/onecard/internal/game/rules"
)

// Watcher keys used by Register and Collect.
const (
	KeyCardsPlayed  = "CardsPlayedWatcher"
	KeyCardsDrawn   = "CardsDrawnWatcher"
	KeyAttackChain  = "AttackChainWatcher"
	KeyReshuffles   = "ReshuffleWatcher"
	KeyTurnsSkipped = "TurnsSkippedWatcher"
)

// perActor counts something for each actor.
type perActor map[rules.Actor]int

func (p perActor) clone() perActor {
	cpy := make(perActor, len(p))
	for k, v := range p {
		cpy[k] = v
	}
	return cpy
}

// CardsPlayedWatcher tracks cards played by each actor.
type CardsPlayedWatcher struct {
	*rules.BaseWatcher
	played perActor
}

// NewCardsPlayedWatcher creates a new cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	w := &CardsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		played:      make(perActor),
	}
	w.SetKey(KeyCardsPlayed)
	return w
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardPlayed || event.Actor == rules.ActorNone {
		return
	}
	w.played[event.Actor]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = make(perActor)
}

// GetCount returns the number of cards actor has played.
func (w *CardsPlayedWatcher) GetCount(actor rules.Actor) int {
	return w.played[actor]
}

// Copy creates a copy of this watcher.
func (w *CardsPlayedWatcher) Copy() rules.Watcher {
	cpy := NewCardsPlayedWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.played = w.played.clone()
	return cpy
}

// CardsDrawnWatcher tracks cards drawn by each actor, including forced draws.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	drawn perActor
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	w := &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		drawn:       make(perActor),
	}
	w.SetKey(KeyCardsDrawn)
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardsDrawn || event.Amount <= 0 {
		return
	}
	w.drawn[event.Actor] += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.drawn = make(perActor)
}

// GetCount returns the number of cards actor has drawn.
func (w *CardsDrawnWatcher) GetCount(actor rules.Actor) int {
	return w.drawn[actor]
}

// Copy creates a copy of this watcher.
func (w *CardsDrawnWatcher) Copy() rules.Watcher {
	cpy := NewCardsDrawnWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.drawn = w.drawn.clone()
	return cpy
}

// AttackChainWatcher records the largest draw stack reached in the game.
type AttackChainWatcher struct {
	*rules.BaseWatcher
	longest  int
	resolved int
}

// NewAttackChainWatcher creates a new attack chain watcher.
func NewAttackChainWatcher() *AttackChainWatcher {
	w := &AttackChainWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
	}
	w.SetKey(KeyAttackChain)
	return w
}

// Watch implements the Watcher interface.
func (w *AttackChainWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventCardPlayed:
		if event.DrawStack > w.longest {
			w.longest = event.DrawStack
			w.SetCondition(true)
		}
	case rules.EventStackResolved:
		w.resolved++
	}
}

// Reset clears the watcher's state.
func (w *AttackChainWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.longest = 0
	w.resolved = 0
}

// Longest returns the largest draw stack seen.
func (w *AttackChainWatcher) Longest() int {
	return w.longest
}

// Resolved returns how many stacks were paid off by drawing.
func (w *AttackChainWatcher) Resolved() int {
	return w.resolved
}

// Copy creates a copy of this watcher.
func (w *AttackChainWatcher) Copy() rules.Watcher {
	cpy := NewAttackChainWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.longest = w.longest
	cpy.resolved = w.resolved
	return cpy
}

// ReshuffleWatcher counts discard pile reshuffles.
type ReshuffleWatcher struct {
	*rules.BaseWatcher
	count int
	moved int
}

// NewReshuffleWatcher creates a new reshuffle watcher.
func NewReshuffleWatcher() *ReshuffleWatcher {
	w := &ReshuffleWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
	}
	w.SetKey(KeyReshuffles)
	return w
}

// Watch implements the Watcher interface.
func (w *ReshuffleWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventReshuffled {
		return
	}
	w.count++
	w.moved += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *ReshuffleWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.count = 0
	w.moved = 0
}

// GetCount returns the number of reshuffles.
func (w *ReshuffleWatcher) GetCount() int {
	return w.count
}

// CardsMoved returns the total number of cards moved back into the deck.
func (w *ReshuffleWatcher) CardsMoved() int {
	return w.moved
}

// Copy creates a copy of this watcher.
func (w *ReshuffleWatcher) Copy() rules.Watcher {
	cpy := NewReshuffleWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.count = w.count
	cpy.moved = w.moved
	return cpy
}

// TurnsSkippedWatcher tracks how often each actor lost a turn to a jack.
type TurnsSkippedWatcher struct {
	*rules.BaseWatcher
	skipped perActor
}

// NewTurnsSkippedWatcher creates a new turns skipped watcher.
func NewTurnsSkippedWatcher() *TurnsSkippedWatcher {
	w := &TurnsSkippedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		skipped:     make(perActor),
	}
	w.SetKey(KeyTurnsSkipped)
	return w
}

// Watch implements the Watcher interface.
func (w *TurnsSkippedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventTurnSkipped {
		return
	}
	w.skipped[event.Actor]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *TurnsSkippedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.skipped = make(perActor)
}

// GetCount returns the number of turns actor has lost.
func (w *TurnsSkippedWatcher) GetCount(actor rules.Actor) int {
	return w.skipped[actor]
}

// Copy creates a copy of this watcher.
func (w *TurnsSkippedWatcher) Copy() rules.Watcher {
	cpy := NewTurnsSkippedWatcher()
	cpy.SetCondition(w.ConditionMet())
	cpy.skipped = w.skipped.clone()
	return cpy
}
