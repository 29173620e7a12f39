package rules

import (
	"sync"
	"time"

	"github.com/onecard-go/onecard/internal/game/cards"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	EventGameStarted   EventType = "GAME_STARTED"
	EventCardPlayed    EventType = "CARD_PLAYED"
	EventCardsDrawn    EventType = "CARDS_DRAWN"
	EventStackResolved EventType = "STACK_RESOLVED"
	EventTurnSkipped   EventType = "TURN_SKIPPED"
	EventExtraTurn     EventType = "EXTRA_TURN"
	EventTurnPassed    EventType = "TURN_PASSED"
	EventReshuffled    EventType = "RESHUFFLED"
	EventGameOver      EventType = "GAME_OVER"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType  `json:"type"`
	Actor       Actor      `json:"actor"`
	Card        cards.Card `json:"card,omitempty"`
	Amount      int        `json:"amount,omitempty"`
	DrawStack   int        `json:"draw_stack"`
	Turn        int        `json:"turn"`
	Description string     `json:"description,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle, whether
// it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.order {
			if h == handle {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
		return
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously, in
// subscription order. Listeners must not publish or subscribe re-entrantly.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, handle := range bus.order {
		bus.listeners[handle](event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated from state.
func NewEvent(eventType EventType, actor Actor, state TurnState) Event {
	return Event{
		Type:      eventType,
		Actor:     actor,
		DrawStack: state.DrawStack,
		Turn:      state.Turn,
		Timestamp: time.Now(),
	}
}

// NewCardEvent creates an event about a single card.
func NewCardEvent(eventType EventType, actor Actor, card cards.Card, state TurnState) Event {
	evt := NewEvent(eventType, actor, state)
	evt.Card = card
	return evt
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, actor Actor, amount int, state TurnState) Event {
	evt := NewEvent(eventType, actor, state)
	evt.Amount = amount
	return evt
}
