package deck

import (
	"fmt"

	"github.com/onecard-go/onecard/internal/game/cards"
	"go.uber.org/zap"
)

// HandSize is the number of cards dealt to each actor.
const HandSize = 7

// NewDeck returns all 52 cards in a uniformly random order.
func NewDeck(rng Rand) []cards.Card {
	deck := cards.Standard52()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// Deal pops two hands and the first discard card from the draw end of deck.
// The remaining cards are returned as rest.
func Deal(deck []cards.Card) (player, computer cards.Hand, discard, rest []cards.Card, err error) {
	need := 2*HandSize + 1
	if len(deck) < need {
		return nil, nil, nil, nil, fmt.Errorf("deal needs %d cards, deck has %d", need, len(deck))
	}

	rest = append([]cards.Card(nil), deck...)
	pop := func() cards.Card {
		c := rest[len(rest)-1]
		rest = rest[:len(rest)-1]
		return c
	}

	player = make(cards.Hand, 0, HandSize)
	for i := 0; i < HandSize; i++ {
		player = append(player, pop())
	}
	computer = make(cards.Hand, 0, HandSize)
	for i := 0; i < HandSize; i++ {
		computer = append(computer, pop())
	}
	discard = []cards.Card{pop()}
	return player, computer, discard, rest, nil
}

// Manager owns the draw deck and the discard pile.
type Manager struct {
	rng         Rand
	logger      *zap.Logger
	deck        []cards.Card
	discard     []cards.Card
	onReshuffle func(moved int)
}

// NewManager creates a manager holding a freshly shuffled 52-card deck and an
// empty discard pile.
func NewManager(rng Rand, logger *zap.Logger) *Manager {
	return NewManagerWithPiles(rng, logger, NewDeck(rng), nil)
}

// NewManagerWithPiles creates a manager over the given piles. The slices are
// copied.
func NewManagerWithPiles(rng Rand, logger *zap.Logger, deck, discard []cards.Card) *Manager {
	return &Manager{
		rng:     rng,
		logger:  logger,
		deck:    append([]cards.Card(nil), deck...),
		discard: append([]cards.Card(nil), discard...),
	}
}

// OnReshuffle registers a callback invoked after every reshuffle that moved
// at least one card.
func (m *Manager) OnReshuffle(fn func(moved int)) {
	m.onReshuffle = fn
}

// Deal splits the manager's deck into two hands and the first discard card.
func (m *Manager) Deal() (player, computer cards.Hand, err error) {
	player, computer, discard, rest, err := Deal(m.deck)
	if err != nil {
		return nil, nil, err
	}
	m.deck = rest
	m.discard = append(m.discard, discard...)
	return player, computer, nil
}

// Draw moves one card from the draw end of the deck into hand, reshuffling
// the discard pile first when the deck is empty. When no card is available
// the hand is returned unchanged and ok is false.
func (m *Manager) Draw(hand cards.Hand) (cards.Hand, bool) {
	if len(m.deck) == 0 {
		m.Reshuffle()
	}
	if len(m.deck) == 0 {
		if m.logger != nil {
			m.logger.Debug("draw skipped, no cards left outside the hands",
				zap.Int("discard_size", len(m.discard)),
			)
		}
		return hand, false
	}

	idx := len(m.deck) - 1
	card := m.deck[idx]
	m.deck = m.deck[:idx]
	return append(hand, card), true
}

// Reshuffle returns every discard card except the top one to the deck in a
// random order. It returns the number of cards moved.
func (m *Manager) Reshuffle() int {
	if len(m.discard) <= 1 {
		return 0
	}

	top := m.discard[len(m.discard)-1]
	rest := append([]cards.Card(nil), m.discard[:len(m.discard)-1]...)
	m.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	m.deck = append(m.deck, rest...)
	m.discard = []cards.Card{top}

	if m.logger != nil {
		m.logger.Debug("reshuffled discard pile into deck",
			zap.Int("moved", len(rest)),
			zap.Int("deck_size", len(m.deck)),
		)
	}
	if m.onReshuffle != nil {
		m.onReshuffle(len(rest))
	}
	return len(rest)
}

// Discard places card on top of the discard pile.
func (m *Manager) Discard(card cards.Card) {
	m.discard = append(m.discard, card)
}

// Top returns the top of the discard pile.
func (m *Manager) Top() (cards.Card, bool) {
	if len(m.discard) == 0 {
		return cards.Card{}, false
	}
	return m.discard[len(m.discard)-1], true
}

// DeckSize returns the number of cards left to draw.
func (m *Manager) DeckSize() int {
	return len(m.deck)
}

// DiscardSize returns the number of cards in the discard pile.
func (m *Manager) DiscardSize() int {
	return len(m.discard)
}

// Piles returns copies of the deck (draw end last) and the discard pile (top
// last).
func (m *Manager) Piles() (deck, discard []cards.Card) {
	return append([]cards.Card(nil), m.deck...), append([]cards.Card(nil), m.discard...)
}
