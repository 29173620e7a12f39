package rules

import (
	"errors"
	"fmt"

	"github.com/onecard-go/onecard/internal/game/cards"
)

var (
	// ErrInvalidMove is the kind shared by every legality rejection.
	ErrInvalidMove = errors.New("invalid move")
	// ErrStackPending rejects a non-attack card while a draw stack is pending.
	ErrStackPending = fmt.Errorf("%w: must play an attack card while a stack is pending", ErrInvalidMove)
	// ErrIllegalCard rejects a card matching neither rank nor suit of the top card.
	ErrIllegalCard = fmt.Errorf("%w: illegal card", ErrInvalidMove)
)

// IsAttack reports whether card adds to the draw stack (2 or ace).
func IsAttack(card cards.Card) bool {
	return card.Rank == cards.RankTwo || card.Rank == cards.RankAce
}

// CanPlay decides whether card may be played on top. While a stack is
// active only attack cards may be played; otherwise rank or suit must match.
func CanPlay(card, top cards.Card, stackActive bool) bool {
	if stackActive {
		return IsAttack(card)
	}
	return card.Rank == top.Rank || card.Suit == top.Suit
}

// Check validates a play against the top card and pending draw count and
// returns ErrStackPending or ErrIllegalCard on failure.
func Check(card, top cards.Card, drawStack int) error {
	if drawStack > 0 {
		if !IsAttack(card) {
			return ErrStackPending
		}
		return nil
	}
	if !CanPlay(card, top, false) {
		return ErrIllegalCard
	}
	return nil
}

// PlayableIndices returns the positions in hand of every legal card, in hand
// order.
func PlayableIndices(hand cards.Hand, top cards.Card, stackActive bool) []int {
	indices := make([]int, 0, len(hand))
	for i, card := range hand {
		if CanPlay(card, top, stackActive) {
			indices = append(indices, i)
		}
	}
	return indices
}
