package effects

import (
	"fmt"

	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/rules"
)

// Kind classifies what a played card does to the turn state.
type Kind int

const (
	KindNone Kind = iota
	KindDrawTwo
	KindDrawThree
	KindSkip
	KindExtraTurn
)

var kindNames = map[Kind]string{
	KindNone:      "NONE",
	KindDrawTwo:   "DRAW_TWO",
	KindDrawThree: "DRAW_THREE",
	KindSkip:      "SKIP",
	KindExtraTurn: "EXTRA_TURN",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// KindOf returns the effect carried by card.
func KindOf(card cards.Card) Kind {
	switch card.Rank {
	case cards.RankTwo:
		return KindDrawTwo
	case cards.RankAce:
		return KindDrawThree
	case cards.RankJack:
		return KindSkip
	case cards.RankKing:
		return KindExtraTurn
	default:
		return KindNone
	}
}

// Penalty is the number of cards an attack kind adds to the draw stack.
func (k Kind) Penalty() int {
	switch k {
	case KindDrawTwo:
		return 2
	case KindDrawThree:
		return 3
	default:
		return 0
	}
}

// ApplyEffect returns the turn state after card has been played. Skip and
// extra turn are mutually exclusive: whichever card was played last wins,
// and every card clears a flag it does not set.
func ApplyEffect(card cards.Card, state rules.TurnState) rules.TurnState {
	kind := KindOf(card)
	state.DrawStack += kind.Penalty()
	state.SkipTurn = kind == KindSkip
	state.ExtraTurn = kind == KindExtraTurn
	return state
}

// Describe renders a short human-readable note for the effect of card, or ""
// when it has none.
func Describe(card cards.Card, state rules.TurnState) string {
	switch KindOf(card) {
	case KindDrawTwo, KindDrawThree:
		return fmt.Sprintf("draw stack is now %d", state.DrawStack)
	case KindSkip:
		return "next turn is skipped"
	case KindExtraTurn:
		return "extra turn"
	default:
		return ""
	}
}
