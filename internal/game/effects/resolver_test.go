package effects

import (
	"testing"

	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/rules"
	"github.com/stretchr/testify/assert"
)

func TestApplyEffect_Two(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)

	next := ApplyEffect(cards.MustParse("2_of_hearts"), state)

	assert.Equal(t, 2, next.DrawStack)
	assert.False(t, next.SkipTurn)
	assert.False(t, next.ExtraTurn)
	assert.Equal(t, 0, state.DrawStack, "input state must not change")
}

func TestApplyEffect_AceStacks(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)
	state.DrawStack = 2

	next := ApplyEffect(cards.MustParse("ace_of_spades"), state)

	assert.Equal(t, 5, next.DrawStack)
}

func TestApplyEffect_Jack(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)

	next := ApplyEffect(cards.MustParse("jack_of_clubs"), state)

	assert.True(t, next.SkipTurn)
	assert.False(t, next.ExtraTurn)
	assert.Equal(t, 0, next.DrawStack)
}

func TestApplyEffect_KingClearsSkip(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)
	state.SkipTurn = true

	next := ApplyEffect(cards.MustParse("king_of_diamonds"), state)

	assert.True(t, next.ExtraTurn)
	assert.False(t, next.SkipTurn)
}

func TestApplyEffect_JackClearsExtraTurn(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)
	state.ExtraTurn = true

	next := ApplyEffect(cards.MustParse("jack_of_hearts"), state)

	assert.True(t, next.SkipTurn)
	assert.False(t, next.ExtraTurn)
}

func TestApplyEffect_PlainCard(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)
	state.SkipTurn = true
	state.ExtraTurn = true

	next := ApplyEffect(cards.MustParse("7_of_hearts"), state)

	assert.False(t, next.SkipTurn)
	assert.False(t, next.ExtraTurn)
	assert.Equal(t, 0, next.DrawStack)
	assert.Equal(t, state.Current, next.Current)
	assert.Equal(t, state.Turn, next.Turn)
}

func TestKindOf(t *testing.T) {
	counts := map[Kind]int{}
	for _, c := range cards.Standard52() {
		counts[KindOf(c)]++
	}

	assert.Equal(t, 4, counts[KindDrawTwo])
	assert.Equal(t, 4, counts[KindDrawThree])
	assert.Equal(t, 4, counts[KindSkip])
	assert.Equal(t, 4, counts[KindExtraTurn])
	assert.Equal(t, 36, counts[KindNone])
	assert.Equal(t, "EXTRA_TURN", KindExtraTurn.String())
}

func TestDescribe(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)
	state.DrawStack = 5

	assert.Equal(t, "draw stack is now 5", Describe(cards.MustParse("ace_of_hearts"), state))
	assert.Equal(t, "next turn is skipped", Describe(cards.MustParse("jack_of_hearts"), state))
	assert.Empty(t, Describe(cards.MustParse("9_of_hearts"), state))
}
