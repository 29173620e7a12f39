package game_test

import (
	"errors"
	"testing"

	"github.com/onecard-go/onecard/internal/game"
	"github.com/onecard-go/onecard/internal/game/ai"
	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func pile(keys ...string) []cards.Card {
	out := make([]cards.Card, 0, len(keys))
	for _, k := range keys {
		out = append(out, cards.MustParse(k))
	}
	return out
}

func hand(keys ...string) cards.Hand {
	return cards.Hand(pile(keys...))
}

func eventTypes(events []rules.Event) []rules.EventType {
	types := make([]rules.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func restore(t *testing.T, zones game.Zones, state rules.TurnState, opts game.Options) *game.Game {
	t.Helper()
	if opts.Seed == 0 && opts.Rand == nil {
		opts.Seed = 1
	}
	g, err := game.Restore(zaptest.NewLogger(t), opts, zones, state)
	require.NoError(t, err)
	return g
}

func TestNewGameDeal(t *testing.T) {
	g, err := game.New(zaptest.NewLogger(t), game.Options{Seed: 42})
	require.NoError(t, err)

	zones := g.Zones()
	assert.Len(t, zones.Player, 7)
	assert.Len(t, zones.Computer, 7)
	assert.Len(t, zones.Discard, 1)
	assert.Len(t, zones.Deck, 37)
	require.NoError(t, zones.Complete())

	snap := g.Snapshot()
	assert.NotEmpty(t, snap.GameID)
	assert.Equal(t, rules.ActorPlayer, snap.Current)
	assert.Equal(t, rules.PhaseInProgress, snap.Phase)
	assert.Equal(t, rules.ActorNone, snap.Winner)
	assert.Equal(t, 1, snap.Turn)
	assert.Equal(t, zones.Discard[0], snap.Top)
	assert.Equal(t, 7, snap.ComputerCount)
	assert.Nil(t, snap.ComputerHand)
	assert.Equal(t, 1, g.Replay().Size())
}

func TestNewGameSeedDeterminism(t *testing.T) {
	a, err := game.New(zaptest.NewLogger(t), game.Options{Seed: 7})
	require.NoError(t, err)
	b, err := game.New(zaptest.NewLogger(t), game.Options{Seed: 7})
	require.NoError(t, err)
	c, err := game.New(zaptest.NewLogger(t), game.Options{Seed: 8})
	require.NoError(t, err)

	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.NotEqual(t, a.Checksum().Hash, c.Checksum().Hash)
}

func TestPlayLastCardWins(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("9_of_clubs", "10_of_clubs"),
		Discard:  pile("5_of_clubs"),
		Player:   hand("5_of_hearts"),
		Computer: hand("9_of_spades"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	res := g.SubmitPlayerAction(game.PlayCard(0))
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, rules.PhaseGameOver, res.Snapshot.Phase)
	assert.Equal(t, rules.ActorPlayer, res.Snapshot.Winner)
	assert.Equal(t, "You win!", res.Snapshot.Status)
	assert.Empty(t, res.Snapshot.Playable)
	assert.Equal(t, []rules.EventType{rules.EventCardPlayed, rules.EventGameOver}, eventTypes(res.Events))

	res = g.SubmitPlayerAction(game.DrawCard())
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, game.ErrGameOver)

	res = g.AdvanceComputerTurn()
	assert.ErrorIs(t, res.Err, game.ErrGameOver)
}

func TestDrawStackResolves(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)
	state.DrawStack = 5
	g := restore(t, game.Zones{
		Deck:     pile("queen_of_spades", "10_of_spades", "9_of_spades", "8_of_spades", "7_of_spades", "6_of_spades"),
		Discard:  pile("ace_of_hearts"),
		Player:   hand("3_of_hearts", "4_of_clubs"),
		Computer: hand("king_of_diamonds"),
	}, state, game.Options{})

	before := g.Checksum()
	res := g.SubmitPlayerAction(game.PlayCard(0))
	require.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, rules.ErrStackPending)
	assert.ErrorIs(t, res.Err, rules.ErrInvalidMove)
	assert.Equal(t, "invalid move: must play an attack card while a stack is pending", res.Reason)
	assert.Equal(t, before, g.Checksum(), "rejected play must not change the game")

	res = g.SubmitPlayerAction(game.DrawCard())
	require.True(t, res.Accepted, res.Reason)
	assert.Len(t, res.Snapshot.PlayerHand, 7)
	assert.Equal(t, 0, res.Snapshot.DrawStack)
	assert.Equal(t, rules.ActorComputer, res.Snapshot.Current)
	assert.Equal(t, 1, res.Snapshot.DeckSize)
	assert.Equal(t, 6, res.Snapshot.Selection)
	assert.Equal(t, []rules.EventType{rules.EventCardsDrawn, rules.EventStackResolved, rules.EventTurnPassed}, eventTypes(res.Events))
	assert.Equal(t, 5, res.Events[0].Amount)
	assert.Equal(t, 5, res.Snapshot.Stats.Player.CardsDrawn)
	assert.Equal(t, 1, res.Snapshot.Stats.StacksResolved)
}

func TestIllegalCardRejected(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("7_of_clubs"),
		Player:   hand("5_of_hearts", "9_of_clubs"),
		Computer: hand("3_of_spades"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	before := g.Checksum()
	res := g.SubmitPlayerAction(game.PlayCard(0))
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Err, rules.ErrIllegalCard)
	assert.Empty(t, res.Events)
	assert.Equal(t, before, g.Checksum())
	assert.Equal(t, []int{1}, res.Snapshot.Playable)

	res = g.SubmitPlayerAction(game.PlayCard(5))
	assert.ErrorIs(t, res.Err, game.ErrNoSelection)
	res = g.SubmitPlayerAction(game.PlayCard(-1))
	assert.ErrorIs(t, res.Err, game.ErrNoSelection)
}

func TestKingGrantsExtraTurn(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_hearts"),
		Player:   hand("king_of_hearts", "3_of_hearts"),
		Computer: hand("3_of_spades"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	res := g.SubmitPlayerAction(game.PlayCard(0))
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, rules.ActorPlayer, res.Snapshot.Current)
	assert.False(t, res.Snapshot.ExtraTurn)
	assert.Equal(t, 1, res.Snapshot.Turn)
	assert.Equal(t, []rules.EventType{rules.EventCardPlayed, rules.EventExtraTurn}, eventTypes(res.Events))

	res = g.SubmitPlayerAction(game.PlayCard(0))
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, rules.ActorPlayer, res.Snapshot.Winner)
}

func TestComputerKingGrantsExtraTurn(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_hearts"),
		Player:   hand("3_of_spades"),
		Computer: hand("4_of_clubs", "king_of_hearts", "9_of_diamonds"),
	}, rules.NewTurnState(rules.ActorComputer), game.Options{})

	res := g.AdvanceComputerTurn()
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, cards.MustParse("king_of_hearts"), res.Snapshot.Top)
	assert.Equal(t, rules.ActorComputer, res.Snapshot.Current)
	assert.Equal(t, 2, res.Snapshot.ComputerCount)
}

func TestJackSkipsComputer(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_hearts"),
		Player:   hand("jack_of_hearts", "3_of_hearts"),
		Computer: hand("9_of_hearts", "4_of_clubs"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	res := g.SubmitPlayerAction(game.PlayCard(0))
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, rules.ActorComputer, res.Snapshot.Current)
	assert.True(t, res.Snapshot.SkipTurn)

	res = g.AdvanceComputerTurn()
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, rules.ActorPlayer, res.Snapshot.Current)
	assert.False(t, res.Snapshot.SkipTurn)
	assert.Equal(t, 2, res.Snapshot.ComputerCount)
	assert.Equal(t, 3, res.Snapshot.Turn)
	assert.Equal(t, []rules.EventType{rules.EventTurnSkipped, rules.EventTurnPassed}, eventTypes(res.Events))
	assert.Equal(t, rules.ActorComputer, res.Events[0].Actor)
	assert.Equal(t, 1, res.Snapshot.Stats.Computer.TurnsSkipped)
}

func TestComputerJackSkipsPlayer(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_clubs"),
		Player:   hand("3_of_hearts"),
		Computer: hand("jack_of_clubs", "4_of_diamonds"),
	}, rules.NewTurnState(rules.ActorComputer), game.Options{})

	res := g.AdvanceComputerTurn()
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, rules.ActorComputer, res.Snapshot.Current)
	assert.False(t, res.Snapshot.SkipTurn)
	assert.Equal(t, []rules.EventType{
		rules.EventCardPlayed,
		rules.EventTurnPassed,
		rules.EventTurnSkipped,
		rules.EventTurnPassed,
	}, eventTypes(res.Events))
	assert.Equal(t, rules.ActorPlayer, res.Events[2].Actor)
	assert.Equal(t, 1, res.Snapshot.Stats.Player.TurnsSkipped)
	assert.Equal(t, "Your turn is skipped!", res.Snapshot.Status)
}

func TestComputerAttackCardEndsGame(t *testing.T) {
	state := rules.NewTurnState(rules.ActorComputer)
	state.DrawStack = 3
	g := restore(t, game.Zones{
		Deck:     pile("9_of_clubs"),
		Discard:  pile("ace_of_hearts"),
		Player:   hand("3_of_hearts"),
		Computer: hand("2_of_clubs"),
	}, state, game.Options{})

	res := g.AdvanceComputerTurn()
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, rules.PhaseGameOver, res.Snapshot.Phase)
	assert.Equal(t, rules.ActorComputer, res.Snapshot.Winner)
	assert.Equal(t, 5, res.Snapshot.DrawStack)
	assert.Equal(t, "Computer wins!", res.Snapshot.Status)
}

func TestComputerDrawsStack(t *testing.T) {
	state := rules.NewTurnState(rules.ActorComputer)
	state.DrawStack = 2
	g := restore(t, game.Zones{
		Deck:     pile("9_of_clubs", "8_of_clubs", "7_of_clubs"),
		Discard:  pile("2_of_hearts"),
		Player:   hand("3_of_hearts"),
		Computer: hand("king_of_spades"),
	}, state, game.Options{})

	res := g.AdvanceComputerTurn()
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, 3, res.Snapshot.ComputerCount)
	assert.Equal(t, 0, res.Snapshot.DrawStack)
	assert.Equal(t, rules.ActorPlayer, res.Snapshot.Current)
	assert.Equal(t, "Computer drew 2 cards.", res.Snapshot.Status)
}

func TestDrawReshufflesDiscard(t *testing.T) {
	g := restore(t, game.Zones{
		Discard:  pile("3_of_spades", "4_of_spades", "5_of_spades"),
		Player:   hand("9_of_diamonds"),
		Computer: hand("9_of_hearts"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	res := g.SubmitPlayerAction(game.DrawCard())
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, []rules.EventType{rules.EventReshuffled, rules.EventCardsDrawn, rules.EventTurnPassed}, eventTypes(res.Events))
	assert.Equal(t, 2, res.Events[0].Amount)
	assert.Len(t, res.Snapshot.PlayerHand, 2)
	assert.Equal(t, 1, res.Snapshot.DeckSize)
	assert.Equal(t, 1, res.Snapshot.DiscardSize)
	assert.Equal(t, cards.MustParse("5_of_spades"), res.Snapshot.Top)
	assert.Equal(t, 1, res.Snapshot.Stats.Reshuffles)

	zones := g.Zones()
	require.NoError(t, zones.Validate())
	assert.Equal(t, 5, zones.Count())
}

func TestDrawWithNothingLeftStillPasses(t *testing.T) {
	g := restore(t, game.Zones{
		Discard:  pile("5_of_spades"),
		Player:   hand("9_of_diamonds"),
		Computer: hand("9_of_hearts"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	res := g.SubmitPlayerAction(game.DrawCard())
	require.True(t, res.Accepted, res.Reason)
	assert.Len(t, res.Snapshot.PlayerHand, 1)
	assert.Equal(t, rules.ActorComputer, res.Snapshot.Current)
	assert.Equal(t, "You had nothing to draw.", res.Snapshot.Status)
}

func TestWrongActorRejected(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_spades"),
		Player:   hand("5_of_diamonds"),
		Computer: hand("9_of_hearts"),
	}, rules.NewTurnState(rules.ActorComputer), game.Options{})

	res := g.SubmitPlayerAction(game.PlayCard(0))
	assert.ErrorIs(t, res.Err, game.ErrNotYourTurn)

	res = g.AdvanceComputerTurn()
	require.True(t, res.Accepted, res.Reason)

	res = g.AdvanceComputerTurn()
	assert.ErrorIs(t, res.Err, game.ErrNotYourTurn)
}

func TestMoveSelectionWraps(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_spades"),
		Player:   hand("5_of_diamonds", "6_of_diamonds", "7_of_diamonds"),
		Computer: hand("9_of_hearts"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	res := g.SubmitPlayerAction(game.MoveSelection(-1))
	require.True(t, res.Accepted)
	assert.Equal(t, 2, res.Snapshot.Selection)
	assert.Empty(t, res.Events)

	res = g.SubmitPlayerAction(game.MoveSelection(2))
	assert.Equal(t, 1, res.Snapshot.Selection)

	card, ok := res.Snapshot.Selected()
	require.True(t, ok)
	assert.Equal(t, cards.MustParse("6_of_diamonds"), card)
	assert.Equal(t, rules.ActorPlayer, res.Snapshot.Current)
}

func TestMoveSelectionEmptyHand(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_spades"),
		Computer: hand("9_of_hearts"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	res := g.SubmitPlayerAction(game.MoveSelection(1))
	assert.ErrorIs(t, res.Err, game.ErrNoSelection)
	res = g.SubmitPlayerAction(game.PlayCard(0))
	assert.ErrorIs(t, res.Err, game.ErrNoSelection)
}

func TestSkipPendingOnPlayerTurnIsConsumedOnRestore(t *testing.T) {
	state := rules.NewTurnState(rules.ActorPlayer)
	state.SkipTurn = true
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_spades"),
		Player:   hand("5_of_diamonds"),
		Computer: hand("9_of_hearts"),
	}, state, game.Options{})

	snap := g.Snapshot()
	assert.Equal(t, rules.ActorComputer, snap.Current)
	assert.False(t, snap.SkipTurn)
}

func TestStrategyMistakesAreRejected(t *testing.T) {
	zones := game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_spades"),
		Player:   hand("5_of_diamonds"),
		Computer: hand("9_of_hearts", "6_of_spades"),
	}

	illegal := ai.StrategyFunc(func(in ai.Input) ai.Decision { return ai.Play(in.Hand, 0) })
	g := restore(t, zones, rules.NewTurnState(rules.ActorComputer), game.Options{Strategy: illegal})
	before := g.Checksum()
	res := g.AdvanceComputerTurn()
	assert.ErrorIs(t, res.Err, rules.ErrIllegalCard)
	assert.Equal(t, before, g.Checksum())

	state := rules.NewTurnState(rules.ActorComputer)
	state.SkipTurn = true
	drawer := ai.StrategyFunc(func(ai.Input) ai.Decision { return ai.Draw() })
	g = restore(t, zones, state, game.Options{Strategy: drawer})
	res = g.AdvanceComputerTurn()
	assert.ErrorIs(t, res.Err, rules.ErrInvalidMove)
	assert.True(t, g.State().SkipTurn)

	skipper := ai.StrategyFunc(func(ai.Input) ai.Decision { return ai.Skip() })
	g = restore(t, zones, rules.NewTurnState(rules.ActorComputer), game.Options{Strategy: skipper})
	res = g.AdvanceComputerTurn()
	assert.ErrorIs(t, res.Err, rules.ErrInvalidMove)
}

func TestEventBusSubscribers(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs"),
		Discard:  pile("5_of_spades"),
		Player:   hand("5_of_diamonds", "8_of_clubs"),
		Computer: hand("9_of_hearts"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	var played []cards.Card
	g.Events().SubscribeTyped(rules.EventCardPlayed, func(e rules.Event) {
		played = append(played, e.Card)
	})

	res := g.SubmitPlayerAction(game.PlayCard(0))
	require.True(t, res.Accepted, res.Reason)
	assert.Equal(t, pile("5_of_diamonds"), played)
	assert.Equal(t, 1, res.Snapshot.Stats.Player.CardsPlayed)
}

func TestRevealComputerHand(t *testing.T) {
	g, err := game.New(zaptest.NewLogger(t), game.Options{Seed: 3, RevealComputerHand: true})
	require.NoError(t, err)

	snap := g.Snapshot()
	assert.Len(t, snap.ComputerHand, 7)
	assert.Equal(t, g.Zones().Computer, snap.ComputerHand)
}

func TestRestoreValidation(t *testing.T) {
	_, err := game.Restore(zaptest.NewLogger(t), game.Options{Seed: 1}, game.Zones{
		Player: hand("5_of_diamonds"),
	}, rules.NewTurnState(rules.ActorPlayer))
	assert.Error(t, err)

	_, err = game.Restore(zaptest.NewLogger(t), game.Options{Seed: 1}, game.Zones{
		Discard: pile("5_of_diamonds"),
		Player:  hand("5_of_diamonds"),
	}, rules.NewTurnState(rules.ActorPlayer))
	assert.Error(t, err)

	partial := game.Zones{
		Discard:  pile("5_of_diamonds"),
		Player:   hand("6_of_diamonds"),
		Computer: hand("7_of_clubs"),
	}
	require.Error(t, partial.Complete())

	_, err = game.Restore(zaptest.NewLogger(t), game.Options{Seed: 1}, partial, rules.TurnState{})
	assert.ErrorContains(t, err, "no actor to move")

	g, err := game.Restore(zaptest.NewLogger(t), game.Options{Seed: 1}, partial, rules.NewTurnState(rules.ActorPlayer))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Zones().Count())
}

func TestReplayRecordsAcceptedActions(t *testing.T) {
	g := restore(t, game.Zones{
		Deck:     pile("2_of_clubs", "3_of_clubs"),
		Discard:  pile("5_of_spades"),
		Player:   hand("5_of_diamonds", "8_of_clubs"),
		Computer: hand("9_of_hearts", "10_of_hearts"),
	}, rules.NewTurnState(rules.ActorPlayer), game.Options{})

	require.Equal(t, 1, g.Replay().Size())

	g.SubmitPlayerAction(game.PlayCard(1))
	require.Equal(t, 1, g.Replay().Size(), "rejections are not recorded")

	res := g.SubmitPlayerAction(game.PlayCard(0))
	require.True(t, res.Accepted)
	res = g.AdvanceComputerTurn()
	require.True(t, res.Accepted)
	require.Equal(t, 3, g.Replay().Size())

	last, ok := g.Replay().Last()
	require.True(t, ok)
	assert.Equal(t, res.Snapshot.Turn, last.Turn)

	first, ok := g.Replay().GetStateAt(0)
	require.True(t, ok)
	assert.Len(t, first.PlayerHand, 2)
}

func TestReplayDisabled(t *testing.T) {
	g, err := game.New(zaptest.NewLogger(t), game.Options{Seed: 1, ReplayLimit: -1})
	require.NoError(t, err)
	assert.Nil(t, g.Replay())
}

func TestActionResultErrors(t *testing.T) {
	g, err := game.New(zaptest.NewLogger(t), game.Options{Seed: 11})
	require.NoError(t, err)

	res := g.SubmitPlayerAction(game.Action{Kind: game.ActionKind(99)})
	require.False(t, res.Accepted)
	assert.Contains(t, res.Reason, "ACTION_99")
	assert.False(t, errors.Is(res.Err, rules.ErrInvalidMove))
}
