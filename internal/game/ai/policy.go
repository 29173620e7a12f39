// Package ai implements the computer opponent.
package ai

import (
	"fmt"

	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/deck"
	"github.com/onecard-go/onecard/internal/game/rules"
)

// DecisionKind is the type of move the computer chooses.
type DecisionKind int

const (
	DecisionSkip DecisionKind = iota
	DecisionPlay
	DecisionDraw
)

var decisionNames = map[DecisionKind]string{
	DecisionSkip: "SKIP",
	DecisionPlay: "PLAY",
	DecisionDraw: "DRAW",
}

func (k DecisionKind) String() string {
	if name, ok := decisionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DECISION_%d", int(k))
}

// Input is everything a strategy may look at.
type Input struct {
	Hand  cards.Hand
	Top   cards.Card
	State rules.TurnState
}

// Decision is the chosen move. Index and Card are only set for DecisionPlay.
type Decision struct {
	Kind  DecisionKind
	Index int
	Card  cards.Card
}

func (d Decision) String() string {
	if d.Kind == DecisionPlay {
		return fmt.Sprintf("%s %s@%d", d.Kind, d.Card, d.Index)
	}
	return d.Kind.String()
}

// Skip, Draw and Play build decisions.
func Skip() Decision { return Decision{Kind: DecisionSkip, Index: -1} }

func Draw() Decision { return Decision{Kind: DecisionDraw, Index: -1} }

func Play(hand cards.Hand, index int) Decision {
	return Decision{Kind: DecisionPlay, Index: index, Card: hand[index]}
}

// Strategy chooses the computer's move. Implementations must not mutate the
// input hand.
type Strategy interface {
	Decide(in Input) Decision
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(in Input) Decision

// Decide calls f.
func (f StrategyFunc) Decide(in Input) Decision {
	return f(in)
}

// Policy is the standard computer opponent: answer attacks when possible,
// prefer kings, otherwise pick a random legal card.
type Policy struct {
	rng deck.Rand
}

// NewPolicy creates a policy drawing its random choices from rng.
func NewPolicy(rng deck.Rand) *Policy {
	return &Policy{rng: rng}
}

// Decide implements Strategy.
func (p *Policy) Decide(in Input) Decision {
	if in.State.SkipTurn {
		return Skip()
	}

	if in.State.StackActive() {
		attacks := rules.PlayableIndices(in.Hand, in.Top, true)
		if len(attacks) == 0 {
			return Draw()
		}
		return Play(in.Hand, attacks[p.rng.IntN(len(attacks))])
	}

	playable := rules.PlayableIndices(in.Hand, in.Top, false)
	if len(playable) == 0 {
		return Draw()
	}
	for _, i := range playable {
		if in.Hand[i].Rank == cards.RankKing {
			return Play(in.Hand, i)
		}
	}
	return Play(in.Hand, playable[p.rng.IntN(len(playable))])
}
