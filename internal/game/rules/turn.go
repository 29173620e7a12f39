package rules

import (
	"fmt"
	"strings"
)

// Actor identifies who is acting in a one-card game.
type Actor int

const (
	ActorNone Actor = iota
	ActorPlayer
	ActorComputer
)

var actorNames = map[Actor]string{
	ActorNone:     "NONE",
	ActorPlayer:   "PLAYER",
	ActorComputer: "COMPUTER",
}

func (a Actor) String() string {
	if name, ok := actorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ACTOR_%d", int(a))
}

// Opponent returns the other actor. ActorNone has no opponent.
func (a Actor) Opponent() Actor {
	switch a {
	case ActorPlayer:
		return ActorComputer
	case ActorComputer:
		return ActorPlayer
	default:
		return ActorNone
	}
}

// MarshalText encodes the actor by name.
func (a Actor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an actor name.
func (a *Actor) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for actor, n := range actorNames {
		if n == name {
			*a = actor
			return nil
		}
	}
	return fmt.Errorf("unknown actor %q", string(text))
}

// Phase is the lifecycle stage of a game.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseInProgress: "IN_PROGRESS",
	PhaseGameOver:   "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for phase, n := range phaseNames {
		if n == name {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(text))
}

// TurnState is the flag bundle shared by the turn controller and the effect
// resolver. It is a value: transitions return a new TurnState.
type TurnState struct {
	DrawStack int   `json:"draw_stack"`
	SkipTurn  bool  `json:"skip_turn"`
	ExtraTurn bool  `json:"extra_turn"`
	Current   Actor `json:"current"`
	Phase     Phase `json:"phase"`
	Winner    Actor `json:"winner"`
	Turn      int   `json:"turn"`
}

// NewTurnState returns the state at the start of a game, with first to act.
func NewTurnState(first Actor) TurnState {
	return TurnState{
		Current: first,
		Phase:   PhaseInProgress,
		Winner:  ActorNone,
		Turn:    1,
	}
}

// StackActive reports whether a forced-draw penalty is pending.
func (s TurnState) StackActive() bool {
	return s.DrawStack > 0
}

// Over reports whether the game has ended.
func (s TurnState) Over() bool {
	return s.Phase == PhaseGameOver
}

// PassTo hands control to next and advances the turn counter.
func (s TurnState) PassTo(next Actor) TurnState {
	s.Current = next
	s.Turn++
	return s
}

// Finish ends the game with winner.
func (s TurnState) Finish(winner Actor) TurnState {
	s.Phase = PhaseGameOver
	s.Winner = winner
	return s
}

// ConsumeSkip clears a pending skip and reports whether one was pending.
func (s TurnState) ConsumeSkip() (TurnState, bool) {
	if !s.SkipTurn {
		return s, false
	}
	s.SkipTurn = false
	return s, true
}

// ConsumeExtraTurn clears a pending extra turn and reports whether one was
// pending.
func (s TurnState) ConsumeExtraTurn() (TurnState, bool) {
	if !s.ExtraTurn {
		return s, false
	}
	s.ExtraTurn = false
	return s, true
}

// ResolveStack clears the pending draw count and returns it.
func (s TurnState) ResolveStack() (TurnState, int) {
	n := s.DrawStack
	s.DrawStack = 0
	return s, n
}
