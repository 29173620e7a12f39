package game

import (
	"errors"
	"fmt"

	"github.com/onecard-go/onecard/internal/game/rules"
)

var (
	// ErrNoSelection rejects actions that need a card when none is selected.
	ErrNoSelection = errors.New("no card selected")
	// ErrNotYourTurn rejects an action from the actor that is not to move.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrGameOver rejects every action once a winner is decided.
	ErrGameOver = errors.New("game is over")
	// ErrGameNotFound is returned by Manager lookups.
	ErrGameNotFound = errors.New("game not found")
)

// ActionKind identifies a player input.
type ActionKind int

const (
	ActionMoveSelection ActionKind = iota + 1
	ActionPlayCard
	ActionDrawCard
)

var actionNames = map[ActionKind]string{
	ActionMoveSelection: "MOVE_SELECTION",
	ActionPlayCard:      "PLAY_CARD",
	ActionDrawCard:      "DRAW_CARD",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// Action is one discrete human input.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Delta int        `json:"delta,omitempty"`
	Index int        `json:"index,omitempty"`
}

// MoveSelection moves the hand cursor by delta, wrapping around.
func MoveSelection(delta int) Action {
	return Action{Kind: ActionMoveSelection, Delta: delta}
}

// PlayCard plays the card at index in the player's hand.
func PlayCard(index int) Action {
	return Action{Kind: ActionPlayCard, Index: index}
}

// DrawCard draws the pending stack, or one card.
func DrawCard() Action {
	return Action{Kind: ActionDrawCard}
}

// ActionResult reports the outcome of one action. Rejected actions leave the
// game unchanged and carry the reason in Err and Reason.
type ActionResult struct {
	Accepted bool          `json:"accepted"`
	Reason   string        `json:"reason,omitempty"`
	Err      error         `json:"-"`
	Snapshot Snapshot      `json:"snapshot"`
	Events   []rules.Event `json:"events,omitempty"`
}
