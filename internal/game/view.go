package game

import (
	"fmt"
	"time"

	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/rules"
	"github.com/onecard-go/onecard/internal/game/watchers"
)

// recentMessages is how many log lines a snapshot carries.
const recentMessages = 8

// Message is one line of the game log.
type Message struct {
	Text      string      `json:"text"`
	Actor     rules.Actor `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
}

// Snapshot is the player-facing view of a game. It never exposes the deck
// order, and exposes the computer's hand only when the game was created with
// RevealComputerHand.
type Snapshot struct {
	GameID        string         `json:"game_id"`
	Phase         rules.Phase    `json:"phase"`
	Current       rules.Actor    `json:"current"`
	Winner        rules.Actor    `json:"winner"`
	Turn          int            `json:"turn"`
	DrawStack     int            `json:"draw_stack"`
	SkipTurn      bool           `json:"skip_turn"`
	ExtraTurn     bool           `json:"extra_turn"`
	Top           cards.Card     `json:"top"`
	DeckSize      int            `json:"deck_size"`
	DiscardSize   int            `json:"discard_size"`
	PlayerHand    cards.Hand     `json:"player_hand"`
	ComputerCount int            `json:"computer_count"`
	ComputerHand  cards.Hand     `json:"computer_hand,omitempty"`
	Selection     int            `json:"selection"`
	Playable      []int          `json:"playable"`
	Status        string         `json:"status"`
	Messages      []Message      `json:"messages"`
	Stats         watchers.Stats `json:"stats"`
	StartedAt     time.Time      `json:"started_at"`
}

// State returns the TurnState the snapshot was taken from.
func (s Snapshot) State() rules.TurnState {
	return rules.TurnState{
		DrawStack: s.DrawStack,
		SkipTurn:  s.SkipTurn,
		ExtraTurn: s.ExtraTurn,
		Current:   s.Current,
		Phase:     s.Phase,
		Winner:    s.Winner,
		Turn:      s.Turn,
	}
}

// Selected returns the card under the cursor.
func (s Snapshot) Selected() (cards.Card, bool) {
	return s.PlayerHand.At(s.Selection)
}

// IsPlayable reports whether the card at index may be played now.
func (s Snapshot) IsPlayable(index int) bool {
	for _, i := range s.Playable {
		if i == index {
			return true
		}
	}
	return false
}

// Notices returns the pending-effect banners for the table.
func (s Snapshot) Notices() []string {
	var notices []string
	if s.DrawStack > 0 {
		notices = append(notices, fmt.Sprintf("next player must draw %d cards", s.DrawStack))
	}
	if s.SkipTurn {
		notices = append(notices, "next turn will be skipped")
	}
	return notices
}

// Zones is the full physical layout of a game, for debugging and invariant
// checks.
type Zones struct {
	Deck     []cards.Card `json:"deck"`
	Discard  []cards.Card `json:"discard"`
	Player   cards.Hand   `json:"player"`
	Computer cards.Hand   `json:"computer"`
}

// Count returns the number of cards across every zone.
func (z Zones) Count() int {
	return len(z.Deck) + len(z.Discard) + len(z.Player) + len(z.Computer)
}

// Validate checks that every card is real, no card appears twice and the
// discard pile has a top card.
func (z Zones) Validate() error {
	if len(z.Discard) == 0 {
		return fmt.Errorf("discard pile is empty")
	}
	seen := make(map[cards.Card]string, z.Count())
	check := func(zone string, pile []cards.Card) error {
		for _, card := range pile {
			if !card.Valid() {
				return fmt.Errorf("invalid card %v in %s", card, zone)
			}
			if prev, dup := seen[card]; dup {
				return fmt.Errorf("card %s appears in both %s and %s", card.Key(), prev, zone)
			}
			seen[card] = zone
		}
		return nil
	}
	for _, zone := range []struct {
		name string
		pile []cards.Card
	}{
		{"deck", z.Deck},
		{"discard", z.Discard},
		{"player hand", z.Player},
		{"computer hand", z.Computer},
	} {
		if err := check(zone.name, zone.pile); err != nil {
			return err
		}
	}
	return nil
}

// Complete validates the zones and checks that together they hold the full
// 52-card set.
func (z Zones) Complete() error {
	if err := z.Validate(); err != nil {
		return err
	}
	if n := z.Count(); n != len(cards.Standard52()) {
		return fmt.Errorf("zones hold %d cards, want %d", n, len(cards.Standard52()))
	}
	return nil
}

func (z Zones) clone() Zones {
	return Zones{
		Deck:     append([]cards.Card(nil), z.Deck...),
		Discard:  append([]cards.Card(nil), z.Discard...),
		Player:   z.Player.Clone(),
		Computer: z.Computer.Clone(),
	}
}
