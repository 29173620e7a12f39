package cards

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rank is the face value of a playing card.
type Rank int

const (
	RankTwo Rank = iota + 2
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

var rankNames = map[Rank]string{
	RankTwo:   "2",
	RankThree: "3",
	RankFour:  "4",
	RankFive:  "5",
	RankSix:   "6",
	RankSeven: "7",
	RankEight: "8",
	RankNine:  "9",
	RankTen:   "10",
	RankJack:  "jack",
	RankQueen: "queen",
	RankKing:  "king",
	RankAce:   "ace",
}

var rankLabels = map[Rank]string{
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
	RankAce:   "A",
}

// Ranks lists every rank in ascending order.
var Ranks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
	RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RANK_%d", int(r))
}

// Label returns the compact label used on card faces.
func (r Rank) Label() string {
	if label, ok := rankLabels[r]; ok {
		return label
	}
	return r.String()
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	_, ok := rankNames[r]
	return ok
}

// Suit is one of the four French suits.
type Suit int

const (
	SuitHearts Suit = iota + 1
	SuitDiamonds
	SuitClubs
	SuitSpades
)

var suitNames = map[Suit]string{
	SuitHearts:   "hearts",
	SuitDiamonds: "diamonds",
	SuitClubs:    "clubs",
	SuitSpades:   "spades",
}

var suitSymbols = map[Suit]string{
	SuitHearts:   "♥",
	SuitDiamonds: "♦",
	SuitClubs:    "♣",
	SuitSpades:   "♠",
}

// Suits lists every suit in deck order.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SUIT_%d", int(s))
}

// Symbol returns the unicode pip for the suit.
func (s Suit) Symbol() string {
	if sym, ok := suitSymbols[s]; ok {
		return sym
	}
	return "?"
}

// Red reports whether the suit is printed in red.
func (s Suit) Red() bool {
	return s == SuitHearts || s == SuitDiamonds
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	_, ok := suitNames[s]
	return ok
}

// Card is an immutable (rank, suit) pair. The zero Card is not a valid card.
type Card struct {
	Rank Rank
	Suit Suit
}

// New returns the card with the given rank and suit.
func New(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// IsZero reports whether c is the zero Card.
func (c Card) IsZero() bool {
	return c == Card{}
}

// Valid reports whether c is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Key returns the canonical "<rank>_of_<suit>" identifier, which is also the
// asset name renderers use for the card face.
func (c Card) Key() string {
	return c.Rank.String() + "_of_" + c.Suit.String()
}

// String returns the short face, e.g. "K♥".
func (c Card) String() string {
	if c.IsZero() {
		return "--"
	}
	return c.Rank.Label() + c.Suit.Symbol()
}

// Name returns the long display name, e.g. "King of Hearts".
func (c Card) Name() string {
	if c.IsZero() {
		return "No card"
	}
	// Casers carry state and are not safe to share between goroutines.
	title := cases.Title(language.English)
	return title.String(c.Rank.String()) + " of " + title.String(c.Suit.String())
}

// MarshalText encodes the card as its key.
func (c Card) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return []byte{}, nil
	}
	return []byte(c.Key()), nil
}

// UnmarshalText decodes a key produced by MarshalText.
func (c *Card) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Card{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse parses a card key such as "10_of_spades" or "ace_of_hearts".
func Parse(key string) (Card, error) {
	rankPart, suitPart, ok := strings.Cut(strings.ToLower(strings.TrimSpace(key)), "_of_")
	if !ok {
		return Card{}, fmt.Errorf("invalid card key %q", key)
	}

	var card Card
	for r, name := range rankNames {
		if name == rankPart {
			card.Rank = r
			break
		}
	}
	for s, name := range suitNames {
		if name == suitPart {
			card.Suit = s
			break
		}
	}
	if !card.Valid() {
		return Card{}, fmt.Errorf("invalid card key %q", key)
	}
	return card, nil
}

// MustParse is like Parse but panics on error. Intended for tests and tables.
func MustParse(key string) Card {
	card, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return card
}

// Standard52 returns the full set of 52 distinct cards, suit by suit.
func Standard52() []Card {
	set := make([]Card, 0, len(Ranks)*len(Suits))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			set = append(set, Card{Rank: rank, Suit: suit})
		}
	}
	return set
}
