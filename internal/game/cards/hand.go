package cards

// Hand is the ordered set of cards held by one actor. Order only matters to
// renderers that select by position.
type Hand []Card

// Len returns the number of cards held.
func (h Hand) Len() int {
	return len(h)
}

// IsEmpty reports whether the hand holds no cards.
func (h Hand) IsEmpty() bool {
	return len(h) == 0
}

// At returns the card at index i.
func (h Hand) At(i int) (Card, bool) {
	if i < 0 || i >= len(h) {
		return Card{}, false
	}
	return h[i], true
}

// IndexOf returns the position of card in the hand, or -1.
func (h Hand) IndexOf(card Card) int {
	for i, c := range h {
		if c == card {
			return i
		}
	}
	return -1
}

// Contains reports whether the hand holds card.
func (h Hand) Contains(card Card) bool {
	return h.IndexOf(card) >= 0
}

// RemoveAt removes and returns the card at index i, preserving the order of
// the remaining cards.
func (h *Hand) RemoveAt(i int) (Card, bool) {
	cur := *h
	if i < 0 || i >= len(cur) {
		return Card{}, false
	}
	card := cur[i]
	*h = append(cur[:i], cur[i+1:]...)
	return card, true
}

// Remove removes the first occurrence of card.
func (h *Hand) Remove(card Card) bool {
	idx := h.IndexOf(card)
	if idx < 0 {
		return false
	}
	_, ok := h.RemoveAt(idx)
	return ok
}

// Add appends cards to the hand.
func (h *Hand) Add(cards ...Card) {
	*h = append(*h, cards...)
}

// Clone returns an independent copy of the hand.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
