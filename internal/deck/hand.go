package deck

// Hand is a player's cards. Order is kept so that removal of "the first
// matching card" is deterministic, but callers should treat it as a multiset.
type Hand struct {
	cards []Card
}

// NewHand copies cards into a new hand
func NewHand(cards []Card) *Hand {
	h := &Hand{cards: make([]Card, len(cards))}
	copy(h.cards, cards)
	return h
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// IsEmpty reports whether the hand has no cards
func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// Cards returns a copy of the held cards
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Counts returns the number of held cards of each kind
func (h *Hand) Counts() [NumKinds]int {
	var counts [NumKinds]int
	for _, c := range h.cards {
		if c.Valid() {
			counts[c]++
		}
	}
	return counts
}

// Contains reports whether at least one card of the kind is held
func (h *Hand) Contains(c Card) bool {
	for _, held := range h.cards {
		if held == c {
			return true
		}
	}
	return false
}

// Remove takes out the first card of the given kind.
func (h *Hand) Remove(c Card) bool {
	for i, held := range h.cards {
		if held == c {
			h.RemoveAt(i)
			return true
		}
	}
	return false
}

// RemoveAt takes out and returns the card at position i
func (h *Hand) RemoveAt(i int) Card {
	card := h.cards[i]
	h.cards = append(h.cards[:i], h.cards[i+1:]...)
	return card
}

// String renders the hand in ParseCards notation
func (h *Hand) String() string {
	return FormatCards(h.cards)
}
