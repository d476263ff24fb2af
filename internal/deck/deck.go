package deck

import "fmt"

// Composition holds the number of copies of each kind, indexed by Card.
type Composition [NumKinds]int

// DefaultComposition is six of each rank plus two Jokers.
func DefaultComposition() Composition {
	return Composition{King: 6, Queen: 6, Ace: 6, Joker: 2}
}

// Total returns the number of cards in the composition
func (c Composition) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Validate rejects negative counts and empty pools
func (c Composition) Validate() error {
	for kind, n := range c {
		if n < 0 {
			return fmt.Errorf("deck composition: negative count %d for %s", n, Card(kind))
		}
	}
	if c.Total() == 0 {
		return fmt.Errorf("deck composition: no cards")
	}
	return nil
}

// Shuffler is the randomness a Deck needs.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is a finite pool of cards consumed by dealing. It is never
// replenished: once empty, Draw returns short slices.
type Deck struct {
	cards []Card
	rng   Shuffler
}

// New materialises the composition in kind order. Call Shuffle before dealing.
func New(comp Composition, rng Shuffler) *Deck {
	d := &Deck{
		cards: make([]Card, 0, comp.Total()),
		rng:   rng,
	}
	for kind, n := range comp {
		for i := 0; i < n; i++ {
			d.cards = append(d.cards, Card(kind))
		}
	}
	return d
}

// Shuffle randomizes the order of the remaining cards
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Pop removes and returns the top card
func (d *Deck) Pop() (Card, bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	top := len(d.cards) - 1
	card := d.cards[top]
	d.cards = d.cards[:top]
	return card, true
}

// Draw pops up to n cards. When the deck runs out the returned slice is
// simply shorter than n.
func (d *Deck) Draw(n int) []Card {
	drawn := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := d.Pop()
		if !ok {
			break
		}
		drawn = append(drawn, card)
	}
	return drawn
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
