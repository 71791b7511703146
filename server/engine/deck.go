package engine

import (
	"fmt"
	"math/rand"
)

// Deck is an ordered set of unique cards. Drawing reads from the top and
// never removes cards.
type Deck struct {
	Cards []Card `json:"cards"`
}

func NewDeck() *Deck {
	return &Deck{Cards: CanonicalCards()}
}

func (d *Deck) Len() int { return len(d.Cards) }

// Shuffle is an in-place Fisher-Yates pass driven by r.
func (d *Deck) Shuffle(r *rand.Rand) {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw returns a copy of the top n cards; the deck is not modified.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n <= 0 || n > len(d.Cards) {
		return nil, fmt.Errorf("%w: %d (deck holds %d)", ErrDrawOutOfRange, n, len(d.Cards))
	}
	out := make([]Card, n)
	copy(out, d.Cards[:n])
	return out, nil
}

func (d *Deck) Clone() Deck {
	cp := make([]Card, len(d.Cards))
	copy(cp, d.Cards)
	return Deck{Cards: cp}
}

// Validate checks the deck holds each of the 52 cards exactly once.
func (d *Deck) Validate() error {
	if len(d.Cards) != DeckSize {
		return fmt.Errorf("deck holds %d cards, want %d", len(d.Cards), DeckSize)
	}
	var seen [DeckSize]bool
	for _, c := range d.Cards {
		if !c.Valid() {
			return fmt.Errorf("%w: %+v", ErrInvalidCard, c)
		}
		if seen[c.Index] {
			return fmt.Errorf("card %s already added to deck", c)
		}
		seen[c.Index] = true
	}
	return nil
}
