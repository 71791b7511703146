// Package dealer owns decks. A Dealer serializes every shuffle and draw
// against its deck; a Registry hands out one Dealer per table.
package dealer

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"pokerhand-api/server/engine"
)

var ErrInvalidHandCount = errors.New("invalid number of hands")

type Dealer struct {
	mu   sync.Mutex
	rng  *rand.Rand
	deck *engine.Deck
}

// New returns a dealer holding a canonical deck. seed 0 means time-seeded.
func New(seed int64) *Dealer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Dealer{
		rng:  rand.New(rand.NewSource(seed)),
		deck: engine.NewDeck(),
	}
}

// Initialize restores the canonical, unshuffled order.
func (d *Dealer) Initialize() engine.Deck {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deck = engine.NewDeck()
	return d.deck.Clone()
}

// Deck returns a snapshot of the current order.
func (d *Dealer) Deck() engine.Deck {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deck.Clone()
}

func (d *Dealer) Shuffle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deck.Shuffle(d.rng)
}

// Draw returns the top n cards without shuffling or removing them.
func (d *Dealer) Draw(n int) ([]engine.Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deck.Draw(n)
}

// GetHand shuffles and draws n cards as player 1. A bad n leaves the deck
// untouched.
func (d *Dealer) GetHand(n int) (engine.PokerHand, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkCount(n); err != nil {
		return engine.PokerHand{}, err
	}
	d.deck.Shuffle(d.rng)
	cards, err := d.deck.Draw(n)
	if err != nil {
		return engine.PokerHand{}, err
	}
	return engine.PokerHand{HandNumber: 1, Cards: cards}, nil
}

// GetHands reshuffles the same full deck before each of the k hands.
// Cards are never removed, so two hands may share a card.
func (d *Dealer) GetHands(n, k int) ([]engine.PokerHand, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandCount, k)
	}
	if err := d.checkCount(n); err != nil {
		return nil, err
	}
	hands := make([]engine.PokerHand, 0, k)
	for i := 0; i < k; i++ {
		d.deck.Shuffle(d.rng)
		cards, err := d.deck.Draw(n)
		if err != nil {
			return nil, err
		}
		hands = append(hands, engine.PokerHand{HandNumber: i + 1, Cards: cards})
	}
	return hands, nil
}

// DealAndEvaluate draws k hands of n cards and scores them.
func (d *Dealer) DealAndEvaluate(n, k int) ([]engine.PokerHand, engine.PokerTableResult, error) {
	hands, err := d.GetHands(n, k)
	if err != nil {
		return nil, engine.PokerTableResult{}, err
	}
	res, err := engine.EvaluateHands(hands)
	return hands, res, err
}

func (d *Dealer) checkCount(n int) error {
	if n <= 0 || n > d.deck.Len() {
		return fmt.Errorf("%w: %d (deck holds %d)", engine.ErrDrawOutOfRange, n, d.deck.Len())
	}
	return nil
}
