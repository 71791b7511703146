package engine

import (
	"errors"
	"fmt"

	poker "github.com/paulhankin/poker"
)

// Reference scoring via github.com/paulhankin/poker. Higher score = stronger hand.

var (
	ErrUnsupportedSize = errors.New("hand size not supported by reference scorer")
	ErrRepeatedCard    = errors.New("hand repeats a card")
)

// Convert our Card -> library card.
func toPH(c Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit {
	case Clubs:
		s = poker.Club
	case Diamonds:
		s = poker.Diamond
	case Hearts:
		s = poker.Heart
	case Spades:
		s = poker.Spade
	default:
		return 0, fmt.Errorf("%w: %+v", ErrInvalidCard, c)
	}
	// Our ranks: 0..12 (Ace=12). Library: 1..13 (Ace=1).
	var r poker.Rank
	if c.Rank == Ace {
		r = poker.Rank(1)
	} else {
		r = poker.Rank(int(c.Rank) + 2)
	}
	return poker.MakeCard(s, r)
}

// toPHSlice rejects repeated cards: the library cannot score an impossible
// hand and its lookup never terminates on one.
func toPHSlice(cards []Card) ([]poker.Card, error) {
	var seen [DeckSize]bool
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidCard, c)
		}
		if seen[c.Index] {
			return nil, fmt.Errorf("%w: %s", ErrRepeatedCard, c)
		}
		seen[c.Index] = true
		pc, err := toPH(c)
		if err != nil {
			return nil, err
		}
		out[i] = pc
	}
	return out, nil
}

// LibraryScore scores 3, 5, 6 or 7 cards; six cards take the best five.
func LibraryScore(cards []Card) (int16, error) {
	pcs, err := toPHSlice(cards)
	if err != nil {
		return 0, err
	}
	switch len(pcs) {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], pcs)
		return poker.Eval7(&a7), nil
	case 6:
		score, _ := bestOfFiveSubsets(pcs)
		return score, nil
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], pcs)
		return poker.Eval5(&a5), nil
	case 3:
		var a3 [3]poker.Card
		copy(a3[:], pcs)
		return poker.Eval3(&a3), nil
	}
	return 0, fmt.Errorf("%w: %d cards", ErrUnsupportedSize, len(pcs))
}

// bestOfFiveSubsets returns the top score over every five-card subset and
// the subset that holds it.
func bestOfFiveSubsets(pcs []poker.Card) (int16, [5]poker.Card) {
	n := len(pcs)
	best := int16(-32768)
	var bestFive [5]poker.Card
	choose := [5]int{}
	var five [5]poker.Card
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = pcs[choose[i]]
			}
			if score := poker.Eval5(&five); score > best {
				best = score
				bestFive = five
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			choose[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
	return best, bestFive
}

// LibraryDescribe returns the reference library's wording for a hand.
// Six cards are described by the five that LibraryScore picks.
func LibraryDescribe(cards []Card) (string, error) {
	pcs, err := toPHSlice(cards)
	if err != nil {
		return "", err
	}
	if len(pcs) == 6 {
		_, five := bestOfFiveSubsets(pcs)
		return poker.Describe(five[:])
	}
	return poker.Describe(pcs)
}
