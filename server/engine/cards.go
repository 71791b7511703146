package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CanonicalCards returns the 52 cards suit-major, rank-minor, with
// indexes 0..51.
func CanonicalCards() []Card {
	cards := make([]Card, 0, DeckSize)
	idx := 0
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Suit: s, Rank: r, Index: idx})
			idx++
		}
	}
	return cards
}

func (c Card) String() string {
	if !c.Suit.Valid() || !c.Rank.Valid() {
		return "??"
	}
	return fmt.Sprintf("%c%c", rankLetters[c.Rank], "cdhs"[c.Suit])
}

// ParseCard reads compact notation: "As", "Td", "10h", "Q♠".
func ParseCard(in string) (Card, error) {
	s := strings.TrimSpace(in)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, in)
	}
	var rankPart, suitPart string
	if strings.HasPrefix(s, "10") {
		rankPart, suitPart = "10", s[2:]
	} else {
		rankPart, suitPart = s[:1], s[1:]
	}
	r, err := ParseRank(rankPart)
	if err != nil {
		return Card{}, err
	}
	su, err := ParseSuit(suitPart)
	if err != nil {
		return Card{}, err
	}
	return NewCard(su, r)
}

// ParseCards reads a space or comma separated list of cards.
func ParseCards(in string) ([]Card, error) {
	fields := strings.FieldsFunc(in, func(r rune) bool { return r == ' ' || r == ',' })
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MustHand builds a hand from compact notation and panics on bad input.
// Intended for fixtures.
func MustHand(handNumber int, cards string) PokerHand {
	cs, err := ParseCards(cards)
	if err != nil {
		panic(err)
	}
	return PokerHand{HandNumber: handNumber, Cards: cs}
}

// UnmarshalJSON accepts either a compact string ("As") or an object
// {"suit":"spades","rank":"ace","index":51}. The index is derived from
// suit and rank; a conflicting index is rejected.
func (c *Card) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseCard(s)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}
	var raw struct {
		Suit  Suit `json:"suit"`
		Rank  Rank `json:"rank"`
		Index *int `json:"index"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := NewCard(raw.Suit, raw.Rank)
	if err != nil {
		return err
	}
	if raw.Index != nil && *raw.Index != v.Index {
		return fmt.Errorf("%w: index %d does not match %s", ErrInvalidCard, *raw.Index, v)
	}
	*c = v
	return nil
}
