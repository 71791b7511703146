package engine

import (
	"errors"
	"fmt"
	"strings"
)

const (
	NumSuits = 4
	NumRanks = 13
	DeckSize = NumSuits * NumRanks
)

var (
	ErrInvalidCard    = errors.New("invalid card")
	ErrEmptyHand      = errors.New("invalid cards on hand")
	ErrNoHands        = errors.New("no hands to evaluate")
	ErrDrawOutOfRange = errors.New("invalid number of cards")
)

type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

var suitNames = [NumSuits]string{"clubs", "diamonds", "hearts", "spades"}

func (s Suit) Valid() bool { return s < NumSuits }

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("suit(%d)", uint8(s))
	}
	return suitNames[s]
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: suit %d", ErrInvalidCard, uint8(s))
	}
	return []byte(suitNames[s]), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSuit accepts full names ("spades"), letters ("s") and symbols ("♠").
func ParseSuit(in string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "c", "club", "clubs", "♣":
		return Clubs, nil
	case "d", "diamond", "diamonds", "♦":
		return Diamonds, nil
	case "h", "heart", "hearts", "♥":
		return Hearts, nil
	case "s", "spade", "spades", "♠":
		return Spades, nil
	}
	return 0, fmt.Errorf("%w: unknown suit %q", ErrInvalidCard, in)
}

// Rank is the ordinal of a face value: Two is 0, Ace is 12.
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = [NumRanks]string{
	"two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "jack", "queen", "king", "ace",
}

const rankLetters = "23456789TJQKA"

func (r Rank) Valid() bool { return r < NumRanks }

// Weight is 2^1 for Two through 2^13 for Ace.
func (r Rank) Weight() int64 { return int64(1) << (uint(r) + 1) }

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("rank(%d)", uint8(r))
	}
	return rankNames[r]
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: rank %d", ErrInvalidCard, uint8(r))
	}
	return []byte(rankNames[r]), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	v, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRank accepts names ("queen"), letters ("Q", "T") and numerals ("10").
func ParseRank(in string) (Rank, error) {
	s := strings.ToLower(strings.TrimSpace(in))
	for i, n := range rankNames {
		if s == n {
			return Rank(i), nil
		}
	}
	if s == "10" {
		return Ten, nil
	}
	if len(s) == 1 {
		if i := strings.IndexByte(rankLetters, strings.ToUpper(s)[0]); i >= 0 {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rank %q", ErrInvalidCard, in)
}

// Card is one of the 52 (suit, rank) pairs. Index is its canonical deck
// position, so Index%13 is always the rank ordinal.
type Card struct {
	Suit  Suit `json:"suit"`
	Rank  Rank `json:"rank"`
	Index int  `json:"index"`
}

func NewCard(s Suit, r Rank) (Card, error) {
	if !s.Valid() || !r.Valid() {
		return Card{}, fmt.Errorf("%w: suit %d rank %d", ErrInvalidCard, uint8(s), uint8(r))
	}
	return Card{Suit: s, Rank: r, Index: int(s)*NumRanks + int(r)}, nil
}

func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid() && c.Index == int(c.Suit)*NumRanks+int(c.Rank)
}

type PokerHand struct {
	HandNumber int    `json:"handNumber"`
	Cards      []Card `json:"cards"`
}
