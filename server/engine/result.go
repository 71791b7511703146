package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a hand class, declared strongest first.
type Category uint8

const (
	RoyalFlush Category = iota
	StraightFlush
	Quads
	FullHouse
	Flush
	Straight
	Trips
	TwoPairs
	Pair
	HighCard
	NumCategories
)

var categoryKeys = [NumCategories]string{
	"royal_flush",
	"straight_flush",
	"quads",
	"full_house",
	"flush",
	"straight",
	"trips",
	"two_pairs",
	"pair",
	"high_card",
}

func (c Category) Key() string {
	if c >= NumCategories {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryKeys[c]
}

func (c Category) String() string { return c.Key() }

// Tier is 10 for royal_flush down to 1 for high_card.
func (c Category) Tier() int { return int(NumCategories - c) }

func (c Category) Description() string { return FormatDescription(c.Key()) }

func CategoryFromKey(key string) (Category, bool) {
	for i, k := range categoryKeys {
		if k == key {
			return Category(i), true
		}
	}
	return 0, false
}

// FormatDescription turns "two_pairs" into "Two Pairs".
func FormatDescription(key string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.Join(strings.Split(key, "_"), " "))
}

// Ranks holds one flag per category. It encodes as a JSON object with
// keys in declared order.
type Ranks [NumCategories]bool

// Strongest returns the first set category; HighCard when none is set.
func (r Ranks) Strongest() Category {
	for c := RoyalFlush; c < NumCategories; c++ {
		if r[c] {
			return c
		}
	}
	return HighCard
}

func (r Ranks) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range categoryKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%t", k, r[i])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Ranks) UnmarshalJSON(b []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Ranks
	for k, v := range m {
		c, ok := CategoryFromKey(k)
		if !ok {
			return fmt.Errorf("unknown category %q", k)
		}
		out[c] = v
	}
	*r = out
	return nil
}

type PokerHandResult struct {
	PlayerNumber    int    `json:"playerNumber"`
	RankValue       int64  `json:"rankValue"`
	Ranks           Ranks  `json:"ranks"`
	RankDescription string `json:"rankDescription"`
}

// Category is the strongest category the hand matched.
func (r PokerHandResult) Category() Category { return r.Ranks.Strongest() }

type PokerTableResult struct {
	HandResults   []PokerHandResult `json:"handResults"`
	Winner        string            `json:"winner"`
	WinningPlayer int               `json:"winningPlayer"`
}

func NewTableResult(results []PokerHandResult, winner int) PokerTableResult {
	return PokerTableResult{
		HandResults:   results,
		Winner:        fmt.Sprintf("The winner is the player: %d", winner),
		WinningPlayer: winner,
	}
}
