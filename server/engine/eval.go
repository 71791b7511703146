package engine

import "fmt"

const (
	// TierBase keeps the category term above any reachable base value.
	TierBase    int64 = 1_000_000_000
	straightLen       = 5
	flushSize         = 5
)

// tally is per-call scratch state; nothing here outlives Evaluate.
type tally struct {
	suits  [NumSuits]int
	ranks  [NumRanks]int
	anchor int // lowest occupied rank slot, -1 for no cards
}

func tallyCards(cards []Card) (tally, error) {
	t := tally{anchor: -1}
	for _, c := range cards {
		if !c.Valid() {
			return tally{}, fmt.Errorf("%w: %+v", ErrInvalidCard, c)
		}
		t.suits[c.Suit]++
		t.ranks[c.Index%NumRanks]++
	}
	for i, n := range t.ranks {
		if n > 0 {
			t.anchor = i
			break
		}
	}
	return t, nil
}

// baseValue sums count * 2^(slot+1) over all rank slots.
func (t *tally) baseValue() int64 {
	var sum int64
	for i, n := range t.ranks {
		if n > 0 {
			sum += Rank(i).Weight() * int64(n)
		}
	}
	return sum
}

func (t *tally) countRanks(n int) int {
	k := 0
	for _, c := range t.ranks {
		if c == n {
			k++
		}
	}
	return k
}

func (t *tally) distinctRanks() int {
	k := 0
	for _, c := range t.ranks {
		if c != 0 {
			k++
		}
	}
	return k
}

// straight reports five single cards in consecutive slots starting at
// the anchor. The ace only counts high, so A-2-3-4-5 is not a straight.
func (t *tally) straight() bool {
	if t.anchor < 0 || t.anchor+straightLen > NumRanks {
		return false
	}
	for i := t.anchor; i < t.anchor+straightLen; i++ {
		if t.ranks[i] != 1 {
			return false
		}
	}
	return true
}

func (t *tally) flush() bool {
	for _, n := range t.suits {
		if n == flushSize {
			return true
		}
	}
	return false
}

func (t *tally) matches() Ranks {
	var r Ranks
	r[Quads] = t.countRanks(4) > 0
	r[FullHouse] = t.distinctRanks() == 2
	r[Flush] = t.flush()
	r[Straight] = t.straight()
	r[Trips] = t.countRanks(3) > 0
	r[TwoPairs] = t.countRanks(2) == 2
	r[Pair] = t.countRanks(2) == 1
	r[HighCard] = true
	r[StraightFlush] = r[Flush] && r[Straight]
	r[RoyalFlush] = r[StraightFlush] && t.anchor == int(Ten)
	return r
}

// Evaluate classifies a hand and scores it as base value plus
// tier * TierBase. It is safe for concurrent use.
func Evaluate(h PokerHand) (PokerHandResult, error) {
	if len(h.Cards) == 0 {
		return PokerHandResult{}, ErrEmptyHand
	}
	t, err := tallyCards(h.Cards)
	if err != nil {
		return PokerHandResult{}, err
	}
	ranks := t.matches()
	best := ranks.Strongest()
	return PokerHandResult{
		PlayerNumber:    h.HandNumber,
		RankValue:       t.baseValue() + int64(best.Tier())*TierBase,
		Ranks:           ranks,
		RankDescription: best.Description(),
	}, nil
}

// EvaluateHands scores every hand on its own and names the first hand
// holding the highest rank value as the winner.
func EvaluateHands(hands []PokerHand) (PokerTableResult, error) {
	if len(hands) == 0 {
		return PokerTableResult{}, ErrNoHands
	}
	results := make([]PokerHandResult, 0, len(hands))
	best := 0
	for i, h := range hands {
		res, err := Evaluate(h)
		if err != nil {
			return PokerTableResult{}, fmt.Errorf("hand %d: %w", h.HandNumber, err)
		}
		results = append(results, res)
		if res.RankValue > results[best].RankValue {
			best = i
		}
	}
	return NewTableResult(results, results[best].PlayerNumber), nil
}
