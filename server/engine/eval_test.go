package engine

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEval(t *testing.T, cards string) PokerHandResult {
	t.Helper()
	res, err := Evaluate(MustHand(1, cards))
	require.NoError(t, err)
	return res
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  Category
		desc  string
	}{
		{"royal flush", "Ts Js Qs Ks As", RoyalFlush, "Royal Flush"},
		{"straight flush", "5h 6h 7h 8h 9h", StraightFlush, "Straight Flush"},
		{"quads", "9c 9d 9h 9s 2c", Quads, "Quads"},
		{"full house", "2c 2d 2h 7s 7d", FullHouse, "Full House"},
		{"flush", "2d 5d 9d Jd Kd", Flush, "Flush"},
		{"straight", "4c 5d 6h 7s 8c", Straight, "Straight"},
		{"broadway straight", "Tc Jd Qh Ks Ac", Straight, "Straight"},
		{"trips", "Qc Qd Qh 3s 8c", Trips, "Trips"},
		{"two pairs", "Jc Jd 4h 4s Ac", TwoPairs, "Two Pairs"},
		{"pair", "6c 6d 2h 9s Kc", Pair, "Pair"},
		{"high card", "2c 5d 9h Js Kc", HighCard, "High Card"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustEval(t, tt.cards)
			assert.Equal(t, tt.want, res.Category())
			assert.Equal(t, tt.desc, res.RankDescription)
			assert.Equal(t, int64(tt.want.Tier()), res.RankValue/TierBase)
			assert.True(t, res.Ranks[HighCard])
		})
	}
}

func TestEvaluateRoyalFlushFlags(t *testing.T) {
	res := mustEval(t, "Ts Js Qs Ks As")
	assert.True(t, res.Ranks[RoyalFlush])
	assert.True(t, res.Ranks[StraightFlush])
	assert.True(t, res.Ranks[Flush])
	assert.True(t, res.Ranks[Straight])
	assert.False(t, res.Ranks[Quads])
	assert.False(t, res.Ranks[FullHouse])
	assert.False(t, res.Ranks[Pair])
	assert.Equal(t, 10*TierBase+(512+1024+2048+4096+8192), res.RankValue)
}

func TestEvaluateFullHouseFlags(t *testing.T) {
	res := mustEval(t, "2c 2d 2h 7s 7d")
	assert.True(t, res.Ranks[FullHouse])
	assert.True(t, res.Ranks[Trips])
	assert.True(t, res.Ranks[Pair])
	assert.False(t, res.Ranks[Quads])
	assert.False(t, res.Ranks[Flush])
	assert.False(t, res.Ranks[Straight])
	// 3*2^1 + 2*2^6
	assert.Equal(t, 7*TierBase+6+128, res.RankValue)
}

func TestEvaluateQuadsAlsoSetsFullHouse(t *testing.T) {
	res := mustEval(t, "9c 9d 9h 9s 2c")
	assert.True(t, res.Ranks[Quads])
	assert.True(t, res.Ranks[FullHouse])
	assert.Equal(t, Quads, res.Category())
}

func TestEvaluateWheelIsNotAStraight(t *testing.T) {
	res := mustEval(t, "Ac 2d 3h 4s 5c")
	assert.False(t, res.Ranks[Straight])
	assert.Equal(t, HighCard, res.Category())

	res = mustEval(t, "Ah 2h 3h 4h 5h")
	assert.False(t, res.Ranks[StraightFlush])
	assert.Equal(t, Flush, res.Category())
}

func TestEvaluateLowStraight(t *testing.T) {
	res := mustEval(t, "2c 3d 4h 5s 6c")
	assert.True(t, res.Ranks[Straight])
	assert.Equal(t, int64(5)*TierBase+2+4+8+16+32, res.RankValue)
}

func TestEvaluateSixCardFlushIsNotAFlush(t *testing.T) {
	res := mustEval(t, "2d 5d 9d Jd Kd 3d")
	assert.False(t, res.Ranks[Flush])
}

func TestEvaluateShortHands(t *testing.T) {
	res := mustEval(t, "Ah")
	assert.Equal(t, HighCard, res.Category())
	assert.Equal(t, TierBase+8192, res.RankValue)

	// two distinct ranks count as full_house
	res = mustEval(t, "Ah Kd")
	assert.Equal(t, FullHouse, res.Category())
}

func TestEvaluateKickerOrdersWithinCategory(t *testing.T) {
	low := mustEval(t, "2c 2d 5h 7s 9c")
	high := mustEval(t, "2h 2s 5c 7d Jc")
	assert.Greater(t, high.RankValue, low.RankValue)
}

func TestEvaluateTierDominatesKicker(t *testing.T) {
	royal := mustEval(t, "Th Jh Qh Kh Ah")
	sf := mustEval(t, "9c Tc Jc Qc Kc")
	quads := mustEval(t, "Ac Ad Ah As Kc")
	full := mustEval(t, "Ac Ad Ah Ks Kc")
	pair := mustEval(t, "Ac Ad Qh Ks Jc")
	high := mustEval(t, "2c 4d 6h 8s Tc")
	assert.Greater(t, royal.RankValue, sf.RankValue)
	assert.Greater(t, sf.RankValue, quads.RankValue)
	assert.Greater(t, quads.RankValue, full.RankValue)
	assert.Greater(t, pair.RankValue, high.RankValue)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate(PokerHand{HandNumber: 1})
	assert.ErrorIs(t, err, ErrEmptyHand)

	_, err = Evaluate(PokerHand{HandNumber: 1, Cards: []Card{{Suit: Spades, Rank: Ace, Index: 3}}})
	assert.ErrorIs(t, err, ErrInvalidCard)

	_, err = EvaluateHands(nil)
	assert.ErrorIs(t, err, ErrNoHands)

	_, err = EvaluateHands([]PokerHand{MustHand(1, "As Ks"), {HandNumber: 2}})
	assert.ErrorIs(t, err, ErrEmptyHand)
}

func TestEvaluateHandsEndToEnd(t *testing.T) {
	res, err := EvaluateHands([]PokerHand{
		MustHand(1, "As Ks Qs Js Ts"),
		MustHand(2, "2c 2d 3h 3s 4d"),
	})
	require.NoError(t, err)
	require.Len(t, res.HandResults, 2)
	assert.True(t, res.HandResults[0].Ranks[RoyalFlush])
	assert.Equal(t, TwoPairs, res.HandResults[1].Category())
	assert.Equal(t, 1, res.WinningPlayer)
	assert.Equal(t, "The winner is the player: 1", res.Winner)
}

func TestEvaluateHandsTieGoesToEarliest(t *testing.T) {
	res, err := EvaluateHands([]PokerHand{
		MustHand(4, "2c 5d 9h Js Kc"),
		MustHand(7, "2d 5h 9s Jc Kd"),
		MustHand(9, "2h 3d 9c Jh Ks"),
	})
	require.NoError(t, err)
	assert.Equal(t, res.HandResults[0].RankValue, res.HandResults[1].RankValue)
	assert.Equal(t, 4, res.WinningPlayer)
}

func TestEvaluateConcurrent(t *testing.T) {
	hands := []PokerHand{
		MustHand(1, "Ts Js Qs Ks As"),
		MustHand(2, "2c 2d 2h 7s 7d"),
		MustHand(3, "2c 5d 9h Js Kc"),
	}
	want := make([]PokerHandResult, len(hands))
	for i, h := range hands {
		res, err := Evaluate(h)
		require.NoError(t, err)
		want[i] = res
	}
	var wg sync.WaitGroup
	errs := make(chan string, 300)
	for n := 0; n < 100; n++ {
		for i, h := range hands {
			wg.Add(1)
			go func(i int, h PokerHand) {
				defer wg.Done()
				got, err := Evaluate(h)
				if err != nil || got != want[i] {
					errs <- h.Cards[0].String()
				}
			}(i, h)
		}
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent evaluation diverged for hand starting %s", e)
	}
}

func TestRanksJSONOrder(t *testing.T) {
	res := mustEval(t, "Ts Js Qs Ks As")
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"playerNumber": 1,
		"rankValue": 10000015872,
		"ranks": {"royal_flush": true, "straight_flush": true, "quads": false, "full_house": false,
		          "flush": true, "straight": true, "trips": false, "two_pairs": false, "pair": false, "high_card": true},
		"rankDescription": "Royal Flush"
	}`, string(b))
	assert.Contains(t, string(b), `"ranks":{"royal_flush":true,"straight_flush":true,"quads":false,"full_house":false,"flush":true,"straight":true,"trips":false,"two_pairs":false,"pair":false,"high_card":true}`)

	var back PokerHandResult
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, res, back)
}

func TestFormatDescription(t *testing.T) {
	assert.Equal(t, "Two Pairs", FormatDescription("two_pairs"))
	assert.Equal(t, "High Card", FormatDescription("high_card"))
	assert.Equal(t, "Quads", FormatDescription("quads"))
}
