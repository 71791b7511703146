package main

import (
	"errors"
	"math"

	"pokerhand-api/server/dealer"
	"pokerhand-api/server/engine"
)

const maxSimRounds = 100_000

var errBadRounds = errors.New("invalid number of rounds")

type SeatStats struct {
	Player   int     `json:"player"`
	Declared int     `json:"declared_wins"` // first-listed-max rule
	Outright int     `json:"outright_wins"` // sole best hand
	Ties     int     `json:"ties"`          // shared best hand
	WinPct   float64 `json:"win_pct"`
	CILow    float64 `json:"ci95_low"`
	CIHigh   float64 `json:"ci95_high"`
}

type CategoryStats struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Hands       int     `json:"hands"`
	Pct         float64 `json:"pct"`
	Wins        int     `json:"wins"`
}

type SimReport struct {
	Rounds     int             `json:"rounds"`
	Cards      int             `json:"cards_per_hand"`
	Players    int             `json:"players"`
	Seats      []SeatStats     `json:"seats"`
	Categories []CategoryStats `json:"categories"`
}

// Simulate deals and evaluates `rounds` tables on d and tallies outcomes.
func Simulate(d *dealer.Dealer, cards, players, rounds int) (SimReport, error) {
	if rounds < 1 || rounds > maxSimRounds {
		return SimReport{}, errBadRounds
	}
	if players < 1 {
		return SimReport{}, dealer.ErrInvalidHandCount
	}
	rep := SimReport{Rounds: rounds, Cards: cards, Players: players}
	seats := make([]SeatStats, players)
	for i := range seats {
		seats[i].Player = i + 1
	}
	var cats [engine.NumCategories]CategoryStats

	for r := 0; r < rounds; r++ {
		_, res, err := d.DealAndEvaluate(cards, players)
		if err != nil {
			return SimReport{}, err
		}
		top, shared := res.HandResults[0].RankValue, 0
		for _, hr := range res.HandResults {
			if hr.RankValue > top {
				top = hr.RankValue
			}
		}
		for _, hr := range res.HandResults {
			if hr.RankValue == top {
				shared++
			}
		}
		for i, hr := range res.HandResults {
			c := hr.Category()
			cats[c].Hands++
			if hr.PlayerNumber == res.WinningPlayer {
				seats[i].Declared++
				cats[c].Wins++
			}
			if hr.RankValue == top {
				if shared == 1 {
					seats[i].Outright++
				} else {
					seats[i].Ties++
				}
			}
		}
	}

	for i := range seats {
		s := &seats[i]
		s.WinPct = round2(100 * (float64(s.Outright) + 0.5*float64(s.Ties)) / float64(rounds))
		lo, hi := WilsonCI95(s.Outright, s.Ties, rounds)
		s.CILow, s.CIHigh = round4(lo), round4(hi)
	}
	total := rounds * players
	for c := engine.RoyalFlush; c < engine.NumCategories; c++ {
		cats[c].Category = c.Key()
		cats[c].Description = c.Description()
		cats[c].Pct = round2(100 * float64(cats[c].Hands) / float64(total))
	}
	rep.Seats = seats
	rep.Categories = cats[:]
	return rep, nil
}

// WilsonCI95 for Bernoulli win rate using wins/ties/total.
func WilsonCI95(wins, ties, total int) (low, hi float64) {
	if total <= 0 {
		return 0, 1
	}
	z := 1.96
	n := float64(total)
	p := (float64(wins) + 0.5*float64(ties)) / n
	den := 1 + (z*z)/n
	center := p + (z*z)/(2*n)
	half := z * math.Sqrt((p*(1-p))/n+(z*z)/(4*n*n))
	return (center - half) / den, (center + half) / den
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
