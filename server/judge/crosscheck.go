// Package judge replays engine verdicts against the paulhankin/poker
// reference scorer and reports where the two disagree.
package judge

import (
	"errors"

	"pokerhand-api/server/engine"
)

type HandVerdict struct {
	PlayerNumber       int    `json:"playerNumber"`
	RankValue          int64  `json:"rankValue"`
	RankDescription    string `json:"rankDescription"`
	Scored             bool   `json:"scored"`
	LibraryScore       int16  `json:"libraryScore,omitempty"`
	LibraryDescription string `json:"libraryDescription,omitempty"`
}

type Report struct {
	Hands         []HandVerdict `json:"hands"`
	EngineWinner  int           `json:"engineWinner"`
	LibraryWinner int           `json:"libraryWinner,omitempty"`
	// Comparable is false when any hand has a size the library cannot score
	// or repeats a card.
	Comparable bool `json:"comparable"`
	// Agree means the engine's winner holds the library's best score.
	Agree bool `json:"agree"`
}

// CrossCheck evaluates hands with the engine, scores them with the
// reference library, and compares winners.
func CrossCheck(hands []engine.PokerHand) (Report, error) {
	table, err := engine.EvaluateHands(hands)
	if err != nil {
		return Report{}, err
	}
	rep := Report{
		Hands:        make([]HandVerdict, len(hands)),
		EngineWinner: table.WinningPlayer,
		Comparable:   true,
	}
	win := 0
	for i, res := range table.HandResults {
		if res.RankValue > table.HandResults[win].RankValue {
			win = i
		}
	}
	best := -1
	for i, h := range hands {
		res := table.HandResults[i]
		v := HandVerdict{
			PlayerNumber:    res.PlayerNumber,
			RankValue:       res.RankValue,
			RankDescription: res.RankDescription,
		}
		score, err := engine.LibraryScore(h.Cards)
		switch {
		case errors.Is(err, engine.ErrUnsupportedSize), errors.Is(err, engine.ErrRepeatedCard):
			rep.Comparable = false
		case err != nil:
			return Report{}, err
		default:
			v.Scored = true
			v.LibraryScore = score
			if d, err := engine.LibraryDescribe(h.Cards); err == nil {
				v.LibraryDescription = d
			}
			if best < 0 || score > rep.Hands[best].LibraryScore {
				best = i
			}
		}
		rep.Hands[i] = v
	}
	if !rep.Comparable || best < 0 {
		return rep, nil
	}
	rep.LibraryWinner = rep.Hands[best].PlayerNumber
	rep.Agree = rep.Hands[win].LibraryScore == rep.Hands[best].LibraryScore
	return rep, nil
}
