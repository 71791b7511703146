package main

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"pokerhand-api/server/dealer"
	"pokerhand-api/server/engine"
	"pokerhand-api/server/judge"
)

// runDeal deals one table on d, evaluates it and prints the showdown.
func runDeal(d *dealer.Dealer, cards, players int) error {
	hands, res, err := d.DealAndEvaluate(cards, players)
	if err != nil {
		return err
	}
	rep, err := judge.CrossCheck(hands)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Showdown")
	if err := pterm.DefaultTable.WithHasHeader().WithData(showdownRows(hands, res, rep)).Render(); err != nil {
		return err
	}

	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	pbox.WithTitle(pterm.LightGreen("|WINNER|")).WithTitleTopCenter().Println(winnerLine(res))

	switch {
	case !rep.Comparable:
		pterm.Info.Println("reference library cannot score hands of this size")
	case rep.Agree:
		pterm.Success.Println("reference library agrees")
	default:
		pterm.Warning.Printfln("reference library prefers player %d", rep.LibraryWinner)
	}
	return nil
}

func showdownRows(hands []engine.PokerHand, res engine.PokerTableResult, rep judge.Report) pterm.TableData {
	rows := pterm.TableData{{"Player", "Cards", "Hand", "Rank value", "Library"}}
	for i, hr := range res.HandResults {
		player := strconv.Itoa(hr.PlayerNumber)
		if hr.PlayerNumber == res.WinningPlayer {
			player = pterm.LightCyan(player + " *")
		}
		lib := "-"
		if i < len(rep.Hands) && rep.Hands[i].Scored {
			lib = rep.Hands[i].LibraryDescription
		}
		rows = append(rows, []string{
			player,
			cardsLine(hands[i].Cards),
			hr.RankDescription,
			strconv.FormatInt(hr.RankValue, 10),
			lib,
		})
	}
	return rows
}

func winnerLine(res engine.PokerTableResult) string {
	for _, hr := range res.HandResults {
		if hr.PlayerNumber == res.WinningPlayer {
			return pterm.Sprintf("%s with %s", res.Winner, pterm.LightCyan(hr.RankDescription))
		}
	}
	return res.Winner
}

func cardsLine(cards []engine.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		s := c.String()
		if c.Suit == engine.Diamonds || c.Suit == engine.Hearts {
			s = pterm.LightRed(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
