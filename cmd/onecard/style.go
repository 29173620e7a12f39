package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/onecard-go/onecard/internal/game"
	"github.com/onecard-go/onecard/internal/game/cards"
	"github.com/onecard-go/onecard/internal/game/rules"
)

func cardFace(c cards.Card) string {
	if c.Suit.Red() {
		return pterm.LightRed(c.String())
	}
	return pterm.LightWhite(c.String())
}

func cardOption(i int, c cards.Card, playable bool) string {
	option := fmt.Sprintf("%2d. %-4s %s", i+1, c.String(), c.Name())
	if !playable {
		option += "  (can't play)"
	}
	return option
}

func printState(snap game.Snapshot) {
	table := pterm.Panel{Data: printTableInfo(snap)}
	computer := pterm.Panel{Data: printComputerInfo(snap)}
	player := pterm.Panel{Data: printPlayerInfo(snap)}
	log := pterm.Panel{Data: printLog(snap)}

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{computer, table},
		{player, log},
	}).Render()
}

func printTableInfo(snap game.Snapshot) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	turn := pterm.LightCyan("Your turn")
	if snap.Current == rules.ActorComputer {
		turn = pterm.LightYellow("Computer's turn")
	}

	body := pterm.Sprintfln("Top: %s  (%s)", cardFace(snap.Top), snap.Top.Name())
	body += pterm.Sprintfln("Deck: %d  Discard: %d", snap.DeckSize, snap.DiscardSize)
	body += pterm.Sprintfln("Turn %d - %s", snap.Turn, turn)
	for _, notice := range snap.Notices() {
		body += pterm.LightRed("※ "+notice) + "\n"
	}
	return pbox.WithTitle(pterm.LightYellow("|TABLE|")).WithTitleTopCenter().Sprint(body)
}

func printComputerInfo(snap game.Snapshot) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	hand := strings.Repeat("🂠 ", snap.ComputerCount)
	if snap.ComputerHand != nil {
		faces := make([]string, 0, len(snap.ComputerHand))
		for _, c := range snap.ComputerHand {
			faces = append(faces, cardFace(c))
		}
		hand = strings.Join(faces, " ")
	}
	stats := snap.Stats.Computer
	return pbox.WithTitle("Computer").WithTitleTopLeft().Sprintf("Cards: %d\n%s\nPlayed: %d  Drawn: %d  Skipped: %d\n",
		snap.ComputerCount, hand, stats.CardsPlayed, stats.CardsDrawn, stats.TurnsSkipped)
}

func printPlayerInfo(snap game.Snapshot) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(10).WithTopPadding(1).WithBottomPadding(1)
	faces := make([]string, 0, len(snap.PlayerHand))
	for i, c := range snap.PlayerHand {
		face := cardFace(c)
		if snap.IsPlayable(i) {
			face = pterm.BgGreen.Sprint(face)
		}
		faces = append(faces, face)
	}
	stats := snap.Stats.Player
	return pbox.WithTitle("You").WithTitleTopLeft().Sprintf("%s\nPlayed: %d  Drawn: %d  Skipped: %d\n",
		strings.Join(faces, " "), stats.CardsPlayed, stats.CardsDrawn, stats.TurnsSkipped)
}

func printLog(snap game.Snapshot) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTopPadding(1).WithBottomPadding(1)
	lines := make([]string, 0, len(snap.Messages))
	for _, m := range snap.Messages {
		lines = append(lines, m.Text)
	}
	return pbox.WithTitle(pterm.LightYellow("|LOG|")).WithTitleTopCenter().Sprint(strings.Join(lines, "\n"))
}

func getWinnerPanel(snap game.Snapshot) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	result := pterm.LightGreen(snap.Status)
	if snap.Winner == rules.ActorComputer {
		result = pterm.LightRed(snap.Status)
	}
	info := pterm.Sprintfln("%s after %d turns", result, snap.Turn)
	info += pterm.Sprintfln("Longest attack: %d  Reshuffles: %d", snap.Stats.LongestAttack, snap.Stats.Reshuffles)
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightGreen("|GAME OVER|")).WithTitleTopCenter().Sprint(info)}
}
