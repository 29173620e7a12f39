package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"go.uber.org/zap"

	"github.com/onecard-go/onecard/internal/config"
	"github.com/onecard-go/onecard/internal/game"
	"github.com/onecard-go/onecard/internal/game/rules"
	"github.com/onecard-go/onecard/internal/logging"
)

var (
	configPath = flag.String("config", "config/onecard.yaml", "path to configuration file")
	seed       = flag.Int64("seed", 0, "override game.seed (0 keeps the configured value)")
	version    = "dev" // set via ldflags during build
)

const (
	optionDraw = "Draw"
	optionQuit = "Quit"
)

var errQuit = errors.New("quit")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting one card",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int64("seed", cfg.Game.Seed),
	)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("ONE ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("CARD", pterm.FgDarkGray.ToStyle()),
	).Render()

	opts := game.Options{
		Seed:               cfg.Game.Seed,
		ReplayLimit:        cfg.Game.ReplayLimit,
		RevealComputerHand: cfg.Game.RevealComputerHand,
	}

	for {
		g, err := game.New(logger, opts)
		if err != nil {
			logger.Fatal("failed to start game", zap.Error(err))
		}

		err = play(g, cfg.Game.ComputerDelay)
		if errors.Is(err, errQuit) {
			break
		}

		again, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Play again?").WithDefaultValue(true).Show()
		if !again {
			break
		}
		// Keep a fixed seed from replaying the same deal.
		if opts.Seed != 0 {
			opts.Seed++
		}
	}

	pterm.Info.Println("Thanks for playing.")
}

// play runs one game to completion.
func play(g *game.Game, delay time.Duration) error {
	snap := g.Snapshot()
	for {
		printState(snap)

		if snap.Phase == rules.PhaseGameOver {
			pterm.DefaultPanel.WithPanels([][]pterm.Panel{{getWinnerPanel(snap)}}).Render()
			return nil
		}

		var res game.ActionResult
		if snap.Current == rules.ActorComputer {
			res = computerTurn(g, delay)
		} else {
			action, err := inputAction(snap)
			if err != nil {
				return err
			}
			res = g.SubmitPlayerAction(action)
		}

		if !res.Accepted {
			pterm.Warning.Println(res.Reason)
		}
		snap = res.Snapshot
	}
}

func computerTurn(g *game.Game, delay time.Duration) game.ActionResult {
	spinner, _ := pterm.DefaultSpinner.Start("Computer is thinking ...")
	time.Sleep(delay)

	res := g.AdvanceComputerTurn()
	if !res.Accepted {
		spinner.Fail(res.Reason)
		return res
	}
	spinner.Success(res.Snapshot.Status)
	return res
}

// inputAction asks the player for a card to play, a draw, or to quit.
func inputAction(snap game.Snapshot) (game.Action, error) {
	options := make([]string, 0, len(snap.PlayerHand)+2)
	indexByOption := make(map[string]int, len(snap.PlayerHand))
	for i, card := range snap.PlayerHand {
		option := cardOption(i, card, snap.IsPlayable(i))
		options = append(options, option)
		indexByOption[option] = i
	}
	draw := optionDraw
	if snap.DrawStack > 0 {
		draw = fmt.Sprintf("%s %d", optionDraw, snap.DrawStack)
	}
	options = append(options, draw, optionQuit)

	defaultOption := draw
	if len(snap.Playable) > 0 {
		defaultOption = options[snap.Playable[0]]
	}

	selected, err := pterm.DefaultInteractiveSelect.
		WithDefaultText("Select a card to play").
		WithOptions(options).
		WithDefaultOption(defaultOption).
		WithMaxHeight(len(options)).
		Show()
	if err != nil {
		return game.Action{}, err
	}

	switch selected {
	case optionQuit:
		return game.Action{}, errQuit
	case draw:
		return game.DrawCard(), nil
	default:
		return game.PlayCard(indexByOption[selected]), nil
	}
}
