package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/scrapyard/trashpoker/cmd/trashpoker/shared"
	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
	"github.com/scrapyard/trashpoker/internal/randutil"
	"github.com/scrapyard/trashpoker/internal/trash"
	"github.com/scrapyard/trashpoker/internal/tui"
)

// PlayCmd runs the game locally in the terminal
type PlayCmd struct {
	Save          string `kong:"default='trashpoker-save.json',help='Save file path'"`
	LogFile       string `kong:"help='Write logs to this file (the TUI owns the terminal)'"`
	Debug         bool   `kong:"help='Enable debug logging'"`
	Seed          *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	SettleDelayMs int    `kong:"default='3000',help='Pause before a losing hand clears, in milliseconds'"`
}

func (c *PlayCmd) Run() error {
	logger, closeLog, err := shared.SetupFileLogger(c.LogFile, c.Debug)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	store := economy.NewStore(c.Save, logger)
	ledger := store.Load()

	session := game.NewSession(rng, ledger, logger,
		game.WithConfig(game.Config{SettleDelay: time.Duration(c.SettleDelayMs) * time.Millisecond}),
		game.WithSaver(store),
	)

	scavenger := func() *trash.Scavenger {
		return trash.NewScavenger(randutil.New(rng.Int64()))
	}

	lipgloss.SetColorProfile(termenv.ColorProfile())
	model := tui.NewModel(session, scavenger, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}

	if err := store.Save(ledger); err != nil {
		return fmt.Errorf("saving on exit: %w", err)
	}
	return nil
}
