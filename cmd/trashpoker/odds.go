package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/scrapyard/trashpoker/cmd/trashpoker/shared"
	"github.com/scrapyard/trashpoker/internal/game"
	"github.com/scrapyard/trashpoker/internal/poker"
)

// OddsCmd estimates the paytable's return-to-player by dealing stand-pat
// hands in parallel.
type OddsCmd struct {
	Hands      int   `kong:"default='1000000',help='Number of hands to simulate'"`
	Workers    int   `kong:"default='0',help='Worker goroutines (0 = GOMAXPROCS)'"`
	Wildcards  int   `kong:"default='0',help='Wild cards added to each deck'"`
	Lucky      bool  `kong:"help='Simulate with the lucky powerup active'"`
	JokersWild bool  `kong:"help='Simulate with jokers-wild active'"`
	Seed       int64 `kong:"default='1',help='RNG seed'"`
	Debug      bool  `kong:"help='Enable debug logging'"`
}

// displayOrder lists categories from best to worst for the report.
var displayOrder = []poker.Category{
	poker.RoyalFlush,
	poker.StraightFlush,
	poker.FourOfAKind,
	poker.FullHouse,
	poker.Flush,
	poker.Straight,
	poker.ThreeOfAKind,
	poker.TwoPair,
	poker.OnePair,
	poker.HighCard,
	poker.LuckyThreeOfKind,
	poker.LuckyTwoPair,
	poker.LuckyPair,
}

func (c *OddsCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx := shared.SetupSignalHandler()

	mods := poker.Modifiers{Lucky: c.Lucky, JokersWild: c.JokersWild}
	logger.Info("Simulating",
		"hands", c.Hands,
		"wildcards", c.Wildcards,
		"lucky", c.Lucky,
		"jokers_wild", c.JokersWild,
		"seed", c.Seed,
	)

	report, err := game.SimulateRTP(ctx, c.Seed, c.Hands, c.Workers, c.Wildcards, mods)
	if err != nil {
		return fmt.Errorf("simulating: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "CATEGORY\tHANDS\tFREQUENCY\n")
	for _, category := range displayOrder {
		count, ok := report.Categories[category]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f%%\n", category, count, 100*float64(count)/float64(report.Hands))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nReturn to player: %.4f (per unit bet over %d hands)\n", report.ReturnToPlayer, report.Hands)
	return nil
}
