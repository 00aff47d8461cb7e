package game

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/scrapyard/trashpoker/internal/deck"
	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/poker"
	"github.com/scrapyard/trashpoker/internal/randutil"
)

// RTPReport summarises a Monte-Carlo run over the paytable.
type RTPReport struct {
	Hands          int
	Wildcards      int
	ReturnToPlayer float64 // average multiplier per unit bet
	Categories     map[poker.Category]int
}

// SimulateRTP deals and evaluates fresh stand-pat hands in parallel and
// reports the long-run return per unit bet. Each worker owns its RNG so runs
// are reproducible for a given seed and worker count.
func SimulateRTP(ctx context.Context, seed int64, hands, workers, wildcards int, mods poker.Modifiers) (RTPReport, error) {
	if hands <= 0 {
		return RTPReport{}, fmt.Errorf("hands must be positive, got %d", hands)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > hands {
		workers = hands
	}

	type tally struct {
		multiplierSum float64
		categories    map[poker.Category]int
	}

	results := make(chan tally, workers)
	g, ctx := errgroup.WithContext(ctx)

	per := hands / workers
	extra := hands % workers
	for w := 0; w < workers; w++ {
		count := per
		if w < extra {
			count++
		}
		rng := randutil.New(seed + int64(w))
		g.Go(func() error {
			t := tally{categories: make(map[poker.Category]int)}
			for i := 0; i < count; i++ {
				if i%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				hand := deck.New(rng, wildcards).DealN(HandSize)
				result := poker.Evaluate(rng, hand, mods)
				t.multiplierSum += result.Multiplier
				t.categories[result.Category]++
			}
			results <- t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return RTPReport{}, err
	}
	close(results)

	report := RTPReport{
		Hands:      hands,
		Wildcards:  wildcards,
		Categories: make(map[poker.Category]int),
	}
	var multiplierSum float64
	for t := range results {
		multiplierSum += t.multiplierSum
		for c, n := range t.categories {
			report.Categories[c] += n
		}
	}
	report.ReturnToPlayer = multiplierSum / float64(hands)
	return report, nil
}

// SimulateCompoundGrowth projects a balance over rounds of pure accrual
// (interest then passive income), ignoring bets. It exists for the shop's
// "is this worth it" display.
func SimulateCompoundGrowth(start, rounds int, powerups economy.Powerups) int {
	l := &economy.Ledger{Balance: start, Powerups: powerups}
	for i := 0; i < rounds; i++ {
		l.AccrueInterest()
		l.AccruePassiveIncome()
	}
	return l.Balance
}
