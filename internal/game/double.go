package game

import (
	"math"

	"github.com/scrapyard/trashpoker/internal/deck"
)

// doubleCap is the number of survived rounds that wins the jackpot pool.
const doubleCap = 10

// Direction is a high-low guess.
type Direction string

const (
	High Direction = "high"
	Low  Direction = "low"
)

// DoubleRound is an active double-or-nothing escalation. It exists only
// between entering with a win and cashing out, losing, or hitting the cap.
//
// Every card comes from its own freshly built deck, so the shown and mystery
// cards can be the same card. The decks are built without wild cards to keep
// the comparison inside the 13-value rank space the displayed odds cover.
type DoubleRound struct {
	Round int
	Stake int
	Shown deck.Card
}

// resolve compares the mystery card against the shown card. Ties always
// favor the player.
func (d *DoubleRound) resolve(dir Direction, mystery deck.Card) bool {
	shown, drawn := d.Shown.Value(), mystery.Value()
	switch {
	case drawn == shown:
		return true
	case dir == High:
		return drawn > shown
	default:
		return drawn < shown
	}
}

// Odds are the informational win/tie/lose percentages for the current shown
// card, only available with the double-or-nothing master powerup.
type Odds struct {
	Higher int `json:"higher"`
	Lower  int `json:"lower"`
	Tie    int `json:"tie"`
}

// odds computes the percentages over the fixed 13-value rank space, rounded
// to the nearest percent.
func (d *DoubleRound) odds() Odds {
	v := d.Shown.Value()
	pct := func(n int) int {
		return int(math.Round(float64(n) / 13 * 100))
	}
	return Odds{
		Higher: pct(13 - v + 1),
		Lower:  pct(v - 2),
		Tie:    pct(1),
	}
}
