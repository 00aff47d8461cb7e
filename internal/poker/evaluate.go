// Package poker scores five-card draw hands against the game's paytable.
package poker

import (
	"math"
	rand "math/rand/v2"
	"sort"

	"github.com/scrapyard/trashpoker/internal/deck"
)

// Category names a scored hand.
type Category string

const (
	RoyalFlush       Category = "Royal Flush"
	StraightFlush    Category = "Straight Flush"
	FourOfAKind      Category = "Four of a Kind"
	FullHouse        Category = "Full House"
	Flush            Category = "Flush"
	Straight         Category = "Straight"
	ThreeOfAKind     Category = "Three of a Kind"
	TwoPair          Category = "Two Pair"
	OnePair          Category = "One Pair"
	HighCard         Category = "High Card"
	LuckyPair        Category = "Lucky Pair"
	LuckyTwoPair     Category = "Lucky Two Pair"
	LuckyThreeOfKind Category = "Lucky Three of a Kind"
)

// Modifiers are the active evaluation-affecting powerups for one round.
type Modifiers struct {
	// Lucky gives a 10% chance to replace the natural result with a fixed
	// lucky upgrade, whatever the hand actually holds.
	Lucky bool
	// JokersWild forces every Jack to count as a wild card of value 0.
	JokersWild bool
}

// Result is the outcome of scoring one hand.
type Result struct {
	Category   Category
	Multiplier float64
}

// Payout returns floor(bet × multiplier).
func (r Result) Payout(bet int) int {
	return int(math.Floor(float64(bet) * r.Multiplier))
}

// luckyUpgrades are the fixed results a lucky trigger chooses from, uniformly.
var luckyUpgrades = []Result{
	{Category: LuckyPair, Multiplier: 1.5},
	{Category: LuckyTwoPair, Multiplier: 2.5},
	{Category: LuckyThreeOfKind, Multiplier: 4},
}

const luckyChance = 0.1

// cardValue maps a card to its evaluation value. Explicit wild cards are 0;
// under JokersWild every Jack is forced to 0 as well.
func cardValue(c deck.Card, mods Modifiers) int {
	if mods.JokersWild && c.Rank == deck.Jack {
		return 0
	}
	return c.Value()
}

// Evaluate scores a five-card hand. The RNG is only consulted for the lucky
// trigger; with Lucky inactive the result is fully deterministic.
//
// Wild cards (value 0) are excluded from flush and straight detection, which
// require all five cards to be regular. A hand containing any wild can only
// win through the rank-group path; the wild count boosts the single largest
// group. This mirrors the original game rules exactly and is intentional.
func Evaluate(rng *rand.Rand, hand []deck.Card, mods Modifiers) Result {
	if mods.Lucky && rng.Float64() < luckyChance {
		return luckyUpgrades[rng.IntN(len(luckyUpgrades))]
	}

	wildcards := 0
	regular := make([]deck.Card, 0, len(hand))
	values := make([]int, 0, len(hand))
	for _, c := range hand {
		v := cardValue(c, mods)
		if v == 0 {
			wildcards++
			continue
		}
		regular = append(regular, c)
		values = append(values, v)
	}

	flush := isFlush(regular)
	straight, straightHigh := isStraight(values)
	groups := rankGroups(values)
	if wildcards > 0 {
		if len(groups) == 0 {
			groups = []int{0}
		}
		groups[0] += wildcards
	}

	second := 0
	if len(groups) > 1 {
		second = groups[1]
	}

	switch {
	case straight && flush && straightHigh == 14:
		return Result{Category: RoyalFlush, Multiplier: 500}
	case straight && flush:
		return Result{Category: StraightFlush, Multiplier: 100}
	case groups[0] >= 4:
		return Result{Category: FourOfAKind, Multiplier: 50}
	case groups[0] == 3 && second == 2:
		return Result{Category: FullHouse, Multiplier: 10}
	case flush:
		return Result{Category: Flush, Multiplier: 5}
	case straight:
		return Result{Category: Straight, Multiplier: 5}
	case groups[0] == 3:
		return Result{Category: ThreeOfAKind, Multiplier: 3}
	case groups[0] == 2 && second == 2:
		return Result{Category: TwoPair, Multiplier: 2}
	case groups[0] == 2:
		return Result{Category: OnePair, Multiplier: 1}
	default:
		return Result{Category: HighCard, Multiplier: 0}
	}
}

// isFlush reports whether all cards share a suit. Fewer than five regular
// cards can never make a flush.
func isFlush(cards []deck.Card) bool {
	if len(cards) < 5 {
		return false
	}
	suit := cards[0].Suit
	for _, c := range cards[1:] {
		if c.Suit != suit {
			return false
		}
	}
	return true
}

// isStraight reports whether the values form five consecutive ranks, and the
// high card of the run. The wheel (A-2-3-4-5) counts with high card 5.
func isStraight(values []int) (bool, int) {
	if len(values) < 5 {
		return false, 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i+1]-sorted[i] != 1 {
			if isWheel(sorted) {
				return true, 5
			}
			return false, 0
		}
	}
	return true, sorted[len(sorted)-1]
}

func isWheel(sorted []int) bool {
	want := map[int]bool{14: true, 2: true, 3: true, 4: true, 5: true}
	for _, v := range sorted {
		delete(want, v)
	}
	return len(want) == 0
}

// rankGroups returns the same-value group sizes over regular cards, sorted
// descending (e.g. a full house yields [3 2]). An empty input yields [0] so
// callers can always index groups[0].
func rankGroups(values []int) []int {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}
	groups := make([]int, 0, len(counts))
	for _, n := range counts {
		groups = append(groups, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(groups)))
	if len(groups) == 0 {
		groups = []int{0}
	}
	return groups
}
