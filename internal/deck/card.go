// Package deck builds and shuffles the card decks used by every draw in the
// game. A deck is always built fresh for each deal, discard or high-low draw;
// there is no persistent shoe, so the same card can legitimately appear in
// two independent draws.
package deck

import "fmt"

// Suit represents a card suit. Star is reserved for wild cards.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
	Star
)

// String returns the suit symbol.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Star:
		return "★"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds).
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. WildRank is the dedicated rank carried by
// purchased wild cards.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	WildRank
)

// String returns the display form of a rank. Ten renders as "10" to match
// the table felt, not the usual "T" shorthand.
func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	case WildRank:
		return "W"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card. Wild marks an explicit wild card added to
// the deck by the wildcard powerup; it is independent of rank-based wildness
// (a Jack under the Joker's Wild modifier keeps Wild=false).
type Card struct {
	Rank Rank
	Suit Suit
	Wild bool
}

// NewCard creates a standard card.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// NewWildCard creates an explicit wild card.
func NewWildCard() Card {
	return Card{Rank: WildRank, Suit: Star, Wild: true}
}

// String returns the card like "A♠" or "W★".
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red.
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Value returns the comparison value of the card: 2-10 literal, J=11, Q=12,
// K=13, A=14. Explicit wild cards count as 0.
func (c Card) Value() int {
	if c.Wild || c.Rank == WildRank {
		return 0
	}
	return int(c.Rank)
}
