package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck, before wild cards.
const Size = 52

// Deck represents one freshly built deck of cards.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// New builds a standard 52-card deck plus wildcards explicit wild cards and
// shuffles it with the provided RNG. The standard portion is generated in
// suit-major, rank-minor order before the shuffle.
func New(rng *rand.Rand, wildcards int) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size+wildcards),
		rng:   rng,
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	for i := 0; i < wildcards; i++ {
		d.cards = append(d.cards, NewWildCard())
	}
	d.shuffle()
	return d
}

// NewStacked builds a deck that deals the given cards in order, without
// shuffling. Deterministic tests and tools use it to rig draws.
func NewStacked(cards ...Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// shuffle is a Fisher-Yates shuffle, walking from the last index down and
// swapping with a uniform index in [0, i].
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card. Decks are always built with more
// cards than any single draw needs, so running dry indicates a caller bug.
func (d *Deck) Deal() Card {
	if d.next >= len(d.cards) {
		panic("deck: dealt past end of deck")
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// DealN deals n cards from the top of the deck.
func (d *Deck) DealN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Deal()
	}
	return cards
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
