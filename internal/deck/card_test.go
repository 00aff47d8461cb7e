package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardValue(t *testing.T) {
	tests := []struct {
		name     string
		card     Card
		expected int
	}{
		{"deuce", NewCard(Two, Spades), 2},
		{"ten", NewCard(Ten, Hearts), 10},
		{"jack", NewCard(Jack, Diamonds), 11},
		{"queen", NewCard(Queen, Clubs), 12},
		{"king", NewCard(King, Spades), 13},
		{"ace high", NewCard(Ace, Hearts), 14},
		{"explicit wild", NewWildCard(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.card.Value())
		})
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Ace, Spades).String())
	assert.Equal(t, "10♥", NewCard(Ten, Hearts).String())
	assert.Equal(t, "W★", NewWildCard().String())
}

func TestSuitIsRed(t *testing.T) {
	assert.True(t, Hearts.IsRed())
	assert.True(t, Diamonds.IsRed())
	assert.False(t, Spades.IsRed())
	assert.False(t, Clubs.IsRed())
	assert.False(t, Star.IsRed())
}
