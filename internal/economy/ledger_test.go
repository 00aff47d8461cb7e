package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccrueInterest(t *testing.T) {
	tests := []struct {
		name     string
		balance  int
		pct      int
		interest int
	}{
		{"no powerup", 1000, 0, 0},
		{"one percent", 1000, 1, 10},
		{"floors fraction", 155, 3, 4}, // floor(4.65)
		{"zero balance", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Ledger{Balance: tt.balance}
			l.Powerups.CompoundInterest = tt.pct
			assert.Equal(t, tt.interest, l.AccrueInterest())
			assert.Equal(t, tt.balance+tt.interest, l.Balance)
		})
	}
}

func TestAccruePassiveIncome(t *testing.T) {
	l := &Ledger{Balance: 100}
	assert.Zero(t, l.AccruePassiveIncome())

	l.Powerups.PassiveIncome = 15
	assert.Equal(t, 15, l.AccruePassiveIncome())
	assert.Equal(t, 115, l.Balance)
}

func TestConsumeWildcardsFloorsAtZero(t *testing.T) {
	l := NewLedger()
	l.Powerups.WildcardsInDeck = 2
	l.ConsumeWildcards(3)
	assert.Zero(t, l.Powerups.WildcardsInDeck)
}

func TestConsumeCharges(t *testing.T) {
	l := NewLedger()
	l.Powerups.Lucky = 1
	l.Powerups.JokersWild = 1
	l.Powerups.Insurance = 1
	l.Powerups.Mulligan = 1

	l.ConsumeLucky()
	l.ConsumeLucky() // no-op at zero
	assert.Zero(t, l.Powerups.Lucky)

	l.ConsumeJokersWild()
	assert.Zero(t, l.Powerups.JokersWild)

	assert.True(t, l.ConsumeInsurance())
	assert.False(t, l.ConsumeInsurance())

	assert.True(t, l.ConsumeMulligan())
	assert.False(t, l.ConsumeMulligan())
}
