package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapyard/trashpoker/internal/deck"
	"github.com/scrapyard/trashpoker/internal/economy"
)

// winRound rigs a session into StateEvaluated holding a 100gc win off a
// 100gc bet, with the queue positioned for double-or-nothing draws.
func winRound(t *testing.T, ledger *economy.Ledger, q *deckQueue, opts ...SessionOption) *Session {
	t.Helper()
	q.push(winningPair...)
	opts = append(opts, WithDealer(q.dealer(t)))
	s, _ := newTestSession(t, ledger, opts...)
	require.NoError(t, s.Deal(100))
	_, err := s.Stand()
	require.NoError(t, err)
	return s
}

func TestResolveTieAlwaysWins(t *testing.T) {
	// Property over all equal value pairs: a tie wins in both directions.
	for rank := deck.Two; rank <= deck.Ace; rank++ {
		d := &DoubleRound{Shown: card(rank, deck.Spades)}
		mystery := card(rank, deck.Hearts)
		assert.True(t, d.resolve(High, mystery), "tie on %s high", rank)
		assert.True(t, d.resolve(Low, mystery), "tie on %s low", rank)
	}
}

func TestResolveDirections(t *testing.T) {
	d := &DoubleRound{Shown: card(deck.Eight, deck.Spades)}
	assert.True(t, d.resolve(High, card(deck.Nine, deck.Clubs)))
	assert.False(t, d.resolve(High, card(deck.Seven, deck.Clubs)))
	assert.True(t, d.resolve(Low, card(deck.Seven, deck.Clubs)))
	assert.False(t, d.resolve(Low, card(deck.Nine, deck.Clubs)))
}

func TestEnterDoubleRequiresWin(t *testing.T) {
	s, _ := newTestSession(t, economy.NewLedger())
	assert.ErrorIs(t, s.EnterDouble(), ErrNoRound)
}

func TestGuessWinDoublesStake(t *testing.T) {
	ledger := economy.NewLedger()
	q := &deckQueue{}
	s := winRound(t, ledger, q)

	q.push(card(deck.Five, deck.Spades)) // shown
	require.NoError(t, s.EnterDouble())
	assert.Equal(t, StateDoubling, s.State())
	assert.Zero(t, s.Winnings())

	q.push(card(deck.King, deck.Hearts)) // mystery, higher
	q.push(card(deck.Nine, deck.Clubs))  // next shown
	result, err := s.Guess(High)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, 200, result.Stake)
	assert.Equal(t, 2, result.Round)
	assert.False(t, result.Finished)
}

func TestGuessLossFeedsJackpot(t *testing.T) {
	ledger := economy.NewLedger()
	q := &deckQueue{}
	s := winRound(t, ledger, q)

	q.push(card(deck.Five, deck.Spades)) // shown
	require.NoError(t, s.EnterDouble())

	q.push(card(deck.Two, deck.Hearts)) // mystery, lower than five
	result, err := s.Guess(High)
	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.True(t, result.Finished)

	// Stake moved to the jackpot; round settled with nothing.
	assert.Equal(t, 100, ledger.Jackpot)
	assert.Equal(t, 400, ledger.Balance)
	assert.Equal(t, StateIdle, s.State())
}

func TestCashOutBanksStake(t *testing.T) {
	ledger := economy.NewLedger()
	q := &deckQueue{}
	s := winRound(t, ledger, q)

	q.push(card(deck.Five, deck.Spades))
	require.NoError(t, s.EnterDouble())
	require.NoError(t, s.CashOut())

	assert.Equal(t, 500, ledger.Balance) // 400 + 100 stake
	assert.Equal(t, StateIdle, s.State())
	assert.ErrorIs(t, s.CashOut(), ErrNotDoubling)
}

func TestSurvivingTheCapWinsJackpot(t *testing.T) {
	ledger := economy.NewLedger()
	ledger.Jackpot = 900
	q := &deckQueue{}
	s := winRound(t, ledger, q)

	q.push(card(deck.Two, deck.Spades)) // round 1 shown
	require.NoError(t, s.EnterDouble())

	// Win ten rounds in a row guessing high against a deuce; ties and
	// higher cards both win. Rounds 1-9 need a next shown card.
	for round := 1; round <= 10; round++ {
		q.push(card(deck.Ace, deck.Hearts)) // mystery, always higher
		if round < 10 {
			q.push(card(deck.Two, deck.Spades)) // next shown
		}
		result, err := s.Guess(High)
		require.NoError(t, err)
		require.True(t, result.Won, "round %d", round)

		if round < 10 {
			assert.Equal(t, 100<<round, result.Stake)
			assert.False(t, result.Finished)
		} else {
			// 100 × 2^10 plus the whole jackpot, forced cash-out.
			assert.Equal(t, 100*1024+900, result.Stake)
			assert.Equal(t, 900, result.JackpotWon)
			assert.True(t, result.Finished)
		}
	}

	assert.Zero(t, ledger.Jackpot)
	assert.Equal(t, 400+100*1024+900, ledger.Balance)
	assert.Equal(t, StateIdle, s.State())
}

func TestDoubleLossCanLeavePlayerBroke(t *testing.T) {
	ledger := economy.NewLedger()
	ledger.Balance = 100
	q := &deckQueue{}
	broke := false
	s := winRound(t, ledger, q, WithBrokeHandler(func() { broke = true }))

	q.push(card(deck.Ten, deck.Spades))
	require.NoError(t, s.EnterDouble())

	q.push(card(deck.Two, deck.Hearts)) // lower: high guess loses
	_, err := s.Guess(High)
	require.NoError(t, err)

	assert.Zero(t, ledger.Balance)
	assert.True(t, broke)
}

func TestDoubleOddsRequireMasterPowerup(t *testing.T) {
	ledger := economy.NewLedger()
	q := &deckQueue{}
	s := winRound(t, ledger, q)

	q.push(card(deck.Eight, deck.Spades))
	require.NoError(t, s.EnterDouble())

	_, ok := s.DoubleOdds()
	assert.False(t, ok)
}

func TestDoubleOddsValues(t *testing.T) {
	tests := []struct {
		rank   deck.Rank
		higher int
		lower  int
	}{
		{deck.Two, 92, 0},    // 12/13, 0/13
		{deck.Eight, 46, 46}, // 6/13 both ways
		{deck.Ace, 0, 92},
	}

	for _, tt := range tests {
		d := &DoubleRound{Shown: card(tt.rank, deck.Spades)}
		odds := d.odds()
		assert.Equal(t, tt.higher, odds.Higher, "higher for %s", tt.rank)
		assert.Equal(t, tt.lower, odds.Lower, "lower for %s", tt.rank)
		assert.Equal(t, 8, odds.Tie) // 1/13 rounds to 8%
	}
}

func TestDoubleOddsExposedWithMaster(t *testing.T) {
	ledger := economy.NewLedger()
	ledger.Powerups.DoubleOrNothingMaster = true
	q := &deckQueue{}
	s := winRound(t, ledger, q)

	q.push(card(deck.Eight, deck.Spades))
	require.NoError(t, s.EnterDouble())

	odds, ok := s.DoubleOdds()
	require.True(t, ok)
	assert.Equal(t, Odds{Higher: 46, Lower: 46, Tie: 8}, odds)
}

func TestGuessRejectsUnknownDirection(t *testing.T) {
	ledger := economy.NewLedger()
	q := &deckQueue{}
	s := winRound(t, ledger, q)

	q.push(card(deck.Eight, deck.Spades))
	require.NoError(t, s.EnterDouble())

	_, err := s.Guess(Direction("sideways"))
	assert.Error(t, err)
}

func TestGuessOutsideDoubling(t *testing.T) {
	s, _ := newTestSession(t, economy.NewLedger())
	_, err := s.Guess(High)
	assert.ErrorIs(t, err, ErrNotDoubling)

	err = s.Deal(10)
	require.NoError(t, err)
	_, err = s.Guess(High)
	assert.ErrorIs(t, err, ErrNotDoubling)
}
