package economy

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return NewStore(path, log.New(io.Discard))
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	ledger := NewLedger()
	ledger.Balance = 1234
	ledger.Jackpot = 90
	ledger.Powerups = Powerups{
		WildcardsInDeck:           2,
		PassiveIncome:             10,
		Lucky:                     3,
		Insurance:                 1,
		DoubleOrNothingMaster:     true,
		Mulligan:                  2,
		JokersWild:                4,
		CompoundInterest:          2,
		CompoundInterestPurchases: 2,
	}
	require.NoError(t, store.Save(ledger))

	loaded := store.Load()
	assert.Equal(t, ledger.Balance, loaded.Balance)
	assert.Equal(t, ledger.Jackpot, loaded.Jackpot)
	assert.Equal(t, ledger.Powerups, loaded.Powerups)
}

func TestLoadMissingFileDefaults(t *testing.T) {
	store := newTestStore(t)
	ledger := store.Load()
	assert.Equal(t, DefaultBalance, ledger.Balance)
	assert.Zero(t, ledger.Jackpot)
	assert.Equal(t, Powerups{}, ledger.Powerups)
}

func TestLoadCorruptFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path, log.New(io.Discard))
	ledger := store.Load()
	assert.Equal(t, DefaultBalance, ledger.Balance)
}

func TestLoadPartialDocumentDefaultsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"balance": 42}`), 0o644))

	store := NewStore(path, log.New(io.Discard))
	ledger := store.Load()
	assert.Equal(t, 42, ledger.Balance)
	assert.Zero(t, ledger.Jackpot)
	assert.Equal(t, Powerups{}, ledger.Powerups)
}

func TestLoadMigratesLegacyFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Powerups
	}{
		{
			"numeric wildcard charges collapse to deck wilds",
			`{"balance": 100, "powerups": {"wildcard": 12}}`,
			Powerups{WildcardsInDeck: 3}, // ceil(12/5)
		},
		{
			"passive boolean becomes flat income",
			`{"balance": 100, "powerups": {"passive": true}}`,
			Powerups{PassiveIncome: 5},
		},
		{
			"passive boolean false stays zero",
			`{"balance": 100, "powerups": {"passive": false}}`,
			Powerups{},
		},
		{
			"new-format passiveIncome wins over legacy flag",
			`{"balance": 100, "powerups": {"passive": true, "passiveIncome": 20}}`,
			Powerups{PassiveIncome: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))

			ledger := NewStore(path, log.New(io.Discard)).Load()
			assert.Equal(t, tt.want, ledger.Powerups)
		})
	}
}
