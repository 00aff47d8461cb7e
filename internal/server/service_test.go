package server

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	gs, err := NewGameService(t.TempDir(), economy.NewCatalog(), game.DefaultConfig(), 1, log.New(io.Discard))
	require.NoError(t, err)
	return gs
}

func TestSessionForCreatesAndReuses(t *testing.T) {
	gs := newTestService(t)

	first, err := gs.SessionFor("alice")
	require.NoError(t, err)
	assert.Equal(t, economy.DefaultBalance, first.Balance())

	second, err := gs.SessionFor("alice")
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Equal(t, []string{"alice"}, gs.ActivePlayers())
}

func TestSessionForRejectsBadNames(t *testing.T) {
	gs := newTestService(t)

	for _, name := range []string{"", "../etc/passwd", "a b", "x/y", "waytoolongplayernamethatkeepsgoingandgoing"} {
		_, err := gs.SessionFor(name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestReleasePersistsAcrossSessions(t *testing.T) {
	gs := newTestService(t)

	session, err := gs.SessionFor("bob")
	require.NoError(t, err)
	session.CreditExternal(250)
	gs.Release("bob")
	assert.Empty(t, gs.ActivePlayers())

	reloaded, err := gs.SessionFor("bob")
	require.NoError(t, err)
	assert.NotSame(t, session, reloaded)
	assert.Equal(t, economy.DefaultBalance+250, reloaded.Balance())
}

func TestPlayersAreIsolated(t *testing.T) {
	gs := newTestService(t)

	alice, err := gs.SessionFor("alice")
	require.NoError(t, err)
	bob, err := gs.SessionFor("bob")
	require.NoError(t, err)

	alice.CreditExternal(1000)
	assert.Equal(t, economy.DefaultBalance, bob.Balance())
}

func TestCloseSavesEverySession(t *testing.T) {
	gs := newTestService(t)

	session, err := gs.SessionFor("carol")
	require.NoError(t, err)
	session.CreditExternal(75)
	gs.Close()

	reloaded, err := gs.SessionFor("carol")
	require.NoError(t, err)
	assert.Equal(t, economy.DefaultBalance+75, reloaded.Balance())
}

func TestLedgerForRequiresSession(t *testing.T) {
	gs := newTestService(t)

	_, err := gs.LedgerFor("nobody")
	assert.Error(t, err)

	_, err = gs.SessionFor("dave")
	require.NoError(t, err)
	ledger, err := gs.LedgerFor("dave")
	require.NoError(t, err)
	assert.Equal(t, economy.DefaultBalance, ledger.Balance)
}
