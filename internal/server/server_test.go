package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
)

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()

	logger := log.New(io.Discard)
	gs, err := NewGameService(t.TempDir(), economy.NewCatalog(),
		game.Config{SettleDelay: time.Millisecond}, 1, logger)
	require.NoError(t, err)

	s := NewServer("127.0.0.1:0", gs, logger)
	go s.run()
	t.Cleanup(func() { _ = s.Stop() })

	ts := httptest.NewServer(s.mux())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendCommand(t *testing.T, conn *websocket.Conn, msgType MessageType, data interface{}) {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func readType(t *testing.T, conn *websocket.Conn, want MessageType) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, want, msg.Type, "unexpected message: %s", msg.Data)
	return msg.Data
}

func TestCommandsRequireAuth(t *testing.T) {
	conn := dialTestServer(t)

	sendCommand(t, conn, MessageTypeDeal, DealData{Bet: 100})

	var errData ErrorData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeError), &errData))
	assert.Equal(t, "not_authenticated", errData.Code)
}

func TestAuthRejectsBadName(t *testing.T) {
	conn := dialTestServer(t)

	sendCommand(t, conn, MessageTypeAuth, AuthData{PlayerName: "../sneaky"})

	var errData ErrorData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeError), &errData))
	assert.Equal(t, "invalid_auth", errData.Code)
}

func TestFullRoundOverWebSocket(t *testing.T) {
	conn := dialTestServer(t)

	sendCommand(t, conn, MessageTypeAuth, AuthData{PlayerName: "tester"})

	var auth AuthResponseData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeAuthResponse), &auth))
	assert.True(t, auth.Success)
	assert.Equal(t, "tester", auth.PlayerID)
	assert.Equal(t, economy.DefaultBalance, auth.Balance)

	var state RoundStateData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeRoundState), &state))
	assert.Equal(t, game.StateIdle, state.State)

	// Deal a hand.
	sendCommand(t, conn, MessageTypeDeal, DealData{Bet: 100})
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeRoundState), &state))
	assert.Equal(t, game.StateDealt, state.State)
	assert.Len(t, state.Hand, game.HandSize)
	assert.Equal(t, economy.DefaultBalance-100, state.Balance)

	// Mark and unmark a card.
	sendCommand(t, conn, MessageTypeToggle, ToggleData{Index: 0})
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeRoundState), &state))
	assert.Equal(t, []int{0}, state.Selected)

	sendCommand(t, conn, MessageTypeToggle, ToggleData{Index: 0})
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeRoundState), &state))
	assert.Empty(t, state.Selected)

	// Stand pat and settle.
	sendCommand(t, conn, MessageTypeStand, nil)
	var settled SettledData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeSettled), &settled))

	if settled.Settlement.Payout > 0 {
		sendCommand(t, conn, MessageTypeCollect, nil)
		require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeRoundState), &state))
		assert.Equal(t, game.StateIdle, state.State)
	} else {
		// A losing hand settles itself after the (tiny) delay.
		require.Eventually(t, func() bool {
			sendCommand(t, conn, MessageTypeState, nil)
			require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeRoundState), &state))
			return state.State == game.StateIdle
		}, 5*time.Second, 10*time.Millisecond)
	}

	// Browse and buy from the shop.
	sendCommand(t, conn, MessageTypeShop, nil)
	var shop ShopListData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeShopList), &shop))
	assert.Len(t, shop.Items, 8)

	sendCommand(t, conn, MessageTypeBuy, BuyData{Item: "insurance"})
	var purchased PurchasedData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypePurchased), &purchased))
	assert.Equal(t, "insurance", purchased.Item)
	assert.Equal(t, 75, purchased.Price)
}

func TestGuessOutsideDoublingFails(t *testing.T) {
	conn := dialTestServer(t)

	sendCommand(t, conn, MessageTypeAuth, AuthData{PlayerName: "tester"})
	readType(t, conn, MessageTypeAuthResponse)
	readType(t, conn, MessageTypeRoundState)

	sendCommand(t, conn, MessageTypeGuess, GuessData{Direction: "high"})

	var errData ErrorData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeError), &errData))
	assert.Equal(t, "not_doubling", errData.Code)
}

func TestUnknownMessageType(t *testing.T) {
	conn := dialTestServer(t)

	sendCommand(t, conn, MessageTypeAuth, AuthData{PlayerName: "tester"})
	readType(t, conn, MessageTypeAuthResponse)
	readType(t, conn, MessageTypeRoundState)

	sendCommand(t, conn, MessageType("jackpot_please"), nil)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(readType(t, conn, MessageTypeError), &errData))
	assert.Equal(t, "unknown_message_type", errData.Code)
}
