package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	playerID    string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	gameService *GameService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, gameService *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	if msg.Type == MessageTypeAuth {
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)
		return
	}

	session, ok := c.session()
	if !ok {
		return
	}

	switch msg.Type {
	case MessageTypeDeal:
		var data DealData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse deal data")
			return
		}
		c.respond(session, session.Deal(data.Bet))

	case MessageTypeToggle:
		var data ToggleData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse toggle data")
			return
		}
		c.respond(session, session.ToggleSelect(data.Index))

	case MessageTypeDiscard:
		settlement, err := session.Discard()
		c.respondSettled(session, settlement, err)

	case MessageTypeStand:
		settlement, err := session.Stand()
		c.respondSettled(session, settlement, err)

	case MessageTypeMulligan:
		c.respond(session, session.Mulligan())

	case MessageTypeCollect:
		c.respond(session, session.Collect())

	case MessageTypeDouble:
		c.respond(session, session.EnterDouble())

	case MessageTypeGuess:
		var data GuessData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse guess data")
			return
		}
		c.handleGuess(session, data)

	case MessageTypeCashOut:
		c.respond(session, session.CashOut())

	case MessageTypeDoubleOdds:
		odds, ok := session.DoubleOdds()
		if !ok {
			c.sendError("odds_unavailable", "Odds require an active escalation and the double-or-nothing master powerup")
			return
		}
		response, _ := NewMessage(MessageTypeOdds, OddsData{Odds: odds})
		_ = c.SendMessage(response)

	case MessageTypeBuy:
		var data BuyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse buy data")
			return
		}
		c.handleBuy(session, data)

	case MessageTypeShop:
		c.handleShop(session)

	case MessageTypeState:
		c.sendState(session)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// session returns the authenticated player's session, reporting the error
// to the client when unavailable.
func (c *Connection) session() (*game.Session, bool) {
	playerName := c.GetPlayer()
	if playerName == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return nil, false
	}
	session, err := c.gameService.SessionFor(playerName)
	if err != nil {
		c.sendError("session_failed", err.Error())
		return nil, false
	}
	return session, true
}

// respond maps a session error to the wire or, on success, sends the fresh
// round state.
func (c *Connection) respond(session *game.Session, err error) {
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	c.sendState(session)
}

func (c *Connection) respondSettled(session *game.Session, settlement game.Settlement, err error) {
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	response, _ := NewMessage(MessageTypeSettled, SettledData{
		Settlement: settlement,
		State:      session.Snapshot(),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) sendState(session *game.Session) {
	response, _ := NewMessage(MessageTypeRoundState, RoundStateData{Snapshot: session.Snapshot()})
	_ = c.SendMessage(response)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("Auth request", "playerName", data.PlayerName)

	if !ValidPlayerName(data.PlayerName) {
		c.sendError("invalid_auth", "Player name must be 1-32 letters, digits, hyphens or underscores")
		return
	}

	session, err := c.gameService.SessionFor(data.PlayerName)
	if err != nil {
		c.sendError("auth_failed", err.Error())
		return
	}
	c.SetPlayer(data.PlayerName)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		PlayerID: data.PlayerName,
		Balance:  session.Balance(),
	})
	_ = c.SendMessage(response)
	c.sendState(session)
}

func (c *Connection) handleGuess(session *game.Session, data GuessData) {
	var dir game.Direction
	switch data.Direction {
	case "high", "higher":
		dir = game.High
	case "low", "lower":
		dir = game.Low
	default:
		c.sendError("invalid_message", "Direction must be high or low")
		return
	}

	result, err := session.Guess(dir)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	response, _ := NewMessage(MessageTypeGuessResult, GuessResultData{
		Won:        result.Won,
		Mystery:    result.Mystery.String(),
		Stake:      result.Stake,
		Round:      result.Round,
		JackpotWon: result.JackpotWon,
		Finished:   result.Finished,
		State:      session.Snapshot(),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleBuy(session *game.Session, data BuyData) {
	item := economy.Item(data.Item)

	// Quote before buying; compound interest escalates its own price with
	// every purchase.
	ledger, err := c.gameService.LedgerFor(c.GetPlayer())
	if err != nil {
		c.sendError("session_failed", err.Error())
		return
	}
	price, err := session.Catalog().Price(ledger, item)
	if err != nil {
		c.sendError("unknown_item", err.Error())
		return
	}

	balance, err := session.Purchase(item)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	response, _ := NewMessage(MessageTypePurchased, PurchasedData{
		Item:    data.Item,
		Price:   price,
		Balance: balance,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleShop(session *game.Session) {
	ledger, err := c.gameService.LedgerFor(c.GetPlayer())
	if err != nil {
		c.sendError("session_failed", err.Error())
		return
	}
	response, _ := NewMessage(MessageTypeShopList, ShopListFromCatalog(session.Catalog(), ledger))
	_ = c.SendMessage(response)
}

// errorCode maps domain errors to stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidBet):
		return "invalid_bet"
	case errors.Is(err, game.ErrBusy):
		return "busy"
	case errors.Is(err, game.ErrRoundInProgress):
		return "round_in_progress"
	case errors.Is(err, game.ErrNoRound):
		return "no_round"
	case errors.Is(err, game.ErrNothingSelected):
		return "nothing_selected"
	case errors.Is(err, game.ErrAlreadyDiscarded):
		return "already_discarded"
	case errors.Is(err, game.ErrNoMulligans):
		return "no_mulligans"
	case errors.Is(err, game.ErrNoWinnings):
		return "no_winnings"
	case errors.Is(err, game.ErrNotDoubling):
		return "not_doubling"
	case errors.Is(err, economy.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, economy.ErrAlreadyOwned):
		return "already_owned"
	default:
		return "command_failed"
	}
}
