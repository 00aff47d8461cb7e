package server

import (
	"encoding/json"
	"time"

	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

type DealData struct {
	Bet int `json:"bet"`
}

type ToggleData struct {
	Index int `json:"index"`
}

type GuessData struct {
	Direction string `json:"direction"` // "high" or "low"
}

type BuyData struct {
	Item string `json:"item"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Balance  int    `json:"balance,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoundStateData carries the full visible session state. It is sent after
// every state-changing command so clients never need to track deltas.
type RoundStateData struct {
	game.Snapshot
}

type SettledData struct {
	Settlement game.Settlement `json:"settlement"`
	State      game.Snapshot   `json:"state"`
}

type GuessResultData struct {
	Won        bool          `json:"won"`
	Mystery    string        `json:"mystery"`
	Stake      int           `json:"stake"`
	Round      int           `json:"round"`
	JackpotWon int           `json:"jackpotWon,omitempty"`
	Finished   bool          `json:"finished"`
	State      game.Snapshot `json:"state"`
}

type OddsData struct {
	Odds game.Odds `json:"odds"`
}

type ShopItemInfo struct {
	Item        string `json:"item"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

type ShopListData struct {
	Items []ShopItemInfo `json:"items"`
}

type PurchasedData struct {
	Item    string `json:"item"`
	Price   int    `json:"price"`
	Balance int    `json:"balance"`
}

// ShopListFromCatalog builds the shop listing for one player's ledger.
// Prices are per-ledger because compound interest escalates per purchase.
func ShopListFromCatalog(catalog *economy.Catalog, ledger *economy.Ledger) ShopListData {
	items := catalog.Items()
	out := ShopListData{Items: make([]ShopItemInfo, 0, len(items))}
	for _, item := range items {
		price, err := catalog.Price(ledger, item)
		if err != nil {
			continue
		}
		out.Items = append(out.Items, ShopItemInfo{
			Item:        string(item),
			Price:       price,
			Description: catalog.Describe(item),
		})
	}
	return out
}
