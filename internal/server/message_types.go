package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants used by the session protocol.
const (
	// Client to server messages
	MessageTypeAuth       MessageType = "auth"
	MessageTypeDeal       MessageType = "deal"
	MessageTypeToggle     MessageType = "toggle_select"
	MessageTypeDiscard    MessageType = "discard"
	MessageTypeStand      MessageType = "stand"
	MessageTypeMulligan   MessageType = "mulligan"
	MessageTypeCollect    MessageType = "collect"
	MessageTypeDouble     MessageType = "enter_double"
	MessageTypeGuess      MessageType = "guess"
	MessageTypeCashOut    MessageType = "cash_out"
	MessageTypeDoubleOdds MessageType = "double_odds"
	MessageTypeBuy        MessageType = "buy"
	MessageTypeShop       MessageType = "shop"
	MessageTypeState      MessageType = "state"

	// Server to client messages
	MessageTypeError        MessageType = "error"
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeRoundState   MessageType = "round_state"
	MessageTypeSettled      MessageType = "settled"
	MessageTypeGuessResult  MessageType = "guess_result"
	MessageTypeOdds         MessageType = "odds"
	MessageTypeShopList     MessageType = "shop_list"
	MessageTypePurchased    MessageType = "purchased"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
