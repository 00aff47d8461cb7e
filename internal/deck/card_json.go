package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON encodes a Card as a compact literal like "As", "Th", "2c".
// Wild cards encode as "Wx".
func (c Card) MarshalJSON() ([]byte, error) {
	r, ok := rankChar(c.Rank)
	if !ok {
		return nil, fmt.Errorf("invalid rank: %d", c.Rank)
	}
	s, ok := suitChar(c.Suit)
	if !ok {
		return nil, fmt.Errorf("invalid suit: %d", c.Suit)
	}
	return json.Marshal(string([]byte{r, s}))
}

// UnmarshalJSON decodes "As", "th", "2C" or "Wx" into a Card, accepting
// either case. Ten is 'T', not "10".
func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return fmt.Errorf("invalid card literal %q (want 2 chars like As, Td, Wx)", s)
	}

	rank, ok := charRank(s[0])
	if !ok {
		return fmt.Errorf("invalid rank char %q", s[0])
	}
	if rank == WildRank {
		*c = NewWildCard()
		return nil
	}

	suit, ok := charSuit(s[1])
	if !ok {
		return fmt.Errorf("invalid suit char %q (use s/h/d/c)", s[1])
	}
	*c = Card{Rank: rank, Suit: suit}
	return nil
}

func rankChar(r Rank) (byte, bool) {
	switch {
	case r == Ten:
		return 'T', true
	case r >= Two && r <= Nine:
		return byte('0' + int(r)), true
	case r == Jack:
		return 'J', true
	case r == Queen:
		return 'Q', true
	case r == King:
		return 'K', true
	case r == Ace:
		return 'A', true
	case r == WildRank:
		return 'W', true
	default:
		return 0, false
	}
}

func charRank(ch byte) (Rank, bool) {
	u := ch
	if u >= 'a' && u <= 'z' {
		u -= 'a' - 'A'
	}
	switch {
	case u >= '2' && u <= '9':
		return Rank(u - '0'), true
	case u == 'T':
		return Ten, true
	case u == 'J':
		return Jack, true
	case u == 'Q':
		return Queen, true
	case u == 'K':
		return King, true
	case u == 'A':
		return Ace, true
	case u == 'W':
		return WildRank, true
	default:
		return 0, false
	}
}

func suitChar(s Suit) (byte, bool) {
	switch s {
	case Spades:
		return 's', true
	case Hearts:
		return 'h', true
	case Diamonds:
		return 'd', true
	case Clubs:
		return 'c', true
	case Star:
		return 'x', true
	default:
		return 0, false
	}
}

func charSuit(ch byte) (Suit, bool) {
	u := ch
	if u >= 'A' && u <= 'Z' {
		u += 'a' - 'A'
	}
	switch u {
	case 's':
		return Spades, true
	case 'h':
		return Hearts, true
	case 'd':
		return Diamonds, true
	case 'c':
		return Clubs, true
	default:
		return 0, false
	}
}
