package game

import (
	"github.com/scrapyard/trashpoker/internal/deck"
	"github.com/scrapyard/trashpoker/internal/economy"
)

// DoubleSnapshot is the visible state of an active escalation.
type DoubleSnapshot struct {
	Round int       `json:"round"`
	Stake int       `json:"stake"`
	Shown deck.Card `json:"shown"`
}

// Snapshot is a point-in-time view of everything a presentation layer
// renders. It is a copy; mutating it does not touch the session.
type Snapshot struct {
	State        State            `json:"state"`
	Balance      int              `json:"balance"`
	Jackpot      int              `json:"jackpot"`
	Bet          int              `json:"bet,omitempty"`
	Hand         []deck.Card      `json:"hand,omitempty"`
	Selected     []int            `json:"selected,omitempty"`
	HasDiscarded bool             `json:"hasDiscarded,omitempty"`
	Winnings     int              `json:"winnings,omitempty"`
	Settlement   *Settlement      `json:"settlement,omitempty"`
	Double       *DoubleSnapshot  `json:"double,omitempty"`
	Powerups     economy.Powerups `json:"powerups"`
}

// Snapshot returns the current visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:        s.state,
		Balance:      s.ledger.Balance,
		Jackpot:      s.ledger.Jackpot,
		Bet:          s.bet,
		Hand:         append([]deck.Card(nil), s.hand...),
		Selected:     append([]int(nil), s.selected...),
		HasDiscarded: s.hasDiscarded,
		Winnings:     s.winnings,
		Powerups:     s.ledger.Powerups,
	}
	if s.settlement != nil {
		settlement := *s.settlement
		snap.Settlement = &settlement
	}
	if s.double != nil {
		snap.Double = &DoubleSnapshot{
			Round: s.double.Round,
			Stake: s.double.Stake,
			Shown: s.double.Shown,
		}
	}
	return snap
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Balance returns the current bankroll.
func (s *Session) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Balance
}

// Hand returns a copy of the cards currently showing.
func (s *Session) Hand() []deck.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]deck.Card(nil), s.hand...)
}

// Selected returns the indices currently marked for discard, in toggle
// order.
func (s *Session) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.selected...)
}

// Winnings returns the payout held for collection or doubling.
func (s *Session) Winnings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winnings
}
