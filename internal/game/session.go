// Package game implements the round state machine and the double-or-nothing
// escalation for one player session. The session owns the economy ledger for
// the duration of play; every operation that touches balance, jackpot or
// powerups persists the ledger before returning.
package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/scrapyard/trashpoker/internal/deck"
	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/poker"
)

// State is the round lifecycle position.
type State string

const (
	// StateIdle means no cards are on the table; Deal is the only move.
	StateIdle State = "idle"
	// StateDealt means a hand is showing and awaiting discard or stand.
	StateDealt State = "dealt"
	// StateEvaluated means the hand is scored; a win awaits Collect or a
	// double-or-nothing entry, a loss settles itself after a short pause.
	StateEvaluated State = "evaluated"
	// StateDoubling means a double-or-nothing escalation is running.
	StateDoubling State = "doubling"
)

// HandSize is the number of cards in a dealt hand.
const HandSize = 5

// Saver persists the ledger. Saves are best-effort: failures are logged and
// play continues.
type Saver interface {
	Save(*economy.Ledger) error
}

// Config holds the session pacing knobs. The delays are cosmetic; game
// semantics never depend on their durations.
type Config struct {
	// SettleDelay is the pause before a losing hand settles itself.
	SettleDelay time.Duration
}

// DefaultConfig returns the pacing used by the real game.
func DefaultConfig() Config {
	return Config{SettleDelay: 3 * time.Second}
}

// Session is the single-player round state machine. One user-initiated
// operation is in flight at a time; overlapping commands are rejected with
// ErrBusy rather than queued. The mutex exists because the auto-settle timer
// and a network transport may touch the session from other goroutines, not
// because the game is concurrent.
type Session struct {
	mu      sync.Mutex
	rng     *rand.Rand
	clock   quartz.Clock
	logger  *log.Logger
	ledger  *economy.Ledger
	catalog *economy.Catalog
	saver   Saver
	onBroke func()
	cfg     Config
	dealer  func(wildcards int) *deck.Deck

	state        State
	busy         bool
	bet          int
	hand         []deck.Card
	selected     []int // discard marks, in toggle order
	hasDiscarded bool
	winnings     int
	settlement   *Settlement
	double       *DoubleRound
	settleTimer  *quartz.Timer
}

// Settlement is the finalized outcome of one dealt-and-evaluated hand.
type Settlement struct {
	Category        poker.Category `json:"category"`
	Multiplier      float64        `json:"multiplier"`
	Payout          int            `json:"payout"`
	WildcardsUsed   int            `json:"wildcardsUsed,omitempty"`
	InsuranceRefund int            `json:"insuranceRefund,omitempty"`
}

// SessionOption customises a session.
type SessionOption func(*Session)

// WithSessionClock substitutes the pacing clock (tests use a mock).
func WithSessionClock(clock quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithConfig overrides the pacing configuration.
func WithConfig(cfg Config) SessionOption {
	return func(s *Session) { s.cfg = cfg }
}

// WithSaver persists the ledger through saver after every mutation.
func WithSaver(saver Saver) SessionOption {
	return func(s *Session) { s.saver = saver }
}

// WithCatalog substitutes the shop catalog (e.g. with configured prices).
func WithCatalog(catalog *economy.Catalog) SessionOption {
	return func(s *Session) { s.catalog = catalog }
}

// WithBrokeHandler registers the external handler invoked when a settlement
// leaves the balance at or below zero. The handler is expected to eventually
// restore the player to solvency; the session itself stays in Idle.
func WithBrokeHandler(handler func()) SessionOption {
	return func(s *Session) { s.onBroke = handler }
}

// WithDealer substitutes how fresh decks are built. Tests rig draws with
// deck.NewStacked.
func WithDealer(dealer func(wildcards int) *deck.Deck) SessionOption {
	return func(s *Session) { s.dealer = dealer }
}

// NewSession creates a session over the given ledger.
func NewSession(rng *rand.Rand, ledger *economy.Ledger, logger *log.Logger, opts ...SessionOption) *Session {
	s := &Session{
		rng:     rng,
		clock:   quartz.NewReal(),
		logger:  logger.WithPrefix("session"),
		ledger:  ledger,
		catalog: economy.NewCatalog(),
		cfg:     DefaultConfig(),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dealer == nil {
		s.dealer = func(wildcards int) *deck.Deck {
			return deck.New(s.rng, wildcards)
		}
	}
	return s
}

// Deal starts a round: accrues compound interest and passive income,
// deducts the bet and deals five cards from a freshly built deck.
func (s *Session) Deal(bet int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.state != StateIdle {
		return ErrRoundInProgress
	}
	if bet <= 0 || bet > s.ledger.Balance {
		return ErrInvalidBet
	}

	if interest := s.ledger.AccrueInterest(); interest > 0 {
		s.logger.Info("Compound interest accrued", "amount", interest)
	}
	if income := s.ledger.AccruePassiveIncome(); income > 0 {
		s.logger.Info("Passive income collected", "amount", income)
	}

	s.bet = bet
	s.ledger.Debit(bet)
	s.hand = s.dealer(s.ledger.Powerups.WildcardsInDeck).DealN(HandSize)
	s.selected = nil
	s.hasDiscarded = false
	s.settlement = nil
	s.state = StateDealt
	s.save()

	s.logger.Info("Dealt", "bet", bet, "hand", handString(s.hand), "balance", s.ledger.Balance)
	return nil
}

// ToggleSelect marks or unmarks a card for discard. Only legal while the
// hand is showing and the one-time discard has not happened.
func (s *Session) ToggleSelect(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.state != StateDealt {
		return ErrNoRound
	}
	if s.hasDiscarded {
		return ErrAlreadyDiscarded
	}
	if index < 0 || index >= HandSize {
		return fmt.Errorf("card index %d out of range", index)
	}

	for i, sel := range s.selected {
		if sel == index {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return nil
		}
	}
	s.selected = append(s.selected, index)
	return nil
}

// Discard replaces every selected card with fresh cards drawn in selection
// order from a newly built deck, then evaluates the hand.
func (s *Session) Discard() (Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return Settlement{}, ErrBusy
	}
	if s.state != StateDealt {
		return Settlement{}, ErrNoRound
	}
	if s.hasDiscarded {
		return Settlement{}, ErrAlreadyDiscarded
	}
	if len(s.selected) == 0 {
		return Settlement{}, ErrNothingSelected
	}

	fresh := s.dealer(s.ledger.Powerups.WildcardsInDeck)
	for _, index := range s.selected {
		s.hand[index] = fresh.Deal()
	}
	s.hasDiscarded = true
	s.selected = nil
	s.logger.Info("Discarded", "hand", handString(s.hand))

	return s.evaluateLocked(), nil
}

// Stand evaluates the hand as dealt, skipping the discard.
func (s *Session) Stand() (Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return Settlement{}, ErrBusy
	}
	if s.state != StateDealt {
		return Settlement{}, ErrNoRound
	}
	return s.evaluateLocked(), nil
}

// Mulligan throws the whole hand away and redeals five fresh cards. It
// consumes one mulligan use, leaves the bet alone and does not count as the
// one-time discard.
func (s *Session) Mulligan() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.state != StateDealt {
		return ErrNoRound
	}
	if s.hasDiscarded {
		return ErrAlreadyDiscarded
	}
	if !s.ledger.ConsumeMulligan() {
		return ErrNoMulligans
	}

	s.hand = s.dealer(s.ledger.Powerups.WildcardsInDeck).DealN(HandSize)
	s.selected = nil
	s.save()
	s.logger.Info("Mulligan", "hand", handString(s.hand), "remaining", s.ledger.Powerups.Mulligan)
	return nil
}

// evaluateLocked scores the hand, applies wildcard consumption, insurance
// and charge decay, and moves to Evaluated. A losing hand schedules its own
// settlement after the configured pause so the presentation layer can show
// the result first.
func (s *Session) evaluateLocked() Settlement {
	mods := poker.Modifiers{
		Lucky:      s.ledger.Powerups.Lucky > 0,
		JokersWild: s.ledger.Powerups.JokersWild > 0,
	}
	result := poker.Evaluate(s.rng, s.hand, mods)

	// Only dedicated wild cards drawn into the hand are consumed; Jacks
	// forced wild by the modifier are not.
	wildsDrawn := 0
	for _, c := range s.hand {
		if c.Rank == deck.WildRank {
			wildsDrawn++
		}
	}
	if wildsDrawn > 0 {
		s.ledger.ConsumeWildcards(wildsDrawn)
		s.logger.Info("Wildcards consumed", "used", wildsDrawn,
			"remaining", s.ledger.Powerups.WildcardsInDeck)
	}

	settlement := Settlement{
		Category:      result.Category,
		Multiplier:    result.Multiplier,
		Payout:        result.Payout(s.bet),
		WildcardsUsed: wildsDrawn,
	}

	if settlement.Payout == 0 && s.ledger.ConsumeInsurance() {
		settlement.InsuranceRefund = s.bet / 2
		s.ledger.Credit(settlement.InsuranceRefund)
	}

	// A charge is consumed whether or not its effect actually fired.
	if mods.Lucky {
		s.ledger.ConsumeLucky()
	}
	if mods.JokersWild {
		s.ledger.ConsumeJokersWild()
	}

	s.winnings = settlement.Payout
	s.settlement = &settlement
	s.state = StateEvaluated
	s.save()

	s.logger.Info("Evaluated", "category", settlement.Category,
		"payout", settlement.Payout, "insurance", settlement.InsuranceRefund)

	if settlement.Payout == 0 {
		// No player action remains; the round settles itself. The busy
		// flag swallows input until the timer fires.
		s.busy = true
		s.settleTimer = s.clock.AfterFunc(s.cfg.SettleDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.busy = false
			s.settleLocked()
		})
	}
	return settlement
}

// Collect banks the held winnings and returns to Idle.
func (s *Session) Collect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.state != StateEvaluated {
		return ErrNoRound
	}
	s.settleLocked()
	return nil
}

// settleLocked finishes the round: credits any held winnings, clears the
// table and notifies the broke handler if the player is out of cash.
func (s *Session) settleLocked() {
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
	if s.winnings > 0 {
		s.ledger.Credit(s.winnings)
		s.logger.Info("Collected", "amount", s.winnings, "balance", s.ledger.Balance)
	}
	s.winnings = 0
	s.bet = 0
	s.hand = nil
	s.selected = nil
	s.hasDiscarded = false
	s.state = StateIdle
	s.save()

	if s.ledger.Balance <= 0 && s.onBroke != nil {
		s.logger.Info("Player is broke, handing over to scavenging")
		s.onBroke()
	}
}

// EnterDouble moves the round's winnings onto the double-or-nothing table.
func (s *Session) EnterDouble() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.state != StateEvaluated {
		return ErrNoRound
	}
	if s.winnings <= 0 {
		return ErrNoWinnings
	}

	s.double = &DoubleRound{
		Round: 1,
		Stake: s.winnings,
		Shown: s.dealer(0).Deal(),
	}
	s.winnings = 0
	s.state = StateDoubling
	s.logger.Info("Double or nothing", "stake", s.double.Stake, "shown", s.double.Shown)
	return nil
}

// GuessResult reports the outcome of one high-low round.
type GuessResult struct {
	Mystery    deck.Card
	Won        bool
	Stake      int
	Round      int
	JackpotWon int // jackpot absorbed on surviving the final round
	Finished   bool
}

// Guess resolves one high-low round. Ties favor the player. Surviving the
// cap pays out the stake plus the whole jackpot pool; a loss feeds the stake
// to the jackpot and settles the round with nothing.
func (s *Session) Guess(dir Direction) (GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return GuessResult{}, ErrBusy
	}
	if s.state != StateDoubling {
		return GuessResult{}, ErrNotDoubling
	}
	if dir != High && dir != Low {
		return GuessResult{}, fmt.Errorf("unknown direction %q", dir)
	}

	d := s.double
	mystery := s.dealer(0).Deal()

	if !d.resolve(dir, mystery) {
		s.logger.Info("Double lost", "mystery", mystery, "to_jackpot", d.Stake)
		s.ledger.Jackpot += d.Stake
		s.double = nil
		s.settleLocked()
		return GuessResult{Mystery: mystery, Finished: true}, nil
	}

	d.Stake *= 2
	d.Round++
	if d.Round > doubleCap {
		// Survived the final round: the stake absorbs the whole jackpot
		// pool and cash-out is forced.
		jackpot := s.ledger.Jackpot
		d.Stake += jackpot
		s.ledger.Jackpot = 0
		s.logger.Info("Jackpot won", "stake", d.Stake, "jackpot", jackpot)
		stake := d.Stake
		s.winnings = stake
		s.double = nil
		s.settleLocked()
		return GuessResult{Mystery: mystery, Won: true, Stake: stake,
			Round: d.Round, JackpotWon: jackpot, Finished: true}, nil
	}

	d.Shown = s.dealer(0).Deal()
	s.save()
	s.logger.Info("Double won", "mystery", mystery, "stake", d.Stake, "round", d.Round)
	return GuessResult{Mystery: mystery, Won: true, Stake: d.Stake, Round: d.Round}, nil
}

// CashOut banks the current stake and leaves the escalation.
func (s *Session) CashOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.state != StateDoubling {
		return ErrNotDoubling
	}

	s.winnings = s.double.Stake
	s.double = nil
	s.settleLocked()
	return nil
}

// DoubleOdds returns the high/low/tie percentages for the current shown
// card. Only available mid-escalation with the master powerup; informational
// only, never affects outcomes.
func (s *Session) DoubleOdds() (Odds, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDoubling || !s.ledger.Powerups.DoubleOrNothingMaster {
		return Odds{}, false
	}
	return s.double.odds(), true
}

// Purchase buys a shop item and persists the result.
func (s *Session) Purchase(item economy.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return s.ledger.Balance, ErrBusy
	}
	balance, err := s.catalog.Purchase(s.ledger, item)
	if err != nil {
		return balance, err
	}
	s.save()
	s.logger.Info("Purchased", "item", item, "balance", balance)
	return balance, nil
}

// Catalog exposes the shop for price display.
func (s *Session) Catalog() *economy.Catalog {
	return s.catalog
}

// CreditExternal banks cash earned outside the tables (the trash
// scavenger) and persists. The amount must be non-negative.
func (s *Session) CreditExternal(amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return
	}
	s.ledger.Credit(amount)
	s.save()
}

// save persists the ledger, best-effort.
func (s *Session) save() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(s.ledger); err != nil {
		s.logger.Warn("Failed to save state", "error", err)
	}
}

func handString(hand []deck.Card) string {
	out := ""
	for i, c := range hand {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
