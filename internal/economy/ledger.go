// Package economy tracks the player's balance, the jackpot pool and every
// purchasable powerup. It is the single persisted root of the game: all
// mutation flows through Ledger methods and the owning session saves after
// every state-affecting operation.
package economy

import "math"

// DefaultBalance is the bankroll a brand new (or reset) player starts with.
const DefaultBalance = 500

// Powerups holds the stacking modifier counters and levels.
type Powerups struct {
	// WildcardsInDeck is the number of explicit wild cards mixed into every
	// freshly built deck. Wild cards drawn into a hand are consumed.
	WildcardsInDeck int `json:"wildcardsInDeck"`
	// PassiveIncome is a flat amount credited at the start of every deal.
	PassiveIncome int `json:"passiveIncome"`
	// Lucky is the number of rounds the lucky charm remains active.
	Lucky int `json:"lucky"`
	// Insurance is the number of rounds with a half-bet refund on a loss.
	Insurance int `json:"insurance"`
	// DoubleOrNothingMaster reveals high/low odds. One-time purchase.
	DoubleOrNothingMaster bool `json:"doubleOrNothingMaster"`
	// Mulligan is the number of full-hand redeals remaining.
	Mulligan int `json:"mulligan"`
	// JokersWild is the number of rounds all Jacks count as wild.
	JokersWild int `json:"jokersWild"`
	// CompoundInterest is the percentage of the balance accrued per deal.
	CompoundInterest int `json:"compoundInterest"`
	// CompoundInterestPurchases drives the escalating price of the next
	// compound interest purchase.
	CompoundInterestPurchases int `json:"compoundInterestPurchases"`
}

// Ledger is the persistent economy state.
type Ledger struct {
	Balance  int      `json:"balance"`
	Jackpot  int      `json:"jackpot"`
	Powerups Powerups `json:"powerups"`
}

// NewLedger returns a ledger with first-run defaults.
func NewLedger() *Ledger {
	return &Ledger{Balance: DefaultBalance}
}

// Credit adds amount to the balance.
func (l *Ledger) Credit(amount int) {
	l.Balance += amount
}

// Debit removes amount from the balance.
func (l *Ledger) Debit(amount int) {
	l.Balance -= amount
}

// AccrueInterest applies compound interest and returns the amount credited:
// floor(balance × pct / 100).
func (l *Ledger) AccrueInterest() int {
	if l.Powerups.CompoundInterest <= 0 || l.Balance <= 0 {
		return 0
	}
	interest := int(math.Floor(float64(l.Balance) * float64(l.Powerups.CompoundInterest) / 100))
	l.Balance += interest
	return interest
}

// AccruePassiveIncome credits the flat passive income and returns the amount.
func (l *Ledger) AccruePassiveIncome() int {
	if l.Powerups.PassiveIncome <= 0 {
		return 0
	}
	l.Balance += l.Powerups.PassiveIncome
	return l.Powerups.PassiveIncome
}

// ConsumeWildcards removes n drawn wild cards from the deck pool, flooring
// at zero.
func (l *Ledger) ConsumeWildcards(n int) {
	l.Powerups.WildcardsInDeck -= n
	if l.Powerups.WildcardsInDeck < 0 {
		l.Powerups.WildcardsInDeck = 0
	}
}

// ConsumeLucky burns one lucky round if any remain.
func (l *Ledger) ConsumeLucky() {
	if l.Powerups.Lucky > 0 {
		l.Powerups.Lucky--
	}
}

// ConsumeJokersWild burns one jokers-wild round if any remain.
func (l *Ledger) ConsumeJokersWild() {
	if l.Powerups.JokersWild > 0 {
		l.Powerups.JokersWild--
	}
}

// ConsumeInsurance burns one insurance round if any remain, reporting
// whether a charge was available.
func (l *Ledger) ConsumeInsurance() bool {
	if l.Powerups.Insurance <= 0 {
		return false
	}
	l.Powerups.Insurance--
	return true
}

// ConsumeMulligan burns one mulligan use, reporting whether one was
// available.
func (l *Ledger) ConsumeMulligan() bool {
	if l.Powerups.Mulligan <= 0 {
		return false
	}
	l.Powerups.Mulligan--
	return true
}
