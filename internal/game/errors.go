package game

import "errors"

// Failure kinds surfaced to the presentation layer. All are deterministic
// pure-data rejections; none mutates session state.
var (
	// ErrInvalidBet rejects a non-positive bet or one above the balance.
	ErrInvalidBet = errors.New("invalid bet")
	// ErrNothingSelected rejects a discard with no cards marked.
	ErrNothingSelected = errors.New("no cards selected to discard")
	// ErrBusy rejects a command while another operation is mid-flight.
	// Callers typically ignore it silently rather than surfacing it.
	ErrBusy = errors.New("operation in progress")
	// ErrRoundInProgress rejects a deal before the current round settles.
	ErrRoundInProgress = errors.New("round already in progress")
	// ErrNoRound rejects a round command with no cards on the table.
	ErrNoRound = errors.New("no active round")
	// ErrAlreadyDiscarded rejects a second discard or a late mulligan.
	ErrAlreadyDiscarded = errors.New("already discarded this round")
	// ErrNoMulligans rejects a mulligan with no uses remaining.
	ErrNoMulligans = errors.New("no mulligans remaining")
	// ErrNoWinnings rejects entering double or nothing without a win.
	ErrNoWinnings = errors.New("nothing to double")
	// ErrNotDoubling rejects a high-low command outside an escalation.
	ErrNotDoubling = errors.New("no double or nothing in progress")
)
