package entities

import "errors"

// Sentinel errors for the wagering core. Services wrap these with context via
// fmt.Errorf("...: %w", err) so callers can match with errors.Is.
var (
	// ErrInvalidBet indicates a bet amount outside the table limits or a
	// stake transfer that does not match the declared bet.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrInsufficientFunds indicates the bettor's wallet cannot cover the stake.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientBankroll indicates the house cannot cover the worst-case
	// payout for a bet, or a settlement payout exceeds the unreserved bankroll.
	ErrInsufficientBankroll = errors.New("insufficient bankroll")

	// ErrPayoutCapExceeded indicates a crash payout above the per-bet share of
	// the available bankroll allowed at settlement time.
	ErrPayoutCapExceeded = errors.New("payout exceeds bankroll cap")

	// ErrNothingToClaim indicates the caller has no pending prize.
	ErrNothingToClaim = errors.New("nothing to claim")

	// ErrNotOwner indicates a privileged operation invoked by a non-owner.
	ErrNotOwner = errors.New("not owner")

	// ErrReentrancy indicates a balance-mutating operation re-entered while
	// another one was still in flight.
	ErrReentrancy = errors.New("reentrant call")

	// ErrBettingClosed indicates a crash bet placed after the betting window
	// of the current round elapsed, or before any round was opened.
	ErrBettingClosed = errors.New("betting closed")

	// ErrRoundStillOpen indicates an attempt to open the next crash round
	// while the current one is still accepting bets.
	ErrRoundStillOpen = errors.New("round still open")
)
