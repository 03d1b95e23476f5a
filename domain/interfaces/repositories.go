package interfaces

import (
	"context"
	"time"

	"casino/domain/entities"
)

// WalletRepository defines the interface for user wallet access
type WalletRepository interface {
	// Get retrieves a wallet by user ID, nil if the user has none
	Get(ctx context.Context, userID int64) (*entities.Wallet, error)

	// Credit adds amount to a user's wallet, creating it if absent
	Credit(ctx context.Context, userID int64, amount int64) error

	// Debit removes amount from a user's wallet and returns the amount
	// actually debited. Fails with ErrInsufficientFunds when the wallet
	// cannot cover it.
	Debit(ctx context.Context, userID int64, amount int64) (int64, error)
}

// BankrollRepository defines the interface for the house ledger
type BankrollRepository interface {
	// Get returns the current bankroll snapshot
	Get(ctx context.Context) (*entities.Bankroll, error)

	// AddHeld adjusts the held balance by delta (negative on payouts)
	AddHeld(ctx context.Context, delta int64) error

	// PendingPrize returns a user's claimable escrow, zero if none
	PendingPrize(ctx context.Context, userID int64) (int64, error)

	// Reserve moves amount into a user's escrow and grows total pending.
	// Callers must have verified amount against the available bankroll.
	Reserve(ctx context.Context, userID int64, amount int64) error

	// ClearPending zeroes a user's escrow and shrinks total pending,
	// returning the amount that was cleared (zero if nothing was pending)
	ClearPending(ctx context.Context, userID int64) (int64, error)
}

// StatsRepository defines the interface for wagering aggregates
type StatsRepository interface {
	// RecordBet folds one resolved bet into a user's lifetime counters,
	// creating the row on first bet
	RecordBet(ctx context.Context, userID int64, betAmount, wonAmount, lostAmount int64) error

	// AddGlobalBet grows the system-wide total bet counter
	AddGlobalBet(ctx context.Context, amount int64) error

	// GetUser returns a user's aggregates, nil if they never bet
	GetUser(ctx context.Context, userID int64) (*entities.UserStats, error)

	// GetGlobal returns the system-wide aggregates
	GetGlobal(ctx context.Context) (*entities.GlobalStats, error)
}

// OutcomeRepository defines the interface for the wheel's last-spin cache
type OutcomeRepository interface {
	// Record overwrites a user's last outcome and bumps their nonce by 1,
	// returning the new nonce
	Record(ctx context.Context, outcome *entities.WheelOutcome) (int64, error)

	// GetByUser returns a user's last outcome, nil if they never spun
	GetByUser(ctx context.Context, userID int64) (*entities.WheelOutcome, error)
}

// RoundRepository defines the interface for crash round persistence
type RoundRepository interface {
	// Current returns the most recently opened round, nil if none exists
	Current(ctx context.Context) (*entities.Round, error)

	// Insert persists a new round and sets its monotonic ID
	Insert(ctx context.Context, round *entities.Round) error

	// CloseBetting pulls a round's betting deadline forward to endsAt
	CloseBetting(ctx context.Context, roundID int64, endsAt time.Time) error

	// GetByID retrieves a round by its ID
	GetByID(ctx context.Context, roundID int64) (*entities.Round, error)
}
