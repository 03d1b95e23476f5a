package interfaces

import (
	"context"

	"casino/domain/entities"
	"casino/domain/events"
)

// BankrollService defines the interface for bankroll operations
type BankrollService interface {
	// Deposit adds amount from a user's wallet to the house bankroll
	Deposit(ctx context.Context, userID int64, amount int64) (*entities.Bankroll, error)

	// Claim pays out the caller's entire pending prize and returns it
	Claim(ctx context.Context, userID int64) (int64, error)

	// Withdraw sweeps the unreserved bankroll to the owner's wallet and
	// returns the amount moved. Owner only.
	Withdraw(ctx context.Context, ownerID int64) (int64, error)
}

// CoinFlipService defines the interface for the even-money binary game
type CoinFlipService interface {
	// Flip wagers amount on guess (true = heads) and settles immediately
	Flip(ctx context.Context, userID int64, guess bool, amount int64) (*entities.FlipResult, error)
}

// WheelService defines the interface for the weighted multi-outcome game
type WheelService interface {
	// Spin wagers amount on one wheel draw and settles immediately
	Spin(ctx context.Context, userID int64, amount int64) (*entities.SpinResult, error)
}

// CrashService defines the interface for the shared-round curve game
type CrashService interface {
	// Play wagers amount with a fixed auto-cashout (tenths, 11..300)
	// against the current round
	Play(ctx context.Context, userID int64, amount int64, autoCashoutTenths int64) (*entities.CrashResult, error)

	// OpenNextRound opens a fresh round once the current one has closed.
	// Callable by anyone.
	OpenNextRound(ctx context.Context, userID int64) (*entities.Round, error)

	// ForceCloseBetting immediately ends the current betting window.
	// Owner only; no-op when the round is already closed.
	ForceCloseBetting(ctx context.Context, ownerID int64) (*entities.Round, error)
}

// EntropySource produces unbiased bounded draws from unpredictable inputs.
// Implementations must be safe for concurrent use.
type EntropySource interface {
	// DrawBounded returns a uniformly distributed value in [0, mod),
	// free of modulo bias. The caller identity is mixed into the draw.
	DrawBounded(caller int64, mod uint64) (uint64, error)
}

// FundGateway releases house-held funds to a user. It is the trust boundary
// of claim and withdraw: implementations may run arbitrary recipient-side
// code, which is why every caller holds the reentrancy guard across it.
type FundGateway interface {
	Transfer(ctx context.Context, userID int64, amount int64) error
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding unit of
// work commits, and discards them on rollback
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// UnitOfWork bundles the repositories of one atomic operation behind a
// single database transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WalletRepository() WalletRepository
	BankrollRepository() BankrollRepository
	StatsRepository() StatsRepository
	OutcomeRepository() OutcomeRepository
	RoundRepository() RoundRepository

	// EventBus returns the transactional event publisher bound to this
	// unit of work
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
