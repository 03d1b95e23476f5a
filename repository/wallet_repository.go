package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WalletRepository implements the WalletRepository interface
type WalletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{q: db.Pool}
}

func newWalletRepository(tx Queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Get retrieves a wallet by user ID
func (r *WalletRepository) Get(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		SELECT user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}

	return &wallet, nil
}

// Credit adds amount to a user's wallet, creating the wallet if absent
func (r *WalletRepository) Credit(ctx context.Context, userID int64, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative, got %d", amount)
	}

	query := `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, userID, amount); err != nil {
		return fmt.Errorf("failed to credit wallet for user %d: %w", userID, err)
	}

	return nil
}

// Debit removes amount from a user's wallet. The balance check and the
// update happen in one statement so a concurrent debit cannot slip between
// them.
func (r *WalletRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive, got %d", entities.ErrInvalidBet, amount)
	}

	query := `
		UPDATE wallets
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
	`
	result, err := r.q.Exec(ctx, query, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to debit wallet for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: wallet of user %d cannot cover %d",
			entities.ErrInsufficientFunds, userID, amount)
	}

	return amount, nil
}
