package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/domain/entities"

	"github.com/jackc/pgx/v5"
)

// BankrollRepository implements the BankrollRepository interface
type BankrollRepository struct {
	q Queryable
}

// NewBankrollRepository creates a new bankroll repository
func NewBankrollRepository(db *database.DB) *BankrollRepository {
	return &BankrollRepository{q: db.Pool}
}

func newBankrollRepository(tx Queryable) *BankrollRepository {
	return &BankrollRepository{q: tx}
}

// Get returns the current bankroll snapshot
func (r *BankrollRepository) Get(ctx context.Context) (*entities.Bankroll, error) {
	query := `
		SELECT held_balance, total_pending, updated_at
		FROM house
		WHERE id = 1
	`

	var bankroll entities.Bankroll
	err := r.q.QueryRow(ctx, query).Scan(
		&bankroll.HeldBalance,
		&bankroll.TotalPending,
		&bankroll.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bankroll: %w", err)
	}

	return &bankroll, nil
}

// AddHeld adjusts the held balance by delta. The schema rejects a held
// balance below total pending, so an over-release fails here instead of
// leaving unbacked escrow behind.
func (r *BankrollRepository) AddHeld(ctx context.Context, delta int64) error {
	query := `
		UPDATE house
		SET held_balance = held_balance + $1, updated_at = NOW()
		WHERE id = 1
	`
	if _, err := r.q.Exec(ctx, query, delta); err != nil {
		return fmt.Errorf("failed to adjust held balance by %d: %w", delta, err)
	}

	return nil
}

// PendingPrize returns a user's claimable escrow, zero if none
func (r *BankrollRepository) PendingPrize(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT amount
		FROM pending_prizes
		WHERE user_id = $1
	`

	var amount int64
	err := r.q.QueryRow(ctx, query, userID).Scan(&amount)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get pending prize for user %d: %w", userID, err)
	}

	return amount, nil
}

// Reserve moves amount into a user's escrow and grows total pending
func (r *BankrollRepository) Reserve(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("reserve amount must be positive, got %d", amount)
	}

	prizeQuery := `
		INSERT INTO pending_prizes (user_id, amount)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET amount = pending_prizes.amount + EXCLUDED.amount, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, prizeQuery, userID, amount); err != nil {
		return fmt.Errorf("failed to reserve prize for user %d: %w", userID, err)
	}

	houseQuery := `
		UPDATE house
		SET total_pending = total_pending + $1, updated_at = NOW()
		WHERE id = 1
	`
	if _, err := r.q.Exec(ctx, houseQuery, amount); err != nil {
		return fmt.Errorf("failed to grow total pending by %d: %w", amount, err)
	}

	return nil
}

// ClearPending zeroes a user's escrow and shrinks total pending, returning
// the amount cleared
func (r *BankrollRepository) ClearPending(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE pending_prizes p
		SET amount = 0, updated_at = NOW()
		FROM (
			SELECT user_id, amount
			FROM pending_prizes
			WHERE user_id = $1 AND amount > 0
			FOR UPDATE
		) old
		WHERE p.user_id = old.user_id
		RETURNING old.amount
	`

	var cleared int64
	err := r.q.QueryRow(ctx, query, userID).Scan(&cleared)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear pending prize for user %d: %w", userID, err)
	}

	houseQuery := `
		UPDATE house
		SET total_pending = total_pending - $1, updated_at = NOW()
		WHERE id = 1
	`
	if _, err := r.q.Exec(ctx, houseQuery, cleared); err != nil {
		return 0, fmt.Errorf("failed to shrink total pending by %d: %w", cleared, err)
	}

	return cleared, nil
}
