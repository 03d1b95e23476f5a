package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/domain/entities"

	"github.com/jackc/pgx/v5"
)

// OutcomeRepository implements the OutcomeRepository interface
type OutcomeRepository struct {
	q Queryable
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *database.DB) *OutcomeRepository {
	return &OutcomeRepository{q: db.Pool}
}

func newOutcomeRepository(tx Queryable) *OutcomeRepository {
	return &OutcomeRepository{q: tx}
}

// Record overwrites a user's last outcome and bumps their nonce by exactly 1,
// returning the new nonce. The first spin lands at nonce 1.
func (r *OutcomeRepository) Record(ctx context.Context, outcome *entities.WheelOutcome) (int64, error) {
	query := `
		INSERT INTO last_outcomes (user_id, outcome_index, multiplier_tenths, won, amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET outcome_index = EXCLUDED.outcome_index,
		    multiplier_tenths = EXCLUDED.multiplier_tenths,
		    won = EXCLUDED.won,
		    amount = EXCLUDED.amount,
		    nonce = last_outcomes.nonce + 1,
		    updated_at = NOW()
		RETURNING nonce
	`

	var nonce int64
	err := r.q.QueryRow(ctx, query,
		outcome.UserID,
		outcome.OutcomeIndex,
		outcome.MultiplierTenths,
		outcome.Won,
		outcome.Amount,
	).Scan(&nonce)
	if err != nil {
		return 0, fmt.Errorf("failed to record outcome for user %d: %w", outcome.UserID, err)
	}

	outcome.Nonce = nonce
	return nonce, nil
}

// GetByUser returns a user's last outcome, nil if they never spun
func (r *OutcomeRepository) GetByUser(ctx context.Context, userID int64) (*entities.WheelOutcome, error) {
	query := `
		SELECT user_id, outcome_index, multiplier_tenths, won, amount, nonce, updated_at
		FROM last_outcomes
		WHERE user_id = $1
	`

	var outcome entities.WheelOutcome
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&outcome.UserID,
		&outcome.OutcomeIndex,
		&outcome.MultiplierTenths,
		&outcome.Won,
		&outcome.Amount,
		&outcome.Nonce,
		&outcome.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome for user %d: %w", userID, err)
	}

	return &outcome, nil
}
