package repository

import (
	"context"
	"fmt"
	"time"

	"casino/database"
	"casino/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RoundRepository implements the RoundRepository interface
type RoundRepository struct {
	q Queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{q: db.Pool}
}

func newRoundRepository(tx Queryable) *RoundRepository {
	return &RoundRepository{q: tx}
}

// Current returns the most recently opened round, nil if none exists
func (r *RoundRepository) Current(ctx context.Context) (*entities.Round, error) {
	query := `
		SELECT id, started_at, betting_ends_at, crash_tenths
		FROM rounds
		ORDER BY id DESC
		LIMIT 1
	`

	var round entities.Round
	err := r.q.QueryRow(ctx, query).Scan(
		&round.ID,
		&round.StartedAt,
		&round.BettingEndsAt,
		&round.CrashTenths,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}

	return &round, nil
}

// Insert persists a new round and sets its monotonic ID
func (r *RoundRepository) Insert(ctx context.Context, round *entities.Round) error {
	query := `
		INSERT INTO rounds (started_at, betting_ends_at, crash_tenths)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		round.StartedAt,
		round.BettingEndsAt,
		round.CrashTenths,
	).Scan(&round.ID)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}

	return nil
}

// CloseBetting pulls a round's betting deadline forward to endsAt
func (r *RoundRepository) CloseBetting(ctx context.Context, roundID int64, endsAt time.Time) error {
	query := `
		UPDATE rounds
		SET betting_ends_at = $2
		WHERE id = $1 AND betting_ends_at > $2
	`
	result, err := r.q.Exec(ctx, query, roundID, endsAt)
	if err != nil {
		return fmt.Errorf("failed to close betting for round %d: %w", roundID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("round %d not found or already closed", roundID)
	}

	return nil
}

// GetByID retrieves a round by its ID
func (r *RoundRepository) GetByID(ctx context.Context, roundID int64) (*entities.Round, error) {
	query := `
		SELECT id, started_at, betting_ends_at, crash_tenths
		FROM rounds
		WHERE id = $1
	`

	var round entities.Round
	err := r.q.QueryRow(ctx, query, roundID).Scan(
		&round.ID,
		&round.StartedAt,
		&round.BettingEndsAt,
		&round.CrashTenths,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", roundID, err)
	}

	return &round, nil
}
