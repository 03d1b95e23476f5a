package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/domain/entities"

	"github.com/jackc/pgx/v5"
)

// StatsRepository implements the StatsRepository interface
type StatsRepository struct {
	q Queryable
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{q: db.Pool}
}

func newStatsRepository(tx Queryable) *StatsRepository {
	return &StatsRepository{q: tx}
}

// RecordBet folds one resolved bet into a user's lifetime counters
func (r *StatsRepository) RecordBet(ctx context.Context, userID int64, betAmount, wonAmount, lostAmount int64) error {
	query := `
		INSERT INTO user_stats (user_id, total_bet, total_won, total_lost)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET total_bet = user_stats.total_bet + EXCLUDED.total_bet,
		    total_won = user_stats.total_won + EXCLUDED.total_won,
		    total_lost = user_stats.total_lost + EXCLUDED.total_lost,
		    updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, userID, betAmount, wonAmount, lostAmount); err != nil {
		return fmt.Errorf("failed to record bet stats for user %d: %w", userID, err)
	}

	return nil
}

// AddGlobalBet grows the system-wide total bet counter
func (r *StatsRepository) AddGlobalBet(ctx context.Context, amount int64) error {
	query := `
		UPDATE global_stats
		SET total_bet = total_bet + $1, updated_at = NOW()
		WHERE id = 1
	`
	if _, err := r.q.Exec(ctx, query, amount); err != nil {
		return fmt.Errorf("failed to grow global bet counter by %d: %w", amount, err)
	}

	return nil
}

// GetUser returns a user's aggregates, nil if they never bet
func (r *StatsRepository) GetUser(ctx context.Context, userID int64) (*entities.UserStats, error) {
	query := `
		SELECT user_id, total_bet, total_won, total_lost, updated_at
		FROM user_stats
		WHERE user_id = $1
	`

	var stats entities.UserStats
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.TotalBet,
		&stats.TotalWon,
		&stats.TotalLost,
		&stats.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for user %d: %w", userID, err)
	}

	return &stats, nil
}

// GetGlobal returns the system-wide aggregates
func (r *StatsRepository) GetGlobal(ctx context.Context) (*entities.GlobalStats, error) {
	query := `
		SELECT total_bet, updated_at
		FROM global_stats
		WHERE id = 1
	`

	var stats entities.GlobalStats
	err := r.q.QueryRow(ctx, query).Scan(&stats.TotalBet, &stats.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get global stats: %w", err)
	}

	return &stats, nil
}
