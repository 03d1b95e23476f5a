package entities

import "time"

// UserStats aggregates a user's lifetime wagering. All counters are
// monotonically non-decreasing; the row is created lazily on first bet and
// never destroyed.
type UserStats struct {
	UserID    int64     `db:"user_id"`
	TotalBet  int64     `db:"total_bet"`
	TotalWon  int64     `db:"total_won"`
	TotalLost int64     `db:"total_lost"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NetProfit returns lifetime winnings minus lifetime losses.
func (s *UserStats) NetProfit() int64 {
	return s.TotalWon - s.TotalLost
}

// GlobalStats is the single system-wide wagering counter, incremented by the
// coin flip and crash engines.
type GlobalStats struct {
	TotalBet  int64     `db:"total_bet"`
	UpdatedAt time.Time `db:"updated_at"`
}
