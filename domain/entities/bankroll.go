package entities

import "time"

// Bankroll is a snapshot of the house ledger: every unit ever deposited and
// not yet withdrawn or claimed, and the slice of it reserved for winners.
type Bankroll struct {
	HeldBalance  int64     `db:"held_balance"`
	TotalPending int64     `db:"total_pending"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Available returns the unreserved bankroll, the amount the house can still
// put at risk. Never negative: total pending is only ever grown by amounts
// verified against this value first.
func (b *Bankroll) Available() int64 {
	return b.HeldBalance - b.TotalPending
}

// CanCover reports whether the unreserved bankroll covers a payout.
func (b *Bankroll) CanCover(amount int64) bool {
	return amount <= b.Available()
}

// PendingPrize is a winner's claimable escrow entry. Created on first win,
// grown on every subsequent win, zeroed on claim. Never deleted.
type PendingPrize struct {
	UserID    int64     `db:"user_id"`
	Amount    int64     `db:"amount"`
	UpdatedAt time.Time `db:"updated_at"`
}
