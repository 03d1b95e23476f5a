package entities

import "time"

// Wallet is a user's spendable balance, the stand-in for the native-asset
// ledger of the hosting platform. Stakes are debited from it and claimed
// prizes are credited back to it.
type Wallet struct {
	UserID    int64     `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
