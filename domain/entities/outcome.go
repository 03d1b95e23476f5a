package entities

import "time"

// WheelOutcome is the per-user last-spin cache. Overwritten on every spin,
// win or lose; Nonce increases by exactly 1 per spin and is the liveness
// proof a polling client uses to detect a fresh result.
type WheelOutcome struct {
	UserID           int64     `db:"user_id"`
	OutcomeIndex     int       `db:"outcome_index"`
	MultiplierTenths int64     `db:"multiplier_tenths"`
	Won              bool      `db:"won"`
	Amount           int64     `db:"amount"`
	Nonce            int64     `db:"nonce"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// FlipResult is the outcome of a single coin flip returned to the caller.
type FlipResult struct {
	Won       bool
	Guess     bool
	Result    bool
	BetAmount int64
	Payout    int64
}

// SpinResult is the outcome of a single wheel spin returned to the caller.
type SpinResult struct {
	OutcomeIndex     int
	MultiplierTenths int64
	Won              bool
	BetAmount        int64
	Payout           int64
	Nonce            int64
}

// CrashResult is the outcome of a crash bet, settled against the shared
// round's pre-drawn multiplier at placement time.
type CrashResult struct {
	RoundID           int64
	AutoCashoutTenths int64
	Won               bool
	BetAmount         int64
	Payout            int64
}
