package entities

import "time"

// RoundPhase is the lifecycle phase of a crash round.
type RoundPhase string

const (
	RoundPhaseBetting RoundPhase = "betting"
	RoundPhaseClosed  RoundPhase = "closed"
)

// Round is one shared crash cycle. The crash multiplier is drawn when the
// round opens, not when it closes; all bets in the round settle against the
// same value. A round is immutable after creation except for the owner's
// emergency close, which pulls BettingEndsAt forward.
type Round struct {
	ID            int64     `db:"id"`
	StartedAt     time.Time `db:"started_at"`
	BettingEndsAt time.Time `db:"betting_ends_at"`
	CrashTenths   int64     `db:"crash_tenths"`
}

// Phase returns the round's phase at the given instant.
func (r *Round) Phase(now time.Time) RoundPhase {
	if r.BettingOpen(now) {
		return RoundPhaseBetting
	}
	return RoundPhaseClosed
}

// BettingOpen reports whether the round still accepts bets.
func (r *Round) BettingOpen(now time.Time) bool {
	return now.Before(r.BettingEndsAt)
}
