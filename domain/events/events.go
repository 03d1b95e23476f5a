package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDeposit       EventType = "deposit"
	EventTypeBetResolved   EventType = "bet_resolved"
	EventTypePrizeClaimed  EventType = "prize_claimed"
	EventTypeWithdrawal    EventType = "withdrawal"
	EventTypeRoundStarted  EventType = "round_started"
	EventTypeBettingClosed EventType = "betting_closed"
)

// Game identifies which outcome engine resolved a bet.
type Game string

const (
	GameCoinFlip Game = "coinflip"
	GameWheel    Game = "wheel"
	GameCrash    Game = "crash"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DepositEvent represents funds added to the house bankroll
type DepositEvent struct {
	UserID      int64
	Amount      int64
	HeldBalance int64
}

func (e DepositEvent) Type() EventType {
	return EventTypeDeposit
}

// BetResolvedEvent represents a bet decided by an outcome engine
type BetResolvedEvent struct {
	Game      Game
	UserID    int64
	BetAmount int64
	Won       bool
	Payout    int64
	RoundID   int64 // crash only, zero otherwise
}

func (e BetResolvedEvent) Type() EventType {
	return EventTypeBetResolved
}

// PrizeClaimedEvent represents escrow paid out to a winner's wallet
type PrizeClaimedEvent struct {
	UserID int64
	Amount int64
}

func (e PrizeClaimedEvent) Type() EventType {
	return EventTypePrizeClaimed
}

// WithdrawalEvent represents the owner sweeping the unreserved bankroll
type WithdrawalEvent struct {
	OwnerID int64
	Amount  int64
}

func (e WithdrawalEvent) Type() EventType {
	return EventTypeWithdrawal
}

// RoundStartedEvent represents a new crash round opening for bets.
// The crash multiplier is deliberately absent: it is drawn at open time but
// must not be revealed while the round is live.
type RoundStartedEvent struct {
	RoundID       int64
	StartedAt     time.Time
	BettingEndsAt time.Time
}

func (e RoundStartedEvent) Type() EventType {
	return EventTypeRoundStarted
}

// BettingClosedEvent represents a round's betting window closing early
type BettingClosedEvent struct {
	RoundID  int64
	ClosedAt time.Time
}

func (e BettingClosedEvent) Type() EventType {
	return EventTypeBettingClosed
}
