package services

import (
	"context"
	"fmt"
	"time"

	"casino/config"
	"casino/domain/entities"
	"casino/domain/events"
	"casino/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	// Auto-cashout bounds in tenths: 1.1x to 30.0x.
	minAutoCashoutTenths = 11
	maxAutoCashoutTenths = 300

	// Crash multiplier bounds in tenths: 1.0x to 30.0x.
	minCrashTenths = 10
	maxCrashTenths = 300

	// Winning payouts keep 9800/10000 of the gross, a 2% house edge.
	crashEdgeKeepBps = 9_800
	bpsScale         = 10_000

	// crashDrawRange is the granularity of the inverse-uniform draw.
	crashDrawRange = 1_000_000_000

	// A single settlement may claim at most a quarter of the unreserved
	// bankroll, so one round cannot be drained by a single large bet.
	settlementCapDivisor = 4
)

type crashService struct {
	wallets        interfaces.WalletRepository
	bankroll       interfaces.BankrollRepository
	stats          interfaces.StatsRepository
	rounds         interfaces.RoundRepository
	entropy        interfaces.EntropySource
	guard          *ReentrancyGuard
	eventPublisher interfaces.EventPublisher
}

// NewCrashService creates a new crash service
func NewCrashService(
	wallets interfaces.WalletRepository,
	bankroll interfaces.BankrollRepository,
	stats interfaces.StatsRepository,
	rounds interfaces.RoundRepository,
	entropy interfaces.EntropySource,
	guard *ReentrancyGuard,
	eventPublisher interfaces.EventPublisher,
) interfaces.CrashService {
	return &crashService{
		wallets:        wallets,
		bankroll:       bankroll,
		stats:          stats,
		rounds:         rounds,
		entropy:        entropy,
		guard:          guard,
		eventPublisher: eventPublisher,
	}
}

// drawCrashTenths transforms a uniform draw into the heavy right tail of the
// crash curve: m = 1e10 / (1e9 - u), clamped to [1.0x, 30.0x]. Most rounds
// crash low; the occasional u near the top of the range produces a tall one.
func (s *crashService) drawCrashTenths(ctx context.Context, caller int64) (int64, error) {
	u, err := s.entropy.DrawBounded(caller, crashDrawRange)
	if err != nil {
		return 0, fmt.Errorf("failed to draw crash multiplier: %w", err)
	}
	if u == 0 {
		u = 1
	}

	tenths := int64(10 * crashDrawRange / (crashDrawRange - u))
	if tenths < minCrashTenths {
		tenths = minCrashTenths
	}
	if tenths > maxCrashTenths {
		tenths = maxCrashTenths
	}
	return tenths, nil
}

// Play settles a bet against the current round immediately: the crash
// multiplier was fixed when the round opened, so whether an auto-cashout wins
// is already decided. Both settlement caps are evaluated against the bankroll
// as it stands now, not as it stood at round open, so late bets in a busy
// round can be rejected even though earlier ones were accepted.
func (s *crashService) Play(ctx context.Context, userID int64, amount int64, autoCashoutTenths int64) (*entities.CrashResult, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	cfg := config.Get()

	round, err := s.rounds.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}
	if round == nil {
		return nil, fmt.Errorf("%w: no round open", entities.ErrBettingClosed)
	}
	if !round.BettingOpen(time.Now()) {
		return nil, fmt.Errorf("%w: round %d stopped taking bets at %s",
			entities.ErrBettingClosed, round.ID, round.BettingEndsAt.Format(time.RFC3339))
	}

	if autoCashoutTenths < minAutoCashoutTenths || autoCashoutTenths > maxAutoCashoutTenths {
		return nil, fmt.Errorf("%w: auto cashout %d outside [%d, %d]",
			entities.ErrInvalidBet, autoCashoutTenths, minAutoCashoutTenths, maxAutoCashoutTenths)
	}

	debited, err := s.wallets.Debit(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to take stake: %w", err)
	}
	if err := ValidateStake(amount, debited, cfg.Crash.MinBet, cfg.Crash.MaxBet); err != nil {
		return nil, err
	}
	if err := s.bankroll.AddHeld(ctx, amount); err != nil {
		return nil, fmt.Errorf("failed to hold stake: %w", err)
	}

	won := autoCashoutTenths <= round.CrashTenths

	var payout int64
	if won {
		gross := amount * autoCashoutTenths / 10
		payout = gross * crashEdgeKeepBps / bpsScale

		bankroll, err := s.bankroll.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get bankroll: %w", err)
		}
		if payout > bankroll.Available()/settlementCapDivisor {
			return nil, fmt.Errorf("%w: payout %d exceeds %d (25%% of available bankroll)",
				entities.ErrPayoutCapExceeded, payout, bankroll.Available()/settlementCapDivisor)
		}
		if !bankroll.CanCover(payout) {
			return nil, fmt.Errorf("%w: payout %d exceeds available %d",
				entities.ErrInsufficientBankroll, payout, bankroll.Available())
		}
		if err := s.bankroll.Reserve(ctx, userID, payout); err != nil {
			return nil, fmt.Errorf("failed to reserve prize: %w", err)
		}
	}

	wonAmount, lostAmount := payout, int64(0)
	if !won {
		wonAmount, lostAmount = 0, amount
	}
	if err := s.stats.RecordBet(ctx, userID, amount, wonAmount, lostAmount); err != nil {
		return nil, fmt.Errorf("failed to record stats: %w", err)
	}
	if err := s.stats.AddGlobalBet(ctx, amount); err != nil {
		return nil, fmt.Errorf("failed to record global stats: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":      userID,
		"roundID":     round.ID,
		"amount":      amount,
		"autoCashout": autoCashoutTenths,
		"won":         won,
		"payout":      payout,
	}).Debug("Crash bet resolved")

	if err := s.eventPublisher.Publish(events.BetResolvedEvent{
		Game:      events.GameCrash,
		UserID:    userID,
		BetAmount: amount,
		Won:       won,
		Payout:    payout,
		RoundID:   round.ID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish bet resolved event")
	}

	return &entities.CrashResult{
		RoundID:           round.ID,
		AutoCashoutTenths: autoCashoutTenths,
		Won:               won,
		BetAmount:         amount,
		Payout:            payout,
	}, nil
}

// OpenNextRound supersedes the current round with a fresh one. The crash
// multiplier is drawn here, at open time: every bet in the round stakes
// against a value that is already fixed but never revealed while live.
func (s *crashService) OpenNextRound(ctx context.Context, userID int64) (*entities.Round, error) {
	cfg := config.Get()
	now := time.Now()

	current, err := s.rounds.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}
	if current != nil && current.BettingOpen(now) {
		return nil, fmt.Errorf("%w: round %d accepts bets until %s",
			entities.ErrRoundStillOpen, current.ID, current.BettingEndsAt.Format(time.RFC3339))
	}

	crashTenths, err := s.drawCrashTenths(ctx, userID)
	if err != nil {
		return nil, err
	}

	round := &entities.Round{
		StartedAt:     now,
		BettingEndsAt: now.Add(time.Duration(cfg.Crash.BettingWindowSeconds) * time.Second),
		CrashTenths:   crashTenths,
	}
	if err := s.rounds.Insert(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to insert round: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":       round.ID,
		"bettingEndsAt": round.BettingEndsAt,
	}).Info("Crash round opened")

	if err := s.eventPublisher.Publish(events.RoundStartedEvent{
		RoundID:       round.ID,
		StartedAt:     round.StartedAt,
		BettingEndsAt: round.BettingEndsAt,
	}); err != nil {
		log.WithError(err).Error("Failed to publish round started event")
	}

	return round, nil
}

// ForceCloseBetting ends the current betting window immediately. No-op when
// the window already elapsed.
func (s *crashService) ForceCloseBetting(ctx context.Context, ownerID int64) (*entities.Round, error) {
	if ownerID != config.Get().OwnerID {
		return nil, fmt.Errorf("%w: user %d may not close betting", entities.ErrNotOwner, ownerID)
	}

	now := time.Now()
	round, err := s.rounds.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}
	if round == nil {
		return nil, fmt.Errorf("%w: no round open", entities.ErrBettingClosed)
	}
	if !round.BettingOpen(now) {
		return round, nil
	}

	if err := s.rounds.CloseBetting(ctx, round.ID, now); err != nil {
		return nil, fmt.Errorf("failed to close betting: %w", err)
	}
	round.BettingEndsAt = now

	log.WithField("roundID", round.ID).Info("Betting force-closed")

	if err := s.eventPublisher.Publish(events.BettingClosedEvent{
		RoundID:  round.ID,
		ClosedAt: now,
	}); err != nil {
		log.WithError(err).Error("Failed to publish betting closed event")
	}

	return round, nil
}
