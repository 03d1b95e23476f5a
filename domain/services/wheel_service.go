package services

import (
	"context"
	"fmt"

	"casino/config"
	"casino/domain/entities"
	"casino/domain/events"
	"casino/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// wheelWeightScale is the sum of all outcome weights (basis points).
const wheelWeightScale = 10_000

// The wheel's seven outcomes. Weights are basis points summing to exactly
// 10000; multipliers are tenths, so outcome 6 pays 10x the stake. The top
// multiplier bounds the worst-case payout used in the solvency pre-check.
var (
	wheelWeights          = [7]uint64{1900, 1900, 2200, 2100, 1000, 600, 300}
	wheelMultiplierTenths = [7]int64{0, 0, 15, 20, 30, 50, 100}
)

type wheelService struct {
	wallets        interfaces.WalletRepository
	bankroll       interfaces.BankrollRepository
	stats          interfaces.StatsRepository
	outcomes       interfaces.OutcomeRepository
	entropy        interfaces.EntropySource
	guard          *ReentrancyGuard
	eventPublisher interfaces.EventPublisher
}

// NewWheelService creates a new wheel service
func NewWheelService(
	wallets interfaces.WalletRepository,
	bankroll interfaces.BankrollRepository,
	stats interfaces.StatsRepository,
	outcomes interfaces.OutcomeRepository,
	entropy interfaces.EntropySource,
	guard *ReentrancyGuard,
	eventPublisher interfaces.EventPublisher,
) interfaces.WheelService {
	return &wheelService{
		wallets:        wallets,
		bankroll:       bankroll,
		stats:          stats,
		outcomes:       outcomes,
		entropy:        entropy,
		guard:          guard,
		eventPublisher: eventPublisher,
	}
}

// selectOutcome walks the cumulative weight prefix sum in table order and
// picks the first outcome whose cumulative weight exceeds the draw. A draw
// landing exactly on a boundary belongs to the outcome starting there.
func selectOutcome(draw uint64) int {
	var cumulative uint64
	for i, weight := range wheelWeights {
		cumulative += weight
		if draw < cumulative {
			return i
		}
	}
	// Unreachable while the weights sum to the scale.
	return len(wheelWeights) - 1
}

func (s *wheelService) Spin(ctx context.Context, userID int64, amount int64) (*entities.SpinResult, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	cfg := config.Get()

	debited, err := s.wallets.Debit(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to take stake: %w", err)
	}
	if err := ValidateStake(amount, debited, cfg.Wheel.MinBet, cfg.Wheel.MaxBet); err != nil {
		return nil, err
	}
	if err := s.bankroll.AddHeld(ctx, amount); err != nil {
		return nil, fmt.Errorf("failed to hold stake: %w", err)
	}

	// Worst-case solvency check before any entropy is consumed.
	bankroll, err := s.bankroll.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bankroll: %w", err)
	}
	maxPayout := amount * wheelMultiplierTenths[len(wheelMultiplierTenths)-1] / 10
	if !bankroll.CanCover(maxPayout) {
		return nil, fmt.Errorf("%w: worst-case payout %d exceeds available %d",
			entities.ErrInsufficientBankroll, maxPayout, bankroll.Available())
	}

	draw, err := s.entropy.DrawBounded(userID, wheelWeightScale)
	if err != nil {
		return nil, fmt.Errorf("failed to draw outcome: %w", err)
	}
	outcomeIndex := selectOutcome(draw)
	multiplierTenths := wheelMultiplierTenths[outcomeIndex]
	payout := amount * multiplierTenths / 10
	won := payout > 0

	if won {
		if err := s.bankroll.Reserve(ctx, userID, payout); err != nil {
			return nil, fmt.Errorf("failed to reserve prize: %w", err)
		}
	}

	// The last-outcome cache is overwritten and the nonce bumped on every
	// spin, win or lose.
	nonce, err := s.outcomes.Record(ctx, &entities.WheelOutcome{
		UserID:           userID,
		OutcomeIndex:     outcomeIndex,
		MultiplierTenths: multiplierTenths,
		Won:              won,
		Amount:           amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record last outcome: %w", err)
	}

	wonAmount, lostAmount := payout, int64(0)
	if !won {
		wonAmount, lostAmount = 0, amount
	}
	if err := s.stats.RecordBet(ctx, userID, amount, wonAmount, lostAmount); err != nil {
		return nil, fmt.Errorf("failed to record stats: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":       userID,
		"amount":       amount,
		"outcomeIndex": outcomeIndex,
		"multiplier":   multiplierTenths,
		"payout":       payout,
		"nonce":        nonce,
	}).Debug("Wheel spin resolved")

	if err := s.eventPublisher.Publish(events.BetResolvedEvent{
		Game:      events.GameWheel,
		UserID:    userID,
		BetAmount: amount,
		Won:       won,
		Payout:    payout,
	}); err != nil {
		log.WithError(err).Error("Failed to publish bet resolved event")
	}

	return &entities.SpinResult{
		OutcomeIndex:     outcomeIndex,
		MultiplierTenths: multiplierTenths,
		Won:              won,
		BetAmount:        amount,
		Payout:           payout,
		Nonce:            nonce,
	}, nil
}
