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

// coinFlipPayoutMultiple is the even-money payout on a winning flip. The
// house edge is structural (wins return exactly the doubled stake), not a
// discount applied to the payout.
const coinFlipPayoutMultiple = 2

type coinFlipService struct {
	wallets        interfaces.WalletRepository
	bankroll       interfaces.BankrollRepository
	stats          interfaces.StatsRepository
	entropy        interfaces.EntropySource
	guard          *ReentrancyGuard
	eventPublisher interfaces.EventPublisher
}

// NewCoinFlipService creates a new coin flip service
func NewCoinFlipService(
	wallets interfaces.WalletRepository,
	bankroll interfaces.BankrollRepository,
	stats interfaces.StatsRepository,
	entropy interfaces.EntropySource,
	guard *ReentrancyGuard,
	eventPublisher interfaces.EventPublisher,
) interfaces.CoinFlipService {
	return &coinFlipService{
		wallets:        wallets,
		bankroll:       bankroll,
		stats:          stats,
		entropy:        entropy,
		guard:          guard,
		eventPublisher: eventPublisher,
	}
}

func (s *coinFlipService) Flip(ctx context.Context, userID int64, guess bool, amount int64) (*entities.FlipResult, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	cfg := config.Get()

	debited, err := s.wallets.Debit(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to take stake: %w", err)
	}
	if err := ValidateStake(amount, debited, cfg.CoinFlip.MinBet, cfg.CoinFlip.MaxBet); err != nil {
		return nil, err
	}
	if err := s.bankroll.AddHeld(ctx, amount); err != nil {
		return nil, fmt.Errorf("failed to hold stake: %w", err)
	}

	// Worst-case solvency check before any entropy is consumed, so a
	// rejected bet never perturbs the accumulator or nonce.
	bankroll, err := s.bankroll.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bankroll: %w", err)
	}
	maxPayout := coinFlipPayoutMultiple * amount
	if !bankroll.CanCover(maxPayout) {
		return nil, fmt.Errorf("%w: worst-case payout %d exceeds available %d",
			entities.ErrInsufficientBankroll, maxPayout, bankroll.Available())
	}

	draw, err := s.entropy.DrawBounded(userID, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to draw outcome: %w", err)
	}
	result := draw == 1
	won := result == guess

	var payout int64
	if won {
		payout = maxPayout
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
		"userID": userID,
		"amount": amount,
		"guess":  guess,
		"result": result,
		"won":    won,
		"payout": payout,
	}).Debug("Coin flip resolved")

	if err := s.eventPublisher.Publish(events.BetResolvedEvent{
		Game:      events.GameCoinFlip,
		UserID:    userID,
		BetAmount: amount,
		Won:       won,
		Payout:    payout,
	}); err != nil {
		log.WithError(err).Error("Failed to publish bet resolved event")
	}

	return &entities.FlipResult{
		Won:       won,
		Guess:     guess,
		Result:    result,
		BetAmount: amount,
		Payout:    payout,
	}, nil
}
