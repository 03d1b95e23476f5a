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

type bankrollService struct {
	wallets        interfaces.WalletRepository
	bankroll       interfaces.BankrollRepository
	gateway        interfaces.FundGateway
	guard          *ReentrancyGuard
	eventPublisher interfaces.EventPublisher
}

// NewBankrollService creates a new bankroll service
func NewBankrollService(
	wallets interfaces.WalletRepository,
	bankroll interfaces.BankrollRepository,
	gateway interfaces.FundGateway,
	guard *ReentrancyGuard,
	eventPublisher interfaces.EventPublisher,
) interfaces.BankrollService {
	return &bankrollService{
		wallets:        wallets,
		bankroll:       bankroll,
		gateway:        gateway,
		guard:          guard,
		eventPublisher: eventPublisher,
	}
}

// Deposit moves amount from the depositor's wallet into the house bankroll.
// Anyone may fund the bankroll; zero and negative amounts are rejected.
func (s *bankrollService) Deposit(ctx context.Context, userID int64, amount int64) (*entities.Bankroll, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive", entities.ErrInvalidBet)
	}

	if _, err := s.wallets.Debit(ctx, userID, amount); err != nil {
		return nil, fmt.Errorf("failed to debit depositor wallet: %w", err)
	}
	if err := s.bankroll.AddHeld(ctx, amount); err != nil {
		return nil, fmt.Errorf("failed to grow held balance: %w", err)
	}

	bankroll, err := s.bankroll.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bankroll: %w", err)
	}

	if err := s.eventPublisher.Publish(events.DepositEvent{
		UserID:      userID,
		Amount:      amount,
		HeldBalance: bankroll.HeldBalance,
	}); err != nil {
		log.WithError(err).Error("Failed to publish deposit event")
	}

	return bankroll, nil
}

// Claim pays out the caller's entire pending prize. Escrow is zeroed before
// the transfer runs so a reentrant recipient cannot observe a claimable
// balance mid-payout; the surrounding transaction undoes the zeroing if the
// transfer itself fails.
func (s *bankrollService) Claim(ctx context.Context, userID int64) (int64, error) {
	if err := s.guard.Enter(); err != nil {
		return 0, err
	}
	defer s.guard.Exit()

	amount, err := s.bankroll.ClearPending(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear pending prize: %w", err)
	}
	if amount == 0 {
		return 0, fmt.Errorf("%w: user %d has no pending prize", entities.ErrNothingToClaim, userID)
	}

	if err := s.bankroll.AddHeld(ctx, -amount); err != nil {
		return 0, fmt.Errorf("failed to release held balance: %w", err)
	}
	if err := s.gateway.Transfer(ctx, userID, amount); err != nil {
		return 0, fmt.Errorf("failed to transfer prize to user %d: %w", userID, err)
	}

	if err := s.eventPublisher.Publish(events.PrizeClaimedEvent{
		UserID: userID,
		Amount: amount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish prize claimed event")
	}

	return amount, nil
}

// Withdraw sweeps the unreserved bankroll to the owner. Escrowed prizes stay
// behind untouched.
func (s *bankrollService) Withdraw(ctx context.Context, ownerID int64) (int64, error) {
	if err := s.guard.Enter(); err != nil {
		return 0, err
	}
	defer s.guard.Exit()

	if ownerID != config.Get().OwnerID {
		return 0, fmt.Errorf("%w: user %d may not withdraw the bankroll", entities.ErrNotOwner, ownerID)
	}

	bankroll, err := s.bankroll.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get bankroll: %w", err)
	}
	available := bankroll.Available()
	if available <= 0 {
		return 0, fmt.Errorf("%w: nothing available to withdraw", entities.ErrInsufficientBankroll)
	}

	if err := s.bankroll.AddHeld(ctx, -available); err != nil {
		return 0, fmt.Errorf("failed to release held balance: %w", err)
	}
	if err := s.gateway.Transfer(ctx, ownerID, available); err != nil {
		return 0, fmt.Errorf("failed to transfer withdrawal to owner: %w", err)
	}

	log.WithFields(log.Fields{
		"ownerID": ownerID,
		"amount":  available,
	}).Info("Bankroll withdrawn")

	if err := s.eventPublisher.Publish(events.WithdrawalEvent{
		OwnerID: ownerID,
		Amount:  available,
	}); err != nil {
		log.WithError(err).Error("Failed to publish withdrawal event")
	}

	return available, nil
}
