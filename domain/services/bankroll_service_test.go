package services

import (
	"context"
	"testing"

	"casino/config"
	"casino/domain/entities"
	"casino/domain/interfaces"
	"casino/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBankrollService_Deposit(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockGateway := new(testhelpers.MockFundGateway)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, mockGateway, NewReentrancyGuard(), mockEventPublisher)

	mockWalletRepo.On("Debit", ctx, int64(123456), int64(5000)).Return(int64(5000), nil)
	mockBankrollRepo.On("AddHeld", ctx, int64(5000)).Return(nil)
	mockBankrollRepo.On("Get", ctx).Return(&entities.Bankroll{HeldBalance: 5000}, nil)
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.DepositEvent")).Return(nil)

	bankroll, err := service.Deposit(ctx, 123456, 5000)

	require.NoError(t, err)
	assert.Equal(t, int64(5000), bankroll.HeldBalance)
	assert.Equal(t, int64(5000), bankroll.Available())

	mockWalletRepo.AssertExpectations(t)
	mockBankrollRepo.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
}

func TestBankrollService_Deposit_RejectsNonPositiveAmount(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockGateway := new(testhelpers.MockFundGateway)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, mockGateway, NewReentrancyGuard(), mockEventPublisher)

	for _, amount := range []int64{0, -1, -5000} {
		_, err := service.Deposit(ctx, 123456, amount)
		assert.ErrorIs(t, err, entities.ErrInvalidBet)
	}

	mockWalletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func TestBankrollService_Claim(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockGateway := new(testhelpers.MockFundGateway)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, mockGateway, NewReentrancyGuard(), mockEventPublisher)

	// Escrow is zeroed before the transfer runs
	mockBankrollRepo.On("ClearPending", ctx, int64(123456)).Return(int64(2500), nil)
	mockBankrollRepo.On("AddHeld", ctx, int64(-2500)).Return(nil)
	mockGateway.On("Transfer", ctx, int64(123456), int64(2500)).Return(nil)
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.PrizeClaimedEvent")).Return(nil)

	amount, err := service.Claim(ctx, 123456)

	require.NoError(t, err)
	assert.Equal(t, int64(2500), amount)

	mockBankrollRepo.AssertExpectations(t)
	mockGateway.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
}

func TestBankrollService_Claim_NothingPending(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockGateway := new(testhelpers.MockFundGateway)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, mockGateway, NewReentrancyGuard(), mockEventPublisher)

	mockBankrollRepo.On("ClearPending", ctx, int64(123456)).Return(int64(0), nil)

	_, err := service.Claim(ctx, 123456)
	assert.ErrorIs(t, err, entities.ErrNothingToClaim)

	// No funds may move for an empty escrow
	mockBankrollRepo.AssertNotCalled(t, "AddHeld", mock.Anything, mock.Anything)
	mockGateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

// reentrantClaimGateway re-invokes Claim from inside the transfer, the way a
// hostile recipient callback would.
type reentrantClaimGateway struct {
	service  interfaces.BankrollService
	innerErr error
}

func (g *reentrantClaimGateway) Transfer(ctx context.Context, userID int64, amount int64) error {
	_, g.innerErr = g.service.Claim(ctx, userID)
	return nil
}

func TestBankrollService_Claim_ReentrantTransferBlocked(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	gateway := &reentrantClaimGateway{}
	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, gateway, NewReentrancyGuard(), mockEventPublisher)
	gateway.service = service

	mockBankrollRepo.On("ClearPending", ctx, int64(123456)).Return(int64(2500), nil).Once()
	mockBankrollRepo.On("AddHeld", ctx, int64(-2500)).Return(nil).Once()
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.PrizeClaimedEvent")).Return(nil)

	amount, err := service.Claim(ctx, 123456)

	// The outer claim succeeds exactly once; the nested claim is rejected
	// by the guard before it can touch the ledger.
	require.NoError(t, err)
	assert.Equal(t, int64(2500), amount)
	assert.ErrorIs(t, gateway.innerErr, entities.ErrReentrancy)

	mockBankrollRepo.AssertExpectations(t)
}

func TestBankrollService_Withdraw(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	ownerID := config.Get().OwnerID

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockGateway := new(testhelpers.MockFundGateway)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, mockGateway, NewReentrancyGuard(), mockEventPublisher)

	// 10000 held, 3000 escrowed: only 7000 may leave
	mockBankrollRepo.On("Get", ctx).Return(&entities.Bankroll{HeldBalance: 10_000, TotalPending: 3_000}, nil)
	mockBankrollRepo.On("AddHeld", ctx, int64(-7_000)).Return(nil)
	mockGateway.On("Transfer", ctx, ownerID, int64(7_000)).Return(nil)
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.WithdrawalEvent")).Return(nil)

	amount, err := service.Withdraw(ctx, ownerID)

	require.NoError(t, err)
	assert.Equal(t, int64(7_000), amount)

	mockBankrollRepo.AssertExpectations(t)
	mockGateway.AssertExpectations(t)
}

func TestBankrollService_Withdraw_NotOwner(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockGateway := new(testhelpers.MockFundGateway)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, mockGateway, NewReentrancyGuard(), mockEventPublisher)

	_, err := service.Withdraw(ctx, 123456)
	assert.ErrorIs(t, err, entities.ErrNotOwner)

	mockBankrollRepo.AssertNotCalled(t, "Get", mock.Anything)
	mockGateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func TestBankrollService_Withdraw_NothingAvailable(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	ownerID := config.Get().OwnerID

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockBankrollRepo := new(testhelpers.MockBankrollRepository)
	mockGateway := new(testhelpers.MockFundGateway)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBankrollService(mockWalletRepo, mockBankrollRepo, mockGateway, NewReentrancyGuard(), mockEventPublisher)

	// Everything held is spoken for by pending prizes
	mockBankrollRepo.On("Get", ctx).Return(&entities.Bankroll{HeldBalance: 3_000, TotalPending: 3_000}, nil)

	_, err := service.Withdraw(ctx, ownerID)
	assert.ErrorIs(t, err, entities.ErrInsufficientBankroll)

	mockGateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
}
