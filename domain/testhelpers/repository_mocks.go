package testhelpers

import (
	"context"
	"time"

	"casino/domain/entities"
	"casino/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Get(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockBankrollRepository is a mock implementation of BankrollRepository
type MockBankrollRepository struct {
	mock.Mock
}

func (m *MockBankrollRepository) Get(ctx context.Context) (*entities.Bankroll, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bankroll), args.Error(1)
}

func (m *MockBankrollRepository) AddHeld(ctx context.Context, delta int64) error {
	args := m.Called(ctx, delta)
	return args.Error(0)
}

func (m *MockBankrollRepository) PendingPrize(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBankrollRepository) Reserve(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockBankrollRepository) ClearPending(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) RecordBet(ctx context.Context, userID int64, betAmount, wonAmount, lostAmount int64) error {
	args := m.Called(ctx, userID, betAmount, wonAmount, lostAmount)
	return args.Error(0)
}

func (m *MockStatsRepository) AddGlobalBet(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockStatsRepository) GetUser(ctx context.Context, userID int64) (*entities.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserStats), args.Error(1)
}

func (m *MockStatsRepository) GetGlobal(ctx context.Context) (*entities.GlobalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GlobalStats), args.Error(1)
}

// MockOutcomeRepository is a mock implementation of OutcomeRepository
type MockOutcomeRepository struct {
	mock.Mock
}

func (m *MockOutcomeRepository) Record(ctx context.Context, outcome *entities.WheelOutcome) (int64, error) {
	args := m.Called(ctx, outcome)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutcomeRepository) GetByUser(ctx context.Context, userID int64) (*entities.WheelOutcome, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WheelOutcome), args.Error(1)
}

// MockRoundRepository is a mock implementation of RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Current(ctx context.Context) (*entities.Round, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

func (m *MockRoundRepository) Insert(ctx context.Context, round *entities.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) CloseBetting(ctx context.Context, roundID int64, endsAt time.Time) error {
	args := m.Called(ctx, roundID, endsAt)
	return args.Error(0)
}

func (m *MockRoundRepository) GetByID(ctx context.Context, roundID int64) (*entities.Round, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockEntropySource is a mock implementation of EntropySource
type MockEntropySource struct {
	mock.Mock
}

func (m *MockEntropySource) DrawBounded(caller int64, mod uint64) (uint64, error) {
	args := m.Called(caller, mod)
	return args.Get(0).(uint64), args.Error(1)
}

// MockFundGateway is a mock implementation of FundGateway
type MockFundGateway struct {
	mock.Mock
}

func (m *MockFundGateway) Transfer(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}
