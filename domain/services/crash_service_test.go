package services

import (
	"context"
	"testing"
	"time"

	"casino/config"
	"casino/domain/entities"
	"casino/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCrashFixture() (*testhelpers.MockWalletRepository, *testhelpers.MockBankrollRepository, *testhelpers.MockStatsRepository, *testhelpers.MockRoundRepository, *testhelpers.MockEntropySource, *testhelpers.MockEventPublisher) {
	return new(testhelpers.MockWalletRepository),
		new(testhelpers.MockBankrollRepository),
		new(testhelpers.MockStatsRepository),
		new(testhelpers.MockRoundRepository),
		new(testhelpers.MockEntropySource),
		new(testhelpers.MockEventPublisher)
}

func openRound(crashTenths int64) *entities.Round {
	now := time.Now()
	return &entities.Round{
		ID:            42,
		StartedAt:     now.Add(-5 * time.Second),
		BettingEndsAt: now.Add(25 * time.Second),
		CrashTenths:   crashTenths,
	}
}

func closedRound(crashTenths int64) *entities.Round {
	now := time.Now()
	return &entities.Round{
		ID:            41,
		StartedAt:     now.Add(-60 * time.Second),
		BettingEndsAt: now.Add(-30 * time.Second),
		CrashTenths:   crashTenths,
	}
}

func TestDrawCrashTenths_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		draw     uint64
		expected int64
	}{
		{"zero draw clamps to floor", 0, 10},
		{"low draw stays at floor", 100, 10},
		{"median draw doubles", 500_000_000, 20},
		{"three quarters quadruples", 750_000_000, 40},
		{"top draw clamps to ceiling", 999_999_999, 300},
		{"high draw clamps to ceiling", 999_000_000, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEntropy := new(testhelpers.MockEntropySource)
			mockEntropy.On("DrawBounded", int64(1), uint64(crashDrawRange)).Return(tt.draw, nil)

			s := &crashService{entropy: mockEntropy}
			tenths, err := s.drawCrashTenths(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, tenths)
		})
	}
}

// TestDrawCrashTenths_DistributionIsHeavyTailed draws against real entropy
// and checks the curve's shape: most rounds crash low, few crash high.
func TestDrawCrashTenths_DistributionIsHeavyTailed(t *testing.T) {
	entropy, err := NewEntropySource()
	require.NoError(t, err)

	s := &crashService{entropy: entropy}

	const trials = 20_000
	below2x := 0
	above10x := 0
	for i := 0; i < trials; i++ {
		tenths, err := s.drawCrashTenths(context.Background(), 1)
		require.NoError(t, err)
		require.GreaterOrEqual(t, tenths, int64(minCrashTenths))
		require.LessOrEqual(t, tenths, int64(maxCrashTenths))
		if tenths < 20 {
			below2x++
		}
		if tenths >= 100 {
			above10x++
		}
	}

	// 1e10/(1e9-u) < 20 for u < 5e8, so roughly half the rounds crash
	// under 2x; multipliers of 10x or more need u >= 9e8, about 10%.
	assert.InDelta(t, 0.5, float64(below2x)/float64(trials), 0.03)
	assert.InDelta(t, 0.1, float64(above10x)/float64(trials), 0.02)
}

func TestCrashService_Play_Win(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(openRound(150), nil)
	mockWalletRepo.On("Debit", ctx, int64(123456), int64(1000)).Return(int64(1000), nil)
	mockBankrollRepo.On("AddHeld", ctx, int64(1000)).Return(nil)

	// Auto-cashout 12.0x against a 15.0x crash wins. Gross 12000, after
	// the 2% edge 11760.
	mockBankrollRepo.On("Get", ctx).Return(&entities.Bankroll{HeldBalance: 100_000}, nil)
	mockBankrollRepo.On("Reserve", ctx, int64(123456), int64(11_760)).Return(nil)
	mockStatsRepo.On("RecordBet", ctx, int64(123456), int64(1000), int64(11_760), int64(0)).Return(nil)
	mockStatsRepo.On("AddGlobalBet", ctx, int64(1000)).Return(nil)
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.BetResolvedEvent")).Return(nil)

	result, err := service.Play(ctx, 123456, 1000, 120)

	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, int64(42), result.RoundID)
	assert.Equal(t, int64(11_760), result.Payout)

	mockBankrollRepo.AssertExpectations(t)
	mockStatsRepo.AssertExpectations(t)
	mockEntropy.AssertNotCalled(t, "DrawBounded", mock.Anything, mock.Anything)
}

func TestCrashService_Play_Loss(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(openRound(150), nil)
	mockWalletRepo.On("Debit", ctx, int64(123456), int64(1000)).Return(int64(1000), nil)
	mockBankrollRepo.On("AddHeld", ctx, int64(1000)).Return(nil)
	mockStatsRepo.On("RecordBet", ctx, int64(123456), int64(1000), int64(0), int64(1000)).Return(nil)
	mockStatsRepo.On("AddGlobalBet", ctx, int64(1000)).Return(nil)
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.BetResolvedEvent")).Return(nil)

	// Auto-cashout 20.0x against a 15.0x crash loses
	result, err := service.Play(ctx, 123456, 1000, 200)

	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.Equal(t, int64(0), result.Payout)

	mockBankrollRepo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
	mockBankrollRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestCrashService_Play_PayoutCapExceeded(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(openRound(150), nil)
	mockWalletRepo.On("Debit", ctx, int64(123456), int64(1000)).Return(int64(1000), nil)
	mockBankrollRepo.On("AddHeld", ctx, int64(1000)).Return(nil)

	// Payout would be 11760, but a quarter of the available 40000 is
	// only 10000
	mockBankrollRepo.On("Get", ctx).Return(&entities.Bankroll{HeldBalance: 40_000}, nil)

	_, err := service.Play(ctx, 123456, 1000, 120)
	assert.ErrorIs(t, err, entities.ErrPayoutCapExceeded)

	mockBankrollRepo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
	mockStatsRepo.AssertNotCalled(t, "RecordBet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCrashService_Play_BettingClosed(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(closedRound(150), nil)

	_, err := service.Play(ctx, 123456, 1000, 120)
	assert.ErrorIs(t, err, entities.ErrBettingClosed)

	mockWalletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func TestCrashService_Play_NoRoundOpen(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(nil, nil)

	_, err := service.Play(ctx, 123456, 1000, 120)
	assert.ErrorIs(t, err, entities.ErrBettingClosed)
}

func TestCrashService_Play_AutoCashoutOutOfRange(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(openRound(150), nil)

	for _, auto := range []int64{10, 0, 301, -5} {
		_, err := service.Play(ctx, 123456, 1000, auto)
		assert.ErrorIs(t, err, entities.ErrInvalidBet, "auto cashout %d should be rejected", auto)
	}

	mockWalletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
}

func TestCrashService_OpenNextRound(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(nil, nil)
	mockEntropy.On("DrawBounded", int64(123456), uint64(crashDrawRange)).Return(uint64(500_000_000), nil)
	mockRoundRepo.On("Insert", ctx, mock.MatchedBy(func(r *entities.Round) bool {
		return r.CrashTenths == 20 && r.BettingEndsAt.After(r.StartedAt)
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Round).ID = 43
	})
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.RoundStartedEvent")).Return(nil)

	round, err := service.OpenNextRound(ctx, 123456)

	require.NoError(t, err)
	assert.Equal(t, int64(43), round.ID)
	assert.Equal(t, int64(20), round.CrashTenths)

	window := round.BettingEndsAt.Sub(round.StartedAt)
	assert.Equal(t, 30*time.Second, window)

	mockRoundRepo.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
}

func TestCrashService_OpenNextRound_PreviousStillOpen(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	mockRoundRepo.On("Current", ctx).Return(openRound(150), nil)

	_, err := service.OpenNextRound(ctx, 123456)
	assert.ErrorIs(t, err, entities.ErrRoundStillOpen)

	mockEntropy.AssertNotCalled(t, "DrawBounded", mock.Anything, mock.Anything)
	mockRoundRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCrashService_ForceCloseBetting(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	ownerID := config.Get().OwnerID

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	round := openRound(150)
	mockRoundRepo.On("Current", ctx).Return(round, nil)
	mockRoundRepo.On("CloseBetting", ctx, int64(42), mock.AnythingOfType("time.Time")).Return(nil)
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.BettingClosedEvent")).Return(nil)

	closed, err := service.ForceCloseBetting(ctx, ownerID)

	require.NoError(t, err)
	assert.False(t, closed.BettingOpen(time.Now()))

	mockRoundRepo.AssertExpectations(t)
}

func TestCrashService_ForceCloseBetting_NotOwner(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	_, err := service.ForceCloseBetting(ctx, 123456)
	assert.ErrorIs(t, err, entities.ErrNotOwner)

	mockRoundRepo.AssertNotCalled(t, "Current", mock.Anything)
}

func TestCrashService_ForceCloseBetting_AlreadyClosedIsNoop(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	ctx := context.Background()
	ownerID := config.Get().OwnerID

	mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, mockEventPublisher := newCrashFixture()
	service := NewCrashService(mockWalletRepo, mockBankrollRepo, mockStatsRepo, mockRoundRepo, mockEntropy, NewReentrancyGuard(), mockEventPublisher)

	round := closedRound(150)
	mockRoundRepo.On("Current", ctx).Return(round, nil)

	result, err := service.ForceCloseBetting(ctx, ownerID)

	require.NoError(t, err)
	assert.Equal(t, round.ID, result.ID)

	mockRoundRepo.AssertNotCalled(t, "CloseBetting", mock.Anything, mock.Anything, mock.Anything)
}
