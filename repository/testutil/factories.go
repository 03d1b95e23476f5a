package testutil

import (
	"time"

	"casino/domain/entities"
)

// CreateTestOutcome creates a wheel outcome with default values
func CreateTestOutcome(userID int64) *entities.WheelOutcome {
	return &entities.WheelOutcome{
		UserID:           userID,
		OutcomeIndex:     3,
		MultiplierTenths: 20,
		Won:              true,
		Amount:           500,
	}
}

// CreateTestRound creates an open round with a fixed crash multiplier
func CreateTestRound(crashTenths int64) *entities.Round {
	now := time.Now()
	return &entities.Round{
		StartedAt:     now,
		BettingEndsAt: now.Add(30 * time.Second),
		CrashTenths:   crashTenths,
	}
}

// CreateClosedTestRound creates a round whose betting window already elapsed
func CreateClosedTestRound(crashTenths int64) *entities.Round {
	now := time.Now()
	return &entities.Round{
		StartedAt:     now.Add(-60 * time.Second),
		BettingEndsAt: now.Add(-30 * time.Second),
		CrashTenths:   crashTenths,
	}
}
