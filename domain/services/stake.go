package services

import (
	"fmt"

	"casino/domain/entities"
)

// ValidateStake checks a wager against the table limits. The debited amount
// must match the declared bet exactly; a mismatch means the stake transfer
// and the bet disagree and the whole operation must abort.
func ValidateStake(betAmount, debitedAmount, minBet, maxBet int64) error {
	if debitedAmount != betAmount {
		return fmt.Errorf("%w: debited %d does not match declared bet %d",
			entities.ErrInvalidBet, debitedAmount, betAmount)
	}
	if betAmount < minBet || betAmount > maxBet {
		return fmt.Errorf("%w: amount %d outside limits [%d, %d]",
			entities.ErrInvalidBet, betAmount, minBet, maxBet)
	}
	return nil
}
