package services

import (
	"context"
	"fmt"

	"casino/domain/interfaces"
)

// walletFundGateway realizes house payouts as wallet credits in the same
// transaction. It is the default FundGateway; anything more exotic (an
// external payment rail, a notifying recipient) plugs in behind the same
// interface.
type walletFundGateway struct {
	wallets interfaces.WalletRepository
}

// NewWalletFundGateway creates a gateway that credits user wallets directly.
func NewWalletFundGateway(wallets interfaces.WalletRepository) interfaces.FundGateway {
	return &walletFundGateway{wallets: wallets}
}

func (g *walletFundGateway) Transfer(ctx context.Context, userID int64, amount int64) error {
	if err := g.wallets.Credit(ctx, userID, amount); err != nil {
		return fmt.Errorf("failed to credit wallet of user %d: %w", userID, err)
	}
	return nil
}
