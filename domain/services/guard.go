package services

import (
	"fmt"
	"sync/atomic"

	"casino/domain/entities"
)

// ReentrancyGuard is the process-wide non-reentrant lock around every
// balance-mutating entry point. A fund transfer can run recipient-side code
// before returning; the guard keeps such a callback from re-invoking an
// operation while ledger state is mid-update.
type ReentrancyGuard struct {
	locked atomic.Bool
}

// NewReentrancyGuard creates a guard in the unlocked state.
func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{}
}

// Enter acquires the guard. It fails with ErrReentrancy instead of blocking:
// a second acquisition during one operation is always a bug or an attack,
// never a caller to wait for.
func (g *ReentrancyGuard) Enter() error {
	if !g.locked.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: balance-mutating operation already in flight", entities.ErrReentrancy)
	}
	return nil
}

// Exit releases the guard. Must run on every exit path, including failures.
func (g *ReentrancyGuard) Exit() {
	g.locked.Store(false)
}
