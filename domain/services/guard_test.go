package services

import (
	"testing"

	"casino/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReentrancyGuard_EnterExit(t *testing.T) {
	guard := NewReentrancyGuard()

	require.NoError(t, guard.Enter())

	// Second acquisition while held must fail, not block
	err := guard.Enter()
	assert.ErrorIs(t, err, entities.ErrReentrancy)

	guard.Exit()

	// Released guard can be acquired again
	assert.NoError(t, guard.Enter())
	guard.Exit()
}

func TestReentrancyGuard_ExitRestoresCleanState(t *testing.T) {
	guard := NewReentrancyGuard()

	for i := 0; i < 100; i++ {
		require.NoError(t, guard.Enter())
		guard.Exit()
	}
}
