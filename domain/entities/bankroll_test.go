package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBankroll_Available(t *testing.T) {
	tests := []struct {
		name     string
		held     int64
		pending  int64
		expected int64
	}{
		{"empty bankroll", 0, 0, 0},
		{"no escrow", 10_000, 0, 10_000},
		{"partial escrow", 10_000, 3_000, 7_000},
		{"fully escrowed", 10_000, 10_000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bankroll{HeldBalance: tt.held, TotalPending: tt.pending}
			assert.Equal(t, tt.expected, b.Available())
		})
	}
}

func TestBankroll_CanCover(t *testing.T) {
	b := Bankroll{HeldBalance: 10_000, TotalPending: 3_000}

	assert.True(t, b.CanCover(7_000))
	assert.True(t, b.CanCover(1))
	assert.False(t, b.CanCover(7_001))
}
