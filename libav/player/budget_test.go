package player

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameBudgetUnlimited(t *testing.T) {
	b := NewFrameBudget(int64(FrameBudgetUnlimited))
	for i := 0; i < 1000; i++ {
		require.False(t, b.ConsumeOne(), "iteration %d", i)
	}
}

func TestFrameBudgetCountsDown(t *testing.T) {
	b := NewFrameBudget(3)
	require.False(t, b.ConsumeOne())
	require.False(t, b.ConsumeOne())
	require.True(t, b.ConsumeOne())
	require.True(t, b.ConsumeOne())
}

func TestFrameBudgetZeroStopsAfterFirstFrame(t *testing.T) {
	b := NewFrameBudget(0)
	require.True(t, b.ConsumeOne())
	require.True(t, b.ConsumeOne())
}
