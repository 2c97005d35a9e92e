package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketClassKind(t *testing.T) {
	for _, in := range []string{"VIP", "vip", " Vip "} {
		kind, ok := ParseTicketClassKind(in)
		require.True(t, ok, in)
		assert.Equal(t, TicketVIP, kind)
	}
	kind, ok := ParseTicketClassKind("regular")
	require.True(t, ok)
	assert.Equal(t, TicketRegular, kind)

	for _, in := range []string{"", "PREMIUM", "VIPP"} {
		_, ok := ParseTicketClassKind(in)
		assert.False(t, ok, in)
	}
}

func TestReserveConservesTotal(t *testing.T) {
	tc := TicketClass{Kind: TicketVIP, Available: 10, Sold: 3}
	total := tc.Available + tc.Sold

	require.NoError(t, tc.Reserve(4))
	assert.Equal(t, 6, tc.Available)
	assert.Equal(t, 7, tc.Sold)
	assert.Equal(t, total, tc.Available+tc.Sold)

	tc.Release(2)
	assert.Equal(t, 8, tc.Available)
	assert.Equal(t, 5, tc.Sold)
	assert.Equal(t, total, tc.Available+tc.Sold)
}

func TestReserveExactRemainingStock(t *testing.T) {
	tc := TicketClass{Kind: TicketRegular, Available: 5}
	require.NoError(t, tc.Reserve(5))
	assert.Equal(t, 0, tc.Available)
	assert.Equal(t, 5, tc.Sold)
}

func TestReserveInsufficient(t *testing.T) {
	tc := TicketClass{Kind: TicketVIP, Available: 2, Sold: 1}
	err := tc.Reserve(3)
	require.Error(t, err)
	// No partial mutation on failure.
	assert.Equal(t, 2, tc.Available)
	assert.Equal(t, 1, tc.Sold)
}

func TestReserveRejectsNonPositive(t *testing.T) {
	tc := TicketClass{Available: 5}
	assert.Error(t, tc.Reserve(0))
	assert.Error(t, tc.Reserve(-1))
	assert.Equal(t, 5, tc.Available)
}

func TestReleaseFloorsSoldAtZero(t *testing.T) {
	tc := TicketClass{Available: 1, Sold: 2}
	tc.Release(5)
	assert.Equal(t, 6, tc.Available)
	assert.Equal(t, 0, tc.Sold)
}

func TestReleaseIgnoresNonPositive(t *testing.T) {
	tc := TicketClass{Available: 1, Sold: 2}
	tc.Release(0)
	tc.Release(-3)
	assert.Equal(t, 1, tc.Available)
	assert.Equal(t, 2, tc.Sold)
}

func TestAdjustAvailable(t *testing.T) {
	tc := TicketClass{Available: 10}
	require.NoError(t, tc.AdjustAvailable(-4))
	assert.Equal(t, 6, tc.Available)

	err := tc.AdjustAvailable(-7)
	require.Error(t, err)
	assert.Equal(t, 6, tc.Available, "failed adjustment must not mutate")

	require.NoError(t, tc.AdjustAvailable(-6))
	assert.Equal(t, 0, tc.Available)
}

func TestSetAvailable(t *testing.T) {
	tc := TicketClass{Available: 10, Sold: 4}
	require.NoError(t, tc.SetAvailable(0))
	assert.Equal(t, 0, tc.Available)
	assert.Equal(t, 4, tc.Sold, "set only touches availability")

	assert.Error(t, tc.SetAvailable(-1))
	assert.Equal(t, 0, tc.Available)
}

func TestOrderLineSubtotal(t *testing.T) {
	l := OrderLine{Quantity: 3, PriceAtPurchase: decimal.RequireFromString("85.00")}
	assert.True(t, l.Subtotal().Equal(decimal.RequireFromString("255.00")))
}
