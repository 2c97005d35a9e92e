package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

var queueBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func pendingOrder(id uint64, createdOffset time.Duration, vipQty, regularQty int) model.Order {
	o := model.Order{
		ID:        id,
		UserName:  "user",
		Status:    model.OrderPending,
		CreatedAt: queueBase.Add(createdOffset),
	}
	if vipQty > 0 {
		o.Lines = append(o.Lines, model.OrderLine{
			Kind: model.TicketVIP, Quantity: vipQty,
			PriceAtPurchase: decimal.RequireFromString("100.00"),
		})
	}
	if regularQty > 0 {
		o.Lines = append(o.Lines, model.OrderLine{
			Kind: model.TicketRegular, Quantity: regularQty,
			PriceAtPurchase: decimal.RequireFromString("85.00"),
		})
	}
	for _, l := range o.Lines {
		o.TotalAmount = o.TotalAmount.Add(l.Subtotal())
	}
	return o
}

func orderIDs(orders []model.Order) []uint64 {
	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func entryIDs(entries []QueueEntry) []uint64 {
	ids := make([]uint64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestRankPendingOrdersTierPrecedence(t *testing.T) {
	// The mixed order is the oldest, the VIP-only the newest: tier still
	// wins over age across tiers.
	mixed := pendingOrder(1, 0, 1, 1)
	regular := pendingOrder(2, 1*time.Minute, 0, 2)
	vip := pendingOrder(3, 2*time.Minute, 2, 0)

	ranked := RankPendingOrders([]model.Order{mixed, regular, vip})
	assert.Equal(t, []uint64{3, 1, 2}, orderIDs(ranked))
}

func TestRankPendingOrdersSortsWithinTier(t *testing.T) {
	v1 := pendingOrder(1, 5*time.Minute, 1, 0)
	v2 := pendingOrder(2, 1*time.Minute, 1, 0)
	r1 := pendingOrder(3, 4*time.Minute, 0, 1)
	r2 := pendingOrder(4, 2*time.Minute, 0, 1)

	ranked := RankPendingOrders([]model.Order{v1, r1, v2, r2})
	assert.Equal(t, []uint64{2, 1, 4, 3}, orderIDs(ranked))
}

func TestAssembleQueuesMixedOrderAppearsInBoth(t *testing.T) {
	mixed := pendingOrder(1, 0, 2, 3)
	_, vipQueue, regularQueue := AssembleQueues([]model.Order{mixed}, nil, nil)

	require.Len(t, vipQueue, 1)
	require.Len(t, regularQueue, 1)

	assert.Equal(t, QueueSourceOrder, vipQueue[0].Source)
	assert.Equal(t, 2, vipQueue[0].RequestedQuantity)
	assert.True(t, vipQueue[0].ItemTotal.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, vipQueue[0].Mixed)
	assert.Equal(t, "VIP", vipQueue[0].Priority)

	assert.Equal(t, 3, regularQueue[0].RequestedQuantity)
	assert.True(t, regularQueue[0].ItemTotal.Equal(decimal.RequireFromString("255.00")))
	assert.Equal(t, "Regular", regularQueue[0].Priority)

	// Both entries reference the same order and its full total.
	assert.Equal(t, vipQueue[0].ID, regularQueue[0].ID)
	assert.True(t, vipQueue[0].OrderTotal.Equal(regularQueue[0].OrderTotal))
}

func TestAssembleQueuesMergesWaitlistByTimestamp(t *testing.T) {
	older := pendingOrder(1, 0, 1, 0)
	newer := pendingOrder(2, 10*time.Minute, 1, 0)
	waiting := []model.WaitlistEntry{{
		ID:                7,
		UserName:          "waiter",
		Kind:              model.TicketVIP,
		RequestedQuantity: 4,
		Status:            model.WaitlistWaiting,
		JoinedAt:          queueBase.Add(5 * time.Minute),
	}}

	_, vipQueue, _ := AssembleQueues([]model.Order{newer, older}, waiting, nil)
	require.Len(t, vipQueue, 3)

	// Final per-class ordering is by timestamp, interleaving sources.
	assert.Equal(t, []uint64{1, 7, 2}, entryIDs(vipQueue))
	assert.Equal(t, QueueSourceWaitlist, vipQueue[1].Source)
	assert.True(t, vipQueue[1].OrderTotal.IsZero())
}

func TestAssembleQueuesSkipsZeroQuantitySides(t *testing.T) {
	vipOnly := pendingOrder(1, 0, 2, 0)
	_, vipQueue, regularQueue := AssembleQueues([]model.Order{vipOnly}, nil, nil)
	assert.Len(t, vipQueue, 1)
	assert.Empty(t, regularQueue, "a VIP-only order must not appear in the Regular queue")
}

func TestAssembleQueuesRankedMatchesRankPendingOrders(t *testing.T) {
	orders := []model.Order{
		pendingOrder(1, 3*time.Minute, 0, 1),
		pendingOrder(2, 1*time.Minute, 1, 1),
		pendingOrder(3, 2*time.Minute, 1, 0),
	}
	ranked, _, _ := AssembleQueues(orders, nil, nil)
	assert.Equal(t, orderIDs(RankPendingOrders(orders)), orderIDs(ranked))
}

func TestAssembleQueuesEmptyInput(t *testing.T) {
	ranked, vipQueue, regularQueue := AssembleQueues(nil, nil, nil)
	assert.Empty(t, ranked)
	assert.Empty(t, vipQueue)
	assert.Empty(t, regularQueue)
}
