package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

func testClasses() map[model.TicketClassKind]*model.TicketClass {
	return map[model.TicketClassKind]*model.TicketClass{
		model.TicketVIP: {
			ID:        1,
			Kind:      model.TicketVIP,
			Price:     decimal.RequireFromString("100.00"),
			Available: 50,
		},
		model.TicketRegular: {
			ID:        2,
			Kind:      model.TicketRegular,
			Price:     decimal.RequireFromString("85.00"),
			Available: 30,
		},
	}
}

func TestAggregateLinesMergesDuplicateClasses(t *testing.T) {
	lines, total, err := aggregateLines([]LineRequest{
		{TicketClass: "VIP", Quantity: 2},
		{TicketClass: "regular", Quantity: 1},
		{TicketClass: "vip", Quantity: 3},
	}, testClasses())
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// First-seen class order is preserved.
	assert.Equal(t, model.TicketVIP, lines[0].Kind)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, uint64(1), lines[0].TicketClassID)
	assert.Equal(t, model.TicketRegular, lines[1].Kind)
	assert.Equal(t, 1, lines[1].Quantity)

	assert.True(t, total.Equal(decimal.RequireFromString("585.00")))
}

func TestAggregateLinesSnapshotsPrices(t *testing.T) {
	classes := testClasses()
	lines, _, err := aggregateLines([]LineRequest{{TicketClass: "VIP", Quantity: 1}}, classes)
	require.NoError(t, err)

	// A later price change must not affect the frozen line price.
	classes[model.TicketVIP].Price = decimal.RequireFromString("250.00")
	assert.True(t, lines[0].PriceAtPurchase.Equal(decimal.RequireFromString("100.00")))
}

func TestAggregateLinesSkipsNonPositiveQuantities(t *testing.T) {
	lines, _, err := aggregateLines([]LineRequest{
		{TicketClass: "VIP", Quantity: 0},
		{TicketClass: "VIP", Quantity: -2},
		{TicketClass: "REGULAR", Quantity: 2},
	}, testClasses())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, model.TicketRegular, lines[0].Kind)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAggregateLinesEmptyOrder(t *testing.T) {
	var vErr *ValidationError

	_, _, err := aggregateLines(nil, testClasses())
	require.ErrorAs(t, err, &vErr)

	_, _, err = aggregateLines([]LineRequest{{TicketClass: "VIP", Quantity: 0}}, testClasses())
	require.ErrorAs(t, err, &vErr, "all-zero quantities collapse to an empty order")
}

func TestAggregateLinesUnknownClass(t *testing.T) {
	var vErr *ValidationError
	_, _, err := aggregateLines([]LineRequest{{TicketClass: "PREMIUM", Quantity: 1}}, testClasses())
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "PREMIUM")
}

func TestAggregateLinesOverAvailability(t *testing.T) {
	classes := testClasses()
	classes[model.TicketRegular].Available = 4

	var vErr *ValidationError
	_, _, err := aggregateLines([]LineRequest{
		{TicketClass: "REGULAR", Quantity: 3},
		{TicketClass: "REGULAR", Quantity: 2}, // combined 5 > 4
	}, classes)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "REGULAR")
}

func TestAggregateLinesExactAvailability(t *testing.T) {
	classes := testClasses()
	classes[model.TicketVIP].Available = 5
	lines, _, err := aggregateLines([]LineRequest{{TicketClass: "VIP", Quantity: 5}}, classes)
	require.NoError(t, err)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestFindShortfall(t *testing.T) {
	classes := testClasses()
	lines := []model.OrderLine{
		{Kind: model.TicketVIP, Quantity: 10},
		{Kind: model.TicketRegular, Quantity: 10},
	}
	assert.Nil(t, findShortfall(lines, classes))

	classes[model.TicketRegular].Available = 7
	shortfall := findShortfall(lines, classes)
	require.NotNil(t, shortfall)
	assert.Equal(t, model.TicketRegular, shortfall.Kind)
	assert.Equal(t, 10, shortfall.Requested)
	assert.Equal(t, 7, shortfall.Available)
}

func TestFindShortfallExactMatchIsNotShort(t *testing.T) {
	classes := testClasses()
	classes[model.TicketVIP].Available = 3
	lines := []model.OrderLine{{Kind: model.TicketVIP, Quantity: 3}}
	assert.Nil(t, findShortfall(lines, classes))
}

func TestAutoRejectNoteFormat(t *testing.T) {
	note := autoRejectNote(&InsufficientStockError{
		Kind:      model.TicketVIP,
		Requested: 6,
		Available: 2,
	})
	assert.Equal(t, "Auto-rejected: Insufficient VIP tickets available. Requested 6, only 2 available.", note)
}

func TestCancellationNoteFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "[User cancelled for refund on 2025-03-14 09:26]", cancellationNote(now))
}
