package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mixedOrder() *Order {
	return &Order{
		Lines: []OrderLine{
			{Kind: TicketVIP, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("100.00")},
			{Kind: TicketRegular, Quantity: 3, PriceAtPurchase: decimal.RequireFromString("85.00")},
		},
	}
}

func TestOrderKindHelpers(t *testing.T) {
	o := mixedOrder()
	assert.True(t, o.HasKind(TicketVIP))
	assert.True(t, o.HasKind(TicketRegular))
	assert.True(t, o.IsMixed())

	vipOnly := &Order{Lines: []OrderLine{{Kind: TicketVIP, Quantity: 1}}}
	assert.True(t, vipOnly.HasKind(TicketVIP))
	assert.False(t, vipOnly.HasKind(TicketRegular))
	assert.False(t, vipOnly.IsMixed())
}

func TestOrderQuantityAndSubtotal(t *testing.T) {
	o := mixedOrder()
	assert.Equal(t, 2, o.QuantityOf(TicketVIP))
	assert.Equal(t, 3, o.QuantityOf(TicketRegular))
	assert.True(t, o.SubtotalOf(TicketVIP).Equal(decimal.RequireFromString("200.00")))
	assert.True(t, o.SubtotalOf(TicketRegular).Equal(decimal.RequireFromString("255.00")))
}

func TestAppendNoteAccumulates(t *testing.T) {
	o := &Order{}
	o.AppendNote("first reason")
	assert.Equal(t, "first reason", o.AdminNotes)

	o.AppendNote("second reason")
	assert.Equal(t, "first reason\nsecond reason", o.AdminNotes)

	o.AppendNote("")
	assert.Equal(t, "first reason\nsecond reason", o.AdminNotes, "empty note is a no-op")
}
