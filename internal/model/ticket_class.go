package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TicketClassKind identifies one of the two ticket categories sold for
// the event.  Each kind has its own inventory ledger row with
// independent price and stock counters.
type TicketClassKind string

const (
	TicketVIP     TicketClassKind = "VIP"
	TicketRegular TicketClassKind = "REGULAR"
)

// ParseTicketClassKind normalizes a user-supplied ticket class name.
// It accepts any casing and returns false when the value is not a
// known class.
func ParseTicketClassKind(s string) (TicketClassKind, bool) {
	switch TicketClassKind(strings.ToUpper(strings.TrimSpace(s))) {
	case TicketVIP:
		return TicketVIP, true
	case TicketRegular:
		return TicketRegular, true
	}
	return "", false
}

// TicketClass is the inventory ledger row for one ticket class.  The
// Available and Sold counters are the only mutable stock state in the
// system.  Available + Sold is conserved by Reserve and Release; only
// an explicit restock changes the total.
//
// Fields:
//  ID        – primary key identifier.
//  Kind      – VIP or REGULAR.
//  Price     – current unit price; snapshotted into order lines at
//              order creation so later changes never alter outstanding
//              orders.
//  Available – tickets still on sale; never negative.
//  Sold      – tickets committed to approved/completed orders; never
//              negative.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type TicketClass struct {
	ID        uint64          // ticket_classes.id
	Kind      TicketClassKind // ticket_classes.kind
	Price     decimal.Decimal // ticket_classes.price
	Available int             // ticket_classes.available_quantity
	Sold      int             // ticket_classes.sold_quantity
	CreatedAt time.Time       // ticket_classes.created_at
	UpdatedAt time.Time       // ticket_classes.updated_at
}

// Reserve moves quantity tickets from available to sold.  It is the
// commit half of an order approval or completion and requires the full
// quantity to be available; partial reservation is never performed.
func (t *TicketClass) Reserve(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}
	if t.Available < quantity {
		return fmt.Errorf("insufficient %s tickets: requested %d, only %d available", t.Kind, quantity, t.Available)
	}
	t.Available -= quantity
	t.Sold += quantity
	return nil
}

// Release is the inverse of Reserve, used on cancellation and refund.
// Sold is floored at zero so a release can never drive the counter
// negative even if bookkeeping drifted.
func (t *TicketClass) Release(quantity int) {
	if quantity < 1 {
		return
	}
	t.Available += quantity
	t.Sold -= quantity
	if t.Sold < 0 {
		t.Sold = 0
	}
}

// AdjustAvailable applies a signed restock delta to the available
// counter.  The adjustment is rejected without mutation when it would
// leave availability negative.
func (t *TicketClass) AdjustAvailable(delta int) error {
	next := t.Available + delta
	if next < 0 {
		return fmt.Errorf("available quantity cannot be negative")
	}
	t.Available = next
	return nil
}

// SetAvailable replaces the available counter with an absolute value.
func (t *TicketClass) SetAvailable(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("available quantity cannot be negative")
	}
	t.Available = quantity
	return nil
}
