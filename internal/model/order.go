package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the lifecycle states of an order.  Transitions
// are one-way: pending orders are approved, rejected or completed, and
// only approved/completed orders can be cancelled for a refund.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderCompleted OrderStatus = "completed"
	OrderRejected  OrderStatus = "rejected"
	OrderCancelled OrderStatus = "cancelled"
)

// ActiveOrderStatuses are the states that count against the
// one-active-order-per-user rule at creation time.
var ActiveOrderStatuses = []OrderStatus{OrderPending, OrderApproved, OrderCompleted}

// OrderLine is one aggregated line of an order: a single ticket class
// with a quantity and the unit price frozen at order-creation time.
// Lines are aggregated by class at creation, so an order holds at most
// one line per ticket class.
type OrderLine struct {
	ID              uint64          // order_lines.id
	OrderID         uint64          // order_lines.order_id
	TicketClassID   uint64          // order_lines.ticket_class_id
	Kind            TicketClassKind // joined from ticket_classes.kind
	Quantity        int             // order_lines.quantity
	PriceAtPurchase decimal.Decimal // order_lines.price_at_purchase
}

// Subtotal returns quantity times the frozen unit price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtPurchase.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is one purchase request by one user together with its lines.
// The customer's name and email are denormalized onto the order so the
// admin queue and exports survive account changes.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who placed the order.
//  UserName    – customer display name at creation time.
//  UserEmail   – customer email at creation time.
//  Status      – lifecycle state, see OrderStatus.
//  TotalAmount – sum of line subtotals, derived at creation.
//  AdminNotes  – free text, appended-to on rejection/cancellation.
//  CreatedAt   – creation timestamp.
//  CompletedAt – set when the order is approved or completed (nullable).
//  Lines       – aggregated order lines, owned by the order.
type Order struct {
	ID          uint64          // orders.id
	UserID      uint64          // orders.user_id
	UserName    string          // orders.user_name
	UserEmail   string          // orders.user_email
	Status      OrderStatus     // orders.status
	TotalAmount decimal.Decimal // orders.total_amount
	AdminNotes  string          // orders.admin_notes
	CreatedAt   time.Time       // orders.created_at
	CompletedAt *time.Time      // orders.completed_at (nullable)
	Lines       []OrderLine     // order_lines rows for this order
}

// HasKind reports whether any line of the order is for the given class.
func (o *Order) HasKind(kind TicketClassKind) bool {
	for _, l := range o.Lines {
		if l.Kind == kind {
			return true
		}
	}
	return false
}

// IsMixed reports whether the order spans both ticket classes.
func (o *Order) IsMixed() bool {
	return o.HasKind(TicketVIP) && o.HasKind(TicketRegular)
}

// QuantityOf sums the quantities of all lines for the given class.
func (o *Order) QuantityOf(kind TicketClassKind) int {
	total := 0
	for _, l := range o.Lines {
		if l.Kind == kind {
			total += l.Quantity
		}
	}
	return total
}

// SubtotalOf sums the line subtotals for the given class.
func (o *Order) SubtotalOf(kind TicketClassKind) decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		if l.Kind == kind {
			total = total.Add(l.Subtotal())
		}
	}
	return total
}

// AppendNote adds a note to AdminNotes on its own line.  Existing notes
// are never overwritten; rejection and cancellation reasons accumulate.
func (o *Order) AppendNote(note string) {
	if note == "" {
		return
	}
	if o.AdminNotes == "" {
		o.AdminNotes = note
		return
	}
	o.AdminNotes += "\n" + note
}
