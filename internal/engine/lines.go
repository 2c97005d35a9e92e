package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// LineRequest is one raw item of an order creation request: a ticket
// class name as supplied by the client and a quantity. Duplicate
// classes are merged during aggregation.
type LineRequest struct {
	TicketClass string `json:"ticket_class"`
	Quantity    int    `json:"quantity"`
}

// aggregateLines merges the raw requests into at most one order line
// per ticket class, validates each aggregated quantity against the
// current availability snapshot, freezes unit prices into the lines
// and computes the order total. Requests with quantity below one are
// skipped; if nothing remains, the order is rejected. The availability
// check is point-in-time only: no stock is reserved here, approval
// re-validates at commit time.
func aggregateLines(requests []LineRequest, classes map[model.TicketClassKind]*model.TicketClass) ([]model.OrderLine, decimal.Decimal, error) {
	type bucket struct {
		class    *model.TicketClass
		quantity int
	}
	order := make([]model.TicketClassKind, 0, 2)
	buckets := make(map[model.TicketClassKind]*bucket, 2)
	for _, req := range requests {
		if req.Quantity < 1 {
			continue
		}
		kind, ok := model.ParseTicketClassKind(req.TicketClass)
		if !ok {
			return nil, decimal.Zero, validationf("unknown ticket class %q", req.TicketClass)
		}
		class, ok := classes[kind]
		if !ok {
			return nil, decimal.Zero, validationf("ticket class %s not found", kind)
		}
		b, ok := buckets[kind]
		if !ok {
			b = &bucket{class: class}
			buckets[kind] = b
			order = append(order, kind)
		}
		b.quantity += req.Quantity
		// Combined quantity must not exceed availability; an exact match
		// against remaining stock is allowed.
		if b.quantity > class.Available {
			return nil, decimal.Zero, validationf("not enough %s tickets available", kind)
		}
	}
	if len(buckets) == 0 {
		return nil, decimal.Zero, validationf("at least 1 ticket required")
	}
	lines := make([]model.OrderLine, 0, len(order))
	total := decimal.Zero
	for _, kind := range order {
		b := buckets[kind]
		line := model.OrderLine{
			TicketClassID:   b.class.ID,
			Kind:            kind,
			Quantity:        b.quantity,
			PriceAtPurchase: b.class.Price,
		}
		lines = append(lines, line)
		total = total.Add(line.Subtotal())
	}
	return lines, total, nil
}

// findShortfall re-validates every line of an order against current
// availability and returns the first shortfall, or nil when the whole
// order can be committed. Quantity checks use strict "would exceed
// available" so exact-match requests succeed.
func findShortfall(lines []model.OrderLine, classes map[model.TicketClassKind]*model.TicketClass) *InsufficientStockError {
	for _, l := range lines {
		class, ok := classes[l.Kind]
		if !ok {
			return &InsufficientStockError{Kind: l.Kind, Requested: l.Quantity, Available: 0}
		}
		if class.Available < l.Quantity {
			return &InsufficientStockError{Kind: l.Kind, Requested: l.Quantity, Available: class.Available}
		}
	}
	return nil
}

// autoRejectNote builds the generated note recorded on an order that
// is automatically rejected during approval because stock ran out.
// The "Auto-rejected" prefix keeps it distinguishable from manual
// rejection notes.
func autoRejectNote(shortfall *InsufficientStockError) string {
	return fmt.Sprintf("Auto-rejected: Insufficient %s tickets available. Requested %d, only %d available.",
		shortfall.Kind, shortfall.Requested, shortfall.Available)
}

// cancellationNote builds the timestamped note appended when a user
// cancels an order for a refund.
func cancellationNote(now time.Time) string {
	return fmt.Sprintf("[User cancelled for refund on %s]", now.UTC().Format("2006-01-02 15:04"))
}
