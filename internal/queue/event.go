// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderApprovedEvent is published when an order's stock has been
// reserved, whether by explicit approval or by direct completion. It
// carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type OrderApprovedEvent struct {
	OrderID     uint64           `json:"order_id"`
	UserID      uint64           `json:"user_id"`
	UserName    string           `json:"user_name"`
	UserEmail   string           `json:"user_email"`
	Status      string           `json:"status"`
	Lines       []OrderEventLine `json:"lines"`
	TotalAmount string           `json:"total_amount"`
	ApprovedAt  string           `json:"approved_at"`
}

// OrderEventLine is one ticket class line within an order event.
type OrderEventLine struct {
	TicketClass     string `json:"ticket_class"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
}

// OrderCancelledEvent is published when a user cancels an approved or
// completed order for a refund and the stock is returned to the pool.
type OrderCancelledEvent struct {
	OrderID      uint64           `json:"order_id"`
	UserID       uint64           `json:"user_id"`
	UserName     string           `json:"user_name"`
	UserEmail    string           `json:"user_email"`
	Lines        []OrderEventLine `json:"lines"`
	RefundAmount string           `json:"refund_amount"`
	CancelledAt  string           `json:"cancelled_at"`
}
