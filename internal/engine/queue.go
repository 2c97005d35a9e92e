package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// QueueSource tells whether a queue entry originates from a pending
// order or from a standalone waitlist entry.
type QueueSource string

const (
	QueueSourceOrder    QueueSource = "order"
	QueueSourceWaitlist QueueSource = "waitlist"
)

// QueueEntry is one row of an admin-facing class queue. Order-backed
// entries expose only the quantity and subtotal for the queue's own
// class; a mixed order therefore appears in both queues with different
// per-class figures but the same order id.
type QueueEntry struct {
	Source            QueueSource     `json:"type"`
	ID                uint64          `json:"id"`
	UserName          string          `json:"user_name"`
	UserEmail         string          `json:"user_email"`
	RequestedQuantity int             `json:"requested_quantity"`
	JoinedAt          time.Time       `json:"joined_at"`
	OrderTotal        decimal.Decimal `json:"order_total"`
	ItemTotal         decimal.Decimal `json:"item_total"`
	Priority          string          `json:"priority"`
	Mixed             bool            `json:"is_mixed"`
}

// partitionPending splits pending orders into three buckets by which
// classes their lines touch, each bucket sorted by creation time
// ascending.
func partitionPending(pending []model.Order) (vipOnly, mixed, regularOnly []model.Order) {
	for _, o := range pending {
		hasVIP := o.HasKind(model.TicketVIP)
		hasRegular := o.HasKind(model.TicketRegular)
		switch {
		case hasVIP && hasRegular:
			mixed = append(mixed, o)
		case hasVIP:
			vipOnly = append(vipOnly, o)
		default:
			regularOnly = append(regularOnly, o)
		}
	}
	byCreation := func(orders []model.Order) {
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		})
	}
	byCreation(vipOnly)
	byCreation(mixed)
	byCreation(regularOnly)
	return vipOnly, mixed, regularOnly
}

// RankPendingOrders produces the admin approval list: VIP-only orders
// first, then mixed orders, then Regular-only orders, each tier sorted
// by creation time. Tier precedence overrides timestamps across tiers;
// pure VIP intent outranks a mixed request even when the mixed order
// is older.
func RankPendingOrders(pending []model.Order) []model.Order {
	vipOnly, mixed, regularOnly := partitionPending(pending)
	ranked := make([]model.Order, 0, len(pending))
	ranked = append(ranked, vipOnly...)
	ranked = append(ranked, mixed...)
	ranked = append(ranked, regularOnly...)
	return ranked
}

// classQueue builds the queue for one ticket class from the waiting
// waitlist entries and the tier-ordered pending orders that touch the
// class. The merged result is re-sorted by a single timestamp key
// (order creation time or waitlist join time); the sort is stable so
// the tier order still governs between equal timestamps.
func classQueue(kind model.TicketClassKind, priority string, tierOrders []model.Order, waiting []model.WaitlistEntry) []QueueEntry {
	entries := make([]QueueEntry, 0, len(waiting)+len(tierOrders))
	for _, w := range waiting {
		entries = append(entries, QueueEntry{
			Source:            QueueSourceWaitlist,
			ID:                w.ID,
			UserName:          w.UserName,
			UserEmail:         w.UserEmail,
			RequestedQuantity: w.RequestedQuantity,
			JoinedAt:          w.JoinedAt,
			OrderTotal:        decimal.Zero,
			ItemTotal:         decimal.Zero,
			Priority:          priority,
			Mixed:             false,
		})
	}
	for _, o := range tierOrders {
		quantity := o.QuantityOf(kind)
		if quantity == 0 {
			continue
		}
		entries = append(entries, QueueEntry{
			Source:            QueueSourceOrder,
			ID:                o.ID,
			UserName:          o.UserName,
			UserEmail:         o.UserEmail,
			RequestedQuantity: quantity,
			JoinedAt:          o.CreatedAt,
			OrderTotal:        o.TotalAmount,
			ItemTotal:         o.SubtotalOf(kind),
			Priority:          priority,
			Mixed:             o.IsMixed(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})
	return entries
}

// AssembleQueues derives the three admin-facing views from the current
// pending orders and waiting waitlist entries: the ranked approval
// list and the per-class VIP and Regular queues. The derivation is
// pure and read-only; its output can be stale relative to concurrent
// approvals, which is why approval re-validates stock at commit time.
func AssembleQueues(pending []model.Order, vipWaiting, regularWaiting []model.WaitlistEntry) (ranked []model.Order, vipQueue, regularQueue []QueueEntry) {
	vipOnly, mixed, regularOnly := partitionPending(pending)

	ranked = make([]model.Order, 0, len(pending))
	ranked = append(ranked, vipOnly...)
	ranked = append(ranked, mixed...)
	ranked = append(ranked, regularOnly...)

	vipTier := append(append([]model.Order{}, vipOnly...), mixed...)
	regularTier := append(append([]model.Order{}, regularOnly...), mixed...)

	vipQueue = classQueue(model.TicketVIP, "VIP", vipTier, vipWaiting)
	regularQueue = classQueue(model.TicketRegular, "Regular", regularTier, regularWaiting)
	return ranked, vipQueue, regularQueue
}
