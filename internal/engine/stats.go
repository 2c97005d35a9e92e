package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// Stats is the admin dashboard snapshot: the inventory ledger, revenue
// from committed orders, the prioritized pending backlog and the
// merged per-class queues, plus a short tail of recent activity.
type Stats struct {
	TicketClasses   []model.TicketClass   `json:"ticket_classes"`
	TotalRevenue    decimal.Decimal       `json:"total_revenue"`
	CompletedOrders int                   `json:"completed_orders"`
	PendingCount    int                   `json:"pending_count"`
	PendingOrders   []model.Order         `json:"pending_orders"`
	VIPQueue        []QueueEntry          `json:"vip_queue"`
	RegularQueue    []QueueEntry          `json:"regular_queue"`
	VIPWaitlist     []model.WaitlistEntry `json:"vip_waitlist"`
	RegularWaitlist []model.WaitlistEntry `json:"regular_waitlist"`
	RecentOrders    []model.Order         `json:"recent_orders"`
}

// recentOrdersLimit bounds the activity tail on the dashboard.
const recentOrdersLimit = 10

// Stats assembles the dashboard snapshot. Revenue and the completed
// count cover both approved and completed orders, since approval is
// the point where stock is committed. The pending list is ranked by
// tier and the per-class queues merge waitlist entries with pending
// order demand.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	classes, err := e.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	revenue, finished, err := e.orders.RevenueAndFinishedCount(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := e.orders.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	vipWaiting, err := e.waitlist.ListWaiting(ctx, model.TicketVIP)
	if err != nil {
		return nil, err
	}
	regularWaiting, err := e.waitlist.ListWaiting(ctx, model.TicketRegular)
	if err != nil {
		return nil, err
	}
	recent, err := e.orders.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	ranked, vipQueue, regularQueue := AssembleQueues(pending, vipWaiting, regularWaiting)
	return &Stats{
		TicketClasses:   classes,
		TotalRevenue:    revenue,
		CompletedOrders: finished,
		PendingCount:    len(ranked),
		PendingOrders:   ranked,
		VIPQueue:        vipQueue,
		RegularQueue:    regularQueue,
		VIPWaitlist:     vipWaiting,
		RegularWaitlist: regularWaiting,
		RecentOrders:    recent,
	}, nil
}
