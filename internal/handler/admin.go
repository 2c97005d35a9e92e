package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/engine"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/monitoring"
	queue_publisher "github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/service"
)

// AdminHandler serves the admin surface: the dashboard, order review,
// restocking, waitlist fulfillment and the reset operations.  Routes
// using it sit behind JWTAuth plus RequireRole("ADMIN").
type AdminHandler struct {
	Engine *engine.Engine
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(eng *engine.Engine) *AdminHandler {
	if eng == nil {
		panic("nil engine passed to NewAdminHandler")
	}
	return &AdminHandler{Engine: eng}
}

type queueEntryView = engine.QueueEntry

type statsResp struct {
	TicketClasses   []ticketClassView `json:"ticket_classes"`
	TotalRevenue    string            `json:"total_revenue"`
	CompletedOrders int               `json:"completed_orders"`
	PendingCount    int               `json:"pending_count"`
	PendingOrders   []orderView       `json:"pending_orders"`
	VIPQueue        []queueEntryView  `json:"vip_queue"`
	RegularQueue    []queueEntryView  `json:"regular_queue"`
	VIPWaitlist     []waitlistView    `json:"vip_waitlist"`
	RegularWaitlist []waitlistView    `json:"regular_waitlist"`
	RecentOrders    []orderView       `json:"recent_orders"`
}

// Stats handles GET /v1/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Engine.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, statsResp{
		TicketClasses:   viewTicketClasses(s.TicketClasses),
		TotalRevenue:    s.TotalRevenue.StringFixed(2),
		CompletedOrders: s.CompletedOrders,
		PendingCount:    s.PendingCount,
		PendingOrders:   viewOrders(s.PendingOrders),
		VIPQueue:        s.VIPQueue,
		RegularQueue:    s.RegularQueue,
		VIPWaitlist:     viewWaitlist(s.VIPWaitlist),
		RegularWaitlist: viewWaitlist(s.RegularWaitlist),
		RecentOrders:    viewOrders(s.RecentOrders),
	})
}

// ListOrders handles GET /v1/admin/orders with an optional ?status=
// filter.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	var status *model.OrderStatus
	if s := c.QueryParam("status"); s != "" {
		st := model.OrderStatus(s)
		switch st {
		case model.OrderPending, model.OrderApproved, model.OrderCompleted, model.OrderRejected, model.OrderCancelled:
			status = &st
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
	}
	orders, err := h.Engine.ListOrders(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": viewOrders(orders)})
}

type reviewReq struct {
	Notes string `json:"notes"`
}

// ApproveOrder handles POST /v1/admin/orders/:id/approve.  When stock
// ran out since the order was placed, the order comes back auto-rejected
// and the response is a 409 carrying the rejected order.
func (h *AdminHandler) ApproveOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req reviewReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Engine.ApproveOrder(ctx, orderID, req.Notes)
	if err != nil {
		var sErr *engine.InsufficientStockError
		if errors.As(err, &sErr) && order != nil {
			monitoring.TrackOrderTransition(string(order.Status))
			return c.JSON(http.StatusConflict, echo.Map{
				"error":        sErr.Error(),
				"ticket_class": string(sErr.Kind),
				"requested":    sErr.Requested,
				"available":    sErr.Available,
				"order":        viewOrder(order),
			})
		}
		return engineError(c, err)
	}
	monitoring.TrackOrderTransition(string(order.Status))
	for _, line := range order.Lines {
		monitoring.TrackTicketsReserved(string(line.Kind), line.Quantity)
	}
	_ = queue_publisher.PublishOrderApproved(c.Request().Context(), order)

	return c.JSON(http.StatusOK, viewOrder(order))
}

// RejectOrder handles POST /v1/admin/orders/:id/reject.
func (h *AdminHandler) RejectOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req reviewReq
	_ = c.Bind(&req)

	order, err := h.Engine.RejectOrder(c.Request().Context(), orderID, req.Notes)
	if err != nil {
		return engineError(c, err)
	}
	monitoring.TrackOrderTransition(string(order.Status))
	return c.JSON(http.StatusOK, viewOrder(order))
}

// CompleteOrder handles POST /v1/admin/orders/:id/complete, the direct
// path that reserves and finalizes in one step.
func (h *AdminHandler) CompleteOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Engine.CompleteOrder(ctx, orderID)
	if err != nil {
		return engineError(c, err)
	}
	monitoring.TrackOrderTransition(string(order.Status))
	for _, line := range order.Lines {
		monitoring.TrackTicketsReserved(string(line.Kind), line.Quantity)
	}
	_ = queue_publisher.PublishOrderApproved(c.Request().Context(), order)

	return c.JSON(http.StatusOK, viewOrder(order))
}

type restockReq struct {
	TicketClass string           `json:"ticket_class"`
	Price       *decimal.Decimal `json:"price"`
	AddQuantity *int             `json:"add_quantity"`
	SetQuantity *int             `json:"set_quantity"`
}

// Restock handles POST /v1/admin/restock.
func (h *AdminHandler) Restock(c echo.Context) error {
	var req restockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	class, err := h.Engine.Restock(c.Request().Context(), engine.RestockParams{
		TicketClass: req.TicketClass,
		Price:       req.Price,
		AddQuantity: req.AddQuantity,
		SetQuantity: req.SetQuantity,
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, ticketClassView{
		ID:        class.ID,
		Kind:      string(class.Kind),
		Price:     class.Price.StringFixed(2),
		Available: class.Available,
		Sold:      class.Sold,
	})
}

// FulfillWaitlist handles POST /v1/admin/waitlist/:id/fulfill.
func (h *AdminHandler) FulfillWaitlist(c echo.Context) error {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || entryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid waitlist entry id"})
	}
	entry, err := h.Engine.FulfillWaitlistEntry(c.Request().Context(), entryID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, viewWaitlistEntry(entry))
}

// ResetData handles POST /v1/admin/reset-data: orders and waitlist are
// wiped, inventory returns to defaults, accounts survive.
func (h *AdminHandler) ResetData(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if err := h.Engine.ResetTransactionalData(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "transactional data reset"})
}

// ResetAll handles POST /v1/admin/reset-all: everything including user
// accounts is wiped.  The caller's own session dies with it.
func (h *AdminHandler) ResetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if err := h.Engine.ResetEverything(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all data reset"})
}
