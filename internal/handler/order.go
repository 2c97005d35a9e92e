package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/engine"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/monitoring"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/repository"
	queue_publisher "github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/service"
)

// OrderHandler serves the customer-facing order endpoints.  All methods
// except the ticket listing assume JWT authentication has already run.
type OrderHandler struct {
	Engine *engine.Engine
	Users  *repository.UserRepo
}

// NewOrderHandler constructs an OrderHandler.  Dependencies must be
// non-nil.
func NewOrderHandler(eng *engine.Engine, users *repository.UserRepo) *OrderHandler {
	if eng == nil || users == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Engine: eng, Users: users}
}

// ListTicketClasses handles GET /v1/tickets.  It is public so guests
// can see prices and availability before registering.
func (h *OrderHandler) ListTicketClasses(c echo.Context) error {
	classes, err := h.Engine.ListTicketClasses(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket_classes": viewTicketClasses(classes)})
}

type createOrderReq struct {
	Items []engine.LineRequest `json:"items"`
}

// CreateOrder handles POST /v1/orders.  The body carries the requested
// items; the customer's name and email are taken from their account,
// not the request.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	order, err := h.Engine.CreateOrder(ctx, engine.UserIdentity{
		ID:    u.ID,
		Name:  u.DisplayName(),
		Email: u.Email,
	}, req.Items)
	if err != nil {
		return engineError(c, err)
	}
	monitoring.TrackOrderTransition(string(order.Status))
	return c.JSON(http.StatusCreated, viewOrder(order))
}

// GetOrder handles GET /v1/orders/:id for the order's owner.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Engine.GetOrderForUser(c.Request().Context(), orderID, uid)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, viewOrder(order))
}

// ListMyOrders handles GET /v1/my-orders, newest first.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Engine.ListOrdersForUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": viewOrders(orders)})
}

// CancelOrder handles POST /v1/orders/:id/cancel.  On success the
// released stock is reflected immediately and a cancellation event is
// published for the audit trail.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Engine.CancelOrder(ctx, orderID, uid)
	if err != nil {
		return engineError(c, err)
	}
	monitoring.TrackOrderTransition(string(order.Status))
	for _, line := range order.Lines {
		monitoring.TrackTicketsReleased(string(line.Kind), line.Quantity)
	}
	// Publish after commit; a broker outage must not fail the refund.
	_ = queue_publisher.PublishOrderCancelled(c.Request().Context(), order)

	return c.JSON(http.StatusOK, viewOrder(order))
}

type joinWaitlistReq struct {
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	TicketClass string `json:"ticket_class"`
	Quantity    int    `json:"quantity"`
}

// JoinWaitlist handles POST /v1/waitlist.  The endpoint is public so
// would-be customers can leave their contact details for a sold-out
// class without creating an account.
func (h *OrderHandler) JoinWaitlist(c echo.Context) error {
	var req joinWaitlistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	entry, err := h.Engine.JoinWaitlist(c.Request().Context(), req.UserName, req.UserEmail, req.TicketClass, req.Quantity)
	if err != nil {
		return engineError(c, err)
	}
	monitoring.TrackWaitlistJoin(string(entry.Kind))
	return c.JSON(http.StatusCreated, viewWaitlistEntry(entry))
}
