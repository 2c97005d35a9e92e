package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/engine"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// getUserID extracts the authenticated user's ID from the context.  It
// fails only when a handler is reached without the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	uid, ok := c.Get("user_id").(uint64)
	if !ok || uid == 0 {
		return 0, errors.New("no user in context")
	}
	return uid, nil
}

// ----- shared views -----

type orderLineView struct {
	TicketClass     string `json:"ticket_class"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
	Subtotal        string `json:"subtotal"`
}

type orderView struct {
	ID          uint64          `json:"id"`
	UserID      uint64          `json:"user_id"`
	UserName    string          `json:"user_name"`
	UserEmail   string          `json:"user_email"`
	Status      string          `json:"status"`
	TotalAmount string          `json:"total_amount"`
	AdminNotes  string          `json:"admin_notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Lines       []orderLineView `json:"lines"`
}

func viewOrder(o *model.Order) orderView {
	lines := make([]orderLineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineView{
			TicketClass:     string(l.Kind),
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase.StringFixed(2),
			Subtotal:        l.Subtotal().StringFixed(2),
		})
	}
	return orderView{
		ID:          o.ID,
		UserID:      o.UserID,
		UserName:    o.UserName,
		UserEmail:   o.UserEmail,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.StringFixed(2),
		AdminNotes:  o.AdminNotes,
		CreatedAt:   o.CreatedAt,
		CompletedAt: o.CompletedAt,
		Lines:       lines,
	}
}

func viewOrders(orders []model.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for i := range orders {
		out = append(out, viewOrder(&orders[i]))
	}
	return out
}

type ticketClassView struct {
	ID        uint64 `json:"id"`
	Kind      string `json:"kind"`
	Price     string `json:"price"`
	Available int    `json:"available"`
	Sold      int    `json:"sold"`
}

func viewTicketClasses(classes []model.TicketClass) []ticketClassView {
	out := make([]ticketClassView, 0, len(classes))
	for _, t := range classes {
		out = append(out, ticketClassView{
			ID:        t.ID,
			Kind:      string(t.Kind),
			Price:     t.Price.StringFixed(2),
			Available: t.Available,
			Sold:      t.Sold,
		})
	}
	return out
}

type waitlistView struct {
	ID                uint64    `json:"id"`
	UserName          string    `json:"user_name"`
	UserEmail         string    `json:"user_email"`
	TicketClass       string    `json:"ticket_class"`
	RequestedQuantity int       `json:"requested_quantity"`
	Status            string    `json:"status"`
	JoinedAt          time.Time `json:"joined_at"`
}

func viewWaitlistEntry(e *model.WaitlistEntry) waitlistView {
	return waitlistView{
		ID:                e.ID,
		UserName:          e.UserName,
		UserEmail:         e.UserEmail,
		TicketClass:       string(e.Kind),
		RequestedQuantity: e.RequestedQuantity,
		Status:            string(e.Status),
		JoinedAt:          e.JoinedAt,
	}
}

func viewWaitlist(entries []model.WaitlistEntry) []waitlistView {
	out := make([]waitlistView, 0, len(entries))
	for i := range entries {
		out = append(out, viewWaitlistEntry(&entries[i]))
	}
	return out
}

// engineError translates engine error types to HTTP responses.  Unknown
// errors become opaque 500s so internals never leak to clients.
func engineError(c echo.Context, err error) error {
	var vErr *engine.ValidationError
	var cErr *engine.ConflictError
	var sErr *engine.InsufficientStockError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, engine.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Error()})
	case errors.As(err, &cErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    cErr.Error(),
			"order_id": cErr.OrderID,
			"status":   string(cErr.Status),
		})
	case errors.As(err, &sErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":        sErr.Error(),
			"ticket_class": string(sErr.Kind),
			"requested":    sErr.Requested,
			"available":    sErr.Available,
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
