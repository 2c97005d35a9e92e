package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/engine"
)

// ExportHandler streams CSV reports for the admin.  Exports are read
// only and reflect the database at the moment of the request.
type ExportHandler struct {
	Engine *engine.Engine
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(eng *engine.Engine) *ExportHandler {
	if eng == nil {
		panic("nil engine passed to NewExportHandler")
	}
	return &ExportHandler{Engine: eng}
}

const csvTimeLayout = "2006-01-02 15:04:05"

// ExportOrders handles GET /v1/admin/export/orders.csv.  Each row is
// one order line so spreadsheet tools can pivot by class; order totals
// repeat on every row of the same order.
func (h *ExportHandler) ExportOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	orders, err := h.Engine.ListOrders(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="orders-%s.csv"`, time.Now().UTC().Format("2006-01-02")))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	header := []string{"order_id", "user_name", "user_email", "status", "ticket_class", "quantity", "price_at_purchase", "line_subtotal", "order_total", "created_at", "completed_at", "admin_notes"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range orders {
		o := &orders[i]
		completed := ""
		if o.CompletedAt != nil {
			completed = o.CompletedAt.UTC().Format(csvTimeLayout)
		}
		for _, l := range o.Lines {
			row := []string{
				strconv.FormatUint(o.ID, 10),
				o.UserName,
				o.UserEmail,
				string(o.Status),
				string(l.Kind),
				strconv.Itoa(l.Quantity),
				l.PriceAtPurchase.StringFixed(2),
				l.Subtotal().StringFixed(2),
				o.TotalAmount.StringFixed(2),
				o.CreatedAt.UTC().Format(csvTimeLayout),
				completed,
				o.AdminNotes,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// ExportSummary handles GET /v1/admin/export/summary.csv: one row per
// ticket class with sales figures, plus revenue totals.
func (h *ExportHandler) ExportSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	s, err := h.Engine.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="summary-%s.csv"`, time.Now().UTC().Format("2006-01-02")))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"ticket_class", "price", "available", "sold", "gross_sales"}); err != nil {
		return err
	}
	for _, t := range s.TicketClasses {
		gross := t.Price.Mul(decimal.NewFromInt(int64(t.Sold)))
		row := []string{
			string(t.Kind),
			t.Price.StringFixed(2),
			strconv.Itoa(t.Available),
			strconv.Itoa(t.Sold),
			gross.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	if err := w.Write([]string{"total_revenue", s.TotalRevenue.StringFixed(2), "", "", ""}); err != nil {
		return err
	}
	if err := w.Write([]string{"completed_orders", strconv.Itoa(s.CompletedOrders), "", "", ""}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
