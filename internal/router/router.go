// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/handler"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/middleware"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/monitoring"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check, the Prometheus scrape endpoint, the public ticket
// listing and the waitlist join form.  The cache middleware is applied
// only to the ticket listing; everything else is per-user or a write.
func RegisterRoutes(e *echo.Echo, o *handler.OrderHandler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", monitoring.Handler())
	e.GET("/v1/tickets", o.ListTicketClasses, cache)
	e.POST("/v1/waitlist", o.JoinWaitlist)
}

// RegisterAuth registers authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh token in the body, so no JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("USER", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterOrders registers the customer order endpoints under /v1.
// All of them require a valid JWT; admins may also place orders.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	g.POST("/orders", o.CreateOrder)
	g.GET("/orders/:id", o.GetOrder)
	g.POST("/orders/:id/cancel", o.CancelOrder)
	g.GET("/my-orders", o.ListMyOrders)
}

// RegisterAdmin registers the admin surface under /v1/admin.  Every
// route requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, x *handler.ExportHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/stats", a.Stats)
	g.GET("/orders", a.ListOrders)
	g.POST("/orders/:id/approve", a.ApproveOrder)
	g.POST("/orders/:id/reject", a.RejectOrder)
	g.POST("/orders/:id/complete", a.CompleteOrder)
	g.POST("/restock", a.Restock)
	g.POST("/waitlist/:id/fulfill", a.FulfillWaitlist)
	g.POST("/reset-data", a.ResetData)
	g.POST("/reset-all", a.ResetAll)
	g.GET("/export/orders.csv", x.ExportOrders)
	g.GET("/export/summary.csv", x.ExportSummary)
}
