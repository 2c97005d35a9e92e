// Package monitoring exposes Prometheus metrics for the ticket engine
// and an Echo middleware that records per-request figures.
package monitoring

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	orderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order lifecycle transitions by resulting status",
		},
		[]string{"status"},
	)

	ticketsReserved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_reserved_total",
			Help: "Tickets moved from available to sold, by class",
		},
		[]string{"ticket_class"},
	)

	ticketsReleased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_released_total",
			Help: "Tickets returned to the pool by cancellations, by class",
		},
		[]string{"ticket_class"},
	)

	waitlistJoins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_joins_total",
			Help: "Waitlist entries created, by class",
		},
		[]string{"ticket_class"},
	)
)

// TrackOrderTransition records one lifecycle transition.
func TrackOrderTransition(status string) {
	orderTransitions.WithLabelValues(status).Inc()
}

// TrackTicketsReserved records stock committed to an order.
func TrackTicketsReserved(class string, quantity int) {
	ticketsReserved.WithLabelValues(class).Add(float64(quantity))
}

// TrackTicketsReleased records stock returned by a cancellation.
func TrackTicketsReleased(class string, quantity int) {
	ticketsReleased.WithLabelValues(class).Add(float64(quantity))
}

// TrackWaitlistJoin records one new waitlist entry.
func TrackWaitlistJoin(class string) {
	waitlistJoins.WithLabelValues(class).Inc()
}

// RequestMetrics returns an Echo middleware that counts requests and
// observes latency per route.
func RequestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler returns the /metrics endpoint handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
