// Package metrics exposes Prometheus collectors for the HTTP layer and the
// session subsystem.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth outcomes recorded by AuthEvents.
const (
	AuthSignup          = "signup"
	AuthLogin           = "login"
	AuthLoginFailed     = "login_failed"
	AuthRefresh         = "refresh"
	AuthRefreshRejected = "refresh_rejected"
	AuthLogout          = "logout"
)

var (
	requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartify",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cartify",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	authEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartify",
		Name:      "auth_events_total",
		Help:      "Session subsystem outcomes.",
	}, []string{"event"})

	ordersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cartify",
		Name:      "orders_placed_total",
		Help:      "Orders persisted.",
	})
)

func init() {
	prometheus.MustRegister(requests, latency, authEvents, ordersPlaced)
}

// AuthEvent increments the counter for one session outcome.
func AuthEvent(event string) {
	authEvents.WithLabelValues(event).Inc()
}

// OrderPlaced increments the placed orders counter.
func OrderPlaced() {
	ordersPlaced.Inc()
}

// Middleware records request counts and latency keyed by the route pattern,
// not the raw path, to keep label cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Render now so the recorded status is the one the client sees.
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			latency.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
