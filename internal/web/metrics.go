package web

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	fiberlog "github.com/vigil-vms/vigil/internal/logger/adapter/fiber"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

var (
	httpRequests = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "vigil_http_requests_total",
			Help: "Number of API requests, by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "vigil_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// recordRequest counts and times API requests per matched route.
func recordRequest(_ *fiber.Ctx, e fiberlog.Entry) {
	if !strings.HasPrefix(e.Route, handler.APIPrefix) {
		return
	}

	httpRequests.WithLabelValues(e.Method, e.Route, strconv.Itoa(e.Status)).Inc()
	httpDuration.WithLabelValues(e.Method, e.Route).Observe(e.Duration.Seconds())
}
