package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records request duration in seconds.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bozor_otp_issued_total",
		Help: "Registration codes stored for unregistered phones",
	})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bozor_registrations_total",
		Help: "Users created through the OTP registration flow",
	})

	// Notifications is labelled by stage (enqueue|deliver) and result (ok|error|dropped).
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bozor_notifications_total",
			Help: "Notification hand-offs and deliveries",
		},
		[]string{"stage", "result"},
	)
)

// Middleware records request count and latency keyed by the matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		path := c.Route().Path
		statusStr := strconv.Itoa(status)
		RequestCounter.WithLabelValues(c.Method(), path, statusStr).Inc()
		RequestDuration.WithLabelValues(c.Method(), path, statusStr).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler exposes the default registry to Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
