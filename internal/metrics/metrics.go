package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "koperasi"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	contributionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wastebank",
			Name:      "contributions_total",
			Help:      "Waste contributions recorded, by waste type.",
		},
		[]string{"waste_type"},
	)

	contributedWeight = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wastebank",
			Name:      "contributed_weight_kg_total",
			Help:      "Kilograms of waste recorded, by waste type.",
		},
		[]string{"waste_type"},
	)

	pointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wastebank",
			Name:      "points_awarded_total",
			Help:      "Points credited to members for contributions.",
		},
	)

	pickupTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wastebank",
			Name:      "pickup_status_transitions_total",
			Help:      "Pickup request status changes, by target status.",
		},
		[]string{"status"},
	)

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "WhatsApp notifications attempted, by type and outcome.",
		},
		[]string{"type", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		contributionsCreated,
		contributedWeight,
		pointsAwarded,
		pickupTransitions,
		notificationsSent,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest observes one handled request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordContribution counts a recorded contribution and the points it earned.
func RecordContribution(wasteType string, weightKg float64, points int64) {
	contributionsCreated.WithLabelValues(wasteType).Inc()
	contributedWeight.WithLabelValues(wasteType).Add(weightKg)
	if points > 0 {
		pointsAwarded.Add(float64(points))
	}
}

// RecordPickupTransition counts a pickup request moving into status.
func RecordPickupTransition(status string) {
	pickupTransitions.WithLabelValues(status).Inc()
}

// RecordNotification counts a notification send outcome.
func RecordNotification(notificationType, status string) {
	notificationsSent.WithLabelValues(notificationType, status).Inc()
}
