package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedulesync_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedulesync_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedulesync_assistant_intents_total",
			Help: "Chat messages by detected intent",
		},
		[]string{"intent"},
	)

	ruleApplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedulesync_rule_applications_total",
			Help: "Scheduling rules applied to bookings, by action",
		},
		[]string{"action"},
	)

	bookingsBlockedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schedulesync_bookings_blocked_total",
			Help: "Bookings refused by a block rule",
		},
	)

	bookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedulesync_bookings_created_total",
			Help: "Bookings created through the assistant, by status",
		},
		[]string{"status"},
	)

	pendingActionsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schedulesync_pending_actions_swept_total",
			Help: "Expired pending assistant actions deleted by the sweeper",
		},
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedulesync_llm_calls_total",
			Help: "Fallback LLM calls for unrecognised messages",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordIntent(intent string) {
	intentsTotal.WithLabelValues(intent).Inc()
}

func RecordRuleApplied(action string) {
	ruleApplicationsTotal.WithLabelValues(action).Inc()
}

func RecordBookingBlocked() {
	bookingsBlockedTotal.Inc()
}

func RecordBookingCreated(status string) {
	bookingsCreatedTotal.WithLabelValues(status).Inc()
}

func RecordPendingActionsSwept(n int64) {
	if n > 0 {
		pendingActionsSweptTotal.Add(float64(n))
	}
}

func RecordLLMCall(status string) {
	llmCallsTotal.WithLabelValues(status).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
