package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "jan"
	subsystem = "chat_assistant"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "llm_duration_seconds",
			Help:      "Model provider call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "operation"},
	)

	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "provider_errors_total",
			Help:      "Total outbound provider call failures",
		},
		[]string{"provider", "operation"},
	)

	PolicyBlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "policy_blocks_total",
			Help:      "Prompts replaced by a safe reply",
		},
		[]string{"reason"},
	)

	ChatOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_outcomes_total",
			Help:      "Chat turns by outcome",
		},
		[]string{"outcome"},
	)

	CatalogCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by result (hit, miss, stale)",
		},
		[]string{"result"},
	)

	TitlesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "titles_generated_total",
			Help:      "Title generations by status",
		},
		[]string{"status"},
	)

	BoardSyncItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "board_sync_items_total",
			Help:      "Board items by sync result (created, updated, skipped, failed)",
		},
		[]string{"result"},
	)

	BackgroundTasksInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "background_tasks_in_flight",
			Help:      "Background tasks currently running",
		},
	)

	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "auth_requests_total",
			Help:      "Total register/login requests",
		},
		[]string{"action", "status"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

func RecordLLMDuration(model, operation string, durationSec float64) {
	LLMDuration.WithLabelValues(model, operation).Observe(durationSec)
}

func RecordProviderError(provider, operation string) {
	ProviderErrorsTotal.WithLabelValues(provider, operation).Inc()
}

func RecordPolicyBlock(reason string) {
	PolicyBlocksTotal.WithLabelValues(labelOrUnknown(reason)).Inc()
}

func RecordChatOutcome(outcome string) {
	ChatOutcomesTotal.WithLabelValues(labelOrUnknown(outcome)).Inc()
}

func RecordCatalogCache(result string) {
	CatalogCacheTotal.WithLabelValues(result).Inc()
}

func RecordTitle(status string) {
	TitlesGeneratedTotal.WithLabelValues(status).Inc()
}

func RecordBoardSyncItem(result string) {
	BoardSyncItemsTotal.WithLabelValues(result).Inc()
}

func RecordAuth(action, status string) {
	AuthRequestsTotal.WithLabelValues(action, status).Inc()
}

func labelOrUnknown(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
