package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	devledger = "devledger"

	// Publish pipeline metrics
	publishOperationsTotal  = "publish_operations_total"
	publishDurationSeconds  = "publish_duration_seconds"
	analysisCacheTotal      = "analysis_cache_requests_total"
	ledgerNodeRequestsTotal = "ledger_node_requests_total"

	// Labels
	entityTypeLabel   = "entity_type"
	statusLabel       = "status"
	cacheOutcomeLabel = "outcome"
)

// Cache outcomes
const (
	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheRaceLost = "race_lost"
)

var publishOperationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: devledger,
		Name:      publishOperationsTotal,
		Help:      "number of publish operations reaching each status",
	},
	[]string{entityTypeLabel, statusLabel},
)

var publishDurationSecondsMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: devledger,
		Name:      publishDurationSeconds,
		Help:      "time from submission to terminal publish state",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	},
	[]string{entityTypeLabel},
)

var analysisCacheTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: devledger,
		Name:      analysisCacheTotal,
		Help:      "analysis cache lookups partitioned by outcome",
	},
	[]string{cacheOutcomeLabel},
)

var ledgerNodeRequestsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: devledger,
		Name:      ledgerNodeRequestsTotal,
		Help:      "outbound calls to the ledger node partitioned by result",
	},
	[]string{statusLabel},
)

func IncreasePublishOperation(entityType, status string) {
	publishOperationsTotalMetric.With(prometheus.Labels{
		entityTypeLabel: entityType,
		statusLabel:     status,
	}).Inc()
}

func ObservePublishDuration(entityType string, d time.Duration) {
	publishDurationSecondsMetric.With(prometheus.Labels{
		entityTypeLabel: entityType,
	}).Observe(d.Seconds())
}

func IncreaseAnalysisCache(outcome string) {
	analysisCacheTotalMetric.With(prometheus.Labels{cacheOutcomeLabel: outcome}).Inc()
}

func IncreaseLedgerNodeRequest(result string) {
	ledgerNodeRequestsTotalMetric.With(prometheus.Labels{statusLabel: result}).Inc()
}

type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}

func init() {
	prometheus.MustRegister(
		publishOperationsTotalMetric,
		publishDurationSecondsMetric,
		analysisCacheTotalMetric,
		ledgerNodeRequestsTotalMetric,
	)
}
