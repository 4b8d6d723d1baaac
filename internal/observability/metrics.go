// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the Record* helpers.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Bot metrics
	UpdatesReceived *prometheus.CounterVec
	UpdatesInFlight prometheus.Gauge
	MessagesSent    *prometheus.CounterVec

	// Analysis metrics
	AnalysesTotal     *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	ScoreDistribution prometheus.Histogram

	// Upstream metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec

	// Screenshot metrics
	ScreenshotsTotal   *prometheus.CounterVec
	ScreenshotDuration prometheus.Histogram

	// Session store metrics
	SessionOpDuration *prometheus.HistogramVec
	SessionOpErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAnalysis prometheus.Gauge
	StartTime              prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "bubblemaps_bot"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Bot metrics
		UpdatesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "updates_received_total",
			Help:      "Total number of Telegram updates received by kind",
		}, []string{"kind"}),
		UpdatesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "updates_in_flight",
			Help:      "Number of updates currently being handled",
		}),
		MessagesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "messages_sent_total",
			Help:      "Total number of outgoing Telegram calls by kind and outcome",
		}, []string{"kind", "outcome"}),

		// Analysis metrics
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total number of token analyses by chain and outcome",
		}, []string{"chain", "outcome"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end analysis duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ScoreDistribution: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "decentralization_score",
			Help:      "Distribution of computed decentralization scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),

		// Upstream metrics
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream API requests by provider and outcome",
		}, []string{"provider", "outcome"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_latency_seconds",
			Help:      "Upstream API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),

		// Screenshot metrics
		ScreenshotsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screenshot",
			Name:      "captures_total",
			Help:      "Total number of bubble map captures by outcome",
		}, []string{"outcome"}),
		ScreenshotDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "screenshot",
			Name:      "duration_seconds",
			Help:      "Bubble map capture duration in seconds",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 90},
		}),

		// Session store metrics
		SessionOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "operation_duration_seconds",
			Help:      "Session store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		SessionOpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "operation_errors_total",
			Help:      "Total number of session store errors",
		}, []string{"backend", "operation"}),

		// Health metrics
		LastSuccessfulAnalysis: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis",
		}),
		StartTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "start_time_seconds",
			Help:      "Unix timestamp of process start",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// RecordUpdate counts an incoming update of the given kind.
func RecordUpdate(kind string) {
	DefaultMetrics.UpdatesReceived.WithLabelValues(kind).Inc()
}

// TrackInFlight increments the in-flight gauge and returns its release.
func TrackInFlight() func() {
	DefaultMetrics.UpdatesInFlight.Inc()
	return DefaultMetrics.UpdatesInFlight.Dec
}

// RecordSend records an outgoing Telegram call.
func RecordSend(kind string, err error) {
	DefaultMetrics.MessagesSent.WithLabelValues(kind, outcome(err)).Inc()
}

// RecordAnalysis records a finished analysis. outcomeLabel is free-form
// ("ok", "partial", "failed", "canceled").
func RecordAnalysis(chain, outcomeLabel string, d time.Duration) {
	DefaultMetrics.AnalysesTotal.WithLabelValues(chain, outcomeLabel).Inc()
	DefaultMetrics.AnalysisDuration.Observe(d.Seconds())
	if outcomeLabel == "ok" {
		DefaultMetrics.LastSuccessfulAnalysis.SetToCurrentTime()
	}
}

// RecordScore observes a computed decentralization score.
func RecordScore(score float64) {
	DefaultMetrics.ScoreDistribution.Observe(score)
}

// RecordUpstream records an upstream request to provider.
func RecordUpstream(provider string, d time.Duration, err error) {
	DefaultMetrics.UpstreamLatency.WithLabelValues(provider).Observe(d.Seconds())
	DefaultMetrics.UpstreamRequests.WithLabelValues(provider, outcome(err)).Inc()
}

// RecordScreenshot records a bubble map capture.
func RecordScreenshot(d time.Duration, err error) {
	DefaultMetrics.ScreenshotDuration.Observe(d.Seconds())
	DefaultMetrics.ScreenshotsTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordSessionOp records session store metrics.
func RecordSessionOp(backend, operation string, d time.Duration, err error) {
	DefaultMetrics.SessionOpDuration.WithLabelValues(backend, operation).Observe(d.Seconds())
	if err != nil {
		DefaultMetrics.SessionOpErrors.WithLabelValues(backend, operation).Inc()
	}
}

// MarkStarted sets the process start gauge.
func MarkStarted() {
	DefaultMetrics.StartTime.SetToCurrentTime()
}
