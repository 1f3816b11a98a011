package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "concierge", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concierge", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "concierge", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concierge", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	AdapterRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "concierge", Name: "adapter_runs_total", Help: "Adapter runs by outcome."},
		[]string{"slice", "outcome"},
	)
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "concierge", Name: "fetch_cycle_duration_seconds",
			Help:    "Fetch-all cycle duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	SliceUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "concierge", Name: "slice_updates_total", Help: "Committed slice values."},
		[]string{"slice"},
	)
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "concierge", Name: "upstream_breaker_state", Help: "0=closed 1=half-open 2=open."},
		[]string{"service"},
	)
	PublishEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "concierge", Name: "publish_events_total", Help: "Slice change publishes."},
		[]string{"slice", "result"}, // result: ok|error
	)
)

// Serve exposes reg on a separate addr in the background. Empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		AdapterRuns, CycleDuration, SliceUpdates, BreakerState, PublishEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records an outbound call. status 0 means no response.
func ObserveExternal(service string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service).Observe(dur.Seconds())
}

func ObserveAdapter(slice, outcome string) {
	AdapterRuns.WithLabelValues(slice, outcome).Inc()
}

func ObserveCycle(dur time.Duration) {
	CycleDuration.Observe(dur.Seconds())
}

func ObserveSliceUpdate(slice string) {
	SliceUpdates.WithLabelValues(slice).Inc()
}

func ObserveBreaker(service string, state float64) {
	BreakerState.WithLabelValues(service).Set(state)
}

func ObservePublish(slice string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	PublishEvents.WithLabelValues(slice, result).Inc()
}
