package metrics

import (
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    conversions = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "docsmith",
            Name:      "conversions_total",
            Help:      "Total conversion requests by operation and result",
        },
        []string{"operation", "result"},
    )

    conversionLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "docsmith",
            Name:      "conversion_duration_seconds",
            Help:      "Duration of conversion execution by operation",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"operation"},
    )

    artifacts = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "docsmith",
            Name:      "artifacts_total",
            Help:      "Artifacts produced, by response kind (single, archive)",
        },
        []string{"kind"},
    )

    overlays = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "docsmith",
            Name:      "overlay_instructions_total",
            Help:      "Overlay instructions processed, by result (applied, skipped, dropped, failed)",
        },
        []string{"result"},
    )

    sessionsCreated = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "docsmith",
            Name:      "sessions_created_total",
            Help:      "Total form-fill sessions created",
        },
    )
)

// Init registers collectors.
func Init() {
    prometheus.MustRegister(conversions, conversionLatency, artifacts, overlays, sessionsCreated)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveConversion(operation, result string, dur time.Duration) {
    conversions.WithLabelValues(operation, result).Inc()
    conversionLatency.WithLabelValues(operation).Observe(dur.Seconds())
}

func IncArtifact(kind string)   { artifacts.WithLabelValues(kind).Inc() }
func IncOverlay(result string)  { overlays.WithLabelValues(result).Inc() }
func IncSessionCreated()        { sessionsCreated.Inc() }
