package main

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mdprep/mdprep/internal/ptable"
	"github.com/mdprep/mdprep/internal/simconf"
)

var (
	resolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mdprep_resolves_total",
		Help: "Number of successful configuration resolutions by action",
	}, []string{"action"})

	resolveErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mdprep_resolve_errors_total",
		Help: "Number of failed configuration resolutions by error kind",
	}, []string{"kind"})

	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mdprep_resolve_duration_seconds",
		Help:    "Duration of configuration resolutions in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4.0, 10), // 10µs .. ~2.6s
	})

	reloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mdprep_config_reloads_total",
		Help: "Number of successful hot reloads of the watched config file",
	})

	watchClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mdprep_watch_clients",
		Help: "Number of currently connected watch stream clients",
	})

	lastResolveTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mdprep_last_resolve_timestamp",
		Help: "Timestamp of the last successful resolution (Unix timestamp)",
	})
)

func recordResolve(action string, duration time.Duration) {
	resolvesTotal.WithLabelValues(action).Inc()
	resolveDuration.Observe(duration.Seconds())
	lastResolveTime.Set(float64(time.Now().Unix()))
}

func recordResolveError(err error) {
	resolveErrorsTotal.WithLabelValues(classifyResolveError(err)).Inc()
}

func recordReload() {
	reloadsTotal.Inc()
}

func watchClientConnected() {
	watchClients.Inc()
}

func watchClientDisconnected() {
	watchClients.Dec()
}

// classifyResolveError maps a resolution failure onto a stable metric
// label so dashboards can tell operator mistakes apart.
func classifyResolveError(err error) string {
	var unknown *ptable.UnknownElementError
	var malformed *simconf.MalformedLJParamsError
	switch {
	case errors.Is(err, simconf.ErrNoElements):
		return "empty_elements"
	case errors.As(err, &unknown):
		return "unknown_element"
	case errors.As(err, &malformed):
		return "malformed_lj_params"
	default:
		return "invalid_document"
	}
}
