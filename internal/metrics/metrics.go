// Package metrics exposes the daemon's Prometheus instrumentation: ingest
// counts, scan latency, and collector run counts, grounded on
// cuemby-warren's pkg/metrics package (global counters/histograms
// registered once, a Timer helper, and a promhttp.Handler for a small
// debug HTTP listener separate from the socket protocol).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysdb_writes_total",
			Help: "Total number of store writes by entity kind and outcome",
		},
		[]string{"entity", "status"},
	)

	ScanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sysdb_scan_duration_seconds",
			Help:    "Time taken to scan and serialize the store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	CollectorRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysdb_collector_runs_total",
			Help: "Total number of collector callback invocations by plugin",
		},
		[]string{"plugin", "outcome"},
	)

	ConnectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sysdb_connections_total",
			Help: "Total number of accepted frontend connections",
		},
	)

	HostsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sysdb_hosts",
			Help: "Current number of hosts in the inventory",
		},
	)
)

func init() {
	prometheus.MustRegister(
		WritesTotal,
		ScanDuration,
		CollectorRunsTotal,
		ConnectionsTotal,
		HostsGauge,
	)
}

// Handler returns the Prometheus scrape handler for the debug HTTP
// listener.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures an operation's duration for later recording to a
// histogram.
type Timer struct {
	start time.Time
}

// NewTimer starts a Timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Observer) {
	histogram.Observe(time.Since(t.start).Seconds())
}
