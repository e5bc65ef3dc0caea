package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters for one run. drivethumbs is a batch job, so the
// registry is written to a node_exporter textfile instead of being scraped.
type Metrics struct {
	registry      *prometheus.Registry
	RowsTotal     *prometheus.CounterVec
	FolderFetches *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	ProbesTotal   *prometheus.CounterVec
	LastRun       prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drivethumbs_rows_total",
			Help: "Rows handled, by outcome",
		}, []string{"outcome"}), // processed, skipped, failed, inserted
		FolderFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drivethumbs_folder_fetches_total",
			Help: "Embedded folder view requests, by result",
		}, []string{"result"}), // ok, error, cached
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "drivethumbs_folder_fetch_seconds",
			Help:    "Latency of embedded folder view requests",
			Buckets: prometheus.DefBuckets,
		}),
		ProbesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drivethumbs_probes_total",
			Help: "Thumbnail content-type probes, by verdict",
		}, []string{"verdict"}), // image, other, error
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "drivethumbs_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
	m.registry.MustRegister(m.RowsTotal, m.FolderFetches, m.FetchDuration, m.ProbesTotal, m.LastRun)
	return m
}

func (m *Metrics) IncRows(outcome string) {
	m.RowsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFetch(result string, d time.Duration) {
	m.FolderFetches.WithLabelValues(result).Inc()
	if result != "cached" {
		m.FetchDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncProbes(verdict string) {
	m.ProbesTotal.WithLabelValues(verdict).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile stamps the run time and writes every metric to path.
func (m *Metrics) WriteTextfile(path string) error {
	m.LastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
