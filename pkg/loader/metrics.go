package loader

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the load pipeline. A nil
// *Metrics is valid and records nothing, so loaders can call the
// helpers unconditionally.
type Metrics struct {
	rowsLoaded   prometheus.Counter
	filesTotal   *prometheus.CounterVec
	fileDuration prometheus.Histogram
}

// NewMetrics creates and registers all loader metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		rowsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dbf2sql_rows_loaded_total",
			Help: "Total number of rows written to the destination",
		}),
		filesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dbf2sql_files_total",
			Help: "Total number of files processed",
		}, []string{"status"}),
		fileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dbf2sql_file_load_duration_seconds",
			Help:    "Wall-clock duration of one file's load",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// RecordRowLoaded counts one row written to the destination.
func (m *Metrics) RecordRowLoaded() {
	if m == nil {
		return
	}
	m.rowsLoaded.Inc()
}

// RecordFile counts one processed file and its duration.
func (m *Metrics) RecordFile(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.filesTotal.WithLabelValues(status).Inc()
	m.fileDuration.Observe(d.Seconds())
}
