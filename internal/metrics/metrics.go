// Package metrics records batch outcomes as Prometheus metrics and writes them in the
// node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tickarc"

// Batch holds the metrics of one batch run. Each Batch owns its registry, so several
// runs in one process do not share counters.
type Batch struct {
	registry *prometheus.Registry

	files           *prometheus.CounterVec
	rows            prometheus.Counter
	rawBytes        prometheus.Counter
	compressedBytes prometheus.Counter
	violations      prometheus.Counter
	duration        prometheus.Histogram
	lastRun         prometheus.Gauge
}

// NewBatch creates and registers the batch metrics.
func NewBatch() *Batch {
	b := &Batch{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Input files processed, by outcome.",
		}, []string{"status"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Tick records written to archives.",
		}),
		rawBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_bytes_total",
			Help:      "Uncompressed payload bytes written.",
		}),
		compressedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_bytes_total",
			Help:      "Compressed archive bytes written.",
		}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tolerance_violations_total",
			Help:      "Values outside the quantization bound found by the self-check.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time to read, encode and write one archive.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the batch finished.",
		}),
	}

	b.registry.MustRegister(b.files, b.rows, b.rawBytes, b.compressedBytes, b.violations, b.duration, b.lastRun)

	return b
}

// Registry returns the registry holding the batch metrics.
func (b *Batch) Registry() *prometheus.Registry {
	return b.registry
}

// ObserveSuccess records one written archive.
func (b *Batch) ObserveSuccess(rows int, rawBytes, compressedBytes int64, violations int, elapsed time.Duration) {
	b.files.WithLabelValues("success").Inc()
	b.rows.Add(float64(rows))
	b.rawBytes.Add(float64(rawBytes))
	b.compressedBytes.Add(float64(compressedBytes))
	b.violations.Add(float64(violations))
	b.duration.Observe(elapsed.Seconds())
}

// ObserveFailure records one failed input. category is "format" or "io".
func (b *Batch) ObserveFailure(category string, elapsed time.Duration) {
	b.files.WithLabelValues("failed_" + category).Inc()
	b.duration.Observe(elapsed.Seconds())
}

// Finish stamps the completion time.
func (b *Batch) Finish(now time.Time) {
	b.lastRun.Set(float64(now.Unix()))
}

// WriteTextfile atomically writes all metrics to path in the text exposition format.
func (b *Batch) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, b.registry)
}
