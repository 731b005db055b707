package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineMetrics holds all Prometheus metrics for the analytics service.
type EngineMetrics struct {
	RefreshesTotal    *prometheus.CounterVec
	SnapshotRecords   prometheus.Gauge
	DerivationSeconds prometheus.Histogram
	ExportsTotal      prometheus.Counter
	UploadsTotal      *prometheus.CounterVec
	SyncBatchesTotal  *prometheus.CounterVec
	JournalActive     prometheus.Gauge
}

// NewEngineMetrics initializes and registers the Prometheus metrics.
func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		RefreshesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadwatch",
			Subsystem: "engine",
			Name:      "refreshes_total",
			Help:      "Total number of raw-set refreshes by status.",
		}, []string{"status"}), // status: ok, error
		SnapshotRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "roadwatch",
			Subsystem: "engine",
			Name:      "snapshot_records",
			Help:      "Number of records in the current raw snapshot.",
		}),
		DerivationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadwatch",
			Subsystem: "engine",
			Name:      "derivation_seconds",
			Help:      "Time spent deriving a dashboard view.",
			Buckets:   prometheus.DefBuckets,
		}),
		ExportsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "roadwatch",
			Subsystem: "engine",
			Name:      "exports_total",
			Help:      "Total number of CSV exports generated.",
		}),
		UploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadwatch",
			Subsystem: "ingest",
			Name:      "uploads_total",
			Help:      "Total number of image uploads by status.",
		}, []string{"status"}), // status: accepted, error_media_type, error_store, error_write
		SyncBatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadwatch",
			Subsystem: "ingest",
			Name:      "sync_batches_total",
			Help:      "Total number of collector sync batches by status.",
		}, []string{"status"}),
		JournalActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "roadwatch",
			Subsystem: "ingest",
			Name:      "journal_active_gauge",
			Help:      "Indicates if the record journal holds unflushed entries (1 for active).",
		}),
	}
}
