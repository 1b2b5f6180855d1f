package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the bookmark collection.
type Metrics struct {
	Mutations       *prometheus.CounterVec
	Seeded          prometheus.Counter
	StoreFailures   *prometheus.CounterVec
	OperationLength *prometheus.HistogramVec
}

// New registers the bookmark metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkshelf_bookmark_mutations_total",
			Help: "Successful collection mutations by operation",
		}, []string{"op"}),
		Seeded: f.NewCounter(prometheus.CounterOpts{
			Name: "linkshelf_collection_seeded_total",
			Help: "Times an empty collection was populated with the default set",
		}),
		StoreFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "linkshelf_store_failures_total",
			Help: "Store calls that failed, by operation",
		}, []string{"op"}),
		OperationLength: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linkshelf_bookmark_operation_duration_seconds",
			Help:    "Duration of collection operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
	}
}

func (m *Metrics) IncMutation(op string) {
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) IncSeeded() {
	m.Seeded.Inc()
}

func (m *Metrics) IncStoreFailure(op string) {
	m.StoreFailures.WithLabelValues(op).Inc()
}

// ObserveOperation records the duration of op. Call with the start time.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationLength.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
