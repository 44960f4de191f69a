// Package metrics exposes bus activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

// Collector holds all Prometheus metrics for a bus. Attach it as a sink to
// count entries and operations, and wrap the bus fault handler with
// FaultHandler to count subscriber faults.
type Collector struct {
	EntriesTotal      *prometheus.CounterVec
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	FaultsTotal       prometheus.Counter
}

// New initializes the metrics and registers them with reg. A nil reg
// registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		EntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pocketlog",
			Name:      "entries_total",
			Help:      "Total number of posted entries by level and category.",
		}, []string{"level", "category"}),
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pocketlog",
			Name:      "operations_total",
			Help:      "Total number of completed operations by category and outcome.",
		}, []string{"category", "outcome"}), // outcome: untracked, succeeded, failed
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pocketlog",
			Name:      "operation_duration_seconds",
			Help:      "Duration of completed operations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"category"}),
		FaultsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pocketlog",
			Name:      "subscriber_faults_total",
			Help:      "Total number of subscriber panics recovered by the bus.",
		}),
	}
}

// Log counts e. It never evaluates the entry.
func (c *Collector) Log(e *log.Entry) {
	if e == nil {
		return
	}
	c.EntriesTotal.WithLabelValues(e.Level().String(), e.Category()).Inc()

	op := e.Operation()
	if op == nil || !op.IsEnd {
		return
	}
	c.OperationsTotal.WithLabelValues(e.Category(), op.Outcome.String()).Inc()
	if op.Duration != nil {
		c.OperationDuration.WithLabelValues(e.Category()).Observe(op.Duration.Seconds())
	}
}

// FaultHandler returns a log.FaultHandler that counts each fault and then
// passes it to next, if any.
func (c *Collector) FaultHandler(next log.FaultHandler) log.FaultHandler {
	return func(f log.SubscriberFault) {
		c.FaultsTotal.Inc()
		if next != nil {
			next(f)
		}
	}
}

// Compile-time interface satisfaction check.
var _ log.Sink = (*Collector)(nil)
