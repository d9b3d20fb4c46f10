package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gl-labs/groundlink/pkg/frame"
	"github.com/gl-labs/groundlink/pkg/series"
)

// Metrics holds the pipeline's Prometheus instruments. A nil *Metrics is
// valid and disables collection entirely (nil registry = nil metrics).
type Metrics struct {
	valuesIngested prometheus.Counter
	eventsDropped  prometheus.Counter
}

// NewMetrics registers pipeline metrics with the given registry. Decoder
// counters and store occupancy are exported as collector functions over
// their owners' atomic snapshots, so the hot path carries no extra
// instrumentation cost. Returns nil if registry is nil.
func NewMetrics(registry *prometheus.Registry, dec *frame.Decoder, store *series.Store) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		valuesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "groundlink",
			Subsystem: "pipeline",
			Name:      "values_ingested_total",
			Help:      "Decoded field values appended to the store",
		}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "groundlink",
			Subsystem: "pipeline",
			Name:      "subscriber_events_dropped_total",
			Help:      "Decoded-value events dropped because a subscriber channel was full",
		}),
	}
	registry.MustRegister(m.valuesIngested, m.eventsDropped)

	registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "groundlink",
		Subsystem: "decoder",
		Name:      "frames_total",
		Help:      "Checksum-verified frames decoded",
	}, func() float64 { return float64(dec.Stats().Frames) }))

	registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "groundlink",
		Subsystem: "decoder",
		Name:      "crc_failures_total",
		Help:      "Frames dropped on checksum mismatch",
	}, func() float64 { return float64(dec.Stats().CRCFailures) }))

	registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "groundlink",
		Subsystem: "decoder",
		Name:      "unknown_messages_total",
		Help:      "Frames dropped because their id is not in the active dialect",
	}, func() float64 { return float64(dec.Stats().UnknownMessages) }))

	registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "groundlink",
		Subsystem: "decoder",
		Name:      "garbage_bytes_total",
		Help:      "Bytes skipped while scanning for a start marker",
	}, func() float64 { return float64(dec.Stats().GarbageBytes) }))

	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "groundlink",
		Subsystem: "store",
		Name:      "fields",
		Help:      "Field keys currently held by the store",
	}, func() float64 { return float64(store.NumFields()) }))

	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "groundlink",
		Subsystem: "store",
		Name:      "samples",
		Help:      "Total retained samples across all fields",
	}, func() float64 { return float64(store.NumSamples()) }))

	return m
}

func (m *Metrics) addIngested(n int) {
	if m == nil {
		return
	}
	m.valuesIngested.Add(float64(n))
}

func (m *Metrics) addDropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.eventsDropped.Add(float64(n))
}
