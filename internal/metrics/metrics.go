// Package metrics exposes Prometheus collectors for record reads, decode
// failures and command submissions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cipher_client"

const (
	ResultOK      = "ok"
	ResultAbsent  = "absent"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

type ClientMetrics struct {
	reads          *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	submits        *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg keeps them unregistered,
// which tests use to avoid global state.
func New(reg prometheus.Registerer) (*ClientMetrics, error) {
	m := &ClientMetrics{
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Ledger reads issued by the record client.",
		}, []string{"operation", "result"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Fetched records that failed to decode.",
		}, []string{"kind"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submits_total",
			Help:      "Instructions handed to the submitter.",
		}, []string{"instruction", "result"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.reads, m.decodeFailures, m.submits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Noop returns unregistered collectors.
func Noop() *ClientMetrics {
	m, _ := New(nil)
	return m
}

func (m *ClientMetrics) RecordRead(operation, result string) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(operation, result).Inc()
}

func (m *ClientMetrics) RecordDecodeFailure(kind string) {
	if m == nil {
		return
	}
	m.decodeFailures.WithLabelValues(kind).Inc()
}

func (m *ClientMetrics) RecordSubmit(instruction, result string) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(instruction, result).Inc()
}

// ReadCounter exposes a single series for inspection.
func (m *ClientMetrics) ReadCounter(operation, result string) prometheus.Counter {
	return m.reads.WithLabelValues(operation, result)
}

func (m *ClientMetrics) DecodeFailureCounter(kind string) prometheus.Counter {
	return m.decodeFailures.WithLabelValues(kind)
}

func (m *ClientMetrics) SubmitCounter(instruction, result string) prometheus.Counter {
	return m.submits.WithLabelValues(instruction, result)
}
