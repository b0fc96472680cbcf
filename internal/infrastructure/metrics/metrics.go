package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess    = "success"
	ResultFailed     = "failed"
	ResultBadStatus  = "bad_status"
	ResultParseError = "parse_error"
	ResultEmptyBody  = "empty_body"
	ResultExists     = "exists"
	ResultCreated    = "created"
)

// PipelineMetrics holds the counters for both pipeline processes. A nil
// *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	FetchTotal          *prometheus.CounterVec
	PublishTotal        *prometheus.CounterVec
	ConsumedTotal       *prometheus.CounterVec
	IndexProvisionTotal *prometheus.CounterVec
	DocumentsTotal      *prometheus.CounterVec
	StageDuration       *prometheus.HistogramVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_fetch_total",
				Help: "Rate feed fetch cycles by result",
			},
			[]string{"result"},
		),
		PublishTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_publish_total",
				Help: "Messages handed to the broker by topic and result",
			},
			[]string{"topic", "result"},
		),
		ConsumedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_consumed_total",
				Help: "Messages received from the broker by topic",
			},
			[]string{"topic"},
		),
		IndexProvisionTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_index_provision_total",
				Help: "Index existence checks by result (exists, created, failed)",
			},
			[]string{"index", "result"},
		),
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_documents_written_total",
				Help: "Document writes by index and result",
			},
			[]string{"index", "result"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rates_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"stage"},
		),
	}
}

func (m *PipelineMetrics) RecordFetch(result string) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(result).Inc()
}

func (m *PipelineMetrics) RecordPublish(topic, result string) {
	if m == nil {
		return
	}
	m.PublishTotal.WithLabelValues(topic, result).Inc()
}

func (m *PipelineMetrics) RecordConsumed(topic string) {
	if m == nil {
		return
	}
	m.ConsumedTotal.WithLabelValues(topic).Inc()
}

func (m *PipelineMetrics) RecordProvision(index, result string) {
	if m == nil {
		return
	}
	m.IndexProvisionTotal.WithLabelValues(index, result).Inc()
}

func (m *PipelineMetrics) RecordDocument(index, result string) {
	if m == nil {
		return
	}
	m.DocumentsTotal.WithLabelValues(index, result).Inc()
}

func (m *PipelineMetrics) ObserveStage(stage string, started time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}
