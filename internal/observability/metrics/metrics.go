// Package metrics provides Prometheus metrics for the transcriber.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transcriber"

// Metrics holds all Prometheus metrics for the streaming transcriber.
type Metrics struct {
	// Per-frame latency metrics, unit seconds. AvgLatency records the
	// duration-weighted latency product as emitted by the session engine;
	// the literal computation is preserved, not a time-unit average.
	AvgLatency prometheus.Histogram
	MaxLatency prometheus.Histogram
	MinLatency prometheus.Histogram
	Duration   prometheus.Histogram

	// Session metrics
	RestartsTotal  prometheus.Counter
	SessionsActive prometheus.Gauge

	// Transcription metrics
	TranscriptionsPartial prometheus.Counter
	TranscriptionsFinal   prometheus.Counter

	// Audio metrics
	AudioBytesSent  prometheus.Counter
	AudioChunksSent prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the process-wide metrics instance.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates and registers all metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	latencyBuckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

	return &Metrics{
		AvgLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "avg_latency_seconds",
			Help:      "Duration-weighted recognition latency per frame",
			Buckets:   latencyBuckets,
		}),
		MaxLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "max_latency_seconds",
			Help:      "Upper latency bound per recognition frame",
			Buckets:   latencyBuckets,
		}),
		MinLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "min_latency_seconds",
			Help:      "Lower latency bound per recognition frame, floored at zero",
			Buckets:   latencyBuckets,
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Audio duration covered by each recognition frame",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		RestartsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Total number of completed connection attempts",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently running transcription sessions",
		}),

		TranscriptionsPartial: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_partial_total",
			Help:      "Total number of partial transcription events emitted",
		}),
		TranscriptionsFinal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_final_total",
			Help:      "Total number of finalized utterances emitted",
		}),

		AudioBytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_sent_total",
			Help:      "Total audio bytes forwarded to the recognition service",
		}),
		AudioChunksSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_chunks_sent_total",
			Help:      "Total audio chunks forwarded to the recognition service",
		}),

		KafkaPublishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordFrame records the four per-frame latency observations.
func (m *Metrics) RecordFrame(avgLatency, duration, maxLatency, minLatency float64) {
	m.AvgLatency.Observe(avgLatency)
	m.Duration.Observe(duration)
	m.MaxLatency.Observe(maxLatency)
	m.MinLatency.Observe(minLatency)
}

// RecordRestart records a completed connection attempt.
func (m *Metrics) RecordRestart() {
	m.RestartsTotal.Inc()
}

// RecordSessionStart records a session entering its run loop.
func (m *Metrics) RecordSessionStart() {
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session reaching a terminal state.
func (m *Metrics) RecordSessionEnd() {
	m.SessionsActive.Dec()
}

// RecordTranscription records an emitted transcription event.
func (m *Metrics) RecordTranscription(isFinal bool) {
	if isFinal {
		m.TranscriptionsFinal.Inc()
	} else {
		m.TranscriptionsPartial.Inc()
	}
}

// RecordAudioSent records an audio chunk forwarded on the connection.
func (m *Metrics) RecordAudioSent(bytes int) {
	m.AudioBytesSent.Add(float64(bytes))
	m.AudioChunksSent.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
