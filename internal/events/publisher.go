// Package events publishes transcription events to Kafka for downstream
// consumers. The transcriber core does not depend on this package; it is the
// outer boundary attached in cmd.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"realtime-transcriber/internal/models"
	"realtime-transcriber/internal/observability/metrics"
	"realtime-transcriber/internal/transcriber"
)

// Publisher publishes transcription events to separate Kafka topics for
// partial and final transcripts.
type Publisher struct {
	writerPartial *kafka.Writer
	writerFinal   *kafka.Writer
	topicPartial  string
	topicFinal    string
	enabled       bool
	metrics       *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers      []string
	TopicPartial string
	TopicFinal   string
	Enabled      bool
}

// New creates a new Kafka event publisher. A nil or disabled config yields a
// log-only publisher, so callers never need to branch.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		p := &Publisher{enabled: false, metrics: m}
		if cfg != nil {
			p.topicPartial = cfg.TopicPartial
			p.topicFinal = cfg.TopicFinal
		}
		return p
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicPartial", cfg.TopicPartial).
		Str("topicFinal", cfg.TopicFinal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerPartial: newWriter(cfg.TopicPartial),
		writerFinal:   newWriter(cfg.TopicFinal),
		topicPartial:  cfg.TopicPartial,
		topicFinal:    cfg.TopicFinal,
		enabled:       true,
		metrics:       m,
	}
}

// Publish converts a transcription event to its wire model and publishes it
// to the matching topic, keyed by session ID.
func (p *Publisher) Publish(ctx context.Context, sessionID string, tr transcriber.Transcription) error {
	now := time.Now().UnixMilli()
	if tr.IsFinal {
		ev := models.TranscriptFinal{
			EventType:  "transcript.final",
			SessionID:  sessionID,
			Timestamp:  now,
			Text:       tr.Message,
			Confidence: tr.Confidence,
		}
		return p.publish(ctx, p.writerFinal, p.topicFinal, "final", sessionID, ev)
	}
	ev := models.TranscriptPartial{
		EventType:  "transcript.partial",
		SessionID:  sessionID,
		Timestamp:  now,
		Text:       tr.Message,
		Confidence: tr.Confidence,
	}
	return p.publish(ctx, p.writerPartial, p.topicPartial, "partial", sessionID, ev)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerPartial != nil {
		if e := p.writerPartial.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing partial writer")
			err = e
		}
	}
	if p.writerFinal != nil {
		if e := p.writerFinal.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing final writer")
			err = e
		}
	}
	return err
}
